package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"techmart_back_end/internal/database"
	"techmart_back_end/internal/models"

	"github.com/alicebob/miniredis/v2"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type cartPayload struct {
	Items     []models.CartLine `json:"items"`
	ItemCount int               `json:"item_count"`
	Total     float64           `json:"total"`
}

func setupCartRouter(t *testing.T) *gin.Engine {
	t.Helper()

	mr := miniredis.RunT(t)
	database.Redis = redis.NewClient(&redis.Options{Addr: mr.Addr()})

	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(func(c *gin.Context) {
		c.Set("user_id", "u-1")
		c.Set("email", "u1@techmart.com")
	})
	registerCartRoutes(r)
	return r
}

func registerCartRoutes(r *gin.Engine) {
	r.GET("/api/cart", GetCart)
	r.POST("/api/cart/add", AddToCart)
	r.PUT("/api/cart/:productId", UpdateCartQuantity)
	r.PATCH("/api/cart/:productId", AdjustCartQuantity)
	r.DELETE("/api/cart/:productId", RemoveFromCart)
	r.DELETE("/api/cart", ClearCart)
}

func doCartRequest(t *testing.T, r *gin.Engine, method, path string, body any) (*httptest.ResponseRecorder, cartPayload) {
	t.Helper()

	var reader *bytes.Reader
	if body != nil {
		data, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(data)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var payload cartPayload
	if w.Code == http.StatusOK {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &payload))
	}
	return w, payload
}

func TestGetCartEmpty(t *testing.T) {
	r := setupCartRouter(t)

	w, payload := doCartRequest(t, r, http.MethodGet, "/api/cart", nil)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, payload.Items)
	assert.Equal(t, 0, payload.ItemCount)
	assert.Equal(t, 0.0, payload.Total)
}

func TestGetCartRequiresAuth(t *testing.T) {
	mr := miniredis.RunT(t)
	database.Redis = redis.NewClient(&redis.Options{Addr: mr.Addr()})

	gin.SetMode(gin.TestMode)
	r := gin.New() // pas de middleware : pas de user_id
	registerCartRoutes(r)

	w, _ := doCartRequest(t, r, http.MethodGet, "/api/cart", nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAddToCartFreezesCatalogData(t *testing.T) {
	r := setupCartRouter(t)

	// le prix envoyé par le client est ignoré : seul le catalogue fait foi
	w, payload := doCartRequest(t, r, http.MethodPost, "/api/cart/add",
		gin.H{"productId": "p1", "price": 0.01})

	require.Equal(t, http.StatusOK, w.Code)
	require.Len(t, payload.Items, 1)
	assert.Equal(t, "Souris sans fil", payload.Items[0].Name)
	assert.Equal(t, 20.00, payload.Items[0].UnitPrice)
	assert.Equal(t, 1, payload.Items[0].Quantity)
}

func TestAddToCartUnknownProduct(t *testing.T) {
	r := setupCartRouter(t)

	w, _ := doCartRequest(t, r, http.MethodPost, "/api/cart/add", gin.H{"productId": "inexistant"})
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAddToCartMergesQuantity(t *testing.T) {
	r := setupCartRouter(t)

	doCartRequest(t, r, http.MethodPost, "/api/cart/add", gin.H{"productId": "p1"})
	_, payload := doCartRequest(t, r, http.MethodPost, "/api/cart/add", gin.H{"productId": "p1"})

	require.Len(t, payload.Items, 1)
	assert.Equal(t, 2, payload.Items[0].Quantity)
	assert.Equal(t, 2, payload.ItemCount)
}

func TestCartTotals(t *testing.T) {
	r := setupCartRouter(t)

	// 2× souris à 20.00 + 1× hub à 15.50
	doCartRequest(t, r, http.MethodPost, "/api/cart/add", gin.H{"productId": "p1", "quantity": 2})
	_, payload := doCartRequest(t, r, http.MethodPost, "/api/cart/add", gin.H{"productId": "p2"})

	assert.Equal(t, 3, payload.ItemCount)
	assert.InDelta(t, 55.50, payload.Total, 0.0001)
}

func TestCartPersistsAcrossRequests(t *testing.T) {
	r := setupCartRouter(t)

	doCartRequest(t, r, http.MethodPost, "/api/cart/add", gin.H{"productId": "p1"})

	// nouvelle requête : le panier est rechargé depuis Redis
	_, payload := doCartRequest(t, r, http.MethodGet, "/api/cart", nil)
	require.Len(t, payload.Items, 1)
	assert.Equal(t, "p1", payload.Items[0].ProductID)
}

func TestUpdateCartQuantity(t *testing.T) {
	r := setupCartRouter(t)

	doCartRequest(t, r, http.MethodPost, "/api/cart/add", gin.H{"productId": "p1"})
	_, payload := doCartRequest(t, r, http.MethodPut, "/api/cart/p1", gin.H{"quantity": 5})

	require.Len(t, payload.Items, 1)
	assert.Equal(t, 5, payload.Items[0].Quantity)
}

func TestUpdateCartQuantityZeroRemovesLine(t *testing.T) {
	r := setupCartRouter(t)

	doCartRequest(t, r, http.MethodPost, "/api/cart/add", gin.H{"productId": "p1"})
	_, payload := doCartRequest(t, r, http.MethodPut, "/api/cart/p1", gin.H{"quantity": 0})

	assert.Empty(t, payload.Items)
}

func TestAdjustCartQuantity(t *testing.T) {
	r := setupCartRouter(t)

	doCartRequest(t, r, http.MethodPost, "/api/cart/add", gin.H{"productId": "p1", "quantity": 2})

	_, payload := doCartRequest(t, r, http.MethodPatch, "/api/cart/p1", gin.H{"delta": -1})
	require.Len(t, payload.Items, 1)
	assert.Equal(t, 1, payload.Items[0].Quantity)

	// -1 sur une quantité de 1 : la ligne disparaît
	_, payload = doCartRequest(t, r, http.MethodPatch, "/api/cart/p1", gin.H{"delta": -1})
	assert.Empty(t, payload.Items)
}

func TestRemoveFromCart(t *testing.T) {
	r := setupCartRouter(t)

	doCartRequest(t, r, http.MethodPost, "/api/cart/add", gin.H{"productId": "p1"})
	doCartRequest(t, r, http.MethodPost, "/api/cart/add", gin.H{"productId": "p2"})

	_, payload := doCartRequest(t, r, http.MethodDelete, "/api/cart/p1", nil)
	require.Len(t, payload.Items, 1)
	assert.Equal(t, "p2", payload.Items[0].ProductID)

	// idempotent
	w, _ := doCartRequest(t, r, http.MethodDelete, "/api/cart/p1", nil)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestClearCart(t *testing.T) {
	r := setupCartRouter(t)

	doCartRequest(t, r, http.MethodPost, "/api/cart/add", gin.H{"productId": "p1"})
	_, payload := doCartRequest(t, r, http.MethodDelete, "/api/cart", nil)

	assert.Empty(t, payload.Items)
	assert.Equal(t, 0, payload.ItemCount)
}
