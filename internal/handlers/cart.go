package handlers

import (
	"context"
	"net/http"

	"techmart_back_end/internal/cart"
	"techmart_back_end/internal/database"

	"github.com/gin-gonic/gin"
)

// cartStore recharge le panier de l'utilisateur courant depuis Redis.
func cartStore(c *gin.Context) (*cart.Store, string, bool) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "non authentifié"})
		return nil, "", false
	}
	store := cart.NewStore(c.Request.Context(), cart.NewRedisPersistence(database.Redis, userID))
	return store, userID, true
}

func cartResponse(store *cart.Store) gin.H {
	return gin.H{
		"items":      store.Lines(),
		"item_count": store.TotalItemCount(),
		"total":      store.TotalAmount(),
	}
}

// 🟢 GET /api/cart
func GetCart(c *gin.Context) {
	store, _, ok := cartStore(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, cartResponse(store))
}

// 🟢 POST /api/cart/add
func AddToCart(c *gin.Context) {
	store, _, ok := cartStore(c)
	if !ok {
		return
	}

	var input struct {
		ProductID string `json:"productId" binding:"required"`
		Quantity  int    `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	// Le nom et le prix viennent du catalogue, jamais du client.
	product, err := findProduct(context.Background(), input.ProductID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	ctx := c.Request.Context()
	store.AddItem(ctx, input.ProductID, product.Name, product.Price)
	if input.Quantity > 1 {
		store.AdjustQuantity(ctx, input.ProductID, input.Quantity-1)
	}

	c.JSON(http.StatusOK, cartResponse(store))
}

// 🟢 PUT /api/cart/:productId
func UpdateCartQuantity(c *gin.Context) {
	store, _, ok := cartStore(c)
	if !ok {
		return
	}

	var input struct {
		Quantity int `json:"quantity"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	store.SetQuantity(c.Request.Context(), c.Param("productId"), input.Quantity)
	c.JSON(http.StatusOK, cartResponse(store))
}

// 🟢 PATCH /api/cart/:productId — delta +1/-1 (boutons de l'interface)
func AdjustCartQuantity(c *gin.Context) {
	store, _, ok := cartStore(c)
	if !ok {
		return
	}

	var input struct {
		Delta int `json:"delta" binding:"required"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Données invalides"})
		return
	}

	store.AdjustQuantity(c.Request.Context(), c.Param("productId"), input.Delta)
	c.JSON(http.StatusOK, cartResponse(store))
}

// 🟢 DELETE /api/cart/:productId
func RemoveFromCart(c *gin.Context) {
	store, _, ok := cartStore(c)
	if !ok {
		return
	}

	store.RemoveItem(c.Request.Context(), c.Param("productId"))
	c.JSON(http.StatusOK, cartResponse(store))
}

// 🟢 DELETE /api/cart
func ClearCart(c *gin.Context) {
	store, _, ok := cartStore(c)
	if !ok {
		return
	}

	store.Clear(c.Request.Context())
	c.JSON(http.StatusOK, cartResponse(store))
}
