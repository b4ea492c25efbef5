package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSearchRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.GET("/api/products/search", SearchProducts)
	return r
}

func TestSearchProductsMissingQuery(t *testing.T) {
	r := setupSearchRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products/search", nil))

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSearchProductsFallbackCatalog(t *testing.T) {
	// sans Elasticsearch ni ScyllaDB, la recherche retombe sur le catalogue
	// de démonstration
	r := setupSearchRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products/search?q=hub", nil))

	require.Equal(t, http.StatusOK, w.Code)

	var results []catalogEntry
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &results))
	require.Len(t, results, 1)
	assert.Equal(t, "Hub USB-C", results[0].Name)
	assert.Equal(t, 15.50, results[0].Price)
}

func TestSearchProductsNoMatch(t *testing.T) {
	r := setupSearchRouter()

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/products/search?q=zzzz", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "Aucun produit trouvé")
}
