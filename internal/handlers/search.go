package handlers

import (
	"context"
	"log"
	"net/http"
	"strings"

	"techmart_back_end/internal/database"
	"techmart_back_end/internal/models"
	"techmart_back_end/internal/services"

	"github.com/gin-gonic/gin"
)

// 🔍 GET /api/products/search?q=... — Elasticsearch, sinon scan ScyllaDB
func SearchProducts(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "paramètre 'q' manquant"})
		return
	}

	ctx := context.Background()

	// 1️⃣ Tentative de recherche dans Elasticsearch
	results, err := services.SearchProducts(ctx, query)
	if err == nil && len(results) > 0 {
		c.JSON(http.StatusOK, results)
		return
	}
	if err != nil {
		log.Println("⚠️ Elasticsearch indisponible, fallback ScyllaDB:", err)
	}

	// 2️⃣ Fallback : filtrage en mémoire sur le catalogue
	matches := searchCatalogFallback(ctx, query)
	if len(matches) == 0 {
		c.JSON(http.StatusOK, gin.H{"message": "Aucun produit trouvé"})
		return
	}

	c.JSON(http.StatusOK, matches)
}

func searchCatalogFallback(ctx context.Context, query string) []catalogEntry {
	needle := strings.ToLower(query)

	var candidates []catalogEntry
	session, err := database.GetProductsSession()
	if err != nil {
		candidates = sampleProducts()
	} else {
		iter := session.Query(`SELECT product_id, name, description, price, stock, category, icon, image_urls
			FROM products`).WithContext(ctx).Iter()
		var p models.Product
		for iter.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Category, &p.Icon, &p.ImageURLs) {
			candidates = append(candidates, toCatalogEntry(p))
			p = models.Product{}
		}
		if err := iter.Close(); err != nil || len(candidates) == 0 {
			candidates = sampleProducts()
		}
	}

	var matches []catalogEntry
	for _, entry := range candidates {
		if strings.Contains(strings.ToLower(entry.Name), needle) ||
			strings.Contains(strings.ToLower(entry.Description), needle) ||
			strings.Contains(strings.ToLower(entry.Category), needle) {
			matches = append(matches, entry)
		}
	}
	return matches
}
