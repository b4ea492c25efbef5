package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"sort"
	"time"

	"techmart_back_end/internal/database"
	"techmart_back_end/internal/models"
	"techmart_back_end/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/gocql/gocql"
	"github.com/google/uuid"
)

// catalogEntry est la forme commune des produits servis au front : les
// produits ScyllaDB et les produits de démonstration y convergent.
type catalogEntry struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Description string   `json:"description,omitempty"`
	Price       float64  `json:"price"`
	Stock       int      `json:"stock"`
	Category    string   `json:"category,omitempty"`
	Icon        string   `json:"icon,omitempty"`
	ImageURLs   []string `json:"image_urls,omitempty"`
}

// sampleProducts est le catalogue de secours servi quand la base produits
// est vide ou injoignable, pour que la boutique reste navigable en démo.
func sampleProducts() []catalogEntry {
	return []catalogEntry{
		{ID: "p1", Name: "Souris sans fil", Description: "Souris ergonomique 2.4 GHz", Price: 20.00, Stock: 50, Category: "accessoires", Icon: "🖱️"},
		{ID: "p2", Name: "Hub USB-C", Description: "Hub 7 ports avec HDMI 4K", Price: 15.50, Stock: 35, Category: "accessoires", Icon: "🔌"},
		{ID: "p3", Name: "Clavier mécanique", Description: "Switches rouges, rétroéclairage RGB", Price: 89.99, Stock: 20, Category: "accessoires", Icon: "⌨️"},
		{ID: "p4", Name: "Casque Bluetooth", Description: "Réduction de bruit active, 30h d'autonomie", Price: 129.00, Stock: 15, Category: "audio", Icon: "🎧"},
		{ID: "p5", Name: "Webcam 1080p", Description: "Autofocus et micro intégré", Price: 45.00, Stock: 25, Category: "accessoires", Icon: "📷"},
		{ID: "p6", Name: "SSD externe 1 To", Description: "USB 3.2, 1050 Mo/s", Price: 99.90, Stock: 30, Category: "stockage", Icon: "💾"},
	}
}

func toCatalogEntry(p models.Product) catalogEntry {
	return catalogEntry{
		ID:          p.ID.String(),
		Name:        p.Name,
		Description: p.Description,
		Price:       p.Price,
		Stock:       p.Stock,
		Category:    p.Category,
		Icon:        p.Icon,
		ImageURLs:   p.ImageURLs,
	}
}

// findProduct résout un produit par ID : ScyllaDB d'abord, catalogue de
// démonstration ensuite.
func findProduct(ctx context.Context, productID string) (catalogEntry, error) {
	if id, err := uuid.Parse(productID); err == nil {
		if session, err := database.GetProductsSession(); err == nil {
			var p models.Product
			err := session.Query(`SELECT product_id, name, description, price, stock, category, icon, image_urls
				FROM products WHERE product_id = ?`, gocql.UUID(id)).WithContext(ctx).
				Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Category, &p.Icon, &p.ImageURLs)
			if err == nil {
				return toCatalogEntry(p), nil
			}
		}
	}

	for _, entry := range sampleProducts() {
		if entry.ID == productID {
			return entry, nil
		}
	}

	return catalogEntry{}, errors.New("produit introuvable")
}

// 🟢 GET /api/products
func GetAllProducts(c *gin.Context) {
	ctx := context.Background()
	cacheKey := "products:all"

	if val, err := database.Redis.Get(ctx, cacheKey).Result(); err == nil && val != "" {
		var cached []catalogEntry
		if err := json.Unmarshal([]byte(val), &cached); err == nil {
			c.JSON(http.StatusOK, cached)
			return
		}
	}

	session, err := database.GetProductsSession()
	if err != nil {
		log.Println("⚠️ Base produits injoignable, catalogue de démonstration servi")
		c.JSON(http.StatusOK, sampleProducts())
		return
	}

	iter := session.Query(`SELECT product_id, name, description, price, stock, category, icon, image_urls, created_at
		FROM products`).WithContext(ctx).Iter()

	var rows []models.Product
	var p models.Product
	for iter.Scan(&p.ID, &p.Name, &p.Description, &p.Price, &p.Stock, &p.Category, &p.Icon, &p.ImageURLs, &p.CreatedAt) {
		rows = append(rows, p)
		p = models.Product{}
	}
	if err := iter.Close(); err != nil {
		log.Println("❌ Erreur lecture produits:", err)
		c.JSON(http.StatusOK, sampleProducts())
		return
	}

	if len(rows) == 0 {
		c.JSON(http.StatusOK, sampleProducts())
		return
	}

	// Les plus récents d'abord
	sort.Slice(rows, func(i, j int) bool {
		ti, tj := rows[i].CreatedAt, rows[j].CreatedAt
		if ti == nil || tj == nil {
			return tj == nil && ti != nil
		}
		return ti.After(*tj)
	})

	products := make([]catalogEntry, 0, len(rows))
	for _, row := range rows {
		products = append(products, toCatalogEntry(row))
	}

	if data, err := json.Marshal(products); err == nil {
		database.Redis.Set(ctx, cacheKey, data, time.Hour)
	}

	c.JSON(http.StatusOK, products)
}

// 🟢 GET /api/products/:id
func GetProduct(c *gin.Context) {
	ctx := context.Background()
	entry, err := findProduct(ctx, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Produit introuvable"})
		return
	}

	// Bucket privé : les URLs d'images sont signées à la volée
	if os.Getenv("MINIO_PRIVATE_BUCKET") == "true" {
		for i, u := range entry.ImageURLs {
			if signed, err := services.GenerateSignedURL(ctx, u, 15*time.Minute); err == nil {
				entry.ImageURLs[i] = signed
			}
		}
	}

	c.JSON(http.StatusOK, entry)
}

// 🟢 POST /api/products (admin)
func CreateProduct(c *gin.Context) {
	var input struct {
		Name        string   `json:"name" binding:"required"`
		Description string   `json:"description"`
		Price       float64  `json:"price" binding:"required"`
		Stock       int      `json:"stock"`
		Category    string   `json:"category"`
		Icon        string   `json:"icon"`
		ImageURLs   []string `json:"image_urls"`
	}
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	now := time.Now()
	p := models.Product{
		ID:          gocql.UUID(uuid.New()),
		Name:        input.Name,
		Description: input.Description,
		Price:       input.Price,
		Stock:       input.Stock,
		Category:    input.Category,
		Icon:        input.Icon,
		ImageURLs:   input.ImageURLs,
		CreatedAt:   &now,
	}

	ctx := context.Background()
	if err := session.Query(`INSERT INTO products (product_id, name, description, price, stock, category, icon, image_urls, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Name, p.Description, p.Price, p.Stock, p.Category, p.Icon, p.ImageURLs, now).
		WithContext(ctx).Exec(); err != nil {
		log.Println("❌ Erreur insertion produit:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création produit"})
		return
	}

	// 🔄 Indexe dans Elasticsearch
	go services.IndexProduct(p)

	// Le cache liste est invalidé : il sera reconstruit au prochain GET
	database.Redis.Del(ctx, "products:all")

	c.JSON(http.StatusCreated, toCatalogEntry(p))
}

// 🟢 POST /api/products/:id/image (admin) — upload vers MinIO
func UploadProductImage(c *gin.Context) {
	productID := c.Param("id")
	id, err := uuid.Parse(productID)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID produit invalide"})
		return
	}

	file, err := c.FormFile("image")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Fichier 'image' manquant"})
		return
	}

	ctx := context.Background()
	url, err := services.UploadProductImage(ctx, file)
	if err != nil {
		log.Println("❌ Erreur upload MinIO:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur upload image"})
		return
	}

	session, err := database.GetProductsSession()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur connexion base de données"})
		return
	}

	if err := session.Query(`UPDATE products SET image_urls = image_urls + ? WHERE product_id = ?`,
		[]string{url}, gocql.UUID(id)).WithContext(ctx).Exec(); err != nil {
		log.Println("❌ Erreur ajout image au produit:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur mise à jour produit"})
		return
	}

	database.Redis.Del(ctx, "products:all")

	c.JSON(http.StatusOK, gin.H{"url": url})
}
