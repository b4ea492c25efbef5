package handlers

import (
	"log"
	"net/http"

	"techmart_back_end/internal/orders"
	"techmart_back_end/internal/utils"

	"github.com/gin-gonic/gin"
)

var orderService = orders.NewScyllaService()

// ✅ GET /api/orders — toutes les commandes de l'utilisateur connecté
func GetMyOrders(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	list, err := orderService.OrdersForUser(c.Request.Context(), userID)
	if err != nil {
		log.Println("❌ Erreur récupération commandes:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur récupération commandes"})
		return
	}

	log.Printf("✅ %d commandes trouvées pour user %s", len(list), userID)
	c.JSON(http.StatusOK, gin.H{"orders": list})
}

// ✅ GET /api/orders/:id — une commande, si elle appartient à l'utilisateur
func GetOrderByID(c *gin.Context) {
	userID := c.GetString("user_id")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	order, err := orderService.OrderByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	c.JSON(http.StatusOK, order)
}

// 📄 GET /api/orders/:id/invoice — facture PDF de la commande
func GetOrderInvoice(c *gin.Context) {
	userID := c.GetString("user_id")
	email := c.GetString("email")
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
		return
	}

	order, err := orderService.OrderByID(c.Request.Context(), userID, c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Commande introuvable"})
		return
	}

	pdf, err := utils.GenerateInvoicePDF(*order, email)
	if err != nil {
		log.Println("❌ Erreur génération facture:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur génération facture"})
		return
	}

	c.Header("Content-Disposition", "attachment; filename=facture_"+order.ID+".pdf")
	c.Data(http.StatusOK, "application/pdf", pdf)
}
