package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"os"
	"time"

	"techmart_back_end/internal/cart"
	"techmart_back_end/internal/database"
	"techmart_back_end/internal/models"
	"techmart_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/webhook"
)

// ✅ POST /api/webhook/stripe
func StripeWebhook(c *gin.Context) {
	const MaxBodyBytes = int64(65536)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)

	payload, err := c.GetRawData()
	if err != nil {
		log.Println("❌ Lecture payload échouée:", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "Échec lecture body"})
		return
	}

	secret := os.Getenv("STRIPE_WEBHOOK_SECRET")
	var event stripe.Event

	if secret == "" {
		log.Println("⚠️ Pas de STRIPE_WEBHOOK_SECRET — mode test")
		if err := json.Unmarshal(payload, &event); err != nil {
			log.Println("❌ JSON invalide:", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "JSON invalide"})
			return
		}
	} else {
		event, err = webhook.ConstructEvent(payload, c.GetHeader("Stripe-Signature"), secret)
		if err != nil {
			log.Println("❌ Signature Stripe invalide:", err)
			c.JSON(http.StatusBadRequest, gin.H{"error": "Signature invalide"})
			return
		}
	}

	log.Printf("📥 Événement Stripe reçu : %s", event.Type)

	// Un échec de traitement renvoie un 5xx : Stripe retentera la livraison.
	if err := handleStripeEvent(event); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Traitement échoué"})
		return
	}

	c.Status(http.StatusOK)
}

// handleStripeEvent enregistre la commande payée à partir de l'instantané du
// panier porté par les metadata Stripe. Le panier Redis n'est supprimé
// qu'APRÈS l'insertion confirmée de la commande : un échec le laisse intact.
func handleStripeEvent(event stripe.Event) error {
	if event.Type != "payment_intent.succeeded" {
		log.Printf("ℹ️ Événement ignoré : %s", event.Type)
		return nil
	}

	var pi stripe.PaymentIntent
	if err := json.Unmarshal(event.Data.Raw, &pi); err != nil {
		log.Println("❌ Erreur décodage PaymentIntent:", err)
		return nil
	}

	userID := pi.Metadata["user_id"]
	userEmail := pi.Metadata["email"]
	cartData := pi.Metadata["cart"]

	if userID == "" || userEmail == "" || cartData == "" {
		log.Println("⚠️ Métadonnées incomplètes")
		return nil
	}
	log.Printf("👤 User ID = %s | 📧 Email = %s", userID, userEmail)

	var lines []models.CartLine
	if err := json.Unmarshal([]byte(cartData), &lines); err != nil {
		log.Println("❌ Erreur JSON panier:", err)
		return nil
	}
	log.Printf("🛒 Articles dans le panier : %d", len(lines))

	total := 0.0
	for _, l := range lines {
		total += l.Subtotal()
	}

	order := models.Order{
		UserID:           userID,
		UserEmail:        userEmail,
		Lines:            lines,
		Total:            total,
		Status:           models.OrderStatusPaid,
		PaymentReference: pi.ID,
		CreatedAt:        time.Now(),
	}

	ctx := context.Background()
	orderID, err := orderService.Submit(ctx, order)
	if err != nil {
		log.Println("❌ Erreur enregistrement commande, panier conservé :", err)
		return err
	}
	order.ID = orderID
	log.Printf("✅ Commande %s enregistrée pour %s", orderID, userEmail)

	// ✅ Supprimer le panier Redis APRÈS la commande
	store := cart.NewStore(ctx, cart.NewRedisPersistence(database.Redis, userID))
	store.Clear(ctx)
	log.Printf("🧹 Panier supprimé pour %s", userID)

	// Générer l'HTML et le PDF, puis envoyer l'e-mail
	html := utils.GenerateOrderConfirmationHTML(order, userEmail)

	pdf, err := utils.GenerateInvoicePDF(order, userEmail)
	if err != nil {
		log.Println("❌ Erreur génération PDF :", err)
		pdf = nil
	}

	go func() {
		if err := utils.SendConfirmationEmail(userEmail, "Confirmation de votre commande TechMart", html, pdf); err != nil {
			log.Println("❌ Erreur envoi e-mail confirmation :", err)
		} else {
			log.Println("📧 E-mail de confirmation envoyé à", userEmail)
		}
	}()

	return nil
}
