package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"techmart_back_end/internal/cart"
	"techmart_back_end/internal/models"
	"techmart_back_end/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/stripe/stripe-go/v83"
	"github.com/stripe/stripe-go/v83/paymentintent"
)

// ✅ POST /api/checkout — soumission directe, commande "pending".
// Le panier n'est vidé que si le service de commandes confirme.
func Checkout(c *gin.Context) {
	store, userID, ok := cartStore(c)
	if !ok {
		return
	}

	user := &models.User{ID: userID, Email: c.GetString("email")}
	total := store.TotalAmount()

	orderID, err := store.Checkout(c.Request.Context(), user, orderService)
	if err != nil {
		checkoutError(c, err)
		return
	}

	// Confirmation par e-mail en arrière-plan
	if user.Email != "" {
		email := user.Email
		go func() {
			if err := utils.SendOrderConfirmationEmail(email, orderID, total); err != nil {
				log.Println("❌ Erreur envoi e-mail confirmation:", err)
			}
		}()
	}

	c.JSON(http.StatusCreated, gin.H{
		"order_id": orderID,
		"status":   models.OrderStatusPending,
	})
}

func checkoutError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, cart.ErrNotAuthenticated):
		c.JSON(http.StatusUnauthorized, gin.H{"error": "Utilisateur non authentifié"})
	case errors.Is(err, cart.ErrEmptyCart):
		c.JSON(http.StatusBadRequest, gin.H{"error": "Panier vide"})
	case errors.Is(err, cart.ErrCheckoutInFlight):
		c.JSON(http.StatusConflict, gin.H{"error": "Checkout déjà en cours"})
	default:
		log.Println("❌ Erreur soumission commande:", err)
		c.JSON(http.StatusBadGateway, gin.H{"error": "La commande n'a pas pu être enregistrée, votre panier est conservé"})
	}
}

// ✅ POST /api/checkout/payment-intent — paiement Stripe.
// Le panier part dans les metadata : le webhook créera la commande à partir
// de cet instantané, puis seulement videra le panier.
func CreatePaymentIntent(c *gin.Context) {
	store, userID, ok := cartStore(c)
	if !ok {
		return
	}
	email := c.GetString("email")
	if email == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "E-mail manquant"})
		return
	}

	lines := store.Lines()
	if len(lines) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Panier vide"})
		return
	}

	total := store.TotalAmount()

	// ✅ Sérialise le panier en JSON pour le stocker dans Stripe
	cartJSON, err := json.Marshal(lines)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur sérialisation panier"})
		return
	}

	params := &stripe.PaymentIntentParams{
		Amount:   stripe.Int64(int64(total * 100)),
		Currency: stripe.String("eur"),
		AutomaticPaymentMethods: &stripe.PaymentIntentAutomaticPaymentMethodsParams{
			Enabled: stripe.Bool(true),
		},
		Metadata: map[string]string{
			"user_id": userID,
			"email":   email,
			"cart":    string(cartJSON),
		},
	}

	intent, err := paymentintent.New(params)
	if err != nil {
		log.Println("❌ Erreur Stripe:", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Erreur création paiement"})
		return
	}

	log.Printf("💳 PaymentIntent créé : %s (%.2f€) pour %s", intent.ID, total, email)

	c.JSON(http.StatusOK, gin.H{
		"clientSecret": intent.ClientSecret,
		"paymentId":    intent.ID,
	})
}
