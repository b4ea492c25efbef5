package models

import "time"

const (
	OrderStatusPending = "pending"
	OrderStatusPaid    = "paid"
)

// Order est le résultat d'un checkout : un instantané du panier au moment
// de la soumission. Jamais modifiée après création — la propriété passe au
// service de commandes.
type Order struct {
	ID               string     `json:"id,omitempty"`
	UserID           string     `json:"user_id"`
	UserEmail        string     `json:"user_email"`
	Lines            []CartLine `json:"items"`
	Total            float64    `json:"total"`
	Status           string     `json:"status"` // "pending" ou "paid"
	PaymentReference string     `json:"payment_reference,omitempty"`
	CreatedAt        time.Time  `json:"created_at"`
}
