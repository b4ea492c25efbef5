package orders

import (
	"context"
	"fmt"
	"log"
	"sort"

	"techmart_back_end/internal/database"
	"techmart_back_end/internal/models"

	"github.com/gocql/gocql"
)

// ScyllaService enregistre les commandes dans le keyspace orders : une ligne
// dans `orders` plus une ligne par article dans `order_items`. C'est
// l'implémentation du port cart.OrderService côté boutique.
type ScyllaService struct{}

func NewScyllaService() *ScyllaService {
	return &ScyllaService{}
}

// Submit enregistre la commande et retourne son identifiant. Si la commande
// porte une référence de paiement déjà enregistrée (relivraison d'un webhook
// Stripe), la commande existante est retournée telle quelle — jamais de
// doublon pour un même paiement.
func (s *ScyllaService) Submit(ctx context.Context, order models.Order) (string, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return "", fmt.Errorf("connexion keyspace orders: %w", err)
	}

	if order.PaymentReference != "" {
		var existingID gocql.UUID
		err := session.Query(`SELECT order_id FROM orders WHERE payment_reference = ? ALLOW FILTERING`,
			order.PaymentReference).WithContext(ctx).Scan(&existingID)
		if err == nil {
			log.Printf("🔁 Commande déjà enregistrée pour le paiement %s, on ignore.", order.PaymentReference)
			return existingID.String(), nil
		}
		if err != gocql.ErrNotFound {
			return "", fmt.Errorf("vérification idempotence: %w", err)
		}
	}

	orderID := gocql.TimeUUID()

	err = session.Query(`INSERT INTO orders (order_id, user_id, user_email, total, status, payment_reference, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		orderID, order.UserID, order.UserEmail, order.Total, order.Status,
		order.PaymentReference, order.CreatedAt).WithContext(ctx).Exec()
	if err != nil {
		return "", fmt.Errorf("insertion commande: %w", err)
	}

	for _, line := range order.Lines {
		err = session.Query(`INSERT INTO order_items (order_id, product_id, name, price, quantity)
			VALUES (?, ?, ?, ?, ?)`,
			orderID, line.ProductID, line.Name, line.UnitPrice, line.Quantity).WithContext(ctx).Exec()
		if err != nil {
			// On remonte l'échec : l'appelant ne videra pas le panier et
			// pourra resoumettre (la référence de paiement protège du doublon).
			return "", fmt.Errorf("insertion article %s: %w", line.ProductID, err)
		}
	}

	return orderID.String(), nil
}

// OrdersForUser retourne les commandes de l'utilisateur, la plus récente en
// premier, avec leurs articles.
func (s *ScyllaService) OrdersForUser(ctx context.Context, userID string) ([]models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, fmt.Errorf("connexion keyspace orders: %w", err)
	}

	iter := session.Query(`SELECT order_id, user_id, user_email, total, status, payment_reference, created_at
		FROM orders WHERE user_id = ? ALLOW FILTERING`, userID).WithContext(ctx).Iter()

	var result []models.Order
	var order models.Order
	var orderID gocql.UUID
	for iter.Scan(&orderID, &order.UserID, &order.UserEmail, &order.Total,
		&order.Status, &order.PaymentReference, &order.CreatedAt) {
		order.ID = orderID.String()
		order.Lines = nil
		result = append(result, order)
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("lecture commandes: %w", err)
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].CreatedAt.After(result[j].CreatedAt)
	})

	for i := range result {
		lines, err := s.orderLines(ctx, session, result[i].ID)
		if err != nil {
			log.Printf("⚠️ Articles illisibles pour la commande %s: %v", result[i].ID, err)
			continue
		}
		result[i].Lines = lines
	}

	return result, nil
}

// OrderByID retourne une commande si elle appartient bien à l'utilisateur.
func (s *ScyllaService) OrderByID(ctx context.Context, userID, orderID string) (*models.Order, error) {
	session, err := database.GetOrdersSession()
	if err != nil {
		return nil, fmt.Errorf("connexion keyspace orders: %w", err)
	}

	id, err := gocql.ParseUUID(orderID)
	if err != nil {
		return nil, fmt.Errorf("identifiant commande invalide: %w", err)
	}

	var order models.Order
	var ownerID string
	err = session.Query(`SELECT user_id, user_email, total, status, payment_reference, created_at
		FROM orders WHERE order_id = ?`, id).WithContext(ctx).
		Scan(&ownerID, &order.UserEmail, &order.Total, &order.Status,
			&order.PaymentReference, &order.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("commande introuvable: %w", err)
	}

	// sécurité : la commande doit appartenir à l'utilisateur
	if ownerID != userID {
		return nil, fmt.Errorf("commande introuvable")
	}

	order.ID = orderID
	order.UserID = ownerID
	order.Lines, err = s.orderLines(ctx, session, orderID)
	if err != nil {
		return nil, err
	}

	return &order, nil
}

func (s *ScyllaService) orderLines(ctx context.Context, session *gocql.Session, orderID string) ([]models.CartLine, error) {
	id, err := gocql.ParseUUID(orderID)
	if err != nil {
		return nil, err
	}

	iter := session.Query(`SELECT product_id, name, price, quantity FROM order_items WHERE order_id = ?`,
		id).WithContext(ctx).Iter()

	var lines []models.CartLine
	var line models.CartLine
	for iter.Scan(&line.ProductID, &line.Name, &line.UnitPrice, &line.Quantity) {
		lines = append(lines, line)
	}
	if err := iter.Close(); err != nil {
		return nil, fmt.Errorf("lecture articles: %w", err)
	}

	return lines, nil
}
