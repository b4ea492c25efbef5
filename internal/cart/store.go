package cart

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"time"

	"techmart_back_end/internal/models"
)

// Store possède le panier en mémoire et le reflète dans la persistence
// après chaque mutation. Une seule instance par session utilisateur ; les
// appels ne doivent pas être entrelacés (discipline mono-écrivain).
type Store struct {
	kv         KeyValuePersistence
	lines      []models.CartLine
	submitting bool
}

// NewStore construit un Store en rechargeant le panier persisté. Une valeur
// absente ou corrompue donne un panier vide, jamais une erreur.
func NewStore(ctx context.Context, kv KeyValuePersistence) *Store {
	s := &Store{kv: kv}

	data, found, err := kv.Get(ctx, StorageKey)
	if err != nil || !found || data == "" {
		return s
	}

	var lines []models.CartLine
	if err := json.Unmarshal([]byte(data), &lines); err != nil {
		// Panier corrompu : on repart de zéro et on réécrit une valeur saine.
		log.Printf("⚠️ Panier persisté illisible, réinitialisation: %v", err)
		s.persist(ctx)
		return s
	}

	// Les lignes à quantité non positive ne sont jamais persistées par le
	// Store ; si la valeur stockée en contient, on les écarte au chargement.
	for _, l := range lines {
		if l.ProductID == "" || l.Quantity < 1 {
			continue
		}
		s.lines = append(s.lines, l)
	}

	return s
}

// AddItem ajoute un produit au panier. Si le produit est déjà présent, seule
// la quantité est incrémentée : le nom et le prix figés au premier ajout
// font foi, même si l'appel porte des valeurs différentes.
func (s *Store) AddItem(ctx context.Context, productID, name string, unitPrice float64) {
	if s.submitting {
		log.Println("⚠️ Mutation ignorée : checkout en cours")
		return
	}
	if productID == "" || name == "" || unitPrice < 0 {
		return
	}

	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.lines[i].Quantity++
			s.persist(ctx)
			return
		}
	}

	s.lines = append(s.lines, models.CartLine{
		ProductID: productID,
		Name:      name,
		UnitPrice: unitPrice,
		Quantity:  1,
	})
	s.persist(ctx)
}

// SetQuantity remplace la quantité d'une ligne. Une quantité ≤ 0 supprime la
// ligne. Sans effet si le produit n'est pas dans le panier.
func (s *Store) SetQuantity(ctx context.Context, productID string, quantity int) {
	if s.submitting {
		log.Println("⚠️ Mutation ignorée : checkout en cours")
		return
	}

	if quantity <= 0 {
		s.RemoveItem(ctx, productID)
		return
	}

	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.lines[i].Quantity = quantity
			s.persist(ctx)
			return
		}
	}
}

// AdjustQuantity applique un delta à la quantité courante (boutons +/- de
// l'interface). Sans effet si le produit n'est pas dans le panier.
func (s *Store) AdjustQuantity(ctx context.Context, productID string, delta int) {
	for i := range s.lines {
		if s.lines[i].ProductID == productID {
			s.SetQuantity(ctx, productID, s.lines[i].Quantity+delta)
			return
		}
	}
}

// RemoveItem retire une ligne du panier. Idempotent : aucun effet si la
// ligne est absente.
func (s *Store) RemoveItem(ctx context.Context, productID string) {
	if s.submitting {
		log.Println("⚠️ Mutation ignorée : checkout en cours")
		return
	}

	kept := s.lines[:0]
	removed := false
	for _, l := range s.lines {
		if l.ProductID == productID {
			removed = true
			continue
		}
		kept = append(kept, l)
	}
	s.lines = kept

	if removed {
		s.persist(ctx)
	}
}

// Clear vide le panier et sa copie persistée. Utilisé après un checkout
// confirmé et à la déconnexion.
func (s *Store) Clear(ctx context.Context) {
	s.lines = nil
	if err := s.kv.Delete(ctx, StorageKey); err != nil {
		log.Printf("⚠️ Erreur suppression panier persisté: %v", err)
	}
}

// Lines retourne une copie des lignes, dans leur ordre de premier ajout.
func (s *Store) Lines() []models.CartLine {
	out := make([]models.CartLine, len(s.lines))
	copy(out, s.lines)
	return out
}

// TotalItemCount retourne la somme des quantités (compteur du badge panier).
func (s *Store) TotalItemCount() int {
	count := 0
	for _, l := range s.lines {
		count += l.Quantity
	}
	return count
}

// TotalAmount retourne le montant total exact du panier. L'arrondi à deux
// décimales est un choix d'affichage, pas du ressort du Store.
func (s *Store) TotalAmount() float64 {
	total := 0.0
	for _, l := range s.lines {
		total += l.Subtotal()
	}
	return total
}

// Checkout soumet le panier courant comme commande "pending" (chemin sans
// widget de paiement). Voir submit pour le contrat complet.
func (s *Store) Checkout(ctx context.Context, user *models.User, svc OrderService) (string, error) {
	return s.submit(ctx, user, svc, models.OrderStatusPending, "")
}

// CheckoutPaid soumet le panier comme commande "paid", avec la référence
// fournie par le widget de paiement.
func (s *Store) CheckoutPaid(ctx context.Context, user *models.User, svc OrderService, paymentRef string) (string, error) {
	return s.submit(ctx, user, svc, models.OrderStatusPaid, paymentRef)
}

// submit fige un instantané du panier, le soumet au service de commandes et
// ne vide le panier qu'après un succès confirmé. Tout échec (réseau, service,
// annulation) laisse le panier strictement inchangé pour permettre une
// nouvelle tentative.
func (s *Store) submit(ctx context.Context, user *models.User, svc OrderService, status, paymentRef string) (string, error) {
	if user == nil || user.ID == "" {
		return "", ErrNotAuthenticated
	}
	if len(s.lines) == 0 {
		return "", ErrEmptyCart
	}
	if s.submitting {
		return "", ErrCheckoutInFlight
	}

	// Instantané : les mutations pendant la soumission ne peuvent pas
	// toucher ce qui part au service de commandes.
	snapshot := s.Lines()
	order := models.Order{
		UserID:           user.ID,
		UserEmail:        user.Email,
		Lines:            snapshot,
		Total:            s.TotalAmount(),
		Status:           status,
		PaymentReference: paymentRef,
		CreatedAt:        time.Now(),
	}

	s.submitting = true
	orderID, err := svc.Submit(ctx, order)
	s.submitting = false

	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrSubmissionFailed, err)
	}

	s.Clear(ctx)
	log.Printf("✅ Commande %s enregistrée (%d articles, %.2f)", orderID, len(snapshot), order.Total)
	return orderID, nil
}

// persist écrit l'état courant dans la persistence. Les erreurs d'écriture
// sont journalisées mais jamais remontées : au pire, le panier survivra une
// session de moins.
func (s *Store) persist(ctx context.Context) {
	if len(s.lines) == 0 {
		if err := s.kv.Delete(ctx, StorageKey); err != nil {
			log.Printf("⚠️ Erreur suppression panier persisté: %v", err)
		}
		return
	}

	data, err := json.Marshal(s.lines)
	if err != nil {
		log.Printf("⚠️ Erreur sérialisation panier: %v", err)
		return
	}
	if err := s.kv.Set(ctx, StorageKey, string(data)); err != nil {
		log.Printf("⚠️ Erreur écriture panier persisté: %v", err)
	}
}
