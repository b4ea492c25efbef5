package models

// CartLine représente la présence d'un produit dans le panier.
// Le nom et le prix sont figés au moment de l'ajout : une modification
// ultérieure du catalogue ne change pas les lignes déjà présentes.
type CartLine struct {
	ProductID string  `json:"productId"`
	Name      string  `json:"name"`
	UnitPrice float64 `json:"price"`
	Quantity  int     `json:"quantity"`
}

// Subtotal retourne le sous-total de la ligne (prix unitaire × quantité).
func (l CartLine) Subtotal() float64 {
	return l.UnitPrice * float64(l.Quantity)
}
