package cart

import (
	"context"

	"techmart_back_end/internal/models"
)

// StorageKey est la clé unique sous laquelle le panier est persisté.
const StorageKey = "cart"

// KeyValuePersistence est le stockage durable du panier (une seule valeur
// nommée). Get retourne found=false si la clé est absente — ce n'est pas
// une erreur.
type KeyValuePersistence interface {
	Get(ctx context.Context, key string) (value string, found bool, err error)
	Set(ctx context.Context, key, value string) error
	Delete(ctx context.Context, key string) error
}

// OrderService enregistre durablement une commande soumise et retourne son
// identifiant. La commande transmise est un instantané : le service en
// devient propriétaire.
type OrderService interface {
	Submit(ctx context.Context, order models.Order) (orderID string, err error)
}
