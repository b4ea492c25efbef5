package cart

import "errors"

var (
	// ErrNotAuthenticated : checkout appelé sans utilisateur résolu.
	ErrNotAuthenticated = errors.New("utilisateur non authentifié")

	// ErrEmptyCart : checkout refusé sur un panier vide, aucune commande
	// n'est soumise.
	ErrEmptyCart = errors.New("panier vide")

	// ErrSubmissionFailed : le service de commandes a échoué. Le panier
	// reste intact pour permettre une nouvelle tentative.
	ErrSubmissionFailed = errors.New("échec de l'enregistrement de la commande")

	// ErrCheckoutInFlight : une soumission est déjà en cours sur ce panier.
	ErrCheckoutInFlight = errors.New("un checkout est déjà en cours")
)
