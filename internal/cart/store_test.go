package cart

import (
	"context"
	"errors"
	"testing"

	"techmart_back_end/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memoryKV struct {
	values map[string]string
	setErr error
	getErr error
}

func newMemoryKV() *memoryKV {
	return &memoryKV{values: make(map[string]string)}
}

func (m *memoryKV) Get(_ context.Context, key string) (string, bool, error) {
	if m.getErr != nil {
		return "", false, m.getErr
	}
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *memoryKV) Set(_ context.Context, key, value string) error {
	if m.setErr != nil {
		return m.setErr
	}
	m.values[key] = value
	return nil
}

func (m *memoryKV) Delete(_ context.Context, key string) error {
	delete(m.values, key)
	return nil
}

type mockOrderService struct {
	orderID   string
	err       error
	submitted []models.Order
}

func (m *mockOrderService) Submit(_ context.Context, order models.Order) (string, error) {
	m.submitted = append(m.submitted, order)
	if m.err != nil {
		return "", m.err
	}
	return m.orderID, nil
}

func sampleUser() *models.User {
	return &models.User{ID: "u-1", Email: "client@example.com"}
}

// Panier de référence des scénarios : 2 souris + 1 hub = 55.50.
func sampleStore(t *testing.T) (*Store, *memoryKV) {
	t.Helper()
	kv := newMemoryKV()
	s := NewStore(context.Background(), kv)
	s.AddItem(context.Background(), "p1", "Mouse", 20.00)
	s.AddItem(context.Background(), "p1", "Mouse", 20.00)
	s.AddItem(context.Background(), "p2", "Hub", 15.50)
	return s, kv
}

func TestNewStore_EmptyWhenNothingPersisted(t *testing.T) {
	s := NewStore(context.Background(), newMemoryKV())

	assert.Empty(t, s.Lines())
	assert.Equal(t, 0, s.TotalItemCount())
	assert.Equal(t, 0.0, s.TotalAmount())
}

func TestNewStore_MalformedValueResetsToEmpty(t *testing.T) {
	kv := newMemoryKV()
	kv.values[StorageKey] = "{pas du json"

	s := NewStore(context.Background(), kv)

	assert.Empty(t, s.Lines())
	_, found := kv.values[StorageKey]
	assert.False(t, found, "la valeur corrompue doit être purgée")
}

func TestNewStore_GetErrorFallsBackToEmpty(t *testing.T) {
	kv := newMemoryKV()
	kv.getErr = errors.New("redis indisponible")

	s := NewStore(context.Background(), kv)

	assert.Empty(t, s.Lines())
}

func TestNewStore_DropsNonPositiveQuantities(t *testing.T) {
	kv := newMemoryKV()
	kv.values[StorageKey] = `[{"productId":"p1","name":"Mouse","price":20,"quantity":2},{"productId":"p2","name":"Hub","price":15.5,"quantity":0}]`

	s := NewStore(context.Background(), kv)

	require.Len(t, s.Lines(), 1)
	assert.Equal(t, "p1", s.Lines()[0].ProductID)
}

func TestAddItem_DistinctProducts(t *testing.T) {
	kv := newMemoryKV()
	s := NewStore(context.Background(), kv)
	ctx := context.Background()

	s.AddItem(ctx, "p1", "Mouse", 20.00)
	s.AddItem(ctx, "p2", "Hub", 15.50)
	s.AddItem(ctx, "p3", "Keyboard", 149.99)

	lines := s.Lines()
	require.Len(t, lines, 3)
	for _, l := range lines {
		assert.Equal(t, 1, l.Quantity)
	}
	// Ordre d'insertion préservé pour l'affichage.
	assert.Equal(t, "p1", lines[0].ProductID)
	assert.Equal(t, "p2", lines[1].ProductID)
	assert.Equal(t, "p3", lines[2].ProductID)
}

func TestAddItem_SameProductMergesQuantity(t *testing.T) {
	s := NewStore(context.Background(), newMemoryKV())
	ctx := context.Background()

	s.AddItem(ctx, "p1", "Mouse", 20.00)
	s.AddItem(ctx, "p1", "Mouse", 20.00)
	s.AddItem(ctx, "p1", "Mouse", 20.00)

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, 3, lines[0].Quantity)
}

func TestAddItem_FirstSnapshotWins(t *testing.T) {
	s := NewStore(context.Background(), newMemoryKV())
	ctx := context.Background()

	s.AddItem(ctx, "p1", "Mouse", 20.00)
	// Dérive du catalogue entre les deux ajouts : l'instantané initial prime.
	s.AddItem(ctx, "p1", "Souris Pro", 25.00)

	lines := s.Lines()
	require.Len(t, lines, 1)
	assert.Equal(t, "Mouse", lines[0].Name)
	assert.Equal(t, 20.00, lines[0].UnitPrice)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestAddItem_InvalidInputIgnored(t *testing.T) {
	s := NewStore(context.Background(), newMemoryKV())
	ctx := context.Background()

	s.AddItem(ctx, "", "Mouse", 20.00)
	s.AddItem(ctx, "p1", "", 20.00)
	s.AddItem(ctx, "p1", "Mouse", -1)

	assert.Empty(t, s.Lines())
}

func TestSetQuantity_Replaces(t *testing.T) {
	s, _ := sampleStore(t)

	s.SetQuantity(context.Background(), "p1", 5)

	assert.Equal(t, 5, s.Lines()[0].Quantity)
}

func TestSetQuantity_ZeroEqualsRemove(t *testing.T) {
	viaSet, _ := sampleStore(t)
	viaRemove, _ := sampleStore(t)

	viaSet.SetQuantity(context.Background(), "p1", 0)
	viaRemove.RemoveItem(context.Background(), "p1")

	assert.Equal(t, viaRemove.Lines(), viaSet.Lines())
}

func TestSetQuantity_UnknownProductIsNoop(t *testing.T) {
	s, _ := sampleStore(t)
	before := s.Lines()

	s.SetQuantity(context.Background(), "inconnu", 4)

	assert.Equal(t, before, s.Lines())
}

func TestAdjustQuantity_Increment(t *testing.T) {
	s, _ := sampleStore(t)

	s.AdjustQuantity(context.Background(), "p2", 1)

	require.Len(t, s.Lines(), 2)
	assert.Equal(t, 2, s.Lines()[1].Quantity)
}

func TestAdjustQuantity_DecrementToZeroRemoves(t *testing.T) {
	s, _ := sampleStore(t)

	s.AdjustQuantity(context.Background(), "p2", -1)

	require.Len(t, s.Lines(), 1)
	assert.Equal(t, "p1", s.Lines()[0].ProductID)
}

func TestAdjustQuantity_UnknownProductIsNoop(t *testing.T) {
	s, _ := sampleStore(t)
	before := s.Lines()

	s.AdjustQuantity(context.Background(), "inconnu", 1)

	assert.Equal(t, before, s.Lines())
}

func TestRemoveItem_Idempotent(t *testing.T) {
	s, _ := sampleStore(t)

	s.RemoveItem(context.Background(), "p2")
	s.RemoveItem(context.Background(), "p2")

	require.Len(t, s.Lines(), 1)
	assert.Equal(t, "p1", s.Lines()[0].ProductID)
	assert.Equal(t, 2, s.Lines()[0].Quantity)
}

func TestTotals_ReferenceScenario(t *testing.T) {
	s, _ := sampleStore(t)

	assert.InDelta(t, 55.50, s.TotalAmount(), 1e-9)
	assert.Equal(t, 3, s.TotalItemCount())
}

func TestTotals_EmptyCart(t *testing.T) {
	s := NewStore(context.Background(), newMemoryKV())

	assert.Equal(t, 0.0, s.TotalAmount())
	assert.Equal(t, 0, s.TotalItemCount())
}

func TestPersistence_RoundTrip(t *testing.T) {
	s, kv := sampleStore(t)

	reloaded := NewStore(context.Background(), kv)

	assert.Equal(t, s.Lines(), reloaded.Lines())
}

func TestPersistence_ClearDeletesStoredValue(t *testing.T) {
	s, kv := sampleStore(t)

	s.Clear(context.Background())

	assert.Empty(t, kv.values)
	assert.Empty(t, NewStore(context.Background(), kv).Lines())
}

func TestPersistence_WriteErrorDoesNotLoseMemoryState(t *testing.T) {
	kv := newMemoryKV()
	s := NewStore(context.Background(), kv)
	kv.setErr = errors.New("redis indisponible")

	s.AddItem(context.Background(), "p1", "Mouse", 20.00)

	// L'écriture a échoué mais l'état mémoire reste utilisable.
	require.Len(t, s.Lines(), 1)
}

func TestCheckout_EmptyCart(t *testing.T) {
	s := NewStore(context.Background(), newMemoryKV())
	svc := &mockOrderService{orderID: "ord_1"}

	_, err := s.Checkout(context.Background(), sampleUser(), svc)

	assert.ErrorIs(t, err, ErrEmptyCart)
	assert.Empty(t, svc.submitted, "aucun appel au service pour un panier vide")
}

func TestCheckout_NotAuthenticated(t *testing.T) {
	s, _ := sampleStore(t)
	svc := &mockOrderService{orderID: "ord_1"}

	_, err := s.Checkout(context.Background(), nil, svc)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	_, err = s.Checkout(context.Background(), &models.User{}, svc)
	assert.ErrorIs(t, err, ErrNotAuthenticated)

	assert.Empty(t, svc.submitted)
}

func TestCheckout_CommitClearsCart(t *testing.T) {
	s, kv := sampleStore(t)
	svc := &mockOrderService{orderID: "ord_1"}

	orderID, err := s.Checkout(context.Background(), sampleUser(), svc)

	require.NoError(t, err)
	assert.Equal(t, "ord_1", orderID)
	assert.Empty(t, s.Lines())
	assert.Empty(t, kv.values, "le panier persisté est vidé après commit")

	require.Len(t, svc.submitted, 1)
	order := svc.submitted[0]
	assert.Equal(t, "u-1", order.UserID)
	assert.Equal(t, "client@example.com", order.UserEmail)
	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.InDelta(t, 55.50, order.Total, 1e-9)
	require.Len(t, order.Lines, 2)
}

func TestCheckout_FailureLeavesCartUntouched(t *testing.T) {
	s, kv := sampleStore(t)
	before := s.Lines()
	persistedBefore := kv.values[StorageKey]
	svc := &mockOrderService{err: errors.New("timeout réseau")}

	_, err := s.Checkout(context.Background(), sampleUser(), svc)

	assert.ErrorIs(t, err, ErrSubmissionFailed)
	assert.Equal(t, before, s.Lines(), "échec de soumission : panier intact")
	assert.Equal(t, persistedBefore, kv.values[StorageKey])

	// Une nouvelle tentative reste possible et aboutit.
	svc.err = nil
	svc.orderID = "ord_2"
	orderID, err := s.Checkout(context.Background(), sampleUser(), svc)
	require.NoError(t, err)
	assert.Equal(t, "ord_2", orderID)
	assert.Empty(t, s.Lines())
}

func TestCheckout_SubmissionErrorExposesCause(t *testing.T) {
	s, _ := sampleStore(t)
	cause := errors.New("scylla injoignable")
	svc := &mockOrderService{err: cause}

	_, err := s.Checkout(context.Background(), sampleUser(), svc)

	assert.ErrorIs(t, err, ErrSubmissionFailed)
	assert.ErrorIs(t, err, cause)
}

func TestCheckoutPaid_CarriesPaymentReference(t *testing.T) {
	s, _ := sampleStore(t)
	svc := &mockOrderService{orderID: "ord_3"}

	orderID, err := s.CheckoutPaid(context.Background(), sampleUser(), svc, "pi_123")

	require.NoError(t, err)
	assert.Equal(t, "ord_3", orderID)
	require.Len(t, svc.submitted, 1)
	assert.Equal(t, models.OrderStatusPaid, svc.submitted[0].Status)
	assert.Equal(t, "pi_123", svc.submitted[0].PaymentReference)
}

func TestCheckout_SnapshotUnaffectedByLaterMutations(t *testing.T) {
	s, _ := sampleStore(t)
	svc := &mockOrderService{orderID: "ord_1"}

	_, err := s.Checkout(context.Background(), sampleUser(), svc)
	require.NoError(t, err)

	// Mutations après commit : l'instantané soumis ne bouge pas.
	s.AddItem(context.Background(), "p9", "Webcam", 129.99)

	require.Len(t, svc.submitted, 1)
	assert.Len(t, svc.submitted[0].Lines, 2)
	assert.InDelta(t, 55.50, svc.submitted[0].Total, 1e-9)
}

func TestMutationsIgnoredDuringSubmission(t *testing.T) {
	s, _ := sampleStore(t)
	before := s.Lines()

	blocking := &reentrantOrderService{store: s}
	_, err := blocking.runCheckout(sampleUser())

	assert.ErrorIs(t, err, ErrSubmissionFailed)
	assert.Equal(t, before, s.Lines(), "les mutations pendant la soumission sont refusées")
}

// reentrantOrderService tente de muter le panier pendant que la soumission
// est en vol, puis échoue — le panier doit rester dans son état d'origine.
type reentrantOrderService struct {
	store *Store
}

func (r *reentrantOrderService) Submit(ctx context.Context, _ models.Order) (string, error) {
	r.store.AddItem(ctx, "p9", "Webcam", 129.99)
	r.store.RemoveItem(ctx, "p1")
	return "", errors.New("soumission interrompue")
}

func (r *reentrantOrderService) runCheckout(user *models.User) (string, error) {
	return r.store.Checkout(context.Background(), user, r)
}
