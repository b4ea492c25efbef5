package cart

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupTestRedis(t *testing.T) (*redis.Client, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return client, mr
}

func TestRedisPersistence_KeyScopedPerUser(t *testing.T) {
	client, mr := setupTestRedis(t)
	p := NewRedisPersistence(client, "u-1")

	require.NoError(t, p.Set(context.Background(), StorageKey, `[{"productId":"p1"}]`))

	// La clé Redis réelle est préfixée par utilisateur.
	assert.True(t, mr.Exists("cart:u-1"))
}

func TestRedisPersistence_GetAbsentKey(t *testing.T) {
	client, _ := setupTestRedis(t)
	p := NewRedisPersistence(client, "u-1")

	_, found, err := p.Get(context.Background(), StorageKey)

	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisPersistence_SetThenGet(t *testing.T) {
	client, mr := setupTestRedis(t)
	p := NewRedisPersistence(client, "u-1")

	require.NoError(t, p.Set(context.Background(), StorageKey, "valeur"))

	v, found, err := p.Get(context.Background(), StorageKey)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "valeur", v)

	// TTL de 30 jours posé à l'écriture.
	assert.Equal(t, CartTTL, mr.TTL("cart:u-1"))
}

func TestRedisPersistence_Delete(t *testing.T) {
	client, _ := setupTestRedis(t)
	p := NewRedisPersistence(client, "u-1")

	require.NoError(t, p.Set(context.Background(), StorageKey, "valeur"))
	require.NoError(t, p.Delete(context.Background(), StorageKey))

	_, found, err := p.Get(context.Background(), StorageKey)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisPersistence_UsersIsolated(t *testing.T) {
	client, _ := setupTestRedis(t)
	p1 := NewRedisPersistence(client, "u-1")
	p2 := NewRedisPersistence(client, "u-2")

	require.NoError(t, p1.Set(context.Background(), StorageKey, "panier-u1"))

	_, found, err := p2.Get(context.Background(), StorageKey)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestStoreOverRedis_RoundTrip(t *testing.T) {
	client, _ := setupTestRedis(t)
	ctx := context.Background()

	s := NewStore(ctx, NewRedisPersistence(client, "u-1"))
	s.AddItem(ctx, "p1", "Mouse", 20.00)
	s.AddItem(ctx, "p1", "Mouse", 20.00)
	s.AddItem(ctx, "p2", "Hub", 15.50)

	// Rechargement comme après un rafraîchissement de page.
	reloaded := NewStore(ctx, NewRedisPersistence(client, "u-1"))
	assert.Equal(t, s.Lines(), reloaded.Lines())
	assert.InDelta(t, 55.50, reloaded.TotalAmount(), 1e-9)
}
