package cart

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// CartTTL : un panier inactif survit 30 jours.
const CartTTL = 30 * 24 * time.Hour

// RedisPersistence implémente KeyValuePersistence dans Redis. Chaque
// utilisateur a sa propre instance : la clé logique "cart" devient
// "cart:<userID>" côté Redis.
type RedisPersistence struct {
	client *redis.Client
	userID string
}

func NewRedisPersistence(client *redis.Client, userID string) *RedisPersistence {
	return &RedisPersistence{client: client, userID: userID}
}

func (p *RedisPersistence) Get(ctx context.Context, key string) (string, bool, error) {
	data, err := p.client.Get(ctx, p.redisKey(key)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, err
	}
	return data, true, nil
}

func (p *RedisPersistence) Set(ctx context.Context, key, value string) error {
	return p.client.Set(ctx, p.redisKey(key), value, CartTTL).Err()
}

func (p *RedisPersistence) Delete(ctx context.Context, key string) error {
	return p.client.Del(ctx, p.redisKey(key)).Err()
}

func (p *RedisPersistence) redisKey(key string) string {
	return key + ":" + p.userID
}
