package cache

import (
	"context"
	"encoding/json"
	"time"

	"techmart_back_end/internal/database"
	"techmart_back_end/internal/models"
)

const (
	UserCacheTTL    = 5 * time.Minute
	ProductCacheTTL = 10 * time.Minute
)

// GetUserFromCache récupère un utilisateur depuis Redis, ou depuis ScyllaDB
// en cas de cache miss (avec remise en cache).
func GetUserFromCache(ctx context.Context, userID string) (*models.User, error) {
	key := "user:" + userID

	data, err := database.Redis.Get(ctx, key).Result()
	if err == nil {
		var user models.User
		if json.Unmarshal([]byte(data), &user) == nil {
			return &user, nil
		}
	}

	session, err := database.GetUsersSession()
	if err != nil {
		return nil, err
	}

	var email, name, role, provider string
	err = session.Query(`SELECT email, name, role, provider FROM users WHERE user_id = ?`,
		userID).WithContext(ctx).Scan(&email, &name, &role, &provider)
	if err != nil {
		return nil, err
	}

	user := &models.User{
		ID:       userID,
		Email:    email,
		Name:     name,
		Role:     role,
		Provider: provider,
	}

	jsonData, _ := json.Marshal(user)
	database.Redis.Set(ctx, key, jsonData, UserCacheTTL)

	return user, nil
}

// InvalidateUserCache invalide le cache d'un utilisateur
func InvalidateUserCache(ctx context.Context, userID string) {
	database.Redis.Del(ctx, "user:"+userID)
}
