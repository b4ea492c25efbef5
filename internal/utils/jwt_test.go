package utils

import (
	"testing"

	"techmart_back_end/internal/models"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateJWT(t *testing.T) {
	t.Setenv("JWT_SECRET", "secret-de-test")

	user := models.User{ID: "u-1", Email: "u1@techmart.com", Name: "Alice"}
	tokenString, err := GenerateJWT(user)
	require.NoError(t, err)

	token, err := jwt.Parse(tokenString, func(token *jwt.Token) (interface{}, error) {
		return []byte("secret-de-test"), nil
	})
	require.NoError(t, err)
	require.True(t, token.Valid)

	claims, ok := token.Claims.(jwt.MapClaims)
	require.True(t, ok)
	assert.Equal(t, "u-1", claims["user_id"])
	assert.Equal(t, "u1@techmart.com", claims["email"])
	assert.Equal(t, "Alice", claims["name"])
	assert.NotZero(t, claims["exp"])
}
