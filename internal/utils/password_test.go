package utils

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHashAndVerifyPassword(t *testing.T) {
	hash, err := HashPassword("correct horse battery staple")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(hash, "$argon2id$v=19$"))

	ok, err := VerifyPassword("correct horse battery staple", hash)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestVerifyPasswordWrongPassword(t *testing.T) {
	hash, err := HashPassword("bon mot de passe")
	require.NoError(t, err)

	ok, err := VerifyPassword("mauvais mot de passe", hash)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHashPasswordSaltUnique(t *testing.T) {
	h1, err := HashPassword("pareil")
	require.NoError(t, err)
	h2, err := HashPassword("pareil")
	require.NoError(t, err)

	assert.NotEqual(t, h1, h2)
}

func TestVerifyPasswordInvalidHash(t *testing.T) {
	for _, bad := range []string{
		"",
		"pas un hash",
		"$bcrypt$v=19$m=32768,t=1,p=4$c2VsCg$aGFzaA",
		"$argon2id$v=19$m=32768,t=1,p=4$!!!$aGFzaA",
	} {
		ok, err := VerifyPassword("x", bad)
		assert.Error(t, err, bad)
		assert.False(t, ok)
	}
}
