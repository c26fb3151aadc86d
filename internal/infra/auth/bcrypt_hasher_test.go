package auth

import (
	"strings"
	"testing"

	"identity/config"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher_Hash(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)

	password := "longenough1"
	hash, err := hasher.Hash(password)
	require.NoError(t, err)
	assert.NotEmpty(t, hash)
	assert.NotEqual(t, password, hash)

	// Verify the hash can be checked
	assert.True(t, hasher.Verify(password, hash))
}

func TestBcryptHasher_SaltedHashesDiffer(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)

	first, err := hasher.Hash("longenough1")
	require.NoError(t, err)
	second, err := hasher.Hash("longenough1")
	require.NoError(t, err)

	assert.NotEqual(t, first, second)
	assert.True(t, hasher.Verify("longenough1", first))
	assert.True(t, hasher.Verify("longenough1", second))
}

func TestBcryptHasher_Verify(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)
	password := "StrongPass123!"

	hash, err := hasher.Hash(password)
	require.NoError(t, err)

	// Test correct password
	assert.True(t, hasher.Verify(password, hash))

	// Test incorrect password
	assert.False(t, hasher.Verify("WrongPassword123!", hash))

	// Test empty password
	assert.False(t, hasher.Verify("", hash))
}

func TestBcryptHasher_VerifyMalformedHash(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)

	assert.NotPanics(t, func() {
		assert.False(t, hasher.Verify("password", ""))
		assert.False(t, hasher.Verify("password", "not-a-bcrypt-hash"))
		assert.False(t, hasher.Verify("password", "$2a$10$short"))
	})
}

func TestBcryptHasher_PasswordTooLong(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost)

	_, err := hasher.Hash(strings.Repeat("a", 73))
	assert.Error(t, err)
}

func TestNewBcryptHasher_CostFromConfig(t *testing.T) {
	cfg := &config.Config{Auth: &config.AuthConfig{BcryptCost: bcrypt.MinCost}}
	hasher := NewBcryptHasher(cfg).(*bcryptHasher)
	assert.Equal(t, bcrypt.MinCost, hasher.cost)

	fallback := NewBcryptHasher(&config.Config{Auth: &config.AuthConfig{BcryptCost: 99}}).(*bcryptHasher)
	assert.Equal(t, bcrypt.DefaultCost, fallback.cost)

	noAuth := NewBcryptHasher(&config.Config{}).(*bcryptHasher)
	assert.Equal(t, bcrypt.DefaultCost, noAuth.cost)
}

func TestBcryptHasher_HashCost(t *testing.T) {
	hasher := NewBcryptHasherWithCost(bcrypt.MinCost + 1)

	hash, err := hasher.Hash("longenough1")
	require.NoError(t, err)

	cost, err := bcrypt.Cost([]byte(hash))
	require.NoError(t, err)
	assert.Equal(t, bcrypt.MinCost+1, cost)
}
