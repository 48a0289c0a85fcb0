package security_test

import (
	"strings"
	"testing"

	"messagely/internal/common/security"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestHashPassword(t *testing.T) {
	security.InitHasher(bcrypt.MinCost)

	t.Run("produces valid bcrypt digest", func(t *testing.T) {
		hash, err := security.HashPassword("password123")
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(hash, "$2a$"))
	})

	t.Run("same password produces different digests (salt)", func(t *testing.T) {
		hash1, err := security.HashPassword("samepassword")
		require.NoError(t, err)
		hash2, err := security.HashPassword("samepassword")
		require.NoError(t, err)
		assert.NotEqual(t, hash1, hash2)
	})

	t.Run("out of range work factor falls back to default", func(t *testing.T) {
		security.InitHasher(9999)
		hash, err := security.HashPassword("password")
		require.NoError(t, err)
		cost, err := bcrypt.Cost([]byte(hash))
		require.NoError(t, err)
		assert.Equal(t, bcrypt.DefaultCost, cost)
		security.InitHasher(bcrypt.MinCost)
	})
}

func TestCheckPasswordHash(t *testing.T) {
	security.InitHasher(bcrypt.MinCost)

	hash, err := security.HashPassword("correctpassword")
	require.NoError(t, err)

	t.Run("correct password verifies", func(t *testing.T) {
		assert.True(t, security.CheckPasswordHash("correctpassword", hash))
	})

	t.Run("wrong password fails", func(t *testing.T) {
		assert.False(t, security.CheckPasswordHash("wrongpassword", hash))
	})

	t.Run("malformed digest reports false, not panic", func(t *testing.T) {
		assert.False(t, security.CheckPasswordHash("password", "not-a-bcrypt-digest"))
	})

	t.Run("empty password fails against real digest", func(t *testing.T) {
		assert.False(t, security.CheckPasswordHash("", hash))
	})
}
