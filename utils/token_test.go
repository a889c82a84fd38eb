package utils_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"school-analytics-dashboard/utils"
)

func TestValidateToken(t *testing.T) {
	t.Run("Success: round trip", func(t *testing.T) {
		tok, err := utils.GenerateToken("user-1", "admin", "s3cret", time.Hour)
		require.NoError(t, err)

		claims, err := utils.ValidateToken(tok, "s3cret")

		require.NoError(t, err)
		assert.Equal(t, "user-1", claims.Subject)
		assert.Equal(t, "admin", claims.Role)
	})

	t.Run("Error: wrong secret", func(t *testing.T) {
		tok, _ := utils.GenerateToken("user-1", "admin", "s3cret", time.Hour)

		_, err := utils.ValidateToken(tok, "other")

		assert.Error(t, err)
	})

	t.Run("Error: expired", func(t *testing.T) {
		tok, _ := utils.GenerateToken("user-1", "admin", "s3cret", -time.Minute)

		_, err := utils.ValidateToken(tok, "s3cret")

		assert.Error(t, err)
	})
}

func TestCredentialIdentity(t *testing.T) {
	a1, _ := utils.GenerateToken("user-a", "admin", "x", time.Hour)
	a2, _ := utils.GenerateToken("user-a", "admin", "x", 2*time.Hour)

	// claim sub tidak dipercaya tanpa verifikasi
	assert.NotEqual(t, utils.CredentialIdentity(a1), utils.CredentialIdentity(a2))
	assert.NotContains(t, utils.CredentialIdentity(a1), "user-a")

	opaque := utils.CredentialIdentity("opaque-session-token")
	assert.Contains(t, opaque, "tok:")
	assert.Equal(t, opaque, utils.CredentialIdentity("opaque-session-token"))
	assert.NotEqual(t, opaque, utils.CredentialIdentity("another-token"))
	assert.Empty(t, utils.CredentialIdentity(""))
}

func TestSubjectIdentity(t *testing.T) {
	tok, _ := utils.GenerateToken("user-a", "admin", "x", time.Hour)
	claims, err := utils.ValidateToken(tok, "x")
	require.NoError(t, err)

	assert.Equal(t, "sub:user-a", utils.SubjectIdentity(claims))
	assert.Empty(t, utils.SubjectIdentity(&utils.Claims{}))
	assert.Empty(t, utils.SubjectIdentity(nil))
}

func TestCheckPasswordHash(t *testing.T) {
	hash, err := utils.HashPassword("rahasia")
	require.NoError(t, err)

	assert.True(t, utils.CheckPasswordHash("rahasia", hash))
	assert.False(t, utils.CheckPasswordHash("salah", hash))
	assert.False(t, utils.CheckPasswordHash("rahasia", ""))
}
