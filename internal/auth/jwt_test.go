package auth_test

import (
	"testing"
	"time"

	"github.com/hugh/recipebox/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestJWTService_GenerateToken(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", 24*time.Hour)

	t.Run("generates valid token", func(t *testing.T) {
		token, err := jwtService.GenerateToken(42, "test@example.com")
		require.NoError(t, err)
		assert.NotEmpty(t, token)

		claims, err := jwtService.ValidateToken(token)
		require.NoError(t, err)
		assert.EqualValues(t, 42, claims.UserID)
		assert.Equal(t, "test@example.com", claims.Email)
	})

	t.Run("token contains correct issuer and subject", func(t *testing.T) {
		token, err := jwtService.GenerateToken(42, "test@example.com")
		require.NoError(t, err)

		claims, err := jwtService.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "recipebox", claims.Issuer)
		assert.Equal(t, "42", claims.Subject)
	})
}

func TestJWTService_ValidateToken(t *testing.T) {
	t.Run("rejects expired token", func(t *testing.T) {
		jwtService := auth.NewJWTService("test-secret", 1*time.Millisecond)

		token, err := jwtService.GenerateToken(1, "test@example.com")
		require.NoError(t, err)

		time.Sleep(10 * time.Millisecond)

		_, err = jwtService.ValidateToken(token)
		assert.ErrorIs(t, err, auth.ErrExpiredToken)
	})

	t.Run("rejects token signed with different secret", func(t *testing.T) {
		signer := auth.NewJWTService("secret-one", 24*time.Hour)
		verifier := auth.NewJWTService("secret-two", 24*time.Hour)

		token, err := signer.GenerateToken(1, "test@example.com")
		require.NoError(t, err)

		_, err = verifier.ValidateToken(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		jwtService := auth.NewJWTService("test-secret", 24*time.Hour)

		_, err := jwtService.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}
