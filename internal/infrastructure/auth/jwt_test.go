package auth

import (
	"testing"
	"time"

	"github.com/condoledger/backend/internal/infrastructure/config"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestJWTService() *JWTService {
	cfg := config.JWTConfig{
		Secret:                "test-secret-key-at-least-32-chars",
		AccessTokenExpiration: 15 * time.Minute,
		Issuer:                "test-issuer",
	}
	return NewJWTService(cfg)
}

func TestGenerateToken(t *testing.T) {
	svc := newTestJWTService()
	userID := uuid.New()

	token, expiresAt, err := svc.GenerateToken(userID, "resident11")

	require.NoError(t, err)
	assert.NotEmpty(t, token)
	assert.True(t, expiresAt.After(time.Now()))
}

func TestValidateToken(t *testing.T) {
	t.Run("round-trips claims", func(t *testing.T) {
		svc := newTestJWTService()
		userID := uuid.New()

		token, _, err := svc.GenerateToken(userID, "resident11")
		require.NoError(t, err)

		claims, err := svc.ValidateToken(token)

		require.NoError(t, err)
		assert.Equal(t, userID.String(), claims.UserID)
		assert.Equal(t, "resident11", claims.Username)

		parsed, err := claims.GetUserID()
		require.NoError(t, err)
		assert.Equal(t, userID, parsed)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		svc := newTestJWTService()

		claims, err := svc.ValidateToken("not-a-token")

		assert.Nil(t, claims)
		assert.Equal(t, ErrInvalidToken, err)
	})

	t.Run("rejects token signed with another secret", func(t *testing.T) {
		other := NewJWTService(config.JWTConfig{
			Secret:                "a-completely-different-secret-key",
			AccessTokenExpiration: 15 * time.Minute,
			Issuer:                "test-issuer",
		})
		token, _, err := other.GenerateToken(uuid.New(), "intruder")
		require.NoError(t, err)

		svc := newTestJWTService()
		_, err = svc.ValidateToken(token)

		assert.Equal(t, ErrInvalidToken, err)
	})

	t.Run("rejects expired token", func(t *testing.T) {
		svc := NewJWTService(config.JWTConfig{
			Secret:                "test-secret-key-at-least-32-chars",
			AccessTokenExpiration: -1 * time.Minute,
			Issuer:                "test-issuer",
		})
		token, _, err := svc.GenerateToken(uuid.New(), "late")
		require.NoError(t, err)

		_, err = svc.ValidateToken(token)

		assert.Equal(t, ErrExpiredToken, err)
	})
}
