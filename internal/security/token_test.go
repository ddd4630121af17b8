package security

import (
	"testing"
	"time"

	"biliran-rental-backend/internal/domain"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret-that-is-at-least-32-chars"

func TestTokenManager_RoundTrip(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour)

	token, err := m.GenerateAccessToken("owner-1", domain.UserRoleOwner)
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, "owner-1", claims.UserID)
	assert.Equal(t, "owner-1", claims.Subject)
	assert.Equal(t, domain.Actor{UserID: "owner-1", Role: domain.UserRoleOwner}, claims.Actor())
}

func TestTokenManager_Rejects(t *testing.T) {
	m := NewTokenManager(testSecret, time.Hour)

	t.Run("Garbage", func(t *testing.T) {
		_, err := m.ValidateToken("not-a-token")
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Wrong Secret", func(t *testing.T) {
		other := NewTokenManager("another-secret-that-is-32-chars-long", time.Hour)
		token, err := other.GenerateAccessToken("u1", domain.UserRoleCustomer)
		require.NoError(t, err)
		_, err = m.ValidateToken(token)
		assert.ErrorIs(t, err, ErrInvalidToken)
	})

	t.Run("Expired", func(t *testing.T) {
		tm := m.(*tokenManager)
		tm.now = func() time.Time { return time.Now().Add(-2 * time.Hour) }
		defer func() { tm.now = time.Now }()

		token, err := m.GenerateAccessToken("u1", domain.UserRoleCustomer)
		require.NoError(t, err)
		tm.now = time.Now

		_, err = m.ValidateToken(token)
		assert.ErrorIs(t, err, ErrExpiredToken)
	})

	t.Run("Wrong Type", func(t *testing.T) {
		claims := ActorClaims{
			UserID: "u1",
			Type:   "refresh",
			RegisteredClaims: jwt.RegisteredClaims{
				ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
				Issuer:    tokenIssuer,
				Audience:  jwt.ClaimStrings{tokenAudience},
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(testSecret))
		require.NoError(t, err)

		_, err = m.ValidateToken(token)
		assert.ErrorIs(t, err, ErrWrongTokenType)
	})
}

func TestTokenManager_DefaultsRole(t *testing.T) {
	m := NewTokenManager(testSecret, 0)
	token, err := m.GenerateAccessToken("u1", "")
	require.NoError(t, err)

	claims, err := m.ValidateToken(token)
	require.NoError(t, err)
	assert.Equal(t, domain.UserRoleCustomer, claims.Role)
}
