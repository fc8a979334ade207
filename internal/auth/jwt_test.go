package auth_test

import (
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/auth"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/database/models"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testUser() *models.User {
	return &models.User{
		Base:         models.Base{ID: uuid.New()},
		Name:         "Asha",
		Email:        "asha@example.com",
		PasswordHash: "$2a$10$somehash",
		Role:         models.RoleUser,
	}
}

func TestJWTService_GenerateToken(t *testing.T) {
	jwtService := auth.NewJWTService("test-secret", 0)
	user := testUser()

	t.Run("round trips identity claims", func(t *testing.T) {
		token, err := jwtService.GenerateToken(user)
		require.NoError(t, err)
		assert.NotEmpty(t, token)

		claims, err := jwtService.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, user.ID, claims.UserID)
		assert.Equal(t, user.Name, claims.Name)
		assert.Equal(t, user.Email, claims.Email)
		assert.Equal(t, "kindness-corner", claims.Issuer)
		assert.Equal(t, user.ID.String(), claims.Subject)
	})

	t.Run("no expiry by default", func(t *testing.T) {
		token, err := jwtService.GenerateToken(user)
		require.NoError(t, err)

		claims, err := jwtService.ValidateToken(token)
		require.NoError(t, err)
		assert.Nil(t, claims.ExpiresAt)
	})

	t.Run("each token has its own id", func(t *testing.T) {
		a, err := jwtService.GenerateToken(user)
		require.NoError(t, err)
		b, err := jwtService.GenerateToken(user)
		require.NoError(t, err)

		ca, err := jwtService.ValidateToken(a)
		require.NoError(t, err)
		cb, err := jwtService.ValidateToken(b)
		require.NoError(t, err)
		assert.NotEqual(t, ca.ID, cb.ID)
	})
}

func TestJWTService_ValidateToken(t *testing.T) {
	user := testUser()

	t.Run("rejects expired token", func(t *testing.T) {
		clock := testutil.NewClock(time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC))
		jwtService := auth.NewJWTService("test-secret", time.Hour).WithClock(clock.Now)

		token, err := jwtService.GenerateToken(user)
		require.NoError(t, err)

		_, err = jwtService.ValidateToken(token)
		require.NoError(t, err)

		clock.Advance(2 * time.Hour)
		_, err = jwtService.ValidateToken(token)
		assert.ErrorIs(t, err, auth.ErrExpiredToken)
	})

	t.Run("rejects token with wrong secret", func(t *testing.T) {
		token, err := auth.NewJWTService("secret-1", 0).GenerateToken(user)
		require.NoError(t, err)

		_, err = auth.NewJWTService("secret-2", 0).ValidateToken(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("rejects tampered token", func(t *testing.T) {
		jwtService := auth.NewJWTService("test-secret", 0)
		token, err := jwtService.GenerateToken(user)
		require.NoError(t, err)

		tampered := token[:len(token)-4] + "abcd"
		_, err = jwtService.ValidateToken(tampered)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("rejects malformed token", func(t *testing.T) {
		_, err := auth.NewJWTService("test-secret", 0).ValidateToken("not-a-jwt")
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("rejects none algorithm", func(t *testing.T) {
		claims := auth.Claims{
			UserID: user.ID,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer: "kindness-corner",
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodNone, claims).SignedString(jwt.UnsafeAllowNoneSignatureType)
		require.NoError(t, err)

		_, err = auth.NewJWTService("test-secret", 0).ValidateToken(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})

	t.Run("rejects foreign issuer", func(t *testing.T) {
		claims := auth.Claims{
			UserID: user.ID,
			RegisteredClaims: jwt.RegisteredClaims{
				Issuer: "someone-else",
			},
		}
		token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-secret"))
		require.NoError(t, err)

		_, err = auth.NewJWTService("test-secret", 0).ValidateToken(token)
		assert.ErrorIs(t, err, auth.ErrInvalidToken)
	})
}
