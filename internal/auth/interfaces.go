package auth

import (
	"context"

	"github.com/google/uuid"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/database/models"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/users"
)

// UserStore is the subset of the credential store the auth flows need.
type UserStore interface {
	Create(ctx context.Context, email, name, passwordHash string) (*models.User, error)
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.User, error)
	UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error
	SetVerified(ctx context.Context, email string) error
}

// TokenService defines the interface for session token operations.
type TokenService interface {
	GenerateToken(user *models.User) (string, error)
	ValidateToken(tokenString string) (*Claims, error)
}

// Revoker tracks logged-out session tokens.
type Revoker interface {
	Revoke(ctx context.Context, claims *Claims) error
	IsRevoked(ctx context.Context, tokenID string) (bool, error)
}

// Compile-time interface satisfaction checks
var (
	_ UserStore    = (*users.Store)(nil)
	_ TokenService = (*JWTService)(nil)
	_ Revoker      = (*Denylist)(nil)
)
