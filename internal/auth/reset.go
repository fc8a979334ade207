package auth

import (
	"errors"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/database/models"
)

const DefaultResetTTL = 15 * time.Minute

type ResetClaims struct {
	UserID uuid.UUID `json:"user_id"`
	Email  string    `json:"email"`
	jwt.RegisteredClaims
}

// ResetTokenIssuer signs password-reset tokens with the server secret joined
// to the user's current password hash. Changing the password changes the key,
// so every outstanding token for that user stops verifying.
type ResetTokenIssuer struct {
	secret string
	ttl    time.Duration
	now    func() time.Time
}

func NewResetTokenIssuer(secret string, ttl time.Duration) *ResetTokenIssuer {
	if ttl <= 0 {
		ttl = DefaultResetTTL
	}
	return &ResetTokenIssuer{secret: secret, ttl: ttl, now: time.Now}
}

// WithClock replaces the time source.
func (r *ResetTokenIssuer) WithClock(now func() time.Time) *ResetTokenIssuer {
	return &ResetTokenIssuer{secret: r.secret, ttl: r.ttl, now: now}
}

func (r *ResetTokenIssuer) TTL() time.Duration {
	return r.ttl
}

func (r *ResetTokenIssuer) Issue(user *models.User) (string, error) {
	now := r.now()
	claims := ResetClaims{
		UserID: user.ID,
		Email:  user.Email,
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(r.ttl)),
		},
	}
	return jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(r.key(user))
}

// Decode reads the claims without checking the signature. The result only
// says which user to load; it must not be trusted until Verify succeeds.
func (r *ResetTokenIssuer) Decode(tokenString string) (*ResetClaims, error) {
	claims := &ResetClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(tokenString, claims); err != nil {
		return nil, ErrInvalidToken
	}
	if claims.UserID == uuid.Nil {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (r *ResetTokenIssuer) Verify(tokenString string, user *models.User) (*ResetClaims, error) {
	token, err := jwt.ParseWithClaims(tokenString, &ResetClaims{}, func(token *jwt.Token) (interface{}, error) {
		return r.key(user), nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(r.now),
	)
	if err != nil {
		if errors.Is(err, jwt.ErrTokenExpired) {
			return nil, ErrExpiredToken
		}
		return nil, ErrInvalidToken
	}

	claims, ok := token.Claims.(*ResetClaims)
	if !ok || !token.Valid || claims.UserID != user.ID {
		return nil, ErrInvalidToken
	}
	return claims, nil
}

func (r *ResetTokenIssuer) key(user *models.User) []byte {
	return []byte(r.secret + user.PasswordHash)
}
