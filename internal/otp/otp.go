// Package otp issues and consumes short-lived email verification codes.
package otp

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"time"
)

var (
	ErrCodeNotFound = errors.New("verification code not found or expired")
	ErrCodeMismatch = errors.New("invalid verification code")
)

const (
	minCode = 1000
	maxCode = 9999

	DefaultTTL = 10 * time.Minute
)

// Store keeps at most one live code per email from the caller's point of
// view: Consume only ever matches the most recently issued unexpired code,
// and a successful Consume invalidates every code for that email.
type Store interface {
	Issue(ctx context.Context, email string) (int, error)
	Consume(ctx context.Context, email string, code int) error
}

// GenerateCode returns a uniformly random 4-digit code.
func GenerateCode() (int, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(maxCode-minCode+1))
	if err != nil {
		return 0, fmt.Errorf("generating code: %w", err)
	}
	return int(n.Int64()) + minCode, nil
}

var (
	_ Store = (*DBStore)(nil)
	_ Store = (*RedisStore)(nil)
)
