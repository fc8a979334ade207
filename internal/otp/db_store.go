package otp

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/mayurrohokale/Kindness-Corner-backend/internal/database/models"
	"gorm.io/gorm"
)

// DBStore keeps codes in the verification_codes table. Rows past the TTL are
// filtered out on read and removed by PurgeExpired.
type DBStore struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

func NewDBStore(db *gorm.DB, ttl time.Duration) *DBStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &DBStore{db: db, ttl: ttl, now: time.Now}
}

// WithClock replaces the time source.
func (s *DBStore) WithClock(now func() time.Time) *DBStore {
	return &DBStore{db: s.db, ttl: s.ttl, now: now}
}

func (s *DBStore) Issue(ctx context.Context, email string) (int, error) {
	code, err := GenerateCode()
	if err != nil {
		return 0, err
	}

	rec := &models.VerificationCode{
		Email:     email,
		Code:      code,
		CreatedAt: s.now().UTC(),
	}
	if err := s.db.WithContext(ctx).Create(rec).Error; err != nil {
		return 0, fmt.Errorf("storing verification code: %w", err)
	}
	return code, nil
}

func (s *DBStore) Consume(ctx context.Context, email string, code int) error {
	db := s.db.WithContext(ctx)

	var latest models.VerificationCode
	err := db.Where("email = ? AND created_at > ?", email, s.cutoff()).
		Order("created_at DESC, id DESC").
		First(&latest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ErrCodeNotFound
		}
		return fmt.Errorf("loading verification code: %w", err)
	}

	if latest.Code != code {
		return ErrCodeMismatch
	}

	// Claim the row. Only one concurrent caller can delete it.
	result := db.Where("id = ?", latest.ID).Delete(&models.VerificationCode{})
	if result.Error != nil {
		return fmt.Errorf("consuming verification code: %w", result.Error)
	}
	if result.RowsAffected != 1 {
		return ErrCodeNotFound
	}

	if err := db.Where("email = ?", email).Delete(&models.VerificationCode{}).Error; err != nil {
		return fmt.Errorf("clearing verification codes: %w", err)
	}
	return nil
}

// PurgeExpired deletes codes older than the TTL and reports how many went.
func (s *DBStore) PurgeExpired(ctx context.Context) (int64, error) {
	result := s.db.WithContext(ctx).Where("created_at <= ?", s.cutoff()).Delete(&models.VerificationCode{})
	if result.Error != nil {
		return 0, fmt.Errorf("purging verification codes: %w", result.Error)
	}
	return result.RowsAffected, nil
}

func (s *DBStore) cutoff() time.Time {
	return s.now().UTC().Add(-s.ttl)
}
