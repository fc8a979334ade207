// Package users persists credential records and volunteer profiles.
package users

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/mayurrohokale/Kindness-Corner-backend/internal/database/models"
	"gorm.io/gorm"
)

var (
	ErrNotFound       = errors.New("user not found")
	ErrDuplicateEmail = errors.New("user already exists")
)

// Cipher encrypts volunteer contact details at rest.
type Cipher interface {
	EncryptString(plaintext string) (string, error)
	DecryptString(ciphertext string) (string, error)
}

type VolunteerProfile struct {
	Phone      string
	Address    string
	City       string
	State      string
	PostalCode string
}

// Store reads credentials without touching sealed volunteer fields. Only
// ListVolunteers decrypts them, so a key change never blocks a login.
type Store struct {
	db     *gorm.DB
	cipher Cipher
	log    *slog.Logger
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db, log: slog.Default()}
}

// WithCipher returns a copy of the store that encrypts phone and address.
func (s *Store) WithCipher(c Cipher) *Store {
	return &Store{db: s.db, cipher: c, log: s.log}
}

func (s *Store) WithLogger(l *slog.Logger) *Store {
	return &Store{db: s.db, cipher: s.cipher, log: l}
}

func (s *Store) Create(ctx context.Context, email, name, passwordHash string) (*models.User, error) {
	var count int64
	if err := s.db.WithContext(ctx).Model(&models.User{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, fmt.Errorf("checking email: %w", err)
	}
	if count > 0 {
		return nil, ErrDuplicateEmail
	}

	user := &models.User{
		Email:        email,
		Name:         name,
		PasswordHash: passwordHash,
		Role:         models.RoleUser,
		IsActive:     true,
	}
	if err := s.db.WithContext(ctx).Create(user).Error; err != nil {
		// Lost a race with a concurrent signup for the same email.
		if isDuplicate(err) {
			return nil, ErrDuplicateEmail
		}
		return nil, fmt.Errorf("creating user: %w", err)
	}
	return user, nil
}

func (s *Store) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return s.first(ctx, "email = ?", email)
}

func (s *Store) FindByID(ctx context.Context, id uuid.UUID) (*models.User, error) {
	return s.first(ctx, "id = ?", id)
}

func (s *Store) first(ctx context.Context, query string, arg interface{}) (*models.User, error) {
	var user models.User
	if err := s.db.WithContext(ctx).Where(query, arg).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("finding user: %w", err)
	}
	return &user, nil
}

func (s *Store) UpdatePassword(ctx context.Context, id uuid.UUID, passwordHash string) error {
	return s.update(ctx, "id = ?", id, map[string]interface{}{"password_hash": passwordHash})
}

func (s *Store) SetVerified(ctx context.Context, email string) error {
	return s.update(ctx, "email = ?", email, map[string]interface{}{"email_verified": true})
}

func (s *Store) SetEnabled(ctx context.Context, id uuid.UUID, enabled bool) error {
	return s.update(ctx, "id = ?", id, map[string]interface{}{"is_active": enabled})
}

func (s *Store) SetVolunteerProfile(ctx context.Context, email string, p VolunteerProfile) (*models.User, error) {
	phone, err := s.seal(p.Phone)
	if err != nil {
		return nil, err
	}
	address, err := s.seal(p.Address)
	if err != nil {
		return nil, err
	}

	err = s.update(ctx, "email = ?", email, map[string]interface{}{
		"is_volunteer": true,
		"phone":        phone,
		"address":      address,
		"city":         p.City,
		"state":        p.State,
		"postal_code":  p.PostalCode,
	})
	if err != nil {
		return nil, err
	}

	user, err := s.FindByEmail(ctx, email)
	if err != nil {
		return nil, err
	}
	user.Phone = p.Phone
	user.Address = p.Address
	return user, nil
}

func (s *Store) update(ctx context.Context, query string, arg interface{}, fields map[string]interface{}) error {
	result := s.db.WithContext(ctx).Model(&models.User{}).Where(query, arg).Updates(fields)
	if result.Error != nil {
		return fmt.Errorf("updating user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Delete removes the user row permanently.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	result := s.db.WithContext(ctx).Where("id = ?", id).Delete(&models.User{})
	if result.Error != nil {
		return fmt.Errorf("deleting user: %w", result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *Store) List(ctx context.Context) ([]models.User, error) {
	return s.list(s.db.WithContext(ctx))
}

// ListVolunteers returns volunteers with phone and address decrypted. Rows
// sealed under another key come back with those two fields blank.
func (s *Store) ListVolunteers(ctx context.Context) ([]models.User, error) {
	out, err := s.list(s.db.WithContext(ctx).Where("is_volunteer = ?", true))
	if err != nil {
		return nil, err
	}
	for i := range out {
		s.reveal(ctx, &out[i])
	}
	return out, nil
}

func (s *Store) list(q *gorm.DB) ([]models.User, error) {
	var out []models.User
	if err := q.Order("created_at DESC").Find(&out).Error; err != nil {
		return nil, fmt.Errorf("listing users: %w", err)
	}
	return out, nil
}

func (s *Store) CountVolunteers(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.WithContext(ctx).Model(&models.User{}).Where("is_volunteer = ?", true).Count(&count).Error
	if err != nil {
		return 0, fmt.Errorf("counting volunteers: %w", err)
	}
	return count, nil
}

func (s *Store) seal(v string) (string, error) {
	if s.cipher == nil || v == "" {
		return v, nil
	}
	out, err := s.cipher.EncryptString(v)
	if err != nil {
		return "", fmt.Errorf("encrypting volunteer field: %w", err)
	}
	return out, nil
}

func (s *Store) reveal(ctx context.Context, u *models.User) {
	if s.cipher == nil || !u.IsVolunteer {
		return
	}
	u.Phone = s.open(ctx, u, "phone", u.Phone)
	u.Address = s.open(ctx, u, "address", u.Address)
}

func (s *Store) open(ctx context.Context, u *models.User, field, sealed string) string {
	if sealed == "" {
		return ""
	}
	plain, err := s.cipher.DecryptString(sealed)
	if err != nil {
		s.log.WarnContext(ctx, "cannot decrypt volunteer field", "user_id", u.ID, "field", field, "error", err)
		return ""
	}
	return plain
}

func isDuplicate(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "UNIQUE constraint failed") || strings.Contains(msg, "duplicate key")
}
