package models

import "time"

// VerificationCode is a single issued OTP. Rows older than the configured TTL
// are treated as absent and purged by the worker.
type VerificationCode struct {
	ID        uint      `gorm:"primaryKey"`
	Email     string    `gorm:"index;not null"`
	Code      int       `gorm:"not null"`
	CreatedAt time.Time `gorm:"index;not null"`
}

func (VerificationCode) TableName() string {
	return "verification_codes"
}
