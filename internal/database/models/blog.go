package models

import (
	"time"

	"github.com/google/uuid"
)

type BlogStatus string

const (
	BlogStatusPending  BlogStatus = "pending"
	BlogStatusApproved BlogStatus = "approved"
)

type Blog struct {
	Base
	Title       string     `gorm:"not null" json:"title"`
	Description string     `gorm:"not null" json:"description"`
	Image       string     `json:"image,omitempty"`
	Author      string     `gorm:"not null" json:"author"`
	AuthorID    uuid.UUID  `gorm:"type:uuid;index" json:"author_id"`
	Date        time.Time  `json:"date"`
	Status      BlogStatus `gorm:"default:'pending';index" json:"status"`
}

func (Blog) TableName() string {
	return "blogs"
}
