package models

import "time"

type Donation struct {
	Base
	Title         string    `gorm:"not null" json:"title"`
	Description   string    `gorm:"not null" json:"description"`
	Amount        float64   `gorm:"not null" json:"amount"`
	Contact       string    `gorm:"not null" json:"contact"`
	EventFromDate time.Time `gorm:"not null" json:"event_from_date"`
	EventToDate   time.Time `gorm:"not null" json:"event_to_date"`
}

func (Donation) TableName() string {
	return "donations"
}
