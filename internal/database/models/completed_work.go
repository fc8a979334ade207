package models

type CompletedWork struct {
	Base
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"not null" json:"description"`
	Image       string `gorm:"not null" json:"image"`
}

func (CompletedWork) TableName() string {
	return "completed_works"
}
