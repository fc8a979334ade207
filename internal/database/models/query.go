package models

// Query is a support request submitted through the contact form.
type Query struct {
	Base
	Email       string `gorm:"not null" json:"email"`
	Subject     string `gorm:"not null" json:"subject"`
	Description string `gorm:"not null" json:"description"`
}

func (Query) TableName() string {
	return "queries"
}
