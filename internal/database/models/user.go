package models

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

type User struct {
	Base
	Email         string `gorm:"uniqueIndex;not null" json:"email"`
	PasswordHash  string `gorm:"not null" json:"-"`
	Name          string `json:"name"`
	Role          string `gorm:"default:'user'" json:"role"` // user, admin
	IsActive      bool   `gorm:"default:true" json:"is_active"`
	EmailVerified bool   `gorm:"default:false" json:"email_verified"`

	// Volunteer profile. Phone and Address hold age ciphertext when an
	// encryption key is configured.
	IsVolunteer bool   `gorm:"default:false" json:"is_volunteer"`
	Phone       string `json:"phone,omitempty"`
	Address     string `json:"address,omitempty"`
	City        string `json:"city,omitempty"`
	State       string `json:"state,omitempty"`
	PostalCode  string `json:"postal_code,omitempty"`
}

func (User) TableName() string {
	return "users"
}
