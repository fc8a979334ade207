package auth

import (
	"golang.org/x/crypto/bcrypt"
)

const bcryptCost = 10

func HashPassword(password string) (string, error) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcryptCost)
	if err != nil {
		return "", err
	}
	return string(hash), nil
}

// CheckPassword compares in constant time via bcrypt.
func CheckPassword(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// newDummyHash returns the hash compared against when a login names an
// unknown email, so the response takes as long as a real password check.
func newDummyHash() string {
	hash, _ := bcrypt.GenerateFromPassword([]byte("kindness-corner-placeholder"), bcryptCost)
	return string(hash)
}
