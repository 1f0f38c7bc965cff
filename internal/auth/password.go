package auth

import (
	"golang.org/x/crypto/bcrypt"
)

// HashPassword hashes with bcrypt. Passwords are never stored or
// compared in plaintext.
func HashPassword(password string, cost int) (string, error) {
	if cost == 0 {
		cost = bcrypt.DefaultCost
	}
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), cost)
	return string(bytes), err
}

// CheckPasswordHash compares a candidate password against a stored hash.
func CheckPasswordHash(password, hash string) bool {
	return bcrypt.CompareHashAndPassword([]byte(hash), []byte(password)) == nil
}

// ValidatePassword enforces the minimum password strength. Returns the
// field -> message map expected by the validation error context.
func ValidatePassword(password string) map[string]string {
	if len(password) < 8 {
		return map[string]string{"password": "Must be at least 8 characters long"}
	}
	return nil
}
