package auth

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Roles
const (
	RoleAdmin    = "admin"
	RoleCustomer = "customer"
)

// User is the item stored in the users DynamoDB table, keyed by email so a
// conditional put makes registration race-free.
type User struct {
	ID           string    `json:"id" dynamodbav:"user_id"`
	Name         string    `json:"name" dynamodbav:"name"`
	Email        string    `json:"email" dynamodbav:"email"` // PK
	PasswordHash string    `json:"-" dynamodbav:"password_hash"`
	Role         string    `json:"role" dynamodbav:"role"` // admin | customer
	CreatedAt    time.Time `json:"createdAt" dynamodbav:"created_at"`
}

// IsAdmin reports whether the user may perform back-office operations.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}

// CheckPassword compares a candidate password against the stored hash.
func (u *User) CheckPassword(password string) bool {
	return bcrypt.CompareHashAndPassword([]byte(u.PasswordHash), []byte(password)) == nil
}

// HashPassword hashes a plaintext password for storage.
func HashPassword(password string) (string, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", err
	}
	return string(hashed), nil
}
