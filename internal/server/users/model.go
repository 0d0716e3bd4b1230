package users

import (
	"strings"
	"time"
)

// User is a registered account. It is created once on register and never
// updated afterwards. Email is the unique key.
type User struct {
	FullName     string    `json:"fullName"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"passwordHash"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NormalizeEmail returns the canonical form of an email used as store key.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
