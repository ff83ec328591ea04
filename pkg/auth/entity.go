package auth

import (
	"time"

	"github.com/google/uuid"
)

// DefaultRole is assigned to every newly registered user.
const DefaultRole = "User"

// User is a domain entity representing a registered account.
type User struct {
	ID           uuid.UUID
	Email        string
	PasswordHash string
	FullName     string
	Phone        string
	Age          int
	Address      string
	Roles        []string
	CreatedAt    time.Time
}

// HasRole reports whether the user has been assigned the given role.
func (u User) HasRole(role string) bool {
	for _, r := range u.Roles {
		if r == role {
			return true
		}
	}
	return false
}

// Profile carries the non-credential fields supplied at registration.
type Profile struct {
	FullName string
	Phone    string
	Age      int
	Address  string
}

// SessionToken is a signed proof that a user authenticated at IssuedAt.
type SessionToken struct {
	Value     string
	Subject   string
	IssuedAt  time.Time
	ExpiresAt time.Time
}
