package auth

import (
	"fmt"
	"unicode"
)

// MaxPasswordBytes is the longest password bcrypt accepts.
const MaxPasswordBytes = 72

// PasswordPolicy describes the rules a new password must satisfy.
type PasswordPolicy struct {
	MinLength       int
	RequireDigit    bool
	RequireLower    bool
	RequireUpper    bool
	RequireNonAlnum bool
}

// DefaultPasswordPolicy mirrors the identity defaults the web shop shipped with.
func DefaultPasswordPolicy() PasswordPolicy {
	return PasswordPolicy{
		MinLength:       6,
		RequireDigit:    true,
		RequireLower:    true,
		RequireUpper:    true,
		RequireNonAlnum: true,
	}
}

// Check returns a *PolicyError listing every failed rule, or nil.
func (p PasswordPolicy) Check(password string) error {
	var digit, lower, upper, other bool
	n := 0
	for _, r := range password {
		n++
		switch {
		case unicode.IsDigit(r):
			digit = true
		case unicode.IsLower(r):
			lower = true
		case unicode.IsUpper(r):
			upper = true
		case !unicode.IsLetter(r):
			other = true
		}
	}

	var v []string
	if n < p.MinLength {
		v = append(v, fmt.Sprintf("Passwords must be at least %d characters.", p.MinLength))
	}
	if len(password) > MaxPasswordBytes {
		v = append(v, fmt.Sprintf("Passwords must be at most %d bytes.", MaxPasswordBytes))
	}
	if p.RequireNonAlnum && !other {
		v = append(v, "Passwords must have at least one non alphanumeric character.")
	}
	if p.RequireDigit && !digit {
		v = append(v, "Passwords must have at least one digit ('0'-'9').")
	}
	if p.RequireLower && !lower {
		v = append(v, "Passwords must have at least one lowercase ('a'-'z').")
	}
	if p.RequireUpper && !upper {
		v = append(v, "Passwords must have at least one uppercase ('A'-'Z').")
	}
	if len(v) == 0 {
		return nil
	}
	return &PolicyError{Violations: v}
}
