package auth

import (
	"errors"
	"net/mail"
	"regexp"
	"strconv"
	"strings"
)

const (
	maxAge        = 150
	maxAddressLen = 256
	maxFieldLen   = 256
)

var phonePattern = regexp.MustCompile(`^\+?[0-9 ()\-]{7,20}$`)

// RegisterRequest is the registration input. Age is kept as text so that a
// non-numeric value becomes a field error instead of a decode failure.
type RegisterRequest struct {
	Email    string
	Password string
	Phone    string
	Age      string
	FullName string
	Address  string
}

// LoginRequest is the login input.
type LoginRequest struct {
	Email    string
	Password string
}

// ValidateRegister checks every field and returns all problems at once as a
// *ValidationError, or nil together with the parsed age.
func ValidateRegister(req RegisterRequest, policy PasswordPolicy) (int, error) {
	ve := &ValidationError{}

	validateEmail(ve, req.Email)

	if req.Password == "" {
		ve.add("password", "Password is required.")
	} else if err := policy.Check(req.Password); err != nil {
		var pe *PolicyError
		if errors.As(err, &pe) {
			for _, v := range pe.Violations {
				ve.add("password", v)
			}
		}
	}

	fullName := strings.TrimSpace(req.FullName)
	switch {
	case fullName == "":
		ve.add("fullName", "Full name is required.")
	case len(fullName) > maxFieldLen:
		ve.add("fullName", "Full name is too long.")
	}

	age := 0
	ageText := strings.TrimSpace(req.Age)
	if ageText == "" {
		ve.add("age", "Age is required.")
	} else if n, err := strconv.Atoi(ageText); err != nil {
		ve.add("age", "Age must be a number.")
	} else if n < 1 || n > maxAge {
		ve.add("age", "Age must be between 1 and 150.")
	} else {
		age = n
	}

	if phone := strings.TrimSpace(req.Phone); phone != "" && !phonePattern.MatchString(phone) {
		ve.add("phone", "Phone number is not valid.")
	}
	if len(strings.TrimSpace(req.Address)) > maxAddressLen {
		ve.add("address", "Address is too long.")
	}

	return age, ve.orNil()
}

// ValidateLogin checks that both credentials are present.
func ValidateLogin(req LoginRequest) error {
	ve := &ValidationError{}
	if strings.TrimSpace(req.Email) == "" {
		ve.add("email", "Email is required.")
	}
	if req.Password == "" {
		ve.add("password", "Password is required.")
	}
	return ve.orNil()
}

func validateEmail(ve *ValidationError, email string) {
	email = strings.TrimSpace(email)
	if email == "" {
		ve.add("email", "Email is required.")
		return
	}
	if len(email) > maxFieldLen {
		ve.add("email", "Email is too long.")
		return
	}
	addr, err := mail.ParseAddress(email)
	if err != nil || addr.Address != email || addr.Name != "" {
		ve.add("email", "Email is not a valid e-mail address.")
	}
}
