package auth

import (
	"errors"
	"strings"
)

// FieldError is a validation failure attributable to one named input field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError collects every field error found in a request.
type ValidationError struct {
	Fields []FieldError
	cause  error
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(msgs, "; ")
}

// Unwrap exposes the domain error behind the field errors, if any.
func (e *ValidationError) Unwrap() error { return e.cause }

// Messages returns the field messages in order.
func (e *ValidationError) Messages() []string {
	out := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		out = append(out, f.Message)
	}
	return out
}

func (e *ValidationError) add(field, msg string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: msg})
}

func (e *ValidationError) orNil() error {
	if len(e.Fields) == 0 {
		return nil
	}
	return e
}

// PolicyError lists every password rule a candidate failed.
type PolicyError struct {
	Violations []string
}

func (e *PolicyError) Error() string {
	return ErrWeakPassword.Error() + ": " + strings.Join(e.Violations, "; ")
}

func (e *PolicyError) Is(target error) bool { return target == ErrWeakPassword }

// IsValidation reports whether err carries field-level errors.
func IsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}
