// Package apperr defines the error taxonomy shared by services and
// controllers. Services return these sentinels (wrapped with context) and
// controllers map them onto HTTP status codes.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound maps to 404.
	ErrNotFound = errors.New("not found")

	// ErrForbidden maps to 403: the record exists, but the caller lacks
	// the ownership or grant this operation requires.
	ErrForbidden = errors.New("forbidden")

	// ErrUnauthorized maps to 401.
	ErrUnauthorized = errors.New("unauthorized")

	// ErrConflict maps to 409 (duplicate email, duplicate slug).
	ErrConflict = errors.New("conflict")
)

// ValidationError maps to 422 and carries per-field messages.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %d field(s)", len(e.Fields))
}

// Validation builds a ValidationError from field/message pairs.
func Validation(fields map[string]string) *ValidationError {
	return &ValidationError{Fields: fields}
}

// ValidationField builds a single-field ValidationError.
func ValidationField(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// AsValidation unwraps err into a *ValidationError when possible.
func AsValidation(err error) (*ValidationError, bool) {
	var ve *ValidationError
	ok := errors.As(err, &ve)
	return ve, ok
}

// NotFoundf wraps ErrNotFound with a formatted message.
func NotFoundf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrNotFound)...)
}

// Forbiddenf wraps ErrForbidden with a formatted message.
func Forbiddenf(format string, args ...any) error {
	return fmt.Errorf(format+": %w", append(args, ErrForbidden)...)
}
