package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation signals malformed caller input (bad numbers, bad tenant id).
	ErrValidation = errors.New("validation failed")
	// ErrUpstreamUnavailable signals that the employee store could not be read.
	ErrUpstreamUnavailable = errors.New("search unavailable")
	// ErrSearchTimeout signals that the request exceeded the search latency budget.
	ErrSearchTimeout = errors.New("search timed out")
	// ErrUnauthorized signals a missing or unknown credential.
	ErrUnauthorized = errors.New("unauthorized")
	// ErrForbidden signals a principal without the required privilege.
	ErrForbidden = errors.New("forbidden")
)

// ValidationError wraps ErrValidation with the offending parameter.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrValidation.Error(), e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a validation error for the given parameter.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
