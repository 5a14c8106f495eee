// internal/domain/errors.go
package domain

import (
	"errors"
	"fmt"
)

// ErrUnauthorized matches, via errors.Is, a request the API rejected because
// the session is missing or expired.
var ErrUnauthorized = errors.New("unauthorized")

// ErrForbidden matches a request the session lacks permission for.
var ErrForbidden = errors.New("forbidden")

// ErrProductNotFound is returned when productById resolves to null.
var ErrProductNotFound = errors.New("product not found")

// ErrValidation is the sentinel wrapped by every ValidationError.
var ErrValidation = errors.New("validation failed")

// ValidationError reports a form field that failed local validation.
// It never originates from the network: forms refuse to submit until valid.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Unwrap lets errors.Is match ErrValidation.
func (e *ValidationError) Unwrap() error {
	return ErrValidation
}
