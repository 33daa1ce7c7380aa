package services

import (
	"errors"
	"fmt"
)

// Sentinel errors mapped to HTTP statuses by the handler layer.
var (
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrNotFound     = errors.New("not found")
)

// ValidationError reports invalid input detected before any mutation:
// bad field values, oversized files, no-op submissions, or an attempt to
// re-process an already reviewed submission.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func validationf(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is a ValidationError
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
