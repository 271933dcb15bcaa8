package errs

import (
	"errors"
	"fmt"
)

// Sentinel error kinds. Handlers map these to HTTP status classes;
// everything else is treated as an internal upstream failure.
var (
	ErrNotConfigured     = errors.New("not configured")
	ErrNotFound          = errors.New("not found")
	ErrConflict          = errors.New("already exists")
	ErrInvalidInput      = errors.New("invalid input")
	ErrInvalidTransition = errors.New("invalid status transition")
)

// Wrap adds context and preserves the error chain (errors.Is/As works).
func Wrap(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}
