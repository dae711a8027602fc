package service

import (
	"errors"
	"fmt"
)

// Error kinds returned by the services. Handlers map these onto HTTP status
// codes; everything else is treated as an internal error.
var (
	// ErrValidation: malformed input or a violated cross-field invariant.
	// Rejected before any store mutation.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound: the resource does not exist, or the acting user holds no
	// grant on any account it touches. Existence is concealed from
	// unauthorized users.
	ErrNotFound = errors.New("not found")
	// ErrForbidden: the resource is visible but the user lacks the
	// permission tier required for the mutation.
	ErrForbidden = errors.New("forbidden")
	// ErrDuplicate: a supplied external identifier collides with one on a
	// transaction visible to the user.
	ErrDuplicate = errors.New("duplicate identifier")
)

func validationf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}
