// Package service implements the reservation core and the read side of
// the restaurant catalog on top of the store interfaces.  Expected
// business results are returned as typed outcomes; the error return is
// reserved for infrastructure failures and request level validation.
package service

import (
	"errors"
	"fmt"
)

// ErrStorageUnavailable wraps every failure of the underlying store.
// Handlers translate it into HTTP 503.
var ErrStorageUnavailable = errors.New("storage unavailable")

var (
	// ErrNotFound is returned by catalog and staff operations for a
	// missing resource, or one the actor may not see.
	ErrNotFound = errors.New("not found")
	// ErrValidation is returned for malformed input.
	ErrValidation = errors.New("validation failed")
	// ErrConflict is returned when the current state forbids the change.
	ErrConflict = errors.New("conflict")
)

func storageErr(op string, err error) error {
	return fmt.Errorf("%s: %w: %w", op, ErrStorageUnavailable, err)
}

func validationErr(msg string) error {
	return fmt.Errorf("%w: %s", ErrValidation, msg)
}
