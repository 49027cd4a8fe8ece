package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidInput classifies client errors. Use errors.Is to detect it.
var ErrInvalidInput = errors.New("invalid input")

// InputError carries a human-readable message describing why a request was rejected.
type InputError struct {
	Message string
}

func (e *InputError) Error() string { return e.Message }

// Is reports InputError as ErrInvalidInput.
func (e *InputError) Is(target error) bool { return target == ErrInvalidInput }

// InvalidInput builds an *InputError from a format string.
func InvalidInput(format string, args ...any) error {
	return &InputError{Message: fmt.Sprintf(format, args...)}
}

// IsInvalidInput reports whether err, or any error it wraps, is a client error.
func IsInvalidInput(err error) bool {
	return errors.Is(err, ErrInvalidInput)
}
