package game

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks malformed or missing input.
	ErrValidation = errors.New("validation failed")
	// ErrDictionaryMiss means the guess is not a dictionary word. It is a normal
	// game-flow outcome and consumes no guess.
	ErrDictionaryMiss = errors.New("word not in dictionary")
	// ErrInternal wraps unexpected failures such as an unavailable store.
	ErrInternal = errors.New("internal failure")
)

// ValidationError describes which input was rejected.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func internal(op string, err error) error {
	return fmt.Errorf("%w: %s: %w", ErrInternal, op, err)
}
