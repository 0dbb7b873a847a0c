package service

import (
	"errors"
	"fmt"
)

var (
	// ErrInvalidInput is returned when input validation fails.
	ErrInvalidInput = errors.New("invalid input")
	// ErrNotFound is returned when a requested resource is not found.
	ErrNotFound = errors.New("not found")
	// ErrUnauthorized is returned for missing, invalid or expired credentials,
	// and for tokens whose user no longer exists.
	ErrUnauthorized = errors.New("invalid credentials")
	// ErrForbidden is returned when the caller lacks the role or ownership
	// an operation requires.
	ErrForbidden = errors.New("not authorized")
	// ErrConflict is returned when a unique value is already taken.
	ErrConflict = errors.New("already exists")
	// ErrDependency is returned when an upstream embedding, generation or
	// vector index call fails.
	ErrDependency = errors.New("external service error")
	// ErrMissingContext is returned when vectors matched but carried no text.
	ErrMissingContext = errors.New("vector data exists but text metadata is missing")
)

// ValidationError represents a validation error with a field name.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field %s: %s", e.Field, e.Message)
}

// Is lets errors.Is(err, ErrInvalidInput) match any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrInvalidInput
}

// WrapError wraps an error with additional context.
func WrapError(err error, msg string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", msg, err)
}

// dependencyError marks err as an upstream failure while keeping the cause.
func dependencyError(err error, msg string) error {
	return fmt.Errorf("%s: %w: %w", msg, ErrDependency, err)
}
