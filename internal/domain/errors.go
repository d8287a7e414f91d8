package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound      = errors.New("not found")
	ErrAlreadyExists = errors.New("already exists")
	ErrValidation    = errors.New("validation error")
	ErrUnauthorized  = errors.New("unauthorized")
	ErrForbidden     = errors.New("forbidden")
	ErrConflict      = errors.New("conflict")
)

// Workflow errors.
var (
	// ErrInvalidTransition is returned when a request status change does not
	// follow an edge of the lifecycle state machine.
	ErrInvalidTransition = errors.New("invalid status transition")
	// ErrInvalidReference is returned when a request points at a missing or
	// inactive direction or delivery slot.
	ErrInvalidReference = errors.New("invalid reference")
	// ErrAlreadyInitialized is returned by manager bootstrap when at least
	// one manager account already exists.
	ErrAlreadyInitialized = errors.New("already initialized")
)

// Init-data verification errors. All of them mean the caller is not
// authenticated; none of them is ever recovered into a default identity.
var (
	ErrBadSignature     = errors.New("init data: bad signature")
	ErrExpired          = errors.New("init data: expired")
	ErrMalformedPayload = errors.New("init data: malformed payload")
	ErrMissingSecret    = errors.New("init data: bot token not configured")
)

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string
	Message string
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s — %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}
