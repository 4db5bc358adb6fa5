// Package services provides the application services over persistence and
// the designer core, plus standardized error types for the HTTP layer.
package services

import (
	"errors"
	"fmt"
)

// Business logic errors - these indicate client errors (4xx responses).
var (
	// Validation errors (400 Bad Request).
	ErrInvalidRequest   = errors.New("invalid request")
	ErrTemplateNil      = errors.New("template cannot be nil")
	ErrInvalidStageType = errors.New("invalid stage type")
	ErrInvalidEvent     = errors.New("invalid designer event")

	// Business logic conflicts (409 Conflict).
	ErrSaveInProgress = errors.New("a save for this session is already in flight")
)

// ServiceError wraps service-level errors with additional context.
type ServiceError struct {
	Op      string // Operation name
	Code    string // Error code for API responses
	Message string // Human-readable message
	Err     error  // Underlying error
}

func (e *ServiceError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("%s: %s", e.Op, e.Message)
	}

	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *ServiceError) Unwrap() error {
	return e.Err
}

func (e *ServiceError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// IsValidationError checks if an error should map to HTTP 400.
func IsValidationError(err error) bool {
	return errors.Is(err, ErrInvalidRequest) ||
		errors.Is(err, ErrTemplateNil) ||
		errors.Is(err, ErrInvalidStageType) ||
		errors.Is(err, ErrInvalidEvent)
}

// IsConflictError checks if an error should map to HTTP 409.
func IsConflictError(err error) bool {
	return errors.Is(err, ErrSaveInProgress)
}

// NewValidationError creates a new validation error with context.
func NewValidationError(op, code, message string, err error) *ServiceError {
	return &ServiceError{
		Op:      op,
		Code:    code,
		Message: message,
		Err:     err,
	}
}
