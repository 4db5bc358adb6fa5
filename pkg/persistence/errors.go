package persistence

import (
	"errors"
	"fmt"
)

// Standard persistence error types that all implementations should use.
var (
	// ErrTemplateNotFound indicates no template exists for the given id.
	ErrTemplateNotFound = errors.New("template not found")

	// ErrTemplateInvalid indicates a stored record that cannot be decoded.
	ErrTemplateInvalid = errors.New("template record invalid")
)

// TemplateError wraps template storage errors with operation context.
type TemplateError struct {
	Op         string // Operation being performed (e.g., "GetByID", "Save")
	TemplateID string
	Err        error
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("%s operation failed for template %s: %v", e.Op, e.TemplateID, e.Err)
}

func (e *TemplateError) Unwrap() error {
	return e.Err
}

func (e *TemplateError) Is(target error) bool {
	return errors.Is(e.Err, target)
}

// NewTemplateError creates a new template error with context.
func NewTemplateError(op, templateID string, err error) *TemplateError {
	return &TemplateError{
		Op:         op,
		TemplateID: templateID,
		Err:        err,
	}
}

// IsTemplateNotFound checks if an error indicates a missing template.
func IsTemplateNotFound(err error) bool {
	return errors.Is(err, ErrTemplateNotFound)
}
