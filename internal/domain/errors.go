// internal/domain/errors.go
package domain

import "fmt"

// ValidationError marks user input outside the accepted domain: unknown enum
// value, negative money, inverted date range.
type ValidationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation failed on %s=%v: %s", e.Field, e.Value, e.Reason)
}

// NewValidationError builds a ValidationError.
func NewValidationError(field string, value any, reason string) *ValidationError {
	return &ValidationError{Field: field, Value: value, Reason: reason}
}

// InvariantViolation marks a write that would break a hard data invariant,
// such as total != card + cash. The write is rolled back.
type InvariantViolation struct {
	Entity string
	Detail string
}

func (e *InvariantViolation) Error() string {
	return fmt.Sprintf("invariant violated on %s: %s", e.Entity, e.Detail)
}
