// internal/repository/errors.go
package repository

import "errors"

// ErrNotFound is returned when a specific record was expected and is absent.
// Callers treat it as an empty result, never as a failure.
var ErrNotFound = errors.New("record not found")
