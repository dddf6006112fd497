// Package core provides configuration, backend selection, and the
// memorybase client facade over long-term storage and retrieval.
package core

import (
	"errors"
	"fmt"
)

// Predefined errors for common failure scenarios.
var (
	// ErrInvalidConfig indicates an ambiguous or partial backend
	// configuration. Raised at factory time; the factory never silently
	// falls back when a family is half-configured.
	ErrInvalidConfig = errors.New("invalid configuration")
)

// MemoryError wraps errors with operation context.
//
// It records which operation failed, making messages more informative
// while keeping the underlying error reachable through errors.Is and
// errors.As.
type MemoryError struct {
	// Op is the name of the operation that failed.
	Op string

	// Err is the underlying error.
	Err error
}

// Error returns a formatted error message.
//
// The format is: "memorybase: <Op>: <Err>"
func (e *MemoryError) Error() string {
	return fmt.Sprintf("memorybase: %s: %v", e.Op, e.Err)
}

// Unwrap returns the underlying error for error unwrapping.
func (e *MemoryError) Unwrap() error {
	return e.Err
}

// NewMemoryError creates a new MemoryError wrapping the given error.
//
// If err is nil, returns nil, so call sites can wrap unconditionally.
func NewMemoryError(op string, err error) error {
	if err == nil {
		return nil
	}
	return &MemoryError{
		Op:  op,
		Err: err,
	}
}
