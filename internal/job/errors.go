package job

import (
	"errors"
	"fmt"
)

var (
	// ErrJobNotFound is returned when a job id has no record in the store
	ErrJobNotFound = errors.New("job not found")

	// ErrJobNotReady is returned when results are requested before the job reached a terminal state
	ErrJobNotReady = errors.New("job not ready")

	// ErrInvalidTransition is returned when a guarded status update loses to a
	// concurrent writer or targets a terminal record
	ErrInvalidTransition = errors.New("invalid status transition")
)

// ValidationError describes a rejected request field
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s %s", e.Field, e.Reason)
}

// NewValidationError creates a validation error for a single field
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// DependencyError wraps a failure of an upstream dependency (database, broker,
// artifact store, model provider). Workers treat it as transient and requeue.
type DependencyError struct {
	Op  string
	Err error
}

func (e *DependencyError) Error() string {
	return fmt.Sprintf("%s: %s", e.Op, e.Err.Error())
}

func (e *DependencyError) Unwrap() error {
	return e.Err
}

// NewDependencyError wraps err as a dependency failure of the named operation
func NewDependencyError(op string, err error) error {
	return &DependencyError{Op: op, Err: err}
}

// IsDependencyError reports whether err is or wraps a DependencyError
func IsDependencyError(err error) bool {
	var depErr *DependencyError
	return errors.As(err, &depErr)
}
