package reconcile

import (
	"errors"
	"fmt"
)

// Sentinel errors for the reconciliation engine. Typed errors below report
// themselves as one of these through errors.Is.
var (
	// ErrFormat indicates a malformed numeric, price or quantity string.
	ErrFormat = errors.New("format error")

	// ErrValidation indicates a structurally invalid natural key or field.
	ErrValidation = errors.New("validation error")

	// ErrIdentityConflict indicates another writer created the same identity first.
	ErrIdentityConflict = errors.New("identity conflict")

	// ErrOrphanResource indicates a shared value object lost its last owner.
	ErrOrphanResource = errors.New("orphan resource")

	// ErrIllegalTransition indicates a record state change the state machine refuses.
	ErrIllegalTransition = errors.New("illegal state transition")
)

// FormatError represents a value that could not be parsed.
type FormatError struct {
	Field  string
	Value  string
	Reason string
}

// Error implements the error interface
func (e *FormatError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("invalid %s %q: %s", e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("invalid value %q: %s", e.Value, e.Reason)
}

// Is implements errors.Is support
func (e *FormatError) Is(target error) bool {
	return target == ErrFormat
}

// NewFormatError creates a new FormatError
func NewFormatError(field, value, reason string) *FormatError {
	return &FormatError{Field: field, Value: value, Reason: reason}
}

// ValidationError represents a record that parsed but is not acceptable.
type ValidationError struct {
	Kind   string
	Field  string
	Value  string
	Reason string
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s %s %q is invalid: %s", e.Kind, e.Field, e.Value, e.Reason)
	}
	return fmt.Sprintf("%s %s is invalid: %s", e.Kind, e.Field, e.Reason)
}

// Is implements errors.Is support
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NewValidationError creates a new ValidationError
func NewValidationError(kind, field, value, reason string) *ValidationError {
	return &ValidationError{Kind: kind, Field: field, Value: value, Reason: reason}
}

// IdentityConflictError wraps the driver error raised when a natural key was
// taken by a concurrent writer between lookup and insert.
type IdentityConflictError struct {
	Kind string
	Key  string
	Err  error
}

// Error implements the error interface
func (e *IdentityConflictError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s %q already exists: %v", e.Kind, e.Key, e.Err)
	}
	return fmt.Sprintf("%s %q already exists", e.Kind, e.Key)
}

// Unwrap implements errors.Unwrap
func (e *IdentityConflictError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *IdentityConflictError) Is(target error) bool {
	return target == ErrIdentityConflict
}

// OrphanResourceError signals that a shared row is no longer referenced and
// must be removed. It drives cleanup and is never reported as a rejection.
type OrphanResourceError struct {
	Kind string
	ID   uint
}

// Error implements the error interface
func (e *OrphanResourceError) Error() string {
	return fmt.Sprintf("%s %d has no remaining owners", e.Kind, e.ID)
}

// Is implements errors.Is support
func (e *OrphanResourceError) Is(target error) bool {
	return target == ErrOrphanResource
}

// IsRecordError reports whether err rejects a single record without aborting the batch.
func IsRecordError(err error) bool {
	return errors.Is(err, ErrFormat) || errors.Is(err, ErrValidation)
}
