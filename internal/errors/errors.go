package errors

import (
	"errors"
	"fmt"
)

// ErrReconciliationDrift marks a temporary seating id that no authoritative
// refetch could resolve. The caller refreshes the working copy and retries
// the server call once.
var ErrReconciliationDrift = errors.New("local seating state drifted from server")

// ValidationError rejects a command before any state change.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Reason
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func Validation(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

// ConflictError reports a server-side rejection (4xx conflict family).
// The optimistic copy has already been rolled back when it surfaces.
type ConflictError struct {
	Op     string
	Status int
	Body   string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s rejected with status %d: %s", e.Op, e.Status, e.Body)
}

// NetworkError reports a transport failure or 5xx from the backend.
type NetworkError struct {
	Op  string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("%s: %v", e.Op, e.Err)
}

func (e *NetworkError) Unwrap() error { return e.Err }

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func IsConflict(err error) bool {
	var ce *ConflictError
	return errors.As(err, &ce)
}

func IsNetwork(err error) bool {
	var ne *NetworkError
	return errors.As(err, &ne)
}
