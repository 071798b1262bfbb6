package directory

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound is returned when the requested record does not exist.
	ErrNotFound = errors.New("directory: not found")
	// ErrUnauthorized is returned when a call requiring a session presents no
	// valid token.
	ErrUnauthorized = errors.New("directory: unauthorized")
	// ErrInvalidCredentials is returned when authentication fails for a known
	// account.
	ErrInvalidCredentials = errors.New("directory: invalid credentials")
)

// ValidationError captures field level issues with a malformed request.
type ValidationError struct {
	FieldErrors map[string]string
}

// Error implements the error interface.
func (v *ValidationError) Error() string {
	if v == nil || len(v.FieldErrors) == 0 {
		return "validation failed"
	}
	return fmt.Sprintf("validation failed (%d fields)", len(v.FieldErrors))
}

// HasErrors reports whether any field level issues were recorded.
func (v *ValidationError) HasErrors() bool {
	return v != nil && len(v.FieldErrors) > 0
}

func (v *ValidationError) add(field, message string) {
	if v.FieldErrors == nil {
		v.FieldErrors = make(map[string]string)
	}
	v.FieldErrors[field] = message
}

// TransportError wraps a network or remote-store failure surfaced by the live
// backend. The cause is preserved unchanged; no retry happens anywhere in
// this core.
type TransportError struct {
	Op  string
	Err error
}

// Error implements the error interface.
func (t *TransportError) Error() string {
	if t == nil {
		return "transport failure"
	}
	if t.Op == "" {
		return fmt.Sprintf("transport failure: %v", t.Err)
	}
	return fmt.Sprintf("transport failure during %s: %v", t.Op, t.Err)
}

// Unwrap exposes the underlying collaborator failure.
func (t *TransportError) Unwrap() error {
	if t == nil {
		return nil
	}
	return t.Err
}
