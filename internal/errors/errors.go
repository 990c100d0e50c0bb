// Package errors defines stable error codes and the structured error type
// used across vestige.
package errors

import (
	"fmt"
)

// ErrorCode represents stable error codes for all failure modes
type ErrorCode string

const (
	// IntegrityError indicates the graph's structural assumptions were
	// violated, e.g. a declaration kind with no registered extended
	// reference kind. A defect in the kind tables, not in user input.
	IntegrityError ErrorCode = "INTEGRITY_ERROR"
	// SnapshotInvalid indicates an index snapshot could not be decoded
	SnapshotInvalid ErrorCode = "SNAPSHOT_INVALID"
	// SnapshotMissing indicates no index snapshot was found
	SnapshotMissing ErrorCode = "SNAPSHOT_MISSING"
	// ConfigInvalid indicates the configuration failed validation
	ConfigInvalid ErrorCode = "CONFIG_INVALID"
	// InternalError indicates unexpected error
	InternalError ErrorCode = "INTERNAL_ERROR"
)

// VestigeError represents a vestige error with code, message, and
// optional details
type VestigeError struct {
	Code    ErrorCode   `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	cause   error       // Underlying error (not exported to JSON)
}

// New creates a new VestigeError
func New(code ErrorCode, message string, cause error) *VestigeError {
	return &VestigeError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// NewIntegrity creates an integrity error. Integrity errors always
// propagate to the orchestrator and abort the current analysis pass.
func NewIntegrity(message string) *VestigeError {
	return New(IntegrityError, message, nil)
}

// Error implements the error interface
func (e *VestigeError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *VestigeError) Unwrap() error {
	return e.cause
}

// WithDetails adds details to the error
func (e *VestigeError) WithDetails(details interface{}) *VestigeError {
	e.Details = details
	return e
}

// IsCode reports whether err is a VestigeError with the given code
func IsCode(err error, code ErrorCode) bool {
	ve, ok := err.(*VestigeError)
	return ok && ve.Code == code
}
