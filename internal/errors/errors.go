// Package errors provides the domain error type used across the engine.
// Errors are built fluently, carry a user-facing hint and reportable
// details, and are marked with a sentinel that classifies them for
// callers and for the HTTP layer.
package errors

import (
	"github.com/cockroachdb/errors"
)

// Sentinel marks. Every error surfaced by the engine is marked with
// exactly one of these.
var (
	ErrValidation       = errors.New("validation_error")
	ErrNotFound         = errors.New("not_found")
	ErrAlreadyExists    = errors.New("already_exists")
	ErrInvalidOperation = errors.New("invalid_operation")
	ErrNetwork          = errors.New("network_error")
	ErrPaymentDeclined  = errors.New("payment_declined")
	ErrDatabase         = errors.New("database_error")
	ErrInternal         = errors.New("internal_error")
	ErrSystem           = errors.New("system_error")
)

// InternalError is the concrete error carried through the engine.
type InternalError struct {
	message           string
	cause             error
	mark              error
	hint              string
	reportableDetails map[string]interface{}
}

func (e *InternalError) Error() string {
	if e.message != "" {
		return e.message
	}
	if e.cause != nil {
		return e.cause.Error()
	}
	return "unknown error"
}

func (e *InternalError) Unwrap() error {
	if e.cause != nil {
		return e.cause
	}
	return e.mark
}

// Is lets errors.Is match both the mark and the wrapped cause.
func (e *InternalError) Is(target error) bool {
	if e.mark != nil && errors.Is(e.mark, target) {
		return true
	}
	if e.cause != nil && errors.Is(e.cause, target) {
		return true
	}
	return false
}

// Hint returns the user-facing hint, if any.
func (e *InternalError) Hint() string { return e.hint }

// ReportableDetails returns the structured details safe to surface.
func (e *InternalError) ReportableDetails() map[string]interface{} { return e.reportableDetails }

// Cause returns the wrapped cause, if any.
func (e *InternalError) Cause() error { return e.cause }

// Mark returns the sentinel this error was marked with.
func (e *InternalError) MarkedWith() error { return e.mark }
