package errors

import (
	"fmt"

	"github.com/cockroachdb/errors"
)

// ErrorBuilder builds an InternalError fluently. The terminal call is
// Mark, which classifies the error and returns it.
type ErrorBuilder struct {
	err *InternalError
}

// NewError starts building an error with the given message.
func NewError(message string) *ErrorBuilder {
	return &ErrorBuilder{err: &InternalError{message: message}}
}

// NewErrorf starts building an error with a formatted message.
func NewErrorf(format string, args ...interface{}) *ErrorBuilder {
	return NewError(fmt.Sprintf(format, args...))
}

// WithError starts building an error wrapping an existing cause. If the
// cause is already an InternalError its hint and details are preserved
// unless overridden.
func WithError(err error) *ErrorBuilder {
	var internal *InternalError
	if errors.As(err, &internal) {
		return &ErrorBuilder{err: &InternalError{
			message:           internal.message,
			cause:             err,
			mark:              internal.mark,
			hint:              internal.hint,
			reportableDetails: internal.reportableDetails,
		}}
	}
	return &ErrorBuilder{err: &InternalError{cause: err}}
}

// WithMessage overrides the error message.
func (b *ErrorBuilder) WithMessage(message string) *ErrorBuilder {
	b.err.message = message
	return b
}

// WithMessagef overrides the error message with a formatted one.
func (b *ErrorBuilder) WithMessagef(format string, args ...interface{}) *ErrorBuilder {
	return b.WithMessage(fmt.Sprintf(format, args...))
}

// WithHint attaches a user-facing hint.
func (b *ErrorBuilder) WithHint(hint string) *ErrorBuilder {
	b.err.hint = hint
	return b
}

// WithHintf attaches a formatted user-facing hint.
func (b *ErrorBuilder) WithHintf(format string, args ...interface{}) *ErrorBuilder {
	return b.WithHint(fmt.Sprintf(format, args...))
}

// WithReportableDetails attaches structured details safe to surface to
// API clients.
func (b *ErrorBuilder) WithReportableDetails(details map[string]interface{}) *ErrorBuilder {
	b.err.reportableDetails = details
	return b
}

// Mark classifies the error with a sentinel and returns the built error.
func (b *ErrorBuilder) Mark(sentinel error) error {
	b.err.mark = sentinel
	return b.err
}

// Error returns the built error without a mark. Prefer Mark.
func (b *ErrorBuilder) Error() error {
	return b.err
}
