package errors

import (
	"net/http"

	"github.com/cockroachdb/errors"
)

func IsValidation(err error) bool       { return errors.Is(err, ErrValidation) }
func IsNotFound(err error) bool         { return errors.Is(err, ErrNotFound) }
func IsAlreadyExists(err error) bool    { return errors.Is(err, ErrAlreadyExists) }
func IsInvalidOperation(err error) bool { return errors.Is(err, ErrInvalidOperation) }
func IsNetwork(err error) bool          { return errors.Is(err, ErrNetwork) }
func IsPaymentDeclined(err error) bool  { return errors.Is(err, ErrPaymentDeclined) }
func IsDatabase(err error) bool         { return errors.Is(err, ErrDatabase) }

// IsRetryable reports whether the error represents a transient failure
// eligible for retry. Only network-class gateway failures are retried.
func IsRetryable(err error) bool {
	return IsNetwork(err)
}

// ErrorDetail is the body of an ErrorResponse.
type ErrorDetail struct {
	DisplayError  string                 `json:"display_error,omitempty"`
	InternalError string                 `json:"internal_error,omitempty"`
	Details       map[string]interface{} `json:"details,omitempty"`
}

// ErrorResponse is the HTTP projection of an engine error.
type ErrorResponse struct {
	Success bool        `json:"success"`
	Error   ErrorDetail `json:"error"`
}

// NewErrorResponse converts any error into its HTTP projection.
func NewErrorResponse(err error) *ErrorResponse {
	resp := &ErrorResponse{Success: false}
	var internal *InternalError
	if errors.As(err, &internal) {
		resp.Error = ErrorDetail{
			DisplayError:  internal.Hint(),
			InternalError: internal.Error(),
			Details:       internal.ReportableDetails(),
		}
		if resp.Error.DisplayError == "" {
			resp.Error.DisplayError = internal.Error()
		}
		return resp
	}
	resp.Error = ErrorDetail{
		DisplayError:  "An unexpected error occurred",
		InternalError: err.Error(),
	}
	return resp
}

// HTTPStatusFromErr maps an engine error to an HTTP status code.
func HTTPStatusFromErr(err error) int {
	switch {
	case IsNotFound(err):
		return http.StatusNotFound
	case IsValidation(err):
		return http.StatusBadRequest
	case IsAlreadyExists(err):
		return http.StatusConflict
	case IsInvalidOperation(err):
		return http.StatusConflict
	case IsPaymentDeclined(err):
		return http.StatusPaymentRequired
	case IsNetwork(err):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
