// Package validator wraps go-playground/validator behind a single
// ValidateRequest helper used by the DTO layer.
package validator

import (
	"sync"

	"github.com/go-playground/validator/v10"

	ierr "github.com/tierforge/tierforge/internal/errors"
)

var (
	once     sync.Once
	validate *validator.Validate
)

func getValidator() *validator.Validate {
	once.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// ValidateRequest validates a request struct against its `validate` tags.
func ValidateRequest(req interface{}) error {
	if req == nil {
		return ierr.NewError("request cannot be nil").
			WithHint("Request cannot be nil").
			Mark(ierr.ErrValidation)
	}

	if err := getValidator().Struct(req); err != nil {
		if fieldErrs, ok := err.(validator.ValidationErrors); ok {
			details := make(map[string]interface{}, len(fieldErrs))
			for _, fe := range fieldErrs {
				details[fe.Field()] = fe.Tag()
			}
			return ierr.WithError(err).
				WithHint("Request validation failed").
				WithReportableDetails(details).
				Mark(ierr.ErrValidation)
		}
		return ierr.WithError(err).
			WithHint("Request validation failed").
			Mark(ierr.ErrValidation)
	}
	return nil
}
