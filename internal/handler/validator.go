package handler

import (
	"github.com/go-playground/validator/v10"

	"github.com/taskhub/taskhub-api/internal/apperr"
)

// Validator adapts go-playground/validator to Echo's Validator interface.
// Struct tags on the request DTOs drive field-level validation; failures
// surface as a single validation error so the apperr mapping applies.
type Validator struct {
	v *validator.Validate
}

func NewValidator() *Validator {
	return &Validator{v: validator.New()}
}

// Validate implements echo.Validator.
func (cv *Validator) Validate(i interface{}) error {
	if err := cv.v.Struct(i); err != nil {
		return apperr.Wrap(apperr.KindValidation, "invalid request body", err)
	}
	return nil
}
