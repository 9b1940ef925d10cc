// Package validator adapts go-playground/validator to echo.Validator.
package validator

import (
	"github.com/go-playground/validator/v10"
)

// CustomValidator implements echo.Validator.
type CustomValidator struct {
	validate *validator.Validate
}

// New returns a validator with required-struct checks enabled.
func New() *CustomValidator {
	return &CustomValidator{validate: validator.New(validator.WithRequiredStructEnabled())}
}

// Engine exposes the underlying instance so the use case validates with the
// same rules echo does.
func Engine(cv *CustomValidator) *validator.Validate {
	return cv.validate
}

// Validate runs struct tag validation on i.
func (cv *CustomValidator) Validate(i any) error {
	return cv.validate.Struct(i)
}

