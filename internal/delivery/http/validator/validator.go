// Package validator adapts go-playground validation to Echo's Validator
// interface so handlers can rely on struct tags.
package validator

import (
	domainerrors "milkrun/internal/domain/errors"

	"github.com/go-playground/validator/v10"
)

// EchoValidator wraps a shared validator instance.
type EchoValidator struct {
	validate *validator.Validate
}

// New creates the validator used by the Echo server.
func New() *EchoValidator {
	return &EchoValidator{validate: validator.New()}
}

// Validate implements echo.Validator.
func (v *EchoValidator) Validate(i any) error {
	if err := v.validate.Struct(i); err != nil {
		return domainerrors.ErrValidationFailed.WithDetails(err.Error())
	}

	return nil
}
