package services

import (
	"errors"

	"github.com/go-playground/validator/v10"
	"gorm.io/gorm"

	"classhub/internal/apperrors"
)

var validate = validator.New()

// validateInput maps struct-tag violations to the validation error kind.
func validateInput(input interface{}) error {
	if err := validate.Struct(input); err != nil {
		return apperrors.NewValidation("%s", err.Error())
	}
	return nil
}

// fetchErr translates a repository read failure: a missing row becomes a
// not-found error, anything else is a storage failure.
func fetchErr(err error, op, what string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return apperrors.NewNotFound("%s not found", what)
	}
	return apperrors.NewStorage(op, err)
}
