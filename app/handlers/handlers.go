// Package handlers contains HTTP request handlers and presentation layer logic for the API endpoints
package handlers

import (
	"fmt"

	"github.com/fixnet/fixnet/utils"
	"github.com/go-playground/validator/v10"
)

// newValidator builds a validator with the custom rules the DTOs rely on.
func newValidator() *validator.Validate {
	v := validator.New()

	// Phone numbers arrive in many formats; only the digit count is enforced
	v.RegisterValidation("phone_digits", func(fl validator.FieldLevel) bool {
		return utils.DigitCount(fl.Field().String()) >= 10
	})

	return v
}

func getValidationErrorMessage(err validator.FieldError) string {
	switch err.Tag() {
	case "required":
		return err.Field() + " is required"
	case "email":
		return "Invalid email format"
	case "min":
		return err.Field() + " must be at least " + err.Param() + " characters"
	case "max":
		return err.Field() + " must be at most " + err.Param() + " characters"
	case "oneof":
		return err.Field() + " must be one of: " + err.Param()
	case "phone_digits":
		return "Phone number must contain at least 10 digits"
	case "gte":
		return fmt.Sprintf("%s must be greater than or equal to %s", err.Field(), err.Param())
	case "lte":
		return fmt.Sprintf("%s must be less than or equal to %s", err.Field(), err.Param())
	default:
		return err.Field() + " is invalid"
	}
}
