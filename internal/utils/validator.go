// internal/utils/validator.go
package utils

import (
	"regexp"
	"strings"

	"github.com/go-playground/validator/v10"
)

var validate *validator.Validate

var accountIDPattern = regexp.MustCompile(`^[A-Za-z0-9][A-Za-z0-9._:-]{0,127}$`)

func init() {
	validate = validator.New()
	validate.RegisterValidation("account_id", validateAccountID)
}

func ValidateStruct(s interface{}) error {
	return validate.Struct(s)
}

// Account ids are opaque to the registry but must be non-empty, bounded and
// URL-safe so they can appear in path segments.
func validateAccountID(fl validator.FieldLevel) bool {
	return accountIDPattern.MatchString(fl.Field().String())
}

type ValidationError struct {
	Field   string `json:"field"`
	Tag     string `json:"tag"`
	Message string `json:"message"`
}

func GetValidationErrors(err error) []ValidationError {
	var validationErrors []ValidationError

	if validationErrs, ok := err.(validator.ValidationErrors); ok {
		for _, e := range validationErrs {
			validationErrors = append(validationErrors, ValidationError{
				Field:   strings.ToLower(e.Field()),
				Tag:     e.Tag(),
				Message: getValidationMessage(e),
			})
		}
	}

	return validationErrors
}

func getValidationMessage(e validator.FieldError) string {
	switch e.Tag() {
	case "required":
		return e.Field() + " is required"
	case "min":
		return e.Field() + " must be at least " + e.Param()
	case "max":
		return e.Field() + " must be at most " + e.Param()
	case "gt":
		return e.Field() + " must be greater than " + e.Param()
	case "lte":
		return e.Field() + " must not exceed " + e.Param()
	case "url":
		return e.Field() + " must be a valid URL"
	case "account_id":
		return e.Field() + " must be a valid account identifier"
	default:
		return e.Field() + " is invalid"
	}
}
