// Package validation runs struct-tag validation on request DTOs and turns
// failures into CodeValidation domain errors.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	id "vaxcert/pkg/domain"
	dErrors "vaxcert/pkg/domain-errors"
)

var defaultValidator = newValidator()

func newValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	// Failures name fields the way clients spell them.
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	_ = v.RegisterValidation("notblank", func(fl validator.FieldLevel) bool {
		return strings.TrimSpace(fl.Field().String()) != ""
	})
	_ = v.RegisterValidation("identity", func(fl validator.FieldLevel) bool {
		_, err := id.ParseIdentity(fl.Field().String())
		return err == nil
	})
	return v
}

// Validate validates a struct and returns a domain error naming the first bad field.
func Validate(req any) error {
	if err := defaultValidator.Struct(req); err != nil {
		return dErrors.New(dErrors.CodeValidation, ErrorMessage(err))
	}
	return nil
}

// ErrorMessage renders the first validation failure as "<json_field> <reason>".
func ErrorMessage(err error) string {
	var validationErrs validator.ValidationErrors
	if !errors.As(err, &validationErrs) || len(validationErrs) == 0 {
		return "invalid request body"
	}

	fe := validationErrs[0]
	field := fe.Field()

	switch fe.ActualTag() {
	case "required":
		return fmt.Sprintf("%s is required", field)
	case "max":
		return fmt.Sprintf("%s must be at most %s characters", field, fe.Param())
	case "notblank":
		return fmt.Sprintf("%s must not be blank", field)
	case "identity":
		return fmt.Sprintf("%s must be a non-empty identity without whitespace (max %d bytes)", field, id.MaxIdentityLength)
	default:
		return fmt.Sprintf("%s is invalid", field)
	}
}

// TrimSpace trims surrounding whitespace from each field in place. Request
// Normalize methods run it before Validate.
func TrimSpace(fields ...*string) {
	for _, f := range fields {
		*f = strings.TrimSpace(*f)
	}
}
