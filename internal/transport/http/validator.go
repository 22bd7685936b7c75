// FILE: internal/transport/http/validator.go
package http

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

// validateQuery runs tag validation on a parsed query struct and folds
// field errors into one readable message.
func validateQuery(q any) error {
	err := validate.Struct(q)
	if err == nil {
		return nil
	}
	if fieldErrs, ok := err.(validator.ValidationErrors); ok {
		return errors.New(formatValidationErrors(fieldErrs))
	}
	return err
}

// formatValidationErrors converts validator errors to user-friendly messages
func formatValidationErrors(errs validator.ValidationErrors) string {
	var details strings.Builder
	for i, fe := range errs {
		if i > 0 {
			details.WriteString("; ")
		}
		field := fe.Field()
		switch fe.Tag() {
		case "required":
			details.WriteString(fmt.Sprintf("%s is required", field))
		case "oneof":
			details.WriteString(fmt.Sprintf("%s must be one of [%s]", field, fe.Param()))
		case "min":
			if fe.Kind() == reflect.String {
				details.WriteString(fmt.Sprintf("%s must be at least %s characters", field, fe.Param()))
			} else {
				details.WriteString(fmt.Sprintf("%s must be at least %s", field, fe.Param()))
			}
		case "max":
			if fe.Kind() == reflect.String {
				details.WriteString(fmt.Sprintf("%s must be at most %s characters", field, fe.Param()))
			} else {
				details.WriteString(fmt.Sprintf("%s must be at most %s", field, fe.Param()))
			}
		default:
			details.WriteString(fmt.Sprintf("%s failed %s validation", field, fe.Tag()))
		}
	}
	return details.String()
}

// isValidUUID checks whether the string is a well-formed UUID
func isValidUUID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
