package users

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// CreateInput is the body of a create-user request. Field order is the
// order constraints are checked in.
type CreateInput struct {
	Name     string `json:"name" validate:"required,min=2,max=50"`
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// Validate returns nil when every constraint holds, otherwise a
// *ValidationError for the first failing field only.
func (in CreateInput) Validate() error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return fmt.Errorf("validate create input: %w", err)
	}

	fe := verrs[0]
	return &ValidationError{Field: fe.Field(), Message: fieldMessage(fe)}
}

func fieldMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return fmt.Sprintf("%q is required", fe.Field())
	case "min":
		return fmt.Sprintf("%q length must be at least %s characters long", fe.Field(), fe.Param())
	case "max":
		return fmt.Sprintf("%q length must be less than or equal to %s characters long", fe.Field(), fe.Param())
	case "email":
		return fmt.Sprintf("%q must be a valid email", fe.Field())
	default:
		return fmt.Sprintf("%q is invalid", fe.Field())
	}
}

// NotAllowedError reports a key the create schema does not know about.
func NotAllowedError(field string) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf("%q is not allowed", field)}
}

// NotStringError reports a field that was sent with a non-string JSON value.
func NotStringError(field string) *ValidationError {
	return &ValidationError{Field: field, Message: fmt.Sprintf("%q must be a string", field)}
}
