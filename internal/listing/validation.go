package listing

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/stu-kho/kho-console/internal/platform/httpx"
)

// ValidationError is a local business-rule rejection. It is reported to the
// user exactly like a backend validation message.
type ValidationError struct {
	Field   string
	Message string
}

// Invalid builds a ValidationError.
func Invalid(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation: %s", e.Message)
	}
	return fmt.Sprintf("validation: %s: %s", e.Field, e.Message)
}

// UserMessage implements the user-facing message contract.
func (e *ValidationError) UserMessage() string { return e.Message }

// Unwrap lets callers match httpx.ErrValidation.
func (e *ValidationError) Unwrap() error { return httpx.ErrValidation }

// NewValidator returns a validator reporting fields by their JSON name.
func NewValidator() *validator.Validate {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name := strings.SplitN(field.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return field.Name
		}
		return name
	})
	return v
}

// Struct validates input and converts the first failure into a
// ValidationError, using messages keyed by "field" or "field.tag".
func Struct(v *validator.Validate, input any, messages map[string]string) error {
	err := v.Struct(input)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return Invalid("", err.Error())
	}
	fe := fieldErrs[0]
	field := fe.Field()
	if msg, ok := messages[field+"."+fe.Tag()]; ok {
		return Invalid(field, msg)
	}
	if msg, ok := messages[field]; ok {
		return Invalid(field, msg)
	}
	return Invalid(field, fmt.Sprintf("Trường %s không hợp lệ (%s)", field, fe.Tag()))
}
