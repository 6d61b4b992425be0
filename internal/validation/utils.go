package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/student-results/internal/errs"
)

// Validatable is implemented by every request payload.
type Validatable interface {
	Validate() error
}

// CustomValidationError is a rule that struct tags cannot express.
type CustomValidationError struct {
	Field   string
	Message string
}

// CustomValidationErrors lets Validate methods report custom rules
// the same way validator.ValidationErrors are reported.
type CustomValidationErrors []CustomValidationError

func (c CustomValidationErrors) Error() string {
	return "Validation failed"
}

// validate is shared: validator caches struct metadata per type.
var validate = validator.New()

// Struct validates s against its `validate` tags.
func Struct(s any) error {
	return validate.Struct(s)
}

// BindAndValidate binds the request into payload and validates it.
//
// Both failures come back as a 400 *errs.HTTPError; validation failures
// carry one FieldError per offending field.
func BindAndValidate(c echo.Context, payload Validatable) error {
	if err := c.Bind(payload); err != nil {
		message := "Invalid request body"
		var echoErr *echo.HTTPError
		if errors.As(err, &echoErr) {
			message = fmt.Sprint(echoErr.Message)
		}
		return errs.NewBadRequestError(message, false, nil, nil, nil)
	}

	if msg, fieldErrors := validateStruct(payload); fieldErrors != nil {
		return errs.NewBadRequestError(msg, true, nil, fieldErrors, nil)
	}

	return nil
}

func validateStruct(v Validatable) (string, []errs.FieldError) {
	if err := v.Validate(); err != nil {
		return extractValidationError(err)
	}
	return "", nil
}

func extractValidationError(err error) (string, []errs.FieldError) {
	var fieldErrors []errs.FieldError

	var customValidationErrors CustomValidationErrors
	if errors.As(err, &customValidationErrors) {
		for _, err := range customValidationErrors {
			fieldErrors = append(fieldErrors, errs.FieldError{
				Field: err.Field,
				Error: err.Message,
			})
		}
		return "Validation failed", fieldErrors
	}

	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return "Validation failed", []errs.FieldError{{Field: "request", Error: err.Error()}}
	}

	for _, err := range validationErrors {
		var msg string

		switch err.Tag() {
		case "required":
			msg = "is required"

		case "number", "numeric":
			msg = "must be a whole number"

		case "min":
			if err.Type().Kind() == reflect.String {
				msg = fmt.Sprintf("must be at least %s characters", err.Param())
			} else {
				msg = fmt.Sprintf("must be at least %s", err.Param())
			}

		case "max":
			if err.Type().Kind() == reflect.String {
				msg = fmt.Sprintf("must not exceed %s characters", err.Param())
			} else {
				msg = fmt.Sprintf("must not exceed %s", err.Param())
			}

		case "gt":
			msg = fmt.Sprintf("must be greater than %s", err.Param())

		case "gte":
			msg = fmt.Sprintf("must be at least %s", err.Param())

		case "oneof":
			msg = fmt.Sprintf("must be one of: %s", err.Param())

		default:
			if err.Param() != "" {
				msg = fmt.Sprintf("%s: %s", err.Tag(), err.Param())
			} else {
				msg = err.Tag()
			}
		}

		fieldErrors = append(fieldErrors, errs.FieldError{
			Field: toSnakeCase(err.Field()),
			Error: msg,
		})
	}

	return "Validation failed", fieldErrors
}

// toSnakeCase maps Go field names onto form keys: "RollNo" -> "roll_no",
// "StudentID" -> "student_id".
func toSnakeCase(s string) string {
	var b strings.Builder
	runes := []rune(s)
	for i, r := range runes {
		upper := r >= 'A' && r <= 'Z'
		if upper && i > 0 {
			prevLower := runes[i-1] >= 'a' && runes[i-1] <= 'z'
			nextLower := i+1 < len(runes) && runes[i+1] >= 'a' && runes[i+1] <= 'z'
			if prevLower || nextLower {
				b.WriteByte('_')
			}
		}
		b.WriteRune(r)
	}
	return strings.ToLower(b.String())
}

// Describe flattens field errors into one sentence for a flash message:
// "roll_no is required; name is required".
func Describe(fieldErrors []errs.FieldError) string {
	parts := make([]string, 0, len(fieldErrors))
	for _, fe := range fieldErrors {
		parts = append(parts, fe.Field+" "+fe.Error)
	}
	return strings.Join(parts, "; ")
}
