package errs

import "strings"

// FieldError represents a field-level validation error (typical for forms).
// Example:
//
//	{ "field": "marks", "error": "must be a whole number" }
type FieldError struct {
	Field string `json:"field"`
	Error string `json:"error"`
}

// ActionType is a string-based enum describing what the client should do.
type ActionType string

const (
	// ActionTypeRedirect tells the client it should redirect somewhere.
	// "Value" holds the route.
	ActionTypeRedirect ActionType = "redirect"
)

// Action describes an optional "what the client should do next" instruction.
//
// The HTML handlers use it for not-found results: redirect to the student list.
type Action struct {
	Type    ActionType `json:"type"`
	Message string     `json:"message"`
	Value   string     `json:"value"`
}

// HTTPError is the structured failure type.
//
// Fields:
//   - Code: machine-friendly error code (e.g. "STUDENT_ALREADY_EXISTS").
//   - Message: human-friendly message, safe to show to users.
//   - Status: HTTP status code, also used to pick the flash category.
//   - Override: the message was written for end users and may be shown as is.
//   - Errors: per-field validation errors.
//   - Action: client instruction (optional).
type HTTPError struct {
	Code     string `json:"code"`
	Message  string `json:"message"`
	Status   int    `json:"status"`
	Override bool   `json:"override"`

	Errors []FieldError `json:"errors"`

	Action *Action `json:"action"`
}

// Error makes *HTTPError satisfy the built-in `error` interface.
func (e *HTTPError) Error() string {
	return e.Message
}

// Is reports whether target is an *HTTPError. It does not compare
// Code or Status; use errors.As and inspect the fields for that.
func (e *HTTPError) Is(target error) bool {
	_, ok := target.(*HTTPError)

	return ok
}

// WithMessage returns a copy of this HTTPError with Message replaced.
func (e *HTTPError) WithMessage(message string) *HTTPError {
	return &HTTPError{
		Code:     e.Code,
		Message:  message,
		Status:   e.Status,
		Override: e.Override,
		Errors:   e.Errors,
		Action:   e.Action,
	}
}

// WithAction returns a copy of this HTTPError carrying action.
func (e *HTTPError) WithAction(action *Action) *HTTPError {
	c := e.WithMessage(e.Message)
	c.Action = action
	return c
}

// MakeUpperCaseWithUnderscores converts a string into an UPPER_CASE_WITH_UNDERSCORES format.
//
// Example:
//
//	"Bad Request" -> "BAD_REQUEST"
func MakeUpperCaseWithUnderscores(str string) string {
	return strings.ToUpper(strings.ReplaceAll(str, " ", "_"))
}
