package errs

import (
	"errors"
	"net/http"
)

// statusCode turns a status into its default machine code:
// 409 => "Conflict" => "CONFLICT".
func statusCode(status int) string {
	return MakeUpperCaseWithUnderscores(http.StatusText(status))
}

// NewBadRequestError creates a 400 Bad Request HTTPError.
//
// This supports extra payload:
//   - code: optional custom code string (if nil, defaults to "BAD_REQUEST")
//   - errors: optional slice of field errors (validation errors)
//   - action: optional client instruction (e.g. redirect)
func NewBadRequestError(message string, override bool, code *string, errors []FieldError, action *Action) *HTTPError {
	formattedCode := statusCode(http.StatusBadRequest)

	// Custom codes are used as given.
	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusBadRequest,
		Override: override,
		Errors:   errors,
		Action:   action,
	}
}

// NewNotFoundError creates a 404 Not Found HTTPError.
func NewNotFoundError(message string, override bool, code *string) *HTTPError {
	formattedCode := statusCode(http.StatusNotFound)

	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusNotFound,
		Override: override,
	}
}

// NewConflictError creates a 409 Conflict HTTPError.
//
// Every integrity constraint violation (duplicate roll number, unknown
// student or subject reference, ...) ends up here: the write was rolled
// back and the user gets a warning.
func NewConflictError(message string, override bool, code *string) *HTTPError {
	formattedCode := statusCode(http.StatusConflict)

	if code != nil {
		formattedCode = *code
	}

	return &HTTPError{
		Code:     formattedCode,
		Message:  message,
		Status:   http.StatusConflict,
		Override: override,
	}
}

// NewServiceUnavailableError creates a 503 HTTPError for a storage that
// cannot be reached. The condition is transient; the message says so.
func NewServiceUnavailableError(message string) *HTTPError {
	return &HTTPError{
		Code:     statusCode(http.StatusServiceUnavailable),
		Message:  message,
		Status:   http.StatusServiceUnavailable,
		Override: true,
	}
}

// NewTooManyRequestsError creates a 429 HTTPError for a client that
// exceeded the submission rate.
func NewTooManyRequestsError(message string) *HTTPError {
	return &HTTPError{
		Code:     statusCode(http.StatusTooManyRequests),
		Message:  message,
		Status:   http.StatusTooManyRequests,
		Override: true,
	}
}

// NewInternalServerError creates a 500 Internal Server Error HTTPError.
//
// The message is the generic status text, never the real internal error.
func NewInternalServerError() *HTTPError {
	return &HTTPError{
		Code:     statusCode(http.StatusInternalServerError),
		Message:  http.StatusText(http.StatusInternalServerError),
		Status:   http.StatusInternalServerError,
		Override: false,
	}
}

// ValidationError converts a generic validation error into a 400 Bad Request HTTPError.
func ValidationError(err error) *HTTPError {
	return NewBadRequestError("Validation failed: "+err.Error(), false, nil, nil, nil)
}

// As extracts the *HTTPError from err's chain.
func As(err error) (*HTTPError, bool) {
	var httpErr *HTTPError
	if errors.As(err, &httpErr) {
		return httpErr, true
	}
	return nil, false
}

// StatusOf returns the status carried by err, 500 for anything that is
// not an *HTTPError.
func StatusOf(err error) int {
	if httpErr, ok := As(err); ok {
		return httpErr.Status
	}
	return http.StatusInternalServerError
}
