// Package validation binds request payloads and turns validator
// failures into field-level errors.
//
// Payloads implement Validatable; BindAndValidate is the single entry
// point used by both the HTML form handlers and the JSON API.
package validation
