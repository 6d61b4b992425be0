// Package errs defines the structured failure type every layer returns.
//
// Repositories, services and validation all produce *HTTPError values
// carrying a status, a machine code and a human message. Only the HTTP
// boundary decides how to surface them (flash message, error page, JSON).
package errs
