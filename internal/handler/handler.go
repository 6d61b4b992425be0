// Package handler is the first layer after the router.
//
// It binds and validates requests with the validation package, calls
// the service layer, and writes the response: JSON for /api routes,
// rendered pages and flash-and-redirect for the HTML forms.
package handler
