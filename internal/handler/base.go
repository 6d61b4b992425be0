package handler

import (
	"net/http"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/newrelic/go-agent/v3/integrations/nrpkgerrors"
	"github.com/newrelic/go-agent/v3/newrelic"

	"github.com/deppfellow/student-results/internal/middleware"
	"github.com/deppfellow/student-results/internal/server"
	"github.com/deppfellow/student-results/internal/validation"
	"github.com/deppfellow/student-results/internal/view"
)

// Handler holds the shared application dependencies. Concrete handlers
// embed it.
type Handler struct {
	server *server.Server
}

func NewHandler(s *server.Server) Handler {
	return Handler{server: s}
}

// HandlerFunc is a typed endpoint: it receives a validated payload and
// returns a response or an error. Req is a pointer type so Bind can fill it.
type HandlerFunc[Req validation.Validatable, Res any] func(c echo.Context, req Req) (Res, error)

// HandlerFuncNoContent is a typed endpoint with no response body.
type HandlerFuncNoContent[Req validation.Validatable] func(c echo.Context, req Req) error

// ResponseHandler writes a successful result and tags the transaction.
type ResponseHandler interface {
	Handle(c echo.Context, result interface{}) error
	GetOperation() string
	AddAttributes(txn *newrelic.Transaction, result interface{})
}

// JSONResponseHandler writes JSON responses with a given status code.
type JSONResponseHandler struct {
	status int
}

func (h JSONResponseHandler) Handle(c echo.Context, result interface{}) error {
	return c.JSON(h.status, result)
}

func (h JSONResponseHandler) GetOperation() string {
	return "handler"
}

func (h JSONResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {
	// http.status_code is already set by tracing middleware (EnhanceTracing).
}

// RedirectResponseHandler flashes a success message and redirects with
// 303 See Other, closing the post/redirect/get cycle of an HTML form.
type RedirectResponseHandler struct {
	location string
	success  string
}

func (h RedirectResponseHandler) Handle(c echo.Context, result interface{}) error {
	if err := addFlash(c, view.Flash{Category: view.FlashSuccess, Message: h.success}); err != nil {
		return err
	}
	return c.Redirect(http.StatusSeeOther, h.location)
}

func (h RedirectResponseHandler) GetOperation() string {
	return "handler_form"
}

func (h RedirectResponseHandler) AddAttributes(txn *newrelic.Transaction, result interface{}) {
	if txn != nil {
		txn.AddAttribute("form.redirect", h.location)
	}
}

// handleRequest is the shared execution pipeline: bind and validate,
// run the handler, log and trace both phases, then write the response
// through responseHandler. Errors are returned untouched.
func handleRequest[Req validation.Validatable](
	c echo.Context,
	req Req,
	handler func(c echo.Context, req Req) (interface{}, error),
	responseHandler ResponseHandler,
) error {
	start := time.Now()
	method := c.Request().Method
	route := c.Path()

	txn := newrelic.FromContext(c.Request().Context())
	if txn != nil {
		txn.AddAttribute("handler.name", route)
		responseHandler.AddAttributes(txn, nil)
	}

	logger := middleware.GetLogger(c).With().
		Str("operation", responseHandler.GetOperation()).
		Str("method", method).
		Str("route", route).
		Logger()

	logger.Info().Msg("handling request")

	validationStart := time.Now()
	if err := validation.BindAndValidate(c, req); err != nil {
		validationDuration := time.Since(validationStart)

		logger.Warn().
			Err(err).
			Dur("validation_duration", validationDuration).
			Msg("request validation failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("validation.status", "failed")
			txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
		}

		return err
	}

	validationDuration := time.Since(validationStart)
	if txn != nil {
		txn.AddAttribute("validation.status", "success")
		txn.AddAttribute("validation.duration_ms", validationDuration.Milliseconds())
	}

	logger.Debug().
		Dur("validation_duration", validationDuration).
		Msg("request validation successful")

	handlerStart := time.Now()
	result, err := handler(c, req)
	handlerDuration := time.Since(handlerStart)

	if err != nil {
		totalDuration := time.Since(start)

		logger.Error().
			Err(err).
			Dur("handler_duration", handlerDuration).
			Dur("total_duration", totalDuration).
			Msg("handler execution failed")

		if txn != nil {
			txn.NoticeError(nrpkgerrors.Wrap(err))
			txn.AddAttribute("handler.status", "error")
			txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
			txn.AddAttribute("total.duration_ms", totalDuration.Milliseconds())
		}
		return err
	}

	totalDuration := time.Since(start)

	if txn != nil {
		txn.AddAttribute("handler.status", "success")
		txn.AddAttribute("handler.duration_ms", handlerDuration.Milliseconds())
		txn.AddAttribute("total.duration_ms", totalDuration.Milliseconds())
		responseHandler.AddAttributes(txn, result)
	}

	logger.Info().
		Dur("handler_duration", handlerDuration).
		Dur("validation_duration", validationDuration).
		Dur("total_duration", totalDuration).
		Msg("request completed successfully")

	return responseHandler.Handle(c, result)
}

// Handle wraps a typed JSON endpoint. newReq builds a fresh payload for
// every request; payloads are never shared between requests.
//
//	g.POST("/students", handler.Handle(h, h.CreateStudent, http.StatusCreated, handler.Payload[model.CreateStudentPayload]))
func Handle[Req validation.Validatable, Res any](
	h Handler,
	handler HandlerFunc[Req, Res],
	status int,
	newReq func() Req,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		return handleRequest(c, newReq(), func(c echo.Context, req Req) (interface{}, error) {
			return handler(c, req)
		}, JSONResponseHandler{status: status})
	}
}

// Form describes where an HTML form submission lands.
type Form struct {
	// Redirect is the page the browser goes to afterwards, success or not.
	Redirect string

	// Success is flashed when the handler returns nil.
	Success string

	// Invalid maps a form field to the flash shown when that field fails
	// validation. Fields not listed are described generically.
	Invalid map[string]string
}

// HandleForm wraps a form endpoint. Every outcome is a flash message
// followed by a 303 redirect to form.Redirect; failures never reach the
// global error handler.
func HandleForm[Req validation.Validatable](
	h Handler,
	handler HandlerFuncNoContent[Req],
	form Form,
	newReq func() Req,
) echo.HandlerFunc {
	return func(c echo.Context) error {
		err := handleRequest(c, newReq(), func(c echo.Context, req Req) (interface{}, error) {
			return nil, handler(c, req)
		}, RedirectResponseHandler{location: form.Redirect, success: form.Success})
		if err == nil {
			return nil
		}

		if flashErr := addFlash(c, flashFor(err, form.Invalid)); flashErr != nil {
			return flashErr
		}
		return c.Redirect(http.StatusSeeOther, form.Redirect)
	}
}

// Payload is the newReq constructor for any payload struct:
// Payload[model.CreateStudentPayload] returns a new *model.CreateStudentPayload.
func Payload[T any, P interface {
	*T
	validation.Validatable
}]() P {
	return P(new(T))
}
