// Package router initializes the HTTP router (using Echo).
//
// It registers the middlewares and the three route groups: the HTML
// pages, the JSON API under /api/v1, and the system routes.
package router

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/student-results/internal/handler"
	"github.com/deppfellow/student-results/internal/middleware"
	"github.com/deppfellow/student-results/internal/model"
	"github.com/deppfellow/student-results/internal/server"
	"github.com/deppfellow/student-results/internal/view"
)

// NewRouter builds the echo instance with every middleware and route.
func NewRouter(s *server.Server, h *handler.Handlers, renderer *view.Renderer) *echo.Echo {
	m := middleware.NewMiddlewares(s)

	router := echo.New()
	router.HideBanner = true
	router.HidePort = true
	router.Renderer = renderer
	router.HTTPErrorHandler = m.Global.GlobalErrorHandler

	router.Use(
		m.Global.CORS(),
		m.Global.Secure(),
		middleware.RequestID(),
		m.Tracing.NewRelicMiddleware(),
		m.Tracing.EnhanceTracing(),
		m.ContextEnhancer.EnhanceContext(),
		m.Global.RequestLogger(),
		m.Global.Recover(),
		m.Global.Sessions(),
		m.RateLimit.Writes(),
	)

	registerSystemRoutes(router, h)
	registerPageRoutes(router, h)
	registerAPIRoutes(router, h)

	return router
}

// registerPageRoutes wires the HTML surface. Form posts redirect back
// to their page with a flash message.
func registerPageRoutes(r *echo.Echo, h *handler.Handlers) {
	r.GET("/", h.Page.Index)

	r.GET("/students", h.Student.ListPage)
	r.POST("/students", handler.HandleForm(h.Student.Handler, h.Student.Submit,
		handler.StudentForm, handler.Payload[model.CreateStudentPayload]))

	r.GET("/subjects", h.Subject.ListPage)
	r.POST("/subjects", handler.HandleForm(h.Subject.Handler, h.Subject.Submit,
		handler.SubjectForm, handler.Payload[model.CreateSubjectForm]))

	r.GET("/enter_marks", h.Result.EnterMarksPage)
	r.POST("/enter_marks", handler.HandleForm(h.Result.Handler, h.Result.Submit,
		handler.MarksForm, handler.Payload[model.EnterMarksForm]))

	r.GET("/results/:student_id", h.Result.ResultsPage)
}

func registerAPIRoutes(r *echo.Echo, h *handler.Handlers) {
	api := r.Group("/api/v1")

	api.GET("/students", handler.Handle(h.Student.Handler, h.Student.List,
		http.StatusOK, handler.Payload[model.EmptyRequest]))
	api.POST("/students", handler.Handle(h.Student.Handler, h.Student.Create,
		http.StatusCreated, handler.Payload[model.CreateStudentPayload]))
	api.GET("/students/:student_id/results", handler.Handle(h.Result.Handler, h.Result.ReportCard,
		http.StatusOK, handler.Payload[model.StudentIDParam]))

	api.GET("/subjects", handler.Handle(h.Subject.Handler, h.Subject.List,
		http.StatusOK, handler.Payload[model.EmptyRequest]))
	api.POST("/subjects", handler.Handle(h.Subject.Handler, h.Subject.Create,
		http.StatusCreated, handler.Payload[model.CreateSubjectPayload]))

	api.PUT("/results", handler.Handle(h.Result.Handler, h.Result.Upsert,
		http.StatusOK, handler.Payload[model.UpsertResultPayload]))
}
