package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/student-results/internal/model"
	"github.com/deppfellow/student-results/internal/server"
	"github.com/deppfellow/student-results/internal/service"
	"github.com/deppfellow/student-results/internal/view"
)

// SubjectForm is the outcome table of POST /subjects.
var SubjectForm = Form{
	Redirect: "/subjects",
	Success:  "Subject added.",
	Invalid: map[string]string{
		"max_marks": "Invalid max marks. Must be a number.",
	},
}

type SubjectHandler struct {
	Handler
	subjects *service.SubjectService
}

func NewSubjectHandler(s *server.Server, subjects *service.SubjectService) *SubjectHandler {
	return &SubjectHandler{
		Handler:  NewHandler(s),
		subjects: subjects,
	}
}

type subjectsData struct {
	Subjects []model.Subject
}

func (h *SubjectHandler) ListPage(c echo.Context) error {
	page := view.Page{Title: "Subjects", Active: "subjects"}

	subjects, err := h.subjects.List(c.Request().Context())
	if err != nil {
		page.Data = subjectsData{Subjects: []model.Subject{}}
		return render(c, "subjects", page, flashFor(err, nil))
	}

	page.Data = subjectsData{Subjects: subjects}
	return render(c, "subjects", page)
}

// Submit is the SubjectForm handler.
func (h *SubjectHandler) Submit(c echo.Context, req *model.CreateSubjectForm) error {
	payload := req.Payload()
	_, err := h.subjects.Create(c.Request().Context(), &payload)
	return err
}

func (h *SubjectHandler) List(c echo.Context, _ *model.EmptyRequest) ([]model.Subject, error) {
	return h.subjects.List(c.Request().Context())
}

func (h *SubjectHandler) Create(c echo.Context, req *model.CreateSubjectPayload) (*model.Subject, error) {
	return h.subjects.Create(c.Request().Context(), req)
}
