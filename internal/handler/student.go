package handler

import (
	"github.com/labstack/echo/v4"

	"github.com/deppfellow/student-results/internal/model"
	"github.com/deppfellow/student-results/internal/server"
	"github.com/deppfellow/student-results/internal/service"
	"github.com/deppfellow/student-results/internal/view"
)

// StudentForm is the outcome table of POST /students.
var StudentForm = Form{
	Redirect: "/students",
	Success:  "Student added.",
}

type StudentHandler struct {
	Handler
	students *service.StudentService
}

func NewStudentHandler(s *server.Server, students *service.StudentService) *StudentHandler {
	return &StudentHandler{
		Handler:  NewHandler(s),
		students: students,
	}
}

type studentsData struct {
	Students []model.Student
}

// ListPage renders the student list. A failed read shows an empty
// table and the error as a flash.
func (h *StudentHandler) ListPage(c echo.Context) error {
	page := view.Page{Title: "Students", Active: "students"}

	students, err := h.students.List(c.Request().Context())
	if err != nil {
		page.Data = studentsData{Students: []model.Student{}}
		return render(c, "students", page, flashFor(err, nil))
	}

	page.Data = studentsData{Students: students}
	return render(c, "students", page)
}

// Submit is the StudentForm handler.
func (h *StudentHandler) Submit(c echo.Context, req *model.CreateStudentPayload) error {
	_, err := h.students.Create(c.Request().Context(), req)
	return err
}

func (h *StudentHandler) List(c echo.Context, _ *model.EmptyRequest) ([]model.Student, error) {
	return h.students.List(c.Request().Context())
}

func (h *StudentHandler) Create(c echo.Context, req *model.CreateStudentPayload) (*model.Student, error) {
	return h.students.Create(c.Request().Context(), req)
}
