package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/deppfellow/student-results/internal/errs"
	"github.com/deppfellow/student-results/internal/model"
	"github.com/deppfellow/student-results/internal/server"
	"github.com/deppfellow/student-results/internal/service"
	"github.com/deppfellow/student-results/internal/view"
)

const invalidMarks = "Invalid input. Please enter numbers."

// MarksForm is the outcome table of POST /enter_marks.
var MarksForm = Form{
	Redirect: "/enter_marks",
	Success:  "Marks saved.",
	Invalid: map[string]string{
		"student_id": invalidMarks,
		"subject_id": invalidMarks,
		"marks":      invalidMarks,
	},
}

type ResultHandler struct {
	Handler
	results  *service.ResultService
	students *service.StudentService
	subjects *service.SubjectService
}

func NewResultHandler(
	s *server.Server,
	results *service.ResultService,
	students *service.StudentService,
	subjects *service.SubjectService,
) *ResultHandler {
	return &ResultHandler{
		Handler:  NewHandler(s),
		results:  results,
		students: students,
		subjects: subjects,
	}
}

type enterMarksData struct {
	Students []model.Student
	Subjects []model.Subject
}

// EnterMarksPage renders the marks form with both pickers. Each list
// that fails to load is shown empty with a flash.
func (h *ResultHandler) EnterMarksPage(c echo.Context) error {
	ctx := c.Request().Context()
	data := enterMarksData{Students: []model.Student{}, Subjects: []model.Subject{}}

	var failures []view.Flash
	if students, err := h.students.List(ctx); err != nil {
		failures = append(failures, flashFor(err, nil))
	} else {
		data.Students = students
	}
	if subjects, err := h.subjects.List(ctx); err != nil {
		failures = append(failures, flashFor(err, nil))
	} else {
		data.Subjects = subjects
	}

	return render(c, "enter_marks", view.Page{
		Title:  "Enter Marks",
		Active: "enter_marks",
		Data:   data,
	}, failures...)
}

// Submit is the MarksForm handler.
func (h *ResultHandler) Submit(c echo.Context, req *model.EnterMarksForm) error {
	payload := req.Payload()
	_, err := h.results.Upsert(c.Request().Context(), &payload)
	return err
}

// ResultsPage renders a student's report card. A non-integer id is a
// 404 page; an unknown student goes back to the list with a flash. If
// only the results fail to load, the card is shown empty with a flash.
func (h *ResultHandler) ResultsPage(c echo.Context) error {
	var studentID int
	if err := echo.PathParamsBinder(c).MustInt("student_id", &studentID).BindError(); err != nil {
		return errs.NewNotFoundError("Page not found", false, nil)
	}

	card, err := h.results.ReportCard(c.Request().Context(), studentID)
	if card == nil {
		if flashErr := addFlash(c, flashFor(err, nil)); flashErr != nil {
			return flashErr
		}
		return c.Redirect(http.StatusSeeOther, StudentForm.Redirect)
	}

	var failures []view.Flash
	if err != nil {
		failures = append(failures, flashFor(err, nil))
	}

	return render(c, "results", view.Page{
		Title:  "Results for " + card.Student.Name,
		Active: "students",
		Data:   card,
	}, failures...)
}

// Upsert records marks for a (student, subject) pair.
func (h *ResultHandler) Upsert(c echo.Context, req *model.UpsertResultPayload) (*model.Result, error) {
	return h.results.Upsert(c.Request().Context(), req)
}

func (h *ResultHandler) ReportCard(c echo.Context, req *model.StudentIDParam) (*model.ReportCard, error) {
	return h.results.ReportCard(c.Request().Context(), req.StudentID)
}
