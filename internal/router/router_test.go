package router

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"regexp"
	"strings"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/labstack/echo/v4"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/student-results/internal/handler"
	"github.com/deppfellow/student-results/internal/repository"
	"github.com/deppfellow/student-results/internal/service"
	"github.com/deppfellow/student-results/internal/sqlerr"
	"github.com/deppfellow/student-results/internal/testutil"
	"github.com/deppfellow/student-results/internal/view"
)

var (
	studentCols = []string{"student_id", "roll_no", "name", "class"}
	subjectCols = []string{"subject_id", "name", "max_marks"}
	lineCols    = []string{"result_id", "subject_id", "name", "marks", "max_marks"}
)

func newTestRouter(t *testing.T) (*echo.Echo, pgxmock.PgxPoolIface) {
	t.Helper()

	s, mock := testutil.NewMockServer(t)
	services := service.NewServices(s, repository.NewRepositories(s))

	renderer, err := view.New()
	require.NoError(t, err)

	return NewRouter(s, handler.NewHandlers(s, services), renderer), mock
}

func postForm(e *echo.Echo, target string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func doJSON(e *echo.Echo, method, target, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func get(e *echo.Echo, target string) *httptest.ResponseRecorder {
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, target, nil))
	return rec
}

// follow performs the GET a browser makes after a 303, carrying the
// flash cookie.
func follow(t *testing.T, e *echo.Echo, rec *httptest.ResponseRecorder) *httptest.ResponseRecorder {
	t.Helper()
	require.Equal(t, http.StatusSeeOther, rec.Code)

	req := httptest.NewRequest(http.MethodGet, rec.Header().Get(echo.HeaderLocation), nil)
	for _, c := range rec.Result().Cookies() {
		req.AddCookie(c)
	}

	next := httptest.NewRecorder()
	e.ServeHTTP(next, req)
	return next
}

func expectStudentList(mock pgxmock.PgxPoolIface) {
	mock.ExpectQuery(regexp.QuoteMeta("FROM student")).
		WillReturnRows(pgxmock.NewRows(studentCols).AddRow(1, "R1", "Alice", "10A"))
}

func expectSubjectList(mock pgxmock.PgxPoolIface) {
	mock.ExpectQuery(regexp.QuoteMeta("FROM subject")).
		WillReturnRows(pgxmock.NewRows(subjectCols).AddRow(1, "Math", 100))
}

func TestIndex(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := get(e, "/")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `href="/enter_marks"`)
}

func TestEnterMarks_NonNumericMarksNeverReachesDatabase(t *testing.T) {
	e, mock := newTestRouter(t)

	rec := postForm(e, "/enter_marks", url.Values{
		"student_id": {"1"},
		"subject_id": {"1"},
		"marks":      {"abc"},
	})
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/enter_marks", rec.Header().Get(echo.HeaderLocation))

	// Only the follow-up page load touches the database.
	expectStudentList(mock)
	expectSubjectList(mock)

	page := follow(t, e, rec)
	assert.Equal(t, http.StatusOK, page.Code)
	assert.Contains(t, page.Body.String(), "alert-danger")
	assert.Contains(t, page.Body.String(), "Invalid input. Please enter numbers.")
}

func TestEnterMarks_Saved(t *testing.T) {
	e, mock := newTestRouter(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (student_id, subject_id)")).
		WithArgs(1, 1, 80).
		WillReturnRows(pgxmock.NewRows([]string{"result_id", "student_id", "subject_id", "marks"}).AddRow(1, 1, 1, 80))
	mock.ExpectCommit()

	rec := postForm(e, "/enter_marks", url.Values{
		"student_id": {"1"},
		"subject_id": {"1"},
		"marks":      {"80"},
	})

	expectStudentList(mock)
	expectSubjectList(mock)

	page := follow(t, e, rec)
	assert.Contains(t, page.Body.String(), "alert-success")
	assert.Contains(t, page.Body.String(), "Marks saved.")

	// Loading the page consumed the flash.
	expectStudentList(mock)
	expectSubjectList(mock)

	req := httptest.NewRequest(http.MethodGet, "/enter_marks", nil)
	for _, c := range page.Result().Cookies() {
		req.AddCookie(c)
	}
	again := httptest.NewRecorder()
	e.ServeHTTP(again, req)
	assert.NotContains(t, again.Body.String(), "Marks saved.")
}

func TestEnterMarks_SignedMarksAreSaved(t *testing.T) {
	e, mock := newTestRouter(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (student_id, subject_id)")).
		WithArgs(1, 2, -5).
		WillReturnRows(pgxmock.NewRows([]string{"result_id", "student_id", "subject_id", "marks"}).AddRow(3, 1, 2, -5))
	mock.ExpectCommit()

	rec := postForm(e, "/enter_marks", url.Values{
		"student_id": {" 1"},
		"subject_id": {"2 "},
		"marks":      {"-5"},
	})

	expectStudentList(mock)
	expectSubjectList(mock)

	page := follow(t, e, rec)
	assert.Contains(t, page.Body.String(), "Marks saved.")
	assert.NotContains(t, page.Body.String(), "Invalid input")
}

func TestStudents_DuplicateRollNoWarns(t *testing.T) {
	e, mock := newTestRouter(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO student")).
		WithArgs("R1", "Bob", "").
		WillReturnError(&pgconn.PgError{
			Code:           "23505",
			TableName:      "student",
			ConstraintName: "student_roll_no_key",
		})
	mock.ExpectRollback()

	rec := postForm(e, "/students", url.Values{"roll_no": {" R1 "}, "name": {"Bob"}})

	expectStudentList(mock)
	page := follow(t, e, rec)

	body := page.Body.String()
	assert.Contains(t, body, "alert-warning")
	assert.Contains(t, body, "A Student with this Roll No already exists")
	assert.Contains(t, body, "Alice")
}

func TestStudents_MissingNameIsDescribed(t *testing.T) {
	e, mock := newTestRouter(t)

	rec := postForm(e, "/students", url.Values{"roll_no": {"R9"}})

	expectStudentList(mock)
	page := follow(t, e, rec)
	assert.Contains(t, page.Body.String(), "Invalid input: name is required.")
}

func TestStudents_ListFailureRendersEmptyPage(t *testing.T) {
	e, mock := newTestRouter(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM student")).
		WillReturnError(errors.New("closed pool"))

	rec := get(e, "/students")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "alert-danger")
	assert.Contains(t, rec.Body.String(), "No students yet.")
}

func TestSubjects_InvalidMaxMarks(t *testing.T) {
	for _, maxMarks := range []string{"abc", "0"} {
		t.Run(maxMarks, func(t *testing.T) {
			e, mock := newTestRouter(t)

			rec := postForm(e, "/subjects", url.Values{"name": {"Math"}, "max_marks": {maxMarks}})

			expectSubjectList(mock)
			page := follow(t, e, rec)
			assert.Contains(t, page.Body.String(), "Invalid max marks. Must be a number.")
		})
	}
}

func TestSubjects_DefaultMaxMarks(t *testing.T) {
	e, mock := newTestRouter(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO subject")).
		WithArgs("Art", 100).
		WillReturnRows(pgxmock.NewRows(subjectCols).AddRow(2, "Art", 100))
	mock.ExpectCommit()

	rec := postForm(e, "/subjects", url.Values{"name": {"Art"}})

	expectSubjectList(mock)
	page := follow(t, e, rec)
	assert.Contains(t, page.Body.String(), "Subject added.")
}

func TestResults_ReportCard(t *testing.T) {
	e, mock := newTestRouter(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE student_id = $1")).
		WithArgs(1).
		WillReturnRows(pgxmock.NewRows(studentCols).AddRow(1, "R1", "Alice", "10A"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM result r")).
		WithArgs(1).
		WillReturnRows(pgxmock.NewRows(lineCols).
			AddRow(1, 1, "Math", 80, 100).
			AddRow(2, 2, "Sci", 40, 50))

	rec := get(e, "/results/1")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "Results for Alice")
	assert.Contains(t, body, "<td>120</td><td>150</td>")
	assert.Contains(t, body, `<strong id="grade">A</strong>`)
}

func TestResults_NoMarks(t *testing.T) {
	e, mock := newTestRouter(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE student_id = $1")).
		WithArgs(2).
		WillReturnRows(pgxmock.NewRows(studentCols).AddRow(2, "R2", "Bob", ""))
	mock.ExpectQuery(regexp.QuoteMeta("FROM result r")).
		WithArgs(2).
		WillReturnRows(pgxmock.NewRows(lineCols))

	rec := get(e, "/results/2")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `<strong id="grade">N/A</strong>`)
}

func TestResults_UnknownStudentRedirects(t *testing.T) {
	e, mock := newTestRouter(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE student_id = $1")).
		WithArgs(99).
		WillReturnRows(pgxmock.NewRows(studentCols))

	rec := get(e, "/results/99")
	assert.Equal(t, http.StatusSeeOther, rec.Code)
	assert.Equal(t, "/students", rec.Header().Get(echo.HeaderLocation))

	expectStudentList(mock)
	page := follow(t, e, rec)
	assert.Contains(t, page.Body.String(), "Student not found.")
}

func TestResults_UnavailableResultsRenderEmptyCard(t *testing.T) {
	e, mock := newTestRouter(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE student_id = $1")).
		WithArgs(1).
		WillReturnRows(pgxmock.NewRows(studentCols).AddRow(1, "R1", "Alice", "10A"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM result r")).
		WithArgs(1).
		WillReturnError(&pgconn.PgError{Code: "08006"})

	rec := get(e, "/results/1")
	require.Equal(t, http.StatusOK, rec.Code)

	body := rec.Body.String()
	assert.Contains(t, body, "Results for Alice")
	assert.Contains(t, body, "No marks recorded.")
	assert.Contains(t, body, `<strong id="grade">N/A</strong>`)
	assert.Contains(t, body, "alert-danger")
	assert.Contains(t, body, sqlerr.ConnectivityMessage)
}

func TestAPI_ReportCardResultsUnavailable(t *testing.T) {
	e, mock := newTestRouter(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE student_id = $1")).
		WithArgs(1).
		WillReturnRows(pgxmock.NewRows(studentCols).AddRow(1, "R1", "Alice", "10A"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM result r")).
		WithArgs(1).
		WillReturnError(&pgconn.PgError{Code: "08006"})

	rec := get(e, "/api/v1/students/1/results")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestResults_NonIntegerIDIs404(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := get(e, "/results/abc")
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Contains(t, rec.Body.String(), "Page not found")
}

func TestAPI_CreateStudent(t *testing.T) {
	e, mock := newTestRouter(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO student")).
		WithArgs("R1", "Alice", "10A").
		WillReturnRows(pgxmock.NewRows(studentCols).AddRow(1, "R1", "Alice", "10A"))
	mock.ExpectCommit()

	rec := doJSON(e, http.MethodPost, "/api/v1/students", `{"roll_no":"R1","name":"Alice","class":"10A"}`)
	require.Equal(t, http.StatusCreated, rec.Code)
	assert.JSONEq(t, `{"student_id":1,"roll_no":"R1","name":"Alice","class":"10A"}`, rec.Body.String())
}

func TestAPI_ReportCard(t *testing.T) {
	e, mock := newTestRouter(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE student_id = $1")).
		WithArgs(1).
		WillReturnRows(pgxmock.NewRows(studentCols).AddRow(1, "R1", "Alice", "10A"))
	mock.ExpectQuery(regexp.QuoteMeta("FROM result r")).
		WithArgs(1).
		WillReturnRows(pgxmock.NewRows(lineCols).
			AddRow(1, 1, "Math", 80, 100).
			AddRow(2, 2, "Sci", 40, 50))

	rec := get(e, "/api/v1/students/1/results")
	require.Equal(t, http.StatusOK, rec.Code)

	var body struct {
		TotalMarks int    `json:"total_marks"`
		TotalMax   int    `json:"total_max"`
		Grade      string `json:"grade"`
		Results    []any  `json:"results"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, 120, body.TotalMarks)
	assert.Equal(t, 150, body.TotalMax)
	assert.Equal(t, "A", body.Grade)
	assert.Len(t, body.Results, 2)
}

func TestAPI_ReportCardBadID(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := get(e, "/api/v1/students/abc/results")
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestAPI_UpsertValidation(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := doJSON(e, http.MethodPut, "/api/v1/results", `{"student_id":1,"subject_id":0,"marks":5}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"subject_id"`)
}

func TestAPI_UpsertMarksOutOfRange(t *testing.T) {
	e, _ := newTestRouter(t)

	rec := doJSON(e, http.MethodPut, "/api/v1/results", `{"student_id":1,"subject_id":1,"marks":2147483648}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), `"field":"marks"`)
}

func TestAPI_UpsertNegativeMarks(t *testing.T) {
	e, mock := newTestRouter(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("ON CONFLICT (student_id, subject_id)")).
		WithArgs(1, 1, -5).
		WillReturnRows(pgxmock.NewRows([]string{"result_id", "student_id", "subject_id", "marks"}).AddRow(1, 1, 1, -5))
	mock.ExpectCommit()

	rec := doJSON(e, http.MethodPut, "/api/v1/results", `{"student_id":1,"subject_id":1,"marks":-5}`)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"result_id":1,"student_id":1,"subject_id":1,"marks":-5}`, rec.Body.String())
}

func TestAPI_ListSubjectsUnavailable(t *testing.T) {
	e, mock := newTestRouter(t)

	mock.ExpectQuery(regexp.QuoteMeta("FROM subject")).
		WillReturnError(&pgconn.PgError{Code: "08006"})

	rec := get(e, "/api/v1/subjects")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestStatus(t *testing.T) {
	e, mock := newTestRouter(t)

	mock.ExpectPing()
	rec := get(e, "/status")
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"healthy"`)

	mock.ExpectPing().WillReturnError(errors.New("connection refused"))
	rec = get(e, "/status")
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"unhealthy"`)
}
