package service

import (
	"context"
	"net/http"
	"regexp"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/student-results/internal/errs"
	"github.com/deppfellow/student-results/internal/model"
	"github.com/deppfellow/student-results/internal/repository"
	"github.com/deppfellow/student-results/internal/testutil"
)

var lineCols = []string{"result_id", "subject_id", "name", "marks", "max_marks"}

func newServices(t *testing.T) (*Services, pgxmock.PgxPoolIface) {
	t.Helper()
	s, mock := testutil.NewMockServer(t)
	return NewServices(s, repository.NewRepositories(s)), mock
}

func expectStudent(mock pgxmock.PgxPoolIface, id int, name string) {
	mock.ExpectQuery(regexp.QuoteMeta("WHERE student_id = $1")).
		WithArgs(id).
		WillReturnRows(pgxmock.NewRows([]string{"student_id", "roll_no", "name", "class"}).
			AddRow(id, "R1", name, "10A"))
}

func TestResultService_ReportCard(t *testing.T) {
	services, mock := newServices(t)

	expectStudent(mock, 1, "Alice")
	mock.ExpectQuery(regexp.QuoteMeta("FROM result r")).
		WithArgs(1).
		WillReturnRows(pgxmock.NewRows(lineCols).
			AddRow(1, 1, "Math", 80, 100).
			AddRow(2, 2, "Sci", 40, 50))

	card, err := services.Results.ReportCard(context.Background(), 1)
	require.NoError(t, err)

	assert.Equal(t, "Alice", card.Student.Name)
	assert.Len(t, card.Lines, 2)
	assert.Equal(t, 120, card.TotalMarks)
	assert.Equal(t, 150, card.TotalMax)
	assert.Equal(t, "A", card.Grade)
	assert.InDelta(t, 80.0, card.Percentage, 0.001)
}

func TestResultService_ReportCardNoResults(t *testing.T) {
	services, mock := newServices(t)

	expectStudent(mock, 2, "Bob")
	mock.ExpectQuery(regexp.QuoteMeta("FROM result r")).
		WithArgs(2).
		WillReturnRows(pgxmock.NewRows(lineCols))

	card, err := services.Results.ReportCard(context.Background(), 2)
	require.NoError(t, err)

	assert.Empty(t, card.Lines)
	assert.Zero(t, card.TotalMarks)
	assert.Zero(t, card.TotalMax)
	assert.Equal(t, "N/A", card.Grade)
}

func TestResultService_ReportCardUnknownStudent(t *testing.T) {
	services, mock := newServices(t)

	mock.ExpectQuery(regexp.QuoteMeta("WHERE student_id = $1")).
		WithArgs(99).
		WillReturnRows(pgxmock.NewRows([]string{"student_id", "roll_no", "name", "class"}))

	card, err := services.Results.ReportCard(context.Background(), 99)
	assert.Nil(t, card)

	httpErr, ok := errs.As(err)
	require.True(t, ok)
	assert.Equal(t, http.StatusNotFound, httpErr.Status)
	assert.Equal(t, "Student not found.", httpErr.Message)
}

func TestResultService_ReportCardResultsUnavailable(t *testing.T) {
	services, mock := newServices(t)

	expectStudent(mock, 1, "Alice")
	mock.ExpectQuery(regexp.QuoteMeta("FROM result r")).
		WithArgs(1).
		WillReturnError(&pgconn.PgError{Code: "08006"})

	card, err := services.Results.ReportCard(context.Background(), 1)
	assert.Equal(t, http.StatusServiceUnavailable, errs.StatusOf(err))

	require.NotNil(t, card)
	assert.Equal(t, "Alice", card.Student.Name)
	assert.Empty(t, card.Lines)
	assert.Equal(t, "N/A", card.Grade)
}

func TestSubjectService_CreateDefaultsMaxMarks(t *testing.T) {
	services, mock := newServices(t)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO subject")).
		WithArgs("History", model.DefaultMaxMarks).
		WillReturnRows(pgxmock.NewRows([]string{"subject_id", "name", "max_marks"}).AddRow(3, "History", 100))
	mock.ExpectCommit()

	subject, err := services.Subjects.Create(context.Background(), &model.CreateSubjectPayload{Name: "History"})
	require.NoError(t, err)
	assert.Equal(t, 100, subject.MaxMarks)
}
