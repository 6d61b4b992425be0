package validation

import (
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/deppfellow/student-results/internal/errs"
)

type markForm struct {
	StudentID string `form:"student_id" validate:"required,number"`
	Marks     string `form:"marks" validate:"required,number,max=3"`
}

func (f *markForm) Validate() error { return Struct(f) }

type customForm struct {
	Name string `form:"name"`
}

func (f *customForm) Validate() error {
	if f.Name == "admin" {
		return CustomValidationErrors{{Field: "name", Message: "is reserved"}}
	}
	return nil
}

func newFormContext(values url.Values) echo.Context {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	return e.NewContext(req, httptest.NewRecorder())
}

func TestBindAndValidate_OK(t *testing.T) {
	c := newFormContext(url.Values{"student_id": {"3"}, "marks": {"80"}})

	form := &markForm{}
	require.NoError(t, BindAndValidate(c, form))
	assert.Equal(t, "3", form.StudentID)
	assert.Equal(t, "80", form.Marks)
}

func TestBindAndValidate_FieldErrors(t *testing.T) {
	c := newFormContext(url.Values{"marks": {"abc"}})

	err := BindAndValidate(c, &markForm{})
	httpErr, ok := errs.As(err)
	require.True(t, ok)

	assert.Equal(t, http.StatusBadRequest, httpErr.Status)
	assert.Equal(t, "Validation failed", httpErr.Message)
	assert.ElementsMatch(t, []errs.FieldError{
		{Field: "student_id", Error: "is required"},
		{Field: "marks", Error: "must be a whole number"},
	}, httpErr.Errors)
}

func TestBindAndValidate_CustomErrors(t *testing.T) {
	c := newFormContext(url.Values{"name": {"admin"}})

	err := BindAndValidate(c, &customForm{})
	httpErr, ok := errs.As(err)
	require.True(t, ok)
	assert.Equal(t, []errs.FieldError{{Field: "name", Error: "is reserved"}}, httpErr.Errors)
}

func TestBindAndValidate_BadJSON(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{"))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	c := e.NewContext(req, httptest.NewRecorder())

	err := BindAndValidate(c, &markForm{})
	assert.Equal(t, http.StatusBadRequest, errs.StatusOf(err))
}

func TestToSnakeCase(t *testing.T) {
	assert.Equal(t, "roll_no", toSnakeCase("RollNo"))
	assert.Equal(t, "student_id", toSnakeCase("StudentID"))
	assert.Equal(t, "max_marks", toSnakeCase("MaxMarks"))
	assert.Equal(t, "name", toSnakeCase("Name"))
}

func TestDescribe(t *testing.T) {
	assert.Equal(t, "roll_no is required; name is required", Describe([]errs.FieldError{
		{Field: "roll_no", Error: "is required"},
		{Field: "name", Error: "is required"},
	}))
}
