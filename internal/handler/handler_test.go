package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/deppfellow/student-results/internal/errs"
	"github.com/deppfellow/student-results/internal/model"
	"github.com/deppfellow/student-results/internal/sqlerr"
	"github.com/deppfellow/student-results/internal/view"
)

func TestPayload_FreshPerCall(t *testing.T) {
	newReq := Payload[model.CreateStudentPayload]

	a, b := newReq(), newReq()
	a.Name = "Alice"

	assert.NotSame(t, a, b)
	assert.Empty(t, b.Name)
}

func TestFlashFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want view.Flash
	}{
		{
			name: "mapped field",
			err: errs.NewBadRequestError("Validation failed", true, nil,
				[]errs.FieldError{{Field: "max_marks", Error: "must be a whole number"}}, nil),
			want: view.Flash{Category: view.FlashDanger, Message: "Invalid max marks. Must be a number."},
		},
		{
			name: "unmapped field",
			err: errs.NewBadRequestError("Validation failed", true, nil,
				[]errs.FieldError{{Field: "name", Error: "is required"}}, nil),
			want: view.Flash{Category: view.FlashDanger, Message: "Invalid input: name is required."},
		},
		{
			name: "conflict",
			err:  errs.NewConflictError("A Student with this Roll No already exists", true, nil),
			want: view.Flash{Category: view.FlashWarning, Message: "A Student with this Roll No already exists"},
		},
		{
			name: "unavailable",
			err:  errs.NewServiceUnavailableError(sqlerr.ConnectivityMessage),
			want: view.Flash{Category: view.FlashDanger, Message: sqlerr.ConnectivityMessage},
		},
		{
			name: "unclassified",
			err:  errors.New("boom"),
			want: view.Flash{Category: view.FlashDanger, Message: http.StatusText(http.StatusInternalServerError)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, flashFor(tt.err, SubjectForm.Invalid))
		})
	}
}
