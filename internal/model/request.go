package model

import "github.com/deppfellow/student-results/internal/validation"

// EmptyRequest is the payload of endpoints that take no input.
type EmptyRequest struct{}

func (r *EmptyRequest) Validate() error { return nil }

// StudentIDParam binds the :student_id path parameter.
type StudentIDParam struct {
	StudentID int `param:"student_id" validate:"required,gt=0"`
}

func (p *StudentIDParam) Validate() error {
	return validation.Struct(p)
}
