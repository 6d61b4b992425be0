package model

import (
	"strings"

	"github.com/deppfellow/student-results/internal/validation"
)

// Subject is a row of the subject table.
type Subject struct {
	ID       int    `json:"subject_id"`
	Name     string `json:"name"`
	MaxMarks int    `json:"max_marks"`
}

// CreateSubjectPayload is what the repository inserts, and the JSON API body.
//
// A zero MaxMarks in JSON means "not given" and becomes DefaultMaxMarks.
type CreateSubjectPayload struct {
	Name     string `json:"name" validate:"required,max=200"`
	MaxMarks int    `json:"max_marks" validate:"gte=0,lte=2147483647"`
}

// Validate trims the name and applies the default maximum.
func (p *CreateSubjectPayload) Validate() error {
	p.Name = strings.TrimSpace(p.Name)
	if err := validation.Struct(p); err != nil {
		return err
	}
	if p.MaxMarks == 0 {
		p.MaxMarks = DefaultMaxMarks
	}
	return nil
}

// CreateSubjectForm is bound from the subjects HTML form. Numbers arrive
// as text so a non-numeric value is a validation failure, not a bind error.
type CreateSubjectForm struct {
	Name     string `form:"name" validate:"required,max=200"`
	MaxMarks string `form:"max_marks" validate:"omitempty,number,max=9"`

	maxMarks int
}

// Validate checks the form and parses max_marks; empty means DefaultMaxMarks.
func (f *CreateSubjectForm) Validate() error {
	f.Name = strings.TrimSpace(f.Name)
	f.MaxMarks = strings.TrimSpace(f.MaxMarks)

	if err := validation.Struct(f); err != nil {
		return err
	}

	f.maxMarks = DefaultMaxMarks
	if f.MaxMarks != "" {
		n, err := atoi("max_marks", f.MaxMarks)
		if err != nil {
			return err
		}
		if n <= 0 {
			return validation.CustomValidationErrors{{Field: "max_marks", Message: "must be greater than 0"}}
		}
		f.maxMarks = n
	}
	return nil
}

// Payload converts a validated form.
func (f *CreateSubjectForm) Payload() CreateSubjectPayload {
	return CreateSubjectPayload{Name: f.Name, MaxMarks: f.maxMarks}
}
