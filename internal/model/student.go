package model

import (
	"strings"

	"github.com/deppfellow/student-results/internal/validation"
)

// Student is a row of the student table.
type Student struct {
	ID     int    `json:"student_id"`
	RollNo string `json:"roll_no"`
	Name   string `json:"name"`
	Class  string `json:"class"`
}

// CreateStudentPayload is bound from the students form and from the JSON API.
type CreateStudentPayload struct {
	RollNo string `form:"roll_no" json:"roll_no" validate:"required,max=50"`
	Name   string `form:"name" json:"name" validate:"required,max=200"`
	Class  string `form:"class" json:"class" validate:"max=50"`
}

// Validate trims every field before checking it.
func (p *CreateStudentPayload) Validate() error {
	p.RollNo = strings.TrimSpace(p.RollNo)
	p.Name = strings.TrimSpace(p.Name)
	p.Class = strings.TrimSpace(p.Class)

	return validation.Struct(p)
}
