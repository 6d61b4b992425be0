package model

import (
	"strings"

	"github.com/deppfellow/student-results/internal/grading"
	"github.com/deppfellow/student-results/internal/validation"
)

// Result is a row of the result table. (StudentID, SubjectID) is unique.
type Result struct {
	ID        int `json:"result_id"`
	StudentID int `json:"student_id"`
	SubjectID int `json:"subject_id"`
	Marks     int `json:"marks"`
}

// ResultLine is a result joined with its subject.
type ResultLine struct {
	ResultID    int    `json:"result_id"`
	SubjectID   int    `json:"subject_id"`
	SubjectName string `json:"subject_name"`
	Marks       int    `json:"marks"`
	MaxMarks    int    `json:"max_marks"`
}

// Pair is the line's contribution to the aggregate.
func (l ResultLine) Pair() grading.Pair {
	return grading.Pair{Marks: l.Marks, MaxMarks: l.MaxMarks}
}

// ReportCard is everything the results view shows for one student.
type ReportCard struct {
	Student Student      `json:"student"`
	Lines   []ResultLine `json:"results"`
	grading.Summary
	Percentage float64 `json:"percentage"`
}

// UpsertResultPayload is what the repository writes, and the JSON API body.
// Marks are not checked against the subject maximum or for sign; every
// value must fit the INTEGER columns.
type UpsertResultPayload struct {
	StudentID int `json:"student_id" validate:"required,gt=0,lte=2147483647"`
	SubjectID int `json:"subject_id" validate:"required,gt=0,lte=2147483647"`
	Marks     int `json:"marks" validate:"gte=-2147483648,lte=2147483647"`
}

func (p *UpsertResultPayload) Validate() error {
	return validation.Struct(p)
}

// EnterMarksForm is bound from the enter_marks HTML form.
type EnterMarksForm struct {
	StudentID string `form:"student_id" validate:"required,max=11"`
	SubjectID string `form:"subject_id" validate:"required,max=11"`
	Marks     string `form:"marks" validate:"required,max=11"`

	payload UpsertResultPayload
}

// Validate checks that all three fields are signed whole numbers and
// parses them. Surrounding whitespace is ignored.
func (f *EnterMarksForm) Validate() error {
	f.StudentID = strings.TrimSpace(f.StudentID)
	f.SubjectID = strings.TrimSpace(f.SubjectID)
	f.Marks = strings.TrimSpace(f.Marks)

	if err := validation.Struct(f); err != nil {
		return err
	}

	var err error
	if f.payload.StudentID, err = atoi("student_id", f.StudentID); err != nil {
		return err
	}
	if f.payload.SubjectID, err = atoi("subject_id", f.SubjectID); err != nil {
		return err
	}
	if f.payload.Marks, err = atoi("marks", f.Marks); err != nil {
		return err
	}
	return f.payload.Validate()
}

// Payload returns the parsed values of a validated form.
func (f *EnterMarksForm) Payload() UpsertResultPayload {
	return f.payload
}
