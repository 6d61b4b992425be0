package service

import (
	"context"

	"github.com/deppfellow/student-results/internal/grading"
	"github.com/deppfellow/student-results/internal/model"
	"github.com/deppfellow/student-results/internal/repository"
	"github.com/deppfellow/student-results/internal/server"
)

type ResultService struct {
	server   *server.Server
	results  *repository.ResultRepository
	students *repository.StudentRepository
}

func NewResultService(s *server.Server, results *repository.ResultRepository, students *repository.StudentRepository) *ResultService {
	return &ResultService{server: s, results: results, students: students}
}

// Upsert records marks, replacing any earlier marks for the same pair.
// Marks above the subject maximum are accepted as entered.
func (s *ResultService) Upsert(ctx context.Context, payload *model.UpsertResultPayload) (*model.Result, error) {
	result, err := s.results.Upsert(ctx, payload)
	if err != nil {
		return nil, err
	}

	s.server.Logger.Info().
		Int("student_id", result.StudentID).
		Int("subject_id", result.SubjectID).
		Int("marks", result.Marks).
		Msg("marks recorded")

	return result, nil
}

// ReportCard loads a student and their results and grades them.
//
// An unknown student is a 404 and no card. A student with no results
// gets zero totals and the scale's fallback grade. When the student is
// found but their results cannot be read, the card comes back empty
// alongside the error so a page can still show the student.
func (s *ResultService) ReportCard(ctx context.Context, studentID int) (*model.ReportCard, error) {
	student, err := s.students.GetByID(ctx, studentID)
	if err != nil {
		return nil, err
	}

	lines, err := s.results.ListForStudent(ctx, studentID)
	if err != nil {
		return s.grade(student, []model.ResultLine{}), err
	}

	return s.grade(student, lines), nil
}

func (s *ResultService) grade(student *model.Student, lines []model.ResultLine) *model.ReportCard {
	pairs := make([]grading.Pair, 0, len(lines))
	for _, l := range lines {
		pairs = append(pairs, l.Pair())
	}
	summary := s.server.Scale.Aggregate(pairs)

	return &model.ReportCard{
		Student:    *student,
		Lines:      lines,
		Summary:    summary,
		Percentage: grading.Percentage(summary.TotalMarks, summary.TotalMax),
	}
}
