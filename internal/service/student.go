package service

import (
	"context"

	"github.com/deppfellow/student-results/internal/model"
	"github.com/deppfellow/student-results/internal/repository"
	"github.com/deppfellow/student-results/internal/server"
)

type StudentService struct {
	server *server.Server
	repo   *repository.StudentRepository
}

func NewStudentService(s *server.Server, repo *repository.StudentRepository) *StudentService {
	return &StudentService{server: s, repo: repo}
}

func (s *StudentService) Create(ctx context.Context, payload *model.CreateStudentPayload) (*model.Student, error) {
	student, err := s.repo.Create(ctx, payload)
	if err != nil {
		return nil, err
	}

	s.server.Logger.Info().
		Int("student_id", student.ID).
		Str("roll_no", student.RollNo).
		Msg("student created")

	return student, nil
}

func (s *StudentService) List(ctx context.Context) ([]model.Student, error) {
	return s.repo.List(ctx)
}

func (s *StudentService) Get(ctx context.Context, studentID int) (*model.Student, error) {
	return s.repo.GetByID(ctx, studentID)
}
