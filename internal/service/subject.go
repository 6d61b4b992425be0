package service

import (
	"context"

	"github.com/deppfellow/student-results/internal/model"
	"github.com/deppfellow/student-results/internal/repository"
	"github.com/deppfellow/student-results/internal/server"
)

type SubjectService struct {
	server *server.Server
	repo   *repository.SubjectRepository
}

func NewSubjectService(s *server.Server, repo *repository.SubjectRepository) *SubjectService {
	return &SubjectService{server: s, repo: repo}
}

// Create inserts a subject. A zero MaxMarks is stored as model.DefaultMaxMarks.
func (s *SubjectService) Create(ctx context.Context, payload *model.CreateSubjectPayload) (*model.Subject, error) {
	if payload.MaxMarks == 0 {
		payload.MaxMarks = model.DefaultMaxMarks
	}

	subject, err := s.repo.Create(ctx, payload)
	if err != nil {
		return nil, err
	}

	s.server.Logger.Info().
		Int("subject_id", subject.ID).
		Int("max_marks", subject.MaxMarks).
		Msg("subject created")

	return subject, nil
}

func (s *SubjectService) List(ctx context.Context) ([]model.Subject, error) {
	return s.repo.List(ctx)
}
