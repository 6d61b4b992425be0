package service

import (
	"github.com/deppfellow/student-results/internal/repository"
	"github.com/deppfellow/student-results/internal/server"
)

// Services groups the business layer so the router receives one value.
type Services struct {
	Students *StudentService
	Subjects *SubjectService
	Results  *ResultService
}

func NewServices(s *server.Server, repos *repository.Repositories) *Services {
	return &Services{
		Students: NewStudentService(s, repos.Students),
		Subjects: NewSubjectService(s, repos.Subjects),
		Results:  NewResultService(s, repos.Results, repos.Students),
	}
}
