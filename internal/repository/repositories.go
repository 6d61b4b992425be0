package repository

import (
	"github.com/deppfellow/student-results/internal/server"
)

// Repositories is a container for all repository instances.
type Repositories struct {
	Students *StudentRepository
	Subjects *SubjectRepository
	Results  *ResultRepository
}

// NewRepositories constructs the repository container on top of s.DB.
func NewRepositories(s *server.Server) *Repositories {
	return &Repositories{
		Students: NewStudentRepository(s),
		Subjects: NewSubjectRepository(s),
		Results:  NewResultRepository(s),
	}
}
