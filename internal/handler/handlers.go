package handler

import (
	"github.com/deppfellow/student-results/internal/server"
	"github.com/deppfellow/student-results/internal/service"
)

// Handlers groups every HTTP handler so the router receives one value.
type Handlers struct {
	Health  *HealthHandler
	Page    *PageHandler
	Student *StudentHandler
	Subject *SubjectHandler
	Result  *ResultHandler
}

func NewHandlers(s *server.Server, services *service.Services) *Handlers {
	return &Handlers{
		Health:  NewHealthHandler(s),
		Page:    NewPageHandler(s),
		Student: NewStudentHandler(s, services.Students),
		Subject: NewSubjectHandler(s, services.Subjects),
		Result:  NewResultHandler(s, services.Results, services.Students, services.Subjects),
	}
}
