package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/deppfellow/student-results/internal/database"
	"github.com/deppfellow/student-results/internal/model"
	"github.com/deppfellow/student-results/internal/server"
)

type SubjectRepository struct {
	server *server.Server
}

func NewSubjectRepository(s *server.Server) *SubjectRepository {
	return &SubjectRepository{server: s}
}

func scanSubject(row pgx.CollectableRow) (model.Subject, error) {
	var s model.Subject
	err := row.Scan(&s.ID, &s.Name, &s.MaxMarks)
	return s, err
}

func (r *SubjectRepository) Create(ctx context.Context, payload *model.CreateSubjectPayload) (*model.Subject, error) {
	stmt := `
		INSERT INTO subject (name, max_marks)
		VALUES ($1, $2)
		RETURNING subject_id, name, max_marks
	`

	var subject model.Subject
	err := r.server.DB.WithTx(ctx, "create subject", func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, stmt, payload.Name, payload.MaxMarks).
			Scan(&subject.ID, &subject.Name, &subject.MaxMarks)
	})
	if err != nil {
		return nil, err
	}

	return &subject, nil
}

func (r *SubjectRepository) List(ctx context.Context) ([]model.Subject, error) {
	stmt := `
		SELECT subject_id, name, max_marks
		FROM subject
		ORDER BY subject_id
	`

	return database.Select(ctx, r.server.DB, "list subjects", stmt, scanSubject)
}

func (r *SubjectRepository) GetByID(ctx context.Context, subjectID int) (*model.Subject, error) {
	stmt := `
		SELECT subject_id, name, max_marks
		FROM subject
		WHERE subject_id = $1
	`

	return database.Get(ctx, r.server.DB, "subject", stmt, scanSubject, subjectID)
}
