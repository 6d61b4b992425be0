package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/deppfellow/student-results/internal/database"
	"github.com/deppfellow/student-results/internal/model"
	"github.com/deppfellow/student-results/internal/server"
)

type ResultRepository struct {
	server *server.Server
}

func NewResultRepository(s *server.Server) *ResultRepository {
	return &ResultRepository{server: s}
}

// Upsert records marks for a (student, subject) pair.
//
// It is one INSERT ... ON CONFLICT statement, so two concurrent
// submissions for the same pair cannot create a second row; the later
// one overwrites marks. Unknown student or subject ids fail with a 409.
func (r *ResultRepository) Upsert(ctx context.Context, payload *model.UpsertResultPayload) (*model.Result, error) {
	stmt := `
		INSERT INTO result (student_id, subject_id, marks)
		VALUES ($1, $2, $3)
		ON CONFLICT (student_id, subject_id) DO UPDATE SET marks = EXCLUDED.marks
		RETURNING result_id, student_id, subject_id, marks
	`

	var result model.Result
	err := r.server.DB.WithTx(ctx, "upsert result", func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, stmt, payload.StudentID, payload.SubjectID, payload.Marks).
			Scan(&result.ID, &result.StudentID, &result.SubjectID, &result.Marks)
	})
	if err != nil {
		return nil, err
	}

	return &result, nil
}

// ListForStudent returns the student's results joined with their
// subjects, ordered by subject_id.
func (r *ResultRepository) ListForStudent(ctx context.Context, studentID int) ([]model.ResultLine, error) {
	stmt := `
		SELECT r.result_id, s.subject_id, s.name, r.marks, s.max_marks
		FROM result r
		JOIN subject s ON r.subject_id = s.subject_id
		WHERE r.student_id = $1
		ORDER BY s.subject_id
	`

	return database.Select(ctx, r.server.DB, "list results for student", stmt,
		func(row pgx.CollectableRow) (model.ResultLine, error) {
			var l model.ResultLine
			err := row.Scan(&l.ResultID, &l.SubjectID, &l.SubjectName, &l.Marks, &l.MaxMarks)
			return l, err
		},
		studentID,
	)
}
