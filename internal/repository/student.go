package repository

import (
	"context"

	"github.com/jackc/pgx/v5"

	"github.com/deppfellow/student-results/internal/database"
	"github.com/deppfellow/student-results/internal/model"
	"github.com/deppfellow/student-results/internal/server"
)

type StudentRepository struct {
	server *server.Server
}

func NewStudentRepository(s *server.Server) *StudentRepository {
	return &StudentRepository{server: s}
}

func scanStudent(row pgx.CollectableRow) (model.Student, error) {
	var s model.Student
	err := row.Scan(&s.ID, &s.RollNo, &s.Name, &s.Class)
	return s, err
}

// Create inserts a student. A duplicate roll_no fails with a 409 and
// leaves the existing row untouched.
func (r *StudentRepository) Create(ctx context.Context, payload *model.CreateStudentPayload) (*model.Student, error) {
	stmt := `
		INSERT INTO student (roll_no, name, class)
		VALUES ($1, $2, $3)
		RETURNING student_id, roll_no, name, class
	`

	var student model.Student
	err := r.server.DB.WithTx(ctx, "create student", func(tx pgx.Tx) error {
		return tx.QueryRow(ctx, stmt, payload.RollNo, payload.Name, payload.Class).
			Scan(&student.ID, &student.RollNo, &student.Name, &student.Class)
	})
	if err != nil {
		return nil, err
	}

	return &student, nil
}

// List returns every student ordered by student_id.
func (r *StudentRepository) List(ctx context.Context) ([]model.Student, error) {
	stmt := `
		SELECT student_id, roll_no, name, class
		FROM student
		ORDER BY student_id
	`

	return database.Select(ctx, r.server.DB, "list students", stmt, scanStudent)
}

// GetByID returns the student or a 404 "Student not found.".
func (r *StudentRepository) GetByID(ctx context.Context, studentID int) (*model.Student, error) {
	stmt := `
		SELECT student_id, roll_no, name, class
		FROM student
		WHERE student_id = $1
	`

	return database.Get(ctx, r.server.DB, "student", stmt, scanStudent, studentID)
}
