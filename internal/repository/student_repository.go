package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/minutepro/iep-minutes-api/internal/models"
)

// StudentRepository manages persistence for student records.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs a StudentRepository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentColumns = `id, name, grade, active_subject, goal_math, goal_english, goal_task_completion, created_at, updated_at`

// List returns students matching the provided filters, ordered by id.
func (r *StudentRepository) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students`, studentColumns)
	conditions := []string{}
	args := []interface{}{}

	if filter.Grade != "" {
		conditions = append(conditions, fmt.Sprintf("grade = $%d", len(args)+1))
		args = append(args, filter.Grade)
	}
	if filter.Search != "" {
		conditions = append(conditions, fmt.Sprintf("LOWER(name) LIKE $%d", len(args)+1))
		args = append(args, "%"+strings.ToLower(filter.Search)+"%")
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY id"

	var students []models.Student
	if err := r.db.SelectContext(ctx, &students, query, args...); err != nil {
		return nil, fmt.Errorf("list students: %w", err)
	}
	return students, nil
}

// FindByID fetches a student by id.
func (r *StudentRepository) FindByID(ctx context.Context, id int64) (*models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE id = $1`, studentColumns)
	var student models.Student
	if err := r.db.GetContext(ctx, &student, query, id); err != nil {
		return nil, err
	}
	return &student, nil
}

// Create inserts a new student and assigns the next serial id.
func (r *StudentRepository) Create(ctx context.Context, student *models.Student) error {
	now := time.Now().UTC()
	student.CreatedAt = now
	student.UpdatedAt = now
	const query = `INSERT INTO students (name, grade, active_subject, goal_math, goal_english, goal_task_completion, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8) RETURNING id`
	if err := r.db.GetContext(ctx, &student.ID, query,
		student.Name, student.Grade, student.ActiveSubject,
		student.GoalMath, student.GoalEnglish, student.GoalTaskCompletion,
		student.CreatedAt, student.UpdatedAt); err != nil {
		return fmt.Errorf("create student: %w", err)
	}
	return nil
}

// Update rewrites a student's mutable fields.
func (r *StudentRepository) Update(ctx context.Context, student *models.Student) error {
	student.UpdatedAt = time.Now().UTC()
	const query = `UPDATE students SET name = :name, grade = :grade, active_subject = :active_subject,
        goal_math = :goal_math, goal_english = :goal_english, goal_task_completion = :goal_task_completion,
        updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, student); err != nil {
		return fmt.Errorf("update student: %w", err)
	}
	return nil
}

// Delete removes the student row. Session logs referencing the student are
// left in place (orphaned) by design.
func (r *StudentRepository) Delete(ctx context.Context, id int64) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete student: %w", err)
	}
	return nil
}
