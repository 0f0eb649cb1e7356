package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/minutepro/iep-minutes-api/internal/models"
)

// SessionLogRepository manages the append-only session log collection.
type SessionLogRepository struct {
	db *sqlx.DB
}

// NewSessionLogRepository constructs a SessionLogRepository.
func NewSessionLogRepository(db *sqlx.DB) *SessionLogRepository {
	return &SessionLogRepository{db: db}
}

const sessionLogColumns = `id, student_id, subject, staff_name, minutes, date, note, created_at`

// ListAll returns the full log collection ordered by id. Aggregations work
// on this snapshot in memory; every request re-reads it.
func (r *SessionLogRepository) ListAll(ctx context.Context) ([]models.SessionLog, error) {
	query := fmt.Sprintf(`SELECT %s FROM session_logs ORDER BY id`, sessionLogColumns)
	var logs []models.SessionLog
	if err := r.db.SelectContext(ctx, &logs, query); err != nil {
		return nil, fmt.Errorf("list session logs: %w", err)
	}
	return logs, nil
}

// List returns logs matching the filter, most recent first.
func (r *SessionLogRepository) List(ctx context.Context, filter models.SessionLogFilter) ([]models.SessionLog, error) {
	query := fmt.Sprintf(`SELECT %s FROM session_logs`, sessionLogColumns)
	conditions := []string{}
	args := []interface{}{}

	if filter.StudentID > 0 {
		conditions = append(conditions, fmt.Sprintf("student_id = $%d", len(args)+1))
		args = append(args, filter.StudentID)
	}
	if filter.Subject != "" {
		conditions = append(conditions, fmt.Sprintf("subject = $%d", len(args)+1))
		args = append(args, filter.Subject)
	}
	if filter.StaffName != "" {
		conditions = append(conditions, fmt.Sprintf("staff_name = $%d", len(args)+1))
		args = append(args, filter.StaffName)
	}
	if !filter.Start.IsZero() {
		conditions = append(conditions, fmt.Sprintf("date >= $%d", len(args)+1))
		args = append(args, models.DateOnly(filter.Start))
	}
	if !filter.End.IsZero() {
		conditions = append(conditions, fmt.Sprintf("date <= $%d", len(args)+1))
		args = append(args, models.DateOnly(filter.End))
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY date DESC, id DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	var logs []models.SessionLog
	if err := r.db.SelectContext(ctx, &logs, query, args...); err != nil {
		return nil, fmt.Errorf("list session logs: %w", err)
	}
	return logs, nil
}

// Create appends a single log row and assigns the next serial id.
func (r *SessionLogRepository) Create(ctx context.Context, log *models.SessionLog) error {
	log.CreatedAt = time.Now().UTC()
	const query = `INSERT INTO session_logs (student_id, subject, staff_name, minutes, date, note, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	if err := r.db.GetContext(ctx, &log.ID, query,
		log.StudentID, log.Subject, log.StaffName, log.Minutes,
		models.DateOnly(log.Date), log.Note, log.CreatedAt); err != nil {
		return fmt.Errorf("create session log: %w", err)
	}
	return nil
}

// CreateBatch appends several rows in one transaction, used by the bulk
// log-session and import paths.
func (r *SessionLogRepository) CreateBatch(ctx context.Context, logs []*models.SessionLog) error {
	if len(logs) == 0 {
		return nil
	}
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin batch insert: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	const query = `INSERT INTO session_logs (student_id, subject, staff_name, minutes, date, note, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id`
	now := time.Now().UTC()
	for _, log := range logs {
		log.CreatedAt = now
		if err := tx.GetContext(ctx, &log.ID, query,
			log.StudentID, log.Subject, log.StaffName, log.Minutes,
			models.DateOnly(log.Date), log.Note, log.CreatedAt); err != nil {
			return fmt.Errorf("batch insert session log: %w", err)
		}
	}
	return tx.Commit()
}

// CountByStudent reports how many log rows reference the student.
func (r *SessionLogRepository) CountByStudent(ctx context.Context, studentID int64) (int, error) {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(1) FROM session_logs WHERE student_id = $1`, studentID); err != nil {
		return 0, fmt.Errorf("count session logs: %w", err)
	}
	return count, nil
}
