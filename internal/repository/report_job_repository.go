package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/minutepro/iep-minutes-api/internal/models"
)

// ReportJobRepository persists asynchronous export job metadata.
type ReportJobRepository struct {
	db *sqlx.DB
}

// NewReportJobRepository constructs a ReportJobRepository.
func NewReportJobRepository(db *sqlx.DB) *ReportJobRepository {
	return &ReportJobRepository{db: db}
}

// UpdateReportJobParams carries partial job updates.
type UpdateReportJobParams struct {
	Status       *models.ReportStatus
	FilePath     *string
	ErrorMessage *string
	FinishedAt   *time.Time
}

// Create inserts a new job row.
func (r *ReportJobRepository) Create(ctx context.Context, job *models.ReportJob) error {
	if job.ID == "" {
		job.ID = uuid.NewString()
	}
	if job.CreatedAt.IsZero() {
		job.CreatedAt = time.Now().UTC()
	}
	const query = `INSERT INTO report_jobs (id, type, params, status, created_at)
        VALUES (:id, :type, :params, :status, :created_at)`
	if _, err := r.db.NamedExecContext(ctx, query, job); err != nil {
		return fmt.Errorf("create report job: %w", err)
	}
	return nil
}

// GetByID fetches one job.
func (r *ReportJobRepository) GetByID(ctx context.Context, id string) (*models.ReportJob, error) {
	const query = `SELECT id, type, params, status, file_path, created_at, finished_at, error_message
        FROM report_jobs WHERE id = $1`
	var job models.ReportJob
	if err := r.db.GetContext(ctx, &job, query, id); err != nil {
		return nil, err
	}
	return &job, nil
}

// ListQueued returns jobs still waiting for a worker, oldest first. Used
// to replay the queue after a process restart.
func (r *ReportJobRepository) ListQueued(ctx context.Context, limit int) ([]models.ReportJob, error) {
	const query = `SELECT id, type, params, status, file_path, created_at, finished_at, error_message
        FROM report_jobs WHERE status = $1 ORDER BY created_at LIMIT $2`
	var jobs []models.ReportJob
	if err := r.db.SelectContext(ctx, &jobs, query, models.ReportStatusQueued, limit); err != nil {
		return nil, fmt.Errorf("list queued report jobs: %w", err)
	}
	return jobs, nil
}

// Update applies the provided partial changes.
func (r *ReportJobRepository) Update(ctx context.Context, id string, params UpdateReportJobParams) error {
	sets := []string{}
	args := []interface{}{}

	if params.Status != nil {
		sets = append(sets, fmt.Sprintf("status = $%d", len(args)+1))
		args = append(args, *params.Status)
	}
	if params.FilePath != nil {
		sets = append(sets, fmt.Sprintf("file_path = $%d", len(args)+1))
		args = append(args, *params.FilePath)
	}
	if params.ErrorMessage != nil {
		sets = append(sets, fmt.Sprintf("error_message = $%d", len(args)+1))
		args = append(args, *params.ErrorMessage)
	}
	if params.FinishedAt != nil {
		sets = append(sets, fmt.Sprintf("finished_at = $%d", len(args)+1))
		args = append(args, *params.FinishedAt)
	}
	if len(sets) == 0 {
		return nil
	}

	query := fmt.Sprintf("UPDATE report_jobs SET %s WHERE id = $%d", strings.Join(sets, ", "), len(args)+1)
	args = append(args, id)
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("update report job: %w", err)
	}
	return nil
}
