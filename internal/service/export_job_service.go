package service

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/minutepro/iep-minutes-api/internal/dto"
	"github.com/minutepro/iep-minutes-api/internal/models"
	"github.com/minutepro/iep-minutes-api/internal/repository"
	appErrors "github.com/minutepro/iep-minutes-api/pkg/errors"
	"github.com/minutepro/iep-minutes-api/pkg/jobs"
)

type reportJobStore interface {
	Create(ctx context.Context, job *models.ReportJob) error
	GetByID(ctx context.Context, id string) (*models.ReportJob, error)
	ListQueued(ctx context.Context, limit int) ([]models.ReportJob, error)
	Update(ctx context.Context, id string, params repository.UpdateReportJobParams) error
}

type jobDispatcher interface {
	Enqueue(job jobs.Job) error
}

type exportGenerator interface {
	Generate(ctx context.Context, job *models.ReportJob) (*ExportResult, error)
}

// ExportJobServiceConfig governs queue recovery and cleanup.
type ExportJobServiceConfig struct {
	ResultTTL       time.Duration
	CleanupInterval time.Duration
}

// ExportDownload aggregates resolved download data.
type ExportDownload struct {
	File      *os.File
	Filename  string
	Format    models.ReportFormat
	ExpiresAt time.Time
}

// ExportJobService manages the asynchronous export job lifecycle.
type ExportJobService struct {
	repo     reportJobStore
	queue    jobDispatcher
	exporter *ExportService
	logger   *zap.Logger
	cfg      ExportJobServiceConfig
}

// NewExportJobService constructs the job lifecycle service.
func NewExportJobService(repo reportJobStore, queue jobDispatcher, exporter *ExportService, logger *zap.Logger, cfg ExportJobServiceConfig) *ExportJobService {
	if logger == nil {
		logger = zap.NewNop()
	}
	if cfg.ResultTTL <= 0 {
		cfg.ResultTTL = 24 * time.Hour
	}
	return &ExportJobService{
		repo:     repo,
		queue:    queue,
		exporter: exporter,
		logger:   logger,
		cfg:      cfg,
	}
}

// CreateJob validates the request, persists the job and enqueues it.
func (s *ExportJobService) CreateJob(ctx context.Context, req dto.ExportRequest) (*dto.ExportJobResponse, error) {
	if !req.Type.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported report type")
	}
	if !req.Format.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported report format")
	}
	if err := validateExportParams(req); err != nil {
		return nil, err
	}

	job := &models.ReportJob{
		Type:   req.Type,
		Params: models.ReportJobParams{Format: req.Format, Start: req.Start, End: req.End, Month: req.Month},
		Status: models.ReportStatusQueued,
	}
	if err := s.repo.Create(ctx, job); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create export job")
	}
	if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: string(job.Type)}); err != nil {
		status := models.ReportStatusFailed
		msg := "failed to enqueue job"
		now := time.Now().UTC()
		_ = s.repo.Update(ctx, job.ID, repository.UpdateReportJobParams{
			Status:       &status,
			ErrorMessage: &msg,
			FinishedAt:   &now,
		})
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to enqueue export job")
	}
	return &dto.ExportJobResponse{ID: job.ID, Status: job.Status}, nil
}

// GetStatus exposes job metadata; finished jobs carry a signed download
// URL.
func (s *ExportJobService) GetStatus(ctx context.Context, id string) (*dto.ExportStatusResponse, error) {
	job, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load export job")
	}

	resp := &dto.ExportStatusResponse{
		ID:     job.ID,
		Type:   job.Type,
		Status: job.Status,
	}
	if job.Status == models.ReportStatusFinished && job.FilePath != nil {
		token, _, err := s.exporter.SignDownload(job.ID, *job.FilePath)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to sign download")
		}
		url := fmt.Sprintf("/reports/export/%s/download?token=%s", job.ID, token)
		resp.DownloadURL = &url
	}
	if job.ErrorMessage != nil && *job.ErrorMessage != "" {
		resp.Error = job.ErrorMessage
	}
	return resp, nil
}

// ResolveDownload validates the token and opens the stored export file.
func (s *ExportJobService) ResolveDownload(ctx context.Context, jobID, token string) (*ExportDownload, error) {
	tokenJobID, relPath, expiresAt, err := s.exporter.ParseToken(token, false)
	if err != nil || tokenJobID != jobID {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "invalid or expired download token")
	}
	job, err := s.repo.GetByID(ctx, jobID)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load export job")
	}
	if job.Status != models.ReportStatusFinished || job.FilePath == nil || *job.FilePath != relPath {
		return nil, appErrors.Clone(appErrors.ErrForbidden, "report not ready")
	}
	file, err := s.exporter.Open(relPath)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to open export file")
	}
	return &ExportDownload{
		File:      file,
		Filename:  filepath.Base(relPath),
		Format:    job.Params.Format,
		ExpiresAt: expiresAt,
	}, nil
}

// RecoverPendingJobs replays queued jobs after a process restart.
func (s *ExportJobService) RecoverPendingJobs(ctx context.Context) {
	pending, err := s.repo.ListQueued(ctx, 50)
	if err != nil {
		s.logger.Warn("failed to recover queued export jobs", zap.Error(err))
		return
	}
	for _, job := range pending {
		if err := s.queue.Enqueue(jobs.Job{ID: job.ID, Type: string(job.Type)}); err != nil {
			s.logger.Warn("failed to requeue pending job", zap.String("job_id", job.ID), zap.Error(err))
		}
	}
}

// StartCleanup boots a goroutine that purges expired export files.
func (s *ExportJobService) StartCleanup(ctx context.Context) {
	if s.cfg.CleanupInterval <= 0 {
		return
	}
	ticker := time.NewTicker(s.cfg.CleanupInterval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				if removed, err := s.exporter.Cleanup(s.cfg.ResultTTL); err != nil {
					s.logger.Warn("export cleanup failed", zap.Error(err))
				} else if len(removed) > 0 {
					s.logger.Info("expired exports removed", zap.Int("count", len(removed)))
				}
			}
		}
	}()
}

func validateExportParams(req dto.ExportRequest) error {
	switch req.Type {
	case models.ReportTypeSummary:
		if (req.Start == "") != (req.End == "") {
			return appErrors.Clone(appErrors.ErrValidation, "start and end must be provided together")
		}
		for _, raw := range []string{req.Start, req.End} {
			if raw == "" {
				continue
			}
			if _, err := time.Parse(models.DateLayout, raw); err != nil {
				return appErrors.Clone(appErrors.ErrValidation, "dates must be formatted YYYY-MM-DD")
			}
		}
	case models.ReportTypeGoalSeries:
		if req.Month != "" {
			if _, err := time.Parse("2006-01", req.Month); err != nil {
				return appErrors.Clone(appErrors.ErrValidation, "month must be formatted YYYY-MM")
			}
		}
	}
	return nil
}

// ExportWorker bridges queue jobs to the ExportService.
type ExportWorker struct {
	repo       reportJobStore
	exporter   exportGenerator
	metrics    *MetricsService
	logger     *zap.Logger
	maxRetries int
}

// NewExportWorker constructs a worker.
func NewExportWorker(repo reportJobStore, exporter exportGenerator, metrics *MetricsService, maxRetries int, logger *zap.Logger) *ExportWorker {
	if logger == nil {
		logger = zap.NewNop()
	}
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &ExportWorker{
		repo:       repo,
		exporter:   exporter,
		metrics:    metrics,
		logger:     logger,
		maxRetries: maxRetries,
	}
}

// Handle processes a queue job.
func (w *ExportWorker) Handle(ctx context.Context, job jobs.Job) error {
	record, err := w.repo.GetByID(ctx, job.ID)
	if err != nil {
		return err
	}
	processing := models.ReportStatusProcessing
	if err := w.repo.Update(ctx, job.ID, repository.UpdateReportJobParams{Status: &processing}); err != nil {
		return err
	}

	result, err := w.exporter.Generate(ctx, record)
	if err != nil {
		msg := err.Error()
		if job.Attempt >= w.maxRetries {
			failed := models.ReportStatusFailed
			now := time.Now().UTC()
			if updateErr := w.repo.Update(ctx, job.ID, repository.UpdateReportJobParams{
				Status:       &failed,
				ErrorMessage: &msg,
				FinishedAt:   &now,
			}); updateErr != nil {
				w.logger.Warn("failed to mark job failed", zap.String("job_id", job.ID), zap.Error(updateErr))
			}
			w.metrics.RecordExport(string(record.Type), string(record.Params.Format), "failed")
		} else {
			queued := models.ReportStatusQueued
			if updateErr := w.repo.Update(ctx, job.ID, repository.UpdateReportJobParams{
				Status:       &queued,
				ErrorMessage: &msg,
			}); updateErr != nil {
				w.logger.Warn("failed to mark job queued", zap.String("job_id", job.ID), zap.Error(updateErr))
			}
		}
		return err
	}

	finished := models.ReportStatusFinished
	now := time.Now().UTC()
	clear := ""
	if err := w.repo.Update(ctx, job.ID, repository.UpdateReportJobParams{
		Status:       &finished,
		FilePath:     &result.RelativePath,
		ErrorMessage: &clear,
		FinishedAt:   &now,
	}); err != nil {
		w.logger.Warn("failed to mark job finished", zap.String("job_id", job.ID), zap.Error(err))
		return err
	}
	w.metrics.RecordExport(string(record.Type), string(record.Params.Format), "finished")
	return nil
}
