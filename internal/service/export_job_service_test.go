package service

import (
	"context"
	"database/sql"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/minutepro/iep-minutes-api/internal/dto"
	"github.com/minutepro/iep-minutes-api/internal/models"
	"github.com/minutepro/iep-minutes-api/internal/repository"
	appErrors "github.com/minutepro/iep-minutes-api/pkg/errors"
	"github.com/minutepro/iep-minutes-api/pkg/jobs"
	"github.com/minutepro/iep-minutes-api/pkg/storage"
)

type jobStoreStub struct {
	jobs map[string]*models.ReportJob
	seq  int
}

func newJobStoreStub() *jobStoreStub {
	return &jobStoreStub{jobs: map[string]*models.ReportJob{}}
}

func (s *jobStoreStub) Create(ctx context.Context, job *models.ReportJob) error {
	s.seq++
	if job.ID == "" {
		job.ID = fmt.Sprintf("job-%d", s.seq)
	}
	job.CreatedAt = time.Now().UTC()
	s.jobs[job.ID] = job
	return nil
}

func (s *jobStoreStub) GetByID(ctx context.Context, id string) (*models.ReportJob, error) {
	job, ok := s.jobs[id]
	if !ok {
		return nil, sql.ErrNoRows
	}
	clone := *job
	return &clone, nil
}

func (s *jobStoreStub) ListQueued(ctx context.Context, limit int) ([]models.ReportJob, error) {
	var queued []models.ReportJob
	for _, job := range s.jobs {
		if job.Status == models.ReportStatusQueued {
			queued = append(queued, *job)
		}
	}
	return queued, nil
}

func (s *jobStoreStub) Update(ctx context.Context, id string, params repository.UpdateReportJobParams) error {
	job, ok := s.jobs[id]
	if !ok {
		return sql.ErrNoRows
	}
	if params.Status != nil {
		job.Status = *params.Status
	}
	if params.FilePath != nil {
		job.FilePath = params.FilePath
	}
	if params.ErrorMessage != nil {
		job.ErrorMessage = params.ErrorMessage
	}
	if params.FinishedAt != nil {
		job.FinishedAt = params.FinishedAt
	}
	return nil
}

type dispatcherStub struct {
	enqueued []jobs.Job
	fail     bool
}

func (s *dispatcherStub) Enqueue(job jobs.Job) error {
	if s.fail {
		return assert.AnError
	}
	s.enqueued = append(s.enqueued, job)
	return nil
}

func newExportStackForTest(t *testing.T) (*ExportJobService, *ExportWorker, *jobStoreStub, *dispatcherStub) {
	t.Helper()

	goal := 60
	reports := newReportServiceForTest(
		[]models.SessionLog{
			{StudentID: 1, Subject: models.SubjectMath, StaffName: "Ms. Rivera", Minutes: 60, Date: day(2024, time.January, 9)},
		},
		[]models.Student{{ID: 1, Name: "Alex Kim", GoalMath: &goal}},
	)

	store, err := storage.NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	signer := storage.NewSignedURLSigner("secret", time.Hour)
	exporter := NewExportService(reports, store, signer, ExportConfig{ResultTTL: time.Hour}, zap.NewNop(), nil, nil)

	jobStore := newJobStoreStub()
	dispatcher := &dispatcherStub{}
	svc := NewExportJobService(jobStore, dispatcher, exporter, zap.NewNop(), ExportJobServiceConfig{})
	worker := NewExportWorker(jobStore, exporter, nil, 3, zap.NewNop())
	return svc, worker, jobStore, dispatcher
}

func TestExportJobLifecycle(t *testing.T) {
	svc, worker, jobStore, dispatcher := newExportStackForTest(t)
	ctx := context.Background()

	resp, err := svc.CreateJob(ctx, dto.ExportRequest{
		Type:   models.ReportTypeSummary,
		Format: models.ReportFormatCSV,
		Start:  "2024-01-08",
		End:    "2024-01-14",
	})
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusQueued, resp.Status)
	require.Len(t, dispatcher.enqueued, 1)

	require.NoError(t, worker.Handle(ctx, dispatcher.enqueued[0]))

	status, err := svc.GetStatus(ctx, resp.ID)
	require.NoError(t, err)
	assert.Equal(t, models.ReportStatusFinished, status.Status)
	require.NotNil(t, status.DownloadURL)

	job := jobStore.jobs[resp.ID]
	require.NotNil(t, job.FilePath)

	token, _, err := svc.exporter.SignDownload(resp.ID, *job.FilePath)
	require.NoError(t, err)
	download, err := svc.ResolveDownload(ctx, resp.ID, token)
	require.NoError(t, err)
	defer download.File.Close()
	assert.Equal(t, models.ReportFormatCSV, download.Format)
}

func TestExportJobPDFGeneration(t *testing.T) {
	svc, worker, jobStore, dispatcher := newExportStackForTest(t)
	ctx := context.Background()

	resp, err := svc.CreateJob(ctx, dto.ExportRequest{
		Type:   models.ReportTypeGoalSeries,
		Format: models.ReportFormatPDF,
		Month:  "2024-01",
	})
	require.NoError(t, err)
	require.NoError(t, worker.Handle(ctx, dispatcher.enqueued[0]))

	job := jobStore.jobs[resp.ID]
	assert.Equal(t, models.ReportStatusFinished, job.Status)
	require.NotNil(t, job.FilePath)
	assert.Contains(t, *job.FilePath, ".pdf")
}

func TestExportJobValidation(t *testing.T) {
	svc, _, _, _ := newExportStackForTest(t)
	ctx := context.Background()

	_, err := svc.CreateJob(ctx, dto.ExportRequest{Type: "unknown", Format: models.ReportFormatCSV})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)

	_, err = svc.CreateJob(ctx, dto.ExportRequest{Type: models.ReportTypeSummary, Format: "xlsx"})
	require.Error(t, err)

	_, err = svc.CreateJob(ctx, dto.ExportRequest{
		Type: models.ReportTypeSummary, Format: models.ReportFormatCSV, Start: "2024-01-08",
	})
	require.Error(t, err)

	_, err = svc.CreateJob(ctx, dto.ExportRequest{
		Type: models.ReportTypeGoalSeries, Format: models.ReportFormatCSV, Month: "Jan-2024",
	})
	require.Error(t, err)
}

func TestExportJobStatusUnknownID(t *testing.T) {
	svc, _, _, _ := newExportStackForTest(t)

	_, err := svc.GetStatus(context.Background(), "missing")
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrNotFound.Code, appErrors.FromError(err).Code)
}

func TestExportJobDownloadTokenMismatch(t *testing.T) {
	svc, worker, jobStore, dispatcher := newExportStackForTest(t)
	ctx := context.Background()

	resp, err := svc.CreateJob(ctx, dto.ExportRequest{
		Type:   models.ReportTypeSummary,
		Format: models.ReportFormatCSV,
	})
	require.NoError(t, err)
	require.NoError(t, worker.Handle(ctx, dispatcher.enqueued[0]))

	job := jobStore.jobs[resp.ID]
	token, _, err := svc.exporter.SignDownload("other-job", *job.FilePath)
	require.NoError(t, err)

	_, err = svc.ResolveDownload(ctx, resp.ID, token)
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrForbidden.Code, appErrors.FromError(err).Code)
}
