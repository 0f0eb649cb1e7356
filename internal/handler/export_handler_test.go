package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minutepro/iep-minutes-api/internal/dto"
	"github.com/minutepro/iep-minutes-api/internal/models"
	"github.com/minutepro/iep-minutes-api/internal/service"
	appErrors "github.com/minutepro/iep-minutes-api/pkg/errors"
)

type fakeExportSrv struct {
	job       *dto.ExportJobResponse
	status    *dto.ExportStatusResponse
	download  *service.ExportDownload
	err       error
	lastReq   dto.ExportRequest
	lastJobID string
	lastToken string
}

func (f *fakeExportSrv) CreateJob(_ context.Context, req dto.ExportRequest) (*dto.ExportJobResponse, error) {
	f.lastReq = req
	return f.job, f.err
}

func (f *fakeExportSrv) GetStatus(_ context.Context, id string) (*dto.ExportStatusResponse, error) {
	f.lastJobID = id
	return f.status, f.err
}

func (f *fakeExportSrv) ResolveDownload(_ context.Context, jobID, token string) (*service.ExportDownload, error) {
	f.lastJobID = jobID
	f.lastToken = token
	return f.download, f.err
}

func TestExportHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := &fakeExportSrv{
		job: &dto.ExportJobResponse{ID: "job-1", Status: models.ReportStatusQueued},
	}
	handler := NewExportHandler(srv)

	body := `{"type":"summary","format":"csv","start":"2024-01-08","end":"2024-01-14"}`
	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/reports/export", strings.NewReader(body))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Create(c)

	assert.Equal(t, http.StatusAccepted, rec.Code)
	assert.Equal(t, models.ReportTypeSummary, srv.lastReq.Type)

	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, "job-1", envelope.Data["id"])
	assert.Equal(t, string(models.ReportStatusQueued), envelope.Data["status"])
}

func TestExportHandlerCreateMissingFormat(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewExportHandler(&fakeExportSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/reports/export", strings.NewReader(`{"type":"summary"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Create(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportHandlerStatus(t *testing.T) {
	gin.SetMode(gin.TestMode)
	url := "/reports/export/job-1/download?token=abc"
	srv := &fakeExportSrv{
		status: &dto.ExportStatusResponse{
			ID:          "job-1",
			Type:        models.ReportTypeSummary,
			Status:      models.ReportStatusFinished,
			DownloadURL: &url,
		},
	}
	handler := NewExportHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/reports/export/job-1", nil)
	c.Params = gin.Params{{Key: "id", Value: "job-1"}}

	handler.Status(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "job-1", srv.lastJobID)

	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, string(models.ReportStatusFinished), envelope.Data["status"])
	assert.Equal(t, url, envelope.Data["downloadUrl"])
}

func TestExportHandlerStatusNotFound(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewExportHandler(&fakeExportSrv{err: appErrors.ErrNotFound})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/reports/export/missing", nil)
	c.Params = gin.Params{{Key: "id", Value: "missing"}}

	handler.Status(c)

	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestExportHandlerDownload(t *testing.T) {
	gin.SetMode(gin.TestMode)

	dir := t.TempDir()
	path := filepath.Join(dir, "summary.csv")
	require.NoError(t, os.WriteFile(path, []byte("Staff,Minutes\nMs. Rivera,30\n"), 0o644))
	file, err := os.Open(path)
	require.NoError(t, err)

	srv := &fakeExportSrv{
		download: &service.ExportDownload{
			File:      file,
			Filename:  "summary.csv",
			Format:    models.ReportFormatCSV,
			ExpiresAt: time.Now().Add(time.Hour),
		},
	}
	handler := NewExportHandler(srv)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/reports/export/job-1/download?token=signed", nil)
	c.Params = gin.Params{{Key: "id", Value: "job-1"}}

	handler.Download(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "job-1", srv.lastJobID)
	assert.Equal(t, "signed", srv.lastToken)
	assert.Equal(t, "text/csv", rec.Header().Get("Content-Type"))
	assert.Contains(t, rec.Header().Get("Content-Disposition"), "summary.csv")
	assert.Contains(t, rec.Body.String(), "Ms. Rivera")
}

func TestExportHandlerDownloadMissingToken(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewExportHandler(&fakeExportSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/reports/export/job-1/download", nil)
	c.Params = gin.Params{{Key: "id", Value: "job-1"}}

	handler.Download(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestExportHandlerDownloadForbidden(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewExportHandler(&fakeExportSrv{err: appErrors.ErrForbidden})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/reports/export/job-1/download?token=bad", nil)
	c.Params = gin.Params{{Key: "id", Value: "job-1"}}

	handler.Download(c)

	assert.Equal(t, http.StatusForbidden, rec.Code)
}
