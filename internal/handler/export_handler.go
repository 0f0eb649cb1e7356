package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/minutepro/iep-minutes-api/internal/dto"
	"github.com/minutepro/iep-minutes-api/internal/models"
	"github.com/minutepro/iep-minutes-api/internal/service"
	appErrors "github.com/minutepro/iep-minutes-api/pkg/errors"
	"github.com/minutepro/iep-minutes-api/pkg/response"
)

type exportJobService interface {
	CreateJob(ctx context.Context, req dto.ExportRequest) (*dto.ExportJobResponse, error)
	GetStatus(ctx context.Context, id string) (*dto.ExportStatusResponse, error)
	ResolveDownload(ctx context.Context, jobID, token string) (*service.ExportDownload, error)
}

// ExportHandler exposes asynchronous report export endpoints.
type ExportHandler struct {
	service exportJobService
}

// NewExportHandler constructs the handler.
func NewExportHandler(service exportJobService) *ExportHandler {
	return &ExportHandler{service: service}
}

// Create godoc
// @Summary Request a report export
// @Tags Exports
// @Accept json
// @Produce json
// @Param request body dto.ExportRequest true "Export"
// @Success 202 {object} response.Envelope
// @Router /reports/export [post]
func (h *ExportHandler) Create(c *gin.Context) {
	var req dto.ExportRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	resp, err := h.service.CreateJob(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusAccepted, resp)
}

// Status godoc
// @Summary Export job status
// @Tags Exports
// @Produce json
// @Param id path string true "Job ID"
// @Success 200 {object} response.Envelope
// @Router /reports/export/{id} [get]
func (h *ExportHandler) Status(c *gin.Context) {
	resp, err := h.service.GetStatus(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

// Download godoc
// @Summary Download a finished export
// @Tags Exports
// @Produce octet-stream
// @Param id path string true "Job ID"
// @Param token query string true "Signed download token"
// @Success 200 {file} binary
// @Router /reports/export/{id}/download [get]
func (h *ExportHandler) Download(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "token is required"))
		return
	}
	download, err := h.service.ResolveDownload(c.Request.Context(), c.Param("id"), token)
	if err != nil {
		response.Error(c, err)
		return
	}
	defer download.File.Close() //nolint:errcheck

	info, err := download.File.Stat()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to stat export file"))
		return
	}
	contentType := "text/csv"
	if download.Format == models.ReportFormatPDF {
		contentType = "application/pdf"
	}
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", download.Filename))
	c.Header("Cache-Control", "no-store")
	c.DataFromReader(http.StatusOK, info.Size(), contentType, download.File, nil)
}
