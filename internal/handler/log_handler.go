package handler

import (
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/minutepro/iep-minutes-api/internal/dto"
	"github.com/minutepro/iep-minutes-api/internal/models"
	appErrors "github.com/minutepro/iep-minutes-api/pkg/errors"
	"github.com/minutepro/iep-minutes-api/pkg/response"
)

type logService interface {
	List(ctx context.Context, filter models.SessionLogFilter) ([]models.SessionLog, error)
	Log(ctx context.Context, req dto.LogSessionRequest) ([]models.SessionLog, error)
	ImportCSV(ctx context.Context, r io.Reader) (*dto.ImportResult, error)
}

// LogHandler exposes session log endpoints.
type LogHandler struct {
	service logService
}

// NewLogHandler constructs the handler.
func NewLogHandler(service logService) *LogHandler {
	return &LogHandler{service: service}
}

// List godoc
// @Summary List session logs
// @Tags Logs
// @Produce json
// @Param studentId query int false "Student filter"
// @Param subject query string false "Subject filter"
// @Param staff query string false "Staff filter"
// @Param start query string false "Window start (YYYY-MM-DD)"
// @Param end query string false "Window end (YYYY-MM-DD)"
// @Param limit query int false "Row limit"
// @Success 200 {object} response.Envelope
// @Router /logs [get]
func (h *LogHandler) List(c *gin.Context) {
	filter := models.SessionLogFilter{
		Subject:   models.Subject(strings.TrimSpace(c.Query("subject"))),
		StaffName: strings.TrimSpace(c.Query("staff")),
	}
	if raw := c.Query("studentId"); raw != "" {
		id, err := strconv.ParseInt(raw, 10, 64)
		if err != nil || id <= 0 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid studentId"))
			return
		}
		filter.StudentID = id
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid limit"))
			return
		}
		filter.Limit = limit
	}
	var ok bool
	if filter.Start, ok = parseDateQuery(c, "start"); !ok {
		return
	}
	if filter.End, ok = parseDateQuery(c, "end"); !ok {
		return
	}

	logs, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, logs)
}

// Create godoc
// @Summary Record a session
// @Description Logs the same session for every listed student in one
// @Description batch.
// @Tags Logs
// @Accept json
// @Produce json
// @Param request body dto.LogSessionRequest true "Session"
// @Success 201 {object} response.Envelope
// @Router /logs [post]
func (h *LogHandler) Create(c *gin.Context) {
	var req dto.LogSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	logs, err := h.service.Log(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, logs)
}

// Import godoc
// @Summary Import legacy session logs from CSV
// @Tags Logs
// @Accept text/csv
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /logs/import [post]
func (h *LogHandler) Import(c *gin.Context) {
	result, err := h.service.ImportCSV(c.Request.Context(), c.Request.Body)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, result)
}

func parseDateQuery(c *gin.Context, name string) (time.Time, bool) {
	raw := strings.TrimSpace(c.Query(name))
	if raw == "" {
		return time.Time{}, true
	}
	parsed, err := time.Parse(models.DateLayout, raw)
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, name+" must be formatted YYYY-MM-DD"))
		return time.Time{}, false
	}
	return parsed, true
}
