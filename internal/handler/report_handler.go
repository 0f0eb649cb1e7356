package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/minutepro/iep-minutes-api/internal/dto"
	"github.com/minutepro/iep-minutes-api/internal/middleware"
	"github.com/minutepro/iep-minutes-api/internal/models"
	appErrors "github.com/minutepro/iep-minutes-api/pkg/errors"
	"github.com/minutepro/iep-minutes-api/pkg/response"
)

type reportService interface {
	Summary(ctx context.Context, window models.Window) (*dto.TeamSummaryResponse, bool, error)
	StudentProgress(ctx context.Context, studentID int64, subject models.Subject, window models.Window) (*dto.StudentProgressResponse, bool, error)
	MonthGoalSeries(ctx context.Context, month string) (*dto.GoalSeriesResponse, bool, error)
}

// ReportHandler exposes aggregation report endpoints.
type ReportHandler struct {
	service reportService
}

// NewReportHandler constructs the handler.
func NewReportHandler(service reportService) *ReportHandler {
	return &ReportHandler{service: service}
}

// Summary godoc
// @Summary Team-wide minutes summary
// @Tags Reports
// @Produce json
// @Param start query string false "Window start (YYYY-MM-DD)"
// @Param end query string false "Window end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /reports/summary [get]
func (h *ReportHandler) Summary(c *gin.Context) {
	window, ok := parseWindowQuery(c)
	if !ok {
		return
	}
	summary, cacheHit, err := h.service.Summary(c.Request.Context(), window)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, summary, middleware.ExtractMeta(c))
}

// StudentProgress godoc
// @Summary Student goal progress
// @Tags Reports
// @Produce json
// @Param id path int true "Student ID"
// @Param subject query string false "Subject (defaults to the student's active subject)"
// @Param start query string false "Window start (YYYY-MM-DD)"
// @Param end query string false "Window end (YYYY-MM-DD)"
// @Success 200 {object} response.Envelope
// @Router /reports/students/{id}/progress [get]
func (h *ReportHandler) StudentProgress(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid student id"))
		return
	}
	window, ok := parseWindowQuery(c)
	if !ok {
		return
	}
	subject := models.Subject(strings.TrimSpace(c.Query("subject")))

	progress, cacheHit, err := h.service.StudentProgress(c.Request.Context(), id, subject, window)
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, progress, middleware.ExtractMeta(c))
}

// GoalSeries godoc
// @Summary Weekly goal-attainment series
// @Tags Reports
// @Produce json
// @Param month query string false "Month (YYYY-MM, defaults to current)"
// @Success 200 {object} response.Envelope
// @Router /reports/goal-series [get]
func (h *ReportHandler) GoalSeries(c *gin.Context) {
	series, cacheHit, err := h.service.MonthGoalSeries(c.Request.Context(), strings.TrimSpace(c.Query("month")))
	if err != nil {
		response.Error(c, err)
		return
	}
	middleware.SetCacheHit(c, cacheHit)
	response.JSON(c, http.StatusOK, series, middleware.ExtractMeta(c))
}

func parseWindowQuery(c *gin.Context) (models.Window, bool) {
	start, ok := parseDateQuery(c, "start")
	if !ok {
		return models.Window{}, false
	}
	end, ok := parseDateQuery(c, "end")
	if !ok {
		return models.Window{}, false
	}
	if start.IsZero() != end.IsZero() {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "start and end must be provided together"))
		return models.Window{}, false
	}
	if !start.IsZero() && end.Before(start) {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "end must not precede start"))
		return models.Window{}, false
	}
	return models.Window{Start: start, End: end}, true
}
