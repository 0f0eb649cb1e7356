package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/minutepro/iep-minutes-api/internal/dto"
	"github.com/minutepro/iep-minutes-api/internal/models"
	appErrors "github.com/minutepro/iep-minutes-api/pkg/errors"
	"github.com/minutepro/iep-minutes-api/pkg/response"
)

type staffService interface {
	List(ctx context.Context) ([]models.Staff, error)
	Create(ctx context.Context, req dto.CreateStaffRequest) (*models.Staff, error)
	Rename(ctx context.Context, id int64, req dto.RenameStaffRequest) (*dto.RenameStaffResponse, error)
}

// StaffHandler exposes roster endpoints.
type StaffHandler struct {
	service staffService
}

// NewStaffHandler constructs the handler.
func NewStaffHandler(service staffService) *StaffHandler {
	return &StaffHandler{service: service}
}

// List godoc
// @Summary List the staff roster
// @Tags Staff
// @Produce json
// @Success 200 {object} response.Envelope
// @Router /staff [get]
func (h *StaffHandler) List(c *gin.Context) {
	roster, err := h.service.List(c.Request.Context())
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, roster)
}

// Create godoc
// @Summary Add a staff member
// @Tags Staff
// @Accept json
// @Produce json
// @Param request body dto.CreateStaffRequest true "Staff"
// @Success 201 {object} response.Envelope
// @Router /staff [post]
func (h *StaffHandler) Create(c *gin.Context) {
	var req dto.CreateStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	staff, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, staff)
}

// Rename godoc
// @Summary Rename a staff member
// @Description Changes the display name and rewrites every session log
// @Description referencing the old name in the same transaction.
// @Tags Staff
// @Accept json
// @Produce json
// @Param id path int true "Staff ID"
// @Param request body dto.RenameStaffRequest true "New name"
// @Success 200 {object} response.Envelope
// @Router /staff/{id} [put]
func (h *StaffHandler) Rename(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid staff id"))
		return
	}
	var req dto.RenameStaffRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	resp, err := h.service.Rename(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}
