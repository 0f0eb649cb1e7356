package handler

import (
	"context"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/minutepro/iep-minutes-api/internal/dto"
	"github.com/minutepro/iep-minutes-api/internal/models"
	appErrors "github.com/minutepro/iep-minutes-api/pkg/errors"
	"github.com/minutepro/iep-minutes-api/pkg/response"
)

type studentService interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error)
	Get(ctx context.Context, id int64) (*models.Student, error)
	Create(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, error)
	Update(ctx context.Context, id int64, req dto.UpdateStudentRequest) (*models.Student, error)
	SetActiveSubject(ctx context.Context, id int64, subject models.Subject) (*models.Student, error)
	Delete(ctx context.Context, id int64) (*dto.DeleteStudentResponse, error)
}

// StudentHandler exposes student endpoints.
type StudentHandler struct {
	service studentService
}

// NewStudentHandler constructs the handler.
func NewStudentHandler(service studentService) *StudentHandler {
	return &StudentHandler{service: service}
}

// List godoc
// @Summary List students
// @Tags Students
// @Produce json
// @Param grade query string false "Grade filter"
// @Param search query string false "Name search"
// @Success 200 {object} response.Envelope
// @Router /students [get]
func (h *StudentHandler) List(c *gin.Context) {
	filter := models.StudentFilter{
		Grade:  models.Grade(strings.TrimSpace(c.Query("grade"))),
		Search: strings.TrimSpace(c.Query("search")),
	}
	students, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, students)
}

// Get godoc
// @Summary Get one student
// @Tags Students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [get]
func (h *StudentHandler) Get(c *gin.Context) {
	id, ok := studentID(c)
	if !ok {
		return
	}
	student, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// Create godoc
// @Summary Add a student
// @Tags Students
// @Accept json
// @Produce json
// @Param request body dto.CreateStudentRequest true "Student"
// @Success 201 {object} response.Envelope
// @Router /students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req dto.CreateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	student, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, student)
}

// Update godoc
// @Summary Patch a student
// @Tags Students
// @Accept json
// @Produce json
// @Param id path int true "Student ID"
// @Param request body dto.UpdateStudentRequest true "Changes"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [patch]
func (h *StudentHandler) Update(c *gin.Context) {
	id, ok := studentID(c)
	if !ok {
		return
	}
	var req dto.UpdateStudentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, err.Error()))
		return
	}
	student, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// SetActiveSubject godoc
// @Summary Switch a student's active subject
// @Tags Students
// @Produce json
// @Param id path int true "Student ID"
// @Param subject path string true "Subject"
// @Success 200 {object} response.Envelope
// @Router /students/{id}/subject/{subject} [put]
func (h *StudentHandler) SetActiveSubject(c *gin.Context) {
	id, ok := studentID(c)
	if !ok {
		return
	}
	student, err := h.service.SetActiveSubject(c.Request.Context(), id, models.Subject(c.Param("subject")))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, student)
}

// Delete godoc
// @Summary Remove a student
// @Description Session logs stay behind; the response reports how many
// @Description rows were left orphaned.
// @Tags Students
// @Produce json
// @Param id path int true "Student ID"
// @Success 200 {object} response.Envelope
// @Router /students/{id} [delete]
func (h *StudentHandler) Delete(c *gin.Context) {
	id, ok := studentID(c)
	if !ok {
		return
	}
	resp, err := h.service.Delete(c.Request.Context(), id)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.JSON(c, http.StatusOK, resp)
}

func studentID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "invalid student id"))
		return 0, false
	}
	return id, true
}
