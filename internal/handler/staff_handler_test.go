package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minutepro/iep-minutes-api/internal/dto"
	"github.com/minutepro/iep-minutes-api/internal/models"
	appErrors "github.com/minutepro/iep-minutes-api/pkg/errors"
)

type responseEnvelope struct {
	Data  map[string]interface{} `json:"data"`
	Error map[string]interface{} `json:"error"`
	Meta  map[string]interface{} `json:"meta"`
}

type fakeStaffSrv struct {
	roster     []models.Staff
	created    *models.Staff
	createErr  error
	renameResp *dto.RenameStaffResponse
	renameErr  error
	lastRename struct {
		id   int64
		name string
	}
}

func (f *fakeStaffSrv) List(context.Context) ([]models.Staff, error) {
	return f.roster, nil
}

func (f *fakeStaffSrv) Create(_ context.Context, req dto.CreateStaffRequest) (*models.Staff, error) {
	return f.created, f.createErr
}

func (f *fakeStaffSrv) Rename(_ context.Context, id int64, req dto.RenameStaffRequest) (*dto.RenameStaffResponse, error) {
	f.lastRename.id = id
	f.lastRename.name = req.Name
	return f.renameResp, f.renameErr
}

func TestStaffHandlerList(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewStaffHandler(&fakeStaffSrv{roster: models.DefaultStaff})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodGet, "/staff", nil)

	handler.List(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	var envelope struct {
		Data []models.Staff `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Len(t, envelope.Data, len(models.DefaultStaff))
}

func TestStaffHandlerCreate(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewStaffHandler(&fakeStaffSrv{
		created: &models.Staff{ID: 6, Name: "Ms. Lee", Color: "#6366f1"},
	})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/staff", strings.NewReader(`{"name":"Ms. Lee"}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Create(c)

	assert.Equal(t, http.StatusCreated, rec.Code)
}

func TestStaffHandlerCreateMissingName(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewStaffHandler(&fakeStaffSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/staff", strings.NewReader(`{}`))
	c.Request.Header.Set("Content-Type", "application/json")

	handler.Create(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStaffHandlerRename(t *testing.T) {
	gin.SetMode(gin.TestMode)
	service := &fakeStaffSrv{
		renameResp: &dto.RenameStaffResponse{
			Staff:         models.Staff{ID: 1, Name: "Ms. Rivera-Cruz"},
			LogsRewritten: 7,
		},
	}
	handler := NewStaffHandler(service)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPut, "/staff/1", strings.NewReader(`{"name":"Ms. Rivera-Cruz"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	handler.Rename(c)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, int64(1), service.lastRename.id)
	assert.Equal(t, "Ms. Rivera-Cruz", service.lastRename.name)

	var envelope responseEnvelope
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &envelope))
	assert.Equal(t, float64(7), envelope.Data["logsRewritten"])
}

func TestStaffHandlerRenameInvalidID(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewStaffHandler(&fakeStaffSrv{})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPut, "/staff/zero", strings.NewReader(`{"name":"X"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "zero"}}

	handler.Rename(c)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestStaffHandlerRenameConflict(t *testing.T) {
	gin.SetMode(gin.TestMode)
	handler := NewStaffHandler(&fakeStaffSrv{renameErr: appErrors.ErrConflict})

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPut, "/staff/1", strings.NewReader(`{"name":"Ms. Chen"}`))
	c.Request.Header.Set("Content-Type", "application/json")
	c.Params = gin.Params{{Key: "id", Value: "1"}}

	handler.Rename(c)

	assert.Equal(t, http.StatusConflict, rec.Code)
}
