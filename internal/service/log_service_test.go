package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/minutepro/iep-minutes-api/internal/dto"
	"github.com/minutepro/iep-minutes-api/internal/models"
	appErrors "github.com/minutepro/iep-minutes-api/pkg/errors"
)

type sessionLogStoreStub struct {
	logs   []models.SessionLog
	nextID int64
}

func (s *sessionLogStoreStub) ListAll(ctx context.Context) ([]models.SessionLog, error) {
	return s.logs, nil
}

func (s *sessionLogStoreStub) List(ctx context.Context, filter models.SessionLogFilter) ([]models.SessionLog, error) {
	return s.logs, nil
}

func (s *sessionLogStoreStub) CreateBatch(ctx context.Context, logs []*models.SessionLog) error {
	for _, log := range logs {
		s.nextID++
		log.ID = s.nextID
		s.logs = append(s.logs, *log)
	}
	return nil
}

type rosterStub struct {
	roster []models.Staff
}

func (s *rosterStub) ListAll(ctx context.Context) ([]models.Staff, error) {
	return s.roster, nil
}

func newLogServiceForTest() (*LogService, *sessionLogStoreStub) {
	store := &sessionLogStoreStub{}
	staff := &rosterStub{roster: seededRoster()}
	return NewLogService(store, staff, nil, nil, validator.New(), zap.NewNop()), store
}

func TestLogServiceLogMultipleStudents(t *testing.T) {
	svc, store := newLogServiceForTest()

	logs, err := svc.Log(context.Background(), dto.LogSessionRequest{
		StudentIDs: []int64{1, 2, 3},
		Subject:    models.SubjectMath,
		StaffName:  "Ms. Rivera",
		Minutes:    30,
		Date:       "2024-01-08",
		Note:       "small group",
	})
	require.NoError(t, err)
	require.Len(t, logs, 3)
	require.Len(t, store.logs, 3)

	for i, log := range logs {
		assert.Equal(t, int64(i+1), log.StudentID)
		assert.Equal(t, 30, log.Minutes)
		assert.Equal(t, "small group", log.Note)
		assert.Equal(t, time.Date(2024, 1, 8, 0, 0, 0, 0, time.UTC), log.Date)
	}
}

func TestLogServiceRejectsUnrosteredStaff(t *testing.T) {
	svc, _ := newLogServiceForTest()

	_, err := svc.Log(context.Background(), dto.LogSessionRequest{
		StudentIDs: []int64{1},
		Subject:    models.SubjectMath,
		StaffName:  "Mx. Ghost",
		Minutes:    30,
		Date:       "2024-01-08",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestLogServiceRejectsBadDate(t *testing.T) {
	svc, _ := newLogServiceForTest()

	_, err := svc.Log(context.Background(), dto.LogSessionRequest{
		StudentIDs: []int64{1},
		Subject:    models.SubjectMath,
		StaffName:  "Ms. Rivera",
		Minutes:    30,
		Date:       "01/08/2024",
	})
	require.Error(t, err)
	assert.Equal(t, appErrors.ErrValidation.Code, appErrors.FromError(err).Code)
}

func TestLogServiceImportCSVCoercion(t *testing.T) {
	svc, store := newLogServiceForTest()

	input := strings.Join([]string{
		"student_id,subject,staff,minutes,date,note",
		"1,Math,Ms. Rivera,30,2024-01-08,push-in",
		"1,Math,Ms. Rivera,abc,2024-01-09,",  // minutes coerced to 0
		"2,English,Mr. Davis,20,not-a-date,", // skipped
		"3,Handwriting,Ms. Chen,15,2024-01-10,", // unknown subject, skipped
		"2,English,Mx. Ghost,25,2024-01-10,",
	}, "\n")

	result, err := svc.ImportCSV(context.Background(), strings.NewReader(input))
	require.NoError(t, err)

	assert.Equal(t, 3, result.Imported)
	assert.Equal(t, 1, result.CoercedZero)
	assert.Equal(t, 2, result.SkippedRows)
	assert.Equal(t, 1, result.UnknownStaff)
	require.Len(t, store.logs, 3)
	assert.Zero(t, store.logs[1].Minutes)
}

func TestLogServiceImportCSVEmpty(t *testing.T) {
	svc, store := newLogServiceForTest()

	result, err := svc.ImportCSV(context.Background(), strings.NewReader(""))
	require.NoError(t, err)
	assert.Zero(t, result.Imported)
	assert.Empty(t, store.logs)
}
