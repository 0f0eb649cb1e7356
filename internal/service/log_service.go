package service

import (
	"context"
	"encoding/csv"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/minutepro/iep-minutes-api/internal/dto"
	"github.com/minutepro/iep-minutes-api/internal/models"
	appErrors "github.com/minutepro/iep-minutes-api/pkg/errors"
)

type sessionLogStore interface {
	ListAll(ctx context.Context) ([]models.SessionLog, error)
	List(ctx context.Context, filter models.SessionLogFilter) ([]models.SessionLog, error)
	CreateBatch(ctx context.Context, logs []*models.SessionLog) error
}

type rosterLister interface {
	ListAll(ctx context.Context) ([]models.Staff, error)
}

// LogService records delivered service minutes. One user action can log
// the same session for several students at once.
type LogService struct {
	repo      sessionLogStore
	staff     rosterLister
	cache     *CacheService
	metrics   *MetricsService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewLogService constructs a LogService.
func NewLogService(repo sessionLogStore, staff rosterLister, cache *CacheService, metrics *MetricsService, validate *validator.Validate, logger *zap.Logger) *LogService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &LogService{repo: repo, staff: staff, cache: cache, metrics: metrics, validator: validate, logger: logger}
}

// List returns logs matching the filter, most recent first.
func (s *LogService) List(ctx context.Context, filter models.SessionLogFilter) ([]models.SessionLog, error) {
	if filter.Subject != "" && !filter.Subject.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported subject")
	}
	logs, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list session logs")
	}
	return logs, nil
}

// Log appends one session row per requested student in a single batch.
// The staff name must match a roster member so that new rows always land
// in a breakdown bucket.
func (s *LogService) Log(ctx context.Context, req dto.LogSessionRequest) ([]models.SessionLog, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid session payload")
	}
	if !req.Subject.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported subject")
	}
	date, err := time.Parse(models.DateLayout, req.Date)
	if err != nil {
		return nil, appErrors.Clone(appErrors.ErrValidation, "date must be formatted YYYY-MM-DD")
	}
	if err := s.checkRoster(ctx, req.StaffName); err != nil {
		return nil, err
	}

	batch := make([]*models.SessionLog, 0, len(req.StudentIDs))
	for _, studentID := range req.StudentIDs {
		batch = append(batch, &models.SessionLog{
			StudentID: studentID,
			Subject:   req.Subject,
			StaffName: req.StaffName,
			Minutes:   req.Minutes,
			Date:      date,
			Note:      strings.TrimSpace(req.Note),
		})
	}
	if err := s.repo.CreateBatch(ctx, batch); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to record session")
	}

	if s.metrics != nil {
		s.metrics.RecordSessionMinutes(req.Minutes * len(batch))
	}
	s.invalidateReports(ctx)

	logs := make([]models.SessionLog, 0, len(batch))
	for _, row := range batch {
		logs = append(logs, *row)
	}
	return logs, nil
}

// ImportCSV ingests legacy exports with columns
// student_id,subject,staff,minutes,date,note. Malformed values follow
// legacy coercion rules: non-numeric minutes become 0, rows with an
// unparseable date or unknown subject are skipped. Staff names absent
// from the roster are imported as-is and simply never land in a
// breakdown bucket.
func (s *LogService) ImportCSV(ctx context.Context, r io.Reader) (*dto.ImportResult, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	roster, err := s.staff.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list staff")
	}
	rostered := make(map[string]struct{}, len(roster))
	for _, staff := range roster {
		rostered[staff.Name] = struct{}{}
	}

	result := &dto.ImportResult{}
	var batch []*models.SessionLog
	first := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, appErrors.Clone(appErrors.ErrValidation, "malformed CSV input")
		}
		if first {
			first = false
			if looksLikeHeader(record) {
				continue
			}
		}
		if len(record) < 5 {
			result.SkippedRows++
			continue
		}

		studentID, err := strconv.ParseInt(strings.TrimSpace(record[0]), 10, 64)
		if err != nil || studentID <= 0 {
			result.SkippedRows++
			continue
		}
		subject := models.Subject(strings.TrimSpace(record[1]))
		if !subject.Valid() {
			result.SkippedRows++
			continue
		}
		date, err := time.Parse(models.DateLayout, strings.TrimSpace(record[4]))
		if err != nil {
			result.SkippedRows++
			continue
		}

		minutes, err := strconv.Atoi(strings.TrimSpace(record[3]))
		if err != nil || minutes < 0 {
			minutes = 0
			result.CoercedZero++
		}

		staffName := strings.TrimSpace(record[2])
		if _, ok := rostered[staffName]; !ok {
			result.UnknownStaff++
		}

		note := ""
		if len(record) > 5 {
			note = strings.TrimSpace(record[5])
		}

		batch = append(batch, &models.SessionLog{
			StudentID: studentID,
			Subject:   subject,
			StaffName: staffName,
			Minutes:   minutes,
			Date:      date,
			Note:      note,
		})
	}

	if err := s.repo.CreateBatch(ctx, batch); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to import session logs")
	}
	result.Imported = len(batch)

	s.invalidateReports(ctx)
	s.logger.Info("session logs imported",
		zap.Int("imported", result.Imported),
		zap.Int("skipped", result.SkippedRows),
		zap.Int("coerced_zero", result.CoercedZero))
	return result, nil
}

func (s *LogService) checkRoster(ctx context.Context, staffName string) error {
	roster, err := s.staff.ListAll(ctx)
	if err != nil {
		return appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list staff")
	}
	for _, staff := range roster {
		if staff.Name == staffName {
			return nil
		}
	}
	return appErrors.Clone(appErrors.ErrValidation, "staff name is not on the roster")
}

func looksLikeHeader(record []string) bool {
	if len(record) == 0 {
		return false
	}
	_, err := strconv.Atoi(strings.TrimSpace(record[0]))
	return err != nil
}

func (s *LogService) invalidateReports(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "reports:*"); err != nil {
		s.logger.Warn("report cache invalidation failed", zap.Error(err))
	}
}
