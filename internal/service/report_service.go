package service

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/minutepro/iep-minutes-api/internal/dto"
	"github.com/minutepro/iep-minutes-api/internal/models"
	appErrors "github.com/minutepro/iep-minutes-api/pkg/errors"
)

type logSnapshotProvider interface {
	ListAll(ctx context.Context) ([]models.SessionLog, error)
}

type studentReader interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error)
	FindByID(ctx context.Context, id int64) (*models.Student, error)
}

// ReportServiceConfig tunes report behaviour.
type ReportServiceConfig struct {
	CacheTTL time.Duration
}

// ReportService computes aggregation reports over immutable snapshots.
// Each request re-reads the collections it needs; results are cached in
// redis until the next mutation invalidates them.
type ReportService struct {
	logs     logSnapshotProvider
	staff    rosterLister
	students studentReader
	cache    *CacheService
	logger   *zap.Logger
	now      func() time.Time
	cfg      ReportServiceConfig
}

// NewReportService constructs a ReportService.
func NewReportService(logs logSnapshotProvider, staff rosterLister, students studentReader, cache *CacheService, logger *zap.Logger, cfg ReportServiceConfig) *ReportService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportService{
		logs:     logs,
		staff:    staff,
		students: students,
		cache:    cache,
		logger:   logger,
		now:      time.Now,
		cfg:      cfg,
	}
}

// Summary returns the team-wide minutes report and indicates cache
// utilisation. An empty window defaults to the current Monday-to-Sunday
// week.
func (s *ReportService) Summary(ctx context.Context, window models.Window) (*dto.TeamSummaryResponse, bool, error) {
	window = s.normalizeWindow(window)
	cacheKey := fmt.Sprintf("reports:summary:%s:%s",
		window.Start.Format(models.DateLayout), window.End.Format(models.DateLayout))

	var cached dto.TeamSummaryResponse
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, true, nil
	}

	logs, roster, err := s.snapshot(ctx)
	if err != nil {
		return nil, false, err
	}

	grandTotal, perStaff := TeamSummary(logs, roster, window)
	resp := &dto.TeamSummaryResponse{
		Window:     windowRange(window),
		GrandTotal: grandTotal,
		PerStaff:   staffMinutes(roster, perStaff),
	}
	s.persistCache(ctx, cacheKey, resp)
	return resp, false, nil
}

// StudentProgress reports one student's minutes against their weekly goal
// for a subject. An empty subject falls back to the student's active
// subject; an empty window defaults to the current week.
func (s *ReportService) StudentProgress(ctx context.Context, studentID int64, subject models.Subject, window models.Window) (*dto.StudentProgressResponse, bool, error) {
	student, err := s.students.FindByID(ctx, studentID)
	if err != nil {
		return nil, false, appErrors.ErrNotFound
	}
	if subject == "" {
		subject = student.ActiveSubject
	}
	if !subject.Valid() {
		return nil, false, appErrors.Clone(appErrors.ErrValidation, "unsupported subject")
	}
	window = s.normalizeWindow(window)

	cacheKey := fmt.Sprintf("reports:progress:%d:%s:%s:%s",
		studentID, subject, window.Start.Format(models.DateLayout), window.End.Format(models.DateLayout))
	var cached dto.StudentProgressResponse
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, true, nil
	}

	logs, roster, err := s.snapshot(ctx)
	if err != nil {
		return nil, false, err
	}

	total := TotalMinutes(logs, studentID, subject, window)
	goal := EffectiveGoal(*student, subject)
	breakdown := StaffBreakdown(logs, studentID, subject, window, roster)

	resp := &dto.StudentProgressResponse{
		StudentID:    student.ID,
		StudentName:  student.Name,
		Subject:      subject,
		Window:       windowRange(window),
		TotalMinutes: total,
		Goal:         goal,
		GoalMet:      GoalMet(total, goal),
		Progress:     ProgressFraction(total, goal),
		Breakdown:    staffMinutes(roster, breakdown),
	}
	s.persistCache(ctx, cacheKey, resp)
	return resp, false, nil
}

// MonthGoalSeries returns the weekly goal-attainment counts for every
// subject over one calendar month. An empty month defaults to the current
// one.
func (s *ReportService) MonthGoalSeries(ctx context.Context, month string) (*dto.GoalSeriesResponse, bool, error) {
	ref := s.now().UTC()
	if month != "" {
		parsed, err := time.Parse("2006-01", month)
		if err != nil {
			return nil, false, appErrors.Clone(appErrors.ErrValidation, "month must be formatted YYYY-MM")
		}
		ref = parsed
	}
	label := ref.Format("2006-01")

	cacheKey := "reports:series:" + label
	var cached dto.GoalSeriesResponse
	if hit, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && hit {
		return &cached, true, nil
	}

	students, err := s.students.List(ctx, models.StudentFilter{})
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	logs, err := s.logs.ListAll(ctx)
	if err != nil {
		return nil, false, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list session logs")
	}

	resp := &dto.GoalSeriesResponse{
		Month:    label,
		Students: len(students),
		Rows:     GoalSeries(students, logs, models.MonthWeeks(ref)),
	}
	s.persistCache(ctx, cacheKey, resp)
	return resp, false, nil
}

func (s *ReportService) snapshot(ctx context.Context) ([]models.SessionLog, []models.Staff, error) {
	logs, err := s.logs.ListAll(ctx)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list session logs")
	}
	roster, err := s.staff.ListAll(ctx)
	if err != nil {
		return nil, nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list staff")
	}
	return logs, roster, nil
}

func (s *ReportService) normalizeWindow(window models.Window) models.Window {
	if window.Start.IsZero() || window.End.IsZero() {
		return models.WeekOf(s.now().UTC())
	}
	return window
}

func (s *ReportService) persistCache(ctx context.Context, key string, value interface{}) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Set(ctx, key, value, s.cfg.CacheTTL); err != nil {
		s.logger.Warn("report cache write failed", zap.String("key", key), zap.Error(err))
	}
}

func windowRange(window models.Window) dto.WindowRange {
	return dto.WindowRange{
		Start: window.Start.Format(models.DateLayout),
		End:   window.End.Format(models.DateLayout),
	}
}

func staffMinutes(roster []models.Staff, buckets map[string]int) []dto.StaffMinutes {
	rows := make([]dto.StaffMinutes, 0, len(roster))
	for _, staff := range roster {
		rows = append(rows, dto.StaffMinutes{
			Name:    staff.Name,
			Color:   staff.Color,
			Minutes: buckets[staff.Name],
		})
	}
	return rows
}
