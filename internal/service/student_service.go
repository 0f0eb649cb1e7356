package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/minutepro/iep-minutes-api/internal/dto"
	"github.com/minutepro/iep-minutes-api/internal/models"
	appErrors "github.com/minutepro/iep-minutes-api/pkg/errors"
)

type studentStore interface {
	List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error)
	FindByID(ctx context.Context, id int64) (*models.Student, error)
	Create(ctx context.Context, student *models.Student) error
	Update(ctx context.Context, student *models.Student) error
	Delete(ctx context.Context, id int64) error
}

type logCounter interface {
	CountByStudent(ctx context.Context, studentID int64) (int, error)
}

// StudentService manages student records and their weekly goals.
type StudentService struct {
	repo      studentStore
	logs      logCounter
	cache     *CacheService
	validator *validator.Validate
	logger    *zap.Logger
}

// NewStudentService constructs a StudentService.
func NewStudentService(repo studentStore, logs logCounter, cache *CacheService, validate *validator.Validate, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{repo: repo, logs: logs, cache: cache, validator: validate, logger: logger}
}

// List returns students matching the filter.
func (s *StudentService) List(ctx context.Context, filter models.StudentFilter) ([]models.Student, error) {
	if filter.Grade != "" && !filter.Grade.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported grade")
	}
	students, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list students")
	}
	return students, nil
}

// Get returns one student.
func (s *StudentService) Get(ctx context.Context, id int64) (*models.Student, error) {
	student, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load student")
	}
	return student, nil
}

// Create adds a student. Goals left empty receive the per-subject
// defaults; an empty active subject starts on Math.
func (s *StudentService) Create(ctx context.Context, req dto.CreateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "name is required")
	}
	if !req.Grade.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported grade")
	}
	active := req.ActiveSubject
	if active == "" {
		active = models.SubjectMath
	}
	if !active.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported subject")
	}

	student := &models.Student{
		Name:               name,
		Grade:              req.Grade,
		ActiveSubject:      active,
		GoalMath:           req.GoalMath,
		GoalEnglish:        req.GoalEnglish,
		GoalTaskCompletion: req.GoalTaskCompletion,
	}
	for subject, minutes := range models.DefaultGoals {
		if student.Goal(subject) == nil {
			student.SetGoal(subject, minutes)
		}
	}

	if err := s.repo.Create(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create student")
	}
	s.invalidateReports(ctx)
	return student, nil
}

// Update patches a student record; nil fields keep their current value.
func (s *StudentService) Update(ctx context.Context, id int64, req dto.UpdateStudentRequest) (*models.Student, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid student payload")
	}
	student, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, appErrors.Clone(appErrors.ErrValidation, "name cannot be empty")
		}
		student.Name = name
	}
	if req.Grade != nil {
		if !req.Grade.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported grade")
		}
		student.Grade = *req.Grade
	}
	if req.ActiveSubject != nil {
		if !req.ActiveSubject.Valid() {
			return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported subject")
		}
		student.ActiveSubject = *req.ActiveSubject
	}
	if req.GoalMath != nil {
		student.GoalMath = req.GoalMath
	}
	if req.GoalEnglish != nil {
		student.GoalEnglish = req.GoalEnglish
	}
	if req.GoalTaskCompletion != nil {
		student.GoalTaskCompletion = req.GoalTaskCompletion
	}

	if err := s.repo.Update(ctx, student); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to update student")
	}
	s.invalidateReports(ctx)
	return student, nil
}

// SetActiveSubject switches the subject shown by default for the student.
func (s *StudentService) SetActiveSubject(ctx context.Context, id int64, subject models.Subject) (*models.Student, error) {
	if !subject.Valid() {
		return nil, appErrors.Clone(appErrors.ErrValidation, "unsupported subject")
	}
	return s.Update(ctx, id, dto.UpdateStudentRequest{ActiveSubject: &subject})
}

// Delete removes the student. Session logs referencing the student stay
// in place; the count of rows left orphaned is returned so callers can
// audit them. Orphaned rows no longer appear in per-student reports but
// still count in the team-wide summary.
func (s *StudentService) Delete(ctx context.Context, id int64) (*dto.DeleteStudentResponse, error) {
	if _, err := s.Get(ctx, id); err != nil {
		return nil, err
	}
	orphaned, err := s.logs.CountByStudent(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to count session logs")
	}
	if err := s.repo.Delete(ctx, id); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to delete student")
	}
	s.invalidateReports(ctx)
	s.logger.Info("student deleted", zap.Int64("student_id", id), zap.Int("orphaned_logs", orphaned))
	return &dto.DeleteStudentResponse{Deleted: true, OrphanedLogs: orphaned}, nil
}

func (s *StudentService) invalidateReports(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "reports:*"); err != nil {
		s.logger.Warn("report cache invalidation failed", zap.Error(err))
	}
}
