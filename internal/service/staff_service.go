package service

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/minutepro/iep-minutes-api/internal/dto"
	"github.com/minutepro/iep-minutes-api/internal/models"
	appErrors "github.com/minutepro/iep-minutes-api/pkg/errors"
)

type staffStore interface {
	ListAll(ctx context.Context) ([]models.Staff, error)
	FindByID(ctx context.Context, id int64) (*models.Staff, error)
	ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error)
	Create(ctx context.Context, staff *models.Staff) error
	Rename(ctx context.Context, id int64, newName string) (int64, error)
	SeedDefaults(ctx context.Context) error
}

// StaffService manages the service-provider roster. Renames ripple into
// the session log collection, so mutations invalidate cached reports.
type StaffService struct {
	repo   staffStore
	cache  *CacheService
	logger *zap.Logger
}

// NewStaffService constructs a StaffService.
func NewStaffService(repo staffStore, cache *CacheService, logger *zap.Logger) *StaffService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StaffService{repo: repo, cache: cache, logger: logger}
}

// List returns the full roster.
func (s *StaffService) List(ctx context.Context) ([]models.Staff, error) {
	roster, err := s.repo.ListAll(ctx)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list staff")
	}
	return roster, nil
}

// Create adds a staff member. When no color is given the palette is
// cycled based on the roster size.
func (s *StaffService) Create(ctx context.Context, req dto.CreateStaffRequest) (*models.Staff, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "name is required")
	}
	exists, err := s.repo.ExistsByName(ctx, name, 0)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check staff name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a staff member with that name already exists")
	}

	color := req.Color
	if color == "" {
		roster, err := s.repo.ListAll(ctx)
		if err != nil {
			return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to list staff")
		}
		color = models.StaffColors[len(roster)%len(models.StaffColors)]
	}

	staff := &models.Staff{Name: name, Color: color}
	if err := s.repo.Create(ctx, staff); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to create staff")
	}
	// A new roster member adds a bucket to every staff breakdown.
	s.invalidateReports(ctx)
	return staff, nil
}

// Rename changes a staff member's display name and rewrites their session
// log rows in the same transaction. Cached reports are invalidated so no
// reader sees a mix of old and new names.
func (s *StaffService) Rename(ctx context.Context, id int64, req dto.RenameStaffRequest) (*dto.RenameStaffResponse, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, appErrors.Clone(appErrors.ErrValidation, "name is required")
	}
	exists, err := s.repo.ExistsByName(ctx, name, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to check staff name")
	}
	if exists {
		return nil, appErrors.Clone(appErrors.ErrConflict, "a staff member with that name already exists")
	}

	rewritten, err := s.repo.Rename(ctx, id, name)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, appErrors.ErrNotFound
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to rename staff")
	}

	staff, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load staff")
	}

	s.invalidateReports(ctx)
	s.logger.Info("staff renamed",
		zap.Int64("staff_id", id),
		zap.String("name", name),
		zap.Int64("logs_rewritten", rewritten))

	return &dto.RenameStaffResponse{Staff: *staff, LogsRewritten: rewritten}, nil
}

// Seed inserts the default roster when the table is empty.
func (s *StaffService) Seed(ctx context.Context) error {
	return s.repo.SeedDefaults(ctx)
}

func (s *StaffService) invalidateReports(ctx context.Context) {
	if s.cache == nil {
		return
	}
	if err := s.cache.Invalidate(ctx, "reports:*"); err != nil {
		s.logger.Warn("report cache invalidation failed", zap.Error(err))
	}
}
