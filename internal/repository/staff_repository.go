package repository

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/minutepro/iep-minutes-api/internal/models"
)

// StaffRepository manages persistence for the staff roster.
type StaffRepository struct {
	db *sqlx.DB
}

// NewStaffRepository constructs a StaffRepository.
func NewStaffRepository(db *sqlx.DB) *StaffRepository {
	return &StaffRepository{db: db}
}

// ListAll returns the full roster ordered by id.
func (r *StaffRepository) ListAll(ctx context.Context) ([]models.Staff, error) {
	const query = `SELECT id, name, color, created_at, updated_at FROM staff ORDER BY id`
	var roster []models.Staff
	if err := r.db.SelectContext(ctx, &roster, query); err != nil {
		return nil, fmt.Errorf("list staff: %w", err)
	}
	return roster, nil
}

// FindByID fetches one staff member.
func (r *StaffRepository) FindByID(ctx context.Context, id int64) (*models.Staff, error) {
	const query = `SELECT id, name, color, created_at, updated_at FROM staff WHERE id = $1`
	var staff models.Staff
	if err := r.db.GetContext(ctx, &staff, query, id); err != nil {
		return nil, err
	}
	return &staff, nil
}

// ExistsByName checks whether a staff member with the given display name
// exists, optionally excluding an id.
func (r *StaffRepository) ExistsByName(ctx context.Context, name string, excludeID int64) (bool, error) {
	query := `SELECT COUNT(1) FROM staff WHERE name = $1`
	args := []interface{}{name}
	if excludeID > 0 {
		query += ` AND id <> $2`
		args = append(args, excludeID)
	}
	var count int
	if err := r.db.GetContext(ctx, &count, query, args...); err != nil {
		return false, fmt.Errorf("check staff name: %w", err)
	}
	return count > 0, nil
}

// Create inserts a new staff member and assigns the next serial id.
func (r *StaffRepository) Create(ctx context.Context, staff *models.Staff) error {
	now := time.Now().UTC()
	staff.CreatedAt = now
	staff.UpdatedAt = now
	const query = `INSERT INTO staff (name, color, created_at, updated_at)
        VALUES ($1, $2, $3, $4) RETURNING id`
	if err := r.db.GetContext(ctx, &staff.ID, query, staff.Name, staff.Color, staff.CreatedAt, staff.UpdatedAt); err != nil {
		return fmt.Errorf("create staff: %w", err)
	}
	return nil
}

// Rename changes a staff member's display name and rewrites every session
// log referencing the old name, in one transaction so that aggregations
// never observe a mix of old and new names. It returns the number of log
// rows rewritten.
func (r *StaffRepository) Rename(ctx context.Context, id int64, newName string) (int64, error) {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("begin rename: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck

	var oldName string
	if err := tx.GetContext(ctx, &oldName, `SELECT name FROM staff WHERE id = $1 FOR UPDATE`, id); err != nil {
		return 0, err
	}

	if _, err := tx.ExecContext(ctx, `UPDATE staff SET name = $2, updated_at = $3 WHERE id = $1`, id, newName, time.Now().UTC()); err != nil {
		return 0, fmt.Errorf("rename staff: %w", err)
	}

	var rewritten int64
	if oldName != newName {
		res, err := tx.ExecContext(ctx, `UPDATE session_logs SET staff_name = $2 WHERE staff_name = $1`, oldName, newName)
		if err != nil {
			return 0, fmt.Errorf("propagate staff rename: %w", err)
		}
		rewritten, _ = res.RowsAffected()
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("commit rename: %w", err)
	}
	return rewritten, nil
}

// SeedDefaults inserts the default roster when the table is empty.
func (r *StaffRepository) SeedDefaults(ctx context.Context) error {
	var count int
	if err := r.db.GetContext(ctx, &count, `SELECT COUNT(1) FROM staff`); err != nil {
		return fmt.Errorf("count staff: %w", err)
	}
	if count > 0 {
		return nil
	}
	for i := range models.DefaultStaff {
		staff := models.DefaultStaff[i]
		if err := r.Create(ctx, &staff); err != nil {
			return err
		}
	}
	return nil
}
