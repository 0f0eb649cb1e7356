package dto

import "github.com/minutepro/iep-minutes-api/internal/models"

// CreateStaffRequest adds a staff member to the roster.
type CreateStaffRequest struct {
	Name  string `json:"name" binding:"required,min=1,max=120"`
	Color string `json:"color" binding:"omitempty,hexcolor"`
}

// RenameStaffRequest changes a staff member's display name.
type RenameStaffRequest struct {
	Name string `json:"name" binding:"required,min=1,max=120"`
}

// RenameStaffResponse reports the rename outcome, including how many
// session log rows were rewritten to the new name.
type RenameStaffResponse struct {
	Staff         models.Staff `json:"staff"`
	LogsRewritten int64        `json:"logsRewritten"`
}

// CreateStudentRequest adds a student. Omitted goals receive the
// per-subject defaults.
type CreateStudentRequest struct {
	Name               string         `json:"name" binding:"required,min=1,max=120" validate:"required,min=1,max=120"`
	Grade              models.Grade   `json:"grade" binding:"required" validate:"required"`
	ActiveSubject      models.Subject `json:"activeSubject"`
	GoalMath           *int           `json:"goalMath" binding:"omitempty,min=0,max=10000" validate:"omitempty,min=0,max=10000"`
	GoalEnglish        *int           `json:"goalEnglish" binding:"omitempty,min=0,max=10000" validate:"omitempty,min=0,max=10000"`
	GoalTaskCompletion *int           `json:"goalTaskCompletion" binding:"omitempty,min=0,max=10000" validate:"omitempty,min=0,max=10000"`
}

// UpdateStudentRequest patches a student record. Nil fields keep their
// current value.
type UpdateStudentRequest struct {
	Name               *string         `json:"name" binding:"omitempty,min=1,max=120" validate:"omitempty,min=1,max=120"`
	Grade              *models.Grade   `json:"grade"`
	ActiveSubject      *models.Subject `json:"activeSubject"`
	GoalMath           *int            `json:"goalMath" binding:"omitempty,min=0,max=10000" validate:"omitempty,min=0,max=10000"`
	GoalEnglish        *int            `json:"goalEnglish" binding:"omitempty,min=0,max=10000" validate:"omitempty,min=0,max=10000"`
	GoalTaskCompletion *int            `json:"goalTaskCompletion" binding:"omitempty,min=0,max=10000" validate:"omitempty,min=0,max=10000"`
}

// DeleteStudentResponse reports the delete outcome. Session logs are not
// cascaded; the count of rows left orphaned is surfaced so callers can
// audit them.
type DeleteStudentResponse struct {
	Deleted      bool `json:"deleted"`
	OrphanedLogs int  `json:"orphanedLogs"`
}

// LogSessionRequest records delivered minutes for one or more students in
// a single action.
type LogSessionRequest struct {
	StudentIDs []int64        `json:"studentIds" binding:"required,min=1,dive,min=1" validate:"required,min=1,dive,min=1"`
	Subject    models.Subject `json:"subject" binding:"required" validate:"required"`
	StaffName  string         `json:"staffName" binding:"required" validate:"required"`
	Minutes    int            `json:"minutes" binding:"required,min=1,max=1440" validate:"required,min=1,max=1440"`
	Date       string         `json:"date" binding:"required" validate:"required"`
	Note       string         `json:"note" binding:"omitempty,max=500" validate:"omitempty,max=500"`
}

// ImportResult summarizes a legacy CSV import: rows whose minutes could
// not be parsed are coerced to zero, rows whose date could not be parsed
// are skipped.
type ImportResult struct {
	Imported     int `json:"imported"`
	CoercedZero  int `json:"coercedZero"`
	SkippedRows  int `json:"skippedRows"`
	UnknownStaff int `json:"unknownStaff"`
}
