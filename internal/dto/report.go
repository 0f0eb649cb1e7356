package dto

import "github.com/minutepro/iep-minutes-api/internal/models"

// WindowRange echoes the inclusive date range a report was computed over.
type WindowRange struct {
	Start string `json:"start"`
	End   string `json:"end"`
}

// StaffMinutes is one roster bucket in a breakdown, carrying the staff
// display color for charting.
type StaffMinutes struct {
	Name    string `json:"name"`
	Color   string `json:"color"`
	Minutes int    `json:"minutes"`
}

// TeamSummaryResponse is the team-wide minutes report across all students
// and subjects.
type TeamSummaryResponse struct {
	Window     WindowRange    `json:"window"`
	GrandTotal int            `json:"grandTotal"`
	PerStaff   []StaffMinutes `json:"perStaff"`
}

// StudentProgressResponse reports one student's delivered minutes against
// their weekly goal for a subject.
type StudentProgressResponse struct {
	StudentID    int64          `json:"studentId"`
	StudentName  string         `json:"studentName"`
	Subject      models.Subject `json:"subject"`
	Window       WindowRange    `json:"window"`
	TotalMinutes int            `json:"totalMinutes"`
	Goal         int            `json:"goal"`
	GoalMet      bool           `json:"goalMet"`
	Progress     float64        `json:"progress"`
	Breakdown    []StaffMinutes `json:"breakdown"`
}

// GoalSeriesRow is one week of the goal-attainment time series: for each
// subject, how many students met their weekly goal in that window.
type GoalSeriesRow struct {
	Week   string                 `json:"week"`
	Start  string                 `json:"start"`
	End    string                 `json:"end"`
	Counts map[models.Subject]int `json:"counts"`
}

// GoalSeriesResponse is the chronological series for one calendar month.
type GoalSeriesResponse struct {
	Month    string          `json:"month"`
	Students int             `json:"students"`
	Rows     []GoalSeriesRow `json:"rows"`
}

// ExportRequest asks for an asynchronous report export.
type ExportRequest struct {
	Type   models.ReportType   `json:"type" binding:"required"`
	Format models.ReportFormat `json:"format" binding:"required"`
	Start  string              `json:"start"`
	End    string              `json:"end"`
	Month  string              `json:"month"`
}

// ExportJobResponse acknowledges job creation.
type ExportJobResponse struct {
	ID     string              `json:"id"`
	Status models.ReportStatus `json:"status"`
}

// ExportStatusResponse reports background job progress.
type ExportStatusResponse struct {
	ID          string              `json:"id"`
	Type        models.ReportType   `json:"type"`
	Status      models.ReportStatus `json:"status"`
	DownloadURL *string             `json:"downloadUrl,omitempty"`
	Error       *string             `json:"error,omitempty"`
}
