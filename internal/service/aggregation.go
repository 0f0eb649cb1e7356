package service

import (
	"github.com/minutepro/iep-minutes-api/internal/models"
)

// The aggregation core is pure computation over immutable log snapshots.
// Every report request re-reads the collections it needs and runs these
// functions in memory; nothing here touches I/O or fails.

// FilterByWindow keeps rows whose date falls inside the window, inclusive
// on both ends. Rows with a zero date are dropped.
func FilterByWindow(logs []models.SessionLog, window models.Window) []models.SessionLog {
	filtered := make([]models.SessionLog, 0, len(logs))
	for _, log := range logs {
		if window.Contains(log.Date) {
			filtered = append(filtered, log)
		}
	}
	return filtered
}

// TotalMinutes sums minutes over rows matching the student, subject and
// window. Negative minute values are clamped to zero so a bad row can
// never drag the total below zero.
func TotalMinutes(logs []models.SessionLog, studentID int64, subject models.Subject, window models.Window) int {
	total := 0
	for _, log := range logs {
		if log.StudentID != studentID || log.Subject != subject {
			continue
		}
		if !window.Contains(log.Date) {
			continue
		}
		if log.Minutes > 0 {
			total += log.Minutes
		}
	}
	return total
}

// StaffBreakdown buckets the matching minutes by staff name. Every roster
// member gets a bucket, zero or not. Log rows referencing names absent
// from the roster contribute to no bucket: renamed or removed staff must
// not silently reappear in reports.
func StaffBreakdown(logs []models.SessionLog, studentID int64, subject models.Subject, window models.Window, roster []models.Staff) map[string]int {
	breakdown := make(map[string]int, len(roster))
	for _, staff := range roster {
		breakdown[staff.Name] = 0
	}
	for _, log := range logs {
		if log.StudentID != studentID || log.Subject != subject {
			continue
		}
		if !window.Contains(log.Date) {
			continue
		}
		if _, ok := breakdown[log.StaffName]; !ok {
			continue
		}
		if log.Minutes > 0 {
			breakdown[log.StaffName] += log.Minutes
		}
	}
	return breakdown
}

// TeamSummary aggregates across all students and subjects at once. The
// grand total counts every in-window row, rostered or not; the per-staff
// map follows the same roster rules as StaffBreakdown.
func TeamSummary(logs []models.SessionLog, roster []models.Staff, window models.Window) (int, map[string]int) {
	perStaff := make(map[string]int, len(roster))
	for _, staff := range roster {
		perStaff[staff.Name] = 0
	}
	grandTotal := 0
	for _, log := range logs {
		if !window.Contains(log.Date) {
			continue
		}
		if log.Minutes <= 0 {
			continue
		}
		grandTotal += log.Minutes
		if _, ok := perStaff[log.StaffName]; ok {
			perStaff[log.StaffName] += log.Minutes
		}
	}
	return grandTotal, perStaff
}
