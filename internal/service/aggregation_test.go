package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/minutepro/iep-minutes-api/internal/models"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testRoster() []models.Staff {
	roster := make([]models.Staff, len(models.DefaultStaff))
	copy(roster, models.DefaultStaff)
	return roster
}

func sampleLogs() []models.SessionLog {
	return []models.SessionLog{
		{ID: 1, StudentID: 1, Subject: models.SubjectMath, StaffName: "Ms. Rivera", Minutes: 30, Date: day(2024, time.January, 8)},
		{ID: 2, StudentID: 1, Subject: models.SubjectMath, StaffName: "Mr. Davis", Minutes: 20, Date: day(2024, time.January, 10)},
	}
}

func TestTotalMinutes(t *testing.T) {
	window := models.Window{Start: day(2024, time.January, 8), End: day(2024, time.January, 14)}
	total := TotalMinutes(sampleLogs(), 1, models.SubjectMath, window)
	assert.Equal(t, 50, total)
}

func TestTotalMinutesInclusiveBounds(t *testing.T) {
	logs := []models.SessionLog{
		{StudentID: 1, Subject: models.SubjectMath, StaffName: "Ms. Rivera", Minutes: 10, Date: day(2024, time.January, 7)},
		{StudentID: 1, Subject: models.SubjectMath, StaffName: "Ms. Rivera", Minutes: 20, Date: day(2024, time.January, 8)},
		{StudentID: 1, Subject: models.SubjectMath, StaffName: "Ms. Rivera", Minutes: 30, Date: day(2024, time.January, 14)},
		{StudentID: 1, Subject: models.SubjectMath, StaffName: "Ms. Rivera", Minutes: 40, Date: day(2024, time.January, 15)},
	}
	window := models.Window{Start: day(2024, time.January, 8), End: day(2024, time.January, 14)}
	assert.Equal(t, 50, TotalMinutes(logs, 1, models.SubjectMath, window))
}

func TestTotalMinutesNeverNegative(t *testing.T) {
	logs := []models.SessionLog{
		{StudentID: 1, Subject: models.SubjectMath, StaffName: "Ms. Rivera", Minutes: -15, Date: day(2024, time.January, 9)},
		{StudentID: 1, Subject: models.SubjectMath, StaffName: "Ms. Rivera", Minutes: 25, Date: day(2024, time.January, 9)},
	}
	window := models.Window{Start: day(2024, time.January, 8), End: day(2024, time.January, 14)}
	assert.Equal(t, 25, TotalMinutes(logs, 1, models.SubjectMath, window))
	assert.GreaterOrEqual(t, TotalMinutes(nil, 1, models.SubjectMath, window), 0)
}

func TestTotalMinutesEmptySnapshot(t *testing.T) {
	window := models.Window{Start: day(2024, time.January, 8), End: day(2024, time.January, 14)}
	assert.Zero(t, TotalMinutes(nil, 99, models.SubjectEnglish, window))
}

func TestTotalMinutesIdempotence(t *testing.T) {
	logs := sampleLogs()
	window := models.Window{Start: day(2024, time.January, 8), End: day(2024, time.January, 14)}
	first := TotalMinutes(logs, 1, models.SubjectMath, window)
	second := TotalMinutes(logs, 1, models.SubjectMath, window)
	assert.Equal(t, first, second)
}

func TestFilterByWindowDropsZeroDates(t *testing.T) {
	logs := []models.SessionLog{
		{ID: 1, StudentID: 1, Subject: models.SubjectMath, Minutes: 30, Date: day(2024, time.January, 10)},
		{ID: 2, StudentID: 1, Subject: models.SubjectMath, Minutes: 30},
	}
	window := models.Window{Start: day(2024, time.January, 8), End: day(2024, time.January, 14)}
	filtered := FilterByWindow(logs, window)
	require.Len(t, filtered, 1)
	assert.Equal(t, int64(1), filtered[0].ID)
}

func TestStaffBreakdown(t *testing.T) {
	window := models.Window{Start: day(2024, time.January, 8), End: day(2024, time.January, 14)}
	breakdown := StaffBreakdown(sampleLogs(), 1, models.SubjectMath, window, testRoster())

	require.Len(t, breakdown, len(models.DefaultStaff))
	assert.Equal(t, 30, breakdown["Ms. Rivera"])
	assert.Equal(t, 20, breakdown["Mr. Davis"])
	assert.Zero(t, breakdown["Ms. Chen"])
	assert.Zero(t, breakdown["Mr. Thompson"])
	assert.Zero(t, breakdown["Ms. Patel"])
}

func TestStaffBreakdownIgnoresUnrosteredNames(t *testing.T) {
	logs := append(sampleLogs(), models.SessionLog{
		ID: 3, StudentID: 1, Subject: models.SubjectMath, StaffName: "Mx. Ghost", Minutes: 45, Date: day(2024, time.January, 9),
	})
	window := models.Window{Start: day(2024, time.January, 8), End: day(2024, time.January, 14)}

	breakdown := StaffBreakdown(logs, 1, models.SubjectMath, window, testRoster())
	total := TotalMinutes(logs, 1, models.SubjectMath, window)

	sum := 0
	for _, minutes := range breakdown {
		sum += minutes
	}
	assert.Equal(t, 50, sum)
	assert.Equal(t, 95, total)
	assert.LessOrEqual(t, sum, total)
	assert.NotContains(t, breakdown, "Mx. Ghost")
}

func TestStaffBreakdownSumsToTotalWithFullRoster(t *testing.T) {
	logs := sampleLogs()
	window := models.Window{Start: day(2024, time.January, 8), End: day(2024, time.January, 14)}

	breakdown := StaffBreakdown(logs, 1, models.SubjectMath, window, testRoster())
	sum := 0
	for _, minutes := range breakdown {
		sum += minutes
	}
	assert.Equal(t, TotalMinutes(logs, 1, models.SubjectMath, window), sum)
}

func TestTeamSummary(t *testing.T) {
	logs := append(sampleLogs(),
		models.SessionLog{ID: 3, StudentID: 2, Subject: models.SubjectEnglish, StaffName: "Ms. Chen", Minutes: 40, Date: day(2024, time.January, 11)},
		models.SessionLog{ID: 4, StudentID: 3, Subject: models.SubjectTaskCompletion, StaffName: "Mx. Ghost", Minutes: 15, Date: day(2024, time.January, 12)},
		models.SessionLog{ID: 5, StudentID: 2, Subject: models.SubjectEnglish, StaffName: "Ms. Chen", Minutes: 25, Date: day(2024, time.February, 1)},
	)
	window := models.Window{Start: day(2024, time.January, 8), End: day(2024, time.January, 14)}

	grandTotal, perStaff := TeamSummary(logs, testRoster(), window)

	// Unrostered minutes count toward the grand total but get no bucket.
	assert.Equal(t, 105, grandTotal)
	assert.Equal(t, 30, perStaff["Ms. Rivera"])
	assert.Equal(t, 20, perStaff["Mr. Davis"])
	assert.Equal(t, 40, perStaff["Ms. Chen"])
	assert.NotContains(t, perStaff, "Mx. Ghost")
}

func TestTeamSummaryEmptyCollections(t *testing.T) {
	window := models.Window{Start: day(2024, time.January, 8), End: day(2024, time.January, 14)}
	grandTotal, perStaff := TeamSummary(nil, nil, window)
	assert.Zero(t, grandTotal)
	assert.Empty(t, perStaff)
}
