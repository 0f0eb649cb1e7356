package service

import (
	"github.com/minutepro/iep-minutes-api/internal/dto"
	"github.com/minutepro/iep-minutes-api/internal/models"
)

// GoalSeries builds the weekly goal-attainment time series: for each week
// window and each subject, the number of students whose delivered minutes
// in that week reach their effective goal. Weeks come in chronological
// order; an empty student collection yields all-zero counts.
func GoalSeries(students []models.Student, logs []models.SessionLog, weeks []models.WeekWindow) []dto.GoalSeriesRow {
	rows := make([]dto.GoalSeriesRow, 0, len(weeks))
	for _, week := range weeks {
		counts := make(map[models.Subject]int, len(models.Subjects()))
		for _, subject := range models.Subjects() {
			met := 0
			for _, student := range students {
				total := TotalMinutes(logs, student.ID, subject, week.Window)
				if GoalMet(total, EffectiveGoal(student, subject)) {
					met++
				}
			}
			counts[subject] = met
		}
		rows = append(rows, dto.GoalSeriesRow{
			Week:   week.Label,
			Start:  week.Start.Format(models.DateLayout),
			End:    week.End.Format(models.DateLayout),
			Counts: counts,
		})
	}
	return rows
}
