package service

import "github.com/minutepro/iep-minutes-api/internal/models"

// EffectiveGoal resolves the weekly-minute target for a student and
// subject. Records without a stored goal, and unrecognized subjects, fall
// back to the default rather than erroring.
func EffectiveGoal(student models.Student, subject models.Subject) int {
	if goal := student.Goal(subject); goal != nil {
		return *goal
	}
	return models.DefaultWeeklyGoal
}

// GoalMet reports whether the delivered minutes reach the goal. A goal of
// zero is trivially met by any non-negative total.
func GoalMet(totalMinutes, goal int) bool {
	return totalMinutes >= goal
}

// ProgressFraction returns delivered/goal capped at 1. A non-positive goal
// yields 0 rather than dividing by zero.
func ProgressFraction(totalMinutes, goal int) float64 {
	if goal <= 0 {
		return 0
	}
	fraction := float64(totalMinutes) / float64(goal)
	if fraction > 1 {
		return 1
	}
	return fraction
}
