package models

import "time"

// DefaultWeeklyGoal is the fallback applied when a student record carries no
// goal for a subject.
const DefaultWeeklyGoal = 60

// DefaultGoals are the per-subject weekly-minute defaults applied when a
// student is created without explicit goals.
var DefaultGoals = map[Subject]int{
	SubjectMath:           60,
	SubjectEnglish:        90,
	SubjectTaskCompletion: 45,
}

// Student represents a learner receiving tracked service minutes. Goals are
// nullable so that legacy rows without a value fall back to
// DefaultWeeklyGoal instead of failing.
type Student struct {
	ID                 int64     `db:"id" json:"id"`
	Name               string    `db:"name" json:"name"`
	Grade              Grade     `db:"grade" json:"grade"`
	ActiveSubject      Subject   `db:"active_subject" json:"active_subject"`
	GoalMath           *int      `db:"goal_math" json:"goal_math,omitempty"`
	GoalEnglish        *int      `db:"goal_english" json:"goal_english,omitempty"`
	GoalTaskCompletion *int      `db:"goal_task_completion" json:"goal_task_completion,omitempty"`
	CreatedAt          time.Time `db:"created_at" json:"created_at"`
	UpdatedAt          time.Time `db:"updated_at" json:"updated_at"`
}

// Goal returns the stored weekly goal for the subject, or nil when the
// record carries none or the subject is unrecognized.
func (s Student) Goal(subject Subject) *int {
	switch subject {
	case SubjectMath:
		return s.GoalMath
	case SubjectEnglish:
		return s.GoalEnglish
	case SubjectTaskCompletion:
		return s.GoalTaskCompletion
	default:
		return nil
	}
}

// SetGoal stores the weekly goal for the subject. Unrecognized subjects are
// ignored.
func (s *Student) SetGoal(subject Subject, minutes int) {
	switch subject {
	case SubjectMath:
		s.GoalMath = &minutes
	case SubjectEnglish:
		s.GoalEnglish = &minutes
	case SubjectTaskCompletion:
		s.GoalTaskCompletion = &minutes
	}
}

// StudentFilter encapsulates allowed search parameters for listing students.
type StudentFilter struct {
	Grade  Grade
	Search string
}
