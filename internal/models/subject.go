package models

// Subject identifies one of the service-delivery areas tracked per student.
type Subject string

const (
	SubjectMath           Subject = "Math"
	SubjectEnglish        Subject = "English"
	SubjectTaskCompletion Subject = "Task Completion"
)

// Subjects returns the closed set of tracked subjects in display order.
func Subjects() []Subject {
	return []Subject{SubjectMath, SubjectEnglish, SubjectTaskCompletion}
}

// Valid returns true when the subject is a supported value.
func (s Subject) Valid() bool {
	switch s {
	case SubjectMath, SubjectEnglish, SubjectTaskCompletion:
		return true
	default:
		return false
	}
}

// Grade identifies a supported grade level.
type Grade string

const (
	Grade6 Grade = "6th"
	Grade7 Grade = "7th"
	Grade8 Grade = "8th"
)

// Grades returns the closed set of grade levels.
func Grades() []Grade {
	return []Grade{Grade6, Grade7, Grade8}
}

// Valid returns true when the grade is a supported value.
func (g Grade) Valid() bool {
	switch g {
	case Grade6, Grade7, Grade8:
		return true
	default:
		return false
	}
}
