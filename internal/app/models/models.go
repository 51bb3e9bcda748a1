package models

// SubjectStatus is the classification of a subject for one student
type SubjectStatus string

const (
	StatusPursuing  SubjectStatus = "pursuing"
	StatusCompleted SubjectStatus = "completed"
	// StatusPending is derived; it is never stored
	StatusPending SubjectStatus = "pending"
)

// Faculty assignment statuses stored in faculty_student.status
const (
	FacultyStatusPursuing  = string(StatusPursuing)
	FacultyStatusCompleted = string(StatusCompleted)
)
