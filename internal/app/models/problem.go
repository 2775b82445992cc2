package models

import "time"

// ProblemStatus represents the lifecycle status of a problem
type ProblemStatus string

const (
	ProblemStatusOpen       ProblemStatus = "OPEN"
	ProblemStatusInProgress ProblemStatus = "IN_PROGRESS"
	ProblemStatusResolved   ProblemStatus = "RESOLVED"
	ProblemStatusClosed     ProblemStatus = "CLOSED"
)

// ValidProblemStatus reports whether the given value is a known status.
func ValidProblemStatus(s ProblemStatus) bool {
	switch s {
	case ProblemStatusOpen, ProblemStatusInProgress, ProblemStatusResolved, ProblemStatusClosed:
		return true
	}
	return false
}

// Problem represents a student-authored help request
type Problem struct {
	ID          int64         `json:"id" db:"id"`
	StudentID   int64         `json:"studentId" db:"student_id"`
	Title       string        `json:"title" db:"title"`
	Description string        `json:"description" db:"description"`
	Tags        []string      `json:"tags" db:"tags"`
	Status      ProblemStatus `json:"status" db:"status"`
	MentorID    *int64        `json:"mentorId,omitempty" db:"mentor_id"` // Assigned mentor, nil while unassigned
	CreatedAt   time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time     `json:"updatedAt" db:"updated_at"`

	// Related entities
	Student *User `json:"student,omitempty"`
	Mentor  *User `json:"mentor,omitempty"`
}
