package models

import "time"

// SubjectType classifies subjects for rate scoping.
type SubjectType string

const (
	SubjectTypeTheory   SubjectType = "theory"
	SubjectTypePractice SubjectType = "practice"
	SubjectTypeMixed    SubjectType = "mixed"
)

// Subject represents a course in the catalogue.
type Subject struct {
	ID            string      `db:"id" json:"id"`
	Code          string      `db:"code" json:"code"`
	Name          string      `db:"name" json:"name"`
	DepartmentID  string      `db:"department_id" json:"department_id"`
	Credits       int         `db:"credits" json:"credits"`
	SubjectType   SubjectType `db:"subject_type" json:"subject_type"`
	TheoryHours   int         `db:"theory_hours" json:"theory_hours"`
	PracticeHours int         `db:"practice_hours" json:"practice_hours"`
	CreatedAt     time.Time   `db:"created_at" json:"created_at"`
	UpdatedAt     time.Time   `db:"updated_at" json:"updated_at"`
}

// SubjectFilter captures supported filters for listing subjects.
type SubjectFilter struct {
	ListFilter
	DepartmentID string
	SubjectType  SubjectType
}
