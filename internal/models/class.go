package models

import (
	"database/sql/driver"
	"time"

	"github.com/shopspring/decimal"
)

// ClassType classifies a class offering for rate scoping.
type ClassType string

const (
	ClassTypeLecture  ClassType = "lecture"
	ClassTypePractice ClassType = "practice"
	ClassTypeLab      ClassType = "lab"
	ClassTypeSeminar  ClassType = "seminar"
)

// ClassStatus captures the lifecycle of a class offering.
type ClassStatus string

const (
	ClassStatusPlanned   ClassStatus = "planned"
	ClassStatusOpen      ClassStatus = "open"
	ClassStatusClosed    ClassStatus = "closed"
	ClassStatusCancelled ClassStatus = "cancelled"
)

// ClassSession is one weekly slot of a class schedule. Periods are 1-based.
type ClassSession struct {
	DayOfWeek    int    `json:"day_of_week" validate:"min=1,max=7"`
	StartPeriod  int    `json:"start_period" validate:"min=1"`
	PeriodsCount int    `json:"periods_count" validate:"min=1"`
	Room         string `json:"room,omitempty"`
}

// EndPeriod returns the last period occupied by the session (inclusive).
func (s ClassSession) EndPeriod() int {
	return s.StartPeriod + s.PeriodsCount - 1
}

// Overlaps reports whether two sessions share a day and an overlapping period range.
func (s ClassSession) Overlaps(other ClassSession) bool {
	if s.DayOfWeek != other.DayOfWeek {
		return false
	}
	return s.StartPeriod <= other.EndPeriod() && s.EndPeriod() >= other.StartPeriod
}

// ClassSchedule is the weekly timetable of a class stored as JSONB.
type ClassSchedule []ClassSession

// Value marshals the schedule for persistence.
func (s ClassSchedule) Value() (driver.Value, error) {
	if s == nil {
		s = ClassSchedule{}
	}
	return marshalJSONColumn(s, "class schedule")
}

// Scan unmarshals the schedule from a JSONB column.
func (s *ClassSchedule) Scan(value interface{}) error {
	*s = ClassSchedule{}
	return scanJSONColumn(value, s, "class schedule")
}

// Class is a scheduled offering of a subject within a semester.
type Class struct {
	ID               string        `db:"id" json:"id"`
	Code             string        `db:"code" json:"code"`
	Name             string        `db:"name" json:"name"`
	SubjectID        string        `db:"subject_id" json:"subject_id"`
	SemesterID       string        `db:"semester_id" json:"semester_id"`
	AcademicYearID   string        `db:"academic_year_id" json:"academic_year_id"`
	ClassType        ClassType     `db:"class_type" json:"class_type"`
	MaxStudents      int           `db:"max_students" json:"max_students"`
	EnrolledStudents int           `db:"enrolled_students" json:"enrolled_students"`
	Schedule         ClassSchedule `db:"schedule" json:"schedule"`
	StartDate        time.Time     `db:"start_date" json:"start_date"`
	EndDate          time.Time     `db:"end_date" json:"end_date"`
	Status           ClassStatus   `db:"status" json:"status"`
	CreatedAt        time.Time     `db:"created_at" json:"created_at"`
	UpdatedAt        time.Time     `db:"updated_at" json:"updated_at"`
}

// ClassDetail enriches a class with subject data used by payroll snapshots.
type ClassDetail struct {
	Class
	SubjectName string      `db:"subject_name" json:"subject_name"`
	SubjectType SubjectType `db:"subject_type" json:"subject_type"`
}

// ClassFilter defines filter criteria for listing classes.
type ClassFilter struct {
	ListFilter
	SemesterID     string
	AcademicYearID string
	SubjectID      string
	ClassType      ClassType
}

// EnrollmentPercentage returns enrolled/max as a percentage rounded to two places.
func EnrollmentPercentage(enrolled, max int) decimal.Decimal {
	if max <= 0 {
		return decimal.Zero
	}
	return decimal.NewFromInt(int64(enrolled)).
		Mul(decimal.NewFromInt(100)).
		Div(decimal.NewFromInt(int64(max))).
		Round(2)
}
