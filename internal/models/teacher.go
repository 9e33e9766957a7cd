package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TeacherPosition enumerates academic positions.
type TeacherPosition string

const (
	PositionDepartmentHead TeacherPosition = "department_head"
	PositionDeputyHead     TeacherPosition = "deputy_head"
	PositionSectionHead    TeacherPosition = "section_head"
	PositionLecturer       TeacherPosition = "lecturer"
	PositionAssistant      TeacherPosition = "assistant"
)

var positionCoefficients = map[TeacherPosition]decimal.Decimal{
	PositionDepartmentHead: decimal.RequireFromString("1.5"),
	PositionDeputyHead:     decimal.RequireFromString("1.3"),
	PositionSectionHead:    decimal.RequireFromString("1.2"),
	PositionLecturer:       decimal.NewFromInt(1),
	PositionAssistant:      decimal.RequireFromString("0.8"),
}

// Valid reports whether the position is one of the known values.
func (p TeacherPosition) Valid() bool {
	_, ok := positionCoefficients[p]
	return ok
}

// PositionCoefficient returns the salary multiplier for a position, 1.0 when unknown.
func PositionCoefficient(p TeacherPosition) decimal.Decimal {
	if coef, ok := positionCoefficients[p]; ok {
		return coef
	}
	return decimal.NewFromInt(1)
}

// Teacher represents a lecturer employed by the university.
type Teacher struct {
	ID           string              `db:"id" json:"id"`
	Code         string              `db:"code" json:"code"`
	FullName     string              `db:"full_name" json:"full_name"`
	Email        string              `db:"email" json:"email"`
	Phone        *string             `db:"phone" json:"phone,omitempty"`
	DepartmentID string              `db:"department_id" json:"department_id"`
	DegreeID     string              `db:"degree_id" json:"degree_id"`
	Position     TeacherPosition     `db:"position" json:"position"`
	HireDate     time.Time           `db:"hire_date" json:"hire_date"`
	Rating       decimal.NullDecimal `db:"rating" json:"rating"`
	Active       bool                `db:"active" json:"active"`
	CreatedAt    time.Time           `db:"created_at" json:"created_at"`
	UpdatedAt    time.Time           `db:"updated_at" json:"updated_at"`
}

// TeacherProfile is a teacher joined with the degree data needed for payroll.
type TeacherProfile struct {
	Teacher
	DegreeName        string          `db:"degree_name" json:"degree_name"`
	DegreeCoefficient decimal.Decimal `db:"degree_coefficient" json:"degree_coefficient"`
	DepartmentName    string          `db:"department_name" json:"department_name"`
}

// TeacherFilter captures filtering options for listing teachers.
type TeacherFilter struct {
	ListFilter
	DepartmentID string
	Position     TeacherPosition
	Active       *bool
}

// YearsOfService returns the number of full years between hireDate and at.
func YearsOfService(hireDate, at time.Time) int {
	if hireDate.IsZero() || at.Before(hireDate) {
		return 0
	}
	years := at.Year() - hireDate.Year()
	anniversary := hireDate.AddDate(years, 0, 0)
	if anniversary.After(at) {
		years--
	}
	if years < 0 {
		return 0
	}
	return years
}
