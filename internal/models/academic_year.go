package models

import "time"

// AcademicYear is the top-level partition of the academic calendar.
type AcademicYear struct {
	ID        string    `db:"id" json:"id"`
	Code      string    `db:"code" json:"code"`
	Name      string    `db:"name" json:"name"`
	StartDate time.Time `db:"start_date" json:"start_date"`
	EndDate   time.Time `db:"end_date" json:"end_date"`
	IsCurrent bool      `db:"is_current" json:"is_current"`
	CreatedAt time.Time `db:"created_at" json:"created_at"`
	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// Contains reports whether at falls inside the academic year.
func (y AcademicYear) Contains(at time.Time) bool {
	return !at.Before(y.StartDate) && !at.After(y.EndDate)
}
