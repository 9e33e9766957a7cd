package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// DegreeLevel enumerates academic degree levels.
type DegreeLevel string

const (
	DegreeLevelBachelor  DegreeLevel = "bachelor"
	DegreeLevelMaster    DegreeLevel = "master"
	DegreeLevelDoctor    DegreeLevel = "doctor"
	DegreeLevelProfessor DegreeLevel = "professor"
)

// Degree carries the salary coefficient attached to a qualification.
type Degree struct {
	ID          string          `db:"id" json:"id"`
	Code        string          `db:"code" json:"code"`
	Name        string          `db:"name" json:"name"`
	Level       DegreeLevel     `db:"level" json:"level"`
	Coefficient decimal.Decimal `db:"coefficient" json:"coefficient"`
	CreatedAt   time.Time       `db:"created_at" json:"created_at"`
	UpdatedAt   time.Time       `db:"updated_at" json:"updated_at"`
}
