package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/uni-payroll-api/internal/models"
)

const academicYearColumns = "id, code, name, start_date, end_date, is_current, created_at, updated_at"

// AcademicYearRepository manages persistence for academic years.
type AcademicYearRepository struct {
	db *sqlx.DB
}

// NewAcademicYearRepository constructs an AcademicYearRepository.
func NewAcademicYearRepository(db *sqlx.DB) *AcademicYearRepository {
	return &AcademicYearRepository{db: db}
}

// List returns academic years along with total count.
func (r *AcademicYearRepository) List(ctx context.Context, filter models.ListFilter) ([]models.AcademicYear, int, error) {
	var conds conditionSet
	conds.addSearch(filter.Search, "code", "name")
	base := conds.apply("FROM academic_years WHERE 1=1")

	order := orderAndPage(filter, map[string]string{
		"code":       "code",
		"start_date": "start_date",
		"created_at": "created_at",
	}, "start_date")

	query := fmt.Sprintf("SELECT %s %s %s", academicYearColumns, base, order)
	var years []models.AcademicYear
	if err := r.db.SelectContext(ctx, &years, query, conds.args...); err != nil {
		return nil, 0, fmt.Errorf("list academic years: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, conds.args...); err != nil {
		return nil, 0, fmt.Errorf("count academic years: %w", err)
	}
	return years, total, nil
}

// FindByID fetches an academic year by ID.
func (r *AcademicYearRepository) FindByID(ctx context.Context, id string) (*models.AcademicYear, error) {
	query := fmt.Sprintf("SELECT %s FROM academic_years WHERE id = $1", academicYearColumns)
	var year models.AcademicYear
	if err := r.db.GetContext(ctx, &year, query, id); err != nil {
		return nil, err
	}
	return &year, nil
}

// ExistsByCode checks whether another academic year uses the code.
func (r *AcademicYearRepository) ExistsByCode(ctx context.Context, code, excludeID string) (bool, error) {
	query := "SELECT 1 FROM academic_years WHERE code = $1"
	args := []interface{}{code}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check academic year code: %w", err)
	}
	return true, nil
}

// Create inserts an academic year. Marking it current clears the flag on the others.
func (r *AcademicYearRepository) Create(ctx context.Context, year *models.AcademicYear) (err error) {
	if year.ID == "" {
		year.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	year.CreatedAt = now
	year.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin academic year tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `INSERT INTO academic_years (id, code, name, start_date, end_date, is_current, created_at, updated_at)
		VALUES (:id, :code, :name, :start_date, :end_date, :is_current, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, query, year); err != nil {
		return fmt.Errorf("create academic year: %w", err)
	}
	if year.IsCurrent {
		if err = clearCurrent(ctx, tx, "academic_years", year.ID); err != nil {
			return err
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit academic year: %w", err)
	}
	return nil
}

// Update modifies an academic year.
func (r *AcademicYearRepository) Update(ctx context.Context, year *models.AcademicYear) (err error) {
	year.UpdatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin academic year tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `UPDATE academic_years SET code = :code, name = :name, start_date = :start_date, end_date = :end_date, is_current = :is_current, updated_at = :updated_at WHERE id = :id`
	if _, err = tx.NamedExecContext(ctx, query, year); err != nil {
		return fmt.Errorf("update academic year: %w", err)
	}
	if year.IsCurrent {
		if err = clearCurrent(ctx, tx, "academic_years", year.ID); err != nil {
			return err
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit academic year: %w", err)
	}
	return nil
}

// Delete removes an academic year permanently.
func (r *AcademicYearRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM academic_years WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete academic year: %w", err)
	}
	return nil
}

// CountDependents returns how many semesters, classes, assignments and calculations reference the year.
func (r *AcademicYearRepository) CountDependents(ctx context.Context, id string) (int, error) {
	return countReferences(ctx, r.db, id,
		reference{"semesters", "academic_year_id"},
		reference{"classes", "academic_year_id"},
		reference{"teaching_assignments", "academic_year_id"},
		reference{"salary_calculations", "academic_year_id"},
	)
}

// clearCurrent unsets is_current on every row of table except keepID.
func clearCurrent(ctx context.Context, tx *sqlx.Tx, table, keepID string) error {
	query := fmt.Sprintf("UPDATE %s SET is_current = FALSE, updated_at = $1 WHERE is_current = TRUE AND id <> $2", table)
	if _, err := tx.ExecContext(ctx, query, time.Now().UTC(), keepID); err != nil {
		return fmt.Errorf("clear current %s: %w", table, err)
	}
	return nil
}
