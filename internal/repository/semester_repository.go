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

const semesterColumns = "id, academic_year_id, name, number, start_date, end_date, is_current, created_at, updated_at"

// SemesterRepository manages persistence for semesters.
type SemesterRepository struct {
	db *sqlx.DB
}

// NewSemesterRepository constructs a SemesterRepository.
func NewSemesterRepository(db *sqlx.DB) *SemesterRepository {
	return &SemesterRepository{db: db}
}

// List returns semesters matching filters along with total count.
func (r *SemesterRepository) List(ctx context.Context, filter models.SemesterFilter) ([]models.Semester, int, error) {
	var conds conditionSet
	if filter.AcademicYearID != "" {
		conds.add("academic_year_id = ?", filter.AcademicYearID)
	}
	conds.addSearch(filter.Search, "name")
	base := conds.apply("FROM semesters WHERE 1=1")

	order := orderAndPage(filter.ListFilter, map[string]string{
		"number":     "number",
		"start_date": "start_date",
		"created_at": "created_at",
	}, "start_date")

	query := fmt.Sprintf("SELECT %s %s %s", semesterColumns, base, order)
	var semesters []models.Semester
	if err := r.db.SelectContext(ctx, &semesters, query, conds.args...); err != nil {
		return nil, 0, fmt.Errorf("list semesters: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, conds.args...); err != nil {
		return nil, 0, fmt.Errorf("count semesters: %w", err)
	}
	return semesters, total, nil
}

// FindByID fetches a semester by ID.
func (r *SemesterRepository) FindByID(ctx context.Context, id string) (*models.Semester, error) {
	query := fmt.Sprintf("SELECT %s FROM semesters WHERE id = $1", semesterColumns)
	var semester models.Semester
	if err := r.db.GetContext(ctx, &semester, query, id); err != nil {
		return nil, err
	}
	return &semester, nil
}

// ExistsByNumber checks whether the academic year already has a semester with the number.
func (r *SemesterRepository) ExistsByNumber(ctx context.Context, academicYearID string, number int, excludeID string) (bool, error) {
	query := "SELECT 1 FROM semesters WHERE academic_year_id = $1 AND number = $2"
	args := []interface{}{academicYearID, number}
	if excludeID != "" {
		query += " AND id <> $3"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check semester number: %w", err)
	}
	return true, nil
}

// Create inserts a semester.
func (r *SemesterRepository) Create(ctx context.Context, semester *models.Semester) (err error) {
	if semester.ID == "" {
		semester.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	semester.CreatedAt = now
	semester.UpdatedAt = now

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin semester tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `INSERT INTO semesters (id, academic_year_id, name, number, start_date, end_date, is_current, created_at, updated_at)
		VALUES (:id, :academic_year_id, :name, :number, :start_date, :end_date, :is_current, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, query, semester); err != nil {
		return fmt.Errorf("create semester: %w", err)
	}
	if semester.IsCurrent {
		if err = clearCurrent(ctx, tx, "semesters", semester.ID); err != nil {
			return err
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit semester: %w", err)
	}
	return nil
}

// Update modifies a semester.
func (r *SemesterRepository) Update(ctx context.Context, semester *models.Semester) (err error) {
	semester.UpdatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin semester tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `UPDATE semesters SET academic_year_id = :academic_year_id, name = :name, number = :number, start_date = :start_date, end_date = :end_date, is_current = :is_current, updated_at = :updated_at WHERE id = :id`
	if _, err = tx.NamedExecContext(ctx, query, semester); err != nil {
		return fmt.Errorf("update semester: %w", err)
	}
	if semester.IsCurrent {
		if err = clearCurrent(ctx, tx, "semesters", semester.ID); err != nil {
			return err
		}
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit semester: %w", err)
	}
	return nil
}

// Delete removes a semester permanently.
func (r *SemesterRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM semesters WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete semester: %w", err)
	}
	return nil
}

// CountDependents returns how many classes, assignments and calculations reference the semester.
func (r *SemesterRepository) CountDependents(ctx context.Context, id string) (int, error) {
	return countReferences(ctx, r.db, id,
		reference{"classes", "semester_id"},
		reference{"teaching_assignments", "semester_id"},
		reference{"salary_calculations", "semester_id"},
	)
}
