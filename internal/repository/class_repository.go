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

const classColumns = "id, code, name, subject_id, semester_id, academic_year_id, class_type, max_students, enrolled_students, schedule, start_date, end_date, status, created_at, updated_at"

// ClassRepository handles persistence for classes.
type ClassRepository struct {
	db *sqlx.DB
}

// NewClassRepository returns a new class repository.
func NewClassRepository(db *sqlx.DB) *ClassRepository {
	return &ClassRepository{db: db}
}

// List returns classes matching filters along with total count.
func (r *ClassRepository) List(ctx context.Context, filter models.ClassFilter) ([]models.Class, int, error) {
	var conds conditionSet
	if filter.SemesterID != "" {
		conds.add("semester_id = ?", filter.SemesterID)
	}
	if filter.AcademicYearID != "" {
		conds.add("academic_year_id = ?", filter.AcademicYearID)
	}
	if filter.SubjectID != "" {
		conds.add("subject_id = ?", filter.SubjectID)
	}
	if filter.ClassType != "" {
		conds.add("class_type = ?", string(filter.ClassType))
	}
	conds.addSearch(filter.Search, "code", "name")
	base := conds.apply("FROM classes WHERE 1=1")

	order := orderAndPage(filter.ListFilter, map[string]string{
		"code":       "code",
		"name":       "name",
		"start_date": "start_date",
		"created_at": "created_at",
	}, "code")

	query := fmt.Sprintf("SELECT %s %s %s", classColumns, base, order)
	var classes []models.Class
	if err := r.db.SelectContext(ctx, &classes, query, conds.args...); err != nil {
		return nil, 0, fmt.Errorf("list classes: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, conds.args...); err != nil {
		return nil, 0, fmt.Errorf("count classes: %w", err)
	}
	return classes, total, nil
}

// FindByID fetches a class by ID.
func (r *ClassRepository) FindByID(ctx context.Context, id string) (*models.Class, error) {
	query := fmt.Sprintf("SELECT %s FROM classes WHERE id = $1", classColumns)
	var class models.Class
	if err := r.db.GetContext(ctx, &class, query, id); err != nil {
		return nil, err
	}
	return &class, nil
}

// FindDetail fetches a class with the subject attributes used by rate matching.
func (r *ClassRepository) FindDetail(ctx context.Context, id string) (*models.ClassDetail, error) {
	const query = `SELECT c.id, c.code, c.name, c.subject_id, c.semester_id, c.academic_year_id, c.class_type, c.max_students, c.enrolled_students, c.schedule,
		c.start_date, c.end_date, c.status, c.created_at, c.updated_at, s.name AS subject_name, s.subject_type
		FROM classes c
		JOIN subjects s ON s.id = c.subject_id
		WHERE c.id = $1`
	var detail models.ClassDetail
	if err := r.db.GetContext(ctx, &detail, query, id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ExistsByCode checks whether another class uses the code.
func (r *ClassRepository) ExistsByCode(ctx context.Context, code, excludeID string) (bool, error) {
	query := "SELECT 1 FROM classes WHERE LOWER(code) = LOWER($1)"
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
		return false, fmt.Errorf("check class code: %w", err)
	}
	return true, nil
}

// Create inserts a class.
func (r *ClassRepository) Create(ctx context.Context, class *models.Class) error {
	if class.ID == "" {
		class.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	class.CreatedAt = now
	class.UpdatedAt = now

	const query = `INSERT INTO classes (id, code, name, subject_id, semester_id, academic_year_id, class_type, max_students, enrolled_students, schedule, start_date, end_date, status, created_at, updated_at)
		VALUES (:id, :code, :name, :subject_id, :semester_id, :academic_year_id, :class_type, :max_students, :enrolled_students, :schedule, :start_date, :end_date, :status, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return fmt.Errorf("create class: %w", err)
	}
	return nil
}

// Update modifies a class.
func (r *ClassRepository) Update(ctx context.Context, class *models.Class) error {
	class.UpdatedAt = time.Now().UTC()
	const query = `UPDATE classes SET code = :code, name = :name, subject_id = :subject_id, semester_id = :semester_id, academic_year_id = :academic_year_id,
		class_type = :class_type, max_students = :max_students, enrolled_students = :enrolled_students, schedule = :schedule, start_date = :start_date,
		end_date = :end_date, status = :status, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, class); err != nil {
		return fmt.Errorf("update class: %w", err)
	}
	return nil
}

// Delete removes a class permanently.
func (r *ClassRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM classes WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete class: %w", err)
	}
	return nil
}

// CountDependents returns how many teaching assignments use the class.
func (r *ClassRepository) CountDependents(ctx context.Context, id string) (int, error) {
	return countReferences(ctx, r.db, id, reference{"teaching_assignments", "class_id"})
}
