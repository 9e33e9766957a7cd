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

const teacherColumns = "id, code, full_name, email, phone, department_id, degree_id, position, hire_date, rating, active, created_at, updated_at"

// TeacherRepository manages persistence for teachers.
type TeacherRepository struct {
	db *sqlx.DB
}

// NewTeacherRepository constructs a TeacherRepository.
func NewTeacherRepository(db *sqlx.DB) *TeacherRepository {
	return &TeacherRepository{db: db}
}

// List returns teachers matching filters along with total count.
func (r *TeacherRepository) List(ctx context.Context, filter models.TeacherFilter) ([]models.Teacher, int, error) {
	var conds conditionSet
	if filter.Active != nil {
		conds.add("active = ?", *filter.Active)
	}
	if filter.DepartmentID != "" {
		conds.add("department_id = ?", filter.DepartmentID)
	}
	if filter.Position != "" {
		conds.add("position = ?", string(filter.Position))
	}
	conds.addSearch(filter.Search, "full_name", "email", "code")
	base := conds.apply("FROM teachers WHERE 1=1")

	order := orderAndPage(filter.ListFilter, map[string]string{
		"code":       "code",
		"full_name":  "full_name",
		"email":      "email",
		"hire_date":  "hire_date",
		"created_at": "created_at",
	}, "created_at")

	query := fmt.Sprintf("SELECT %s %s %s", teacherColumns, base, order)
	var teachers []models.Teacher
	if err := r.db.SelectContext(ctx, &teachers, query, conds.args...); err != nil {
		return nil, 0, fmt.Errorf("list teachers: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, conds.args...); err != nil {
		return nil, 0, fmt.Errorf("count teachers: %w", err)
	}
	return teachers, total, nil
}

// FindByID fetches a teacher by ID.
func (r *TeacherRepository) FindByID(ctx context.Context, id string) (*models.Teacher, error) {
	query := fmt.Sprintf("SELECT %s FROM teachers WHERE id = $1", teacherColumns)
	var teacher models.Teacher
	if err := r.db.GetContext(ctx, &teacher, query, id); err != nil {
		return nil, err
	}
	return &teacher, nil
}

// FindProfile fetches a teacher joined with the degree and department used for payroll.
func (r *TeacherRepository) FindProfile(ctx context.Context, id string) (*models.TeacherProfile, error) {
	const query = `SELECT t.id, t.code, t.full_name, t.email, t.phone, t.department_id, t.degree_id, t.position, t.hire_date, t.rating, t.active, t.created_at, t.updated_at,
		COALESCE(dg.name, '') AS degree_name, COALESCE(dg.coefficient, 1) AS degree_coefficient, COALESCE(dp.name, '') AS department_name
		FROM teachers t
		LEFT JOIN degrees dg ON dg.id = t.degree_id
		LEFT JOIN departments dp ON dp.id = t.department_id
		WHERE t.id = $1`
	var profile models.TeacherProfile
	if err := r.db.GetContext(ctx, &profile, query, id); err != nil {
		return nil, err
	}
	return &profile, nil
}

// ExistsByEmail checks if another teacher uses the same email.
func (r *TeacherRepository) ExistsByEmail(ctx context.Context, email string, excludeID string) (bool, error) {
	return r.exists(ctx, "LOWER(email) = LOWER($1)", email, excludeID, "email")
}

// ExistsByCode checks if another teacher uses the same staff code.
func (r *TeacherRepository) ExistsByCode(ctx context.Context, code string, excludeID string) (bool, error) {
	return r.exists(ctx, "code = $1", code, excludeID, "code")
}

func (r *TeacherRepository) exists(ctx context.Context, predicate, value, excludeID, label string) (bool, error) {
	query := "SELECT 1 FROM teachers WHERE " + predicate
	args := []interface{}{value}
	if excludeID != "" {
		query += " AND id <> $2"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check teacher %s: %w", label, err)
	}
	return true, nil
}

// Create inserts a new teacher record.
func (r *TeacherRepository) Create(ctx context.Context, teacher *models.Teacher) error {
	if teacher.ID == "" {
		teacher.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	if teacher.CreatedAt.IsZero() {
		teacher.CreatedAt = now
	}
	teacher.UpdatedAt = now

	const query = `INSERT INTO teachers (id, code, full_name, email, phone, department_id, degree_id, position, hire_date, rating, active, created_at, updated_at)
		VALUES (:id, :code, :full_name, :email, :phone, :department_id, :degree_id, :position, :hire_date, :rating, :active, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, teacher); err != nil {
		return fmt.Errorf("create teacher: %w", err)
	}
	return nil
}

// Update modifies an existing teacher record.
func (r *TeacherRepository) Update(ctx context.Context, teacher *models.Teacher) error {
	teacher.UpdatedAt = time.Now().UTC()
	const query = `UPDATE teachers SET code = :code, full_name = :full_name, email = :email, phone = :phone, department_id = :department_id, degree_id = :degree_id,
		position = :position, hire_date = :hire_date, rating = :rating, active = :active, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, teacher); err != nil {
		return fmt.Errorf("update teacher: %w", err)
	}
	return nil
}

// Delete removes a teacher permanently.
func (r *TeacherRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM teachers WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete teacher: %w", err)
	}
	return nil
}

// CountDependents returns how many assignments and calculations reference the teacher.
func (r *TeacherRepository) CountDependents(ctx context.Context, id string) (int, error) {
	return countReferences(ctx, r.db, id,
		reference{"teaching_assignments", "teacher_id"},
		reference{"salary_calculations", "teacher_id"},
	)
}
