package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/uni-payroll-api/internal/models"
)

const assignmentColumns = `ta.id, ta.teacher_id, ta.class_id, ta.subject_id, ta.semester_id, ta.academic_year_id, ta.assignment_type, ta.teaching_hours,
	ta.teaching_coefficient, ta.workload_distribution, ta.compensation, ta.schedule_start, ta.schedule_end, ta.status, ta.is_approved,
	ta.approved_by, ta.approved_at, ta.approval_notes, ta.notes, ta.created_at, ta.updated_at`

const assignmentDetailSelect = `SELECT ` + assignmentColumns + `,
	c.code AS class_code, c.name AS class_name, c.class_type, c.schedule, s.name AS subject_name, s.subject_type
FROM teaching_assignments ta
JOIN classes c ON c.id = ta.class_id
JOIN subjects s ON s.id = ta.subject_id`

// payrollStatuses are the assignment states that count towards salary.
var payrollStatuses = []string{
	string(models.AssignmentStatusConfirmed),
	string(models.AssignmentStatusInProgress),
	string(models.AssignmentStatusCompleted),
}

// TeachingAssignmentRepository persists teacher-class assignments.
type TeachingAssignmentRepository struct {
	db *sqlx.DB
}

// NewTeachingAssignmentRepository constructs the repository.
func NewTeachingAssignmentRepository(db *sqlx.DB) *TeachingAssignmentRepository {
	return &TeachingAssignmentRepository{db: db}
}

// List returns assignments matching filters along with total count.
func (r *TeachingAssignmentRepository) List(ctx context.Context, filter models.TeachingAssignmentFilter) ([]models.TeachingAssignmentDetail, int, error) {
	var conds conditionSet
	if filter.TeacherID != "" {
		conds.add("ta.teacher_id = ?", filter.TeacherID)
	}
	if filter.ClassID != "" {
		conds.add("ta.class_id = ?", filter.ClassID)
	}
	if filter.SemesterID != "" {
		conds.add("ta.semester_id = ?", filter.SemesterID)
	}
	if filter.AcademicYearID != "" {
		conds.add("ta.academic_year_id = ?", filter.AcademicYearID)
	}
	if len(filter.Statuses) > 0 {
		statuses := make([]string, len(filter.Statuses))
		for i, status := range filter.Statuses {
			statuses[i] = string(status)
		}
		conds.add("ta.status = ANY(?)", pq.Array(statuses))
	}
	conds.addSearch(filter.Search, "c.code", "c.name", "s.name")
	where := conds.apply(" WHERE 1=1")

	order := orderAndPage(filter.ListFilter, map[string]string{
		"schedule_start": "ta.schedule_start",
		"teaching_hours": "ta.teaching_hours",
		"status":         "ta.status",
		"created_at":     "ta.created_at",
	}, "ta.created_at")

	var assignments []models.TeachingAssignmentDetail
	if err := r.db.SelectContext(ctx, &assignments, assignmentDetailSelect+where+" "+order, conds.args...); err != nil {
		return nil, 0, fmt.Errorf("list teaching assignments: %w", err)
	}

	countQuery := `SELECT COUNT(*) FROM teaching_assignments ta JOIN classes c ON c.id = ta.class_id JOIN subjects s ON s.id = ta.subject_id` + where
	var total int
	if err := r.db.GetContext(ctx, &total, countQuery, conds.args...); err != nil {
		return nil, 0, fmt.Errorf("count teaching assignments: %w", err)
	}
	return assignments, total, nil
}

// FindByID fetches an assignment by ID.
func (r *TeachingAssignmentRepository) FindByID(ctx context.Context, id string) (*models.TeachingAssignment, error) {
	query := "SELECT " + assignmentColumns + " FROM teaching_assignments ta WHERE ta.id = $1"
	var assignment models.TeachingAssignment
	if err := r.db.GetContext(ctx, &assignment, query, id); err != nil {
		return nil, err
	}
	return &assignment, nil
}

// FindDetail fetches an assignment joined with its class and subject.
func (r *TeachingAssignmentRepository) FindDetail(ctx context.Context, id string) (*models.TeachingAssignmentDetail, error) {
	var detail models.TeachingAssignmentDetail
	if err := r.db.GetContext(ctx, &detail, assignmentDetailSelect+" WHERE ta.id = $1", id); err != nil {
		return nil, err
	}
	return &detail, nil
}

// ListDetailsByIDs returns the requested assignments that belong to the teacher.
func (r *TeachingAssignmentRepository) ListDetailsByIDs(ctx context.Context, teacherID string, ids []string) ([]models.TeachingAssignmentDetail, error) {
	query := assignmentDetailSelect + " WHERE ta.teacher_id = $1 AND ta.id = ANY($2) ORDER BY ta.schedule_start ASC, c.code ASC"
	var details []models.TeachingAssignmentDetail
	if err := r.db.SelectContext(ctx, &details, query, teacherID, pq.Array(ids)); err != nil {
		return nil, fmt.Errorf("list teaching assignments by ids: %w", err)
	}
	return details, nil
}

// ListScheduledByTeacher returns the teacher's non-cancelled assignments in the academic year.
func (r *TeachingAssignmentRepository) ListScheduledByTeacher(ctx context.Context, teacherID, academicYearID string) ([]models.TeachingAssignmentDetail, error) {
	query := assignmentDetailSelect + " WHERE ta.teacher_id = $1 AND ta.academic_year_id = $2 AND ta.status <> $3 ORDER BY c.code ASC"
	var details []models.TeachingAssignmentDetail
	if err := r.db.SelectContext(ctx, &details, query, teacherID, academicYearID, string(models.AssignmentStatusCancelled)); err != nil {
		return nil, fmt.Errorf("list scheduled assignments: %w", err)
	}
	return details, nil
}

// PayrollQuery selects the assignments that feed a salary calculation.
type PayrollQuery struct {
	TeacherID      string
	AcademicYearID string
	SemesterID     *string
	PeriodStart    time.Time
	PeriodEnd      time.Time
}

// ListForPayroll returns confirmed, running or completed assignments overlapping the period.
func (r *TeachingAssignmentRepository) ListForPayroll(ctx context.Context, q PayrollQuery) ([]models.TeachingAssignmentDetail, error) {
	query := assignmentDetailSelect + ` WHERE ta.teacher_id = $1 AND ta.academic_year_id = $2 AND ta.status = ANY($3)
	AND ta.schedule_start <= $4 AND ta.schedule_end >= $5`
	args := []interface{}{q.TeacherID, q.AcademicYearID, pq.Array(payrollStatuses), q.PeriodEnd, q.PeriodStart}
	if q.SemesterID != nil && *q.SemesterID != "" {
		query += " AND ta.semester_id = $6"
		args = append(args, *q.SemesterID)
	}
	query += " ORDER BY ta.schedule_start ASC, c.code ASC"

	var details []models.TeachingAssignmentDetail
	if err := r.db.SelectContext(ctx, &details, query, args...); err != nil {
		return nil, fmt.Errorf("list payroll assignments: %w", err)
	}
	return details, nil
}

// ListTeacherIDsByClass returns teachers holding a non-cancelled assignment on the class.
func (r *TeachingAssignmentRepository) ListTeacherIDsByClass(ctx context.Context, classID string) ([]string, error) {
	const query = `SELECT DISTINCT teacher_id FROM teaching_assignments WHERE class_id = $1 AND status <> $2`
	var ids []string
	if err := r.db.SelectContext(ctx, &ids, query, classID, string(models.AssignmentStatusCancelled)); err != nil {
		return nil, fmt.Errorf("list class teachers: %w", err)
	}
	return ids, nil
}

// Exists checks whether the teacher already holds a non-cancelled assignment on the class.
func (r *TeachingAssignmentRepository) Exists(ctx context.Context, teacherID, classID, excludeID string) (bool, error) {
	query := `SELECT 1 FROM teaching_assignments WHERE teacher_id = $1 AND class_id = $2 AND status <> $3`
	args := []interface{}{teacherID, classID, string(models.AssignmentStatusCancelled)}
	if excludeID != "" {
		query += " AND id <> $4"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check teaching assignment: %w", err)
	}
	return true, nil
}

// Create inserts a new assignment.
func (r *TeachingAssignmentRepository) Create(ctx context.Context, assignment *models.TeachingAssignment) error {
	if assignment.ID == "" {
		assignment.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	assignment.CreatedAt = now
	assignment.UpdatedAt = now

	const query = `INSERT INTO teaching_assignments (id, teacher_id, class_id, subject_id, semester_id, academic_year_id, assignment_type, teaching_hours,
		teaching_coefficient, workload_distribution, compensation, schedule_start, schedule_end, status, is_approved, approved_by, approved_at,
		approval_notes, notes, created_at, updated_at)
		VALUES (:id, :teacher_id, :class_id, :subject_id, :semester_id, :academic_year_id, :assignment_type, :teaching_hours,
		:teaching_coefficient, :workload_distribution, :compensation, :schedule_start, :schedule_end, :status, :is_approved, :approved_by, :approved_at,
		:approval_notes, :notes, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("create teaching assignment: %w", err)
	}
	return nil
}

// Update persists every mutable field of the assignment.
func (r *TeachingAssignmentRepository) Update(ctx context.Context, assignment *models.TeachingAssignment) error {
	assignment.UpdatedAt = time.Now().UTC()
	const query = `UPDATE teaching_assignments SET teacher_id = :teacher_id, class_id = :class_id, subject_id = :subject_id, semester_id = :semester_id,
		academic_year_id = :academic_year_id, assignment_type = :assignment_type, teaching_hours = :teaching_hours, teaching_coefficient = :teaching_coefficient,
		workload_distribution = :workload_distribution, compensation = :compensation, schedule_start = :schedule_start, schedule_end = :schedule_end,
		status = :status, is_approved = :is_approved, approved_by = :approved_by, approved_at = :approved_at, approval_notes = :approval_notes,
		notes = :notes, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, assignment); err != nil {
		return fmt.Errorf("update teaching assignment: %w", err)
	}
	return nil
}

// Delete removes an assignment permanently.
func (r *TeachingAssignmentRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM teaching_assignments WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete teaching assignment: %w", err)
	}
	return nil
}

// CountSalaryReferences returns how many salary calculations embed the assignment.
func (r *TeachingAssignmentRepository) CountSalaryReferences(ctx context.Context, id string) (int, error) {
	probe, err := json.Marshal([]map[string]string{{"assignment_id": id}})
	if err != nil {
		return 0, fmt.Errorf("encode assignment probe: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM salary_calculations WHERE teaching_assignments @> $1::jsonb`, string(probe)); err != nil {
		return 0, fmt.Errorf("count salary references: %w", err)
	}
	return total, nil
}
