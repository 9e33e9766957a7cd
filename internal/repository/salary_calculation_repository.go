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

const salaryColumns = `sc.id, sc.teacher_id, sc.academic_year_id, sc.semester_id, sc.period_type, sc.period_start, sc.period_end, sc.teaching_assignments,
	sc.total_base_hours, sc.total_overtime_hours, sc.total_base_amount, sc.total_overtime_amount, sc.total_bonus_amount, sc.total_allowance_amount,
	sc.total_deduction_amount, sc.total_gross_salary, sc.total_net_salary, sc.coefficients, sc.status, sc.calculated_by, sc.calculated_at,
	sc.approved_by, sc.approved_at, sc.paid_by, sc.paid_at, sc.payment_reference, sc.validation_errors, sc.notes, sc.version, sc.created_by,
	sc.created_at, sc.updated_at`

// exportLimit caps unpaginated exports.
const exportLimit = 5000

// SalaryCalculationRepository persists salary calculations and their audit events.
type SalaryCalculationRepository struct {
	db *sqlx.DB
}

// NewSalaryCalculationRepository constructs the repository.
func NewSalaryCalculationRepository(db *sqlx.DB) *SalaryCalculationRepository {
	return &SalaryCalculationRepository{db: db}
}

// Create inserts the calculation at version 1 together with its first audit event.
func (r *SalaryCalculationRepository) Create(ctx context.Context, calc *models.SalaryCalculation, event models.SalaryEvent) (err error) {
	if calc.ID == "" {
		calc.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	calc.CreatedAt = now
	calc.UpdatedAt = now
	calc.Version = 1

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin salary create tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `INSERT INTO salary_calculations (id, teacher_id, academic_year_id, semester_id, period_type, period_start, period_end, teaching_assignments,
		total_base_hours, total_overtime_hours, total_base_amount, total_overtime_amount, total_bonus_amount, total_allowance_amount, total_deduction_amount,
		total_gross_salary, total_net_salary, coefficients, status, calculated_by, calculated_at, approved_by, approved_at, paid_by, paid_at,
		payment_reference, validation_errors, notes, version, created_by, created_at, updated_at)
		VALUES (:id, :teacher_id, :academic_year_id, :semester_id, :period_type, :period_start, :period_end, :teaching_assignments,
		:total_base_hours, :total_overtime_hours, :total_base_amount, :total_overtime_amount, :total_bonus_amount, :total_allowance_amount, :total_deduction_amount,
		:total_gross_salary, :total_net_salary, :coefficients, :status, :calculated_by, :calculated_at, :approved_by, :approved_at, :paid_by, :paid_at,
		:payment_reference, :validation_errors, :notes, :version, :created_by, :created_at, :updated_at)`
	if _, err = tx.NamedExecContext(ctx, query, calc); err != nil {
		return fmt.Errorf("create salary calculation: %w", err)
	}

	event.CalculationID = calc.ID
	if err = insertSalaryEvents(ctx, tx, []models.SalaryEvent{event}); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit salary create tx: %w", err)
	}
	return nil
}

// FindByID fetches a calculation by ID.
func (r *SalaryCalculationRepository) FindByID(ctx context.Context, id string) (*models.SalaryCalculation, error) {
	query := "SELECT " + salaryColumns + " FROM salary_calculations sc WHERE sc.id = $1"
	var calc models.SalaryCalculation
	if err := r.db.GetContext(ctx, &calc, query, id); err != nil {
		return nil, err
	}
	return &calc, nil
}

// ExistsActive checks for a non-archived calculation on the same teacher, year, semester and period type.
func (r *SalaryCalculationRepository) ExistsActive(ctx context.Context, teacherID, academicYearID string, semesterID *string, periodType models.PeriodType, excludeID string) (bool, error) {
	query := `SELECT 1 FROM salary_calculations WHERE teacher_id = $1 AND academic_year_id = $2 AND semester_id IS NOT DISTINCT FROM $3
		AND period_type = $4 AND status <> $5`
	args := []interface{}{teacherID, academicYearID, semesterID, string(periodType), string(models.SalaryStatusArchived)}
	if excludeID != "" {
		query += " AND id <> $6"
		args = append(args, excludeID)
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query+" LIMIT 1", args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check active salary calculation: %w", err)
	}
	return true, nil
}

func salaryListConditions(filter models.SalaryFilter) conditionSet {
	var conds conditionSet
	if filter.TeacherID != "" {
		conds.add("sc.teacher_id = ?", filter.TeacherID)
	}
	if filter.AcademicYearID != "" {
		conds.add("sc.academic_year_id = ?", filter.AcademicYearID)
	}
	if filter.SemesterID != "" {
		conds.add("sc.semester_id = ?", filter.SemesterID)
	}
	if filter.DepartmentID != "" {
		conds.add("t.department_id = ?", filter.DepartmentID)
	}
	if filter.PeriodType != "" {
		conds.add("sc.period_type = ?", string(filter.PeriodType))
	}
	if filter.Status != "" {
		conds.add("sc.status = ?", string(filter.Status))
	}
	conds.addSearch(filter.Search, "t.full_name", "t.code")
	return conds
}

const salaryListSelect = "SELECT " + salaryColumns + `, t.code AS teacher_code, t.full_name AS teacher_name, t.department_id
FROM salary_calculations sc
JOIN teachers t ON t.id = sc.teacher_id`

var salarySorts = map[string]string{
	"period_start":       "sc.period_start",
	"total_gross_salary": "sc.total_gross_salary",
	"status":             "sc.status",
	"teacher_name":       "t.full_name",
	"created_at":         "sc.created_at",
}

// List returns calculations joined with teacher identity along with total count.
func (r *SalaryCalculationRepository) List(ctx context.Context, filter models.SalaryFilter) ([]models.SalaryListItem, int, error) {
	conds := salaryListConditions(filter)
	where := conds.apply(" WHERE 1=1")
	order := orderAndPage(filter.ListFilter, salarySorts, "sc.created_at")

	var items []models.SalaryListItem
	if err := r.db.SelectContext(ctx, &items, salaryListSelect+where+" "+order, conds.args...); err != nil {
		return nil, 0, fmt.Errorf("list salary calculations: %w", err)
	}

	var total int
	countQuery := "SELECT COUNT(*) FROM salary_calculations sc JOIN teachers t ON t.id = sc.teacher_id" + where
	if err := r.db.GetContext(ctx, &total, countQuery, conds.args...); err != nil {
		return nil, 0, fmt.Errorf("count salary calculations: %w", err)
	}
	return items, total, nil
}

// ListAll returns every matching calculation up to the export cap, ignoring paging.
func (r *SalaryCalculationRepository) ListAll(ctx context.Context, filter models.SalaryFilter) ([]models.SalaryListItem, error) {
	conds := salaryListConditions(filter)
	query := salaryListSelect + conds.apply(" WHERE 1=1") + fmt.Sprintf(" ORDER BY t.full_name ASC, sc.period_start ASC LIMIT %d", exportLimit)

	var items []models.SalaryListItem
	if err := r.db.SelectContext(ctx, &items, query, conds.args...); err != nil {
		return nil, fmt.Errorf("export salary calculations: %w", err)
	}
	return items, nil
}

// Save writes the calculation if its version still matches, bumps the version and appends the events atomically.
func (r *SalaryCalculationRepository) Save(ctx context.Context, calc *models.SalaryCalculation, events ...models.SalaryEvent) (err error) {
	calc.UpdatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin salary save tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	const query = `UPDATE salary_calculations SET period_start = :period_start, period_end = :period_end, teaching_assignments = :teaching_assignments,
		total_base_hours = :total_base_hours, total_overtime_hours = :total_overtime_hours, total_base_amount = :total_base_amount,
		total_overtime_amount = :total_overtime_amount, total_bonus_amount = :total_bonus_amount, total_allowance_amount = :total_allowance_amount,
		total_deduction_amount = :total_deduction_amount, total_gross_salary = :total_gross_salary, total_net_salary = :total_net_salary,
		coefficients = :coefficients, status = :status, calculated_by = :calculated_by, calculated_at = :calculated_at, approved_by = :approved_by,
		approved_at = :approved_at, paid_by = :paid_by, paid_at = :paid_at, payment_reference = :payment_reference,
		validation_errors = :validation_errors, notes = :notes, version = version + 1, updated_at = :updated_at
		WHERE id = :id AND version = :version`
	result, err := tx.NamedExecContext(ctx, query, calc)
	if err != nil {
		return fmt.Errorf("save salary calculation: %w", err)
	}
	if err = expectOneRow(result); err != nil {
		return err
	}

	for i := range events {
		events[i].CalculationID = calc.ID
	}
	if err = insertSalaryEvents(ctx, tx, events); err != nil {
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit salary save tx: %w", err)
	}
	calc.Version++
	return nil
}

// ListEvents returns the audit trail of a calculation in chronological order.
func (r *SalaryCalculationRepository) ListEvents(ctx context.Context, calculationID string) ([]models.SalaryEvent, error) {
	const query = `SELECT id, calculation_id, action, performed_by, performed_at, notes FROM salary_calculation_events
		WHERE calculation_id = $1 ORDER BY performed_at ASC, id ASC`
	var events []models.SalaryEvent
	if err := r.db.SelectContext(ctx, &events, query, calculationID); err != nil {
		return nil, fmt.Errorf("list salary events: %w", err)
	}
	return events, nil
}

// Statistics aggregates non-archived calculations by status and optionally by department.
func (r *SalaryCalculationRepository) Statistics(ctx context.Context, filter models.SalaryStatisticsFilter) (*models.SalaryStatistics, error) {
	var conds conditionSet
	conds.add("sc.status <> ?", string(models.SalaryStatusArchived))
	if filter.AcademicYearID != "" {
		conds.add("sc.academic_year_id = ?", filter.AcademicYearID)
	}
	if filter.SemesterID != "" {
		conds.add("sc.semester_id = ?", filter.SemesterID)
	}
	if filter.PeriodType != "" {
		conds.add("sc.period_type = ?", string(filter.PeriodType))
	}
	where := conds.apply(" WHERE 1=1")

	stats := &models.SalaryStatistics{}
	statusQuery := `SELECT sc.status, COUNT(*) AS count, COALESCE(SUM(sc.total_gross_salary), 0) AS total_gross, COALESCE(SUM(sc.total_net_salary), 0) AS total_net
		FROM salary_calculations sc` + where + ` GROUP BY sc.status ORDER BY sc.status`
	if err := r.db.SelectContext(ctx, &stats.ByStatus, statusQuery, conds.args...); err != nil {
		return nil, fmt.Errorf("salary status breakdown: %w", err)
	}

	if filter.IncludeDepartments {
		departmentQuery := `SELECT t.department_id, COALESCE(d.name, '') AS department_name, COUNT(DISTINCT sc.teacher_id) AS teacher_count, COUNT(*) AS count,
			COALESCE(SUM(sc.total_gross_salary), 0) AS total_gross, COALESCE(SUM(sc.total_net_salary), 0) AS total_net
			FROM salary_calculations sc
			JOIN teachers t ON t.id = sc.teacher_id
			LEFT JOIN departments d ON d.id = t.department_id` + where + `
			GROUP BY t.department_id, d.name ORDER BY total_gross DESC`
		if err := r.db.SelectContext(ctx, &stats.ByDepartment, departmentQuery, conds.args...); err != nil {
			return nil, fmt.Errorf("salary department rollup: %w", err)
		}
	}

	stats.Summarise()
	return stats, nil
}

func insertSalaryEvents(ctx context.Context, tx *sqlx.Tx, events []models.SalaryEvent) error {
	const query = `INSERT INTO salary_calculation_events (id, calculation_id, action, performed_by, performed_at, notes)
		VALUES (:id, :calculation_id, :action, :performed_by, :performed_at, :notes)`
	for i := range events {
		if events[i].ID == "" {
			events[i].ID = uuid.NewString()
		}
		if events[i].PerformedAt.IsZero() {
			events[i].PerformedAt = time.Now().UTC()
		}
		if _, err := tx.NamedExecContext(ctx, query, events[i]); err != nil {
			return fmt.Errorf("append salary event %s: %w", events[i].Action, err)
		}
	}
	return nil
}
