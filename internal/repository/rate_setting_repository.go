package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/noah-isme/uni-payroll-api/internal/models"
)

// ErrStaleVersion is returned when a versioned write finds the row changed underneath it.
var ErrStaleVersion = errors.New("stale version")

const rateSettingColumns = `id, code, name, description, rate_type, applicable_scope, target_id, target_model, rate_values, conditions,
	effective_from, effective_to, priority, status, is_active, version, supersedes, superseded_by, approved_by, approved_at,
	created_by, created_at, updated_at`

// RateSettingRepository persists rate settings.
type RateSettingRepository struct {
	db *sqlx.DB
}

// NewRateSettingRepository constructs the repository.
func NewRateSettingRepository(db *sqlx.DB) *RateSettingRepository {
	return &RateSettingRepository{db: db}
}

// List returns rate settings matching filters along with total count.
func (r *RateSettingRepository) List(ctx context.Context, filter models.RateSettingFilter) ([]models.RateSetting, int, error) {
	var conds conditionSet
	if filter.RateType != "" {
		conds.add("rate_type = ?", string(filter.RateType))
	}
	if filter.Scope != "" {
		conds.add("applicable_scope = ?", string(filter.Scope))
	}
	if filter.Status != "" {
		conds.add("status = ?", string(filter.Status))
	}
	conds.addSearch(filter.Search, "code", "name")
	base := conds.apply("FROM rate_settings WHERE 1=1")

	order := orderAndPage(filter.ListFilter, map[string]string{
		"code":           "code",
		"priority":       "priority",
		"effective_from": "effective_from",
		"created_at":     "created_at",
	}, "priority")

	query := fmt.Sprintf("SELECT %s %s %s", rateSettingColumns, base, order)
	var settings []models.RateSetting
	if err := r.db.SelectContext(ctx, &settings, query, conds.args...); err != nil {
		return nil, 0, fmt.Errorf("list rate settings: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, conds.args...); err != nil {
		return nil, 0, fmt.Errorf("count rate settings: %w", err)
	}
	return settings, total, nil
}

// FindByID fetches a rate setting by ID.
func (r *RateSettingRepository) FindByID(ctx context.Context, id string) (*models.RateSetting, error) {
	query := fmt.Sprintf("SELECT %s FROM rate_settings WHERE id = $1", rateSettingColumns)
	var setting models.RateSetting
	if err := r.db.GetContext(ctx, &setting, query, id); err != nil {
		return nil, err
	}
	return &setting, nil
}

// ListActive returns active rate settings effective at the instant, highest priority first.
// An empty rateType selects every type.
func (r *RateSettingRepository) ListActive(ctx context.Context, at time.Time, rateType models.RateType) ([]models.RateSetting, error) {
	query := fmt.Sprintf(`SELECT %s FROM rate_settings
		WHERE status = $1 AND is_active = TRUE AND effective_from <= $2 AND (effective_to IS NULL OR effective_to >= $2)`, rateSettingColumns)
	args := []interface{}{string(models.RateStatusActive), at}
	if rateType != "" {
		query += " AND rate_type = $3"
		args = append(args, string(rateType))
	}
	query += " ORDER BY priority DESC, created_at ASC"

	var settings []models.RateSetting
	if err := r.db.SelectContext(ctx, &settings, query, args...); err != nil {
		return nil, fmt.Errorf("list active rate settings: %w", err)
	}
	return settings, nil
}

// ExistsByCode checks whether a live (non-superseded) setting other than excludeIDs uses the code.
func (r *RateSettingRepository) ExistsByCode(ctx context.Context, code string, excludeIDs ...string) (bool, error) {
	query := `SELECT 1 FROM rate_settings WHERE LOWER(code) = LOWER($1) AND status <> $2 AND NOT (id::text = ANY($3)) LIMIT 1`
	if excludeIDs == nil {
		excludeIDs = []string{}
	}
	var exists int
	if err := r.db.GetContext(ctx, &exists, query, code, string(models.RateStatusSuperseded), pq.Array(excludeIDs)); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, fmt.Errorf("check rate setting code: %w", err)
	}
	return true, nil
}

// Create inserts a rate setting at version 1.
func (r *RateSettingRepository) Create(ctx context.Context, setting *models.RateSetting) error {
	if setting.ID == "" {
		setting.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	setting.CreatedAt = now
	setting.UpdatedAt = now
	setting.Version = 1

	const query = `INSERT INTO rate_settings (id, code, name, description, rate_type, applicable_scope, target_id, target_model, rate_values, conditions,
		effective_from, effective_to, priority, status, is_active, version, supersedes, superseded_by, approved_by, approved_at, created_by, created_at, updated_at)
		VALUES (:id, :code, :name, :description, :rate_type, :applicable_scope, :target_id, :target_model, :rate_values, :conditions,
		:effective_from, :effective_to, :priority, :status, :is_active, :version, :supersedes, :superseded_by, :approved_by, :approved_at, :created_by, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, setting); err != nil {
		return fmt.Errorf("create rate setting: %w", err)
	}
	return nil
}

const rateSettingUpdate = `UPDATE rate_settings SET code = :code, name = :name, description = :description, rate_type = :rate_type,
	applicable_scope = :applicable_scope, target_id = :target_id, target_model = :target_model, rate_values = :rate_values, conditions = :conditions,
	effective_from = :effective_from, effective_to = :effective_to, priority = :priority, status = :status, is_active = :is_active,
	version = version + 1, supersedes = :supersedes, superseded_by = :superseded_by, approved_by = :approved_by, approved_at = :approved_at,
	updated_at = :updated_at
	WHERE id = :id AND version = :version`

// Update writes the setting if its version still matches and bumps the version.
func (r *RateSettingRepository) Update(ctx context.Context, setting *models.RateSetting) error {
	setting.UpdatedAt = time.Now().UTC()
	result, err := r.db.NamedExecContext(ctx, rateSettingUpdate, setting)
	if err != nil {
		return fmt.Errorf("update rate setting: %w", err)
	}
	if err := expectOneRow(result); err != nil {
		return err
	}
	setting.Version++
	return nil
}

// Activate writes the activated setting and, when it supersedes another one, retires the predecessor in the same transaction.
func (r *RateSettingRepository) Activate(ctx context.Context, setting *models.RateSetting) (err error) {
	setting.UpdatedAt = time.Now().UTC()

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin activate rate tx: %w", err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	result, err := tx.NamedExecContext(ctx, rateSettingUpdate, setting)
	if err != nil {
		return fmt.Errorf("activate rate setting: %w", err)
	}
	if err = expectOneRow(result); err != nil {
		return err
	}

	if setting.Supersedes != nil {
		const retire = `UPDATE rate_settings SET status = $1, is_active = FALSE, superseded_by = $2, version = version + 1, updated_at = $3 WHERE id = $4`
		if _, err = tx.ExecContext(ctx, retire, string(models.RateStatusSuperseded), setting.ID, setting.UpdatedAt, *setting.Supersedes); err != nil {
			return fmt.Errorf("retire superseded rate setting: %w", err)
		}
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("commit activate rate tx: %w", err)
	}
	setting.Version++
	return nil
}

// Delete removes a rate setting permanently.
func (r *RateSettingRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM rate_settings WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete rate setting: %w", err)
	}
	return nil
}

// CountSalaryReferences returns how many calculations applied the rate setting.
func (r *RateSettingRepository) CountSalaryReferences(ctx context.Context, id string) (int, error) {
	probe, err := json.Marshal([]map[string]interface{}{
		{"applied_rates": []map[string]string{{"rate_setting_id": id}}},
	})
	if err != nil {
		return 0, fmt.Errorf("encode rate probe: %w", err)
	}
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM salary_calculations WHERE teaching_assignments @> $1::jsonb`, string(probe)); err != nil {
		return 0, fmt.Errorf("count rate references: %w", err)
	}
	return total, nil
}

// CountSuccessors returns how many settings supersede the given one.
func (r *RateSettingRepository) CountSuccessors(ctx context.Context, id string) (int, error) {
	return countReferences(ctx, r.db, id, reference{"rate_settings", "supersedes"})
}

func expectOneRow(result sql.Result) error {
	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if affected == 0 {
		return ErrStaleVersion
	}
	return nil
}
