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

const degreeColumns = "id, code, name, level, coefficient, created_at, updated_at"

// DegreeRepository manages persistence for degrees.
type DegreeRepository struct {
	db *sqlx.DB
}

// NewDegreeRepository constructs a DegreeRepository.
func NewDegreeRepository(db *sqlx.DB) *DegreeRepository {
	return &DegreeRepository{db: db}
}

// List returns degrees along with total count.
func (r *DegreeRepository) List(ctx context.Context, filter models.ListFilter) ([]models.Degree, int, error) {
	var conds conditionSet
	conds.addSearch(filter.Search, "code", "name")
	base := conds.apply("FROM degrees WHERE 1=1")

	order := orderAndPage(filter, map[string]string{
		"code":        "code",
		"name":        "name",
		"coefficient": "coefficient",
	}, "coefficient")

	query := fmt.Sprintf("SELECT %s %s %s", degreeColumns, base, order)
	var degrees []models.Degree
	if err := r.db.SelectContext(ctx, &degrees, query, conds.args...); err != nil {
		return nil, 0, fmt.Errorf("list degrees: %w", err)
	}

	var total int
	if err := r.db.GetContext(ctx, &total, "SELECT COUNT(*) "+base, conds.args...); err != nil {
		return nil, 0, fmt.Errorf("count degrees: %w", err)
	}
	return degrees, total, nil
}

// FindByID fetches a degree by ID.
func (r *DegreeRepository) FindByID(ctx context.Context, id string) (*models.Degree, error) {
	query := fmt.Sprintf("SELECT %s FROM degrees WHERE id = $1", degreeColumns)
	var degree models.Degree
	if err := r.db.GetContext(ctx, &degree, query, id); err != nil {
		return nil, err
	}
	return &degree, nil
}

// ExistsByCode checks whether another degree uses the code.
func (r *DegreeRepository) ExistsByCode(ctx context.Context, code, excludeID string) (bool, error) {
	query := "SELECT 1 FROM degrees WHERE LOWER(code) = LOWER($1)"
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
		return false, fmt.Errorf("check degree code: %w", err)
	}
	return true, nil
}

// Create inserts a degree.
func (r *DegreeRepository) Create(ctx context.Context, degree *models.Degree) error {
	if degree.ID == "" {
		degree.ID = uuid.NewString()
	}
	now := time.Now().UTC()
	degree.CreatedAt = now
	degree.UpdatedAt = now

	const query = `INSERT INTO degrees (id, code, name, level, coefficient, created_at, updated_at)
		VALUES (:id, :code, :name, :level, :coefficient, :created_at, :updated_at)`
	if _, err := r.db.NamedExecContext(ctx, query, degree); err != nil {
		return fmt.Errorf("create degree: %w", err)
	}
	return nil
}

// Update modifies a degree.
func (r *DegreeRepository) Update(ctx context.Context, degree *models.Degree) error {
	degree.UpdatedAt = time.Now().UTC()
	const query = `UPDATE degrees SET code = :code, name = :name, level = :level, coefficient = :coefficient, updated_at = :updated_at WHERE id = :id`
	if _, err := r.db.NamedExecContext(ctx, query, degree); err != nil {
		return fmt.Errorf("update degree: %w", err)
	}
	return nil
}

// Delete removes a degree permanently.
func (r *DegreeRepository) Delete(ctx context.Context, id string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM degrees WHERE id = $1`, id); err != nil {
		return fmt.Errorf("delete degree: %w", err)
	}
	return nil
}

// CountDependents returns how many teachers hold the degree.
func (r *DegreeRepository) CountDependents(ctx context.Context, id string) (int, error) {
	return countReferences(ctx, r.db, id, reference{"teachers", "degree_id"})
}
