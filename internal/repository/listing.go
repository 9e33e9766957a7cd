package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/noah-isme/uni-payroll-api/internal/models"
)

// conditionSet accumulates WHERE fragments. A "?" in a fragment is replaced by the next positional placeholder.
type conditionSet struct {
	clauses []string
	args    []interface{}
}

func (c *conditionSet) add(fragment string, value interface{}) {
	c.args = append(c.args, value)
	c.clauses = append(c.clauses, strings.ReplaceAll(fragment, "?", fmt.Sprintf("$%d", len(c.args))))
}

func (c *conditionSet) addSearch(value string, columns ...string) {
	if strings.TrimSpace(value) == "" || len(columns) == 0 {
		return
	}
	parts := make([]string, len(columns))
	for i, column := range columns {
		parts[i] = fmt.Sprintf("LOWER(%s) LIKE ?", column)
	}
	c.add("("+strings.Join(parts, " OR ")+")", "%"+strings.ToLower(strings.TrimSpace(value))+"%")
}

func (c *conditionSet) apply(base string) string {
	if len(c.clauses) == 0 {
		return base
	}
	return base + " AND " + strings.Join(c.clauses, " AND ")
}

// orderAndPage renders ORDER BY, LIMIT and OFFSET for whitelisted sort columns.
func orderAndPage(filter models.ListFilter, allowed map[string]string, fallback string) string {
	column, ok := allowed[filter.SortBy]
	if !ok {
		column = fallback
	}
	order := strings.ToUpper(filter.SortOrder)
	if order != "ASC" && order != "DESC" {
		order = "DESC"
	}
	_, size, offset := filter.Normalize()
	return fmt.Sprintf("ORDER BY %s %s LIMIT %d OFFSET %d", column, order, size, offset)
}

// reference names a table column that points at another entity.
type reference struct {
	table  string
	column string
}

// countReferences sums rows across refs whose column equals id.
func countReferences(ctx context.Context, db *sqlx.DB, id string, refs ...reference) (int, error) {
	parts := make([]string, len(refs))
	for i, ref := range refs {
		parts[i] = fmt.Sprintf("(SELECT COUNT(*) FROM %s WHERE %s = $1)", ref.table, ref.column)
	}
	var total int
	if err := db.GetContext(ctx, &total, "SELECT "+strings.Join(parts, " + "), id); err != nil {
		return 0, fmt.Errorf("count references: %w", err)
	}
	return total, nil
}
