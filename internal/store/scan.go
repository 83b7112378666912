package store

import (
	"context"
	"fmt"

	sq "github.com/Masterminds/squirrel"

	"github.com/kubev2v/query-engine/internal/models"
)

// queryRows runs the builder and materializes every result column into a Row
// keyed by the column name.
func queryRows(ctx context.Context, db QueryInterceptor, builder sq.SelectBuilder) ([]models.Row, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return nil, err
	}

	rows, err := db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	cols, err := rows.Columns()
	if err != nil {
		return nil, err
	}

	result := make([]models.Row, 0)
	for rows.Next() {
		values := make([]any, len(cols))
		dest := make([]any, len(cols))
		for i := range values {
			dest[i] = &values[i]
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, err
		}

		row := make(models.Row, len(cols))
		for i, col := range cols {
			row[col] = values[i]
		}
		result = append(result, row)
	}

	return result, rows.Err()
}

func countRows(ctx context.Context, db QueryInterceptor, builder sq.SelectBuilder) (int, error) {
	query, args, err := builder.ToSql()
	if err != nil {
		return 0, err
	}

	var count int
	err = db.QueryRowContext(ctx, query, args...).Scan(&count)
	return count, err
}

// keyOf is the grouping key of a join value. Parent and child columns may
// scan to different integer widths, so values are compared by their text.
func keyOf(v any) string {
	return fmt.Sprint(v)
}

// distinctValues collects the non-null values of field across rows, in
// first-seen order.
func distinctValues(rows []models.Row, field string) []any {
	seen := make(map[string]struct{}, len(rows))
	values := make([]any, 0, len(rows))
	for _, r := range rows {
		v, ok := r[field]
		if !ok || v == nil {
			continue
		}
		k := keyOf(v)
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		values = append(values, v)
	}
	return values
}

func groupBy(rows []models.Row, field string) map[string][]models.Row {
	groups := make(map[string][]models.Row)
	for _, r := range rows {
		v := r[field]
		if v == nil {
			continue
		}
		k := keyOf(v)
		groups[k] = append(groups[k], r)
	}
	return groups
}
