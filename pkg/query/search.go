package query

import (
	"fmt"
	"strings"

	sq "github.com/Masterminds/squirrel"

	"github.com/kubev2v/query-engine/pkg/filter"
)

// CompileSearch returns one case-insensitive partial match per field of the
// comma-separated fields list that exists on table. Callers OR the result.
// An empty term yields no predicate so that the OR group is omitted.
func CompileSearch(term, fields string, table *Table) []sq.Sqlizer {
	if term == "" {
		return nil
	}

	var preds []sq.Sqlizer
	seen := make(map[string]struct{})
	for _, raw := range strings.Split(fields, ",") {
		field := filter.NormalizeField(raw)
		col, ok := table.Column(field)
		if !ok {
			continue
		}
		if _, dup := seen[field]; dup {
			continue
		}
		seen[field] = struct{}{}

		expr := table.Ref(table.Name(), field)
		if col.Type != Text {
			expr = fmt.Sprintf("CAST(%s AS VARCHAR)", expr)
		}
		preds = append(preds, sq.ILike{expr: "%" + term + "%"})
	}
	return preds
}
