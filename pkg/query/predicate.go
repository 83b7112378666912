package query

import (
	"fmt"
	"slices"

	sq "github.com/Masterminds/squirrel"

	"github.com/kubev2v/query-engine/pkg/filter"
)

// Reserved filter fields compiled against the table's temporal column.
const (
	YearField  = "year"
	MonthField = "month"
)

var temporalParts = map[string]string{
	YearField:  "year",
	MonthField: "month",
}

// CompilePredicates compiles every clause whose field is a column of table.
// Unknown fields are ignored. The reserved "year" and "month" fields are
// left to CompileTemporalPredicates.
func CompilePredicates(cond filter.Condition, table *Table) []sq.Sqlizer {
	var preds []sq.Sqlizer
	for _, field := range sortedFields(cond) {
		if _, reserved := temporalParts[field]; reserved {
			continue
		}
		col, ok := table.Column(field)
		if !ok {
			continue
		}

		coerce := func(v string) any { return table.Coerce(field, v) }
		expr := table.Ref(table.Name(), field)
		textExpr := expr
		if col.Type != Text {
			textExpr = fmt.Sprintf("CAST(%s AS VARCHAR)", expr)
		}
		preds = append(preds, compileClause(expr, textExpr, cond[field], coerce))
	}
	return preds
}

// CompileTemporalPredicates compiles the "year" and "month" clauses against
// temporalField using date part extraction. An empty temporalField selects
// the table's creation timestamp. Nothing is compiled when the field is not
// a column of table.
//
// Every operator only looks at the first value of the clause.
func CompileTemporalPredicates(cond filter.Condition, table *Table, temporalField string) []sq.Sqlizer {
	if temporalField == "" {
		temporalField = table.CreatedAt()
	}
	if !table.Has(temporalField) {
		return nil
	}

	var preds []sq.Sqlizer
	for _, field := range []string{YearField, MonthField} {
		clause, ok := cond[field]
		if !ok {
			continue
		}

		expr := fmt.Sprintf("date_part('%s', %s)", temporalParts[field], table.Ref(table.Name(), temporalField))
		coerce := func(v string) any {
			if n, err := parseInteger(v); err == nil {
				return n
			}
			return v
		}

		switch clause.Operator {
		case filter.In:
			clause = filter.Clause{Operator: filter.Equal, Values: clause.Values}
		case filter.NotIn:
			clause = filter.Clause{Operator: filter.NotEqual, Values: clause.Values}
		}
		preds = append(preds, compileClause(expr, fmt.Sprintf("CAST(%s AS VARCHAR)", expr), clause, coerce))
	}
	return preds
}

// CompileFilter AND-combines the regular and temporal predicates of cond.
// It returns nil when cond yields no predicate, meaning "no filter".
func CompileFilter(cond filter.Condition, table *Table) sq.Sqlizer {
	preds := CompilePredicates(cond, table)
	preds = append(preds, CompileTemporalPredicates(cond, table, "")...)
	if len(preds) == 0 {
		return nil
	}
	return sq.And(preds)
}

func compileClause(expr, textExpr string, clause filter.Clause, coerce func(string) any) sq.Sqlizer {
	first := coerce(clause.First())

	switch clause.Operator {
	case filter.NotIn:
		return sq.NotEq{expr: coerceAll(clause.Values, coerce)}
	case filter.Greater:
		return sq.Gt{expr: first}
	case filter.Less:
		return sq.Lt{expr: first}
	case filter.GreaterOrEqual:
		return sq.GtOrEq{expr: first}
	case filter.LessOrEqual:
		return sq.LtOrEq{expr: first}
	case filter.Like:
		return sq.Like{textExpr: "%" + clause.First() + "%"}
	case filter.IsNull:
		return sq.Eq{expr: nil}
	case filter.IsNotNull:
		return sq.NotEq{expr: nil}
	case filter.Equal:
		return sq.Eq{expr: first}
	case filter.NotEqual:
		return sq.NotEq{expr: first}
	default:
		return sq.Eq{expr: coerceAll(clause.Values, coerce)}
	}
}

func coerceAll(values []string, coerce func(string) any) []any {
	out := make([]any, 0, len(values))
	for _, v := range values {
		out = append(out, coerce(v))
	}
	return out
}

func sortedFields(cond filter.Condition) []string {
	fields := cond.Fields()
	slices.Sort(fields)
	return fields
}
