package query

import (
	srvErrors "github.com/kubev2v/query-engine/pkg/errors"
	"github.com/kubev2v/query-engine/pkg/filter"
)

const (
	Asc  = "asc"
	Desc = "desc"
)

// Sort is a validated ordering directive.
type Sort struct {
	Field string
	Desc  bool
}

// OrderBy renders the directive against table under alias.
func (s Sort) OrderBy(table *Table, alias string) string {
	if s.Desc {
		return table.Ref(alias, s.Field) + " DESC"
	}
	return table.Ref(alias, s.Field) + " ASC"
}

// ResolveSort validates field and direction against table. Unlike filter
// fields, an unknown sort field is an error.
func ResolveSort(field, direction string, table *Table) (Sort, error) {
	normalized := filter.NormalizeField(field)
	if !table.Has(normalized) {
		return Sort{}, srvErrors.NewInvalidSortFieldError(table.Name(), field)
	}

	switch direction {
	case Asc:
		return Sort{Field: normalized}, nil
	case Desc:
		return Sort{Field: normalized, Desc: true}, nil
	default:
		return Sort{}, srvErrors.NewInvalidSortDirectionError(direction)
	}
}
