package query

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cast"
)

type ColumnType int

const (
	Text ColumnType = iota
	Integer
	Float
	Boolean
	Timestamp
)

// Column maps a row field (lower camel case) to its store column.
type Column struct {
	Field string
	Name  string
	Type  ColumnType
}

// Table is a handle on a store table with a fixed set of typed columns.
// It is read-only once built and safe to share between requests.
type Table struct {
	name       string
	primaryKey string
	createdAt  string
	columns    []Column
	byField    map[string]Column
}

type TableOption func(*Table)

// WithPrimaryKey sets the primary key field. Defaults to "id".
func WithPrimaryKey(field string) TableOption {
	return func(t *Table) {
		t.primaryKey = field
	}
}

// WithCreatedAt sets the creation timestamp field used by the "year" and
// "month" filters and by latest-inserted relations. Defaults to "createdAt".
func WithCreatedAt(field string) TableOption {
	return func(t *Table) {
		t.createdAt = field
	}
}

func NewTable(name string, columns []Column, opts ...TableOption) *Table {
	t := &Table{
		name:       name,
		primaryKey: "id",
		createdAt:  "createdAt",
		columns:    columns,
		byField:    make(map[string]Column, len(columns)),
	}
	for _, c := range columns {
		t.byField[c.Field] = c
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Table) Name() string {
	return t.name
}

func (t *Table) PrimaryKey() string {
	return t.primaryKey
}

func (t *Table) CreatedAt() string {
	return t.createdAt
}

func (t *Table) Columns() []Column {
	return t.columns
}

func (t *Table) Column(field string) (Column, bool) {
	c, ok := t.byField[field]
	return c, ok
}

func (t *Table) Has(field string) bool {
	_, ok := t.byField[field]
	return ok
}

// Ref returns the qualified column reference for field under alias,
// e.g. "animals"."adopter_id". The field must exist on the table.
func (t *Table) Ref(alias, field string) string {
	c := t.byField[field]
	return QuoteIdentifier(alias) + "." + QuoteIdentifier(c.Name)
}

// From returns the table expression aliased for use in FROM or JOIN.
func (t *Table) From(alias string) string {
	return fmt.Sprintf("%s AS %s", QuoteIdentifier(t.name), QuoteIdentifier(alias))
}

// Select returns the select list for every column under alias. Result
// columns are named after the field, prefixed by "prefix." when prefix is set.
func (t *Table) Select(alias, prefix string) []string {
	cols := make([]string, 0, len(t.columns))
	for _, c := range t.columns {
		name := c.Field
		if prefix != "" {
			name = prefix + "." + c.Field
		}
		cols = append(cols, fmt.Sprintf("%s AS %s", t.Ref(alias, c.Field), QuoteIdentifier(name)))
	}
	return cols
}

// Coerce converts a raw filter value to the column's Go type. Values that
// cannot be converted are passed through as strings and left to the store.
func (t *Table) Coerce(field, raw string) any {
	c, ok := t.byField[field]
	if !ok {
		return raw
	}
	switch c.Type {
	case Integer:
		if v, err := parseInteger(raw); err == nil {
			return v
		}
	case Float:
		if v, err := cast.ToFloat64E(raw); err == nil {
			return v
		}
	case Boolean:
		if v, err := cast.ToBoolE(raw); err == nil {
			return v
		}
	}
	return raw
}

// parseInteger reads raw as a base 10 integer, so "020" is 20 rather than
// an octal literal.
func parseInteger(raw string) (int64, error) {
	return strconv.ParseInt(strings.TrimSpace(raw), 10, 64)
}

// QuoteIdentifier wraps a string in double quotes and escapes existing double quotes.
func QuoteIdentifier(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
