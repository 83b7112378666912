package filter

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

const (
	clauseSeparator = ";"
	partSeparator   = ":"
	valueSeparator  = ","
)

// Clause is the operator and raw values parsed for one field.
type Clause struct {
	Operator Operator
	Values   []string
}

// First returns the first value of the clause or "" when there is none.
func (c Clause) First() string {
	if len(c.Values) == 0 {
		return ""
	}
	return c.Values[0]
}

// Condition maps a normalized field name to its clause.
type Condition map[string]Clause

// Fields returns the field names present in the condition.
func (c Condition) Fields() []string {
	fields := make([]string, 0, len(c))
	for f := range c {
		fields = append(fields, f)
	}
	return fields
}

// Parse turns a filter string into a Condition.
//
// Malformed clauses are dropped, a repeated field keeps its last clause and
// an empty input yields a nil Condition, which callers treat as "no predicate".
func Parse(src string) Condition {
	if strings.TrimSpace(src) == "" {
		return nil
	}

	cond := make(Condition)
	for _, raw := range strings.Split(src, clauseSeparator) {
		parts := strings.Split(raw, partSeparator)
		if len(parts) < 2 || len(parts) > 3 {
			continue
		}

		field := NormalizeField(parts[0])
		if field == "" {
			continue
		}

		op := In
		if len(parts) == 3 {
			op = ParseOperator(parts[2])
		}

		cond[field] = Clause{
			Operator: op,
			Values:   strings.Split(parts[1], valueSeparator),
		}
	}

	if len(cond) == 0 {
		return nil
	}
	return cond
}

// NormalizeField converts an external field spelling (snake, kebab or space
// separated) to the lower camel case used for row keys:
// "kelompok_komunitas_id" becomes "kelompokKomunitasId".
func NormalizeField(name string) string {
	words := strings.FieldsFunc(strings.TrimSpace(name), func(r rune) bool {
		return r == '_' || r == '-' || unicode.IsSpace(r)
	})

	var b strings.Builder
	for i, w := range words {
		if isUpper(w) {
			w = strings.ToLower(w)
		}
		r, size := utf8.DecodeRuneInString(w)
		if i == 0 {
			b.WriteRune(unicode.ToLower(r))
		} else {
			b.WriteRune(unicode.ToUpper(r))
		}
		b.WriteString(w[size:])
	}
	return b.String()
}

func isUpper(w string) bool {
	hasLetter := false
	for _, r := range w {
		if unicode.IsLower(r) {
			return false
		}
		if unicode.IsLetter(r) {
			hasLetter = true
		}
	}
	return hasLetter
}
