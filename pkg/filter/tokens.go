package filter

import "strings"

// Operator is the comparison applied to every value of a clause.
type Operator int

const (
	In Operator = iota
	NotIn
	Greater
	Less
	GreaterOrEqual
	LessOrEqual
	Like
	IsNull
	IsNotNull
	Equal
	NotEqual
)

var operatorNames = map[Operator]string{
	In:             "in",
	NotIn:          "nin",
	Greater:        "gt",
	Less:           "lt",
	GreaterOrEqual: "gte",
	LessOrEqual:    "lte",
	Like:           "like",
	IsNull:         "null",
	IsNotNull:      "notnull",
	Equal:          "eq",
	NotEqual:       "ne",
}

var operatorTokens = func() map[string]Operator {
	m := make(map[string]Operator, len(operatorNames))
	for op, name := range operatorNames {
		m[name] = op
	}
	return m
}()

func (o Operator) String() string {
	if name, ok := operatorNames[o]; ok {
		return name
	}
	return operatorNames[In]
}

// SingleValue reports whether the operator only looks at the first value of the clause.
func (o Operator) SingleValue() bool {
	switch o {
	case Greater, Less, GreaterOrEqual, LessOrEqual, Like, Equal, NotEqual:
		return true
	default:
		return false
	}
}

// ParseOperator maps an operator token to its Operator.
// Unrecognized tokens fall back to In.
func ParseOperator(token string) Operator {
	if op, ok := operatorTokens[strings.ToLower(strings.TrimSpace(token))]; ok {
		return op
	}
	return In
}
