// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package readmodel

// Op is a condition operator.
type Op int

const (
	// OpEq matches rows whose Field equals Value.
	OpEq Op = iota + 1
	// OpSearch matches rows where any of Fields contains Text, ignoring case.
	OpSearch
	// OpAnyOf matches rows satisfying at least one of Any.
	OpAnyOf
)

// Condition is one filter clause. Conditions in a slice are combined with AND.
type Condition struct {
	Op     Op
	Field  string
	Value  any
	Fields []string
	Text   string
	Any    []Condition
}

// Eq matches field == value. Values are strings, booleans or numbers.
func Eq(field string, value any) Condition {
	return Condition{Op: OpEq, Field: field, Value: value}
}

// Search is a case-insensitive substring match over fields, OR-combined.
func Search(text string, fields ...string) Condition {
	return Condition{Op: OpSearch, Text: text, Fields: fields}
}

// AnyOf OR-combines conditions.
func AnyOf(conditions ...Condition) Condition {
	return Condition{Op: OpAnyOf, Any: conditions}
}
