// Copyright (c) 2026 Vidora. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package readmodel describes denormalized, paginated views over the relation
store as plain data.

A [Spec] names a base collection and declares, in order:

  - Match: conditions on the base rows.
  - Project: the base fields to emit.
  - Joins: foreign records embedded under a key, each with its own narrow
    projection and optionally nested joins (video → author → {username, ...}).
  - Derived: values computed at read time from relation rows: counts,
    existence flags, sequence lengths. Nothing here is ever a stored counter.
  - Sort: one whitelisted field plus an id tie-break in the same direction.
  - Page: page/limit, turned into skip/limit by the executor.

Store implementations compile a Spec (SQL for postgres, in-process evaluation
for the memory store) and return one JSON document per row; [Run] decodes the
documents into the caller's view type and attaches pagination metadata.
*/
package readmodel

import (
	"fmt"

	"github.com/taibuivan/vidora/pkg/pagination"
)

// # Query Specification

// Spec is a declarative read-model query.
type Spec struct {
	From    Collection
	Match   []Condition
	Project []string
	Joins   []Join
	Derived []Derived
	Sort    Sort
	Page    pagination.Params
}

// Join embeds foreign records under As.
//
// The foreign row matches when its ForeignField (default "id") equals the
// parent's LocalField. With Many set, LocalField holds an ordered id sequence
// and the join yields an array in sequence order. With Required set, parent
// rows that have no matching foreign row are dropped from the result and from
// the total.
type Join struct {
	As           string
	From         Collection
	LocalField   string
	ForeignField string
	Project      []string
	Match        []Condition
	Joins        []Join
	Derived      []Derived
	Many         bool
	Required     bool
}

// DerivedKind selects how a derived value is computed.
type DerivedKind int

const (
	// DerivedCount counts related rows.
	DerivedCount DerivedKind = iota + 1
	// DerivedExists reports whether at least one related row exists.
	DerivedExists
	// DerivedLength is the length of an id sequence on the row itself.
	DerivedLength
)

// Derived is a value computed at read time for each row.
type Derived struct {
	As           string
	Kind         DerivedKind
	From         Collection
	ForeignField string
	LocalField   string
	Match        []Condition
}

// CountOf counts rows of from whose foreignField equals the row's id.
func CountOf(as string, from Collection, foreignField string, match ...Condition) Derived {
	return Derived{As: as, Kind: DerivedCount, From: from, ForeignField: foreignField, LocalField: FieldID, Match: match}
}

// ExistsIn flags whether any row of from has foreignField equal to the row's id.
func ExistsIn(as string, from Collection, foreignField string, match ...Condition) Derived {
	return Derived{As: as, Kind: DerivedExists, From: from, ForeignField: foreignField, LocalField: FieldID, Match: match}
}

// LengthOf is the length of the row's own sequence field.
func LengthOf(as, field string) Derived {
	return Derived{As: as, Kind: DerivedLength, LocalField: field}
}

// On correlates a derived value with a field other than the row's id.
func (derived Derived) On(localField string) Derived {
	derived.LocalField = localField
	return derived
}

// # Sorting

// Direction of a sort.
type Direction string

const (
	Asc  Direction = "asc"
	Desc Direction = "desc"
)

// Sort orders rows by Field then by id, both in Direction.
type Sort struct {
	Field     string
	Direction Direction
}

// NewestFirst is the default ordering of every listing.
var NewestFirst = Sort{Field: FieldCreatedAt, Direction: Desc}

// # Validation

// Validate rejects specs that reference unknown collections or fields, or sort
// by a field that is not whitelisted for the base collection. Executors call
// it before compiling, so caller-chosen names never reach the query layer
// unchecked.
func (spec Spec) Validate() error {
	if !spec.From.known() {
		return fmt.Errorf("readmodel: unknown collection %q", spec.From)
	}

	if err := checkFields(spec.From, spec.Project); err != nil {
		return err
	}

	if err := checkConditions(spec.From, spec.Match); err != nil {
		return err
	}

	for _, join := range spec.Joins {
		if err := join.validate(spec.From); err != nil {
			return err
		}
	}

	for _, derived := range spec.Derived {
		if err := derived.validate(spec.From); err != nil {
			return err
		}
	}

	if !IsSortable(spec.From, spec.Sort.Field) {
		return fmt.Errorf("readmodel: %s cannot be sorted by %q", spec.From, spec.Sort.Field)
	}

	if spec.Sort.Direction != Asc && spec.Sort.Direction != Desc {
		return fmt.Errorf("readmodel: invalid sort direction %q", spec.Sort.Direction)
	}

	if spec.Page.Page < 1 || spec.Page.Limit < 1 {
		return fmt.Errorf("readmodel: page and limit must be positive")
	}

	return nil
}

func (join Join) validate(parent Collection) error {
	if join.As == "" {
		return fmt.Errorf("readmodel: join from %s has no output key", join.From)
	}
	if !join.From.known() {
		return fmt.Errorf("readmodel: unknown collection %q", join.From)
	}
	if !HasField(parent, join.LocalField) {
		return fmt.Errorf("readmodel: %s has no field %q", parent, join.LocalField)
	}
	if join.Many != IsSequence(parent, join.LocalField) {
		return fmt.Errorf("readmodel: join %q: sequence mismatch on %q", join.As, join.LocalField)
	}
	if !HasField(join.From, join.foreignField()) {
		return fmt.Errorf("readmodel: %s has no field %q", join.From, join.foreignField())
	}
	if err := checkFields(join.From, join.Project); err != nil {
		return err
	}
	if err := checkConditions(join.From, join.Match); err != nil {
		return err
	}
	for _, nested := range join.Joins {
		if err := nested.validate(join.From); err != nil {
			return err
		}
	}
	for _, derived := range join.Derived {
		if err := derived.validate(join.From); err != nil {
			return err
		}
	}
	return nil
}

func (derived Derived) validate(parent Collection) error {
	if derived.As == "" {
		return fmt.Errorf("readmodel: derived value on %s has no output key", parent)
	}

	switch derived.Kind {
	case DerivedLength:
		if !IsSequence(parent, derived.LocalField) {
			return fmt.Errorf("readmodel: %q is not a sequence of %s", derived.LocalField, parent)
		}
		return nil
	case DerivedCount, DerivedExists:
	default:
		return fmt.Errorf("readmodel: derived %q has no kind", derived.As)
	}

	if !derived.From.known() {
		return fmt.Errorf("readmodel: unknown collection %q", derived.From)
	}
	if !HasField(parent, derived.localField()) {
		return fmt.Errorf("readmodel: %s has no field %q", parent, derived.localField())
	}
	if !HasField(derived.From, derived.ForeignField) {
		return fmt.Errorf("readmodel: %s has no field %q", derived.From, derived.ForeignField)
	}
	return checkConditions(derived.From, derived.Match)
}

// foreignField returns the correlating foreign field, "id" by default.
func (join Join) foreignField() string {
	if join.ForeignField == "" {
		return FieldID
	}
	return join.ForeignField
}

// ForeignKey is the exported accessor used by executors.
func (join Join) ForeignKey() string { return join.foreignField() }

func (derived Derived) localField() string {
	if derived.LocalField == "" {
		return FieldID
	}
	return derived.LocalField
}

// LocalKey is the exported accessor used by executors.
func (derived Derived) LocalKey() string { return derived.localField() }

func checkFields(collection Collection, fields []string) error {
	for _, field := range fields {
		if !HasField(collection, field) {
			return fmt.Errorf("readmodel: %s has no field %q", collection, field)
		}
	}
	return nil
}

func checkConditions(collection Collection, conditions []Condition) error {
	for _, condition := range conditions {
		switch condition.Op {
		case OpEq:
			if !HasField(collection, condition.Field) {
				return fmt.Errorf("readmodel: %s has no field %q", collection, condition.Field)
			}
		case OpSearch:
			if err := checkFields(collection, condition.Fields); err != nil {
				return err
			}
		case OpAnyOf:
			if err := checkConditions(collection, condition.Any); err != nil {
				return err
			}
		default:
			return fmt.Errorf("readmodel: unknown condition operator %d", condition.Op)
		}
	}
	return nil
}
