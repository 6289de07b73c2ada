package domain

import "fmt"

// Operator enumerates the comparison operators a FilterClause can carry.
type Operator string

const (
	OpEquals        Operator = "equals"
	OpNotEquals     Operator = "notequals"
	OpContains      Operator = "contains"
	OpNotContains   Operator = "notcontains"
	OpStartsWith    Operator = "starts"
	OpNotStartsWith Operator = "notstarts"
	OpInList        Operator = "inlist"
)

// Library selects the corpus partition: documents since the historical
// cutover live in the main library, everything earlier in legacy.
type Library string

const (
	LibraryMain   Library = "main"
	LibraryLegacy Library = "legacy"
)

// Combine selects how property clauses join.
type Combine string

const (
	CombineAll Combine = "AND"
	CombineAny Combine = "OR"
)

// FilterClause is one field constraint. A clause holds either a single
// value or, for OpInList, an ordered value list. Construct clauses with
// the builder functions so ambiguous shapes never enter the model.
type FilterClause struct {
	Field    string
	Operator Operator
	Value    string
	Values   []string
}

func NewClause(field string, op Operator, value string) FilterClause {
	return FilterClause{Field: field, Operator: op, Value: value}
}

func NewListClause(field string, values []string) FilterClause {
	return FilterClause{Field: field, Operator: OpInList, Values: values}
}

// DateClause is a date constraint compiled into each backend's native
// date expression. Zero-value bounds are omitted.
type DateClause struct {
	Field string
	From  string // YYYY-MM-DD, inclusive
	To    string // YYYY-MM-DD, inclusive
}

// Scope narrows a search to a library partition and, for the legacy
// grammar, an optional folder or recency pseudo-scope. IncludeLegacy
// adds the legacy partition alongside the main library.
type Scope struct {
	Library        Library
	IncludeLegacy  bool
	FolderPath     string
	AddedToday     bool
	AddedThisMonth bool
}

// FilterModel is the neutral representation of search constraints that
// every backend grammar compiles from.
type FilterModel struct {
	FreeText string
	AllOf    []FilterClause
	AnyOf    []FilterClause
	Dates    []DateClause
	Combine  Combine
	Scope    Scope
}

// Validate rejects malformed filter shapes before any compilation:
// at most one AllOf clause may carry a list operator, the library scope
// must be recognized, and at least one constraint must be present.
func (m FilterModel) Validate() error {
	lists := 0
	for _, c := range m.AllOf {
		if c.Operator == OpInList {
			lists++
		}
	}
	if lists > 1 && m.Combine != CombineAny {
		return WrapError(ErrValidation, "filter", fmt.Errorf("multiple list filters not supported with AND logic"))
	}
	switch m.Scope.Library {
	case "", LibraryMain, LibraryLegacy:
	default:
		return WrapError(ErrValidation, "filter", fmt.Errorf("library must be %q or %q", LibraryMain, LibraryLegacy))
	}
	if m.Scope.AddedToday && m.Scope.AddedThisMonth {
		return WrapError(ErrValidation, "filter", fmt.Errorf("added_today and added_this_month cannot both be set"))
	}
	if m.FreeText == "" && len(m.AllOf) == 0 && len(m.AnyOf) == 0 && len(m.Dates) == 0 &&
		m.Scope.FolderPath == "" && !m.Scope.AddedToday && !m.Scope.AddedThisMonth {
		return WrapError(ErrValidation, "filter", fmt.Errorf("at least one search criterion is required"))
	}
	return nil
}
