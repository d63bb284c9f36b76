package search

import "time"

// Query is one search request against a core. The vector drives similarity
// ranking; the filter narrows the candidate set.
type Query struct {
	// Vector is the query embedding. Required.
	Vector []float32

	// Filter optionally restricts matches by stored fields.
	Filter *FilterSet

	// Limit caps the number of hits. Non-positive falls back to
	// DefaultQueryLimit.
	Limit int

	// Offset skips the first n hits, for paging.
	Offset int

	// WithVectors includes the stored embedding in each hit.
	WithVectors bool
}

// FacetQuery counts documents per value of one field.
type FacetQuery struct {
	// Field is the mapped field name to facet on.
	Field string

	// Values are the candidate values to count.
	Values []any

	// Filter optionally narrows the counted set.
	Filter *FilterSet
}

// FilterSet combines conditions with boolean semantics: all of Must, at
// least one of Should, none of MustNot.
type FilterSet struct {
	Must    []Condition
	Should  []Condition
	MustNot []Condition
}

// Condition is one field predicate in a filter.
type Condition interface {
	condition()
}

// MatchCondition matches documents whose field equals the value.
// Supported value types: string, bool, int, int64.
type MatchCondition struct {
	Field string
	Value any
}

// MatchAnyCondition matches documents whose field equals any of the
// values. All values must be strings or all integers.
type MatchAnyCondition struct {
	Field  string
	Values []any
}

// RangeCondition matches documents whose numeric field falls in the range.
// Nil bounds are open.
type RangeCondition struct {
	Field string
	Gt    *float64
	Gte   *float64
	Lt    *float64
	Lte   *float64
}

// TimeRangeCondition matches documents whose datetime field falls in the
// range. Nil bounds are open.
type TimeRangeCondition struct {
	Field string
	Gt    *time.Time
	Gte   *time.Time
	Lt    *time.Time
	Lte   *time.Time
}

// IsNullCondition matches documents where the field is null.
type IsNullCondition struct {
	Field string
}

// IsEmptyCondition matches documents where the field is absent or empty.
type IsEmptyCondition struct {
	Field string
}

func (MatchCondition) condition()     {}
func (MatchAnyCondition) condition()  {}
func (RangeCondition) condition()     {}
func (TimeRangeCondition) condition() {}
func (IsNullCondition) condition()    {}
func (IsEmptyCondition) condition()   {}

// Match builds an equality condition.
func Match(field string, value any) Condition {
	return MatchCondition{Field: field, Value: value}
}

// MatchAny builds a one-of condition.
func MatchAny(field string, values ...any) Condition {
	return MatchAnyCondition{Field: field, Values: values}
}

// Must returns a filter requiring all given conditions.
func Must(conditions ...Condition) *FilterSet {
	return &FilterSet{Must: conditions}
}
