package search

import (
	"testing"
	"time"

	"github.com/searchfx/searchfx/v1/mapping"
)

type article struct {
	ID        string    `search:"id,key"`
	Title     string    `search:"title"`
	Views     int       `search:"views"`
	Rating    float32   `search:"rating"`
	Published time.Time `search:"published"`
	Tags      []string  `search:"tags"`
	Draft     bool      `search:"draft"`
}

func articleMapping(t *testing.T) *mapping.Mapping {
	t.Helper()
	manager, err := mapping.NewManager(0)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	m, err := mapping.For[article](manager)
	if err != nil {
		t.Fatalf("For[article]: %v", err)
	}
	return m
}

func TestFieldSerializer_Payload(t *testing.T) {
	m := articleMapping(t)
	s := NewFieldSerializer()

	published := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	doc := article{
		ID:        "a-1",
		Title:     "go generics",
		Views:     42,
		Rating:    4.5,
		Published: published,
		Tags:      []string{"go", "generics"},
		Draft:     true,
	}

	payload, err := s.Payload(m, &doc)
	if err != nil {
		t.Fatalf("Payload: %v", err)
	}

	if payload["id"] != "a-1" {
		t.Errorf("expected id a-1, got %v", payload["id"])
	}
	if payload["views"] != int64(42) {
		t.Errorf("expected views int64(42), got %T(%v)", payload["views"], payload["views"])
	}
	if payload["rating"] != float64(float32(4.5)) {
		t.Errorf("expected rating as float64, got %T(%v)", payload["rating"], payload["rating"])
	}
	if payload["published"] != "2025-03-14T09:30:00Z" {
		t.Errorf("expected RFC 3339 published, got %v", payload["published"])
	}
	if payload["draft"] != true {
		t.Errorf("expected draft true, got %v", payload["draft"])
	}

	tags, ok := payload["tags"].([]any)
	if !ok || len(tags) != 2 || tags[0] != "go" {
		t.Errorf("expected tags []any{go generics}, got %v", payload["tags"])
	}
}

func TestFieldSerializer_RejectsWrongType(t *testing.T) {
	m := articleMapping(t)
	s := NewFieldSerializer()

	if _, err := s.Payload(m, struct{ X int }{1}); err == nil {
		t.Error("expected error for mismatched document type")
	}
	if _, err := s.Payload(m, (*article)(nil)); err == nil {
		t.Error("expected error for nil document")
	}
}

func TestNormalizeValue(t *testing.T) {
	when := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	n := 7

	cases := []struct {
		name string
		in   any
		want any
	}{
		{"nil", nil, nil},
		{"string", "x", "x"},
		{"int", 7, int64(7)},
		{"uint", uint16(7), int64(7)},
		{"float32", float32(1.5), float64(1.5)},
		{"bool", true, true},
		{"time", when, "2025-01-02T03:04:05Z"},
		{"time pointer", &when, "2025-01-02T03:04:05Z"},
		{"nil time pointer", (*time.Time)(nil), nil},
		{"int pointer", &n, int64(7)},
		{"nil pointer", (*int)(nil), nil},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := normalizeValue(tc.in)
			if err != nil {
				t.Fatalf("normalizeValue(%v): %v", tc.in, err)
			}
			if got != tc.want {
				t.Errorf("normalizeValue(%v) = %T(%v), want %T(%v)", tc.in, got, got, tc.want, tc.want)
			}
		})
	}
}

func TestNormalizeValue_Map(t *testing.T) {
	got, err := normalizeValue(map[string]int{"a": 1})
	if err != nil {
		t.Fatalf("normalizeValue(map): %v", err)
	}
	m, ok := got.(map[string]any)
	if !ok || m["a"] != int64(1) {
		t.Errorf("expected map[string]any with int64 values, got %v", got)
	}

	if _, err := normalizeValue(map[int]string{1: "a"}); err == nil {
		t.Error("expected error for non-string map keys")
	}
}

func TestNormalizeValue_Unsupported(t *testing.T) {
	if _, err := normalizeValue(make(chan int)); err == nil {
		t.Error("expected error for unsupported type")
	}
}

func TestQuerySerializer_NilAndEmpty(t *testing.T) {
	s := NewQuerySerializer()

	if got := s.Filter(nil); got != nil {
		t.Errorf("expected nil for nil set, got %v", got)
	}
	if got := s.Filter(&FilterSet{}); got != nil {
		t.Errorf("expected nil for empty set, got %v", got)
	}
}

func TestQuerySerializer_Clauses(t *testing.T) {
	s := NewQuerySerializer()

	filter := s.Filter(&FilterSet{
		Must: []Condition{
			Match("city", "London"),
			Match("active", true),
		},
		Should: []Condition{
			Match("views", 10),
		},
		MustNot: []Condition{
			IsEmptyCondition{Field: "title"},
		},
	})

	if filter == nil {
		t.Fatal("expected filter, got nil")
	}
	if len(filter.Must) != 2 {
		t.Errorf("expected 2 must conditions, got %d", len(filter.Must))
	}
	if len(filter.Should) != 1 {
		t.Errorf("expected 1 should condition, got %d", len(filter.Should))
	}
	if len(filter.MustNot) != 1 {
		t.Errorf("expected 1 must-not condition, got %d", len(filter.MustNot))
	}

	if key := filter.Must[0].GetField().GetKey(); key != "city" {
		t.Errorf("expected first must key city, got %q", key)
	}
	if kw := filter.Must[0].GetField().GetMatch().GetKeyword(); kw != "London" {
		t.Errorf("expected keyword London, got %q", kw)
	}
}

func TestQuerySerializer_MatchAny(t *testing.T) {
	s := NewQuerySerializer()

	filter := s.Filter(Must(MatchAny("city", "London", "Berlin")))
	if filter == nil || len(filter.Must) != 1 {
		t.Fatalf("expected 1 must condition, got %v", filter)
	}
	keywords := filter.Must[0].GetField().GetMatch().GetKeywords().GetStrings()
	if len(keywords) != 2 || keywords[0] != "London" || keywords[1] != "Berlin" {
		t.Errorf("expected [London Berlin], got %v", keywords)
	}

	filter = s.Filter(Must(MatchAny("views", 1, int64(2))))
	if filter == nil || len(filter.Must) != 1 {
		t.Fatalf("expected 1 must condition, got %v", filter)
	}
	ints := filter.Must[0].GetField().GetMatch().GetIntegers().GetIntegers()
	if len(ints) != 2 || ints[0] != 1 || ints[1] != 2 {
		t.Errorf("expected [1 2], got %v", ints)
	}

	if got := s.Filter(Must(MatchAny("city"))); got != nil {
		t.Errorf("expected nil filter for empty value list, got %v", got)
	}
}

func TestQuerySerializer_Ranges(t *testing.T) {
	s := NewQuerySerializer()

	gte, lt := 10.0, 20.0
	filter := s.Filter(Must(RangeCondition{Field: "views", Gte: &gte, Lt: &lt}))
	if filter == nil || len(filter.Must) != 1 {
		t.Fatalf("expected 1 must condition, got %v", filter)
	}
	r := filter.Must[0].GetField().GetRange()
	if r.GetGte() != 10.0 || r.GetLt() != 20.0 {
		t.Errorf("expected range [10, 20), got %v", r)
	}

	// A range with no bounds is dropped, leaving an empty set.
	if got := s.Filter(Must(RangeCondition{Field: "views"})); got != nil {
		t.Errorf("expected nil filter for unbounded range, got %v", got)
	}

	from := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	filter = s.Filter(Must(TimeRangeCondition{Field: "published", Gte: &from}))
	if filter == nil || len(filter.Must) != 1 {
		t.Fatalf("expected 1 must condition, got %v", filter)
	}
	dr := filter.Must[0].GetField().GetDatetimeRange()
	if dr.GetGte().AsTime() != from {
		t.Errorf("expected gte %v, got %v", from, dr.GetGte().AsTime())
	}
}

func TestFacetSerializer_Filters(t *testing.T) {
	s := NewFacetSerializer(NewQuerySerializer())

	filters, err := s.Filters(FacetQuery{
		Field:  "city",
		Values: []any{"London", "Berlin"},
		Filter: Must(Match("active", true)),
	})
	if err != nil {
		t.Fatalf("Filters: %v", err)
	}
	if len(filters) != 2 {
		t.Fatalf("expected one filter per value, got %d", len(filters))
	}
	for i, f := range filters {
		// Each filter carries the value condition plus the base filter.
		if len(f.Must) != 2 {
			t.Errorf("filter %d: expected 2 must conditions, got %d", i, len(f.Must))
		}
	}
	if kw := filters[1].Must[0].GetField().GetMatch().GetKeyword(); kw != "Berlin" {
		t.Errorf("expected second filter to match Berlin, got %q", kw)
	}
}

func TestFacetSerializer_RequiresFieldAndValues(t *testing.T) {
	s := NewFacetSerializer(NewQuerySerializer())

	if _, err := s.Filters(FacetQuery{Values: []any{"x"}}); err == nil {
		t.Error("expected error for missing field")
	}
	if _, err := s.Filters(FacetQuery{Field: "city"}); err == nil {
		t.Error("expected error for missing values")
	}
}
