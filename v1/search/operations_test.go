package search

import (
	"testing"
	"time"
)

func fptr(v float64) *float64 { return &v }

func tptr(v time.Time) *time.Time { return &v }

// rangeQuery builds a query whose filter bounds live behind fresh
// allocations on every call.
func rangeQuery(gte, lt float64) Query {
	return Query{
		Vector: []float32{0.1, 0.2},
		Filter: &FilterSet{
			Must: []Condition{
				RangeCondition{Field: "price", Gte: fptr(gte), Lt: fptr(lt)},
			},
		},
		Limit: 10,
	}
}

func TestQueryKey_EqualRangeFiltersShareKey(t *testing.T) {
	a := queryKey("c1", rangeQuery(3, 10))
	b := queryKey("c1", rangeQuery(3, 10))
	if a != b {
		t.Errorf("identical range queries produced different keys: %s vs %s", a, b)
	}
}

func TestQueryKey_DistinctBoundsDistinctKeys(t *testing.T) {
	a := queryKey("c1", rangeQuery(3, 10))
	b := queryKey("c1", rangeQuery(3, 11))
	if a == b {
		t.Errorf("different range bounds collided on key %s", a)
	}
}

func TestQueryKey_TimeRangeByValue(t *testing.T) {
	at := time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC)
	mk := func(until time.Time) Query {
		return Query{
			Vector: []float32{1},
			Filter: &FilterSet{
				Must: []Condition{
					TimeRangeCondition{Field: "published", Gte: tptr(at), Lt: tptr(until)},
				},
			},
		}
	}

	a := queryKey("c1", mk(at.Add(time.Hour)))
	b := queryKey("c1", mk(at.Add(time.Hour)))
	if a != b {
		t.Errorf("identical time range queries produced different keys: %s vs %s", a, b)
	}
	if c := queryKey("c1", mk(at.Add(2 * time.Hour))); c == a {
		t.Errorf("different time bounds collided on key %s", a)
	}
}

func TestQueryKey_Discriminates(t *testing.T) {
	base := Query{Vector: []float32{1, 2}, Limit: 10}

	variants := map[string]Query{
		"offset":       {Vector: []float32{1, 2}, Limit: 10, Offset: 5},
		"with vectors": {Vector: []float32{1, 2}, Limit: 10, WithVectors: true},
		"match":        {Vector: []float32{1, 2}, Limit: 10, Filter: Must(Match("city", "London"))},
		"match any":    {Vector: []float32{1, 2}, Limit: 10, Filter: Must(MatchAny("city", "London", "Berlin"))},
		"is null":      {Vector: []float32{1, 2}, Limit: 10, Filter: Must(IsNullCondition{Field: "city"})},
		"is empty":     {Vector: []float32{1, 2}, Limit: 10, Filter: Must(IsEmptyCondition{Field: "city"})},
		"should":       {Vector: []float32{1, 2}, Limit: 10, Filter: &FilterSet{Should: []Condition{Match("city", "London")}}},
		"must not":     {Vector: []float32{1, 2}, Limit: 10, Filter: &FilterSet{MustNot: []Condition{Match("city", "London")}}},
	}

	baseKey := queryKey("c1", base)
	seen := map[string]string{"base": baseKey}
	for name, q := range variants {
		key := queryKey("c1", q)
		for other, otherKey := range seen {
			if key == otherKey {
				t.Errorf("%q and %q collided on key %s", name, other, key)
			}
		}
		seen[name] = key
	}

	if k := queryKey("c2", base); k == baseKey {
		t.Error("keys must differ across cores")
	}
}

func TestQueryKey_MatchValueTypes(t *testing.T) {
	mk := func(v any) Query {
		return Query{Vector: []float32{1}, Filter: Must(Match("stars", v))}
	}
	if queryKey("c1", mk(int64(1))) == queryKey("c1", mk(true)) {
		t.Error("match values of different types must not collide")
	}
}
