package search

import (
	"fmt"
	"reflect"
	"time"

	qdrant "github.com/qdrant/go-client/qdrant"
	"google.golang.org/protobuf/types/known/timestamppb"

	"github.com/searchfx/searchfx/v1/mapping"
)

// FieldSerializer converts a mapped document into the payload the engine
// stores. It is stateless and shared by every core.
type FieldSerializer struct{}

// NewFieldSerializer creates a field serializer.
func NewFieldSerializer() *FieldSerializer { return &FieldSerializer{} }

// Payload extracts the mapped fields of a document into an engine payload.
// Times are normalized to RFC 3339 strings, integers to int64, floats to
// float64.
func (s *FieldSerializer) Payload(m *mapping.Mapping, doc any) (map[string]any, error) {
	rv := reflect.ValueOf(doc)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return nil, fmt.Errorf("search: nil document of type %s", m.GoType())
		}
		rv = rv.Elem()
	}
	if rv.Type() != m.GoType() {
		return nil, fmt.Errorf("search: document type %s does not match mapping for %s", rv.Type(), m.GoType())
	}

	payload := make(map[string]any, len(m.Fields()))
	for _, f := range m.Fields() {
		v, err := normalizeValue(rv.FieldByIndex(f.Index).Interface())
		if err != nil {
			return nil, fmt.Errorf("search: field %q: %w", f.Name, err)
		}
		payload[f.Name] = v
	}
	return payload, nil
}

// normalizeValue maps a Go value onto the payload value set the engine
// accepts.
func normalizeValue(v any) (any, error) {
	switch val := v.(type) {
	case nil:
		return nil, nil
	case string, bool, int64, float64:
		return val, nil
	case time.Time:
		return val.UTC().Format(time.RFC3339Nano), nil
	case *time.Time:
		if val == nil {
			return nil, nil
		}
		return val.UTC().Format(time.RFC3339Nano), nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return rv.String(), nil
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return int64(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return rv.Float(), nil
	case reflect.Slice, reflect.Array:
		out := make([]any, rv.Len())
		for i := 0; i < rv.Len(); i++ {
			nv, err := normalizeValue(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			out[i] = nv
		}
		return out, nil
	case reflect.Map:
		if rv.Type().Key().Kind() != reflect.String {
			return nil, fmt.Errorf("unsupported map key type %s", rv.Type().Key())
		}
		out := make(map[string]any, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			nv, err := normalizeValue(iter.Value().Interface())
			if err != nil {
				return nil, err
			}
			out[iter.Key().String()] = nv
		}
		return out, nil
	case reflect.Pointer:
		if rv.IsNil() {
			return nil, nil
		}
		return normalizeValue(rv.Elem().Interface())
	default:
		return nil, fmt.Errorf("unsupported value type %T", v)
	}
}

// QuerySerializer converts the filter model into the engine's filter
// representation. It is stateless and shared by every core.
type QuerySerializer struct{}

// NewQuerySerializer creates a query serializer.
func NewQuerySerializer() *QuerySerializer { return &QuerySerializer{} }

// Filter converts a FilterSet. Returns nil when the set carries no
// conditions so callers can pass it straight through.
func (s *QuerySerializer) Filter(fs *FilterSet) *qdrant.Filter {
	if fs == nil {
		return nil
	}

	filter := &qdrant.Filter{
		Must:    s.conditions(fs.Must),
		Should:  s.conditions(fs.Should),
		MustNot: s.conditions(fs.MustNot),
	}

	if len(filter.Must) == 0 && len(filter.Should) == 0 && len(filter.MustNot) == 0 {
		return nil
	}
	return filter
}

func (s *QuerySerializer) conditions(conds []Condition) []*qdrant.Condition {
	var out []*qdrant.Condition
	for _, c := range conds {
		if qc := s.condition(c); qc != nil {
			out = append(out, qc)
		}
	}
	return out
}

func (s *QuerySerializer) condition(c Condition) *qdrant.Condition {
	switch cond := c.(type) {
	case MatchCondition:
		return s.match(cond)
	case MatchAnyCondition:
		return s.matchAny(cond)
	case RangeCondition:
		return s.numericRange(cond)
	case TimeRangeCondition:
		return s.timeRange(cond)
	case IsNullCondition:
		return qdrant.NewIsNull(cond.Field)
	case IsEmptyCondition:
		return qdrant.NewIsEmpty(cond.Field)
	default:
		return nil
	}
}

func (s *QuerySerializer) match(c MatchCondition) *qdrant.Condition {
	switch v := c.Value.(type) {
	case string:
		return qdrant.NewMatch(c.Field, v)
	case bool:
		return qdrant.NewMatchBool(c.Field, v)
	case int:
		return qdrant.NewMatchInt(c.Field, int64(v))
	case int64:
		return qdrant.NewMatchInt(c.Field, v)
	case float64:
		// JSON numbers decode as float64.
		return qdrant.NewMatchInt(c.Field, int64(v))
	default:
		return nil
	}
}

func (s *QuerySerializer) matchAny(c MatchAnyCondition) *qdrant.Condition {
	if len(c.Values) == 0 {
		return nil
	}

	switch c.Values[0].(type) {
	case string:
		strs := make([]string, 0, len(c.Values))
		for _, v := range c.Values {
			if sv, ok := v.(string); ok {
				strs = append(strs, sv)
			}
		}
		return qdrant.NewMatchKeywords(c.Field, strs...)
	case int, int64:
		ints := make([]int64, 0, len(c.Values))
		for _, v := range c.Values {
			switch n := v.(type) {
			case int:
				ints = append(ints, int64(n))
			case int64:
				ints = append(ints, n)
			}
		}
		return qdrant.NewMatchInts(c.Field, ints...)
	default:
		return nil
	}
}

func (s *QuerySerializer) numericRange(c RangeCondition) *qdrant.Condition {
	if c.Gt == nil && c.Gte == nil && c.Lt == nil && c.Lte == nil {
		return nil
	}
	return qdrant.NewRange(c.Field, &qdrant.Range{
		Gt:  c.Gt,
		Gte: c.Gte,
		Lt:  c.Lt,
		Lte: c.Lte,
	})
}

func (s *QuerySerializer) timeRange(c TimeRangeCondition) *qdrant.Condition {
	if c.Gt == nil && c.Gte == nil && c.Lt == nil && c.Lte == nil {
		return nil
	}
	return qdrant.NewDatetimeRange(c.Field, &qdrant.DatetimeRange{
		Gt:  toTimestamp(c.Gt),
		Gte: toTimestamp(c.Gte),
		Lt:  toTimestamp(c.Lt),
		Lte: toTimestamp(c.Lte),
	})
}

func toTimestamp(t *time.Time) *timestamppb.Timestamp {
	if t == nil {
		return nil
	}
	return timestamppb.New(*t)
}

// FacetSerializer expands a facet query into one engine filter per
// candidate value. It is stateless and shared by every core.
type FacetSerializer struct {
	queries *QuerySerializer
}

// NewFacetSerializer creates a facet serializer.
func NewFacetSerializer(queries *QuerySerializer) *FacetSerializer {
	return &FacetSerializer{queries: queries}
}

// Filters returns, per candidate value, the filter counting documents with
// that value, combined with the facet query's base filter.
func (s *FacetSerializer) Filters(fq FacetQuery) ([]*qdrant.Filter, error) {
	if fq.Field == "" || len(fq.Values) == 0 {
		return nil, ErrFacetField
	}

	filters := make([]*qdrant.Filter, 0, len(fq.Values))
	for _, v := range fq.Values {
		fs := FilterSet{Must: []Condition{MatchCondition{Field: fq.Field, Value: v}}}
		if fq.Filter != nil {
			fs.Must = append(fs.Must, fq.Filter.Must...)
			fs.Should = append(fs.Should, fq.Filter.Should...)
			fs.MustNot = append(fs.MustNot, fq.Filter.MustNot...)
		}

		filter := s.queries.Filter(&fs)
		if filter == nil {
			return nil, fmt.Errorf("search: facet value %v for field %q produced no filter", v, fq.Field)
		}
		filters = append(filters, filter)
	}
	return filters, nil
}
