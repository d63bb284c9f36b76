package search

import (
	"fmt"
	"reflect"
	"strconv"
	"time"

	qdrant "github.com/qdrant/go-client/qdrant"

	"github.com/searchfx/searchfx/v1/mapping"
)

// ResponseParser converts engine responses into engine-agnostic hits. It
// is stateless and shared by every core.
type ResponseParser struct{}

// NewResponseParser creates a response parser.
func NewResponseParser() *ResponseParser { return &ResponseParser{} }

// Scored converts query results.
func (p *ResponseParser) Scored(points []*qdrant.ScoredPoint) ([]Hit, error) {
	hits := make([]Hit, 0, len(points))
	for _, pt := range points {
		id, err := pointIDToString(pt.Id)
		if err != nil {
			return nil, err
		}
		hits = append(hits, Hit{
			ID:     id,
			Score:  pt.Score,
			Fields: payloadToFields(pt.Payload),
			Vector: pt.Vectors.GetVector().GetData(),
		})
	}
	return hits, nil
}

// Retrieved converts direct-lookup results.
func (p *ResponseParser) Retrieved(points []*qdrant.RetrievedPoint) ([]Hit, error) {
	hits := make([]Hit, 0, len(points))
	for _, pt := range points {
		id, err := pointIDToString(pt.Id)
		if err != nil {
			return nil, err
		}
		hits = append(hits, Hit{
			ID:     id,
			Fields: payloadToFields(pt.Payload),
			Vector: pt.Vectors.GetVector().GetData(),
		})
	}
	return hits, nil
}

func pointIDToString(id *qdrant.PointId) (string, error) {
	if id == nil {
		return "", fmt.Errorf("search: point without id")
	}
	switch v := id.PointIdOptions.(type) {
	case *qdrant.PointId_Num:
		return strconv.FormatUint(v.Num, 10), nil
	case *qdrant.PointId_Uuid:
		return v.Uuid, nil
	default:
		return "", fmt.Errorf("search: unexpected point id type %T", v)
	}
}

func payloadToFields(payload map[string]*qdrant.Value) map[string]any {
	if len(payload) == 0 {
		return nil
	}
	fields := make(map[string]any, len(payload))
	for k, v := range payload {
		fields[k] = valueToAny(v)
	}
	return fields
}

func valueToAny(v *qdrant.Value) any {
	if v == nil {
		return nil
	}
	switch kind := v.Kind.(type) {
	case *qdrant.Value_NullValue:
		return nil
	case *qdrant.Value_BoolValue:
		return kind.BoolValue
	case *qdrant.Value_IntegerValue:
		return kind.IntegerValue
	case *qdrant.Value_DoubleValue:
		return kind.DoubleValue
	case *qdrant.Value_StringValue:
		return kind.StringValue
	case *qdrant.Value_ListValue:
		values := kind.ListValue.GetValues()
		out := make([]any, 0, len(values))
		for _, lv := range values {
			out = append(out, valueToAny(lv))
		}
		return out
	case *qdrant.Value_StructValue:
		fields := kind.StructValue.GetFields()
		out := make(map[string]any, len(fields))
		for k, sv := range fields {
			out[k] = valueToAny(sv)
		}
		return out
	default:
		return nil
	}
}

// DocumentParser binds hits onto typed documents using their mapping.
type DocumentParser struct {
	manager *mapping.Manager
}

// NewDocumentParser creates a document parser backed by the mapping
// manager.
func NewDocumentParser(manager *mapping.Manager) *DocumentParser {
	return &DocumentParser{manager: manager}
}

// Bind fills dest, a pointer to a mapped struct, from a hit's fields.
// Fields absent from the hit keep their zero value.
func (p *DocumentParser) Bind(hit Hit, dest any) error {
	rv := reflect.ValueOf(dest)
	if rv.Kind() != reflect.Pointer || rv.IsNil() {
		return fmt.Errorf("search: bind destination must be a non-nil pointer, got %T", dest)
	}

	m, err := p.manager.Mapping(rv.Type().Elem())
	if err != nil {
		return err
	}

	elem := rv.Elem()
	for _, f := range m.Fields() {
		raw, ok := hit.Fields[f.Name]
		if !ok || raw == nil {
			continue
		}
		if err := setField(elem.FieldByIndex(f.Index), raw); err != nil {
			return fmt.Errorf("search: field %q: %w", f.Name, err)
		}
	}
	return nil
}

// Documents binds every hit onto a new T.
func Documents[T any](p *DocumentParser, hits []Hit) ([]T, error) {
	out := make([]T, len(hits))
	for i, h := range hits {
		if err := p.Bind(h, &out[i]); err != nil {
			return nil, err
		}
	}
	return out, nil
}

var timeType = reflect.TypeOf(time.Time{})

func setField(field reflect.Value, raw any) error {
	if !field.CanSet() {
		return fmt.Errorf("cannot set field")
	}

	// Times travel as RFC 3339 strings.
	if field.Type() == timeType {
		s, ok := raw.(string)
		if !ok {
			return fmt.Errorf("expected time string, got %T", raw)
		}
		t, err := time.Parse(time.RFC3339Nano, s)
		if err != nil {
			return err
		}
		field.Set(reflect.ValueOf(t))
		return nil
	}

	rv := reflect.ValueOf(raw)
	switch field.Kind() {
	case reflect.String:
		if rv.Kind() == reflect.String {
			field.SetString(rv.String())
			return nil
		}
	case reflect.Bool:
		if rv.Kind() == reflect.Bool {
			field.SetBool(rv.Bool())
			return nil
		}
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		switch rv.Kind() {
		case reflect.Int64:
			field.SetInt(rv.Int())
			return nil
		case reflect.Float64:
			field.SetInt(int64(rv.Float()))
			return nil
		}
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		switch rv.Kind() {
		case reflect.Int64:
			field.SetUint(uint64(rv.Int()))
			return nil
		case reflect.Float64:
			field.SetUint(uint64(rv.Float()))
			return nil
		}
	case reflect.Float32, reflect.Float64:
		switch rv.Kind() {
		case reflect.Float64:
			field.SetFloat(rv.Float())
			return nil
		case reflect.Int64:
			field.SetFloat(float64(rv.Int()))
			return nil
		}
	case reflect.Slice:
		items, ok := raw.([]any)
		if !ok {
			break
		}
		out := reflect.MakeSlice(field.Type(), len(items), len(items))
		for i, item := range items {
			if err := setField(out.Index(i), item); err != nil {
				return err
			}
		}
		field.Set(out)
		return nil
	}

	if rv.Type().AssignableTo(field.Type()) {
		field.Set(rv)
		return nil
	}
	if rv.Type().ConvertibleTo(field.Type()) {
		field.Set(rv.Convert(field.Type()))
		return nil
	}
	return fmt.Errorf("cannot assign %T to %s", raw, field.Type())
}

// StatusParser converts engine collection info into a CoreStatus.
type StatusParser struct{}

// NewStatusParser creates a status parser.
func NewStatusParser() *StatusParser { return &StatusParser{} }

// Status converts collection info for one core.
func (p *StatusParser) Status(core, collection string, info *qdrant.CollectionInfo) *CoreStatus {
	status := &CoreStatus{
		Core:       core,
		Collection: collection,
	}
	if info == nil {
		return status
	}
	status.State = info.Status.String()
	status.Documents = derefUint64(info.PointsCount)
	status.IndexedVectors = derefUint64(info.IndexedVectorsCount)
	return status
}

// SchemaParser converts engine collection info into a CoreSchema.
type SchemaParser struct{}

// NewSchemaParser creates a schema parser.
func NewSchemaParser() *SchemaParser { return &SchemaParser{} }

// Schema converts collection info for one core.
func (p *SchemaParser) Schema(collection string, info *qdrant.CollectionInfo) *CoreSchema {
	size, distance := vectorDetails(info)
	return &CoreSchema{
		Collection: collection,
		VectorSize: size,
		Distance:   distance,
	}
}
