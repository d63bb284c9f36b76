package mapping

import (
	"fmt"
	"reflect"
	"strings"
)

// TagName is the struct tag read by the mapping builder.
//
// Example:
//
//	type Product struct {
//	    ID    string  `search:"id,key"`
//	    Name  string  `search:"name"`
//	    Price float64 `search:"price"`
//	    note  string  // unexported, ignored
//	}
const TagName = "search"

// Field describes one mapped struct field.
type Field struct {
	// Name is the field name in the search engine payload.
	Name string

	// GoName is the Go struct field name.
	GoName string

	// Index locates the field for reflect.Value.FieldByIndex.
	Index []int

	// Type is the Go type of the field.
	Type reflect.Type

	// Key marks the document's unique key field.
	Key bool
}

// Mapping is the field table for one document type. Mappings are immutable
// once built; build them through a Manager so they are memoized and
// validated.
type Mapping struct {
	goType reflect.Type
	fields []Field
	byName map[string]int
	keyIdx int
}

// GoType returns the document struct type.
func (m *Mapping) GoType() reflect.Type { return m.goType }

// Fields returns the mapped fields in declaration order.
func (m *Mapping) Fields() []Field { return m.fields }

// Key returns the unique key field.
func (m *Mapping) Key() (Field, bool) {
	if m.keyIdx < 0 {
		return Field{}, false
	}
	return m.fields[m.keyIdx], true
}

// FieldByName looks up a field by its mapped (engine-side) name.
func (m *Mapping) FieldByName(name string) (Field, bool) {
	i, ok := m.byName[name]
	if !ok {
		return Field{}, false
	}
	return m.fields[i], true
}

// New returns a new zero-value document of the mapped type.
func (m *Mapping) New() any {
	return reflect.New(m.goType).Interface()
}

// DocumentID extracts the unique key value from a document of the mapped
// type. The document may be a value or a pointer.
func (m *Mapping) DocumentID(doc any) (string, error) {
	key, ok := m.Key()
	if !ok {
		return "", fmt.Errorf("mapping: type %s: %w", m.goType, ErrMissingKey)
	}

	rv := reflect.ValueOf(doc)
	for rv.Kind() == reflect.Pointer {
		if rv.IsNil() {
			return "", fmt.Errorf("mapping: nil document of type %s", m.goType)
		}
		rv = rv.Elem()
	}
	if rv.Type() != m.goType {
		return "", fmt.Errorf("mapping: document type %s does not match mapping for %s", rv.Type(), m.goType)
	}

	id, ok := rv.FieldByIndex(key.Index).Interface().(string)
	if !ok {
		return "", fmt.Errorf("mapping: type %s: %w", m.goType, ErrKeyNotString)
	}
	return id, nil
}

// build constructs a Mapping for a struct type. Pointer types are
// dereferenced. The caller is responsible for validation.
func build(t reflect.Type) (*Mapping, error) {
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil, fmt.Errorf("mapping: type %s: %w", t, ErrNotStruct)
	}

	m := &Mapping{
		goType: t,
		byName: make(map[string]int),
		keyIdx: -1,
	}

	for i := 0; i < t.NumField(); i++ {
		sf := t.Field(i)
		if !sf.IsExported() {
			continue
		}

		name := strings.ToLower(sf.Name)
		key := false

		if tag, ok := sf.Tag.Lookup(TagName); ok {
			parts := strings.Split(tag, ",")
			if parts[0] == "-" {
				continue
			}
			if parts[0] != "" {
				name = parts[0]
			}
			for _, opt := range parts[1:] {
				if opt == "key" {
					key = true
				}
			}
		}

		f := Field{
			Name:   name,
			GoName: sf.Name,
			Index:  sf.Index,
			Type:   sf.Type,
			Key:    key,
		}
		if key && m.keyIdx < 0 {
			m.keyIdx = len(m.fields)
		}
		if _, exists := m.byName[name]; !exists {
			m.byName[name] = len(m.fields)
		}
		m.fields = append(m.fields, f)
	}

	return m, nil
}
