package mapping

import (
	"fmt"
	"reflect"

	lru "github.com/hashicorp/golang-lru/v2"
)

// DefaultCacheSize is the mapping cache capacity used when the caller does
// not specify one. Deployments rarely have more than a handful of document
// types, so this is generous.
const DefaultCacheSize = 128

// Manager builds and memoizes document mappings. Building a mapping walks
// the struct with reflection; the manager does that once per type and
// serves subsequent lookups from an LRU cache.
//
// A Manager is safe for concurrent use.
type Manager struct {
	cache     *lru.Cache[reflect.Type, *Mapping]
	validator *Validator
}

// NewManager creates a mapping manager with the given cache capacity and
// validation rules. A non-positive size falls back to DefaultCacheSize;
// empty rules fall back to DefaultRules.
func NewManager(size int, rules ...Rule) (*Manager, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	if len(rules) == 0 {
		rules = DefaultRules()
	}

	cache, err := lru.New[reflect.Type, *Mapping](size)
	if err != nil {
		return nil, fmt.Errorf("mapping: create cache: %w", err)
	}

	return &Manager{
		cache:     cache,
		validator: NewValidator(rules...),
	}, nil
}

// Resize changes the cache capacity, evicting the least recently used
// mappings when shrinking. A non-positive size falls back to
// DefaultCacheSize.
func (m *Manager) Resize(size int) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	m.cache.Resize(size)
}

// Mapping returns the validated mapping for a struct type, building it on
// first use.
func (m *Manager) Mapping(t reflect.Type) (*Mapping, error) {
	for t != nil && t.Kind() == reflect.Pointer {
		t = t.Elem()
	}
	if t == nil {
		return nil, ErrNotStruct
	}

	if cached, ok := m.cache.Get(t); ok {
		return cached, nil
	}

	built, err := build(t)
	if err != nil {
		return nil, err
	}
	if err := m.validator.Validate(built); err != nil {
		return nil, err
	}

	// Two goroutines may build concurrently; last write wins, both
	// results are equivalent.
	m.cache.Add(t, built)
	return built, nil
}

// MappingOf returns the mapping for a document value.
func (m *Manager) MappingOf(doc any) (*Mapping, error) {
	if doc == nil {
		return nil, ErrNotStruct
	}
	return m.Mapping(reflect.TypeOf(doc))
}

// For returns the mapping for the type parameter T.
func For[T any](m *Manager) (*Mapping, error) {
	return m.Mapping(reflect.TypeOf((*T)(nil)).Elem())
}
