package mapping

import (
	"fmt"
	"reflect"
	"sort"
	"sync"
)

// Registry resolves document-type descriptors to mappings. A descriptor is
// a dotted identifier such as "shop.product" that configuration files use
// to name a Go document type. Types are registered explicitly at startup;
// lookups never reach for reflection by name.
//
// A Registry is safe for concurrent use, though the expected pattern is
// populate-once at startup, read-only afterwards.
type Registry struct {
	mu      sync.RWMutex
	manager *Manager
	types   map[string]reflect.Type
}

// NewRegistry creates an empty type registry backed by the given manager.
func NewRegistry(manager *Manager) *Registry {
	return &Registry{
		manager: manager,
		types:   make(map[string]reflect.Type),
	}
}

// Manager returns the mapping manager the registry builds mappings with.
func (r *Registry) Manager() *Manager { return r.manager }

// RegisterType binds a descriptor to a document type. The mapping is built
// and validated immediately so a broken document type fails here, not when
// the first core resolves it.
func (r *Registry) RegisterType(descriptor string, t reflect.Type) error {
	if err := validateDescriptor(descriptor); err != nil {
		return err
	}
	if _, err := r.manager.Mapping(t); err != nil {
		return err
	}

	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if existing, ok := r.types[descriptor]; ok {
		if existing == t {
			return nil
		}
		return fmt.Errorf("descriptor %q already bound to %s: %w", descriptor, existing, ErrDuplicateDescriptor)
	}
	r.types[descriptor] = t
	return nil
}

// Register binds a descriptor to the type parameter T.
//
// Example:
//
//	if err := mapping.Register[Product](registry, "shop.product"); err != nil {
//	    return err
//	}
func Register[T any](r *Registry, descriptor string) error {
	return r.RegisterType(descriptor, reflect.TypeOf((*T)(nil)).Elem())
}

// Resolve returns the mapping for a descriptor. It fails with
// ErrMalformedDescriptor for syntactically invalid descriptors and
// ErrUnknownType for descriptors that name no registered type.
func (r *Registry) Resolve(descriptor string) (*Mapping, error) {
	if err := validateDescriptor(descriptor); err != nil {
		return nil, err
	}

	r.mu.RLock()
	t, ok := r.types[descriptor]
	r.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("descriptor %q: %w", descriptor, ErrUnknownType)
	}

	return r.manager.Mapping(t)
}

// Descriptors returns all registered descriptors, sorted.
func (r *Registry) Descriptors() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]string, 0, len(r.types))
	for d := range r.types {
		out = append(out, d)
	}
	sort.Strings(out)
	return out
}

// validateDescriptor checks descriptor syntax: one or more non-empty
// dot-separated segments of letters, digits, '_' or '-'.
func validateDescriptor(descriptor string) error {
	if descriptor == "" {
		return fmt.Errorf("empty descriptor: %w", ErrMalformedDescriptor)
	}

	segStart := true
	for _, c := range descriptor {
		switch {
		case c == '.':
			if segStart {
				return fmt.Errorf("descriptor %q: %w", descriptor, ErrMalformedDescriptor)
			}
			segStart = true
		case c >= 'a' && c <= 'z',
			c >= 'A' && c <= 'Z',
			c >= '0' && c <= '9',
			c == '_', c == '-':
			segStart = false
		default:
			return fmt.Errorf("descriptor %q: invalid character %q: %w", descriptor, c, ErrMalformedDescriptor)
		}
	}
	if segStart {
		return fmt.Errorf("descriptor %q: %w", descriptor, ErrMalformedDescriptor)
	}
	return nil
}
