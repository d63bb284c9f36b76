package mapping

import (
	"errors"
	"testing"
)

func mustRegistry(t *testing.T) *Registry {
	t.Helper()
	return NewRegistry(mustManager(t))
}

func TestRegistry_RegisterAndResolve(t *testing.T) {
	r := mustRegistry(t)

	if err := Register[product](r, "shop.product"); err != nil {
		t.Fatalf("Register: %v", err)
	}

	m, err := r.Resolve("shop.product")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if _, ok := m.FieldByName("name"); !ok {
		t.Error("resolved mapping is missing the name field")
	}
}

func TestRegistry_ResolveUnknownDescriptor(t *testing.T) {
	r := mustRegistry(t)

	_, err := r.Resolve("shop.missing")
	if !errors.Is(err, ErrUnknownType) {
		t.Errorf("expected ErrUnknownType, got %v", err)
	}
	if !IsUnknownType(err) {
		t.Error("IsUnknownType must report true")
	}
}

func TestRegistry_MalformedDescriptors(t *testing.T) {
	r := mustRegistry(t)

	for _, descriptor := range []string{
		"",
		".",
		"shop.",
		".product",
		"shop..product",
		"shop product",
		"shop.pro!duct",
	} {
		_, err := r.Resolve(descriptor)
		if !errors.Is(err, ErrMalformedDescriptor) {
			t.Errorf("descriptor %q: expected ErrMalformedDescriptor, got %v", descriptor, err)
		}
		if err := Register[product](r, descriptor); !errors.Is(err, ErrMalformedDescriptor) {
			t.Errorf("register %q: expected ErrMalformedDescriptor, got %v", descriptor, err)
		}
	}
}

func TestRegistry_ValidDescriptors(t *testing.T) {
	r := mustRegistry(t)

	for _, descriptor := range []string{
		"product",
		"shop.product",
		"shop.product_v2",
		"shop.product-archive",
		"a.b.c.d",
	} {
		if err := Register[product](r, descriptor); err != nil {
			t.Errorf("descriptor %q: unexpected error %v", descriptor, err)
		}
	}
}

func TestRegistry_DuplicateDescriptor(t *testing.T) {
	r := mustRegistry(t)

	if err := Register[product](r, "shop.product"); err != nil {
		t.Fatalf("first Register: %v", err)
	}

	// Re-registering the same type is a no-op.
	if err := Register[product](r, "shop.product"); err != nil {
		t.Errorf("idempotent re-register: unexpected error %v", err)
	}

	// Binding another type to the same descriptor is rejected.
	type other struct {
		ID string `search:"id,key"`
	}
	if err := Register[other](r, "shop.product"); !errors.Is(err, ErrDuplicateDescriptor) {
		t.Errorf("expected ErrDuplicateDescriptor, got %v", err)
	}
}

func TestRegistry_RegisterRejectsInvalidType(t *testing.T) {
	r := mustRegistry(t)

	if err := Register[keyless](r, "shop.keyless"); !errors.Is(err, ErrMissingKey) {
		t.Errorf("expected ErrMissingKey at registration, got %v", err)
	}
	if len(r.Descriptors()) != 0 {
		t.Error("failed registration must not bind the descriptor")
	}
}

func TestRegistry_Descriptors(t *testing.T) {
	r := mustRegistry(t)

	for _, d := range []string{"b.second", "a.first"} {
		if err := Register[product](r, d); err != nil {
			t.Fatalf("Register %q: %v", d, err)
		}
	}

	got := r.Descriptors()
	if len(got) != 2 || got[0] != "a.first" || got[1] != "b.second" {
		t.Errorf("expected sorted descriptors [a.first b.second], got %v", got)
	}
}
