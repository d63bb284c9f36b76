package mapping

import (
	"fmt"
	"reflect"
)

// Rule validates one aspect of a document mapping. Rules run when a type is
// registered, so a bad mapping is rejected before any core is wired to it.
type Rule interface {
	Validate(m *Mapping) error
}

// RuleFunc adapts a function to the Rule interface.
type RuleFunc func(m *Mapping) error

// Validate implements Rule.
func (f RuleFunc) Validate(m *Mapping) error { return f(m) }

// RequiredKeyRule requires the mapping to declare a unique key field.
func RequiredKeyRule() Rule {
	return RuleFunc(func(m *Mapping) error {
		if _, ok := m.Key(); !ok {
			return fmt.Errorf("type %s: %w", m.GoType(), ErrMissingKey)
		}
		return nil
	})
}

// StringKeyRule requires the unique key field, when present, to be a
// string. Document ids travel as strings on the wire.
func StringKeyRule() Rule {
	return RuleFunc(func(m *Mapping) error {
		key, ok := m.Key()
		if !ok {
			return nil
		}
		if key.Type.Kind() != reflect.String {
			return fmt.Errorf("type %s, field %s: %w", m.GoType(), key.GoName, ErrKeyNotString)
		}
		return nil
	})
}

// UniqueFieldNamesRule rejects mappings where two struct fields map to the
// same engine-side name.
func UniqueFieldNamesRule() Rule {
	return RuleFunc(func(m *Mapping) error {
		seen := make(map[string]string, len(m.Fields()))
		for _, f := range m.Fields() {
			if prev, dup := seen[f.Name]; dup {
				return fmt.Errorf("type %s: fields %s and %s both map to %q: %w",
					m.GoType(), prev, f.GoName, f.Name, ErrDuplicateFieldName)
			}
			seen[f.Name] = f.GoName
		}
		return nil
	})
}

// DefaultRules returns the rule set applied by NewManager when no rules are
// given explicitly.
func DefaultRules() []Rule {
	return []Rule{
		RequiredKeyRule(),
		StringKeyRule(),
		UniqueFieldNamesRule(),
	}
}

// Validator applies a rule set to a mapping.
type Validator struct {
	rules []Rule
}

// NewValidator builds a validator from the given rules.
func NewValidator(rules ...Rule) *Validator {
	return &Validator{rules: rules}
}

// Validate runs every rule and returns the first failure.
func (v *Validator) Validate(m *Mapping) error {
	for _, r := range v.rules {
		if err := r.Validate(m); err != nil {
			return err
		}
	}
	return nil
}
