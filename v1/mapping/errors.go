package mapping

import "errors"

// Mapping and registry errors.
var (
	// ErrNotStruct is returned when a mapping is requested for a
	// non-struct type.
	ErrNotStruct = errors.New("mapping: document type is not a struct")

	// ErrMissingKey is returned when a mapping declares no unique key
	// field.
	ErrMissingKey = errors.New("mapping: no unique key field declared")

	// ErrKeyNotString is returned when the unique key field is not a
	// string.
	ErrKeyNotString = errors.New("mapping: unique key field is not a string")

	// ErrDuplicateFieldName is returned when two struct fields map to the
	// same engine-side name.
	ErrDuplicateFieldName = errors.New("mapping: duplicate mapped field name")

	// ErrMalformedDescriptor is returned when a document-type descriptor
	// is syntactically invalid.
	ErrMalformedDescriptor = errors.New("mapping: malformed document type descriptor")

	// ErrUnknownType is returned when a descriptor names no registered
	// document type.
	ErrUnknownType = errors.New("mapping: unknown document type")

	// ErrDuplicateDescriptor is returned when a descriptor is registered
	// twice with different types.
	ErrDuplicateDescriptor = errors.New("mapping: descriptor already registered")
)

// IsUnknownType checks if the error reports an unregistered descriptor.
func IsUnknownType(err error) bool {
	return errors.Is(err, ErrUnknownType)
}

// IsMalformedDescriptor checks if the error reports a syntactically
// invalid descriptor.
func IsMalformedDescriptor(err error) bool {
	return errors.Is(err, ErrMalformedDescriptor)
}
