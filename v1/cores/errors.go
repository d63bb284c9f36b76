package cores

import (
	"errors"
	"fmt"
)

// Registration errors.
var (
	// ErrMissingURL is returned when a server configuration has no URL.
	ErrMissingURL = errors.New("cores: missing server URL")

	// ErrMissingDocumentType is returned when a server configuration has
	// no document type descriptor.
	ErrMissingDocumentType = errors.New("cores: missing document type")

	// ErrDuplicateCoreID is returned when two server configurations in
	// one batch share an identifier.
	ErrDuplicateCoreID = errors.New("cores: duplicate core id")

	// ErrUnknownCore is returned when a core identifier resolves to no
	// registered core.
	ErrUnknownCore = errors.New("cores: unknown core")
)

// ConfigError reports one invalid server configuration. Every registration
// failure is of this kind; the wrapped cause and the offending field tell
// them apart.
type ConfigError struct {
	// Core is the configured (or generated) core identifier, when known.
	Core string

	// Field is the offending configuration field, e.g. "url" or
	// "document_type".
	Field string

	// Err is the underlying cause.
	Err error
}

// Error implements error.
func (e *ConfigError) Error() string {
	if e.Core == "" {
		return fmt.Sprintf("cores: invalid configuration: field %q: %v", e.Field, e.Err)
	}
	return fmt.Sprintf("cores: invalid configuration for core %q: field %q: %v", e.Core, e.Field, e.Err)
}

// Unwrap exposes the cause for errors.Is/As.
func (e *ConfigError) Unwrap() error { return e.Err }

// IsConfigError checks whether the error is (or wraps) a configuration
// error.
func IsConfigError(err error) bool {
	var ce *ConfigError
	return errors.As(err, &ce)
}
