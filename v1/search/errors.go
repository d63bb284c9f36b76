package search

import "errors"

// Common search layer errors.
var (
	// ErrMissingVector is returned when a query carries no embedding.
	ErrMissingVector = errors.New("search: query vector is empty")

	// ErrEmptyDocumentID is returned when a document's unique key field
	// is empty on add or when an empty id is passed to get/delete.
	ErrEmptyDocumentID = errors.New("search: empty document id")

	// ErrClosed is returned when an operation runs on a closed connection.
	ErrClosed = errors.New("search: connection is closed")

	// ErrFacetField is returned when a facet query names no field or no
	// candidate values.
	ErrFacetField = errors.New("search: facet query needs a field and at least one value")
)

// IsClosedError checks if the error reports a closed connection.
func IsClosedError(err error) bool {
	return errors.Is(err, ErrClosed)
}
