package search

// Hit is one matched document, engine-agnostic. Fields holds the stored
// payload converted to plain Go values; use a DocumentParser to bind it
// onto a typed struct.
type Hit struct {
	// ID is the unique key of the matched document.
	ID string `json:"id"`

	// Score is the similarity score. Zero for direct lookups.
	Score float32 `json:"score,omitempty"`

	// Fields is the stored payload of the document.
	Fields map[string]any `json:"fields,omitempty"`

	// Vector is the stored embedding, populated only when requested.
	Vector []float32 `json:"vector,omitempty"`
}

// Result is the outcome of one executed query.
type Result struct {
	// Hits are the matched documents, best first.
	Hits []Hit `json:"hits"`

	// Core identifies the core the query ran against.
	Core string `json:"core"`
}

// FacetCount is the document count for one facet value.
type FacetCount struct {
	Value any    `json:"value"`
	Count uint64 `json:"count"`
}

// CoreStatus describes the operational state of one core's storage.
type CoreStatus struct {
	// Core is the core identifier.
	Core string `json:"core"`

	// Collection is the engine-side collection name.
	Collection string `json:"collection"`

	// State is the engine's health state, e.g. "Green".
	State string `json:"state"`

	// Documents is the number of stored documents.
	Documents uint64 `json:"documents"`

	// IndexedVectors is the number of indexed vectors.
	IndexedVectors uint64 `json:"indexedVectors"`
}

// CoreSchema describes the engine-side layout of one core's storage.
type CoreSchema struct {
	// Collection is the engine-side collection name.
	Collection string `json:"collection"`

	// VectorSize is the embedding dimension.
	VectorSize uint64 `json:"vectorSize"`

	// Distance is the similarity metric, e.g. "Cosine".
	Distance string `json:"distance"`
}
