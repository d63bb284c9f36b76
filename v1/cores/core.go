package cores

import (
	"github.com/searchfx/searchfx/v1/mapping"
	"github.com/searchfx/searchfx/v1/search"
)

// Core is one validated, normalized server configuration: the unit the
// registry emits a binding chain for. Cores are immutable once derived.
type Core struct {
	// ID is the unique core identifier within the batch.
	ID string

	// DocumentType is the descriptor the core was configured with.
	DocumentType string

	// Mapping is the resolved document mapping.
	Mapping *mapping.Mapping

	// Endpoint is the validated engine endpoint.
	Endpoint *search.Endpoint

	// Collection is the engine-side collection name.
	Collection string

	// Schema describes the storage to create for this core.
	Schema search.CoreSchema

	config ServerConfig
}

// deriveCore validates one server configuration and resolves it into a
// Core. The configuration must already be normalized (non-empty id).
// Every failure is a *ConfigError naming the offending field.
func deriveCore(cfg ServerConfig, types *mapping.Registry) (*Core, error) {
	if cfg.URL == "" {
		return nil, &ConfigError{Core: cfg.ID, Field: "url", Err: ErrMissingURL}
	}
	endpoint, err := search.ParseEndpoint(cfg.URL)
	if err != nil {
		return nil, &ConfigError{Core: cfg.ID, Field: "url", Err: err}
	}

	if cfg.DocumentType == "" {
		return nil, &ConfigError{Core: cfg.ID, Field: "document_type", Err: ErrMissingDocumentType}
	}
	m, err := types.Resolve(cfg.DocumentType)
	if err != nil {
		// Malformed descriptor and unknown type surface as the same
		// configuration error kind; the message tells them apart.
		return nil, &ConfigError{Core: cfg.ID, Field: "document_type", Err: err}
	}

	collection := cfg.Collection
	if collection == "" {
		collection = cfg.ID
	}

	return &Core{
		ID:           cfg.ID,
		DocumentType: cfg.DocumentType,
		Mapping:      m,
		Endpoint:     endpoint,
		Collection:   collection,
		Schema: search.CoreSchema{
			Collection: collection,
			VectorSize: cfg.VectorSize,
			Distance:   cfg.Distance,
		},
		config: cfg,
	}, nil
}
