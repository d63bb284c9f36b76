package search

import (
	"context"
	"fmt"
	"slices"

	qdrant "github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
)

// Engine defaults for newly created core storage.
const (
	DefaultVectorSize uint64 = 1536
	DefaultDistance          = "Cosine"
)

// Admin performs core-independent administrative operations. It carries no
// per-core state; callers pass the connection of the core to administer.
type Admin struct {
	schema *SchemaParser
	status *StatusParser
	log    *zap.Logger
}

// NewAdmin creates the administrative operations service. A nil logger
// falls back to a no-op logger.
func NewAdmin(schema *SchemaParser, status *StatusParser, log *zap.Logger) *Admin {
	if log == nil {
		log = zap.NewNop()
	}
	return &Admin{schema: schema, status: status, log: log}
}

// ListCores returns the collection names present on the connected engine.
func (a *Admin) ListCores(ctx context.Context, conn *Connection) ([]string, error) {
	if err := conn.guard(); err != nil {
		return nil, err
	}
	names, err := conn.API().ListCollections(ctx)
	if err != nil {
		return nil, fmt.Errorf("search: list collections: %w", err)
	}
	return names, nil
}

// EnsureCore creates the core's collection when it does not exist yet.
// Safe to call repeatedly. Zero values in the schema fall back to
// DefaultVectorSize and DefaultDistance.
func (a *Admin) EnsureCore(ctx context.Context, conn *Connection, schema CoreSchema) error {
	existing, err := a.ListCores(ctx, conn)
	if err != nil {
		return err
	}
	if slices.Contains(existing, conn.Collection()) {
		return nil
	}

	size := schema.VectorSize
	if size == 0 {
		size = DefaultVectorSize
	}
	distance := qdrant.Distance_Cosine
	if schema.Distance == "Dot" {
		distance = qdrant.Distance_Dot
	} else if schema.Distance == "Euclid" {
		distance = qdrant.Distance_Euclid
	}

	req := &qdrant.CreateCollection{
		CollectionName: conn.Collection(),
		VectorsConfig: qdrant.NewVectorsConfig(&qdrant.VectorParams{
			Size:     size,
			Distance: distance,
		}),
	}
	if err := conn.API().CreateCollection(ctx, req); err != nil {
		return fmt.Errorf("search: create collection %q: %w", conn.Collection(), err)
	}

	a.log.Info("core storage created",
		zap.String("core", conn.CoreID()),
		zap.String("collection", conn.Collection()),
		zap.Uint64("vector_size", size),
	)
	return nil
}

// DropCore deletes the core's collection and everything in it.
func (a *Admin) DropCore(ctx context.Context, conn *Connection) error {
	if err := conn.guard(); err != nil {
		return err
	}
	if err := conn.API().DeleteCollection(ctx, conn.Collection()); err != nil {
		return fmt.Errorf("search: drop collection %q: %w", conn.Collection(), err)
	}
	a.log.Info("core storage dropped",
		zap.String("core", conn.CoreID()),
		zap.String("collection", conn.Collection()),
	)
	return nil
}

// Status fetches and parses the core's operational state.
func (a *Admin) Status(ctx context.Context, conn *Connection) (*CoreStatus, error) {
	if err := conn.guard(); err != nil {
		return nil, err
	}
	info, err := conn.API().GetCollectionInfo(ctx, conn.Collection())
	if err != nil {
		return nil, fmt.Errorf("search: status of collection %q: %w", conn.Collection(), err)
	}
	return a.status.Status(conn.CoreID(), conn.Collection(), info), nil
}

// Schema fetches and parses the core's storage layout.
func (a *Admin) Schema(ctx context.Context, conn *Connection) (*CoreSchema, error) {
	if err := conn.guard(); err != nil {
		return nil, err
	}
	info, err := conn.API().GetCollectionInfo(ctx, conn.Collection())
	if err != nil {
		return nil, fmt.Errorf("search: schema of collection %q: %w", conn.Collection(), err)
	}
	return a.schema.Schema(conn.Collection(), info), nil
}
