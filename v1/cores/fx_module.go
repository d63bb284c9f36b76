package cores

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/searchfx/searchfx/v1/mapping"
	"github.com/searchfx/searchfx/v1/observability"
	"github.com/searchfx/searchfx/v1/search"
)

// Per-core instance name suffixes. Every binding in a core's chain is
// named "<core id>.<suffix>" so cores sharing a document type never
// collide in the container.
const (
	SuffixConnection = "connection"
	SuffixExecutor   = "executor"
	SuffixBasic      = "operations.basic"
	SuffixOperations = "operations"
)

// InstanceName returns the container name of one node in a core's chain.
//
// Example:
//
//	cores.InstanceName("products", cores.SuffixOperations) // "products.operations"
func InstanceName(coreID, suffix string) string {
	return coreID + "." + suffix
}

func nameTag(coreID, suffix string) string {
	return fmt.Sprintf("name:%q", InstanceName(coreID, suffix))
}

// RegistryParams groups the dependencies needed to build the core
// registry via dependency injection. Only the type registry is required;
// logger, observer, tracer and cache are picked up when present in the
// container.
type RegistryParams struct {
	fx.In

	Types          *mapping.Registry
	Logger         *zap.Logger            `optional:"true"`
	Observer       observability.Observer `optional:"true"`
	TracerProvider trace.TracerProvider   `optional:"true"`
	Cache          search.Cache           `optional:"true"`
}

// Module builds the fx option that registers the whole configuration
// batch: the shared default services, the *Registry, and one named
// binding chain per core.
//
// The configuration is normalized up front so generated core ids are
// stable: the provider names minted here match the ids the registry
// derives.
//
// Per core "<id>", the container gains:
//
//	name:"<id>.connection"        *search.Connection
//	name:"<id>.executor"          *search.QueryExecutor
//	name:"<id>.operations.basic"  *search.BasicOperations
//	name:"<id>.operations"        *search.FullOperations
//	name:"<id>.operations"        search.Operations      (alias)
//	name:"<id>.operations"        search.ReadOperations  (alias)
//
// The three "<id>.operations" bindings deliberately share one name and
// one instance: the read-only interface has always been an alias of the
// full one, not a separate object.
//
// Usage:
//
//	app := fx.New(
//	    logger.FXModule,
//	    fx.Provide(newTypeRegistry), // *mapping.Registry with document types registered
//	    cores.Module(cores.Config{
//	        Servers: []cores.ServerConfig{
//	            {ID: "products", DocumentType: "shop.product", URL: "http://localhost:6334"},
//	        },
//	    }),
//	)
func Module(cfg Config) fx.Option {
	cfg = cfg.Normalize()

	provides := []any{
		func(p RegistryParams) (*Registry, error) {
			opts := []Option{
				WithLogger(p.Logger),
				WithObserver(p.Observer),
				WithTracerProvider(p.TracerProvider),
				WithQueryCache(p.Cache),
			}
			return NewRegistry(cfg, p.Types, opts...)
		},

		// Core-independent default services, resolvable by type alone.
		func(r *Registry) *search.Admin { return r.Admin() },
		func(r *Registry) *search.FieldSerializer { return r.FieldSerializer() },
		func(r *Registry) *search.QuerySerializer { return r.QuerySerializer() },
		func(r *Registry) *search.FacetSerializer { return r.FacetSerializer() },
		func(r *Registry) *search.ResponseParser { return r.ResponseParser() },
		func(r *Registry) *search.DocumentParser { return r.DocumentParser() },
		func(r *Registry) *search.SchemaParser { return r.SchemaParser() },
		func(r *Registry) *search.StatusParser { return r.StatusParser() },
	}

	for _, server := range cfg.Servers {
		id := server.ID
		provides = append(provides,
			fx.Annotate(
				func(r *Registry) (*search.Connection, error) { return r.ConnectionFor(id) },
				fx.ResultTags(nameTag(id, SuffixConnection)),
			),
			fx.Annotate(
				func(r *Registry) (*search.QueryExecutor, error) { return r.ExecutorFor(id) },
				fx.ResultTags(nameTag(id, SuffixExecutor)),
			),
			fx.Annotate(
				func(r *Registry) (*search.BasicOperations, error) { return r.BasicOperationsFor(id) },
				fx.ResultTags(nameTag(id, SuffixBasic)),
			),
			fx.Annotate(
				func(r *Registry) (*search.FullOperations, error) { return r.OperationsFor(id) },
				fx.ResultTags(nameTag(id, SuffixOperations)),
			),
			fx.Annotate(
				func(r *Registry) (search.Operations, error) { return r.OperationsFor(id) },
				fx.ResultTags(nameTag(id, SuffixOperations)),
			),
			fx.Annotate(
				func(r *Registry) (search.ReadOperations, error) { return r.ReadOperationsFor(id) },
				fx.ResultTags(nameTag(id, SuffixOperations)),
			),
		)
	}

	return fx.Module("cores",
		fx.Provide(provides...),
		fx.Invoke(RegisterCoresLifecycle),
	)
}

// RegisterCoresLifecycle forces registry construction at startup (so an
// invalid batch fails the application even before anything resolves a
// core) and ties storage setup, health checks and connection shutdown to
// the fx lifecycle.
func RegisterCoresLifecycle(lc fx.Lifecycle, r *Registry) {
	lc.Append(fx.Hook{
		OnStart: r.Start,
		OnStop: func(ctx context.Context) error {
			return r.Close()
		},
	})
}
