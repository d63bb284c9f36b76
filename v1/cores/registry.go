package cores

import (
	"context"
	"errors"
	"fmt"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/searchfx/searchfx/v1/mapping"
	"github.com/searchfx/searchfx/v1/observability"
	"github.com/searchfx/searchfx/v1/search"
)

// CoreSet is the fully wired binding chain of one core. Every node holds
// an explicit reference to its predecessor; nothing is looked up by name
// at runtime.
type CoreSet struct {
	Core       *Core
	Connection *search.Connection
	Executor   *search.QueryExecutor
	Basic      *search.BasicOperations
	Full       *search.FullOperations
}

// defaults are the core-independent services shared by every core.
type defaults struct {
	fields    *search.FieldSerializer
	queries   *search.QuerySerializer
	facets    *search.FacetSerializer
	responses *search.ResponseParser
	documents *search.DocumentParser
	schema    *search.SchemaParser
	status    *search.StatusParser
	admin     *search.Admin
	cache     search.Cache
}

// Registry derives cores from a configuration batch and holds one wired
// CoreSet per core. Construction is all-or-nothing: any invalid server
// configuration fails the whole batch before a single chain is built.
//
// A Registry is immutable after construction and safe for concurrent use.
type Registry struct {
	cfg      Config
	types    *mapping.Registry
	defaults defaults
	cores    map[string]*CoreSet
	order    []string
	log      *zap.Logger
	observer observability.Observer
	tp       trace.TracerProvider
}

// Option customizes a Registry.
type Option func(*Registry)

// WithLogger sets the registry logger, also inherited by every chain node.
func WithLogger(log *zap.Logger) Option {
	return func(r *Registry) {
		if log != nil {
			r.log = log
		}
	}
}

// WithObserver wires an observer into every executor and operations node.
func WithObserver(obs observability.Observer) Option {
	return func(r *Registry) {
		if obs != nil {
			r.observer = obs
		}
	}
}

// WithTracerProvider overrides the tracer provider used by executors.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(r *Registry) {
		if tp != nil {
			r.tp = tp
		}
	}
}

// WithQueryCache sets the query result cache shared by all cores. The
// default is the no-op cache.
func WithQueryCache(c search.Cache) Option {
	return func(r *Registry) {
		if c != nil {
			r.defaults.cache = c
		}
	}
}

// NewRegistry validates the whole configuration batch and builds one
// binding chain per core. The config is normalized again so direct callers
// get the same id defaulting the fx module applies.
//
// Fail-fast, whole-batch: the first invalid server configuration aborts
// registration with a *ConfigError and no chain is kept.
func NewRegistry(cfg Config, types *mapping.Registry, opts ...Option) (*Registry, error) {
	if types == nil {
		return nil, errors.New("cores: nil type registry")
	}

	cfg = cfg.Normalize()
	if cfg.MappingCacheSize > 0 {
		types.Manager().Resize(cfg.MappingCacheSize)
	}

	r := &Registry{
		cfg:   cfg,
		types: types,
		defaults: defaults{
			cache: search.NullCache{},
		},
		cores:    make(map[string]*CoreSet, len(cfg.Servers)),
		log:      zap.NewNop(),
		observer: observability.NoopObserver{},
	}
	for _, opt := range opts {
		opt(r)
	}

	// Validate the whole batch before any chain is built.
	derived := make([]*Core, 0, len(cfg.Servers))
	seen := make(map[string]struct{}, len(cfg.Servers))
	for _, server := range cfg.Servers {
		core, err := deriveCore(server, types)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[core.ID]; dup {
			return nil, &ConfigError{Core: core.ID, Field: "id", Err: ErrDuplicateCoreID}
		}
		seen[core.ID] = struct{}{}
		derived = append(derived, core)
	}

	r.buildDefaults()

	for _, core := range derived {
		set, err := r.buildChain(core)
		if err != nil {
			return nil, err
		}
		r.cores[core.ID] = set
		r.order = append(r.order, core.ID)
	}

	r.log.Info("core registry built",
		zap.Int("cores", len(r.order)),
		zap.Strings("ids", r.order),
	)
	return r, nil
}

// buildDefaults wires the core-independent services.
func (r *Registry) buildDefaults() {
	queries := search.NewQuerySerializer()
	r.defaults.fields = search.NewFieldSerializer()
	r.defaults.queries = queries
	r.defaults.facets = search.NewFacetSerializer(queries)
	r.defaults.responses = search.NewResponseParser()
	r.defaults.documents = search.NewDocumentParser(r.types.Manager())
	r.defaults.schema = search.NewSchemaParser()
	r.defaults.status = search.NewStatusParser()
	r.defaults.admin = search.NewAdmin(r.defaults.schema, r.defaults.status, r.log)
}

// buildChain wires connection -> executor -> basic -> full for one core.
func (r *Registry) buildChain(core *Core) (*CoreSet, error) {
	conn, err := search.NewConnection(search.ConnectionConfig{
		CoreID:             core.ID,
		URL:                core.config.URL,
		Collection:         core.Collection,
		APIKey:             core.config.APIKey,
		CheckCompatibility: core.config.CheckCompatibility,
	}, r.log)
	if err != nil {
		return nil, &ConfigError{Core: core.ID, Field: "url", Err: err}
	}

	execOpts := []search.ExecutorOption{
		search.WithExecutorLogger(r.log),
		search.WithExecutorObserver(r.observer),
	}
	if r.tp != nil {
		execOpts = append(execOpts, search.WithExecutorTracer(r.tp))
	}
	exec := search.NewQueryExecutor(conn, r.defaults.queries, r.defaults.facets, r.defaults.responses, execOpts...)

	basic := search.NewBasicOperations(conn, exec, core.Mapping, r.defaults.fields, r.defaults.responses,
		search.WithCache(r.defaults.cache),
		search.WithOperationsLogger(r.log),
		search.WithOperationsObserver(r.observer),
	)

	full := search.NewFullOperations(basic, r.defaults.admin, core.Schema)

	return &CoreSet{
		Core:       core,
		Connection: conn,
		Executor:   exec,
		Basic:      basic,
		Full:       full,
	}, nil
}

// Cores returns the derived cores in configuration order.
func (r *Registry) Cores() []*Core {
	out := make([]*Core, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.cores[id].Core)
	}
	return out
}

// CoreIDs returns the core identifiers in configuration order.
func (r *Registry) CoreIDs() []string {
	out := make([]string, len(r.order))
	copy(out, r.order)
	return out
}

// Set returns the full binding chain of one core.
func (r *Registry) Set(id string) (*CoreSet, error) {
	set, ok := r.cores[id]
	if !ok {
		return nil, fmt.Errorf("core %q: %w", id, ErrUnknownCore)
	}
	return set, nil
}

// ConnectionFor resolves a core's connection.
func (r *Registry) ConnectionFor(id string) (*search.Connection, error) {
	set, err := r.Set(id)
	if err != nil {
		return nil, err
	}
	return set.Connection, nil
}

// ExecutorFor resolves a core's query executor.
func (r *Registry) ExecutorFor(id string) (*search.QueryExecutor, error) {
	set, err := r.Set(id)
	if err != nil {
		return nil, err
	}
	return set.Executor, nil
}

// BasicOperationsFor resolves a core's basic operations.
func (r *Registry) BasicOperationsFor(id string) (*search.BasicOperations, error) {
	set, err := r.Set(id)
	if err != nil {
		return nil, err
	}
	return set.Basic, nil
}

// OperationsFor resolves a core's full operations.
func (r *Registry) OperationsFor(id string) (*search.FullOperations, error) {
	set, err := r.Set(id)
	if err != nil {
		return nil, err
	}
	return set.Full, nil
}

// ReadOperationsFor resolves a core's operations as their read-only
// interface. This is an alias: it returns the same instance OperationsFor
// returns, deliberately mirroring the shared binding name the operations
// pair has always had.
func (r *Registry) ReadOperationsFor(id string) (search.ReadOperations, error) {
	return r.OperationsFor(id)
}

// Admin returns the shared administrative operations service.
func (r *Registry) Admin() *search.Admin { return r.defaults.admin }

// FieldSerializer returns the shared field serializer.
func (r *Registry) FieldSerializer() *search.FieldSerializer { return r.defaults.fields }

// QuerySerializer returns the shared query serializer.
func (r *Registry) QuerySerializer() *search.QuerySerializer { return r.defaults.queries }

// FacetSerializer returns the shared facet serializer.
func (r *Registry) FacetSerializer() *search.FacetSerializer { return r.defaults.facets }

// ResponseParser returns the shared response parser.
func (r *Registry) ResponseParser() *search.ResponseParser { return r.defaults.responses }

// DocumentParser returns the shared document parser.
func (r *Registry) DocumentParser() *search.DocumentParser { return r.defaults.documents }

// SchemaParser returns the shared schema parser.
func (r *Registry) SchemaParser() *search.SchemaParser { return r.defaults.schema }

// StatusParser returns the shared status parser.
func (r *Registry) StatusParser() *search.StatusParser { return r.defaults.status }

// Cache returns the shared query cache.
func (r *Registry) Cache() search.Cache { return r.defaults.cache }

// Start brings the registry online: optionally creates missing core
// storage and health-checks every core, per the configuration.
func (r *Registry) Start(ctx context.Context) error {
	for _, id := range r.order {
		set := r.cores[id]
		if r.cfg.EnsureStorageOnStart {
			if err := set.Full.EnsureStorage(ctx); err != nil {
				return err
			}
		}
		if r.cfg.PingOnStart {
			if err := set.Connection.Ping(ctx); err != nil {
				return err
			}
		}
	}
	return nil
}

// Close releases every core's connection.
func (r *Registry) Close() error {
	var errs []error
	for _, id := range r.order {
		if err := r.cores[id].Connection.Close(); err != nil {
			errs = append(errs, fmt.Errorf("core %q: %w", id, err))
		}
	}
	return errors.Join(errs...)
}
