package search

import (
	"context"
	"fmt"
	"hash/fnv"
	"io"
	"time"

	qdrant "github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/searchfx/searchfx/v1/mapping"
	"github.com/searchfx/searchfx/v1/observability"
)

// Default batching for document writes.
const (
	DefaultBatchSize   = 200
	DefaultMaxParallel = 4
)

// ReadOperations is the read-only slice of a core's document operations.
type ReadOperations interface {
	// Core returns the core identifier.
	Core() string

	// Ping verifies the core's engine is reachable.
	Ping(ctx context.Context) error

	// Query runs a similarity query.
	Query(ctx context.Context, q Query) (*Result, error)

	// Get fetches documents by their unique keys.
	Get(ctx context.Context, ids ...string) ([]Hit, error)

	// Count counts documents matching a filter; nil counts everything.
	Count(ctx context.Context, filter *FilterSet) (uint64, error)

	// Facet counts documents per candidate value of one field.
	Facet(ctx context.Context, fq FacetQuery) ([]FacetCount, error)
}

// Operations is the full set of per-document operations on one core.
type Operations interface {
	ReadOperations

	// Add indexes documents of the core's document type.
	Add(ctx context.Context, docs ...any) error

	// Delete removes documents by their unique keys.
	Delete(ctx context.Context, ids ...string) error
}

// BasicOperations implements Operations for one core: document writes plus
// reads delegated to the core's query executor.
type BasicOperations struct {
	conn     *Connection
	exec     *QueryExecutor
	mapping  *mapping.Mapping
	fields   *FieldSerializer
	parser   *ResponseParser
	cache    Cache
	observer observability.Observer
	log      *zap.Logger

	batchSize   int
	maxParallel int
}

// OperationsOption customizes BasicOperations.
type OperationsOption func(*BasicOperations)

// WithBatchSize sets the write batch size.
func WithBatchSize(n int) OperationsOption {
	return func(o *BasicOperations) {
		if n > 0 {
			o.batchSize = n
		}
	}
}

// WithMaxParallel caps concurrent write batches.
func WithMaxParallel(n int) OperationsOption {
	return func(o *BasicOperations) {
		if n > 0 {
			o.maxParallel = n
		}
	}
}

// WithCache sets the query result cache. The default is NullCache. Note
// that caches are not invalidated on writes.
func WithCache(c Cache) OperationsOption {
	return func(o *BasicOperations) {
		if c != nil {
			o.cache = c
		}
	}
}

// WithOperationsLogger sets the logger.
func WithOperationsLogger(log *zap.Logger) OperationsOption {
	return func(o *BasicOperations) {
		if log != nil {
			o.log = log
		}
	}
}

// WithOperationsObserver sets the observer operation events are sent to.
func WithOperationsObserver(obs observability.Observer) OperationsOption {
	return func(o *BasicOperations) {
		if obs != nil {
			o.observer = obs
		}
	}
}

// NewBasicOperations creates the per-document operations for one core.
// The connection and executor belong to the same core; the mapping is the
// core's document type.
func NewBasicOperations(conn *Connection, exec *QueryExecutor, m *mapping.Mapping, fields *FieldSerializer, parser *ResponseParser, opts ...OperationsOption) *BasicOperations {
	o := &BasicOperations{
		conn:        conn,
		exec:        exec,
		mapping:     m,
		fields:      fields,
		parser:      parser,
		cache:       NullCache{},
		observer:    observability.NoopObserver{},
		log:         zap.NewNop(),
		batchSize:   DefaultBatchSize,
		maxParallel: DefaultMaxParallel,
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Core implements ReadOperations.
func (o *BasicOperations) Core() string { return o.conn.CoreID() }

// Mapping returns the core's document mapping.
func (o *BasicOperations) Mapping() *mapping.Mapping { return o.mapping }

// Connection returns the core's connection.
func (o *BasicOperations) Connection() *Connection { return o.conn }

// Executor returns the core's query executor.
func (o *BasicOperations) Executor() *QueryExecutor { return o.exec }

// Ping implements ReadOperations.
func (o *BasicOperations) Ping(ctx context.Context) error {
	return o.conn.Ping(ctx)
}

// Query implements ReadOperations, consulting the cache first.
func (o *BasicOperations) Query(ctx context.Context, q Query) (*Result, error) {
	key := queryKey(o.conn.CoreID(), q)
	if cached, ok := o.cache.Get(key); ok {
		return cached, nil
	}

	result, err := o.exec.Execute(ctx, q)
	if err != nil {
		return nil, err
	}
	o.cache.Set(key, result)
	return result, nil
}

// Count implements ReadOperations.
func (o *BasicOperations) Count(ctx context.Context, filter *FilterSet) (uint64, error) {
	return o.exec.Count(ctx, filter)
}

// Facet implements ReadOperations.
func (o *BasicOperations) Facet(ctx context.Context, fq FacetQuery) ([]FacetCount, error) {
	return o.exec.Facet(ctx, fq)
}

// Get implements ReadOperations.
func (o *BasicOperations) Get(ctx context.Context, ids ...string) (hits []Hit, err error) {
	start := time.Now()
	defer func() {
		o.observer.Observe(ctx, observability.Event{
			Component: "operations",
			Operation: "get",
			Core:      o.conn.CoreID(),
			Documents: len(ids),
			Duration:  time.Since(start),
			Err:       err,
		})
	}()

	if len(ids) == 0 {
		return nil, nil
	}
	if err := o.conn.guard(); err != nil {
		return nil, err
	}

	pointIDs := make([]*qdrant.PointId, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			return nil, ErrEmptyDocumentID
		}
		pointIDs = append(pointIDs, qdrant.NewID(id))
	}

	resp, err := o.conn.API().Get(ctx, &qdrant.GetPoints{
		CollectionName: o.conn.Collection(),
		Ids:            pointIDs,
		WithPayload:    qdrant.NewWithPayload(true),
	})
	if err != nil {
		return nil, fmt.Errorf("search: get from core %q: %w", o.conn.CoreID(), err)
	}

	return o.parser.Retrieved(resp)
}

// Add implements Operations. Documents are serialized through the core's
// mapping and upserted in batches; batches run concurrently up to the
// configured parallelism. A document with an empty unique key is rejected
// before anything is written.
func (o *BasicOperations) Add(ctx context.Context, docs ...any) (err error) {
	start := time.Now()
	defer func() {
		o.observer.Observe(ctx, observability.Event{
			Component: "operations",
			Operation: "add",
			Core:      o.conn.CoreID(),
			Documents: len(docs),
			Duration:  time.Since(start),
			Err:       err,
		})
	}()

	if len(docs) == 0 {
		return nil
	}
	if err := o.conn.guard(); err != nil {
		return err
	}

	points := make([]*qdrant.PointStruct, 0, len(docs))
	for i, doc := range docs {
		id, err := o.mapping.DocumentID(doc)
		if err != nil {
			return fmt.Errorf("search: document %d: %w", i, err)
		}
		if id == "" {
			return fmt.Errorf("search: document %d: %w", i, ErrEmptyDocumentID)
		}

		payload, err := o.fields.Payload(o.mapping, doc)
		if err != nil {
			return fmt.Errorf("search: document %d: %w", i, err)
		}

		vector := documentVector(payload)
		points = append(points, &qdrant.PointStruct{
			Id:      qdrant.NewID(id),
			Vectors: qdrant.NewVectors(vector...),
			Payload: qdrant.NewValueMap(payload),
		})
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(o.maxParallel)
	for s := 0; s < len(points); s += o.batchSize {
		batch := points[s:min(s+o.batchSize, len(points))]
		g.Go(func() error {
			wait := true
			_, err := o.conn.API().Upsert(gctx, &qdrant.UpsertPoints{
				CollectionName: o.conn.Collection(),
				Points:         batch,
				Wait:           &wait,
			})
			if err != nil {
				return fmt.Errorf("search: upsert into core %q: %w", o.conn.CoreID(), err)
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	o.log.Debug("documents added",
		zap.String("core", o.conn.CoreID()),
		zap.Int("documents", len(points)),
		zap.Duration("took", time.Since(start)),
	)
	return nil
}

// Delete implements Operations.
func (o *BasicOperations) Delete(ctx context.Context, ids ...string) (err error) {
	start := time.Now()
	defer func() {
		o.observer.Observe(ctx, observability.Event{
			Component: "operations",
			Operation: "delete",
			Core:      o.conn.CoreID(),
			Documents: len(ids),
			Duration:  time.Since(start),
			Err:       err,
		})
	}()

	if len(ids) == 0 {
		return nil
	}
	if err := o.conn.guard(); err != nil {
		return err
	}

	pointIDs := make([]*qdrant.PointId, 0, len(ids))
	for _, id := range ids {
		if id == "" {
			return ErrEmptyDocumentID
		}
		pointIDs = append(pointIDs, qdrant.NewID(id))
	}

	wait := true
	_, err = o.conn.API().Delete(ctx, &qdrant.DeletePoints{
		CollectionName: o.conn.Collection(),
		Points: &qdrant.PointsSelector{
			PointsSelectorOneOf: &qdrant.PointsSelector_Points{
				Points: &qdrant.PointsIdsList{Ids: pointIDs},
			},
		},
		Wait: &wait,
	})
	if err != nil {
		return fmt.Errorf("search: delete from core %q: %w", o.conn.CoreID(), err)
	}
	return nil
}

// documentVector pulls the embedding out of a serialized payload. The
// convention: a mapped field named "vector" of floats carries the
// embedding; documents without one get a zero-dimension vector and are
// only reachable by direct lookup or filter-based counting.
func documentVector(payload map[string]any) []float32 {
	raw, ok := payload["vector"]
	if !ok {
		return nil
	}
	items, ok := raw.([]any)
	if !ok {
		return nil
	}
	vec := make([]float32, 0, len(items))
	for _, item := range items {
		switch n := item.(type) {
		case float64:
			vec = append(vec, float32(n))
		case int64:
			vec = append(vec, float32(n))
		default:
			return nil
		}
	}
	delete(payload, "vector")
	return vec
}

// queryKey fingerprints a query for the cache. Filter conditions are
// written value by value, with range bounds dereferenced, so two queries
// built from distinct allocations hash equally when they mean the same
// thing.
func queryKey(core string, q Query) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%s|%v|%d|%d|%t", core, q.Vector, q.Limit, q.Offset, q.WithVectors)
	writeFilterKey(h, q.Filter)
	return fmt.Sprintf("%x", h.Sum64())
}

func writeFilterKey(w io.Writer, f *FilterSet) {
	if f == nil {
		return
	}
	writeConditionsKey(w, "must", f.Must)
	writeConditionsKey(w, "should", f.Should)
	writeConditionsKey(w, "not", f.MustNot)
}

func writeConditionsKey(w io.Writer, group string, conditions []Condition) {
	for _, c := range conditions {
		fmt.Fprintf(w, "|%s:", group)
		writeConditionKey(w, c)
	}
}

func writeConditionKey(w io.Writer, c Condition) {
	switch c := c.(type) {
	case MatchCondition:
		fmt.Fprintf(w, "match(%s=%T:%v)", c.Field, c.Value, c.Value)
	case MatchAnyCondition:
		fmt.Fprintf(w, "any(%s=%v)", c.Field, c.Values)
	case RangeCondition:
		fmt.Fprintf(w, "range(%s", c.Field)
		writeBoundKey(w, "gt", c.Gt)
		writeBoundKey(w, "gte", c.Gte)
		writeBoundKey(w, "lt", c.Lt)
		writeBoundKey(w, "lte", c.Lte)
		io.WriteString(w, ")")
	case TimeRangeCondition:
		fmt.Fprintf(w, "timerange(%s", c.Field)
		writeTimeBoundKey(w, "gt", c.Gt)
		writeTimeBoundKey(w, "gte", c.Gte)
		writeTimeBoundKey(w, "lt", c.Lt)
		writeTimeBoundKey(w, "lte", c.Lte)
		io.WriteString(w, ")")
	case IsNullCondition:
		fmt.Fprintf(w, "isnull(%s)", c.Field)
	case IsEmptyCondition:
		fmt.Fprintf(w, "isempty(%s)", c.Field)
	default:
		fmt.Fprintf(w, "%T", c)
	}
}

func writeBoundKey(w io.Writer, name string, v *float64) {
	if v != nil {
		fmt.Fprintf(w, " %s=%g", name, *v)
	}
}

func writeTimeBoundKey(w io.Writer, name string, v *time.Time) {
	if v != nil {
		fmt.Fprintf(w, " %s=%d", name, v.UnixNano())
	}
}

// FullOperations extends BasicOperations with storage administration for
// the same core. It is the capability a core's consumers usually resolve.
type FullOperations struct {
	*BasicOperations

	admin  *Admin
	schema CoreSchema
}

// NewFullOperations wraps the basic operations of a core with its
// administrative capabilities. The schema describes the storage to create
// when EnsureStorage runs against an engine that does not have it yet.
func NewFullOperations(basic *BasicOperations, admin *Admin, schema CoreSchema) *FullOperations {
	schema.Collection = basic.conn.Collection()
	return &FullOperations{
		BasicOperations: basic,
		admin:           admin,
		schema:          schema,
	}
}

// EnsureStorage creates the core's storage when missing. Idempotent.
func (f *FullOperations) EnsureStorage(ctx context.Context) error {
	return f.admin.EnsureCore(ctx, f.conn, f.schema)
}

// DropStorage deletes the core's storage.
func (f *FullOperations) DropStorage(ctx context.Context) error {
	return f.admin.DropCore(ctx, f.conn)
}

// Status reports the core's operational state.
func (f *FullOperations) Status(ctx context.Context) (*CoreStatus, error) {
	return f.admin.Status(ctx, f.conn)
}

// Schema reports the core's storage layout as the engine sees it.
func (f *FullOperations) Schema(ctx context.Context) (*CoreSchema, error) {
	return f.admin.Schema(ctx, f.conn)
}

var (
	_ Operations     = (*BasicOperations)(nil)
	_ Operations     = (*FullOperations)(nil)
	_ ReadOperations = (*FullOperations)(nil)
)
