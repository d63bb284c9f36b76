package search

import (
	"context"
	"fmt"
	"time"

	qdrant "github.com/qdrant/go-client/qdrant"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"

	"github.com/searchfx/searchfx/v1/observability"
)

// DefaultQueryLimit caps queries that specify no limit.
const DefaultQueryLimit = 10

const instrumentationName = "github.com/searchfx/searchfx/v1/search"

// QueryExecutor runs queries against one core's connection. It owns the
// serialize/execute/parse cycle; operations layers delegate their reads to
// it.
type QueryExecutor struct {
	conn     *Connection
	queries  *QuerySerializer
	facets   *FacetSerializer
	parser   *ResponseParser
	tracer   trace.Tracer
	observer observability.Observer
	log      *zap.Logger
}

// ExecutorOption customizes a QueryExecutor.
type ExecutorOption func(*QueryExecutor)

// WithExecutorLogger sets the executor's logger.
func WithExecutorLogger(log *zap.Logger) ExecutorOption {
	return func(e *QueryExecutor) {
		if log != nil {
			e.log = log
		}
	}
}

// WithExecutorObserver sets the observer operation events are sent to.
func WithExecutorObserver(obs observability.Observer) ExecutorOption {
	return func(e *QueryExecutor) {
		if obs != nil {
			e.observer = obs
		}
	}
}

// WithExecutorTracer overrides the tracer. Defaults to the global otel
// tracer provider.
func WithExecutorTracer(tp trace.TracerProvider) ExecutorOption {
	return func(e *QueryExecutor) {
		if tp != nil {
			e.tracer = tp.Tracer(instrumentationName)
		}
	}
}

// NewQueryExecutor creates an executor over a connection, using the shared
// serializers and parser.
func NewQueryExecutor(conn *Connection, queries *QuerySerializer, facets *FacetSerializer, parser *ResponseParser, opts ...ExecutorOption) *QueryExecutor {
	e := &QueryExecutor{
		conn:     conn,
		queries:  queries,
		facets:   facets,
		parser:   parser,
		tracer:   otel.Tracer(instrumentationName),
		observer: observability.NoopObserver{},
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Connection returns the connection the executor runs against.
func (e *QueryExecutor) Connection() *Connection { return e.conn }

// Execute runs one similarity query and parses the response.
func (e *QueryExecutor) Execute(ctx context.Context, q Query) (result *Result, err error) {
	start := time.Now()
	ctx, span := e.startSpan(ctx, "search.query")
	defer func() {
		e.finishSpan(span, err)
		e.observer.Observe(ctx, observability.Event{
			Component: "executor",
			Operation: "query",
			Core:      e.conn.CoreID(),
			Duration:  time.Since(start),
			Err:       err,
		})
	}()

	if len(q.Vector) == 0 {
		return nil, ErrMissingVector
	}
	if err := e.conn.guard(); err != nil {
		return nil, err
	}

	limit := uint64(DefaultQueryLimit)
	if q.Limit > 0 {
		limit = uint64(q.Limit)
	}

	req := &qdrant.QueryPoints{
		CollectionName: e.conn.Collection(),
		Query:          qdrant.NewQuery(q.Vector...),
		Limit:          &limit,
		Filter:         e.queries.Filter(q.Filter),
		WithPayload:    qdrant.NewWithPayload(true),
		WithVectors:    qdrant.NewWithVectors(q.WithVectors),
	}
	if q.Offset > 0 {
		offset := uint64(q.Offset)
		req.Offset = &offset
	}

	resp, err := e.conn.API().Query(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("search: query core %q: %w", e.conn.CoreID(), err)
	}

	hits, err := e.parser.Scored(resp)
	if err != nil {
		return nil, fmt.Errorf("search: parse response from core %q: %w", e.conn.CoreID(), err)
	}

	e.log.Debug("query executed",
		zap.String("core", e.conn.CoreID()),
		zap.Int("hits", len(hits)),
		zap.Duration("took", time.Since(start)),
	)
	return &Result{Hits: hits, Core: e.conn.CoreID()}, nil
}

// Count returns the number of documents matching a filter. A nil filter
// counts the whole core.
func (e *QueryExecutor) Count(ctx context.Context, filter *FilterSet) (count uint64, err error) {
	start := time.Now()
	ctx, span := e.startSpan(ctx, "search.count")
	defer func() {
		e.finishSpan(span, err)
		e.observer.Observe(ctx, observability.Event{
			Component: "executor",
			Operation: "count",
			Core:      e.conn.CoreID(),
			Duration:  time.Since(start),
			Err:       err,
		})
	}()

	if err := e.conn.guard(); err != nil {
		return 0, err
	}

	exact := true
	count, err = e.conn.API().Count(ctx, &qdrant.CountPoints{
		CollectionName: e.conn.Collection(),
		Filter:         e.queries.Filter(filter),
		Exact:          &exact,
	})
	if err != nil {
		return 0, fmt.Errorf("search: count on core %q: %w", e.conn.CoreID(), err)
	}
	return count, nil
}

// Facet counts documents per candidate value of one field. The counts run
// as one count request per value.
func (e *QueryExecutor) Facet(ctx context.Context, fq FacetQuery) (counts []FacetCount, err error) {
	start := time.Now()
	ctx, span := e.startSpan(ctx, "search.facet")
	defer func() {
		e.finishSpan(span, err)
		e.observer.Observe(ctx, observability.Event{
			Component: "executor",
			Operation: "facet",
			Core:      e.conn.CoreID(),
			Duration:  time.Since(start),
			Err:       err,
		})
	}()

	if err := e.conn.guard(); err != nil {
		return nil, err
	}

	filters, err := e.facets.Filters(fq)
	if err != nil {
		return nil, err
	}

	exact := true
	counts = make([]FacetCount, 0, len(filters))
	for i, filter := range filters {
		n, err := e.conn.API().Count(ctx, &qdrant.CountPoints{
			CollectionName: e.conn.Collection(),
			Filter:         filter,
			Exact:          &exact,
		})
		if err != nil {
			return nil, fmt.Errorf("search: facet %q on core %q: %w", fq.Field, e.conn.CoreID(), err)
		}
		counts = append(counts, FacetCount{Value: fq.Values[i], Count: n})
	}
	return counts, nil
}

func (e *QueryExecutor) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return e.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("search.core", e.conn.CoreID()),
		attribute.String("search.collection", e.conn.Collection()),
	))
}

func (e *QueryExecutor) finishSpan(span trace.Span, err error) {
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}
