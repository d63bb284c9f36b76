package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics owns an isolated Prometheus registry, the search metric vectors
// registered in it, and the HTTP server that exposes them at /metrics.
//
// Each Metrics instance keeps its own registry so two instances in one
// process never collide on metric names.
type Metrics struct {
	// Server exposes the /metrics endpoint.
	Server *http.Server

	// Registry holds every metric this instance registered.
	Registry *prometheus.Registry

	operationsTotal   *prometheus.CounterVec
	operationDuration *prometheus.HistogramVec
	documentsTotal    *prometheus.CounterVec
}

// NewMetrics builds the registry, registers the search metrics under a
// constant service label, and prepares the HTTP server. The server is not
// started here; RegisterMetricsLifecycle does that, or call
// Server.ListenAndServe directly.
//
// Registered metrics:
//
//	search_operations_total{core,operation,status}
//	search_operation_duration_seconds{core,operation}
//	search_documents_total{core,operation}
func NewMetrics(cfg Config) *Metrics {
	if cfg.Address == "" {
		cfg.Address = DefaultAddress
	}

	registry := prometheus.NewRegistry()
	wrapped := prometheus.WrapRegistererWith(
		prometheus.Labels{"service": cfg.ServiceName},
		registry,
	)

	m := &Metrics{
		Registry: registry,
		operationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "search_operations_total",
			Help: "Total number of search operations by core, operation and status.",
		}, []string{"core", "operation", "status"}),
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "search_operation_duration_seconds",
			Help:    "Duration of search operations in seconds.",
			Buckets: prometheus.DefBuckets,
		}, []string{"core", "operation"}),
		documentsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "search_documents_total",
			Help: "Number of documents moved by indexing and delete operations.",
		}, []string{"core", "operation"}),
	}

	wrapped.MustRegister(
		m.operationsTotal,
		m.operationDuration,
		m.documentsTotal,
	)

	if cfg.EnableDefaultCollectors {
		wrapped.MustRegister(
			collectors.NewGoCollector(),
			collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
			collectors.NewBuildInfoCollector(),
		)
	}

	m.Server = &http.Server{
		Addr:    cfg.Address,
		Handler: promhttp.HandlerFor(registry, promhttp.HandlerOpts{}),
	}
	return m
}
