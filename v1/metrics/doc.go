// Package metrics exposes search operation metrics over Prometheus.
//
// The *Metrics type keeps an isolated registry with three search metric
// vectors, all labeled by core and operation, plus the optional Go
// runtime collectors. It implements observability.Observer, so wiring
// FXModule into an application automatically turns the events emitted by
// executors and operations into counters and histograms, served over
// HTTP at /metrics.
//
// # Basic Usage
//
//	m := metrics.NewMetrics(metrics.DefaultConfig().WithServiceName("searchfx"))
//	go m.Server.ListenAndServe()
//
//	registry, err := cores.NewRegistry(cfg, types, cores.WithObserver(m))
package metrics
