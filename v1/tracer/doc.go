// Package tracer configures the OpenTelemetry tracer provider used by the
// search layer. Spans are created by the query executors; this package
// only decides where they go: kept in-process by default, batched to an
// OTLP HTTP endpoint when export is enabled.
//
// The provider is registered globally and also offered through the
// container, so both implicit (otel.Tracer) and explicit
// (cores.WithTracerProvider) consumers see the same provider.
package tracer
