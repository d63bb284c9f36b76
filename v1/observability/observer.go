// Package observability defines the event hook shared by all searchfx
// components. Packages emit an Event per significant operation; an Observer
// implementation (for example the prometheus-backed one in v1/metrics)
// turns those events into metrics, traces, or logs.
package observability

import (
	"context"
	"time"
)

// Event describes one completed operation on a search core.
type Event struct {
	// Component is the emitting component, e.g. "executor" or "operations".
	Component string

	// Operation is the logical operation name, e.g. "query", "add", "delete".
	Operation string

	// Core is the identifier of the core the operation ran against.
	// Empty for core-independent operations.
	Core string

	// Documents is the number of documents touched, where applicable.
	Documents int

	// Duration is the wall-clock duration of the operation.
	Duration time.Duration

	// Err is the operation error, nil on success.
	Err error
}

// Observer receives operation events. Implementations must be safe for
// concurrent use.
type Observer interface {
	Observe(ctx context.Context, event Event)
}

// NoopObserver discards all events. It is the default when no observer
// is wired in.
type NoopObserver struct{}

// Observe implements Observer.
func (NoopObserver) Observe(context.Context, Event) {}

var _ Observer = NoopObserver{}
