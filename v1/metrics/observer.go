package metrics

import (
	"context"

	"github.com/searchfx/searchfx/v1/observability"
)

// Observe implements observability.Observer. Every event increments the
// operation counter with a success or error status, records its duration,
// and counts touched documents when the event reports any.
func (m *Metrics) Observe(_ context.Context, event observability.Event) {
	status := "success"
	if event.Err != nil {
		status = "error"
	}

	m.operationsTotal.WithLabelValues(event.Core, event.Operation, status).Inc()
	m.operationDuration.WithLabelValues(event.Core, event.Operation).Observe(event.Duration.Seconds())

	if event.Documents > 0 {
		m.documentsTotal.WithLabelValues(event.Core, event.Operation).Add(float64(event.Documents))
	}
}

var _ observability.Observer = (*Metrics)(nil)
