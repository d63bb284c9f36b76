package metrics

import (
	"context"
	"errors"
	"net/http"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/searchfx/searchfx/v1/observability"
)

// FXModule wires the metrics server into an fx application. It provides
// the *Metrics instance, exposes it as the observability.Observer the
// cores module picks up, and ties the HTTP server to the fx lifecycle.
//
// A metrics.Config must be available in the container:
//
//	app := fx.New(
//	    logger.FXModule,
//	    metrics.FXModule,
//	    fx.Provide(func() metrics.Config {
//	        return metrics.DefaultConfig().WithServiceName("searchfx")
//	    }),
//	)
var FXModule = fx.Module("metrics",
	fx.Provide(
		fx.Annotate(NewMetrics, fx.As(new(observability.Observer)), fx.As(fx.Self())),
	),
	fx.Invoke(RegisterMetricsLifecycle),
)

// LifecycleParams groups the lifecycle dependencies. The logger is picked
// up when present in the container.
type LifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Metrics   *Metrics
	Logger    *zap.Logger `optional:"true"`
}

// RegisterMetricsLifecycle starts the metrics HTTP server in the
// background on application start and shuts it down gracefully on stop.
func RegisterMetricsLifecycle(p LifecycleParams) {
	m, log := p.Metrics, p.Logger
	if log == nil {
		log = zap.NewNop()
	}
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("starting metrics server", zap.String("address", m.Server.Addr))
				if err := m.Server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("metrics server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down metrics server")
			return m.Server.Shutdown(ctx)
		},
	})
}
