package tracer

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// FXModule wires tracing into an fx application. It provides the *Tracer
// and its trace.TracerProvider (the one the cores module injects into
// query executors) and flushes spans on shutdown.
//
// A tracer.Config must be available in the container:
//
//	app := fx.New(
//	    logger.FXModule,
//	    tracer.FXModule,
//	    fx.Provide(func() tracer.Config {
//	        return tracer.DefaultConfig().WithServiceName("searchfx").WithExport(true)
//	    }),
//	)
var FXModule = fx.Module("tracer",
	fx.Provide(
		NewClient,
		(*Tracer).Provider,
	),
	fx.Invoke(RegisterTracerLifecycle),
)

// LifecycleParams groups the lifecycle dependencies. The logger is picked
// up when present in the container.
type LifecycleParams struct {
	fx.In

	Lifecycle fx.Lifecycle
	Tracer    *Tracer
	Logger    *zap.Logger `optional:"true"`
}

// RegisterTracerLifecycle flushes and shuts down the tracer provider when
// the application stops.
func RegisterTracerLifecycle(p LifecycleParams) {
	log := p.Logger
	if log == nil {
		log = zap.NewNop()
	}
	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			log.Info("shutting down tracer")
			return p.Tracer.Shutdown(ctx)
		},
	})
}
