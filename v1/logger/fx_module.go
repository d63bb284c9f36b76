package logger

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"
)

// FXModule provides a *zap.Logger to the fx container and flushes it on
// shutdown.
//
// Dependencies required by this module:
//   - a logger.Config instance must be available in the container
//
// Usage:
//
//	app := fx.New(
//	    logger.FXModule,
//	    fx.Provide(func() logger.Config {
//	        return logger.DefaultConfig().WithServiceName("search-api")
//	    }),
//	)
var FXModule = fx.Module("logger",
	fx.Provide(New),
	fx.Invoke(RegisterLoggerLifecycle),
)

// RegisterLoggerLifecycle registers a shutdown hook that syncs the logger,
// flushing any buffered entries before the application terminates.
func RegisterLoggerLifecycle(lc fx.Lifecycle, log *zap.Logger) {
	lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			// Sync on stderr fails on some platforms; ignore the error.
			_ = log.Sync()
			return nil
		},
	})
}
