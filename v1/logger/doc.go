// Package logger builds the application-wide zap logger and exposes it as
// an fx module.
//
// All searchfx packages accept an optional *zap.Logger and fall back to a
// no-op logger when none is wired, so this package is a convenience rather
// than a requirement: any zap logger in the container works.
//
// # Basic Usage
//
//	log, err := logger.New(logger.Config{
//	    Level:       logger.Info,
//	    ServiceName: "search-api",
//	})
//
// # Fx Usage
//
//	app := fx.New(
//	    logger.FXModule,
//	    fx.Provide(func() logger.Config { return logger.DefaultConfig() }),
//	)
package logger
