// Package cores registers search cores in the application container.
//
// A core is one configured index: an id, a document type descriptor, and
// the URL of the server that stores it. For every core in the batch the
// package builds and names the full client chain
//
//	Connection -> QueryExecutor -> BasicOperations -> FullOperations
//
// and exposes each node under "<core id>.<suffix>" so multiple cores,
// even ones sharing a document type, coexist in one container.
//
// Registration is fail-fast over the whole batch: every server config is
// validated (url present and parseable, document type present and
// registered, ids unique) before any chain is built, and the first
// violation aborts the batch with a *ConfigError. Empty core ids are
// filled with generated UUIDs during normalization.
//
// # Basic Usage
//
//	cfg := cores.DefaultConfig().WithServers(
//	    cores.ServerConfig{
//	        ID:           "products",
//	        DocumentType: "shop.product",
//	        URL:          "http://localhost:6334",
//	    },
//	)
//
//	app := fx.New(
//	    logger.FXModule,
//	    fx.Provide(newTypeRegistry),
//	    cores.Module(cfg),
//	    fx.Invoke(func(p struct {
//	        fx.In
//	        Products search.Operations `name:"products.operations"`
//	    }) {
//	        // p.Products is ready to use
//	    }),
//	)
//
// Outside a container, NewRegistry builds the same chains directly and
// the *Registry accessors hand out the per-core nodes and the shared
// default services.
//
// # Package Layout
//
//	cores/
//	├── configs.go    // Config/ServerConfig, normalization, viper loading
//	├── core.go       // validated Core derived from a ServerConfig
//	├── registry.go   // batch validation, chain construction, lifecycle
//	├── fx_module.go  // Module(cfg), named providers, lifecycle hook
//	└── errors.go     // ConfigError and sentinel errors
package cores
