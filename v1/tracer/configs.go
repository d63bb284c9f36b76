package tracer

// Config controls the OpenTelemetry tracer provider.
type Config struct {
	// ServiceName identifies this service in exported traces.
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`

	// AppEnv tags every span with the deployment environment, for
	// example "production" or "staging".
	AppEnv string `yaml:"app_env" mapstructure:"app_env"`

	// EnableExport turns on the OTLP HTTP exporter. The exporter
	// endpoint is taken from the standard OTEL_EXPORTER_OTLP_* variables.
	// When false, spans are created but never leave the process.
	EnableExport bool `yaml:"enable_export" mapstructure:"enable_export"`
}

// DefaultConfig returns a config with export disabled.
func DefaultConfig() Config {
	return Config{AppEnv: "development"}
}

// WithServiceName returns a copy of the config with the service name set.
func (c Config) WithServiceName(name string) Config {
	c.ServiceName = name
	return c
}

// WithExport returns a copy of the config with OTLP export toggled.
func (c Config) WithExport(enabled bool) Config {
	c.EnableExport = enabled
	return c
}
