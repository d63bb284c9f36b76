package metrics

// DefaultAddress is where the metrics HTTP server listens when the
// configuration leaves the address empty.
const DefaultAddress = ":9090"

// Config controls the Prometheus metrics server.
type Config struct {
	// Address is the listen address of the /metrics HTTP endpoint.
	//
	// Example values:
	//   - ":9090"          listen on all interfaces, port 9090
	//   - "127.0.0.1:9100" listen on localhost only
	Address string `yaml:"address" mapstructure:"address"`

	// ServiceName is added as a constant "service" label to every metric,
	// so multiple services scraped by the same Prometheus stay apart.
	ServiceName string `yaml:"service_name" mapstructure:"service_name"`

	// EnableDefaultCollectors registers the Go runtime, process and build
	// info collectors alongside the search metrics.
	EnableDefaultCollectors bool `yaml:"enable_default_collectors" mapstructure:"enable_default_collectors"`
}

// DefaultConfig returns a config listening on DefaultAddress with the
// runtime collectors enabled.
func DefaultConfig() Config {
	return Config{
		Address:                 DefaultAddress,
		EnableDefaultCollectors: true,
	}
}

// WithServiceName returns a copy of the config with the service label set.
func (c Config) WithServiceName(name string) Config {
	c.ServiceName = name
	return c
}
