package logger

// Level controls the minimum severity that gets logged.
type Level string

// Supported log levels.
const (
	Debug   Level = "debug"
	Info    Level = "info"
	Warning Level = "warning"
	Error   Level = "error"
)

// Config holds settings for the application logger.
type Config struct {
	// Minimum level to log. Defaults to Info.
	Level Level `yaml:"level" env:"LOG_LEVEL"`

	// ServiceName is attached to every log entry as a constant field.
	ServiceName string `yaml:"service_name" env:"LOG_SERVICE_NAME"`

	// Development switches to a human-readable console encoder.
	Development bool `yaml:"development" env:"LOG_DEVELOPMENT"`
}

// DefaultConfig provides sensible defaults for most use cases.
func DefaultConfig() Config {
	return Config{
		Level: Info,
	}
}

// WithServiceName sets the service name field.
func (c Config) WithServiceName(name string) Config {
	c.ServiceName = name
	return c
}

// WithLevel sets the minimum log level.
func (c Config) WithLevel(level Level) Config {
	c.Level = level
	return c
}
