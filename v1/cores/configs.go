package cores

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/viper"
)

// ServerConfig describes one search core to register.
type ServerConfig struct {
	// ID identifies the core. Optional; an empty id is replaced by a
	// generated UUID during normalization.
	ID string `yaml:"id" mapstructure:"id"`

	// DocumentType is the descriptor of the core's document type, e.g.
	// "shop.product". It must name a type registered in the mapping
	// registry.
	DocumentType string `yaml:"document_type" mapstructure:"document_type"`

	// URL is the engine endpoint for this core. Required; must be a
	// well-formed http(s) URL.
	URL string `yaml:"url" mapstructure:"url"`

	// Collection overrides the engine-side collection name. Defaults to
	// the core id.
	Collection string `yaml:"collection" mapstructure:"collection"`

	// APIKey authenticates against secured deployments.
	APIKey string `yaml:"api_key" mapstructure:"api_key"`

	// VectorSize is the embedding dimension used when this core's
	// storage is created. Zero falls back to the engine default.
	VectorSize uint64 `yaml:"vector_size" mapstructure:"vector_size"`

	// Distance is the similarity metric ("Cosine", "Dot", "Euclid").
	Distance string `yaml:"distance" mapstructure:"distance"`

	// CheckCompatibility toggles the client/server version check.
	CheckCompatibility bool `yaml:"check_compatibility" mapstructure:"check_compatibility"`
}

// Config is the registration input: the batch of cores plus shared knobs.
type Config struct {
	// Servers is the batch of cores to register.
	Servers []ServerConfig `yaml:"servers" mapstructure:"servers"`

	// MappingCacheSize bounds the memoized mapping cache of the type
	// registry's manager. Zero keeps the manager's current capacity.
	MappingCacheSize int `yaml:"mapping_cache_size" mapstructure:"mapping_cache_size"`

	// EnsureStorageOnStart creates missing core storage during startup.
	EnsureStorageOnStart bool `yaml:"ensure_storage_on_start" mapstructure:"ensure_storage_on_start"`

	// PingOnStart health-checks every core during startup.
	PingOnStart bool `yaml:"ping_on_start" mapstructure:"ping_on_start"`
}

// DefaultConfig provides sensible defaults for most use cases.
func DefaultConfig() Config {
	return Config{
		PingOnStart: true,
	}
}

// WithServers appends server configurations.
func (c Config) WithServers(servers ...ServerConfig) Config {
	c.Servers = append(c.Servers, servers...)
	return c
}

// Normalize returns a copy of the configuration with generated ids filled
// in for servers that carry none. Generated ids are UUIDs, so two servers
// in one batch never collide. Normalizing an already normalized config is
// a no-op.
func (c Config) Normalize() Config {
	servers := make([]ServerConfig, len(c.Servers))
	copy(servers, c.Servers)
	for i := range servers {
		if servers[i].ID == "" {
			servers[i].ID = uuid.NewString()
		}
	}
	c.Servers = servers
	return c
}

// envPrefix namespaces environment overrides, e.g. SEARCHFX_PING_ON_START.
const envPrefix = "SEARCHFX"

// LoadConfig reads a Config from a YAML (or JSON/TOML) file, with
// environment variables taking precedence over file values.
func LoadConfig(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		return Config{}, fmt.Errorf("cores: read config %q: %w", path, err)
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("cores: parse config %q: %w", path, err)
	}
	return cfg, nil
}
