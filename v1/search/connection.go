package search

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"sync"
	"time"

	qdrant "github.com/qdrant/go-client/qdrant"
	"go.uber.org/zap"
)

// DefaultPort is the engine's gRPC port used when the endpoint URL names
// none.
const DefaultPort = 6334

const defaultPingTimeout = 3 * time.Second

// ConnectionConfig holds the per-core connection settings.
type ConnectionConfig struct {
	// CoreID identifies the core this connection belongs to.
	CoreID string `yaml:"core_id"`

	// URL is the engine endpoint, e.g. "http://localhost:6334". An https
	// scheme enables TLS.
	URL string `yaml:"url" env:"SEARCH_URL"`

	// Collection is the engine-side collection name. Defaults to CoreID.
	Collection string `yaml:"collection"`

	// APIKey optionally authenticates against secured deployments.
	APIKey string `yaml:"api_key" env:"SEARCH_API_KEY"`

	// CheckCompatibility toggles the client/server version check.
	CheckCompatibility bool `yaml:"check_compatibility"`
}

// Endpoint is a validated engine endpoint derived from a URL string.
type Endpoint struct {
	// Host is the endpoint hostname.
	Host string

	// Port is the gRPC port.
	Port int

	// TLS is set for https endpoints.
	TLS bool

	// URL is the parsed source URL.
	URL *url.URL
}

// ParseEndpoint validates a base URL and derives connection parameters
// from it. Only well-formed http and https URLs with a hostname are
// accepted.
func ParseEndpoint(raw string) (*Endpoint, error) {
	if raw == "" {
		return nil, fmt.Errorf("search: empty endpoint URL")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("search: parse endpoint URL %q: %w", raw, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return nil, fmt.Errorf("search: endpoint URL %q: scheme must be http or https", raw)
	}
	if u.Hostname() == "" {
		return nil, fmt.Errorf("search: endpoint URL %q: missing host", raw)
	}

	port := DefaultPort
	if p := u.Port(); p != "" {
		port, err = strconv.Atoi(p)
		if err != nil || port <= 0 || port > 65535 {
			return nil, fmt.Errorf("search: endpoint URL %q: invalid port %q", raw, p)
		}
	}

	return &Endpoint{
		Host: u.Hostname(),
		Port: port,
		TLS:  u.Scheme == "https",
		URL:  u,
	}, nil
}

// Connection is one core's link to the engine. Constructing a connection
// validates the endpoint and builds the underlying client but does not
// dial: the engine client connects lazily, and Ping exists for explicit
// startup health checks.
type Connection struct {
	coreID     string
	collection string
	endpoint   *Endpoint
	api        *qdrant.Client
	log        *zap.Logger

	mu     sync.Mutex
	closed bool
}

// NewConnection creates a connection for one core from its configuration.
// A nil logger falls back to a no-op logger.
func NewConnection(cfg ConnectionConfig, log *zap.Logger) (*Connection, error) {
	if log == nil {
		log = zap.NewNop()
	}

	endpoint, err := ParseEndpoint(cfg.URL)
	if err != nil {
		return nil, err
	}

	collection := cfg.Collection
	if collection == "" {
		collection = cfg.CoreID
	}
	if collection == "" {
		return nil, fmt.Errorf("search: connection needs a core id or collection name")
	}

	api, err := qdrant.NewClient(&qdrant.Config{
		Host:                   endpoint.Host,
		Port:                   endpoint.Port,
		APIKey:                 cfg.APIKey,
		UseTLS:                 endpoint.TLS,
		SkipCompatibilityCheck: !cfg.CheckCompatibility,
	})
	if err != nil {
		return nil, fmt.Errorf("search: initialize client for %q: %w", cfg.URL, err)
	}

	log.Debug("search connection created",
		zap.String("core", cfg.CoreID),
		zap.String("host", endpoint.Host),
		zap.Int("port", endpoint.Port),
		zap.String("collection", collection),
	)

	return &Connection{
		coreID:     cfg.CoreID,
		collection: collection,
		endpoint:   endpoint,
		api:        api,
		log:        log,
	}, nil
}

// CoreID returns the owning core's identifier.
func (c *Connection) CoreID() string { return c.coreID }

// Collection returns the engine-side collection name.
func (c *Connection) Collection() string { return c.collection }

// Endpoint returns the validated endpoint.
func (c *Connection) Endpoint() *Endpoint { return c.endpoint }

// API exposes the underlying engine client for operations the wrapper does
// not cover.
func (c *Connection) API() *qdrant.Client { return c.api }

// Ping verifies the engine is reachable and healthy.
func (c *Connection) Ping(ctx context.Context) error {
	if err := c.guard(); err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(ctx, defaultPingTimeout)
	defer cancel()

	resp, err := c.api.HealthCheck(ctx)
	if err != nil {
		return fmt.Errorf("search: health check for core %q: %w", c.coreID, err)
	}

	c.log.Debug("search connection healthy",
		zap.String("core", c.coreID),
		zap.String("engine", resp.GetTitle()),
		zap.String("version", resp.GetVersion()),
	)
	return nil
}

// Close releases the connection. Subsequent operations fail with ErrClosed.
func (c *Connection) Close() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return nil
	}
	c.closed = true

	c.log.Debug("search connection closed", zap.String("core", c.coreID))
	return c.api.Close()
}

func (c *Connection) guard() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return fmt.Errorf("core %q: %w", c.coreID, ErrClosed)
	}
	return nil
}
