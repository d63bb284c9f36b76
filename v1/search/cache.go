package search

import (
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"
)

// Cache stores query results keyed by a query fingerprint. The default
// wiring uses NullCache: operations call through to the engine every time
// and caching is a pure opt-in.
//
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the cached result for a key, if present.
	Get(key string) (*Result, bool)

	// Set stores a result under a key.
	Set(key string, result *Result)
}

// NullCache never stores anything. It keeps the cache dependency explicit
// without introducing a caching policy.
type NullCache struct{}

// NewNullCache creates the no-op cache.
func NewNullCache() NullCache { return NullCache{} }

// Get implements Cache; it never hits.
func (NullCache) Get(string) (*Result, bool) { return nil, false }

// Set implements Cache; it discards the result.
func (NullCache) Set(string, *Result) {}

// LRUCache is a size-bounded query result cache. Use it instead of
// NullCache for read-heavy cores where stale results are acceptable.
type LRUCache struct {
	cache *lru.Cache[string, *Result]
}

// NewLRUCache creates an LRU-backed query cache with the given capacity.
func NewLRUCache(size int) (*LRUCache, error) {
	cache, err := lru.New[string, *Result](size)
	if err != nil {
		return nil, fmt.Errorf("search: create query cache: %w", err)
	}
	return &LRUCache{cache: cache}, nil
}

// Get implements Cache.
func (c *LRUCache) Get(key string) (*Result, bool) {
	return c.cache.Get(key)
}

// Set implements Cache.
func (c *LRUCache) Set(key string, result *Result) {
	c.cache.Add(key, result)
}

var (
	_ Cache = NullCache{}
	_ Cache = (*LRUCache)(nil)
)
