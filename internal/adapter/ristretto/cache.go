// Package ristretto implements the cache port using dgraph-io/ristretto as an
// in-process cache for short-lived tool-result reuse.
package ristretto

import (
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// Cache wraps a ristretto cache behind the cache port.
type Cache struct {
	c *ristretto.Cache[string, []byte]
}

// New creates a ristretto-backed cache. maxCostBytes is the maximum total
// size of cached values in bytes.
func New(maxCostBytes int64) (*Cache, error) {
	c, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: maxCostBytes / 100 * 10, // ~10x expected items
		MaxCost:     maxCostBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, err
	}
	return &Cache{c: c}, nil
}

// Get retrieves a value from the cache.
func (c *Cache) Get(key string) ([]byte, bool) {
	return c.c.Get(key)
}

// Set stores a value in the cache with the given TTL.
func (c *Cache) Set(key string, value []byte, ttl time.Duration) {
	c.c.SetWithTTL(key, value, int64(len(value)), ttl)
}

// Del removes a value from the cache.
func (c *Cache) Del(key string) {
	c.c.Del(key)
}

// Close shuts down the cache and releases resources.
func (c *Cache) Close() {
	c.c.Close()
}
