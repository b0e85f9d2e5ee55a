// Package cache defines the in-process cache port.
package cache

import "time"

// Cache is a TTL-bounded in-process cache for read-only lookups.
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration)
	Del(key string)
	Close()
}
