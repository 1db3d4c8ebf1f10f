// Package cache stores fetched responses for the length of one digest run.
//
// The [Cache] interface is small on purpose so the integrations client can be
// tested against [NullCache] and run against [MemoryCache]. Nothing is
// persisted: a new run starts with an empty cache, so every booklet reflects
// the services' state at the time it was printed.
//
// Keys are plain strings; use [Key] to build namespaced keys from request
// parts.
package cache

import (
	"context"
	"time"
)

// Cache stores byte payloads by key with an optional time to live.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero keeps the entry until the
	// cache is closed.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the cache's resources.
	Close() error
}
