// Package cache provides a TTL cache for computed layout results.
//
// Layout computation is deterministic, so a result can be memoized by a key
// derived from the diagram content and the layout configuration. Three
// backends are provided:
//   - FileCache: file-based storage for the CLI (XDG cache directory)
//   - RedisCache: Redis-backed storage for multi-instance server deployments
//   - NullCache: no-op storage for tests or when caching is disabled
//
// Cached values are opaque bytes (typically JSON-encoded node lists); the
// cache never persists the diagram itself as canonical state.
package cache

import (
	"context"
	"time"
)

// DefaultTTL is the default lifetime of a cached layout result.
// Layouts are cheap to recompute, so entries don't need to live long.
const DefaultTTL = 24 * time.Hour

// Cache is the storage interface shared by all backends.
type Cache interface {
	// Get retrieves a value. The second return is false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with the given TTL. A ttl of 0 means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// LayoutKeyOpts carries the configuration fields that affect a layout
// result and therefore participate in the cache key.
type LayoutKeyOpts struct {
	HGap            float64
	VGap            float64
	OriginX         float64
	OriginY         float64
	MinHGap         float64
	SweepIterations int
	MaxNodes        int
}

// LayoutKey generates a cache key for a layout result. diagramHash is the
// content hash of the serialized diagram (see Hash); two diagrams with the
// same nodes, edges, order, and hints share a key only under identical
// configuration.
func LayoutKey(diagramHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", diagramHash, opts)
}
