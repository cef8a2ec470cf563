// Package cache stores derived artifacts between runs.
//
// Converting a large drawing reprojects every vertex, which is the slowest
// step of the CLI. The pipeline caches the serialized KML of a conversion
// under a key derived from the drawing's content hash and the source
// reference system, so converting the same file again only re-packages it.
//
// # Backends
//
//   - [FileCache]: zstd-compressed entries below a directory, with TTL
//   - [NullCache]: stores nothing, used with --no-cache and in tests
//
// # Keys
//
// Keys come from a [Keyer]. [DefaultKeyer] hashes the key components;
// [ScopedKeyer] prefixes keys to separate namespaces sharing one directory.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiration.
type Cache interface {
	// Get returns the value for key. hit is false when the entry does not
	// exist or has expired.
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)

	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// DefaultTTL is how long conversion results stay valid.
const DefaultTTL = 7 * 24 * time.Hour
