// Package cache stores rendered artifacts and generated datasets between
// runs.
//
// Three backends implement [Cache]:
//
//   - [FileCache] keeps entries as JSON files under a directory, for the CLI.
//   - [RedisCache] keeps entries in Redis, for the HTTP server.
//   - [NullCache] stores nothing and is used when caching is disabled.
//
// Keys are built by a [Keyer] so that every backend sees the same key space.
// Lookups and writes report to the cache hooks in
// [github.com/matzehuels/curriculummap/pkg/observability].
package cache

import (
	"context"
	"strings"
	"time"

	"github.com/matzehuels/curriculummap/pkg/observability"
)

// Default entry lifetimes.
const (
	// TTLGraph applies to generated datasets, which never change for a seed.
	TTLGraph = 7 * 24 * time.Hour
	// TTLArtifact applies to rendered outputs.
	TTLArtifact = 24 * time.Hour
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the cached value. A miss is reported as (nil, false, nil).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means the backend default.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// keyType extracts the key family ("graph", "artifact") for metrics.
// Keys look like [scope:]family:hash.
func keyType(key string) string {
	i := strings.LastIndexByte(key, ':')
	if i < 0 {
		return "unknown"
	}
	family := key[:i]
	if j := strings.LastIndexByte(family, ':'); j >= 0 {
		family = family[j+1:]
	}
	return family
}

func recordGet(ctx context.Context, key string, hit bool) {
	if hit {
		observability.Cache().OnCacheHit(ctx, keyType(key))
	} else {
		observability.Cache().OnCacheMiss(ctx, keyType(key))
	}
}

func recordSet(ctx context.Context, key string, size int) {
	observability.Cache().OnCacheSet(ctx, keyType(key), size)
}
