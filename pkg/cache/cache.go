// Package cache stores small records keyed by package identity.
//
// htbuild uses it to remember which package identities have already been
// staged, so a second packaging run for a configuration that collapses to
// the same header-only identity is recognised and skipped.
//
// Three backends share the [Cache] interface:
//
//   - [FileCache]: one JSON file per key under a directory (CLI default)
//   - [RedisCache]: a shared Redis instance, for CI runners that share state
//   - [NullCache]: stores nothing, used with --no-cache
//
// Keys are derived with [PackageKey] so that the same identity always maps to
// the same entry regardless of backend.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the stored value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
