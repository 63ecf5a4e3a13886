// Package cache stores computed plans and rendered images between runs.
//
// Three backends implement [Cache]:
//   - [FileCache]: one JSON envelope per key under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP server
//   - [NullCache]: stores nothing, for --no-cache and tests
//
// Keys come from a [Keyer] so that every caller derives the same key from
// the same inputs:
//
//	keyer := cache.NewDefaultKeyer()
//	key := keyer.PlanKey(cache.Hash(segmentsJSON), cache.PlanKeyOpts{Mode: "tile", BaseWidth: 100})
//	if data, hit, err := c.Get(ctx, key); err == nil && hit {
//	    // use data
//	}
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired key is a miss,
	// not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// Entry lifetimes.
const (
	// TTLPlan keeps allocation plans. Plans depend only on segment
	// lengths and options, so they stay valid for a long time.
	TTLPlan = 30 * 24 * time.Hour

	// TTLArtifact keeps rendered images, which are large.
	TTLArtifact = 7 * 24 * time.Hour
)
