// Package cache provides key/value storage for delivery bookkeeping.
//
// Publishers use a [Cache] to remember which documents were already delivered
// to which destination, so that re-running an unchanged visualization does not
// post it again. Three backends are available:
//   - [FileCache]: one file per entry under a directory (CLI default)
//   - [RedisCache]: shared storage for several processes
//   - [NullCache]: stores nothing (caching disabled)
//
// Keys are produced by a [Keyer] so that every backend sees the same layout.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values with an optional time-to-live.
type Cache interface {
	// Get returns the value stored under key. The boolean reports a hit;
	// a miss is not an error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer builds cache keys.
type Keyer interface {
	// DeliveryKey identifies a document delivered by a publisher to a destination.
	DeliveryKey(publisher, destination, documentHash string) string
}

// DefaultKeyer produces unscoped keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates a DefaultKeyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// DeliveryKey returns "delivery:<hash of publisher, destination, document hash>".
func (DefaultKeyer) DeliveryKey(publisher, destination, documentHash string) string {
	return hashKey("delivery", publisher, destination, documentHash)
}
