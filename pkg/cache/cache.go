// Package cache provides the byte cache used for rendered label previews.
//
// Three backends implement [Cache]:
//   - [FileCache]: entries as JSON files under a directory (CLI and single host)
//   - [RedisCache]: a shared Redis instance (several server replicas)
//   - [NullCache]: caching disabled
//
// Keys are produced by a [Keyer] so that every caller agrees on the key
// layout; [ScopedKeyer] adds a namespace prefix when several deployments
// share one Redis database.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get returns the stored value and true, or false on a miss.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data. A ttl <= 0 stores without expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	Close() error
}

// TTLs for cached artifacts.
const (
	// TTLPreview is long because a preview key already covers every input.
	TTLPreview = 24 * time.Hour
)

// Keyer generates cache keys.
type Keyer interface {
	// PreviewKey keys a rendered preview by layout hash and output format.
	PreviewKey(specHash string, opts PreviewKeyOpts) string
}

// PreviewKeyOpts are the output options that change preview bytes.
type PreviewKeyOpts struct {
	Format string `json:"format"`
}

// DefaultKeyer is the standard key layout.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer {
	return DefaultKeyer{}
}

// PreviewKey returns "preview:<sha256>".
func (DefaultKeyer) PreviewKey(specHash string, opts PreviewKeyOpts) string {
	return hashKey("preview", specHash, opts)
}
