// Package cache stores rendered artifacts keyed by a hash of everything that
// went into them.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for servers running several
//     replicas
//   - [NullCache]: stores nothing, for --no-cache
//
// # Keys
//
// A [Keyer] derives keys from a content hash of the input data plus the
// options that affect the output, so a change to either misses the cache.
// [NewScopedKeyer] prefixes every key, for example with the build version so
// a new release never serves artifacts rendered by an old one.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key. A missing or expired entry reports
	// false with a nil error.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl of zero or less never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend.
	Close() error
}

// Default lifetimes.
const (
	// TTLLayout is the lifetime of layout exports.
	TTLLayout = 7 * 24 * time.Hour

	// TTLArtifact is the lifetime of rendered artifacts.
	TTLArtifact = 30 * 24 * time.Hour
)

// LayoutKeyOpts are the options that change a layout.
type LayoutKeyOpts struct {
	KeyField    string `json:"key_field"`
	Theme       string `json:"theme"`
	Horizontal  bool   `json:"horizontal"`
	OptionsHash string `json:"options_hash,omitempty"`
}

// ArtifactKeyOpts are the options that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format   string  `json:"format"`
	Scale    float64 `json:"scale,omitempty"`
	Detailed bool    `json:"detailed,omitempty"`
}

// Keyer derives cache keys.
type Keyer interface {
	// LayoutKey returns the key of the layout of the data with the given
	// hash.
	LayoutKey(dataHash string, opts LayoutKeyOpts) string

	// ArtifactKey returns the key of one output format rendered from the
	// layout with the given hash.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer hashes the key components into fixed-length keys.
type DefaultKeyer struct{}

// NewDefaultKeyer returns the default keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// LayoutKey implements [Keyer].
func (DefaultKeyer) LayoutKey(dataHash string, opts LayoutKeyOpts) string {
	return hashKey("layout", dataHash, opts)
}

// ArtifactKey implements [Keyer].
func (DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}
