// Package cache provides caching for rendered diagram artifacts.
//
// # Overview
//
// Rendering a large tree to SVG or converting it to PNG/PDF is the slowest
// part of the pipeline, and the output is fully determined by the input
// tree, the collapse state, and the layout configuration. This package
// caches those artifacts keyed by a SHA-256 digest over exactly that tuple,
// so repeated renders of an unchanged diagram are served from storage.
//
// # Backends
//
//   - [FileCache]: directory-based storage for CLI usage
//   - [RedisCache]: shared storage for the HTTP server
//   - [NullCache]: disables caching
//
// # Keys
//
// The [Keyer] interface generates cache keys. [DefaultKeyer] hashes the
// tree digest together with [ArtifactKeyOpts] (collapse signature, output
// format, config digest, raster scale); [ScopedKeyer] adds a namespace
// prefix when several projects share one Redis instance.
package cache

import (
	"context"
	"time"
)

// Cache stores rendered artifacts as opaque byte blobs.
//
// Get returns (data, true, nil) on a hit and (nil, false, nil) on a miss;
// an error means the backend itself failed, not that the key was absent.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// ArtifactKeyOpts are the render parameters that affect artifact bytes.
// Two renders with the same tree digest but different opts must never share
// a cache entry.
type ArtifactKeyOpts struct {
	// CollapseSignature identifies which subtrees are collapsed, as produced
	// by the diagram engine.
	CollapseSignature string

	// Format is the output format: "svg", "png", or "pdf".
	Format string

	// ConfigHash is a digest of the layout/text configuration.
	ConfigHash string

	// Scale is the raster scale factor (PNG only).
	Scale float64
}

// Keyer generates cache keys for rendered artifacts.
type Keyer interface {
	ArtifactKey(treeHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer is the standard key generator.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(treeHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", treeHash, opts)
}
