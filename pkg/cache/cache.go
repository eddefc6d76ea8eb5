// Package cache provides pluggable byte caches and deterministic cache keys
// for computed layouts and exported artifacts.
//
// Three backends are available: [NullCache] (disabled), [FileCache] (local
// CLI usage) and [RedisCache] (server deployments). All backends store opaque
// bytes; keying is the caller's job via a [Keyer].
package cache

import (
	"context"
	"time"

	"github.com/wafertools/wafermap/pkg/wafer"
)

// Default TTLs per cached stage. Layouts and artifacts are pure functions
// of their inputs, so the TTL only bounds disk usage, not staleness.
const (
	TTLLayout   = 24 * time.Hour
	TTLArtifact = 24 * time.Hour
)

// Cache is the storage interface shared by all backends.
type Cache interface {
	// Get retrieves a value. The second return reports whether the key was
	// present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// Keyer generates cache keys for the two cacheable stages: the computed
// layout and the encoded artifacts derived from it.
type Keyer interface {
	// LayoutKey keys a computed layout by its full input spec.
	LayoutKey(spec wafer.WaferSpec) string

	// ArtifactKey keys an exported artifact by the hash of the layout it was
	// derived from plus the export options.
	ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string
}

// ArtifactKeyOpts captures every option that changes artifact bytes. Two
// exports with equal layout hashes and equal opts are byte-identical.
type ArtifactKeyOpts struct {
	Format     string  `json:"format"` // "gds", "svg" or "png"
	LibName    string  `json:"lib_name,omitempty"`
	StructName string  `json:"struct_name,omitempty"`
	Layers     string  `json:"layers,omitempty"` // canonical "l/d,l/d,l/d" triple
	Scale      float64 `json:"scale,omitempty"`
	Legend     bool    `json:"legend,omitempty"`
	Title      string  `json:"title,omitempty"`
}

// DefaultKeyer hashes inputs with SHA-256 under stage prefixes.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// LayoutKey generates a key for a computed layout.
func (k *DefaultKeyer) LayoutKey(spec wafer.WaferSpec) string {
	return hashKey("layout", spec)
}

// ArtifactKey generates a key for an exported artifact.
func (k *DefaultKeyer) ArtifactKey(layoutHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", layoutHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
