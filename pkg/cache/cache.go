// Package cache stores pipeline results between runs.
//
// Two kinds of entries are cached, each under a key built by a [Keyer]:
//
//   - warp entries: the warped lattice of a scene, keyed by the scene hash
//     and the engine parameters that affect the deformation
//   - artifact entries: rendered output bytes, keyed by the warp hash and
//     the render settings
//
// [FileCache] is the on-disk store used by the command line tools.
// The HTTP server can instead share a [RedisCache], a [MongoCache], or both
// behind a [TieredCache]. [NullCache] disables caching.
package cache

import (
	"context"
	"strings"
	"time"
)

// Entry lifetimes. Entries are content-addressed, so these only bound disk use.
const (
	TTLWarp     = 7 * 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is a byte store with optional expiry.
type Cache interface {
	// Get returns the value for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases any resources held by the cache.
	Close() error
}

// WarpKeyOpts are the engine settings that change a warped lattice.
type WarpKeyOpts struct {
	Mode      string     `json:"mode"`
	Exponents [3]float64 `json:"exponents"`
	Subdiv    int        `json:"subdiv"`
}

// ArtifactKeyOpts are the render settings that change an artifact.
type ArtifactKeyOpts struct {
	Format    string  `json:"format"`
	Yaw       float64 `json:"yaw"`
	Pitch     float64 `json:"pitch"`
	Scale     float64 `json:"scale"`
	Padding   float64 `json:"padding"`
	Anchors   bool    `json:"anchors"`
	Highlight int     `json:"highlight"`
}

// Keyer builds cache keys.
type Keyer interface {
	WarpKey(sceneHash string, opts WarpKeyOpts) string
	ArtifactKey(warpHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer builds keys of the form "kind:sha256".
type DefaultKeyer struct{}

// NewDefaultKeyer returns the standard keyer.
func NewDefaultKeyer() Keyer { return DefaultKeyer{} }

// WarpKey returns the key for a warped lattice.
func (DefaultKeyer) WarpKey(sceneHash string, opts WarpKeyOpts) string {
	return hashKey("warp", sceneHash, opts)
}

// ArtifactKey returns the key for a rendered artifact.
func (DefaultKeyer) ArtifactKey(warpHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", warpHash, opts)
}

// KeyType returns the kind prefix of a key, or "unknown" if it has none.
// Scoped keys report the kind after the scope.
func KeyType(key string) string {
	i := strings.LastIndexByte(key, ':')
	if i <= 0 {
		return "unknown"
	}
	head := key[:i]
	if j := strings.LastIndexByte(head, ':'); j >= 0 {
		head = head[j+1:]
	}
	return head
}
