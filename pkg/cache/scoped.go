package cache

// ScopedKeyer wraps a Keyer with a prefix so that separate stores, such as
// one per scene directory, can share a cache without colliding.
//
//	keyer := NewScopedKeyer(NewDefaultKeyer(), "demo:")
type ScopedKeyer struct {
	inner  Keyer
	prefix string
}

// NewScopedKeyer creates a keyer with a prefix.
// The prefix is prepended to all generated keys.
func NewScopedKeyer(inner Keyer, prefix string) Keyer {
	if inner == nil {
		inner = NewDefaultKeyer()
	}
	return &ScopedKeyer{
		inner:  inner,
		prefix: prefix,
	}
}

// WarpKey generates a prefixed key for warped lattice caching.
func (k *ScopedKeyer) WarpKey(sceneHash string, opts WarpKeyOpts) string {
	return k.prefix + k.inner.WarpKey(sceneHash, opts)
}

// ArtifactKey generates a prefixed key for artifact caching.
func (k *ScopedKeyer) ArtifactKey(warpHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(warpHash, opts)
}
