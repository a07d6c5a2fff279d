package cache

// ScopedKeyer wraps a Keyer with a prefix for namespace isolation, so
// several graphs or deployments can share one cache backend without key
// collisions.
//
// Example usage:
//
//	// Per-portfolio keys
//	portfolioKeyer := NewScopedKeyer(NewDefaultKeyer(), "portfolio:tech:")
//
//	// Shared keys
//	globalKeyer := NewDefaultKeyer()
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

// SnapshotKey generates a prefixed key for a named graph snapshot.
func (k *ScopedKeyer) SnapshotKey(name string) string {
	return k.prefix + k.inner.SnapshotKey(name)
}

// GraphKey generates a prefixed key for a built relationship store.
func (k *ScopedKeyer) GraphKey(snapshotHash string, opts GraphKeyOpts) string {
	return k.prefix + k.inner.GraphKey(snapshotHash, opts)
}

// MetricsKey generates a prefixed key for computed graph metrics.
func (k *ScopedKeyer) MetricsKey(graphHash string) string {
	return k.prefix + k.inner.MetricsKey(graphHash)
}

// VizKey generates a prefixed key for a visualization payload.
func (k *ScopedKeyer) VizKey(graphHash string, opts VizKeyOpts) string {
	return k.prefix + k.inner.VizKey(graphHash, opts)
}

// ArtifactKey generates a prefixed key for a rendered artifact.
func (k *ScopedKeyer) ArtifactKey(vizHash string, opts ArtifactKeyOpts) string {
	return k.prefix + k.inner.ArtifactKey(vizHash, opts)
}
