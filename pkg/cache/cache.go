package cache

import (
	"context"
	"sort"
	"time"
)

// TTLs per payload kind. Snapshots are explicit user state and never
// expire; derived payloads are cheap to recompute and age out.
const (
	TTLSnapshot = time.Duration(0)
	TTLGraph    = 24 * time.Hour
	TTLMetrics  = 24 * time.Hour
	TTLViz      = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)

// Cache is the storage-agnostic caching interface used across the CLI and
// server. Implementations must be safe for concurrent use.
type Cache interface {
	// Get retrieves a value. The bool reports whether the key was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value with a TTL. A zero TTL means no expiration.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases any resources held by the cache.
	Close() error
}

// GraphKeyOpts captures the inputs that change a built relationship store.
type GraphKeyOpts struct {
	RuleSet []string `json:"rule_set"`
}

// VizKeyOpts captures the inputs that change a visualization payload.
type VizKeyOpts struct {
	Layout      string   `json:"layout"`
	TypeFilters []string `json:"type_filters"`
}

// ArtifactKeyOpts captures the inputs that change a rendered artifact.
type ArtifactKeyOpts struct {
	Format string `json:"format"`
	Layout string `json:"layout"`
}

// Keyer generates cache keys for the pipeline stages. Key prefixes double
// as the key type reported to observability hooks.
type Keyer interface {
	// SnapshotKey generates a key for a named graph snapshot.
	SnapshotKey(name string) string

	// GraphKey generates a key for a built relationship store, derived
	// from the snapshot content hash and the build options.
	GraphKey(snapshotHash string, opts GraphKeyOpts) string

	// MetricsKey generates a key for computed graph metrics.
	MetricsKey(graphHash string) string

	// VizKey generates a key for an assembled visualization payload.
	VizKey(graphHash string, opts VizKeyOpts) string

	// ArtifactKey generates a key for a rendered artifact.
	ArtifactKey(vizHash string, opts ArtifactKeyOpts) string
}

// DefaultKeyer generates hashed, collision-resistant keys.
type DefaultKeyer struct{}

// NewDefaultKeyer creates the standard keyer.
func NewDefaultKeyer() Keyer {
	return &DefaultKeyer{}
}

// SnapshotKey generates a key for a named graph snapshot.
func (k *DefaultKeyer) SnapshotKey(name string) string {
	return "snapshot:" + name
}

// GraphKey generates a key for a built relationship store.
func (k *DefaultKeyer) GraphKey(snapshotHash string, opts GraphKeyOpts) string {
	rules := append([]string(nil), opts.RuleSet...)
	sort.Strings(rules)
	return hashKey("graph", snapshotHash, rules)
}

// MetricsKey generates a key for computed graph metrics.
func (k *DefaultKeyer) MetricsKey(graphHash string) string {
	return hashKey("metrics", graphHash)
}

// VizKey generates a key for an assembled visualization payload.
func (k *DefaultKeyer) VizKey(graphHash string, opts VizKeyOpts) string {
	filters := append([]string(nil), opts.TypeFilters...)
	sort.Strings(filters)
	return hashKey("viz", graphHash, opts.Layout, filters)
}

// ArtifactKey generates a key for a rendered artifact.
func (k *DefaultKeyer) ArtifactKey(vizHash string, opts ArtifactKeyOpts) string {
	return hashKey("artifact", vizHash, opts)
}

// Ensure DefaultKeyer implements Keyer.
var _ Keyer = (*DefaultKeyer)(nil)
