package graph

import (
	"slices"
	"sync"

	"github.com/dashfin/assetgraph/pkg/model"
)

// SafeGraph wraps a graph so every access is serialized by one mutex. It
// exposes an explicit, fixed method set rather than proxying arbitrary
// access: method calls hold the lock for their full duration, and state
// reads return deep copies made while the lock is held, so callers can
// mutate returned values freely without racing the shared graph.
//
// The guard gives whole-object mutual exclusion per call, not cross-call
// transactions: two guarded calls by one logical operation can observe an
// intervening mutation from another goroutine. Lock acquisition is
// unconditional; there is no timeout or cancellation.
//
// Construct one SafeGraph at application bootstrap and inject it into
// whatever needs the shared graph.
type SafeGraph struct {
	mu sync.Mutex
	g  *Graph
}

// NewSafe wraps g. The caller must not retain direct access to g.
func NewSafe(g *Graph) *SafeGraph {
	if g == nil {
		g = New()
	}
	return &SafeGraph{g: g}
}

// AddAsset stores an asset under the lock.
func (s *SafeGraph) AddAsset(a *model.Asset) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *a
	s.g.AddAsset(&copied)
}

// AddEvent appends a regulatory event under the lock.
func (s *SafeGraph) AddEvent(e *model.RegulatoryEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	copied := *e
	copied.RelatedAssets = slices.Clone(e.RelatedAssets)
	s.g.AddEvent(&copied)
}

// BuildRelationships rebuilds the relationship store as one atomic unit;
// partial rebuilds are never observable through the guard.
func (s *SafeGraph) BuildRelationships() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.g.BuildRelationships()
}

// CalculateMetrics computes metrics under the lock. The returned value
// shares no state with the graph.
func (s *SafeGraph) CalculateMetrics() Metrics {
	s.mu.Lock()
	defer s.mu.Unlock()
	m := s.g.CalculateMetrics()
	m.TypeDistribution = copyIntMap(m.TypeDistribution)
	m.ClassDistribution = copyIntMap(m.ClassDistribution)
	m.TopRelationships = slices.Clone(m.TopRelationships)
	return m
}

// clone deep-copies the wrapped graph under the lock. The clone is
// exclusively the caller's, so its accessors can hand out internal state.
func (s *SafeGraph) clone() *Graph {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.g.Clone()
}

// Assets returns a deep copy of the asset map.
func (s *SafeGraph) Assets() map[string]*model.Asset {
	return s.clone().Assets()
}

// Relationships returns a deep copy of the adjacency map.
func (s *SafeGraph) Relationships() map[string][]Relationship {
	return s.clone().Relationships()
}

// Events returns a deep copy of the event list.
func (s *SafeGraph) Events() []*model.RegulatoryEvent {
	return s.clone().Events()
}

// EffectiveAssetIDs returns the effective asset set in ascending order.
func (s *SafeGraph) EffectiveAssetIDs() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.g.EffectiveAssetIDs()
}

// Snapshot serializes the graph under the lock.
func (s *SafeGraph) Snapshot() *Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.g.Snapshot()
}

// Restore replaces the wrapped graph with one hydrated from the snapshot.
func (s *SafeGraph) Restore(snap *Snapshot) error {
	g, err := FromSnapshot(snap)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.g = g
	return nil
}

// View runs fn with exclusive access to the underlying graph. It exists
// for read paths that compose several graph operations atomically, such as
// visualization-data assembly. fn must not retain the graph or any of its
// internal state past the call.
func (s *SafeGraph) View(fn func(g *Graph) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.g)
}

func copyIntMap(in map[string]int) map[string]int {
	out := make(map[string]int, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
