package viz

import (
	"math"

	"github.com/dashfin/assetgraph/pkg/errors"
	"github.com/dashfin/assetgraph/pkg/graph"
)

// EdgeKey identifies one directed edge in an index.
type EdgeKey struct {
	Source string
	Target string
	Type   string
}

// Index is the O(1) lookup structure the preparation pipeline works from:
// id → list position, and (source, target, type) → strength for every edge
// whose endpoints are both in the requested id set.
//
// Keys preserves insertion order: sources in requested-id order, each
// source's edges in store order. Grouping output follows this order.
type Index struct {
	IDs       []string
	Positions map[string]int
	Strengths map[EdgeKey]float64
	Keys      []EdgeKey
}

// Reverse reports whether the reverse edge of the same type is indexed.
func (idx *Index) Reverse(k EdgeKey) bool {
	_, ok := idx.Strengths[EdgeKey{Source: k.Target, Target: k.Source, Type: k.Type}]
	return ok
}

// BuildIndex indexes the graph's edges restricted to the requested ids, in
// O(R) over the restricted edge set.
//
// This is the re-entry boundary for cached or external graph data:
// duplicate or empty requested ids and malformed store entries (empty
// endpoints or type, non-finite strength) surface as structural errors.
// Data produced purely by inference never trips these checks.
func BuildIndex(g *graph.Graph, ids []string) (*Index, error) {
	idx := &Index{
		IDs:       append([]string(nil), ids...),
		Positions: make(map[string]int, len(ids)),
		Strengths: make(map[EdgeKey]float64),
	}

	for i, id := range ids {
		if id == "" {
			return nil, errors.New(errors.ErrCodeStructural, "requested id at position %d is empty", i)
		}
		if _, dup := idx.Positions[id]; dup {
			return nil, errors.New(errors.ErrCodeStructural, "requested id %q appears twice", id)
		}
		idx.Positions[id] = i
	}

	rels := g.Relationships()
	for _, source := range ids {
		for i, r := range rels[source] {
			if r.Target == "" || r.Type == "" {
				return nil, errors.New(errors.ErrCodeStructural,
					"relationship %d of %q has empty target or type", i, source)
			}
			if math.IsNaN(r.Strength) || math.IsInf(r.Strength, 0) {
				return nil, errors.New(errors.ErrCodeStructural,
					"relationship %d of %q has non-finite strength", i, source)
			}
			if _, ok := idx.Positions[r.Target]; !ok {
				continue
			}
			key := EdgeKey{Source: source, Target: r.Target, Type: r.Type}
			if _, seen := idx.Strengths[key]; !seen {
				idx.Keys = append(idx.Keys, key)
			}
			idx.Strengths[key] = r.Strength
		}
	}

	return idx, nil
}
