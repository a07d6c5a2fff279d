package graph

import (
	"slices"

	"github.com/dashfin/assetgraph/pkg/model"
	"github.com/dashfin/assetgraph/pkg/observability"
)

// Relationship type tags produced by the built-in inference rules.
const (
	RelSameSector    = "same_sector"
	RelCorporateLink = "corporate_link"
	RelEventImpact   = "event_impact"
)

// Inference strengths for the built-in pairwise rules.
const (
	StrengthSameSector    = 0.7
	StrengthCorporateLink = 0.9
)

// Relationship is a directed, typed, weighted edge stored under its source
// id. It is a value, not an entity: identity is (source, Target, Type).
type Relationship struct {
	Target   string  `json:"target" bson:"target"`
	Type     string  `json:"relationship_type" bson:"relationship_type"`
	Strength float64 `json:"strength" bson:"strength"`
}

// Graph is the in-memory asset relationship graph. The zero value is not
// usable - use New. Graph is not safe for concurrent use; wrap shared
// instances in a SafeGraph.
type Graph struct {
	assets        map[string]*model.Asset
	relationships map[string][]Relationship
	events        []*model.RegulatoryEvent
	rules         []Rule
}

// New creates an empty graph with the default inference rules
// (same-sector and corporate-link).
func New() *Graph {
	return &Graph{
		assets:        make(map[string]*model.Asset),
		relationships: make(map[string][]Relationship),
		rules:         DefaultRules(),
	}
}

// SetRules replaces the pairwise inference rules applied by
// BuildRelationships. Passing no rules disables pairwise inference;
// event-impact edges are always applied.
func (g *Graph) SetRules(rules ...Rule) {
	g.rules = slices.Clone(rules)
}

// AddAsset stores an asset keyed by its id, replacing any existing asset
// with the same id. The relationship store is not updated until the next
// BuildRelationships call.
func (g *Graph) AddAsset(a *model.Asset) {
	g.assets[a.ID] = a
}

// AddEvent appends a regulatory event to the event list.
func (g *Graph) AddEvent(e *model.RegulatoryEvent) {
	g.events = append(g.events, e)
}

// Asset returns the asset with the given id, or nil if unknown.
func (g *Graph) Asset(id string) *model.Asset {
	return g.assets[id]
}

// Assets returns the live asset map. Callers must not mutate it while the
// graph is shared; SafeGraph returns a deep copy instead.
func (g *Graph) Assets() map[string]*model.Asset {
	return g.assets
}

// Relationships returns the live adjacency map.
func (g *Graph) Relationships() map[string][]Relationship {
	return g.relationships
}

// Events returns the live event list.
func (g *Graph) Events() []*model.RegulatoryEvent {
	return g.events
}

// AssetCount returns the number of explicit assets.
func (g *Graph) AssetCount() int { return len(g.assets) }

// RelationshipCount returns the total number of directed edges.
func (g *Graph) RelationshipCount() int {
	n := 0
	for _, rels := range g.relationships {
		n += len(rels)
	}
	return n
}

// AssetIDs returns the explicit asset ids in ascending order. This is the
// fixed enumeration order used by relationship inference.
func (g *Graph) AssetIDs() []string {
	ids := make([]string, 0, len(g.assets))
	for id := range g.assets {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// EffectiveAssetIDs returns the effective asset set in ascending order:
// explicit asset ids plus every relationship target id. Targets reached only
// through event propagation need not have an asset record.
func (g *Graph) EffectiveAssetIDs() []string {
	seen := make(map[string]struct{}, len(g.assets))
	for id := range g.assets {
		seen[id] = struct{}{}
	}
	for _, rels := range g.relationships {
		for _, r := range rels {
			seen[r.Target] = struct{}{}
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

// HasRelationship reports whether a (source, target, type) edge exists.
func (g *Graph) HasRelationship(source, target, relType string) bool {
	for _, r := range g.relationships[source] {
		if r.Target == target && r.Type == relType {
			return true
		}
	}
	return false
}

// BuildRelationships recomputes the entire relationship store from the
// current assets and events, replacing prior content.
//
// For every unordered pair of distinct assets, enumerated in ascending id
// order, each configured rule may emit edges. After the pairwise pass, each
// event whose asset id is known contributes one event-impact edge per known
// related asset, with strength |impact score|. Unknown event endpoints and
// duplicate (source, target, type) inserts are dropped without error.
//
// The rebuild is idempotent given unchanged inputs and is O(A² + E·R).
func (g *Graph) BuildRelationships() {
	hooks := observability.Graph()
	hooks.OnBuildStart(len(g.assets), len(g.events))

	g.relationships = make(map[string][]Relationship)

	ids := g.AssetIDs()
	for i, sourceID := range ids {
		for _, targetID := range ids[i+1:] {
			a, b := g.assets[sourceID], g.assets[targetID]
			for _, rule := range g.rules {
				for _, e := range rule.Apply(a, b) {
					g.insert(e.Source, e.Target, e.Type, e.Strength)
					if e.Bidirectional {
						g.insert(e.Target, e.Source, e.Type, e.Strength)
					}
				}
			}
		}
	}

	g.applyEventImpacts()

	hooks.OnBuildComplete(len(g.assets), g.RelationshipCount())
}

// applyEventImpacts adds one-directional event-impact edges from each
// event's asset to its known related assets. Events on unknown assets and
// unknown related targets are skipped.
func (g *Graph) applyEventImpacts() {
	hooks := observability.Graph()
	for _, event := range g.events {
		if _, ok := g.assets[event.AssetID]; !ok {
			hooks.OnSkip(observability.SkipUnknownSource, event.AssetID, "", RelEventImpact)
			continue
		}
		strength := event.ImpactScore
		if strength < 0 {
			strength = -strength
		}
		for _, targetID := range event.RelatedAssets {
			if _, ok := g.assets[targetID]; !ok {
				hooks.OnSkip(observability.SkipUnknownTarget, event.AssetID, targetID, RelEventImpact)
				continue
			}
			g.insert(event.AssetID, targetID, RelEventImpact, strength)
		}
	}
}

// insert appends a directed edge unless an edge with the same
// (target, type) already exists under the source. Duplicates are dropped,
// observable only through the skip hook.
func (g *Graph) insert(source, target, relType string, strength float64) {
	for _, r := range g.relationships[source] {
		if r.Target == target && r.Type == relType {
			observability.Graph().OnSkip(observability.SkipDuplicate, source, target, relType)
			return
		}
	}
	g.relationships[source] = append(g.relationships[source], Relationship{
		Target:   target,
		Type:     relType,
		Strength: strength,
	})
}

// Clone returns a deep copy of the graph. Assets and events are copied by
// value, so mutations of the clone never reach the original.
func (g *Graph) Clone() *Graph {
	out := &Graph{
		assets:        make(map[string]*model.Asset, len(g.assets)),
		relationships: make(map[string][]Relationship, len(g.relationships)),
		rules:         slices.Clone(g.rules),
	}
	for id, a := range g.assets {
		copied := *a
		out.assets[id] = &copied
	}
	for src, rels := range g.relationships {
		out.relationships[src] = slices.Clone(rels)
	}
	for _, e := range g.events {
		copied := *e
		copied.RelatedAssets = slices.Clone(e.RelatedAssets)
		out.events = append(out.events, &copied)
	}
	return out
}
