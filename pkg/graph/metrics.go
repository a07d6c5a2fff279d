package graph

import (
	"sort"
)

// Quality score weights and the event saturation constant. These are part
// of the metric contract and must not drift.
const (
	qualityWeightStrength = 0.7
	qualityWeightEvents   = 0.3
	eventSaturationK      = 10.0
)

// RankedRelationship is one entry of the top-relationships list.
type RankedRelationship struct {
	Source   string  `json:"source" bson:"source"`
	Target   string  `json:"target" bson:"target"`
	Type     string  `json:"relationship_type" bson:"relationship_type"`
	Strength float64 `json:"strength" bson:"strength"`
}

// Metrics aggregates the graph into network statistics. All fields are
// zero/empty for an empty graph; no computation divides by zero.
type Metrics struct {
	// TotalAssets counts the effective asset set: explicit assets plus
	// relationship targets reached only through event propagation.
	TotalAssets        int     `json:"total_assets" bson:"total_assets"`
	TotalRelationships int     `json:"total_relationships" bson:"total_relationships"`
	AverageStrength    float64 `json:"average_relationship_strength" bson:"average_relationship_strength"`

	// Density is the percentage of possible directed edges present:
	// count/(N·(N−1))·100 with N = TotalAssets. Zero when N ≤ 1.
	Density float64 `json:"relationship_density" bson:"relationship_density"`

	TypeDistribution  map[string]int `json:"relationship_distribution" bson:"relationship_distribution"`
	ClassDistribution map[string]int `json:"asset_class_distribution" bson:"asset_class_distribution"`

	// TopRelationships holds up to 10 edges by descending strength, ties
	// broken by traversal order (sources ascending, edges in store order).
	TopRelationships []RankedRelationship `json:"top_relationships" bson:"top_relationships"`

	EventCount   int     `json:"regulatory_event_count" bson:"regulatory_event_count"`
	EventNorm    float64 `json:"regulatory_event_norm" bson:"regulatory_event_norm"`
	QualityScore float64 `json:"quality_score" bson:"quality_score"`
}

// CalculateMetrics computes network statistics in a single pass over the
// assets and the relationship store.
func (g *Graph) CalculateMetrics() Metrics {
	m := Metrics{
		TypeDistribution:  make(map[string]int),
		ClassDistribution: make(map[string]int),
	}

	m.TotalAssets = len(g.EffectiveAssetIDs())
	m.EventCount = len(g.events)

	var (
		all         []RankedRelationship
		strengthSum float64
	)

	// Sources in ascending order keeps the traversal, and with it the
	// top-relationship tie-break, reproducible across runs.
	sources := make([]string, 0, len(g.relationships))
	for src := range g.relationships {
		sources = append(sources, src)
	}
	sort.Strings(sources)

	for _, src := range sources {
		for _, r := range g.relationships[src] {
			m.TotalRelationships++
			m.TypeDistribution[r.Type]++
			strengthSum += r.Strength
			all = append(all, RankedRelationship{
				Source:   src,
				Target:   r.Target,
				Type:     r.Type,
				Strength: r.Strength,
			})
		}
	}

	if m.TotalRelationships > 0 {
		m.AverageStrength = strengthSum / float64(m.TotalRelationships)
	}
	m.Density = density(m.TotalAssets, m.TotalRelationships)

	sort.SliceStable(all, func(i, j int) bool { return all[i].Strength > all[j].Strength })
	if len(all) > 10 {
		all = all[:10]
	}
	m.TopRelationships = all

	for _, a := range g.assets {
		m.ClassDistribution[string(a.Class)]++
	}

	m.EventNorm = saturatingNorm(m.EventCount, eventSaturationK)
	m.QualityScore = clamp01(qualityWeightStrength*clamp01(m.AverageStrength) + qualityWeightEvents*m.EventNorm)

	return m
}

// density returns directed-edge density as a percentage of the maximum
// possible assetCount·(assetCount−1) edges. Zero when assetCount ≤ 1.
func density(assetCount, relCount int) float64 {
	if assetCount <= 1 {
		return 0
	}
	maxPossible := float64(assetCount) * float64(assetCount-1)
	return float64(relCount) / maxPossible * 100
}

// saturatingNorm maps a non-negative count into [0, 1): count/(count+k).
func saturatingNorm(count int, k float64) float64 {
	if count <= 0 {
		return 0
	}
	return float64(count) / (float64(count) + k)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
