package viz

import (
	"fmt"
	"sort"
	"strings"

	"github.com/dashfin/assetgraph/pkg/graph"
)

// BaseTitle prefixes the generated network title.
const BaseTitle = "Financial Asset Network"

// NodeSet holds per-node render data. All four slices share one length and
// one order.
type NodeSet struct {
	Positions []Point3 `json:"positions"`
	IDs       []string `json:"ids"`
	Colors    []string `json:"colors"`
	Hover     []string `json:"hover"`
}

// EdgeTrace holds the line segments of one (type, directionality) group,
// laid out for 3D line rendering: each edge occupies three consecutive
// slots, source point, target point, then a nil separator. Hover carries
// the edge label at the first two slots and an empty string at the
// separator.
type EdgeTrace struct {
	Type          string     `json:"relationship_type"`
	Bidirectional bool       `json:"bidirectional"`
	Name          string     `json:"name"`
	Color         string     `json:"color"`
	X             []*float64 `json:"x"`
	Y             []*float64 `json:"y"`
	Z             []*float64 `json:"z"`
	Hover         []string   `json:"hover"`
}

// NetworkData is the full render payload for the network view. Flat holds
// the optional 2D projection chosen by the caller; the 3D node positions
// are always present.
type NetworkData struct {
	Nodes  NodeSet           `json:"nodes"`
	Traces []EdgeTrace       `json:"traces"`
	Arrows []Arrow           `json:"arrows"`
	Flat   map[string]Point2 `json:"positions_2d,omitempty"`
	Title  string            `json:"title"`
}

// NodeData lays the ids out on the unit circle in the XY plane and attaches
// uniform colors and hover labels. An empty id list yields a single
// placeholder node at the origin with the reserved id "A", SentinelColor
// and hover "Asset A", so downstream consumers always have something to
// draw. Callers that must distinguish an empty graph from a genuine
// one-asset graph check for SentinelColor.
func NodeData(ids []string) NodeSet {
	if len(ids) == 0 {
		return NodeSet{
			Positions: []Point3{{}},
			IDs:       []string{"A"},
			Colors:    []string{SentinelColor},
			Hover:     []string{"Asset A"},
		}
	}
	ns := NodeSet{
		Positions: Circular(ids),
		IDs:       append([]string(nil), ids...),
		Colors:    make([]string, len(ids)),
		Hover:     make([]string, len(ids)),
	}
	for i, id := range ids {
		ns.Colors[i] = NodeColor
		ns.Hover[i] = "Asset: " + id
	}
	return ns
}

// TraceName renders a group's display name: underscores become spaces,
// words are title-cased, and the direction symbol is appended.
func TraceName(relType string, bidirectional bool) string {
	words := strings.Split(relType, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	base := strings.Join(words, " ")
	if bidirectional {
		return base + " (↔)"
	}
	return base + " (→)"
}

// Title summarizes the rendered network.
func Title(numAssets, numRelationships int) string {
	return fmt.Sprintf("%s - %d Assets, %d Relationships", BaseTitle, numAssets, numRelationships)
}

func edgeHover(e GroupedEdge, relType string, bidirectional bool) string {
	direction := "→"
	if bidirectional {
		direction = "↔"
	}
	return fmt.Sprintf("%s %s %s\nType: %s\nStrength: %.2f",
		e.Source, direction, e.Target, relType, e.Strength)
}

func fptr(v float64) *float64 { return &v }

func buildTrace(gk GroupKey, edges []GroupedEdge, positions map[string]Point3) EdgeTrace {
	t := EdgeTrace{
		Type:          gk.Type,
		Bidirectional: gk.Bidirectional,
		Name:          TraceName(gk.Type, gk.Bidirectional),
		Color:         EdgeColor(gk.Type),
		X:             make([]*float64, 3*len(edges)),
		Y:             make([]*float64, 3*len(edges)),
		Z:             make([]*float64, 3*len(edges)),
		Hover:         make([]string, 3*len(edges)),
	}
	for i, e := range edges {
		src := positions[e.Source]
		tgt := positions[e.Target]
		base := 3 * i
		t.X[base], t.X[base+1] = fptr(src.X), fptr(tgt.X)
		t.Y[base], t.Y[base+1] = fptr(src.Y), fptr(tgt.Y)
		t.Z[base], t.Z[base+1] = fptr(src.Z), fptr(tgt.Z)
		hover := edgeHover(e, gk.Type, gk.Bidirectional)
		t.Hover[base], t.Hover[base+1] = hover, hover
	}
	return t
}

// BuildData assembles the complete network payload from a graph: all
// participating asset ids in ascending order, circular node positions,
// one edge trace per (type, directionality) group in deterministic order,
// directional arrows, and a dynamic title counting rendered edges.
// typeFilter follows Group's semantics.
func BuildData(g *graph.Graph, typeFilter map[string]bool) (*NetworkData, error) {
	ids := g.EffectiveAssetIDs()
	nodes := NodeData(ids)
	if len(ids) == 0 {
		return &NetworkData{Nodes: nodes, Title: Title(0, 0)}, nil
	}

	idx, err := BuildIndex(g, ids)
	if err != nil {
		return nil, err
	}

	byID := make(map[string]Point3, len(ids))
	for i, id := range ids {
		byID[id] = nodes.Positions[i]
	}

	groups := Group(idx, typeFilter)
	keys := make([]GroupKey, 0, len(groups))
	for gk := range groups {
		keys = append(keys, gk)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Type != keys[j].Type {
			return keys[i].Type < keys[j].Type
		}
		return !keys[i].Bidirectional && keys[j].Bidirectional
	})

	data := &NetworkData{Nodes: nodes}
	rendered := 0
	for _, gk := range keys {
		trace := buildTrace(gk, groups[gk], byID)
		rendered += len(trace.X) / 3
		data.Traces = append(data.Traces, trace)
	}
	data.Arrows = Arrows(groups, byID)
	data.Title = Title(len(ids), rendered)
	return data, nil
}

// SafeData builds the network payload under the guard's lock, so the node
// set, edge traces and title come from one consistent graph state.
func SafeData(sg *graph.SafeGraph, typeFilter map[string]bool) (*NetworkData, error) {
	var data *NetworkData
	err := sg.View(func(g *graph.Graph) error {
		var verr error
		data, verr = BuildData(g, typeFilter)
		return verr
	})
	if err != nil {
		return nil, err
	}
	return data, nil
}
