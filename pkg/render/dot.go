package render

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/dashfin/assetgraph/pkg/graph"
	"github.com/dashfin/assetgraph/pkg/viz"
)

// Options configures network diagram rendering.
type Options struct {
	// Detailed includes sector and price in node labels.
	// When false, only symbol and name are shown.
	Detailed bool

	// TypeFilter excludes relationship types mapped to false.
	TypeFilter map[string]bool
}

// ToDOT converts an asset graph to Graphviz DOT format. The resulting
// string can be rendered with [SVG] or [PNG].
//
// Relationships are grouped the same way the interactive view groups them,
// so a bidirectional same-sector pair appears as one dir=both edge while a
// bond's corporate link keeps its arrow.
func ToDOT(g *graph.Graph, opts Options) (string, error) {
	ids := g.EffectiveAssetIDs()

	idx, err := viz.BuildIndex(g, ids)
	if err != nil {
		return "", err
	}
	groups := viz.Group(idx, opts.TypeFilter)

	var buf bytes.Buffer
	buf.WriteString("digraph assets {\n")
	buf.WriteString("  rankdir=LR;\n")
	buf.WriteString("  bgcolor=\"transparent\";\n")
	buf.WriteString("  node [shape=box, style=\"rounded,filled\", fontcolor=white, fontsize=14, margin=\"0.2,0.1\"];\n")
	buf.WriteString("  ranksep=0.6;\n")
	buf.WriteString("  nodesep=0.4;\n")
	buf.WriteString("\n")

	assets := g.Assets()
	for _, id := range ids {
		label := fmtLabel(g, id, opts.Detailed)
		color := viz.NodeColor
		if a, ok := assets[id]; ok {
			color = viz.ClassColor(string(a.Class))
		}
		fmt.Fprintf(&buf, "  %q [label=%q, fillcolor=%q];\n", id, label, color)
	}

	buf.WriteString("\n")
	for _, gk := range sortedGroupKeys(groups) {
		for _, e := range groups[gk] {
			fmt.Fprintf(&buf, "  %q -> %q [%s];\n", e.Source, e.Target, strings.Join(edgeAttrs(gk, e), ", "))
		}
	}

	buf.WriteString("}\n")
	return buf.String(), nil
}

func fmtLabel(g *graph.Graph, id string, detailed bool) string {
	a := g.Asset(id)
	if a == nil {
		return id
	}
	label := a.Symbol
	if a.Name != "" && a.Name != a.Symbol {
		label += "\n" + a.Name
	}
	if detailed {
		label += fmt.Sprintf("\n%s | %.2f", a.Sector, a.Price)
	}
	return label
}

func edgeAttrs(gk viz.GroupKey, e viz.GroupedEdge) []string {
	attrs := []string{
		fmt.Sprintf("label=\"%s %.2f\"", gk.Type, e.Strength),
		fmt.Sprintf("color=%q", viz.EdgeColor(gk.Type)),
		fmt.Sprintf("penwidth=%.1f", 1+2*e.Strength),
		"fontsize=10",
	}
	if gk.Bidirectional {
		attrs = append(attrs, "dir=both")
	}
	return attrs
}

func sortedGroupKeys(groups map[viz.GroupKey][]viz.GroupedEdge) []viz.GroupKey {
	keys := make([]viz.GroupKey, 0, len(groups))
	for gk := range groups {
		keys = append(keys, gk)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].Type != keys[j].Type {
			return keys[i].Type < keys[j].Type
		}
		return !keys[i].Bidirectional && keys[j].Bidirectional
	})
	return keys
}
