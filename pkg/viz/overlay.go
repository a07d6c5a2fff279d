package viz

import "sort"

// arrowFraction positions a direction marker along an edge: the marker sits
// at source + 0.7 of the way to the target, far enough from both endpoints
// that it reads as "towards" rather than "at".
const arrowFraction = 0.7

// Arrow is a directional marker for a one-directional edge.
type Arrow struct {
	X     float64 `json:"x"`
	Y     float64 `json:"y"`
	Z     float64 `json:"z"`
	Color string  `json:"color"`
}

// Arrows computes direction markers for every one-directional grouped edge.
// Bidirectional groups carry no markers since neither endpoint dominates.
// Edges whose endpoints are missing from positions are skipped. Groups are
// visited in relationship-type order, edges within a group in group order,
// so output is deterministic.
func Arrows(groups map[GroupKey][]GroupedEdge, positions map[string]Point3) []Arrow {
	keys := make([]GroupKey, 0, len(groups))
	for gk := range groups {
		if gk.Bidirectional {
			continue
		}
		keys = append(keys, gk)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i].Type < keys[j].Type })

	var out []Arrow
	for _, gk := range keys {
		color := EdgeColor(gk.Type)
		for _, e := range groups[gk] {
			src, ok := positions[e.Source]
			if !ok {
				continue
			}
			tgt, ok := positions[e.Target]
			if !ok {
				continue
			}
			out = append(out, Arrow{
				X:     src.X + arrowFraction*(tgt.X-src.X),
				Y:     src.Y + arrowFraction*(tgt.Y-src.Y),
				Z:     src.Z + arrowFraction*(tgt.Z-src.Z),
				Color: color,
			})
		}
	}
	return out
}
