package viz

import (
	"testing"

	"github.com/dashfin/assetgraph/pkg/graph"
)

func groupedGraph(t *testing.T) *Index {
	t.Helper()
	g := graph.New()
	g.AddAsset(mustEquity(t, "AAPL", "Technology"))
	g.AddAsset(mustEquity(t, "MSFT", "Technology"))
	g.AddAsset(mustBond(t, "BOND1", "AAPL"))
	g.BuildRelationships()

	idx, err := BuildIndex(g, []string{"AAPL", "BOND1", "MSFT"})
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	return idx
}

func TestGroupDeduplicatesBidirectionalPairs(t *testing.T) {
	groups := Group(groupedGraph(t), nil)

	bidi := groups[GroupKey{Type: "same_sector", Bidirectional: true}]
	// AAPL↔MSFT, AAPL↔BOND1, MSFT↔BOND1, once each.
	if len(bidi) != 3 {
		t.Fatalf("bidirectional same_sector records = %d, want 3", len(bidi))
	}
	seen := map[[2]string]int{}
	for _, e := range bidi {
		lo, hi := e.Source, e.Target
		if lo > hi {
			lo, hi = hi, lo
		}
		seen[[2]string{lo, hi}]++
	}
	for pair, n := range seen {
		if n != 1 {
			t.Errorf("pair %v emitted %d times, want 1", pair, n)
		}
	}
}

func TestGroupKeepsOneDirectionalEdges(t *testing.T) {
	groups := Group(groupedGraph(t), nil)

	uni := groups[GroupKey{Type: "corporate_link", Bidirectional: false}]
	if len(uni) != 1 {
		t.Fatalf("one-directional corporate_link records = %d, want 1", len(uni))
	}
	if uni[0].Source != "BOND1" || uni[0].Target != "AAPL" {
		t.Errorf("edge = %s→%s, want BOND1→AAPL", uni[0].Source, uni[0].Target)
	}
	if uni[0].Strength != 0.9 {
		t.Errorf("strength = %v, want 0.9", uni[0].Strength)
	}
}

func TestGroupTypeFilter(t *testing.T) {
	idx := groupedGraph(t)
	tests := []struct {
		name       string
		filter     map[string]bool
		sameSector bool
		corporate  bool
	}{
		{"nil filter passes all", nil, true, true},
		{"disabled type dropped", map[string]bool{"same_sector": false}, false, true},
		{"unlisted type passes", map[string]bool{"corporate_link": true}, true, true},
		{"all disabled", map[string]bool{"same_sector": false, "corporate_link": false}, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			groups := Group(idx, tt.filter)
			_, gotSame := groups[GroupKey{Type: "same_sector", Bidirectional: true}]
			_, gotCorp := groups[GroupKey{Type: "corporate_link", Bidirectional: false}]
			if gotSame != tt.sameSector {
				t.Errorf("same_sector present = %v, want %v", gotSame, tt.sameSector)
			}
			if gotCorp != tt.corporate {
				t.Errorf("corporate_link present = %v, want %v", gotCorp, tt.corporate)
			}
		})
	}
}

func TestGroupEmptyIndex(t *testing.T) {
	idx, err := BuildIndex(graph.New(), []string{"A1"})
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	if groups := Group(idx, nil); len(groups) != 0 {
		t.Errorf("groups = %d, want 0", len(groups))
	}
}
