package viz

import "testing"

func TestArrowsMarkOneDirectionalEdges(t *testing.T) {
	positions := map[string]Point3{
		"BOND1": {X: 0, Y: 0, Z: 0},
		"AAPL":  {X: 1, Y: 2, Z: 4},
	}
	groups := map[GroupKey][]GroupedEdge{
		{Type: "corporate_link", Bidirectional: false}: {
			{Source: "BOND1", Target: "AAPL", Strength: 0.9},
		},
		{Type: "same_sector", Bidirectional: true}: {
			{Source: "BOND1", Target: "AAPL", Strength: 0.7},
		},
	}

	arrows := Arrows(groups, positions)
	if len(arrows) != 1 {
		t.Fatalf("got %d arrows, want 1 (bidirectional edges carry none)", len(arrows))
	}
	a := arrows[0]
	if !approx(a.X, 0.7) || !approx(a.Y, 1.4) || !approx(a.Z, 2.8) {
		t.Errorf("arrow at (%v, %v, %v), want (0.7, 1.4, 2.8)", a.X, a.Y, a.Z)
	}
	if a.Color != EdgeColor("corporate_link") {
		t.Errorf("color = %q, want %q", a.Color, EdgeColor("corporate_link"))
	}
}

func TestArrowsSkipMissingPositions(t *testing.T) {
	groups := map[GroupKey][]GroupedEdge{
		{Type: "event_impact", Bidirectional: false}: {
			{Source: "EV1", Target: "ghost", Strength: 0.5},
		},
	}
	arrows := Arrows(groups, map[string]Point3{"EV1": {}})
	if len(arrows) != 0 {
		t.Errorf("got %d arrows, want 0", len(arrows))
	}
}

func TestArrowsDeterministicOrder(t *testing.T) {
	positions := map[string]Point3{"a": {}, "b": {X: 1}, "c": {X: 2}}
	groups := map[GroupKey][]GroupedEdge{
		{Type: "event_impact", Bidirectional: false}: {
			{Source: "a", Target: "b", Strength: 0.5},
		},
		{Type: "corporate_link", Bidirectional: false}: {
			{Source: "b", Target: "c", Strength: 0.9},
		},
	}
	first := Arrows(groups, positions)
	for i := 0; i < 10; i++ {
		again := Arrows(groups, positions)
		if len(again) != len(first) {
			t.Fatalf("arrow count changed across runs")
		}
		for j := range again {
			if again[j] != first[j] {
				t.Fatalf("arrow order changed across runs")
			}
		}
	}
	// corporate_link sorts before event_impact.
	if first[0].Color != EdgeColor("corporate_link") {
		t.Errorf("first arrow color = %q, want corporate_link color", first[0].Color)
	}
}
