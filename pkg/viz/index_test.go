package viz

import (
	"math"
	"testing"

	"github.com/dashfin/assetgraph/pkg/errors"
	"github.com/dashfin/assetgraph/pkg/graph"
	"github.com/dashfin/assetgraph/pkg/model"
)

func mustEquity(t *testing.T, id, sector string) *model.Asset {
	t.Helper()
	a, err := model.NewEquity(id, id, id+" Corp", sector, 100)
	if err != nil {
		t.Fatalf("NewEquity(%s): %v", id, err)
	}
	return a
}

func mustBond(t *testing.T, id, issuer string) *model.Asset {
	t.Helper()
	a, err := model.NewBond(id, id, id+" Bond", "Technology", 99, issuer)
	if err != nil {
		t.Fatalf("NewBond(%s): %v", id, err)
	}
	return a
}

// techGraph has AAPL↔MSFT same_sector both ways and BOND1→AAPL
// corporate_link, five directed edges counting the bond's sector links.
func techGraph(t *testing.T) *graph.Graph {
	t.Helper()
	g := graph.New()
	g.AddAsset(mustEquity(t, "AAPL", "Technology"))
	g.AddAsset(mustEquity(t, "MSFT", "Technology"))
	g.AddAsset(mustEquity(t, "XOM", "Energy"))
	g.BuildRelationships()
	return g
}

func TestBuildIndexRestrictsToRequestedIDs(t *testing.T) {
	g := techGraph(t)

	idx, err := BuildIndex(g, []string{"AAPL", "MSFT", "XOM"})
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	if len(idx.Strengths) != 2 {
		t.Fatalf("indexed %d edges, want 2", len(idx.Strengths))
	}
	key := EdgeKey{Source: "AAPL", Target: "MSFT", Type: "same_sector"}
	if s := idx.Strengths[key]; s != 0.7 {
		t.Errorf("strength = %v, want 0.7", s)
	}
	if !idx.Reverse(key) {
		t.Error("same_sector pair should index both directions")
	}

	// Restricting to one endpoint drops the pair entirely.
	idx, err = BuildIndex(g, []string{"AAPL", "XOM"})
	if err != nil {
		t.Fatalf("BuildIndex restricted: %v", err)
	}
	if len(idx.Strengths) != 0 {
		t.Errorf("restricted index has %d edges, want 0", len(idx.Strengths))
	}
}

func TestBuildIndexPositions(t *testing.T) {
	idx, err := BuildIndex(graph.New(), []string{"c", "a", "b"})
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	want := map[string]int{"c": 0, "a": 1, "b": 2}
	for id, pos := range want {
		if idx.Positions[id] != pos {
			t.Errorf("Positions[%q] = %d, want %d", id, idx.Positions[id], pos)
		}
	}
}

func TestBuildIndexKeyOrder(t *testing.T) {
	g := graph.New()
	g.AddAsset(mustEquity(t, "AAPL", "Technology"))
	g.AddAsset(mustEquity(t, "MSFT", "Technology"))
	g.AddAsset(mustBond(t, "BOND1", "AAPL"))
	g.BuildRelationships()

	idx, err := BuildIndex(g, []string{"AAPL", "BOND1", "MSFT"})
	if err != nil {
		t.Fatalf("BuildIndex: %v", err)
	}
	if len(idx.Keys) != len(idx.Strengths) {
		t.Fatalf("Keys has %d entries, Strengths %d", len(idx.Keys), len(idx.Strengths))
	}
	// Sources appear in requested order.
	lastSource := -1
	order := map[string]int{"AAPL": 0, "BOND1": 1, "MSFT": 2}
	for _, k := range idx.Keys {
		if order[k.Source] < lastSource {
			t.Fatalf("key %v out of requested-id order", k)
		}
		lastSource = order[k.Source]
	}
}

func TestBuildIndexRequestedIDErrors(t *testing.T) {
	g := techGraph(t)
	tests := []struct {
		name string
		ids  []string
	}{
		{"empty id", []string{"AAPL", ""}},
		{"duplicate id", []string{"AAPL", "AAPL"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BuildIndex(g, tt.ids)
			if err == nil {
				t.Fatal("expected error")
			}
			if errors.GetCode(err) != errors.ErrCodeStructural {
				t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeStructural)
			}
		})
	}
}

type badStrengthRule struct{}

func (badStrengthRule) Name() string { return "bad_strength" }

func (badStrengthRule) Apply(a, b *model.Asset) []graph.Edge {
	return []graph.Edge{{
		Source:   a.ID,
		Target:   b.ID,
		Type:     "bad_strength",
		Strength: math.NaN(),
	}}
}

func TestBuildIndexRejectsNonFiniteStrength(t *testing.T) {
	g := graph.New()
	g.SetRules(badStrengthRule{})
	g.AddAsset(mustEquity(t, "A1", "Technology"))
	g.AddAsset(mustEquity(t, "A2", "Technology"))
	g.BuildRelationships()

	_, err := BuildIndex(g, []string{"A1", "A2"})
	if err == nil {
		t.Fatal("expected structural error for NaN strength")
	}
	if errors.GetCode(err) != errors.ErrCodeStructural {
		t.Errorf("code = %v, want %v", errors.GetCode(err), errors.ErrCodeStructural)
	}
}
