package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func browseModel(t *testing.T) AssetListModel {
	t.Helper()
	g, err := sampleGraph()
	if err != nil {
		t.Fatal(err)
	}
	g.BuildRelationships()
	return NewAssetListModel(g)
}

func TestAssetListModelOrder(t *testing.T) {
	m := browseModel(t)
	if len(m.Assets) != 11 {
		t.Fatalf("assets = %d, want 11", len(m.Assets))
	}
	for i := 1; i < len(m.Assets); i++ {
		if m.Assets[i-1].ID >= m.Assets[i].ID {
			t.Errorf("assets not sorted: %s before %s", m.Assets[i-1].ID, m.Assets[i].ID)
		}
	}
}

func TestAssetListModelNavigation(t *testing.T) {
	m := browseModel(t)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyDown})
	m = next.(AssetListModel)
	if m.Cursor != 1 {
		t.Errorf("cursor = %d after down, want 1", m.Cursor)
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(AssetListModel)
	if m.Cursor != 0 {
		t.Errorf("cursor = %d after up, want 0", m.Cursor)
	}

	// Up at the top stays put.
	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyUp})
	m = next.(AssetListModel)
	if m.Cursor != 0 {
		t.Errorf("cursor = %d at top, want 0", m.Cursor)
	}
}

func TestAssetListModelDetailToggle(t *testing.T) {
	m := browseModel(t)

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(AssetListModel)
	if !m.Detail {
		t.Error("enter should open the detail panel")
	}

	next, _ = m.Update(tea.KeyMsg{Type: tea.KeyEnter})
	m = next.(AssetListModel)
	if m.Detail {
		t.Error("enter should close the detail panel")
	}
}

func TestAssetListModelQuit(t *testing.T) {
	m := browseModel(t)
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{'q'}})
	if cmd == nil {
		t.Fatal("q should produce a quit command")
	}
}

func TestAssetListModelView(t *testing.T) {
	m := browseModel(t)
	view := m.View()
	if !strings.Contains(view, "AAPL") {
		t.Error("view should list AAPL")
	}
	if !strings.Contains(view, "Asset Browser") {
		t.Error("view should show the title")
	}

	m.Detail = true
	view = m.View()
	// First asset alphabetically is AAPL; its detail shows outgoing edges.
	if !strings.Contains(view, "Apple Inc.") {
		t.Error("detail view should show the selected asset name")
	}
}
