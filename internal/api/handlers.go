package api

import (
	"encoding/json"
	"net/http"
	"sort"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dashfin/assetgraph/pkg/errors"
	"github.com/dashfin/assetgraph/pkg/graph"
	"github.com/dashfin/assetgraph/pkg/model"
	"github.com/dashfin/assetgraph/pkg/pipeline"
	"github.com/dashfin/assetgraph/pkg/render"
	"github.com/dashfin/assetgraph/pkg/viz"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// handleListAssets returns every asset sorted by id.
func (s *Server) handleListAssets(w http.ResponseWriter, r *http.Request) {
	assets := s.guard.Assets()
	ids := make([]string, 0, len(assets))
	for id := range assets {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]*model.Asset, 0, len(ids))
	for _, id := range ids {
		out = append(out, assets[id])
	}
	s.writeJSON(w, http.StatusOK, map[string]any{
		"assets": out,
		"count":  len(out),
	})
}

func (s *Server) handleGetAsset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	a, ok := s.guard.Assets()[id]
	if !ok {
		s.writeError(w, errors.New(errors.ErrCodeAssetNotFound, "asset %s not found", id))
		return
	}
	s.writeJSON(w, http.StatusOK, a)
}

// handleAddAsset validates and inserts one asset. The body is the
// asset's JSON representation; class-specific fields are optional.
func (s *Server) handleAddAsset(w http.ResponseWriter, r *http.Request) {
	var a model.Asset
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid asset body"))
		return
	}
	if a.Sector == "" {
		a.Sector = model.SectorUnknown
	}
	if err := a.Validate(); err != nil {
		s.writeError(w, err)
		return
	}
	s.guard.AddAsset(&a)
	s.writeJSON(w, http.StatusCreated, map[string]string{"id": a.ID})
}

// handleAddEvent inserts one regulatory event. A missing event id is
// generated server-side.
func (s *Server) handleAddEvent(w http.ResponseWriter, r *http.Request) {
	var e model.RegulatoryEvent
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		s.writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid event body"))
		return
	}
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if err := e.Validate(); err != nil {
		s.writeError(w, err)
		return
	}
	s.guard.AddEvent(&e)
	s.writeJSON(w, http.StatusCreated, map[string]string{"id": e.ID})
}

// handleBuild rebuilds the relationship store from current assets and
// events, replacing any previous relationships.
func (s *Server) handleBuild(w http.ResponseWriter, r *http.Request) {
	s.guard.BuildRelationships()

	var assets, rels, events int
	_ = s.guard.View(func(g *graph.Graph) error {
		assets = g.AssetCount()
		rels = g.RelationshipCount()
		events = len(g.Events())
		return nil
	})
	s.writeJSON(w, http.StatusOK, map[string]int{
		"assets":        assets,
		"relationships": rels,
		"events":        events,
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.guard.CalculateMetrics())
}

// handleSnapshot streams the full graph snapshot.
func (s *Server) handleSnapshot(w http.ResponseWriter, r *http.Request) {
	snap := s.guard.Snapshot()
	w.Header().Set("Content-Type", "application/json")
	if err := snap.WriteJSON(w); err != nil {
		s.logger.Error("write snapshot", "error", err)
	}
}

// handleRestore replaces the graph with the posted snapshot. A snapshot
// that fails structural validation leaves the current graph untouched.
func (s *Server) handleRestore(w http.ResponseWriter, r *http.Request) {
	snap, err := graph.ReadJSON(r.Body)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := s.guard.Restore(snap); err != nil {
		s.writeError(w, err)
		return
	}

	var assets, rels int
	_ = s.guard.View(func(g *graph.Graph) error {
		assets = g.AssetCount()
		rels = g.RelationshipCount()
		return nil
	})
	s.writeJSON(w, http.StatusOK, map[string]int{
		"assets":        assets,
		"relationships": rels,
	})
}

// handleViz returns the 3D network payload. Query parameters:
// exclude (comma-separated relationship types to drop) and layout
// (circular, grid, spring) for the flat positions.
func (s *Server) handleViz(w http.ResponseWriter, r *http.Request) {
	layout := r.URL.Query().Get("layout")
	if layout == "" {
		layout = pipeline.DefaultLayout
	}
	if err := pipeline.ValidateLayout(layout); err != nil {
		s.writeError(w, err)
		return
	}
	filter := excludeFilter(r.URL.Query().Get("exclude"))

	vd, err := viz.SafeData(s.guard, filter)
	if err != nil {
		s.writeError(w, err)
		return
	}
	vd.Flat = viz.FlatLayout(layout, s.guard.EffectiveAssetIDs())
	s.writeJSON(w, http.StatusOK, vd)
}

// handleRender renders the graph to dot, svg, or png and streams the
// artifact with the matching content type.
func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format := r.URL.Query().Get("format")
	if format == "" {
		format = pipeline.FormatDOT
	}
	detailed := r.URL.Query().Get("detailed") == "true"
	opts := render.Options{
		Detailed:   detailed,
		TypeFilter: excludeFilter(r.URL.Query().Get("exclude")),
	}

	var dot string
	err := s.guard.View(func(g *graph.Graph) error {
		var derr error
		dot, derr = render.ToDOT(g, opts)
		return derr
	})
	if err != nil {
		s.writeError(w, err)
		return
	}

	switch format {
	case pipeline.FormatDOT:
		w.Header().Set("Content-Type", "text/vnd.graphviz")
		_, _ = w.Write([]byte(dot))
	case pipeline.FormatSVG:
		out, rerr := render.SVG(r.Context(), dot)
		if rerr != nil {
			s.writeError(w, rerr)
			return
		}
		w.Header().Set("Content-Type", "image/svg+xml")
		_, _ = w.Write(out)
	case pipeline.FormatPNG:
		out, rerr := render.PNG(r.Context(), dot)
		if rerr != nil {
			s.writeError(w, rerr)
			return
		}
		w.Header().Set("Content-Type", "image/png")
		_, _ = w.Write(out)
	default:
		s.writeError(w, errors.New(errors.ErrCodeInvalidFormat,
			"unsupported render format: %s (valid: dot, svg, png)", format))
	}
}

// excludeFilter converts a comma-separated exclusion list into the
// type filter shape used by viz grouping: nil means all types pass.
func excludeFilter(param string) map[string]bool {
	if param == "" {
		return nil
	}
	filter := map[string]bool{
		graph.RelSameSector:    true,
		graph.RelCorporateLink: true,
		graph.RelEventImpact:   true,
	}
	for _, t := range strings.Split(param, ",") {
		if t = strings.TrimSpace(t); t != "" {
			filter[t] = false
		}
	}
	return filter
}
