package api

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	"github.com/dashfin/assetgraph/pkg/cache"
	"github.com/dashfin/assetgraph/pkg/graph"
	"github.com/dashfin/assetgraph/pkg/model"
	"github.com/dashfin/assetgraph/pkg/pipeline"
	"github.com/dashfin/assetgraph/pkg/viz"
)

func testServer(t *testing.T) *Server {
	t.Helper()
	guard := graph.NewSafe(graph.New())
	logger := log.New(io.Discard)
	runner := pipeline.NewRunner(cache.NewNullCache(), nil, logger)
	return NewServer(guard, runner, logger)
}

func seedGuard(t *testing.T, s *Server) {
	t.Helper()
	aapl, err := model.NewEquity("AAPL", "AAPL", "Apple Inc.", "Technology", 178.5)
	if err != nil {
		t.Fatal(err)
	}
	msft, err := model.NewEquity("MSFT", "MSFT", "Microsoft Corporation", "Technology", 420.0)
	if err != nil {
		t.Fatal(err)
	}
	bond, err := model.NewBond("BOND1", "BOND1", "Apple 2035", "Corporate", 98.5, "AAPL")
	if err != nil {
		t.Fatal(err)
	}
	s.guard.AddAsset(aapl)
	s.guard.AddAsset(msft)
	s.guard.AddAsset(bond)
}

func doJSON(t *testing.T, h http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var rd io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			t.Fatal(err)
		}
		rd = bytes.NewReader(data)
	}
	req := httptest.NewRequest(method, path, rd)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response: %v\nbody: %s", err, rec.Body.String())
	}
}

func TestHealthz(t *testing.T) {
	h := testServer(t).Router()
	rec := doJSON(t, h, http.MethodGet, "/healthz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body map[string]string
	decodeBody(t, rec, &body)
	if body["status"] != "ok" {
		t.Errorf("status = %q, want ok", body["status"])
	}
}

func TestRequestIDHeader(t *testing.T) {
	h := testServer(t).Router()

	rec := doJSON(t, h, http.MethodGet, "/healthz", nil)
	if rec.Header().Get(RequestIDHeader) == "" {
		t.Error("expected generated request id header")
	}

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(RequestIDHeader, "fixed-id")
	rec = httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if got := rec.Header().Get(RequestIDHeader); got != "fixed-id" {
		t.Errorf("request id = %q, want fixed-id", got)
	}
}

func TestAddAndListAssets(t *testing.T) {
	s := testServer(t)
	h := s.Router()

	rec := doJSON(t, h, http.MethodPost, "/api/assets", map[string]any{
		"id":          "AAPL",
		"symbol":      "AAPL",
		"name":        "Apple Inc.",
		"asset_class": "equity",
		"sector":      "Technology",
		"price":       178.5,
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}

	rec = doJSON(t, h, http.MethodGet, "/api/assets", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var body struct {
		Assets []model.Asset `json:"assets"`
		Count  int           `json:"count"`
	}
	decodeBody(t, rec, &body)
	if body.Count != 1 || len(body.Assets) != 1 {
		t.Fatalf("count = %d, assets = %d, want 1", body.Count, len(body.Assets))
	}
	if body.Assets[0].ID != "AAPL" || body.Assets[0].Sector != "Technology" {
		t.Errorf("unexpected asset: %+v", body.Assets[0])
	}
}

func TestAddAssetRejectsInvalid(t *testing.T) {
	tests := []struct {
		name     string
		body     map[string]any
		wantCode string
	}{
		{
			name:     "negative price",
			body:     map[string]any{"id": "X", "symbol": "X", "name": "X", "asset_class": "equity", "price": -1.0},
			wantCode: "INVALID_PRICE",
		},
		{
			name:     "bad class",
			body:     map[string]any{"id": "X", "symbol": "X", "name": "X", "asset_class": "derivative", "price": 1.0},
			wantCode: "INVALID_ASSET_CLASS",
		},
		{
			name:     "empty id",
			body:     map[string]any{"symbol": "X", "name": "X", "asset_class": "equity", "price": 1.0},
			wantCode: "INVALID_ASSET_ID",
		},
	}

	h := testServer(t).Router()
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := doJSON(t, h, http.MethodPost, "/api/assets", tt.body)
			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status = %d, want 400", rec.Code)
			}
			var body errorBody
			decodeBody(t, rec, &body)
			if body.Error.Code != tt.wantCode {
				t.Errorf("code = %q, want %q", body.Error.Code, tt.wantCode)
			}
		})
	}
}

func TestGetAssetNotFound(t *testing.T) {
	h := testServer(t).Router()
	rec := doJSON(t, h, http.MethodGet, "/api/assets/NOPE", nil)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	var body errorBody
	decodeBody(t, rec, &body)
	if body.Error.Code != "ASSET_NOT_FOUND" {
		t.Errorf("code = %q, want ASSET_NOT_FOUND", body.Error.Code)
	}
}

func TestAddEventGeneratesID(t *testing.T) {
	s := testServer(t)
	seedGuard(t, s)
	h := s.Router()

	rec := doJSON(t, h, http.MethodPost, "/api/events", map[string]any{
		"asset_id":       "AAPL",
		"event_type":     "Earnings Report",
		"date":           "2024-11-01T00:00:00Z",
		"impact_score":   0.12,
		"related_assets": []string{"MSFT"},
	})
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201: %s", rec.Code, rec.Body.String())
	}
	var body map[string]string
	decodeBody(t, rec, &body)
	if body["id"] == "" {
		t.Error("expected generated event id")
	}
}

func TestAddEventRejectsBadImpact(t *testing.T) {
	h := testServer(t).Router()
	rec := doJSON(t, h, http.MethodPost, "/api/events", map[string]any{
		"id":           "E1",
		"asset_id":     "AAPL",
		"event_type":   "Merger",
		"impact_score": 2.5,
	})
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	var body errorBody
	decodeBody(t, rec, &body)
	if body.Error.Code != "INVALID_IMPACT_SCORE" {
		t.Errorf("code = %q, want INVALID_IMPACT_SCORE", body.Error.Code)
	}
}

func TestBuildAndMetrics(t *testing.T) {
	s := testServer(t)
	seedGuard(t, s)
	h := s.Router()

	rec := doJSON(t, h, http.MethodPost, "/api/build", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var counts map[string]int
	decodeBody(t, rec, &counts)
	if counts["assets"] != 3 {
		t.Errorf("assets = %d, want 3", counts["assets"])
	}
	// AAPL<->MSFT same sector plus BOND1->AAPL corporate link.
	if counts["relationships"] != 3 {
		t.Errorf("relationships = %d, want 3", counts["relationships"])
	}

	rec = doJSON(t, h, http.MethodGet, "/api/metrics", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("metrics status = %d, want 200", rec.Code)
	}
	var m graph.Metrics
	decodeBody(t, rec, &m)
	if m.TotalAssets != 3 {
		t.Errorf("TotalAssets = %d, want 3", m.TotalAssets)
	}
	if m.TotalRelationships != 3 {
		t.Errorf("TotalRelationships = %d, want 3", m.TotalRelationships)
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	src := testServer(t)
	seedGuard(t, src)
	src.guard.BuildRelationships()

	rec := doJSON(t, src.Router(), http.MethodGet, "/api/graph", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("snapshot status = %d, want 200", rec.Code)
	}

	dst := testServer(t)
	req := httptest.NewRequest(http.MethodPost, "/api/graph", bytes.NewReader(rec.Body.Bytes()))
	rec2 := httptest.NewRecorder()
	dst.Router().ServeHTTP(rec2, req)
	if rec2.Code != http.StatusOK {
		t.Fatalf("restore status = %d, want 200: %s", rec2.Code, rec2.Body.String())
	}
	var counts map[string]int
	decodeBody(t, rec2, &counts)
	if counts["assets"] != 3 || counts["relationships"] != 3 {
		t.Errorf("restored counts = %v, want 3 assets / 3 relationships", counts)
	}
}

func TestRestoreRejectsMalformed(t *testing.T) {
	h := testServer(t).Router()
	req := httptest.NewRequest(http.MethodPost, "/api/graph", strings.NewReader("{not json"))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	if rec.Code == http.StatusOK {
		t.Fatalf("expected error status, got 200")
	}
}

func TestVizEndpoint(t *testing.T) {
	s := testServer(t)
	seedGuard(t, s)
	s.guard.BuildRelationships()
	h := s.Router()

	rec := doJSON(t, h, http.MethodGet, "/api/viz", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	var vd viz.NetworkData
	decodeBody(t, rec, &vd)
	if len(vd.Nodes.IDs) != 3 {
		t.Errorf("nodes = %d, want 3", len(vd.Nodes.IDs))
	}
	if len(vd.Flat) != 3 {
		t.Errorf("flat positions = %d, want 3", len(vd.Flat))
	}
	if len(vd.Traces) != 2 {
		t.Errorf("traces = %d, want 2", len(vd.Traces))
	}

	rec = doJSON(t, h, http.MethodGet, "/api/viz?exclude=same_sector", nil)
	decodeBody(t, rec, &vd)
	for _, tr := range vd.Traces {
		if tr.Type == "same_sector" {
			t.Error("excluded type present in traces")
		}
	}

	rec = doJSON(t, h, http.MethodGet, "/api/viz?layout=bogus", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad layout status = %d, want 400", rec.Code)
	}
}

func TestRenderDOT(t *testing.T) {
	s := testServer(t)
	seedGuard(t, s)
	s.guard.BuildRelationships()
	h := s.Router()

	rec := doJSON(t, h, http.MethodGet, "/api/render?format=dot", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "text/vnd.graphviz" {
		t.Errorf("content type = %q", ct)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "digraph assets") {
		t.Errorf("missing digraph header:\n%s", body)
	}
	if !strings.Contains(body, "AAPL") {
		t.Error("missing AAPL node")
	}

	rec = doJSON(t, h, http.MethodGet, "/api/render?format=gif", nil)
	if rec.Code != http.StatusBadRequest {
		t.Errorf("bad format status = %d, want 400", rec.Code)
	}
}
