package pipeline

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dashfin/assetgraph/pkg/cache"
	"github.com/dashfin/assetgraph/pkg/errors"
	"github.com/dashfin/assetgraph/pkg/graph"
	"github.com/dashfin/assetgraph/pkg/render"
	"github.com/dashfin/assetgraph/pkg/viz"
)

// Runner encapsulates pipeline execution with caching.
// Both CLI and API can use this to avoid duplicating caching logic.
//
// The Runner is stateless except for the cache and logger. Multiple
// goroutines can safely use the same Runner with different options.
type Runner struct {
	Cache  cache.Cache
	Keyer  cache.Keyer
	Logger *log.Logger
}

// NewRunner creates a runner with the given cache and keyer.
// If keyer is nil, a DefaultKeyer is used.
// If cache is nil, a NullCache is used (caching disabled).
func NewRunner(c cache.Cache, keyer cache.Keyer, logger *log.Logger) *Runner {
	if keyer == nil {
		keyer = cache.NewDefaultKeyer()
	}
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		Cache:  c,
		Keyer:  keyer,
		Logger: logger,
	}
}

// Execute runs the complete hydrate → build → metrics → viz → render
// pipeline with caching.
func (r *Runner) Execute(ctx context.Context, opts Options) (*Result, error) {
	if err := opts.ValidateAndSetDefaults(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	r.applyLogger(&opts)

	result := &Result{
		Artifacts: make(map[string][]byte),
	}

	hydrateStart := time.Now()
	g, err := r.Hydrate(ctx, opts)
	if err != nil {
		return nil, fmt.Errorf("hydrate: %w", err)
	}
	result.Stats.HydrateTime = time.Since(hydrateStart)

	buildStart := time.Now()
	g, graphHash, buildHit, err := r.BuildWithCacheInfo(ctx, g, opts)
	if err != nil {
		return nil, fmt.Errorf("build: %w", err)
	}
	result.Graph = g
	result.GraphHash = graphHash
	result.Stats.BuildTime = time.Since(buildStart)
	result.Stats.AssetCount = g.AssetCount()
	result.Stats.RelationshipCount = g.RelationshipCount()
	result.Stats.EventCount = len(g.Events())
	result.CacheInfo.BuildHit = buildHit

	r.Logger.Info("built relationships",
		"assets", result.Stats.AssetCount,
		"relationships", result.Stats.RelationshipCount,
		"duration", result.Stats.BuildTime)

	metricsStart := time.Now()
	metrics, metricsHit, err := r.MetricsWithCacheInfo(ctx, g, graphHash)
	if err != nil {
		return nil, fmt.Errorf("metrics: %w", err)
	}
	result.Metrics = metrics
	result.Stats.MetricsTime = time.Since(metricsStart)
	result.CacheInfo.MetricsHit = metricsHit

	r.Logger.Info("computed metrics",
		"density", metrics.Density,
		"quality", metrics.QualityScore,
		"duration", result.Stats.MetricsTime)

	vizStart := time.Now()
	vd, vizHit, err := r.VizWithCacheInfo(ctx, g, graphHash, opts)
	if err != nil {
		return nil, fmt.Errorf("viz: %w", err)
	}
	result.Viz = vd
	result.Stats.VizTime = time.Since(vizStart)
	result.CacheInfo.VizHit = vizHit

	renderStart := time.Now()
	artifacts, renderHit, err := r.RenderWithCacheInfo(ctx, g, vd, opts)
	if err != nil {
		return nil, fmt.Errorf("render: %w", err)
	}
	result.Artifacts = artifacts
	result.Stats.RenderTime = time.Since(renderStart)
	result.CacheInfo.RenderHit = renderHit

	r.Logger.Info("rendered outputs",
		"formats", opts.Formats,
		"duration", result.Stats.RenderTime)

	return result, nil
}

// Hydrate loads a graph from the inline snapshot or the snapshot cache.
func (r *Runner) Hydrate(ctx context.Context, opts Options) (*graph.Graph, error) {
	if err := opts.ValidateForHydrate(); err != nil {
		return nil, err
	}
	r.applyLogger(&opts)

	if opts.Snapshot != nil {
		return graph.FromSnapshot(opts.Snapshot)
	}

	key := r.Keyer.SnapshotKey(opts.SnapshotName)
	data, hit, err := r.Cache.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	if !hit {
		return nil, errors.New(errors.ErrCodeSnapshotNotFound, "snapshot %q not found", opts.SnapshotName)
	}
	snap, err := graph.ReadJSON(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return graph.FromSnapshot(snap)
}

// BuildWithCacheInfo runs relationship inference with caching. The
// returned hash identifies the built graph and keys the downstream stages.
func (r *Runner) BuildWithCacheInfo(ctx context.Context, g *graph.Graph, opts Options) (*graph.Graph, string, bool, error) {
	preData, err := marshalSnapshot(g.Snapshot())
	if err != nil {
		return nil, "", false, err
	}
	cacheKey := r.Keyer.GraphKey(cache.Hash(preData), opts.GraphKeyOpts())

	if !opts.Refresh {
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			if cached, err := unmarshalSnapshotGraph(data); err == nil {
				return cached, cache.Hash(data), true, nil
			}
			// Corrupted entry, fall through to rebuild.
		}
	}

	g.BuildRelationships()

	data, err := marshalSnapshot(g.Snapshot())
	if err != nil {
		return nil, "", false, err
	}
	_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLGraph)

	return g, cache.Hash(data), false, nil
}

// Build is a convenience wrapper that discards the cache hit info.
func (r *Runner) Build(ctx context.Context, g *graph.Graph, opts Options) (*graph.Graph, error) {
	built, _, _, err := r.BuildWithCacheInfo(ctx, g, opts)
	return built, err
}

// MetricsWithCacheInfo computes graph metrics with caching.
func (r *Runner) MetricsWithCacheInfo(ctx context.Context, g *graph.Graph, graphHash string) (graph.Metrics, bool, error) {
	cacheKey := r.Keyer.MetricsKey(graphHash)

	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		var cached graph.Metrics
		if err := json.Unmarshal(data, &cached); err == nil {
			return cached, true, nil
		}
	}

	metrics := g.CalculateMetrics()

	if data, err := json.Marshal(metrics); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLMetrics)
	}

	return metrics, false, nil
}

// VizWithCacheInfo assembles the visualization payload with caching.
func (r *Runner) VizWithCacheInfo(ctx context.Context, g *graph.Graph, graphHash string, opts Options) (*viz.NetworkData, bool, error) {
	if err := opts.ValidateForViz(); err != nil {
		return nil, false, err
	}
	cacheKey := r.Keyer.VizKey(graphHash, opts.VizKeyOpts())

	if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
		var cached viz.NetworkData
		if err := json.Unmarshal(data, &cached); err == nil {
			return &cached, true, nil
		}
	}

	vd, err := viz.BuildData(g, opts.TypeFilter())
	if err != nil {
		return nil, false, err
	}
	vd.Flat = viz.FlatLayout(opts.Layout, g.EffectiveAssetIDs())

	if data, err := json.Marshal(vd); err == nil {
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLViz)
	}

	return vd, false, nil
}

// RenderWithCacheInfo generates artifacts with caching and returns cache
// hit info.
func (r *Runner) RenderWithCacheInfo(ctx context.Context, g *graph.Graph, vd *viz.NetworkData, opts Options) (map[string][]byte, bool, error) {
	if err := opts.ValidateForRender(); err != nil {
		return nil, false, err
	}
	r.applyLogger(&opts)

	vizData, err := json.Marshal(vd)
	if err != nil {
		return nil, false, fmt.Errorf("serialize viz payload for cache key: %w", err)
	}
	vizHash := cache.Hash(vizData)

	// Try to get all formats from cache.
	allCached := true
	artifacts := make(map[string][]byte)

	for _, format := range opts.Formats {
		cacheKey := r.Keyer.ArtifactKey(vizHash, opts.ArtifactKeyOpts(format))
		if data, hit, err := r.Cache.Get(ctx, cacheKey); err == nil && hit {
			artifacts[format] = data
		} else {
			allCached = false
			break
		}
	}

	if allCached && len(artifacts) == len(opts.Formats) {
		return artifacts, true, nil
	}

	rendered, err := r.renderFormats(ctx, g, vizData, opts)
	if err != nil {
		return nil, false, err
	}

	for format, data := range rendered {
		cacheKey := r.Keyer.ArtifactKey(vizHash, opts.ArtifactKeyOpts(format))
		_ = r.Cache.Set(ctx, cacheKey, data, cache.TTLArtifact)
	}

	return rendered, false, nil
}

// Render is a convenience wrapper that discards the cache hit info.
func (r *Runner) Render(ctx context.Context, g *graph.Graph, vd *viz.NetworkData, opts Options) (map[string][]byte, error) {
	artifacts, _, err := r.RenderWithCacheInfo(ctx, g, vd, opts)
	return artifacts, err
}

func (r *Runner) renderFormats(ctx context.Context, g *graph.Graph, vizData []byte, opts Options) (map[string][]byte, error) {
	artifacts := make(map[string][]byte, len(opts.Formats))

	var dot string
	needsDOT := false
	for _, format := range opts.Formats {
		if format != FormatJSON {
			needsDOT = true
		}
	}
	if needsDOT {
		var err error
		dot, err = render.ToDOT(g, render.Options{
			Detailed:   opts.Detailed,
			TypeFilter: opts.TypeFilter(),
		})
		if err != nil {
			return nil, fmt.Errorf("generate DOT: %w", err)
		}
	}

	for _, format := range opts.Formats {
		var data []byte
		var err error

		switch format {
		case FormatJSON:
			data = vizData
		case FormatDOT:
			data = []byte(dot)
		case FormatSVG:
			data, err = render.SVG(ctx, dot)
		case FormatPNG:
			data, err = render.PNG(ctx, dot)
		default:
			return nil, fmt.Errorf("unsupported format: %s", format)
		}

		if err != nil {
			return nil, fmt.Errorf("render %s: %w", format, err)
		}
		artifacts[format] = data
	}

	return artifacts, nil
}

// SaveSnapshot stores a graph's snapshot in the cache under a name.
func (r *Runner) SaveSnapshot(ctx context.Context, name string, g *graph.Graph) error {
	if err := errors.ValidateSnapshotName(name); err != nil {
		return err
	}
	data, err := marshalSnapshot(g.Snapshot())
	if err != nil {
		return err
	}
	return r.Cache.Set(ctx, r.Keyer.SnapshotKey(name), data, cache.TTLSnapshot)
}

// DeleteSnapshot removes a named snapshot from the cache.
func (r *Runner) DeleteSnapshot(ctx context.Context, name string) error {
	if err := errors.ValidateSnapshotName(name); err != nil {
		return err
	}
	return r.Cache.Delete(ctx, r.Keyer.SnapshotKey(name))
}

// Close releases resources held by the runner (primarily the cache).
func (r *Runner) Close() error {
	if r.Cache != nil {
		return r.Cache.Close()
	}
	return nil
}

// applyLogger sets the runner's logger on options if not already set.
func (r *Runner) applyLogger(opts *Options) {
	if opts.Logger == nil {
		opts.Logger = r.Logger
	}
}

func marshalSnapshot(s *graph.Snapshot) ([]byte, error) {
	var buf bytes.Buffer
	if err := s.WriteJSON(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func unmarshalSnapshotGraph(data []byte) (*graph.Graph, error) {
	snap, err := graph.ReadJSON(bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	return graph.FromSnapshot(snap)
}
