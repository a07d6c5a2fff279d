// Package pipeline provides the core processing pipeline for asset graphs.
//
// This package implements the complete hydrate → build → metrics → viz →
// render pipeline used by the CLI and the API server. Centralizing it keeps
// caching and stage behavior identical across entry points.
//
// # Architecture
//
// The pipeline consists of five stages:
//
//  1. Hydrate: Load a graph from an inline snapshot or the snapshot cache
//  2. Build: Run relationship inference over assets and events
//  3. Metrics: Compute graph health metrics
//  4. Viz: Assemble the visualization payload
//  5. Render: Generate output artifacts (JSON, DOT, SVG, PNG)
//
// Each stage can be run independently or as part of the complete pipeline.
//
// # Usage
//
// Create a Runner and execute the pipeline:
//
//	runner := pipeline.NewRunner(cache, nil, logger)
//	opts := pipeline.Options{
//	    SnapshotName: "tech-portfolio",
//	    Formats:      []string{"svg"},
//	}
//	result, err := runner.Execute(ctx, opts)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	svg := result.Artifacts["svg"]
package pipeline

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/dashfin/assetgraph/pkg/cache"
	"github.com/dashfin/assetgraph/pkg/graph"
	"github.com/dashfin/assetgraph/pkg/viz"
)

// Layout constants for the 2D view.
const (
	LayoutCircular = "circular"
	LayoutGrid     = "grid"
	LayoutSpring   = "spring"
)

// DefaultLayout is the default 2D layout.
const DefaultLayout = LayoutCircular

// Format constants for output formats.
const (
	FormatJSON = "json"
	FormatDOT  = "dot"
	FormatSVG  = "svg"
	FormatPNG  = "png"
)

// ValidFormats is the set of supported output formats.
var ValidFormats = map[string]bool{
	FormatJSON: true,
	FormatDOT:  true,
	FormatSVG:  true,
	FormatPNG:  true,
}

// ValidLayouts is the set of supported 2D layouts.
var ValidLayouts = map[string]bool{
	LayoutCircular: true,
	LayoutGrid:     true,
	LayoutSpring:   true,
}

// Options contains all configuration for the pipeline.
// This struct supports JSON serialization for API requests.
type Options struct {
	// Hydrate options. Snapshot takes precedence over SnapshotName.
	Snapshot     *graph.Snapshot `json:"snapshot,omitempty"`
	SnapshotName string          `json:"snapshot_name,omitempty"`
	Refresh      bool            `json:"refresh,omitempty"`

	// Viz options
	Layout        string   `json:"layout,omitempty"`
	DisabledTypes []string `json:"disabled_types,omitempty"`

	// Render options
	Formats  []string `json:"formats,omitempty"`
	Detailed bool     `json:"detailed,omitempty"`

	// Runtime options (not serialized)
	Logger *log.Logger `json:"-"`

	// validated tracks whether ValidateAndSetDefaults has been called.
	validated bool `json:"-"`
}

// Result contains the outputs of a pipeline run.
type Result struct {
	// Graph is the hydrated graph with its relationship store built.
	Graph *graph.Graph

	// GraphHash is the content hash of the built graph's snapshot.
	GraphHash string

	// Metrics contains the computed graph health metrics.
	Metrics graph.Metrics

	// Viz contains the assembled visualization payload.
	Viz *viz.NetworkData

	// Artifacts contains rendered outputs keyed by format.
	Artifacts map[string][]byte

	// Stats contains timing and size information.
	Stats Stats

	// CacheInfo tracks which stages hit the cache.
	CacheInfo CacheInfo
}

// Stats contains pipeline execution statistics.
type Stats struct {
	AssetCount        int
	RelationshipCount int
	EventCount        int
	HydrateTime       time.Duration
	BuildTime         time.Duration
	MetricsTime       time.Duration
	VizTime           time.Duration
	RenderTime        time.Duration
}

// CacheInfo tracks cache hits for each pipeline stage.
type CacheInfo struct {
	BuildHit   bool // Whether the built graph came from cache
	MetricsHit bool // Whether metrics came from cache
	VizHit     bool // Whether the viz payload came from cache
	RenderHit  bool // Whether all artifacts came from cache
}

// ValidateFormat checks that a format is valid.
func ValidateFormat(format string) error {
	if !ValidFormats[format] {
		return fmt.Errorf("invalid format: %q (must be one of: json, dot, svg, png)", format)
	}
	return nil
}

// ValidateFormats checks that all formats are valid.
func ValidateFormats(formats []string) error {
	for _, f := range formats {
		if err := ValidateFormat(f); err != nil {
			return err
		}
	}
	return nil
}

// ValidateLayout checks that a 2D layout is valid.
func ValidateLayout(layout string) error {
	if !ValidLayouts[layout] {
		return fmt.Errorf("invalid layout: %q (must be one of: circular, grid, spring)", layout)
	}
	return nil
}

// ValidateAndSetDefaults checks required fields and applies defaults for
// the full pipeline. This method is idempotent.
func (o *Options) ValidateAndSetDefaults() error {
	if o.validated {
		return nil
	}
	if err := o.ValidateForHydrate(); err != nil {
		return err
	}
	o.SetVizDefaults()
	o.SetRenderDefaults()
	if err := ValidateLayout(o.Layout); err != nil {
		return err
	}
	if err := ValidateFormats(o.Formats); err != nil {
		return err
	}
	o.validated = true
	return nil
}

// ValidateForHydrate checks required fields for graph hydration.
func (o *Options) ValidateForHydrate() error {
	if o.Snapshot == nil && o.SnapshotName == "" {
		return fmt.Errorf("snapshot or snapshot_name is required")
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return nil
}

// SetVizDefaults sets default values for viz assembly.
func (o *Options) SetVizDefaults() {
	if o.Layout == "" {
		o.Layout = DefaultLayout
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// SetRenderDefaults sets default values for rendering.
func (o *Options) SetRenderDefaults() {
	if len(o.Formats) == 0 {
		o.Formats = []string{FormatJSON}
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
}

// ValidateForViz validates and sets defaults for viz assembly.
func (o *Options) ValidateForViz() error {
	o.SetVizDefaults()
	return ValidateLayout(o.Layout)
}

// ValidateForRender validates and sets defaults for rendering.
func (o *Options) ValidateForRender() error {
	o.SetVizDefaults()
	o.SetRenderDefaults()
	if err := ValidateLayout(o.Layout); err != nil {
		return err
	}
	return ValidateFormats(o.Formats)
}

// TypeFilter converts the disabled type list into the filter map the viz
// layer consumes. Returns nil when nothing is disabled.
func (o *Options) TypeFilter() map[string]bool {
	if len(o.DisabledTypes) == 0 {
		return nil
	}
	filter := make(map[string]bool, len(o.DisabledTypes))
	for _, t := range o.DisabledTypes {
		filter[t] = false
	}
	return filter
}

// GraphKeyOpts returns cache key options for the build stage.
func (o *Options) GraphKeyOpts() cache.GraphKeyOpts {
	return cache.GraphKeyOpts{
		RuleSet: []string{graph.RelSameSector, graph.RelCorporateLink, graph.RelEventImpact},
	}
}

// VizKeyOpts returns cache key options for viz assembly.
func (o *Options) VizKeyOpts() cache.VizKeyOpts {
	return cache.VizKeyOpts{
		Layout:      o.Layout,
		TypeFilters: o.DisabledTypes,
	}
}

// ArtifactKeyOpts returns cache key options for artifact rendering.
func (o *Options) ArtifactKeyOpts(format string) cache.ArtifactKeyOpts {
	return cache.ArtifactKeyOpts{
		Format: format,
		Layout: o.Layout,
	}
}
