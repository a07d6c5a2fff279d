// Package pkg provides the core libraries for asset relationship graphs.
//
// # Overview
//
// Assetgraph derives a relationship network over financial assets from
// sector overlap, bond issuers, and regulatory events. The pkg directory
// is organized into these areas:
//
//  1. [model] - Asset and regulatory event types with validation
//  2. [graph] - The relationship graph, inference rules, metrics, snapshots
//  3. [viz] - Visualization payload assembly (layouts, traces, arrows)
//  4. [render] - DOT, SVG, and PNG network rendering
//  5. [cache] / [store] - Pipeline caching and MongoDB snapshot storage
//  6. [pipeline] - Orchestration (hydrate → build → metrics → viz → render)
//
// # Architecture
//
// The typical data flow:
//
//	Snapshot (assets + events)
//	         ↓
//	graph.BuildRelationships (same-sector, corporate-link, event-impact)
//	         ↓
//	graph.CalculateMetrics / viz.BuildData
//	         ↓
//	render.ToDOT → SVG / PNG
//
// Each pipeline stage is cached under a content-addressed key, so repeated
// runs over unchanged inputs are cheap.
//
// Supporting packages: [errors] for coded errors, [observability] for
// hook registries, [buildinfo] for version stamping.
package pkg
