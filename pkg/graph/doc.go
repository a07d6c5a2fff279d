// Package graph implements the asset relationship graph engine: the asset
// and event stores, rule-based relationship inference, network metrics, the
// cache snapshot format, and the concurrency guard for sharing one graph
// across goroutines.
//
// # Data model
//
// A [Graph] holds explicit assets (keyed by id), regulatory events, and a
// derived relationship store: an adjacency map from source id to an ordered
// list of directed, typed, weighted edges. Relationships are never edited
// incrementally; [Graph.BuildRelationships] clears and regenerates the whole
// store from the current assets and events.
//
// A "bidirectional" relationship is two independent directed edges of equal
// type and strength. At most one edge exists per (source, target, type);
// later inserts with the same key are dropped silently (observable through
// the observability hooks, never an error).
//
// # Concurrency
//
// Graph performs no internal locking. For shared instances wrap it in a
// [SafeGraph], which serializes every access behind one mutex and returns
// deep copies of internal state.
package graph
