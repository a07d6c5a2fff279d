// Package viz prepares a relationship graph for rendering: it indexes a
// requested id subset for O(1) lookup, groups edges by type and
// directionality, assigns deterministic layout coordinates, and computes
// directional overlay markers.
//
// The index builder is the structural-validation boundary for externally
// sourced graphs: malformed entries surface here as structural errors, and
// everything downstream assumes well-formed data.
//
// Layouts are pure functions of the id list. The same ids in the same order
// always produce the same coordinates, regardless of graph content.
package viz
