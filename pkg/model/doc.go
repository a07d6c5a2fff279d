// Package model defines the validated financial records the graph engine
// operates on: assets across four asset classes and the regulatory events
// that induce relationships between them.
//
// Records are passive once constructed. Validation happens exactly once, at
// construction time, so invalid data (non-positive prices, out-of-range
// impact scores) never reaches the relationship store. Re-entry of external
// data (snapshots, API payloads) goes through the same constructors.
package model
