package graph

import (
	"encoding/json"
	"io"
	"math"
	"slices"

	"github.com/dashfin/assetgraph/pkg/errors"
	"github.com/dashfin/assetgraph/pkg/model"
)

// Type tags used in snapshot asset records. The tag is interchange metadata
// carried alongside the asset class for cross-tool compatibility.
var classToTypeTag = map[model.AssetClass]string{
	model.ClassEquity:      "Equity",
	model.ClassFixedIncome: "Bond",
	model.ClassCommodity:   "Commodity",
	model.ClassCurrency:    "Currency",
}

var typeTagToClass = map[string]model.AssetClass{
	"Equity":    model.ClassEquity,
	"Bond":      model.ClassFixedIncome,
	"Commodity": model.ClassCommodity,
	"Currency":  model.ClassCurrency,
}

// SnapshotAsset is an asset record with its interchange type tag.
type SnapshotAsset struct {
	model.Asset `bson:",inline"`
	TypeTag     string `json:"__type__" bson:"__type__"`
}

// IncomingRelationship is one entry of the denormalized incoming view:
// a directed edge keyed under its target instead of its source.
type IncomingRelationship struct {
	Source   string  `json:"source" bson:"source"`
	Type     string  `json:"relationship_type" bson:"relationship_type"`
	Strength float64 `json:"strength" bson:"strength"`
}

// Snapshot is the canonical serialization format for a graph. It is used
// for caching, persistence, and API responses.
//
// IncomingRelationships is derived from Relationships at serialization time
// and is never authoritative: FromSnapshot ignores it and rebuilds the view
// on the next Snapshot call.
type Snapshot struct {
	Assets                []SnapshotAsset                   `json:"assets" bson:"assets"`
	RegulatoryEvents      []model.RegulatoryEvent           `json:"regulatory_events" bson:"regulatory_events"`
	Relationships         map[string][]Relationship         `json:"relationships" bson:"relationships"`
	IncomingRelationships map[string][]IncomingRelationship `json:"incoming_relationships" bson:"incoming_relationships"`
}

// Snapshot serializes the graph. Assets are ordered by ascending id;
// relationship lists keep store order; the incoming view is computed with
// sources in ascending order so output is deterministic.
func (g *Graph) Snapshot() *Snapshot {
	s := &Snapshot{
		Assets:                make([]SnapshotAsset, 0, len(g.assets)),
		RegulatoryEvents:      make([]model.RegulatoryEvent, 0, len(g.events)),
		Relationships:         make(map[string][]Relationship, len(g.relationships)),
		IncomingRelationships: make(map[string][]IncomingRelationship),
	}

	for _, id := range g.AssetIDs() {
		a := g.assets[id]
		s.Assets = append(s.Assets, SnapshotAsset{Asset: *a, TypeTag: classToTypeTag[a.Class]})
	}

	for _, e := range g.events {
		s.RegulatoryEvents = append(s.RegulatoryEvents, *e)
	}

	sources := make([]string, 0, len(g.relationships))
	for src := range g.relationships {
		sources = append(sources, src)
	}
	// Ascending sources keep the derived incoming lists reproducible.
	slices.Sort(sources)

	for _, src := range sources {
		rels := g.relationships[src]
		s.Relationships[src] = append([]Relationship(nil), rels...)
		for _, r := range rels {
			s.IncomingRelationships[r.Target] = append(s.IncomingRelationships[r.Target], IncomingRelationship{
				Source:   src,
				Type:     r.Type,
				Strength: r.Strength,
			})
		}
	}

	return s
}

// FromSnapshot hydrates a graph from external data. This is a re-entry
// boundary: assets and events are re-validated, and relationship records
// are structurally checked (non-empty endpoints and type, finite strength).
// The derived incoming view is ignored.
func FromSnapshot(s *Snapshot) (*Graph, error) {
	g := New()

	for i := range s.Assets {
		a := s.Assets[i].Asset
		if a.Class == "" {
			if cls, ok := typeTagToClass[s.Assets[i].TypeTag]; ok {
				a.Class = cls
			}
		}
		if err := a.Validate(); err != nil {
			return nil, err
		}
		g.AddAsset(&a)
	}

	for i := range s.RegulatoryEvents {
		e := s.RegulatoryEvents[i]
		if err := e.Validate(); err != nil {
			return nil, err
		}
		g.AddEvent(&e)
	}

	for src, rels := range s.Relationships {
		if src == "" {
			return nil, errors.New(errors.ErrCodeStructural, "relationship source id cannot be empty")
		}
		for i, r := range rels {
			if err := validateRelationship(src, i, r); err != nil {
				return nil, err
			}
			g.relationships[src] = append(g.relationships[src], r)
		}
	}

	return g, nil
}

// validateRelationship checks one stored edge at the re-entry boundary.
// Inference can never produce these malformations; external data can.
func validateRelationship(src string, idx int, r Relationship) error {
	if r.Target == "" {
		return errors.New(errors.ErrCodeStructural,
			"relationship %d of %q has empty target", idx, src)
	}
	if r.Type == "" {
		return errors.New(errors.ErrCodeStructural,
			"relationship %d of %q has empty type", idx, src)
	}
	if math.IsNaN(r.Strength) || math.IsInf(r.Strength, 0) {
		return errors.New(errors.ErrCodeStructural,
			"relationship %d of %q has non-finite strength", idx, src)
	}
	return nil
}

// WriteJSON encodes the snapshot as indented JSON. The output can be
// re-imported with ReadJSON for round-trip processing.
func (s *Snapshot) WriteJSON(w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(s); err != nil {
		return errors.Wrap(errors.ErrCodeSnapshot, err, "encode snapshot")
	}
	return nil
}

// ReadJSON decodes a snapshot from r. Structural and construction errors
// from the embedded records are reported by FromSnapshot, not here.
func ReadJSON(r io.Reader) (*Snapshot, error) {
	var s Snapshot
	if err := json.NewDecoder(r).Decode(&s); err != nil {
		return nil, errors.Wrap(errors.ErrCodeSnapshot, err, "decode snapshot")
	}
	return &s, nil
}
