package graph

import "github.com/dashfin/assetgraph/pkg/model"

// Edge is an inferred relationship emitted by a Rule. Bidirectional edges
// are stored as two independent directed entries of equal type and strength.
type Edge struct {
	Source        string
	Target        string
	Type          string
	Strength      float64
	Bidirectional bool
}

// Rule is a pluggable pairwise inference rule. Apply inspects one unordered
// asset pair, with a preceding b in the graph's ascending-id enumeration,
// and returns zero or more edges to insert. Rules must be pure: no state,
// no I/O, deterministic for a given pair.
type Rule interface {
	// Name identifies the rule in logs and diagnostics.
	Name() string
	Apply(a, b *model.Asset) []Edge
}

// DefaultRules returns the built-in rule set: same-sector and
// corporate-link. These two are the required minimum for a faithful
// rebuild; callers can extend or replace them via Graph.SetRules.
func DefaultRules() []Rule {
	return []Rule{SameSectorRule{}, CorporateLinkRule{}}
}

// SameSectorRule links assets that share a known sector with a
// bidirectional same-sector edge of strength 0.7. The "Unknown" sentinel
// sector never links.
type SameSectorRule struct{}

// Name implements Rule.
func (SameSectorRule) Name() string { return RelSameSector }

// Apply implements Rule.
func (SameSectorRule) Apply(a, b *model.Asset) []Edge {
	if !a.HasKnownSector() || a.Sector != b.Sector {
		return nil
	}
	return []Edge{{
		Source:        a.ID,
		Target:        b.ID,
		Type:          RelSameSector,
		Strength:      StrengthSameSector,
		Bidirectional: true,
	}}
}

// CorporateLinkRule links a bond to its issuer with a one-directional
// corporate-link edge of strength 0.9, from the bond to the issuer. The
// issuer never links back.
type CorporateLinkRule struct{}

// Name implements Rule.
func (CorporateLinkRule) Name() string { return RelCorporateLink }

// Apply implements Rule.
func (CorporateLinkRule) Apply(a, b *model.Asset) []Edge {
	if bond, issuer, ok := issuerLink(a, b); ok {
		return []Edge{{
			Source:   bond,
			Target:   issuer,
			Type:     RelCorporateLink,
			Strength: StrengthCorporateLink,
		}}
	}
	return nil
}

// issuerLink identifies a bond→issuer pairing in either direction.
func issuerLink(a, b *model.Asset) (bond, issuer string, ok bool) {
	if a.IsBond() && a.IssuerID == b.ID {
		return a.ID, b.ID, true
	}
	if b.IsBond() && b.IssuerID == a.ID {
		return b.ID, a.ID, true
	}
	return "", "", false
}
