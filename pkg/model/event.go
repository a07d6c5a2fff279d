package model

import (
	"time"

	"github.com/dashfin/assetgraph/pkg/errors"
)

// EventType is the closed set of regulatory event categories.
type EventType string

// Supported event types.
const (
	EventEarningsReport       EventType = "Earnings Report"
	EventDividendAnnouncement EventType = "Dividend Announcement"
	EventSECFiling            EventType = "SEC Filing"
	EventMerger               EventType = "Merger"
)

// Valid reports whether t is one of the supported event types.
func (t EventType) Valid() bool {
	switch t {
	case EventEarningsReport, EventDividendAnnouncement, EventSECFiling, EventMerger:
		return true
	}
	return false
}

// RegulatoryEvent is a dated occurrence on one asset that can induce
// event-impact relationships to its related assets. RelatedAssets is
// ordered; relationship inference preserves that order.
type RegulatoryEvent struct {
	ID            string    `json:"id" bson:"id"`
	AssetID       string    `json:"asset_id" bson:"asset_id"`
	Type          EventType `json:"event_type" bson:"event_type"`
	Date          time.Time `json:"date" bson:"date"`
	Description   string    `json:"description,omitempty" bson:"description,omitempty"`
	ImpactScore   float64   `json:"impact_score" bson:"impact_score"`
	RelatedAssets []string  `json:"related_assets" bson:"related_assets"`
}

// Validate checks the invariants the constructor enforces.
func (e *RegulatoryEvent) Validate() error {
	if e.ID == "" {
		return errors.New(errors.ErrCodeInvalidEvent, "event id cannot be empty")
	}
	if err := errors.ValidateAssetID(e.AssetID); err != nil {
		return errors.Wrap(errors.ErrCodeInvalidEvent, err, "event %s has invalid asset id", e.ID)
	}
	if !e.Type.Valid() {
		return errors.New(errors.ErrCodeInvalidEvent, "unknown event type %q for %s", e.Type, e.ID)
	}
	if e.ImpactScore < -1 || e.ImpactScore > 1 {
		return errors.New(errors.ErrCodeInvalidImpactScore,
			"impact score for %s must be in [-1, 1], got %g", e.ID, e.ImpactScore)
	}
	return nil
}

// NewRegulatoryEvent constructs a validated regulatory event.
// The impact score must lie in [-1, 1]; its sign records direction of the
// market impact while inferred edge strengths use the absolute value.
func NewRegulatoryEvent(id, assetID string, typ EventType, date time.Time, description string, impactScore float64, relatedAssets []string) (*RegulatoryEvent, error) {
	e := &RegulatoryEvent{
		ID:            id,
		AssetID:       assetID,
		Type:          typ,
		Date:          date,
		Description:   description,
		ImpactScore:   impactScore,
		RelatedAssets: append([]string(nil), relatedAssets...),
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}
	return e, nil
}
