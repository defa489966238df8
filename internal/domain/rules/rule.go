package rules

import (
	"time"

	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
)

// EffectiveRule is the live min/max record the planner consults for one
// (location, SKU, source) key. Effective rules are never edited directly:
// they are projected from the template set, and the id carries the canonical
// rule-<locationId>-<skuId>-<source> form.
type EffectiveRule struct {
	id              string
	locationID      string
	skuID           string
	source          shared.Source
	min             int
	max             int
	priority        int
	inboundSourceID string
	templateID      string
	active          bool
	updatedAt       time.Time
}

// NewEffectiveRule creates a projected rule for a key.
func NewEffectiveRule(locationID, skuID string, source shared.Source, min, max, priority int, inboundSourceID, templateID string, updatedAt time.Time) *EffectiveRule {
	return &EffectiveRule{
		id:              shared.RuleID(locationID, skuID, source),
		locationID:      locationID,
		skuID:           skuID,
		source:          source,
		min:             min,
		max:             max,
		priority:        priority,
		inboundSourceID: inboundSourceID,
		templateID:      templateID,
		active:          true,
		updatedAt:       updatedAt,
	}
}

func (r *EffectiveRule) ID() string              { return r.id }
func (r *EffectiveRule) LocationID() string      { return r.locationID }
func (r *EffectiveRule) SKUID() string           { return r.skuID }
func (r *EffectiveRule) Source() shared.Source   { return r.source }
func (r *EffectiveRule) Min() int                { return r.min }
func (r *EffectiveRule) Max() int                { return r.max }
func (r *EffectiveRule) Priority() int           { return r.priority }
func (r *EffectiveRule) InboundSourceID() string { return r.inboundSourceID }
func (r *EffectiveRule) TemplateID() string      { return r.templateID }
func (r *EffectiveRule) Active() bool            { return r.active }
func (r *EffectiveRule) UpdatedAt() time.Time    { return r.updatedAt }

// SameTerms reports whether two projections of the key agree on every field
// the planner reads; used to skip no-op registry writes.
func (r *EffectiveRule) SameTerms(other *EffectiveRule) bool {
	return r.min == other.min &&
		r.max == other.max &&
		r.priority == other.priority &&
		r.inboundSourceID == other.inboundSourceID &&
		r.templateID == other.templateID
}

// Clone returns a copy for repository hand-out.
func (r *EffectiveRule) Clone() *EffectiveRule {
	c := *r
	return &c
}
