package rules

import (
	"sort"

	"github.com/andrescamacho/floorsense-go/internal/domain/catalog"
	"github.com/andrescamacho/floorsense-go/internal/domain/layout"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
)

// Project computes the effective rule set from the active templates. For
// each (location, SKU, source) key produced by any template's cross-product,
// one winner is elected: LOCATION scope beats GENERIC, then higher priority,
// then newer updatedAt, then ascending template id. The result is sorted by
// rule id, so projecting the same inputs twice yields the same set.
func Project(templates []*Template, skus []*catalog.SKU, locations []*layout.Location) []*EffectiveRule {
	winners := make(map[string]projection)
	for _, tpl := range templates {
		if !tpl.Active() {
			continue
		}
		for _, sku := range skus {
			if !tpl.MatchesSKU(sku) {
				continue
			}
			for _, loc := range locations {
				if !tpl.MatchesLocation(loc.ID(), loc.IsReserved()) {
					continue
				}
				candidate := projection{template: tpl, locationID: loc.ID(), sku: sku}
				id := candidate.ruleID()
				if current, ok := winners[id]; !ok || candidate.beats(current) {
					winners[id] = candidate
				}
			}
		}
	}

	out := make([]*EffectiveRule, 0, len(winners))
	for _, w := range winners {
		out = append(out, NewEffectiveRule(
			w.locationID,
			w.sku.ID(),
			w.sku.Source(),
			w.template.Min(),
			w.template.Max(),
			w.template.Priority(),
			w.template.InboundSourceID(),
			w.template.ID(),
			w.template.UpdatedAt(),
		))
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out
}

type projection struct {
	template   *Template
	locationID string
	sku        *catalog.SKU
}

func (p projection) ruleID() string {
	return shared.RuleID(p.locationID, p.sku.ID(), p.sku.Source())
}

// beats implements the winner election order.
func (p projection) beats(other projection) bool {
	if p.template.Scope() != other.template.Scope() {
		return p.template.Scope() == ScopeLocation
	}
	if p.template.Priority() != other.template.Priority() {
		return p.template.Priority() > other.template.Priority()
	}
	if !p.template.UpdatedAt().Equal(other.template.UpdatedAt()) {
		return p.template.UpdatedAt().After(other.template.UpdatedAt())
	}
	return p.template.ID() < other.template.ID()
}
