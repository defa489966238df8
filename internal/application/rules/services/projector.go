package services

import (
	"context"
	"sort"

	invservices "github.com/andrescamacho/floorsense-go/internal/application/inventory/services"
	"github.com/andrescamacho/floorsense-go/internal/domain/catalog"
	"github.com/andrescamacho/floorsense-go/internal/domain/layout"
	"github.com/andrescamacho/floorsense-go/internal/domain/replenishment"
	"github.com/andrescamacho/floorsense-go/internal/domain/rules"
)

// Projector keeps the effective rule registry derived from the template set.
// Every template mutation funnels through Reproject: the full registry is
// recomputed, diffed against the live one, and only the differences written.
// Removed rules cascade into their open tasks and every touched location is
// recomputed.
type Projector struct {
	templates  rules.TemplateRepository
	registry   rules.RuleRepository
	skus       catalog.SKURepository
	locations  layout.LocationRepository
	planner    *invservices.Planner
	recomputer *invservices.Recomputer
}

// NewProjector creates the projector.
func NewProjector(
	templates rules.TemplateRepository,
	registry rules.RuleRepository,
	skus catalog.SKURepository,
	locations layout.LocationRepository,
	planner *invservices.Planner,
	recomputer *invservices.Recomputer,
) *Projector {
	return &Projector{
		templates:  templates,
		registry:   registry,
		skus:       skus,
		locations:  locations,
		planner:    planner,
		recomputer: recomputer,
	}
}

// Reproject recomputes the registry from the active templates and applies the
// diff. Returns the number of live effective rules after projection.
func (p *Projector) Reproject(ctx context.Context) (int, error) {
	templates, err := p.templates.FindActive(ctx)
	if err != nil {
		return 0, err
	}
	skus, err := p.skus.FindAll(ctx)
	if err != nil {
		return 0, err
	}
	locations, err := p.locations.FindAll(ctx)
	if err != nil {
		return 0, err
	}
	projected := rules.Project(templates, skus, locations)

	existing, err := p.registry.FindAll(ctx)
	if err != nil {
		return 0, err
	}
	existingByID := make(map[string]*rules.EffectiveRule, len(existing))
	for _, rule := range existing {
		existingByID[rule.ID()] = rule
	}

	touched := make(map[string]struct{})
	kept := make(map[string]struct{}, len(projected))
	for _, rule := range projected {
		kept[rule.ID()] = struct{}{}
		if current, ok := existingByID[rule.ID()]; ok && current.SameTerms(rule) {
			continue
		}
		if err := p.registry.Save(ctx, rule); err != nil {
			return 0, err
		}
		touched[rule.LocationID()] = struct{}{}
	}
	for _, current := range existing {
		if _, ok := kept[current.ID()]; ok {
			continue
		}
		if _, err := p.registry.Delete(ctx, current.ID()); err != nil {
			return 0, err
		}
		if _, err := p.planner.CloseTasksOwnedBy(ctx, current.ID(), replenishment.CloseReasonRuleDeleted); err != nil {
			return 0, err
		}
		touched[current.LocationID()] = struct{}{}
	}

	if len(touched) > 0 {
		if err := p.recomputer.RecomputeMany(ctx, sortedIDs(touched)...); err != nil {
			return 0, err
		}
	}
	return len(projected), nil
}

// ManagedCount reports how many live effective rules a template currently
// backs.
func (p *Projector) ManagedCount(ctx context.Context, templateID string) (int, error) {
	all, err := p.registry.FindAll(ctx)
	if err != nil {
		return 0, err
	}
	n := 0
	for _, rule := range all {
		if rule.TemplateID() == templateID {
			n++
		}
	}
	return n, nil
}

func sortedIDs(set map[string]struct{}) []string {
	ids := make([]string, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
