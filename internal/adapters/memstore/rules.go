package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/andrescamacho/floorsense-go/internal/domain/rules"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
)

// TemplateStore implements rules.TemplateRepository. Deactivated templates
// stay stored so their soft-delete survives reprojection.
type TemplateStore struct {
	mu        sync.RWMutex
	templates map[string]*rules.Template
}

// NewTemplateStore creates an empty template store.
func NewTemplateStore() *TemplateStore {
	return &TemplateStore{templates: make(map[string]*rules.Template)}
}

// Save persists a template, replacing any previous version of the id.
func (s *TemplateStore) Save(ctx context.Context, template *rules.Template) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.templates[template.ID()] = template.Clone()
	return nil
}

// FindByID retrieves a template by its id.
func (s *TemplateStore) FindByID(ctx context.Context, id string) (*rules.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	tpl, ok := s.templates[id]
	if !ok {
		return nil, &rules.ErrTemplateNotFound{TemplateID: id}
	}
	return tpl.Clone(), nil
}

// FindAll retrieves every template in id order.
func (s *TemplateStore) FindAll(ctx context.Context) ([]*rules.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*rules.Template, 0, len(s.templates))
	for _, tpl := range s.templates {
		out = append(out, tpl.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

// FindActive retrieves the active templates in id order.
func (s *TemplateStore) FindActive(ctx context.Context) ([]*rules.Template, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*rules.Template, 0)
	for _, tpl := range s.templates {
		if tpl.Active() {
			out = append(out, tpl.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

// RuleStore implements rules.RuleRepository, the live registry of projected
// effective rules.
type RuleStore struct {
	mu    sync.RWMutex
	rules map[string]*rules.EffectiveRule
}

// NewRuleStore creates an empty rule registry.
func NewRuleStore() *RuleStore {
	return &RuleStore{rules: make(map[string]*rules.EffectiveRule)}
}

// Save persists an effective rule, replacing any previous version.
func (s *RuleStore) Save(ctx context.Context, rule *rules.EffectiveRule) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rules[rule.ID()] = rule.Clone()
	return nil
}

// Delete hard-removes a rule id, reporting whether it existed.
func (s *RuleStore) Delete(ctx context.Context, id string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.rules[id]
	delete(s.rules, id)
	return ok, nil
}

// FindByID retrieves a rule by its id.
func (s *RuleStore) FindByID(ctx context.Context, id string) (*rules.EffectiveRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rule, ok := s.rules[id]
	if !ok {
		return nil, &rules.ErrRuleNotFound{RuleID: id}
	}
	return rule.Clone(), nil
}

// Find retrieves the rule for a (location, SKU, source) key.
func (s *RuleStore) Find(ctx context.Context, locationID, skuID string, source shared.Source) (*rules.EffectiveRule, error) {
	return s.FindByID(ctx, shared.RuleID(locationID, skuID, source))
}

// FindByLocation retrieves a location's rules in id order.
func (s *RuleStore) FindByLocation(ctx context.Context, locationID string) ([]*rules.EffectiveRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*rules.EffectiveRule, 0)
	for _, rule := range s.rules {
		if rule.LocationID() == locationID {
			out = append(out, rule.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

// FindAll retrieves every rule in id order.
func (s *RuleStore) FindAll(ctx context.Context) ([]*rules.EffectiveRule, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*rules.EffectiveRule, 0, len(s.rules))
	for _, rule := range s.rules {
		out = append(out, rule.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}
