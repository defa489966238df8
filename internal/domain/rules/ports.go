package rules

import (
	"context"

	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
)

// TemplateRepository stores rule templates. Deactivated templates stay
// stored so their soft-delete survives reprojection.
type TemplateRepository interface {
	// Save persists a template, replacing any previous version of the id
	Save(ctx context.Context, template *Template) error

	// FindByID retrieves a template by its id
	FindByID(ctx context.Context, id string) (*Template, error)

	// FindAll retrieves every template in id order
	FindAll(ctx context.Context) ([]*Template, error)

	// FindActive retrieves the active templates in id order
	FindActive(ctx context.Context) ([]*Template, error)
}

// RuleRepository is the live registry of projected effective rules.
type RuleRepository interface {
	// Save persists an effective rule, replacing any previous version
	Save(ctx context.Context, rule *EffectiveRule) error

	// Delete hard-removes a rule id, reporting whether it existed
	Delete(ctx context.Context, id string) (bool, error)

	// FindByID retrieves a rule by its id
	FindByID(ctx context.Context, id string) (*EffectiveRule, error)

	// Find retrieves the rule for a (location, SKU, source) key
	Find(ctx context.Context, locationID, skuID string, source shared.Source) (*EffectiveRule, error)

	// FindByLocation retrieves a location's rules in id order
	FindByLocation(ctx context.Context, locationID string) ([]*EffectiveRule, error)

	// FindAll retrieves every rule in id order
	FindAll(ctx context.Context) ([]*EffectiveRule, error)
}
