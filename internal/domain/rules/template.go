package rules

import (
	"time"

	"github.com/andrescamacho/floorsense-go/internal/domain/catalog"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
)

// TemplateScope controls which locations a template reaches
type TemplateScope string

const (
	// ScopeGeneric - every registered non-reserved location
	ScopeGeneric TemplateScope = "GENERIC"

	// ScopeLocation - exactly the template's zoneId
	ScopeLocation TemplateScope = "LOCATION"
)

// TemplateSelector controls which SKUs a template reaches
type TemplateSelector string

const (
	// SelectorSKU - a single SKU by id
	SelectorSKU TemplateSelector = "SKU"

	// SelectorAttributes - every SKU whose variant matches the attribute bag
	SelectorAttributes TemplateSelector = "ATTRIBUTES"
)

// Template declares min/max intent over a cross-product of locations and
// SKUs. Templates are soft-deleted (active=false) and the registry is
// reprojected from the surviving set.
type Template struct {
	id              string
	scope           TemplateScope
	zoneID          string
	selector        TemplateSelector
	skuID           string
	attributes      catalog.AttributeFilter
	min             int
	max             int
	priority        int
	inboundSourceID string
	active          bool
	updatedAt       time.Time
}

// NewTemplate validates and creates a template.
func NewTemplate(id string, scope TemplateScope, zoneID string, selector TemplateSelector, skuID string, attributes catalog.AttributeFilter, min, max, priority int, inboundSourceID string, updatedAt time.Time) (*Template, error) {
	if min < 0 || max < min {
		return nil, shared.NewValidationError("minMax", "max must be >= min >= 0")
	}
	switch scope {
	case ScopeGeneric:
		// zoneID ignored
	case ScopeLocation:
		if zoneID == "" {
			return nil, shared.NewValidationError("zoneId", "required for LOCATION scope")
		}
	default:
		return nil, shared.NewValidationError("scope", "unknown scope")
	}
	switch selector {
	case SelectorSKU:
		if skuID == "" {
			return nil, shared.NewValidationError("skuId", "required for SKU selector")
		}
	case SelectorAttributes:
		if attributes.Empty() {
			return nil, shared.NewValidationError("attributes", "at least one attribute required")
		}
	default:
		return nil, shared.NewValidationError("selector", "unknown selector")
	}
	return &Template{
		id:              id,
		scope:           scope,
		zoneID:          zoneID,
		selector:        selector,
		skuID:           skuID,
		attributes:      attributes,
		min:             min,
		max:             max,
		priority:        priority,
		inboundSourceID: inboundSourceID,
		active:          true,
		updatedAt:       updatedAt.UTC(),
	}, nil
}

// ReconstructTemplate rebuilds a stored template.
func ReconstructTemplate(id string, scope TemplateScope, zoneID string, selector TemplateSelector, skuID string, attributes catalog.AttributeFilter, min, max, priority int, inboundSourceID string, active bool, updatedAt time.Time) *Template {
	return &Template{
		id:              id,
		scope:           scope,
		zoneID:          zoneID,
		selector:        selector,
		skuID:           skuID,
		attributes:      attributes,
		min:             min,
		max:             max,
		priority:        priority,
		inboundSourceID: inboundSourceID,
		active:          active,
		updatedAt:       updatedAt,
	}
}

func (t *Template) ID() string                 { return t.id }
func (t *Template) Scope() TemplateScope       { return t.scope }
func (t *Template) ZoneID() string             { return t.zoneID }
func (t *Template) Selector() TemplateSelector { return t.selector }
func (t *Template) SKUID() string              { return t.skuID }
func (t *Template) Min() int                   { return t.min }
func (t *Template) Max() int                   { return t.max }
func (t *Template) Priority() int              { return t.priority }
func (t *Template) InboundSourceID() string    { return t.inboundSourceID }
func (t *Template) Active() bool               { return t.active }
func (t *Template) UpdatedAt() time.Time       { return t.updatedAt }

// Attributes returns the attribute bag for ATTRIBUTES selectors.
func (t *Template) Attributes() catalog.AttributeFilter { return t.attributes }

// Deactivate soft-deletes the template, reporting whether it was active.
func (t *Template) Deactivate(at time.Time) bool {
	if !t.active {
		return false
	}
	t.active = false
	t.updatedAt = at.UTC()
	return true
}

// MatchesSKU reports whether the template selects the given SKU.
func (t *Template) MatchesSKU(sku *catalog.SKU) bool {
	switch t.selector {
	case SelectorSKU:
		return t.skuID == sku.ID()
	case SelectorAttributes:
		return t.attributes.Matches(sku.Variant())
	default:
		return false
	}
}

// MatchesLocation reports whether the template reaches the given location.
// GENERIC scope skips reserved zones; a LOCATION template may name one
// explicitly.
func (t *Template) MatchesLocation(locationID string, reserved bool) bool {
	switch t.scope {
	case ScopeGeneric:
		return !reserved
	case ScopeLocation:
		return t.zoneID == locationID
	default:
		return false
	}
}

// Clone returns a copy for repository hand-out.
func (t *Template) Clone() *Template {
	c := *t
	return &c
}
