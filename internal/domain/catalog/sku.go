package catalog

import (
	"strings"

	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
)

// Variant is the typed attribute bag of a catalog entry. Attribute selectors
// on rule templates filter against it with plain equality, evaluated in one
// pass.
type Variant struct {
	Kit      string `json:"kit"`
	AgeGroup string `json:"ageGroup"`
	Gender   string `json:"gender"`
	Role     string `json:"role"`
	Quality  string `json:"quality"`
}

// AttributeFilter is a partial Variant: empty fields are unconstrained.
type AttributeFilter struct {
	Kit      string `json:"kit,omitempty"`
	AgeGroup string `json:"ageGroup,omitempty"`
	Gender   string `json:"gender,omitempty"`
	Role     string `json:"role,omitempty"`
	Quality  string `json:"quality,omitempty"`
}

// Empty reports whether no attribute is constrained.
func (f AttributeFilter) Empty() bool {
	return f == AttributeFilter{}
}

// Matches reports whether every constrained attribute equals the variant's.
func (f AttributeFilter) Matches(v Variant) bool {
	if f.Kit != "" && f.Kit != v.Kit {
		return false
	}
	if f.AgeGroup != "" && f.AgeGroup != v.AgeGroup {
		return false
	}
	if f.Gender != "" && f.Gender != v.Gender {
		return false
	}
	if f.Role != "" && f.Role != v.Role {
		return false
	}
	if f.Quality != "" && f.Quality != v.Quality {
		return false
	}
	return true
}

// SKU is a catalog entry. The source class is immutable: an RFID SKU is
// realised as a set of EPCs, a NON_RFID SKU is counted through the ledger.
type SKU struct {
	id      string
	source  shared.Source
	title   string
	variant Variant
}

// NewSKU creates a catalog entry.
func NewSKU(id string, source shared.Source, title string, variant Variant) *SKU {
	return &SKU{id: id, source: source, title: title, variant: variant}
}

func (s *SKU) ID() string            { return s.id }
func (s *SKU) Source() shared.Source { return s.source }
func (s *SKU) Title() string         { return s.title }
func (s *SKU) Variant() Variant      { return s.variant }

// Personalisable reports whether sold units of this SKU route through the
// cashier staging area: player and goalkeeper variants, plus any product
// whose title carries the JSY jersey marker.
func (s *SKU) Personalisable() bool {
	switch strings.ToLower(s.variant.Role) {
	case "player", "goalkeeper":
		return true
	}
	return strings.Contains(strings.ToUpper(s.title), "JSY")
}

// Clone returns a copy for repository hand-out.
func (s *SKU) Clone() *SKU {
	return NewSKU(s.id, s.source, s.title, s.variant)
}
