package rules_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/floorsense-go/internal/domain/catalog"
	"github.com/andrescamacho/floorsense-go/internal/domain/rules"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
)

var templateAt = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func TestNewTemplate_RejectsInvalidBounds(t *testing.T) {
	// Act
	_, errNegative := rules.NewTemplate("tpl-1", rules.ScopeGeneric, "", rules.SelectorSKU, "sku-1", catalog.AttributeFilter{}, -1, 5, 0, "", templateAt)
	_, errInverted := rules.NewTemplate("tpl-2", rules.ScopeGeneric, "", rules.SelectorSKU, "sku-1", catalog.AttributeFilter{}, 6, 5, 0, "", templateAt)

	// Assert
	assert.Error(t, errNegative)
	assert.Error(t, errInverted)
}

func TestNewTemplate_LocationScopeNeedsZone(t *testing.T) {
	// Act
	_, err := rules.NewTemplate("tpl-1", rules.ScopeLocation, "", rules.SelectorSKU, "sku-1", catalog.AttributeFilter{}, 1, 5, 0, "", templateAt)

	// Assert
	assert.Error(t, err)
}

func TestNewTemplate_AttributeSelectorNeedsConstraint(t *testing.T) {
	// Act
	_, err := rules.NewTemplate("tpl-1", rules.ScopeGeneric, "", rules.SelectorAttributes, "", catalog.AttributeFilter{}, 1, 5, 0, "", templateAt)

	// Assert
	assert.Error(t, err)
}

func TestTemplate_Deactivate(t *testing.T) {
	// Arrange
	tpl, err := rules.NewTemplate("tpl-1", rules.ScopeGeneric, "", rules.SelectorSKU, "sku-1", catalog.AttributeFilter{}, 1, 5, 0, "", templateAt)
	require.NoError(t, err)

	// Act
	first := tpl.Deactivate(templateAt.Add(time.Hour))
	second := tpl.Deactivate(templateAt.Add(2 * time.Hour))

	// Assert
	assert.True(t, first)
	assert.False(t, second)
	assert.False(t, tpl.Active())
	assert.Equal(t, templateAt.Add(time.Hour), tpl.UpdatedAt())
}

func TestTemplate_MatchesSKU(t *testing.T) {
	// Arrange
	jersey := catalog.NewSKU("sku-home-jsy", shared.SourceRFID, "Home JSY", catalog.Variant{Quality: "match"})
	scarf := catalog.NewSKU("sku-scarf", shared.SourceNonRFID, "Scarf", catalog.Variant{Quality: "fan"})

	byID, err := rules.NewTemplate("tpl-1", rules.ScopeGeneric, "", rules.SelectorSKU, "sku-home-jsy", catalog.AttributeFilter{}, 1, 5, 0, "", templateAt)
	require.NoError(t, err)
	byAttr, err := rules.NewTemplate("tpl-2", rules.ScopeGeneric, "", rules.SelectorAttributes, "", catalog.AttributeFilter{Quality: "match"}, 1, 5, 0, "", templateAt)
	require.NoError(t, err)

	// Assert
	assert.True(t, byID.MatchesSKU(jersey))
	assert.False(t, byID.MatchesSKU(scarf))
	assert.True(t, byAttr.MatchesSKU(jersey))
	assert.False(t, byAttr.MatchesSKU(scarf))
}

func TestTemplate_MatchesLocation(t *testing.T) {
	// Arrange
	generic, err := rules.NewTemplate("tpl-1", rules.ScopeGeneric, "", rules.SelectorSKU, "sku-1", catalog.AttributeFilter{}, 1, 5, 0, "", templateAt)
	require.NoError(t, err)
	scoped, err := rules.NewTemplate("tpl-2", rules.ScopeLocation, "zone-floor-a", rules.SelectorSKU, "sku-1", catalog.AttributeFilter{}, 1, 5, 0, "", templateAt)
	require.NoError(t, err)

	// Assert - GENERIC reaches everything except reserved zones
	assert.True(t, generic.MatchesLocation("zone-floor-a", false))
	assert.False(t, generic.MatchesLocation(shared.ZonePrintingWall, true))
	assert.True(t, scoped.MatchesLocation("zone-floor-a", false))
	assert.False(t, scoped.MatchesLocation("zone-floor-b", false))
}
