package layout_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/floorsense-go/internal/domain/layout"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
)

var layoutAt = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func newFloorA() *layout.Location {
	return layout.NewLocation(
		"zone-floor-a",
		"Floor A",
		[]layout.Point{{X: 0, Y: 0}, {X: 10, Y: 0}, {X: 10, Y: 8}},
		"#1565c0",
		true,
		[]string{"zone-backroom", "external-dc-north"},
		[]layout.Antenna{layout.NewAntenna("ant-a1", "zone-floor-a"), layout.NewAntenna("ant-a2", "zone-floor-a")},
		layoutAt,
	)
}

func TestLocation_PrimaryAntenna(t *testing.T) {
	// Arrange
	zone := newFloorA()
	bare := layout.NewLocation("zone-window", "Window", nil, "#fff", true, nil, nil, layoutAt)

	// Act
	primary, ok := zone.PrimaryAntenna()
	_, bareOK := bare.PrimaryAntenna()

	// Assert
	require.True(t, ok)
	assert.Equal(t, "ant-a1", primary.ID())
	assert.False(t, bareOK)
}

func TestLocation_SourceHelpers(t *testing.T) {
	// Arrange
	zone := newFloorA()

	// Assert
	assert.True(t, zone.HasSource("zone-backroom"))
	assert.False(t, zone.HasSource("zone-floor-b"))

	// Act
	removed := zone.RemoveSource("zone-backroom")
	missing := zone.RemoveSource("zone-backroom")

	// Assert
	assert.True(t, removed)
	assert.False(t, missing)
	assert.Equal(t, []string{"external-dc-north"}, zone.Sources())
}

func TestLocation_SetAntennasRebinds(t *testing.T) {
	// Arrange
	zone := newFloorA()

	// Act
	zone.SetAntennas([]string{"ant-new"})

	// Assert
	antennas := zone.Antennas()
	require.Len(t, antennas, 1)
	assert.Equal(t, "ant-new", antennas[0].ID())
	assert.Equal(t, "zone-floor-a", antennas[0].LocationID())
	assert.True(t, zone.HasAntenna("ant-new"))
	assert.False(t, zone.HasAntenna("ant-a1"))
}

func TestLocation_CloneIsDeep(t *testing.T) {
	// Arrange
	zone := newFloorA()

	// Act
	clone := zone.Clone()
	clone.SetSources([]string{"zone-other"})
	clone.Rename("Mutated")

	// Assert
	assert.Equal(t, "Floor A", zone.Name())
	assert.Equal(t, []string{"zone-backroom", "external-dc-north"}, zone.Sources())
}

func TestLocation_IsReserved(t *testing.T) {
	// Arrange
	wall := layout.NewLocation(shared.ZonePrintingWall, "Printing Wall", nil, "#9e9e9e", false, nil, nil, layoutAt)

	// Assert
	assert.True(t, wall.IsReserved())
	assert.False(t, newFloorA().IsReserved())
}
