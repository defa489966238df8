package commands_test

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/floorsense-go/internal/application/common"
	"github.com/andrescamacho/floorsense-go/internal/application/layout/commands"
	ruleCommands "github.com/andrescamacho/floorsense-go/internal/application/rules/commands"
	"github.com/andrescamacho/floorsense-go/internal/application/setup"
	"github.com/andrescamacho/floorsense-go/internal/domain/catalog"
	"github.com/andrescamacho/floorsense-go/internal/domain/layout"
	"github.com/andrescamacho/floorsense-go/internal/domain/rules"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
	"github.com/andrescamacho/floorsense-go/internal/infrastructure/dataset"
	"github.com/andrescamacho/floorsense-go/test/helpers"
)

func layoutStore() *dataset.Store {
	return &dataset.Store{
		Locations: []dataset.Location{
			{ID: "zone-floor-a", Name: "Floor A", Colour: "#1565c0", IsSales: true, Sources: []string{"zone-backroom"}, Antennas: []string{"ant-a1"}},
			{ID: "zone-backroom", Name: "Backroom", Colour: "#6d4c41", IsSales: false, Antennas: []string{"ant-b1"}},
		},
		Externals: []dataset.External{
			{ID: "external-dc-north", Label: "DC North"},
		},
		SKUs: []dataset.SKU{
			{ID: "sku-scarf", Source: "NON_RFID", Title: "Supporter Scarf", Variant: catalog.Variant{Quality: "fan"}},
		},
		Baselines: []dataset.Baseline{
			{LocationID: "zone-backroom", SKUID: "sku-scarf", Qty: 9},
		},
	}
}

func layoutEngine(t *testing.T) *setup.Engine {
	t.Helper()
	engine := helpers.NewEngine(t)
	helpers.Seed(t, engine, layoutStore())
	return engine
}

func reloadLocation(t *testing.T, engine *setup.Engine, id string) *layout.Location {
	t.Helper()
	location, err := engine.Locations.FindByID(context.Background(), id)
	require.NoError(t, err)
	return location
}

func TestCreateLocationHandler_RegistersAZone(t *testing.T) {
	// Arrange
	engine := layoutEngine(t)
	ctx := context.Background()

	// Act
	response := helpers.Send[*commands.CreateLocationResponse](t, engine, &commands.CreateLocationCommand{
		ID:      "zone-floor-b",
		Name:    "Floor B",
		Polygon: []layout.Point{{X: 0, Y: 0}, {X: 4, Y: 0}, {X: 4, Y: 3}, {X: 0, Y: 3}},
		Colour:  "#2e7d32",
		IsSales: true,
		Sources: []string{"zone-backroom"},
		AntennaIDs: []string{
			"ant-c1",
		},
	})

	// Assert
	require.Equal(t, common.StatusAccepted, response.Status)
	location := reloadLocation(t, engine, "zone-floor-b")
	assert.Equal(t, "Floor B", location.Name())
	assert.True(t, location.IsSales())
	assert.Equal(t, []string{"zone-backroom"}, location.Sources())
	assert.Len(t, location.Polygon(), 4)
	require.Len(t, location.Antennas(), 1)
	assert.Equal(t, "ant-c1", location.Antennas()[0].ID())

	byAntenna, err := engine.Locations.FindByAntenna(ctx, "ant-c1")
	require.NoError(t, err)
	assert.Equal(t, "zone-floor-b", byAntenna.ID())
}

func TestCreateLocationHandler_GeneratesAnIDWhenMissing(t *testing.T) {
	// Arrange
	engine := layoutEngine(t)

	// Act
	response := helpers.Send[*commands.CreateLocationResponse](t, engine, &commands.CreateLocationCommand{
		Name:    "Pop-up Corner",
		Colour:  "#f9a825",
		IsSales: true,
	})

	// Assert
	require.Equal(t, common.StatusAccepted, response.Status)
	require.NotNil(t, response.Location)
	assert.True(t, strings.HasPrefix(response.Location.ID(), "zone-"))
	exists, err := engine.Locations.Exists(context.Background(), response.Location.ID())
	require.NoError(t, err)
	assert.True(t, exists)
}

func TestCreateLocationHandler_GenericTemplatesCoverTheNewZone(t *testing.T) {
	// Arrange: a store-wide scarf band is already live.
	engine := layoutEngine(t)
	template := helpers.Send[*ruleCommands.UpsertRuleTemplateResponse](t, engine, &ruleCommands.UpsertRuleTemplateCommand{
		Scope:    rules.ScopeGeneric,
		Selector: rules.SelectorSKU,
		SKUID:    "sku-scarf",
		Min:      1,
		Max:      3,
		Priority: 5,
	})
	require.Equal(t, common.StatusAccepted, template.Status)
	require.Equal(t, 2, template.RulesManaged)

	// Act
	response := helpers.Send[*commands.CreateLocationResponse](t, engine, &commands.CreateLocationCommand{
		ID:      "zone-floor-b",
		Name:    "Floor B",
		Colour:  "#2e7d32",
		IsSales: true,
		Sources: []string{"zone-backroom"},
	})

	// Assert: the zone picks up an effective rule and an opening top-up.
	require.Equal(t, common.StatusAccepted, response.Status)
	rule, err := engine.Registry.Find(context.Background(), "zone-floor-b", "sku-scarf", shared.SourceNonRFID)
	require.NoError(t, err)
	assert.Equal(t, 1, rule.Min())
	assert.Equal(t, 3, rule.Max())

	tasks, err := engine.Tasks.FindOpen(context.Background())
	require.NoError(t, err)
	found := false
	for _, task := range tasks {
		if task.Destination() == "zone-floor-b" && task.SKUID() == "sku-scarf" {
			found = true
			assert.Equal(t, 3, task.DeficitQty())
			assert.Equal(t, "zone-backroom", task.SourceZoneID())
		}
	}
	assert.True(t, found, "expected an opening top-up for the new zone")
}

func TestCreateLocationHandler_RejectsBadInput(t *testing.T) {
	testCases := []struct {
		name string
		cmd  *commands.CreateLocationCommand
		want common.Status
	}{
		{
			name: "reserved id",
			cmd:  &commands.CreateLocationCommand{ID: shared.ZoneCashierStorage, Name: "Cashier", Colour: "#000"},
			want: common.StatusReservedZoneID,
		},
		{
			name: "degenerate polygon",
			cmd: &commands.CreateLocationCommand{
				ID: "zone-flat", Name: "Flat", Colour: "#000",
				Polygon: []layout.Point{{X: 0, Y: 0}, {X: 1, Y: 1}},
			},
			want: common.StatusInvalidPolygon,
		},
		{
			name: "duplicate id",
			cmd:  &commands.CreateLocationCommand{ID: "zone-floor-a", Name: "Clone", Colour: "#000"},
			want: common.StatusZoneExists,
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			engine := layoutEngine(t)

			// Act
			response := helpers.Send[*commands.CreateLocationResponse](t, engine, tc.cmd)

			// Assert
			assert.Equal(t, tc.want, response.Status)
		})
	}
}
