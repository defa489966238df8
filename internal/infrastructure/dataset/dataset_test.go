package dataset_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
	"github.com/andrescamacho/floorsense-go/internal/domain/snapshot"
	"github.com/andrescamacho/floorsense-go/internal/infrastructure/dataset"
	"github.com/andrescamacho/floorsense-go/test/helpers"
)

func TestLoad_EmptyPathReturnsTheDemoStore(t *testing.T) {
	// Act
	store, err := dataset.Load("")

	// Assert
	require.NoError(t, err)
	assert.Len(t, store.Locations, 3)
	assert.Len(t, store.SKUs, 5)
	assert.Len(t, store.Templates, 3)
	assert.Len(t, store.Staff, 3)
}

func TestLoad_ReadsAStoreFile(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "store.json")
	payload := `{
		"locations": [
			{"id": "zone-floor-a", "name": "Floor A", "colour": "#1565c0", "isSales": true, "sources": ["zone-backroom"], "antennas": ["ant-a1"]}
		],
		"externals": [
			{"id": "external-dc-north", "label": "DC North"}
		],
		"skus": [
			{"id": "sku-scarf", "source": "NON_RFID", "title": "Supporter Scarf", "variant": {"quality": "fan"}}
		],
		"epcMappings": [
			{"epc": "epc-1001", "skuId": "sku-scarf"}
		],
		"baselines": [
			{"locationId": "zone-floor-a", "skuId": "sku-scarf", "qty": 7}
		],
		"ruleTemplates": [
			{"id": "tpl-scarf", "scope": "GENERIC", "selector": "SKU", "skuId": "sku-scarf", "min": 1, "max": 4, "priority": 5}
		],
		"staff": [
			{"id": "staff-amara", "name": "Amara", "role": "ASSOCIATE", "onShift": true, "scopeAll": true}
		]
	}`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	// Act
	store, err := dataset.Load(path)

	// Assert
	require.NoError(t, err)
	require.Len(t, store.Locations, 1)
	assert.Equal(t, "zone-floor-a", store.Locations[0].ID)
	assert.Equal(t, []string{"ant-a1"}, store.Locations[0].Antennas)
	require.Len(t, store.Baselines, 1)
	assert.Equal(t, 7, store.Baselines[0].Qty)
	require.Len(t, store.Templates, 1)
	assert.Equal(t, 4, store.Templates[0].Max)
	require.Len(t, store.Staff, 1)
	assert.True(t, store.Staff[0].ScopeAll)
}

func TestLoad_MissingFile(t *testing.T) {
	// Act
	_, err := dataset.Load(filepath.Join(t.TempDir(), "absent.json"))

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to read dataset")
}

func TestLoad_MalformedFile(t *testing.T) {
	// Arrange
	path := filepath.Join(t.TempDir(), "broken.json")
	require.NoError(t, os.WriteFile(path, []byte("{"), 0o644))

	// Act
	_, err := dataset.Load(path)

	// Assert
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse dataset")
}

func TestApply_SeedsAndBootstrapProjects(t *testing.T) {
	// Arrange
	engine := helpers.NewEngine(t)
	ctx := context.Background()

	// Act
	require.NoError(t, dataset.Apply(ctx, engine, dataset.Demo(), helpers.EngineStart))
	require.NoError(t, engine.Bootstrap(ctx))

	// Assert: the floor plus the implicit printing wall.
	locations, err := engine.Locations.FindAll(ctx)
	require.NoError(t, err)
	assert.Len(t, locations, 4)
	registered, err := engine.Externals.Exists(ctx, "external-dc-north")
	require.NoError(t, err)
	assert.True(t, registered)

	// The pinned floor template outranks the store-wide match-kit band.
	rule, err := engine.Registry.Find(ctx, "zone-floor-a", "sku-home-jsy", shared.SourceRFID)
	require.NoError(t, err)
	assert.Equal(t, 3, rule.Min())
	assert.Equal(t, 8, rule.Max())
	generic, err := engine.Registry.Find(ctx, "zone-floor-b", "sku-away-jsy", shared.SourceRFID)
	require.NoError(t, err)
	assert.Equal(t, 2, generic.Min())
	assert.Equal(t, 6, generic.Max())

	// Baselines surface as snapshots once Bootstrap recomputes.
	row, ok, err := engine.Snapshots.Find(ctx, snapshot.Key{LocationID: "zone-backroom", SKUID: "sku-scarf", Source: shared.SourceNonRFID})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 40, row.Qty())

	// The opening plan raises floor top-ups and backroom receiving orders,
	// and the on-shift roster takes them over.
	tasks, err := engine.Tasks.FindOpen(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, tasks)
	orders, err := engine.Orders.FindInTransit(ctx)
	require.NoError(t, err)
	assert.NotEmpty(t, orders)
	for _, task := range tasks {
		assert.NotEmpty(t, task.AssignedStaffID(), "task %s should be assigned", task.ID())
	}

	onShift, err := engine.Staff.FindOnShift(ctx)
	require.NoError(t, err)
	assert.Len(t, onShift, 2)
}

func TestApply_RejectsBadSeeds(t *testing.T) {
	testCases := []struct {
		name    string
		store   *dataset.Store
		wantErr string
	}{
		{
			name: "reserved zone id",
			store: &dataset.Store{
				Locations: []dataset.Location{{ID: shared.ZonePrintingWall, Name: "Wall", Colour: "#9e9e9e"}},
			},
			wantErr: "reserved zone ids",
		},
		{
			name: "unprefixed external id",
			store: &dataset.Store{
				Externals: []dataset.External{{ID: "dc-north", Label: "DC North"}},
			},
			wantErr: "external- prefix",
		},
		{
			name: "unknown sku source",
			store: &dataset.Store{
				SKUs: []dataset.SKU{{ID: "sku-scarf", Source: "PAPER", Title: "Scarf"}},
			},
			wantErr: "dataset sku sku-scarf",
		},
		{
			name: "inverted template bounds",
			store: &dataset.Store{
				SKUs: []dataset.SKU{{ID: "sku-scarf", Source: "NON_RFID", Title: "Scarf"}},
				Templates: []dataset.Template{
					{ID: "tpl-bad", Scope: "GENERIC", Selector: "SKU", SKUID: "sku-scarf", Min: 5, Max: 2, Priority: 1},
				},
			},
			wantErr: "dataset template tpl-bad",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// Arrange
			engine := helpers.NewEngine(t)

			// Act
			err := dataset.Apply(context.Background(), engine, tc.store, helpers.EngineStart)

			// Assert
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.wantErr)
		})
	}
}
