package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/floorsense-go/internal/application/common"
	"github.com/andrescamacho/floorsense-go/internal/application/ingest/commands"
	"github.com/andrescamacho/floorsense-go/internal/application/setup"
	"github.com/andrescamacho/floorsense-go/internal/domain/catalog"
	"github.com/andrescamacho/floorsense-go/internal/domain/ledger"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
	"github.com/andrescamacho/floorsense-go/internal/domain/snapshot"
	"github.com/andrescamacho/floorsense-go/internal/infrastructure/dataset"
	"github.com/andrescamacho/floorsense-go/test/helpers"
)

// readFloor is a two-zone floor with no rule templates, so reads are the
// only thing moving snapshots.
func readFloor() *dataset.Store {
	return &dataset.Store{
		Locations: []dataset.Location{
			{ID: "zone-floor-a", Name: "Floor A", Colour: "#1565c0", IsSales: true, Sources: []string{"zone-backroom"}, Antennas: []string{"ant-a1"}},
			{ID: "zone-backroom", Name: "Backroom", Colour: "#6d4c41", IsSales: false, Antennas: []string{"ant-br1"}},
		},
		SKUs: []dataset.SKU{
			{ID: "sku-home-jsy", Source: "RFID", Title: "Home JSY 24/25", Variant: catalog.Variant{Kit: "home", Role: "player"}},
			{ID: "sku-scarf", Source: "NON_RFID", Title: "Supporter Scarf", Variant: catalog.Variant{Quality: "fan"}},
		},
		Mappings: []dataset.Mapping{
			{EPC: "epc-1001", SKUID: "sku-home-jsy"},
			{EPC: "epc-1002", SKUID: "sku-home-jsy"},
		},
		Baselines: []dataset.Baseline{
			{LocationID: "zone-floor-a", SKUID: "sku-scarf", Qty: 6},
		},
	}
}

func readEngine(t *testing.T) *setup.Engine {
	t.Helper()
	engine := helpers.NewEngine(t)
	helpers.Seed(t, engine, readFloor())
	return engine
}

func rfidSnapshot(t *testing.T, engine *setup.Engine, locationID, skuID string) (snapshot.Snapshot, bool) {
	t.Helper()
	row, ok, err := engine.Snapshots.Find(context.Background(),
		snapshot.Key{LocationID: locationID, SKUID: skuID, Source: shared.SourceRFID})
	require.NoError(t, err)
	return row, ok
}

func TestIngestRFIDReadHandler_AcceptedPublishesPresence(t *testing.T) {
	// Arrange
	engine := readEngine(t)

	// Act
	response := helpers.Send[*commands.IngestRFIDReadResponse](t, engine, &commands.IngestRFIDReadCommand{
		EPC:       "epc-1001",
		AntennaID: "ant-a1",
		Timestamp: helpers.At(time.Second),
	})

	// Assert
	assert.Equal(t, common.StatusAccepted, response.Status)
	assert.Equal(t, "zone-floor-a", response.LocationID)
	assert.Equal(t, "sku-home-jsy", response.SKUID)
	assert.Equal(t, 0, response.PicksConsumed)

	row, ok := rfidSnapshot(t, engine, "zone-floor-a", "sku-home-jsy")
	require.True(t, ok)
	assert.Equal(t, 1, row.Qty())
	require.NotNil(t, row.Confidence())
	assert.True(t, row.Confidence().Equal(snapshot.ConfidencePresent))

	record, present, err := engine.Presence.FindByEPC(context.Background(), "epc-1001")
	require.NoError(t, err)
	require.True(t, present)
	assert.Equal(t, "zone-floor-a", record.LocationID)
	assert.Equal(t, "ant-a1", record.AntennaID)
}

func TestIngestRFIDReadHandler_DedupWindow(t *testing.T) {
	// Arrange
	engine := readEngine(t)
	first := helpers.Send[*commands.IngestRFIDReadResponse](t, engine, &commands.IngestRFIDReadCommand{
		EPC: "epc-1001", AntennaID: "ant-a1", Timestamp: helpers.At(10 * time.Second),
	})
	require.Equal(t, common.StatusAccepted, first.Status)

	// Act - 10s later is inside the 15s window, 16s later is outside
	duplicate := helpers.Send[*commands.IngestRFIDReadResponse](t, engine, &commands.IngestRFIDReadCommand{
		EPC: "epc-1001", AntennaID: "ant-a1", Timestamp: helpers.At(20 * time.Second),
	})
	refreshed := helpers.Send[*commands.IngestRFIDReadResponse](t, engine, &commands.IngestRFIDReadCommand{
		EPC: "epc-1001", AntennaID: "ant-a1", Timestamp: helpers.At(26 * time.Second),
	})

	// Assert
	assert.Equal(t, common.StatusDuplicateIgnored, duplicate.Status)
	assert.Equal(t, common.StatusAccepted, refreshed.Status)

	// the duplicate neither advanced the cursor nor refreshed the record
	record, _, err := engine.Presence.FindByEPC(context.Background(), "epc-1001")
	require.NoError(t, err)
	assert.Equal(t, helpers.At(26*time.Second), record.LastSeenAt)
}

func TestIngestRFIDReadHandler_SameEPCOtherAntennaIsNotADuplicate(t *testing.T) {
	// Arrange - dedup is keyed per (epc, antenna) pair
	engine := readEngine(t)
	helpers.Send[*commands.IngestRFIDReadResponse](t, engine, &commands.IngestRFIDReadCommand{
		EPC: "epc-1001", AntennaID: "ant-a1", Timestamp: helpers.At(time.Second),
	})

	// Act
	moved := helpers.Send[*commands.IngestRFIDReadResponse](t, engine, &commands.IngestRFIDReadCommand{
		EPC: "epc-1001", AntennaID: "ant-br1", Timestamp: helpers.At(2 * time.Second),
	})

	// Assert
	assert.Equal(t, common.StatusAccepted, moved.Status)
	assert.Equal(t, "zone-backroom", moved.LocationID)
}

func TestIngestRFIDReadHandler_UnknownEPC(t *testing.T) {
	// Arrange
	engine := readEngine(t)

	// Act
	response := helpers.Send[*commands.IngestRFIDReadResponse](t, engine, &commands.IngestRFIDReadCommand{
		EPC: "epc-9999", AntennaID: "ant-a1", Timestamp: helpers.At(time.Second),
	})

	// Assert - rejected reads never advance the cursor or land in dedup
	assert.Equal(t, common.StatusUnknownEPC, response.Status)
	assert.Equal(t, helpers.EngineStart, engine.Cursor.Value())

	again := helpers.Send[*commands.IngestRFIDReadResponse](t, engine, &commands.IngestRFIDReadCommand{
		EPC: "epc-9999", AntennaID: "ant-a1", Timestamp: helpers.At(2 * time.Second),
	})
	assert.Equal(t, common.StatusUnknownEPC, again.Status)
}

func TestIngestRFIDReadHandler_UnknownAntenna(t *testing.T) {
	// Arrange
	engine := readEngine(t)

	// Act
	response := helpers.Send[*commands.IngestRFIDReadResponse](t, engine, &commands.IngestRFIDReadCommand{
		EPC: "epc-1001", AntennaID: "ant-ghost", Timestamp: helpers.At(time.Second),
	})

	// Assert
	assert.Equal(t, common.StatusInvalidAntennaOrZone, response.Status)
}

func TestIngestRFIDReadHandler_ZoneHintMustMatchAntenna(t *testing.T) {
	// Arrange
	engine := readEngine(t)

	// Act
	response := helpers.Send[*commands.IngestRFIDReadResponse](t, engine, &commands.IngestRFIDReadCommand{
		EPC: "epc-1001", AntennaID: "ant-a1", LocationID: "zone-backroom", Timestamp: helpers.At(time.Second),
	})

	// Assert
	assert.Equal(t, common.StatusInvalidAntennaOrZone, response.Status)
}

func TestIngestRFIDReadHandler_MoveRecomputesBothZones(t *testing.T) {
	// Arrange
	engine := readEngine(t)
	helpers.Send[*commands.IngestRFIDReadResponse](t, engine, &commands.IngestRFIDReadCommand{
		EPC: "epc-1001", AntennaID: "ant-a1", Timestamp: helpers.At(time.Second),
	})

	// Act - the tag walks to the backroom
	response := helpers.Send[*commands.IngestRFIDReadResponse](t, engine, &commands.IngestRFIDReadCommand{
		EPC: "epc-1001", AntennaID: "ant-br1", Timestamp: helpers.At(30 * time.Second),
	})

	// Assert - one record per EPC: the origin drops to an empty count
	require.Equal(t, common.StatusAccepted, response.Status)

	origin, ok := rfidSnapshot(t, engine, "zone-floor-a", "sku-home-jsy")
	require.True(t, ok)
	assert.Equal(t, 0, origin.Qty())
	assert.True(t, origin.Confidence().Equal(snapshot.ConfidenceEmpty))

	destination, ok := rfidSnapshot(t, engine, "zone-backroom", "sku-home-jsy")
	require.True(t, ok)
	assert.Equal(t, 1, destination.Qty())
	assert.True(t, destination.Confidence().Equal(snapshot.ConfidencePresent))
}

func TestIngestRFIDReadHandler_PresenceExpiresAgainstCursor(t *testing.T) {
	// Arrange
	engine := readEngine(t)
	helpers.Send[*commands.IngestRFIDReadResponse](t, engine, &commands.IngestRFIDReadCommand{
		EPC: "epc-1001", AntennaID: "ant-a1", Timestamp: helpers.At(time.Second),
	})

	// Act - an unrelated sales event 6 minutes on drags the cursor past the
	// TTL and recomputes the zone
	sale := helpers.Send[*commands.IngestSalesEventResponse](t, engine, &commands.IngestSalesEventCommand{
		SKUID: "sku-scarf", LocationID: "zone-floor-a", EventType: ledger.EntryKindSale, Qty: 1,
		Timestamp: helpers.At(6 * time.Minute),
	})

	// Assert
	require.Equal(t, common.StatusAccepted, sale.Status)
	row, ok := rfidSnapshot(t, engine, "zone-floor-a", "sku-home-jsy")
	require.True(t, ok)
	assert.Equal(t, 0, row.Qty())
	assert.True(t, row.Confidence().Equal(snapshot.ConfidenceEmpty))
}

func TestIngestRFIDReadHandler_RecordsRecentRead(t *testing.T) {
	// Arrange
	engine := readEngine(t)

	// Act
	helpers.Send[*commands.IngestRFIDReadResponse](t, engine, &commands.IngestRFIDReadCommand{
		EPC: "epc-1001", AntennaID: "ant-a1", Timestamp: helpers.At(time.Second),
	})

	// Assert
	reads, err := engine.Trail.FindRecentReads(context.Background(), "zone-floor-a", 10)
	require.NoError(t, err)
	require.Len(t, reads, 1)
	assert.Equal(t, "epc-1001", reads[0].EPC)
	assert.False(t, reads[0].Synthetic)
}
