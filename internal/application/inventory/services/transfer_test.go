package services_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/floorsense-go/internal/application/common"
	ingestCommands "github.com/andrescamacho/floorsense-go/internal/application/ingest/commands"
	"github.com/andrescamacho/floorsense-go/internal/application/setup"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
	"github.com/andrescamacho/floorsense-go/test/helpers"
)

func tagBackroom(t *testing.T, engine *setup.Engine, epc string, at time.Time) {
	t.Helper()
	response := helpers.Send[*ingestCommands.IngestRFIDReadResponse](t, engine, &ingestCommands.IngestRFIDReadCommand{
		EPC:       epc,
		AntennaID: "ant-b1",
		Timestamp: at,
	})
	require.Equal(t, common.StatusAccepted, response.Status)
}

func TestTransferExecutor_MovesOldestSeenTagsFirst(t *testing.T) {
	// Arrange
	engine := planEngine(t)
	ctx := context.Background()
	tagBackroom(t, engine, "epc-1001", helpers.At(time.Second))
	tagBackroom(t, engine, "epc-1002", helpers.At(2*time.Second))
	tagBackroom(t, engine, "epc-1003", helpers.At(3*time.Second))

	// Act
	moved, err := engine.Transfer.Move(ctx, "zone-backroom", "zone-floor-a", "sku-home-jsy",
		shared.SourceRFID, 2, helpers.At(10*time.Second))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 2, moved)

	arrived, err := engine.Presence.FindBySKUAndLocation(ctx, "sku-home-jsy", "zone-floor-a")
	require.NoError(t, err)
	require.Len(t, arrived, 2)
	assert.Equal(t, "epc-1001", arrived[0].EPC)
	assert.Equal(t, "epc-1002", arrived[1].EPC)
	assert.Equal(t, "ant-a1", arrived[0].AntennaID)
	assert.Equal(t, helpers.At(10*time.Second), arrived[0].LastSeenAt)

	stayed, err := engine.Presence.FindBySKUAndLocation(ctx, "sku-home-jsy", "zone-backroom")
	require.NoError(t, err)
	require.Len(t, stayed, 1)
	assert.Equal(t, "epc-1003", stayed[0].EPC)
}

func TestTransferExecutor_MoveLogsSyntheticReads(t *testing.T) {
	// Arrange
	engine := planEngine(t)
	ctx := context.Background()
	tagBackroom(t, engine, "epc-1001", helpers.At(time.Second))

	// Act
	_, err := engine.Transfer.Move(ctx, "zone-backroom", "zone-floor-a", "sku-home-jsy",
		shared.SourceRFID, 1, helpers.At(10*time.Second))
	require.NoError(t, err)

	// Assert
	reads, err := engine.Trail.FindRecentReads(ctx, "zone-floor-a", 10)
	require.NoError(t, err)
	require.Len(t, reads, 1)
	assert.Equal(t, "epc-1001", reads[0].EPC)
	assert.True(t, reads[0].Synthetic)
}

func TestTransferExecutor_SkipsExpiredTags(t *testing.T) {
	// Arrange: one tag long gone, one still fresh.
	engine := planEngine(t)
	ctx := context.Background()
	tagBackroom(t, engine, "epc-1001", helpers.At(time.Second))
	tagBackroom(t, engine, "epc-1002", helpers.At(9*time.Minute))

	// Act
	moved, err := engine.Transfer.Move(ctx, "zone-backroom", "zone-floor-a", "sku-home-jsy",
		shared.SourceRFID, 2, helpers.At(10*time.Minute))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 1, moved)

	arrived, err := engine.Presence.FindBySKUAndLocation(ctx, "sku-home-jsy", "zone-floor-a")
	require.NoError(t, err)
	require.Len(t, arrived, 1)
	assert.Equal(t, "epc-1002", arrived[0].EPC)
}

func TestTransferExecutor_NonRFIDMovesThroughTheLedger(t *testing.T) {
	// Arrange
	engine := planEngine(t)
	ctx := context.Background()

	// Act
	moved, err := engine.Transfer.Move(ctx, "zone-backroom", "zone-floor-a", "sku-scarf",
		shared.SourceNonRFID, 4, helpers.At(time.Minute))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 4, moved)

	source, err := engine.Ledger.Quantity(ctx, "zone-backroom", "sku-scarf")
	require.NoError(t, err)
	assert.Equal(t, 6, source)
	destination, err := engine.Ledger.Quantity(ctx, "zone-floor-a", "sku-scarf")
	require.NoError(t, err)
	assert.Equal(t, 6, destination) // baseline 2 plus the 4 that arrived
}

func TestTransferExecutor_NonRFIDMoveCapsAtSourceStock(t *testing.T) {
	// Arrange
	engine := planEngine(t)
	ctx := context.Background()

	// Act
	moved, err := engine.Transfer.Move(ctx, "zone-backroom", "zone-floor-a", "sku-scarf",
		shared.SourceNonRFID, 99, helpers.At(time.Minute))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 10, moved)

	source, err := engine.Ledger.Quantity(ctx, "zone-backroom", "sku-scarf")
	require.NoError(t, err)
	assert.Equal(t, 0, source)
}

func TestTransferExecutor_ExternalSourceSynthesisesTags(t *testing.T) {
	// Arrange
	engine := planEngine(t)
	ctx := context.Background()

	// Act
	moved, err := engine.Transfer.Move(ctx, "external-dc-north", "zone-floor-a", "sku-home-jsy",
		shared.SourceRFID, 3, helpers.At(time.Minute))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 3, moved)

	arrived, err := engine.Presence.FindBySKUAndLocation(ctx, "sku-home-jsy", "zone-floor-a")
	require.NoError(t, err)
	require.Len(t, arrived, 3)
	for _, record := range arrived {
		assert.True(t, strings.HasPrefix(record.EPC, "epc-syn-"), "EPC %s is not synthetic", record.EPC)
		assert.Equal(t, "ant-a1", record.AntennaID)

		skuID, active, err := engine.Mappings.ActiveSKU(ctx, record.EPC, helpers.At(time.Minute))
		require.NoError(t, err)
		require.True(t, active)
		assert.Equal(t, "sku-home-jsy", skuID)
	}

	reads, err := engine.Trail.FindRecentReads(ctx, "zone-floor-a", 10)
	require.NoError(t, err)
	require.Len(t, reads, 3)
	for _, read := range reads {
		assert.True(t, read.Synthetic)
	}
}

func TestTransferExecutor_ExternalSourceCreditsTheLedger(t *testing.T) {
	// Arrange
	engine := planEngine(t)
	ctx := context.Background()

	// Act
	moved, err := engine.Transfer.Move(ctx, "external-dc-north", "zone-floor-a", "sku-scarf",
		shared.SourceNonRFID, 5, helpers.At(time.Minute))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 5, moved)

	destination, err := engine.Ledger.Quantity(ctx, "zone-floor-a", "sku-scarf")
	require.NoError(t, err)
	assert.Equal(t, 7, destination)
}

func TestTransferExecutor_ZeroQtyIsANoop(t *testing.T) {
	// Arrange
	engine := planEngine(t)
	ctx := context.Background()

	// Act
	moved, err := engine.Transfer.Move(ctx, "zone-backroom", "zone-floor-a", "sku-scarf",
		shared.SourceNonRFID, 0, helpers.At(time.Minute))

	// Assert
	require.NoError(t, err)
	assert.Equal(t, 0, moved)
	quantity, err := engine.Ledger.Quantity(ctx, "zone-backroom", "sku-scarf")
	require.NoError(t, err)
	assert.Equal(t, 10, quantity)
}
