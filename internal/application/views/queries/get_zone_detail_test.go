package queries_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/floorsense-go/internal/application/common"
	ingestCommands "github.com/andrescamacho/floorsense-go/internal/application/ingest/commands"
	"github.com/andrescamacho/floorsense-go/internal/application/views/queries"
	"github.com/andrescamacho/floorsense-go/internal/domain/layout"
	"github.com/andrescamacho/floorsense-go/test/helpers"
)

func TestGetZoneDetailHandler_AssemblesTheZone(t *testing.T) {
	// Arrange: two jerseys read on floor A plus a low scarf rule.
	engine := viewsEngine(t)
	installRule(t, engine, "zone-floor-a", "sku-scarf", 6, 12)

	rssi := -52.5
	first := helpers.Send[*ingestCommands.IngestRFIDReadResponse](t, engine, &ingestCommands.IngestRFIDReadCommand{
		EPC:       "epc-1001",
		AntennaID: "ant-a1",
		Timestamp: helpers.At(1 * time.Second),
		RSSI:      &rssi,
	})
	require.Equal(t, common.StatusAccepted, first.Status)
	second := helpers.Send[*ingestCommands.IngestRFIDReadResponse](t, engine, &ingestCommands.IngestRFIDReadCommand{
		EPC:       "epc-1002",
		AntennaID: "ant-a1",
		Timestamp: helpers.At(2 * time.Second),
	})
	require.Equal(t, common.StatusAccepted, second.Status)

	// Act
	response := helpers.Send[*queries.GetZoneDetailResponse](t, engine, &queries.GetZoneDetailQuery{LocationID: "zone-floor-a"})

	// Assert: the zone card
	require.NotNil(t, response.Location)
	assert.Equal(t, "zone-floor-a", response.Location.ID)
	assert.Equal(t, "Floor A", response.Location.Name)
	assert.Equal(t, []string{"ant-a1"}, response.Location.Antennas)

	// Assert: snapshots sorted by SKU, RFID row counted with confidence
	require.Len(t, response.Snapshots, 2)
	jersey := response.Snapshots[0]
	assert.Equal(t, "sku-home-jsy", jersey.SKUID)
	assert.Equal(t, "RFID", jersey.Source)
	assert.Equal(t, 2, jersey.Qty)
	require.NotNil(t, jersey.Confidence)
	assert.InDelta(t, 0.9, *jersey.Confidence, 0.0001)
	scarf := response.Snapshots[1]
	assert.Equal(t, "sku-scarf", scarf.SKUID)
	assert.Equal(t, "NON_RFID", scarf.Source)
	assert.Equal(t, 4, scarf.Qty)
	assert.Nil(t, scarf.Confidence)

	// Assert: the effective rule and the task it opened
	require.Len(t, response.Rules, 1)
	assert.Equal(t, "rule-zone-floor-a-sku-scarf-non_rfid", response.Rules[0].ID)
	assert.Equal(t, 6, response.Rules[0].Min)
	assert.Equal(t, 12, response.Rules[0].Max)
	require.Len(t, response.OpenTasks, 1)
	assert.Equal(t, 8, response.OpenTasks[0].DeficitQty)

	// Assert: read buffer newest first
	require.Len(t, response.RecentReads, 2)
	assert.Equal(t, "epc-1002", response.RecentReads[0].EPC)
	assert.Equal(t, "epc-1001", response.RecentReads[1].EPC)
	assert.Equal(t, "ant-a1", response.RecentReads[1].AntennaID)
	require.NotNil(t, response.RecentReads[1].RSSI)
	assert.InDelta(t, -52.5, *response.RecentReads[1].RSSI, 0.0001)
	assert.False(t, response.RecentReads[1].Synthetic)
}

func TestGetZoneDetailHandler_ReadLimitCapsTheBuffer(t *testing.T) {
	// Arrange
	engine := viewsEngine(t)
	for i, epc := range []string{"epc-1001", "epc-1002"} {
		response := helpers.Send[*ingestCommands.IngestRFIDReadResponse](t, engine, &ingestCommands.IngestRFIDReadCommand{
			EPC:       epc,
			AntennaID: "ant-a1",
			Timestamp: helpers.At(time.Duration(i+1) * time.Second),
		})
		require.Equal(t, common.StatusAccepted, response.Status)
	}

	// Act
	response := helpers.Send[*queries.GetZoneDetailResponse](t, engine, &queries.GetZoneDetailQuery{
		LocationID: "zone-floor-a",
		ReadLimit:  1,
	})

	// Assert: only the newest read survives the cap
	require.Len(t, response.RecentReads, 1)
	assert.Equal(t, "epc-1002", response.RecentReads[0].EPC)
}

func TestGetZoneDetailHandler_UnknownZone(t *testing.T) {
	// Arrange
	engine := viewsEngine(t)

	// Act
	_, err := engine.Mediator.Send(context.Background(), &queries.GetZoneDetailQuery{LocationID: "zone-ghost"})

	// Assert
	require.Error(t, err)
	var notFound *layout.ErrLocationNotFound
	assert.ErrorAs(t, err, &notFound)
}
