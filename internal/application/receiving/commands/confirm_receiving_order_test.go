package commands_test

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/floorsense-go/internal/application/common"
	ingestCommands "github.com/andrescamacho/floorsense-go/internal/application/ingest/commands"
	"github.com/andrescamacho/floorsense-go/internal/application/receiving/commands"
	"github.com/andrescamacho/floorsense-go/internal/application/setup"
	"github.com/andrescamacho/floorsense-go/internal/domain/audit"
	"github.com/andrescamacho/floorsense-go/internal/domain/ledger"
	"github.com/andrescamacho/floorsense-go/internal/domain/receiving"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
	"github.com/andrescamacho/floorsense-go/internal/domain/snapshot"
	"github.com/andrescamacho/floorsense-go/test/helpers"
)

func createOrder(t *testing.T, engine *setup.Engine, sourceID, skuID string, qty int) string {
	t.Helper()
	response := helpers.Send[*commands.CreateReceivingOrderResponse](t, engine, &commands.CreateReceivingOrderCommand{
		SourceID:      sourceID,
		DestinationID: "zone-floor-a",
		SKUID:         skuID,
		RequestedQty:  qty,
	})
	require.Equal(t, common.StatusAccepted, response.Status)
	return response.OrderID
}

func TestConfirmReceivingOrderHandler_ExternalDeliverySynthesisesTags(t *testing.T) {
	// Arrange
	engine := recvEngine(t)
	ctx := context.Background()
	orderID := createOrder(t, engine, "external-dc-north", "sku-home-jsy", 3)

	// Act
	response := helpers.Send[*commands.ConfirmReceivingOrderResponse](t, engine, &commands.ConfirmReceivingOrderCommand{
		OrderID: orderID,
	})

	// Assert: external RFID deliveries always arrive in full, as fresh tags
	// bound to the destination's antenna.
	require.Equal(t, common.StatusConfirmed, response.Status)
	assert.Equal(t, 3, response.MovedQty)

	order, err := engine.Orders.FindByID(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, receiving.OrderStatusConfirmed, order.Status())
	require.NotNil(t, order.ConfirmedQty())
	assert.Equal(t, 3, *order.ConfirmedQty())

	arrived, err := engine.Presence.FindBySKUAndLocation(ctx, "sku-home-jsy", "zone-floor-a")
	require.NoError(t, err)
	require.Len(t, arrived, 3)
	for _, record := range arrived {
		assert.True(t, strings.HasPrefix(record.EPC, "epc-syn-"))
		assert.Equal(t, "ant-a1", record.AntennaID)
	}

	row, ok, err := engine.Snapshots.Find(ctx, snapshot.Key{LocationID: "zone-floor-a", SKUID: "sku-home-jsy", Source: shared.SourceRFID})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, row.Qty())
}

func TestConfirmReceivingOrderHandler_ExternalDeliveryCreditsLedger(t *testing.T) {
	// Arrange
	engine := recvEngine(t)
	orderID := createOrder(t, engine, "external-dc-north", "sku-scarf", 5)

	// Act
	response := helpers.Send[*commands.ConfirmReceivingOrderResponse](t, engine, &commands.ConfirmReceivingOrderCommand{
		OrderID: orderID,
	})

	// Assert
	require.Equal(t, common.StatusConfirmed, response.Status)
	assert.Equal(t, 5, response.MovedQty)

	qty, err := engine.Ledger.Quantity(context.Background(), "zone-floor-a", "sku-scarf")
	require.NoError(t, err)
	assert.Equal(t, 5, qty)
}

func TestConfirmReceivingOrderHandler_InternalDeliveryCapsAtSourceStock(t *testing.T) {
	// Arrange: the backroom holds 6, the order asks for 9.
	engine := recvEngine(t)
	ctx := context.Background()
	orderID := createOrder(t, engine, "zone-backroom", "sku-scarf", 9)

	// Act
	response := helpers.Send[*commands.ConfirmReceivingOrderResponse](t, engine, &commands.ConfirmReceivingOrderCommand{
		OrderID: orderID,
	})

	// Assert: the order closes on what actually arrived.
	require.Equal(t, common.StatusConfirmed, response.Status)
	assert.Equal(t, 6, response.MovedQty)

	order, err := engine.Orders.FindByID(ctx, orderID)
	require.NoError(t, err)
	assert.Equal(t, receiving.OrderStatusConfirmed, order.Status())
	require.NotNil(t, order.ConfirmedQty())
	assert.Equal(t, 6, *order.ConfirmedQty())

	floor, err := engine.Ledger.Quantity(ctx, "zone-floor-a", "sku-scarf")
	require.NoError(t, err)
	assert.Equal(t, 6, floor)
	backroom, err := engine.Ledger.Quantity(ctx, "zone-backroom", "sku-scarf")
	require.NoError(t, err)
	assert.Equal(t, 0, backroom)

	entries, err := engine.Trail.FindEntriesFor(ctx, orderID)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	confirmed := entries[len(entries)-1]
	assert.Equal(t, audit.ActionConfirmed, confirmed.Action)
	assert.Equal(t, "system", confirmed.Actor)
	assert.Equal(t, "moved=6 from=zone-backroom", confirmed.Details)
}

func TestConfirmReceivingOrderHandler_EmptySourceMovesNothing(t *testing.T) {
	// Arrange: the backroom empties between booking and arrival.
	engine := recvEngine(t)
	orderID := createOrder(t, engine, "zone-backroom", "sku-scarf", 5)
	sale := helpers.Send[*ingestCommands.IngestSalesEventResponse](t, engine, &ingestCommands.IngestSalesEventCommand{
		SKUID:      "sku-scarf",
		LocationID: "zone-backroom",
		EventType:  ledger.EntryKindSale,
		Qty:        6,
		Timestamp:  helpers.At(time.Minute),
	})
	require.Equal(t, common.StatusAccepted, sale.Status)

	// Act
	response := helpers.Send[*commands.ConfirmReceivingOrderResponse](t, engine, &commands.ConfirmReceivingOrderCommand{
		OrderID: orderID,
	})

	// Assert: the order stays inbound for a retry.
	assert.Equal(t, common.StatusNoInventoryMoved, response.Status)

	order, err := engine.Orders.FindByID(context.Background(), orderID)
	require.NoError(t, err)
	assert.Equal(t, receiving.OrderStatusInTransit, order.Status())
}

func TestConfirmReceivingOrderHandler_SecondConfirmRejected(t *testing.T) {
	// Arrange
	engine := recvEngine(t)
	orderID := createOrder(t, engine, "external-dc-north", "sku-scarf", 2)
	first := helpers.Send[*commands.ConfirmReceivingOrderResponse](t, engine, &commands.ConfirmReceivingOrderCommand{OrderID: orderID})
	require.Equal(t, common.StatusConfirmed, first.Status)

	// Act
	second := helpers.Send[*commands.ConfirmReceivingOrderResponse](t, engine, &commands.ConfirmReceivingOrderCommand{OrderID: orderID})

	// Assert
	assert.Equal(t, common.StatusOrderNotOpen, second.Status)
}

func TestConfirmReceivingOrderHandler_UnknownOrder(t *testing.T) {
	// Arrange
	engine := recvEngine(t)

	// Act
	response := helpers.Send[*commands.ConfirmReceivingOrderResponse](t, engine, &commands.ConfirmReceivingOrderCommand{OrderID: "order-nope"})

	// Assert
	assert.Equal(t, common.StatusOrderNotFound, response.Status)
}
