package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/floorsense-go/internal/application/carts/commands"
	"github.com/andrescamacho/floorsense-go/internal/application/common"
	"github.com/andrescamacho/floorsense-go/internal/domain/cart"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
	"github.com/andrescamacho/floorsense-go/internal/domain/snapshot"
	"github.com/andrescamacho/floorsense-go/test/helpers"
)

func TestRemoveCustomerItemHandler_ReleasesTheReservation(t *testing.T) {
	// Arrange
	engine := cartEngine(t)
	itemID := addItem(t, engine, "cust-7", "sku-scarf", 3, helpers.At(time.Second))

	// Act
	response := helpers.Send[*commands.RemoveCustomerItemResponse](t, engine, &commands.RemoveCustomerItemCommand{
		BasketItemID: itemID,
		Timestamp:    helpers.At(2 * time.Second),
	})

	// Assert
	assert.Equal(t, common.StatusAccepted, response.Status)
	assert.Equal(t, cart.ItemStatusRemoved, reloadItem(t, engine, itemID).Status())

	orderable, err := engine.Availability.Orderable(context.Background(), "zone-floor-a", "sku-scarf", shared.SourceNonRFID)
	require.NoError(t, err)
	assert.Equal(t, 5, orderable)
}

func TestRemoveCustomerItemHandler_RestoresConsumedTagsAsSyntheticReads(t *testing.T) {
	// Arrange: two of three tags were already picked into the cart.
	engine := cartEngine(t)
	ctx := context.Background()
	readTag(t, engine, "epc-1001", helpers.At(time.Second))
	readTag(t, engine, "epc-1002", helpers.At(2*time.Second))
	itemID := addItem(t, engine, "cust-7", "sku-home-jsy", 2, helpers.At(3*time.Second))
	read := readTag(t, engine, "epc-1003", helpers.At(4*time.Second))
	require.Equal(t, 2, read.PicksConsumed)

	// Act
	response := helpers.Send[*commands.RemoveCustomerItemResponse](t, engine, &commands.RemoveCustomerItemCommand{
		BasketItemID: itemID,
		Timestamp:    helpers.At(5 * time.Second),
	})

	// Assert: the picked tags are back on the floor.
	assert.Equal(t, common.StatusAccepted, response.Status)
	assert.Equal(t, cart.ItemStatusRemoved, reloadItem(t, engine, itemID).Status())

	arrived, err := engine.Presence.FindBySKUAndLocation(ctx, "sku-home-jsy", "zone-floor-a")
	require.NoError(t, err)
	assert.Len(t, arrived, 3)

	row, ok, err := engine.Snapshots.Find(ctx, snapshot.Key{LocationID: "zone-floor-a", SKUID: "sku-home-jsy", Source: shared.SourceRFID})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, row.Qty())

	reads, err := engine.Trail.FindRecentReads(ctx, "zone-floor-a", 2)
	require.NoError(t, err)
	require.Len(t, reads, 2)
	for _, record := range reads {
		assert.True(t, record.Synthetic)
	}
}

func TestRemoveCustomerItemHandler_UnknownItem(t *testing.T) {
	// Arrange
	engine := cartEngine(t)

	// Act
	response := helpers.Send[*commands.RemoveCustomerItemResponse](t, engine, &commands.RemoveCustomerItemCommand{
		BasketItemID: "item-nope",
		Timestamp:    helpers.At(time.Second),
	})

	// Assert
	assert.Equal(t, common.StatusItemNotFound, response.Status)
}

func TestRemoveCustomerItemHandler_ClosedItemRejected(t *testing.T) {
	// Arrange: the item already checked out.
	engine := cartEngine(t)
	itemID := addItem(t, engine, "cust-7", "sku-scarf", 1, helpers.At(time.Second))
	checkout := helpers.Send[*commands.CheckoutCustomerResponse](t, engine, &commands.CheckoutCustomerCommand{
		CustomerID: "cust-7",
		Timestamp:  helpers.At(2 * time.Second),
	})
	require.Equal(t, common.StatusAccepted, checkout.Status)

	// Act
	response := helpers.Send[*commands.RemoveCustomerItemResponse](t, engine, &commands.RemoveCustomerItemCommand{
		BasketItemID: itemID,
		Timestamp:    helpers.At(3 * time.Second),
	})

	// Assert
	assert.Equal(t, common.StatusItemNotOpen, response.Status)
}
