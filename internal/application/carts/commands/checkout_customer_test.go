package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/floorsense-go/internal/application/carts/commands"
	"github.com/andrescamacho/floorsense-go/internal/application/common"
	ruleCommands "github.com/andrescamacho/floorsense-go/internal/application/rules/commands"
	"github.com/andrescamacho/floorsense-go/internal/domain/audit"
	"github.com/andrescamacho/floorsense-go/internal/domain/cart"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
	"github.com/andrescamacho/floorsense-go/internal/domain/snapshot"
	"github.com/andrescamacho/floorsense-go/test/helpers"
)

func TestCheckoutCustomerHandler_EmptyCart(t *testing.T) {
	// Arrange
	engine := cartEngine(t)

	// Act
	response := helpers.Send[*commands.CheckoutCustomerResponse](t, engine, &commands.CheckoutCustomerCommand{
		CustomerID: "cust-7",
		Timestamp:  helpers.At(time.Second),
	})

	// Assert
	assert.Equal(t, common.StatusCartEmpty, response.Status)
}

func TestCheckoutCustomerHandler_SellsPlainItemsInPlace(t *testing.T) {
	// Arrange
	engine := cartEngine(t)
	ctx := context.Background()
	itemID := addItem(t, engine, "cust-7", "sku-scarf", 2, helpers.At(time.Second))

	// Act
	response := helpers.Send[*commands.CheckoutCustomerResponse](t, engine, &commands.CheckoutCustomerCommand{
		CustomerID: "cust-7",
		Timestamp:  helpers.At(2 * time.Second),
	})

	// Assert
	require.Equal(t, common.StatusAccepted, response.Status)
	assert.Equal(t, 1, response.ItemsSold)
	assert.Equal(t, 0, response.ReplacementTasks)
	assert.Equal(t, cart.ItemStatusSold, reloadItem(t, engine, itemID).Status())

	qty, err := engine.Ledger.Quantity(ctx, "zone-floor-a", "sku-scarf")
	require.NoError(t, err)
	assert.Equal(t, 3, qty)
	row, ok, err := engine.Snapshots.Find(ctx, snapshot.Key{LocationID: "zone-floor-a", SKUID: "sku-scarf", Source: shared.SourceNonRFID})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 3, row.Qty())

	tasks, err := engine.Tasks.FindOpen(ctx)
	require.NoError(t, err)
	assert.Empty(t, tasks)

	// The cart is spent.
	again := helpers.Send[*commands.CheckoutCustomerResponse](t, engine, &commands.CheckoutCustomerCommand{
		CustomerID: "cust-7",
		Timestamp:  helpers.At(3 * time.Second),
	})
	assert.Equal(t, common.StatusCartEmpty, again.Status)
}

func TestCheckoutCustomerHandler_TillReadsCountAsPicked(t *testing.T) {
	// Arrange: both caps were carried to the till without a pick-consuming
	// read in between.
	engine := cartEngine(t)
	ctx := context.Background()
	readTag(t, engine, "epc-2001", helpers.At(time.Second))
	readTag(t, engine, "epc-2002", helpers.At(2*time.Second))
	itemID := addItem(t, engine, "cust-7", "sku-cap", 2, helpers.At(3*time.Second))

	// Act
	response := helpers.Send[*commands.CheckoutCustomerResponse](t, engine, &commands.CheckoutCustomerCommand{
		CustomerID: "cust-7",
		Timestamp:  helpers.At(10 * time.Second),
	})

	// Assert: checkout resolves the pick first, so the standing tags count
	// as picked instead of vanishing as an immediate deduction.
	require.Equal(t, common.StatusAccepted, response.Status)
	assert.Equal(t, 1, response.ItemsSold)
	assert.Equal(t, 0, response.ReplacementTasks)

	item := reloadItem(t, engine, itemID)
	assert.Equal(t, cart.ItemStatusSold, item.Status())
	assert.Equal(t, 2, item.PickedConfirmedQty())

	arrived, err := engine.Presence.FindBySKUAndLocation(ctx, "sku-cap", "zone-floor-a")
	require.NoError(t, err)
	assert.Empty(t, arrived)

	row, ok, err := engine.Snapshots.Find(ctx, snapshot.Key{LocationID: "zone-floor-a", SKUID: "sku-cap", Source: shared.SourceRFID})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0, row.Qty())
	require.NotNil(t, row.Confidence())
	assert.True(t, row.Confidence().Equal(snapshot.ConfidenceEmpty))
}

func TestCheckoutCustomerHandler_ExpiredPicksDeductImmediately(t *testing.T) {
	// Arrange: the cap reservation outlives its tags' presence.
	engine := cartEngine(t)
	ctx := context.Background()
	readTag(t, engine, "epc-2001", helpers.At(time.Second))
	readTag(t, engine, "epc-2002", helpers.At(2*time.Second))
	itemID := addItem(t, engine, "cust-7", "sku-cap", 1, helpers.At(3*time.Second))

	// Act
	response := helpers.Send[*commands.CheckoutCustomerResponse](t, engine, &commands.CheckoutCustomerCommand{
		CustomerID: "cust-7",
		Timestamp:  helpers.At(10 * time.Minute),
	})

	// Assert: nothing left to pick, so the unpicked unit deducts against the
	// oldest remembered tag.
	require.Equal(t, common.StatusAccepted, response.Status)
	item := reloadItem(t, engine, itemID)
	assert.Equal(t, cart.ItemStatusSold, item.Status())
	assert.Equal(t, 0, item.PickedConfirmedQty())

	_, found, err := engine.Presence.FindByEPC(ctx, "epc-2001")
	require.NoError(t, err)
	assert.False(t, found)
	_, found, err = engine.Presence.FindByEPC(ctx, "epc-2002")
	require.NoError(t, err)
	assert.True(t, found, "only the deducted record leaves presence")

	picks, err := engine.Picks.FindOpenByLocationAndSKU(ctx, "zone-floor-a", "sku-cap")
	require.NoError(t, err)
	assert.Empty(t, picks)

	row, ok, err := engine.Snapshots.Find(ctx, snapshot.Key{LocationID: "zone-floor-a", SKUID: "sku-cap", Source: shared.SourceRFID})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0, row.Qty())
}

func TestCheckoutCustomerHandler_PersonalisableItemStagesAtCashier(t *testing.T) {
	// Arrange: a plain scarf and a personalisable kids bundle in one cart.
	engine := cartEngine(t)
	ctx := context.Background()
	addItem(t, engine, "cust-7", "sku-scarf", 2, helpers.At(time.Second))
	addItem(t, engine, "cust-7", "sku-kids-jsy", 2, helpers.At(2*time.Second))

	// Act
	response := helpers.Send[*commands.CheckoutCustomerResponse](t, engine, &commands.CheckoutCustomerCommand{
		CustomerID: "cust-7",
		Timestamp:  helpers.At(3 * time.Second),
	})

	// Assert
	require.Equal(t, common.StatusAccepted, response.Status)
	assert.Equal(t, 2, response.ItemsSold)
	assert.Equal(t, 1, response.ReplacementTasks)

	// The sold bundles sit in cashier staging until printing finishes.
	staged, ok, err := engine.Snapshots.Find(ctx, snapshot.Key{LocationID: shared.ZoneCashierStorage, SKUID: "sku-kids-jsy", Source: shared.SourceNonRFID})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, staged.Qty())
	assert.Nil(t, staged.Confidence())

	tasks, err := engine.Tasks.FindOpen(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	task := tasks[0]
	assert.True(t, task.AdHoc())
	assert.Equal(t, "zone-floor-a", task.Destination())
	assert.Equal(t, "sku-kids-jsy", task.SKUID())
	assert.Equal(t, shared.SourceNonRFID, task.Source())
	assert.Equal(t, 1, task.TriggerQty())
	assert.Equal(t, 2, task.DeficitQty())
	assert.Equal(t, 3, task.TargetQty())
	assert.Equal(t, "zone-backroom", task.SourceZoneID())

	entries, err := engine.Trail.FindEntriesFor(ctx, task.ID())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, audit.ActionCreated, entries[0].Action)
	assert.Equal(t, "replacement deficit=2 target=3 source=zone-backroom", entries[0].Details)
}

func TestCheckoutCustomerHandler_ReplacementFallsBackToPrintingWall(t *testing.T) {
	// Arrange: the customer takes the last jersey the network can reach.
	engine := cartEngine(t)
	ctx := context.Background()
	readTag(t, engine, "epc-1001", helpers.At(time.Second))
	itemID := addItem(t, engine, "cust-7", "sku-home-jsy", 1, helpers.At(2*time.Second))

	// Act
	response := helpers.Send[*commands.CheckoutCustomerResponse](t, engine, &commands.CheckoutCustomerCommand{
		CustomerID: "cust-7",
		Timestamp:  helpers.At(3 * time.Second),
	})

	// Assert: with projected supply exhausted, the replacement targets the
	// printing wall.
	require.Equal(t, common.StatusAccepted, response.Status)
	assert.Equal(t, 1, response.ReplacementTasks)
	assert.Equal(t, 1, reloadItem(t, engine, itemID).PickedConfirmedQty())

	staged, ok, err := engine.Snapshots.Find(ctx, snapshot.Key{LocationID: shared.ZoneCashierStorage, SKUID: "sku-home-jsy", Source: shared.SourceRFID})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 1, staged.Qty())

	tasks, err := engine.Tasks.FindOpen(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	task := tasks[0]
	assert.True(t, task.AdHoc())
	assert.Equal(t, shared.ZonePrintingWall, task.Destination())
	assert.Equal(t, 1, task.DeficitQty())
	assert.Equal(t, 1, task.TargetQty())
	assert.Empty(t, task.SourceZoneID())
	assert.Empty(t, task.Candidates())
}

func TestCheckoutCustomerHandler_RuleMaxSetsTheReplacementTarget(t *testing.T) {
	// Arrange: the floor carries a 0..4 jersey band, two tags on the floor.
	engine := cartEngine(t)
	ctx := context.Background()
	rule := helpers.Send[*ruleCommands.UpsertRuleResponse](t, engine, &ruleCommands.UpsertRuleCommand{
		LocationID: "zone-floor-a",
		SKUID:      "sku-home-jsy",
		Min:        0,
		Max:        4,
		Priority:   10,
	})
	require.Equal(t, common.StatusAccepted, rule.Status)
	readTag(t, engine, "epc-1001", helpers.At(time.Second))
	readTag(t, engine, "epc-1002", helpers.At(2*time.Second))
	addItem(t, engine, "cust-7", "sku-home-jsy", 1, helpers.At(3*time.Second))

	// Act
	response := helpers.Send[*commands.CheckoutCustomerResponse](t, engine, &commands.CheckoutCustomerCommand{
		CustomerID: "cust-7",
		Timestamp:  helpers.At(4 * time.Second),
	})

	// Assert: the replacement adopts the effective rule's identity and aims
	// for its max instead of just restoring the sold unit.
	require.Equal(t, common.StatusAccepted, response.Status)
	require.Equal(t, 1, response.ReplacementTasks)

	tasks, err := engine.Tasks.FindOpen(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	task := tasks[0]
	assert.Equal(t, rule.RuleID, task.RuleID())
	assert.Equal(t, "zone-floor-a", task.Destination())
	assert.Equal(t, 1, task.TriggerQty())
	assert.Equal(t, 1, task.DeficitQty())
	assert.Equal(t, 4, task.TargetQty())
}
