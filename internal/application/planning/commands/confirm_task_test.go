package commands_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/floorsense-go/internal/application/common"
	ingestCommands "github.com/andrescamacho/floorsense-go/internal/application/ingest/commands"
	"github.com/andrescamacho/floorsense-go/internal/application/planning/commands"
	ruleCommands "github.com/andrescamacho/floorsense-go/internal/application/rules/commands"
	"github.com/andrescamacho/floorsense-go/internal/application/setup"
	"github.com/andrescamacho/floorsense-go/internal/domain/ledger"
	"github.com/andrescamacho/floorsense-go/internal/domain/replenishment"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
	"github.com/andrescamacho/floorsense-go/internal/domain/snapshot"
	"github.com/andrescamacho/floorsense-go/internal/domain/staff"
	"github.com/andrescamacho/floorsense-go/test/helpers"
)

// startedTask brings the fixture task to IN_PROGRESS under amara.
func startedTask(t *testing.T, engine *setup.Engine) *replenishment.Task {
	t.Helper()
	task := pendingTask(t, engine)
	addMember(t, engine, "staff-amara", "Amara Diallo", "ASSOCIATE", true, staff.Scope{All: true})
	response := helpers.Send[*commands.StartTaskResponse](t, engine, &commands.StartTaskCommand{
		TaskID:  task.ID(),
		StaffID: "staff-amara",
	})
	require.Equal(t, common.StatusStarted, response.Status)
	return reloadTask(t, engine, task.ID())
}

// drain sells a zone's whole NON_RFID holding away.
func drain(t *testing.T, engine *setup.Engine, locationID string, qty int, at time.Time) {
	t.Helper()
	response := helpers.Send[*ingestCommands.IngestSalesEventResponse](t, engine, &ingestCommands.IngestSalesEventCommand{
		SKUID:      "sku-scarf",
		LocationID: locationID,
		EventType:  ledger.EntryKindSale,
		Qty:        qty,
		Timestamp:  at,
	})
	require.Equal(t, common.StatusAccepted, response.Status)
}

func TestConfirmTaskHandler_MovesTheDeficitAndCloses(t *testing.T) {
	// Arrange
	engine := workEngine(t)
	task := startedTask(t, engine)
	ctx := context.Background()

	// Act
	response := helpers.Send[*commands.ConfirmTaskResponse](t, engine, &commands.ConfirmTaskCommand{
		TaskID:      task.ID(),
		ConfirmedBy: "staff-amara",
	})

	// Assert
	assert.Equal(t, common.StatusConfirmed, response.Status)
	assert.Equal(t, 8, response.MovedQty)

	confirmed := reloadTask(t, engine, task.ID())
	assert.Equal(t, replenishment.TaskStatusConfirmed, confirmed.Status())
	assert.Equal(t, replenishment.CloseReasonConfirmed, confirmed.CloseReason())
	assert.Equal(t, "staff-amara", confirmed.ConfirmedBy())
	require.NotNil(t, confirmed.ConfirmedQty())
	assert.Equal(t, 8, *confirmed.ConfirmedQty())

	floor, err := engine.Ledger.Quantity(ctx, "zone-floor-a", "sku-scarf")
	require.NoError(t, err)
	assert.Equal(t, 8, floor)
	backroom, err := engine.Ledger.Quantity(ctx, "zone-backroom", "sku-scarf")
	require.NoError(t, err)
	assert.Equal(t, 1, backroom)

	row, ok, err := engine.Snapshots.Find(ctx, snapshot.Key{LocationID: "zone-floor-a", SKUID: "sku-scarf", Source: shared.SourceNonRFID})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 8, row.Qty())
}

func TestConfirmTaskHandler_CapsTheRequestAtTheDeficit(t *testing.T) {
	// Arrange
	engine := workEngine(t)
	task := startedTask(t, engine)

	// Act
	response := helpers.Send[*commands.ConfirmTaskResponse](t, engine, &commands.ConfirmTaskCommand{
		TaskID:       task.ID(),
		ConfirmedQty: 99,
		ConfirmedBy:  "staff-amara",
	})

	// Assert
	assert.Equal(t, common.StatusConfirmed, response.Status)
	assert.Equal(t, 8, response.MovedQty)
}

func TestConfirmTaskHandler_PartialConfirmationReplans(t *testing.T) {
	// Arrange
	engine := workEngine(t)
	task := startedTask(t, engine)

	// Act: only 3 of the 8 wanted units make it over.
	response := helpers.Send[*commands.ConfirmTaskResponse](t, engine, &commands.ConfirmTaskCommand{
		TaskID:       task.ID(),
		ConfirmedQty: 3,
		ConfirmedBy:  "staff-amara",
	})

	// Assert
	assert.Equal(t, common.StatusConfirmedPartial, response.Status)
	assert.Equal(t, 3, response.MovedQty)
	assert.Equal(t, replenishment.CloseReasonConfirmedPartial, reloadTask(t, engine, task.ID()).CloseReason())

	// The floor still sits below min, so the recompute raised a follow-up.
	followUp := pendingTask(t, engine)
	assert.NotEqual(t, task.ID(), followUp.ID())
	assert.Equal(t, 5, followUp.DeficitQty())
	assert.Equal(t, "zone-backroom", followUp.SourceZoneID())
}

func TestConfirmTaskHandler_WalksCandidatesWhenPreferredSourceIsEmpty(t *testing.T) {
	// Arrange: the backroom empties out after the task picked it.
	engine := workEngine(t)
	task := startedTask(t, engine)
	drain(t, engine, "zone-backroom", 9, helpers.At(time.Minute))

	// Act
	response := helpers.Send[*commands.ConfirmTaskResponse](t, engine, &commands.ConfirmTaskCommand{
		TaskID:      task.ID(),
		ConfirmedBy: "staff-amara",
	})

	// Assert: the annex steps in.
	assert.Equal(t, common.StatusConfirmed, response.Status)
	assert.Equal(t, 8, response.MovedQty)
	assert.Equal(t, "zone-annex", reloadTask(t, engine, task.ID()).SourceZoneID())

	annex, err := engine.Ledger.Quantity(context.Background(), "zone-annex", "sku-scarf")
	require.NoError(t, err)
	assert.Equal(t, 1, annex)
}

func TestConfirmTaskHandler_SourceOverrideWinsTheWalk(t *testing.T) {
	// Arrange: both sources hold stock, the operator insists on the annex.
	engine := workEngine(t)
	task := startedTask(t, engine)

	// Act
	response := helpers.Send[*commands.ConfirmTaskResponse](t, engine, &commands.ConfirmTaskCommand{
		TaskID:       task.ID(),
		ConfirmedBy:  "staff-amara",
		SourceZoneID: "zone-annex",
	})

	// Assert
	assert.Equal(t, common.StatusConfirmed, response.Status)
	assert.Equal(t, "zone-annex", reloadTask(t, engine, task.ID()).SourceZoneID())

	backroom, err := engine.Ledger.Quantity(context.Background(), "zone-backroom", "sku-scarf")
	require.NoError(t, err)
	assert.Equal(t, 9, backroom) // untouched
}

func TestConfirmTaskHandler_NoMovementLeavesTaskInProgress(t *testing.T) {
	// Arrange: every source is empty.
	engine := workEngine(t)
	task := startedTask(t, engine)
	drain(t, engine, "zone-backroom", 9, helpers.At(time.Minute))
	drain(t, engine, "zone-annex", 9, helpers.At(2*time.Minute))

	// Act
	response := helpers.Send[*commands.ConfirmTaskResponse](t, engine, &commands.ConfirmTaskCommand{
		TaskID:      task.ID(),
		ConfirmedBy: "staff-amara",
	})

	// Assert
	assert.Equal(t, common.StatusNoInventoryMoved, response.Status)
	assert.Equal(t, replenishment.TaskStatusInProgress, reloadTask(t, engine, task.ID()).Status())
}

func TestConfirmTaskHandler_RFIDTaskRebindsTags(t *testing.T) {
	// Arrange: two tagged jerseys sit in the backroom, the floor wants two.
	engine := helpers.NewEngine(t)
	store := workStore()
	store.Templates = nil
	helpers.Seed(t, engine, store)
	ctx := context.Background()

	for i, epc := range []string{"epc-1001", "epc-1002"} {
		read := helpers.Send[*ingestCommands.IngestRFIDReadResponse](t, engine, &ingestCommands.IngestRFIDReadCommand{
			EPC:       epc,
			AntennaID: "ant-b1",
			Timestamp: helpers.At(time.Duration(i+1) * time.Second),
		})
		require.Equal(t, common.StatusAccepted, read.Status)
	}
	upsert := helpers.Send[*ruleCommands.UpsertRuleResponse](t, engine, &ruleCommands.UpsertRuleCommand{
		LocationID: "zone-floor-a",
		SKUID:      "sku-home-jsy",
		Min:        1,
		Max:        2,
		Priority:   10,
	})
	require.Equal(t, common.StatusAccepted, upsert.Status)
	task := startedTask(t, engine)
	require.Equal(t, shared.SourceRFID, task.Source())

	// Act
	response := helpers.Send[*commands.ConfirmTaskResponse](t, engine, &commands.ConfirmTaskCommand{
		TaskID:      task.ID(),
		ConfirmedBy: "staff-amara",
	})

	// Assert
	assert.Equal(t, common.StatusConfirmed, response.Status)
	assert.Equal(t, 2, response.MovedQty)

	arrived, err := engine.Presence.FindBySKUAndLocation(ctx, "sku-home-jsy", "zone-floor-a")
	require.NoError(t, err)
	require.Len(t, arrived, 2)
	assert.Equal(t, "ant-a1", arrived[0].AntennaID)

	row, ok, err := engine.Snapshots.Find(ctx, snapshot.Key{LocationID: "zone-floor-a", SKUID: "sku-home-jsy", Source: shared.SourceRFID})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 2, row.Qty())
	require.NotNil(t, row.Confidence())
	assert.True(t, row.Confidence().Equal(snapshot.ConfidencePresent))

	origin, ok, err := engine.Snapshots.Find(ctx, snapshot.Key{LocationID: "zone-backroom", SKUID: "sku-home-jsy", Source: shared.SourceRFID})
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0, origin.Qty())
}

func TestConfirmTaskHandler_RequiresInProgress(t *testing.T) {
	// Arrange
	engine := workEngine(t)
	task := pendingTask(t, engine)

	// Act
	response := helpers.Send[*commands.ConfirmTaskResponse](t, engine, &commands.ConfirmTaskCommand{
		TaskID:      task.ID(),
		ConfirmedBy: "staff-amara",
	})

	// Assert
	assert.Equal(t, common.StatusTaskNotOpen, response.Status)
}

func TestConfirmTaskHandler_UnknownTask(t *testing.T) {
	// Arrange
	engine := workEngine(t)

	// Act
	response := helpers.Send[*commands.ConfirmTaskResponse](t, engine, &commands.ConfirmTaskCommand{
		TaskID:      "task-nope",
		ConfirmedBy: "staff-amara",
	})

	// Assert
	assert.Equal(t, common.StatusTaskNotFound, response.Status)
}
