package commands_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/floorsense-go/internal/application/common"
	"github.com/andrescamacho/floorsense-go/internal/application/layout/commands"
	receivingCommands "github.com/andrescamacho/floorsense-go/internal/application/receiving/commands"
	ruleCommands "github.com/andrescamacho/floorsense-go/internal/application/rules/commands"
	"github.com/andrescamacho/floorsense-go/internal/domain/audit"
	"github.com/andrescamacho/floorsense-go/internal/domain/receiving"
	"github.com/andrescamacho/floorsense-go/internal/domain/replenishment"
	"github.com/andrescamacho/floorsense-go/internal/domain/rules"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
	"github.com/andrescamacho/floorsense-go/test/helpers"
)

func TestDeleteLocationHandler_CascadesThroughDependents(t *testing.T) {
	// Arrange: a task pulling from the backroom, an order sourced from it and
	// a template pinned to it.
	engine := layoutEngine(t)
	ctx := context.Background()

	rule := helpers.Send[*ruleCommands.UpsertRuleResponse](t, engine, &ruleCommands.UpsertRuleCommand{
		LocationID: "zone-floor-a",
		SKUID:      "sku-scarf",
		Min:        2,
		Max:        5,
		Priority:   10,
	})
	require.Equal(t, common.StatusAccepted, rule.Status)
	tasks, err := engine.Tasks.FindOpen(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	taskID := tasks[0].ID()

	order := helpers.Send[*receivingCommands.CreateReceivingOrderResponse](t, engine, &receivingCommands.CreateReceivingOrderCommand{
		SourceID:      "zone-backroom",
		DestinationID: "zone-floor-a",
		SKUID:         "sku-scarf",
		Source:        shared.SourceNonRFID,
		RequestedQty:  3,
	})
	require.Equal(t, common.StatusAccepted, order.Status)

	pinned := helpers.Send[*ruleCommands.UpsertRuleTemplateResponse](t, engine, &ruleCommands.UpsertRuleTemplateCommand{
		ID:       "tpl-back-scarf",
		Scope:    rules.ScopeLocation,
		ZoneID:   "zone-backroom",
		Selector: rules.SelectorSKU,
		SKUID:    "sku-scarf",
		Min:      0,
		Max:      5,
		Priority: 20,
	})
	require.Equal(t, common.StatusAccepted, pinned.Status)

	// Act
	response := helpers.Send[*commands.DeleteLocationResponse](t, engine, &commands.DeleteLocationCommand{
		ID: "zone-backroom",
	})

	// Assert
	require.Equal(t, common.StatusAccepted, response.Status)
	assert.Equal(t, 1, response.TasksClosed)
	assert.Equal(t, 1, response.OrdersCancelled)

	exists, err := engine.Locations.Exists(ctx, "zone-backroom")
	require.NoError(t, err)
	assert.False(t, exists)
	assert.Empty(t, reloadLocation(t, engine, "zone-floor-a").Sources())

	task, err := engine.Tasks.FindByID(ctx, taskID)
	require.NoError(t, err)
	assert.Equal(t, replenishment.TaskStatusRejected, task.Status())
	assert.Equal(t, replenishment.CloseReasonSourceRemoved, task.CloseReason())

	cancelled, err := engine.Orders.FindByID(ctx, order.OrderID)
	require.NoError(t, err)
	assert.Equal(t, receiving.OrderStatusCancelled, cancelled.Status())
	entries, err := engine.Trail.FindEntriesFor(ctx, order.OrderID)
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	last := entries[len(entries)-1]
	assert.Equal(t, audit.ActionCancelled, last.Action)
	assert.Equal(t, "zone deleted", last.Details)

	template, err := engine.Templates.FindByID(ctx, "tpl-back-scarf")
	require.NoError(t, err)
	assert.False(t, template.Active())
	backroomRules, err := engine.Registry.FindByLocation(ctx, "zone-backroom")
	require.NoError(t, err)
	assert.Empty(t, backroomRules)

	open, err := engine.Tasks.FindOpen(ctx)
	require.NoError(t, err)
	assert.Empty(t, open, "nothing replans against a deleted source")
}

func TestDeleteLocationHandler_ClosesTasksDestinedToTheZone(t *testing.T) {
	// Arrange
	engine := layoutEngine(t)
	ctx := context.Background()
	rule := helpers.Send[*ruleCommands.UpsertRuleResponse](t, engine, &ruleCommands.UpsertRuleCommand{
		LocationID: "zone-floor-a",
		SKUID:      "sku-scarf",
		Min:        2,
		Max:        5,
		Priority:   10,
	})
	require.Equal(t, common.StatusAccepted, rule.Status)
	tasks, err := engine.Tasks.FindOpen(ctx)
	require.NoError(t, err)
	require.Len(t, tasks, 1)
	taskID := tasks[0].ID()

	// Act
	response := helpers.Send[*commands.DeleteLocationResponse](t, engine, &commands.DeleteLocationCommand{
		ID: "zone-floor-a",
	})

	// Assert: the inbound top-up dies with its destination, and the zone's
	// own template goes with it.
	require.Equal(t, common.StatusAccepted, response.Status)
	assert.Equal(t, 1, response.TasksClosed)
	assert.Equal(t, 0, response.OrdersCancelled)

	task, err := engine.Tasks.FindByID(ctx, taskID)
	require.NoError(t, err)
	assert.Equal(t, replenishment.TaskStatusRejected, task.Status())
	assert.Equal(t, replenishment.CloseReasonZoneDeleted, task.CloseReason())

	all, err := engine.Registry.FindAll(ctx)
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestDeleteLocationHandler_RejectsReservedAndUnknownZones(t *testing.T) {
	// Arrange
	engine := layoutEngine(t)

	// Act / Assert
	reserved := helpers.Send[*commands.DeleteLocationResponse](t, engine, &commands.DeleteLocationCommand{
		ID: shared.ZonePrintingWall,
	})
	assert.Equal(t, common.StatusReservedZoneID, reserved.Status)

	unknown := helpers.Send[*commands.DeleteLocationResponse](t, engine, &commands.DeleteLocationCommand{
		ID: "zone-ghost",
	})
	assert.Equal(t, common.StatusZoneNotFound, unknown.Status)
}
