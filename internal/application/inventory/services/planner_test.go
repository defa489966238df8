package services_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/floorsense-go/internal/application/common"
	ingestCommands "github.com/andrescamacho/floorsense-go/internal/application/ingest/commands"
	layoutCommands "github.com/andrescamacho/floorsense-go/internal/application/layout/commands"
	ruleCommands "github.com/andrescamacho/floorsense-go/internal/application/rules/commands"
	"github.com/andrescamacho/floorsense-go/internal/application/setup"
	"github.com/andrescamacho/floorsense-go/internal/domain/audit"
	"github.com/andrescamacho/floorsense-go/internal/domain/ledger"
	"github.com/andrescamacho/floorsense-go/internal/domain/receiving"
	"github.com/andrescamacho/floorsense-go/internal/domain/replenishment"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
	"github.com/andrescamacho/floorsense-go/internal/infrastructure/dataset"
	"github.com/andrescamacho/floorsense-go/test/helpers"
)

// installRule upserts a zone rule; the reprojection behind the command
// recomputes the zone, so the planner reacts before the command returns.
func installRule(t *testing.T, engine *setup.Engine, locationID, skuID string, min, max int, inboundSourceID string) string {
	t.Helper()
	response := helpers.Send[*ruleCommands.UpsertRuleResponse](t, engine, &ruleCommands.UpsertRuleCommand{
		LocationID:      locationID,
		SKUID:           skuID,
		Min:             min,
		Max:             max,
		Priority:        10,
		InboundSourceID: inboundSourceID,
	})
	require.Equal(t, common.StatusAccepted, response.Status)
	return response.RuleID
}

func openTasks(t *testing.T, engine *setup.Engine) []*replenishment.Task {
	t.Helper()
	tasks, err := engine.Tasks.FindOpen(context.Background())
	require.NoError(t, err)
	return tasks
}

func inTransitOrders(t *testing.T, engine *setup.Engine) []*receiving.Order {
	t.Helper()
	orders, err := engine.Orders.FindInTransit(context.Background())
	require.NoError(t, err)
	return orders
}

func TestPlanner_RaisesTaskWhenStockFallsBelowMin(t *testing.T) {
	// Arrange: floor holds 2, rule wants 4..8, backroom can give 10.
	engine := planEngine(t)

	// Act
	ruleID := installRule(t, engine, "zone-floor-a", "sku-scarf", 4, 8, "")

	// Assert
	tasks := openTasks(t, engine)
	require.Len(t, tasks, 1)
	task := tasks[0]
	assert.Equal(t, ruleID, task.RuleID())
	assert.Equal(t, "zone-floor-a", task.Destination())
	assert.Equal(t, "sku-scarf", task.SKUID())
	assert.Equal(t, shared.SourceNonRFID, task.Source())
	assert.Equal(t, replenishment.TaskStatusCreated, task.Status())
	assert.Equal(t, 2, task.TriggerQty())
	assert.Equal(t, 6, task.DeficitQty())
	assert.Equal(t, 8, task.TargetQty())
	assert.Equal(t, "zone-backroom", task.SourceZoneID())
	assert.False(t, task.AdHoc())
	require.Len(t, task.Candidates(), 2)
	assert.Equal(t, replenishment.SourceCandidate{ZoneID: "zone-backroom", SortOrder: 0, AvailableQty: 10}, task.Candidates()[0])

	entries, err := engine.Trail.FindEntriesFor(context.Background(), task.ID())
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, audit.ActionCreated, entries[0].Action)
	assert.Equal(t, "system", entries[0].Actor)
	assert.Equal(t, "deficit=6 target=8 source=zone-backroom", entries[0].Details)
}

func TestPlanner_SpreadsDeficitAcrossSources(t *testing.T) {
	// Arrange: neither source can cover the whole top-up on its own.
	engine := helpers.NewEngine(t)
	store := planStore()
	store.Baselines = []dataset.Baseline{
		{LocationID: "zone-backroom", SKUID: "sku-scarf", Qty: 4},
		{LocationID: "zone-annex", SKUID: "sku-scarf", Qty: 5},
	}
	helpers.Seed(t, engine, store)

	// Act
	installRule(t, engine, "zone-floor-a", "sku-scarf", 6, 10, "")

	// Assert: 4 from the backroom, 5 from the annex, the last unit waits.
	tasks := openTasks(t, engine)
	require.Len(t, tasks, 2)
	assert.Equal(t, "zone-backroom", tasks[0].SourceZoneID())
	assert.Equal(t, 4, tasks[0].DeficitQty())
	assert.Equal(t, "zone-annex", tasks[1].SourceZoneID())
	assert.Equal(t, 5, tasks[1].DeficitQty())

	// The next evaluation pins the uncovered remainder on a zero-stock task.
	require.NoError(t, engine.Recomputer.RecomputeLocation(context.Background(), "zone-floor-a"))
	tasks = openTasks(t, engine)
	require.Len(t, tasks, 3)
	assert.Equal(t, 1, tasks[2].DeficitQty())
	assert.Equal(t, "zone-backroom", tasks[2].SourceZoneID())
}

func TestPlanner_ZeroStockFallbackKeepsShortageVisible(t *testing.T) {
	// Arrange: nobody has anything to give.
	engine := helpers.NewEngine(t)
	store := planStore()
	store.Baselines = nil
	helpers.Seed(t, engine, store)

	// Act
	installRule(t, engine, "zone-floor-a", "sku-scarf", 2, 5, "")

	// Assert: one unassignable task carries the full deficit anyway.
	tasks := openTasks(t, engine)
	require.Len(t, tasks, 1)
	assert.Equal(t, 5, tasks[0].DeficitQty())
	assert.Equal(t, "zone-backroom", tasks[0].SourceZoneID())
	for _, candidate := range tasks[0].Candidates() {
		assert.Equal(t, 0, candidate.AvailableQty)
	}
}

func TestPlanner_ClosesTasksWhenStockRecovers(t *testing.T) {
	// Arrange
	engine := planEngine(t)
	installRule(t, engine, "zone-floor-a", "sku-scarf", 4, 8, "")
	task := openTasks(t, engine)[0]

	// Act: a return pushes the floor to the rule max.
	response := helpers.Send[*ingestCommands.IngestSalesEventResponse](t, engine, &ingestCommands.IngestSalesEventCommand{
		SKUID:      "sku-scarf",
		LocationID: "zone-floor-a",
		EventType:  ledger.EntryKindReturn,
		Qty:        6,
		Timestamp:  helpers.At(time.Minute),
	})
	require.Equal(t, common.StatusAccepted, response.Status)

	// Assert
	assert.Empty(t, openTasks(t, engine))
	closed, err := engine.Tasks.FindByID(context.Background(), task.ID())
	require.NoError(t, err)
	assert.Equal(t, replenishment.TaskStatusRejected, closed.Status())
	assert.Equal(t, replenishment.CloseReasonStockRecovered, closed.CloseReason())
	require.NotNil(t, closed.ClosedAt())
}

func TestPlanner_TrimsNewestTaskWhenDemandShrinks(t *testing.T) {
	// Arrange: two tasks, 4 from the backroom and 5 from the annex.
	engine := helpers.NewEngine(t)
	store := planStore()
	store.Baselines = []dataset.Baseline{
		{LocationID: "zone-backroom", SKUID: "sku-scarf", Qty: 4},
		{LocationID: "zone-annex", SKUID: "sku-scarf", Qty: 5},
	}
	helpers.Seed(t, engine, store)
	installRule(t, engine, "zone-floor-a", "sku-scarf", 6, 10, "")

	// Act: 3 units come back, so the plan holds 2 units too many.
	helpers.Send[*ingestCommands.IngestSalesEventResponse](t, engine, &ingestCommands.IngestSalesEventCommand{
		SKUID:      "sku-scarf",
		LocationID: "zone-floor-a",
		EventType:  ledger.EntryKindReturn,
		Qty:        3,
		Timestamp:  helpers.At(time.Minute),
	})

	// Assert: the newest task shrinks, the oldest survives untouched.
	tasks := openTasks(t, engine)
	require.Len(t, tasks, 2)
	assert.Equal(t, 4, tasks[0].DeficitQty())
	assert.Equal(t, "zone-backroom", tasks[0].SourceZoneID())
	assert.Equal(t, 3, tasks[1].DeficitQty())
	assert.Equal(t, "zone-annex", tasks[1].SourceZoneID())
}

func TestPlanner_MergesDuplicateTasksOnSingleSourceZones(t *testing.T) {
	// Arrange: one configured source, so repeated shortfalls cannot split.
	engine := helpers.NewEngine(t)
	store := planStore()
	store.Locations[0].Sources = []string{"zone-backroom"}
	store.Baselines = []dataset.Baseline{
		{LocationID: "zone-backroom", SKUID: "sku-scarf", Qty: 3},
	}
	helpers.Seed(t, engine, store)
	installRule(t, engine, "zone-floor-a", "sku-scarf", 5, 6, "")
	first := openTasks(t, engine)[0]

	// The backroom restocks, then a floor sale re-plans and adds a second
	// task for the still-missing units.
	helpers.Send[*ingestCommands.IngestSalesEventResponse](t, engine, &ingestCommands.IngestSalesEventCommand{
		SKUID: "sku-scarf", LocationID: "zone-backroom",
		EventType: ledger.EntryKindReturn, Qty: 5, Timestamp: helpers.At(time.Minute),
	})
	helpers.Send[*ingestCommands.IngestSalesEventResponse](t, engine, &ingestCommands.IngestSalesEventCommand{
		SKUID: "sku-scarf", LocationID: "zone-floor-a",
		EventType: ledger.EntryKindSale, Qty: 1, Timestamp: helpers.At(2 * time.Minute),
	})
	require.Len(t, openTasks(t, engine), 2)

	// Act: the next evaluation folds the duplicates together.
	helpers.Send[*ingestCommands.ForceZoneSweepResponse](t, engine, &ingestCommands.ForceZoneSweepCommand{
		LocationID: "zone-floor-a",
		Timestamp:  helpers.At(3 * time.Minute),
	})

	// Assert
	tasks := openTasks(t, engine)
	require.Len(t, tasks, 1)
	assert.Equal(t, first.ID(), tasks[0].ID())
	assert.Equal(t, 6, tasks[0].DeficitQty())

	merged := findTaskByID(t, engine, otherTaskID(t, engine, first.ID()))
	assert.Equal(t, replenishment.CloseReasonMergedPlan, merged.CloseReason())

	entries, err := engine.Trail.FindEntriesFor(context.Background(), merged.ID())
	require.NoError(t, err)
	require.NotEmpty(t, entries)
	assert.Equal(t, fmt.Sprintf("merged into %s", first.ID()), entries[len(entries)-1].Details)
}

func TestPlanner_NonSalesZoneRaisesOrderInsteadOfTask(t *testing.T) {
	// Arrange: the backroom itself runs low and has no internal source.
	engine := helpers.NewEngine(t)
	store := planStore()
	store.Baselines = []dataset.Baseline{
		{LocationID: "zone-backroom", SKUID: "sku-scarf", Qty: 1},
	}
	helpers.Seed(t, engine, store)

	// Act
	installRule(t, engine, "zone-backroom", "sku-scarf", 4, 9, "external-dc-north")

	// Assert
	assert.Empty(t, openTasks(t, engine))
	orders := inTransitOrders(t, engine)
	require.Len(t, orders, 1)
	order := orders[0]
	assert.Equal(t, "external-dc-north", order.SourceID())
	assert.Equal(t, "zone-backroom", order.DestinationID())
	assert.Equal(t, "sku-scarf", order.SKUID())
	assert.Equal(t, 8, order.RequestedQty())
	assert.Equal(t, receiving.OrderStatusInTransit, order.Status())
	assert.True(t, order.ExternalSource())

	// Re-evaluating counts the in-transit order and raises nothing new.
	require.NoError(t, engine.Recomputer.RecomputeLocation(context.Background(), "zone-backroom"))
	assert.Len(t, inTransitOrders(t, engine), 1)
}

func TestPlanner_OrderPrefersInternalSourceThatCanCover(t *testing.T) {
	// Arrange: the annex can cover the whole order, the external supplier
	// is only the rule's fallback preference.
	engine := helpers.NewEngine(t)
	store := planStore()
	store.Locations[1].Sources = []string{"zone-annex"}
	store.Baselines = []dataset.Baseline{
		{LocationID: "zone-backroom", SKUID: "sku-scarf", Qty: 1},
		{LocationID: "zone-annex", SKUID: "sku-scarf", Qty: 4},
	}
	helpers.Seed(t, engine, store)

	// Act
	installRule(t, engine, "zone-backroom", "sku-scarf", 2, 5, "external-dc-north")

	// Assert
	orders := inTransitOrders(t, engine)
	require.Len(t, orders, 1)
	assert.Equal(t, "zone-annex", orders[0].SourceID())
	assert.Equal(t, 4, orders[0].RequestedQty())
}

func TestPlanner_FlippingZoneToNonSalesMovesItToReceivingFlow(t *testing.T) {
	// Arrange: a sales-floor task is open.
	engine := planEngine(t)
	installRule(t, engine, "zone-floor-a", "sku-scarf", 4, 8, "")
	task := openTasks(t, engine)[0]

	// Act
	salesOff := false
	response := helpers.Send[*layoutCommands.UpdateLocationResponse](t, engine, &layoutCommands.UpdateLocationCommand{
		ID:      "zone-floor-a",
		IsSales: &salesOff,
	})
	require.Equal(t, common.StatusAccepted, response.Status)

	// Assert: the task hands over to a receiving order from the backroom.
	closed := findTaskByID(t, engine, task.ID())
	assert.Equal(t, replenishment.CloseReasonNonSalesFlow, closed.CloseReason())

	orders := inTransitOrders(t, engine)
	require.Len(t, orders, 1)
	assert.Equal(t, "zone-backroom", orders[0].SourceID())
	assert.Equal(t, "zone-floor-a", orders[0].DestinationID())
	assert.Equal(t, 6, orders[0].RequestedQty())
}

func TestPlanner_RefreshClearsSelectedSourceNoLongerConfigured(t *testing.T) {
	// Arrange
	engine := planEngine(t)
	installRule(t, engine, "zone-floor-a", "sku-scarf", 4, 8, "")
	task := openTasks(t, engine)[0]
	require.Equal(t, "zone-backroom", task.SourceZoneID())

	// Act: the backroom stops feeding the floor.
	response := helpers.Send[*layoutCommands.UpdateLocationResponse](t, engine, &layoutCommands.UpdateLocationCommand{
		ID:      "zone-floor-a",
		Sources: []string{"zone-annex"},
	})
	require.Equal(t, common.StatusAccepted, response.Status)

	// Assert
	refreshed := findTaskByID(t, engine, task.ID())
	assert.True(t, refreshed.IsOpen())
	assert.Equal(t, "", refreshed.SourceZoneID())
	require.Len(t, refreshed.Candidates(), 1)
	assert.Equal(t, "zone-annex", refreshed.Candidates()[0].ZoneID)
	assert.Equal(t, 4, refreshed.Candidates()[0].AvailableQty)
}

func findTaskByID(t *testing.T, engine *setup.Engine, id string) *replenishment.Task {
	t.Helper()
	task, err := engine.Tasks.FindByID(context.Background(), id)
	require.NoError(t, err)
	return task
}

func otherTaskID(t *testing.T, engine *setup.Engine, knownID string) string {
	t.Helper()
	tasks, err := engine.Tasks.FindAll(context.Background(), replenishment.TaskFilter{})
	require.NoError(t, err)
	for _, task := range tasks {
		if task.ID() != knownID {
			return task.ID()
		}
	}
	t.Fatalf("no task other than %s", knownID)
	return ""
}
