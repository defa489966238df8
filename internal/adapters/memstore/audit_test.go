package memstore_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/floorsense-go/internal/adapters/memstore"
	"github.com/andrescamacho/floorsense-go/internal/domain/audit"
)

var auditAt = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func TestAuditStore_EntriesByEntity(t *testing.T) {
	// Arrange
	store := memstore.NewAuditStore()
	ctx := context.Background()
	require.NoError(t, store.AppendEntry(ctx, audit.NewEntry("task-1", audit.ActionCreated, "system", "deficit=5 target=8 source=zone-backroom", auditAt)))
	require.NoError(t, store.AppendEntry(ctx, audit.NewEntry("task-2", audit.ActionCreated, "system", "", auditAt)))
	require.NoError(t, store.AppendEntry(ctx, audit.NewEntry("task-1", audit.ActionAssigned, "staff-amara", "", auditAt.Add(time.Minute))))

	// Act
	entries, err := store.FindEntriesFor(ctx, "task-1")

	// Assert - append order per entity
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, audit.ActionCreated, entries[0].Action)
	assert.Equal(t, audit.ActionAssigned, entries[1].Action)
}

func TestAuditStore_FindEntriesNewestFirst(t *testing.T) {
	// Arrange
	store := memstore.NewAuditStore()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		entry := audit.NewEntry(fmt.Sprintf("task-%d", i), audit.ActionCreated, "system", "", auditAt.Add(time.Duration(i)*time.Second))
		require.NoError(t, store.AppendEntry(ctx, entry))
	}

	// Act
	entries, err := store.FindEntries(ctx, 2)

	// Assert
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, "task-4", entries[0].EntityID)
	assert.Equal(t, "task-3", entries[1].EntityID)
}

func TestAuditStore_FlowSeqIsMonotonic(t *testing.T) {
	// Arrange
	store := memstore.NewAuditStore()
	ctx := context.Background()
	require.NoError(t, store.AppendFlow(ctx, audit.FlowEvent{Kind: audit.FlowRFIDRead, At: auditAt}))
	require.NoError(t, store.AppendFlow(ctx, audit.FlowEvent{Kind: audit.FlowSalesEvent, At: auditAt}))

	// Act
	events, err := store.FindFlow(ctx, 0)

	// Assert - newest first, seq assigned in append order
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, uint64(2), events[0].Seq)
	assert.Equal(t, audit.FlowSalesEvent, events[0].Kind)
	assert.Equal(t, uint64(1), events[1].Seq)
}

func TestAuditStore_FlowHookObservesEveryEvent(t *testing.T) {
	// Arrange
	store := memstore.NewAuditStore()
	var seen []string
	store.AddFlowHook(func(e audit.FlowEvent) { seen = append(seen, e.Kind) })

	// Act
	require.NoError(t, store.AppendFlow(context.Background(), audit.FlowEvent{Kind: audit.FlowCartAdd}))
	require.NoError(t, store.AppendFlow(context.Background(), audit.FlowEvent{Kind: audit.FlowCheckout}))

	// Assert
	assert.Equal(t, []string{audit.FlowCartAdd, audit.FlowCheckout}, seen)
}

func TestAuditStore_ReadRingOverwritesOldest(t *testing.T) {
	// Arrange - a tiny ring makes the wrap observable
	store := memstore.NewAuditStoreWithBuffer(3)
	ctx := context.Background()
	for i := 1; i <= 4; i++ {
		record := audit.ReadRecord{
			EPC:        fmt.Sprintf("epc-%d", i),
			LocationID: "zone-floor-a",
			At:         auditAt.Add(time.Duration(i) * time.Second),
		}
		require.NoError(t, store.AppendRead(ctx, record))
	}

	// Act
	reads, err := store.FindRecentReads(ctx, "zone-floor-a", 0)

	// Assert - epc-1 fell off the ring; newest first
	require.NoError(t, err)
	require.Len(t, reads, 3)
	assert.Equal(t, "epc-4", reads[0].EPC)
	assert.Equal(t, "epc-3", reads[1].EPC)
	assert.Equal(t, "epc-2", reads[2].EPC)
}

func TestAuditStore_RecentReadsFilterByLocation(t *testing.T) {
	// Arrange
	store := memstore.NewAuditStore()
	ctx := context.Background()
	require.NoError(t, store.AppendRead(ctx, audit.ReadRecord{EPC: "epc-1", LocationID: "zone-floor-a", At: auditAt}))
	require.NoError(t, store.AppendRead(ctx, audit.ReadRecord{EPC: "epc-2", LocationID: "zone-floor-b", At: auditAt}))

	// Act
	reads, err := store.FindRecentReads(ctx, "zone-floor-b", 10)

	// Assert
	require.NoError(t, err)
	require.Len(t, reads, 1)
	assert.Equal(t, "epc-2", reads[0].EPC)
}
