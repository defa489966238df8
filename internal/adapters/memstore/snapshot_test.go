package memstore_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/floorsense-go/internal/adapters/memstore"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
	"github.com/andrescamacho/floorsense-go/internal/domain/snapshot"
)

var snapAt = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func TestSnapshotStore_VersionIncrementsOnEveryWrite(t *testing.T) {
	// Arrange
	store := memstore.NewSnapshotStore()
	ctx := context.Background()
	key := snapshot.Key{LocationID: "zone-floor-a", SKUID: "sku-home-jsy", Source: shared.SourceRFID}

	// Act - the second write carries the same quantity and still versions up
	first, err := store.Upsert(ctx, key, 4, &snapshot.ConfidencePresent, snapAt)
	require.NoError(t, err)
	second, err := store.Upsert(ctx, key, 4, &snapshot.ConfidencePresent, snapAt.Add(time.Minute))
	require.NoError(t, err)

	// Assert
	assert.Equal(t, uint64(1), first.Version())
	assert.Equal(t, uint64(2), second.Version())

	row, ok, err := store.Find(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, uint64(2), row.Version())
	assert.Equal(t, snapAt.Add(time.Minute), row.LastCalculatedAt())
}

func TestSnapshotStore_ZeroRowsPersistOutsideCashierStorage(t *testing.T) {
	// Arrange
	store := memstore.NewSnapshotStore()
	ctx := context.Background()
	key := snapshot.Key{LocationID: "zone-floor-a", SKUID: "sku-home-jsy", Source: shared.SourceRFID}

	// Act - a zero count is information, not absence
	_, err := store.Upsert(ctx, key, 0, &snapshot.ConfidenceEmpty, snapAt)
	require.NoError(t, err)

	// Assert
	row, ok, err := store.Find(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, 0, row.Qty())
}

func TestSnapshotStore_CashierStagingRowDeletesAtZero(t *testing.T) {
	// Arrange
	store := memstore.NewSnapshotStore()
	ctx := context.Background()
	key := snapshot.Key{LocationID: shared.ZoneCashierStorage, SKUID: "sku-home-jsy", Source: shared.SourceRFID}
	_, err := store.Upsert(ctx, key, 2, nil, snapAt)
	require.NoError(t, err)

	// Act - staging empties out at checkout
	_, err = store.Upsert(ctx, key, 0, nil, snapAt.Add(time.Minute))
	require.NoError(t, err)

	// Assert
	_, ok, err := store.Find(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestSnapshotStore_FindByLocationSorted(t *testing.T) {
	// Arrange
	store := memstore.NewSnapshotStore()
	ctx := context.Background()
	_, err := store.Upsert(ctx, snapshot.Key{LocationID: "zone-floor-a", SKUID: "sku-scarf", Source: shared.SourceNonRFID}, 6, nil, snapAt)
	require.NoError(t, err)
	_, err = store.Upsert(ctx, snapshot.Key{LocationID: "zone-floor-a", SKUID: "sku-home-jsy", Source: shared.SourceRFID}, 3, &snapshot.ConfidencePresent, snapAt)
	require.NoError(t, err)
	_, err = store.Upsert(ctx, snapshot.Key{LocationID: "zone-floor-b", SKUID: "sku-away-jsy", Source: shared.SourceRFID}, 1, &snapshot.ConfidencePresent, snapAt)
	require.NoError(t, err)

	// Act
	rows, err := store.FindByLocation(ctx, "zone-floor-a")

	// Assert
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "sku-home-jsy", rows[0].SKUID())
	assert.Equal(t, "sku-scarf", rows[1].SKUID())
}
