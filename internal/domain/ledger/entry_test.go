package ledger_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/andrescamacho/floorsense-go/internal/domain/ledger"
)

var entryAt = time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)

func TestNewEntry_NormalisesSigns(t *testing.T) {
	// Act
	sale, err1 := ledger.NewEntry("zone-floor-a", "sku-scarf", 3, ledger.EntryKindSale, entryAt)
	ret, err2 := ledger.NewEntry("zone-floor-a", "sku-scarf", -2, ledger.EntryKindReturn, entryAt)
	repl, err3 := ledger.NewEntry("zone-backroom", "sku-scarf", -5, ledger.EntryKindReplenishment, entryAt)

	// Assert - sales negative, returns positive, replenishments as given
	require.NoError(t, err1)
	require.NoError(t, err2)
	require.NoError(t, err3)
	assert.Equal(t, -3, sale.Qty())
	assert.Equal(t, 2, ret.Qty())
	assert.Equal(t, -5, repl.Qty())
}

func TestNewEntry_RejectsInvalid(t *testing.T) {
	// Act
	_, errZero := ledger.NewEntry("zone-floor-a", "sku-scarf", 0, ledger.EntryKindSale, entryAt)
	_, errKind := ledger.NewEntry("zone-floor-a", "sku-scarf", 1, ledger.EntryKind("ADJUST"), entryAt)
	_, errLoc := ledger.NewEntry("", "sku-scarf", 1, ledger.EntryKindSale, entryAt)

	// Assert
	assert.Error(t, errZero)
	assert.Error(t, errKind)
	assert.Error(t, errLoc)
}

func TestQuantity_FoldsEntriesAfterBaseline(t *testing.T) {
	// Arrange
	baseline := &ledger.Baseline{LocationID: "zone-floor-a", SKUID: "sku-scarf", Qty: 10, Seq: 2}
	entries := []ledger.Entry{
		ledger.ReconstructEntry("zone-floor-a", "sku-scarf", -4, ledger.EntryKindSale, entryAt, 1),
		ledger.ReconstructEntry("zone-floor-a", "sku-scarf", -3, ledger.EntryKindSale, entryAt, 3),
		ledger.ReconstructEntry("zone-floor-a", "sku-scarf", 2, ledger.EntryKindReturn, entryAt, 4),
	}

	// Act - the seq-1 sale predates the baseline and must not accrue
	got := ledger.Quantity(baseline, entries)

	// Assert
	assert.Equal(t, 9, got)
}

func TestQuantity_MissingBaselineCountsFromZero(t *testing.T) {
	// Arrange
	entries := []ledger.Entry{
		ledger.ReconstructEntry("zone-floor-a", "sku-scarf", 5, ledger.EntryKindReplenishment, entryAt, 1),
		ledger.ReconstructEntry("zone-floor-a", "sku-scarf", -2, ledger.EntryKindSale, entryAt, 2),
	}

	// Act
	got := ledger.Quantity(nil, entries)

	// Assert
	assert.Equal(t, 3, got)
}

func TestQuantity_ClampsAtZero(t *testing.T) {
	// Arrange
	baseline := &ledger.Baseline{Qty: 1}
	entries := []ledger.Entry{
		ledger.ReconstructEntry("zone-floor-a", "sku-scarf", -4, ledger.EntryKindSale, entryAt, 1),
	}

	// Act
	got := ledger.Quantity(baseline, entries)

	// Assert
	assert.Equal(t, 0, got)
}
