package snapshot

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
)

// Repository stores snapshot rows. Upsert owns the version counter: every
// write bumps it, including writes that do not change the quantity. A write
// reaching qty 0 at the implicit cashier staging zone deletes the row; rows
// anywhere else are never removed.
type Repository interface {
	// Upsert writes a row and returns it with its new version
	Upsert(ctx context.Context, key Key, qty int, confidence *decimal.Decimal, at time.Time) (Snapshot, error)

	// Find retrieves the row for a key
	Find(ctx context.Context, key Key) (Snapshot, bool, error)

	// FindByLocation retrieves every row for a location in (sku, source) order
	FindByLocation(ctx context.Context, locationID string) ([]Snapshot, error)

	// FindByLocationAndSource retrieves a location's rows for one source class
	FindByLocationAndSource(ctx context.Context, locationID string, source shared.Source) ([]Snapshot, error)

	// FindAll retrieves every row
	FindAll(ctx context.Context) ([]Snapshot, error)
}
