package catalog

import (
	"context"
	"time"
)

// SKURepository stores catalog entries.
type SKURepository interface {
	// Create persists a new SKU
	Create(ctx context.Context, sku *SKU) error

	// FindByID retrieves a SKU by its id
	FindByID(ctx context.Context, id string) (*SKU, error)

	// FindAll retrieves every SKU in id order
	FindAll(ctx context.Context) ([]*SKU, error)

	// FindByFilter retrieves the SKUs whose variant matches the filter
	FindByFilter(ctx context.Context, filter AttributeFilter) ([]*SKU, error)
}

// EPCMappingRepository stores the time-windowed EPC associations.
type EPCMappingRepository interface {
	// Register adds a mapping window
	Register(ctx context.Context, mapping EPCMapping) error

	// ActiveSKU resolves the SKU an EPC maps to at the given instant
	ActiveSKU(ctx context.Context, epc string, at time.Time) (string, bool, error)

	// FindByEPC returns every window registered for an EPC
	FindByEPC(ctx context.Context, epc string) ([]EPCMapping, error)
}
