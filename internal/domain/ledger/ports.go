package ledger

import "context"

// Repository stores baselines and the signed movement log. Append assigns
// the global sequence number.
type Repository interface {
	// SetBaseline writes the trusted count for a (location, SKU) key
	SetBaseline(ctx context.Context, baseline Baseline) error

	// FindBaseline retrieves the baseline for a key, nil when none was set
	FindBaseline(ctx context.Context, locationID, skuID string) (*Baseline, error)

	// Append sequences and stores an entry, returning it with its seq
	Append(ctx context.Context, entry Entry) (Entry, error)

	// FindEntries retrieves the entries for a key in append order
	FindEntries(ctx context.Context, locationID, skuID string) ([]Entry, error)

	// Quantity computes the current count for a key
	Quantity(ctx context.Context, locationID, skuID string) (int, error)

	// SKUs lists the SKU ids with a baseline or entries in a location,
	// sorted ascending
	SKUs(ctx context.Context, locationID string) ([]string, error)
}
