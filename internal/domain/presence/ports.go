package presence

import (
	"context"
	"time"
)

// Repository stores one record per EPC. A new read overwrites the previous
// binding even when the location changed: the tag physically moved.
type Repository interface {
	// Upsert writes the record for its EPC
	Upsert(ctx context.Context, record Record) error

	// Remove deletes the record for an EPC, reporting whether it existed
	Remove(ctx context.Context, epc string) (bool, error)

	// FindByEPC retrieves the record for an EPC
	FindByEPC(ctx context.Context, epc string) (Record, bool, error)

	// FindByLocation retrieves every record bound to a location
	FindByLocation(ctx context.Context, locationID string) ([]Record, error)

	// FindBySKUAndLocation retrieves the records for one SKU in a location,
	// ordered by ascending lastSeenAt then EPC
	FindBySKUAndLocation(ctx context.Context, skuID, locationID string) ([]Record, error)

	// FindAll retrieves every record
	FindAll(ctx context.Context) ([]Record, error)
}

// DedupIndex remembers, per (epc, antenna), the most recent accepted read
// timestamp. Sweeps and pick consumption never touch it.
type DedupIndex interface {
	// LastAccepted returns the newest accepted read time for the pair
	LastAccepted(ctx context.Context, epc, antennaID string) (time.Time, bool, error)

	// RecordAccepted stores t if it is newer than the remembered value
	RecordAccepted(ctx context.Context, epc, antennaID string, t time.Time) error
}
