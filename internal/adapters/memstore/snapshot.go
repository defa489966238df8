package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/floorsense-go/internal/adapters/metrics"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
	"github.com/andrescamacho/floorsense-go/internal/domain/snapshot"
)

// SnapshotStore implements snapshot.Repository. Versions increment on every
// write, no-op writes included. A zero-quantity write at the implicit
// cashier staging zone deletes the row; rows anywhere else stay forever.
type SnapshotStore struct {
	mu       sync.RWMutex
	rows     map[snapshot.Key]snapshot.Snapshot
	versions map[snapshot.Key]uint64
}

// NewSnapshotStore creates an empty snapshot store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{
		rows:     make(map[snapshot.Key]snapshot.Snapshot),
		versions: make(map[snapshot.Key]uint64),
	}
}

// Upsert writes a row and returns it with its new version.
func (s *SnapshotStore) Upsert(ctx context.Context, key snapshot.Key, qty int, confidence *decimal.Decimal, at time.Time) (snapshot.Snapshot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	metrics.RecordSnapshotWrite()
	version := s.versions[key] + 1
	s.versions[key] = version
	row := snapshot.Reconstruct(key, qty, confidence, version, at.UTC())
	if qty == 0 && key.LocationID == shared.ZoneCashierStorage {
		delete(s.rows, key)
		return row, nil
	}
	s.rows[key] = row
	return row, nil
}

// Find retrieves the row for a key.
func (s *SnapshotStore) Find(ctx context.Context, key snapshot.Key) (snapshot.Snapshot, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	row, ok := s.rows[key]
	return row, ok, nil
}

// FindByLocation retrieves every row for a location in (sku, source) order.
func (s *SnapshotStore) FindByLocation(ctx context.Context, locationID string) ([]snapshot.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]snapshot.Snapshot, 0)
	for key, row := range s.rows {
		if key.LocationID == locationID {
			out = append(out, row)
		}
	}
	sortSnapshots(out)
	return out, nil
}

// FindByLocationAndSource retrieves a location's rows for one source class.
func (s *SnapshotStore) FindByLocationAndSource(ctx context.Context, locationID string, source shared.Source) ([]snapshot.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]snapshot.Snapshot, 0)
	for key, row := range s.rows {
		if key.LocationID == locationID && key.Source == source {
			out = append(out, row)
		}
	}
	sortSnapshots(out)
	return out, nil
}

// FindAll retrieves every row.
func (s *SnapshotStore) FindAll(ctx context.Context) ([]snapshot.Snapshot, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]snapshot.Snapshot, 0, len(s.rows))
	for _, row := range s.rows {
		out = append(out, row)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LocationID() != out[j].LocationID() {
			return out[i].LocationID() < out[j].LocationID()
		}
		if out[i].SKUID() != out[j].SKUID() {
			return out[i].SKUID() < out[j].SKUID()
		}
		return out[i].Source() < out[j].Source()
	})
	return out, nil
}

func sortSnapshots(rows []snapshot.Snapshot) {
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].SKUID() != rows[j].SKUID() {
			return rows[i].SKUID() < rows[j].SKUID()
		}
		return rows[i].Source() < rows[j].Source()
	})
}
