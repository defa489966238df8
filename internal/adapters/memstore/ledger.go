package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/andrescamacho/floorsense-go/internal/domain/ledger"
)

// LedgerStore implements ledger.Repository. Append assigns the global
// sequence number that "since baseline" comparisons rely on.
type LedgerStore struct {
	mu        sync.RWMutex
	seq       uint64
	baselines map[ledgerKey]ledger.Baseline
	entries   map[ledgerKey][]ledger.Entry
}

type ledgerKey struct {
	locationID string
	skuID      string
}

// NewLedgerStore creates an empty ledger.
func NewLedgerStore() *LedgerStore {
	return &LedgerStore{
		baselines: make(map[ledgerKey]ledger.Baseline),
		entries:   make(map[ledgerKey][]ledger.Entry),
	}
}

// SetBaseline writes the trusted count for a (location, SKU) key. The
// baseline takes the current sequence watermark: only entries appended
// after it accrue.
func (s *LedgerStore) SetBaseline(ctx context.Context, baseline ledger.Baseline) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if baseline.Seq == 0 {
		baseline.Seq = s.seq
	}
	s.baselines[ledgerKey{locationID: baseline.LocationID, skuID: baseline.SKUID}] = baseline
	return nil
}

// FindBaseline retrieves the baseline for a key, nil when none was set.
func (s *LedgerStore) FindBaseline(ctx context.Context, locationID, skuID string) (*ledger.Baseline, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	b, ok := s.baselines[ledgerKey{locationID: locationID, skuID: skuID}]
	if !ok {
		return nil, nil
	}
	return &b, nil
}

// Append sequences and stores an entry, returning it with its seq.
func (s *LedgerStore) Append(ctx context.Context, entry ledger.Entry) (ledger.Entry, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	sequenced := entry.WithSeq(s.seq)
	key := ledgerKey{locationID: entry.LocationID(), skuID: entry.SKUID()}
	s.entries[key] = append(s.entries[key], sequenced)
	return sequenced, nil
}

// FindEntries retrieves the entries for a key in append order.
func (s *LedgerStore) FindEntries(ctx context.Context, locationID, skuID string) ([]ledger.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]ledger.Entry(nil), s.entries[ledgerKey{locationID: locationID, skuID: skuID}]...), nil
}

// Quantity computes the current count for a key.
func (s *LedgerStore) Quantity(ctx context.Context, locationID, skuID string) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	key := ledgerKey{locationID: locationID, skuID: skuID}
	var baseline *ledger.Baseline
	if b, ok := s.baselines[key]; ok {
		baseline = &b
	}
	return ledger.Quantity(baseline, s.entries[key]), nil
}

// SKUs lists the SKU ids with a baseline or entries in a location, sorted
// ascending.
func (s *LedgerStore) SKUs(ctx context.Context, locationID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := make(map[string]struct{})
	for key := range s.baselines {
		if key.locationID == locationID {
			seen[key.skuID] = struct{}{}
		}
	}
	for key := range s.entries {
		if key.locationID == locationID {
			seen[key.skuID] = struct{}{}
		}
	}
	out := make([]string, 0, len(seen))
	for id := range seen {
		out = append(out, id)
	}
	sort.Strings(out)
	return out, nil
}
