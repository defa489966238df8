package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/andrescamacho/floorsense-go/internal/domain/presence"
)

// PresenceStore implements presence.Repository: one record per EPC, the
// newest accepted read wins.
type PresenceStore struct {
	mu      sync.RWMutex
	records map[string]presence.Record
}

// NewPresenceStore creates an empty presence store.
func NewPresenceStore() *PresenceStore {
	return &PresenceStore{records: make(map[string]presence.Record)}
}

// Upsert writes the record for its EPC.
func (s *PresenceStore) Upsert(ctx context.Context, record presence.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.records[record.EPC] = record.Clone()
	return nil
}

// Remove deletes the record for an EPC, reporting whether it existed.
func (s *PresenceStore) Remove(ctx context.Context, epc string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	_, ok := s.records[epc]
	delete(s.records, epc)
	return ok, nil
}

// FindByEPC retrieves the record for an EPC.
func (s *PresenceStore) FindByEPC(ctx context.Context, epc string) (presence.Record, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	rec, ok := s.records[epc]
	if !ok {
		return presence.Record{}, false, nil
	}
	return rec.Clone(), true, nil
}

// FindByLocation retrieves every record bound to a location.
func (s *PresenceStore) FindByLocation(ctx context.Context, locationID string) ([]presence.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]presence.Record, 0)
	for _, rec := range s.records {
		if rec.LocationID == locationID {
			out = append(out, rec.Clone())
		}
	}
	sortRecords(out)
	return out, nil
}

// FindBySKUAndLocation retrieves the records for one SKU in a location,
// ordered by ascending lastSeenAt then EPC. Quantity picks everywhere take
// the oldest-seen tags first.
func (s *PresenceStore) FindBySKUAndLocation(ctx context.Context, skuID, locationID string) ([]presence.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]presence.Record, 0)
	for _, rec := range s.records {
		if rec.SKUID == skuID && rec.LocationID == locationID {
			out = append(out, rec.Clone())
		}
	}
	sortRecords(out)
	return out, nil
}

// FindAll retrieves every record.
func (s *PresenceStore) FindAll(ctx context.Context) ([]presence.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]presence.Record, 0, len(s.records))
	for _, rec := range s.records {
		out = append(out, rec.Clone())
	}
	sortRecords(out)
	return out, nil
}

func sortRecords(records []presence.Record) {
	sort.Slice(records, func(i, j int) bool {
		if !records[i].LastSeenAt.Equal(records[j].LastSeenAt) {
			return records[i].LastSeenAt.Before(records[j].LastSeenAt)
		}
		return records[i].EPC < records[j].EPC
	})
}

// DedupStore implements presence.DedupIndex, keyed (epc, antenna).
type DedupStore struct {
	mu       sync.RWMutex
	accepted map[dedupKey]time.Time
}

type dedupKey struct {
	epc       string
	antennaID string
}

// NewDedupStore creates an empty dedup index.
func NewDedupStore() *DedupStore {
	return &DedupStore{accepted: make(map[dedupKey]time.Time)}
}

// LastAccepted returns the newest accepted read time for the pair.
func (s *DedupStore) LastAccepted(ctx context.Context, epc, antennaID string) (time.Time, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.accepted[dedupKey{epc: epc, antennaID: antennaID}]
	return t, ok, nil
}

// RecordAccepted stores t if it is newer than the remembered value.
func (s *DedupStore) RecordAccepted(ctx context.Context, epc, antennaID string, t time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := dedupKey{epc: epc, antennaID: antennaID}
	if prev, ok := s.accepted[key]; !ok || t.After(prev) {
		s.accepted[key] = t
	}
	return nil
}
