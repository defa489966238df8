package memstore

import (
	"context"
	"sync"

	"github.com/andrescamacho/floorsense-go/internal/domain/audit"
)

// defaultReadBuffer bounds the recent-reads ring per engine.
const defaultReadBuffer = 512

// AuditStore implements audit.Trail: append-only audit entries, the flow
// timeline and a bounded recent-reads ring buffer.
type AuditStore struct {
	mu       sync.RWMutex
	entries  []audit.Entry
	byEntity map[string][]int

	flowSeq   uint64
	flow      []audit.FlowEvent
	flowHooks []func(audit.FlowEvent)

	reads    []audit.ReadRecord
	readCap  int
	readNext int
	readFull bool
}

// NewAuditStore creates an empty trail with the default read buffer size.
func NewAuditStore() *AuditStore {
	return NewAuditStoreWithBuffer(defaultReadBuffer)
}

// NewAuditStoreWithBuffer creates an empty trail with a custom read buffer
// capacity.
func NewAuditStoreWithBuffer(readBuffer int) *AuditStore {
	if readBuffer <= 0 {
		readBuffer = defaultReadBuffer
	}
	return &AuditStore{
		byEntity: make(map[string][]int),
		reads:    make([]audit.ReadRecord, readBuffer),
		readCap:  readBuffer,
	}
}

// AppendEntry stores an audit line.
func (s *AuditStore) AppendEntry(ctx context.Context, entry audit.Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.entries = append(s.entries, entry)
	s.byEntity[entry.EntityID] = append(s.byEntity[entry.EntityID], len(s.entries)-1)
	return nil
}

// FindEntriesFor retrieves one entity's audit lines in append order.
func (s *AuditStore) FindEntriesFor(ctx context.Context, entityID string) ([]audit.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	idxs := s.byEntity[entityID]
	out := make([]audit.Entry, 0, len(idxs))
	for _, i := range idxs {
		out = append(out, s.entries[i])
	}
	return out, nil
}

// FindEntries retrieves the newest audit lines, newest first, up to limit.
func (s *AuditStore) FindEntries(ctx context.Context, limit int) ([]audit.Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 || limit > len(s.entries) {
		limit = len(s.entries)
	}
	out := make([]audit.Entry, 0, limit)
	for i := len(s.entries) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.entries[i])
	}
	return out, nil
}

// AddFlowHook registers a callback invoked after every stored timeline
// event. Hooks run outside the store lock, in registration order, and must
// not block.
func (s *AuditStore) AddFlowHook(hook func(audit.FlowEvent)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.flowHooks = append(s.flowHooks, hook)
}

// AppendFlow stores a timeline event, assigning its seq.
func (s *AuditStore) AppendFlow(ctx context.Context, event audit.FlowEvent) error {
	s.mu.Lock()
	s.flowSeq++
	event.Seq = s.flowSeq
	s.flow = append(s.flow, event)
	hooks := s.flowHooks
	s.mu.Unlock()
	for _, hook := range hooks {
		hook(event)
	}
	return nil
}

// FindFlow retrieves the newest timeline events, newest first, up to limit.
func (s *AuditStore) FindFlow(ctx context.Context, limit int) ([]audit.FlowEvent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if limit <= 0 || limit > len(s.flow) {
		limit = len(s.flow)
	}
	out := make([]audit.FlowEvent, 0, limit)
	for i := len(s.flow) - 1; i >= 0 && len(out) < limit; i-- {
		out = append(out, s.flow[i])
	}
	return out, nil
}

// AppendRead stores an accepted read in the recent-reads buffer, overwriting
// the oldest entry once the ring is full.
func (s *AuditStore) AppendRead(ctx context.Context, record audit.ReadRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.reads[s.readNext] = record
	s.readNext++
	if s.readNext == s.readCap {
		s.readNext = 0
		s.readFull = true
	}
	return nil
}

// FindRecentReads retrieves a location's newest reads, newest first.
func (s *AuditStore) FindRecentReads(ctx context.Context, locationID string, limit int) ([]audit.ReadRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	size := s.readNext
	if s.readFull {
		size = s.readCap
	}
	if limit <= 0 {
		limit = size
	}
	out := make([]audit.ReadRecord, 0, limit)
	for i := 1; i <= size && len(out) < limit; i++ {
		idx := (s.readNext - i + s.readCap) % s.readCap
		rec := s.reads[idx]
		if rec.LocationID == locationID {
			out = append(out, rec)
		}
	}
	return out, nil
}
