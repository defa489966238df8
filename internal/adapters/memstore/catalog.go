package memstore

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/andrescamacho/floorsense-go/internal/domain/catalog"
)

// SKUStore implements catalog.SKURepository.
type SKUStore struct {
	mu   sync.RWMutex
	skus map[string]*catalog.SKU
}

// NewSKUStore creates an empty catalog.
func NewSKUStore() *SKUStore {
	return &SKUStore{skus: make(map[string]*catalog.SKU)}
}

// Create persists a new SKU.
func (s *SKUStore) Create(ctx context.Context, sku *catalog.SKU) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.skus[sku.ID()] = sku.Clone()
	return nil
}

// FindByID retrieves a SKU by its id.
func (s *SKUStore) FindByID(ctx context.Context, id string) (*catalog.SKU, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sku, ok := s.skus[id]
	if !ok {
		return nil, &catalog.ErrSKUNotFound{SKUID: id}
	}
	return sku.Clone(), nil
}

// FindAll retrieves every SKU in id order.
func (s *SKUStore) FindAll(ctx context.Context) ([]*catalog.SKU, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*catalog.SKU, 0, len(s.skus))
	for _, sku := range s.skus {
		out = append(out, sku.Clone())
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

// FindByFilter retrieves the SKUs whose variant matches the filter.
func (s *SKUStore) FindByFilter(ctx context.Context, filter catalog.AttributeFilter) ([]*catalog.SKU, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*catalog.SKU, 0)
	for _, sku := range s.skus {
		if filter.Matches(sku.Variant()) {
			out = append(out, sku.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID() < out[j].ID() })
	return out, nil
}

// EPCMappingStore implements catalog.EPCMappingRepository. Windows are kept
// per EPC in registration order; resolution walks them newest-first so the
// open window wins.
type EPCMappingStore struct {
	mu       sync.RWMutex
	mappings map[string][]catalog.EPCMapping
}

// NewEPCMappingStore creates an empty mapping store.
func NewEPCMappingStore() *EPCMappingStore {
	return &EPCMappingStore{mappings: make(map[string][]catalog.EPCMapping)}
}

// Register adds a mapping window.
func (s *EPCMappingStore) Register(ctx context.Context, mapping catalog.EPCMapping) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.mappings[mapping.EPC()] = append(s.mappings[mapping.EPC()], mapping)
	return nil
}

// ActiveSKU resolves the SKU an EPC maps to at the given instant.
func (s *EPCMappingStore) ActiveSKU(ctx context.Context, epc string, at time.Time) (string, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	windows := s.mappings[epc]
	for i := len(windows) - 1; i >= 0; i-- {
		if windows[i].ActiveAt(at) {
			return windows[i].SKUID(), true, nil
		}
	}
	return "", false, nil
}

// FindByEPC returns every window registered for an EPC.
func (s *EPCMappingStore) FindByEPC(ctx context.Context, epc string) ([]catalog.EPCMapping, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]catalog.EPCMapping(nil), s.mappings[epc]...), nil
}
