package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/andrescamacho/floorsense-go/internal/domain/receiving"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
)

// OrderStore implements receiving.OrderRepository with explicit creation
// order, like TaskStore.
type OrderStore struct {
	mu     sync.RWMutex
	seq    uint64
	orders map[string]*storedOrder
}

type storedOrder struct {
	order *receiving.Order
	seq   uint64
}

// NewOrderStore creates an empty order store.
func NewOrderStore() *OrderStore {
	return &OrderStore{orders: make(map[string]*storedOrder)}
}

// Create persists a new order.
func (s *OrderStore) Create(ctx context.Context, order *receiving.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.orders[order.ID()] = &storedOrder{order: order.Clone(), seq: s.seq}
	return nil
}

// Update saves changes to an existing order.
func (s *OrderStore) Update(ctx context.Context, order *receiving.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.orders[order.ID()]
	if !ok {
		return &receiving.ErrOrderNotFound{OrderID: order.ID()}
	}
	stored.order = order.Clone()
	return nil
}

// FindByID retrieves an order by its id.
func (s *OrderStore) FindByID(ctx context.Context, id string) (*receiving.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.orders[id]
	if !ok {
		return nil, &receiving.ErrOrderNotFound{OrderID: id}
	}
	return stored.order.Clone(), nil
}

// FindInTransit retrieves every open order in create order.
func (s *OrderStore) FindInTransit(ctx context.Context) ([]*receiving.Order, error) {
	return s.collect(func(o *receiving.Order) bool { return o.IsOpen() })
}

// FindInTransitFor retrieves the open orders for a destination key.
func (s *OrderStore) FindInTransitFor(ctx context.Context, destinationID, skuID string, source shared.Source) ([]*receiving.Order, error) {
	return s.collect(func(o *receiving.Order) bool {
		return o.IsOpen() && o.DestinationID() == destinationID && o.SKUID() == skuID && o.Source() == source
	})
}

// FindAll retrieves every order in create order, optionally filtered.
func (s *OrderStore) FindAll(ctx context.Context, filter receiving.OrderFilter) ([]*receiving.Order, error) {
	return s.collect(filter.Matches)
}

func (s *OrderStore) collect(keep func(*receiving.Order) bool) ([]*receiving.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	type row struct {
		order *receiving.Order
		seq   uint64
	}
	rows := make([]row, 0)
	for _, stored := range s.orders {
		if keep(stored.order) {
			rows = append(rows, row{order: stored.order.Clone(), seq: stored.seq})
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
	out := make([]*receiving.Order, len(rows))
	for i, r := range rows {
		out[i] = r.order
	}
	return out, nil
}
