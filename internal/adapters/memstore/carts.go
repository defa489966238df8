package memstore

import (
	"context"
	"sort"
	"sync"

	"github.com/andrescamacho/floorsense-go/internal/domain/cart"
)

// BasketStore implements cart.ItemRepository with explicit creation order.
type BasketStore struct {
	mu    sync.RWMutex
	seq   uint64
	items map[string]*storedItem
}

type storedItem struct {
	item *cart.Item
	seq  uint64
}

// NewBasketStore creates an empty basket store.
func NewBasketStore() *BasketStore {
	return &BasketStore{items: make(map[string]*storedItem)}
}

// Create persists a new item.
func (s *BasketStore) Create(ctx context.Context, item *cart.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.items[item.ID()] = &storedItem{item: item.Clone(), seq: s.seq}
	return nil
}

// Update saves changes to an existing item.
func (s *BasketStore) Update(ctx context.Context, item *cart.Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.items[item.ID()]
	if !ok {
		return &cart.ErrItemNotFound{ItemID: item.ID()}
	}
	stored.item = item.Clone()
	return nil
}

// FindByID retrieves an item by its id.
func (s *BasketStore) FindByID(ctx context.Context, id string) (*cart.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.items[id]
	if !ok {
		return nil, &cart.ErrItemNotFound{ItemID: id}
	}
	return stored.item.Clone(), nil
}

// FindInCartByCustomer retrieves a customer's open items in create order.
func (s *BasketStore) FindInCartByCustomer(ctx context.Context, customerID string) ([]*cart.Item, error) {
	return s.collect(func(i *cart.Item) bool {
		return i.Status() == cart.ItemStatusInCart && i.CustomerID() == customerID
	})
}

// FindInCartByLocation retrieves a location's open items in create order.
func (s *BasketStore) FindInCartByLocation(ctx context.Context, locationID string) ([]*cart.Item, error) {
	return s.collect(func(i *cart.Item) bool {
		return i.Status() == cart.ItemStatusInCart && i.LocationID() == locationID
	})
}

// FindAll retrieves every item in create order.
func (s *BasketStore) FindAll(ctx context.Context) ([]*cart.Item, error) {
	return s.collect(func(*cart.Item) bool { return true })
}

func (s *BasketStore) collect(keep func(*cart.Item) bool) ([]*cart.Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	type row struct {
		item *cart.Item
		seq  uint64
	}
	rows := make([]row, 0)
	for _, stored := range s.items {
		if keep(stored.item) {
			rows = append(rows, row{item: stored.item.Clone(), seq: stored.seq})
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
	out := make([]*cart.Item, len(rows))
	for i, r := range rows {
		out[i] = r.item
	}
	return out, nil
}

// PickStore implements cart.PickRepository, keyed by basket item.
type PickStore struct {
	mu    sync.RWMutex
	seq   uint64
	picks map[string]*storedPick
}

type storedPick struct {
	pick *cart.PendingPick
	seq  uint64
}

// NewPickStore creates an empty pick store.
func NewPickStore() *PickStore {
	return &PickStore{picks: make(map[string]*storedPick)}
}

// Create persists a new pick.
func (s *PickStore) Create(ctx context.Context, pick *cart.PendingPick) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.seq++
	s.picks[pick.BasketItemID()] = &storedPick{pick: pick.Clone(), seq: s.seq}
	return nil
}

// Update saves changes to an existing pick.
func (s *PickStore) Update(ctx context.Context, pick *cart.PendingPick) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	stored, ok := s.picks[pick.BasketItemID()]
	if !ok {
		return &cart.ErrItemNotFound{ItemID: pick.BasketItemID()}
	}
	stored.pick = pick.Clone()
	return nil
}

// FindByItem retrieves the pick for a basket item.
func (s *PickStore) FindByItem(ctx context.Context, basketItemID string) (*cart.PendingPick, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	stored, ok := s.picks[basketItemID]
	if !ok {
		return nil, &cart.ErrItemNotFound{ItemID: basketItemID}
	}
	return stored.pick.Clone(), nil
}

// FindOpenByLocationAndSKU retrieves open picks for a (location, SKU) pair
// in create order, so the oldest waiting cart is served first.
func (s *PickStore) FindOpenByLocationAndSKU(ctx context.Context, locationID, skuID string) ([]*cart.PendingPick, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	type row struct {
		pick *cart.PendingPick
		seq  uint64
	}
	rows := make([]row, 0)
	for _, stored := range s.picks {
		p := stored.pick
		if p.Open() && p.LocationID() == locationID && p.SKUID() == skuID {
			rows = append(rows, row{pick: p.Clone(), seq: stored.seq})
		}
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].seq < rows[j].seq })
	out := make([]*cart.PendingPick, len(rows))
	for i, r := range rows {
		out[i] = r.pick
	}
	return out, nil
}
