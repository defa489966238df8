package cart

import "context"

// ItemRepository stores basket items.
type ItemRepository interface {
	// Create persists a new item
	Create(ctx context.Context, item *Item) error

	// Update saves changes to an existing item
	Update(ctx context.Context, item *Item) error

	// FindByID retrieves an item by its id
	FindByID(ctx context.Context, id string) (*Item, error)

	// FindInCartByCustomer retrieves a customer's open items in create order
	FindInCartByCustomer(ctx context.Context, customerID string) ([]*Item, error)

	// FindInCartByLocation retrieves a location's open items in create order
	FindInCartByLocation(ctx context.Context, locationID string) ([]*Item, error)

	// FindAll retrieves every item in create order
	FindAll(ctx context.Context) ([]*Item, error)
}

// PickRepository stores pending picks, keyed by basket item.
type PickRepository interface {
	// Create persists a new pick
	Create(ctx context.Context, pick *PendingPick) error

	// Update saves changes to an existing pick
	Update(ctx context.Context, pick *PendingPick) error

	// FindByItem retrieves the pick for a basket item
	FindByItem(ctx context.Context, basketItemID string) (*PendingPick, error)

	// FindOpenByLocationAndSKU retrieves open picks for a (location, SKU)
	// pair in create order
	FindOpenByLocationAndSKU(ctx context.Context, locationID, skuID string) ([]*PendingPick, error)
}
