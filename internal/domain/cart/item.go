package cart

import (
	"time"

	"github.com/google/uuid"

	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
)

// ItemStatus represents the lifecycle of a basket item
type ItemStatus string

const (
	// ItemStatusInCart - reserved against the location's stock
	ItemStatusInCart ItemStatus = "IN_CART"

	// ItemStatusSold - checked out
	ItemStatusSold ItemStatus = "SOLD"

	// ItemStatusRemoved - taken back out of the cart, reservation released
	ItemStatusRemoved ItemStatus = "REMOVED"
)

// Item is one reserved line in a customer's cart. While IN_CART it reserves
// stock in its location: the full qty for NON_RFID, and for RFID the share
// not yet physically consumed by the pending pick.
type Item struct {
	id                 string
	customerID         string
	locationID         string
	skuID              string
	source             shared.Source
	qty                int
	pickedConfirmedQty int
	status             ItemStatus
	createdAt          time.Time
	closedAt           *time.Time
}

// NewItem creates an IN_CART line.
func NewItem(customerID, locationID, skuID string, source shared.Source, qty int, createdAt time.Time) *Item {
	return &Item{
		id:         uuid.New().String(),
		customerID: customerID,
		locationID: locationID,
		skuID:      skuID,
		source:     source,
		qty:        qty,
		status:     ItemStatusInCart,
		createdAt:  createdAt.UTC(),
	}
}

// ReconstructItem rebuilds an item as stored.
func ReconstructItem(id, customerID, locationID, skuID string, source shared.Source, qty, pickedConfirmedQty int, status ItemStatus, createdAt time.Time, closedAt *time.Time) *Item {
	return &Item{
		id:                 id,
		customerID:         customerID,
		locationID:         locationID,
		skuID:              skuID,
		source:             source,
		qty:                qty,
		pickedConfirmedQty: pickedConfirmedQty,
		status:             status,
		createdAt:          createdAt,
		closedAt:           closedAt,
	}
}

func (i *Item) ID() string              { return i.id }
func (i *Item) CustomerID() string      { return i.customerID }
func (i *Item) LocationID() string      { return i.locationID }
func (i *Item) SKUID() string           { return i.skuID }
func (i *Item) Source() shared.Source   { return i.source }
func (i *Item) Qty() int                { return i.qty }
func (i *Item) PickedConfirmedQty() int { return i.pickedConfirmedQty }
func (i *Item) Status() ItemStatus      { return i.status }
func (i *Item) CreatedAt() time.Time    { return i.createdAt }
func (i *Item) ClosedAt() *time.Time    { return i.closedAt }

// ReservedQty returns what the item currently holds back from availability.
func (i *Item) ReservedQty() int {
	if i.status != ItemStatusInCart {
		return 0
	}
	if i.source == shared.SourceRFID {
		if r := i.qty - i.pickedConfirmedQty; r > 0 {
			return r
		}
		return 0
	}
	return i.qty
}

// AddPicked attributes physically consumed EPCs to the item.
func (i *Item) AddPicked(n int) {
	i.pickedConfirmedQty += n
}

// MarkSold closes the item at checkout.
func (i *Item) MarkSold(at time.Time) error {
	if i.status != ItemStatusInCart {
		return &ErrItemNotOpen{ItemID: i.id, Status: i.status}
	}
	i.status = ItemStatusSold
	ts := at.UTC()
	i.closedAt = &ts
	return nil
}

// MarkRemoved closes the item when the customer puts it back.
func (i *Item) MarkRemoved(at time.Time) error {
	if i.status != ItemStatusInCart {
		return &ErrItemNotOpen{ItemID: i.id, Status: i.status}
	}
	i.status = ItemStatusRemoved
	ts := at.UTC()
	i.closedAt = &ts
	return nil
}

// Clone returns a deep copy for repository hand-out.
func (i *Item) Clone() *Item {
	var closed *time.Time
	if i.closedAt != nil {
		v := *i.closedAt
		closed = &v
	}
	return ReconstructItem(i.id, i.customerID, i.locationID, i.skuID, i.source,
		i.qty, i.pickedConfirmedQty, i.status, i.createdAt, closed)
}
