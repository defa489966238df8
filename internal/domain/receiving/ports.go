package receiving

import (
	"context"

	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
)

// OrderRepository stores receiving orders.
type OrderRepository interface {
	// Create persists a new order
	Create(ctx context.Context, order *Order) error

	// Update saves changes to an existing order
	Update(ctx context.Context, order *Order) error

	// FindByID retrieves an order by its id
	FindByID(ctx context.Context, id string) (*Order, error)

	// FindInTransit retrieves every open order in create order
	FindInTransit(ctx context.Context) ([]*Order, error)

	// FindInTransitFor retrieves the open orders for a destination key
	FindInTransitFor(ctx context.Context, destinationID, skuID string, source shared.Source) ([]*Order, error)

	// FindAll retrieves every order in create order, optionally filtered
	FindAll(ctx context.Context, filter OrderFilter) ([]*Order, error)
}

// OrderFilter narrows FindAll. Zero values mean no constraint.
type OrderFilter struct {
	Status      OrderStatus
	Destination string
	SourceID    string
	StaffID     string
}

// Matches reports whether an order satisfies every set constraint.
func (f OrderFilter) Matches(o *Order) bool {
	if f.Status != "" && o.Status() != f.Status {
		return false
	}
	if f.Destination != "" && o.DestinationID() != f.Destination {
		return false
	}
	if f.SourceID != "" && o.SourceID() != f.SourceID {
		return false
	}
	if f.StaffID != "" && o.AssignedStaffID() != f.StaffID {
		return false
	}
	return true
}
