package receiving

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
)

// OrderStatus represents the current status of a receiving order
type OrderStatus string

const (
	// OrderStatusInTransit - stock is on its way in
	OrderStatusInTransit OrderStatus = "IN_TRANSIT"

	// OrderStatusConfirmed - stock arrived and was booked
	OrderStatusConfirmed OrderStatus = "CONFIRMED"

	// OrderStatusCancelled - the source disappeared or the plan changed
	OrderStatusCancelled OrderStatus = "CANCELLED"
)

// Order is an inbound movement towards a non-sales location, sourced from
// another location or from an external-* origin.
type Order struct {
	id              string
	sourceID        string
	destinationID   string
	skuID           string
	source          shared.Source
	requestedQty    int
	confirmedQty    *int
	status          OrderStatus
	assignedStaffID string
	createdAt       time.Time
	confirmedAt     *time.Time
	cancelledAt     *time.Time
}

// NewOrder creates an order in IN_TRANSIT state.
func NewOrder(sourceID, destinationID, skuID string, source shared.Source, requestedQty int, createdAt time.Time) *Order {
	return &Order{
		id:            uuid.New().String(),
		sourceID:      sourceID,
		destinationID: destinationID,
		skuID:         skuID,
		source:        source,
		requestedQty:  requestedQty,
		status:        OrderStatusInTransit,
		createdAt:     createdAt.UTC(),
	}
}

// ReconstructOrder rebuilds an order as stored.
func ReconstructOrder(id, sourceID, destinationID, skuID string, source shared.Source, requestedQty int, confirmedQty *int, status OrderStatus, assignedStaffID string, createdAt time.Time, confirmedAt, cancelledAt *time.Time) *Order {
	return &Order{
		id:              id,
		sourceID:        sourceID,
		destinationID:   destinationID,
		skuID:           skuID,
		source:          source,
		requestedQty:    requestedQty,
		confirmedQty:    confirmedQty,
		status:          status,
		assignedStaffID: assignedStaffID,
		createdAt:       createdAt,
		confirmedAt:     confirmedAt,
		cancelledAt:     cancelledAt,
	}
}

func (o *Order) ID() string              { return o.id }
func (o *Order) SourceID() string        { return o.sourceID }
func (o *Order) DestinationID() string   { return o.destinationID }
func (o *Order) SKUID() string           { return o.skuID }
func (o *Order) Source() shared.Source   { return o.source }
func (o *Order) RequestedQty() int       { return o.requestedQty }
func (o *Order) Status() OrderStatus     { return o.status }
func (o *Order) AssignedStaffID() string { return o.assignedStaffID }
func (o *Order) CreatedAt() time.Time    { return o.createdAt }
func (o *Order) ConfirmedAt() *time.Time { return o.confirmedAt }
func (o *Order) CancelledAt() *time.Time { return o.cancelledAt }

// ConfirmedQty returns the booked quantity, nil before confirmation.
func (o *Order) ConfirmedQty() *int {
	if o.confirmedQty == nil {
		return nil
	}
	v := *o.confirmedQty
	return &v
}

// IsOpen reports whether the order still counts as inbound.
func (o *Order) IsOpen() bool {
	return o.status == OrderStatusInTransit
}

// ExternalSource reports whether the order pulls from outside the store.
func (o *Order) ExternalSource() bool {
	return shared.IsExternalLocationID(o.sourceID)
}

// Assign pins the order to a staff member without changing its status.
func (o *Order) Assign(staffID string) error {
	if o.status != OrderStatusInTransit {
		return &ErrInvalidOrderTransition{
			OrderID:     o.id,
			From:        o.status,
			To:          o.status,
			Description: "can only assign IN_TRANSIT orders",
		}
	}
	o.assignedStaffID = staffID
	return nil
}

// Confirm books the arrived quantity and closes the order.
func (o *Order) Confirm(movedQty int, at time.Time) error {
	if o.status != OrderStatusInTransit {
		return &ErrInvalidOrderTransition{
			OrderID:     o.id,
			From:        o.status,
			To:          OrderStatusConfirmed,
			Description: "can only confirm IN_TRANSIT orders",
		}
	}
	if movedQty <= 0 {
		return &ErrNoMovement{OrderID: o.id}
	}
	o.status = OrderStatusConfirmed
	o.confirmedQty = &movedQty
	ts := at.UTC()
	o.confirmedAt = &ts
	return nil
}

// Cancel closes the order without movement.
func (o *Order) Cancel(at time.Time) error {
	if o.status != OrderStatusInTransit {
		return &ErrInvalidOrderTransition{
			OrderID:     o.id,
			From:        o.status,
			To:          OrderStatusCancelled,
			Description: "order already closed",
		}
	}
	o.status = OrderStatusCancelled
	ts := at.UTC()
	o.cancelledAt = &ts
	return nil
}

// String provides a human-readable representation
func (o *Order) String() string {
	return fmt.Sprintf("Order[%s, %s -> %s, sku=%s, requested=%d, status=%s]",
		shortID(o.id), o.sourceID, o.destinationID, o.skuID, o.requestedQty, o.status)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Clone returns a deep copy for repository hand-out.
func (o *Order) Clone() *Order {
	var confirmed *int
	if o.confirmedQty != nil {
		v := *o.confirmedQty
		confirmed = &v
	}
	return ReconstructOrder(o.id, o.sourceID, o.destinationID, o.skuID, o.source,
		o.requestedQty, confirmed, o.status, o.assignedStaffID,
		o.createdAt, cloneTime(o.confirmedAt), cloneTime(o.cancelledAt))
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
