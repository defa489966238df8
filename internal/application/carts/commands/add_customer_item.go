package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andrescamacho/floorsense-go/internal/application/common"
	invservices "github.com/andrescamacho/floorsense-go/internal/application/inventory/services"
	"github.com/andrescamacho/floorsense-go/internal/domain/audit"
	"github.com/andrescamacho/floorsense-go/internal/domain/cart"
	"github.com/andrescamacho/floorsense-go/internal/domain/catalog"
	"github.com/andrescamacho/floorsense-go/internal/domain/layout"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
)

// AddCustomerItemCommand reserves units in a customer's cart at a sales
// location.
type AddCustomerItemCommand struct {
	CustomerID string
	LocationID string
	SKUID      string
	Qty        int
	Timestamp  time.Time
}

// AddCustomerItemResponse reports the outcome. AvailableQty carries what the
// location could still offer, both on success and on insufficient_inventory.
// ItemID is on the wire because the id is generated server-side and callers
// need it to remove the line later.
type AddCustomerItemResponse struct {
	common.Result
	Item         *cart.Item `json:"-"`
	ItemID       string     `json:"itemId,omitempty"`
	AvailableQty int        `json:"availableQty"`
}

// AddCustomerItemHandler creates an IN_CART item and, for RFID SKUs, the
// pending pick that subsequent reads will consume against. The reservation
// lives entirely in the basket item: snapshots do not change on add.
type AddCustomerItemHandler struct {
	locations    layout.LocationRepository
	skus         catalog.SKURepository
	items        cart.ItemRepository
	picks        cart.PickRepository
	availability *invservices.Availability
	trail        audit.Trail
	cursor       *shared.Cursor
}

// NewAddCustomerItemHandler creates the handler.
func NewAddCustomerItemHandler(
	locations layout.LocationRepository,
	skus catalog.SKURepository,
	items cart.ItemRepository,
	picks cart.PickRepository,
	availability *invservices.Availability,
	trail audit.Trail,
	cursor *shared.Cursor,
) *AddCustomerItemHandler {
	return &AddCustomerItemHandler{
		locations:    locations,
		skus:         skus,
		items:        items,
		picks:        picks,
		availability: availability,
		trail:        trail,
		cursor:       cursor,
	}
}

// Handle executes the add.
func (h *AddCustomerItemHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*AddCustomerItemCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *AddCustomerItemCommand")
	}

	if cmd.Qty <= 0 {
		return &AddCustomerItemResponse{Result: common.Result{Status: common.StatusInvalidQty}}, nil
	}
	location, err := h.locations.FindByID(ctx, cmd.LocationID)
	if err != nil {
		var notFound *layout.ErrLocationNotFound
		if errors.As(err, &notFound) {
			return &AddCustomerItemResponse{Result: common.Result{Status: common.StatusZoneNotFound}}, nil
		}
		return nil, err
	}
	if !location.IsSales() {
		return &AddCustomerItemResponse{Result: common.Result{Status: common.StatusZoneNotOrderable}}, nil
	}
	sku, err := h.skus.FindByID(ctx, cmd.SKUID)
	if err != nil {
		var notFound *catalog.ErrSKUNotFound
		if errors.As(err, &notFound) {
			return &AddCustomerItemResponse{Result: common.Result{Status: common.StatusSKUNotFound}}, nil
		}
		return nil, err
	}

	now := h.cursor.Advance(cmd.Timestamp)

	orderable, err := h.availability.Orderable(ctx, location.ID(), sku.ID(), sku.Source())
	if err != nil {
		return nil, err
	}
	if cmd.Qty > orderable {
		return &AddCustomerItemResponse{
			Result:       common.Result{Status: common.StatusInsufficientInventory},
			AvailableQty: orderable,
		}, nil
	}

	item := cart.NewItem(cmd.CustomerID, location.ID(), sku.ID(), sku.Source(), cmd.Qty, cmd.Timestamp)
	if err := h.items.Create(ctx, item); err != nil {
		return nil, err
	}
	if sku.Source() == shared.SourceRFID {
		pick := cart.NewPendingPick(item.ID(), location.ID(), sku.ID(), cmd.Qty, cmd.Timestamp)
		if err := h.picks.Create(ctx, pick); err != nil {
			return nil, err
		}
	}

	if err := h.trail.AppendFlow(ctx, audit.FlowEvent{
		At:         now,
		Kind:       audit.FlowCartAdd,
		Status:     string(common.StatusAccepted),
		EntityID:   item.ID(),
		LocationID: location.ID(),
		SKUID:      sku.ID(),
		Details:    fmt.Sprintf("customer %s qty=%d", cmd.CustomerID, cmd.Qty),
	}); err != nil {
		return nil, err
	}

	// No recompute: the reservation discounts Orderable directly, snapshots
	// only move once tags are physically picked or the sale lands.
	return &AddCustomerItemResponse{
		Result:       common.Result{Status: common.StatusAccepted},
		Item:         item,
		ItemID:       item.ID(),
		AvailableQty: orderable - cmd.Qty,
	}, nil
}
