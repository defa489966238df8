package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/andrescamacho/floorsense-go/internal/application/common"
	invservices "github.com/andrescamacho/floorsense-go/internal/application/inventory/services"
	"github.com/andrescamacho/floorsense-go/internal/domain/catalog"
	"github.com/andrescamacho/floorsense-go/internal/domain/layout"
	"github.com/andrescamacho/floorsense-go/internal/domain/receiving"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
)

// CreateReceivingOrderCommand raises an inbound order. Source may be empty,
// in which case it derives from the SKU's class.
type CreateReceivingOrderCommand struct {
	SourceID      string
	DestinationID string
	SKUID         string
	Source        shared.Source
	RequestedQty  int
}

// CreateReceivingOrderResponse reports the outcome with the created order.
// OrderID is on the wire because the id is generated server-side and callers
// need it to confirm the order later.
type CreateReceivingOrderResponse struct {
	common.Result
	Order   *receiving.Order `json:"-"`
	OrderID string           `json:"orderId,omitempty"`
}

// CreateReceivingOrderHandler validates and raises an inbound order, then
// runs auto-assignment so the order gets an owner straight away.
type CreateReceivingOrderHandler struct {
	locations layout.LocationRepository
	externals layout.ExternalLocationRepository
	skus      catalog.SKURepository
	orders    receiving.OrderRepository
	planner   *invservices.Planner
}

// NewCreateReceivingOrderHandler creates the handler.
func NewCreateReceivingOrderHandler(
	locations layout.LocationRepository,
	externals layout.ExternalLocationRepository,
	skus catalog.SKURepository,
	orders receiving.OrderRepository,
	planner *invservices.Planner,
) *CreateReceivingOrderHandler {
	return &CreateReceivingOrderHandler{
		locations: locations,
		externals: externals,
		skus:      skus,
		orders:    orders,
		planner:   planner,
	}
}

// Handle executes the creation.
func (h *CreateReceivingOrderHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*CreateReceivingOrderCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *CreateReceivingOrderCommand")
	}

	if cmd.RequestedQty <= 0 {
		return respond(common.StatusInvalidQty), nil
	}

	if _, err := h.locations.FindByID(ctx, cmd.DestinationID); err != nil {
		var notFound *layout.ErrLocationNotFound
		if errors.As(err, &notFound) {
			return respond(common.StatusZoneNotFound), nil
		}
		return nil, err
	}

	sku, err := h.skus.FindByID(ctx, cmd.SKUID)
	if err != nil {
		var notFound *catalog.ErrSKUNotFound
		if errors.As(err, &notFound) {
			return respond(common.StatusSKUNotFound), nil
		}
		return nil, err
	}
	source := sku.Source()
	if cmd.Source != "" && cmd.Source != source {
		return respond(common.StatusSourceMismatch), nil
	}

	if cmd.SourceID == cmd.DestinationID {
		return respond(common.StatusSourceEqualsDest), nil
	}
	known, err := h.sourceExists(ctx, cmd.SourceID)
	if err != nil {
		return nil, err
	}
	if !known {
		return respond(common.StatusSourceNotFound), nil
	}

	order, err := h.planner.CreateOrder(ctx, cmd.SourceID, cmd.DestinationID, sku.ID(), source, cmd.RequestedQty)
	if err != nil {
		return nil, err
	}
	if err := h.planner.AssignPending(ctx); err != nil {
		return nil, err
	}
	// Re-read: assignment may have pinned a staff member.
	order, err = h.orders.FindByID(ctx, order.ID())
	if err != nil {
		return nil, err
	}

	return &CreateReceivingOrderResponse{
		Result:  common.Result{Status: common.StatusAccepted},
		Order:   order,
		OrderID: order.ID(),
	}, nil
}

func (h *CreateReceivingOrderHandler) sourceExists(ctx context.Context, sourceID string) (bool, error) {
	if shared.IsExternalLocationID(sourceID) {
		return h.externals.Exists(ctx, sourceID)
	}
	return h.locations.Exists(ctx, sourceID)
}

func respond(status common.Status) *CreateReceivingOrderResponse {
	return &CreateReceivingOrderResponse{Result: common.Result{Status: status}}
}
