package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/andrescamacho/floorsense-go/internal/application/common"
	invservices "github.com/andrescamacho/floorsense-go/internal/application/inventory/services"
	"github.com/andrescamacho/floorsense-go/internal/domain/audit"
	"github.com/andrescamacho/floorsense-go/internal/domain/receiving"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
)

// ConfirmReceivingOrderCommand books the arrival of an in-transit order.
type ConfirmReceivingOrderCommand struct {
	OrderID string
}

// ConfirmReceivingOrderResponse reports the outcome; MovedQty may be less
// than requested for internal sources.
type ConfirmReceivingOrderResponse struct {
	common.Result
	Order    *receiving.Order `json:"-"`
	MovedQty int              `json:"movedQty"`
}

// ConfirmReceivingOrderHandler executes the inbound movement. External
// sources always deliver in full (RFID tags are synthesised); internal
// sources deliver what they hold.
type ConfirmReceivingOrderHandler struct {
	orders     receiving.OrderRepository
	transfer   *invservices.TransferExecutor
	recomputer *invservices.Recomputer
	trail      audit.Trail
	cursor     *shared.Cursor
}

// NewConfirmReceivingOrderHandler creates the handler.
func NewConfirmReceivingOrderHandler(
	orders receiving.OrderRepository,
	transfer *invservices.TransferExecutor,
	recomputer *invservices.Recomputer,
	trail audit.Trail,
	cursor *shared.Cursor,
) *ConfirmReceivingOrderHandler {
	return &ConfirmReceivingOrderHandler{
		orders:     orders,
		transfer:   transfer,
		recomputer: recomputer,
		trail:      trail,
		cursor:     cursor,
	}
}

// Handle executes the confirmation.
func (h *ConfirmReceivingOrderHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*ConfirmReceivingOrderCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ConfirmReceivingOrderCommand")
	}

	order, err := h.orders.FindByID(ctx, cmd.OrderID)
	if err != nil {
		var notFound *receiving.ErrOrderNotFound
		if errors.As(err, &notFound) {
			return &ConfirmReceivingOrderResponse{Result: common.Result{Status: common.StatusOrderNotFound}}, nil
		}
		return nil, err
	}
	if !order.IsOpen() {
		return &ConfirmReceivingOrderResponse{Result: common.Result{Status: common.StatusOrderNotOpen}}, nil
	}

	now := h.cursor.Value()
	moved, err := h.transfer.Move(ctx, order.SourceID(), order.DestinationID(), order.SKUID(), order.Source(), order.RequestedQty(), now)
	if err != nil {
		return nil, err
	}
	if moved == 0 {
		return &ConfirmReceivingOrderResponse{
			Result: common.Result{Status: common.StatusNoInventoryMoved},
			Order:  order,
		}, nil
	}

	if err := order.Confirm(moved, now); err != nil {
		return nil, err
	}
	if err := h.orders.Update(ctx, order); err != nil {
		return nil, err
	}

	actor := order.AssignedStaffID()
	if actor == "" {
		actor = invservices.SystemActor
	}
	details := fmt.Sprintf("moved=%d from=%s", moved, order.SourceID())
	if err := h.trail.AppendEntry(ctx, audit.NewEntry(order.ID(), audit.ActionConfirmed, actor, details, now)); err != nil {
		return nil, err
	}
	if err := h.trail.AppendFlow(ctx, audit.FlowEvent{
		At:         now,
		Kind:       audit.FlowOrderConfirmed,
		Status:     string(order.Status()),
		EntityID:   order.ID(),
		LocationID: order.DestinationID(),
		SKUID:      order.SKUID(),
		Details:    details,
	}); err != nil {
		return nil, err
	}

	if err := h.recomputer.RecomputeMany(ctx, order.DestinationID(), order.SourceID()); err != nil {
		return nil, err
	}

	return &ConfirmReceivingOrderResponse{
		Result:   common.Result{Status: common.StatusConfirmed},
		Order:    order,
		MovedQty: moved,
	}, nil
}
