package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/floorsense-go/internal/application/common"
	"github.com/andrescamacho/floorsense-go/internal/domain/receiving"
)

// ListOrdersQuery retrieves receiving orders. Empty filter fields are
// unconstrained; OpenOnly narrows to IN_TRANSIT.
type ListOrdersQuery struct {
	Status        string
	DestinationID string
	SourceID      string
	StaffID       string
	OpenOnly      bool
}

// ListOrdersResponse carries the matching orders in creation order.
type ListOrdersResponse struct {
	Orders []*OrderDTO `json:"orders"`
}

// OrderDTO is the wire shape of a receiving order.
type OrderDTO struct {
	ID              string     `json:"id"`
	SourceID        string     `json:"sourceId"`
	DestinationID   string     `json:"destinationId"`
	SKUID           string     `json:"skuId"`
	Source          string     `json:"source"`
	RequestedQty    int        `json:"requestedQty"`
	Status          string     `json:"status"`
	AssignedStaffID string     `json:"assignedStaffId,omitempty"`
	ConfirmedQty    *int       `json:"confirmedQty,omitempty"`
	External        bool       `json:"external"`
	CreatedAt       time.Time  `json:"createdAt"`
	ConfirmedAt     *time.Time `json:"confirmedAt,omitempty"`
	CancelledAt     *time.Time `json:"cancelledAt,omitempty"`
}

// ListOrdersHandler answers the receiving list read model.
type ListOrdersHandler struct {
	orders receiving.OrderRepository
}

// NewListOrdersHandler creates the handler.
func NewListOrdersHandler(orders receiving.OrderRepository) *ListOrdersHandler {
	return &ListOrdersHandler{orders: orders}
}

// Handle executes the query.
func (h *ListOrdersHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*ListOrdersQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListOrdersQuery")
	}

	status := receiving.OrderStatus(query.Status)
	if query.OpenOnly && status == "" {
		status = receiving.OrderStatusInTransit
	}
	orders, err := h.orders.FindAll(ctx, receiving.OrderFilter{
		Status:      status,
		Destination: query.DestinationID,
		SourceID:    query.SourceID,
		StaffID:     query.StaffID,
	})
	if err != nil {
		return nil, err
	}

	out := make([]*OrderDTO, 0, len(orders))
	for _, order := range orders {
		out = append(out, toOrderDTO(order))
	}
	return &ListOrdersResponse{Orders: out}, nil
}

func toOrderDTO(order *receiving.Order) *OrderDTO {
	return &OrderDTO{
		ID:              order.ID(),
		SourceID:        order.SourceID(),
		DestinationID:   order.DestinationID(),
		SKUID:           order.SKUID(),
		Source:          string(order.Source()),
		RequestedQty:    order.RequestedQty(),
		Status:          string(order.Status()),
		AssignedStaffID: order.AssignedStaffID(),
		ConfirmedQty:    order.ConfirmedQty(),
		External:        order.ExternalSource(),
		CreatedAt:       order.CreatedAt(),
		ConfirmedAt:     order.ConfirmedAt(),
		CancelledAt:     order.CancelledAt(),
	}
}
