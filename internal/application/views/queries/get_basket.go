package queries

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andrescamacho/floorsense-go/internal/application/common"
	"github.com/andrescamacho/floorsense-go/internal/domain/cart"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
)

// GetBasketQuery retrieves a customer's open cart.
type GetBasketQuery struct {
	CustomerID string
}

// GetBasketResponse carries the customer's IN_CART items in add order.
type GetBasketResponse struct {
	CustomerID string           `json:"customerId"`
	Items      []*BasketItemDTO `json:"items"`
}

// BasketItemDTO is the wire shape of one cart line. PickRemaining is only
// meaningful for RFID items; NON_RFID lines have no physical pick.
type BasketItemDTO struct {
	ID            string    `json:"id"`
	LocationID    string    `json:"locationId"`
	SKUID         string    `json:"skuId"`
	Source        string    `json:"source"`
	Qty           int       `json:"qty"`
	PickedQty     int       `json:"pickedQty"`
	PickRemaining int       `json:"pickRemaining"`
	Status        string    `json:"status"`
	AddedAt       time.Time `json:"addedAt"`
}

// GetBasketHandler answers the basket read model.
type GetBasketHandler struct {
	items cart.ItemRepository
	picks cart.PickRepository
}

// NewGetBasketHandler creates the handler.
func NewGetBasketHandler(items cart.ItemRepository, picks cart.PickRepository) *GetBasketHandler {
	return &GetBasketHandler{items: items, picks: picks}
}

// Handle executes the query.
func (h *GetBasketHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetBasketQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetBasketQuery")
	}

	items, err := h.items.FindInCartByCustomer(ctx, query.CustomerID)
	if err != nil {
		return nil, err
	}

	out := make([]*BasketItemDTO, 0, len(items))
	for _, item := range items {
		dto := &BasketItemDTO{
			ID:         item.ID(),
			LocationID: item.LocationID(),
			SKUID:      item.SKUID(),
			Source:     string(item.Source()),
			Qty:        item.Qty(),
			PickedQty:  item.PickedConfirmedQty(),
			Status:     string(item.Status()),
			AddedAt:    item.CreatedAt(),
		}
		if item.Source() == shared.SourceRFID {
			pick, err := h.picks.FindByItem(ctx, item.ID())
			if err != nil {
				var notFound *cart.ErrItemNotFound
				if !errors.As(err, &notFound) {
					return nil, err
				}
			} else {
				dto.PickRemaining = pick.Remaining()
			}
		}
		out = append(out, dto)
	}
	return &GetBasketResponse{CustomerID: query.CustomerID, Items: out}, nil
}
