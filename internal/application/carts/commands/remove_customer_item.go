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
	"github.com/andrescamacho/floorsense-go/internal/domain/presence"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
)

// RemoveCustomerItemCommand puts a basket item back on the floor.
type RemoveCustomerItemCommand struct {
	BasketItemID string
	Timestamp    time.Time
}

// RemoveCustomerItemResponse reports the outcome.
type RemoveCustomerItemResponse struct {
	common.Result
}

// RemoveCustomerItemHandler releases an item's reservation. RFID tags the
// pick already consumed are re-materialised in the item's location as
// synthetic reads; if older data attributed more picked units than the pick
// recorded, the shortfall is synthesised as fresh tags.
type RemoveCustomerItemHandler struct {
	items      cart.ItemRepository
	picks      cart.PickRepository
	presence   presence.Repository
	transfer   *invservices.TransferExecutor
	trail      audit.Trail
	recomputer *invservices.Recomputer
	cursor     *shared.Cursor
}

// NewRemoveCustomerItemHandler creates the handler.
func NewRemoveCustomerItemHandler(
	items cart.ItemRepository,
	picks cart.PickRepository,
	presenceRepo presence.Repository,
	transfer *invservices.TransferExecutor,
	trail audit.Trail,
	recomputer *invservices.Recomputer,
	cursor *shared.Cursor,
) *RemoveCustomerItemHandler {
	return &RemoveCustomerItemHandler{
		items:      items,
		picks:      picks,
		presence:   presenceRepo,
		transfer:   transfer,
		trail:      trail,
		recomputer: recomputer,
		cursor:     cursor,
	}
}

// Handle executes the remove.
func (h *RemoveCustomerItemHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*RemoveCustomerItemCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *RemoveCustomerItemCommand")
	}

	item, err := h.items.FindByID(ctx, cmd.BasketItemID)
	if err != nil {
		var notFound *cart.ErrItemNotFound
		if errors.As(err, &notFound) {
			return &RemoveCustomerItemResponse{Result: common.Result{Status: common.StatusItemNotFound}}, nil
		}
		return nil, err
	}
	if item.Status() != cart.ItemStatusInCart {
		return &RemoveCustomerItemResponse{Result: common.Result{Status: common.StatusItemNotOpen}}, nil
	}

	now := h.cursor.Advance(cmd.Timestamp)

	if item.Source() == shared.SourceRFID {
		if err := h.restoreTags(ctx, item, now); err != nil {
			return nil, err
		}
	}

	if err := item.MarkRemoved(now); err != nil {
		return nil, err
	}
	if err := h.items.Update(ctx, item); err != nil {
		return nil, err
	}

	if err := h.trail.AppendFlow(ctx, audit.FlowEvent{
		At:         now,
		Kind:       audit.FlowCartRemove,
		Status:     string(common.StatusAccepted),
		EntityID:   item.ID(),
		LocationID: item.LocationID(),
		SKUID:      item.SKUID(),
		Details:    fmt.Sprintf("customer %s qty=%d", item.CustomerID(), item.Qty()),
	}); err != nil {
		return nil, err
	}

	if err := h.recomputer.RecomputeLocation(ctx, item.LocationID()); err != nil {
		return nil, err
	}
	return &RemoveCustomerItemResponse{Result: common.Result{Status: common.StatusAccepted}}, nil
}

// restoreTags puts the pick's consumed EPCs back into presence and closes
// the pick so later reads stop feeding it.
func (h *RemoveCustomerItemHandler) restoreTags(ctx context.Context, item *cart.Item, now time.Time) error {
	pick, err := h.picks.FindByItem(ctx, item.ID())
	if err != nil {
		var notFound *cart.ErrItemNotFound
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}

	consumed := pick.Consumed()
	for _, tag := range consumed {
		err := h.presence.Upsert(ctx, presence.Record{
			EPC:        tag.EPC,
			SKUID:      item.SKUID(),
			LocationID: item.LocationID(),
			AntennaID:  tag.AntennaID,
			LastSeenAt: now,
		})
		if err != nil {
			return err
		}
		err = h.trail.AppendRead(ctx, audit.ReadRecord{
			EPC:        tag.EPC,
			SKUID:      item.SKUID(),
			LocationID: item.LocationID(),
			AntennaID:  tag.AntennaID,
			At:         now,
			Synthetic:  true,
		})
		if err != nil {
			return err
		}
	}

	// Items migrated from older data may claim more picked units than the
	// pick recorded; invent tags for the difference so stock is not lost.
	if shortfall := item.PickedConfirmedQty() - len(consumed); shortfall > 0 {
		if _, err := h.transfer.Synthesise(ctx, item.LocationID(), item.SKUID(), shortfall, now); err != nil {
			return err
		}
	}

	pick.ForceComplete(now)
	return h.picks.Update(ctx, pick)
}
