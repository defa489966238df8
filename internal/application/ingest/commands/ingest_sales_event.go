package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andrescamacho/floorsense-go/internal/application/common"
	invservices "github.com/andrescamacho/floorsense-go/internal/application/inventory/services"
	"github.com/andrescamacho/floorsense-go/internal/domain/audit"
	"github.com/andrescamacho/floorsense-go/internal/domain/catalog"
	"github.com/andrescamacho/floorsense-go/internal/domain/layout"
	"github.com/andrescamacho/floorsense-go/internal/domain/ledger"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
)

// IngestSalesEventCommand is one point-of-sale movement. Qty is always
// positive; the event type carries the direction.
type IngestSalesEventCommand struct {
	SKUID      string
	LocationID string
	EventType  ledger.EntryKind
	Qty        int
	Timestamp  time.Time
}

// IngestSalesEventResponse reports how the event was applied:
// accepted_rfid_immediate for the RFID fast-deduction path, accepted for
// ledger movements.
type IngestSalesEventResponse struct {
	common.Result
}

// IngestSalesEventHandler routes a sale or return into the right stock
// mechanism. RFID sales deduct presence immediately; everything else lands
// in the movement ledger and folds in on recompute.
type IngestSalesEventHandler struct {
	locations  layout.LocationRepository
	skus       catalog.SKURepository
	ledger     ledger.Repository
	trail      audit.Trail
	recomputer *invservices.Recomputer
	cursor     *shared.Cursor
}

// NewIngestSalesEventHandler creates the handler.
func NewIngestSalesEventHandler(
	locations layout.LocationRepository,
	skus catalog.SKURepository,
	ledgerRepo ledger.Repository,
	trail audit.Trail,
	recomputer *invservices.Recomputer,
	cursor *shared.Cursor,
) *IngestSalesEventHandler {
	return &IngestSalesEventHandler{
		locations:  locations,
		skus:       skus,
		ledger:     ledgerRepo,
		trail:      trail,
		recomputer: recomputer,
		cursor:     cursor,
	}
}

// Handle executes the sales event.
func (h *IngestSalesEventHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*IngestSalesEventCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *IngestSalesEventCommand")
	}

	if cmd.Qty <= 0 {
		return &IngestSalesEventResponse{Result: common.Result{Status: common.StatusInvalidQty}}, nil
	}
	if cmd.EventType != ledger.EntryKindSale && cmd.EventType != ledger.EntryKindReturn {
		return nil, fmt.Errorf("unknown sales event type %q", cmd.EventType)
	}

	location, err := h.locations.FindByID(ctx, cmd.LocationID)
	if err != nil {
		var notFound *layout.ErrLocationNotFound
		if errors.As(err, &notFound) {
			return &IngestSalesEventResponse{Result: common.Result{Status: common.StatusZoneNotFound}}, nil
		}
		return nil, err
	}

	sku, err := h.skus.FindByID(ctx, cmd.SKUID)
	if err != nil {
		var notFound *catalog.ErrSKUNotFound
		if errors.As(err, &notFound) {
			return &IngestSalesEventResponse{Result: common.Result{Status: common.StatusSKUNotFound}}, nil
		}
		return nil, err
	}

	now := h.cursor.Advance(cmd.Timestamp)

	status := common.StatusAccepted
	if cmd.EventType == ledger.EntryKindSale && sku.Source() == shared.SourceRFID {
		// RFID sale: remove sold tags from presence right now instead of
		// waiting for the next read cycle to notice they left.
		if err := h.recomputer.DeductImmediately(ctx, location.ID(), sku.ID(), cmd.Qty); err != nil {
			return nil, err
		}
		status = common.StatusAcceptedRFIDImmediate
	} else {
		entry, err := ledger.NewEntry(location.ID(), sku.ID(), cmd.Qty, cmd.EventType, cmd.Timestamp)
		if err != nil {
			return nil, err
		}
		if _, err := h.ledger.Append(ctx, entry); err != nil {
			return nil, err
		}
	}

	if err := h.trail.AppendFlow(ctx, audit.FlowEvent{
		At:         now,
		Kind:       audit.FlowSalesEvent,
		Status:     string(status),
		LocationID: location.ID(),
		SKUID:      sku.ID(),
		Details:    fmt.Sprintf("%s qty=%d", cmd.EventType, cmd.Qty),
	}); err != nil {
		return nil, err
	}

	if err := h.recomputer.RecomputeLocation(ctx, location.ID()); err != nil {
		return nil, err
	}

	return &IngestSalesEventResponse{Result: common.Result{Status: status}}, nil
}
