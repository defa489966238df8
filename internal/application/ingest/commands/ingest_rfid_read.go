package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	cartservices "github.com/andrescamacho/floorsense-go/internal/application/carts/services"
	"github.com/andrescamacho/floorsense-go/internal/application/common"
	invservices "github.com/andrescamacho/floorsense-go/internal/application/inventory/services"
	"github.com/andrescamacho/floorsense-go/internal/domain/audit"
	"github.com/andrescamacho/floorsense-go/internal/domain/catalog"
	"github.com/andrescamacho/floorsense-go/internal/domain/layout"
	"github.com/andrescamacho/floorsense-go/internal/domain/presence"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
)

// IngestRFIDReadCommand is one antenna read from the reader bridge.
// LocationID is optional; when set it must agree with the antenna's zone.
type IngestRFIDReadCommand struct {
	EPC        string
	AntennaID  string
	LocationID string
	Timestamp  time.Time
	RSSI       *float64
}

// IngestRFIDReadResponse reports the read outcome. On acceptance it carries
// the resolved zone and SKU plus how many tags open picks consumed.
type IngestRFIDReadResponse struct {
	common.Result
	LocationID    string `json:"locationId,omitempty"`
	SKUID         string `json:"skuId,omitempty"`
	PicksConsumed int    `json:"picksConsumed,omitempty"`
}

// IngestRFIDReadHandler handles antenna reads: dedup, presence update, pick
// resolution, recompute. Rejected reads never advance the cursor.
type IngestRFIDReadHandler struct {
	locations  layout.LocationRepository
	mappings   catalog.EPCMappingRepository
	presence   presence.Repository
	dedup      presence.DedupIndex
	trail      audit.Trail
	picks      *cartservices.PickResolver
	recomputer *invservices.Recomputer
	cursor     *shared.Cursor
	params     shared.Params
}

// NewIngestRFIDReadHandler creates the handler.
func NewIngestRFIDReadHandler(
	locations layout.LocationRepository,
	mappings catalog.EPCMappingRepository,
	presenceRepo presence.Repository,
	dedup presence.DedupIndex,
	trail audit.Trail,
	picks *cartservices.PickResolver,
	recomputer *invservices.Recomputer,
	cursor *shared.Cursor,
	params shared.Params,
) *IngestRFIDReadHandler {
	return &IngestRFIDReadHandler{
		locations:  locations,
		mappings:   mappings,
		presence:   presenceRepo,
		dedup:      dedup,
		trail:      trail,
		picks:      picks,
		recomputer: recomputer,
		cursor:     cursor,
		params:     params,
	}
}

// Handle executes the read.
func (h *IngestRFIDReadHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*IngestRFIDReadCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *IngestRFIDReadCommand")
	}

	location, err := h.locations.FindByAntenna(ctx, cmd.AntennaID)
	if err != nil {
		var notFound *layout.ErrAntennaNotFound
		if errors.As(err, &notFound) {
			return &IngestRFIDReadResponse{Result: common.Result{Status: common.StatusInvalidAntennaOrZone}}, nil
		}
		return nil, err
	}
	if cmd.LocationID != "" && cmd.LocationID != location.ID() {
		return &IngestRFIDReadResponse{Result: common.Result{Status: common.StatusInvalidAntennaOrZone}}, nil
	}

	last, seen, err := h.dedup.LastAccepted(ctx, cmd.EPC, cmd.AntennaID)
	if err != nil {
		return nil, err
	}
	if seen && !last.Before(cmd.Timestamp.Add(-h.params.DedupWindow)) {
		return &IngestRFIDReadResponse{Result: common.Result{Status: common.StatusDuplicateIgnored}}, nil
	}

	skuID, mapped, err := h.mappings.ActiveSKU(ctx, cmd.EPC, cmd.Timestamp)
	if err != nil {
		return nil, err
	}
	if !mapped {
		return &IngestRFIDReadResponse{Result: common.Result{Status: common.StatusUnknownEPC}}, nil
	}

	now := h.cursor.Advance(cmd.Timestamp)

	previous, had, err := h.presence.FindByEPC(ctx, cmd.EPC)
	if err != nil {
		return nil, err
	}
	record := presence.Record{
		EPC:        cmd.EPC,
		SKUID:      skuID,
		LocationID: location.ID(),
		AntennaID:  cmd.AntennaID,
		LastSeenAt: cmd.Timestamp,
		RSSI:       cmd.RSSI,
	}
	if err := h.presence.Upsert(ctx, record); err != nil {
		return nil, err
	}
	if err := h.dedup.RecordAccepted(ctx, cmd.EPC, cmd.AntennaID, cmd.Timestamp); err != nil {
		return nil, err
	}
	if err := h.trail.AppendRead(ctx, audit.ReadRecord{
		EPC:        cmd.EPC,
		SKUID:      skuID,
		LocationID: location.ID(),
		AntennaID:  cmd.AntennaID,
		At:         cmd.Timestamp,
		RSSI:       cmd.RSSI,
	}); err != nil {
		return nil, err
	}
	if err := h.trail.AppendFlow(ctx, audit.FlowEvent{
		At:         now,
		Kind:       audit.FlowRFIDRead,
		Status:     string(common.StatusAccepted),
		EntityID:   cmd.EPC,
		LocationID: location.ID(),
		SKUID:      skuID,
		Details:    "antenna " + cmd.AntennaID,
	}); err != nil {
		return nil, err
	}

	consumed, err := h.picks.ResolveAt(ctx, location.ID(), skuID)
	if err != nil {
		return nil, err
	}

	touched := []string{location.ID()}
	if had && previous.LocationID != location.ID() {
		touched = append(touched, previous.LocationID)
	}
	if err := h.recomputer.RecomputeMany(ctx, touched...); err != nil {
		return nil, err
	}

	return &IngestRFIDReadResponse{
		Result:        common.Result{Status: common.StatusAccepted},
		LocationID:    location.ID(),
		SKUID:         skuID,
		PicksConsumed: consumed,
	}, nil
}
