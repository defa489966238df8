package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/andrescamacho/floorsense-go/internal/application/common"
	invservices "github.com/andrescamacho/floorsense-go/internal/application/inventory/services"
	"github.com/andrescamacho/floorsense-go/internal/domain/audit"
	"github.com/andrescamacho/floorsense-go/internal/domain/layout"
	"github.com/andrescamacho/floorsense-go/internal/domain/presence"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
)

// ForceZoneSweepCommand refreshes every tag currently bound to a zone, as if
// the zone's antennas re-read them all at the given instant. Bindings do not
// change and the dedup index is not touched.
type ForceZoneSweepCommand struct {
	LocationID string
	Timestamp  time.Time
}

// ForceZoneSweepResponse reports how many presence records were refreshed.
type ForceZoneSweepResponse struct {
	common.Result
	Refreshed int `json:"refreshed"`
}

// ForceZoneSweepHandler handles forced zone scans.
type ForceZoneSweepHandler struct {
	locations  layout.LocationRepository
	presence   presence.Repository
	trail      audit.Trail
	recomputer *invservices.Recomputer
	cursor     *shared.Cursor
}

// NewForceZoneSweepHandler creates the handler.
func NewForceZoneSweepHandler(
	locations layout.LocationRepository,
	presenceRepo presence.Repository,
	trail audit.Trail,
	recomputer *invservices.Recomputer,
	cursor *shared.Cursor,
) *ForceZoneSweepHandler {
	return &ForceZoneSweepHandler{
		locations:  locations,
		presence:   presenceRepo,
		trail:      trail,
		recomputer: recomputer,
		cursor:     cursor,
	}
}

// Handle executes the sweep.
func (h *ForceZoneSweepHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*ForceZoneSweepCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ForceZoneSweepCommand")
	}

	location, err := h.locations.FindByID(ctx, cmd.LocationID)
	if err != nil {
		var notFound *layout.ErrLocationNotFound
		if errors.As(err, &notFound) {
			return &ForceZoneSweepResponse{Result: common.Result{Status: common.StatusZoneNotFound}}, nil
		}
		return nil, err
	}

	now := h.cursor.Advance(cmd.Timestamp)

	records, err := h.presence.FindByLocation(ctx, location.ID())
	if err != nil {
		return nil, err
	}
	for _, record := range records {
		record.LastSeenAt = cmd.Timestamp
		if err := h.presence.Upsert(ctx, record); err != nil {
			return nil, err
		}
	}

	if err := h.trail.AppendFlow(ctx, audit.FlowEvent{
		At:         now,
		Kind:       audit.FlowZoneSweep,
		Status:     string(common.StatusAccepted),
		LocationID: location.ID(),
		Details:    fmt.Sprintf("refreshed=%d", len(records)),
	}); err != nil {
		return nil, err
	}

	if err := h.recomputer.RecomputeLocation(ctx, location.ID()); err != nil {
		return nil, err
	}

	return &ForceZoneSweepResponse{
		Result:    common.Result{Status: common.StatusAccepted},
		Refreshed: len(records),
	}, nil
}
