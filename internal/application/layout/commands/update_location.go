package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/andrescamacho/floorsense-go/internal/application/common"
	invservices "github.com/andrescamacho/floorsense-go/internal/application/inventory/services"
	"github.com/andrescamacho/floorsense-go/internal/domain/layout"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
)

// UpdateLocationCommand patches a zone. Nil fields keep their current value.
type UpdateLocationCommand struct {
	ID         string
	Name       *string
	Polygon    []layout.Point
	Colour     *string
	IsSales    *bool
	Sources    []string
	AntennaIDs []string
}

// UpdateLocationResponse reports the outcome.
type UpdateLocationResponse struct {
	common.Result
	Location *layout.Location `json:"-"`
}

// UpdateLocationHandler applies a zone patch and recomputes it: flipping the
// sales flag moves the zone between the task and receiving flows, and a new
// source list rescores open task candidates.
type UpdateLocationHandler struct {
	locations  layout.LocationRepository
	recomputer *invservices.Recomputer
	cursor     *shared.Cursor
}

// NewUpdateLocationHandler creates the handler.
func NewUpdateLocationHandler(
	locations layout.LocationRepository,
	recomputer *invservices.Recomputer,
	cursor *shared.Cursor,
) *UpdateLocationHandler {
	return &UpdateLocationHandler{locations: locations, recomputer: recomputer, cursor: cursor}
}

// Handle executes the update.
func (h *UpdateLocationHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*UpdateLocationCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *UpdateLocationCommand")
	}

	if shared.IsReservedLocationID(cmd.ID) {
		return &UpdateLocationResponse{Result: common.Result{Status: common.StatusReservedZoneID}}, nil
	}
	location, err := h.locations.FindByID(ctx, cmd.ID)
	if err != nil {
		var notFound *layout.ErrLocationNotFound
		if errors.As(err, &notFound) {
			return &UpdateLocationResponse{Result: common.Result{Status: common.StatusZoneNotFound}}, nil
		}
		return nil, err
	}

	if cmd.Name != nil {
		location.Rename(*cmd.Name)
	}
	if cmd.Colour != nil {
		location.SetColour(*cmd.Colour)
	}
	if cmd.Polygon != nil {
		location.SetPolygon(cmd.Polygon)
	}
	if cmd.IsSales != nil {
		location.SetSales(*cmd.IsSales)
	}
	if cmd.Sources != nil {
		location.SetSources(cmd.Sources)
	}
	if cmd.AntennaIDs != nil {
		location.SetAntennas(cmd.AntennaIDs)
	}
	if err := h.locations.Update(ctx, location); err != nil {
		return nil, err
	}

	if err := h.recomputer.RecomputeLocation(ctx, location.ID()); err != nil {
		return nil, err
	}
	return &UpdateLocationResponse{
		Result:   common.Result{Status: common.StatusAccepted},
		Location: location,
	}, nil
}
