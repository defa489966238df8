package commands

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/andrescamacho/floorsense-go/internal/application/common"
	ruleservices "github.com/andrescamacho/floorsense-go/internal/application/rules/services"
	"github.com/andrescamacho/floorsense-go/internal/domain/layout"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
)

// CreateLocationCommand registers a new zone. The id is generated when
// empty. Sources may reference zones that do not exist yet, so dataset loads
// can wire cross-references in any order.
type CreateLocationCommand struct {
	ID         string
	Name       string
	Polygon    []layout.Point
	Colour     string
	IsSales    bool
	Sources    []string
	AntennaIDs []string
}

// CreateLocationResponse reports the outcome.
type CreateLocationResponse struct {
	common.Result
	Location *layout.Location `json:"-"`
}

// CreateLocationHandler registers a zone and reprojects, since GENERIC
// templates reach every new non-reserved location immediately.
type CreateLocationHandler struct {
	locations layout.LocationRepository
	projector *ruleservices.Projector
	cursor    *shared.Cursor
}

// NewCreateLocationHandler creates the handler.
func NewCreateLocationHandler(
	locations layout.LocationRepository,
	projector *ruleservices.Projector,
	cursor *shared.Cursor,
) *CreateLocationHandler {
	return &CreateLocationHandler{locations: locations, projector: projector, cursor: cursor}
}

// Handle executes the create.
func (h *CreateLocationHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*CreateLocationCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *CreateLocationCommand")
	}

	id := cmd.ID
	if id == "" {
		id = "zone-" + uuid.New().String()
	}
	if shared.IsReservedLocationID(cmd.ID) {
		return &CreateLocationResponse{Result: common.Result{Status: common.StatusReservedZoneID}}, nil
	}
	// A polygon is optional (back rooms live off the floor plan), but a
	// present one needs at least three vertices.
	if len(cmd.Polygon) > 0 && len(cmd.Polygon) < 3 {
		return &CreateLocationResponse{Result: common.Result{Status: common.StatusInvalidPolygon}}, nil
	}
	exists, err := h.locations.Exists(ctx, id)
	if err != nil {
		return nil, err
	}
	if exists {
		return &CreateLocationResponse{Result: common.Result{Status: common.StatusZoneExists}}, nil
	}

	antennas := make([]layout.Antenna, 0, len(cmd.AntennaIDs))
	for _, antennaID := range cmd.AntennaIDs {
		antennas = append(antennas, layout.NewAntenna(antennaID, id))
	}
	location := layout.NewLocation(id, cmd.Name, cmd.Polygon, cmd.Colour, cmd.IsSales, cmd.Sources, antennas, h.cursor.Value())
	if err := h.locations.Create(ctx, location); err != nil {
		return nil, err
	}

	if _, err := h.projector.Reproject(ctx); err != nil {
		return nil, err
	}
	return &CreateLocationResponse{
		Result:   common.Result{Status: common.StatusAccepted},
		Location: location,
	}, nil
}
