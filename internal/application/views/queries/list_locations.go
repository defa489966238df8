package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/floorsense-go/internal/application/common"
	"github.com/andrescamacho/floorsense-go/internal/domain/layout"
)

// ListLocationsQuery retrieves the registered zones and external sources.
type ListLocationsQuery struct{}

// ListLocationsResponse carries zones in id order plus the external source
// registry.
type ListLocationsResponse struct {
	Locations []*LocationDTO    `json:"locations"`
	Externals map[string]string `json:"externals"`
}

// LocationDTO is the wire shape of a zone.
type LocationDTO struct {
	ID        string         `json:"id"`
	Name      string         `json:"name"`
	Colour    string         `json:"colour,omitempty"`
	IsSales   bool           `json:"isSales"`
	Reserved  bool           `json:"reserved"`
	Polygon   []layout.Point `json:"polygon,omitempty"`
	Sources   []string       `json:"sources,omitempty"`
	Antennas  []string       `json:"antennas,omitempty"`
	CreatedAt time.Time      `json:"createdAt"`
}

// ListLocationsHandler answers the zone list read model.
type ListLocationsHandler struct {
	locations layout.LocationRepository
	externals layout.ExternalLocationRepository
}

// NewListLocationsHandler creates the handler.
func NewListLocationsHandler(
	locations layout.LocationRepository,
	externals layout.ExternalLocationRepository,
) *ListLocationsHandler {
	return &ListLocationsHandler{locations: locations, externals: externals}
}

// Handle executes the query.
func (h *ListLocationsHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	if _, ok := request.(*ListLocationsQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListLocationsQuery")
	}

	locations, err := h.locations.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	externals, err := h.externals.FindAll(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]*LocationDTO, 0, len(locations))
	for _, location := range locations {
		out = append(out, toLocationDTO(location))
	}
	return &ListLocationsResponse{Locations: out, Externals: externals}, nil
}

func toLocationDTO(location *layout.Location) *LocationDTO {
	antennas := location.Antennas()
	antennaIDs := make([]string, 0, len(antennas))
	for _, antenna := range antennas {
		antennaIDs = append(antennaIDs, antenna.ID())
	}
	return &LocationDTO{
		ID:        location.ID(),
		Name:      location.Name(),
		Colour:    location.Colour(),
		IsSales:   location.IsSales(),
		Reserved:  location.IsReserved(),
		Polygon:   location.Polygon(),
		Sources:   location.Sources(),
		Antennas:  antennaIDs,
		CreatedAt: location.CreatedAt(),
	}
}
