package layout

import (
	"time"

	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
)

// Point is a vertex of a location polygon on the store's 2-D floor plane.
type Point struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Antenna is a fixed RFID reader bound to exactly one location. The first
// antenna registered for a location is its primary: synthesised and
// re-bound EPCs land there.
type Antenna struct {
	id         string
	locationID string
}

// NewAntenna creates an antenna bound to a location.
func NewAntenna(id, locationID string) Antenna {
	return Antenna{id: id, locationID: locationID}
}

func (a Antenna) ID() string         { return a.id }
func (a Antenna) LocationID() string { return a.locationID }

// Location is a zone of the store floor: a polygon with a display colour, a
// sales flag, an ordered list of replenishment sources and the antennas it
// owns. Sources are location ids or external-* ids; their order is the
// planner's candidate preference.
type Location struct {
	id        string
	name      string
	polygon   []Point
	colour    string
	isSales   bool
	sources   []string
	antennas  []Antenna
	createdAt time.Time
}

// NewLocation creates a location. Antenna order is preserved; the first one
// is the primary.
func NewLocation(id, name string, polygon []Point, colour string, isSales bool, sources []string, antennas []Antenna, createdAt time.Time) *Location {
	return &Location{
		id:        id,
		name:      name,
		polygon:   append([]Point(nil), polygon...),
		colour:    colour,
		isSales:   isSales,
		sources:   append([]string(nil), sources...),
		antennas:  append([]Antenna(nil), antennas...),
		createdAt: createdAt,
	}
}

func (l *Location) ID() string           { return l.id }
func (l *Location) Name() string         { return l.name }
func (l *Location) Colour() string       { return l.colour }
func (l *Location) IsSales() bool        { return l.isSales }
func (l *Location) CreatedAt() time.Time { return l.createdAt }

// Polygon returns a copy of the zone outline.
func (l *Location) Polygon() []Point {
	return append([]Point(nil), l.polygon...)
}

// Sources returns a copy of the ordered replenishment source list.
func (l *Location) Sources() []string {
	return append([]string(nil), l.sources...)
}

// Antennas returns a copy of the owned antennas in registration order.
func (l *Location) Antennas() []Antenna {
	return append([]Antenna(nil), l.antennas...)
}

// PrimaryAntenna returns the first registered antenna, if any.
func (l *Location) PrimaryAntenna() (Antenna, bool) {
	if len(l.antennas) == 0 {
		return Antenna{}, false
	}
	return l.antennas[0], true
}

// HasAntenna reports whether the location owns the given antenna id.
func (l *Location) HasAntenna(antennaID string) bool {
	for _, a := range l.antennas {
		if a.id == antennaID {
			return true
		}
	}
	return false
}

// HasSource reports whether sourceID appears in the configured source list.
func (l *Location) HasSource(sourceID string) bool {
	for _, s := range l.sources {
		if s == sourceID {
			return true
		}
	}
	return false
}

// IsReserved reports whether this is one of the reserved zones.
func (l *Location) IsReserved() bool {
	return shared.IsReservedLocationID(l.id)
}

// Rename updates the display name.
func (l *Location) Rename(name string) {
	l.name = name
}

// SetColour updates the display colour.
func (l *Location) SetColour(colour string) {
	l.colour = colour
}

// SetPolygon replaces the zone outline.
func (l *Location) SetPolygon(polygon []Point) {
	l.polygon = append([]Point(nil), polygon...)
}

// SetSales flips the sales flag. Sales locations are the only ones carts can
// order from; non-sales locations replenish through receiving orders.
func (l *Location) SetSales(isSales bool) {
	l.isSales = isSales
}

// SetSources replaces the ordered replenishment source list.
func (l *Location) SetSources(sources []string) {
	l.sources = append([]string(nil), sources...)
}

// RemoveSource deletes sourceID from the source list, reporting whether it
// was present.
func (l *Location) RemoveSource(sourceID string) bool {
	for i, s := range l.sources {
		if s == sourceID {
			l.sources = append(l.sources[:i], l.sources[i+1:]...)
			return true
		}
	}
	return false
}

// SetAntennas replaces the owned antenna list, rebinding each to this
// location.
func (l *Location) SetAntennas(antennaIDs []string) {
	antennas := make([]Antenna, 0, len(antennaIDs))
	for _, id := range antennaIDs {
		antennas = append(antennas, NewAntenna(id, l.id))
	}
	l.antennas = antennas
}

// Clone returns a deep copy, used by repositories to hand out defensive
// copies.
func (l *Location) Clone() *Location {
	return NewLocation(l.id, l.name, l.polygon, l.colour, l.isSales, l.sources, l.antennas, l.createdAt)
}
