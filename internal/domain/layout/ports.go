package layout

import "context"

// LocationRepository stores the registered zones. Reserved ids follow the
// same port: zone-printing-wall is registered at construction,
// zone-cashier-storage never is.
type LocationRepository interface {
	// Create persists a new location
	Create(ctx context.Context, location *Location) error

	// Update saves changes to an existing location
	Update(ctx context.Context, location *Location) error

	// Delete removes a location
	Delete(ctx context.Context, id string) error

	// FindByID retrieves a location by its id
	FindByID(ctx context.Context, id string) (*Location, error)

	// FindByAntenna retrieves the location owning the given antenna
	FindByAntenna(ctx context.Context, antennaID string) (*Location, error)

	// FindAll retrieves every registered location in id order
	FindAll(ctx context.Context) ([]*Location, error)

	// Exists reports whether a location id is registered
	Exists(ctx context.Context, id string) (bool, error)
}

// ExternalLocationRepository stores the registered external-* source ids.
type ExternalLocationRepository interface {
	// Register adds an external source id with a display label
	Register(ctx context.Context, id, label string) error

	// Remove deletes an external source id
	Remove(ctx context.Context, id string) error

	// Exists reports whether the external id is registered
	Exists(ctx context.Context, id string) (bool, error)

	// FindAll returns the registered ids mapped to their labels
	FindAll(ctx context.Context) (map[string]string, error)
}
