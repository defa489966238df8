package layout

import "fmt"

// ErrLocationNotFound indicates a location id is not registered
type ErrLocationNotFound struct {
	LocationID string
}

func (e *ErrLocationNotFound) Error() string {
	return fmt.Sprintf("location not found: %s", e.LocationID)
}

// ErrLocationExists indicates a create collided with an existing id
type ErrLocationExists struct {
	LocationID string
}

func (e *ErrLocationExists) Error() string {
	return fmt.Sprintf("location already exists: %s", e.LocationID)
}

// ErrAntennaNotFound indicates an antenna id is not bound to any location
type ErrAntennaNotFound struct {
	AntennaID string
}

func (e *ErrAntennaNotFound) Error() string {
	return fmt.Sprintf("antenna not found: %s", e.AntennaID)
}
