package ledger

import "fmt"

// ErrBaselineNotFound indicates no trusted count exists for a key
type ErrBaselineNotFound struct {
	LocationID string
	SKUID      string
}

func (e *ErrBaselineNotFound) Error() string {
	return fmt.Sprintf("no baseline for %s/%s", e.LocationID, e.SKUID)
}
