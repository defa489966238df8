package presence

import "time"

// Record is the engine's belief about where an EPC physically is, based on
// the most recent accepted read. LastSeenAt stores the event timestamp, not
// the cursor; staleness is always judged against the cursor.
type Record struct {
	EPC        string
	SKUID      string
	LocationID string
	AntennaID  string
	LastSeenAt time.Time
	RSSI       *float64
}

// PresentAt reports whether the record still contributes to stock at the
// given cursor instant: cursor − lastSeenAt ≤ ttl.
func (r Record) PresentAt(cursor time.Time, ttl time.Duration) bool {
	return cursor.Sub(r.LastSeenAt) <= ttl
}

// Clone returns a copy with its own RSSI cell.
func (r Record) Clone() Record {
	out := r
	if r.RSSI != nil {
		v := *r.RSSI
		out.RSSI = &v
	}
	return out
}
