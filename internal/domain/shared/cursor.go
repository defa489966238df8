package shared

import "time"

// Cursor is the engine's monotonic event clock. Every ingested event carries
// a timestamp and the cursor advances to the maximum timestamp seen so far.
// Out-of-order events never rewind it. All TTL and dedup comparisons are made
// against the cursor, not against host time, which keeps the engine
// deterministic under replay of a timestamped event log.
type Cursor struct {
	current time.Time
}

// NewCursor creates a cursor starting at the given instant.
func NewCursor(start time.Time) *Cursor {
	return &Cursor{current: start.UTC()}
}

// Advance moves the cursor to max(cursor, t) and returns the cursor value.
func (c *Cursor) Advance(t time.Time) time.Time {
	t = t.UTC()
	if t.After(c.current) {
		c.current = t
	}
	return c.current
}

// Value returns the current cursor instant.
func (c *Cursor) Value() time.Time {
	return c.current
}
