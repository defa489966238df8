package shared

import "time"

// Clock supplies wall time to the components that stamp work themselves
// rather than receiving a timestamp on the command: the sweep scheduler and
// the API's timestamp defaulting. Everything on the command path keeps using
// the event cursor.
type Clock interface {
	Now() time.Time
}

// SystemClock reads the operating system clock in UTC.
type SystemClock struct{}

// NewSystemClock creates the production clock.
func NewSystemClock() *SystemClock {
	return &SystemClock{}
}

// Now returns the current wall time in UTC.
func (c *SystemClock) Now() time.Time {
	return time.Now().UTC()
}

// FixedClock is a test clock that only moves when told to.
type FixedClock struct {
	now time.Time
}

// NewFixedClock creates a clock pinned to the given instant.
func NewFixedClock(at time.Time) *FixedClock {
	return &FixedClock{now: at}
}

// Now returns the pinned instant.
func (c *FixedClock) Now() time.Time {
	return c.now
}

// Advance moves the clock forward by d.
func (c *FixedClock) Advance(d time.Duration) {
	c.now = c.now.Add(d)
}

// Set pins the clock to a new instant.
func (c *FixedClock) Set(at time.Time) {
	c.now = at
}
