package shared

import "time"

// Params are the engine's timing constants. Dedup and TTL comparisons use
// these against the cursor, never against host time.
type Params struct {
	// DedupWindow rejects repeat reads of the same (epc, antenna) pair
	DedupWindow time.Duration

	// PresenceTTL bounds how long an unrefreshed read keeps contributing to
	// RFID stock
	PresenceTTL time.Duration
}

// DefaultParams returns the standard store configuration: a 15 second dedup
// window and a 300 second presence TTL.
func DefaultParams() Params {
	return Params{
		DedupWindow: 15 * time.Second,
		PresenceTTL: 300 * time.Second,
	}
}
