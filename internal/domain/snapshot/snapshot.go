package snapshot

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
)

// Confidence grades for RFID snapshots. NON_RFID snapshots carry no
// confidence.
var (
	// ConfidencePresent - tags were observed within the TTL
	ConfidencePresent = decimal.RequireFromString("0.9")

	// ConfidenceEmpty - a tracked SKU with no live tags
	ConfidenceEmpty = decimal.RequireFromString("0.7")

	// ConfidenceDeducted - an immediate point-of-sale deduction not yet
	// confirmed by reads; survives recompute while presence still counts more
	// than the deducted floor
	ConfidenceDeducted = decimal.RequireFromString("0.55")
)

// Key identifies a snapshot row.
type Key struct {
	LocationID string
	SKUID      string
	Source     shared.Source
}

// Snapshot is the published per-key quantity. Version increments on every
// write, no-op writes included, so collaborators can detect drift.
type Snapshot struct {
	key              Key
	qty              int
	confidence       *decimal.Decimal
	version          uint64
	lastCalculatedAt time.Time
}

// Reconstruct rebuilds a snapshot row as stored.
func Reconstruct(key Key, qty int, confidence *decimal.Decimal, version uint64, lastCalculatedAt time.Time) Snapshot {
	var conf *decimal.Decimal
	if confidence != nil {
		c := *confidence
		conf = &c
	}
	return Snapshot{key: key, qty: qty, confidence: conf, version: version, lastCalculatedAt: lastCalculatedAt}
}

func (s Snapshot) Key() Key                   { return s.key }
func (s Snapshot) LocationID() string         { return s.key.LocationID }
func (s Snapshot) SKUID() string              { return s.key.SKUID }
func (s Snapshot) Source() shared.Source      { return s.key.Source }
func (s Snapshot) Qty() int                   { return s.qty }
func (s Snapshot) Version() uint64            { return s.version }
func (s Snapshot) LastCalculatedAt() time.Time { return s.lastCalculatedAt }

// Confidence returns the grade, nil for NON_RFID rows.
func (s Snapshot) Confidence() *decimal.Decimal {
	if s.confidence == nil {
		return nil
	}
	c := *s.confidence
	return &c
}

// Deducted reports whether the row holds an unconfirmed immediate deduction.
func (s Snapshot) Deducted() bool {
	return s.confidence != nil && s.confidence.Equal(ConfidenceDeducted)
}
