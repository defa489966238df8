package ledger

import (
	"time"

	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
)

// EntryKind classifies a signed ledger movement
type EntryKind string

const (
	// EntryKindSale - a point-of-sale sale, always negative
	EntryKindSale EntryKind = "SALE"

	// EntryKindReturn - a point-of-sale return, always positive
	EntryKindReturn EntryKind = "RETURN"

	// EntryKindReplenishment - a confirmed transfer movement; positive on the
	// destination, negative on an internal source
	EntryKindReplenishment EntryKind = "REPLENISHMENT"
)

// Entry is one immutable signed movement for a (location, SKU) key. Seq is a
// global append counter assigned by the repository; "since baseline" is
// evaluated as seq > baseline.seq so that equal timestamps order
// deterministically.
type Entry struct {
	locationID string
	skuID      string
	qty        int
	kind       EntryKind
	at         time.Time
	seq        uint64
}

// NewEntry validates and creates a movement prior to append. Sales must be
// negative, returns positive; replenishments carry their own sign.
func NewEntry(locationID, skuID string, qty int, kind EntryKind, at time.Time) (Entry, error) {
	if locationID == "" {
		return Entry{}, shared.NewValidationError("locationId", "must not be empty")
	}
	if skuID == "" {
		return Entry{}, shared.NewValidationError("skuId", "must not be empty")
	}
	if qty == 0 {
		return Entry{}, shared.NewValidationError("qty", "must not be zero")
	}
	switch kind {
	case EntryKindSale:
		if qty > 0 {
			qty = -qty
		}
	case EntryKindReturn:
		if qty < 0 {
			qty = -qty
		}
	case EntryKindReplenishment:
		// signed as given
	default:
		return Entry{}, shared.NewValidationError("kind", "unknown entry kind")
	}
	return Entry{locationID: locationID, skuID: skuID, qty: qty, kind: kind, at: at.UTC()}, nil
}

// ReconstructEntry rebuilds an entry the repository already sequenced.
func ReconstructEntry(locationID, skuID string, qty int, kind EntryKind, at time.Time, seq uint64) Entry {
	return Entry{locationID: locationID, skuID: skuID, qty: qty, kind: kind, at: at, seq: seq}
}

func (e Entry) LocationID() string { return e.locationID }
func (e Entry) SKUID() string      { return e.skuID }
func (e Entry) Qty() int           { return e.qty }
func (e Entry) Kind() EntryKind    { return e.kind }
func (e Entry) At() time.Time      { return e.at }
func (e Entry) Seq() uint64        { return e.seq }

// WithSeq returns a copy carrying the assigned sequence number.
func (e Entry) WithSeq(seq uint64) Entry {
	e.seq = seq
	return e
}

// Baseline is the most recent trusted NON_RFID count for a (location, SKU)
// key. Entries with seq greater than the baseline's accrue against it.
type Baseline struct {
	LocationID string
	SKUID      string
	Qty        int
	At         time.Time
	Seq        uint64
}

// Quantity folds a baseline and its subsequent entries into the current
// count: max(0, baseline + Σ signed deltas since baseline). A missing
// baseline counts as zero at seq 0, so every entry accrues.
func Quantity(baseline *Baseline, entries []Entry) int {
	qty := 0
	var watermark uint64
	if baseline != nil {
		qty = baseline.Qty
		watermark = baseline.Seq
	}
	for _, e := range entries {
		if e.seq > watermark {
			qty += e.qty
		}
	}
	if qty < 0 {
		return 0
	}
	return qty
}
