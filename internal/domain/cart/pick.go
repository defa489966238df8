package cart

import "time"

// ConsumedEPC remembers one tag taken out of presence for a pick, with the
// antenna it was bound to so a removal can re-materialise it.
type ConsumedEPC struct {
	EPC       string
	AntennaID string
}

// PendingPick tracks the physical side of an RFID basket item. There is no
// suspended execution: the pick is a plain record, reconciled on every
// subsequent read in the item's location and once more at checkout.
type PendingPick struct {
	basketItemID string
	locationID   string
	skuID        string
	remaining    int
	consumed     []ConsumedEPC
	createdAt    time.Time
	completedAt  *time.Time
}

// NewPendingPick opens a pick for an RFID basket item.
func NewPendingPick(basketItemID, locationID, skuID string, qty int, createdAt time.Time) *PendingPick {
	return &PendingPick{
		basketItemID: basketItemID,
		locationID:   locationID,
		skuID:        skuID,
		remaining:    qty,
		createdAt:    createdAt.UTC(),
	}
}

// ReconstructPendingPick rebuilds a pick as stored.
func ReconstructPendingPick(basketItemID, locationID, skuID string, remaining int, consumed []ConsumedEPC, createdAt time.Time, completedAt *time.Time) *PendingPick {
	return &PendingPick{
		basketItemID: basketItemID,
		locationID:   locationID,
		skuID:        skuID,
		remaining:    remaining,
		consumed:     consumed,
		createdAt:    createdAt,
		completedAt:  completedAt,
	}
}

func (p *PendingPick) BasketItemID() string    { return p.basketItemID }
func (p *PendingPick) LocationID() string      { return p.locationID }
func (p *PendingPick) SKUID() string           { return p.skuID }
func (p *PendingPick) Remaining() int          { return p.remaining }
func (p *PendingPick) CreatedAt() time.Time    { return p.createdAt }
func (p *PendingPick) CompletedAt() *time.Time { return p.completedAt }

// Consumed returns a copy of the tags taken so far.
func (p *PendingPick) Consumed() []ConsumedEPC {
	return append([]ConsumedEPC(nil), p.consumed...)
}

// Open reports whether tags are still owed.
func (p *PendingPick) Open() bool {
	return p.remaining > 0
}

// Consume attributes one tag to the pick and completes it when nothing
// remains.
func (p *PendingPick) Consume(epc, antennaID string, at time.Time) {
	if p.remaining <= 0 {
		return
	}
	p.consumed = append(p.consumed, ConsumedEPC{EPC: epc, AntennaID: antennaID})
	p.remaining--
	if p.remaining == 0 {
		ts := at.UTC()
		p.completedAt = &ts
	}
}

// ForceComplete closes the pick at checkout even when tags are still owed.
func (p *PendingPick) ForceComplete(at time.Time) {
	if p.remaining == 0 && p.completedAt != nil {
		return
	}
	p.remaining = 0
	ts := at.UTC()
	p.completedAt = &ts
}

// Clone returns a deep copy for repository hand-out.
func (p *PendingPick) Clone() *PendingPick {
	var completed *time.Time
	if p.completedAt != nil {
		v := *p.completedAt
		completed = &v
	}
	return ReconstructPendingPick(p.basketItemID, p.locationID, p.skuID,
		p.remaining, append([]ConsumedEPC(nil), p.consumed...), p.createdAt, completed)
}
