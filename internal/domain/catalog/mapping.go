package catalog

import "time"

// EPCMapping is a time-windowed association from an EPC to a SKU. At most
// one mapping is active for a given EPC at any instant; an open window has a
// nil ActiveTo.
type EPCMapping struct {
	epc        string
	skuID      string
	activeFrom time.Time
	activeTo   *time.Time
}

// NewEPCMapping creates a mapping active from the given instant.
func NewEPCMapping(epc, skuID string, activeFrom time.Time, activeTo *time.Time) EPCMapping {
	var to *time.Time
	if activeTo != nil {
		t := activeTo.UTC()
		to = &t
	}
	return EPCMapping{epc: epc, skuID: skuID, activeFrom: activeFrom.UTC(), activeTo: to}
}

func (m EPCMapping) EPC() string           { return m.epc }
func (m EPCMapping) SKUID() string         { return m.skuID }
func (m EPCMapping) ActiveFrom() time.Time { return m.activeFrom }

// ActiveTo returns the window end, nil for an open window.
func (m EPCMapping) ActiveTo() *time.Time {
	if m.activeTo == nil {
		return nil
	}
	t := *m.activeTo
	return &t
}

// ActiveAt reports whether the mapping covers the given instant.
func (m EPCMapping) ActiveAt(at time.Time) bool {
	if at.Before(m.activeFrom) {
		return false
	}
	if m.activeTo != nil && !at.Before(*m.activeTo) {
		return false
	}
	return true
}
