package shared

import (
	"fmt"
	"strings"
)

// Reserved location ids. CashierStorage is implicit: it is never registered
// in the layout, it only accumulates staging snapshots. PrintingWall is a
// registered non-sales location that personalisation replacement tasks can
// target when projected supply is exhausted.
const (
	ZoneCashierStorage = "zone-cashier-storage"
	ZonePrintingWall   = "zone-printing-wall"

	// ExternalLocationPrefix marks replenishment sources that live outside
	// the store (supplier docks, trucks). External sources have no presence
	// or ledger of their own; confirming against them synthesises stock.
	ExternalLocationPrefix = "external-"
)

// IsReservedLocationID reports whether id is one of the reserved zones.
func IsReservedLocationID(id string) bool {
	return id == ZoneCashierStorage || id == ZonePrintingWall
}

// IsExternalLocationID reports whether id names an external source.
func IsExternalLocationID(id string) bool {
	return strings.HasPrefix(id, ExternalLocationPrefix)
}

// RuleID builds the canonical effective-rule id for a (location, sku, source)
// key: rule-<locationId>-<skuId>-<source>, lowercased.
func RuleID(locationID, skuID string, source Source) string {
	return strings.ToLower(fmt.Sprintf("rule-%s-%s-%s", locationID, skuID, source))
}
