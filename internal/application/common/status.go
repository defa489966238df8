package common

// Status is the discriminated outcome of a command. Errors are values here:
// a handler returns a status for every business outcome and reserves Go
// errors for internal faults.
type Status string

const (
	// Acceptance
	StatusAccepted              Status = "accepted"
	StatusAcceptedRFIDImmediate Status = "accepted_rfid_immediate"
	StatusAssigned              Status = "assigned"
	StatusStarted               Status = "started"
	StatusConfirmed             Status = "confirmed"
	StatusConfirmedPartial      Status = "confirmed_partial"

	// Validation: preconditions on inputs; no mutation, no audit entry
	StatusInvalidQty            Status = "invalid_qty"
	StatusInvalidMinMax         Status = "invalid_min_max"
	StatusInvalidPolygon        Status = "invalid_polygon"
	StatusInvalidRole           Status = "invalid_role"
	StatusInvalidSource         Status = "invalid_source"
	StatusInvalidExternalID     Status = "invalid_external_id"
	StatusInvalidAntennaOrZone  Status = "invalid_antenna_or_zone"
	StatusZoneRequired          Status = "zone_required"
	StatusSKURequired           Status = "sku_required"
	StatusAttributesRequired    Status = "attributes_required"
	StatusZoneNotFound          Status = "zone_not_found"
	StatusSKUNotFound           Status = "sku_not_found"
	StatusTaskNotFound          Status = "task_not_found"
	StatusOrderNotFound         Status = "order_not_found"
	StatusStaffNotFound         Status = "staff_not_found"
	StatusTemplateNotFound      Status = "template_not_found"
	StatusRuleNotFound          Status = "rule_not_found"
	StatusItemNotFound          Status = "item_not_found"
	StatusExternalNotFound      Status = "external_not_found"
	StatusSourceNotFound        Status = "source_not_found"
	StatusSourceMismatch        Status = "source_mismatch"
	StatusSourceEqualsDest      Status = "source_equals_destination"
	StatusReservedZoneID        Status = "reserved_zone_id"

	// Business: preconditions on state
	StatusDuplicateIgnored      Status = "duplicate_ignored"
	StatusUnknownEPC            Status = "unknown_epc"
	StatusZoneNotOrderable      Status = "zone_not_orderable"
	StatusInsufficientInventory Status = "insufficient_inventory"
	StatusTaskNotOpen           Status = "task_not_open"
	StatusOrderNotOpen          Status = "order_not_open"
	StatusItemNotOpen           Status = "item_not_open"
	StatusStaffInactive         Status = "staff_inactive"
	StatusStaffNotEligible      Status = "staff_not_eligible_for_zone"
	StatusNoInventoryMoved      Status = "no_inventory_moved"

	// Lifecycle: idempotent ignores that still surface a status
	StatusAlreadyInactive Status = "already_inactive"
	StatusAlreadyActive   Status = "already_active"
	StatusZoneExists      Status = "zone_exists"
	StatusExternalExists  Status = "external_exists"
	StatusCartEmpty       Status = "cart_empty"
)

// Result is embedded by every command result so callers can read the
// outcome uniformly.
type Result struct {
	Status Status `json:"status"`
}

// CommandStatus returns the discriminated outcome.
func (r Result) CommandStatus() Status {
	return r.Status
}

// Statused is implemented by command results via the embedded Result.
type Statused interface {
	CommandStatus() Status
}
