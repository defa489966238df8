package audit

import (
	"time"

	"github.com/google/uuid"
)

// Action classifies a task or order audit entry
type Action string

const (
	ActionCreated   Action = "CREATED"
	ActionAssigned  Action = "ASSIGNED"
	ActionStarted   Action = "STARTED"
	ActionConfirmed Action = "CONFIRMED"
	ActionClosed    Action = "CLOSED"
	ActionCancelled Action = "CANCELLED"
)

// Entry is one line of the audit trail. EntityID is the task or receiving
// order the action happened to.
type Entry struct {
	ID       string
	EntityID string
	Action   Action
	Actor    string
	Details  string
	At       time.Time
}

// NewEntry creates an audit line. Actor is a staff id or "system".
func NewEntry(entityID string, action Action, actor, details string, at time.Time) Entry {
	return Entry{
		ID:       uuid.New().String(),
		EntityID: entityID,
		Action:   action,
		Actor:    actor,
		Details:  details,
		At:       at.UTC(),
	}
}

// Flow kinds. Accepted commands log under their command kind; engine-driven
// transitions log under task_*/order_* kinds.
const (
	FlowRFIDRead   = "rfid_read"
	FlowZoneSweep  = "zone_sweep"
	FlowSalesEvent = "sales_event"
	FlowCartAdd    = "cart_add"
	FlowCartRemove = "cart_remove"
	FlowCheckout   = "cart_checkout"

	FlowTaskCreated    = "task_created"
	FlowTaskAssigned   = "task_assigned"
	FlowTaskStarted    = "task_started"
	FlowTaskConfirmed  = "task_confirmed"
	FlowTaskClosed     = "task_closed"
	FlowOrderCreated   = "order_created"
	FlowOrderAssigned  = "order_assigned"
	FlowOrderConfirmed = "order_confirmed"
	FlowOrderCancelled = "order_cancelled"
)

// FlowEvent is one line of the store-wide timeline: every accepted command
// and every state transition surfaces here so operators can reconstruct
// what happened.
type FlowEvent struct {
	Seq        uint64
	At         time.Time
	Kind       string
	Status     string
	EntityID   string
	LocationID string
	SKUID      string
	Details    string
}

// ReadRecord is one accepted RFID read, kept in a bounded recent-reads
// buffer per engine. Synthetic reads come from internal transfers.
type ReadRecord struct {
	EPC        string
	SKUID      string
	LocationID string
	AntennaID  string
	At         time.Time
	RSSI       *float64
	Synthetic  bool
}
