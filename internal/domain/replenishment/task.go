package replenishment

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
)

// TaskStatus represents the current status of a replenishment task
type TaskStatus string

const (
	// TaskStatusCreated - planned, nobody owns it yet
	TaskStatusCreated TaskStatus = "CREATED"

	// TaskStatusAssigned - pinned to a staff member
	TaskStatusAssigned TaskStatus = "ASSIGNED"

	// TaskStatusInProgress - staff started working; the planner no longer
	// merges or trims it
	TaskStatusInProgress TaskStatus = "IN_PROGRESS"

	// TaskStatusConfirmed - stock moved, task closed
	TaskStatusConfirmed TaskStatus = "CONFIRMED"

	// TaskStatusRejected - closed without movement
	TaskStatusRejected TaskStatus = "REJECTED"
)

// CloseReason explains why a task left the open set
type CloseReason string

const (
	CloseReasonConfirmed        CloseReason = "confirmed"
	CloseReasonConfirmedPartial CloseReason = "confirmed_partial"
	CloseReasonMergedPlan       CloseReason = "merged_plan"
	CloseReasonStockRecovered   CloseReason = "stock_recovered"
	CloseReasonPlanAdjusted     CloseReason = "plan_adjusted"
	CloseReasonNonSalesFlow     CloseReason = "non_sales_receiving_flow"
	CloseReasonRuleDeleted      CloseReason = "rule_deleted"
	CloseReasonSourceRemoved    CloseReason = "source_removed"
	CloseReasonZoneDeleted      CloseReason = "zone_deleted"
)

// SourceCandidate is a potential origin for the movement, scored by the
// destination's configured sort order and the stock available after other
// open tasks' reservations.
type SourceCandidate struct {
	ZoneID       string
	SortOrder    int
	AvailableQty int
}

// Task is one planned stock movement towards a destination location.
//
// State machine:
//
//	CREATED -> ASSIGNED -> IN_PROGRESS -> CONFIRMED
//	any open state -> REJECTED (merge, trim, rule deletion, source removal)
type Task struct {
	id           string
	ruleID       string
	destination  string
	skuID        string
	source       shared.Source
	status       TaskStatus
	candidates   []SourceCandidate
	sourceZoneID string

	triggerQty int
	deficitQty int
	targetQty  int

	assignedStaffID string
	confirmedQty    *int
	confirmedBy     string
	closeReason     CloseReason

	// adHoc tasks come from the personalisation flow rather than a live
	// rule; the planner's merge/trim passes leave them alone
	adHoc bool

	createdAt  time.Time
	assignedAt *time.Time
	startedAt  *time.Time
	closedAt   *time.Time
}

// NewTask creates a planner-owned task in CREATED state.
func NewTask(ruleID, destination, skuID string, source shared.Source, triggerQty, deficitQty, targetQty int, candidates []SourceCandidate, sourceZoneID string, createdAt time.Time) *Task {
	return &Task{
		id:           uuid.New().String(),
		ruleID:       ruleID,
		destination:  destination,
		skuID:        skuID,
		source:       source,
		status:       TaskStatusCreated,
		candidates:   append([]SourceCandidate(nil), candidates...),
		sourceZoneID: sourceZoneID,
		triggerQty:   triggerQty,
		deficitQty:   deficitQty,
		targetQty:    targetQty,
		createdAt:    createdAt.UTC(),
	}
}

// NewAdHocTask creates a personalisation replacement task. It follows the
// same state machine but is exempt from merge and trim.
func NewAdHocTask(ruleID, destination, skuID string, source shared.Source, triggerQty, deficitQty, targetQty int, candidates []SourceCandidate, sourceZoneID string, createdAt time.Time) *Task {
	t := NewTask(ruleID, destination, skuID, source, triggerQty, deficitQty, targetQty, candidates, sourceZoneID, createdAt)
	t.adHoc = true
	return t
}

// ReconstructTask rebuilds a task as stored.
func ReconstructTask(
	id string,
	ruleID string,
	destination string,
	skuID string,
	source shared.Source,
	status TaskStatus,
	candidates []SourceCandidate,
	sourceZoneID string,
	triggerQty int,
	deficitQty int,
	targetQty int,
	assignedStaffID string,
	confirmedQty *int,
	confirmedBy string,
	closeReason CloseReason,
	adHoc bool,
	createdAt time.Time,
	assignedAt *time.Time,
	startedAt *time.Time,
	closedAt *time.Time,
) *Task {
	return &Task{
		id:              id,
		ruleID:          ruleID,
		destination:     destination,
		skuID:           skuID,
		source:          source,
		status:          status,
		candidates:      candidates,
		sourceZoneID:    sourceZoneID,
		triggerQty:      triggerQty,
		deficitQty:      deficitQty,
		targetQty:       targetQty,
		assignedStaffID: assignedStaffID,
		confirmedQty:    confirmedQty,
		confirmedBy:     confirmedBy,
		closeReason:     closeReason,
		adHoc:           adHoc,
		createdAt:       createdAt,
		assignedAt:      assignedAt,
		startedAt:       startedAt,
		closedAt:        closedAt,
	}
}

// Getters

func (t *Task) ID() string               { return t.id }
func (t *Task) RuleID() string           { return t.ruleID }
func (t *Task) Destination() string      { return t.destination }
func (t *Task) SKUID() string            { return t.skuID }
func (t *Task) Source() shared.Source    { return t.source }
func (t *Task) Status() TaskStatus       { return t.status }
func (t *Task) SourceZoneID() string     { return t.sourceZoneID }
func (t *Task) TriggerQty() int          { return t.triggerQty }
func (t *Task) DeficitQty() int          { return t.deficitQty }
func (t *Task) TargetQty() int           { return t.targetQty }
func (t *Task) AssignedStaffID() string  { return t.assignedStaffID }
func (t *Task) ConfirmedBy() string      { return t.confirmedBy }
func (t *Task) CloseReason() CloseReason { return t.closeReason }
func (t *Task) AdHoc() bool              { return t.adHoc }
func (t *Task) CreatedAt() time.Time     { return t.createdAt }
func (t *Task) AssignedAt() *time.Time   { return t.assignedAt }
func (t *Task) StartedAt() *time.Time    { return t.startedAt }
func (t *Task) ClosedAt() *time.Time     { return t.closedAt }

// Candidates returns a copy of the source candidate list.
func (t *Task) Candidates() []SourceCandidate {
	return append([]SourceCandidate(nil), t.candidates...)
}

// ConfirmedQty returns the moved quantity, nil before confirmation.
func (t *Task) ConfirmedQty() *int {
	if t.confirmedQty == nil {
		return nil
	}
	v := *t.confirmedQty
	return &v
}

// IsOpen reports whether the task still counts against the plan.
func (t *Task) IsOpen() bool {
	return t.status == TaskStatusCreated || t.status == TaskStatusAssigned || t.status == TaskStatusInProgress
}

// AutoAdjustable reports whether the planner may merge, trim or close the
// task: open, not started, not ad hoc.
func (t *Task) AutoAdjustable() bool {
	return t.IsOpen() && t.status != TaskStatusInProgress && !t.adHoc
}

// State transitions

// Assign pins the task to a staff member. Allowed before work starts;
// re-assignment of an ASSIGNED task re-pins it.
func (t *Task) Assign(staffID string, at time.Time) error {
	if t.status != TaskStatusCreated && t.status != TaskStatusAssigned {
		return &ErrInvalidTaskTransition{
			TaskID:      t.id,
			From:        t.status,
			To:          TaskStatusAssigned,
			Description: "can only assign CREATED or ASSIGNED tasks",
		}
	}
	t.status = TaskStatusAssigned
	t.assignedStaffID = staffID
	ts := at.UTC()
	t.assignedAt = &ts
	return nil
}

// Start moves the task to IN_PROGRESS. Starting an unassigned task assigns
// it to the starting staff member.
func (t *Task) Start(staffID string, at time.Time) error {
	if t.status != TaskStatusCreated && t.status != TaskStatusAssigned {
		return &ErrInvalidTaskTransition{
			TaskID:      t.id,
			From:        t.status,
			To:          TaskStatusInProgress,
			Description: "can only start CREATED or ASSIGNED tasks",
		}
	}
	if t.assignedStaffID == "" {
		t.assignedStaffID = staffID
		ts := at.UTC()
		t.assignedAt = &ts
	}
	t.status = TaskStatusInProgress
	ts := at.UTC()
	t.startedAt = &ts
	return nil
}

// Confirm closes the task after the transfer moved stock. The caller decides
// partial versus full against the deficit.
func (t *Task) Confirm(movedQty int, confirmedBy string, at time.Time) error {
	if t.status != TaskStatusInProgress {
		return &ErrInvalidTaskTransition{
			TaskID:      t.id,
			From:        t.status,
			To:          TaskStatusConfirmed,
			Description: "can only confirm IN_PROGRESS tasks",
		}
	}
	if movedQty <= 0 {
		return &ErrNoMovement{TaskID: t.id}
	}
	t.status = TaskStatusConfirmed
	t.confirmedQty = &movedQty
	t.confirmedBy = confirmedBy
	if movedQty < t.deficitQty {
		t.closeReason = CloseReasonConfirmedPartial
	} else {
		t.closeReason = CloseReasonConfirmed
	}
	ts := at.UTC()
	t.closedAt = &ts
	return nil
}

// Close rejects an open task with a planner or cascade reason.
func (t *Task) Close(reason CloseReason, at time.Time) error {
	if !t.IsOpen() {
		return &ErrInvalidTaskTransition{
			TaskID:      t.id,
			From:        t.status,
			To:          TaskStatusRejected,
			Description: "task already closed",
		}
	}
	t.status = TaskStatusRejected
	t.closeReason = reason
	ts := at.UTC()
	t.closedAt = &ts
	return nil
}

// Planner mutators, only meaningful while the task is open

// AddDeficit grows the deficit during a merge.
func (t *Task) AddDeficit(qty int) {
	t.deficitQty += qty
}

// SetDeficit trims the deficit during plan adjustment.
func (t *Task) SetDeficit(qty int) {
	t.deficitQty = qty
}

// SetCandidates replaces the scored source list.
func (t *Task) SetCandidates(candidates []SourceCandidate) {
	t.candidates = append([]SourceCandidate(nil), candidates...)
}

// SetSourceZone repins the selected source.
func (t *Task) SetSourceZone(zoneID string) {
	t.sourceZoneID = zoneID
}

// HasCandidate reports whether zoneID appears in the candidate list.
func (t *Task) HasCandidate(zoneID string) bool {
	for _, c := range t.candidates {
		if c.ZoneID == zoneID {
			return true
		}
	}
	return false
}

// PullsFrom reports whether the task reserves stock from zoneID: either as
// the selected source or, when nothing is selected, as any candidate.
func (t *Task) PullsFrom(zoneID string) bool {
	if t.sourceZoneID != "" {
		return t.sourceZoneID == zoneID
	}
	return t.HasCandidate(zoneID)
}

// String provides a human-readable representation
func (t *Task) String() string {
	return fmt.Sprintf("Task[%s, dst=%s, sku=%s, status=%s, deficit=%d]",
		shortID(t.id), t.destination, t.skuID, t.status, t.deficitQty)
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

// Clone returns a deep copy for repository hand-out.
func (t *Task) Clone() *Task {
	var confirmed *int
	if t.confirmedQty != nil {
		v := *t.confirmedQty
		confirmed = &v
	}
	return ReconstructTask(
		t.id, t.ruleID, t.destination, t.skuID, t.source, t.status,
		append([]SourceCandidate(nil), t.candidates...), t.sourceZoneID,
		t.triggerQty, t.deficitQty, t.targetQty,
		t.assignedStaffID, confirmed, t.confirmedBy, t.closeReason, t.adHoc,
		t.createdAt, cloneTime(t.assignedAt), cloneTime(t.startedAt), cloneTime(t.closedAt),
	)
}

func cloneTime(t *time.Time) *time.Time {
	if t == nil {
		return nil
	}
	v := *t
	return &v
}
