package services

import (
	"context"
	"fmt"

	"github.com/andrescamacho/floorsense-go/internal/domain/audit"
	"github.com/andrescamacho/floorsense-go/internal/domain/layout"
	"github.com/andrescamacho/floorsense-go/internal/domain/receiving"
	"github.com/andrescamacho/floorsense-go/internal/domain/replenishment"
	"github.com/andrescamacho/floorsense-go/internal/domain/rules"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
)

// Assigner hands pending work to staff after the plan changed.
type Assigner interface {
	AssignPending(ctx context.Context) error
}

// SystemActor marks engine-initiated audit entries.
const SystemActor = "system"

// Planner keeps the open task and order set consistent with the rule
// registry. For sales locations it merges, recovers, trims and triggers
// replenishment tasks; for non-sales locations it cancels the task flow and
// raises receiving orders instead. Ad-hoc personalisation tasks participate
// in deficit sums and source refresh but are never merged, trimmed or
// recovered.
type Planner struct {
	rules        rules.RuleRepository
	tasks        replenishment.TaskRepository
	orders       receiving.OrderRepository
	availability *Availability
	assigner     Assigner
	trail        audit.Trail
	cursor       *shared.Cursor
}

// NewPlanner creates the planner.
func NewPlanner(
	ruleRepo rules.RuleRepository,
	tasks replenishment.TaskRepository,
	orders receiving.OrderRepository,
	availability *Availability,
	assigner Assigner,
	trail audit.Trail,
	cursor *shared.Cursor,
) *Planner {
	return &Planner{
		rules:        ruleRepo,
		tasks:        tasks,
		orders:       orders,
		availability: availability,
		assigner:     assigner,
		trail:        trail,
		cursor:       cursor,
	}
}

// EvaluateLocation re-plans every active rule of a location and runs staff
// auto-assignment when the plan changed.
func (p *Planner) EvaluateLocation(ctx context.Context, location *layout.Location) error {
	locationRules, err := p.rules.FindByLocation(ctx, location.ID())
	if err != nil {
		return err
	}
	changed := false
	for _, rule := range locationRules {
		if !rule.Active() {
			continue
		}
		var ruleChanged bool
		if location.IsSales() {
			ruleChanged, err = p.evaluateSalesRule(ctx, location, rule)
		} else {
			ruleChanged, err = p.evaluateNonSalesRule(ctx, location, rule)
		}
		if err != nil {
			return err
		}
		changed = changed || ruleChanged
	}
	if changed {
		return p.assigner.AssignPending(ctx)
	}
	return nil
}

func (p *Planner) evaluateSalesRule(ctx context.Context, location *layout.Location, rule *rules.EffectiveRule) (bool, error) {
	current, err := p.availability.OnHand(ctx, location.ID(), rule.SKUID(), rule.Source())
	if err != nil {
		return false, err
	}
	changed := false

	merged, err := p.mergeTasks(ctx, location, rule)
	if err != nil {
		return changed, err
	}
	changed = changed || merged

	if current >= rule.Max() {
		recovered, err := p.closeAdjustable(ctx, rule, replenishment.CloseReasonStockRecovered)
		if err != nil {
			return changed, err
		}
		changed = changed || recovered
	}

	desired := rule.Max() - current
	if desired < 0 {
		desired = 0
	}

	trimmed, err := p.trimTasks(ctx, rule, desired)
	if err != nil {
		return changed, err
	}
	changed = changed || trimmed

	if err := p.refreshSources(ctx, location, rule); err != nil {
		return changed, err
	}

	if current < rule.Min() {
		triggered, err := p.triggerTasks(ctx, location, rule, current, desired)
		if err != nil {
			return changed, err
		}
		changed = changed || triggered
	}
	return changed, nil
}

// mergeTasks folds duplicate adjustable tasks into the oldest one when they
// cannot meaningfully split across sources.
func (p *Planner) mergeTasks(ctx context.Context, location *layout.Location, rule *rules.EffectiveRule) (bool, error) {
	adjustable, err := p.adjustableTasks(ctx, rule.ID())
	if err != nil {
		return false, err
	}
	if len(adjustable) < 2 {
		return false, nil
	}
	if len(location.Sources()) > 1 && !sameSource(adjustable) {
		return false, nil
	}

	keeper := adjustable[0]
	now := p.cursor.Value()
	for _, task := range adjustable[1:] {
		keeper.AddDeficit(task.DeficitQty())
		if err := task.Close(replenishment.CloseReasonMergedPlan, now); err != nil {
			return false, err
		}
		if err := p.tasks.Update(ctx, task); err != nil {
			return false, err
		}
		if err := p.noteTaskClosed(ctx, task, fmt.Sprintf("merged into %s", keeper.ID())); err != nil {
			return false, err
		}
	}
	if err := p.tasks.Update(ctx, keeper); err != nil {
		return false, err
	}
	return true, nil
}

func (p *Planner) closeAdjustable(ctx context.Context, rule *rules.EffectiveRule, reason replenishment.CloseReason) (bool, error) {
	adjustable, err := p.adjustableTasks(ctx, rule.ID())
	if err != nil {
		return false, err
	}
	now := p.cursor.Value()
	for _, task := range adjustable {
		if err := task.Close(reason, now); err != nil {
			return false, err
		}
		if err := p.tasks.Update(ctx, task); err != nil {
			return false, err
		}
		if err := p.noteTaskClosed(ctx, task, ""); err != nil {
			return false, err
		}
	}
	return len(adjustable) > 0, nil
}

// trimTasks shrinks the open plan, newest adjustable first, until the summed
// deficits fit the desired top-up.
func (p *Planner) trimTasks(ctx context.Context, rule *rules.EffectiveRule, desired int) (bool, error) {
	open, err := p.tasks.FindOpenByRule(ctx, rule.ID())
	if err != nil {
		return false, err
	}
	excess := sumDeficits(open) - desired
	if excess <= 0 {
		return false, nil
	}
	now := p.cursor.Value()
	changed := false
	for i := len(open) - 1; i >= 0 && excess > 0; i-- {
		task := open[i]
		if !task.AutoAdjustable() {
			continue
		}
		if task.DeficitQty() <= excess {
			excess -= task.DeficitQty()
			if err := task.Close(replenishment.CloseReasonPlanAdjusted, now); err != nil {
				return changed, err
			}
			if err := p.tasks.Update(ctx, task); err != nil {
				return changed, err
			}
			if err := p.noteTaskClosed(ctx, task, ""); err != nil {
				return changed, err
			}
		} else {
			task.SetDeficit(task.DeficitQty() - excess)
			excess = 0
			if err := p.tasks.Update(ctx, task); err != nil {
				return changed, err
			}
		}
		changed = true
	}
	return changed, nil
}

// refreshSources re-scores every open task's candidate list and drops a
// selected source that no longer appears in it.
func (p *Planner) refreshSources(ctx context.Context, location *layout.Location, rule *rules.EffectiveRule) error {
	open, err := p.tasks.FindOpenByRule(ctx, rule.ID())
	if err != nil {
		return err
	}
	for _, task := range open {
		candidates, err := p.availability.Candidates(ctx, location, rule.SKUID(), rule.Source(), task.ID())
		if err != nil {
			return err
		}
		task.SetCandidates(candidates)
		if task.SourceZoneID() != "" && !task.HasCandidate(task.SourceZoneID()) {
			task.SetSourceZone("")
		}
		if err := p.tasks.Update(ctx, task); err != nil {
			return err
		}
	}
	return nil
}

// triggerTasks plans the missing top-up across the candidate sources, one
// task per source that can give stock. When demand exists but no source has
// anything, one zero-stock task keeps the shortage visible.
func (p *Planner) triggerTasks(ctx context.Context, location *layout.Location, rule *rules.EffectiveRule, current, desired int) (bool, error) {
	open, err := p.tasks.FindOpenByRule(ctx, rule.ID())
	if err != nil {
		return false, err
	}
	remaining := desired - sumDeficits(open)
	if remaining <= 0 {
		return false, nil
	}
	candidates, err := p.availability.Candidates(ctx, location, rule.SKUID(), rule.Source(), "")
	if err != nil {
		return false, err
	}

	created := false
	for _, candidate := range candidates {
		if remaining == 0 {
			break
		}
		alloc := min(remaining, candidate.AvailableQty)
		if alloc <= 0 {
			continue
		}
		if err := p.createTask(ctx, location, rule, current, alloc, candidates, candidate.ZoneID); err != nil {
			return created, err
		}
		remaining -= alloc
		created = true
	}

	if !created {
		sourceZoneID := ""
		if len(candidates) > 0 {
			sourceZoneID = candidates[0].ZoneID
		}
		if err := p.createTask(ctx, location, rule, current, remaining, candidates, sourceZoneID); err != nil {
			return false, err
		}
	}
	return true, nil
}

func (p *Planner) createTask(ctx context.Context, location *layout.Location, rule *rules.EffectiveRule, triggerQty, deficit int, candidates []replenishment.SourceCandidate, sourceZoneID string) error {
	now := p.cursor.Value()
	task := replenishment.NewTask(rule.ID(), location.ID(), rule.SKUID(), rule.Source(),
		triggerQty, deficit, rule.Max(), candidates, sourceZoneID, now)
	if err := p.tasks.Create(ctx, task); err != nil {
		return err
	}
	details := fmt.Sprintf("deficit=%d target=%d source=%s", deficit, rule.Max(), sourceZoneID)
	if err := p.trail.AppendEntry(ctx, audit.NewEntry(task.ID(), audit.ActionCreated, SystemActor, details, now)); err != nil {
		return err
	}
	return p.trail.AppendFlow(ctx, audit.FlowEvent{
		At:         now,
		Kind:       audit.FlowTaskCreated,
		Status:     string(task.Status()),
		EntityID:   task.ID(),
		LocationID: task.Destination(),
		SKUID:      task.SKUID(),
		Details:    details,
	})
}

// evaluateNonSalesRule hands the location over to the receiving flow:
// adjustable tasks cancel, and a shortage below min raises one inbound order
// against the best source.
func (p *Planner) evaluateNonSalesRule(ctx context.Context, location *layout.Location, rule *rules.EffectiveRule) (bool, error) {
	open, err := p.tasks.FindOpenByRule(ctx, rule.ID())
	if err != nil {
		return false, err
	}
	now := p.cursor.Value()
	changed := false
	for _, task := range open {
		if task.Status() == replenishment.TaskStatusInProgress || task.AdHoc() {
			continue
		}
		if err := task.Close(replenishment.CloseReasonNonSalesFlow, now); err != nil {
			return changed, err
		}
		if err := p.tasks.Update(ctx, task); err != nil {
			return changed, err
		}
		if err := p.noteTaskClosed(ctx, task, ""); err != nil {
			return changed, err
		}
		changed = true
	}

	current, err := p.availability.OnHand(ctx, location.ID(), rule.SKUID(), rule.Source())
	if err != nil {
		return changed, err
	}
	if current >= rule.Min() {
		return changed, nil
	}

	needed := rule.Max() - current
	inbound, err := p.orders.FindInTransitFor(ctx, location.ID(), rule.SKUID(), rule.Source())
	if err != nil {
		return changed, err
	}
	for _, order := range inbound {
		needed -= order.RequestedQty()
	}
	if needed <= 0 {
		return changed, nil
	}

	sourceID, err := p.bestOrderSource(ctx, location, rule, needed)
	if err != nil {
		return changed, err
	}
	if sourceID == "" {
		return changed, nil
	}
	if _, err := p.CreateOrder(ctx, sourceID, location.ID(), rule.SKUID(), rule.Source(), needed); err != nil {
		return changed, err
	}
	return true, nil
}

// CreateOrder raises an IN_TRANSIT receiving order with its audit and flow
// entries. Validation belongs to the caller.
func (p *Planner) CreateOrder(ctx context.Context, sourceID, destinationID, skuID string, source shared.Source, qty int) (*receiving.Order, error) {
	now := p.cursor.Value()
	order := receiving.NewOrder(sourceID, destinationID, skuID, source, qty, now)
	if err := p.orders.Create(ctx, order); err != nil {
		return nil, err
	}
	details := fmt.Sprintf("requested=%d from=%s", qty, sourceID)
	if err := p.trail.AppendEntry(ctx, audit.NewEntry(order.ID(), audit.ActionCreated, SystemActor, details, now)); err != nil {
		return nil, err
	}
	if err := p.trail.AppendFlow(ctx, audit.FlowEvent{
		At:         now,
		Kind:       audit.FlowOrderCreated,
		Status:     string(order.Status()),
		EntityID:   order.ID(),
		LocationID: destinationID,
		SKUID:      skuID,
		Details:    details,
	}); err != nil {
		return nil, err
	}
	return order, nil
}

// bestOrderSource elects where an inbound order pulls from: the rule's
// preferred inbound source first, then the destination's configured list;
// first internal source that can cover the need, else the first internal
// source with any stock, else the first external source, else the first
// preference.
func (p *Planner) bestOrderSource(ctx context.Context, location *layout.Location, rule *rules.EffectiveRule, needed int) (string, error) {
	preferences := location.Sources()
	if preferred := rule.InboundSourceID(); preferred != "" {
		preferences = append([]string{preferred}, preferences...)
	}
	if len(preferences) == 0 {
		return "", nil
	}

	seen := make(map[string]struct{}, len(preferences))
	firstWithStock := ""
	firstExternal := ""
	for _, id := range preferences {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if shared.IsExternalLocationID(id) {
			if firstExternal == "" {
				firstExternal = id
			}
			continue
		}
		available, err := p.availability.SourceAvailable(ctx, id, rule.SKUID(), rule.Source(), "")
		if err != nil {
			return "", err
		}
		if available >= needed {
			return id, nil
		}
		if available > 0 && firstWithStock == "" {
			firstWithStock = id
		}
	}
	if firstWithStock != "" {
		return firstWithStock, nil
	}
	if firstExternal != "" {
		return firstExternal, nil
	}
	return preferences[0], nil
}

// Cascade operations, used by rule deletion, source removal and zone
// deletion.

// CloseTasksOwnedBy rejects every open non-ad-hoc task owned by a rule id.
func (p *Planner) CloseTasksOwnedBy(ctx context.Context, ruleID string, reason replenishment.CloseReason) (int, error) {
	open, err := p.tasks.FindOpenByRule(ctx, ruleID)
	if err != nil {
		return 0, err
	}
	closed := 0
	now := p.cursor.Value()
	for _, task := range open {
		if task.AdHoc() {
			continue
		}
		if err := task.Close(reason, now); err != nil {
			return closed, err
		}
		if err := p.tasks.Update(ctx, task); err != nil {
			return closed, err
		}
		if err := p.noteTaskClosed(ctx, task, ""); err != nil {
			return closed, err
		}
		closed++
	}
	return closed, nil
}

// CloseTasksMatching rejects every open task the keep predicate selects,
// ad-hoc ones included.
func (p *Planner) CloseTasksMatching(ctx context.Context, reason replenishment.CloseReason, match func(*replenishment.Task) bool) (int, error) {
	open, err := p.tasks.FindOpen(ctx)
	if err != nil {
		return 0, err
	}
	closed := 0
	now := p.cursor.Value()
	for _, task := range open {
		if !match(task) {
			continue
		}
		if err := task.Close(reason, now); err != nil {
			return closed, err
		}
		if err := p.tasks.Update(ctx, task); err != nil {
			return closed, err
		}
		if err := p.noteTaskClosed(ctx, task, ""); err != nil {
			return closed, err
		}
		closed++
	}
	return closed, nil
}

// CancelOrdersMatching cancels every IN_TRANSIT order the predicate selects.
func (p *Planner) CancelOrdersMatching(ctx context.Context, reason string, match func(*receiving.Order) bool) (int, error) {
	inbound, err := p.orders.FindInTransit(ctx)
	if err != nil {
		return 0, err
	}
	cancelled := 0
	now := p.cursor.Value()
	for _, order := range inbound {
		if !match(order) {
			continue
		}
		if err := order.Cancel(now); err != nil {
			return cancelled, err
		}
		if err := p.orders.Update(ctx, order); err != nil {
			return cancelled, err
		}
		if err := p.trail.AppendEntry(ctx, audit.NewEntry(order.ID(), audit.ActionCancelled, SystemActor, reason, now)); err != nil {
			return cancelled, err
		}
		if err := p.trail.AppendFlow(ctx, audit.FlowEvent{
			At:         now,
			Kind:       audit.FlowOrderCancelled,
			Status:     string(order.Status()),
			EntityID:   order.ID(),
			LocationID: order.DestinationID(),
			SKUID:      order.SKUID(),
			Details:    reason,
		}); err != nil {
			return cancelled, err
		}
		cancelled++
	}
	return cancelled, nil
}

// AssignPending re-runs staff assignment; handlers that mutate tasks or
// orders outside evaluation call it directly.
func (p *Planner) AssignPending(ctx context.Context) error {
	return p.assigner.AssignPending(ctx)
}

func (p *Planner) noteTaskClosed(ctx context.Context, task *replenishment.Task, details string) error {
	now := p.cursor.Value()
	if details == "" {
		details = string(task.CloseReason())
	}
	if err := p.trail.AppendEntry(ctx, audit.NewEntry(task.ID(), audit.ActionClosed, SystemActor, details, now)); err != nil {
		return err
	}
	return p.trail.AppendFlow(ctx, audit.FlowEvent{
		At:         now,
		Kind:       audit.FlowTaskClosed,
		Status:     string(task.CloseReason()),
		EntityID:   task.ID(),
		LocationID: task.Destination(),
		SKUID:      task.SKUID(),
		Details:    details,
	})
}

func (p *Planner) adjustableTasks(ctx context.Context, ruleID string) ([]*replenishment.Task, error) {
	open, err := p.tasks.FindOpenByRule(ctx, ruleID)
	if err != nil {
		return nil, err
	}
	out := open[:0]
	for _, task := range open {
		if task.AutoAdjustable() {
			out = append(out, task)
		}
	}
	return out, nil
}

func sameSource(tasks []*replenishment.Task) bool {
	for _, task := range tasks[1:] {
		if task.SourceZoneID() != tasks[0].SourceZoneID() {
			return false
		}
	}
	return true
}

func sumDeficits(tasks []*replenishment.Task) int {
	total := 0
	for _, task := range tasks {
		total += task.DeficitQty()
	}
	return total
}
