package services

import (
	"context"

	"github.com/andrescamacho/floorsense-go/internal/domain/audit"
	"github.com/andrescamacho/floorsense-go/internal/domain/receiving"
	"github.com/andrescamacho/floorsense-go/internal/domain/replenishment"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
	"github.com/andrescamacho/floorsense-go/internal/domain/staff"
)

const systemActor = "system"

// AutoAssigner distributes unowned work across the staff on shift. It runs
// after every task or order mutation.
type AutoAssigner struct {
	members staff.Repository
	tasks   replenishment.TaskRepository
	orders  receiving.OrderRepository
	trail   audit.Trail
	cursor  *shared.Cursor
}

// NewAutoAssigner creates the assigner.
func NewAutoAssigner(members staff.Repository, tasks replenishment.TaskRepository, orders receiving.OrderRepository, trail audit.Trail, cursor *shared.Cursor) *AutoAssigner {
	return &AutoAssigner{
		members: members,
		tasks:   tasks,
		orders:  orders,
		trail:   trail,
		cursor:  cursor,
	}
}

// pendingItem is one unassigned task or order, interleaved by creation time.
type pendingItem struct {
	task  *replenishment.Task
	order *receiving.Order
}

func (i pendingItem) locationID() string {
	if i.task != nil {
		return i.task.Destination()
	}
	return i.order.DestinationID()
}

// AssignPending hands every unassigned open task and in-transit order to the
// least-loaded eligible member, preferring members whose scope covers the
// destination. When nobody on shift covers it, the whole pool serves as a
// fallback. With nobody on shift at all, work stays unassigned.
func (a *AutoAssigner) AssignPending(ctx context.Context) error {
	pool, err := a.eligible(ctx)
	if err != nil {
		return err
	}
	if len(pool) == 0 {
		return nil
	}

	loads, err := a.currentLoads(ctx)
	if err != nil {
		return err
	}
	pending, err := a.pending(ctx)
	if err != nil {
		return err
	}

	for _, item := range pending {
		candidates, fallback := inScope(pool, item.locationID())
		member := leastLoaded(candidates, loads)
		if err := a.assign(ctx, item, member, fallback); err != nil {
			return err
		}
		loads[member.ID()]++
	}
	return nil
}

// eligible returns the on-shift associates, or every on-shift member when no
// associate is active.
func (a *AutoAssigner) eligible(ctx context.Context) ([]*staff.Member, error) {
	onShift, err := a.members.FindOnShift(ctx)
	if err != nil {
		return nil, err
	}
	associates := make([]*staff.Member, 0, len(onShift))
	for _, m := range onShift {
		if m.Role() == staff.RoleAssociate {
			associates = append(associates, m)
		}
	}
	if len(associates) > 0 {
		return associates, nil
	}
	return onShift, nil
}

// currentLoads counts each member's open tasks plus in-transit orders.
func (a *AutoAssigner) currentLoads(ctx context.Context) (map[string]int, error) {
	loads := make(map[string]int)
	open, err := a.tasks.FindOpen(ctx)
	if err != nil {
		return nil, err
	}
	for _, task := range open {
		if id := task.AssignedStaffID(); id != "" {
			loads[id]++
		}
	}
	inbound, err := a.orders.FindInTransit(ctx)
	if err != nil {
		return nil, err
	}
	for _, order := range inbound {
		if id := order.AssignedStaffID(); id != "" {
			loads[id]++
		}
	}
	return loads, nil
}

// pending interleaves unassigned tasks and orders by creation time, tasks
// first on ties. Both repositories already return create order.
func (a *AutoAssigner) pending(ctx context.Context) ([]pendingItem, error) {
	open, err := a.tasks.FindOpen(ctx)
	if err != nil {
		return nil, err
	}
	tasks := make([]*replenishment.Task, 0, len(open))
	for _, task := range open {
		if task.Status() == replenishment.TaskStatusCreated {
			tasks = append(tasks, task)
		}
	}
	inbound, err := a.orders.FindInTransit(ctx)
	if err != nil {
		return nil, err
	}
	orders := make([]*receiving.Order, 0, len(inbound))
	for _, order := range inbound {
		if order.AssignedStaffID() == "" {
			orders = append(orders, order)
		}
	}

	items := make([]pendingItem, 0, len(tasks)+len(orders))
	i, j := 0, 0
	for i < len(tasks) && j < len(orders) {
		if !tasks[i].CreatedAt().After(orders[j].CreatedAt()) {
			items = append(items, pendingItem{task: tasks[i]})
			i++
		} else {
			items = append(items, pendingItem{order: orders[j]})
			j++
		}
	}
	for ; i < len(tasks); i++ {
		items = append(items, pendingItem{task: tasks[i]})
	}
	for ; j < len(orders); j++ {
		items = append(items, pendingItem{order: orders[j]})
	}
	return items, nil
}

func (a *AutoAssigner) assign(ctx context.Context, item pendingItem, member *staff.Member, fallback bool) error {
	now := a.cursor.Value()
	details := "assigned to " + member.ID()
	if fallback {
		details += " (out-of-scope fallback)"
	}

	if item.task != nil {
		if err := item.task.Assign(member.ID(), now); err != nil {
			return err
		}
		if err := a.tasks.Update(ctx, item.task); err != nil {
			return err
		}
		if err := a.trail.AppendEntry(ctx, audit.NewEntry(item.task.ID(), audit.ActionAssigned, systemActor, details, now)); err != nil {
			return err
		}
		return a.trail.AppendFlow(ctx, audit.FlowEvent{
			At:         now,
			Kind:       audit.FlowTaskAssigned,
			Status:     string(item.task.Status()),
			EntityID:   item.task.ID(),
			LocationID: item.task.Destination(),
			SKUID:      item.task.SKUID(),
			Details:    details,
		})
	}

	if err := item.order.Assign(member.ID()); err != nil {
		return err
	}
	if err := a.orders.Update(ctx, item.order); err != nil {
		return err
	}
	if err := a.trail.AppendEntry(ctx, audit.NewEntry(item.order.ID(), audit.ActionAssigned, systemActor, details, now)); err != nil {
		return err
	}
	return a.trail.AppendFlow(ctx, audit.FlowEvent{
		At:         now,
		Kind:       audit.FlowOrderAssigned,
		Status:     string(item.order.Status()),
		EntityID:   item.order.ID(),
		LocationID: item.order.DestinationID(),
		SKUID:      item.order.SKUID(),
		Details:    details,
	})
}

// inScope filters the pool to members covering the location, reporting
// whether the out-of-scope fallback kicked in.
func inScope(pool []*staff.Member, locationID string) ([]*staff.Member, bool) {
	covered := make([]*staff.Member, 0, len(pool))
	for _, m := range pool {
		if m.InScope(locationID) {
			covered = append(covered, m)
		}
	}
	if len(covered) > 0 {
		return covered, false
	}
	return pool, true
}

// leastLoaded picks the minimum-load member; the pool's id order breaks ties.
func leastLoaded(candidates []*staff.Member, loads map[string]int) *staff.Member {
	best := candidates[0]
	for _, m := range candidates[1:] {
		if loads[m.ID()] < loads[best.ID()] {
			best = m
		}
	}
	return best
}
