package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/andrescamacho/floorsense-go/internal/application/common"
	"github.com/andrescamacho/floorsense-go/internal/domain/audit"
	"github.com/andrescamacho/floorsense-go/internal/domain/replenishment"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
	"github.com/andrescamacho/floorsense-go/internal/domain/staff"
)

// StartTaskCommand moves a task to IN_PROGRESS on behalf of a staff member.
type StartTaskCommand struct {
	TaskID  string
	StaffID string
}

// StartTaskResponse reports the outcome with the updated task.
type StartTaskResponse struct {
	common.Result
	Task *replenishment.Task `json:"-"`
}

// StartTaskHandler handles task starts. A member outside the zone's scope may
// still start a task already assigned to them when no in-scope member is on
// shift; a shift rota that never covers the stockroom should not deadlock its
// replenishment.
type StartTaskHandler struct {
	tasks   replenishment.TaskRepository
	members staff.Repository
	trail   audit.Trail
	cursor  *shared.Cursor
}

// NewStartTaskHandler creates the handler.
func NewStartTaskHandler(tasks replenishment.TaskRepository, members staff.Repository, trail audit.Trail, cursor *shared.Cursor) *StartTaskHandler {
	return &StartTaskHandler{tasks: tasks, members: members, trail: trail, cursor: cursor}
}

// Handle executes the start.
func (h *StartTaskHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*StartTaskCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *StartTaskCommand")
	}

	task, err := h.tasks.FindByID(ctx, cmd.TaskID)
	if err != nil {
		var notFound *replenishment.ErrTaskNotFound
		if errors.As(err, &notFound) {
			return &StartTaskResponse{Result: common.Result{Status: common.StatusTaskNotFound}}, nil
		}
		return nil, err
	}
	if !task.IsOpen() {
		return &StartTaskResponse{Result: common.Result{Status: common.StatusTaskNotOpen}}, nil
	}

	member, err := h.members.FindByID(ctx, cmd.StaffID)
	if err != nil {
		var notFound *staff.ErrMemberNotFound
		if errors.As(err, &notFound) {
			return &StartTaskResponse{Result: common.Result{Status: common.StatusStaffNotFound}}, nil
		}
		return nil, err
	}
	if !member.OnShift() {
		return &StartTaskResponse{Result: common.Result{Status: common.StatusStaffInactive}}, nil
	}
	eligible, err := h.mayStart(ctx, task, member)
	if err != nil {
		return nil, err
	}
	if !eligible {
		return &StartTaskResponse{Result: common.Result{Status: common.StatusStaffNotEligible}}, nil
	}

	now := h.cursor.Value()
	if err := task.Start(member.ID(), now); err != nil {
		var transition *replenishment.ErrInvalidTaskTransition
		if errors.As(err, &transition) {
			return &StartTaskResponse{Result: common.Result{Status: common.StatusTaskNotOpen}}, nil
		}
		return nil, err
	}
	if err := h.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	details := "started by " + member.ID()
	if err := h.trail.AppendEntry(ctx, audit.NewEntry(task.ID(), audit.ActionStarted, member.ID(), details, now)); err != nil {
		return nil, err
	}
	if err := h.trail.AppendFlow(ctx, audit.FlowEvent{
		At:         now,
		Kind:       audit.FlowTaskStarted,
		Status:     string(task.Status()),
		EntityID:   task.ID(),
		LocationID: task.Destination(),
		SKUID:      task.SKUID(),
		Details:    details,
	}); err != nil {
		return nil, err
	}

	return &StartTaskResponse{
		Result: common.Result{Status: common.StatusStarted},
		Task:   task,
	}, nil
}

// mayStart applies the scope rule: in scope always; out of scope only when
// the task is already theirs and nobody on shift covers the destination.
func (h *StartTaskHandler) mayStart(ctx context.Context, task *replenishment.Task, member *staff.Member) (bool, error) {
	if member.InScope(task.Destination()) {
		return true, nil
	}
	if task.AssignedStaffID() != member.ID() {
		return false, nil
	}
	onShift, err := h.members.FindOnShift(ctx)
	if err != nil {
		return false, err
	}
	for _, other := range onShift {
		if other.ID() != member.ID() && other.InScope(task.Destination()) {
			return false, nil
		}
	}
	return true, nil
}
