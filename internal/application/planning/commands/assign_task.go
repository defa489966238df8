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

// AssignTaskCommand pins a task to a staff member. Unlike the auto-assigner,
// explicit assignment never falls back: the member must cover the zone.
type AssignTaskCommand struct {
	TaskID  string
	StaffID string
}

// AssignTaskResponse reports the outcome with the updated task.
type AssignTaskResponse struct {
	common.Result
	Task *replenishment.Task `json:"-"`
}

// AssignTaskHandler handles explicit task assignment.
type AssignTaskHandler struct {
	tasks   replenishment.TaskRepository
	members staff.Repository
	trail   audit.Trail
	cursor  *shared.Cursor
}

// NewAssignTaskHandler creates the handler.
func NewAssignTaskHandler(tasks replenishment.TaskRepository, members staff.Repository, trail audit.Trail, cursor *shared.Cursor) *AssignTaskHandler {
	return &AssignTaskHandler{tasks: tasks, members: members, trail: trail, cursor: cursor}
}

// Handle executes the assignment.
func (h *AssignTaskHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*AssignTaskCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *AssignTaskCommand")
	}

	task, err := h.tasks.FindByID(ctx, cmd.TaskID)
	if err != nil {
		var notFound *replenishment.ErrTaskNotFound
		if errors.As(err, &notFound) {
			return &AssignTaskResponse{Result: common.Result{Status: common.StatusTaskNotFound}}, nil
		}
		return nil, err
	}
	if !task.IsOpen() {
		return &AssignTaskResponse{Result: common.Result{Status: common.StatusTaskNotOpen}}, nil
	}

	member, err := h.members.FindByID(ctx, cmd.StaffID)
	if err != nil {
		var notFound *staff.ErrMemberNotFound
		if errors.As(err, &notFound) {
			return &AssignTaskResponse{Result: common.Result{Status: common.StatusStaffNotFound}}, nil
		}
		return nil, err
	}
	if !member.OnShift() {
		return &AssignTaskResponse{Result: common.Result{Status: common.StatusStaffInactive}}, nil
	}
	if !member.InScope(task.Destination()) {
		return &AssignTaskResponse{Result: common.Result{Status: common.StatusStaffNotEligible}}, nil
	}

	now := h.cursor.Value()
	if err := task.Assign(member.ID(), now); err != nil {
		var transition *replenishment.ErrInvalidTaskTransition
		if errors.As(err, &transition) {
			return &AssignTaskResponse{Result: common.Result{Status: common.StatusTaskNotOpen}}, nil
		}
		return nil, err
	}
	if err := h.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	details := "assigned to " + member.ID()
	if err := h.trail.AppendEntry(ctx, audit.NewEntry(task.ID(), audit.ActionAssigned, member.ID(), details, now)); err != nil {
		return nil, err
	}
	if err := h.trail.AppendFlow(ctx, audit.FlowEvent{
		At:         now,
		Kind:       audit.FlowTaskAssigned,
		Status:     string(task.Status()),
		EntityID:   task.ID(),
		LocationID: task.Destination(),
		SKUID:      task.SKUID(),
		Details:    details,
	}); err != nil {
		return nil, err
	}

	return &AssignTaskResponse{
		Result: common.Result{Status: common.StatusAssigned},
		Task:   task,
	}, nil
}
