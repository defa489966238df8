package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/andrescamacho/floorsense-go/internal/application/common"
	invservices "github.com/andrescamacho/floorsense-go/internal/application/inventory/services"
	"github.com/andrescamacho/floorsense-go/internal/domain/audit"
	"github.com/andrescamacho/floorsense-go/internal/domain/layout"
	"github.com/andrescamacho/floorsense-go/internal/domain/replenishment"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
)

// ConfirmTaskCommand closes an in-progress task by executing its transfer.
// ConfirmedQty caps the movement below the deficit when positive; zero means
// move the full deficit. SourceZoneID overrides the source walk.
type ConfirmTaskCommand struct {
	TaskID       string
	ConfirmedQty int
	ConfirmedBy  string
	SourceZoneID string
}

// ConfirmTaskResponse reports the outcome; MovedQty is the stock actually
// moved, which may be less than requested.
type ConfirmTaskResponse struct {
	common.Result
	Task     *replenishment.Task `json:"-"`
	MovedQty int                 `json:"movedQty"`
}

// ConfirmTaskHandler executes the transfer behind a task confirmation. When
// the preferred source yields nothing it walks the remaining candidates; a
// walk that moves nothing leaves the task IN_PROGRESS.
type ConfirmTaskHandler struct {
	tasks      replenishment.TaskRepository
	locations  layout.LocationRepository
	transfer   *invservices.TransferExecutor
	recomputer *invservices.Recomputer
	trail      audit.Trail
	cursor     *shared.Cursor
}

// NewConfirmTaskHandler creates the handler.
func NewConfirmTaskHandler(
	tasks replenishment.TaskRepository,
	locations layout.LocationRepository,
	transfer *invservices.TransferExecutor,
	recomputer *invservices.Recomputer,
	trail audit.Trail,
	cursor *shared.Cursor,
) *ConfirmTaskHandler {
	return &ConfirmTaskHandler{
		tasks:      tasks,
		locations:  locations,
		transfer:   transfer,
		recomputer: recomputer,
		trail:      trail,
		cursor:     cursor,
	}
}

// Handle executes the confirmation.
func (h *ConfirmTaskHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*ConfirmTaskCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ConfirmTaskCommand")
	}

	task, err := h.tasks.FindByID(ctx, cmd.TaskID)
	if err != nil {
		var notFound *replenishment.ErrTaskNotFound
		if errors.As(err, &notFound) {
			return &ConfirmTaskResponse{Result: common.Result{Status: common.StatusTaskNotFound}}, nil
		}
		return nil, err
	}
	if task.Status() != replenishment.TaskStatusInProgress {
		return &ConfirmTaskResponse{Result: common.Result{Status: common.StatusTaskNotOpen}}, nil
	}

	requested := task.DeficitQty()
	if cmd.ConfirmedQty > 0 && cmd.ConfirmedQty < requested {
		requested = cmd.ConfirmedQty
	}

	walk, err := h.sourceWalk(ctx, task, cmd.SourceZoneID)
	if err != nil {
		return nil, err
	}

	now := h.cursor.Value()
	moved, chosen := 0, ""
	for _, sourceID := range walk {
		n, err := h.transfer.Move(ctx, sourceID, task.Destination(), task.SKUID(), task.Source(), requested, now)
		if err != nil {
			return nil, err
		}
		if n > 0 {
			moved, chosen = n, sourceID
			break
		}
	}
	if moved == 0 {
		return &ConfirmTaskResponse{
			Result: common.Result{Status: common.StatusNoInventoryMoved},
			Task:   task,
		}, nil
	}

	task.SetSourceZone(chosen)
	if err := task.Confirm(moved, cmd.ConfirmedBy, now); err != nil {
		return nil, err
	}
	if err := h.tasks.Update(ctx, task); err != nil {
		return nil, err
	}

	status := common.StatusConfirmed
	if task.CloseReason() == replenishment.CloseReasonConfirmedPartial {
		status = common.StatusConfirmedPartial
	}
	details := fmt.Sprintf("moved=%d from=%s", moved, chosen)
	if err := h.trail.AppendEntry(ctx, audit.NewEntry(task.ID(), audit.ActionConfirmed, cmd.ConfirmedBy, details, now)); err != nil {
		return nil, err
	}
	if err := h.trail.AppendFlow(ctx, audit.FlowEvent{
		At:         now,
		Kind:       audit.FlowTaskConfirmed,
		Status:     string(status),
		EntityID:   task.ID(),
		LocationID: task.Destination(),
		SKUID:      task.SKUID(),
		Details:    details,
	}); err != nil {
		return nil, err
	}

	if err := h.recomputer.RecomputeMany(ctx, task.Destination(), chosen); err != nil {
		return nil, err
	}

	return &ConfirmTaskResponse{
		Result:   common.Result{Status: status},
		Task:     task,
		MovedQty: moved,
	}, nil
}

// sourceWalk orders the sources to attempt: the explicit override, the task's
// selected source, its remembered candidates, then the destination's
// configured list. Duplicates and self-loops drop out.
func (h *ConfirmTaskHandler) sourceWalk(ctx context.Context, task *replenishment.Task, override string) ([]string, error) {
	var walk []string
	seen := make(map[string]struct{})
	add := func(id string) {
		if id == "" || id == task.Destination() {
			return
		}
		if _, dup := seen[id]; dup {
			return
		}
		seen[id] = struct{}{}
		walk = append(walk, id)
	}

	add(override)
	add(task.SourceZoneID())
	for _, candidate := range task.Candidates() {
		add(candidate.ZoneID)
	}
	destination, err := h.locations.FindByID(ctx, task.Destination())
	if err != nil {
		var notFound *layout.ErrLocationNotFound
		if !errors.As(err, &notFound) {
			return nil, err
		}
		return walk, nil
	}
	for _, id := range destination.Sources() {
		add(id)
	}
	return walk, nil
}
