package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/floorsense-go/internal/application/common"
	"github.com/andrescamacho/floorsense-go/internal/domain/replenishment"
)

// ListTasksQuery retrieves replenishment tasks. Empty filter fields are
// unconstrained; OpenOnly narrows to the live working set.
type ListTasksQuery struct {
	Status     string
	LocationID string
	StaffID    string
	SKUID      string
	OpenOnly   bool
}

// ListTasksResponse carries the matching tasks in creation order.
type ListTasksResponse struct {
	Tasks []*TaskDTO `json:"tasks"`
}

// TaskDTO is the wire shape of a replenishment task.
type TaskDTO struct {
	ID              string               `json:"id"`
	RuleID          string               `json:"ruleId"`
	Destination     string               `json:"destination"`
	SKUID           string               `json:"skuId"`
	Source          string               `json:"source"`
	Status          string               `json:"status"`
	SourceZoneID    string               `json:"sourceZoneId,omitempty"`
	Candidates      []SourceCandidateDTO `json:"candidates,omitempty"`
	TriggerQty      int                  `json:"triggerQty"`
	DeficitQty      int                  `json:"deficitQty"`
	TargetQty       int                  `json:"targetQty"`
	AssignedStaffID string               `json:"assignedStaffId,omitempty"`
	ConfirmedQty    *int                 `json:"confirmedQty,omitempty"`
	ConfirmedBy     string               `json:"confirmedBy,omitempty"`
	CloseReason     string               `json:"closeReason,omitempty"`
	AdHoc           bool                 `json:"adHoc"`
	CreatedAt       time.Time            `json:"createdAt"`
	AssignedAt      *time.Time           `json:"assignedAt,omitempty"`
	StartedAt       *time.Time           `json:"startedAt,omitempty"`
	ClosedAt        *time.Time           `json:"closedAt,omitempty"`
}

// SourceCandidateDTO is one scored source zone.
type SourceCandidateDTO struct {
	ZoneID       string `json:"zoneId"`
	SortOrder    int    `json:"sortOrder"`
	AvailableQty int    `json:"availableQty"`
}

// ListTasksHandler answers the task list read model.
type ListTasksHandler struct {
	tasks replenishment.TaskRepository
}

// NewListTasksHandler creates the handler.
func NewListTasksHandler(tasks replenishment.TaskRepository) *ListTasksHandler {
	return &ListTasksHandler{tasks: tasks}
}

// Handle executes the query.
func (h *ListTasksHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*ListTasksQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListTasksQuery")
	}

	var tasks []*replenishment.Task
	var err error
	if query.OpenOnly && query.Status == "" {
		tasks, err = h.tasks.FindOpen(ctx)
	} else {
		tasks, err = h.tasks.FindAll(ctx, replenishment.TaskFilter{
			Status:      replenishment.TaskStatus(query.Status),
			Destination: query.LocationID,
			StaffID:     query.StaffID,
			SKUID:       query.SKUID,
		})
	}
	if err != nil {
		return nil, err
	}

	out := make([]*TaskDTO, 0, len(tasks))
	for _, task := range tasks {
		if query.OpenOnly && !task.IsOpen() {
			continue
		}
		if query.LocationID != "" && task.Destination() != query.LocationID {
			continue
		}
		if query.StaffID != "" && task.AssignedStaffID() != query.StaffID {
			continue
		}
		if query.SKUID != "" && task.SKUID() != query.SKUID {
			continue
		}
		out = append(out, toTaskDTO(task))
	}
	return &ListTasksResponse{Tasks: out}, nil
}

func toTaskDTO(task *replenishment.Task) *TaskDTO {
	candidates := task.Candidates()
	dtoCandidates := make([]SourceCandidateDTO, 0, len(candidates))
	for _, c := range candidates {
		dtoCandidates = append(dtoCandidates, SourceCandidateDTO{
			ZoneID:       c.ZoneID,
			SortOrder:    c.SortOrder,
			AvailableQty: c.AvailableQty,
		})
	}
	return &TaskDTO{
		ID:              task.ID(),
		RuleID:          task.RuleID(),
		Destination:     task.Destination(),
		SKUID:           task.SKUID(),
		Source:          string(task.Source()),
		Status:          string(task.Status()),
		SourceZoneID:    task.SourceZoneID(),
		Candidates:      dtoCandidates,
		TriggerQty:      task.TriggerQty(),
		DeficitQty:      task.DeficitQty(),
		TargetQty:       task.TargetQty(),
		AssignedStaffID: task.AssignedStaffID(),
		ConfirmedQty:    task.ConfirmedQty(),
		ConfirmedBy:     task.ConfirmedBy(),
		CloseReason:     string(task.CloseReason()),
		AdHoc:           task.AdHoc(),
		CreatedAt:       task.CreatedAt(),
		AssignedAt:      task.AssignedAt(),
		StartedAt:       task.StartedAt(),
		ClosedAt:        task.ClosedAt(),
	}
}
