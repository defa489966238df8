package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/floorsense-go/internal/application/common"
	"github.com/andrescamacho/floorsense-go/internal/domain/receiving"
	"github.com/andrescamacho/floorsense-go/internal/domain/replenishment"
	"github.com/andrescamacho/floorsense-go/internal/domain/staff"
)

// ListStaffQuery retrieves staff members with their current workload.
type ListStaffQuery struct {
	OnShiftOnly bool
}

// ListStaffResponse carries members in id order.
type ListStaffResponse struct {
	Members []*StaffDTO `json:"members"`
}

// StaffDTO is the wire shape of a staff member. Load counts the open tasks
// and in-transit orders currently assigned.
type StaffDTO struct {
	ID       string   `json:"id"`
	Name     string   `json:"name"`
	Role     string   `json:"role"`
	OnShift  bool     `json:"onShift"`
	ScopeAll bool     `json:"scopeAll"`
	Zones    []string `json:"zones,omitempty"`
	Load     int      `json:"load"`
}

// ListStaffHandler answers the staff list read model.
type ListStaffHandler struct {
	members staff.Repository
	tasks   replenishment.TaskRepository
	orders  receiving.OrderRepository
}

// NewListStaffHandler creates the handler.
func NewListStaffHandler(
	members staff.Repository,
	tasks replenishment.TaskRepository,
	orders receiving.OrderRepository,
) *ListStaffHandler {
	return &ListStaffHandler{members: members, tasks: tasks, orders: orders}
}

// Handle executes the query.
func (h *ListStaffHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*ListStaffQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListStaffQuery")
	}

	var (
		found []*staff.Member
		err   error
	)
	if query.OnShiftOnly {
		found, err = h.members.FindOnShift(ctx)
	} else {
		found, err = h.members.FindAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	open, err := h.tasks.FindOpen(ctx)
	if err != nil {
		return nil, err
	}
	inbound, err := h.orders.FindInTransit(ctx)
	if err != nil {
		return nil, err
	}
	loads := make(map[string]int, len(found))
	for _, task := range open {
		if task.AssignedStaffID() != "" {
			loads[task.AssignedStaffID()]++
		}
	}
	for _, order := range inbound {
		if order.AssignedStaffID() != "" {
			loads[order.AssignedStaffID()]++
		}
	}

	out := make([]*StaffDTO, 0, len(found))
	for _, member := range found {
		scope := member.Scope()
		out = append(out, &StaffDTO{
			ID:       member.ID(),
			Name:     member.Name(),
			Role:     string(member.Role()),
			OnShift:  member.OnShift(),
			ScopeAll: scope.All,
			Zones:    scope.LocationIDs,
			Load:     loads[member.ID()],
		})
	}
	return &ListStaffResponse{Members: out}, nil
}
