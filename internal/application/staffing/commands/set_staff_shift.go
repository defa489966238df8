package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/andrescamacho/floorsense-go/internal/application/common"
	invservices "github.com/andrescamacho/floorsense-go/internal/application/inventory/services"
	"github.com/andrescamacho/floorsense-go/internal/domain/staff"
)

// SetStaffShiftCommand clocks a member on or off shift.
type SetStaffShiftCommand struct {
	StaffID string
	OnShift bool
}

// SetStaffShiftResponse reports the outcome.
type SetStaffShiftResponse struct {
	common.Result
}

// SetStaffShiftHandler flips the shift flag and re-runs assignment: clocking
// on makes the member a candidate for pending work immediately.
type SetStaffShiftHandler struct {
	members  staff.Repository
	assigner invservices.Assigner
}

// NewSetStaffShiftHandler creates the handler.
func NewSetStaffShiftHandler(members staff.Repository, assigner invservices.Assigner) *SetStaffShiftHandler {
	return &SetStaffShiftHandler{members: members, assigner: assigner}
}

// Handle executes the shift change.
func (h *SetStaffShiftHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*SetStaffShiftCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *SetStaffShiftCommand")
	}

	member, err := h.members.FindByID(ctx, cmd.StaffID)
	if err != nil {
		var notFound *staff.ErrMemberNotFound
		if errors.As(err, &notFound) {
			return &SetStaffShiftResponse{Result: common.Result{Status: common.StatusStaffNotFound}}, nil
		}
		return nil, err
	}

	if !member.SetShift(cmd.OnShift) {
		status := common.StatusAlreadyInactive
		if cmd.OnShift {
			status = common.StatusAlreadyActive
		}
		return &SetStaffShiftResponse{Result: common.Result{Status: status}}, nil
	}
	if err := h.members.Save(ctx, member); err != nil {
		return nil, err
	}

	if err := h.assigner.AssignPending(ctx); err != nil {
		return nil, err
	}
	return &SetStaffShiftResponse{Result: common.Result{Status: common.StatusAccepted}}, nil
}
