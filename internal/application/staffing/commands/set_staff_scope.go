package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/andrescamacho/floorsense-go/internal/application/common"
	invservices "github.com/andrescamacho/floorsense-go/internal/application/inventory/services"
	"github.com/andrescamacho/floorsense-go/internal/domain/layout"
	"github.com/andrescamacho/floorsense-go/internal/domain/staff"
)

// SetStaffScopeCommand replaces the set of zones a member may work in.
type SetStaffScopeCommand struct {
	StaffID string
	Scope   staff.Scope
}

// SetStaffScopeResponse reports the outcome.
type SetStaffScopeResponse struct {
	common.Result
}

// SetStaffScopeHandler validates the scoped zones and re-runs assignment.
type SetStaffScopeHandler struct {
	members   staff.Repository
	locations layout.LocationRepository
	assigner  invservices.Assigner
}

// NewSetStaffScopeHandler creates the handler.
func NewSetStaffScopeHandler(
	members staff.Repository,
	locations layout.LocationRepository,
	assigner invservices.Assigner,
) *SetStaffScopeHandler {
	return &SetStaffScopeHandler{members: members, locations: locations, assigner: assigner}
}

// Handle executes the scope change.
func (h *SetStaffScopeHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*SetStaffScopeCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *SetStaffScopeCommand")
	}

	member, err := h.members.FindByID(ctx, cmd.StaffID)
	if err != nil {
		var notFound *staff.ErrMemberNotFound
		if errors.As(err, &notFound) {
			return &SetStaffScopeResponse{Result: common.Result{Status: common.StatusStaffNotFound}}, nil
		}
		return nil, err
	}

	if !cmd.Scope.All {
		for _, locationID := range cmd.Scope.LocationIDs {
			exists, err := h.locations.Exists(ctx, locationID)
			if err != nil {
				return nil, err
			}
			if !exists {
				return &SetStaffScopeResponse{Result: common.Result{Status: common.StatusZoneNotFound}}, nil
			}
		}
	}

	member.SetScope(cmd.Scope)
	if err := h.members.Save(ctx, member); err != nil {
		return nil, err
	}

	if err := h.assigner.AssignPending(ctx); err != nil {
		return nil, err
	}
	return &SetStaffScopeResponse{Result: common.Result{Status: common.StatusAccepted}}, nil
}
