package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/andrescamacho/floorsense-go/internal/application/common"
	invservices "github.com/andrescamacho/floorsense-go/internal/application/inventory/services"
	"github.com/andrescamacho/floorsense-go/internal/domain/staff"
)

// UpsertStaffCommand creates or updates a staff member. The id is generated
// when empty.
type UpsertStaffCommand struct {
	ID      string
	Name    string
	Role    string
	OnShift bool
	Scope   staff.Scope
}

// UpsertStaffResponse reports the outcome. MemberID is on the wire because
// new members get a generated id.
type UpsertStaffResponse struct {
	common.Result
	Member   *staff.Member `json:"-"`
	MemberID string        `json:"memberId,omitempty"`
}

// UpsertStaffHandler saves a member and re-runs assignment, since a new
// associate may pick up work that had nowhere to go.
type UpsertStaffHandler struct {
	members  staff.Repository
	assigner invservices.Assigner
}

// NewUpsertStaffHandler creates the handler.
func NewUpsertStaffHandler(members staff.Repository, assigner invservices.Assigner) *UpsertStaffHandler {
	return &UpsertStaffHandler{members: members, assigner: assigner}
}

// Handle executes the upsert.
func (h *UpsertStaffHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*UpsertStaffCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *UpsertStaffCommand")
	}

	role, err := staff.ParseRole(cmd.Role)
	if err != nil {
		return &UpsertStaffResponse{Result: common.Result{Status: common.StatusInvalidRole}}, nil
	}

	var member *staff.Member
	if cmd.ID == "" {
		member = staff.NewMember(uuid.New().String(), cmd.Name, role, cmd.OnShift, cmd.Scope)
	} else {
		existing, err := h.members.FindByID(ctx, cmd.ID)
		if err != nil {
			var notFound *staff.ErrMemberNotFound
			if !errors.As(err, &notFound) {
				return nil, err
			}
			member = staff.NewMember(cmd.ID, cmd.Name, role, cmd.OnShift, cmd.Scope)
		} else {
			existing.Rename(cmd.Name)
			existing.SetRole(role)
			existing.SetShift(cmd.OnShift)
			existing.SetScope(cmd.Scope)
			member = existing
		}
	}

	if err := h.members.Save(ctx, member); err != nil {
		return nil, err
	}
	if err := h.assigner.AssignPending(ctx); err != nil {
		return nil, err
	}
	return &UpsertStaffResponse{
		Result:   common.Result{Status: common.StatusAccepted},
		Member:   member,
		MemberID: member.ID(),
	}, nil
}
