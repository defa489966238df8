package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/floorsense-go/internal/application/common"
	"github.com/andrescamacho/floorsense-go/internal/domain/layout"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
)

// RegisterExternalLocationCommand registers an external-* receiving source,
// such as a supplier dock or a sister store.
type RegisterExternalLocationCommand struct {
	ID    string
	Label string
}

// RegisterExternalLocationResponse reports the outcome.
type RegisterExternalLocationResponse struct {
	common.Result
}

// RegisterExternalLocationHandler registers an external source id.
type RegisterExternalLocationHandler struct {
	externals layout.ExternalLocationRepository
}

// NewRegisterExternalLocationHandler creates the handler.
func NewRegisterExternalLocationHandler(externals layout.ExternalLocationRepository) *RegisterExternalLocationHandler {
	return &RegisterExternalLocationHandler{externals: externals}
}

// Handle executes the registration.
func (h *RegisterExternalLocationHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*RegisterExternalLocationCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *RegisterExternalLocationCommand")
	}

	if !shared.IsExternalLocationID(cmd.ID) {
		return &RegisterExternalLocationResponse{Result: common.Result{Status: common.StatusInvalidExternalID}}, nil
	}
	exists, err := h.externals.Exists(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}
	if exists {
		return &RegisterExternalLocationResponse{Result: common.Result{Status: common.StatusExternalExists}}, nil
	}

	label := cmd.Label
	if label == "" {
		label = cmd.ID
	}
	if err := h.externals.Register(ctx, cmd.ID, label); err != nil {
		return nil, err
	}
	return &RegisterExternalLocationResponse{Result: common.Result{Status: common.StatusAccepted}}, nil
}
