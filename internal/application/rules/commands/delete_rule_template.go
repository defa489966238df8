package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/andrescamacho/floorsense-go/internal/application/common"
	ruleservices "github.com/andrescamacho/floorsense-go/internal/application/rules/services"
	"github.com/andrescamacho/floorsense-go/internal/domain/rules"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
)

// DeleteRuleTemplateCommand soft-deletes a template. Its effective rules
// disappear on reprojection unless another template still produces them.
type DeleteRuleTemplateCommand struct {
	TemplateID string
}

// DeleteRuleTemplateResponse reports the outcome.
type DeleteRuleTemplateResponse struct {
	common.Result
}

// DeleteRuleTemplateHandler deactivates a template and reprojects.
type DeleteRuleTemplateHandler struct {
	templates rules.TemplateRepository
	projector *ruleservices.Projector
	cursor    *shared.Cursor
}

// NewDeleteRuleTemplateHandler creates the handler.
func NewDeleteRuleTemplateHandler(templates rules.TemplateRepository, projector *ruleservices.Projector, cursor *shared.Cursor) *DeleteRuleTemplateHandler {
	return &DeleteRuleTemplateHandler{templates: templates, projector: projector, cursor: cursor}
}

// Handle executes the deletion.
func (h *DeleteRuleTemplateHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*DeleteRuleTemplateCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *DeleteRuleTemplateCommand")
	}

	template, err := h.templates.FindByID(ctx, cmd.TemplateID)
	if err != nil {
		var notFound *rules.ErrTemplateNotFound
		if errors.As(err, &notFound) {
			return &DeleteRuleTemplateResponse{Result: common.Result{Status: common.StatusTemplateNotFound}}, nil
		}
		return nil, err
	}
	if !template.Deactivate(h.cursor.Value()) {
		return &DeleteRuleTemplateResponse{Result: common.Result{Status: common.StatusAlreadyInactive}}, nil
	}
	if err := h.templates.Save(ctx, template); err != nil {
		return nil, err
	}
	if _, err := h.projector.Reproject(ctx); err != nil {
		return nil, err
	}

	return &DeleteRuleTemplateResponse{Result: common.Result{Status: common.StatusAccepted}}, nil
}
