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

// DeleteRuleCommand is the legacy direct rule delete. It deactivates the rule's
// backing template; if another active template still covers the key, the
// reprojection keeps an effective rule alive there.
type DeleteRuleCommand struct {
	RuleID string
}

// DeleteRuleResponse reports the outcome.
type DeleteRuleResponse struct {
	common.Result
}

// DeleteRuleHandler deactivates the template behind an effective rule.
type DeleteRuleHandler struct {
	templates rules.TemplateRepository
	registry  rules.RuleRepository
	projector *ruleservices.Projector
	cursor    *shared.Cursor
}

// NewDeleteRuleHandler creates the handler.
func NewDeleteRuleHandler(
	templates rules.TemplateRepository,
	registry rules.RuleRepository,
	projector *ruleservices.Projector,
	cursor *shared.Cursor,
) *DeleteRuleHandler {
	return &DeleteRuleHandler{
		templates: templates,
		registry:  registry,
		projector: projector,
		cursor:    cursor,
	}
}

// Handle executes the delete.
func (h *DeleteRuleHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*DeleteRuleCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *DeleteRuleCommand")
	}

	rule, err := h.registry.FindByID(ctx, cmd.RuleID)
	if err != nil {
		var notFound *rules.ErrRuleNotFound
		if errors.As(err, &notFound) {
			return &DeleteRuleResponse{Result: common.Result{Status: common.StatusRuleNotFound}}, nil
		}
		return nil, err
	}
	template, err := h.templates.FindByID(ctx, rule.TemplateID())
	if err != nil {
		return nil, err
	}
	if !template.Deactivate(h.cursor.Value()) {
		return &DeleteRuleResponse{Result: common.Result{Status: common.StatusAlreadyInactive}}, nil
	}
	if err := h.templates.Save(ctx, template); err != nil {
		return nil, err
	}
	if _, err := h.projector.Reproject(ctx); err != nil {
		return nil, err
	}
	return &DeleteRuleResponse{Result: common.Result{Status: common.StatusAccepted}}, nil
}
