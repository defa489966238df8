package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/andrescamacho/floorsense-go/internal/application/common"
	ruleservices "github.com/andrescamacho/floorsense-go/internal/application/rules/services"
	"github.com/andrescamacho/floorsense-go/internal/domain/catalog"
	"github.com/andrescamacho/floorsense-go/internal/domain/layout"
	"github.com/andrescamacho/floorsense-go/internal/domain/rules"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
)

// UpsertRuleTemplateCommand declares or updates min/max intent. ID may be
// empty on first declaration.
type UpsertRuleTemplateCommand struct {
	ID              string
	Scope           rules.TemplateScope
	ZoneID          string
	Selector        rules.TemplateSelector
	SKUID           string
	Attributes      catalog.AttributeFilter
	Min             int
	Max             int
	Priority        int
	InboundSourceID string
}

// UpsertRuleTemplateResponse reports the outcome with the stored template and
// how many effective rules it now backs. TemplateID is on the wire because
// first declarations get a generated id.
type UpsertRuleTemplateResponse struct {
	common.Result
	Template     *rules.Template `json:"-"`
	TemplateID   string          `json:"templateId,omitempty"`
	RulesManaged int             `json:"rulesManaged"`
}

// UpsertRuleTemplateHandler validates, stores and reprojects a template.
type UpsertRuleTemplateHandler struct {
	templates rules.TemplateRepository
	locations layout.LocationRepository
	skus      catalog.SKURepository
	projector *ruleservices.Projector
	cursor    *shared.Cursor
}

// NewUpsertRuleTemplateHandler creates the handler.
func NewUpsertRuleTemplateHandler(
	templates rules.TemplateRepository,
	locations layout.LocationRepository,
	skus catalog.SKURepository,
	projector *ruleservices.Projector,
	cursor *shared.Cursor,
) *UpsertRuleTemplateHandler {
	return &UpsertRuleTemplateHandler{
		templates: templates,
		locations: locations,
		skus:      skus,
		projector: projector,
		cursor:    cursor,
	}
}

// Handle executes the upsert.
func (h *UpsertRuleTemplateHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*UpsertRuleTemplateCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *UpsertRuleTemplateCommand")
	}

	if status, err := h.validate(ctx, cmd); err != nil {
		return nil, err
	} else if status != "" {
		return &UpsertRuleTemplateResponse{Result: common.Result{Status: status}}, nil
	}

	id := cmd.ID
	if id == "" {
		id = uuid.New().String()
	}
	template, err := rules.NewTemplate(id, cmd.Scope, cmd.ZoneID, cmd.Selector, cmd.SKUID,
		cmd.Attributes, cmd.Min, cmd.Max, cmd.Priority, cmd.InboundSourceID, h.cursor.Value())
	if err != nil {
		return nil, err
	}
	if err := h.templates.Save(ctx, template); err != nil {
		return nil, err
	}
	if _, err := h.projector.Reproject(ctx); err != nil {
		return nil, err
	}
	managed, err := h.projector.ManagedCount(ctx, template.ID())
	if err != nil {
		return nil, err
	}

	return &UpsertRuleTemplateResponse{
		Result:       common.Result{Status: common.StatusAccepted},
		Template:     template,
		TemplateID:   template.ID(),
		RulesManaged: managed,
	}, nil
}

func (h *UpsertRuleTemplateHandler) validate(ctx context.Context, cmd *UpsertRuleTemplateCommand) (common.Status, error) {
	if cmd.Min < 0 || cmd.Max < cmd.Min {
		return common.StatusInvalidMinMax, nil
	}
	if cmd.Scope == rules.ScopeLocation {
		if cmd.ZoneID == "" {
			return common.StatusZoneRequired, nil
		}
		if _, err := h.locations.FindByID(ctx, cmd.ZoneID); err != nil {
			var notFound *layout.ErrLocationNotFound
			if errors.As(err, &notFound) {
				return common.StatusZoneNotFound, nil
			}
			return "", err
		}
	}
	switch cmd.Selector {
	case rules.SelectorSKU:
		if cmd.SKUID == "" {
			return common.StatusSKURequired, nil
		}
		if _, err := h.skus.FindByID(ctx, cmd.SKUID); err != nil {
			var notFound *catalog.ErrSKUNotFound
			if errors.As(err, &notFound) {
				return common.StatusSKUNotFound, nil
			}
			return "", err
		}
	case rules.SelectorAttributes:
		if cmd.Attributes.Empty() {
			return common.StatusAttributesRequired, nil
		}
	}
	return "", nil
}
