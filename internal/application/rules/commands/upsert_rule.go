package commands

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/andrescamacho/floorsense-go/internal/application/common"
	ruleservices "github.com/andrescamacho/floorsense-go/internal/application/rules/services"
	"github.com/andrescamacho/floorsense-go/internal/domain/catalog"
	"github.com/andrescamacho/floorsense-go/internal/domain/layout"
	"github.com/andrescamacho/floorsense-go/internal/domain/rules"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
)

// UpsertRuleCommand is the legacy direct rule path. It is proxied through a
// LOCATION/SKU template with a deterministic id, so the registry stays a pure
// projection of the template set.
type UpsertRuleCommand struct {
	LocationID      string
	SKUID           string
	Source          shared.Source
	Min             int
	Max             int
	Priority        int
	InboundSourceID string
}

// UpsertRuleResponse reports the outcome with the effective rule the registry
// now holds for the key, which may come from a higher-priority template.
// RuleID is on the wire because callers need it to delete the rule later.
type UpsertRuleResponse struct {
	common.Result
	Rule   *rules.EffectiveRule `json:"-"`
	RuleID string               `json:"ruleId,omitempty"`
}

// UpsertRuleHandler proxies a direct rule upsert through its backing
// template.
type UpsertRuleHandler struct {
	templates rules.TemplateRepository
	registry  rules.RuleRepository
	locations layout.LocationRepository
	skus      catalog.SKURepository
	projector *ruleservices.Projector
	cursor    *shared.Cursor
}

// NewUpsertRuleHandler creates the handler.
func NewUpsertRuleHandler(
	templates rules.TemplateRepository,
	registry rules.RuleRepository,
	locations layout.LocationRepository,
	skus catalog.SKURepository,
	projector *ruleservices.Projector,
	cursor *shared.Cursor,
) *UpsertRuleHandler {
	return &UpsertRuleHandler{
		templates: templates,
		registry:  registry,
		locations: locations,
		skus:      skus,
		projector: projector,
		cursor:    cursor,
	}
}

// Handle executes the upsert.
func (h *UpsertRuleHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*UpsertRuleCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *UpsertRuleCommand")
	}

	if cmd.Min < 0 || cmd.Max < cmd.Min {
		return &UpsertRuleResponse{Result: common.Result{Status: common.StatusInvalidMinMax}}, nil
	}
	if _, err := h.locations.FindByID(ctx, cmd.LocationID); err != nil {
		var notFound *layout.ErrLocationNotFound
		if errors.As(err, &notFound) {
			return &UpsertRuleResponse{Result: common.Result{Status: common.StatusZoneNotFound}}, nil
		}
		return nil, err
	}
	sku, err := h.skus.FindByID(ctx, cmd.SKUID)
	if err != nil {
		var notFound *catalog.ErrSKUNotFound
		if errors.As(err, &notFound) {
			return &UpsertRuleResponse{Result: common.Result{Status: common.StatusSKUNotFound}}, nil
		}
		return nil, err
	}
	if cmd.Source != "" && cmd.Source != sku.Source() {
		return &UpsertRuleResponse{Result: common.Result{Status: common.StatusSourceMismatch}}, nil
	}

	template, err := rules.NewTemplate(
		legacyTemplateID(cmd.LocationID, sku.ID(), sku.Source()),
		rules.ScopeLocation, cmd.LocationID,
		rules.SelectorSKU, sku.ID(),
		catalog.AttributeFilter{},
		cmd.Min, cmd.Max, cmd.Priority, cmd.InboundSourceID,
		h.cursor.Value(),
	)
	if err != nil {
		return nil, err
	}
	if err := h.templates.Save(ctx, template); err != nil {
		return nil, err
	}
	if _, err := h.projector.Reproject(ctx); err != nil {
		return nil, err
	}

	rule, err := h.registry.Find(ctx, cmd.LocationID, sku.ID(), sku.Source())
	if err != nil {
		return nil, err
	}
	return &UpsertRuleResponse{
		Result: common.Result{Status: common.StatusAccepted},
		Rule:   rule,
		RuleID: rule.ID(),
	}, nil
}

// legacyTemplateID gives a direct rule upsert a stable backing template, so
// repeated upserts of the same key edit one template instead of stacking new
// ones.
func legacyTemplateID(locationID, skuID string, source shared.Source) string {
	return strings.ToLower(fmt.Sprintf("tpl-%s-%s-%s", locationID, skuID, source))
}
