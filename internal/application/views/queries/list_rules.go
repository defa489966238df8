package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/floorsense-go/internal/application/common"
	"github.com/andrescamacho/floorsense-go/internal/domain/rules"
)

// ListRulesQuery retrieves effective rules, optionally for one zone.
type ListRulesQuery struct {
	LocationID string
}

// ListRulesResponse carries rules in id order.
type ListRulesResponse struct {
	Rules []*RuleDTO `json:"rules"`
}

// RuleDTO is the wire shape of a projected effective rule.
type RuleDTO struct {
	ID              string    `json:"id"`
	LocationID      string    `json:"locationId"`
	SKUID           string    `json:"skuId"`
	Source          string    `json:"source"`
	Min             int       `json:"min"`
	Max             int       `json:"max"`
	Priority        int       `json:"priority"`
	InboundSourceID string    `json:"inboundSourceId,omitempty"`
	TemplateID      string    `json:"templateId"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// ListRulesHandler answers the rule list read model.
type ListRulesHandler struct {
	registry rules.RuleRepository
}

// NewListRulesHandler creates the handler.
func NewListRulesHandler(registry rules.RuleRepository) *ListRulesHandler {
	return &ListRulesHandler{registry: registry}
}

// Handle executes the query.
func (h *ListRulesHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*ListRulesQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListRulesQuery")
	}

	var (
		found []*rules.EffectiveRule
		err   error
	)
	if query.LocationID != "" {
		found, err = h.registry.FindByLocation(ctx, query.LocationID)
	} else {
		found, err = h.registry.FindAll(ctx)
	}
	if err != nil {
		return nil, err
	}

	out := make([]*RuleDTO, 0, len(found))
	for _, rule := range found {
		out = append(out, toRuleDTO(rule))
	}
	return &ListRulesResponse{Rules: out}, nil
}

func toRuleDTO(rule *rules.EffectiveRule) *RuleDTO {
	return &RuleDTO{
		ID:              rule.ID(),
		LocationID:      rule.LocationID(),
		SKUID:           rule.SKUID(),
		Source:          string(rule.Source()),
		Min:             rule.Min(),
		Max:             rule.Max(),
		Priority:        rule.Priority(),
		InboundSourceID: rule.InboundSourceID(),
		TemplateID:      rule.TemplateID(),
		UpdatedAt:       rule.UpdatedAt(),
	}
}
