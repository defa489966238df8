package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/floorsense-go/internal/application/common"
	"github.com/andrescamacho/floorsense-go/internal/domain/catalog"
	"github.com/andrescamacho/floorsense-go/internal/domain/rules"
)

// ListTemplatesQuery retrieves rule templates, active only by default.
type ListTemplatesQuery struct {
	IncludeInactive bool
}

// ListTemplatesResponse carries templates in id order.
type ListTemplatesResponse struct {
	Templates []*TemplateDTO `json:"templates"`
}

// TemplateDTO is the wire shape of a rule template.
type TemplateDTO struct {
	ID              string                  `json:"id"`
	Scope           string                  `json:"scope"`
	ZoneID          string                  `json:"zoneId,omitempty"`
	Selector        string                  `json:"selector"`
	SKUID           string                  `json:"skuId,omitempty"`
	Attributes      catalog.AttributeFilter `json:"attributes,omitempty"`
	Min             int                     `json:"min"`
	Max             int                     `json:"max"`
	Priority        int                     `json:"priority"`
	InboundSourceID string                  `json:"inboundSourceId,omitempty"`
	Active          bool                    `json:"active"`
	UpdatedAt       time.Time               `json:"updatedAt"`
}

// ListTemplatesHandler answers the template list read model.
type ListTemplatesHandler struct {
	templates rules.TemplateRepository
}

// NewListTemplatesHandler creates the handler.
func NewListTemplatesHandler(templates rules.TemplateRepository) *ListTemplatesHandler {
	return &ListTemplatesHandler{templates: templates}
}

// Handle executes the query.
func (h *ListTemplatesHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*ListTemplatesQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *ListTemplatesQuery")
	}

	var (
		found []*rules.Template
		err   error
	)
	if query.IncludeInactive {
		found, err = h.templates.FindAll(ctx)
	} else {
		found, err = h.templates.FindActive(ctx)
	}
	if err != nil {
		return nil, err
	}

	out := make([]*TemplateDTO, 0, len(found))
	for _, template := range found {
		out = append(out, &TemplateDTO{
			ID:              template.ID(),
			Scope:           string(template.Scope()),
			ZoneID:          template.ZoneID(),
			Selector:        string(template.Selector()),
			SKUID:           template.SKUID(),
			Attributes:      template.Attributes(),
			Min:             template.Min(),
			Max:             template.Max(),
			Priority:        template.Priority(),
			InboundSourceID: template.InboundSourceID(),
			Active:          template.Active(),
			UpdatedAt:       template.UpdatedAt(),
		})
	}
	return &ListTemplatesResponse{Templates: out}, nil
}
