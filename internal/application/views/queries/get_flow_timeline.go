package queries

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/floorsense-go/internal/application/common"
	"github.com/andrescamacho/floorsense-go/internal/domain/audit"
)

// defaultFlowLimit caps the timeline when the caller gives no limit.
const defaultFlowLimit = 50

// GetFlowTimelineQuery retrieves the newest engine events.
type GetFlowTimelineQuery struct {
	Limit int
}

// GetFlowTimelineResponse carries timeline events newest first.
type GetFlowTimelineResponse struct {
	Events []*FlowEventDTO `json:"events"`
}

// FlowEventDTO is the wire shape of one timeline event.
type FlowEventDTO struct {
	Seq        uint64    `json:"seq"`
	At         time.Time `json:"at"`
	Kind       string    `json:"kind"`
	Status     string    `json:"status"`
	EntityID   string    `json:"entityId,omitempty"`
	LocationID string    `json:"locationId,omitempty"`
	SKUID      string    `json:"skuId,omitempty"`
	Details    string    `json:"details,omitempty"`
}

// GetFlowTimelineHandler answers the flow timeline read model.
type GetFlowTimelineHandler struct {
	trail audit.Trail
}

// NewGetFlowTimelineHandler creates the handler.
func NewGetFlowTimelineHandler(trail audit.Trail) *GetFlowTimelineHandler {
	return &GetFlowTimelineHandler{trail: trail}
}

// Handle executes the query.
func (h *GetFlowTimelineHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	query, ok := request.(*GetFlowTimelineQuery)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetFlowTimelineQuery")
	}

	limit := query.Limit
	if limit <= 0 {
		limit = defaultFlowLimit
	}
	events, err := h.trail.FindFlow(ctx, limit)
	if err != nil {
		return nil, err
	}

	out := make([]*FlowEventDTO, 0, len(events))
	for _, event := range events {
		out = append(out, ToFlowEventDTO(event))
	}
	return &GetFlowTimelineResponse{Events: out}, nil
}

// ToFlowEventDTO converts a timeline event for the wire; the websocket hub
// uses the same shape for live pushes.
func ToFlowEventDTO(event audit.FlowEvent) *FlowEventDTO {
	return &FlowEventDTO{
		Seq:        event.Seq,
		At:         event.At,
		Kind:       event.Kind,
		Status:     event.Status,
		EntityID:   event.EntityID,
		LocationID: event.LocationID,
		SKUID:      event.SKUID,
		Details:    event.Details,
	}
}
