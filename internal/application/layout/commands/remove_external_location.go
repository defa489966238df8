package commands

import (
	"context"
	"fmt"

	"github.com/andrescamacho/floorsense-go/internal/application/common"
	invservices "github.com/andrescamacho/floorsense-go/internal/application/inventory/services"
	"github.com/andrescamacho/floorsense-go/internal/domain/layout"
	"github.com/andrescamacho/floorsense-go/internal/domain/receiving"
	"github.com/andrescamacho/floorsense-go/internal/domain/replenishment"
)

// RemoveExternalLocationCommand deregisters an external receiving source.
// Open work sourced from it unwinds: tasks close as source_removed and
// in-transit orders cancel.
type RemoveExternalLocationCommand struct {
	ID string
}

// RemoveExternalLocationResponse reports the outcome with cascade counts.
type RemoveExternalLocationResponse struct {
	common.Result
	TasksClosed     int `json:"tasksClosed"`
	OrdersCancelled int `json:"ordersCancelled"`
}

// RemoveExternalLocationHandler deregisters an external source id.
type RemoveExternalLocationHandler struct {
	externals layout.ExternalLocationRepository
	locations layout.LocationRepository
	planner   *invservices.Planner
}

// NewRemoveExternalLocationHandler creates the handler.
func NewRemoveExternalLocationHandler(
	externals layout.ExternalLocationRepository,
	locations layout.LocationRepository,
	planner *invservices.Planner,
) *RemoveExternalLocationHandler {
	return &RemoveExternalLocationHandler{externals: externals, locations: locations, planner: planner}
}

// Handle executes the removal.
func (h *RemoveExternalLocationHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*RemoveExternalLocationCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *RemoveExternalLocationCommand")
	}

	exists, err := h.externals.Exists(ctx, cmd.ID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return &RemoveExternalLocationResponse{Result: common.Result{Status: common.StatusExternalNotFound}}, nil
	}

	closed, err := h.planner.CloseTasksMatching(ctx, replenishment.CloseReasonSourceRemoved, func(task *replenishment.Task) bool {
		return task.PullsFrom(cmd.ID)
	})
	if err != nil {
		return nil, err
	}
	cancelled, err := h.planner.CancelOrdersMatching(ctx, "external source removed", func(order *receiving.Order) bool {
		return order.SourceID() == cmd.ID
	})
	if err != nil {
		return nil, err
	}

	locations, err := h.locations.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	for _, location := range locations {
		if location.RemoveSource(cmd.ID) {
			if err := h.locations.Update(ctx, location); err != nil {
				return nil, err
			}
		}
	}

	if err := h.externals.Remove(ctx, cmd.ID); err != nil {
		return nil, err
	}
	return &RemoveExternalLocationResponse{
		Result:          common.Result{Status: common.StatusAccepted},
		TasksClosed:     closed,
		OrdersCancelled: cancelled,
	}, nil
}
