package commands

import (
	"context"
	"errors"
	"fmt"

	"github.com/andrescamacho/floorsense-go/internal/application/common"
	invservices "github.com/andrescamacho/floorsense-go/internal/application/inventory/services"
	ruleservices "github.com/andrescamacho/floorsense-go/internal/application/rules/services"
	"github.com/andrescamacho/floorsense-go/internal/domain/layout"
	"github.com/andrescamacho/floorsense-go/internal/domain/receiving"
	"github.com/andrescamacho/floorsense-go/internal/domain/replenishment"
	"github.com/andrescamacho/floorsense-go/internal/domain/rules"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
)

// DeleteLocationCommand removes a zone and unwinds everything that leaned on
// it: tasks pulling from it, tasks destined to it, in-transit orders touching
// it, source-list references, and its LOCATION templates.
type DeleteLocationCommand struct {
	ID string
}

// DeleteLocationResponse reports the outcome with cascade counts.
type DeleteLocationResponse struct {
	common.Result
	TasksClosed     int `json:"tasksClosed"`
	OrdersCancelled int `json:"ordersCancelled"`
}

// DeleteLocationHandler tears a zone out of the layout.
type DeleteLocationHandler struct {
	locations layout.LocationRepository
	templates rules.TemplateRepository
	planner   *invservices.Planner
	projector *ruleservices.Projector
	cursor    *shared.Cursor
}

// NewDeleteLocationHandler creates the handler.
func NewDeleteLocationHandler(
	locations layout.LocationRepository,
	templates rules.TemplateRepository,
	planner *invservices.Planner,
	projector *ruleservices.Projector,
	cursor *shared.Cursor,
) *DeleteLocationHandler {
	return &DeleteLocationHandler{
		locations: locations,
		templates: templates,
		planner:   planner,
		projector: projector,
		cursor:    cursor,
	}
}

// Handle executes the delete.
func (h *DeleteLocationHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*DeleteLocationCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *DeleteLocationCommand")
	}

	if shared.IsReservedLocationID(cmd.ID) {
		return &DeleteLocationResponse{Result: common.Result{Status: common.StatusReservedZoneID}}, nil
	}
	if _, err := h.locations.FindByID(ctx, cmd.ID); err != nil {
		var notFound *layout.ErrLocationNotFound
		if errors.As(err, &notFound) {
			return &DeleteLocationResponse{Result: common.Result{Status: common.StatusZoneNotFound}}, nil
		}
		return nil, err
	}

	pulled, err := h.planner.CloseTasksMatching(ctx, replenishment.CloseReasonSourceRemoved, func(task *replenishment.Task) bool {
		return task.PullsFrom(cmd.ID)
	})
	if err != nil {
		return nil, err
	}
	destined, err := h.planner.CloseTasksMatching(ctx, replenishment.CloseReasonZoneDeleted, func(task *replenishment.Task) bool {
		return task.Destination() == cmd.ID
	})
	if err != nil {
		return nil, err
	}
	cancelled, err := h.planner.CancelOrdersMatching(ctx, "zone deleted", func(order *receiving.Order) bool {
		return order.SourceID() == cmd.ID || order.DestinationID() == cmd.ID
	})
	if err != nil {
		return nil, err
	}

	if err := h.stripSourceReferences(ctx, cmd.ID); err != nil {
		return nil, err
	}
	if err := h.deactivateTemplates(ctx, cmd.ID); err != nil {
		return nil, err
	}
	if err := h.locations.Delete(ctx, cmd.ID); err != nil {
		return nil, err
	}

	// Reprojection drops the zone's rules from the registry; the tasks they
	// owned are already closed above, so nothing closes as rule_deleted.
	if _, err := h.projector.Reproject(ctx); err != nil {
		return nil, err
	}

	return &DeleteLocationResponse{
		Result:          common.Result{Status: common.StatusAccepted},
		TasksClosed:     pulled + destined,
		OrdersCancelled: cancelled,
	}, nil
}

// stripSourceReferences removes the zone from every other location's source
// list.
func (h *DeleteLocationHandler) stripSourceReferences(ctx context.Context, zoneID string) error {
	locations, err := h.locations.FindAll(ctx)
	if err != nil {
		return err
	}
	for _, location := range locations {
		if location.ID() == zoneID {
			continue
		}
		if location.RemoveSource(zoneID) {
			if err := h.locations.Update(ctx, location); err != nil {
				return err
			}
		}
	}
	return nil
}

// deactivateTemplates soft-deletes the LOCATION templates pinned to the zone.
func (h *DeleteLocationHandler) deactivateTemplates(ctx context.Context, zoneID string) error {
	templates, err := h.templates.FindActive(ctx)
	if err != nil {
		return err
	}
	now := h.cursor.Value()
	for _, template := range templates {
		if template.Scope() != rules.ScopeLocation || template.ZoneID() != zoneID {
			continue
		}
		if template.Deactivate(now) {
			if err := h.templates.Save(ctx, template); err != nil {
				return err
			}
		}
	}
	return nil
}
