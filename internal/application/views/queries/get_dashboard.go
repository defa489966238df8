package queries

import (
	"context"
	"fmt"

	"github.com/andrescamacho/floorsense-go/internal/application/common"
	"github.com/andrescamacho/floorsense-go/internal/domain/layout"
	"github.com/andrescamacho/floorsense-go/internal/domain/receiving"
	"github.com/andrescamacho/floorsense-go/internal/domain/replenishment"
	"github.com/andrescamacho/floorsense-go/internal/domain/rules"
	"github.com/andrescamacho/floorsense-go/internal/domain/snapshot"
	"github.com/andrescamacho/floorsense-go/internal/domain/staff"
)

// GetDashboardQuery retrieves the store-wide overview.
type GetDashboardQuery struct{}

// GetDashboardResponse is the store overview: one card per zone plus engine
// totals.
type GetDashboardResponse struct {
	Locations       []*DashboardLocationDTO `json:"locations"`
	OpenTasks       int                     `json:"openTasks"`
	InTransitOrders int                     `json:"inTransitOrders"`
	OnShiftStaff    int                     `json:"onShiftStaff"`
}

// DashboardLocationDTO is one zone card.
type DashboardLocationDTO struct {
	ID              string `json:"id"`
	Name            string `json:"name"`
	Colour          string `json:"colour,omitempty"`
	IsSales         bool   `json:"isSales"`
	SKUs            int    `json:"skus"`
	TotalQty        int    `json:"totalQty"`
	LowStockRules   int    `json:"lowStockRules"`
	OpenTasks       int    `json:"openTasks"`
	InTransitOrders int    `json:"inTransitOrders"`
}

// GetDashboardHandler answers the dashboard read model.
type GetDashboardHandler struct {
	locations layout.LocationRepository
	snapshots snapshot.Repository
	registry  rules.RuleRepository
	tasks     replenishment.TaskRepository
	orders    receiving.OrderRepository
	members   staff.Repository
}

// NewGetDashboardHandler creates the handler.
func NewGetDashboardHandler(
	locations layout.LocationRepository,
	snapshots snapshot.Repository,
	registry rules.RuleRepository,
	tasks replenishment.TaskRepository,
	orders receiving.OrderRepository,
	members staff.Repository,
) *GetDashboardHandler {
	return &GetDashboardHandler{
		locations: locations,
		snapshots: snapshots,
		registry:  registry,
		tasks:     tasks,
		orders:    orders,
		members:   members,
	}
}

// Handle executes the query.
func (h *GetDashboardHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	if _, ok := request.(*GetDashboardQuery); !ok {
		return nil, fmt.Errorf("invalid request type: expected *GetDashboardQuery")
	}

	locations, err := h.locations.FindAll(ctx)
	if err != nil {
		return nil, err
	}
	open, err := h.tasks.FindOpen(ctx)
	if err != nil {
		return nil, err
	}
	inbound, err := h.orders.FindInTransit(ctx)
	if err != nil {
		return nil, err
	}
	onShift, err := h.members.FindOnShift(ctx)
	if err != nil {
		return nil, err
	}

	openByZone := make(map[string]int, len(locations))
	for _, task := range open {
		openByZone[task.Destination()]++
	}
	inboundByZone := make(map[string]int, len(locations))
	for _, order := range inbound {
		inboundByZone[order.DestinationID()]++
	}

	cards := make([]*DashboardLocationDTO, 0, len(locations))
	for _, location := range locations {
		card, err := h.zoneCard(ctx, location, openByZone[location.ID()], inboundByZone[location.ID()])
		if err != nil {
			return nil, err
		}
		cards = append(cards, card)
	}

	return &GetDashboardResponse{
		Locations:       cards,
		OpenTasks:       len(open),
		InTransitOrders: len(inbound),
		OnShiftStaff:    len(onShift),
	}, nil
}

func (h *GetDashboardHandler) zoneCard(ctx context.Context, location *layout.Location, openTasks, inboundOrders int) (*DashboardLocationDTO, error) {
	rows, err := h.snapshots.FindByLocation(ctx, location.ID())
	if err != nil {
		return nil, err
	}
	totalQty := 0
	onHand := make(map[snapshot.Key]int, len(rows))
	for _, row := range rows {
		totalQty += row.Qty()
		onHand[row.Key()] = row.Qty()
	}

	zoneRules, err := h.registry.FindByLocation(ctx, location.ID())
	if err != nil {
		return nil, err
	}
	lowStock := 0
	for _, rule := range zoneRules {
		key := snapshot.Key{LocationID: rule.LocationID(), SKUID: rule.SKUID(), Source: rule.Source()}
		if onHand[key] < rule.Min() {
			lowStock++
		}
	}

	return &DashboardLocationDTO{
		ID:              location.ID(),
		Name:            location.Name(),
		Colour:          location.Colour(),
		IsSales:         location.IsSales(),
		SKUs:            len(rows),
		TotalQty:        totalQty,
		LowStockRules:   lowStock,
		OpenTasks:       openTasks,
		InTransitOrders: inboundOrders,
	}, nil
}
