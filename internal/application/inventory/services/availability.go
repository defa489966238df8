package services

import (
	"context"

	"github.com/andrescamacho/floorsense-go/internal/domain/cart"
	"github.com/andrescamacho/floorsense-go/internal/domain/layout"
	"github.com/andrescamacho/floorsense-go/internal/domain/receiving"
	"github.com/andrescamacho/floorsense-go/internal/domain/replenishment"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
	"github.com/andrescamacho/floorsense-go/internal/domain/snapshot"
)

// Availability answers the planner's and the cart's stock questions from the
// snapshot table, discounted by what open tasks and open carts already
// claim. External sources never have snapshots, so their available quantity
// is always zero.
type Availability struct {
	snapshots snapshot.Repository
	tasks     replenishment.TaskRepository
	orders    receiving.OrderRepository
	items     cart.ItemRepository
}

// NewAvailability creates the stock calculator.
func NewAvailability(
	snapshots snapshot.Repository,
	tasks replenishment.TaskRepository,
	orders receiving.OrderRepository,
	items cart.ItemRepository,
) *Availability {
	return &Availability{
		snapshots: snapshots,
		tasks:     tasks,
		orders:    orders,
		items:     items,
	}
}

// OnHand returns the published snapshot quantity for a key, zero when no
// row exists.
func (a *Availability) OnHand(ctx context.Context, locationID, skuID string, source shared.Source) (int, error) {
	row, ok, err := a.snapshots.Find(ctx, snapshot.Key{LocationID: locationID, SKUID: skuID, Source: source})
	if err != nil {
		return 0, err
	}
	if !ok {
		return 0, nil
	}
	return row.Qty(), nil
}

// CartReserved sums what open basket items currently hold back from a
// (location, SKU) key.
func (a *Availability) CartReserved(ctx context.Context, locationID, skuID string) (int, error) {
	items, err := a.items.FindInCartByLocation(ctx, locationID)
	if err != nil {
		return 0, err
	}
	reserved := 0
	for _, item := range items {
		if item.SKUID() == skuID {
			reserved += item.ReservedQty()
		}
	}
	return reserved, nil
}

// Orderable returns what a customer may still put in a cart: on-hand minus
// cart reservations, never negative.
func (a *Availability) Orderable(ctx context.Context, locationID, skuID string, source shared.Source) (int, error) {
	onHand, err := a.OnHand(ctx, locationID, skuID, source)
	if err != nil {
		return 0, err
	}
	reserved, err := a.CartReserved(ctx, locationID, skuID)
	if err != nil {
		return 0, err
	}
	if available := onHand - reserved; available > 0 {
		return available, nil
	}
	return 0, nil
}

// SourceAvailable returns the stock a source can still give away for a SKU:
// its snapshot quantity minus the deficits other open tasks already reserve
// from it. excludeTaskID leaves one task's own reservation out, so a task
// re-scoring its candidates does not compete with itself.
func (a *Availability) SourceAvailable(ctx context.Context, sourceID, skuID string, source shared.Source, excludeTaskID string) (int, error) {
	onHand, err := a.OnHand(ctx, sourceID, skuID, source)
	if err != nil {
		return 0, err
	}
	if onHand == 0 {
		return 0, nil
	}
	reserved, err := a.reservedFrom(ctx, sourceID, skuID, excludeTaskID)
	if err != nil {
		return 0, err
	}
	if available := onHand - reserved; available > 0 {
		return available, nil
	}
	return 0, nil
}

// Candidates scores the destination's configured source list in order.
func (a *Availability) Candidates(ctx context.Context, destination *layout.Location, skuID string, source shared.Source, excludeTaskID string) ([]replenishment.SourceCandidate, error) {
	sources := destination.Sources()
	out := make([]replenishment.SourceCandidate, 0, len(sources))
	for i, sourceID := range sources {
		available, err := a.SourceAvailable(ctx, sourceID, skuID, source, excludeTaskID)
		if err != nil {
			return nil, err
		}
		out = append(out, replenishment.SourceCandidate{
			ZoneID:       sourceID,
			SortOrder:    i,
			AvailableQty: available,
		})
	}
	return out, nil
}

// ProjectedSupply estimates how much stock a location can still realise for
// a SKU: on-hand, plus open inbound tasks and orders, plus whatever its
// configured sources could still give. The personalisation flow uses it to
// decide whether a replacement task targets the origin or the printing wall.
func (a *Availability) ProjectedSupply(ctx context.Context, destination *layout.Location, skuID string, source shared.Source) (int, error) {
	supply, err := a.OnHand(ctx, destination.ID(), skuID, source)
	if err != nil {
		return 0, err
	}

	open, err := a.tasks.FindOpen(ctx)
	if err != nil {
		return 0, err
	}
	for _, task := range open {
		if task.Destination() == destination.ID() && task.SKUID() == skuID && task.Source() == source {
			supply += task.DeficitQty()
		}
	}

	inbound, err := a.orders.FindInTransitFor(ctx, destination.ID(), skuID, source)
	if err != nil {
		return 0, err
	}
	for _, order := range inbound {
		supply += order.RequestedQty()
	}

	for _, sourceID := range destination.Sources() {
		available, err := a.SourceAvailable(ctx, sourceID, skuID, source, "")
		if err != nil {
			return 0, err
		}
		supply += available
	}
	return supply, nil
}

// reservedFrom sums the deficits open tasks hold against a source for one
// SKU, across every destination.
func (a *Availability) reservedFrom(ctx context.Context, sourceID, skuID, excludeTaskID string) (int, error) {
	open, err := a.tasks.FindOpen(ctx)
	if err != nil {
		return 0, err
	}
	reserved := 0
	for _, task := range open {
		if task.ID() == excludeTaskID {
			continue
		}
		if task.SKUID() == skuID && task.SourceZoneID() == sourceID {
			reserved += task.DeficitQty()
		}
	}
	return reserved, nil
}
