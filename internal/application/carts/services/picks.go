package services

import (
	"context"

	"github.com/andrescamacho/floorsense-go/internal/domain/cart"
	"github.com/andrescamacho/floorsense-go/internal/domain/presence"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
)

// PickResolver reconciles pending RFID picks against live presence. It runs
// after every accepted read in a location with open picks, and once more at
// checkout. There is no suspended execution to resume: resolution is a plain
// scan of the (location, SKU) presence set, oldest tag first.
type PickResolver struct {
	picks    cart.PickRepository
	items    cart.ItemRepository
	presence presence.Repository
	cursor   *shared.Cursor
	params   shared.Params
}

// NewPickResolver creates the resolver.
func NewPickResolver(picks cart.PickRepository, items cart.ItemRepository, presenceRepo presence.Repository, cursor *shared.Cursor, params shared.Params) *PickResolver {
	return &PickResolver{
		picks:    picks,
		items:    items,
		presence: presenceRepo,
		cursor:   cursor,
		params:   params,
	}
}

// ResolveAt consumes present EPCs of the SKU at the location into its open
// picks, in pick create order. Consumed tags leave presence and count towards
// the basket item's pickedConfirmedQty. Returns how many tags were consumed.
func (r *PickResolver) ResolveAt(ctx context.Context, locationID, skuID string) (int, error) {
	open, err := r.picks.FindOpenByLocationAndSKU(ctx, locationID, skuID)
	if err != nil {
		return 0, err
	}
	if len(open) == 0 {
		return 0, nil
	}
	records, err := r.presence.FindBySKUAndLocation(ctx, skuID, locationID)
	if err != nil {
		return 0, err
	}

	now := r.cursor.Value()
	total := 0
	next := 0
	for _, pick := range open {
		taken := 0
		for pick.Open() && next < len(records) {
			record := records[next]
			next++
			if !record.PresentAt(now, r.params.PresenceTTL) {
				continue
			}
			if _, err := r.presence.Remove(ctx, record.EPC); err != nil {
				return total, err
			}
			pick.Consume(record.EPC, record.AntennaID, now)
			taken++
		}
		if taken == 0 {
			continue
		}
		if err := r.picks.Update(ctx, pick); err != nil {
			return total, err
		}
		item, err := r.items.FindByID(ctx, pick.BasketItemID())
		if err != nil {
			return total, err
		}
		item.AddPicked(taken)
		if err := r.items.Update(ctx, item); err != nil {
			return total, err
		}
		total += taken
	}
	return total, nil
}
