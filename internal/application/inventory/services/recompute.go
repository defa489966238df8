package services

import (
	"context"
	"errors"
	"sort"

	"github.com/andrescamacho/floorsense-go/internal/domain/catalog"
	"github.com/andrescamacho/floorsense-go/internal/domain/layout"
	"github.com/andrescamacho/floorsense-go/internal/domain/ledger"
	"github.com/andrescamacho/floorsense-go/internal/domain/presence"
	"github.com/andrescamacho/floorsense-go/internal/domain/rules"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
	"github.com/andrescamacho/floorsense-go/internal/domain/snapshot"
)

// Recomputer rebuilds a location's published snapshots from first
// principles and then re-evaluates its min/max rules. RFID rows re-count
// live presence records against the TTL; NON_RFID rows re-fold the ledger.
// Unregistered ids (the implicit cashier staging zone, external sources,
// just-deleted zones) recompute as a no-op.
type Recomputer struct {
	presence  presence.Repository
	ledger    ledger.Repository
	snapshots snapshot.Repository
	rules     rules.RuleRepository
	skus      catalog.SKURepository
	locations layout.LocationRepository
	planner   *Planner
	cursor    *shared.Cursor
	params    shared.Params
}

// NewRecomputer creates the recompute service.
func NewRecomputer(
	presenceRepo presence.Repository,
	ledgerRepo ledger.Repository,
	snapshots snapshot.Repository,
	ruleRepo rules.RuleRepository,
	skus catalog.SKURepository,
	locations layout.LocationRepository,
	planner *Planner,
	cursor *shared.Cursor,
	params shared.Params,
) *Recomputer {
	return &Recomputer{
		presence:  presenceRepo,
		ledger:    ledgerRepo,
		snapshots: snapshots,
		rules:     ruleRepo,
		skus:      skus,
		locations: locations,
		planner:   planner,
		cursor:    cursor,
		params:    params,
	}
}

// RecomputeLocation runs the three passes for one location: RFID counts,
// NON_RFID ledger folds, rule evaluation.
func (r *Recomputer) RecomputeLocation(ctx context.Context, locationID string) error {
	if locationID == shared.ZoneCashierStorage || shared.IsExternalLocationID(locationID) {
		return nil
	}
	location, err := r.locations.FindByID(ctx, locationID)
	if err != nil {
		var notFound *layout.ErrLocationNotFound
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	if err := r.recountRFID(ctx, location); err != nil {
		return err
	}
	if err := r.refoldNonRFID(ctx, location); err != nil {
		return err
	}
	return r.planner.EvaluateLocation(ctx, location)
}

// RecomputeMany recomputes each distinct location once, in the order given.
func (r *Recomputer) RecomputeMany(ctx context.Context, locationIDs ...string) error {
	seen := make(map[string]struct{}, len(locationIDs))
	for _, id := range locationIDs {
		if id == "" {
			continue
		}
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		if err := r.RecomputeLocation(ctx, id); err != nil {
			return err
		}
	}
	return nil
}

// RecomputeAll recomputes every registered location; the dataset loader runs
// it once after seeding.
func (r *Recomputer) RecomputeAll(ctx context.Context) error {
	locations, err := r.locations.FindAll(ctx)
	if err != nil {
		return err
	}
	for _, location := range locations {
		if err := r.RecomputeLocation(ctx, location.ID()); err != nil {
			return err
		}
	}
	return nil
}

// DeductImmediately applies the point-of-sale RFID path: delete up to qty
// oldest-seen EPCs of the SKU in the location and, when the surviving live
// count still exceeds the deducted target, pin a 0.55-confidence floor
// snapshot that recompute preserves until reads confirm. The caller
// recomputes the location afterwards.
func (r *Recomputer) DeductImmediately(ctx context.Context, locationID, skuID string, qty int) error {
	if qty <= 0 {
		return nil
	}
	now := r.cursor.Value()
	records, err := r.presence.FindBySKUAndLocation(ctx, skuID, locationID)
	if err != nil {
		return err
	}
	live := 0
	for _, record := range records {
		if record.PresentAt(now, r.params.PresenceTTL) {
			live++
		}
	}

	key := snapshot.Key{LocationID: locationID, SKUID: skuID, Source: shared.SourceRFID}
	previous := live
	if row, ok, err := r.snapshots.Find(ctx, key); err != nil {
		return err
	} else if ok {
		previous = row.Qty()
	}
	floor := previous - qty
	if floor < 0 {
		floor = 0
	}

	for i, record := range records {
		if i == qty {
			break
		}
		if _, err := r.presence.Remove(ctx, record.EPC); err != nil {
			return err
		}
		if record.PresentAt(now, r.params.PresenceTTL) {
			live--
		}
	}

	if live > floor {
		conf := snapshot.ConfidenceDeducted
		if _, err := r.snapshots.Upsert(ctx, key, floor, &conf, now); err != nil {
			return err
		}
	}
	return nil
}

// recountRFID rewrites the location's RFID rows. The SKU set is everything
// present, everything an active RFID rule tracks and everything already
// snapshotted; all three keep publishing even at quantity zero.
func (r *Recomputer) recountRFID(ctx context.Context, location *layout.Location) error {
	now := r.cursor.Value()
	records, err := r.presence.FindByLocation(ctx, location.ID())
	if err != nil {
		return err
	}
	counts := make(map[string]int)
	for _, record := range records {
		if record.PresentAt(now, r.params.PresenceTTL) {
			counts[record.SKUID]++
		}
	}

	tracked := make(map[string]struct{}, len(counts))
	for skuID := range counts {
		tracked[skuID] = struct{}{}
	}
	ruleSKUs, err := r.ruledSKUs(ctx, location.ID(), shared.SourceRFID)
	if err != nil {
		return err
	}
	for _, skuID := range ruleSKUs {
		tracked[skuID] = struct{}{}
	}
	rows, err := r.snapshots.FindByLocationAndSource(ctx, location.ID(), shared.SourceRFID)
	if err != nil {
		return err
	}
	for _, row := range rows {
		tracked[row.SKUID()] = struct{}{}
	}

	for _, skuID := range sortedKeys(tracked) {
		qty := counts[skuID]
		key := snapshot.Key{LocationID: location.ID(), SKUID: skuID, Source: shared.SourceRFID}

		if row, ok, err := r.snapshots.Find(ctx, key); err != nil {
			return err
		} else if ok && row.Deducted() && qty > row.Qty() {
			// reads have not yet confirmed the deduction: hold the floor
			conf := snapshot.ConfidenceDeducted
			if _, err := r.snapshots.Upsert(ctx, key, row.Qty(), &conf, now); err != nil {
				return err
			}
			continue
		}

		conf := snapshot.ConfidencePresent
		if qty == 0 {
			conf = snapshot.ConfidenceEmpty
		}
		if _, err := r.snapshots.Upsert(ctx, key, qty, &conf, now); err != nil {
			return err
		}
	}
	return nil
}

// refoldNonRFID rewrites the location's NON_RFID rows from the ledger. The
// SKU set is everything with an active NON_RFID rule, everything with ledger
// history (filtered to NON_RFID catalog entries) and everything already
// snapshotted.
func (r *Recomputer) refoldNonRFID(ctx context.Context, location *layout.Location) error {
	now := r.cursor.Value()
	tracked := make(map[string]struct{})

	ruleSKUs, err := r.ruledSKUs(ctx, location.ID(), shared.SourceNonRFID)
	if err != nil {
		return err
	}
	for _, skuID := range ruleSKUs {
		tracked[skuID] = struct{}{}
	}

	ledgerSKUs, err := r.ledger.SKUs(ctx, location.ID())
	if err != nil {
		return err
	}
	for _, skuID := range ledgerSKUs {
		entry, err := r.skus.FindByID(ctx, skuID)
		if err != nil {
			var notFound *catalog.ErrSKUNotFound
			if errors.As(err, &notFound) {
				continue
			}
			return err
		}
		if entry.Source() == shared.SourceNonRFID {
			tracked[skuID] = struct{}{}
		}
	}

	rows, err := r.snapshots.FindByLocationAndSource(ctx, location.ID(), shared.SourceNonRFID)
	if err != nil {
		return err
	}
	for _, row := range rows {
		tracked[row.SKUID()] = struct{}{}
	}

	for _, skuID := range sortedKeys(tracked) {
		qty, err := r.ledger.Quantity(ctx, location.ID(), skuID)
		if err != nil {
			return err
		}
		key := snapshot.Key{LocationID: location.ID(), SKUID: skuID, Source: shared.SourceNonRFID}
		if _, err := r.snapshots.Upsert(ctx, key, qty, nil, now); err != nil {
			return err
		}
	}
	return nil
}

func (r *Recomputer) ruledSKUs(ctx context.Context, locationID string, source shared.Source) ([]string, error) {
	locationRules, err := r.rules.FindByLocation(ctx, locationID)
	if err != nil {
		return nil, err
	}
	out := make([]string, 0, len(locationRules))
	for _, rule := range locationRules {
		if rule.Active() && rule.Source() == source {
			out = append(out, rule.SKUID())
		}
	}
	return out, nil
}

func sortedKeys(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
