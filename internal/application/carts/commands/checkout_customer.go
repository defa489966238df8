package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	cartservices "github.com/andrescamacho/floorsense-go/internal/application/carts/services"
	"github.com/andrescamacho/floorsense-go/internal/application/common"
	invservices "github.com/andrescamacho/floorsense-go/internal/application/inventory/services"
	"github.com/andrescamacho/floorsense-go/internal/domain/audit"
	"github.com/andrescamacho/floorsense-go/internal/domain/cart"
	"github.com/andrescamacho/floorsense-go/internal/domain/catalog"
	"github.com/andrescamacho/floorsense-go/internal/domain/layout"
	"github.com/andrescamacho/floorsense-go/internal/domain/ledger"
	"github.com/andrescamacho/floorsense-go/internal/domain/replenishment"
	"github.com/andrescamacho/floorsense-go/internal/domain/rules"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
	"github.com/andrescamacho/floorsense-go/internal/domain/snapshot"
)

// CheckoutCustomerCommand sells every IN_CART item of a customer.
type CheckoutCustomerCommand struct {
	CustomerID string
	Timestamp  time.Time
}

// CheckoutCustomerResponse reports the outcome.
type CheckoutCustomerResponse struct {
	common.Result
	ItemsSold        int `json:"itemsSold"`
	ReplacementTasks int `json:"replacementTasks"`
}

// CheckoutCustomerHandler closes a cart. Personalisable SKUs route their
// physical units through the cashier staging zone and raise an ad-hoc
// replacement task, targeting the origin while it can still realise stock
// and the printing wall once it cannot. Everything else sells in place: a
// SALE ledger entry for NON_RFID, the immediate-deduction path for RFID
// units the picks never caught.
type CheckoutCustomerHandler struct {
	items        cart.ItemRepository
	picks        cart.PickRepository
	skus         catalog.SKURepository
	locations    layout.LocationRepository
	snapshots    snapshot.Repository
	ledger       ledger.Repository
	registry     rules.RuleRepository
	tasks        replenishment.TaskRepository
	resolver     *cartservices.PickResolver
	availability *invservices.Availability
	recomputer   *invservices.Recomputer
	assigner     invservices.Assigner
	trail        audit.Trail
	cursor       *shared.Cursor
}

// NewCheckoutCustomerHandler creates the handler.
func NewCheckoutCustomerHandler(
	items cart.ItemRepository,
	picks cart.PickRepository,
	skus catalog.SKURepository,
	locations layout.LocationRepository,
	snapshots snapshot.Repository,
	ledgerRepo ledger.Repository,
	registry rules.RuleRepository,
	tasks replenishment.TaskRepository,
	resolver *cartservices.PickResolver,
	availability *invservices.Availability,
	recomputer *invservices.Recomputer,
	assigner invservices.Assigner,
	trail audit.Trail,
	cursor *shared.Cursor,
) *CheckoutCustomerHandler {
	return &CheckoutCustomerHandler{
		items:        items,
		picks:        picks,
		skus:         skus,
		locations:    locations,
		snapshots:    snapshots,
		ledger:       ledgerRepo,
		registry:     registry,
		tasks:        tasks,
		resolver:     resolver,
		availability: availability,
		recomputer:   recomputer,
		assigner:     assigner,
		trail:        trail,
		cursor:       cursor,
	}
}

// Handle executes the checkout.
func (h *CheckoutCustomerHandler) Handle(ctx context.Context, request common.Request) (common.Response, error) {
	cmd, ok := request.(*CheckoutCustomerCommand)
	if !ok {
		return nil, fmt.Errorf("invalid request type: expected *CheckoutCustomerCommand")
	}

	open, err := h.items.FindInCartByCustomer(ctx, cmd.CustomerID)
	if err != nil {
		return nil, err
	}
	if len(open) == 0 {
		return &CheckoutCustomerResponse{Result: common.Result{Status: common.StatusCartEmpty}}, nil
	}

	now := h.cursor.Advance(cmd.Timestamp)

	if err := h.trail.AppendFlow(ctx, audit.FlowEvent{
		At:       now,
		Kind:     audit.FlowCheckout,
		Status:   string(common.StatusAccepted),
		EntityID: cmd.CustomerID,
		Details:  fmt.Sprintf("items=%d", len(open)),
	}); err != nil {
		return nil, err
	}

	replacements := 0
	for _, stale := range open {
		created, err := h.sellItem(ctx, stale, now)
		if err != nil {
			return nil, err
		}
		if created {
			replacements++
		}
	}
	if replacements > 0 {
		if err := h.assigner.AssignPending(ctx); err != nil {
			return nil, err
		}
	}

	return &CheckoutCustomerResponse{
		Result:           common.Result{Status: common.StatusAccepted},
		ItemsSold:        len(open),
		ReplacementTasks: replacements,
	}, nil
}

// sellItem closes one basket item, reporting whether a replacement task was
// raised. The pending picks for the item's key are resolved once more first,
// so tags standing at the till count as picked rather than as shrinkage.
func (h *CheckoutCustomerHandler) sellItem(ctx context.Context, stale *cart.Item, now time.Time) (bool, error) {
	if _, err := h.resolver.ResolveAt(ctx, stale.LocationID(), stale.SKUID()); err != nil {
		return false, err
	}
	// Re-read: the resolver just updated picked counts.
	item, err := h.items.FindByID(ctx, stale.ID())
	if err != nil {
		return false, err
	}
	sku, err := h.skus.FindByID(ctx, item.SKUID())
	if err != nil {
		return false, err
	}

	if sku.Personalisable() {
		return true, h.sellPersonalisable(ctx, item, now)
	}
	return false, h.sellPlain(ctx, item, now)
}

// sellPlain sells an item in place.
func (h *CheckoutCustomerHandler) sellPlain(ctx context.Context, item *cart.Item, now time.Time) error {
	if item.Source() == shared.SourceRFID {
		if remainder := item.Qty() - item.PickedConfirmedQty(); remainder > 0 {
			if err := h.recomputer.DeductImmediately(ctx, item.LocationID(), item.SKUID(), remainder); err != nil {
				return err
			}
		}
	} else {
		if err := h.recordSale(ctx, item, now); err != nil {
			return err
		}
	}
	if err := h.closeItem(ctx, item, now); err != nil {
		return err
	}
	return h.recomputer.RecomputeLocation(ctx, item.LocationID())
}

// sellPersonalisable stages the item's physical units at the cashier zone
// and raises the replacement task. The origin is recomputed before the
// destination decision so projected supply sees the post-sale state.
func (h *CheckoutCustomerHandler) sellPersonalisable(ctx context.Context, item *cart.Item, now time.Time) error {
	staged := item.Qty()
	if item.Source() == shared.SourceRFID {
		staged = item.PickedConfirmedQty()
		if remainder := item.Qty() - staged; remainder > 0 {
			if err := h.recomputer.DeductImmediately(ctx, item.LocationID(), item.SKUID(), remainder); err != nil {
				return err
			}
		}
	} else {
		if err := h.recordSale(ctx, item, now); err != nil {
			return err
		}
	}
	if staged > 0 {
		if err := h.stageAtCashier(ctx, item.SKUID(), item.Source(), staged, now); err != nil {
			return err
		}
	}
	if err := h.closeItem(ctx, item, now); err != nil {
		return err
	}
	if err := h.recomputer.RecomputeLocation(ctx, item.LocationID()); err != nil {
		return err
	}
	return h.createReplacementTask(ctx, item, now)
}

// recordSale debits a NON_RFID item's origin through the movement ledger.
func (h *CheckoutCustomerHandler) recordSale(ctx context.Context, item *cart.Item, now time.Time) error {
	entry, err := ledger.NewEntry(item.LocationID(), item.SKUID(), item.Qty(), ledger.EntryKindSale, now)
	if err != nil {
		return err
	}
	_, err = h.ledger.Append(ctx, entry)
	return err
}

// stageAtCashier adds units to the cashier staging row. The cashier zone is
// outside recompute, so the direct write is the row's source of truth.
func (h *CheckoutCustomerHandler) stageAtCashier(ctx context.Context, skuID string, source shared.Source, qty int, now time.Time) error {
	key := snapshot.Key{LocationID: shared.ZoneCashierStorage, SKUID: skuID, Source: source}
	current := 0
	if row, ok, err := h.snapshots.Find(ctx, key); err != nil {
		return err
	} else if ok {
		current = row.Qty()
	}
	_, err := h.snapshots.Upsert(ctx, key, current+qty, nil, now)
	return err
}

// closeItem marks the item sold and closes its pick if one is still open.
func (h *CheckoutCustomerHandler) closeItem(ctx context.Context, item *cart.Item, now time.Time) error {
	if err := item.MarkSold(now); err != nil {
		return err
	}
	if err := h.items.Update(ctx, item); err != nil {
		return err
	}
	if item.Source() != shared.SourceRFID {
		return nil
	}
	pick, err := h.picks.FindByItem(ctx, item.ID())
	if err != nil {
		var notFound *cart.ErrItemNotFound
		if errors.As(err, &notFound) {
			return nil
		}
		return err
	}
	pick.ForceComplete(now)
	return h.picks.Update(ctx, pick)
}

// createReplacementTask raises the ad-hoc task that restocks what the
// customer just took to printing. While the origin's projected supply stays
// positive the task targets the origin; once the network cannot reach it the
// printing wall takes over as destination.
func (h *CheckoutCustomerHandler) createReplacementTask(ctx context.Context, item *cart.Item, now time.Time) error {
	destination, err := h.locations.FindByID(ctx, item.LocationID())
	if err != nil {
		return err
	}
	supply, err := h.availability.ProjectedSupply(ctx, destination, item.SKUID(), item.Source())
	if err != nil {
		return err
	}
	if supply <= 0 {
		destination, err = h.locations.FindByID(ctx, shared.ZonePrintingWall)
		if err != nil {
			return err
		}
	}

	current, err := h.availability.OnHand(ctx, destination.ID(), item.SKUID(), item.Source())
	if err != nil {
		return err
	}
	ruleID := shared.RuleID(destination.ID(), item.SKUID(), item.Source())
	target := current + item.Qty()
	if rule, err := h.registry.Find(ctx, destination.ID(), item.SKUID(), item.Source()); err == nil {
		ruleID = rule.ID()
		target = rule.Max()
	} else {
		var notFound *rules.ErrRuleNotFound
		if !errors.As(err, &notFound) {
			return err
		}
	}

	candidates, err := h.availability.Candidates(ctx, destination, item.SKUID(), item.Source(), "")
	if err != nil {
		return err
	}
	sourceZone := ""
	for _, candidate := range candidates {
		if candidate.AvailableQty > 0 {
			sourceZone = candidate.ZoneID
			break
		}
	}
	if sourceZone == "" && len(candidates) > 0 {
		sourceZone = candidates[0].ZoneID
	}

	task := replenishment.NewAdHocTask(ruleID, destination.ID(), item.SKUID(), item.Source(),
		current, item.Qty(), target, candidates, sourceZone, now)
	if err := h.tasks.Create(ctx, task); err != nil {
		return err
	}
	details := fmt.Sprintf("replacement deficit=%d target=%d source=%s", item.Qty(), target, sourceZone)
	if err := h.trail.AppendEntry(ctx, audit.NewEntry(task.ID(), audit.ActionCreated, invservices.SystemActor, details, now)); err != nil {
		return err
	}
	return h.trail.AppendFlow(ctx, audit.FlowEvent{
		At:         now,
		Kind:       audit.FlowTaskCreated,
		Status:     string(task.Status()),
		EntityID:   task.ID(),
		LocationID: task.Destination(),
		SKUID:      task.SKUID(),
		Details:    details,
	})
}
