package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	cartCommands "github.com/andrescamacho/floorsense-go/internal/application/carts/commands"
	"github.com/andrescamacho/floorsense-go/internal/application/common"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
	"github.com/andrescamacho/floorsense-go/internal/domain/snapshot"
)

func (sc *storeContext) customerAddsFromTheSalesFloor(customerID string, qty int, skuID string) error {
	response, err := send[*cartCommands.AddCustomerItemResponse](sc, &cartCommands.AddCustomerItemCommand{
		CustomerID: customerID,
		LocationID: "zone-floor",
		SKUID:      skuID,
		Qty:        qty,
		Timestamp:  sc.nextAt(),
	})
	if err != nil {
		return err
	}
	sc.addStatus = response.Status
	return nil
}

func (sc *storeContext) theAddIsRejectedForInsufficientInventory() error {
	if sc.addStatus != common.StatusInsufficientInventory {
		return fmt.Errorf("add returned %s, expected %s", sc.addStatus, common.StatusInsufficientInventory)
	}
	return nil
}

func (sc *storeContext) theCartHolds(customerID string, qty int, skuID string) error {
	if err := sc.ensure(); err != nil {
		return err
	}
	items, err := sc.engine.Baskets.FindInCartByCustomer(context.Background(), customerID)
	if err != nil {
		return err
	}
	held := 0
	for _, item := range items {
		if item.SKUID() == skuID {
			held += item.Qty()
		}
	}
	if held != qty {
		return fmt.Errorf("cart holds %d units of %s, expected %d", held, skuID, qty)
	}
	return nil
}

func (sc *storeContext) customerChecksOut(customerID string) error {
	response, err := send[*cartCommands.CheckoutCustomerResponse](sc, &cartCommands.CheckoutCustomerCommand{
		CustomerID: customerID,
		Timestamp:  sc.nextAt(),
	})
	if err != nil {
		return err
	}
	sc.checkout = response
	sc.checkoutStatus = response.Status
	return nil
}

func (sc *storeContext) cartLinesAreSold(lines int) error {
	if sc.checkoutStatus != common.StatusAccepted {
		return fmt.Errorf("checkout returned %s", sc.checkoutStatus)
	}
	if sc.checkout.ItemsSold != lines {
		return fmt.Errorf("checkout sold %d lines, expected %d", sc.checkout.ItemsSold, lines)
	}
	return nil
}

func (sc *storeContext) theCartIsEmpty(customerID string) error {
	if err := sc.ensure(); err != nil {
		return err
	}
	items, err := sc.engine.Baskets.FindInCartByCustomer(context.Background(), customerID)
	if err != nil {
		return err
	}
	if len(items) != 0 {
		return fmt.Errorf("cart still holds %d lines", len(items))
	}
	return nil
}

func (sc *storeContext) theCheckoutIsRejectedAsAnEmptyCart() error {
	if sc.checkoutStatus != common.StatusCartEmpty {
		return fmt.Errorf("checkout returned %s, expected %s", sc.checkoutStatus, common.StatusCartEmpty)
	}
	return nil
}

// theCashierStorageHolds reads the staging row checkout writes for
// personalisable SKUs. The zone is outside recompute, so the row is exactly
// what checkout staged.
func (sc *storeContext) theCashierStorageHolds(qty int, skuID string) error {
	if err := sc.ensure(); err != nil {
		return err
	}
	ctx := context.Background()
	sku, err := sc.engine.SKUs.FindByID(ctx, skuID)
	if err != nil {
		return err
	}
	row, ok, err := sc.engine.Snapshots.Find(ctx, snapshot.Key{
		LocationID: shared.ZoneCashierStorage,
		SKUID:      skuID,
		Source:     sku.Source(),
	})
	if err != nil {
		return err
	}
	held := 0
	if ok {
		held = row.Qty()
	}
	if held != qty {
		return fmt.Errorf("cashier storage holds %d units of %s, expected %d", held, skuID, qty)
	}
	return nil
}

func (sc *storeContext) aReplacementTaskTargetsThePrintingWall(skuID string) error {
	if err := sc.ensure(); err != nil {
		return err
	}
	open, err := sc.engine.Tasks.FindOpen(context.Background())
	if err != nil {
		return err
	}
	if len(open) != 1 {
		return fmt.Errorf("%d tasks are open, expected exactly one", len(open))
	}
	task := open[0]
	if !task.AdHoc() {
		return fmt.Errorf("open task came from the planner, expected an ad-hoc replacement")
	}
	if task.SKUID() != skuID {
		return fmt.Errorf("task is for %s, expected %s", task.SKUID(), skuID)
	}
	if task.Destination() != shared.ZonePrintingWall {
		return fmt.Errorf("task targets %s, expected the printing wall", task.Destination())
	}
	return nil
}

// InitializeCartScenario registers the customer cart steps.
func InitializeCartScenario(ctx *godog.ScenarioContext) {
	ctx.Step(`^customer "([^"]*)" adds (\d+) units? of "([^"]*)" from the sales floor$`, store.customerAddsFromTheSalesFloor)
	ctx.Step(`^the add is rejected for insufficient inventory$`, store.theAddIsRejectedForInsufficientInventory)
	ctx.Step(`^the cart of "([^"]*)" holds (\d+) units? of "([^"]*)"$`, store.theCartHolds)
	ctx.Step(`^customer "([^"]*)" checks out$`, store.customerChecksOut)
	ctx.Step(`^(\d+) cart lines? (?:is|are) sold$`, store.cartLinesAreSold)
	ctx.Step(`^the cart of "([^"]*)" is empty$`, store.theCartIsEmpty)
	ctx.Step(`^the checkout is rejected as an empty cart$`, store.theCheckoutIsRejectedAsAnEmptyCart)
	ctx.Step(`^the cashier storage holds (\d+) units? of "([^"]*)"$`, store.theCashierStorageHolds)
	ctx.Step(`^a replacement task for "([^"]*)" targets the printing wall$`, store.aReplacementTaskTargetsThePrintingWall)
}
