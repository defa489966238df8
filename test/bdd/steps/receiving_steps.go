package steps

import (
	"context"
	"fmt"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/floorsense-go/internal/application/common"
	layoutCommands "github.com/andrescamacho/floorsense-go/internal/application/layout/commands"
	receivingCommands "github.com/andrescamacho/floorsense-go/internal/application/receiving/commands"
	"github.com/andrescamacho/floorsense-go/internal/domain/receiving"
)

func (sc *storeContext) createOrder(qty int, skuID, sourceID, destination string) error {
	response, err := send[*receivingCommands.CreateReceivingOrderResponse](sc, &receivingCommands.CreateReceivingOrderCommand{
		SourceID:      sourceID,
		DestinationID: sc.zoneID(destination),
		SKUID:         skuID,
		RequestedQty:  qty,
	})
	if err != nil {
		return err
	}
	if response.Status != common.StatusAccepted {
		return fmt.Errorf("order create returned %s", response.Status)
	}
	sc.orderID = response.OrderID
	return nil
}

func (sc *storeContext) aReceivingOrderFromExternal(qty int, skuID, sourceID, destination string) error {
	return sc.createOrder(qty, skuID, sourceID, destination)
}

func (sc *storeContext) aReceivingOrderFromZone(qty int, skuID, source, destination string) error {
	return sc.createOrder(qty, skuID, sc.zoneID(source), destination)
}

func (sc *storeContext) theOrderIsConfirmed() error {
	response, err := send[*receivingCommands.ConfirmReceivingOrderResponse](sc, &receivingCommands.ConfirmReceivingOrderCommand{
		OrderID: sc.orderID,
	})
	if err != nil {
		return err
	}
	sc.confirmStatus = response.Status
	sc.movedQty = response.MovedQty
	return nil
}

func (sc *storeContext) theOrderReportsUnitsMoved(qty int) error {
	if sc.confirmStatus != common.StatusConfirmed {
		return fmt.Errorf("confirm returned %s, expected %s", sc.confirmStatus, common.StatusConfirmed)
	}
	if sc.movedQty != qty {
		return fmt.Errorf("order moved %d units, expected %d", sc.movedQty, qty)
	}
	return nil
}

func (sc *storeContext) theExternalSourceIsRemoved(externalID string) error {
	response, err := send[*layoutCommands.RemoveExternalLocationResponse](sc, &layoutCommands.RemoveExternalLocationCommand{
		ID: externalID,
	})
	if err != nil {
		return err
	}
	if response.Status != common.StatusAccepted {
		return fmt.Errorf("external removal returned %s", response.Status)
	}
	return nil
}

func (sc *storeContext) theOrderIsCancelled() error {
	if err := sc.ensure(); err != nil {
		return err
	}
	order, err := sc.engine.Orders.FindByID(context.Background(), sc.orderID)
	if err != nil {
		return err
	}
	if order.Status() != receiving.OrderStatusCancelled {
		return fmt.Errorf("order is %s, expected %s", order.Status(), receiving.OrderStatusCancelled)
	}
	return nil
}

func (sc *storeContext) theConfirmationIsRejectedAsNotOpen() error {
	if sc.confirmStatus != common.StatusOrderNotOpen {
		return fmt.Errorf("confirm returned %s, expected %s", sc.confirmStatus, common.StatusOrderNotOpen)
	}
	return nil
}

// InitializeReceivingScenario registers the receiving order steps.
func InitializeReceivingScenario(ctx *godog.ScenarioContext) {
	ctx.Step(`^a receiving order of (\d+) units of "([^"]*)" from "([^"]*)" to the (backroom|sales floor)$`, store.aReceivingOrderFromExternal)
	ctx.Step(`^a receiving order of (\d+) units of "([^"]*)" from the (backroom|sales floor) to the (backroom|sales floor)$`, store.aReceivingOrderFromZone)
	ctx.Step(`^the order is confirmed$`, store.theOrderIsConfirmed)
	ctx.Step(`^the order is confirmed again$`, store.theOrderIsConfirmed)
	ctx.Step(`^the order reports (\d+) units moved$`, store.theOrderReportsUnitsMoved)
	ctx.Step(`^the external source "([^"]*)" is removed$`, store.theExternalSourceIsRemoved)
	ctx.Step(`^the order is cancelled$`, store.theOrderIsCancelled)
	ctx.Step(`^the confirmation is rejected as not open$`, store.theConfirmationIsRejectedAsNotOpen)
}
