package steps

import (
	"fmt"
	"time"

	"github.com/cucumber/godog"

	"github.com/andrescamacho/floorsense-go/internal/application/common"
	ingestCommands "github.com/andrescamacho/floorsense-go/internal/application/ingest/commands"
	"github.com/andrescamacho/floorsense-go/internal/domain/ledger"
	"github.com/andrescamacho/floorsense-go/test/helpers"
)

func (sc *storeContext) theSalesFloorAntennaReadsAtSecond(epc string, second int) error {
	response, err := send[*ingestCommands.IngestRFIDReadResponse](sc, &ingestCommands.IngestRFIDReadCommand{
		EPC:       epc,
		AntennaID: "ant-floor-1",
		Timestamp: helpers.At(time.Duration(second) * time.Second),
	})
	if err != nil {
		return err
	}
	sc.readStatus = response.Status
	return nil
}

func (sc *storeContext) aSaleOrReturnIsRungUpAt(kind string, qty int, skuID, zone string) error {
	entryKind := ledger.EntryKindSale
	if kind == "return" {
		entryKind = ledger.EntryKindReturn
	}
	response, err := send[*ingestCommands.IngestSalesEventResponse](sc, &ingestCommands.IngestSalesEventCommand{
		SKUID:      skuID,
		LocationID: sc.zoneID(zone),
		EventType:  entryKind,
		Qty:        qty,
		Timestamp:  sc.nextAt(),
	})
	if err != nil {
		return err
	}
	if response.Status != common.StatusAccepted && response.Status != common.StatusAcceptedRFIDImmediate {
		return fmt.Errorf("%s returned %s", kind, response.Status)
	}
	return nil
}

func (sc *storeContext) aForcedSweepRefreshesTheSalesFloorAtSecond(second int) error {
	response, err := send[*ingestCommands.ForceZoneSweepResponse](sc, &ingestCommands.ForceZoneSweepCommand{
		LocationID: "zone-floor",
		Timestamp:  helpers.At(time.Duration(second) * time.Second),
	})
	if err != nil {
		return err
	}
	if response.Status != common.StatusAccepted {
		return fmt.Errorf("sweep returned %s", response.Status)
	}
	return nil
}

func (sc *storeContext) theReadIsAccepted() error {
	if sc.readStatus != common.StatusAccepted {
		return fmt.Errorf("read returned %s, expected %s", sc.readStatus, common.StatusAccepted)
	}
	return nil
}

func (sc *storeContext) theReadIsIgnoredAsADuplicate() error {
	if sc.readStatus != common.StatusDuplicateIgnored {
		return fmt.Errorf("read returned %s, expected %s", sc.readStatus, common.StatusDuplicateIgnored)
	}
	return nil
}

func (sc *storeContext) theReadIsRejectedAsAnUnknownEPC() error {
	if sc.readStatus != common.StatusUnknownEPC {
		return fmt.Errorf("read returned %s, expected %s", sc.readStatus, common.StatusUnknownEPC)
	}
	return nil
}

// InitializeIngestScenario registers the antenna read, sales event and
// sweep steps.
func InitializeIngestScenario(ctx *godog.ScenarioContext) {
	ctx.Step(`^the sales floor antenna reads "([^"]*)" at second (\d+)$`, store.theSalesFloorAntennaReadsAtSecond)
	ctx.Step(`^a (sale|return) of (\d+) units? of "([^"]*)" is rung up at the (backroom|sales floor)$`, store.aSaleOrReturnIsRungUpAt)
	ctx.Step(`^a forced sweep refreshes the sales floor at second (\d+)$`, store.aForcedSweepRefreshesTheSalesFloorAtSecond)
	ctx.Step(`^the read is accepted$`, store.theReadIsAccepted)
	ctx.Step(`^the read is ignored as a duplicate$`, store.theReadIsIgnoredAsADuplicate)
	ctx.Step(`^the read is rejected as an unknown EPC$`, store.theReadIsRejectedAsAnUnknownEPC)
}
