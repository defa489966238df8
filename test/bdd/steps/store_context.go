package steps

import (
	"context"
	"fmt"
	"math"
	"strconv"
	"time"

	"github.com/cucumber/godog"
	"github.com/cucumber/messages/go/v21"

	cartCommands "github.com/andrescamacho/floorsense-go/internal/application/carts/commands"
	"github.com/andrescamacho/floorsense-go/internal/application/common"
	"github.com/andrescamacho/floorsense-go/internal/application/mediator"
	"github.com/andrescamacho/floorsense-go/internal/application/setup"
	staffingCommands "github.com/andrescamacho/floorsense-go/internal/application/staffing/commands"
	"github.com/andrescamacho/floorsense-go/internal/domain/catalog"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
	"github.com/andrescamacho/floorsense-go/internal/domain/snapshot"
	"github.com/andrescamacho/floorsense-go/internal/domain/staff"
	"github.com/andrescamacho/floorsense-go/internal/infrastructure/dataset"
	"github.com/andrescamacho/floorsense-go/test/helpers"
)

// storeContext carries one engine per scenario plus the outcomes the Then
// steps assert on. The floor plan is collected by the Given steps and only
// applied when the first action needs a live engine, so stock levels can be
// declared after the layout.
type storeContext struct {
	pending *dataset.Store
	engine  *setup.Engine
	tick    int

	readStatus     common.Status
	addStatus      common.Status
	checkoutStatus common.Status
	checkout       *cartCommands.CheckoutCustomerResponse
	orderID        string
	confirmStatus  common.Status
	movedQty       int
}

// store is shared by every step file so features can mix ingest, cart and
// planning steps against the same engine.
var store = &storeContext{}

func (sc *storeContext) reset() {
	sc.pending = nil
	sc.engine = nil
	sc.tick = 0
	sc.readStatus = ""
	sc.addStatus = ""
	sc.checkoutStatus = ""
	sc.checkout = nil
	sc.orderID = ""
	sc.confirmStatus = ""
	sc.movedQty = 0
}

// ensure seeds and bootstraps the engine on the first action step.
func (sc *storeContext) ensure() error {
	if sc.engine != nil {
		return nil
	}
	engine, err := setup.NewEngine(helpers.EngineStart, shared.DefaultParams())
	if err != nil {
		return err
	}
	ctx := context.Background()
	if sc.pending != nil {
		if err := dataset.Apply(ctx, engine, sc.pending, helpers.EngineStart); err != nil {
			return err
		}
	}
	if err := engine.Bootstrap(ctx); err != nil {
		return err
	}
	sc.engine = engine
	return nil
}

// nextAt hands out strictly increasing timestamps for steps that do not
// name an explicit second.
func (sc *storeContext) nextAt() time.Time {
	sc.tick++
	return helpers.At(time.Duration(sc.tick) * time.Second)
}

// zoneID maps the feature wording to seeded zone ids.
func (sc *storeContext) zoneID(zone string) string {
	if zone == "backroom" {
		return "zone-backroom"
	}
	return "zone-floor"
}

// send dispatches a request on the scenario engine, seeding it first.
func send[T any](sc *storeContext, request mediator.Request) (T, error) {
	var zero T
	if err := sc.ensure(); err != nil {
		return zero, err
	}
	response, err := sc.engine.Mediator.Send(context.Background(), request)
	if err != nil {
		return zero, err
	}
	typed, ok := response.(T)
	if !ok {
		return zero, fmt.Errorf("response is %T, not the expected type", response)
	}
	return typed, nil
}

func (sc *storeContext) aStoreWithABackroomFeedingTheSalesFloor() error {
	sc.pending = &dataset.Store{
		Locations: []dataset.Location{
			{
				ID: "zone-floor", Name: "Sales Floor", IsSales: true,
				Sources:  []string{"zone-backroom"},
				Antennas: []string{"ant-floor-1"},
			},
			{
				ID: "zone-backroom", Name: "Backroom",
				Sources:  []string{"external-dc-north"},
				Antennas: []string{"ant-back-1"},
			},
		},
		Externals: []dataset.External{{ID: "external-dc-north", Label: "DC North"}},
		SKUs: []dataset.SKU{
			{ID: "sku-home-jsy", Title: "Home Jersey 25/26", Source: "RFID", Variant: catalog.Variant{Kit: "home", Role: "player"}},
			{ID: "sku-scarf", Title: "Supporter Scarf", Source: "NON_RFID", Variant: catalog.Variant{Quality: "fan"}},
		},
		Mappings: []dataset.Mapping{
			{EPC: "epc-2001", SKUID: "sku-home-jsy"},
			{EPC: "epc-2002", SKUID: "sku-home-jsy"},
		},
	}
	return nil
}

func (sc *storeContext) zoneStartsWith(zone string, qty int, skuID string) error {
	if sc.pending == nil {
		return fmt.Errorf("no store laid out yet")
	}
	sc.pending.Baselines = append(sc.pending.Baselines, dataset.Baseline{
		LocationID: sc.zoneID(zone),
		SKUID:      skuID,
		Qty:        qty,
	})
	return nil
}

// theShelvesStartStockedWith seeds several zones from one table with
// zone, sku and qty columns.
func (sc *storeContext) theShelvesStartStockedWith(table *godog.Table) error {
	if sc.pending == nil {
		return fmt.Errorf("no store laid out yet")
	}
	if len(table.Rows) < 2 {
		return fmt.Errorf("stock table needs a header and at least one row")
	}
	for _, row := range table.Rows[1:] {
		qty, err := strconv.Atoi(cellValue(table, row, "qty"))
		if err != nil {
			return fmt.Errorf("bad qty in stock table: %w", err)
		}
		sc.pending.Baselines = append(sc.pending.Baselines, dataset.Baseline{
			LocationID: sc.zoneID(cellValue(table, row, "zone")),
			SKUID:      cellValue(table, row, "sku"),
			Qty:        qty,
		})
	}
	return nil
}

// cellValue looks a cell up by header name.
func cellValue(table *godog.Table, row *messages.PickleTableRow, column string) string {
	for i, header := range table.Rows[0].Cells {
		if header.Value == column && i < len(row.Cells) {
			return row.Cells[i].Value
		}
	}
	return ""
}

func (sc *storeContext) anAssociateIsOnShift(memberID string) error {
	response, err := send[*staffingCommands.UpsertStaffResponse](sc, &staffingCommands.UpsertStaffCommand{
		ID:      memberID,
		Name:    memberID,
		Role:    "ASSOCIATE",
		OnShift: true,
		Scope:   staff.Scope{All: true},
	})
	if err != nil {
		return err
	}
	if response.Status != common.StatusAccepted {
		return fmt.Errorf("staff upsert returned %s", response.Status)
	}
	return nil
}

// snapshotQty reads the published row for the SKU's native source.
func (sc *storeContext) snapshotQty(zone, skuID string) (int, *float64, error) {
	if err := sc.ensure(); err != nil {
		return 0, nil, err
	}
	ctx := context.Background()
	sku, err := sc.engine.SKUs.FindByID(ctx, skuID)
	if err != nil {
		return 0, nil, err
	}
	row, ok, err := sc.engine.Snapshots.Find(ctx, snapshot.Key{
		LocationID: sc.zoneID(zone),
		SKUID:      skuID,
		Source:     sku.Source(),
	})
	if err != nil {
		return 0, nil, err
	}
	if !ok {
		return 0, nil, nil
	}
	var conf *float64
	if c := row.Confidence(); c != nil {
		f := c.InexactFloat64()
		conf = &f
	}
	return row.Qty(), conf, nil
}

func (sc *storeContext) zoneNowHolds(zone string, qty int, skuID string) error {
	got, _, err := sc.snapshotQty(zone, skuID)
	if err != nil {
		return err
	}
	if got != qty {
		return fmt.Errorf("%s holds %d units of %s, expected %d", zone, got, skuID, qty)
	}
	return nil
}

func (sc *storeContext) snapshotShows(zone string, qty int, skuID string) error {
	return sc.zoneNowHolds(zone, qty, skuID)
}

func (sc *storeContext) snapshotShowsAtConfidence(zone string, qty int, skuID string, confidence float64) error {
	got, conf, err := sc.snapshotQty(zone, skuID)
	if err != nil {
		return err
	}
	if got != qty {
		return fmt.Errorf("%s holds %d units of %s, expected %d", zone, got, skuID, qty)
	}
	if conf == nil {
		return fmt.Errorf("snapshot for %s carries no confidence", skuID)
	}
	if math.Abs(*conf-confidence) > 1e-9 {
		return fmt.Errorf("snapshot confidence is %v, expected %v", *conf, confidence)
	}
	return nil
}

func (sc *storeContext) noTasksAreOpen() error {
	return sc.tasksAreOpen(0)
}

func (sc *storeContext) tasksAreOpen(count int) error {
	if err := sc.ensure(); err != nil {
		return err
	}
	open, err := sc.engine.Tasks.FindOpen(context.Background())
	if err != nil {
		return err
	}
	if len(open) != count {
		return fmt.Errorf("%d tasks are open, expected %d", len(open), count)
	}
	return nil
}

// InitializeStoreScenario registers the scenario reset and the steps every
// feature shares: floor layout, starting stock, staff and snapshot checks.
func InitializeStoreScenario(ctx *godog.ScenarioContext) {
	ctx.Before(func(ctx context.Context, sc *godog.Scenario) (context.Context, error) {
		store.reset()
		return ctx, nil
	})

	ctx.Step(`^a store with a backroom feeding the sales floor$`, store.aStoreWithABackroomFeedingTheSalesFloor)
	ctx.Step(`^the (backroom|sales floor) starts with (\d+) units? of "([^"]*)"$`, store.zoneStartsWith)
	ctx.Step(`^the shelves start stocked with:$`, store.theShelvesStartStockedWith)
	ctx.Step(`^an associate "([^"]*)" is on shift$`, store.anAssociateIsOnShift)
	ctx.Step(`^the (backroom|sales floor) now holds (\d+) units? of "([^"]*)"$`, store.zoneNowHolds)
	ctx.Step(`^the (backroom|sales floor) snapshot shows (\d+) units? of "([^"]*)"$`, store.snapshotShows)
	ctx.Step(`^the (backroom|sales floor) snapshot shows (\d+) units? of "([^"]*)" at confidence ([0-9.]+)$`, store.snapshotShowsAtConfidence)
	ctx.Step(`^no tasks are open$`, store.noTasksAreOpen)
	ctx.Step(`^(\d+) tasks? (?:is|are) open$`, store.tasksAreOpen)
}
