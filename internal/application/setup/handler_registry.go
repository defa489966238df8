package setup

import (
	"context"
	"fmt"
	"time"

	"github.com/andrescamacho/floorsense-go/internal/adapters/memstore"
	cartCommands "github.com/andrescamacho/floorsense-go/internal/application/carts/commands"
	cartservices "github.com/andrescamacho/floorsense-go/internal/application/carts/services"
	"github.com/andrescamacho/floorsense-go/internal/application/gateway"
	ingestCommands "github.com/andrescamacho/floorsense-go/internal/application/ingest/commands"
	invservices "github.com/andrescamacho/floorsense-go/internal/application/inventory/services"
	layoutCommands "github.com/andrescamacho/floorsense-go/internal/application/layout/commands"
	"github.com/andrescamacho/floorsense-go/internal/application/mediator"
	planningCommands "github.com/andrescamacho/floorsense-go/internal/application/planning/commands"
	receivingCommands "github.com/andrescamacho/floorsense-go/internal/application/receiving/commands"
	ruleCommands "github.com/andrescamacho/floorsense-go/internal/application/rules/commands"
	ruleservices "github.com/andrescamacho/floorsense-go/internal/application/rules/services"
	staffingCommands "github.com/andrescamacho/floorsense-go/internal/application/staffing/commands"
	staffservices "github.com/andrescamacho/floorsense-go/internal/application/staffing/services"
	viewQueries "github.com/andrescamacho/floorsense-go/internal/application/views/queries"
	"github.com/andrescamacho/floorsense-go/internal/domain/layout"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
)

// Engine is the fully wired inventory engine: in-memory stores, domain
// services, and a mediator with every command and query handler registered.
// The daemon, the API server, the dataset loader and the test fixtures all
// build their graph through NewEngine so they cannot drift apart.
type Engine struct {
	Mediator mediator.Mediator
	Gateway  *gateway.Gateway
	Cursor   *shared.Cursor
	Params   shared.Params

	// Stores are exported for the adapters that reach past the command
	// surface: the dataset loader seeds them and the websocket hub taps the
	// trail's flow hook.
	Locations *memstore.LocationStore
	Externals *memstore.ExternalLocationStore
	SKUs      *memstore.SKUStore
	Mappings  *memstore.EPCMappingStore
	Presence  *memstore.PresenceStore
	Dedup     *memstore.DedupStore
	Snapshots *memstore.SnapshotStore
	Ledger    *memstore.LedgerStore
	Templates *memstore.TemplateStore
	Registry  *memstore.RuleStore
	Tasks     *memstore.TaskStore
	Orders    *memstore.OrderStore
	Staff     *memstore.StaffStore
	Baskets   *memstore.BasketStore
	Picks     *memstore.PickStore
	Trail     *memstore.AuditStore

	Availability *invservices.Availability
	Transfer     *invservices.TransferExecutor
	Assigner     *staffservices.AutoAssigner
	Planner      *invservices.Planner
	Recomputer   *invservices.Recomputer
	Resolver     *cartservices.PickResolver
	Projector    *ruleservices.Projector
}

// NewEngine wires stores, services, middlewares and handlers. The cursor
// starts at start; params carry the dedup window and presence TTL. Extra
// middlewares (metrics, usually) run between recover and logging.
func NewEngine(start time.Time, params shared.Params, extra ...mediator.Middleware) (*Engine, error) {
	e := &Engine{
		Params:    params,
		Cursor:    shared.NewCursor(start),
		Locations: memstore.NewLocationStore(),
		Externals: memstore.NewExternalLocationStore(),
		SKUs:      memstore.NewSKUStore(),
		Mappings:  memstore.NewEPCMappingStore(),
		Presence:  memstore.NewPresenceStore(),
		Dedup:     memstore.NewDedupStore(),
		Snapshots: memstore.NewSnapshotStore(),
		Ledger:    memstore.NewLedgerStore(),
		Templates: memstore.NewTemplateStore(),
		Registry:  memstore.NewRuleStore(),
		Tasks:     memstore.NewTaskStore(),
		Orders:    memstore.NewOrderStore(),
		Staff:     memstore.NewStaffStore(),
		Baskets:   memstore.NewBasketStore(),
		Picks:     memstore.NewPickStore(),
		Trail:     memstore.NewAuditStore(),
	}

	// The printing wall exists from the first instant: personalisation
	// replacement tasks need a destination even in an empty store. The
	// cashier staging zone is deliberately never registered.
	wall := layout.NewLocation(shared.ZonePrintingWall, "Printing Wall", nil, "#9e9e9e", false, nil, nil, start)
	if err := e.Locations.Create(context.Background(), wall); err != nil {
		return nil, fmt.Errorf("failed to register printing wall: %w", err)
	}

	e.Availability = invservices.NewAvailability(e.Snapshots, e.Tasks, e.Orders, e.Baskets)
	e.Transfer = invservices.NewTransferExecutor(e.Presence, e.Mappings, e.Ledger, e.Locations, e.Trail, e.Params)
	e.Assigner = staffservices.NewAutoAssigner(e.Staff, e.Tasks, e.Orders, e.Trail, e.Cursor)
	e.Planner = invservices.NewPlanner(e.Registry, e.Tasks, e.Orders, e.Availability, e.Assigner, e.Trail, e.Cursor)
	e.Recomputer = invservices.NewRecomputer(e.Presence, e.Ledger, e.Snapshots, e.Registry, e.SKUs, e.Locations, e.Planner, e.Cursor, e.Params)
	e.Resolver = cartservices.NewPickResolver(e.Picks, e.Baskets, e.Presence, e.Cursor, e.Params)
	e.Projector = ruleservices.NewProjector(e.Templates, e.Registry, e.SKUs, e.Locations, e.Planner, e.Recomputer)

	e.Gateway = gateway.New()
	med := mediator.NewMediator()
	med.Use(gateway.Recover())
	for _, mw := range extra {
		med.Use(mw)
	}
	med.Use(gateway.Logging())
	med.Use(e.Gateway.Serialise())
	e.Mediator = med

	if err := e.registerHandlers(med); err != nil {
		return nil, err
	}
	return e, nil
}

// Bootstrap projects the rule templates and recomputes every location. Call
// it once after the stores are seeded.
func (e *Engine) Bootstrap(ctx context.Context) error {
	if _, err := e.Projector.Reproject(ctx); err != nil {
		return fmt.Errorf("failed to project rule templates: %w", err)
	}
	if err := e.Recomputer.RecomputeAll(ctx); err != nil {
		return fmt.Errorf("failed to recompute locations: %w", err)
	}
	return nil
}

func (e *Engine) registerHandlers(med mediator.Mediator) error {
	if err := e.registerIngestHandlers(med); err != nil {
		return err
	}
	if err := e.registerPlanningHandlers(med); err != nil {
		return err
	}
	if err := e.registerReceivingHandlers(med); err != nil {
		return err
	}
	if err := e.registerRuleHandlers(med); err != nil {
		return err
	}
	if err := e.registerCartHandlers(med); err != nil {
		return err
	}
	if err := e.registerLayoutHandlers(med); err != nil {
		return err
	}
	if err := e.registerStaffingHandlers(med); err != nil {
		return err
	}
	return e.registerViewHandlers(med)
}

// registerIngestHandlers registers the reader-facing commands: RFID reads,
// zone sweeps and point-of-sale events.
func (e *Engine) registerIngestHandlers(med mediator.Mediator) error {
	readHandler := ingestCommands.NewIngestRFIDReadHandler(
		e.Locations, e.Mappings, e.Presence, e.Dedup, e.Trail, e.Resolver, e.Recomputer, e.Cursor, e.Params,
	)
	if err := mediator.RegisterHandler[*ingestCommands.IngestRFIDReadCommand](med, readHandler); err != nil {
		return fmt.Errorf("failed to register IngestRFIDRead handler: %w", err)
	}

	sweepHandler := ingestCommands.NewForceZoneSweepHandler(e.Locations, e.Presence, e.Trail, e.Recomputer, e.Cursor)
	if err := mediator.RegisterHandler[*ingestCommands.ForceZoneSweepCommand](med, sweepHandler); err != nil {
		return fmt.Errorf("failed to register ForceZoneSweep handler: %w", err)
	}

	salesHandler := ingestCommands.NewIngestSalesEventHandler(e.Locations, e.SKUs, e.Ledger, e.Trail, e.Recomputer, e.Cursor)
	if err := mediator.RegisterHandler[*ingestCommands.IngestSalesEventCommand](med, salesHandler); err != nil {
		return fmt.Errorf("failed to register IngestSalesEvent handler: %w", err)
	}

	return nil
}

// registerPlanningHandlers registers the replenishment task lifecycle.
func (e *Engine) registerPlanningHandlers(med mediator.Mediator) error {
	assignHandler := planningCommands.NewAssignTaskHandler(e.Tasks, e.Staff, e.Trail, e.Cursor)
	if err := mediator.RegisterHandler[*planningCommands.AssignTaskCommand](med, assignHandler); err != nil {
		return fmt.Errorf("failed to register AssignTask handler: %w", err)
	}

	startHandler := planningCommands.NewStartTaskHandler(e.Tasks, e.Staff, e.Trail, e.Cursor)
	if err := mediator.RegisterHandler[*planningCommands.StartTaskCommand](med, startHandler); err != nil {
		return fmt.Errorf("failed to register StartTask handler: %w", err)
	}

	confirmHandler := planningCommands.NewConfirmTaskHandler(e.Tasks, e.Locations, e.Transfer, e.Recomputer, e.Trail, e.Cursor)
	if err := mediator.RegisterHandler[*planningCommands.ConfirmTaskCommand](med, confirmHandler); err != nil {
		return fmt.Errorf("failed to register ConfirmTask handler: %w", err)
	}

	return nil
}

// registerReceivingHandlers registers the receiving order lifecycle.
func (e *Engine) registerReceivingHandlers(med mediator.Mediator) error {
	createHandler := receivingCommands.NewCreateReceivingOrderHandler(e.Locations, e.Externals, e.SKUs, e.Orders, e.Planner)
	if err := mediator.RegisterHandler[*receivingCommands.CreateReceivingOrderCommand](med, createHandler); err != nil {
		return fmt.Errorf("failed to register CreateReceivingOrder handler: %w", err)
	}

	confirmHandler := receivingCommands.NewConfirmReceivingOrderHandler(e.Orders, e.Transfer, e.Recomputer, e.Trail, e.Cursor)
	if err := mediator.RegisterHandler[*receivingCommands.ConfirmReceivingOrderCommand](med, confirmHandler); err != nil {
		return fmt.Errorf("failed to register ConfirmReceivingOrder handler: %w", err)
	}

	return nil
}

// registerRuleHandlers registers template upserts plus the legacy direct
// rule path.
func (e *Engine) registerRuleHandlers(med mediator.Mediator) error {
	upsertTemplateHandler := ruleCommands.NewUpsertRuleTemplateHandler(e.Templates, e.Locations, e.SKUs, e.Projector, e.Cursor)
	if err := mediator.RegisterHandler[*ruleCommands.UpsertRuleTemplateCommand](med, upsertTemplateHandler); err != nil {
		return fmt.Errorf("failed to register UpsertRuleTemplate handler: %w", err)
	}

	deleteTemplateHandler := ruleCommands.NewDeleteRuleTemplateHandler(e.Templates, e.Projector, e.Cursor)
	if err := mediator.RegisterHandler[*ruleCommands.DeleteRuleTemplateCommand](med, deleteTemplateHandler); err != nil {
		return fmt.Errorf("failed to register DeleteRuleTemplate handler: %w", err)
	}

	upsertRuleHandler := ruleCommands.NewUpsertRuleHandler(e.Templates, e.Registry, e.Locations, e.SKUs, e.Projector, e.Cursor)
	if err := mediator.RegisterHandler[*ruleCommands.UpsertRuleCommand](med, upsertRuleHandler); err != nil {
		return fmt.Errorf("failed to register UpsertRule handler: %w", err)
	}

	deleteRuleHandler := ruleCommands.NewDeleteRuleHandler(e.Templates, e.Registry, e.Projector, e.Cursor)
	if err := mediator.RegisterHandler[*ruleCommands.DeleteRuleCommand](med, deleteRuleHandler); err != nil {
		return fmt.Errorf("failed to register DeleteRule handler: %w", err)
	}

	return nil
}

// registerCartHandlers registers the customer cart flow.
func (e *Engine) registerCartHandlers(med mediator.Mediator) error {
	addHandler := cartCommands.NewAddCustomerItemHandler(e.Locations, e.SKUs, e.Baskets, e.Picks, e.Availability, e.Trail, e.Cursor)
	if err := mediator.RegisterHandler[*cartCommands.AddCustomerItemCommand](med, addHandler); err != nil {
		return fmt.Errorf("failed to register AddCustomerItem handler: %w", err)
	}

	removeHandler := cartCommands.NewRemoveCustomerItemHandler(e.Baskets, e.Picks, e.Presence, e.Transfer, e.Trail, e.Recomputer, e.Cursor)
	if err := mediator.RegisterHandler[*cartCommands.RemoveCustomerItemCommand](med, removeHandler); err != nil {
		return fmt.Errorf("failed to register RemoveCustomerItem handler: %w", err)
	}

	checkoutHandler := cartCommands.NewCheckoutCustomerHandler(
		e.Baskets, e.Picks, e.SKUs, e.Locations, e.Snapshots, e.Ledger, e.Registry, e.Tasks,
		e.Resolver, e.Availability, e.Recomputer, e.Assigner, e.Trail, e.Cursor,
	)
	if err := mediator.RegisterHandler[*cartCommands.CheckoutCustomerCommand](med, checkoutHandler); err != nil {
		return fmt.Errorf("failed to register CheckoutCustomer handler: %w", err)
	}

	return nil
}

// registerLayoutHandlers registers location CRUD and the external source
// registry.
func (e *Engine) registerLayoutHandlers(med mediator.Mediator) error {
	createHandler := layoutCommands.NewCreateLocationHandler(e.Locations, e.Projector, e.Cursor)
	if err := mediator.RegisterHandler[*layoutCommands.CreateLocationCommand](med, createHandler); err != nil {
		return fmt.Errorf("failed to register CreateLocation handler: %w", err)
	}

	updateHandler := layoutCommands.NewUpdateLocationHandler(e.Locations, e.Recomputer, e.Cursor)
	if err := mediator.RegisterHandler[*layoutCommands.UpdateLocationCommand](med, updateHandler); err != nil {
		return fmt.Errorf("failed to register UpdateLocation handler: %w", err)
	}

	deleteHandler := layoutCommands.NewDeleteLocationHandler(e.Locations, e.Templates, e.Planner, e.Projector, e.Cursor)
	if err := mediator.RegisterHandler[*layoutCommands.DeleteLocationCommand](med, deleteHandler); err != nil {
		return fmt.Errorf("failed to register DeleteLocation handler: %w", err)
	}

	registerHandler := layoutCommands.NewRegisterExternalLocationHandler(e.Externals)
	if err := mediator.RegisterHandler[*layoutCommands.RegisterExternalLocationCommand](med, registerHandler); err != nil {
		return fmt.Errorf("failed to register RegisterExternalLocation handler: %w", err)
	}

	removeExternalHandler := layoutCommands.NewRemoveExternalLocationHandler(e.Externals, e.Locations, e.Planner)
	if err := mediator.RegisterHandler[*layoutCommands.RemoveExternalLocationCommand](med, removeExternalHandler); err != nil {
		return fmt.Errorf("failed to register RemoveExternalLocation handler: %w", err)
	}

	return nil
}

// registerStaffingHandlers registers the staff roster commands.
func (e *Engine) registerStaffingHandlers(med mediator.Mediator) error {
	upsertHandler := staffingCommands.NewUpsertStaffHandler(e.Staff, e.Assigner)
	if err := mediator.RegisterHandler[*staffingCommands.UpsertStaffCommand](med, upsertHandler); err != nil {
		return fmt.Errorf("failed to register UpsertStaff handler: %w", err)
	}

	shiftHandler := staffingCommands.NewSetStaffShiftHandler(e.Staff, e.Assigner)
	if err := mediator.RegisterHandler[*staffingCommands.SetStaffShiftCommand](med, shiftHandler); err != nil {
		return fmt.Errorf("failed to register SetStaffShift handler: %w", err)
	}

	scopeHandler := staffingCommands.NewSetStaffScopeHandler(e.Staff, e.Locations, e.Assigner)
	if err := mediator.RegisterHandler[*staffingCommands.SetStaffScopeCommand](med, scopeHandler); err != nil {
		return fmt.Errorf("failed to register SetStaffScope handler: %w", err)
	}

	return nil
}

// registerViewHandlers registers every read model.
func (e *Engine) registerViewHandlers(med mediator.Mediator) error {
	dashboardHandler := viewQueries.NewGetDashboardHandler(e.Locations, e.Snapshots, e.Registry, e.Tasks, e.Orders, e.Staff)
	if err := mediator.RegisterHandler[*viewQueries.GetDashboardQuery](med, dashboardHandler); err != nil {
		return fmt.Errorf("failed to register GetDashboard handler: %w", err)
	}

	zoneDetailHandler := viewQueries.NewGetZoneDetailHandler(e.Locations, e.Snapshots, e.Registry, e.Tasks, e.Trail)
	if err := mediator.RegisterHandler[*viewQueries.GetZoneDetailQuery](med, zoneDetailHandler); err != nil {
		return fmt.Errorf("failed to register GetZoneDetail handler: %w", err)
	}

	listLocationsHandler := viewQueries.NewListLocationsHandler(e.Locations, e.Externals)
	if err := mediator.RegisterHandler[*viewQueries.ListLocationsQuery](med, listLocationsHandler); err != nil {
		return fmt.Errorf("failed to register ListLocations handler: %w", err)
	}

	listTasksHandler := viewQueries.NewListTasksHandler(e.Tasks)
	if err := mediator.RegisterHandler[*viewQueries.ListTasksQuery](med, listTasksHandler); err != nil {
		return fmt.Errorf("failed to register ListTasks handler: %w", err)
	}

	listOrdersHandler := viewQueries.NewListOrdersHandler(e.Orders)
	if err := mediator.RegisterHandler[*viewQueries.ListOrdersQuery](med, listOrdersHandler); err != nil {
		return fmt.Errorf("failed to register ListOrders handler: %w", err)
	}

	listRulesHandler := viewQueries.NewListRulesHandler(e.Registry)
	if err := mediator.RegisterHandler[*viewQueries.ListRulesQuery](med, listRulesHandler); err != nil {
		return fmt.Errorf("failed to register ListRules handler: %w", err)
	}

	listTemplatesHandler := viewQueries.NewListTemplatesHandler(e.Templates)
	if err := mediator.RegisterHandler[*viewQueries.ListTemplatesQuery](med, listTemplatesHandler); err != nil {
		return fmt.Errorf("failed to register ListTemplates handler: %w", err)
	}

	listStaffHandler := viewQueries.NewListStaffHandler(e.Staff, e.Tasks, e.Orders)
	if err := mediator.RegisterHandler[*viewQueries.ListStaffQuery](med, listStaffHandler); err != nil {
		return fmt.Errorf("failed to register ListStaff handler: %w", err)
	}

	listSKUsHandler := viewQueries.NewListSKUsHandler(e.SKUs)
	if err := mediator.RegisterHandler[*viewQueries.ListSKUsQuery](med, listSKUsHandler); err != nil {
		return fmt.Errorf("failed to register ListSKUs handler: %w", err)
	}

	basketHandler := viewQueries.NewGetBasketHandler(e.Baskets, e.Picks)
	if err := mediator.RegisterHandler[*viewQueries.GetBasketQuery](med, basketHandler); err != nil {
		return fmt.Errorf("failed to register GetBasket handler: %w", err)
	}

	flowHandler := viewQueries.NewGetFlowTimelineHandler(e.Trail)
	if err := mediator.RegisterHandler[*viewQueries.GetFlowTimelineQuery](med, flowHandler); err != nil {
		return fmt.Errorf("failed to register GetFlowTimeline handler: %w", err)
	}

	auditHandler := viewQueries.NewGetAuditLogHandler(e.Trail)
	if err := mediator.RegisterHandler[*viewQueries.GetAuditLogQuery](med, auditHandler); err != nil {
		return fmt.Errorf("failed to register GetAuditLog handler: %w", err)
	}

	return nil
}
