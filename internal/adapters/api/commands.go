package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/websocket"

	cartCommands "github.com/andrescamacho/floorsense-go/internal/application/carts/commands"
	ingestCommands "github.com/andrescamacho/floorsense-go/internal/application/ingest/commands"
	layoutCommands "github.com/andrescamacho/floorsense-go/internal/application/layout/commands"
	"github.com/andrescamacho/floorsense-go/internal/application/mediator"
	planningCommands "github.com/andrescamacho/floorsense-go/internal/application/planning/commands"
	receivingCommands "github.com/andrescamacho/floorsense-go/internal/application/receiving/commands"
	ruleCommands "github.com/andrescamacho/floorsense-go/internal/application/rules/commands"
	staffingCommands "github.com/andrescamacho/floorsense-go/internal/application/staffing/commands"
	"github.com/andrescamacho/floorsense-go/internal/domain/ledger"
	"github.com/andrescamacho/floorsense-go/internal/domain/rules"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
	"github.com/andrescamacho/floorsense-go/internal/domain/staff"
)

// Handlers holds all HTTP handler dependencies
type Handlers struct {
	med         mediator.Mediator
	hub         *Hub
	upgrader    websocket.Upgrader
	clock       shared.Clock
	readerRate  float64
	readerBurst int
	logger      *slog.Logger
}

// NewHandlers creates a new handlers instance. readerRate and readerBurst
// throttle each reader bridge connection; a zero rate disables throttling.
// allowedOrigins restricts websocket upgrades; an empty list accepts any
// origin. The clock stamps commands whose callers omit a timestamp.
func NewHandlers(med mediator.Mediator, hub *Hub, allowedOrigins []string, clock shared.Clock, readerRate float64, readerBurst int, logger *slog.Logger) *Handlers {
	return &Handlers{
		med: med,
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin:     originChecker(allowedOrigins),
		},
		clock:       clock,
		readerRate:  readerRate,
		readerBurst: readerBurst,
		logger:      logger.With("component", "api-handlers"),
	}
}

// HandleHealth returns a simple health check response
func (h *Handlers) HandleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handlers) internalError(w http.ResponseWriter, err error) {
	h.logger.Error("request failed", "error", err)
	writeError(w, http.StatusInternalServerError, "internal error")
}

// send dispatches a command and writes the mapped response.
func (h *Handlers) send(w http.ResponseWriter, r *http.Request, request mediator.Request) {
	response, err := h.med.Send(r.Context(), request)
	if err != nil {
		h.internalError(w, err)
		return
	}
	writeCommandResponse(w, response)
}

func (h *Handlers) HandleIngestRead(w http.ResponseWriter, r *http.Request) {
	var req ingestReadRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.send(w, r, &ingestCommands.IngestRFIDReadCommand{
		EPC:        req.EPC,
		AntennaID:  req.AntennaID,
		LocationID: req.LocationID,
		Timestamp:  h.at(req.Timestamp),
		RSSI:       req.RSSI,
	})
}

func (h *Handlers) HandleIngestSale(w http.ResponseWriter, r *http.Request) {
	var req ingestSaleRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.send(w, r, &ingestCommands.IngestSalesEventCommand{
		SKUID:      req.SKUID,
		LocationID: req.LocationID,
		EventType:  ledger.EntryKind(req.EventType),
		Qty:        req.Qty,
		Timestamp:  h.at(req.Timestamp),
	})
}

func (h *Handlers) HandleZoneSweep(w http.ResponseWriter, r *http.Request) {
	var req sweepRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.send(w, r, &ingestCommands.ForceZoneSweepCommand{
		LocationID: r.PathValue("id"),
		Timestamp:  h.at(req.Timestamp),
	})
}

func (h *Handlers) HandleCreateZone(w http.ResponseWriter, r *http.Request) {
	var req createZoneRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.send(w, r, &layoutCommands.CreateLocationCommand{
		ID:         req.ID,
		Name:       req.Name,
		Polygon:    req.Polygon,
		Colour:     req.Colour,
		IsSales:    req.IsSales,
		Sources:    req.Sources,
		AntennaIDs: req.AntennaIDs,
	})
}

func (h *Handlers) HandleUpdateZone(w http.ResponseWriter, r *http.Request) {
	var req updateZoneRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.send(w, r, &layoutCommands.UpdateLocationCommand{
		ID:         r.PathValue("id"),
		Name:       req.Name,
		Polygon:    req.Polygon,
		Colour:     req.Colour,
		IsSales:    req.IsSales,
		Sources:    req.Sources,
		AntennaIDs: req.AntennaIDs,
	})
}

func (h *Handlers) HandleDeleteZone(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, &layoutCommands.DeleteLocationCommand{ID: r.PathValue("id")})
}

func (h *Handlers) HandleRegisterExternal(w http.ResponseWriter, r *http.Request) {
	var req registerExternalRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.send(w, r, &layoutCommands.RegisterExternalLocationCommand{
		ID:    req.ID,
		Label: req.Label,
	})
}

func (h *Handlers) HandleRemoveExternal(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, &layoutCommands.RemoveExternalLocationCommand{ID: r.PathValue("id")})
}

func (h *Handlers) HandleUpsertTemplate(w http.ResponseWriter, r *http.Request) {
	var req upsertTemplateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.send(w, r, &ruleCommands.UpsertRuleTemplateCommand{
		ID:              req.ID,
		Scope:           rules.TemplateScope(req.Scope),
		ZoneID:          req.ZoneID,
		Selector:        rules.TemplateSelector(req.Selector),
		SKUID:           req.SKUID,
		Attributes:      req.Attributes,
		Min:             req.Min,
		Max:             req.Max,
		Priority:        req.Priority,
		InboundSourceID: req.InboundSourceID,
	})
}

func (h *Handlers) HandleDeleteTemplate(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, &ruleCommands.DeleteRuleTemplateCommand{TemplateID: r.PathValue("id")})
}

func (h *Handlers) HandleUpsertRule(w http.ResponseWriter, r *http.Request) {
	var req upsertRuleRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.send(w, r, &ruleCommands.UpsertRuleCommand{
		LocationID:      req.LocationID,
		SKUID:           req.SKUID,
		Source:          shared.Source(req.Source),
		Min:             req.Min,
		Max:             req.Max,
		Priority:        req.Priority,
		InboundSourceID: req.InboundSourceID,
	})
}

func (h *Handlers) HandleDeleteRule(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, &ruleCommands.DeleteRuleCommand{RuleID: r.PathValue("id")})
}

func (h *Handlers) HandleAssignTask(w http.ResponseWriter, r *http.Request) {
	var req assignTaskRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.send(w, r, &planningCommands.AssignTaskCommand{
		TaskID:  r.PathValue("id"),
		StaffID: req.StaffID,
	})
}

func (h *Handlers) HandleStartTask(w http.ResponseWriter, r *http.Request) {
	var req startTaskRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.send(w, r, &planningCommands.StartTaskCommand{
		TaskID:  r.PathValue("id"),
		StaffID: req.StaffID,
	})
}

func (h *Handlers) HandleConfirmTask(w http.ResponseWriter, r *http.Request) {
	var req confirmTaskRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.send(w, r, &planningCommands.ConfirmTaskCommand{
		TaskID:       r.PathValue("id"),
		ConfirmedQty: req.ConfirmedQty,
		ConfirmedBy:  req.ConfirmedBy,
		SourceZoneID: req.SourceZoneID,
	})
}

func (h *Handlers) HandleCreateOrder(w http.ResponseWriter, r *http.Request) {
	var req createOrderRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.send(w, r, &receivingCommands.CreateReceivingOrderCommand{
		SourceID:      req.SourceID,
		DestinationID: req.DestinationID,
		SKUID:         req.SKUID,
		Source:        shared.Source(req.Source),
		RequestedQty:  req.RequestedQty,
	})
}

func (h *Handlers) HandleConfirmOrder(w http.ResponseWriter, r *http.Request) {
	h.send(w, r, &receivingCommands.ConfirmReceivingOrderCommand{OrderID: r.PathValue("id")})
}

func (h *Handlers) HandleUpsertStaff(w http.ResponseWriter, r *http.Request) {
	var req upsertStaffRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.send(w, r, &staffingCommands.UpsertStaffCommand{
		ID:      req.ID,
		Name:    req.Name,
		Role:    req.Role,
		OnShift: req.OnShift,
		Scope:   staff.Scope{All: req.Scope.All, LocationIDs: req.Scope.LocationIDs},
	})
}

func (h *Handlers) HandleSetStaffShift(w http.ResponseWriter, r *http.Request) {
	var req shiftRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.send(w, r, &staffingCommands.SetStaffShiftCommand{
		StaffID: r.PathValue("id"),
		OnShift: req.OnShift,
	})
}

func (h *Handlers) HandleSetStaffScope(w http.ResponseWriter, r *http.Request) {
	var req scopeDTO
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.send(w, r, &staffingCommands.SetStaffScopeCommand{
		StaffID: r.PathValue("id"),
		Scope:   staff.Scope{All: req.All, LocationIDs: req.LocationIDs},
	})
}

func (h *Handlers) HandleAddCartItem(w http.ResponseWriter, r *http.Request) {
	var req addCartItemRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.send(w, r, &cartCommands.AddCustomerItemCommand{
		CustomerID: req.CustomerID,
		LocationID: req.LocationID,
		SKUID:      req.SKUID,
		Qty:        req.Qty,
		Timestamp:  h.at(req.Timestamp),
	})
}

func (h *Handlers) HandleRemoveCartItem(w http.ResponseWriter, r *http.Request) {
	var req removeCartItemRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.send(w, r, &cartCommands.RemoveCustomerItemCommand{
		BasketItemID: r.PathValue("id"),
		Timestamp:    h.at(req.Timestamp),
	})
}

func (h *Handlers) HandleCheckout(w http.ResponseWriter, r *http.Request) {
	var req checkoutRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	h.send(w, r, &cartCommands.CheckoutCustomerCommand{
		CustomerID: req.CustomerID,
		Timestamp:  h.at(req.Timestamp),
	})
}
