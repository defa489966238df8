package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/andrescamacho/floorsense-go/internal/application/mediator"
	viewQueries "github.com/andrescamacho/floorsense-go/internal/application/views/queries"
	"github.com/andrescamacho/floorsense-go/internal/domain/layout"
)

func queryInt(r *http.Request, key string) int {
	v, err := strconv.Atoi(r.URL.Query().Get(key))
	if err != nil {
		return 0
	}
	return v
}

func queryBool(r *http.Request, key string) bool {
	v, _ := strconv.ParseBool(r.URL.Query().Get(key))
	return v
}

// query dispatches a read model request and writes the response as-is.
func (h *Handlers) query(w http.ResponseWriter, r *http.Request, request mediator.Request) {
	response, err := h.med.Send(r.Context(), request)
	if err != nil {
		var notFound *layout.ErrLocationNotFound
		if errors.As(err, &notFound) {
			writeError(w, http.StatusNotFound, err.Error())
			return
		}
		h.internalError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, response)
}

func (h *Handlers) HandleDashboard(w http.ResponseWriter, r *http.Request) {
	h.query(w, r, &viewQueries.GetDashboardQuery{})
}

func (h *Handlers) HandleListZones(w http.ResponseWriter, r *http.Request) {
	h.query(w, r, &viewQueries.ListLocationsQuery{})
}

func (h *Handlers) HandleZoneDetail(w http.ResponseWriter, r *http.Request) {
	h.query(w, r, &viewQueries.GetZoneDetailQuery{
		LocationID: r.PathValue("id"),
		ReadLimit:  queryInt(r, "reads"),
	})
}

func (h *Handlers) HandleListTasks(w http.ResponseWriter, r *http.Request) {
	h.query(w, r, &viewQueries.ListTasksQuery{
		Status:     r.URL.Query().Get("status"),
		LocationID: r.URL.Query().Get("location"),
		StaffID:    r.URL.Query().Get("staff"),
		SKUID:      r.URL.Query().Get("sku"),
		OpenOnly:   queryBool(r, "open"),
	})
}

func (h *Handlers) HandleListOrders(w http.ResponseWriter, r *http.Request) {
	h.query(w, r, &viewQueries.ListOrdersQuery{
		Status:        r.URL.Query().Get("status"),
		DestinationID: r.URL.Query().Get("destination"),
		SourceID:      r.URL.Query().Get("source"),
		StaffID:       r.URL.Query().Get("staff"),
		OpenOnly:      queryBool(r, "open"),
	})
}

func (h *Handlers) HandleListRules(w http.ResponseWriter, r *http.Request) {
	h.query(w, r, &viewQueries.ListRulesQuery{
		LocationID: r.URL.Query().Get("location"),
	})
}

func (h *Handlers) HandleListTemplates(w http.ResponseWriter, r *http.Request) {
	h.query(w, r, &viewQueries.ListTemplatesQuery{
		IncludeInactive: queryBool(r, "includeInactive"),
	})
}

func (h *Handlers) HandleListStaff(w http.ResponseWriter, r *http.Request) {
	h.query(w, r, &viewQueries.ListStaffQuery{
		OnShiftOnly: queryBool(r, "onShift"),
	})
}

func (h *Handlers) HandleListSKUs(w http.ResponseWriter, r *http.Request) {
	h.query(w, r, &viewQueries.ListSKUsQuery{})
}

func (h *Handlers) HandleGetBasket(w http.ResponseWriter, r *http.Request) {
	h.query(w, r, &viewQueries.GetBasketQuery{
		CustomerID: r.PathValue("customerId"),
	})
}

func (h *Handlers) HandleFlowTimeline(w http.ResponseWriter, r *http.Request) {
	h.query(w, r, &viewQueries.GetFlowTimelineQuery{
		Limit: queryInt(r, "limit"),
	})
}

func (h *Handlers) HandleAuditLog(w http.ResponseWriter, r *http.Request) {
	h.query(w, r, &viewQueries.GetAuditLogQuery{
		EntityID: r.URL.Query().Get("entity"),
		Limit:    queryInt(r, "limit"),
	})
}
