package api

import (
	"encoding/json"
	"net/http"

	"github.com/andrescamacho/floorsense-go/internal/application/common"
)

// httpStatusFor maps a command outcome onto an HTTP status code. Outcomes
// that accepted or idempotently ignored work are 200 so event feeds never
// retry them; validation failures are 400, missing entities 404, and state
// precondition failures 409.
func httpStatusFor(status common.Status) int {
	switch status {
	case common.StatusAccepted,
		common.StatusAcceptedRFIDImmediate,
		common.StatusAssigned,
		common.StatusStarted,
		common.StatusConfirmed,
		common.StatusConfirmedPartial,
		common.StatusDuplicateIgnored,
		common.StatusUnknownEPC:
		return http.StatusOK

	case common.StatusInvalidQty,
		common.StatusInvalidMinMax,
		common.StatusInvalidPolygon,
		common.StatusInvalidRole,
		common.StatusInvalidSource,
		common.StatusInvalidExternalID,
		common.StatusInvalidAntennaOrZone,
		common.StatusZoneRequired,
		common.StatusSKURequired,
		common.StatusAttributesRequired,
		common.StatusSourceMismatch,
		common.StatusSourceEqualsDest,
		common.StatusReservedZoneID:
		return http.StatusBadRequest

	case common.StatusZoneNotFound,
		common.StatusSKUNotFound,
		common.StatusTaskNotFound,
		common.StatusOrderNotFound,
		common.StatusStaffNotFound,
		common.StatusTemplateNotFound,
		common.StatusRuleNotFound,
		common.StatusItemNotFound,
		common.StatusExternalNotFound,
		common.StatusSourceNotFound:
		return http.StatusNotFound

	case common.StatusZoneNotOrderable,
		common.StatusInsufficientInventory,
		common.StatusTaskNotOpen,
		common.StatusOrderNotOpen,
		common.StatusItemNotOpen,
		common.StatusStaffInactive,
		common.StatusStaffNotEligible,
		common.StatusNoInventoryMoved,
		common.StatusAlreadyInactive,
		common.StatusAlreadyActive,
		common.StatusZoneExists,
		common.StatusExternalExists,
		common.StatusCartEmpty:
		return http.StatusConflict
	}
	return http.StatusInternalServerError
}

// errorBody is the JSON shape of transport-level failures: malformed JSON,
// failed DTO validation, internal faults. Command outcomes are not errors
// and marshal their full response instead.
type errorBody struct {
	Error string `json:"error"`
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, errorBody{Error: msg})
}

// writeCommandResponse marshals a command response with the HTTP code its
// status maps to.
func writeCommandResponse(w http.ResponseWriter, response common.Response) {
	statused, ok := response.(common.Statused)
	if !ok {
		writeJSON(w, http.StatusOK, response)
		return
	}
	writeJSON(w, httpStatusFor(statused.CommandStatus()), response)
}
