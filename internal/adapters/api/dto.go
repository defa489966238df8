package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/andrescamacho/floorsense-go/internal/domain/catalog"
	"github.com/andrescamacho/floorsense-go/internal/domain/layout"
)

var validate = validator.New()

// decodeBody unmarshals and validates a request body. An empty body decodes
// to the zero value so commands with all-optional fields accept bare POSTs;
// required-field violations still surface through the validator.
func decodeBody(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return validate.Struct(dst)
		}
		return fmt.Errorf("invalid request body: %w", err)
	}
	return validate.Struct(dst)
}

// at defaults missing event timestamps to the handler clock, so live
// callers can omit them while replayed feeds keep their own times.
func (h *Handlers) at(t time.Time) time.Time {
	if t.IsZero() {
		return h.clock.Now()
	}
	return t
}

type ingestReadRequest struct {
	EPC        string    `json:"epc" validate:"required"`
	AntennaID  string    `json:"antennaId" validate:"required"`
	LocationID string    `json:"locationId"`
	Timestamp  time.Time `json:"timestamp"`
	RSSI       *float64  `json:"rssi"`
}

type ingestSaleRequest struct {
	SKUID      string    `json:"skuId" validate:"required"`
	LocationID string    `json:"locationId" validate:"required"`
	EventType  string    `json:"eventType" validate:"required,oneof=SALE RETURN"`
	Qty        int       `json:"qty"`
	Timestamp  time.Time `json:"timestamp"`
}

type sweepRequest struct {
	Timestamp time.Time `json:"timestamp"`
}

type createZoneRequest struct {
	ID         string         `json:"id" validate:"required"`
	Name       string         `json:"name"`
	Polygon    []layout.Point `json:"polygon"`
	Colour     string         `json:"colour"`
	IsSales    bool           `json:"isSales"`
	Sources    []string       `json:"sources"`
	AntennaIDs []string       `json:"antennaIds"`
}

type updateZoneRequest struct {
	Name       *string        `json:"name"`
	Polygon    []layout.Point `json:"polygon"`
	Colour     *string        `json:"colour"`
	IsSales    *bool          `json:"isSales"`
	Sources    []string       `json:"sources"`
	AntennaIDs []string       `json:"antennaIds"`
}

type registerExternalRequest struct {
	ID    string `json:"id" validate:"required"`
	Label string `json:"label"`
}

type upsertTemplateRequest struct {
	ID              string                  `json:"id"`
	Scope           string                  `json:"scope" validate:"required,oneof=GENERIC LOCATION"`
	ZoneID          string                  `json:"zoneId"`
	Selector        string                  `json:"selector" validate:"required,oneof=SKU ATTRIBUTES"`
	SKUID           string                  `json:"skuId"`
	Attributes      catalog.AttributeFilter `json:"attributes"`
	Min             int                     `json:"min"`
	Max             int                     `json:"max"`
	Priority        int                     `json:"priority"`
	InboundSourceID string                  `json:"inboundSourceId"`
}

type upsertRuleRequest struct {
	LocationID      string `json:"locationId" validate:"required"`
	SKUID           string `json:"skuId" validate:"required"`
	Source          string `json:"source" validate:"omitempty,oneof=RFID NON_RFID"`
	Min             int    `json:"min"`
	Max             int    `json:"max"`
	Priority        int    `json:"priority"`
	InboundSourceID string `json:"inboundSourceId"`
}

type assignTaskRequest struct {
	StaffID string `json:"staffId" validate:"required"`
}

type startTaskRequest struct {
	StaffID string `json:"staffId" validate:"required"`
}

type confirmTaskRequest struct {
	ConfirmedQty int    `json:"confirmedQty"`
	ConfirmedBy  string `json:"confirmedBy"`
	SourceZoneID string `json:"sourceZoneId"`
}

type createOrderRequest struct {
	SourceID      string `json:"sourceId" validate:"required"`
	DestinationID string `json:"destinationId" validate:"required"`
	SKUID         string `json:"skuId" validate:"required"`
	Source        string `json:"source" validate:"omitempty,oneof=RFID NON_RFID"`
	RequestedQty  int    `json:"requestedQty"`
}

type scopeDTO struct {
	All         bool     `json:"all"`
	LocationIDs []string `json:"locationIds"`
}

type upsertStaffRequest struct {
	ID      string   `json:"id"`
	Name    string   `json:"name" validate:"required"`
	Role    string   `json:"role" validate:"required"`
	OnShift bool     `json:"onShift"`
	Scope   scopeDTO `json:"scope"`
}

type shiftRequest struct {
	OnShift bool `json:"onShift"`
}

type addCartItemRequest struct {
	CustomerID string    `json:"customerId" validate:"required"`
	LocationID string    `json:"locationId" validate:"required"`
	SKUID      string    `json:"skuId" validate:"required"`
	Qty        int       `json:"qty"`
	Timestamp  time.Time `json:"timestamp"`
}

type removeCartItemRequest struct {
	Timestamp time.Time `json:"timestamp"`
}

type checkoutRequest struct {
	CustomerID string    `json:"customerId" validate:"required"`
	Timestamp  time.Time `json:"timestamp"`
}
