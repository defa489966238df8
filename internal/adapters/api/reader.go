package api

import (
	"context"
	"encoding/json"
	"net/http"

	"github.com/gorilla/websocket"
	"golang.org/x/time/rate"

	ingestCommands "github.com/andrescamacho/floorsense-go/internal/application/ingest/commands"
)

// HandleReaderWS is the RFID reader bridge: readers hold one websocket open
// and stream JSON read frames; the engine answers each frame with the read's
// outcome so bridges can spot misconfigured antennas. Each connection gets
// its own token bucket so one chatty reader cannot starve the rest.
func (h *Handlers) HandleReaderWS(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Error("websocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	logger := h.logger.With("component", "reader-bridge", "remote", conn.RemoteAddr().String())
	logger.Info("reader connected")
	defer logger.Info("reader disconnected")

	var limiter *rate.Limiter
	if h.readerRate > 0 {
		limiter = rate.NewLimiter(rate.Limit(h.readerRate), h.readerBurst)
	}

	conn.SetReadLimit(maxMessageSize)
	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logger.Error("websocket error", "error", err)
			}
			return
		}

		reply := h.processReadFrame(r.Context(), frame, limiter)
		data, err := json.Marshal(reply)
		if err != nil {
			logger.Error("failed to marshal reply", "error", err)
			continue
		}
		if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
			return
		}
	}
}

// processReadFrame turns one reader frame into a command dispatch and
// returns the wire reply. Throttled and malformed frames never reach the
// engine.
func (h *Handlers) processReadFrame(ctx context.Context, frame []byte, limiter *rate.Limiter) any {
	if limiter != nil && !limiter.Allow() {
		return errorBody{Error: "rate limit exceeded"}
	}

	var req ingestReadRequest
	if err := json.Unmarshal(frame, &req); err != nil {
		return errorBody{Error: "invalid read frame: " + err.Error()}
	}
	if err := validate.Struct(&req); err != nil {
		return errorBody{Error: err.Error()}
	}

	response, err := h.med.Send(ctx, &ingestCommands.IngestRFIDReadCommand{
		EPC:        req.EPC,
		AntennaID:  req.AntennaID,
		LocationID: req.LocationID,
		Timestamp:  h.at(req.Timestamp),
		RSSI:       req.RSSI,
	})
	if err != nil {
		h.logger.Error("read dispatch failed", "error", err)
		return errorBody{Error: "internal error"}
	}
	return response
}
