package api

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/andrescamacho/floorsense-go/internal/adapters/metrics"
	"github.com/andrescamacho/floorsense-go/internal/application/mediator"
	"github.com/andrescamacho/floorsense-go/internal/domain/audit"
	"github.com/andrescamacho/floorsense-go/internal/domain/shared"
	"github.com/andrescamacho/floorsense-go/internal/infrastructure/config"
)

// FlowSource is where the server subscribes for timeline events to fan out
// over /ws/events. The engine's audit trail implements it.
type FlowSource interface {
	AddFlowHook(hook func(event audit.FlowEvent))
}

// Server runs the HTTP/WebSocket API for the store engine
type Server struct {
	cfg      *config.Config
	hub      *Hub
	handlers *Handlers
	server   *http.Server
	logger   *slog.Logger
}

// NewServer creates a new API server and subscribes its event hub to the
// engine's timeline.
func NewServer(cfg *config.Config, med mediator.Mediator, flows FlowSource, logger *slog.Logger) *Server {
	hub := NewHub(logger)
	handlers := NewHandlers(med, hub, cfg.Server.AllowedOrigins, shared.NewSystemClock(), cfg.Reader.RateLimit, cfg.Reader.Burst, logger)
	flows.AddFlowHook(hub.BroadcastFlow)

	mux := http.NewServeMux()

	// Health and metrics
	mux.HandleFunc("GET /health", handlers.HandleHealth)
	if cfg.Metrics.Enabled && metrics.IsEnabled() {
		mux.Handle("GET "+cfg.Metrics.Path, promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{}))
	}

	// Ingest
	mux.HandleFunc("POST /api/ingest/reads", handlers.HandleIngestRead)
	mux.HandleFunc("POST /api/ingest/sales", handlers.HandleIngestSale)

	// Layout
	mux.HandleFunc("GET /api/zones", handlers.HandleListZones)
	mux.HandleFunc("POST /api/zones", handlers.HandleCreateZone)
	mux.HandleFunc("GET /api/zones/{id}", handlers.HandleZoneDetail)
	mux.HandleFunc("PATCH /api/zones/{id}", handlers.HandleUpdateZone)
	mux.HandleFunc("DELETE /api/zones/{id}", handlers.HandleDeleteZone)
	mux.HandleFunc("POST /api/zones/{id}/sweep", handlers.HandleZoneSweep)
	mux.HandleFunc("POST /api/externals", handlers.HandleRegisterExternal)
	mux.HandleFunc("DELETE /api/externals/{id}", handlers.HandleRemoveExternal)

	// Rules
	mux.HandleFunc("GET /api/templates", handlers.HandleListTemplates)
	mux.HandleFunc("POST /api/templates", handlers.HandleUpsertTemplate)
	mux.HandleFunc("DELETE /api/templates/{id}", handlers.HandleDeleteTemplate)
	mux.HandleFunc("GET /api/rules", handlers.HandleListRules)
	mux.HandleFunc("POST /api/rules", handlers.HandleUpsertRule)
	mux.HandleFunc("DELETE /api/rules/{id}", handlers.HandleDeleteRule)

	// Replenishment
	mux.HandleFunc("GET /api/tasks", handlers.HandleListTasks)
	mux.HandleFunc("POST /api/tasks/{id}/assign", handlers.HandleAssignTask)
	mux.HandleFunc("POST /api/tasks/{id}/start", handlers.HandleStartTask)
	mux.HandleFunc("POST /api/tasks/{id}/confirm", handlers.HandleConfirmTask)

	// Receiving
	mux.HandleFunc("GET /api/orders", handlers.HandleListOrders)
	mux.HandleFunc("POST /api/orders", handlers.HandleCreateOrder)
	mux.HandleFunc("POST /api/orders/{id}/confirm", handlers.HandleConfirmOrder)

	// Staffing
	mux.HandleFunc("GET /api/staff", handlers.HandleListStaff)
	mux.HandleFunc("POST /api/staff", handlers.HandleUpsertStaff)
	mux.HandleFunc("POST /api/staff/{id}/shift", handlers.HandleSetStaffShift)
	mux.HandleFunc("POST /api/staff/{id}/scope", handlers.HandleSetStaffScope)

	// Carts
	mux.HandleFunc("GET /api/cart/{customerId}", handlers.HandleGetBasket)
	mux.HandleFunc("POST /api/cart/items", handlers.HandleAddCartItem)
	mux.HandleFunc("POST /api/cart/items/{id}/remove", handlers.HandleRemoveCartItem)
	mux.HandleFunc("POST /api/cart/checkout", handlers.HandleCheckout)

	// Read models
	mux.HandleFunc("GET /api/dashboard", handlers.HandleDashboard)
	mux.HandleFunc("GET /api/skus", handlers.HandleListSKUs)
	mux.HandleFunc("GET /api/flow", handlers.HandleFlowTimeline)
	mux.HandleFunc("GET /api/audit", handlers.HandleAuditLog)

	// WebSockets
	mux.HandleFunc("GET /ws/events", handlers.HandleEventsWS)
	mux.HandleFunc("GET /ws/reader", handlers.HandleReaderWS)

	server := &http.Server{
		Addr:         cfg.Server.Address(),
		Handler:      mux,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return &Server{
		cfg:      cfg,
		hub:      hub,
		handlers: handlers,
		server:   server,
		logger:   logger.With("component", "api-server"),
	}
}

// Start starts the API server and hub
func (s *Server) Start() error {
	// Start WebSocket hub
	go s.hub.Run()

	s.logger.Info("api server starting", "addr", s.server.Addr)

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	return nil
}

// Stop gracefully stops the server
func (s *Server) Stop() error {
	s.logger.Info("stopping api server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	return s.server.Shutdown(ctx)
}
