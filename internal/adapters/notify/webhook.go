package notify

import (
	"context"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	viewQueries "github.com/andrescamacho/floorsense-go/internal/application/views/queries"
	"github.com/andrescamacho/floorsense-go/internal/domain/audit"
	"github.com/andrescamacho/floorsense-go/internal/infrastructure/config"
)

// queueDepth bounds the delivery backlog. The flow hook must never block
// command handling, so events past this depth are dropped and counted in
// the log rather than queued.
const queueDepth = 256

// Notifier delivers task and order lifecycle events to an external webhook.
// It subscribes to the engine's flow timeline and POSTs one JSON event per
// transition. A notifier built from an empty URL swallows everything.
type Notifier struct {
	client  *resty.Client
	url     string
	enabled bool
	events  chan audit.FlowEvent
	logger  *slog.Logger
}

// NewNotifier creates the notifier. Delivery only starts once Run is called.
func NewNotifier(cfg config.WebhookConfig, logger *slog.Logger) *Notifier {
	n := &Notifier{
		url:     cfg.URL,
		enabled: cfg.Enabled(),
		events:  make(chan audit.FlowEvent, queueDepth),
		logger:  logger.With("component", "webhook-notifier"),
	}
	if !n.enabled {
		return n
	}

	n.client = resty.New().
		SetTimeout(cfg.Timeout()).
		SetRetryCount(2).
		SetRetryWaitTime(250 * time.Millisecond).
		AddRetryCondition(func(r *resty.Response, err error) bool {
			if err != nil {
				return true
			}
			return r.StatusCode() >= 500
		}).
		SetHeader("Content-Type", "application/json")
	return n
}

// HandleFlow is the flow hook: it enqueues lifecycle transitions without
// blocking. Ingest and cart traffic is deliberately not forwarded; the
// webhook contract covers work items, not raw telemetry.
func (n *Notifier) HandleFlow(event audit.FlowEvent) {
	if !n.enabled || !lifecycleKind(event.Kind) {
		return
	}
	select {
	case n.events <- event:
	default:
		n.logger.Warn("webhook queue full, dropping event", "kind", event.Kind, "entity", event.EntityID)
	}
}

// Run delivers queued events until the context is cancelled. It should be
// called in a goroutine.
func (n *Notifier) Run(ctx context.Context) {
	if !n.enabled {
		return
	}
	n.logger.Info("webhook notifier starting", "url", n.url)
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-n.events:
			n.deliver(ctx, event)
		}
	}
}

func (n *Notifier) deliver(ctx context.Context, event audit.FlowEvent) {
	resp, err := n.client.R().
		SetContext(ctx).
		SetBody(viewQueries.ToFlowEventDTO(event)).
		Post(n.url)
	if err != nil {
		n.logger.Error("webhook delivery failed", "kind", event.Kind, "entity", event.EntityID, "error", err)
		return
	}
	if resp.StatusCode() >= http.StatusBadRequest {
		n.logger.Error("webhook rejected event",
			"kind", event.Kind,
			"entity", event.EntityID,
			"status", resp.StatusCode())
	}
}

// lifecycleKind reports whether a timeline kind is a task or order
// transition.
func lifecycleKind(kind string) bool {
	return strings.HasPrefix(kind, "task_") || strings.HasPrefix(kind, "order_")
}
