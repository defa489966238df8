package gateway

import (
	"context"
	"fmt"
	"reflect"
	"strings"
	"sync"
	"time"

	"github.com/andrescamacho/floorsense-go/internal/application/common"
	"github.com/andrescamacho/floorsense-go/internal/application/logging"
	"github.com/andrescamacho/floorsense-go/internal/application/mediator"
)

// Gateway owns the engine lock. The engine is single-threaded by contract:
// every command runs end-to-end, cascading recomputes included, before the
// next one is dequeued, and read models take the same lock so a query never
// observes a half-applied command.
type Gateway struct {
	mu sync.Mutex
}

// New creates an unlocked gateway.
func New() *Gateway {
	return &Gateway{}
}

// Serialise returns the middleware that holds the engine lock for the whole
// handler call. It must be registered last so it wraps only the handler.
func (g *Gateway) Serialise() mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		g.mu.Lock()
		defer g.mu.Unlock()
		return next(ctx, request)
	}
}

// Recover converts handler panics into errors so a single bad command cannot
// take the daemon down.
func Recover() mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (response mediator.Response, err error) {
		defer func() {
			if r := recover(); r != nil {
				err = fmt.Errorf("panic handling %s: %v", requestName(request), r)
			}
		}()
		return next(ctx, request)
	}
}

// Logging returns the middleware that logs every dispatched request with its
// outcome and duration, using the context logger.
func Logging() mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		logger := logging.LoggerFromContext(ctx)
		name := requestName(request)
		start := time.Now()

		response, err := next(ctx, request)

		elapsed := time.Since(start)
		if err != nil {
			logger.Error("command failed",
				"command", name,
				"duration", elapsed,
				"error", err,
			)
			return response, err
		}

		// Commands carry a discriminated status; queries do not.
		if statused, ok := response.(common.Statused); ok {
			logger.Info("command handled",
				"command", name,
				"status", string(statused.CommandStatus()),
				"duration", elapsed,
			)
		} else {
			logger.Debug("query handled",
				"query", name,
				"duration", elapsed,
			)
		}
		return response, nil
	}
}

// requestName reports the bare type name of a request:
// "*commands.AssignTaskCommand" becomes "AssignTaskCommand".
func requestName(request mediator.Request) string {
	if request == nil {
		return "unknown"
	}
	name := strings.TrimPrefix(reflect.TypeOf(request).String(), "*")
	if i := strings.LastIndex(name, "."); i >= 0 {
		name = name[i+1:]
	}
	return name
}
