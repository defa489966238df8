package metrics

import (
	"context"
	"reflect"
	"strings"
	"time"

	"github.com/andrescamacho/floorsense-go/internal/application/common"
	"github.com/andrescamacho/floorsense-go/internal/application/mediator"
)

// PrometheusMiddleware creates a middleware that records command execution metrics
//
// This middleware wraps all command/query execution and records:
// - Execution duration (histogram)
// - Totals per command and discriminated status (counter)
// - RFID read outcomes (accepted/duplicate/unknown/rejected)
//
// Command names are extracted via reflection and simplified to remove package prefixes.
// For example: "*commands.AssignTaskCommand" becomes "AssignTaskCommand"
func PrometheusMiddleware(commands *CommandMetricsCollector, engine *EngineMetricsCollector) mediator.Middleware {
	return func(ctx context.Context, request mediator.Request, next mediator.HandlerFunc) (mediator.Response, error) {
		// Skip metrics if collector is nil (metrics disabled)
		if commands == nil {
			return next(ctx, request)
		}

		// Extract command name via reflection
		commandName := extractCommandName(request)

		// Start timer
		start := time.Now()

		// Execute command/query
		response, err := next(ctx, request)

		// Record metrics
		duration := time.Since(start).Seconds()
		status := "ok"
		if err != nil {
			status = "error"
		} else if statused, ok := response.(common.Statused); ok {
			status = string(statused.CommandStatus())
		}
		commands.RecordCommandExecution(commandName, duration, status)

		if engine != nil && err == nil && commandName == "IngestRFIDReadCommand" {
			engine.RecordRead(readOutcome(common.Status(status)))
		}

		return response, err
	}
}

// readOutcome folds the ingest statuses into the read counter labels.
func readOutcome(status common.Status) string {
	switch status {
	case common.StatusAccepted:
		return ReadAccepted
	case common.StatusDuplicateIgnored:
		return ReadDuplicate
	case common.StatusUnknownEPC:
		return ReadUnknown
	default:
		return ReadRejected
	}
}

// extractCommandName extracts a clean command name from the request using reflection
// Examples:
//   - "*commands.AssignTaskCommand" → "AssignTaskCommand"
//   - "*queries.GetDashboardQuery" → "GetDashboardQuery"
//   - "*ingestCommands.IngestRFIDReadCommand" → "IngestRFIDReadCommand"
func extractCommandName(request mediator.Request) string {
	if request == nil {
		return "UnknownCommand"
	}

	// Get the type via reflection
	requestType := reflect.TypeOf(request)

	// Get the full type name (e.g., "*commands.AssignTaskCommand")
	fullName := requestType.String()

	// Remove pointer prefix if present
	fullName = strings.TrimPrefix(fullName, "*")

	// Split by '.' to separate package from type name
	parts := strings.Split(fullName, ".")

	// Return the last part (the actual command/query name)
	if len(parts) > 0 {
		return parts[len(parts)-1]
	}

	return fullName
}
