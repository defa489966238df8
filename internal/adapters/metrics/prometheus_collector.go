package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const (
	// Namespace for all metrics
	namespace = "floorsense"
	// Subsystem for engine metrics
	subsystem = "engine"
)

var (
	// Registry is the global Prometheus registry for all metrics
	Registry *prometheus.Registry

	// globalEngineCollector is the singleton engine metrics collector
	// Set by SetGlobalEngineCollector() when metrics are enabled
	globalEngineCollector EngineMetricsRecorder
)

// EngineMetricsRecorder defines the interface for recording engine events
// from code that must not depend on a concrete collector
type EngineMetricsRecorder interface {
	RecordSnapshotWrite()
}

// InitRegistry initializes the Prometheus registry
// Should be called once at application startup if metrics are enabled
func InitRegistry() {
	Registry = prometheus.NewRegistry()
}

// GetRegistry returns the global Prometheus registry
// Returns nil if metrics are not initialized
func GetRegistry() *prometheus.Registry {
	return Registry
}

// IsEnabled returns true if metrics collection is enabled
func IsEnabled() bool {
	return Registry != nil
}

// SetGlobalEngineCollector sets the global engine metrics collector
// This should be called after the collector is created and registered
func SetGlobalEngineCollector(collector EngineMetricsRecorder) {
	globalEngineCollector = collector
}

// RecordSnapshotWrite records a snapshot table write globally
func RecordSnapshotWrite() {
	if globalEngineCollector != nil {
		globalEngineCollector.RecordSnapshotWrite()
	}
}
