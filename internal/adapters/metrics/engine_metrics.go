package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Read outcome labels.
const (
	ReadAccepted  = "accepted"
	ReadDuplicate = "duplicate"
	ReadUnknown   = "unknown_epc"
	ReadRejected  = "rejected"
)

// EngineMetricsCollector handles the inventory counters: RFID read outcomes
// and snapshot table writes.
type EngineMetricsCollector struct {
	readsTotal     *prometheus.CounterVec
	snapshotWrites prometheus.Counter
}

// NewEngineMetricsCollector creates a new engine metrics collector
func NewEngineMetricsCollector() *EngineMetricsCollector {
	return &EngineMetricsCollector{
		readsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "rfid_reads_total",
				Help:      "Total RFID reads ingested by outcome",
			},
			[]string{"outcome"},
		),

		snapshotWrites: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: subsystem,
				Name:      "snapshot_writes_total",
				Help:      "Total writes to the snapshot table",
			},
		),
	}
}

// Register registers all engine metrics with the Prometheus registry
func (c *EngineMetricsCollector) Register() error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	metrics := []prometheus.Collector{
		c.readsTotal,
		c.snapshotWrites,
	}

	for _, metric := range metrics {
		if err := Registry.Register(metric); err != nil {
			return err
		}
	}

	return nil
}

// RecordRead records one ingested RFID read by outcome
func (c *EngineMetricsCollector) RecordRead(outcome string) {
	c.readsTotal.WithLabelValues(outcome).Inc()
}

// RecordSnapshotWrite records one snapshot table write
func (c *EngineMetricsCollector) RecordSnapshotWrite() {
	c.snapshotWrites.Inc()
}

// RegisterEngineGauges registers scrape-time gauges for the live workload:
// open replenishment tasks and in-transit receiving orders. The callbacks
// run at scrape time, so they must be cheap and safe to call concurrently.
func RegisterEngineGauges(openTasks, inTransitOrders func() float64) error {
	if Registry == nil {
		return nil // Metrics not enabled
	}

	taskGauge := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "open_tasks",
			Help:      "Replenishment tasks currently open (CREATED, ASSIGNED or IN_PROGRESS)",
		},
		openTasks,
	)
	if err := Registry.Register(taskGauge); err != nil {
		return err
	}

	orderGauge := prometheus.NewGaugeFunc(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "in_transit_orders",
			Help:      "Receiving orders currently IN_TRANSIT",
		},
		inTransitOrders,
	)
	return Registry.Register(orderGauge)
}
