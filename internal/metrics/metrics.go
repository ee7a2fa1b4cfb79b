// Package metrics records operation counts and inventory gauges in a private
// Prometheus registry. A CLI session has no scrape endpoint, so the registry
// is flushed to a node_exporter textfile when the session ends.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/shopspring/decimal"
)

const namespace = "insumos"

// Result label values.
const (
	ResultOK    = "ok"
	ResultError = "error"
)

// Recorder holds the collectors of one process.
type Recorder struct {
	registry *prometheus.Registry

	operations     *prometheus.CounterVec
	duration       *prometheus.HistogramVec
	writeFailures  *prometheus.CounterVec
	inventoryItems prometheus.Gauge
	inventoryValue prometheus.Gauge
	usageRecords   prometheus.Counter
}

// New creates a Recorder with its own registry.
func New() *Recorder {
	r := &Recorder{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "operations_total",
			Help:      "Inventory operations by name and result.",
		}, []string{"operation", "result"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "operation_duration_seconds",
			Help:      "Duration of inventory operations, including persistence.",
			Buckets:   prometheus.ExponentialBuckets(0.0005, 4, 8),
		}, []string{"operation"}),
		writeFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "write_through_failures_total",
			Help:      "Failed writes to a replica of the inventory.",
		}, []string{"replica"}),
		inventoryItems: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "inventory_items",
			Help:      "Number of distinct supplies in the inventory.",
		}),
		inventoryValue: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "inventory_value",
			Help:      "Total cost of the inventory (quantity times unit price).",
		}),
		usageRecords: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "usage_records_total",
			Help:      "Usage records persisted.",
		}),
	}

	r.registry.MustRegister(
		r.operations,
		r.duration,
		r.writeFailures,
		r.inventoryItems,
		r.inventoryValue,
		r.usageRecords,
	)
	return r
}

// Observe records one operation outcome.
func (r *Recorder) Observe(operation string, err error, elapsed time.Duration) {
	result := ResultOK
	if err != nil {
		result = ResultError
	}
	r.operations.WithLabelValues(operation, result).Inc()
	r.duration.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// WriteFailed counts a failed write to replica ("database" or "file").
func (r *Recorder) WriteFailed(replica string) {
	r.writeFailures.WithLabelValues(replica).Inc()
}

// SetInventory updates the inventory gauges.
func (r *Recorder) SetInventory(items int, value decimal.Decimal) {
	r.inventoryItems.Set(float64(items))
	r.inventoryValue.Set(value.InexactFloat64())
}

// UsageRecorded counts n persisted usage records.
func (r *Recorder) UsageRecorded(n int) {
	r.usageRecords.Add(float64(n))
}

// Registry exposes the underlying registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// WriteTextfile writes the current metrics to path in the text exposition
// format, atomically, for the node_exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	return prometheus.WriteToTextfile(path, r.registry)
}
