package transaction

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// MetricsCollector receives engine telemetry.
type MetricsCollector interface {
	RecordOperationDuration(operation string, duration time.Duration)
	RecordTransaction(txType string, amount float64)
	RecordError(operation, errType string)
}

// NoopMetricsCollector discards all telemetry.
type NoopMetricsCollector struct{}

func (NoopMetricsCollector) RecordOperationDuration(string, time.Duration) {}
func (NoopMetricsCollector) RecordTransaction(string, float64)             {}
func (NoopMetricsCollector) RecordError(string, string)                    {}

// PrometheusCollector exports engine telemetry as prometheus metrics.
type PrometheusCollector struct {
	duration *prometheus.HistogramVec
	volume   *prometheus.CounterVec
	count    *prometheus.CounterVec
	errs     *prometheus.CounterVec
}

func NewPrometheusCollector(reg prometheus.Registerer) *PrometheusCollector {
	c := &PrometheusCollector{
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "transaction_operation_duration_seconds",
			Help:    "Duration of transaction engine operations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation"}),
		volume: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "transaction_volume_total",
			Help: "Total amount moved, by transaction type.",
		}, []string{"type"}),
		count: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "transactions_total",
			Help: "Number of completed transactions, by type.",
		}, []string{"type"}),
		errs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "transaction_errors_total",
			Help: "Number of failed operations, by operation and error kind.",
		}, []string{"operation", "error"}),
	}
	reg.MustRegister(c.duration, c.volume, c.count, c.errs)
	return c
}

func (c *PrometheusCollector) RecordOperationDuration(operation string, d time.Duration) {
	c.duration.WithLabelValues(operation).Observe(d.Seconds())
}

func (c *PrometheusCollector) RecordTransaction(txType string, amount float64) {
	c.count.WithLabelValues(txType).Inc()
	c.volume.WithLabelValues(txType).Add(amount)
}

func (c *PrometheusCollector) RecordError(operation, errType string) {
	c.errs.WithLabelValues(operation, errType).Inc()
}
