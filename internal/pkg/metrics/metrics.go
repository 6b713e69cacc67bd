// Package metrics holds the Prometheus collectors of the service.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type Metrics struct {
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec

	OrdersPlaced     prometheus.Counter
	OrderTransitions *prometheus.CounterVec
	StockMovements   *prometheus.CounterVec
	WasteDecisions   *prometheus.CounterVec
	OutboxPublished  prometheus.Counter
	OutboxFailed     prometheus.Counter
	OrdersExpired    prometheus.Counter
	JobDuration      *prometheus.HistogramVec
}

// New registers every collector on reg, prefixing names with namespace.
func New(reg prometheus.Registerer, namespace string) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		HTTPRequestsTotal: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),
		HTTPRequestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "path", "status"}),
		OrdersPlaced: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_placed_total",
			Help:      "Orders created at checkout",
		}),
		OrderTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "order_transitions_total",
			Help:      "Order status changes by target status",
		}, []string{"status"}),
		StockMovements: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "stock_movements_total",
			Help:      "Manual stock movements by type",
		}, []string{"type"}),
		WasteDecisions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "waste_decisions_total",
			Help:      "Waste entries approved or rejected",
		}, []string{"decision"}),
		OutboxPublished: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_published_total",
			Help:      "Outbox messages delivered to the broker",
		}),
		OutboxFailed: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "outbox_failed_total",
			Help:      "Outbox publish attempts that failed",
		}),
		OrdersExpired: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "orders_expired_total",
			Help:      "Unpaid orders cancelled by the expiry job",
		}),
		JobDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "job_duration_seconds",
			Help:      "Duration of scheduled job runs",
			Buckets:   prometheus.DefBuckets,
		}, []string{"job"}),
	}
}

// ObserveJob returns a func that records the elapsed time of one job run.
func (m *Metrics) ObserveJob(job string) func() {
	start := time.Now()
	return func() {
		m.JobDuration.WithLabelValues(job).Observe(time.Since(start).Seconds())
	}
}
