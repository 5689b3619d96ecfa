package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all application metrics
type Metrics struct {
	// HTTP metrics
	RequestDuration *prometheus.HistogramVec
	RequestTotal    *prometheus.CounterVec

	// Booking metrics
	BookingsTotal     *prometheus.CounterVec
	ConflictsDetected prometheus.Counter

	// Generative upstream metrics
	ExtractionsTotal  *prometheus.CounterVec
	CompositionsTotal *prometheus.CounterVec
	UpstreamLatency   *prometheus.HistogramVec
	UpstreamRetries   *prometheus.CounterVec
}

// New creates and registers all application metrics
func New(namespace string) *Metrics {
	return &Metrics{
		RequestDuration: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests in seconds",
			Buckets:   []float64{.005, .01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		}, []string{"method", "path", "status"}),
		RequestTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "requests_total",
			Help:      "Total number of HTTP requests",
		}, []string{"method", "path", "status"}),

		BookingsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "bookings_total",
			Help:      "Total number of booking attempts by outcome",
		}, []string{"outcome"}),
		ConflictsDetected: promauto.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "booking_conflicts_total",
			Help:      "Total number of bookings rejected for schedule conflicts",
		}),

		ExtractionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "extractions_total",
			Help:      "Total number of transcript extractions by status",
		}, []string{"status"}),
		CompositionsTotal: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "compositions_total",
			Help:      "Total number of prescription compositions by status",
		}, []string{"status"}),
		UpstreamLatency: promauto.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upstream_request_duration_seconds",
			Help:      "Duration of generative upstream calls",
			Buckets:   []float64{.05, .1, .25, .5, 1, 2.5, 5, 10, 30},
		}, []string{"operation"}),
		UpstreamRetries: promauto.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "upstream_retry_attempts_total",
			Help:      "Total number of retried generative upstream calls",
		}, []string{"operation"}),
	}
}

// Recording helpers are nil-safe so services can run without metrics in tests.

func (m *Metrics) RecordBooking(outcome string) {
	if m == nil {
		return
	}
	m.BookingsTotal.WithLabelValues(outcome).Inc()
	if outcome == "conflict" {
		m.ConflictsDetected.Inc()
	}
}

func (m *Metrics) RecordExtraction(status string) {
	if m == nil {
		return
	}
	m.ExtractionsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) RecordComposition(status string) {
	if m == nil {
		return
	}
	m.CompositionsTotal.WithLabelValues(status).Inc()
}

func (m *Metrics) ObserveUpstream(operation string, d time.Duration) {
	if m == nil {
		return
	}
	m.UpstreamLatency.WithLabelValues(operation).Observe(d.Seconds())
}

func (m *Metrics) RecordUpstreamRetry(operation string) {
	if m == nil {
		return
	}
	m.UpstreamRetries.WithLabelValues(operation).Inc()
}
