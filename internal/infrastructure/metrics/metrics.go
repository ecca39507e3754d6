package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Lookup outcomes.
const (
	LookupHit      = "hit"
	LookupMiss     = "miss"
	LookupError    = "error"
	LookupCacheHit = "cache_hit"
)

// Metrics provides observability for the scan relay. All methods are safe to
// call on a nil receiver.
type Metrics struct {
	registry *prometheus.Registry

	// Scans accepted, by classified data type
	ScansIngested *prometheus.CounterVec

	// Lookup outcomes and latency
	LookupOutcome *prometheus.CounterVec
	LookupLatency prometheus.Histogram

	// Broadcast fan-out
	DeliveriesAttempted prometheus.Counter
	DeliveriesSucceeded prometheus.Counter
	Broadcasts          prometheus.Counter

	// Currently registered viewer sessions
	ConnectedSessions prometheus.Gauge
}

// New creates a Metrics instance backed by its own registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,

		ScansIngested: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scan_relay_scans_ingested_total",
			Help: "Total scan submissions accepted, by data type",
		}, []string{"data_type"}),

		LookupOutcome: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "scan_relay_lookup_outcomes_total",
			Help: "Enrichment lookup outcomes",
		}, []string{"outcome"}), // outcome: "hit", "miss", "error", "cache_hit"

		LookupLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "scan_relay_lookup_duration_seconds",
			Help:    "Duration of enrichment lookups including cache",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),

		DeliveriesAttempted: factory.NewCounter(prometheus.CounterOpts{
			Name: "scan_relay_deliveries_attempted_total",
			Help: "Per-session delivery attempts across all broadcasts",
		}),

		DeliveriesSucceeded: factory.NewCounter(prometheus.CounterOpts{
			Name: "scan_relay_deliveries_succeeded_total",
			Help: "Per-session deliveries queued successfully",
		}),

		Broadcasts: factory.NewCounter(prometheus.CounterOpts{
			Name: "scan_relay_broadcasts_total",
			Help: "Broadcast passes performed",
		}),

		ConnectedSessions: factory.NewGauge(prometheus.GaugeOpts{
			Name: "scan_relay_connected_sessions",
			Help: "Viewer sessions currently registered",
		}),
	}
}

// IncrementScan records an accepted scan.
func (m *Metrics) IncrementScan(dataType string) {
	if m != nil {
		m.ScansIngested.WithLabelValues(dataType).Inc()
	}
}

// ObserveLookup records a lookup outcome and its duration.
func (m *Metrics) ObserveLookup(outcome string, d time.Duration) {
	if m != nil {
		m.LookupOutcome.WithLabelValues(outcome).Inc()
		m.LookupLatency.Observe(d.Seconds())
	}
}

// ObserveBroadcast records the result of one broadcast pass.
func (m *Metrics) ObserveBroadcast(attempted, succeeded int) {
	if m != nil {
		m.Broadcasts.Inc()
		m.DeliveriesAttempted.Add(float64(attempted))
		m.DeliveriesSucceeded.Add(float64(succeeded))
	}
}

// SetConnectedSessions records the current registry size.
func (m *Metrics) SetConnectedSessions(n int) {
	if m != nil {
		m.ConnectedSessions.Set(float64(n))
	}
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
