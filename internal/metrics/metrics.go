package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Lookup names used as label values.
const (
	LookupBlockTime  = "block_time"
	LookupFundingPot = "funding_pot"
	LookupPayment    = "payment"
)

// Metrics records pipeline activity in a private Prometheus registry.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	logsFetched  *prometheus.CounterVec
	fetchLatency *prometheus.HistogramVec
	recordsBuilt *prometheus.CounterVec
	lookups      *prometheus.CounterVec
	feedBuilds   *prometheus.CounterVec
	feedLatency  prometheus.Histogram
	feedSize     prometheus.Gauge
}

// New creates Metrics registered under namespace.
func New(namespace string) *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		logsFetched: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "logs_fetched_total",
				Help:      "Raw logs returned by eth_getLogs per event kind",
			},
			[]string{"kind"},
		),
		fetchLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "fetch_latency_seconds",
				Help:      "Time spent in eth_getLogs per event kind",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			},
			[]string{"kind"},
		),
		recordsBuilt: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "records_built_total",
				Help:      "Normalized records produced per event kind",
			},
			[]string{"kind"},
		),
		lookups: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "lookups_total",
				Help:      "Enrichment lookups against the ledger",
			},
			[]string{"lookup", "result"},
		),
		feedBuilds: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "feed_builds_total",
				Help:      "Feed aggregations by result",
			},
			[]string{"result"},
		),
		feedLatency: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "feed_latency_seconds",
				Help:      "End-to-end feed aggregation time",
				Buckets:   []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120},
			},
		),
		feedSize: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "feed_records",
				Help:      "Records in the most recent successful feed",
			},
		),
	}

	m.registry.MustRegister(
		m.logsFetched,
		m.fetchLatency,
		m.recordsBuilt,
		m.lookups,
		m.feedBuilds,
		m.feedLatency,
		m.feedSize,
	)
	return m
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{
		Registry: m.registry,
	})
}

func (m *Metrics) ObserveFetch(kind string, latency time.Duration, logs int) {
	if m == nil {
		return
	}
	m.fetchLatency.WithLabelValues(kind).Observe(latency.Seconds())
	m.logsFetched.WithLabelValues(kind).Add(float64(logs))
}

func (m *Metrics) AddRecords(kind string, count int) {
	if m == nil {
		return
	}
	m.recordsBuilt.WithLabelValues(kind).Add(float64(count))
}

func (m *Metrics) ObserveLookup(lookup string, err error) {
	if m == nil {
		return
	}
	m.lookups.WithLabelValues(lookup, result(err)).Inc()
}

func (m *Metrics) ObserveFeed(latency time.Duration, records int, err error) {
	if m == nil {
		return
	}
	m.feedBuilds.WithLabelValues(result(err)).Inc()
	m.feedLatency.Observe(latency.Seconds())
	if err == nil {
		m.feedSize.Set(float64(records))
	}
}

func result(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
