// Package metrics provides Prometheus metrics for card-list runs.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the cube tools.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	// Run metrics
	RunsTotal   *prometheus.CounterVec
	RunDuration *prometheus.HistogramVec
	RunsActive  prometheus.Gauge

	// Card lookup metrics
	CardFetchesTotal  *prometheus.CounterVec
	CardFetchDuration prometheus.Histogram

	// Output metrics
	CardListRows   prometheus.Gauge
	LastRunSuccess prometheus.Gauge
}

// New creates all metrics on a private registry, so tests and multiple
// servers in one process never collide on registration.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	m := &Metrics{Registry: reg}

	m.RunsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cube_runs_total",
			Help: "Total number of card list runs",
		},
		[]string{"action", "status"},
	)

	m.RunDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "cube_run_duration_seconds",
			Help:    "Duration of card list runs in seconds",
			Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120, 300},
		},
		[]string{"action"},
	)

	m.RunsActive = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "cube_runs_active",
			Help: "Number of card list runs currently executing",
		},
	)

	m.CardFetchesTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "cube_card_fetches_total",
			Help: "Total number of card metadata lookups",
		},
		[]string{"status"},
	)

	m.CardFetchDuration = factory.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "cube_card_fetch_duration_seconds",
			Help:    "Duration of card metadata lookups in seconds",
			Buckets: prometheus.DefBuckets,
		},
	)

	m.CardListRows = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "cube_card_list_rows",
			Help: "Number of data rows written to the card list by the last update",
		},
	)

	m.LastRunSuccess = factory.NewGauge(
		prometheus.GaugeOpts{
			Name: "cube_last_run_success",
			Help: "1 if the last run succeeded, 0 otherwise",
		},
	)

	return m
}

// RunStarted marks a run as in flight.
func (m *Metrics) RunStarted() {
	if m == nil {
		return
	}
	m.RunsActive.Inc()
}

// RunFinished records the outcome of a run.
func (m *Metrics) RunFinished(action string, d time.Duration, err error) {
	if m == nil {
		return
	}
	m.RunsActive.Dec()
	m.RunDuration.WithLabelValues(action).Observe(d.Seconds())
	if err != nil {
		m.RunsTotal.WithLabelValues(action, "error").Inc()
		m.LastRunSuccess.Set(0)
		return
	}
	m.RunsTotal.WithLabelValues(action, "ok").Inc()
	m.LastRunSuccess.Set(1)
}

// CardFetched records one metadata lookup.
func (m *Metrics) CardFetched(d time.Duration, err error) {
	if m == nil {
		return
	}
	m.CardFetchDuration.Observe(d.Seconds())
	status := "ok"
	if err != nil {
		status = "error"
	}
	m.CardFetchesTotal.WithLabelValues(status).Inc()
}

// RowsWritten records the size of the card list after an update.
func (m *Metrics) RowsWritten(n int) {
	if m == nil {
		return
	}
	m.CardListRows.Set(float64(n))
}
