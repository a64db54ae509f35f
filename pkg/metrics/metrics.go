// Package metrics provides Prometheus metrics for the extractor
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome labels for FilingsTotal
const (
	OutcomeLoaded        = "loaded"
	OutcomeWithoutData   = "without_data"
	OutcomeFailed        = "failed"
	OutcomeSharesUpdated = "shares_updated"
	OutcomeUnchanged     = "unchanged"
)

// Metrics holds all Prometheus metrics for the extractor
type Metrics struct {
	FilingsTotal       *prometheus.CounterVec
	ExtractionDuration *prometheus.HistogramVec
	ValuesExtracted    *prometheus.CounterVec
	DbOperationsTotal  *prometheus.CounterVec
	FilingsInFlight    prometheus.Gauge

	StartTime time.Time
}

// New creates the metrics and registers them with reg.
// A nil registerer uses the default Prometheus registry.
func New(reg prometheus.Registerer) *Metrics {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	factory := promauto.With(reg)

	return &Metrics{
		FilingsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "filing_extract_filings_total",
				Help: "Total number of filings processed, by outcome",
			},
			[]string{"mode", "outcome"},
		),
		ExtractionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "filing_extract_extraction_duration_seconds",
				Help:    "Duration of statement extraction per filing",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"mode"},
		),
		ValuesExtracted: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "filing_extract_values_total",
				Help: "Total number of (label, value) pairs extracted",
			},
			[]string{"statement"},
		),
		DbOperationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "filing_extract_db_operations_total",
				Help: "Total number of database operations",
			},
			[]string{"operation", "status"},
		),
		FilingsInFlight: factory.NewGauge(
			prometheus.GaugeOpts{
				Name: "filing_extract_filings_in_flight",
				Help: "Number of filings currently being processed",
			},
		),
		StartTime: time.Now(),
	}
}

// RecordFiling counts one processed filing
func (m *Metrics) RecordFiling(mode, outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.FilingsTotal.WithLabelValues(mode, outcome).Inc()
	m.ExtractionDuration.WithLabelValues(mode).Observe(duration.Seconds())
}

// RecordValues counts the pairs extracted for one statement
func (m *Metrics) RecordValues(statement string, n int) {
	if m == nil {
		return
	}
	m.ValuesExtracted.WithLabelValues(statement).Add(float64(n))
}

// RecordDbOperation counts one database call
func (m *Metrics) RecordDbOperation(operation string, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.DbOperationsTotal.WithLabelValues(operation, status).Inc()
}

// Handler serves the default registry in the Prometheus text format
func Handler() http.Handler {
	return promhttp.Handler()
}
