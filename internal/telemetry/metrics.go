// Package telemetry provides Prometheus metrics for the tracker.
package telemetry

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the tracker's Prometheus collectors.
type Metrics struct {
	ObservationsPersisted prometheus.Counter
	FeedFetchErrors       prometheus.Counter
	IngestionDuration     prometheus.Histogram
	RetentionRowsDeleted  prometheus.Counter
	StoredObservations    prometheus.Gauge

	registry *prometheus.Registry
}

// NewMetrics creates and registers all tracker metrics on a fresh registry.
func NewMetrics() (*Metrics, error) {
	m := &Metrics{
		ObservationsPersisted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "flugtracker_observations_persisted_total",
			Help: "Total number of observations written to the store.",
		}),
		FeedFetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "flugtracker_feed_fetch_errors_total",
			Help: "Total number of failed feed fetches.",
		}),
		IngestionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "flugtracker_ingestion_cycle_duration_seconds",
			Help:    "Duration of one ingestion cycle.",
			Buckets: prometheus.DefBuckets,
		}),
		RetentionRowsDeleted: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "flugtracker_retention_rows_deleted_total",
			Help: "Total number of observations removed by retention sweeps.",
		}),
		StoredObservations: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "flugtracker_stored_observations",
			Help: "Current number of observations in the store.",
		}),
		registry: prometheus.NewRegistry(),
	}

	collectors := []prometheus.Collector{
		m.ObservationsPersisted,
		m.FeedFetchErrors,
		m.IngestionDuration,
		m.RetentionRowsDeleted,
		m.StoredObservations,
	}
	for _, c := range collectors {
		if err := m.registry.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// Registry returns the registry holding all tracker collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
