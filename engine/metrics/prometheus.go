// Package metrics provides Prometheus metrics export for the analysis
// engine.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Exporter exports engine metrics in Prometheus format.
type Exporter struct {
	registry *prometheus.Registry

	// Analysis pipeline metrics
	runDuration *prometheus.HistogramVec
	runTotal    *prometheus.CounterVec

	// Scheduler metrics
	slotsAssigned   prometheus.Counter
	slotsUnassigned prometheus.Counter

	// Notification metrics
	alertsEnqueued *prometheus.CounterVec
	alertsDropped  prometheus.Counter
}

// Config configures the exporter.
type Config struct {
	// Registry to use (if nil, creates a new one)
	Registry *prometheus.Registry

	// Buckets for run duration histograms (in seconds)
	DurationBuckets []float64
}

// DefaultConfig returns default exporter configuration.
func DefaultConfig() Config {
	return Config{
		DurationBuckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}
}

// NewExporter creates a new Prometheus metrics exporter.
func NewExporter(cfg Config) *Exporter {
	if len(cfg.DurationBuckets) == 0 {
		cfg.DurationBuckets = DefaultConfig().DurationBuckets
	}
	registry := cfg.Registry
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	e := &Exporter{
		registry: registry,
		runDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "fitflow_analysis_run_duration_seconds",
			Help:    "Duration of analysis pipeline runs.",
			Buckets: cfg.DurationBuckets,
		}, []string{"status"}),
		runTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fitflow_analysis_runs_total",
			Help: "Total analysis pipeline runs by status.",
		}, []string{"status"}),
		slotsAssigned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fitflow_scheduler_slots_assigned_total",
			Help: "Workout slot requests that received a free slot.",
		}),
		slotsUnassigned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fitflow_scheduler_slots_unassigned_total",
			Help: "Workout slot requests left unassigned (no free slot in window).",
		}),
		alertsEnqueued: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "fitflow_alerts_enqueued_total",
			Help: "Alerts handed to the notification queue by kind.",
		}, []string{"kind"}),
		alertsDropped: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fitflow_alerts_dropped_total",
			Help: "Alerts dropped because the notification queue was full.",
		}),
	}

	registry.MustRegister(
		e.runDuration,
		e.runTotal,
		e.slotsAssigned,
		e.slotsUnassigned,
		e.alertsEnqueued,
		e.alertsDropped,
	)
	return e
}

// ObserveRun records one pipeline run.
func (e *Exporter) ObserveRun(status string, elapsed time.Duration) {
	e.runTotal.WithLabelValues(status).Inc()
	e.runDuration.WithLabelValues(status).Observe(elapsed.Seconds())
}

// ObservePlacements records scheduler outcomes.
func (e *Exporter) ObservePlacements(assigned, unassigned int) {
	e.slotsAssigned.Add(float64(assigned))
	e.slotsUnassigned.Add(float64(unassigned))
}

// ObserveAlert records an alert enqueue attempt.
func (e *Exporter) ObserveAlert(kind string, accepted bool) {
	e.alertsEnqueued.WithLabelValues(kind).Inc()
	if !accepted {
		e.alertsDropped.Inc()
	}
}

// Handler returns the scrape handler backed by this exporter's registry.
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}
