// Package metrics provides the centralized Prometheus registry for the
// ranking engine.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	RunsTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rank_engine",
		Name:      "runs_total",
		Help:      "Total number of ranking runs started",
	})
	RunFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rank_engine",
		Name:      "run_failures_total",
		Help:      "Total number of ranking runs aborted before publishing",
	})
	PartitionsComputedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rank_engine",
		Name:      "partitions_computed_total",
		Help:      "Total number of (sport, bet type) partitions published",
	})
	PartitionFailuresTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rank_engine",
		Name:      "partition_failures_total",
		Help:      "Total number of partitions that failed and kept their previous snapshot",
	})
	RecordsSkippedTotal = prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: "rank_engine",
		Name:      "records_skipped_total",
		Help:      "Total number of outcome records excluded by integrity checks",
	})
)

// Gauge metrics
var (
	EligibleModels = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "rank_engine",
		Name:      "eligible_models",
		Help:      "Number of ensemble-eligible models per partition",
	}, []string{"sport", "bet_type"})
	EnsembleWeight = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: "rank_engine",
		Name:      "ensemble_weight",
		Help:      "Published ensemble weight per model and partition",
	}, []string{"sport", "bet_type", "model"})
	LastRunTimestamp = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: "rank_engine",
		Name:      "last_run_timestamp_seconds",
		Help:      "Unix timestamp of the last completed ranking run",
	})
)

// Histogram metrics
var (
	RunDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "rank_engine",
		Name:      "run_duration_seconds",
		Help:      "Duration of full ranking runs in seconds",
		Buckets:   []float64{1, 5, 10, 30, 60, 300, 600, 1800},
	})
	PartitionDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: "rank_engine",
		Name:      "partition_duration_seconds",
		Help:      "Duration of single partition computations in seconds",
		Buckets:   prometheus.DefBuckets,
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		registry.MustRegister(RunsTotal)
		registry.MustRegister(RunFailuresTotal)
		registry.MustRegister(PartitionsComputedTotal)
		registry.MustRegister(PartitionFailuresTotal)
		registry.MustRegister(RecordsSkippedTotal)

		registry.MustRegister(EligibleModels)
		registry.MustRegister(EnsembleWeight)
		registry.MustRegister(LastRunTimestamp)

		registry.MustRegister(RunDuration)
		registry.MustRegister(PartitionDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	if registry == nil {
		return InitRegistry()
	}
	return registry
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordRunStarted records the start of a ranking run.
func RecordRunStarted() {
	RunsTotal.Inc()
}

// RecordRunFailed records an aborted ranking run.
func RecordRunFailed() {
	RunFailuresTotal.Inc()
}

// RecordRunCompleted records a finished run and its duration.
func RecordRunCompleted(durationSeconds float64, completedAtUnix float64) {
	RunDuration.Observe(durationSeconds)
	LastRunTimestamp.Set(completedAtUnix)
}

// RecordPartitionPublished records a successfully published partition.
func RecordPartitionPublished(durationSeconds float64) {
	PartitionsComputedTotal.Inc()
	PartitionDuration.Observe(durationSeconds)
}

// RecordPartitionFailed records a failed partition.
func RecordPartitionFailed() {
	PartitionFailuresTotal.Inc()
}

// RecordRecordsSkipped records outcome records excluded by integrity checks.
func RecordRecordsSkipped(count int) {
	RecordsSkippedTotal.Add(float64(count))
}

// UpdateEnsembleGauges publishes weight gauges for a partition.
func UpdateEnsembleGauges(sport, betType string, weights map[string]float64) {
	EligibleModels.WithLabelValues(sport, betType).Set(float64(len(weights)))
	for model, weight := range weights {
		EnsembleWeight.WithLabelValues(sport, betType, model).Set(weight)
	}
}
