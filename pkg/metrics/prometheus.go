package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recorder implements domain.repository.Metrics using Prometheus.
type Recorder struct {
	runsTotal    *prometheus.CounterVec
	signalsTotal *prometheus.CounterVec
	pathsTotal   prometheus.Counter
	skippedTrees prometheus.Counter
	errorsTotal  *prometheus.CounterVec
	published    *prometheus.CounterVec
	latency      *prometheus.HistogramVec
}

// New creates a new Prometheus metrics recorder.
func New() *Recorder {
	return &Recorder{
		runsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ruleforge_extraction_runs_total",
				Help: "Total number of extraction runs by outcome",
			},
			[]string{"outcome"},
		),
		signalsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ruleforge_signals_total",
				Help: "Total number of signals produced",
			},
			[]string{"direction", "strength"},
		),
		pathsTotal: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "ruleforge_decision_paths_total",
				Help: "Total number of decision paths walked",
			},
		),
		skippedTrees: promauto.NewCounter(
			prometheus.CounterOpts{
				Name: "ruleforge_skipped_trees_total",
				Help: "Total number of malformed trees skipped",
			},
		),
		errorsTotal: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ruleforge_errors_total",
				Help: "Total number of errors encountered",
			},
			[]string{"type"},
		),
		published: promauto.NewCounterVec(
			prometheus.CounterOpts{
				Name: "ruleforge_signals_published_total",
				Help: "Total number of signal sets published per sink",
			},
			[]string{"sink"},
		),
		latency: promauto.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "ruleforge_operation_duration_seconds",
				Help:    "Duration of operations in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"operation"},
		),
	}
}

// RecordRun records a completed extraction run.
func (r *Recorder) RecordRun(outcome string) {
	r.runsTotal.WithLabelValues(outcome).Inc()
}

// RecordSignal records a produced signal by direction and strength.
func (r *Recorder) RecordSignal(direction, strength string) {
	r.signalsTotal.WithLabelValues(direction, strength).Inc()
}

// RecordPaths records the number of decision paths walked in a run.
func (r *Recorder) RecordPaths(n int) {
	r.pathsTotal.Add(float64(n))
}

// RecordSkippedTrees records trees dropped as malformed.
func (r *Recorder) RecordSkippedTrees(n int) {
	r.skippedTrees.Add(float64(n))
}

// RecordError records an error occurrence.
func (r *Recorder) RecordError(kind string) {
	r.errorsTotal.WithLabelValues(kind).Inc()
}

// RecordPublished records a signal set handed to a sink.
func (r *Recorder) RecordPublished(sink string) {
	r.published.WithLabelValues(sink).Inc()
}

// RecordLatency records operation latency in seconds.
func (r *Recorder) RecordLatency(op string, seconds float64) {
	r.latency.WithLabelValues(op).Observe(seconds)
}
