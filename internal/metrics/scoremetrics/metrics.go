// Package scoremetrics records leaderboard operation metrics.
package scoremetrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Failure kinds used as a label value.
const (
	FailureValidation = "validation"
	FailureStorage    = "storage"
	FailureInternal   = "internal"
	FailurePanic      = "panic"
)

// ScoreMetrics is implemented by PrometheusMetrics and NoOpMetrics.
type ScoreMetrics interface {
	RecordOperationAttempt(ctx context.Context, operation string)
	RecordOperationSuccess(ctx context.Context, operation string)
	RecordOperationFailure(ctx context.Context, operation string, kind string)
	RecordOperationDuration(ctx context.Context, operation string, duration time.Duration)
	RecordDBQueryDuration(ctx context.Context, query string, duration time.Duration)
	RecordScoresReturned(ctx context.Context, operation string, count int)
}

// PrometheusMetrics exports ScoreMetrics as Prometheus collectors.
type PrometheusMetrics struct {
	attempts        *prometheus.CounterVec
	successes       *prometheus.CounterVec
	failures        *prometheus.CounterVec
	duration        *prometheus.HistogramVec
	dbQueryDuration *prometheus.HistogramVec
	returned        *prometheus.HistogramVec
}

// NewPrometheusMetrics registers the score collectors on reg.
func NewPrometheusMetrics(reg prometheus.Registerer, namespace string) (*PrometheusMetrics, error) {
	m := &PrometheusMetrics{
		attempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scores",
			Name:      "operation_attempts_total",
			Help:      "Score operations started.",
		}, []string{"operation"}),
		successes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scores",
			Name:      "operation_success_total",
			Help:      "Score operations that returned a leaderboard.",
		}, []string{"operation"}),
		failures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scores",
			Name:      "operation_failures_total",
			Help:      "Score operations that failed, by kind.",
		}, []string{"operation", "kind"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scores",
			Name:      "operation_duration_seconds",
			Help:      "Duration of score operations.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		dbQueryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scores",
			Name:      "db_query_duration_seconds",
			Help:      "Duration of score database statements.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"query"}),
		returned: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "scores",
			Name:      "returned_rows",
			Help:      "Leaderboard rows returned per operation.",
			Buckets:   []float64{0, 1, 5, 10, 25, 50, 100, 250, 1000},
		}, []string{"operation"}),
	}

	for _, c := range []prometheus.Collector{m.attempts, m.successes, m.failures, m.duration, m.dbQueryDuration, m.returned} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

func (m *PrometheusMetrics) RecordOperationAttempt(ctx context.Context, operation string) {
	m.attempts.WithLabelValues(operation).Inc()
}

func (m *PrometheusMetrics) RecordOperationSuccess(ctx context.Context, operation string) {
	m.successes.WithLabelValues(operation).Inc()
}

func (m *PrometheusMetrics) RecordOperationFailure(ctx context.Context, operation string, kind string) {
	m.failures.WithLabelValues(operation, kind).Inc()
}

func (m *PrometheusMetrics) RecordOperationDuration(ctx context.Context, operation string, duration time.Duration) {
	m.duration.WithLabelValues(operation).Observe(duration.Seconds())
}

func (m *PrometheusMetrics) RecordDBQueryDuration(ctx context.Context, query string, duration time.Duration) {
	m.dbQueryDuration.WithLabelValues(query).Observe(duration.Seconds())
}

func (m *PrometheusMetrics) RecordScoresReturned(ctx context.Context, operation string, count int) {
	m.returned.WithLabelValues(operation).Observe(float64(count))
}

// NoOpMetrics discards everything.
type NoOpMetrics struct{}

func (NoOpMetrics) RecordOperationAttempt(context.Context, string)                 {}
func (NoOpMetrics) RecordOperationSuccess(context.Context, string)                 {}
func (NoOpMetrics) RecordOperationFailure(context.Context, string, string)         {}
func (NoOpMetrics) RecordOperationDuration(context.Context, string, time.Duration) {}
func (NoOpMetrics) RecordDBQueryDuration(context.Context, string, time.Duration)   {}
func (NoOpMetrics) RecordScoresReturned(context.Context, string, int)              {}

var (
	_ ScoreMetrics = (*PrometheusMetrics)(nil)
	_ ScoreMetrics = NoOpMetrics{}
)
