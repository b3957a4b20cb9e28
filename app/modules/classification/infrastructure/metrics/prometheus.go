package classificationmetrics

import (
	"context"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	classificationdomain "github.com/Brasil-Rental-Karts/brk-backend-sub002/app/modules/classification/domain"
)

// ClassificationMetrics implements the service, queue and handler metric
// interfaces over one prometheus registry.
type ClassificationMetrics struct {
	operationAttempts  *prometheus.CounterVec
	operationSuccesses *prometheus.CounterVec
	operationFailures  *prometheus.CounterVec
	operationDuration  *prometheus.HistogramVec
	recomputeStages    prometheus.Histogram
	handlerAttempts    *prometheus.CounterVec
	handlerSuccesses   *prometheus.CounterVec
	handlerFailures    *prometheus.CounterVec
	handlerDuration    *prometheus.HistogramVec
}

// NewClassificationMetrics registers the classification metric set on the
// given registry.
func NewClassificationMetrics(registry *prometheus.Registry) *ClassificationMetrics {
	m := &ClassificationMetrics{
		operationAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "classification_operation_attempts_total",
			Help: "Attempts per classification operation.",
		}, []string{"operation", "service"}),
		operationSuccesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "classification_operation_successes_total",
			Help: "Successful classification operations.",
		}, []string{"operation", "service"}),
		operationFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "classification_operation_failures_total",
			Help: "Failed classification operations.",
		}, []string{"operation", "service"}),
		operationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "classification_operation_duration_seconds",
			Help:    "Duration of classification operations.",
			Buckets: prometheus.DefBuckets,
		}, []string{"operation", "service"}),
		recomputeStages: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "classification_recompute_stages",
			Help:    "Counted stages per recomputed classification.",
			Buckets: []float64{0, 1, 2, 4, 8, 16, 32},
		}),
		handlerAttempts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "classification_handler_attempts_total",
			Help: "Messages received per handler.",
		}, []string{"handler"}),
		handlerSuccesses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "classification_handler_successes_total",
			Help: "Messages handled successfully per handler.",
		}, []string{"handler"}),
		handlerFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "classification_handler_failures_total",
			Help: "Messages failed per handler.",
		}, []string{"handler"}),
		handlerDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "classification_handler_duration_seconds",
			Help:    "Duration of message handling.",
			Buckets: prometheus.DefBuckets,
		}, []string{"handler"}),
	}

	if registry == nil {
		return m
	}
	registry.MustRegister(
		m.operationAttempts,
		m.operationSuccesses,
		m.operationFailures,
		m.operationDuration,
		m.recomputeStages,
		m.handlerAttempts,
		m.handlerSuccesses,
		m.handlerFailures,
		m.handlerDuration,
	)
	return m
}

// --- classificationservice.Metrics ---

func (m *ClassificationMetrics) RecordOperationAttempt(ctx context.Context, operation string, scope classificationdomain.Scope) {
	m.operationAttempts.WithLabelValues(operation, "classification").Inc()
}

func (m *ClassificationMetrics) RecordOperationSuccess(ctx context.Context, operation string, scope classificationdomain.Scope) {
	m.operationSuccesses.WithLabelValues(operation, "classification").Inc()
}

func (m *ClassificationMetrics) RecordOperationFailure(ctx context.Context, operation string, scope classificationdomain.Scope) {
	m.operationFailures.WithLabelValues(operation, "classification").Inc()
}

func (m *ClassificationMetrics) RecordOperationDuration(ctx context.Context, operation string, duration time.Duration) {
	m.operationDuration.WithLabelValues(operation, "classification").Observe(duration.Seconds())
}

func (m *ClassificationMetrics) RecordRecomputeStages(ctx context.Context, scope classificationdomain.Scope, stages int) {
	m.recomputeStages.Observe(float64(stages))
}

// --- classificationqueue.Metrics ---

// QueueMetrics adapts the same counters to the queue's (operation, service)
// label shape.
type QueueMetrics struct {
	parent *ClassificationMetrics
}

// Queue returns the queue-facing view of the metric set.
func (m *ClassificationMetrics) Queue() *QueueMetrics {
	return &QueueMetrics{parent: m}
}

func (q *QueueMetrics) RecordOperationAttempt(ctx context.Context, operation, service string) {
	q.parent.operationAttempts.WithLabelValues(operation, service).Inc()
}

func (q *QueueMetrics) RecordOperationSuccess(ctx context.Context, operation, service string) {
	q.parent.operationSuccesses.WithLabelValues(operation, service).Inc()
}

func (q *QueueMetrics) RecordOperationFailure(ctx context.Context, operation, service string) {
	q.parent.operationFailures.WithLabelValues(operation, service).Inc()
}

func (q *QueueMetrics) RecordOperationDuration(ctx context.Context, operation, service string, duration time.Duration) {
	q.parent.operationDuration.WithLabelValues(operation, service).Observe(duration.Seconds())
}

// --- classificationhandlers.Metrics ---

func (m *ClassificationMetrics) RecordHandlerAttempt(ctx context.Context, handlerName string) {
	m.handlerAttempts.WithLabelValues(handlerName).Inc()
}

func (m *ClassificationMetrics) RecordHandlerSuccess(ctx context.Context, handlerName string) {
	m.handlerSuccesses.WithLabelValues(handlerName).Inc()
}

func (m *ClassificationMetrics) RecordHandlerFailure(ctx context.Context, handlerName string) {
	m.handlerFailures.WithLabelValues(handlerName).Inc()
}

func (m *ClassificationMetrics) RecordHandlerDuration(ctx context.Context, handlerName string, duration time.Duration) {
	m.handlerDuration.WithLabelValues(handlerName).Observe(duration.Seconds())
}
