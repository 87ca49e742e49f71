// Package telemetry provides Prometheus metrics and OpenTelemetry tracing
// for the callguard pipeline.
package telemetry

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/hyunhan-cho/LT-GDG/internal/domain"
)

const serviceName = "callguard"

// Metrics holds all callguard Prometheus metrics
type Metrics struct {
	// Session metrics
	SessionsProcessed *prometheus.CounterVec
	SessionDuration   prometheus.Histogram
	BatchSize         prometheus.Histogram
	ActiveWorkers     prometheus.Gauge

	// Turn metrics
	TurnsProcessed *prometheus.CounterVec
	TurnsFailed    prometheus.Counter
	TurnRiskScore  prometheus.Histogram
	SpecialLabels  *prometheus.CounterVec

	// Learned classifier metrics
	ModelCalls        *prometheus.CounterVec
	ModelCallDuration prometheus.Histogram

	// Alert metrics
	AlertsRaised      *prometheus.CounterVec
	NotifierFailures  *prometheus.CounterVec
	StorageWriteFails *prometheus.CounterVec
}

// Provider wraps telemetry providers
type Provider struct {
	Tracer  trace.Tracer
	Metrics *Metrics
}

// NewProvider initializes telemetry with Prometheus metrics. Metrics register
// with the default registry, so call it once per process.
func NewProvider() *Provider {
	return &Provider{
		Tracer:  otel.Tracer(serviceName),
		Metrics: initMetrics(),
	}
}

// Handler returns the Prometheus HTTP handler for /metrics endpoint
func (p *Provider) Handler() http.Handler {
	return promhttp.Handler()
}

func initMetrics() *Metrics {
	m := &Metrics{}
	initSessionMetrics(m)
	initTurnMetrics(m)
	initModelMetrics(m)
	initAlertMetrics(m)
	return m
}

func initSessionMetrics(m *Metrics) {
	m.SessionsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "callguard_sessions_processed_total",
		Help: "Total sessions processed by outcome",
	}, []string{"outcome"})

	m.SessionDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "callguard_session_duration_seconds",
		Help:    "Time to analyze one session",
		Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0},
	})

	m.BatchSize = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "callguard_batch_size",
		Help:    "Number of sessions per batch",
		Buckets: []float64{1, 5, 10, 25, 50, 100},
	})

	m.ActiveWorkers = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "callguard_active_workers",
		Help: "Currently active session workers",
	})
}

func initTurnMetrics(m *Metrics) {
	m.TurnsProcessed = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "callguard_turns_processed_total",
		Help: "Total turns analyzed by label type",
	}, []string{"label_type"})

	m.TurnsFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "callguard_turns_failed_total",
		Help: "Total turns skipped after an internal failure",
	})

	m.TurnRiskScore = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "callguard_turn_risk_score",
		Help:    "Distribution of per-turn risk scores",
		Buckets: []float64{0.1, 0.2, 0.3, 0.4, 0.5, 0.6, 0.7, 0.8, 0.9, 1.0},
	})

	m.SpecialLabels = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "callguard_special_labels_total",
		Help: "Total customer turns per special label",
	}, []string{"label"})
}

func initModelMetrics(m *Metrics) {
	m.ModelCalls = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "callguard_model_calls_total",
		Help: "Learned classifier calls by outcome",
	}, []string{"outcome"})

	m.ModelCallDuration = promauto.NewHistogram(prometheus.HistogramOpts{
		Name:    "callguard_model_call_duration_seconds",
		Help:    "Learned classifier call latency",
		Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
	})
}

func initAlertMetrics(m *Metrics) {
	m.AlertsRaised = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "callguard_alerts_raised_total",
		Help: "Filtering events raised by severity",
	}, []string{"severity"})

	m.NotifierFailures = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "callguard_notifier_failures_total",
		Help: "Alert deliveries that failed by notifier",
	}, []string{"notifier"})

	m.StorageWriteFails = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "callguard_storage_write_failures_total",
		Help: "Result writes that failed by sink",
	}, []string{"sink"})
}

// RecordSession records one finished session
func (p *Provider) RecordSession(_ context.Context, failedTurns int, duration time.Duration) {
	outcome := "ok"
	if failedTurns > 0 {
		outcome = "partial"
	}
	p.Metrics.SessionsProcessed.WithLabelValues(outcome).Inc()
	p.Metrics.SessionDuration.Observe(duration.Seconds())
}

// RecordSessionFailure records a session that produced no result
func (p *Provider) RecordSessionFailure(_ context.Context) {
	p.Metrics.SessionsProcessed.WithLabelValues("failed").Inc()
}

// RecordTurn records one analyzed turn
func (p *Provider) RecordTurn(_ context.Context, labelType domain.LabelType, label domain.Label, riskScore float64) {
	p.Metrics.TurnsProcessed.WithLabelValues(string(labelType)).Inc()
	p.Metrics.TurnRiskScore.Observe(riskScore)
	if labelType == domain.LabelTypeSpecial {
		p.Metrics.SpecialLabels.WithLabelValues(string(label)).Inc()
	}
}

// RecordTurnFailure records a turn skipped after a failure
func (p *Provider) RecordTurnFailure(_ context.Context) {
	p.Metrics.TurnsFailed.Inc()
}

// RecordModelCall records a learned classifier call
func (p *Provider) RecordModelCall(_ context.Context, duration time.Duration, err error) {
	outcome := "ok"
	if err != nil {
		outcome = "error"
	}
	p.Metrics.ModelCalls.WithLabelValues(outcome).Inc()
	p.Metrics.ModelCallDuration.Observe(duration.Seconds())
}

// RecordAlert records a raised filtering event
func (p *Provider) RecordAlert(_ context.Context, severity string) {
	p.Metrics.AlertsRaised.WithLabelValues(severity).Inc()
}

// RecordNotifierFailure records a failed alert delivery
func (p *Provider) RecordNotifierFailure(_ context.Context, notifier string) {
	p.Metrics.NotifierFailures.WithLabelValues(notifier).Inc()
}

// RecordStorageFailure records a failed result write
func (p *Provider) RecordStorageFailure(_ context.Context, sink string) {
	p.Metrics.StorageWriteFails.WithLabelValues(sink).Inc()
}

// RecordBatchSize records the size of a processed batch
func (p *Provider) RecordBatchSize(size int) {
	p.Metrics.BatchSize.Observe(float64(size))
}

// SetActiveWorkers sets the current active worker count
func (p *Provider) SetActiveWorkers(count int) {
	p.Metrics.ActiveWorkers.Set(float64(count))
}

// StartSpan starts a new trace span.
// The caller is responsible for ending the span with span.End().
//
//nolint:spancheck // Caller is responsible for ending the span
func (p *Provider) StartSpan(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	ctx, span := p.Tracer.Start(ctx, name, trace.WithAttributes(attrs...))
	return ctx, span
}
