package saga

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics exposes saga engine counters to Prometheus. All methods are safe on
// a nil receiver so components can run unobserved in tests.
type Metrics struct {
	sagasStarted  prometheus.Counter
	sagaOutcomes  *prometheus.CounterVec
	stepAttempts  *prometheus.CounterVec
	compensations *prometheus.CounterVec
	sagaDuration  prometheus.Histogram
}

// NewMetrics registers the saga metrics with reg. Pass
// prometheus.DefaultRegisterer in production wiring.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		sagasStarted: factory.NewCounter(prometheus.CounterOpts{
			Name: "order_sagas_started_total",
			Help: "Total sagas started",
		}),
		sagaOutcomes: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "order_sagas_finished_total",
			Help: "Total sagas by terminal outcome",
		}, []string{"outcome"}),
		stepAttempts: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "order_saga_step_attempts_total",
			Help: "Total step invocation attempts by step name",
		}, []string{"step"}),
		compensations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "order_saga_compensations_total",
			Help: "Total compensating calls by result",
		}, []string{"result"}),
		sagaDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "order_saga_duration_seconds",
			Help:    "Saga execution duration",
			Buckets: []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
		}),
	}
}

func (m *Metrics) observeSagaStarted() {
	if m == nil {
		return
	}
	m.sagasStarted.Inc()
}

func (m *Metrics) observeStepAttempt(step string) {
	if m == nil {
		return
	}
	m.stepAttempts.WithLabelValues(step).Inc()
}

// ObserveOutcome records a terminal saga outcome and its duration
func (m *Metrics) ObserveOutcome(outcome string, duration time.Duration) {
	if m == nil {
		return
	}
	m.sagaOutcomes.WithLabelValues(outcome).Inc()
	m.sagaDuration.Observe(duration.Seconds())
}

// ObserveUnwind records an unwind report's executed and failed compensations
func (m *Metrics) ObserveUnwind(report UnwindReport) {
	if m == nil {
		return
	}
	m.compensations.WithLabelValues("executed").Add(float64(len(report.Executed)))
	m.compensations.WithLabelValues("failed").Add(float64(len(report.Failures)))
}
