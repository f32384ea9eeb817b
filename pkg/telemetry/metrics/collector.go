package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"osauth/keyruled/pkg/config"
)

// Collector owns the Prometheus registry and all keyruled metrics.
type Collector struct {
	registry *prometheus.Registry

	reloadsTotal       prometheus.Counter
	reloadDuration     prometheus.Histogram
	ruleFilesLoaded    prometheus.Gauge
	compileErrorsTotal prometheus.Counter

	evaluationsTotal   *prometheus.CounterVec
	evaluationDuration *prometheus.HistogramVec
	noDecisionTotal    *prometheus.CounterVec
}

// NewCollector creates and registers all metrics. A nil registry creates a
// private one, which is the common case.
func NewCollector(cfg config.MetricsConfig, registry *prometheus.Registry) *Collector {
	if registry == nil {
		registry = prometheus.NewRegistry()
	}

	namespace := cfg.Namespace
	if namespace == "" {
		namespace = config.DefaultMetricsNamespace
	}

	c := &Collector{
		registry: registry,

		reloadsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rule_reloads_total",
			Help:      "Total number of completed rule chain reloads",
		}),

		reloadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "rule_reload_duration_seconds",
			Help:      "Duration of rule chain reloads in seconds",
			Buckets:   prometheus.ExponentialBuckets(0.0001, 4, 10), // 100µs to ~26s
		}),

		ruleFilesLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "rule_files_loaded",
			Help:      "Number of rule files in the active chain",
		}),

		compileErrorsTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rule_compile_errors_total",
			Help:      "Total number of rule files skipped due to compile errors",
		}),

		evaluationsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluations_total",
			Help:      "Total number of rule evaluations by ruleset and outcome",
		}, []string{"ruleset", "outcome"}),

		evaluationDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "evaluation_duration_seconds",
			Help:      "Duration of rule evaluations in seconds",
			// Evaluations walk an in-memory chain and should stay well
			// under a millisecond.
			Buckets: prometheus.ExponentialBuckets(0.000001, 2, 12), // 1µs to ~4ms
		}, []string{"ruleset"}),

		noDecisionTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "evaluation_no_decision_total",
			Help:      "Total number of evaluations where no rule decided",
		}, []string{"ruleset"}),
	}

	registry.MustRegister(
		c.reloadsTotal,
		c.reloadDuration,
		c.ruleFilesLoaded,
		c.compileErrorsTotal,
		c.evaluationsTotal,
		c.evaluationDuration,
		c.noDecisionTotal,
	)

	return c
}

// ObserveReload records one completed reload.
func (c *Collector) ObserveReload(duration time.Duration, filesLoaded int) {
	c.reloadsTotal.Inc()
	c.reloadDuration.Observe(duration.Seconds())
	c.ruleFilesLoaded.Set(float64(filesLoaded))
}

// IncCompileError records one rule file skipped during aggregation.
func (c *Collector) IncCompileError() {
	c.compileErrorsTotal.Inc()
}

// ObserveEvaluation records one decided evaluation.
func (c *Collector) ObserveEvaluation(ruleset, outcome string, duration time.Duration) {
	c.evaluationsTotal.WithLabelValues(ruleset, outcome).Inc()
	c.evaluationDuration.WithLabelValues(ruleset).Observe(duration.Seconds())
}

// ObserveNoDecision records one evaluation that fell through every rule.
func (c *Collector) ObserveNoDecision(ruleset string, duration time.Duration) {
	c.noDecisionTotal.WithLabelValues(ruleset).Inc()
	c.evaluationDuration.WithLabelValues(ruleset).Observe(duration.Seconds())
}

// Registry returns the underlying Prometheus registry.
func (c *Collector) Registry() *prometheus.Registry {
	return c.registry
}
