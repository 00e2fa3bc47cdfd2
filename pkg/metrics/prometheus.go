// Package metrics provides Prometheus metrics for the layout optimizer.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager manages all Prometheus metrics for the optimizer.
type Manager struct {
	namespace        string
	subsystem        string
	histogramBuckets []float64
	enabled          bool
	registry         prometheus.Registerer

	// Search progress
	iterations prometheus.Counter
	accepted   prometheus.Counter
	rejected   prometheus.Counter

	// Per-chain state, labeled by chain index
	temperature *prometheus.GaugeVec
	currentCost *prometheus.GaugeVec
	chainBest   *prometheus.GaugeVec

	// Run outcomes
	bestCost    prometheus.Gauge
	runsTotal   prometheus.Counter
	runDuration prometheus.Histogram
}

// Global metrics manager instance.
var globalManager *Manager //nolint:gochecknoglobals // intentional global for singleton metrics manager

// Custom registry to avoid default Go metrics.
var customRegistry = prometheus.NewRegistry() //nolint:gochecknoglobals // intentional global for metrics registry

// Initialize global metrics.
func init() { //nolint:gochecknoinits // intentional init for global metrics setup
	globalManager = NewManager(WithPrometheusRegistry(customRegistry))
}

// NewManager creates a new metrics manager with default configuration.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "nonary",
		subsystem:        "anneal",
		histogramBuckets: prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.DefaultRegisterer,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.initializeMetrics()
	return m
}

// initializeMetrics creates all the Prometheus metrics.
func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.iterations = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "iterations_total",
		Help:      "Total annealing iterations across all chains",
	})

	m.accepted = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "moves_accepted_total",
		Help:      "Total candidate moves accepted by the Metropolis criterion",
	})

	m.rejected = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "moves_rejected_total",
		Help:      "Total candidate moves rejected",
	})

	m.temperature = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "temperature",
			Help:      "Current temperature per chain",
		},
		[]string{"chain"},
	)

	m.currentCost = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "current_cost",
			Help:      "Cost of the current layout per chain",
		},
		[]string{"chain"},
	)

	m.chainBest = auto.NewGaugeVec(
		prometheus.GaugeOpts{
			Namespace: m.namespace,
			Subsystem: m.subsystem,
			Name:      "chain_best_cost",
			Help:      "Best cost seen so far per chain",
		},
		[]string{"chain"},
	)

	m.bestCost = auto.NewGauge(prometheus.GaugeOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "best_cost",
		Help:      "Best cost across all chains of the latest run",
	})

	m.runsTotal = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "runs_total",
		Help:      "Total completed optimization runs",
	})

	m.runDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "run_duration_seconds",
		Help:      "Wall-clock duration of completed optimization runs",
		Buckets:   m.histogramBuckets,
	})
}

// AddIterations records iterations completed in a block.
func AddIterations(n int) {
	if globalManager.enabled && n > 0 {
		globalManager.iterations.Add(float64(n))
	}
}

// AddAccepted records moves accepted in a block.
func AddAccepted(n int) {
	if globalManager.enabled && n > 0 {
		globalManager.accepted.Add(float64(n))
	}
}

// AddRejected records moves rejected in a block.
func AddRejected(n int) {
	if globalManager.enabled && n > 0 {
		globalManager.rejected.Add(float64(n))
	}
}

// UpdateChain records the temperature, current cost, and best cost of a chain.
func UpdateChain(chain int, temperature, current, best float64) {
	if !globalManager.enabled {
		return
	}
	label := strconv.Itoa(chain)
	globalManager.temperature.WithLabelValues(label).Set(temperature)
	globalManager.currentCost.WithLabelValues(label).Set(current)
	globalManager.chainBest.WithLabelValues(label).Set(best)
}

// RecordRun records a completed run with its final best cost and duration.
func RecordRun(best float64, seconds float64) {
	if !globalManager.enabled {
		return
	}
	globalManager.bestCost.Set(best)
	globalManager.runsTotal.Inc()
	globalManager.runDuration.Observe(seconds)
}

// GetRegistry returns the custom Prometheus registry used by the global
// manager, for serving via promhttp.
func GetRegistry() *prometheus.Registry {
	return customRegistry
}
