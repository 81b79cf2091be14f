// Package metrics provides Prometheus metrics for model loading and scoring.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Manager owns the model runtime metrics. A nil or disabled Manager records
// nothing.
type Manager struct {
	namespace        string
	subsystem        string
	loadBuckets      []float64
	enabled          bool
	registry         prometheus.Registerer

	modelsLoaded     *prometheus.CounterVec
	loadErrors       *prometheus.CounterVec
	loadDuration     prometheus.Histogram
	treesLoaded      prometheus.Counter
	predictions      *prometheus.CounterVec
	predictionErrors prometheus.Counter
}

// NewManager creates a metrics manager registered on a fresh registry
// unless WithRegistry says otherwise.
func NewManager(opts ...Option) *Manager {
	m := &Manager{
		namespace:        "mojo",
		subsystem:        "runtime",
		loadBuckets:      prometheus.DefBuckets,
		enabled:          true,
		registry:         prometheus.NewRegistry(),
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.enabled {
		m.initializeMetrics()
	}
	return m
}

func (m *Manager) initializeMetrics() {
	auto := promauto.With(m.registry)

	m.modelsLoaded = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "models_loaded_total",
		Help:      "Total number of models loaded by algorithm",
	}, []string{"algorithm"})

	m.loadErrors = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "model_load_errors_total",
		Help:      "Total number of failed model loads by error kind",
	}, []string{"kind"})

	m.loadDuration = auto.NewHistogram(prometheus.HistogramOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "model_load_duration_seconds",
		Help:      "Model load duration in seconds",
		Buckets:   m.loadBuckets,
	})

	m.treesLoaded = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "trees_loaded_total",
		Help:      "Total number of compressed trees read from containers",
	})

	m.predictions = auto.NewCounterVec(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "predictions_total",
		Help:      "Total number of scored rows by algorithm",
	}, []string{"algorithm"})

	m.predictionErrors = auto.NewCounter(prometheus.CounterOpts{
		Namespace: m.namespace,
		Subsystem: m.subsystem,
		Name:      "prediction_errors_total",
		Help:      "Total number of failed scoring calls",
	})
}

func (m *Manager) active() bool {
	return m != nil && m.enabled
}

// Enabled reports whether the manager records metrics.
func (m *Manager) Enabled() bool {
	return m.active()
}

// RecordLoad records a successful model load.
func (m *Manager) RecordLoad(algorithm string, trees int, d time.Duration) {
	if !m.active() {
		return
	}
	m.modelsLoaded.WithLabelValues(algorithm).Inc()
	m.treesLoaded.Add(float64(trees))
	m.loadDuration.Observe(d.Seconds())
}

// RecordLoadError records a failed model load.
func (m *Manager) RecordLoadError(kind string) {
	if !m.active() {
		return
	}
	m.loadErrors.WithLabelValues(kind).Inc()
}

// RecordPrediction records a scored row.
func (m *Manager) RecordPrediction(algorithm string) {
	if !m.active() {
		return
	}
	m.predictions.WithLabelValues(algorithm).Inc()
}

// RecordPredictionError records a failed scoring call.
func (m *Manager) RecordPredictionError() {
	if !m.active() {
		return
	}
	m.predictionErrors.Inc()
}
