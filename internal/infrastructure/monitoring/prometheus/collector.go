// Package prometheus exports the dashboard's metrics on a private registry.
// Callers see small Counter/Gauge/Histogram interfaces; a registration
// failure degrades to a no-op metric and a log line, never a panic.
package prometheus

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/turtacn/KeyIP-Dashboard/internal/infrastructure/monitoring/logging"
	"github.com/turtacn/KeyIP-Dashboard/pkg/errors"
)

// MetricsCollector registers metric families and serves them.
type MetricsCollector interface {
	RegisterCounter(name, help string, labels ...string) CounterVec
	RegisterGauge(name, help string, labels ...string) GaugeVec
	RegisterHistogram(name, help string, buckets []float64, labels ...string) HistogramVec
	Handler() http.Handler
}

type CounterVec interface {
	WithLabelValues(lvs ...string) Counter
}

type Counter interface {
	Inc()
	Add(delta float64)
}

type GaugeVec interface {
	WithLabelValues(lvs ...string) Gauge
}

type Gauge interface {
	Set(value float64)
	Add(delta float64)
	Inc()
	Dec()
}

type HistogramVec interface {
	WithLabelValues(lvs ...string) Histogram
}

type Histogram interface {
	Observe(value float64)
}

// CollectorConfig names the metric namespace and the runtime collectors to
// include.
type CollectorConfig struct {
	Namespace            string            `mapstructure:"namespace"`
	Subsystem            string            `mapstructure:"subsystem"`
	EnableProcessMetrics bool              `mapstructure:"enable_process_metrics"`
	EnableGoMetrics      bool              `mapstructure:"enable_go_metrics"`
	ConstLabels          map[string]string `mapstructure:"const_labels"`
}

type prometheusCollector struct {
	registry *prometheus.Registry
	config   CollectorConfig
	logger   logging.Logger

	mu     sync.Mutex
	byName map[string]prometheus.Collector
}

// NewMetricsCollector creates a collector on a fresh registry.  Namespace is
// required.
func NewMetricsCollector(cfg CollectorConfig, logger logging.Logger) (MetricsCollector, error) {
	if cfg.Namespace == "" {
		return nil, errors.New(errors.ErrCodeValidation, "metrics namespace is required")
	}
	if logger == nil {
		logger = logging.NewNopLogger()
	}

	registry := prometheus.NewRegistry()
	if cfg.EnableProcessMetrics {
		registry.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{Namespace: cfg.Namespace}))
	}
	if cfg.EnableGoMetrics {
		registry.MustRegister(collectors.NewGoCollector())
	}

	return &prometheusCollector{
		registry: registry,
		config:   cfg,
		logger:   logger.Named("metrics"),
		byName:   make(map[string]prometheus.Collector),
	}, nil
}

func (c *prometheusCollector) Handler() http.Handler {
	return promhttp.HandlerFor(c.registry, promhttp.HandlerOpts{EnableOpenMetrics: true})
}

// registerVec registers fresh under name, or returns the vector already
// registered there.  ok is false on a registry error or when the existing
// vector has another type.
func registerVec[V prometheus.Collector](c *prometheusCollector, name, kind string, fresh V) (V, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var zero V
	fq := prometheus.BuildFQName(c.config.Namespace, c.config.Subsystem, name)
	if existing, found := c.byName[fq]; found {
		v, ok := existing.(V)
		if !ok {
			c.logger.Warn("metric type mismatch", logging.String("name", fq), logging.String("type", kind))
		}
		return v, ok
	}
	if err := c.registry.Register(fresh); err != nil {
		c.logger.Error("failed to register metric", logging.String("name", fq), logging.String("type", kind), logging.Err(err))
		return zero, false
	}
	c.byName[fq] = fresh
	return fresh, true
}

func (c *prometheusCollector) RegisterCounter(name, help string, labels ...string) CounterVec {
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace:   c.config.Namespace,
		Subsystem:   c.config.Subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: c.config.ConstLabels,
	}, labels)
	if v, ok := registerVec(c, name, "counter", vec); ok {
		return promCounterVec{v}
	}
	return noopCounterVec{}
}

func (c *prometheusCollector) RegisterGauge(name, help string, labels ...string) GaugeVec {
	vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace:   c.config.Namespace,
		Subsystem:   c.config.Subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: c.config.ConstLabels,
	}, labels)
	if v, ok := registerVec(c, name, "gauge", vec); ok {
		return promGaugeVec{v}
	}
	return noopGaugeVec{}
}

// RegisterHistogram uses prometheus.DefBuckets when buckets is nil.
func (c *prometheusCollector) RegisterHistogram(name, help string, buckets []float64, labels ...string) HistogramVec {
	if buckets == nil {
		buckets = prometheus.DefBuckets
	}
	vec := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace:   c.config.Namespace,
		Subsystem:   c.config.Subsystem,
		Name:        name,
		Help:        help,
		ConstLabels: c.config.ConstLabels,
		Buckets:     buckets,
	}, labels)
	if v, ok := registerVec(c, name, "histogram", vec); ok {
		return promHistogramVec{v}
	}
	return noopHistogramVec{}
}

type promCounterVec struct{ *prometheus.CounterVec }

func (v promCounterVec) WithLabelValues(lvs ...string) Counter {
	return v.CounterVec.WithLabelValues(lvs...)
}

type promGaugeVec struct{ *prometheus.GaugeVec }

func (v promGaugeVec) WithLabelValues(lvs ...string) Gauge {
	return v.GaugeVec.WithLabelValues(lvs...)
}

type promHistogramVec struct{ *prometheus.HistogramVec }

func (v promHistogramVec) WithLabelValues(lvs ...string) Histogram {
	return v.HistogramVec.WithLabelValues(lvs...)
}

// The noop vectors stand in for any vector whose registration failed.
type (
	noopCounterVec   struct{}
	noopGaugeVec     struct{}
	noopHistogramVec struct{}
)

func (noopCounterVec) WithLabelValues(...string) Counter     { return noopMetric{} }
func (noopGaugeVec) WithLabelValues(...string) Gauge         { return noopMetric{} }
func (noopHistogramVec) WithLabelValues(...string) Histogram { return noopMetric{} }

type noopMetric struct{}

func (noopMetric) Inc()            {}
func (noopMetric) Dec()            {}
func (noopMetric) Add(float64)     {}
func (noopMetric) Set(float64)     {}
func (noopMetric) Observe(float64) {}

//Personal.AI order the ending
