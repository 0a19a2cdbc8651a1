// Package metrics exposes counting-engine progress as Prometheus metrics.
package metrics

import (
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/sweeney/rep-counter/internal/logic"
	"github.com/sweeney/rep-counter/internal/sensor"
)

const namespace = "repcounter"

// Metrics holds the collectors and their registry.
type Metrics struct {
	registry *prometheus.Registry

	samples         prometheus.Counter
	invalid         *prometheus.CounterVec
	events          prometheus.Counter
	sessions        *prometheus.CounterVec
	count           prometheus.Gauge
	lastRaw         prometheus.Gauge
	lastValue       prometheus.Gauge
	active          prometheus.Gauge
	sessionDuration prometheus.Histogram
}

// New creates a Metrics instance with its own registry, including the Go
// runtime and process collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		samples: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "samples_total",
			Help: "Valid sensor samples observed.",
		}),
		invalid: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "invalid_samples_total",
			Help: "Skipped ticks by cause (invalid sample or read error).",
		}, []string{"cause"}),
		events: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "events_total",
			Help: "Accepted motion events across all sessions.",
		}),
		sessions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "sessions_total",
			Help: "Ended sessions by reason.",
		}, []string{"reason"}),
		count: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "session_count",
			Help: "Count of the current (or last) session.",
		}),
		lastRaw: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "last_raw",
			Help: "Most recent valid raw sample.",
		}),
		lastValue: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "last_event_value",
			Help: "Derived value of the most recent event.",
		}),
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "session_running",
			Help: "1 while a session is running.",
		}),
		sessionDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace, Name: "session_duration_seconds",
			Help:    "Duration of ended sessions.",
			Buckets: []float64{10, 30, 60, 120, 300, 600, 1200, 3600},
		}),
	}
	m.registry.MustRegister(
		m.samples, m.invalid, m.events, m.sessions, m.count,
		m.lastRaw, m.lastValue, m.active, m.sessionDuration,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Registry returns the registry for additional collectors.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// GaugeFunc registers a gauge whose value is read from fn at scrape time.
func (m *Metrics) GaugeFunc(name, help string, fn func() float64) {
	m.registry.MustRegister(prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Namespace: namespace, Name: name, Help: help,
	}, fn))
}

// CounterFunc registers a counter whose value is read from fn at scrape time.
func (m *Metrics) CounterFunc(name, help string, fn func() uint64) {
	m.registry.MustRegister(prometheus.NewCounterFunc(prometheus.CounterOpts{
		Namespace: namespace, Name: name, Help: help,
	}, func() float64 { return float64(fn()) }))
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Started resets the per-session gauges.
func (m *Metrics) Started(at time.Time) {
	m.count.Set(0)
	m.active.Set(1)
}

// Sampled counts a valid sample.
func (m *Metrics) Sampled(s logic.Sample) {
	m.samples.Inc()
	m.lastRaw.Set(s.Raw)
}

// Invalid counts a skipped tick.
func (m *Metrics) Invalid(at time.Time, err error) {
	cause := "read_error"
	if errors.Is(err, sensor.ErrInvalidSample) {
		cause = "invalid"
	}
	m.invalid.WithLabelValues(cause).Inc()
}

// Accepted counts an event.
func (m *Metrics) Accepted(ev logic.MotionEvent, count int) {
	m.events.Inc()
	m.count.Set(float64(count))
	m.lastValue.Set(ev.Value)
}

// Ended records the session outcome.
func (m *Metrics) Ended(s logic.Summary) {
	m.active.Set(0)
	m.sessions.WithLabelValues(string(s.Reason)).Inc()
	m.sessionDuration.Observe(s.Duration().Seconds())
}
