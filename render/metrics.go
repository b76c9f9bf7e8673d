package render

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics bundles the Prometheus collectors for render jobs. Unlike a
// GaugeVec keyed by band, a render is a one-shot job: counters and a
// histogram fit the shape. Callers register Metrics against their own
// registry; the core never reaches for prometheus.DefaultRegisterer so
// renders stay reentrant in tests.
type Metrics struct {
	started    prometheus.Counter
	completed  prometheus.Counter
	cancelled  prometheus.Counter
	ioErrors   prometheus.Counter
	samples    prometheus.Counter
	renderTime prometheus.Histogram
}

// NewMetrics registers the render collectors against reg.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		started:   factory.NewCounter(prometheus.CounterOpts{Name: "tonegen_renders_started_total", Help: "Renders started."}),
		completed: factory.NewCounter(prometheus.CounterOpts{Name: "tonegen_renders_completed_total", Help: "Renders completed without cancellation or error."}),
		cancelled: factory.NewCounter(prometheus.CounterOpts{Name: "tonegen_renders_cancelled_total", Help: "Renders stopped early via context cancellation."}),
		ioErrors:  factory.NewCounter(prometheus.CounterOpts{Name: "tonegen_render_io_errors_total", Help: "Sink write failures at flush time."}),
		samples:   factory.NewCounter(prometheus.CounterOpts{Name: "tonegen_render_samples_total", Help: "Total I/Q samples rendered."}),
		renderTime: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "tonegen_render_duration_seconds",
			Help:    "Wall-clock duration of a render call.",
			Buckets: prometheus.ExponentialBuckets(0.0001, 4, 12),
		}),
	}
}

func (m *Metrics) observeStart() {
	if m == nil {
		return
	}
	m.started.Inc()
}

func (m *Metrics) observeDone(stats Stats, err error) {
	if m == nil {
		return
	}
	m.samples.Add(float64(stats.TotalSamples))
	m.renderTime.Observe(stats.Elapsed.Seconds())
	switch {
	case stats.Cancelled:
		m.cancelled.Inc()
	case err != nil:
		m.ioErrors.Inc()
	default:
		m.completed.Inc()
	}
}
