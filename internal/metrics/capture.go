// Package metrics exports capture activity as Prometheus metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rlhal/firewire/pkg/dc1394"
)

const (
	namespace = "firewire"
	subsystem = "capture"
)

// Metrics holds the capture collectors of one registry. Cameras share them
// through their label.
type Metrics struct {
	reg prometheus.Gatherer

	streaming    *prometheus.GaugeVec
	streams      *prometheus.CounterVec
	frames       *prometheus.CounterVec
	bytes        *prometheus.CounterVec
	timeouts     *prometheus.CounterVec
	driverErrors *prometheus.CounterVec
}

// New registers the capture collectors with a fresh registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	return NewWith(reg, reg)
}

// NewWith registers the capture collectors with reg and serves them from g.
func NewWith(reg prometheus.Registerer, g prometheus.Gatherer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		reg: g,
		streaming: f.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "streaming",
			Help:      "Whether the camera is transmitting",
		}, []string{"camera"}),
		streams: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "streams_started_total",
			Help:      "Number of times transmission was started",
		}, []string{"camera"}),
		frames: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "frames_total",
			Help:      "Frames copied out of the DMA ring",
		}, []string{"camera"}),
		bytes: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "bytes_total",
			Help:      "Image bytes copied out of the DMA ring",
		}, []string{"camera"}),
		timeouts: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "timeouts_total",
			Help:      "Dequeues that saw no frame within the timeout",
		}, []string{"camera"}),
		driverErrors: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: subsystem,
			Name:      "driver_errors_total",
			Help:      "Errors reported by the bus driver, per operation",
		}, []string{"camera", "op"}),
	}
}

// Handler serves the metrics in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.reg, promhttp.HandlerOpts{})
}

// Camera returns an observer that records under the given camera label.
func (m *Metrics) Camera(label string) *Capture {
	return &Capture{m: m, label: label}
}

// Delete drops every series of a camera.
func (m *Metrics) Delete(label string) {
	l := prometheus.Labels{"camera": label}
	m.streaming.Delete(l)
	m.streams.Delete(l)
	m.frames.Delete(l)
	m.bytes.Delete(l)
	m.timeouts.Delete(l)
	m.driverErrors.DeletePartialMatch(l)
}

// Capture implements dc1394.Observer for one camera.
type Capture struct {
	m     *Metrics
	label string
}

var _ dc1394.Observer = (*Capture)(nil)

func (c *Capture) StreamStarted() {
	c.m.streaming.WithLabelValues(c.label).Set(1)
	c.m.streams.WithLabelValues(c.label).Inc()
}

func (c *Capture) StreamStopped() {
	c.m.streaming.WithLabelValues(c.label).Set(0)
}

func (c *Capture) FrameCaptured(n int) {
	c.m.frames.WithLabelValues(c.label).Inc()
	c.m.bytes.WithLabelValues(c.label).Add(float64(n))
}

func (c *Capture) FrameTimeout() {
	c.m.timeouts.WithLabelValues(c.label).Inc()
}

func (c *Capture) DriverError(op string) {
	c.m.driverErrors.WithLabelValues(c.label, op).Inc()
}
