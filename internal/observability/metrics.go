package observability

import (
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Conversion directions and per-element results used as label values.
const (
	DirectionForward = "forward"
	DirectionInverse = "inverse"

	ResultOK      = "ok"
	ResultError   = "error"
	ResultAborted = "aborted"
)

// ProjectionCollector bundles Prometheus metrics for conversion batches and
// geometry construction.
type ProjectionCollector struct {
	gatherer prometheus.Gatherer

	Conversions    *prometheus.CounterVec
	BatchDurations *prometheus.HistogramVec
	BatchSizes     *prometheus.HistogramVec
	GeometryBuilds *prometheus.CounterVec
	NetFaces       prometheus.Gauge
}

// NewProjectionCollector registers projection metrics against the provided
// registerer, defaulting to the global Prometheus registry when nil.
// Registering twice on the same registry returns the existing collectors.
func NewProjectionCollector(reg prometheus.Registerer) (*ProjectionCollector, error) {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	gatherer := prometheus.DefaultGatherer
	if g, ok := reg.(prometheus.Gatherer); ok {
		gatherer = g
	}

	conversions, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "polynet_conversions_total",
		Help: "Converted elements, labeled by direction and per-element result.",
	}, []string{"direction", "result"}), "polynet_conversions_total")
	if err != nil {
		return nil, err
	}

	durations, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "polynet_batch_duration_seconds",
		Help:    "Wall time of conversion batches in seconds.",
		Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
	}, []string{"direction"}), "polynet_batch_duration_seconds")
	if err != nil {
		return nil, err
	}

	sizes, err := registerHistogramVec(reg, prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "polynet_batch_size",
		Help:    "Number of elements per conversion batch.",
		Buckets: prometheus.ExponentialBuckets(1, 4, 10),
	}, []string{"direction"}), "polynet_batch_size")
	if err != nil {
		return nil, err
	}

	builds, err := registerCounterVec(reg, prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "polynet_geometry_builds_total",
		Help: "Polyhedra and nets constructed, labeled by kind.",
	}, []string{"kind"}), "polynet_geometry_builds_total")
	if err != nil {
		return nil, err
	}

	faces, err := registerGauge(reg, prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "polynet_net_faces",
		Help: "Number of faces in the most recently configured net.",
	}), "polynet_net_faces")
	if err != nil {
		return nil, err
	}

	return &ProjectionCollector{
		gatherer:       gatherer,
		Conversions:    conversions,
		BatchDurations: durations,
		BatchSizes:     sizes,
		GeometryBuilds: builds,
		NetFaces:       faces,
	}, nil
}

// ObserveBatch records one finished batch.
func (c *ProjectionCollector) ObserveBatch(direction string, ok, failed, aborted int, elapsed time.Duration) {
	if c == nil {
		return
	}
	if c.Conversions != nil {
		c.Conversions.WithLabelValues(direction, ResultOK).Add(float64(ok))
		c.Conversions.WithLabelValues(direction, ResultError).Add(float64(failed))
		c.Conversions.WithLabelValues(direction, ResultAborted).Add(float64(aborted))
	}
	if c.BatchDurations != nil {
		c.BatchDurations.WithLabelValues(direction).Observe(elapsed.Seconds())
	}
	if c.BatchSizes != nil {
		c.BatchSizes.WithLabelValues(direction).Observe(float64(ok + failed + aborted))
	}
}

// RecordBuild counts one geometry construction of the given kind.
func (c *ProjectionCollector) RecordBuild(kind string) {
	if c == nil || c.GeometryBuilds == nil {
		return
	}
	c.GeometryBuilds.WithLabelValues(kind).Inc()
}

// SetNetFaces sets the face-count gauge.
func (c *ProjectionCollector) SetNetFaces(n int) {
	if c == nil || c.NetFaces == nil {
		return
	}
	c.NetFaces.Set(float64(n))
}

// Handler exposes a ready-to-use /metrics handler.
func (c *ProjectionCollector) Handler() http.Handler {
	gatherer := c.gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func registerCounterVec(reg prometheus.Registerer, vec *prometheus.CounterVec, name string) (*prometheus.CounterVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.CounterVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerHistogramVec(reg prometheus.Registerer, vec *prometheus.HistogramVec, name string) (*prometheus.HistogramVec, error) {
	if err := reg.Register(vec); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(*prometheus.HistogramVec); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return vec, nil
}

func registerGauge(reg prometheus.Registerer, gauge prometheus.Gauge, name string) (prometheus.Gauge, error) {
	if err := reg.Register(gauge); err != nil {
		if are, ok := err.(prometheus.AlreadyRegisteredError); ok {
			if existing, ok := are.ExistingCollector.(prometheus.Gauge); ok {
				return existing, nil
			}
			return nil, fmt.Errorf("collector %s already registered with incompatible type", name)
		}
		return nil, err
	}
	return gauge, nil
}
