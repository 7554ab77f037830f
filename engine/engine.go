// Package engine is the configuration-driven entry point: it builds the
// latitude converter, polyhedron, net and face projection described by a
// config.Config and runs conversion batches with logging, metrics and
// tracing.
package engine

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/signalsfoundry/polynet/authalic"
	"github.com/signalsfoundry/polynet/catalog"
	"github.com/signalsfoundry/polynet/config"
	"github.com/signalsfoundry/polynet/internal/logging"
	"github.com/signalsfoundry/polynet/internal/observability"
	"github.com/signalsfoundry/polynet/layout"
	"github.com/signalsfoundry/polynet/model"
	"github.com/signalsfoundry/polynet/polyhedron"
	"github.com/signalsfoundry/polynet/projection"
)

// Engine converts between geodetic positions and net coordinates. It is
// immutable after New and safe for concurrent use.
type Engine struct {
	cfg       config.Config
	ellipsoid authalic.Ellipsoid
	projector *projection.Projector
	batch     projection.BatchOptions

	log     logging.Logger
	metrics *observability.ProjectionCollector
}

type options struct {
	logger     logging.Logger
	registerer prometheus.Registerer
	catalog    *catalog.Catalog
}

// Option customises New.
type Option func(*options)

// WithLogger routes engine logs to l instead of a logger built from
// cfg.Logging.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) { o.logger = logging.FromSlog(l) }
}

// WithRegisterer registers engine metrics on reg instead of the default
// Prometheus registry.
func WithRegisterer(reg prometheus.Registerer) Option {
	return func(o *options) { o.registerer = reg }
}

// WithCatalog shares built geometry with other engines using c.
func WithCatalog(c *catalog.Catalog) Option {
	return func(o *options) { o.catalog = c }
}

// New validates cfg and builds the pipeline it describes.
func New(cfg config.Config, opts ...Option) (*Engine, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	cfg = cfg.ApplyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := o.logger
	if log == nil {
		log = logging.New(logging.Config{Level: cfg.Logging.Level, Format: cfg.Logging.Format})
	}
	metrics, err := observability.NewProjectionCollector(o.registerer)
	if err != nil {
		return nil, fmt.Errorf("register metrics: %w", err)
	}
	cat := o.catalog
	if cat == nil {
		cat = catalog.New()
	}

	ellipsoid, err := cfg.ResolveEllipsoid()
	if err != nil {
		return nil, err
	}
	conv, err := ellipsoid.Converter()
	if err != nil {
		return nil, err
	}

	pv, err := polyhedron.ParseVariant(cfg.Polyhedron)
	if err != nil {
		return nil, err
	}
	nv, err := layout.ParseVariant(cfg.Net.Variant)
	if err != nil {
		return nil, err
	}
	sv, err := projection.ParseVariant(cfg.Projection)
	if err != nil {
		return nil, err
	}

	ctx := context.Background()
	unsubscribe := cat.Subscribe(buildRecorder(ctx, pv, nv, metrics, log))
	net, err := cat.Net(catalog.NetKey{Polyhedron: pv, Variant: nv, Root: cfg.Net.Root})
	unsubscribe()
	if err != nil {
		return nil, err
	}
	if net.Root() != cfg.Net.Root {
		log.Warn(ctx, "requested root face does not unfold; using another root",
			logging.Int("requested_root", cfg.Net.Root),
			logging.Int("root", net.Root()),
		)
	}

	strategy, err := projection.NewStrategy(sv)
	if err != nil {
		return nil, err
	}
	projector, err := projection.NewProjector(conv, net.Polyhedron(), net, strategy)
	if err != nil {
		return nil, err
	}
	metrics.SetNetFaces(net.NumFaces())

	log.Info(ctx, "projection engine ready",
		logging.String("ellipsoid", ellipsoid.Name),
		logging.Float64("flattening", ellipsoid.Flattening),
		logging.String("polyhedron", string(pv)),
		logging.String("net", string(nv)),
		logging.Int("root", net.Root()),
		logging.String("projection", string(sv)),
		logging.Int("workers", cfg.Batch.Workers),
		logging.Bool("fail_fast", cfg.Batch.FailFast),
	)

	return &Engine{
		cfg:       cfg,
		ellipsoid: ellipsoid,
		projector: projector,
		batch:     projection.BatchOptions{Workers: cfg.Batch.Workers, FailFast: cfg.Batch.FailFast},
		log:       log,
		metrics:   metrics,
	}, nil
}

func (e *Engine) Config() config.Config                 { return e.cfg }
func (e *Engine) Ellipsoid() authalic.Ellipsoid         { return e.ellipsoid }
func (e *Engine) Projector() *projection.Projector      { return e.projector }
func (e *Engine) Polyhedron() *polyhedron.Polyhedron    { return e.projector.Polyhedron() }
func (e *Engine) Net() *layout.Net                      { return e.projector.Net() }
func (e *Engine) BatchOptions() projection.BatchOptions { return e.batch }
func (e *Engine) MetricsHandler() http.Handler          { return e.metrics.Handler() }

// MetresPerUnit is the factor from net-plane units to metres on the
// authalic sphere.
func (e *Engine) MetresPerUnit() float64 { return e.ellipsoid.AuthalicRadius() }

// NetGeoJSON returns the net outline as a GeoJSON FeatureCollection.
func (e *Engine) NetGeoJSON() ([]byte, error) {
	return e.projector.Net().FeatureCollection().MarshalJSON()
}

// ForwardPoint projects a single position.
func (e *Engine) ForwardPoint(pos model.GeoPosition) (model.PlanarPoint, error) {
	return e.projector.ForwardPoint(pos)
}

// InversePoint maps a single net point back to a position.
func (e *Engine) InversePoint(pt model.PlanarPoint) (model.GeoPosition, error) {
	return e.projector.InversePoint(pt)
}

// Forward projects a batch with the configured batch options.
func (e *Engine) Forward(ctx context.Context, positions []model.GeoPosition) ([]projection.ForwardResult, error) {
	var results []projection.ForwardResult
	err := e.runBatch(ctx, observability.DirectionForward, len(positions), func() ([]error, error) {
		var err error
		results, err = e.projector.Forward(positions, e.batch)
		errs := make([]error, len(results))
		for i, r := range results {
			errs[i] = r.Err
		}
		return errs, err
	})
	return results, err
}

// Inverse maps a batch of net points back with the configured batch
// options.
func (e *Engine) Inverse(ctx context.Context, points []model.PlanarPoint) ([]projection.InverseResult, error) {
	var results []projection.InverseResult
	err := e.runBatch(ctx, observability.DirectionInverse, len(points), func() ([]error, error) {
		var err error
		results, err = e.projector.Inverse(points, e.batch)
		errs := make([]error, len(results))
		for i, r := range results {
			errs[i] = r.Err
		}
		return errs, err
	})
	return results, err
}

// buildRecorder counts and logs catalog builds of this engine's geometry.
// The catalog may be shared, so builds for other engines are ignored.
func buildRecorder(ctx context.Context, pv polyhedron.Variant, nv layout.Variant, metrics *observability.ProjectionCollector, log logging.Logger) func(catalog.Event) {
	return func(ev catalog.Event) {
		if ev.Polyhedron != pv || (ev.Type == catalog.EventNetBuilt && ev.Net != nv) {
			return
		}
		metrics.RecordBuild(ev.Type.String())
		log.Debug(ctx, "geometry built",
			logging.String("kind", ev.Type.String()),
			logging.String("polyhedron", string(ev.Polyhedron)),
		)
	}
}

func (e *Engine) runBatch(ctx context.Context, direction string, size int, do func() ([]error, error)) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	base := logging.LoggerFromContext(ctx)
	if base == nil {
		base = e.log
	}
	ctx, log := logging.WithBatchLogger(ctx, base)
	ctx = logging.ContextWithLogger(ctx, log)
	ctx, span := observability.Tracer().Start(ctx, "polynet."+direction,
		trace.WithAttributes(
			attribute.String("polynet.batch_id", logging.BatchIDFromContext(ctx)),
			attribute.String("polynet.direction", direction),
			attribute.Int("polynet.batch.size", size),
			attribute.Int("polynet.batch.workers", e.batch.Workers),
			attribute.Bool("polynet.batch.fail_fast", e.batch.FailFast),
		),
	)
	defer span.End()

	start := time.Now()
	errs, err := do()
	elapsed := time.Since(start)

	ok, failed, aborted := tally(errs)
	e.metrics.ObserveBatch(direction, ok, failed, aborted, elapsed)
	span.SetAttributes(
		attribute.Int("polynet.batch.ok", ok),
		attribute.Int("polynet.batch.failed", failed),
		attribute.Int("polynet.batch.aborted", aborted),
	)

	fields := []logging.Field{
		logging.String("direction", direction),
		logging.Int("size", size),
		logging.Int("ok", ok),
		logging.Int("failed", failed),
		logging.Int("aborted", aborted),
		logging.Duration("elapsed", elapsed),
	}
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		log.Warn(ctx, "batch stopped on first error", append(fields, logging.Err(err))...)
		return err
	}
	log.Debug(ctx, "batch converted", fields...)
	return nil
}

func tally(errs []error) (ok, failed, aborted int) {
	for _, err := range errs {
		switch {
		case err == nil:
			ok++
		case errors.Is(err, projection.ErrBatchAborted):
			aborted++
		default:
			failed++
		}
	}
	return ok, failed, aborted
}

// InitTracing installs the global OpenTelemetry tracer provider described
// by cfg. Call the returned function on shutdown to flush spans; it gives
// up after five seconds.
func InitTracing(ctx context.Context, cfg config.TracingConfig, l *slog.Logger) (func(context.Context) error, error) {
	log := logging.FromSlog(l)
	shutdown, err := observability.InitTracing(ctx, observability.TracingConfig{
		Enabled:     cfg.Enabled,
		ServiceName: cfg.ServiceName,
		Exporter:    cfg.Exporter,
		Endpoint:    cfg.Endpoint,
		SampleRatio: cfg.SampleRatio,
	}, log)
	if err != nil {
		return nil, err
	}
	return func(ctx context.Context) error {
		return observability.ShutdownWithTimeout(ctx, shutdown, log)
	}, nil
}
