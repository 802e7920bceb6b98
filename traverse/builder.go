package traverse

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"

	"github.com/zero-day-ai/kgcn/graph"
	"github.com/zero-day-ai/kgcn/sample"
)

// instrumentationName identifies this package's tracer and meter.
const instrumentationName = "github.com/zero-day-ai/kgcn/traverse"

// Option configures a ContextBuilder.
type Option func(*builderOptions)

type builderOptions struct {
	logger         *slog.Logger
	filterSource   string
	tracerProvider trace.TracerProvider
	meterProvider  metric.MeterProvider
}

// WithLogger sets the structured logger used for debug output during builds.
// Defaults to slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *builderOptions) { o.logger = logger }
}

// WithFilter sets a CEL expression applied to every candidate connection
// before sampling. Connections for which the expression is false are skipped
// without counting against the sampler's limit. The expression is compiled at
// construction; compile failures are configuration errors.
func WithFilter(source string) Option {
	return func(o *builderOptions) { o.filterSource = source }
}

// WithTracerProvider sets the TracerProvider used to trace builds.
// Defaults to the global otel provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(o *builderOptions) { o.tracerProvider = tp }
}

// WithMeterProvider sets the MeterProvider used for traversal metrics.
// Defaults to the global otel provider.
func WithMeterProvider(mp metric.MeterProvider) Option {
	return func(o *builderOptions) { o.meterProvider = mp }
}

// ContextBuilder recursively builds ThingContext trees.
//
// A builder is stateless across calls and safe for concurrent use, as long as
// concurrent builds use different transactions: the store transaction is
// assumed single-reader, so builds sharing one transaction must be
// serialized by the caller.
type ContextBuilder struct {
	samplers []*sample.Sampler
	finder   graph.NeighbourFinder
	filter   *connectionFilter
	logger   *slog.Logger

	tracer        trace.Tracer
	storeQueries  metric.Int64Counter
	sampledConns  metric.Int64Counter
	neighbourhood metric.Int64Histogram
}

// NewContextBuilder creates a builder that traverses to depth len(samplers),
// applying samplers[d] at depth d and querying neighbours through finder.
//
// All configuration is validated here: the sampler list must be non-empty,
// the finder non-nil, and any filter expression must compile to a boolean.
func NewContextBuilder(samplers []*sample.Sampler, finder graph.NeighbourFinder, opts ...Option) (*ContextBuilder, error) {
	if len(samplers) == 0 {
		return nil, ErrNoSamplers
	}
	for i, s := range samplers {
		if s == nil {
			return nil, fmt.Errorf("%w: sampler at depth %d is nil", ErrNoSamplers, i)
		}
	}
	if finder == nil {
		return nil, ErrNilFinder
	}

	options := builderOptions{
		logger:         slog.Default(),
		tracerProvider: otel.GetTracerProvider(),
		meterProvider:  otel.GetMeterProvider(),
	}
	for _, opt := range opts {
		opt(&options)
	}

	b := &ContextBuilder{
		samplers: samplers,
		finder:   finder,
		logger:   options.logger,
		tracer:   options.tracerProvider.Tracer(instrumentationName),
	}

	if options.filterSource != "" {
		filter, err := compileFilter(options.filterSource)
		if err != nil {
			return nil, err
		}
		b.filter = filter
	}

	meter := options.meterProvider.Meter(instrumentationName)
	var err error
	if b.storeQueries, err = meter.Int64Counter("kgcn.traverse.store_queries",
		metric.WithDescription("Neighbour lookups issued against the graph store")); err != nil {
		options.logger.Warn("failed to create store query counter", "error", err)
	}
	if b.sampledConns, err = meter.Int64Counter("kgcn.traverse.sampled_connections",
		metric.WithDescription("Connections selected by the per-depth samplers")); err != nil {
		options.logger.Warn("failed to create sampled connection counter", "error", err)
	}
	if b.neighbourhood, err = meter.Int64Histogram("kgcn.traverse.neighbourhood_size",
		metric.WithDescription("Sampled neighbourhood size per expanded thing")); err != nil {
		options.logger.Warn("failed to create neighbourhood histogram", "error", err)
	}

	return b, nil
}

// Depth returns the maximum traversal depth, equal to the number of samplers.
func (b *ContextBuilder) Depth() int { return len(b.samplers) }

// SampleSizes returns the per-depth sample sizes, in depth order.
func (b *ContextBuilder) SampleSizes() []int {
	sizes := make([]int, len(b.samplers))
	for i, s := range b.samplers {
		sizes[i] = s.SampleSize()
	}
	return sizes
}

// Build constructs the context tree for root within tx's snapshot.
//
// The traversal is depth-first and pre-order: the root is expanded first,
// then each sampled neighbour in sampled order. Every expanded thing is
// queried exactly once. Any store or filter error aborts the build; no
// partial tree is returned.
func (b *ContextBuilder) Build(ctx context.Context, tx graph.Transaction, root graph.Thing) (*ThingContext, error) {
	ctx, span := b.tracer.Start(ctx, "traverse.Build", trace.WithAttributes(
		attribute.String("kgcn.root_id", root.ID),
		attribute.String("kgcn.root_type", root.TypeLabel),
		attribute.String("kgcn.tx_id", tx.ID()),
		attribute.Int("kgcn.depth", len(b.samplers)),
	))
	defer span.End()

	tree, err := b.expand(ctx, tx, root, 0)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}

	b.logger.Debug("built thing context",
		"root_id", root.ID,
		"root_type", root.TypeLabel,
		"depth", len(b.samplers),
		"neighbours", len(tree.Neighbourhood))
	return tree, nil
}

// expand recursively builds the context for one thing at the given depth.
func (b *ContextBuilder) expand(ctx context.Context, tx graph.Transaction, thing graph.Thing, depth int) (*ThingContext, error) {
	// Terminal case: at maximum depth no further query is issued.
	if depth == len(b.samplers) {
		return &ThingContext{Thing: thing, Neighbourhood: []Neighbour{}}, nil
	}

	candidates, err := b.finder.Find(ctx, tx, thing.ID)
	if err != nil {
		return nil, fmt.Errorf("find neighbours of %q at depth %d: %w", thing.ID, depth, err)
	}
	if b.storeQueries != nil {
		b.storeQueries.Add(ctx, 1, metric.WithAttributes(attribute.Int("depth", depth)))
	}

	stream := candidates
	if b.filter != nil {
		stream = &filteredConnections{inner: candidates, filter: b.filter}
	}

	selected, err := b.samplers[depth].Sample(stream)
	if err != nil {
		return nil, fmt.Errorf("sample neighbours of %q at depth %d: %w", thing.ID, depth, err)
	}
	if b.sampledConns != nil {
		b.sampledConns.Add(ctx, int64(len(selected)), metric.WithAttributes(attribute.Int("depth", depth)))
	}
	if b.neighbourhood != nil {
		b.neighbourhood.Record(ctx, int64(len(selected)), metric.WithAttributes(attribute.Int("depth", depth)))
	}

	neighbourhood := make([]Neighbour, 0, len(selected))
	for _, conn := range selected {
		sub, err := b.expand(ctx, tx, conn.Neighbour, depth+1)
		if err != nil {
			return nil, err
		}
		neighbourhood = append(neighbourhood, Neighbour{
			RoleLabel: conn.RoleLabel,
			Direction: conn.Direction,
			Context:   sub,
		})
	}

	return &ThingContext{Thing: thing, Neighbourhood: neighbourhood}, nil
}
