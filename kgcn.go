package kgcn

import (
	"context"
	"fmt"
	"log/slog"

	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/trace"
	"gonum.org/v1/gonum/mat"

	"github.com/zero-day-ai/kgcn/aggregate"
	"github.com/zero-day-ai/kgcn/encode"
	"github.com/zero-day-ai/kgcn/graph"
	"github.com/zero-day-ai/kgcn/sample"
	"github.com/zero-day-ai/kgcn/traverse"
)

// Config holds pipeline configuration.
type Config struct {
	// SampleSizes gives the number of neighbours kept at each traversal
	// depth, nearest depth first. Its length is the traversal depth.
	SampleSizes []int

	// Limits bounds how many candidate connections are pulled from the
	// store at each depth before sampling. Each limit must be at least the
	// matching sample size. If empty, each limit defaults to twice the
	// sample size.
	Limits []int

	// EmbeddingSize is the width of the output embeddings.
	// Default: 32.
	EmbeddingSize int

	// AggregatedLength is the pooled representation width inside the
	// aggregation chain. If zero, it defaults to EmbeddingSize.
	AggregatedLength int

	// Pooling selects the neighbour reduction mode.
	// Default: aggregate.MaxPool.
	Pooling aggregate.Pooling

	// Dropout is applied inside each aggregator. Zero for inference.
	Dropout float64

	// Seed drives weight initialisation and dropout, and seeds the
	// sampling strategy when Sampling is nil and randomised sampling is
	// wanted. The same seed always produces the same embeddings.
	Seed int64

	// Sampling overrides the per-depth sampling strategy. If nil, the
	// deterministic prefix strategy is used.
	Sampling sample.Strategy

	// Filter is an optional CEL predicate over candidate connections,
	// applied before sampling at every depth.
	Filter string

	// Logger receives structured pipeline logs. If nil, slog.Default()
	// is used.
	Logger *slog.Logger

	// TracerProvider enables traversal spans. Optional.
	TracerProvider trace.TracerProvider

	// MeterProvider enables traversal metrics. Optional.
	MeterProvider metric.MeterProvider
}

// DefaultConfig returns a Config with sensible defaults for a two-level
// traversal. Callers typically adjust SampleSizes for their graph's fanout.
func DefaultConfig() Config {
	return Config{
		SampleSizes:   []int{3, 2},
		EmbeddingSize: 32,
		Pooling:       aggregate.MaxPool,
	}
}

func (c *Config) validate() error {
	if len(c.SampleSizes) == 0 {
		return fmt.Errorf("%w: no sample sizes", ErrInvalidConfig)
	}
	for i, n := range c.SampleSizes {
		if n <= 0 {
			return fmt.Errorf("%w: sample size %d at depth %d", ErrInvalidConfig, n, i)
		}
	}
	if len(c.Limits) != 0 && len(c.Limits) != len(c.SampleSizes) {
		return fmt.Errorf("%w: %d limits for %d sample sizes",
			ErrInvalidConfig, len(c.Limits), len(c.SampleSizes))
	}
	for i, limit := range c.Limits {
		if limit < c.SampleSizes[i] {
			return fmt.Errorf("%w: limit %d below sample size %d at depth %d",
				ErrInvalidConfig, limit, c.SampleSizes[i], i)
		}
	}
	if c.EmbeddingSize <= 0 {
		return fmt.Errorf("%w: embedding size %d", ErrInvalidConfig, c.EmbeddingSize)
	}
	if c.AggregatedLength < 0 {
		return fmt.Errorf("%w: aggregated length %d", ErrInvalidConfig, c.AggregatedLength)
	}
	if c.Dropout < 0 || c.Dropout >= 1 {
		return fmt.Errorf("%w: dropout %v", ErrInvalidConfig, c.Dropout)
	}
	if !c.Pooling.IsValid() {
		return fmt.Errorf("%w: pooling %d", ErrInvalidConfig, c.Pooling)
	}
	return nil
}

// Pipeline ties neighbourhood traversal, feature encoding, and the
// aggregation chain into a single embedding operation.
//
// A Pipeline is safe for concurrent use once constructed.
type Pipeline struct {
	cfg     Config
	builder *traverse.ContextBuilder
	encoder *encode.Encoder
	chain   *aggregate.Chain
	logger  *slog.Logger
}

// New constructs a Pipeline from a configuration, a neighbour finder, and a
// type taxonomy. The taxonomy must cover every type label the finder can
// return; unknown labels fail encoding at Embed time.
func New(cfg Config, finder graph.NeighbourFinder, taxonomy *encode.Taxonomy) (*Pipeline, error) {
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	if finder == nil {
		return nil, ErrNilFinder
	}
	if taxonomy == nil {
		return nil, ErrNilTaxonomy
	}

	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	samplers := make([]*sample.Sampler, len(cfg.SampleSizes))
	for i, size := range cfg.SampleSizes {
		limit := 2 * size
		if len(cfg.Limits) != 0 {
			limit = cfg.Limits[i]
		}
		s, err := sample.New(size, cfg.Sampling, limit)
		if err != nil {
			return nil, fmt.Errorf("sampler at depth %d: %w", i, err)
		}
		samplers[i] = s
	}

	opts := []traverse.Option{traverse.WithLogger(logger)}
	if cfg.Filter != "" {
		opts = append(opts, traverse.WithFilter(cfg.Filter))
	}
	if cfg.TracerProvider != nil {
		opts = append(opts, traverse.WithTracerProvider(cfg.TracerProvider))
	}
	if cfg.MeterProvider != nil {
		opts = append(opts, traverse.WithMeterProvider(cfg.MeterProvider))
	}

	builder, err := traverse.NewContextBuilder(samplers, finder, opts...)
	if err != nil {
		return nil, err
	}

	encoder, err := encode.NewEncoder(taxonomy)
	if err != nil {
		return nil, err
	}

	aggregated := cfg.AggregatedLength
	if aggregated == 0 {
		aggregated = cfg.EmbeddingSize
	}

	chain, err := aggregate.NewChain(aggregate.ChainConfig{
		FeatureWidth:     encoder.FeatureWidth(),
		SampleSizes:      cfg.SampleSizes,
		AggregatedLength: aggregated,
		EmbeddingSize:    cfg.EmbeddingSize,
		Pooling:          cfg.Pooling,
		Dropout:          cfg.Dropout,
		Seed:             cfg.Seed,
	})
	if err != nil {
		return nil, err
	}

	return &Pipeline{
		cfg:     cfg,
		builder: builder,
		encoder: encoder,
		chain:   chain,
		logger:  logger,
	}, nil
}

// Depth returns the traversal depth of the pipeline.
func (p *Pipeline) Depth() int { return p.builder.Depth() }

// EmbeddingSize returns the width of the embeddings Embed produces.
func (p *Pipeline) EmbeddingSize() int { return p.cfg.EmbeddingSize }

// Builder returns the underlying context builder, for callers that want to
// wrap it (for example with a traversal cache).
func (p *Pipeline) Builder() *traverse.ContextBuilder { return p.builder }

// Embed builds a neighbourhood context for each thing, encodes the traversal
// into per-depth feature matrices, and reduces them into one embedding per
// thing. Row i of the result corresponds to things[i], and each row is
// L2-normalised.
//
// If any traversal or encoding step fails, Embed returns a nil matrix and
// the error; there are no partial results.
func (p *Pipeline) Embed(ctx context.Context, tx graph.Transaction, things []graph.Thing) (*mat.Dense, error) {
	if len(things) == 0 {
		return nil, ErrNoThings
	}

	contexts := make([]*traverse.ThingContext, len(things))
	for i, thing := range things {
		tc, err := p.builder.Build(ctx, tx, thing)
		if err != nil {
			return nil, fmt.Errorf("build context for %s: %w", thing.ID, err)
		}
		contexts[i] = tc
	}

	neighbours := traverse.ContextsToNeighbours(contexts)
	byDepth := traverse.PaddedByDepth(neighbours, p.cfg.SampleSizes)

	matrices, err := p.encoder.EncodeByDepth(byDepth, p.cfg.SampleSizes)
	if err != nil {
		return nil, fmt.Errorf("encode traversal: %w", err)
	}

	embeddings, err := p.chain.Reduce(matrices)
	if err != nil {
		return nil, fmt.Errorf("reduce features: %w", err)
	}

	p.logger.Debug("embedded things",
		"count", len(things),
		"depth", p.builder.Depth(),
		"embedding_size", p.cfg.EmbeddingSize)

	return embeddings, nil
}
