package aggregate

import (
	"fmt"

	"gonum.org/v1/gonum/mat"
)

// ChainConfig configures a full leaves-to-root aggregation chain.
type ChainConfig struct {
	// FeatureWidth is the column count of the encoded feature matrices.
	FeatureWidth int

	// SampleSizes are the per-depth sample sizes the traversal used; they
	// determine how neighbour rows group under their targets.
	SampleSizes []int

	// AggregatedLength is the pooled representation width at every level.
	AggregatedLength int

	// EmbeddingSize is the width of the final (and intermediate) combined
	// representations.
	EmbeddingSize int

	// Pooling is the reduction mode. Defaults to MaxPool.
	Pooling Pooling

	// Activation defaults to ReLU.
	Activation Activation

	// Dropout applies inside each Aggregator. Zero for inference.
	Dropout float64

	// Seed drives all weight initialisation; each level derives its own
	// sub-seed so levels are not weight-tied.
	Seed int64
}

// Chain applies one Aggregator and Combiner per traversal depth, reducing
// per-depth feature matrices leaves-first into one embedding per root.
type Chain struct {
	aggregators []*Aggregator
	combiners   []*Combiner
	sampleSizes []int
	featWidth   int
}

// NewChain builds the per-level aggregators and combiners.
//
// Level L (0-based, L = 0 nearest the roots) aggregates the representations
// of level L+1 and combines them with level L's raw features. The deepest
// level aggregates raw leaf features; every shallower level aggregates the
// embeddings produced below it.
func NewChain(cfg ChainConfig) (*Chain, error) {
	if cfg.FeatureWidth <= 0 {
		return nil, fmt.Errorf("%w: feature width %d", ErrInvalidConfig, cfg.FeatureWidth)
	}
	if len(cfg.SampleSizes) == 0 {
		return nil, fmt.Errorf("%w: no sample sizes", ErrInvalidConfig)
	}
	for i, n := range cfg.SampleSizes {
		if n <= 0 {
			return nil, fmt.Errorf("%w: sample size %d at depth %d", ErrInvalidConfig, n, i)
		}
	}
	if cfg.AggregatedLength <= 0 || cfg.EmbeddingSize <= 0 {
		return nil, fmt.Errorf("%w: aggregated length %d, embedding size %d", ErrInvalidConfig, cfg.AggregatedLength, cfg.EmbeddingSize)
	}

	depth := len(cfg.SampleSizes)
	c := &Chain{
		aggregators: make([]*Aggregator, depth),
		combiners:   make([]*Combiner, depth),
		sampleSizes: cfg.SampleSizes,
		featWidth:   cfg.FeatureWidth,
	}

	for level := 0; level < depth; level++ {
		inputWidth := cfg.EmbeddingSize
		if level == depth-1 {
			inputWidth = cfg.FeatureWidth
		}

		agg, err := NewAggregator(AggregatorConfig{
			InputWidth:       inputWidth,
			AggregatedLength: cfg.AggregatedLength,
			Pooling:          cfg.Pooling,
			Activation:       cfg.Activation,
			Dropout:          cfg.Dropout,
			Seed:             cfg.Seed + int64(level)*2,
		})
		if err != nil {
			return nil, fmt.Errorf("level %d aggregator: %w", level, err)
		}

		comb, err := NewCombiner(CombinerConfig{
			TargetWidth:      cfg.FeatureWidth,
			AggregatedLength: cfg.AggregatedLength,
			OutputLength:     cfg.EmbeddingSize,
			Activation:       cfg.Activation,
			Seed:             cfg.Seed + int64(level)*2 + 1,
		})
		if err != nil {
			return nil, fmt.Errorf("level %d combiner: %w", level, err)
		}

		c.aggregators[level] = agg
		c.combiners[level] = comb
	}
	return c, nil
}

// Depth returns the number of aggregation levels.
func (c *Chain) Depth() int { return len(c.aggregators) }

// Reduce runs the full chain over per-depth feature matrices (index 0 holding
// the roots, index Depth() the leaves) and returns one embedding row per
// root.
func (c *Chain) Reduce(matrices []*mat.Dense) (*mat.Dense, error) {
	depth := c.Depth()
	if len(matrices) != depth+1 {
		return nil, fmt.Errorf("%w: got %d matrices, want %d", ErrDimensionMismatch, len(matrices), depth+1)
	}
	for d, m := range matrices {
		if m == nil {
			return nil, fmt.Errorf("%w: nil matrix at depth %d", ErrDimensionMismatch, d)
		}
		if _, cols := m.Dims(); cols != c.featWidth {
			return nil, fmt.Errorf("%w: depth %d has %d columns, want %d", ErrDimensionMismatch, d, cols, c.featWidth)
		}
	}

	// reps holds the current representation of the deepest unreduced level.
	reps := mat.DenseCopyOf(matrices[depth])

	for level := depth - 1; level >= 0; level-- {
		targets := matrices[level]
		targetRows, _ := targets.Dims()
		childSize := c.sampleSizes[level]

		childRows, _ := reps.Dims()
		if childRows != targetRows*childSize {
			return nil, fmt.Errorf("%w: level %d has %d child rows for %d targets with sample size %d",
				ErrDimensionMismatch, level, childRows, targetRows, childSize)
		}

		next := mat.NewDense(targetRows, c.combiners[level].OutputLength(), nil)
		for i := 0; i < targetRows; i++ {
			block := reps.Slice(i*childSize, (i+1)*childSize, 0, repWidth(reps))

			pooled, err := c.aggregators[level].Aggregate(block)
			if err != nil {
				return nil, fmt.Errorf("level %d target %d: %w", level, i, err)
			}

			target := mat.NewVecDense(c.featWidth, nil)
			for j := 0; j < c.featWidth; j++ {
				target.SetVec(j, targets.At(i, j))
			}

			combined, err := c.combiners[level].Combine(target, pooled)
			if err != nil {
				return nil, fmt.Errorf("level %d target %d: %w", level, i, err)
			}
			next.SetRow(i, Normalise(combined).RawVector().Data)
		}
		reps = next
	}
	return reps, nil
}

func repWidth(m *mat.Dense) int {
	_, cols := m.Dims()
	return cols
}
