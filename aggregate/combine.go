package aggregate

import (
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Combiner merges a target thing's own features with its pooled neighbour
// representation: concatenation, multiplication with a learned weight matrix,
// and an activation.
type Combiner struct {
	weights     *mat.Dense // (targetWidth + aggregatedLength) x outputLength
	targetWidth int
	aggLength   int
	activation  Activation
}

// CombinerConfig configures a Combiner.
type CombinerConfig struct {
	// TargetWidth is the number of columns in a target feature row.
	TargetWidth int

	// AggregatedLength is the width of the pooled neighbour representation.
	AggregatedLength int

	// OutputLength is the width of the combined representation.
	OutputLength int

	// Activation applies to the weighted output. Defaults to ReLU.
	Activation Activation

	// Seed drives weight initialisation.
	Seed int64
}

// NewCombiner creates a Combiner with deterministically initialised weights.
func NewCombiner(cfg CombinerConfig) (*Combiner, error) {
	if cfg.TargetWidth <= 0 || cfg.AggregatedLength <= 0 || cfg.OutputLength <= 0 {
		return nil, fmt.Errorf("%w: target width %d, aggregated length %d, output length %d",
			ErrInvalidConfig, cfg.TargetWidth, cfg.AggregatedLength, cfg.OutputLength)
	}
	if cfg.Activation == nil {
		cfg.Activation = ReLU
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	return &Combiner{
		weights:     glorotInit(cfg.TargetWidth+cfg.AggregatedLength, cfg.OutputLength, rng),
		targetWidth: cfg.TargetWidth,
		aggLength:   cfg.AggregatedLength,
		activation:  cfg.Activation,
	}, nil
}

// OutputLength returns the width of the combined representation.
func (c *Combiner) OutputLength() int {
	_, cols := c.weights.Dims()
	return cols
}

// Combine produces the full representation of a target from its own features
// and its aggregated neighbour representation.
func (c *Combiner) Combine(target, aggregated *mat.VecDense) (*mat.VecDense, error) {
	if target.Len() != c.targetWidth {
		return nil, fmt.Errorf("%w: target has %d elements, want %d", ErrDimensionMismatch, target.Len(), c.targetWidth)
	}
	if aggregated.Len() != c.aggLength {
		return nil, fmt.Errorf("%w: aggregated has %d elements, want %d", ErrDimensionMismatch, aggregated.Len(), c.aggLength)
	}

	concat := mat.NewVecDense(c.targetWidth+c.aggLength, nil)
	for i := 0; i < c.targetWidth; i++ {
		concat.SetVec(i, target.AtVec(i))
	}
	for i := 0; i < c.aggLength; i++ {
		concat.SetVec(c.targetWidth+i, aggregated.AtVec(i))
	}

	out := mat.NewVecDense(c.OutputLength(), nil)
	out.MulVec(c.weights.T(), concat)
	for i := 0; i < out.Len(); i++ {
		out.SetVec(i, c.activation(out.AtVec(i)))
	}
	return out, nil
}

// Normalise scales a vector to unit L2 norm. Zero vectors pass through
// unchanged.
func Normalise(v *mat.VecDense) *mat.VecDense {
	norm := mat.Norm(v, 2)
	if norm == 0 || math.IsNaN(norm) {
		return v
	}
	out := mat.NewVecDense(v.Len(), nil)
	out.ScaleVec(1/norm, v)
	return out
}
