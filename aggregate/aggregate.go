package aggregate

import (
	"errors"
	"fmt"
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

// Sentinel errors for the aggregation stage.
// These errors can be used with errors.Is() for error checking.
var (
	// ErrInvalidConfig is returned when an aggregator, combiner, or chain is
	// constructed with invalid dimensions, dropout rate, or pooling mode.
	ErrInvalidConfig = errors.New("aggregate: invalid configuration")

	// ErrDimensionMismatch is returned when an input matrix or vector does
	// not match the dimensions the stage was constructed for.
	ErrDimensionMismatch = errors.New("aggregate: dimension mismatch")
)

// Pooling selects the order-independent reduction applied across neighbours.
type Pooling int

const (
	// MaxPool takes the column-wise maximum across neighbour rows.
	MaxPool Pooling = iota

	// MeanPool takes the column-wise mean across neighbour rows.
	MeanPool
)

// String returns the string representation of the Pooling mode.
func (p Pooling) String() string {
	switch p {
	case MaxPool:
		return "max"
	case MeanPool:
		return "mean"
	default:
		return fmt.Sprintf("Pooling(%d)", int(p))
	}
}

// IsValid returns true if the pooling mode is a valid value.
func (p Pooling) IsValid() bool { return p == MaxPool || p == MeanPool }

// ParsePooling parses a string into a Pooling value.
func ParsePooling(s string) (Pooling, error) {
	switch s {
	case "max":
		return MaxPool, nil
	case "mean":
		return MeanPool, nil
	default:
		return 0, fmt.Errorf("%w: unknown pooling %q", ErrInvalidConfig, s)
	}
}

// Activation is an element-wise activation function.
type Activation func(float64) float64

// ReLU is the default activation.
func ReLU(x float64) float64 {
	if x < 0 {
		return 0
	}
	return x
}

// Identity passes values through unchanged.
func Identity(x float64) float64 { return x }

// Sigmoid squashes values into (0, 1).
func Sigmoid(x float64) float64 { return 1 / (1 + math.Exp(-x)) }

// glorotInit fills a rows x cols weight matrix with uniform values scaled by
// the layer fan-in and fan-out, using the given deterministic source.
func glorotInit(rows, cols int, rng *rand.Rand) *mat.Dense {
	limit := math.Sqrt(6 / float64(rows+cols))
	w := mat.NewDense(rows, cols, nil)
	for i := 0; i < rows; i++ {
		for j := 0; j < cols; j++ {
			w.Set(i, j, (rng.Float64()*2-1)*limit)
		}
	}
	return w
}

// Aggregator pools a set of neighbour feature rows into one fixed-length
// representation via a learned dense transform and an order-independent
// reduction.
type Aggregator struct {
	weights    *mat.Dense // inputWidth x aggregatedLength
	pooling    Pooling
	activation Activation
	dropout    float64
	seed       int64
}

// AggregatorConfig configures an Aggregator.
type AggregatorConfig struct {
	// InputWidth is the number of columns in each neighbour row.
	InputWidth int

	// AggregatedLength is the width of the pooled representation.
	AggregatedLength int

	// Pooling is the reduction mode. Defaults to MaxPool.
	Pooling Pooling

	// Activation applies to the dense-layer output. Defaults to ReLU.
	Activation Activation

	// Dropout is the fraction of dense-layer outputs zeroed during
	// aggregation, in [0, 1). Zero disables dropout (inference mode).
	Dropout float64

	// Seed drives weight initialisation and dropout masks.
	Seed int64
}

// NewAggregator creates an Aggregator with deterministically initialised
// weights.
func NewAggregator(cfg AggregatorConfig) (*Aggregator, error) {
	if cfg.InputWidth <= 0 || cfg.AggregatedLength <= 0 {
		return nil, fmt.Errorf("%w: input width %d, aggregated length %d", ErrInvalidConfig, cfg.InputWidth, cfg.AggregatedLength)
	}
	if cfg.Dropout < 0 || cfg.Dropout >= 1 {
		return nil, fmt.Errorf("%w: dropout %v outside [0, 1)", ErrInvalidConfig, cfg.Dropout)
	}
	if !cfg.Pooling.IsValid() {
		return nil, fmt.Errorf("%w: pooling %d", ErrInvalidConfig, int(cfg.Pooling))
	}
	if cfg.Activation == nil {
		cfg.Activation = ReLU
	}

	rng := rand.New(rand.NewSource(cfg.Seed))
	return &Aggregator{
		weights:    glorotInit(cfg.InputWidth, cfg.AggregatedLength, rng),
		pooling:    cfg.Pooling,
		activation: cfg.Activation,
		dropout:    cfg.Dropout,
		seed:       cfg.Seed,
	}, nil
}

// AggregatedLength returns the width of the pooled representation.
func (a *Aggregator) AggregatedLength() int {
	_, cols := a.weights.Dims()
	return cols
}

// Aggregate reduces neighbour rows to a single representation. A nil or
// empty input yields a zero vector, standing in for a thing that had no
// sampled neighbours at this depth.
func (a *Aggregator) Aggregate(neighbours mat.Matrix) (*mat.VecDense, error) {
	aggLen := a.AggregatedLength()
	if neighbours == nil {
		return mat.NewVecDense(aggLen, nil), nil
	}

	rows, cols := neighbours.Dims()
	if rows == 0 {
		return mat.NewVecDense(aggLen, nil), nil
	}
	inWidth, _ := a.weights.Dims()
	if cols != inWidth {
		return nil, fmt.Errorf("%w: neighbours have %d columns, weights expect %d", ErrDimensionMismatch, cols, inWidth)
	}

	// Dense transform, then element-wise activation.
	var dense mat.Dense
	dense.Mul(neighbours, a.weights)
	dense.Apply(func(_, _ int, v float64) float64 { return a.activation(v) }, &dense)

	// Inverted dropout with a per-call seeded mask, so repeated aggregation
	// of the same inputs is reproducible.
	if a.dropout > 0 {
		rng := rand.New(rand.NewSource(a.seed))
		scale := 1 / (1 - a.dropout)
		dense.Apply(func(_, _ int, v float64) float64 {
			if rng.Float64() < a.dropout {
				return 0
			}
			return v * scale
		}, &dense)
	}

	// Reduce rather than pool: a pool size equal to the number of
	// neighbours, which is what makes the result order-independent.
	out := mat.NewVecDense(aggLen, nil)
	for j := 0; j < aggLen; j++ {
		switch a.pooling {
		case MeanPool:
			sum := 0.0
			for i := 0; i < rows; i++ {
				sum += dense.At(i, j)
			}
			out.SetVec(j, sum/float64(rows))
		default: // MaxPool
			max := dense.At(0, j)
			for i := 1; i < rows; i++ {
				if v := dense.At(i, j); v > max {
					max = v
				}
			}
			out.SetVec(j, max)
		}
	}
	return out, nil
}
