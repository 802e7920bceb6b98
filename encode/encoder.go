package encode

import (
	"fmt"

	"gonum.org/v1/gonum/mat"

	"github.com/zero-day-ai/kgcn/graph"
	"github.com/zero-day-ai/kgcn/traverse"
)

// baseTypeCount is the width of the base-type one-hot block.
var baseTypes = graph.AllBaseTypes()

// Encoder encodes traversal records as dense feature rows using a fixed
// taxonomy. An Encoder is immutable and safe for concurrent use.
type Encoder struct {
	taxonomy   *Taxonomy
	thingIndex map[string]int
	roleIndex  map[string]int
	valueIndex map[string]int
}

// NewEncoder builds an encoder from a validated taxonomy.
func NewEncoder(taxonomy *Taxonomy) (*Encoder, error) {
	if taxonomy == nil {
		return nil, fmt.Errorf("%w: nil taxonomy", ErrInvalidTaxonomy)
	}
	if err := taxonomy.Validate(); err != nil {
		return nil, err
	}
	return &Encoder{
		taxonomy:   taxonomy,
		thingIndex: indexOf(taxonomy.ThingTypes),
		roleIndex:  indexOf(taxonomy.RoleTypes),
		valueIndex: indexOf(taxonomy.ValueTypes),
	}, nil
}

func indexOf(list []string) map[string]int {
	idx := make(map[string]int, len(list))
	for i, entry := range list {
		idx[entry] = i
	}
	return idx
}

// FeatureWidth returns the number of columns in an encoded record row.
func (e *Encoder) FeatureWidth() int {
	return len(e.taxonomy.RoleTypes) + 1 + len(e.taxonomy.ThingTypes) + len(baseTypes) + len(e.taxonomy.ValueTypes) + 1
}

// OneHot returns a row vector of width n with a single 1 at index i.
func OneHot(i, n int) []float64 {
	row := make([]float64, n)
	row[i] = 1
	return row
}

// encodeRow writes one record into dst, which must have FeatureWidth
// columns. Column layout:
//
//	[ role | direction | thing type | base type | value type | value ]
func (e *Encoder) encodeRow(dst []float64, r traverse.Record) error {
	// Blank padding records carry no type label and encode as all zeros.
	if r.TypeLabel == "" {
		return nil
	}

	col := 0

	// Role block. The synthetic root record carries an empty role label and
	// encodes all zeros.
	if r.RoleLabel != "" {
		i, ok := e.roleIndex[r.RoleLabel]
		if !ok {
			return fmt.Errorf("%w: role %q", ErrUnknownType, r.RoleLabel)
		}
		dst[col+i] = 1
	}
	col += len(e.taxonomy.RoleTypes)

	if r.Direction == graph.NeighbourPlays {
		dst[col] = 1
	}
	col++

	i, ok := e.thingIndex[r.TypeLabel]
	if !ok {
		return fmt.Errorf("%w: thing type %q", ErrUnknownType, r.TypeLabel)
	}
	dst[col+i] = 1
	col += len(e.taxonomy.ThingTypes)

	for j, b := range baseTypes {
		if r.BaseType == b {
			dst[col+j] = 1
		}
	}
	col += len(baseTypes)

	if r.ValueType != graph.ValueNone {
		i, ok := e.valueIndex[r.ValueType.String()]
		if !ok {
			return fmt.Errorf("%w: value type %q", ErrUnknownType, r.ValueType)
		}
		dst[col+i] = 1
	}
	col += len(e.taxonomy.ValueTypes)

	thing := graph.Thing{BaseType: r.BaseType, Value: r.Value}
	if v, ok := thing.NumericValue(); ok {
		dst[col] = v
	}
	return nil
}

// EncodeRecords encodes records as a dense matrix with one row per record.
// An empty record list yields a nil matrix.
func (e *Encoder) EncodeRecords(records []traverse.Record) (*mat.Dense, error) {
	if len(records) == 0 {
		return nil, nil
	}

	width := e.FeatureWidth()
	out := mat.NewDense(len(records), width, nil)
	for i, r := range records {
		if err := e.encodeRow(out.RawRowView(i), r); err != nil {
			return nil, fmt.Errorf("record %d (%s): %w", i, r.ID, err)
		}
	}
	return out, nil
}

// EncodeByDepth encodes per-depth record groups into one matrix per depth,
// index 0 holding the roots. Each depth is padded with zero rows to its
// expected size — rootCount × Π(sampleSizes[:d]) — so tensors align
// positionally across builds even when parts of the graph run out of
// neighbours early.
func (e *Encoder) EncodeByDepth(byDepth map[int][]traverse.Record, sampleSizes []int) ([]*mat.Dense, error) {
	rootCount := len(byDepth[0])
	if rootCount == 0 {
		return nil, fmt.Errorf("encode: no root records at depth 0")
	}

	width := e.FeatureWidth()
	out := make([]*mat.Dense, len(sampleSizes)+1)

	expected := rootCount
	for depth := 0; depth <= len(sampleSizes); depth++ {
		if depth > 0 {
			expected *= sampleSizes[depth-1]
		}

		records := byDepth[depth]
		if len(records) > expected {
			return nil, fmt.Errorf("encode: depth %d has %d records, expected at most %d", depth, len(records), expected)
		}

		m := mat.NewDense(expected, width, nil)
		for i, r := range records {
			if err := e.encodeRow(m.RawRowView(i), r); err != nil {
				return nil, fmt.Errorf("depth %d record %d (%s): %w", depth, i, r.ID, err)
			}
		}
		out[depth] = m
	}
	return out, nil
}
