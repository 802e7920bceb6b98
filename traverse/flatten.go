package traverse

import "github.com/zero-day-ai/kgcn/graph"

// Record is one flattened traversal entry: the role metadata of a sampled
// connection plus the identity of the thing at its far end. Records are what
// the feature encoder consumes and what the traversal cache stores.
type Record struct {
	RoleLabel string              `json:"role_label"`
	Direction graph.RoleDirection `json:"direction"`
	TypeLabel string              `json:"type_label"`
	BaseType  graph.BaseType      `json:"base_type"`
	ID        string              `json:"id"`
	ValueType graph.ValueType     `json:"value_type,omitempty"`
	Value     any                 `json:"value,omitempty"`
}

// recordOf captures a neighbour's connection metadata and thing identity.
func recordOf(n Neighbour) Record {
	t := n.Context.Thing
	return Record{
		RoleLabel: n.RoleLabel,
		Direction: n.Direction,
		TypeLabel: t.TypeLabel,
		BaseType:  t.BaseType,
		ID:        t.ID,
		ValueType: t.ValueType,
		Value:     t.Value,
	}
}

// Flatten walks the neighbours depth-first in pre-order and emits one record
// per neighbour. Wrapping roots with ContextsToNeighbours first includes the
// roots themselves as synthetic records.
func Flatten(neighbours []Neighbour) []Record {
	records := make([]Record, 0, len(neighbours))
	for _, n := range neighbours {
		records = append(records, recordOf(n))
		records = append(records, Flatten(n.Context.Neighbourhood)...)
	}
	return records
}

// ContextsToNeighbours wraps each top-level context as a synthetic Neighbour
// with an empty role label, producing a uniform neighbour list for downstream
// flattening regardless of whether the input came from one root or many.
func ContextsToNeighbours(contexts []*ThingContext) []Neighbour {
	neighbours := make([]Neighbour, 0, len(contexts))
	for _, c := range contexts {
		neighbours = append(neighbours, Neighbour{
			RoleLabel: "",
			Direction: graph.TargetPlays,
			Context:   c,
		})
	}
	return neighbours
}

// MergePrepend merges two mappings from key to ordered value list. For every
// key in add, the result's list is add's values followed by into's values;
// keys only in into pass through unchanged. Neither input is mutated.
func MergePrepend[K comparable, V any](add, into map[K][]V) map[K][]V {
	merged := make(map[K][]V, len(into)+len(add))
	for k, vs := range into {
		merged[k] = vs
	}
	for k, vs := range add {
		if prior, ok := merged[k]; ok {
			combined := make([]V, 0, len(vs)+len(prior))
			combined = append(combined, vs...)
			combined = append(combined, prior...)
			merged[k] = combined
		} else {
			merged[k] = vs
		}
	}
	return merged
}

// RecordsByDepth groups flattened records by their depth in the tree, with
// the neighbours at index 0. Within each depth, records appear in pre-order
// traversal order. The encoder uses these groups to assemble one feature
// matrix per depth.
func RecordsByDepth(neighbours []Neighbour) map[int][]Record {
	return recordsAtDepth(neighbours, 0)
}

func recordsAtDepth(neighbours []Neighbour, depth int) map[int][]Record {
	acc := make(map[int][]Record)
	// Accumulate in reverse so that prepend-merging keeps pre-order within
	// each depth level.
	for i := len(neighbours) - 1; i >= 0; i-- {
		n := neighbours[i]
		sub := recordsAtDepth(n.Context.Neighbourhood, depth+1)
		sub = MergePrepend(map[int][]Record{depth: {recordOf(n)}}, sub)
		acc = MergePrepend(sub, acc)
	}
	return acc
}

// PaddedByDepth groups records by depth like RecordsByDepth, but pads every
// thing's neighbour list to its depth's sample size with blank records, along
// with the whole subtree beneath each blank. The result is positionally
// aligned: at depth d+1, rows i*sampleSizes[d] through (i+1)*sampleSizes[d]-1
// always belong to thing i at depth d, which is the alignment the aggregation
// chain relies on when it groups child rows under their targets.
//
// Blank records carry no type label and encode as all-zero feature rows. The
// root level is never padded; it holds exactly the provided neighbours.
func PaddedByDepth(neighbours []Neighbour, sampleSizes []int) map[int][]Record {
	return paddedAtDepth(neighbours, sampleSizes, 0)
}

func paddedAtDepth(neighbours []Neighbour, sizes []int, depth int) map[int][]Record {
	if depth > len(sizes) {
		return map[int][]Record{}
	}

	width := len(neighbours)
	if depth > 0 {
		width = sizes[depth-1]
	}

	acc := make(map[int][]Record)
	for i := width - 1; i >= 0; i-- {
		var sub map[int][]Record
		if i < len(neighbours) {
			n := neighbours[i]
			sub = paddedAtDepth(n.Context.Neighbourhood, sizes, depth+1)
			sub = MergePrepend(map[int][]Record{depth: {recordOf(n)}}, sub)
		} else {
			sub = paddedAtDepth(nil, sizes, depth+1)
			sub = MergePrepend(map[int][]Record{depth: {{}}}, sub)
		}
		acc = MergePrepend(sub, acc)
	}
	return acc
}
