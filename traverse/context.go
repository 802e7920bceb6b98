package traverse

import "github.com/zero-day-ai/kgcn/graph"

// ThingContext is a thing together with its sampled, recursively expanded
// neighbourhood.
//
// Neighbourhood is always a materialized slice, never a lazy stream: callers
// may iterate it any number of times. Its length is at most the sample size
// of the sampler configured for that depth. A leaf context (at maximum depth,
// or for a thing with no connections) has an empty, non-nil neighbourhood.
type ThingContext struct {
	// Thing is the node this context describes.
	Thing graph.Thing `json:"thing"`

	// Neighbourhood is the ordered sampled neighbours at the next depth.
	Neighbourhood []Neighbour `json:"neighbourhood"`
}

// Neighbour is a sampled connection annotated with the recursively built
// context of the thing at its far end.
type Neighbour struct {
	// RoleLabel is the role on the sampled connection. Empty only for the
	// synthetic neighbours produced by ContextsToNeighbours.
	RoleLabel string `json:"role_label"`

	// Direction records which side of the connection plays the role.
	Direction graph.RoleDirection `json:"direction"`

	// Context is the neighbour thing's own sub-context.
	Context *ThingContext `json:"context"`
}

// Equal reports whether two context trees are structurally identical:
// same things, same roles and directions, in the same order, to the
// same depth.
func (c *ThingContext) Equal(other *ThingContext) bool {
	if c == nil || other == nil {
		return c == other
	}
	if !c.Thing.Equal(other.Thing) || len(c.Neighbourhood) != len(other.Neighbourhood) {
		return false
	}
	for i, n := range c.Neighbourhood {
		o := other.Neighbourhood[i]
		if n.RoleLabel != o.RoleLabel || n.Direction != o.Direction || !n.Context.Equal(o.Context) {
			return false
		}
	}
	return true
}

// MaxDepth returns the length of the deepest path in the context tree. A
// context with an empty neighbourhood has depth zero.
func MaxDepth(c *ThingContext) int {
	if c == nil || len(c.Neighbourhood) == 0 {
		return 0
	}
	max := 0
	for _, n := range c.Neighbourhood {
		if d := MaxDepth(n.Context); d > max {
			max = d
		}
	}
	return max + 1
}
