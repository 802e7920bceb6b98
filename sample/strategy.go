package sample

import (
	"math/rand"
	"sort"

	"github.com/zero-day-ai/kgcn/graph"
)

// Strategy chooses up to n connections from a pre-truncated candidate slice.
//
// Implementations must be deterministic for the pipeline's reproducibility
// guarantee to hold: the same candidates in the same order must always yield
// the same selection. Select is only called when len(candidates) > n.
type Strategy interface {
	Select(candidates []graph.Connection, n int) []graph.Connection
}

// First selects an ordered prefix of the candidates.
//
// This is the reference strategy: it preserves the candidates' arrival order
// and introduces no randomness, so the built context tree is byte-for-byte
// reproducible whenever the store enumerates connections in a stable order.
type First struct{}

// Select returns the first n candidates.
func (First) Select(candidates []graph.Connection, n int) []graph.Connection {
	return candidates[:n]
}

// Reservoir selects n candidates pseudo-randomly without replacement.
//
// The selection is driven entirely by Seed, so a fixed seed gives a
// reproducible sample even though it is not a plain prefix. The selected
// connections keep their arrival order, which keeps positional alignment
// stable across repeated builds.
type Reservoir struct {
	// Seed drives the pseudo-random selection. The zero seed is valid.
	Seed int64
}

// Select returns n candidates chosen without replacement, in arrival order.
func (r Reservoir) Select(candidates []graph.Connection, n int) []graph.Connection {
	rng := rand.New(rand.NewSource(r.Seed))
	picked := rng.Perm(len(candidates))[:n]
	sort.Ints(picked)

	out := make([]graph.Connection, 0, n)
	for _, i := range picked {
		out = append(out, candidates[i])
	}
	return out
}
