package store

import (
	"context"
	"math/rand"

	"github.com/zero-day-ai/kgcn/graph"
)

// ShuffledFinder wraps a NeighbourFinder and returns its connections in a
// seeded pseudo-random order. It simulates a store whose enumeration order is
// not stable, which is useful for exercising the traversal pipeline's
// determinism guarantees under store-side nondeterminism.
type ShuffledFinder struct {
	// Inner is the finder whose results are reordered.
	Inner graph.NeighbourFinder

	// Seed drives the shuffle. The same seed produces the same order on
	// every call, so a ShuffledFinder is itself deterministic — it is the
	// order that differs from the store's natural one.
	Seed int64
}

// Find materializes the inner stream and returns it shuffled.
func (f *ShuffledFinder) Find(ctx context.Context, tx graph.Transaction, thingID string) (graph.Connections, error) {
	inner, err := f.Inner.Find(ctx, tx, thingID)
	if err != nil {
		return nil, err
	}

	var conns []graph.Connection
	for inner.Next() {
		conns = append(conns, inner.Connection())
	}
	if err := inner.Err(); err != nil {
		return nil, err
	}

	// Derive the shuffle from the seed and the thing id so different
	// things get different orders while repeated calls stay stable.
	seed := f.Seed
	for _, b := range []byte(thingID) {
		seed = seed*31 + int64(b)
	}
	rng := rand.New(rand.NewSource(seed))
	rng.Shuffle(len(conns), func(i, j int) { conns[i], conns[j] = conns[j], conns[i] })

	return graph.SliceConnections(conns), nil
}
