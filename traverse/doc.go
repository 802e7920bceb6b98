// Package traverse builds bounded neighbourhood context trees over a live
// graph-store transaction.
//
// The ContextBuilder is the core of the KGCN ingest pipeline. Given a root
// Thing it recursively expands the thing's neighbourhood to a fixed depth,
// sampling at most a configured number of connections at each level. The
// result is a ThingContext tree: the root thing, its sampled neighbours, their
// sampled neighbours, and so on. One sampler is configured per depth, so the
// number of samplers fixes the maximum depth of the tree.
//
// # Determinism
//
// The tree is later flattened into fixed-size feature tensors that must align
// positionally across repeated builds (for example across training epochs
// re-reading the same snapshot). The builder therefore guarantees that, given
// the same transaction snapshot, root thing, and sampler configuration, the
// built tree is identical on every call — even when the backing store
// enumerates connections lazily. Traversal is depth-first and pre-order, each
// expanded thing is queried exactly once, and sampling at each level is
// order-preserving.
//
// # Failure semantics
//
// The builder performs no retries and returns no partial trees: any store
// error surfaced by the NeighbourFinder aborts the build and propagates to
// the caller, who owns the transaction lifecycle. Cancelling a build is done
// by closing the transaction (or cancelling the context the finder observes),
// which fails the next lookup.
//
// # Usage
//
//	s1, _ := sample.New(2, sample.First{}, 4)
//	s2, _ := sample.New(3, sample.First{}, 6)
//	builder, err := traverse.NewContextBuilder([]*sample.Sampler{s1, s2}, finder)
//	if err != nil {
//	    return err
//	}
//	tree, err := builder.Build(ctx, tx, rootThing)
//
// The companion helpers Flatten, ContextsToNeighbours, and RecordsByDepth turn
// trees into the flat record streams the feature encoder consumes.
package traverse
