// Package graph defines the data model and collaborator interfaces for the
// KGCN traversal pipeline.
//
// The package is deliberately free of I/O: it describes what a knowledge-graph
// node looks like from the pipeline's point of view (Thing), what an observed
// edge looks like (Connection), and the two interfaces the pipeline consumes
// from a backing graph store (Transaction and NeighbourFinder). Concrete store
// implementations live elsewhere; the in-memory reference implementation is in
// package store.
//
// # Things
//
// A Thing is the pipeline's view of a single graph-store node. Every Thing has
// a store-assigned ID (stable only within the transaction that produced it), a
// type label, and a base type describing its kind: entity, relation, or
// attribute. Attribute Things additionally carry a value and its value type.
// Things are immutable once constructed; use the NewEntity, NewRelation, and
// NewAttribute constructors:
//
//	person := graph.NewEntity("V4123", "person")
//	emp := graph.NewRelation("V8", "employment")
//	name, err := graph.NewAttribute("V99", "name", graph.ValueString, "Alice")
//
// # Connections
//
// A Connection is an edge observed from one Thing's perspective: the role
// label, which side plays the role (Direction), and the Thing at the other
// end. When the store cannot resolve the role, the sentinel labels
// UnknownRoleTargetLabel and UnknownRoleNeighbourLabel stand in.
//
// # Lazy neighbour streams
//
// NeighbourFinder.Find returns a Connections iterator rather than a slice. The
// stream is single-pass and may be backed by a live store cursor, so callers
// must not assume repeated iteration or random access. SliceConnections adapts
// an in-memory slice for tests and small stores.
package graph
