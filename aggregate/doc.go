// Package aggregate implements the GraphSAGE-style aggregation and combine
// stage over encoded neighbourhood features.
//
// The stage consumes the per-depth feature matrices produced by package
// encode and reduces them, leaves first, into one embedding per root thing:
//
//  1. An Aggregator passes each target's neighbour rows through a learned
//     dense transform with optional dropout, then pools them with an
//     order-independent reduction (max or mean). Order independence matters:
//     the sampled neighbours of a thing carry no meaningful ordering, so the
//     pooled representation must not depend on it.
//  2. A Combiner concatenates the target's own features with the pooled
//     neighbour representation, multiplies by a learned weight matrix, and
//     applies an activation.
//  3. The combined representation is L2-normalised and becomes the
//     neighbour-side input for the next level up.
//
// A Chain wires one Aggregator and Combiner per depth and runs the full
// reduction. All weights are initialised deterministically from a seed, and
// dropout is seeded as well, so a fixed configuration reproduces identical
// embeddings for identical inputs.
package aggregate
