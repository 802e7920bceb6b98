// Package kgcn builds knowledge graph embeddings by sampled neighbourhood
// traversal, feature encoding, and GraphSAGE-style aggregation.
//
// The pipeline walks a bounded neighbourhood around each root thing, encodes
// the traversal into per-depth feature matrices, and reduces those matrices
// leaves-first into one fixed-width embedding per root.
//
// # Core Concepts
//
// The module is organized around a small set of concepts:
//
//   - Things: entities, relations, and attributes in a knowledge graph
//   - Connections: role-labelled edges between a thing and its neighbours
//   - Samplers: per-depth truncation of candidate neighbours
//   - Contexts: deterministic neighbourhood trees rooted at a thing
//   - Aggregation: pooling and combining representations up the tree
//
// # Architecture
//
// Each stage lives in its own package and can be used independently:
//
//   - graph: thing and connection model plus the NeighbourFinder interface
//   - sample: sampling strategies and the bounded Sampler
//   - traverse: the ContextBuilder and record flattening
//   - encode: taxonomy-driven one-hot feature encoding
//   - aggregate: aggregators, combiners, and the reduction chain
//   - store: an in-memory graph store with snapshot transactions
//   - cache: traversal record caching backed by Redis or memory
//   - registry: etcd-backed discovery of graph store endpoints
//
// # Getting Started
//
// Wire a pipeline against any NeighbourFinder:
//
//	import "github.com/zero-day-ai/kgcn"
//
//	cfg := kgcn.DefaultConfig()
//	cfg.SampleSizes = []int{3, 2}
//
//	pipeline, err := kgcn.New(cfg, finder, taxonomy)
//	if err != nil {
//		log.Fatal(err)
//	}
//
//	embeddings, err := pipeline.Embed(ctx, tx, things)
//
// Embeddings come back as a dense matrix with one row per input thing, each
// row L2-normalised. Given the same graph, configuration, and seed, Embed is
// fully deterministic.
//
// # Observability
//
// Traversal emits OpenTelemetry spans and metrics when a TracerProvider or
// MeterProvider is configured. Structured logging uses log/slog throughout.
package kgcn
