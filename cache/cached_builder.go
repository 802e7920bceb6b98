package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/zero-day-ai/kgcn/graph"
	"github.com/zero-day-ai/kgcn/traverse"
)

// CachedBuilderOption configures a CachedBuilder.
type CachedBuilderOption func(*CachedBuilder)

// WithTTL sets the expiry applied to cached traversals. Defaults to no
// expiry.
func WithTTL(ttl time.Duration) CachedBuilderOption {
	return func(b *CachedBuilder) { b.ttl = ttl }
}

// WithCacheLogger sets the structured logger for hit/miss reporting.
// Defaults to slog.Default().
func WithCacheLogger(logger *slog.Logger) CachedBuilderOption {
	return func(b *CachedBuilder) { b.logger = logger }
}

// CachedBuilder wraps a ContextBuilder with build-through caching of the
// flattened traversal records.
//
// Cache failures other than a miss are logged and treated as misses: a
// degraded cache slows training down but never fails a build that the store
// could serve.
type CachedBuilder struct {
	builder *traverse.ContextBuilder
	cache   Cache
	ttl     time.Duration
	logger  *slog.Logger
}

// NewCachedBuilder wraps builder with the given cache.
func NewCachedBuilder(builder *traverse.ContextBuilder, cache Cache, opts ...CachedBuilderOption) *CachedBuilder {
	b := &CachedBuilder{
		builder: builder,
		cache:   cache,
		logger:  slog.Default(),
	}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// BuildRecords returns the flattened traversal records for root, serving
// from the cache when possible. The root itself is included as the first
// record, wrapped with the synthetic empty role label.
func (b *CachedBuilder) BuildRecords(ctx context.Context, tx graph.Transaction, root graph.Thing) ([]traverse.Record, error) {
	key := Key{RootID: root.ID, SampleSizes: b.builder.SampleSizes()}

	records, err := b.cache.Get(ctx, key)
	if err == nil {
		b.logger.Debug("traversal cache hit", "key", key.String())
		return records, nil
	}
	if !errors.Is(err, ErrMiss) {
		b.logger.Warn("traversal cache get failed", "key", key.String(), "error", err)
	}

	tree, err := b.builder.Build(ctx, tx, root)
	if err != nil {
		return nil, err
	}
	records = traverse.Flatten(traverse.ContextsToNeighbours([]*traverse.ThingContext{tree}))

	if err := b.cache.Put(ctx, key, records, b.ttl); err != nil {
		b.logger.Warn("traversal cache put failed", "key", key.String(), "error", err)
	}
	return records, nil
}
