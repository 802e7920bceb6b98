// Package cache stores flattened traversal records so that repeated training
// epochs over an unchanged graph snapshot can skip the store traversal
// entirely.
//
// A traversal's flattened record list is fully determined by the root thing,
// the sampler configuration, and the snapshot contents. The cache keys on the
// first two; invalidating on snapshot changes is the caller's concern — use
// TTLs sized to the dataset refresh cadence, or a dedicated key namespace per
// snapshot.
//
// Two implementations are provided: Redis for sharing a cache across training
// workers, and Memory for single-process runs and tests. CachedBuilder wraps
// a ContextBuilder with build-through caching:
//
//	c, err := cache.NewRedis(cache.RedisOptions{URL: "redis://localhost:6379"})
//	if err != nil {
//	    return err
//	}
//	defer c.Close()
//
//	cb := cache.NewCachedBuilder(builder, c, cache.WithTTL(time.Hour))
//	records, err := cb.BuildRecords(ctx, tx, rootThing)
package cache
