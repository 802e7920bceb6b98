package cache

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/zero-day-ai/kgcn/traverse"
)

// Sentinel errors for cache operations.
// These errors can be used with errors.Is() for error checking.
var (
	// ErrMiss is returned by Get when the key is not cached.
	ErrMiss = errors.New("cache: miss")

	// ErrClosed is returned when the cache has been closed.
	ErrClosed = errors.New("cache: closed")
)

// keyPrefix namespaces traversal records in shared backends.
const keyPrefix = "kgcn:traversal"

// Key identifies one cached traversal: the root thing and the sampler
// configuration that produced it.
type Key struct {
	// RootID is the root thing's store-local id.
	RootID string

	// SampleSizes are the per-depth sample sizes of the builder.
	SampleSizes []int
}

// String returns the canonical backend key, e.g.
// "kgcn:traversal:V123:2x3".
func (k Key) String() string {
	sizes := make([]string, len(k.SampleSizes))
	for i, n := range k.SampleSizes {
		sizes[i] = strconv.Itoa(n)
	}
	return fmt.Sprintf("%s:%s:%s", keyPrefix, k.RootID, strings.Join(sizes, "x"))
}

// Cache stores flattened traversal records.
//
// Implementations must be safe for concurrent use: multiple training workers
// share one cache.
type Cache interface {
	// Get returns the records cached under key, or ErrMiss.
	Get(ctx context.Context, key Key) ([]traverse.Record, error)

	// Put stores records under key with the given TTL. A zero TTL stores
	// without expiry.
	Put(ctx context.Context, key Key, records []traverse.Record, ttl time.Duration) error

	// Close releases the backend connection. Operations after Close return
	// ErrClosed.
	Close() error
}
