package cache

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/kgcn/graph"
	"github.com/zero-day-ai/kgcn/sample"
	"github.com/zero-day-ai/kgcn/store"
	"github.com/zero-day-ai/kgcn/traverse"
)

// countingFinder counts store lookups so cache hits are observable.
type countingFinder struct {
	inner graph.NeighbourFinder
	calls int
}

func (f *countingFinder) Find(ctx context.Context, tx graph.Transaction, thingID string) (graph.Connections, error) {
	f.calls++
	return f.inner.Find(ctx, tx, thingID)
}

func cachedBuilderFixture(t *testing.T) (*countingFinder, *store.Tx, graph.Thing, *traverse.ContextBuilder) {
	t.Helper()

	s := store.New()
	alice := s.AddEntity("person")
	emp := s.AddRelation("employment")
	require.NoError(t, s.Relate(emp.ID, "employee", alice.ID))

	tx := s.Snapshot()
	t.Cleanup(func() { _ = tx.Close() })

	s1, err := sample.New(2, sample.First{}, 4)
	require.NoError(t, err)

	finder := &countingFinder{inner: s}
	builder, err := traverse.NewContextBuilder([]*sample.Sampler{s1}, finder)
	require.NoError(t, err)

	return finder, tx, alice, builder
}

func TestCachedBuilder_ServesFromCache(t *testing.T) {
	finder, tx, alice, builder := cachedBuilderFixture(t)

	cb := NewCachedBuilder(builder, NewMemory(), WithTTL(time.Hour))
	ctx := context.Background()

	first, err := cb.BuildRecords(ctx, tx, alice)
	require.NoError(t, err)
	require.NotEmpty(t, first)
	assert.Equal(t, alice.ID, first[0].ID, "root record comes first")
	callsAfterFirst := finder.calls

	second, err := cb.BuildRecords(ctx, tx, alice)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, callsAfterFirst, finder.calls, "second build must not hit the store")
}

func TestCachedBuilder_CacheFailureFallsThrough(t *testing.T) {
	_, tx, alice, builder := cachedBuilderFixture(t)

	closed := NewMemory()
	require.NoError(t, closed.Close())

	cb := NewCachedBuilder(builder, closed)
	records, err := cb.BuildRecords(context.Background(), tx, alice)
	require.NoError(t, err, "a broken cache must not fail the build")
	assert.NotEmpty(t, records)
}

func TestCachedBuilder_BuildErrorPropagates(t *testing.T) {
	_, tx, alice, builder := cachedBuilderFixture(t)
	require.NoError(t, tx.Close())

	cb := NewCachedBuilder(builder, NewMemory())
	_, err := cb.BuildRecords(context.Background(), tx, alice)
	assert.ErrorIs(t, err, graph.ErrTransactionClosed)
}
