package cache

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/kgcn/graph"
	"github.com/zero-day-ai/kgcn/traverse"
)

// setupRedis creates a miniredis instance and returns a connected cache.
func setupRedis(t *testing.T) (*Redis, *miniredis.Miniredis) {
	t.Helper()

	mr := miniredis.RunT(t)
	c, err := NewRedis(RedisOptions{
		URL:            fmt.Sprintf("redis://%s", mr.Addr()),
		ConnectTimeout: 5 * time.Second,
		ReadTimeout:    5 * time.Second,
		WriteTimeout:   5 * time.Second,
	})
	require.NoError(t, err)

	t.Cleanup(func() {
		_ = c.Close()
		mr.Close()
	})
	return c, mr
}

func testRecords() []traverse.Record {
	return []traverse.Record{
		{RoleLabel: "", Direction: graph.TargetPlays, TypeLabel: "person", BaseType: graph.BaseEntity, ID: "0"},
		{RoleLabel: "has", Direction: graph.TargetPlays, TypeLabel: "name", BaseType: graph.BaseAttribute, ID: "3", ValueType: graph.ValueString, Value: "Alice"},
	}
}

func TestKey_String(t *testing.T) {
	k := Key{RootID: "V123", SampleSizes: []int{2, 3}}
	assert.Equal(t, "kgcn:traversal:V123:2x3", k.String())

	k = Key{RootID: "V1", SampleSizes: []int{4}}
	assert.Equal(t, "kgcn:traversal:V1:4", k.String())
}

func TestNewRedis_BadURL(t *testing.T) {
	_, err := NewRedis(RedisOptions{URL: "://bad"})
	assert.Error(t, err)
}

func TestRedis_PutGet(t *testing.T) {
	c, _ := setupRedis(t)
	ctx := context.Background()
	key := Key{RootID: "V1", SampleSizes: []int{2}}

	_, err := c.Get(ctx, key)
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, c.Put(ctx, key, testRecords(), 0))

	got, err := c.Get(ctx, key)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "person", got[0].TypeLabel)
	assert.Equal(t, "Alice", got[1].Value)
	assert.Equal(t, graph.ValueString, got[1].ValueType)
}

func TestRedis_TTL(t *testing.T) {
	c, mr := setupRedis(t)
	ctx := context.Background()
	key := Key{RootID: "V1", SampleSizes: []int{2}}

	require.NoError(t, c.Put(ctx, key, testRecords(), time.Minute))

	mr.FastForward(2 * time.Minute)

	_, err := c.Get(ctx, key)
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemory_PutGet(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()
	key := Key{RootID: "V1", SampleSizes: []int{2, 3}}

	_, err := c.Get(ctx, key)
	assert.ErrorIs(t, err, ErrMiss)

	require.NoError(t, c.Put(ctx, key, testRecords(), 0))

	got, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.Len(t, got, 2)

	// Mutating the returned slice must not affect the cached copy.
	got[0].TypeLabel = "mutated"
	again, err := c.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, "person", again[0].TypeLabel)
}

func TestMemory_TTL(t *testing.T) {
	c := NewMemory()
	ctx := context.Background()
	key := Key{RootID: "V1", SampleSizes: []int{2}}

	require.NoError(t, c.Put(ctx, key, testRecords(), time.Nanosecond))
	time.Sleep(5 * time.Millisecond)

	_, err := c.Get(ctx, key)
	assert.ErrorIs(t, err, ErrMiss)
}

func TestMemory_Closed(t *testing.T) {
	c := NewMemory()
	require.NoError(t, c.Close())

	_, err := c.Get(context.Background(), Key{RootID: "V1"})
	assert.ErrorIs(t, err, ErrClosed)
	assert.ErrorIs(t, c.Put(context.Background(), Key{RootID: "V1"}, nil, 0), ErrClosed)
}
