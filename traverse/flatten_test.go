package traverse

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/kgcn/graph"
)

func TestMergePrepend(t *testing.T) {
	t.Run("values prepended for shared keys", func(t *testing.T) {
		into := map[int][]string{1: {"a"}, 2: {"s"}, 3: {"x"}}
		add := map[int][]string{1: {"b"}, 2: {"t"}, 3: {"y"}}

		got := MergePrepend(add, into)

		assert.Equal(t, map[int][]string{1: {"b", "a"}, 2: {"t", "s"}, 3: {"y", "x"}}, got)
	})

	t.Run("key not overwritten", func(t *testing.T) {
		got := MergePrepend(map[int][]string{1: {"b"}}, map[int][]string{1: {"a"}})
		assert.Equal(t, map[int][]string{1: {"b", "a"}}, got)
	})

	t.Run("key added when absent", func(t *testing.T) {
		got := MergePrepend(map[int][]string{1: {"a"}}, map[int][]string{})
		assert.Equal(t, map[int][]string{1: {"a"}}, got)
	})

	t.Run("keys only in target pass through", func(t *testing.T) {
		got := MergePrepend(map[int][]string{1: {"b"}}, map[int][]string{1: {"a"}, 2: {"s"}})
		assert.Equal(t, map[int][]string{1: {"b", "a"}, 2: {"s"}}, got)
	})

	t.Run("inputs not mutated", func(t *testing.T) {
		into := map[int][]string{1: {"a"}}
		add := map[int][]string{1: {"b"}}

		_ = MergePrepend(add, into)

		assert.Equal(t, map[int][]string{1: {"a"}}, into)
		assert.Equal(t, map[int][]string{1: {"b"}}, add)
	})
}

// builtTree constructs a two-level tree over the shared test fixture.
func builtTree(t *testing.T) *ThingContext {
	t.Helper()

	finder := testGraph(t)
	builder, err := NewContextBuilder(samplers(t, 2, 1), finder)
	require.NoError(t, err)

	tree, err := builder.Build(context.Background(), &fakeTx{id: "tx-1"}, graph.NewEntity("0", "person"))
	require.NoError(t, err)
	return tree
}

func TestContextsToNeighbours(t *testing.T) {
	tree := builtTree(t)

	neighbours := ContextsToNeighbours([]*ThingContext{tree})

	require.Len(t, neighbours, 1)
	assert.Empty(t, neighbours[0].RoleLabel, "root wrapper carries the sentinel empty role")
	assert.Equal(t, graph.TargetPlays, neighbours[0].Direction)
	assert.Same(t, tree, neighbours[0].Context)
}

func TestFlatten(t *testing.T) {
	tree := builtTree(t)
	records := Flatten(ContextsToNeighbours([]*ThingContext{tree}))

	// Root, employment, company, name — pre-order.
	require.Len(t, records, 4)
	assert.Equal(t, "0", records[0].ID)
	assert.Equal(t, "1", records[1].ID)
	assert.Equal(t, "2", records[2].ID)
	assert.Equal(t, "3", records[3].ID)

	for i, r := range records[1:] {
		assert.NotEmpty(t, r.RoleLabel, "record %d has empty role label", i+1)
		assert.NotEmpty(t, r.TypeLabel, "record %d has empty type label", i+1)
	}

	for _, r := range records {
		if r.BaseType == graph.BaseAttribute {
			assert.NotEqual(t, graph.ValueNone, r.ValueType, "attribute %s missing value type", r.ID)
			assert.NotNil(t, r.Value, "attribute %s missing value", r.ID)
		}
	}
}

func TestFlatten_MultipleRoots(t *testing.T) {
	a := builtTree(t)
	b := builtTree(t)

	records := Flatten(ContextsToNeighbours([]*ThingContext{a, b}))
	assert.Len(t, records, 8)
}

func TestRecordsByDepth(t *testing.T) {
	tree := builtTree(t)
	byDepth := RecordsByDepth(ContextsToNeighbours([]*ThingContext{tree}))

	require.Len(t, byDepth, 3)

	require.Len(t, byDepth[0], 1)
	assert.Equal(t, "0", byDepth[0][0].ID)

	require.Len(t, byDepth[1], 2)
	assert.Equal(t, "1", byDepth[1][0].ID, "pre-order within a depth level")
	assert.Equal(t, "3", byDepth[1][1].ID)

	require.Len(t, byDepth[2], 1)
	assert.Equal(t, "2", byDepth[2][0].ID)
}

func TestPaddedByDepth(t *testing.T) {
	tree := builtTree(t)
	byDepth := PaddedByDepth(ContextsToNeighbours([]*ThingContext{tree}), []int{2, 1})

	require.Len(t, byDepth, 3)

	require.Len(t, byDepth[0], 1)
	assert.Equal(t, "0", byDepth[0][0].ID)

	// Both depth-1 slots are filled, so no padding there.
	require.Len(t, byDepth[1], 2)
	assert.Equal(t, "1", byDepth[1][0].ID)
	assert.Equal(t, "3", byDepth[1][1].ID)

	// The attribute "3" has no neighbours, so its single depth-2 slot is a
	// blank record aligned under it.
	require.Len(t, byDepth[2], 2)
	assert.Equal(t, "2", byDepth[2][0].ID)
	assert.Empty(t, byDepth[2][1].TypeLabel, "missing child slot holds a blank record")
}

func TestPaddedByDepth_ShortNeighbourhoods(t *testing.T) {
	tree := builtTree(t)
	byDepth := PaddedByDepth(ContextsToNeighbours([]*ThingContext{tree}), []int{3, 1})

	// The root found only 2 of 3 neighbours; the third slot and the subtree
	// beneath it are blanks, keeping every depth at its full width.
	require.Len(t, byDepth[1], 3)
	assert.Equal(t, "1", byDepth[1][0].ID)
	assert.Equal(t, "3", byDepth[1][1].ID)
	assert.Empty(t, byDepth[1][2].TypeLabel)

	require.Len(t, byDepth[2], 3)
	assert.Equal(t, "2", byDepth[2][0].ID)
	assert.Empty(t, byDepth[2][1].TypeLabel)
	assert.Empty(t, byDepth[2][2].TypeLabel)
}

func TestMaxDepth(t *testing.T) {
	tree := builtTree(t)
	assert.Equal(t, 2, MaxDepth(tree))
	assert.Equal(t, 0, MaxDepth(nil))
	assert.Equal(t, 0, MaxDepth(&ThingContext{Thing: graph.NewEntity("9", "person")}))
}

func TestThingContext_Equal(t *testing.T) {
	a := builtTree(t)
	b := builtTree(t)
	assert.True(t, a.Equal(b))

	b.Neighbourhood[0].RoleLabel = "other"
	assert.False(t, a.Equal(b))

	assert.False(t, a.Equal(nil))
	var nilCtx *ThingContext
	assert.True(t, nilCtx.Equal(nil))
}
