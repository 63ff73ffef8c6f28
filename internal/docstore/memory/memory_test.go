package memory_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todoapi/internal/docstore/docstoretest"
	"todoapi/internal/docstore/memory"
)

func TestMemoryStore(t *testing.T) {
	docstoretest.Run(t, memory.New())
}

func TestMemoryStore_ListKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	coll := memory.New().Collection("todos")

	var ids []string
	for _, title := range []string{"a", "b", "c"} {
		id, err := coll.Add(ctx, map[string]any{"title": title})
		require.NoError(t, err)
		ids = append(ids, id)
	}
	require.NoError(t, coll.Doc(ids[1]).Delete(ctx))

	snaps, err := coll.List(ctx)
	require.NoError(t, err)
	require.Len(t, snaps, 2)
	assert.Equal(t, ids[0], snaps[0].ID)
	assert.Equal(t, ids[2], snaps[1].ID)
}

func TestMemoryStore_SnapshotsAreCopies(t *testing.T) {
	ctx := context.Background()
	coll := memory.New().Collection("todos")

	id, err := coll.Add(ctx, map[string]any{"title": "original"})
	require.NoError(t, err)

	snaps, err := coll.List(ctx)
	require.NoError(t, err)
	snaps[0].Data["title"] = "mutated"

	snaps, err = coll.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, id, snaps[0].ID)
	assert.Equal(t, "original", snaps[0].Data["title"])
}

func TestMemoryStore_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := memory.New().Collection("todos").List(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestMemoryStore_RejectsUnencodableDocuments(t *testing.T) {
	ctx := context.Background()
	coll := memory.New().Collection("todos")

	_, err := coll.Add(ctx, map[string]any{"title": "bad", "ch": make(chan int)})
	assert.ErrorContains(t, err, "encode document")

	snaps, err := coll.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, snaps)

	id, err := coll.Add(ctx, map[string]any{"title": "ok", "completed": false})
	require.NoError(t, err)

	err = coll.Doc(id).Update(ctx, map[string]any{"completed": make(chan int)})
	assert.ErrorContains(t, err, "encode document")

	snaps, err = coll.List(ctx)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, map[string]any{"title": "ok", "completed": false}, snaps[0].Data)
}
