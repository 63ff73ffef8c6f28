// Package docstoretest holds a conformance suite that every docstore backend must pass.
package docstoretest

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todoapi/internal/docstore"
)

// Run exercises the docstore.Client contract against c. Each run uses fresh
// collection names so it can be pointed at shared databases.
func Run(t *testing.T, c docstore.Client) {
	t.Helper()
	ctx := context.Background()
	name := "conformance_" + uuid.NewString()[:8]
	coll := c.Collection(name)

	t.Cleanup(func() {
		snaps, err := coll.List(ctx)
		if err != nil {
			return
		}
		for _, s := range snaps {
			_ = coll.Doc(s.ID).Delete(ctx)
		}
	})

	t.Run("List empty", func(t *testing.T) {
		snaps, err := coll.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, snaps)
	})

	var firstID, secondID string

	t.Run("Add assigns distinct ids", func(t *testing.T) {
		var err error
		firstID, err = coll.Add(ctx, map[string]any{"title": "Buy milk", "completed": false})
		require.NoError(t, err)
		assert.NotEmpty(t, firstID)

		secondID, err = coll.Add(ctx, map[string]any{"title": "Walk dog", "completed": true})
		require.NoError(t, err)
		assert.NotEmpty(t, secondID)
		assert.NotEqual(t, firstID, secondID)
	})

	t.Run("List returns added documents", func(t *testing.T) {
		snaps, err := coll.List(ctx)
		require.NoError(t, err)
		require.Len(t, snaps, 2)

		byID := index(snaps)
		assert.Equal(t, "Buy milk", byID[firstID]["title"])
		assert.Equal(t, false, byID[firstID]["completed"])
		assert.Equal(t, "Walk dog", byID[secondID]["title"])
		assert.Equal(t, true, byID[secondID]["completed"])
	})

	t.Run("Update merges fields", func(t *testing.T) {
		require.NoError(t, coll.Doc(firstID).Update(ctx, map[string]any{"completed": true}))

		snaps, err := coll.List(ctx)
		require.NoError(t, err)
		byID := index(snaps)
		assert.Equal(t, "Buy milk", byID[firstID]["title"])
		assert.Equal(t, true, byID[firstID]["completed"])
	})

	t.Run("Update missing", func(t *testing.T) {
		err := coll.Doc("missing-" + uuid.NewString()).Update(ctx, map[string]any{"completed": true})
		assert.ErrorIs(t, err, docstore.ErrNotFound)
	})

	t.Run("Delete", func(t *testing.T) {
		require.NoError(t, coll.Doc(secondID).Delete(ctx))

		snaps, err := coll.List(ctx)
		require.NoError(t, err)
		byID := index(snaps)
		assert.NotContains(t, byID, secondID)
		assert.Contains(t, byID, firstID)
	})

	t.Run("Delete missing", func(t *testing.T) {
		err := coll.Doc(secondID).Delete(ctx)
		assert.ErrorIs(t, err, docstore.ErrNotFound)
	})

	t.Run("Collections are isolated", func(t *testing.T) {
		other := c.Collection(name + "_other")
		snaps, err := other.List(ctx)
		require.NoError(t, err)
		assert.Empty(t, snaps)
	})
}

func index(snaps []docstore.Snapshot) map[string]map[string]any {
	out := make(map[string]map[string]any, len(snaps))
	for _, s := range snaps {
		out[s.ID] = s.Data
	}
	return out
}
