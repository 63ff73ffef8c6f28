package sqlite_test

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todoapi/internal/docstore/docstoretest"
	"todoapi/internal/docstore/sqlite"
)

func openStore(t *testing.T) *sqlite.Store {
	t.Helper()
	db, err := sql.Open("sqlite3", filepath.Join(t.TempDir(), "todos.db"))
	require.NoError(t, err)
	db.SetMaxOpenConns(1)

	s, err := sqlite.New(context.Background(), db)
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestSqliteStore(t *testing.T) {
	docstoretest.Run(t, openStore(t))
}

func TestSqliteStore_UpdateKeepsOtherFields(t *testing.T) {
	ctx := context.Background()
	coll := openStore(t).Collection("todos")

	id, err := coll.Add(ctx, map[string]any{"title": "Buy milk", "completed": false, "note": "2%"})
	require.NoError(t, err)
	require.NoError(t, coll.Doc(id).Update(ctx, map[string]any{"completed": true}))

	snaps, err := coll.List(ctx)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, map[string]any{"title": "Buy milk", "completed": true, "note": "2%"}, snaps[0].Data)
}

func TestSqliteStore_ListKeepsInsertionOrder(t *testing.T) {
	ctx := context.Background()
	coll := openStore(t).Collection("todos")

	var ids []string
	for _, title := range []string{"first", "second", "third"} {
		id, err := coll.Add(ctx, map[string]any{"title": title})
		require.NoError(t, err)
		ids = append(ids, id)
	}

	snaps, err := coll.List(ctx)
	require.NoError(t, err)
	require.Len(t, snaps, 3)
	for i, s := range snaps {
		assert.Equal(t, ids[i], s.ID)
	}
}

func TestSqliteStore_ReopenKeepsData(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "todos.db")

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	s, err := sqlite.New(ctx, db)
	require.NoError(t, err)
	id, err := s.Collection("todos").Add(ctx, map[string]any{"title": "persist"})
	require.NoError(t, err)
	require.NoError(t, s.Close())

	db, err = sql.Open("sqlite3", path)
	require.NoError(t, err)
	s, err = sqlite.New(ctx, db)
	require.NoError(t, err)
	defer s.Close()

	snaps, err := s.Collection("todos").List(ctx)
	require.NoError(t, err)
	require.Len(t, snaps, 1)
	assert.Equal(t, id, snaps[0].ID)
}
