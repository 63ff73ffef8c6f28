package backend

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"todoapi/internal/config"
	"todoapi/internal/docstore/memory"
	"todoapi/internal/docstore/sqlite"
)

func TestOpen(t *testing.T) {
	ctx := context.Background()
	log := zap.NewNop()

	t.Run("memory", func(t *testing.T) {
		c, err := Open(ctx, &config.AppConfig{Store: config.StoreConfig{Backend: config.BackendMemory}}, log)
		require.NoError(t, err)
		assert.IsType(t, &memory.Store{}, c)
	})

	t.Run("sqlite", func(t *testing.T) {
		cfg := &config.AppConfig{
			Store:  config.StoreConfig{Backend: config.BackendSQLite},
			SQLite: config.SQLiteConfig{Path: filepath.Join(t.TempDir(), "todos.db")},
		}
		c, err := Open(ctx, cfg, log)
		require.NoError(t, err)
		defer c.Close()
		assert.IsType(t, &sqlite.Store{}, c)
	})

	t.Run("unknown", func(t *testing.T) {
		c, err := Open(ctx, &config.AppConfig{Store: config.StoreConfig{Backend: "cassandra"}}, log)
		assert.ErrorContains(t, err, "unknown store backend")
		assert.Nil(t, c)
	})

	t.Run("firestore without project", func(t *testing.T) {
		c, err := Open(ctx, &config.AppConfig{Store: config.StoreConfig{Backend: config.BackendFirestore}}, log)
		assert.Error(t, err)
		assert.Nil(t, c)
	})

	t.Run("postgres with invalid config", func(t *testing.T) {
		c, err := Open(ctx, &config.AppConfig{Store: config.StoreConfig{Backend: config.BackendPostgres}}, log)
		assert.ErrorContains(t, err, "connect to postgres")
		assert.Nil(t, c)
	})
}
