// Package backend opens the docstore.Client selected by configuration.
package backend

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"todoapi/internal/config"
	"todoapi/internal/database"
	"todoapi/internal/database/migration"
	"todoapi/internal/docstore"
	"todoapi/internal/docstore/firestore"
	"todoapi/internal/docstore/memory"
	"todoapi/internal/docstore/minio"
	"todoapi/internal/docstore/postgres"
	"todoapi/internal/docstore/redis"
	"todoapi/internal/docstore/sqlite"
)

// Open creates a Client for cfg.Store.Backend.
//
// Supported backends:
//
//	"firestore" - Google Cloud Firestore (default)
//	"postgres"  - JSONB documents table, migrated on startup
//	"sqlite"    - documents table in a local SQLite file
//	"minio"     - one JSON object per document in an S3-compatible bucket
//	"redis"     - one hash per collection
//	"memory"    - in-process, ephemeral
func Open(ctx context.Context, cfg *config.AppConfig, log *zap.Logger) (docstore.Client, error) {
	switch cfg.Store.Backend {
	case config.BackendFirestore, "":
		c, err := firestore.New(ctx, cfg.Firestore)
		if err != nil {
			return nil, err
		}
		return c, nil

	case config.BackendPostgres:
		db, err := database.NewPostgres(cfg.Database)
		if err != nil {
			return nil, fmt.Errorf("connect to postgres: %w", err)
		}
		if err := migration.EnsureMigrated(ctx, db, log, cfg.Database.Host); err != nil {
			_ = db.Close()
			return nil, err
		}
		return postgres.New(db), nil

	case config.BackendSQLite:
		db, err := database.NewSQLite(cfg.SQLite)
		if err != nil {
			return nil, fmt.Errorf("open sqlite: %w", err)
		}
		s, err := sqlite.New(ctx, db)
		if err != nil {
			_ = db.Close()
			return nil, err
		}
		return s, nil

	case config.BackendMinIO:
		s, err := minio.New(ctx, cfg.MinIO)
		if err != nil {
			return nil, err
		}
		return s, nil

	case config.BackendRedis:
		s, err := redis.New(ctx, cfg.Redis)
		if err != nil {
			return nil, err
		}
		return s, nil

	case config.BackendMemory:
		log.Warn("using in-memory document store; data is lost on restart")
		return memory.New(), nil

	default:
		return nil, fmt.Errorf("unknown store backend: %q (supported: firestore, postgres, sqlite, minio, redis, memory)", cfg.Store.Backend)
	}
}
