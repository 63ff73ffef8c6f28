// Package redis implements docstore.Client on Redis hashes.
// A collection is one hash; each field is a document id holding the JSON document.
package redis

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/google/uuid"

	"todoapi/internal/config"
	"todoapi/internal/docstore"
)

const keyPrefix = "docstore:"

// Store wraps a *redis.Client. Safe for concurrent use.
type Store struct {
	rdb *redis.Client
}

var _ docstore.Client = (*Store)(nil)

// New connects to Redis and verifies the connection with PING.
func New(ctx context.Context, cfg config.RedisConfig) (*Store, error) {
	if cfg.Addr == "" {
		return nil, fmt.Errorf("redis address is required")
	}
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}
	return Wrap(rdb), nil
}

// Wrap adapts an existing client.
func Wrap(rdb *redis.Client) *Store {
	return &Store{rdb: rdb}
}

func (s *Store) Collection(name string) docstore.Collection {
	return &collection{rdb: s.rdb, key: collectionKey(name)}
}

func (s *Store) Close() error {
	return s.rdb.Close()
}

func collectionKey(name string) string {
	return keyPrefix + name
}

type collection struct {
	rdb *redis.Client
	key string
}

// List returns documents sorted by id; Redis hashes have no insertion order.
func (c *collection) List(ctx context.Context) ([]docstore.Snapshot, error) {
	all, err := c.rdb.HGetAll(ctx, c.key).Result()
	if err != nil {
		return nil, err
	}
	ids := make([]string, 0, len(all))
	for id := range all {
		ids = append(ids, id)
	}
	sort.Strings(ids)

	out := make([]docstore.Snapshot, 0, len(ids))
	for _, id := range ids {
		data, err := docstore.DecodeData([]byte(all[id]))
		if err != nil {
			return nil, fmt.Errorf("decode document %s: %w", id, err)
		}
		out = append(out, docstore.Snapshot{ID: id, Data: data})
	}
	return out, nil
}

func (c *collection) Add(ctx context.Context, data map[string]any) (string, error) {
	body, err := docstore.EncodeData(data)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	ok, err := c.rdb.HSetNX(ctx, c.key, id, body).Result()
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("document id collision: %s", id)
	}
	return id, nil
}

func (c *collection) Doc(id string) docstore.Document {
	return &document{rdb: c.rdb, key: c.key, id: id}
}

type document struct {
	rdb *redis.Client
	key string
	id  string
}

// Update merges fields inside a WATCH transaction. A concurrent write to the collection
// aborts it with redis.TxFailedErr, which is returned to the caller.
func (d *document) Update(ctx context.Context, fields map[string]any) error {
	return d.rdb.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.HGet(ctx, d.key, d.id).Bytes()
		if errors.Is(err, redis.Nil) {
			return docstore.ErrNotFound
		}
		if err != nil {
			return err
		}
		data, err := docstore.DecodeData(raw)
		if err != nil {
			return fmt.Errorf("decode document %s: %w", d.id, err)
		}
		for k, v := range fields {
			data[k] = v
		}
		body, err := docstore.EncodeData(data)
		if err != nil {
			return err
		}
		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.HSet(ctx, d.key, d.id, body)
			return nil
		})
		return err
	}, d.key)
}

func (d *document) Delete(ctx context.Context) error {
	n, err := d.rdb.HDel(ctx, d.key, d.id).Result()
	if err != nil {
		return err
	}
	if n == 0 {
		return docstore.ErrNotFound
	}
	return nil
}
