// Package postgres implements docstore.Client on a PostgreSQL table of JSONB documents.
// The schema is created by internal/database/migration.
package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"todoapi/internal/docstore"
)

// Store keeps every collection in the shared documents table.
// It uses database/sql with parameterized queries.
type Store struct {
	db *sql.DB
}

var _ docstore.Client = (*Store)(nil)

// New creates a Store on an open connection pool. Close closes the pool.
func New(db *sql.DB) *Store {
	return &Store{db: db}
}

func (s *Store) Collection(name string) docstore.Collection {
	return &collection{db: s.db, name: name}
}

func (s *Store) Close() error {
	return s.db.Close()
}

type collection struct {
	db   *sql.DB
	name string
}

func (c *collection) List(ctx context.Context) ([]docstore.Snapshot, error) {
	const q = `
		SELECT id, data
		FROM documents
		WHERE collection = $1
		ORDER BY created_at, id
	`
	rows, err := c.db.QueryContext(ctx, q, c.name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]docstore.Snapshot, 0)
	for rows.Next() {
		var (
			id  string
			raw []byte
		)
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		data, err := docstore.DecodeData(raw)
		if err != nil {
			return nil, fmt.Errorf("decode document %s: %w", id, err)
		}
		out = append(out, docstore.Snapshot{ID: id, Data: data})
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *collection) Add(ctx context.Context, data map[string]any) (string, error) {
	const q = `INSERT INTO documents (collection, id, data) VALUES ($1, $2, $3::jsonb)`
	body, err := docstore.EncodeData(data)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	if _, err := c.db.ExecContext(ctx, q, c.name, id, string(body)); err != nil {
		return "", err
	}
	return id, nil
}

func (c *collection) Doc(id string) docstore.Document {
	return &document{db: c.db, collection: c.name, id: id}
}

type document struct {
	db         *sql.DB
	collection string
	id         string
}

// Update merges fields into the stored JSONB object with the || operator.
func (d *document) Update(ctx context.Context, fields map[string]any) error {
	const q = `UPDATE documents SET data = data || $3::jsonb WHERE collection = $1 AND id = $2`
	body, err := docstore.EncodeData(fields)
	if err != nil {
		return err
	}
	res, err := d.db.ExecContext(ctx, q, d.collection, d.id, string(body))
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (d *document) Delete(ctx context.Context) error {
	const q = `DELETE FROM documents WHERE collection = $1 AND id = $2`
	res, err := d.db.ExecContext(ctx, q, d.collection, d.id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return docstore.ErrNotFound
	}
	return nil
}
