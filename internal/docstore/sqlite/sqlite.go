// Package sqlite implements docstore.Client on a single SQLite database.
//
// Table:
//
//	documents(collection, id, data, created_at)  PRIMARY KEY (collection, id)
package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"todoapi/internal/docstore"
)

const schema = `CREATE TABLE IF NOT EXISTS documents (
	collection TEXT NOT NULL,
	id         TEXT NOT NULL,
	data       TEXT NOT NULL DEFAULT '{}',
	created_at DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
	PRIMARY KEY (collection, id)
)`

// Store stores all collections in one documents table.
type Store struct {
	db *sql.DB
}

var _ docstore.Client = (*Store)(nil)

// New creates the documents table if needed and returns a Store on db.
func New(ctx context.Context, db *sql.DB) (*Store, error) {
	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("create documents table: %w", err)
	}
	return &Store{db: db}, nil
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
	rows, err := c.db.QueryContext(ctx,
		"SELECT id, data FROM documents WHERE collection = ? ORDER BY created_at, rowid", c.name)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]docstore.Snapshot, 0)
	for rows.Next() {
		var id, raw string
		if err := rows.Scan(&id, &raw); err != nil {
			return nil, err
		}
		data, err := docstore.DecodeData([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("decode document %s: %w", id, err)
		}
		out = append(out, docstore.Snapshot{ID: id, Data: data})
	}
	return out, rows.Err()
}

func (c *collection) Add(ctx context.Context, data map[string]any) (string, error) {
	body, err := docstore.EncodeData(data)
	if err != nil {
		return "", err
	}
	id := uuid.NewString()
	if _, err := c.db.ExecContext(ctx,
		"INSERT INTO documents (collection, id, data) VALUES (?, ?, ?)", c.name, id, string(body)); err != nil {
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

// Update merges fields with json_patch, so keys not present in fields keep their values.
func (d *document) Update(ctx context.Context, fields map[string]any) error {
	body, err := docstore.EncodeData(fields)
	if err != nil {
		return err
	}
	res, err := d.db.ExecContext(ctx,
		"UPDATE documents SET data = json_patch(data, ?) WHERE collection = ? AND id = ?",
		string(body), d.collection, d.id)
	if err != nil {
		return err
	}
	return requireAffected(res)
}

func (d *document) Delete(ctx context.Context) error {
	res, err := d.db.ExecContext(ctx,
		"DELETE FROM documents WHERE collection = ? AND id = ?", d.collection, d.id)
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
