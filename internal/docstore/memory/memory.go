// Package memory keeps documents in process memory. Data is lost on restart.
package memory

import (
	"context"
	"fmt"
	"sync"

	"github.com/goccy/go-json"
	"github.com/google/uuid"

	"todoapi/internal/docstore"
)

// Store is an in-memory docstore.Client. Safe for concurrent use.
type Store struct {
	mu          sync.RWMutex
	collections map[string]*collection
}

type collection struct {
	order []string
	docs  map[string]map[string]any
}

var _ docstore.Client = (*Store)(nil)

func New() *Store {
	return &Store{collections: make(map[string]*collection)}
}

// deepCopy round-trips a document through JSON so callers never share maps with the store.
func deepCopy(src map[string]any) (map[string]any, error) {
	if src == nil {
		return map[string]any{}, nil
	}
	b, err := json.Marshal(src)
	if err != nil {
		return nil, fmt.Errorf("encode document: %w", err)
	}
	var dst map[string]any
	if err := json.Unmarshal(b, &dst); err != nil {
		return nil, fmt.Errorf("decode document: %w", err)
	}
	return dst, nil
}

func (s *Store) Collection(name string) docstore.Collection {
	return &collectionRef{store: s, name: name}
}

func (s *Store) Close() error { return nil }

type collectionRef struct {
	store *Store
	name  string
}

func (c *collectionRef) List(ctx context.Context) ([]docstore.Snapshot, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	c.store.mu.RLock()
	defer c.store.mu.RUnlock()

	coll, ok := c.store.collections[c.name]
	if !ok {
		return []docstore.Snapshot{}, nil
	}
	out := make([]docstore.Snapshot, 0, len(coll.order))
	for _, id := range coll.order {
		data, err := deepCopy(coll.docs[id])
		if err != nil {
			return nil, err
		}
		out = append(out, docstore.Snapshot{ID: id, Data: data})
	}
	return out, nil
}

func (c *collectionRef) Add(ctx context.Context, data map[string]any) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	doc, err := deepCopy(data)
	if err != nil {
		return "", err
	}
	c.store.mu.Lock()
	defer c.store.mu.Unlock()

	coll, ok := c.store.collections[c.name]
	if !ok {
		coll = &collection{docs: make(map[string]map[string]any)}
		c.store.collections[c.name] = coll
	}
	id := uuid.NewString()
	coll.docs[id] = doc
	coll.order = append(coll.order, id)
	return id, nil
}

func (c *collectionRef) Doc(id string) docstore.Document {
	return &documentRef{coll: c, id: id}
}

type documentRef struct {
	coll *collectionRef
	id   string
}

func (d *documentRef) Update(ctx context.Context, fields map[string]any) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	patch, err := deepCopy(fields)
	if err != nil {
		return err
	}
	s := d.coll.store
	s.mu.Lock()
	defer s.mu.Unlock()

	coll, ok := s.collections[d.coll.name]
	if !ok {
		return docstore.ErrNotFound
	}
	doc, ok := coll.docs[d.id]
	if !ok {
		return docstore.ErrNotFound
	}
	for k, v := range patch {
		doc[k] = v
	}
	return nil
}

func (d *documentRef) Delete(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s := d.coll.store
	s.mu.Lock()
	defer s.mu.Unlock()

	coll, ok := s.collections[d.coll.name]
	if !ok {
		return docstore.ErrNotFound
	}
	if _, ok := coll.docs[d.id]; !ok {
		return docstore.ErrNotFound
	}
	delete(coll.docs, d.id)
	for i, id := range coll.order {
		if id == d.id {
			coll.order = append(coll.order[:i], coll.order[i+1:]...)
			break
		}
	}
	return nil
}
