package store

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"todoapi/internal/docstore"
	"todoapi/internal/model"
	"todoapi/internal/repository"
)

const (
	fieldTitle     = "title"
	fieldCompleted = "completed"
)

// TodoStore is a repository.TodoRepository over one collection of a docstore.Client.
// Every method is a single request to the store; there is no caching or batching.
type TodoStore struct {
	client     docstore.Client
	collection string
	policy     repository.ListErrorPolicy
	log        *zap.Logger
}

var _ repository.TodoRepository = (*TodoStore)(nil)

// Option configures a TodoStore.
type Option func(*TodoStore)

// WithListErrorPolicy sets how List reports store failures. The default is repository.ListMaskErrors.
func WithListErrorPolicy(p repository.ListErrorPolicy) Option {
	return func(s *TodoStore) { s.policy = p }
}

// WithLogger sets the logger used for masked list failures.
func WithLogger(log *zap.Logger) Option {
	return func(s *TodoStore) { s.log = log }
}

// NewTodoStore creates a repository on the named collection of client.
func NewTodoStore(client docstore.Client, collection string, opts ...Option) *TodoStore {
	s := &TodoStore{
		client:     client,
		collection: collection,
		policy:     repository.ListMaskErrors,
		log:        zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *TodoStore) List(ctx context.Context) ([]model.ToDoItem, error) {
	snaps, err := s.client.Collection(s.collection).List(ctx)
	if err != nil {
		if s.policy == repository.ListPropagateErrors {
			return nil, fmt.Errorf("list %s: %w", s.collection, err)
		}
		s.log.Error("failed to list to-do items",
			zap.String("collection", s.collection),
			zap.Error(err),
		)
		return []model.ToDoItem{}, nil
	}

	items := make([]model.ToDoItem, 0, len(snaps))
	for _, snap := range snaps {
		items = append(items, toItem(snap))
	}
	return items, nil
}

func (s *TodoStore) Create(ctx context.Context, title string, completed bool) (*model.ToDoItem, error) {
	id, err := s.client.Collection(s.collection).Add(ctx, map[string]any{
		fieldTitle:     title,
		fieldCompleted: completed,
	})
	if err != nil {
		return nil, fmt.Errorf("add to %s: %w", s.collection, err)
	}
	return &model.ToDoItem{ID: id, Title: title, Completed: completed}, nil
}

func (s *TodoStore) Update(ctx context.Context, id string, completed bool) error {
	err := s.client.Collection(s.collection).Doc(id).Update(ctx, map[string]any{
		fieldCompleted: completed,
	})
	if err != nil {
		return fmt.Errorf("update %s/%s: %w", s.collection, id, err)
	}
	return nil
}

func (s *TodoStore) Remove(ctx context.Context, id string) error {
	if err := s.client.Collection(s.collection).Doc(id).Delete(ctx); err != nil {
		return fmt.Errorf("delete %s/%s: %w", s.collection, id, err)
	}
	return nil
}

// toItem reads title and completed leniently; missing or mistyped fields become zero values.
func toItem(snap docstore.Snapshot) model.ToDoItem {
	title, _ := snap.Data[fieldTitle].(string)
	completed, _ := snap.Data[fieldCompleted].(bool)
	return model.ToDoItem{ID: snap.ID, Title: title, Completed: completed}
}
