package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"todoapi/internal/docstore"
	"todoapi/internal/docstore/memory"
	storeMocks "todoapi/internal/docstore/mocks"
	"todoapi/internal/model"
	"todoapi/internal/repository"
)

func TestTodoStore_Scenario(t *testing.T) {
	ctx := context.Background()
	repo := NewTodoStore(memory.New(), "todos")

	created, err := repo.Create(ctx, "Buy milk", false)
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.Equal(t, "Buy milk", created.Title)
	assert.False(t, created.Completed)

	require.NoError(t, repo.Update(ctx, created.ID, true))

	items, err := repo.List(ctx)
	require.NoError(t, err)
	assert.Contains(t, items, model.ToDoItem{ID: created.ID, Title: "Buy milk", Completed: true})

	require.NoError(t, repo.Remove(ctx, created.ID))

	items, err = repo.List(ctx)
	require.NoError(t, err)
	for _, it := range items {
		assert.NotEqual(t, created.ID, it.ID)
	}
}

func TestTodoStore_ListReflectsSurvivingItems(t *testing.T) {
	ctx := context.Background()
	repo := NewTodoStore(memory.New(), "todos")

	a, err := repo.Create(ctx, "a", false)
	require.NoError(t, err)
	b, err := repo.Create(ctx, "b", true)
	require.NoError(t, err)
	c, err := repo.Create(ctx, "c", false)
	require.NoError(t, err)

	assert.NotEqual(t, a.ID, b.ID)
	assert.NotEqual(t, b.ID, c.ID)
	assert.NotEqual(t, a.ID, c.ID)

	require.NoError(t, repo.Update(ctx, a.ID, true))
	require.NoError(t, repo.Update(ctx, b.ID, false))
	require.NoError(t, repo.Update(ctx, a.ID, false))
	require.NoError(t, repo.Remove(ctx, c.ID))

	items, err := repo.List(ctx)
	require.NoError(t, err)
	assert.ElementsMatch(t, []model.ToDoItem{
		{ID: a.ID, Title: "a", Completed: false},
		{ID: b.ID, Title: "b", Completed: false},
	}, items)
}

func TestTodoStore_EmptyCollection(t *testing.T) {
	items, err := NewTodoStore(memory.New(), "todos").List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, items)
	assert.Empty(t, items)
}

func TestTodoStore_MissingID(t *testing.T) {
	ctx := context.Background()
	repo := NewTodoStore(memory.New(), "todos")

	err := repo.Update(ctx, "missing", true)
	assert.ErrorIs(t, err, docstore.ErrNotFound)

	err = repo.Remove(ctx, "missing")
	assert.ErrorIs(t, err, docstore.ErrNotFound)
}

func TestTodoStore_List_Failure(t *testing.T) {
	ctx := context.Background()
	storeErr := errors.New("unavailable")

	newClient := func() *storeMocks.MockClient {
		coll := new(storeMocks.MockCollection)
		coll.On("List", ctx).Return(nil, storeErr)
		client := new(storeMocks.MockClient)
		client.On("Collection", "todos").Return(coll)
		return client
	}

	t.Run("masked by default", func(t *testing.T) {
		core, logs := observer.New(zap.ErrorLevel)
		repo := NewTodoStore(newClient(), "todos", WithLogger(zap.New(core)))

		items, err := repo.List(ctx)

		assert.NoError(t, err)
		assert.NotNil(t, items)
		assert.Empty(t, items)

		entries := logs.FilterMessage("failed to list to-do items").All()
		require.Len(t, entries, 1)
		assert.Equal(t, "todos", entries[0].ContextMap()["collection"])
		assert.Equal(t, "unavailable", entries[0].ContextMap()["error"])
	})

	t.Run("propagated on request", func(t *testing.T) {
		repo := NewTodoStore(newClient(), "todos", WithListErrorPolicy(repository.ListPropagateErrors))

		items, err := repo.List(ctx)

		assert.ErrorIs(t, err, storeErr)
		assert.Nil(t, items)
	})
}

func TestTodoStore_List_LenientMapping(t *testing.T) {
	ctx := context.Background()
	coll := new(storeMocks.MockCollection)
	coll.On("List", ctx).Return([]docstore.Snapshot{
		{ID: "a", Data: map[string]any{"title": "ok", "completed": true}},
		{ID: "b", Data: map[string]any{"title": 42, "completed": "yes"}},
		{ID: "c", Data: map[string]any{}},
	}, nil)
	client := new(storeMocks.MockClient)
	client.On("Collection", "todos").Return(coll)

	items, err := NewTodoStore(client, "todos").List(ctx)

	require.NoError(t, err)
	assert.Equal(t, []model.ToDoItem{
		{ID: "a", Title: "ok", Completed: true},
		{ID: "b"},
		{ID: "c"},
	}, items)
}

func TestTodoStore_Create(t *testing.T) {
	ctx := context.Background()

	t.Run("writes exactly title and completed", func(t *testing.T) {
		coll := new(storeMocks.MockCollection)
		coll.On("Add", ctx, map[string]any{"title": "Buy milk", "completed": false}).Return("X", nil)
		client := new(storeMocks.MockClient)
		client.On("Collection", "todos").Return(coll)

		item, err := NewTodoStore(client, "todos").Create(ctx, "Buy milk", false)

		require.NoError(t, err)
		assert.Equal(t, &model.ToDoItem{ID: "X", Title: "Buy milk", Completed: false}, item)
		coll.AssertExpectations(t)
	})

	t.Run("propagates insert failure", func(t *testing.T) {
		coll := new(storeMocks.MockCollection)
		coll.On("Add", ctx, mock.Anything).Return("", errors.New("quota exceeded"))
		client := new(storeMocks.MockClient)
		client.On("Collection", "todos").Return(coll)

		item, err := NewTodoStore(client, "todos").Create(ctx, "Buy milk", false)

		assert.ErrorContains(t, err, "quota exceeded")
		assert.Nil(t, item)
	})
}

func TestTodoStore_Update(t *testing.T) {
	ctx := context.Background()
	doc := new(storeMocks.MockDocument)
	doc.On("Update", ctx, map[string]any{"completed": true}).Return(nil).Once()
	doc.On("Update", ctx, map[string]any{"completed": false}).Return(errors.New("deadline exceeded")).Once()
	coll := new(storeMocks.MockCollection)
	coll.On("Doc", "X").Return(doc)
	client := new(storeMocks.MockClient)
	client.On("Collection", "todos").Return(coll)

	repo := NewTodoStore(client, "todos")

	assert.NoError(t, repo.Update(ctx, "X", true))
	assert.ErrorContains(t, repo.Update(ctx, "X", false), "update todos/X: deadline exceeded")
	doc.AssertExpectations(t)
}

func TestTodoStore_Remove(t *testing.T) {
	ctx := context.Background()
	doc := new(storeMocks.MockDocument)
	doc.On("Delete", ctx).Return(nil).Once()
	doc.On("Delete", ctx).Return(docstore.ErrNotFound).Once()
	coll := new(storeMocks.MockCollection)
	coll.On("Doc", "X").Return(doc)
	client := new(storeMocks.MockClient)
	client.On("Collection", "todos").Return(coll)

	repo := NewTodoStore(client, "todos")

	assert.NoError(t, repo.Remove(ctx, "X"))
	assert.ErrorIs(t, repo.Remove(ctx, "X"), docstore.ErrNotFound)
	doc.AssertExpectations(t)
}
