package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"todoapi/internal/model"
)

type MockTodoRepository struct {
	mock.Mock
}

func (m *MockTodoRepository) List(ctx context.Context) ([]model.ToDoItem, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]model.ToDoItem), args.Error(1)
}

func (m *MockTodoRepository) Create(ctx context.Context, title string, completed bool) (*model.ToDoItem, error) {
	args := m.Called(ctx, title, completed)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*model.ToDoItem), args.Error(1)
}

func (m *MockTodoRepository) Update(ctx context.Context, id string, completed bool) error {
	args := m.Called(ctx, id, completed)
	return args.Error(0)
}

func (m *MockTodoRepository) Remove(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
