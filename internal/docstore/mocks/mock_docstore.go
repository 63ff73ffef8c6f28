package mocks

import (
	"context"

	"github.com/stretchr/testify/mock"

	"todoapi/internal/docstore"
)

type MockClient struct {
	mock.Mock
}

func (m *MockClient) Collection(name string) docstore.Collection {
	args := m.Called(name)
	return args.Get(0).(docstore.Collection)
}

func (m *MockClient) Close() error {
	args := m.Called()
	return args.Error(0)
}

type MockCollection struct {
	mock.Mock
}

func (m *MockCollection) List(ctx context.Context) ([]docstore.Snapshot, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]docstore.Snapshot), args.Error(1)
}

func (m *MockCollection) Add(ctx context.Context, data map[string]any) (string, error) {
	args := m.Called(ctx, data)
	return args.String(0), args.Error(1)
}

func (m *MockCollection) Doc(id string) docstore.Document {
	args := m.Called(id)
	return args.Get(0).(docstore.Document)
}

type MockDocument struct {
	mock.Mock
}

func (m *MockDocument) Update(ctx context.Context, fields map[string]any) error {
	args := m.Called(ctx, fields)
	return args.Error(0)
}

func (m *MockDocument) Delete(ctx context.Context) error {
	args := m.Called(ctx)
	return args.Error(0)
}
