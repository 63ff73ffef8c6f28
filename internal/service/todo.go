package service

import (
	"context"
	"errors"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"todoapi/internal/docstore"
	"todoapi/internal/model"
	"todoapi/internal/repository"
)

var (
	ErrIDRequired = errors.New("id is required")
	ErrNotFound   = errors.New("to-do item not found")
)

const tracerName = "todoapi/internal/service"

// TodoListResult is the service-level DTO for the full to-do list.
type TodoListResult struct {
	Items []model.ToDoItem `json:"data"`
}

// TodoService defines the use cases for handling to-do items.
type TodoService interface {
	// List returns every to-do item.
	List(ctx context.Context) (*TodoListResult, error)

	// Create adds a new item and returns it with its assigned id.
	Create(ctx context.Context, title string, completed bool) (*model.ToDoItem, error)

	// SetCompleted changes the completed flag of an existing item.
	SetCompleted(ctx context.Context, id string, completed bool) error

	// Delete removes an item by ID.
	Delete(ctx context.Context, id string) error
}

type todoService struct {
	repo   repository.TodoRepository
	tracer trace.Tracer
}

// NewTodoService constructs a new TodoService.
func NewTodoService(repo repository.TodoRepository) TodoService {
	return &todoService{repo: repo, tracer: otel.Tracer(tracerName)}
}

func (s *todoService) List(ctx context.Context) (*TodoListResult, error) {
	ctx, span := s.tracer.Start(ctx, "TodoService.List")
	defer span.End()

	items, err := s.repo.List(ctx)
	if err != nil {
		return nil, fail(span, err)
	}
	span.SetAttributes(attribute.Int("todo.count", len(items)))
	return &TodoListResult{Items: items}, nil
}

func (s *todoService) Create(ctx context.Context, title string, completed bool) (*model.ToDoItem, error) {
	ctx, span := s.tracer.Start(ctx, "TodoService.Create")
	defer span.End()

	item, err := s.repo.Create(ctx, title, completed)
	if err != nil {
		return nil, fail(span, err)
	}
	span.SetAttributes(attribute.String("todo.id", item.ID))
	return item, nil
}

func (s *todoService) SetCompleted(ctx context.Context, id string, completed bool) error {
	if id == "" {
		return ErrIDRequired
	}
	ctx, span := s.tracer.Start(ctx, "TodoService.SetCompleted", trace.WithAttributes(
		attribute.String("todo.id", id),
		attribute.Bool("todo.completed", completed),
	))
	defer span.End()

	if err := s.repo.Update(ctx, id, completed); err != nil {
		return fail(span, translate(err))
	}
	return nil
}

func (s *todoService) Delete(ctx context.Context, id string) error {
	if id == "" {
		return ErrIDRequired
	}
	ctx, span := s.tracer.Start(ctx, "TodoService.Delete", trace.WithAttributes(
		attribute.String("todo.id", id),
	))
	defer span.End()

	if err := s.repo.Remove(ctx, id); err != nil {
		return fail(span, translate(err))
	}
	return nil
}

// translate maps store errors to service errors.
func translate(err error) error {
	if errors.Is(err, docstore.ErrNotFound) {
		return ErrNotFound
	}
	return err
}

func fail(span trace.Span, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, err.Error())
	return err
}
