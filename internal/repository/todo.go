package repository

import (
	"context"
	"fmt"
	"strings"

	"todoapi/internal/model"
)

// TodoRepository mediates all reads and writes to the to-do collection.
// Implementations hold no state between calls; the document store is the source of truth.
type TodoRepository interface {
	// List returns every item currently in the collection, in store order.
	// Under ListMaskErrors a failed fetch is logged and reported as an empty list.
	List(ctx context.Context) ([]model.ToDoItem, error)

	// Create inserts a document with exactly title and completed and returns it with its store-assigned id.
	Create(ctx context.Context, title string, completed bool) (*model.ToDoItem, error)

	// Update sets the completed flag of the item with the given id. The title is never touched.
	Update(ctx context.Context, id string, completed bool) error

	// Remove deletes the item with the given id.
	Remove(ctx context.Context, id string) error
}

// ListErrorPolicy decides what List does when the store fails.
type ListErrorPolicy int

const (
	// ListMaskErrors logs the failure and returns an empty list with a nil error.
	ListMaskErrors ListErrorPolicy = iota
	// ListPropagateErrors returns the failure to the caller.
	ListPropagateErrors
)

func (p ListErrorPolicy) String() string {
	switch p {
	case ListMaskErrors:
		return "mask"
	case ListPropagateErrors:
		return "propagate"
	default:
		return fmt.Sprintf("ListErrorPolicy(%d)", int(p))
	}
}

// ParseListErrorPolicy maps the configuration values "mask" and "propagate" to a policy.
func ParseListErrorPolicy(s string) (ListErrorPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "mask":
		return ListMaskErrors, nil
	case "propagate":
		return ListPropagateErrors, nil
	default:
		return ListMaskErrors, fmt.Errorf("unknown list error policy %q", s)
	}
}
