// Package docstore defines the document store client that repositories talk to.
// Backends live in subpackages (firestore, postgres, sqlite, minio, redis, memory)
// and are selected by the backend package.
package docstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Document.Update and Document.Delete when the target document does not exist.
var ErrNotFound = errors.New("document not found")

// Snapshot is one document as read from a collection.
type Snapshot struct {
	ID   string
	Data map[string]any
}

// Client is a connection to a document store. It is created once per process and shared.
type Client interface {
	// Collection returns a handle to the named collection. It performs no I/O.
	Collection(name string) Collection
	// Close releases the underlying connection.
	Close() error
}

// Collection is a handle to a named group of documents.
type Collection interface {
	// List fetches every document in the collection.
	List(ctx context.Context) ([]Snapshot, error)
	// Add creates a document with a store-assigned id and returns that id.
	Add(ctx context.Context, data map[string]any) (string, error)
	// Doc returns a handle to the document with the given id. It performs no I/O.
	Doc(id string) Document
}

// Document is a handle to a single document.
type Document interface {
	// Update merges fields into the existing document, leaving other fields untouched.
	Update(ctx context.Context, fields map[string]any) error
	// Delete removes the document.
	Delete(ctx context.Context) error
}
