// Package firestore implements docstore.Client on Google Cloud Firestore.
package firestore

import (
	"context"
	"errors"
	"fmt"
	"sort"

	fs "cloud.google.com/go/firestore"
	"google.golang.org/api/option"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"todoapi/internal/config"
	"todoapi/internal/docstore"
)

// Client wraps a *firestore.Client. It is safe for concurrent use by multiple goroutines.
type Client struct {
	client *fs.Client
}

var _ docstore.Client = (*Client)(nil)

// New creates a Firestore client for the configured project and database.
// Credentials default to Application Default Credentials unless a credentials file is given.
func New(ctx context.Context, cfg config.FirestoreConfig) (*Client, error) {
	if cfg.ProjectID == "" {
		return nil, fmt.Errorf("firestore project id is required")
	}
	database := cfg.Database
	if database == "" {
		database = fs.DefaultDatabaseID
	}

	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}

	cli, err := fs.NewClientWithDatabase(ctx, cfg.ProjectID, database, opts...)
	if err != nil {
		return nil, fmt.Errorf("create firestore client: %w", err)
	}
	return Wrap(cli), nil
}

// Wrap adapts an existing Firestore client.
func Wrap(cli *fs.Client) *Client {
	return &Client{client: cli}
}

func (c *Client) Collection(name string) docstore.Collection {
	return &collection{ref: c.client.Collection(name)}
}

func (c *Client) Close() error {
	return c.client.Close()
}

type collection struct {
	ref *fs.CollectionRef
}

func (c *collection) List(ctx context.Context) ([]docstore.Snapshot, error) {
	if c.ref == nil {
		return nil, errors.New("firestore: invalid collection name")
	}
	snaps, err := c.ref.Documents(ctx).GetAll()
	if err != nil {
		return nil, err
	}
	out := make([]docstore.Snapshot, 0, len(snaps))
	for _, s := range snaps {
		out = append(out, docstore.Snapshot{ID: s.Ref.ID, Data: s.Data()})
	}
	return out, nil
}

func (c *collection) Add(ctx context.Context, data map[string]any) (string, error) {
	if c.ref == nil {
		return "", errors.New("firestore: invalid collection name")
	}
	ref, _, err := c.ref.Add(ctx, data)
	if err != nil {
		return "", err
	}
	return ref.ID, nil
}

func (c *collection) Doc(id string) docstore.Document {
	if c.ref == nil {
		return &document{}
	}
	return &document{ref: c.ref.Doc(id)}
}

type document struct {
	ref *fs.DocumentRef
}

// Update applies a field-level update. Firestore rejects it with NotFound when the document is absent.
func (d *document) Update(ctx context.Context, fields map[string]any) error {
	if d.ref == nil {
		return docstore.ErrNotFound
	}
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	updates := make([]fs.Update, 0, len(keys))
	for _, k := range keys {
		updates = append(updates, fs.Update{Path: k, Value: fields[k]})
	}
	_, err := d.ref.Update(ctx, updates)
	return mapError(err)
}

// Delete removes the document. The Exists precondition makes a missing document an error.
func (d *document) Delete(ctx context.Context) error {
	if d.ref == nil {
		return docstore.ErrNotFound
	}
	_, err := d.ref.Delete(ctx, fs.Exists)
	return mapError(err)
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if status.Code(err) == codes.NotFound {
		return fmt.Errorf("%w: %v", docstore.ErrNotFound, err)
	}
	return err
}
