// Package minio implements docstore.Client on an S3-compatible bucket.
// Each document is one JSON object stored under "<collection>/<id>.json".
package minio

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	mc "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"todoapi/internal/config"
	"todoapi/internal/docstore"
)

const (
	objectSuffix = ".json"
	contentType  = "application/json"
)

// Store is safe for concurrent use by multiple goroutines. Updates are read-modify-write
// on a single object and are not atomic against concurrent writers of the same document.
type Store struct {
	client *mc.Client
	bucket string
}

var _ docstore.Client = (*Store)(nil)

// New creates an S3-compatible client backed by MinIO.
// It validates connectivity and ensures the bucket exists (creates it if missing).
func New(ctx context.Context, cfg config.MinIOConfig) (*Store, error) {
	if cfg.Endpoint == "" {
		return nil, fmt.Errorf("minio endpoint is required")
	}
	if cfg.AccessKey == "" || cfg.SecretKey == "" {
		return nil, fmt.Errorf("minio credentials are required")
	}
	if cfg.Bucket == "" {
		return nil, fmt.Errorf("minio bucket is required")
	}

	cli, err := mc.New(cfg.Endpoint, &mc.Options{
		Creds:     credentials.NewStaticV4(cfg.AccessKey, cfg.SecretKey, ""),
		Secure:    cfg.UseSSL,
		Transport: otelhttp.NewTransport(http.DefaultTransport),
	})
	if err != nil {
		return nil, fmt.Errorf("create minio client: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	exists, err := cli.BucketExists(ctx, cfg.Bucket)
	if err != nil {
		return nil, fmt.Errorf("check bucket existence: %w", err)
	}
	if !exists {
		if err := cli.MakeBucket(ctx, cfg.Bucket, mc.MakeBucketOptions{}); err != nil {
			return nil, fmt.Errorf("create bucket: %w", err)
		}
	}

	return &Store{client: cli, bucket: cfg.Bucket}, nil
}

func (s *Store) Collection(name string) docstore.Collection {
	return &collection{store: s, name: name}
}

// Close is a no-op; the MinIO client holds no long-lived connection to release.
func (s *Store) Close() error { return nil }

func objectKey(collection, id string) string {
	return collection + "/" + id + objectSuffix
}

// idFromKey returns the document id of an object key inside prefix, or false for foreign objects.
func idFromKey(prefix, key string) (string, bool) {
	if !strings.HasPrefix(key, prefix) || !strings.HasSuffix(key, objectSuffix) {
		return "", false
	}
	id := strings.TrimSuffix(strings.TrimPrefix(key, prefix), objectSuffix)
	if id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}

func isNotFound(err error) bool {
	code := mc.ToErrorResponse(err).Code
	return code == "NoSuchKey" || code == "NotFound"
}

type collection struct {
	store *Store
	name  string
}

func (c *collection) List(ctx context.Context) ([]docstore.Snapshot, error) {
	prefix := c.name + "/"
	out := make([]docstore.Snapshot, 0)

	for obj := range c.store.client.ListObjects(ctx, c.store.bucket, mc.ListObjectsOptions{Prefix: prefix}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		id, ok := idFromKey(prefix, obj.Key)
		if !ok {
			continue
		}
		data, err := c.store.read(ctx, obj.Key)
		if err != nil {
			// Deleted between listing and reading.
			if isNotFound(err) {
				continue
			}
			return nil, err
		}
		out = append(out, docstore.Snapshot{ID: id, Data: data})
	}
	return out, nil
}

func (c *collection) Add(ctx context.Context, data map[string]any) (string, error) {
	id := uuid.NewString()
	if err := c.store.write(ctx, objectKey(c.name, id), data); err != nil {
		return "", err
	}
	return id, nil
}

func (c *collection) Doc(id string) docstore.Document {
	return &document{store: c.store, key: objectKey(c.name, id)}
}

type document struct {
	store *Store
	key   string
}

func (d *document) Update(ctx context.Context, fields map[string]any) error {
	data, err := d.store.read(ctx, d.key)
	if err != nil {
		if isNotFound(err) {
			return docstore.ErrNotFound
		}
		return err
	}
	for k, v := range fields {
		data[k] = v
	}
	return d.store.write(ctx, d.key, data)
}

// Delete stats the object first because S3 deletes of missing keys succeed silently.
func (d *document) Delete(ctx context.Context) error {
	if _, err := d.store.client.StatObject(ctx, d.store.bucket, d.key, mc.StatObjectOptions{}); err != nil {
		if isNotFound(err) {
			return docstore.ErrNotFound
		}
		return err
	}
	return d.store.client.RemoveObject(ctx, d.store.bucket, d.key, mc.RemoveObjectOptions{})
}

func (s *Store) read(ctx context.Context, key string) (map[string]any, error) {
	obj, err := s.client.GetObject(ctx, s.bucket, key, mc.GetObjectOptions{})
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	raw, err := io.ReadAll(obj)
	if err != nil {
		return nil, err
	}
	data, err := docstore.DecodeData(raw)
	if err != nil {
		return nil, fmt.Errorf("decode object %s: %w", key, err)
	}
	return data, nil
}

func (s *Store) write(ctx context.Context, key string, data map[string]any) error {
	body, err := docstore.EncodeData(data)
	if err != nil {
		return err
	}
	_, err = s.client.PutObject(ctx, s.bucket, key, bytes.NewReader(body), int64(len(body)),
		mc.PutObjectOptions{ContentType: contentType})
	return err
}
