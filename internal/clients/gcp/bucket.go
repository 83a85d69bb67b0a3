package gcp

import (
	"context"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/yungbote/circuitboard-backend/internal/platform/logger"
)

// ObjectStore keeps the raw uploaded artifact. A document whose text
// extraction degraded is still worth serving back as a download, so the
// binary always lands here before any extraction is attempted.
type ObjectStore interface {
	Put(ctx context.Context, key string, data io.Reader, contentType string) error
	SignedURL(key string, ttl time.Duration) (string, error)
	DeleteByPrefix(ctx context.Context, prefix string) error
}

type BucketConfig struct {
	Credentials Credentials
	BucketName  string
}

type bucketStore struct {
	log    *logger.Logger
	client *storage.Client
	bucket string
}

func NewBucketStore(log *logger.Logger, cfg BucketConfig) (ObjectStore, error) {
	if cfg.BucketName == "" {
		return nil, fmt.Errorf("bucket name required")
	}
	opts := append([]option.ClientOption{option.WithScopes(storage.ScopeReadWrite)}, cfg.Credentials.ClientOptions()...)
	c, err := storage.NewClient(context.Background(), opts...)
	if err != nil {
		return nil, fmt.Errorf("storage client: %w", err)
	}
	return &bucketStore{
		log:    log.With("client", "gcp.Bucket"),
		client: c,
		bucket: cfg.BucketName,
	}, nil
}

func (b *bucketStore) Put(ctx context.Context, key string, data io.Reader, contentType string) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	w := b.client.Bucket(b.bucket).Object(key).NewWriter(ctx)
	if contentType != "" {
		w.ContentType = contentType
	}
	if _, err := io.Copy(w, data); err != nil {
		_ = w.Close()
		return fmt.Errorf("write object %q: %w", key, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close object writer %q: %w", key, err)
	}
	return nil
}

func (b *bucketStore) SignedURL(key string, ttl time.Duration) (string, error) {
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	url, err := b.client.Bucket(b.bucket).SignedURL(key, &storage.SignedURLOptions{
		Method:  "GET",
		Expires: time.Now().Add(ttl),
	})
	if err != nil {
		return "", fmt.Errorf("sign url for %q: %w", key, err)
	}
	return url, nil
}

func (b *bucketStore) DeleteByPrefix(ctx context.Context, prefix string) error {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()
	it := b.client.Bucket(b.bucket).Objects(ctx, &storage.Query{Prefix: prefix})
	for {
		attrs, err := it.Next()
		if err == iterator.Done {
			return nil
		}
		if err != nil {
			return fmt.Errorf("list objects %q: %w", prefix, err)
		}
		if derr := b.client.Bucket(b.bucket).Object(attrs.Name).Delete(ctx); derr != nil {
			b.log.Warn("Failed to delete object", "key", attrs.Name, "error", derr)
		}
	}
}
