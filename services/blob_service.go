package services

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/kurin/blazer/b2"
)

// StoreResult is what the blob store hands back for a stored object.
type StoreResult struct {
	Key          string
	URL          string
	ThumbnailURL string
}

// BlobStore is the binary-content collaborator. The core only ever talks to
// this contract; B2 is one implementation.
type BlobStore interface {
	Store(ctx context.Context, r io.Reader, filename, folderHint, kind string) (*StoreResult, error)
	Delete(ctx context.Context, key, kind string) error
	DeleteMany(ctx context.Context, keys []string, kind string) error
}

// B2BlobService stores blobs in a Backblaze B2 bucket.
type B2BlobService struct {
	client     *b2.Client
	bucket     *b2.Bucket
	bucketName string
}

func NewB2BlobService(ctx context.Context, keyID, applicationKey, bucketName string) (*B2BlobService, error) {
	client, err := b2.NewClient(ctx, keyID, applicationKey)
	if err != nil {
		return nil, fmt.Errorf("failed to create B2 client: %w", err)
	}

	bucket, err := client.Bucket(ctx, bucketName)
	if err != nil {
		return nil, fmt.Errorf("failed to get bucket %s: %w", bucketName, err)
	}

	return &B2BlobService{
		client:     client,
		bucket:     bucket,
		bucketName: bucketName,
	}, nil
}

// Store streams the reader into the bucket under a unique key. The key
// embeds the owner hint and kind so objects stay browsable per user.
func (s *B2BlobService) Store(ctx context.Context, r io.Reader, filename, folderHint, kind string) (*StoreResult, error) {
	key := fmt.Sprintf("%s/%ss/%s_%s", folderHint, kind, uuid.NewString(), filename)

	obj := s.bucket.Object(key)
	writer := obj.NewWriter(ctx)

	if _, err := io.Copy(writer, r); err != nil {
		writer.Close()
		return nil, fmt.Errorf("failed to upload %s to B2: %w", filename, err)
	}
	if err := writer.Close(); err != nil {
		return nil, fmt.Errorf("failed to close B2 writer for %s: %w", filename, err)
	}

	return &StoreResult{
		Key: key,
		URL: obj.URL(),
	}, nil
}

func (s *B2BlobService) Delete(ctx context.Context, key, kind string) error {
	if key == "" {
		return nil
	}
	if err := s.bucket.Object(key).Delete(ctx); err != nil {
		return fmt.Errorf("failed to delete blob %s: %w", key, err)
	}
	return nil
}

// DeleteMany removes a batch of objects, continuing past individual
// failures and reporting the last one. Callers treat blob deletion as
// best-effort.
func (s *B2BlobService) DeleteMany(ctx context.Context, keys []string, kind string) error {
	var lastErr error
	for _, key := range keys {
		if err := s.Delete(ctx, key, kind); err != nil {
			lastErr = err
		}
	}
	return lastErr
}
