// Package storageadapter binds the upload flow to the platform object store.
package storageadapter

import (
	"context"
	"time"

	"contentflow/contexts/content-studio/upload-service/ports"
	"contentflow/internal/platform/objectstore"
)

type Storage struct {
	store objectstore.Store
}

func New(store objectstore.Store) Storage {
	return Storage{store: store}
}

func (s Storage) CreateMultipartUpload(ctx context.Context, key string, contentType string) (string, error) {
	return s.store.CreateMultipartUpload(ctx, key, contentType)
}

func (s Storage) PresignUploadPart(ctx context.Context, key string, uploadID string, partNumber int, ttl time.Duration) (string, error) {
	return s.store.PresignUploadPart(ctx, key, uploadID, partNumber, ttl)
}

func (s Storage) CompleteMultipartUpload(ctx context.Context, key string, uploadID string, parts []ports.CompletedPart) error {
	completed := make([]objectstore.CompletedPart, 0, len(parts))
	for _, part := range parts {
		completed = append(completed, objectstore.CompletedPart{PartNumber: part.PartNumber, ETag: part.ETag})
	}
	return s.store.CompleteMultipartUpload(ctx, key, uploadID, completed)
}

func (s Storage) AbortMultipartUpload(ctx context.Context, key string, uploadID string) error {
	return s.store.AbortMultipartUpload(ctx, key, uploadID)
}

func (s Storage) ObjectSize(ctx context.Context, key string) (int64, error) {
	info, err := s.store.Head(ctx, key)
	if err != nil {
		return 0, err
	}
	return info.Size, nil
}

func (s Storage) DeleteObject(ctx context.Context, key string) error {
	return s.store.Delete(ctx, key)
}
