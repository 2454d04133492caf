// Package objectstore is the blob storage used for raw uploads and optimized renditions.
package objectstore

import (
	"context"
	"errors"
	"io"
	"time"
)

var ErrObjectNotFound = errors.New("object not found")

type CompletedPart struct {
	PartNumber int
	ETag       string
}

type ObjectInfo struct {
	Key         string
	Size        int64
	ContentType string
	ETag        string
}

// Store covers the multipart lifecycle plus the whole-object calls the optimizer needs.
type Store interface {
	CreateMultipartUpload(ctx context.Context, key string, contentType string) (string, error)
	PresignUploadPart(ctx context.Context, key string, uploadID string, partNumber int, ttl time.Duration) (string, error)
	// CompleteMultipartUpload expects parts in ascending part number order.
	CompleteMultipartUpload(ctx context.Context, key string, uploadID string, parts []CompletedPart) error
	AbortMultipartUpload(ctx context.Context, key string, uploadID string) error
	Head(ctx context.Context, key string) (ObjectInfo, error)
	Download(ctx context.Context, key string, w io.Writer) (int64, error)
	Upload(ctx context.Context, key string, contentType string, r io.Reader, size int64) error
	Delete(ctx context.Context, key string) error
}
