package objectstore

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryMultipartAssemblesInPartOrder(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	uploadID, err := store.CreateMultipartUpload(ctx, "actors/a/content/c/source.mp4", "video/mp4")
	require.NoError(t, err)

	url, err := store.PresignUploadPart(ctx, "actors/a/content/c/source.mp4", uploadID, 1, 15*time.Minute)
	require.NoError(t, err)
	assert.True(t, strings.Contains(url, "partNumber=1"))

	etag2, err := store.UploadPart(uploadID, 2, []byte("world"))
	require.NoError(t, err)
	etag1, err := store.UploadPart(uploadID, 1, []byte("hello "))
	require.NoError(t, err)

	err = store.CompleteMultipartUpload(ctx, "actors/a/content/c/source.mp4", uploadID, []CompletedPart{
		{PartNumber: 2, ETag: etag2},
		{PartNumber: 1, ETag: etag1},
	})
	require.Error(t, err, "out of order parts must be rejected")

	require.NoError(t, store.CompleteMultipartUpload(ctx, "actors/a/content/c/source.mp4", uploadID, []CompletedPart{
		{PartNumber: 1, ETag: etag1},
		{PartNumber: 2, ETag: etag2},
	}))

	info, err := store.Head(ctx, "actors/a/content/c/source.mp4")
	require.NoError(t, err)
	assert.Equal(t, int64(11), info.Size)

	var buf bytes.Buffer
	_, err = store.Download(ctx, "actors/a/content/c/source.mp4", &buf)
	require.NoError(t, err)
	assert.Equal(t, "hello world", buf.String())
	assert.Equal(t, 0, store.PendingUploads())
}

func TestMemoryRejectsBadETagAndMissingObjects(t *testing.T) {
	store := NewMemoryStore()
	ctx := context.Background()

	uploadID, err := store.CreateMultipartUpload(ctx, "k", "video/mp4")
	require.NoError(t, err)
	_, err = store.UploadPart(uploadID, 1, []byte("data"))
	require.NoError(t, err)
	err = store.CompleteMultipartUpload(ctx, "k", uploadID, []CompletedPart{{PartNumber: 1, ETag: "bogus"}})
	require.Error(t, err)

	require.NoError(t, store.AbortMultipartUpload(ctx, "k", uploadID))
	assert.Error(t, store.AbortMultipartUpload(ctx, "k", uploadID))

	_, err = store.Head(ctx, "missing")
	assert.True(t, errors.Is(err, ErrObjectNotFound))
	_, err = store.Download(ctx, "missing", &bytes.Buffer{})
	assert.True(t, errors.Is(err, ErrObjectNotFound))
}
