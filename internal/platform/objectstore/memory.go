package objectstore

import (
	"bytes"
	"context"
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"io"
	"net/url"
	"strconv"
	"sync"
	"sync/atomic"
	"time"
)

type memoryObject struct {
	data        []byte
	contentType string
	etag        string
}

type memoryUpload struct {
	key         string
	contentType string
	parts       map[int][]byte
}

// MemoryStore keeps objects in process memory. It follows S3 multipart rules
// closely enough to exercise the upload flow without a bucket.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
	uploads map[string]*memoryUpload

	sequence atomic.Uint64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		objects: make(map[string]memoryObject),
		uploads: make(map[string]*memoryUpload),
	}
}

func (m *MemoryStore) CreateMultipartUpload(_ context.Context, key string, contentType string) (string, error) {
	uploadID := "mpu-" + strconv.FormatUint(m.sequence.Add(1), 10)
	m.mu.Lock()
	defer m.mu.Unlock()
	m.uploads[uploadID] = &memoryUpload{key: key, contentType: contentType, parts: make(map[int][]byte)}
	return uploadID, nil
}

func (m *MemoryStore) PresignUploadPart(_ context.Context, key string, uploadID string, partNumber int, ttl time.Duration) (string, error) {
	m.mu.RLock()
	upload, ok := m.uploads[uploadID]
	m.mu.RUnlock()
	if !ok || upload.key != key {
		return "", fmt.Errorf("presign upload part: no such upload %q", uploadID)
	}
	query := url.Values{}
	query.Set("uploadId", uploadID)
	query.Set("partNumber", strconv.Itoa(partNumber))
	query.Set("expires", strconv.FormatInt(int64(ttl/time.Second), 10))
	return "memory://objects/" + key + "?" + query.Encode(), nil
}

// UploadPart stores one part and returns its ETag, standing in for the client's PUT.
func (m *MemoryStore) UploadPart(uploadID string, partNumber int, data []byte) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	upload, ok := m.uploads[uploadID]
	if !ok {
		return "", fmt.Errorf("upload part: no such upload %q", uploadID)
	}
	upload.parts[partNumber] = append([]byte(nil), data...)
	return etagOf(data), nil
}

func (m *MemoryStore) CompleteMultipartUpload(_ context.Context, key string, uploadID string, parts []CompletedPart) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	upload, ok := m.uploads[uploadID]
	if !ok || upload.key != key {
		return fmt.Errorf("complete multipart upload: no such upload %q", uploadID)
	}
	if len(parts) == 0 {
		return fmt.Errorf("complete multipart upload: no parts")
	}

	var assembled bytes.Buffer
	previous := 0
	for _, part := range parts {
		if part.PartNumber <= previous {
			return fmt.Errorf("complete multipart upload: parts out of order at %d", part.PartNumber)
		}
		previous = part.PartNumber
		data, ok := upload.parts[part.PartNumber]
		if !ok || etagOf(data) != part.ETag {
			return fmt.Errorf("complete multipart upload: invalid part %d", part.PartNumber)
		}
		assembled.Write(data)
	}

	data := assembled.Bytes()
	m.objects[key] = memoryObject{data: data, contentType: upload.contentType, etag: etagOf(data)}
	delete(m.uploads, uploadID)
	return nil
}

func (m *MemoryStore) AbortMultipartUpload(_ context.Context, _ string, uploadID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.uploads[uploadID]; !ok {
		return fmt.Errorf("abort multipart upload: no such upload %q", uploadID)
	}
	delete(m.uploads, uploadID)
	return nil
}

func (m *MemoryStore) Head(_ context.Context, key string) (ObjectInfo, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	object, ok := m.objects[key]
	if !ok {
		return ObjectInfo{}, ErrObjectNotFound
	}
	return ObjectInfo{Key: key, Size: int64(len(object.data)), ContentType: object.contentType, ETag: object.etag}, nil
}

func (m *MemoryStore) Download(_ context.Context, key string, w io.Writer) (int64, error) {
	m.mu.RLock()
	object, ok := m.objects[key]
	m.mu.RUnlock()
	if !ok {
		return 0, ErrObjectNotFound
	}
	written, err := w.Write(object.data)
	return int64(written), err
}

func (m *MemoryStore) Upload(_ context.Context, key string, contentType string, r io.Reader, _ int64) error {
	data, err := io.ReadAll(r)
	if err != nil {
		return fmt.Errorf("read upload body: %w", err)
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[key] = memoryObject{data: data, contentType: contentType, etag: etagOf(data)}
	return nil
}

func (m *MemoryStore) Delete(_ context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.objects, key)
	return nil
}

// Exists and PendingUploads are inspection helpers for tests and the dev server.
func (m *MemoryStore) Exists(key string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.objects[key]
	return ok
}

func (m *MemoryStore) PendingUploads() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.uploads)
}

func (m *MemoryStore) IsReady(context.Context) error {
	return nil
}

func etagOf(data []byte) string {
	sum := md5.Sum(data)
	return `"` + hex.EncodeToString(sum[:]) + `"`
}
