package ports

import (
	"context"
	"io"
)

// ObjectStore reads raw sources and writes renditions.
type ObjectStore interface {
	Download(ctx context.Context, key string, w io.Writer) (int64, error)
	Upload(ctx context.Context, key string, contentType string, r io.Reader, size int64) error
}

// Transcoder turns inputPath into a playback-optimized file at outputPath.
type Transcoder interface {
	Transcode(ctx context.Context, inputPath string, outputPath string) error
}

// DerivativeRecorder stores the rendition key on the content object. It must not change status.
type DerivativeRecorder interface {
	RecordDerivative(ctx context.Context, contentID string, derivativeKey string) error
}
