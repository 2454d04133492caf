package objectstore

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/aws/aws-sdk-go-v2/service/s3/types"
	"github.com/aws/smithy-go"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

type S3Options struct {
	Region       string
	Bucket       string
	Endpoint     string
	UsePathStyle bool
}

type S3Store struct {
	client    *s3.Client
	presigner *s3.PresignClient
	bucket    string
	tracer    trace.Tracer
	logger    *slog.Logger
}

// NewS3Client loads the default AWS credential chain for the configured region.
func NewS3Client(ctx context.Context, opts S3Options) (*s3.Client, error) {
	cfg, err := awsconfig.LoadDefaultConfig(ctx, awsconfig.WithRegion(opts.Region))
	if err != nil {
		return nil, fmt.Errorf("load aws config: %w", err)
	}
	return s3.NewFromConfig(cfg, func(o *s3.Options) {
		if opts.Endpoint != "" {
			o.BaseEndpoint = aws.String(opts.Endpoint)
		}
		o.UsePathStyle = opts.UsePathStyle
	}), nil
}

func NewS3Store(client *s3.Client, bucket string, logger *slog.Logger) *S3Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &S3Store{
		client:    client,
		presigner: s3.NewPresignClient(client),
		bucket:    bucket,
		tracer:    otel.Tracer("contentflow/objectstore"),
		logger:    logger,
	}
}

func (s *S3Store) CreateMultipartUpload(ctx context.Context, key string, contentType string) (string, error) {
	ctx, span := s.startSpan(ctx, "s3.CreateMultipartUpload", key)
	defer span.End()

	out, err := s.client.CreateMultipartUpload(ctx, &s3.CreateMultipartUploadInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		ContentType: aws.String(contentType),
	})
	if err != nil {
		return "", s.fail(span, "create multipart upload", key, err)
	}
	return aws.ToString(out.UploadId), nil
}

func (s *S3Store) PresignUploadPart(ctx context.Context, key string, uploadID string, partNumber int, ttl time.Duration) (string, error) {
	presigned, err := s.presigner.PresignUploadPart(ctx, &s3.UploadPartInput{
		Bucket:     aws.String(s.bucket),
		Key:        aws.String(key),
		UploadId:   aws.String(uploadID),
		PartNumber: aws.Int32(int32(partNumber)),
	}, s3.WithPresignExpires(ttl))
	if err != nil {
		return "", fmt.Errorf("presign upload part: %w", err)
	}
	return presigned.URL, nil
}

func (s *S3Store) CompleteMultipartUpload(ctx context.Context, key string, uploadID string, parts []CompletedPart) error {
	ctx, span := s.startSpan(ctx, "s3.CompleteMultipartUpload", key)
	defer span.End()
	span.SetAttributes(attribute.Int("s3.part_count", len(parts)))

	completed := make([]types.CompletedPart, 0, len(parts))
	for _, part := range parts {
		completed = append(completed, types.CompletedPart{
			ETag:       aws.String(part.ETag),
			PartNumber: aws.Int32(int32(part.PartNumber)),
		})
	}
	_, err := s.client.CompleteMultipartUpload(ctx, &s3.CompleteMultipartUploadInput{
		Bucket:          aws.String(s.bucket),
		Key:             aws.String(key),
		UploadId:        aws.String(uploadID),
		MultipartUpload: &types.CompletedMultipartUpload{Parts: completed},
	})
	if err != nil {
		return s.fail(span, "complete multipart upload", key, err)
	}
	return nil
}

func (s *S3Store) AbortMultipartUpload(ctx context.Context, key string, uploadID string) error {
	ctx, span := s.startSpan(ctx, "s3.AbortMultipartUpload", key)
	defer span.End()

	_, err := s.client.AbortMultipartUpload(ctx, &s3.AbortMultipartUploadInput{
		Bucket:   aws.String(s.bucket),
		Key:      aws.String(key),
		UploadId: aws.String(uploadID),
	})
	if err != nil {
		return s.fail(span, "abort multipart upload", key, err)
	}
	return nil
}

func (s *S3Store) Head(ctx context.Context, key string) (ObjectInfo, error) {
	ctx, span := s.startSpan(ctx, "s3.HeadObject", key)
	defer span.End()

	out, err := s.client.HeadObject(ctx, &s3.HeadObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return ObjectInfo{}, ErrObjectNotFound
		}
		return ObjectInfo{}, s.fail(span, "head object", key, err)
	}
	return ObjectInfo{
		Key:         key,
		Size:        aws.ToInt64(out.ContentLength),
		ContentType: aws.ToString(out.ContentType),
		ETag:        aws.ToString(out.ETag),
	}, nil
}

func (s *S3Store) Download(ctx context.Context, key string, w io.Writer) (int64, error) {
	ctx, span := s.startSpan(ctx, "s3.GetObject", key)
	defer span.End()

	out, err := s.client.GetObject(ctx, &s3.GetObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		if isNotFound(err) {
			return 0, ErrObjectNotFound
		}
		return 0, s.fail(span, "get object", key, err)
	}
	defer out.Body.Close()

	written, err := io.Copy(w, out.Body)
	if err != nil {
		return written, s.fail(span, "read object body", key, err)
	}
	span.SetAttributes(attribute.Int64("s3.bytes", written))
	return written, nil
}

func (s *S3Store) Upload(ctx context.Context, key string, contentType string, r io.Reader, size int64) error {
	ctx, span := s.startSpan(ctx, "s3.PutObject", key)
	defer span.End()

	input := &s3.PutObjectInput{
		Bucket:      aws.String(s.bucket),
		Key:         aws.String(key),
		Body:        r,
		ContentType: aws.String(contentType),
	}
	if size >= 0 {
		input.ContentLength = aws.Int64(size)
	}
	if _, err := s.client.PutObject(ctx, input); err != nil {
		return s.fail(span, "put object", key, err)
	}
	return nil
}

func (s *S3Store) Delete(ctx context.Context, key string) error {
	ctx, span := s.startSpan(ctx, "s3.DeleteObject", key)
	defer span.End()

	_, err := s.client.DeleteObject(ctx, &s3.DeleteObjectInput{
		Bucket: aws.String(s.bucket),
		Key:    aws.String(key),
	})
	if err != nil {
		return s.fail(span, "delete object", key, err)
	}
	return nil
}

// IsReady backs the readiness probe.
func (s *S3Store) IsReady(ctx context.Context) error {
	_, err := s.client.HeadBucket(ctx, &s3.HeadBucketInput{Bucket: aws.String(s.bucket)})
	return err
}

func (s *S3Store) startSpan(ctx context.Context, name string, key string) (context.Context, trace.Span) {
	return s.tracer.Start(ctx, name, trace.WithAttributes(
		attribute.String("s3.bucket", s.bucket),
		attribute.String("s3.key", key),
	))
}

func (s *S3Store) fail(span trace.Span, op string, key string, err error) error {
	span.RecordError(err)
	span.SetStatus(codes.Error, op)
	s.logger.Error("object storage call failed",
		"event", "objectstore_call_failed",
		"module", "platform/objectstore",
		"layer", "platform",
		"operation", op,
		"bucket", s.bucket,
		"key", key,
		"error", err.Error(),
	)
	return fmt.Errorf("%s %q: %w", op, key, err)
}

func isNotFound(err error) bool {
	var apiErr smithy.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.ErrorCode() {
		case "NotFound", "NoSuchKey":
			return true
		}
	}
	return false
}
