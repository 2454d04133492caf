package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"time"

	application "contentflow/contexts/content-studio/media-optimizer/application"
	"contentflow/contexts/content-studio/media-optimizer/domain/entities"
	domainerrors "contentflow/contexts/content-studio/media-optimizer/domain/errors"
	"contentflow/contexts/content-studio/media-optimizer/ports"
)

const (
	defaultJobTimeout = 30 * time.Minute
	// ScratchPattern prefixes every scratch file so stale ones can be swept.
	ScratchPattern = "contentflow-opt-*"
)

type OptimizeContentUseCase struct {
	Objects    ports.ObjectStore
	Transcoder ports.Transcoder
	Recorder   ports.DerivativeRecorder
	ScratchDir string
	Timeout    time.Duration
	Logger     *slog.Logger
}

// Execute downloads the source, transcodes it, uploads the rendition and records
// its key. Scratch files are removed on every path. All errors wrap ErrBestEffortFailure.
func (u OptimizeContentUseCase) Execute(ctx context.Context, job entities.OptimizationJob) (string, error) {
	logger := application.ResolveLogger(u.Logger)
	if !job.Valid() {
		return "", domainerrors.ErrInvalidJob
	}

	timeout := u.Timeout
	if timeout <= 0 {
		timeout = defaultJobTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	startedAt := time.Now()
	input, err := os.CreateTemp(u.ScratchDir, ScratchPattern)
	if err != nil {
		return "", fmt.Errorf("%w: %v", domainerrors.ErrScratchUnavailable, err)
	}
	inputPath := input.Name()
	outputPath := inputPath + ".mp4"
	defer removeScratch(logger, inputPath, outputPath)

	sourceBytes, err := u.Objects.Download(ctx, job.ObjectKey, input)
	closeErr := input.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		return "", fmt.Errorf("%w: %v", domainerrors.ErrSourceUnavailable, err)
	}

	if err := u.Transcoder.Transcode(ctx, inputPath, outputPath); err != nil {
		return "", fmt.Errorf("%w: %v", domainerrors.ErrTranscodeFailed, err)
	}

	derivativeKey := entities.DerivativeKey(job.ObjectKey)
	if err := u.upload(ctx, derivativeKey, outputPath); err != nil {
		return "", fmt.Errorf("%w: %v", domainerrors.ErrDerivativeUpload, err)
	}

	if err := u.Recorder.RecordDerivative(ctx, job.ContentID, derivativeKey); err != nil {
		return "", fmt.Errorf("%w: %v", domainerrors.ErrDerivativeNotRecorded, err)
	}

	logger.Info("content optimized",
		"event", "content_optimized",
		"module", "content-studio/media-optimizer",
		"layer", "application",
		"content_id", job.ContentID,
		"derivative_key", derivativeKey,
		"source_bytes", sourceBytes,
		"duration_ms", time.Since(startedAt).Milliseconds(),
	)
	return derivativeKey, nil
}

func (u OptimizeContentUseCase) upload(ctx context.Context, key string, path string) error {
	file, err := os.Open(path)
	if err != nil {
		return err
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		return err
	}
	return u.Objects.Upload(ctx, key, entities.DerivativeContentType, file, info.Size())
}

func removeScratch(logger *slog.Logger, paths ...string) {
	for _, path := range paths {
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Warn("scratch file not removed",
				"event", "optimizer_scratch_cleanup_failed",
				"module", "content-studio/media-optimizer",
				"layer", "application",
				"path", path,
				"error", err.Error(),
			)
		}
	}
}
