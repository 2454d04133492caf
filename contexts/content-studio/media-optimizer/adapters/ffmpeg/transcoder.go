// Package ffmpegadapter produces web playback renditions by shelling out to ffmpeg.
package ffmpegadapter

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/exec"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

var commandContext = exec.CommandContext

const stderrTailBytes = 2048

type Option func(*Transcoder)

func WithBinary(binary string) Option {
	return func(t *Transcoder) {
		if strings.TrimSpace(binary) != "" {
			t.binary = binary
		}
	}
}

// WithVideoBitrate caps the H.264 stream; the same value is used for -maxrate.
func WithVideoBitrate(bitrate string) Option {
	return func(t *Transcoder) {
		if strings.TrimSpace(bitrate) != "" {
			t.videoBitrate = bitrate
		}
	}
}

func WithLogger(logger *slog.Logger) Option {
	return func(t *Transcoder) {
		if logger != nil {
			t.logger = logger
		}
	}
}

type Transcoder struct {
	binary       string
	videoBitrate string
	bufferSize   string
	audioBitrate string
	logger       *slog.Logger
}

func New(opts ...Option) *Transcoder {
	t := &Transcoder{
		binary:       "ffmpeg",
		videoBitrate: "2500k",
		bufferSize:   "5000k",
		audioBitrate: "128k",
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

func (t *Transcoder) args(inputPath string, outputPath string) []string {
	return []string{
		"-hide_banner",
		"-nostdin",
		"-y",
		"-i", inputPath,
		"-c:v", "libx264",
		"-preset", "veryfast",
		"-b:v", t.videoBitrate,
		"-maxrate", t.videoBitrate,
		"-bufsize", t.bufferSize,
		"-c:a", "aac",
		"-b:a", t.audioBitrate,
		"-af", "loudnorm",
		"-movflags", "+faststart",
		"-f", "mp4",
		outputPath,
	}
}

// Transcode succeeds only when ffmpeg exits zero and left a non-empty output file.
func (t *Transcoder) Transcode(ctx context.Context, inputPath string, outputPath string) error {
	if inputPath == "" || outputPath == "" {
		return errors.New("transcode requires input and output paths")
	}

	var stderr bytes.Buffer
	cmd := commandContext(ctx, t.binary, t.args(inputPath, outputPath)...) //nolint:gosec
	cmd.Stderr = &stderr

	startedAt := time.Now()
	if err := cmd.Run(); err != nil {
		if ctx.Err() != nil {
			return fmt.Errorf("ffmpeg cancelled: %w", ctx.Err())
		}
		return fmt.Errorf("ffmpeg failed: %w: %s", err, tail(stderr.String()))
	}

	info, err := os.Stat(outputPath)
	if err != nil {
		return fmt.Errorf("ffmpeg output missing: %w", err)
	}
	if info.Size() == 0 {
		return errors.New("ffmpeg output is empty")
	}

	inputSize := int64(0)
	if inputInfo, statErr := os.Stat(inputPath); statErr == nil {
		inputSize = inputInfo.Size()
	}
	t.logger.Info("ffmpeg transcode finished",
		"event", "optimizer_transcode_finished",
		"module", "content-studio/media-optimizer",
		"layer", "adapter",
		"input_size", humanize.Bytes(uint64(inputSize)),
		"output_size", humanize.Bytes(uint64(info.Size())),
		"duration", time.Since(startedAt).Round(time.Millisecond).String(),
	)
	return nil
}

func tail(output string) string {
	output = strings.TrimSpace(output)
	if len(output) <= stderrTailBytes {
		return output
	}
	return output[len(output)-stderrTailBytes:]
}
