// Package scratchadapter removes scratch files left behind by crashed optimizer runs.
package scratchadapter

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
)

const lockFileName = ".contentflow-sweep.lock"

// Sweeper deletes files matching Pattern in Dir that are older than MaxAge.
// Only one process sweeps a directory at a time; others skip the run.
type Sweeper struct {
	Dir     string
	Pattern string
	MaxAge  time.Duration
	Logger  *slog.Logger
	Now     func() time.Time
}

func (s Sweeper) dir() string {
	if strings.TrimSpace(s.Dir) == "" {
		return os.TempDir()
	}
	return s.Dir
}

// SweepOnce returns the number of files removed. A held lock is not an error.
func (s Sweeper) SweepOnce(ctx context.Context) (int, error) {
	logger := s.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := time.Now
	if s.Now != nil {
		now = s.Now
	}
	maxAge := s.MaxAge
	if maxAge <= 0 {
		maxAge = 2 * time.Hour
	}

	dir := s.dir()
	lock := flock.New(filepath.Join(dir, lockFileName))
	ok, err := lock.TryLock()
	if err != nil {
		return 0, fmt.Errorf("acquire sweep lock: %w", err)
	}
	if !ok {
		logger.Debug("scratch sweep skipped; another process holds the lock",
			"event", "optimizer_scratch_sweep_skipped",
			"module", "content-studio/media-optimizer",
			"layer", "adapter",
			"dir", dir,
		)
		return 0, nil
	}
	defer func() {
		if err := lock.Unlock(); err != nil {
			logger.Warn("failed to release sweep lock",
				"event", "optimizer_scratch_unlock_failed",
				"module", "content-studio/media-optimizer",
				"layer", "adapter",
				"error", err.Error(),
			)
		}
	}()

	matches, err := filepath.Glob(filepath.Join(dir, s.Pattern))
	if err != nil {
		return 0, err
	}

	cutoff := now().Add(-maxAge)
	removed := 0
	for _, path := range matches {
		if ctx.Err() != nil {
			return removed, ctx.Err()
		}
		info, err := os.Stat(path)
		if err != nil || info.IsDir() || !info.ModTime().Before(cutoff) {
			continue
		}
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.Warn("stale scratch file not removed",
				"event", "optimizer_scratch_sweep_failed",
				"module", "content-studio/media-optimizer",
				"layer", "adapter",
				"path", path,
				"error", err.Error(),
			)
			continue
		}
		removed++
	}

	if removed > 0 {
		logger.Info("stale scratch files removed",
			"event", "optimizer_scratch_swept",
			"module", "content-studio/media-optimizer",
			"layer", "adapter",
			"dir", dir,
			"removed", removed,
		)
	}
	return removed, nil
}
