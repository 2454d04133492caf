package workers

import (
	"context"
	"errors"
	"log/slog"
	"time"

	application "contentflow/contexts/content-studio/upload-service/application"
	"contentflow/contexts/content-studio/upload-service/domain/entities"
	domainerrors "contentflow/contexts/content-studio/upload-service/domain/errors"
	"contentflow/contexts/content-studio/upload-service/ports"
)

const defaultSessionMaxAge = 24 * time.Hour

// SessionReaper aborts sessions abandoned in open or completing and frees their locks.
type SessionReaper struct {
	Sessions  ports.SessionRepository
	Storage   ports.ObjectStorage
	Clock     ports.Clock
	MaxAge    time.Duration
	BatchSize int
	Logger    *slog.Logger
}

func (j SessionReaper) RunOnce(ctx context.Context) (int, error) {
	logger := application.ResolveLogger(j.Logger)
	now := time.Now().UTC()
	if j.Clock != nil {
		now = j.Clock.Now().UTC()
	}
	maxAge := j.MaxAge
	if maxAge <= 0 {
		maxAge = defaultSessionMaxAge
	}
	limit := j.BatchSize
	if limit <= 0 {
		limit = 100
	}

	stale, err := j.Sessions.ListStaleSessions(ctx, now.Add(-maxAge), limit)
	if err != nil {
		logger.Error("stale session sweep failed",
			"event", "upload_session_reap_failed",
			"module", "content-studio/upload-service",
			"layer", "worker",
			"error", err.Error(),
		)
		return 0, err
	}

	reaped := 0
	for _, session := range stale {
		if session.Status.IsTerminal() {
			continue
		}
		err := j.Sessions.TransitionSession(ctx, ports.SessionTransition{
			SessionID: session.SessionID,
			From:      session.Status,
			To:        entities.SessionStatusAborted,
			UpdatedAt: now,
		})
		if err != nil {
			if errors.Is(err, domainerrors.ErrSessionNotOpen) {
				continue
			}
			logger.Warn("stale session abort failed",
				"event", "upload_session_reap_transition_failed",
				"module", "content-studio/upload-service",
				"layer", "worker",
				"session_id", session.SessionID,
				"error", err.Error(),
			)
			continue
		}
		if j.Storage != nil && session.StorageUploadID != "" && session.Status == entities.SessionStatusOpen {
			if err := j.Storage.AbortMultipartUpload(ctx, session.ObjectKey, session.StorageUploadID); err != nil {
				logger.Warn("stale session storage abort failed",
					"event", "upload_session_reap_storage_abort_failed",
					"module", "content-studio/upload-service",
					"layer", "worker",
					"session_id", session.SessionID,
					"error", err.Error(),
				)
			}
		}
		if err := j.Sessions.ReleaseLock(ctx, session.OwnerActorID, session.SessionID); err != nil {
			logger.Warn("stale session lock release failed",
				"event", "upload_session_reap_lock_release_failed",
				"module", "content-studio/upload-service",
				"layer", "worker",
				"session_id", session.SessionID,
				"error", err.Error(),
			)
		}
		reaped++
	}

	if reaped > 0 {
		logger.Info("stale upload sessions reaped",
			"event", "upload_session_reap_completed",
			"module", "content-studio/upload-service",
			"layer", "worker",
			"reaped_count", reaped,
		)
	}
	return reaped, nil
}
