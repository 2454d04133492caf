package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"contentflow/contexts/content-studio/upload-service/domain/entities"
	domainerrors "contentflow/contexts/content-studio/upload-service/domain/errors"
	"contentflow/contexts/content-studio/upload-service/ports"
)

const (
	moduleName          = "content-studio/upload-service"
	sourceService       = "upload-service"
	contentCreatedTopic = "content.created"
)

func loadOwnedSession(
	ctx context.Context,
	sessions ports.SessionRepository,
	sessionID string,
	actorID string,
) (entities.UploadSession, error) {
	if strings.TrimSpace(actorID) == "" {
		return entities.UploadSession{}, domainerrors.ErrActorRequired
	}
	session, err := sessions.GetSession(ctx, strings.TrimSpace(sessionID))
	if err != nil {
		return entities.UploadSession{}, err
	}
	if session.OwnerActorID != actorID {
		return entities.UploadSession{}, domainerrors.ErrNotSessionOwner
	}
	return session, nil
}

// releaseLock runs on a context detached from the request so a cancelled
// client never leaves the actor locked out.
func releaseLock(
	ctx context.Context,
	sessions ports.SessionRepository,
	logger *slog.Logger,
	session entities.UploadSession,
) {
	if err := sessions.ReleaseLock(context.WithoutCancel(ctx), session.OwnerActorID, session.SessionID); err != nil {
		logger.Error("upload lock release failed",
			"event", "upload_lock_release_failed",
			"module", moduleName,
			"layer", "application",
			"session_id", session.SessionID,
			"actor_id", session.OwnerActorID,
			"error", err.Error(),
		)
	}
}

// markAborted moves a session to aborted from the given status, logging instead of failing.
func markAborted(
	ctx context.Context,
	sessions ports.SessionRepository,
	logger *slog.Logger,
	session entities.UploadSession,
	from entities.SessionStatus,
	now time.Time,
) {
	err := sessions.TransitionSession(context.WithoutCancel(ctx), ports.SessionTransition{
		SessionID: session.SessionID,
		From:      from,
		To:        entities.SessionStatusAborted,
		UpdatedAt: now,
	})
	if err != nil {
		logger.Error("upload session abort transition failed",
			"event", "upload_session_abort_transition_failed",
			"module", moduleName,
			"layer", "application",
			"session_id", session.SessionID,
			"from_status", string(from),
			"error", err.Error(),
		)
	}
}

// abortStorageUpload discards uploaded parts. Failures are logged and never returned.
func abortStorageUpload(
	ctx context.Context,
	storage ports.ObjectStorage,
	logger *slog.Logger,
	session entities.UploadSession,
) {
	if storage == nil || session.StorageUploadID == "" {
		return
	}
	if err := storage.AbortMultipartUpload(context.WithoutCancel(ctx), session.ObjectKey, session.StorageUploadID); err != nil {
		logger.Warn("storage multipart abort failed",
			"event", "upload_storage_abort_failed",
			"module", moduleName,
			"layer", "application",
			"session_id", session.SessionID,
			"object_key", session.ObjectKey,
			"error", err.Error(),
		)
	}
}

func resolveNow(clock ports.Clock) time.Time {
	if clock == nil {
		return time.Now().UTC()
	}
	return clock.Now().UTC()
}
