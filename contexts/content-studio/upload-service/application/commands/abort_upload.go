package commands

import (
	"context"
	"log/slog"

	application "contentflow/contexts/content-studio/upload-service/application"
	"contentflow/contexts/content-studio/upload-service/domain/entities"
	domainerrors "contentflow/contexts/content-studio/upload-service/domain/errors"
	"contentflow/contexts/content-studio/upload-service/ports"
)

type AbortUploadCommand struct {
	SessionID string
	ActorID   string
}

type AbortUploadUseCase struct {
	Sessions ports.SessionRepository
	Storage  ports.ObjectStorage
	Clock    ports.Clock
	Logger   *slog.Logger
}

func (u AbortUploadUseCase) Execute(ctx context.Context, cmd AbortUploadCommand) (entities.UploadSession, error) {
	logger := application.ResolveLogger(u.Logger)
	session, err := loadOwnedSession(ctx, u.Sessions, cmd.SessionID, cmd.ActorID)
	if err != nil {
		return entities.UploadSession{}, err
	}
	if session.Status != entities.SessionStatusOpen {
		return entities.UploadSession{}, domainerrors.ErrSessionNotOpen
	}

	now := resolveNow(u.Clock)
	if err := u.Sessions.TransitionSession(ctx, ports.SessionTransition{
		SessionID: session.SessionID,
		From:      entities.SessionStatusOpen,
		To:        entities.SessionStatusAborted,
		UpdatedAt: now,
	}); err != nil {
		return entities.UploadSession{}, err
	}
	defer releaseLock(ctx, u.Sessions, logger, session)

	abortStorageUpload(ctx, u.Storage, logger, session)

	session.Status = entities.SessionStatusAborted
	session.UpdatedAt = now
	logger.Info("upload session aborted",
		"event", "upload_session_aborted",
		"module", moduleName,
		"layer", "application",
		"session_id", session.SessionID,
		"actor_id", session.OwnerActorID,
	)
	return session, nil
}
