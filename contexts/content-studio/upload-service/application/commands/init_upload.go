package commands

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	application "contentflow/contexts/content-studio/upload-service/application"
	"contentflow/contexts/content-studio/upload-service/domain/entities"
	domainerrors "contentflow/contexts/content-studio/upload-service/domain/errors"
	"contentflow/contexts/content-studio/upload-service/domain/services"
	"contentflow/contexts/content-studio/upload-service/ports"
)

type InitUploadCommand struct {
	ActorID     string
	Filename    string
	ContentType string
	TeamID      string
	Kind        string
}

type InitUploadResult struct {
	Session entities.UploadSession
}

type InitUploadUseCase struct {
	Sessions ports.SessionRepository
	Storage  ports.ObjectStorage
	Teams    ports.TeamAccess
	Clock    ports.Clock
	IDGen    ports.IDGenerator
	Logger   *slog.Logger
}

func (u InitUploadUseCase) Execute(ctx context.Context, cmd InitUploadCommand) (InitUploadResult, error) {
	logger := application.ResolveLogger(u.Logger)
	actorID := strings.TrimSpace(cmd.ActorID)
	if actorID == "" {
		return InitUploadResult{}, domainerrors.ErrActorRequired
	}
	filename := strings.TrimSpace(cmd.Filename)
	if filename == "" {
		return InitUploadResult{}, domainerrors.ErrFilenameRequired
	}
	contentType, err := services.ValidateContentType(cmd.ContentType)
	if err != nil {
		return InitUploadResult{}, err
	}
	kind, err := services.ResolveKind(cmd.Kind, contentType)
	if err != nil {
		return InitUploadResult{}, err
	}

	teamID := strings.TrimSpace(cmd.TeamID)
	if teamID != "" {
		if err := u.authorizeTeam(ctx, teamID, actorID); err != nil {
			return InitUploadResult{}, err
		}
	}

	sessionID, err := u.IDGen.NewID(ctx)
	if err != nil {
		return InitUploadResult{}, err
	}
	contentID, err := u.IDGen.NewID(ctx)
	if err != nil {
		return InitUploadResult{}, err
	}

	now := resolveNow(u.Clock)
	session := entities.UploadSession{
		SessionID:    sessionID,
		ObjectKey:    services.BuildObjectKey(actorID, teamID, contentID, services.SourceExtension(filename, contentType)),
		OwnerActorID: actorID,
		TeamID:       teamID,
		ContentID:    contentID,
		Filename:     filename,
		ContentType:  contentType,
		Kind:         kind,
		Status:       entities.SessionStatusOpen,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
	lock := entities.UploadLock{
		OwnerActorID: actorID,
		SessionID:    sessionID,
		AcquiredAt:   now,
	}
	if err := u.Sessions.CreateSessionWithLock(ctx, session, lock); err != nil {
		logger.Warn("upload session not created",
			"event", "upload_session_create_rejected",
			"module", moduleName,
			"layer", "application",
			"actor_id", actorID,
			"error", err.Error(),
		)
		return InitUploadResult{}, err
	}

	storageUploadID, err := u.Storage.CreateMultipartUpload(ctx, session.ObjectKey, contentType)
	if err != nil {
		logger.Error("storage multipart upload start failed",
			"event", "upload_storage_init_failed",
			"module", moduleName,
			"layer", "application",
			"session_id", sessionID,
			"object_key", session.ObjectKey,
			"error", err.Error(),
		)
		markAborted(ctx, u.Sessions, logger, session, entities.SessionStatusOpen, resolveNow(u.Clock))
		releaseLock(ctx, u.Sessions, logger, session)
		return InitUploadResult{}, fmt.Errorf("%w: %v", domainerrors.ErrStorageInitFailed, err)
	}
	if err := u.Sessions.AttachStorageUpload(ctx, sessionID, storageUploadID, resolveNow(u.Clock)); err != nil {
		session.StorageUploadID = storageUploadID
		abortStorageUpload(ctx, u.Storage, logger, session)
		markAborted(ctx, u.Sessions, logger, session, entities.SessionStatusOpen, resolveNow(u.Clock))
		releaseLock(ctx, u.Sessions, logger, session)
		return InitUploadResult{}, err
	}
	session.StorageUploadID = storageUploadID

	logger.Info("upload session opened",
		"event", "upload_session_opened",
		"module", moduleName,
		"layer", "application",
		"session_id", sessionID,
		"content_id", contentID,
		"actor_id", actorID,
		"team_id", teamID,
		"kind", string(kind),
	)
	return InitUploadResult{Session: session}, nil
}

func (u InitUploadUseCase) authorizeTeam(ctx context.Context, teamID string, actorID string) error {
	if u.Teams == nil {
		return domainerrors.ErrTeamAccessDenied
	}
	allowed, err := u.Teams.CanUploadToTeam(ctx, teamID, actorID)
	if err != nil {
		return err
	}
	if !allowed {
		return domainerrors.ErrTeamAccessDenied
	}
	return nil
}
