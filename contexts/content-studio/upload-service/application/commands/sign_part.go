package commands

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	application "contentflow/contexts/content-studio/upload-service/application"
	"contentflow/contexts/content-studio/upload-service/domain/entities"
	domainerrors "contentflow/contexts/content-studio/upload-service/domain/errors"
	"contentflow/contexts/content-studio/upload-service/domain/services"
	"contentflow/contexts/content-studio/upload-service/ports"
)

const defaultPartURLTTL = 15 * time.Minute

type SignPartCommand struct {
	SessionID  string
	ActorID    string
	PartNumber int
}

type SignPartResult struct {
	SessionID  string
	PartNumber int
	URL        string
	ExpiresAt  time.Time
}

// SignPartUseCase issues a time-boxed URL the client uses to PUT one part directly to storage.
type SignPartUseCase struct {
	Sessions ports.SessionRepository
	Storage  ports.ObjectStorage
	Clock    ports.Clock
	TTL      time.Duration
	Logger   *slog.Logger
}

func (u SignPartUseCase) Execute(ctx context.Context, cmd SignPartCommand) (SignPartResult, error) {
	logger := application.ResolveLogger(u.Logger)
	session, err := loadOwnedSession(ctx, u.Sessions, cmd.SessionID, cmd.ActorID)
	if err != nil {
		return SignPartResult{}, err
	}
	if session.Status != entities.SessionStatusOpen || session.StorageUploadID == "" {
		return SignPartResult{}, domainerrors.ErrSessionNotOpen
	}
	if err := services.ValidatePartNumber(cmd.PartNumber); err != nil {
		return SignPartResult{}, err
	}

	ttl := u.TTL
	if ttl <= 0 {
		ttl = defaultPartURLTTL
	}
	url, err := u.Storage.PresignUploadPart(ctx, session.ObjectKey, session.StorageUploadID, cmd.PartNumber, ttl)
	if err != nil {
		logger.Error("part url signing failed",
			"event", "upload_part_sign_failed",
			"module", moduleName,
			"layer", "application",
			"session_id", session.SessionID,
			"part_number", cmd.PartNumber,
			"error", err.Error(),
		)
		return SignPartResult{}, fmt.Errorf("%w: %v", domainerrors.ErrStorageSignFailed, err)
	}
	return SignPartResult{
		SessionID:  session.SessionID,
		PartNumber: cmd.PartNumber,
		URL:        url,
		ExpiresAt:  resolveNow(u.Clock).Add(ttl),
	}, nil
}
