package commands

import (
	"context"
	"log/slog"
	"strings"
	"time"

	application "contentflow/contexts/content-studio/approval-service/application"
	"contentflow/contexts/content-studio/approval-service/domain/entities"
	domainerrors "contentflow/contexts/content-studio/approval-service/domain/errors"
	"contentflow/contexts/content-studio/approval-service/ports"
)

type RegisterContentCommand struct {
	ContentID    string
	OwnerActorID string
	TeamID       string
	Kind         string
	ObjectKey    string
	ContentType  string
	SizeBytes    int64
	CreatedAt    time.Time
}

// RegisterContentUseCase persists a freshly assembled upload as processing content.
type RegisterContentUseCase struct {
	Contents ports.ContentRepository
	Clock    ports.Clock
	Logger   *slog.Logger
}

func (u RegisterContentUseCase) Execute(ctx context.Context, cmd RegisterContentCommand) (entities.ContentObject, error) {
	logger := application.ResolveLogger(u.Logger)
	kind, ok := entities.ParseKind(cmd.Kind)
	if !ok ||
		strings.TrimSpace(cmd.ContentID) == "" ||
		strings.TrimSpace(cmd.OwnerActorID) == "" ||
		strings.TrimSpace(cmd.ObjectKey) == "" {
		return entities.ContentObject{}, domainerrors.ErrInvalidContent
	}

	createdAt := cmd.CreatedAt.UTC()
	if cmd.CreatedAt.IsZero() {
		createdAt = u.now()
	}
	content := entities.ContentObject{
		ContentID:    cmd.ContentID,
		OwnerActorID: cmd.OwnerActorID,
		TeamID:       strings.TrimSpace(cmd.TeamID),
		Kind:         kind,
		ObjectKey:    cmd.ObjectKey,
		ContentType:  cmd.ContentType,
		SizeBytes:    cmd.SizeBytes,
		Status:       entities.ContentStatusProcessing,
		CreatedAt:    createdAt,
		UpdatedAt:    createdAt,
	}
	if err := u.Contents.CreateContent(ctx, content); err != nil {
		logger.Error("content registration failed",
			"event", "content_register_failed",
			"module", "content-studio/approval-service",
			"layer", "application",
			"content_id", cmd.ContentID,
			"error", err.Error(),
		)
		return entities.ContentObject{}, err
	}

	logger.Info("content registered",
		"event", "content_registered",
		"module", "content-studio/approval-service",
		"layer", "application",
		"content_id", content.ContentID,
		"team_id", content.TeamID,
		"kind", string(content.Kind),
	)
	return content, nil
}

func (u RegisterContentUseCase) now() time.Time {
	if u.Clock == nil {
		return time.Now().UTC()
	}
	return u.Clock.Now().UTC()
}

// RecordDerivativeUseCase stores the optimized rendition key. It never touches status.
type RecordDerivativeUseCase struct {
	Contents ports.ContentRepository
	Clock    ports.Clock
	Logger   *slog.Logger
}

func (u RecordDerivativeUseCase) Execute(ctx context.Context, contentID string, derivativeKey string) error {
	logger := application.ResolveLogger(u.Logger)
	if strings.TrimSpace(contentID) == "" || strings.TrimSpace(derivativeKey) == "" {
		return domainerrors.ErrInvalidContent
	}
	now := time.Now().UTC()
	if u.Clock != nil {
		now = u.Clock.Now().UTC()
	}
	if err := u.Contents.SetDerivativeKey(ctx, contentID, derivativeKey, now); err != nil {
		return err
	}
	logger.Info("content derivative recorded",
		"event", "content_derivative_recorded",
		"module", "content-studio/approval-service",
		"layer", "application",
		"content_id", contentID,
		"derivative_key", derivativeKey,
	)
	return nil
}
