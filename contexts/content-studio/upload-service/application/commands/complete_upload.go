package commands

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	application "contentflow/contexts/content-studio/upload-service/application"
	"contentflow/contexts/content-studio/upload-service/domain/entities"
	domainerrors "contentflow/contexts/content-studio/upload-service/domain/errors"
	"contentflow/contexts/content-studio/upload-service/domain/services"
	"contentflow/contexts/content-studio/upload-service/ports"
	contractsv1 "contentflow/contracts/gen/events/v1"
)

type CompleteUploadCommand struct {
	SessionID string
	ActorID   string
	TeamID    string
	Parts     []entities.Part
}

type CompleteUploadResult struct {
	SessionID string
	Content   ports.ContentRecord
}

// CompleteUploadUseCase assembles the uploaded parts into the final object and
// registers it as processing content.
type CompleteUploadUseCase struct {
	Sessions   ports.SessionRepository
	Storage    ports.ObjectStorage
	Registry   ports.ContentRegistry
	Dispatcher ports.OptimizationDispatcher
	Publisher  ports.EventPublisher
	Clock      ports.Clock
	IDGen      ports.IDGenerator
	Topic      string
	Logger     *slog.Logger
}

func (u CompleteUploadUseCase) Execute(ctx context.Context, cmd CompleteUploadCommand) (CompleteUploadResult, error) {
	logger := application.ResolveLogger(u.Logger)
	session, err := loadOwnedSession(ctx, u.Sessions, cmd.SessionID, cmd.ActorID)
	if err != nil {
		return CompleteUploadResult{}, err
	}
	if session.Status != entities.SessionStatusOpen {
		return CompleteUploadResult{}, domainerrors.ErrSessionNotOpen
	}
	parts, err := services.PrepareParts(cmd.Parts)
	if err != nil {
		return CompleteUploadResult{}, err
	}
	teamID, err := services.ResolveCompletionTeam(session, cmd.TeamID)
	if err != nil {
		return CompleteUploadResult{}, err
	}

	// Claim the session; a concurrent completion loses here with ErrSessionNotOpen.
	if err := u.Sessions.TransitionSession(ctx, ports.SessionTransition{
		SessionID: session.SessionID,
		From:      entities.SessionStatusOpen,
		To:        entities.SessionStatusCompleting,
		Parts:     parts,
		UpdatedAt: resolveNow(u.Clock),
	}); err != nil {
		return CompleteUploadResult{}, err
	}
	session.Status = entities.SessionStatusCompleting
	session.Parts = parts
	defer releaseLock(ctx, u.Sessions, logger, session)

	completed := make([]ports.CompletedPart, 0, len(parts))
	for _, part := range parts {
		completed = append(completed, ports.CompletedPart{PartNumber: part.PartNumber, ETag: part.ETag})
	}
	if err := u.Storage.CompleteMultipartUpload(ctx, session.ObjectKey, session.StorageUploadID, completed); err != nil {
		logger.Error("storage multipart completion failed",
			"event", "upload_storage_finalize_failed",
			"module", moduleName,
			"layer", "application",
			"session_id", session.SessionID,
			"object_key", session.ObjectKey,
			"part_count", len(parts),
			"error", err.Error(),
		)
		abortStorageUpload(ctx, u.Storage, logger, session)
		markAborted(ctx, u.Sessions, logger, session, entities.SessionStatusCompleting, resolveNow(u.Clock))
		return CompleteUploadResult{}, fmt.Errorf("%w: %v", domainerrors.ErrStorageFinalizeFailed, err)
	}

	// The object is assembled; a client disconnect from here on must not undo it.
	finalCtx := context.WithoutCancel(ctx)

	sizeBytes, err := u.Storage.ObjectSize(finalCtx, session.ObjectKey)
	if err != nil {
		logger.Warn("assembled object size unavailable",
			"event", "upload_object_size_failed",
			"module", moduleName,
			"layer", "application",
			"session_id", session.SessionID,
			"object_key", session.ObjectKey,
			"error", err.Error(),
		)
		sizeBytes = 0
	}

	record := ports.ContentRecord{
		ContentID:    session.ContentID,
		OwnerActorID: session.OwnerActorID,
		TeamID:       teamID,
		Kind:         session.Kind,
		ObjectKey:    session.ObjectKey,
		ContentType:  session.ContentType,
		SizeBytes:    sizeBytes,
		CreatedAt:    resolveNow(u.Clock),
	}
	if err := u.Registry.RegisterContent(finalCtx, record); err != nil {
		logger.Error("content registration failed after assembly",
			"event", "upload_content_register_failed",
			"module", moduleName,
			"layer", "application",
			"session_id", session.SessionID,
			"content_id", record.ContentID,
			"error", err.Error(),
		)
		if deleteErr := u.Storage.DeleteObject(finalCtx, session.ObjectKey); deleteErr != nil {
			logger.Warn("assembled object cleanup failed",
				"event", "upload_object_cleanup_failed",
				"module", moduleName,
				"layer", "application",
				"object_key", session.ObjectKey,
				"error", deleteErr.Error(),
			)
		}
		markAborted(finalCtx, u.Sessions, logger, session, entities.SessionStatusCompleting, resolveNow(u.Clock))
		return CompleteUploadResult{}, err
	}

	if err := u.Sessions.TransitionSession(finalCtx, ports.SessionTransition{
		SessionID: session.SessionID,
		From:      entities.SessionStatusCompleting,
		To:        entities.SessionStatusCompleted,
		UpdatedAt: resolveNow(u.Clock),
	}); err != nil {
		logger.Error("upload session completion not recorded",
			"event", "upload_session_complete_transition_failed",
			"module", moduleName,
			"layer", "application",
			"session_id", session.SessionID,
			"error", err.Error(),
		)
	}

	u.dispatchOptimization(finalCtx, logger, record)
	u.publishCreated(finalCtx, logger, record)

	logger.Info("upload completed",
		"event", "upload_completed",
		"module", moduleName,
		"layer", "application",
		"session_id", session.SessionID,
		"content_id", record.ContentID,
		"team_id", record.TeamID,
		"size_bytes", record.SizeBytes,
		"part_count", len(parts),
	)
	return CompleteUploadResult{SessionID: session.SessionID, Content: record}, nil
}

func (u CompleteUploadUseCase) dispatchOptimization(ctx context.Context, logger *slog.Logger, record ports.ContentRecord) {
	if u.Dispatcher == nil || !record.Kind.NeedsOptimization() {
		return
	}
	err := u.Dispatcher.Dispatch(ctx, ports.OptimizationJob{
		ContentID:   record.ContentID,
		ObjectKey:   record.ObjectKey,
		ContentType: record.ContentType,
	})
	if err != nil {
		logger.Warn("optimization dispatch failed",
			"event", "upload_optimization_dispatch_failed",
			"module", moduleName,
			"layer", "application",
			"content_id", record.ContentID,
			"error", err.Error(),
		)
	}
}

func (u CompleteUploadUseCase) publishCreated(ctx context.Context, logger *slog.Logger, record ports.ContentRecord) {
	if u.Publisher == nil {
		return
	}
	scope := contractsv1.ContentScope(record.TeamID, record.OwnerActorID)
	envelope, err := u.buildEnvelope(ctx, scope, contractsv1.ContentCreated{
		ContentID:    record.ContentID,
		OwnerActorID: record.OwnerActorID,
		TeamID:       record.TeamID,
		Kind:         string(record.Kind),
		ObjectKey:    record.ObjectKey,
		Status:       "processing",
		CreatedAt:    record.CreatedAt,
	})
	if err == nil {
		topic := u.Topic
		if topic == "" {
			topic = contentCreatedTopic
		}
		err = u.Publisher.Publish(ctx, topic, envelope)
	}
	if err != nil {
		logger.Warn("content created event not published",
			"event", "upload_content_created_publish_failed",
			"module", moduleName,
			"layer", "application",
			"content_id", record.ContentID,
			"scope", scope,
			"error", err.Error(),
		)
	}
}

func (u CompleteUploadUseCase) buildEnvelope(ctx context.Context, scope string, payload contractsv1.ContentCreated) (ports.EventEnvelope, error) {
	data, err := json.Marshal(payload)
	if err != nil {
		return ports.EventEnvelope{}, err
	}
	eventID := ""
	if u.IDGen != nil {
		eventID, err = u.IDGen.NewID(ctx)
		if err != nil {
			return ports.EventEnvelope{}, err
		}
	}
	return ports.EventEnvelope{
		EventID:          eventID,
		EventType:        contractsv1.EventTypeContentCreated,
		OccurredAt:       payload.CreatedAt.UTC(),
		SourceService:    sourceService,
		SchemaVersion:    1,
		PartitionKeyPath: "scope",
		PartitionKey:     scope,
		Data:             data,
	}, nil
}
