package httpadapter

import (
	"context"
	"log/slog"
	"time"

	application "contentflow/contexts/content-studio/upload-service/application"
	"contentflow/contexts/content-studio/upload-service/application/commands"
	"contentflow/contexts/content-studio/upload-service/application/queries"
	"contentflow/contexts/content-studio/upload-service/domain/entities"
	httptransport "contentflow/contexts/content-studio/upload-service/transport/http"
)

type Handler struct {
	InitUpload     commands.InitUploadUseCase
	SignPart       commands.SignPartUseCase
	CompleteUpload commands.CompleteUploadUseCase
	AbortUpload    commands.AbortUploadUseCase
	GetSession     queries.GetSessionUseCase
	Logger         *slog.Logger
}

// InitUploadHandler godoc
// @Summary Start an upload
// @Description Opens a resumable upload session. One open session per actor.
// @Tags uploads
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Acting actor id"
// @Param request body httptransport.InitUploadRequest true "Upload metadata"
// @Success 201 {object} httptransport.InitUploadResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 409 {object} httptransport.ErrorResponse
// @Failure 502 {object} httptransport.ErrorResponse
// @Router /v1/uploads [post]
func (h Handler) InitUploadHandler(
	ctx context.Context,
	actorID string,
	req httptransport.InitUploadRequest,
) (httptransport.InitUploadResponse, error) {
	result, err := h.InitUpload.Execute(ctx, commands.InitUploadCommand{
		ActorID:     actorID,
		Filename:    req.Filename,
		ContentType: req.ContentType,
		TeamID:      req.TeamID,
		Kind:        req.Kind,
	})
	if err != nil {
		return httptransport.InitUploadResponse{}, err
	}
	return httptransport.InitUploadResponse{
		SessionID: result.Session.SessionID,
		ContentID: result.Session.ContentID,
		ObjectKey: result.Session.ObjectKey,
		Kind:      string(result.Session.Kind),
		Status:    string(result.Session.Status),
	}, nil
}

// GetSessionHandler godoc
// @Summary Get an upload session
// @Description Returns session status and recorded parts so a client can resume.
// @Tags uploads
// @Produce json
// @Param X-User-Id header string true "Acting actor id"
// @Param session_id path string true "Session id"
// @Success 200 {object} httptransport.GetSessionResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /v1/uploads/{session_id} [get]
func (h Handler) GetSessionHandler(ctx context.Context, actorID string, sessionID string) (httptransport.GetSessionResponse, error) {
	session, err := h.GetSession.Execute(ctx, sessionID, actorID)
	if err != nil {
		return httptransport.GetSessionResponse{}, err
	}
	return httptransport.GetSessionResponse{Session: MapSession(session)}, nil
}

// SignPartHandler godoc
// @Summary Sign a part URL
// @Description Issues a time-limited URL for uploading one part directly to storage.
// @Tags uploads
// @Produce json
// @Param X-User-Id header string true "Acting actor id"
// @Param session_id path string true "Session id"
// @Param part_number path int true "Part number (1-10000)"
// @Success 200 {object} httptransport.SignPartResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 412 {object} httptransport.ErrorResponse
// @Router /v1/uploads/{session_id}/parts/{part_number}/url [post]
func (h Handler) SignPartHandler(
	ctx context.Context,
	actorID string,
	sessionID string,
	partNumber int,
) (httptransport.SignPartResponse, error) {
	result, err := h.SignPart.Execute(ctx, commands.SignPartCommand{
		SessionID:  sessionID,
		ActorID:    actorID,
		PartNumber: partNumber,
	})
	if err != nil {
		return httptransport.SignPartResponse{}, err
	}
	return httptransport.SignPartResponse{
		SessionID:  result.SessionID,
		PartNumber: result.PartNumber,
		URL:        result.URL,
		ExpiresAt:  result.ExpiresAt.UTC().Format(time.RFC3339),
	}, nil
}

// CompleteUploadHandler godoc
// @Summary Complete an upload
// @Description Assembles uploaded parts and registers the content for review.
// @Tags uploads
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Acting actor id"
// @Param session_id path string true "Session id"
// @Param request body httptransport.CompleteUploadRequest true "Uploaded parts"
// @Success 201 {object} httptransport.CompleteUploadResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 412 {object} httptransport.ErrorResponse
// @Failure 502 {object} httptransport.ErrorResponse
// @Router /v1/uploads/{session_id}/complete [post]
func (h Handler) CompleteUploadHandler(
	ctx context.Context,
	actorID string,
	sessionID string,
	req httptransport.CompleteUploadRequest,
) (httptransport.CompleteUploadResponse, error) {
	parts := make([]entities.Part, 0, len(req.Parts))
	for _, part := range req.Parts {
		parts = append(parts, entities.Part{PartNumber: part.PartNumber, ETag: part.ETag})
	}
	result, err := h.CompleteUpload.Execute(ctx, commands.CompleteUploadCommand{
		SessionID: sessionID,
		ActorID:   actorID,
		TeamID:    req.TeamID,
		Parts:     parts,
	})
	if err != nil {
		application.ResolveLogger(h.Logger).Warn("upload completion rejected",
			"event", "upload_complete_rejected",
			"module", "content-studio/upload-service",
			"layer", "transport",
			"session_id", sessionID,
			"actor_id", actorID,
			"error", err.Error(),
		)
		return httptransport.CompleteUploadResponse{}, err
	}
	return httptransport.CompleteUploadResponse{
		SessionID:   result.SessionID,
		ContentID:   result.Content.ContentID,
		ObjectKey:   result.Content.ObjectKey,
		TeamID:      result.Content.TeamID,
		Kind:        string(result.Content.Kind),
		ContentType: result.Content.ContentType,
		SizeBytes:   result.Content.SizeBytes,
		Status:      "processing",
	}, nil
}

// AbortUploadHandler godoc
// @Summary Abort an upload
// @Description Discards uploaded parts and frees the actor's upload slot.
// @Tags uploads
// @Produce json
// @Param X-User-Id header string true "Acting actor id"
// @Param session_id path string true "Session id"
// @Success 200 {object} httptransport.AbortUploadResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 412 {object} httptransport.ErrorResponse
// @Router /v1/uploads/{session_id}/abort [post]
func (h Handler) AbortUploadHandler(ctx context.Context, actorID string, sessionID string) (httptransport.AbortUploadResponse, error) {
	session, err := h.AbortUpload.Execute(ctx, commands.AbortUploadCommand{
		SessionID: sessionID,
		ActorID:   actorID,
	})
	if err != nil {
		return httptransport.AbortUploadResponse{}, err
	}
	return httptransport.AbortUploadResponse{
		SessionID: session.SessionID,
		Status:    string(session.Status),
	}, nil
}

func MapSession(session entities.UploadSession) httptransport.SessionDTO {
	parts := make([]httptransport.PartDTO, 0, len(session.Parts))
	for _, part := range session.Parts {
		parts = append(parts, httptransport.PartDTO{PartNumber: part.PartNumber, ETag: part.ETag})
	}
	return httptransport.SessionDTO{
		SessionID:    session.SessionID,
		ContentID:    session.ContentID,
		ObjectKey:    session.ObjectKey,
		OwnerActorID: session.OwnerActorID,
		TeamID:       session.TeamID,
		Filename:     session.Filename,
		ContentType:  session.ContentType,
		Kind:         string(session.Kind),
		Status:       string(session.Status),
		Parts:        parts,
		CreatedAt:    session.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:    session.UpdatedAt.UTC().Format(time.RFC3339),
	}
}
