package httpadapter

import (
	"context"
	"log/slog"
	"time"

	application "contentflow/contexts/content-studio/approval-service/application"
	"contentflow/contexts/content-studio/approval-service/application/commands"
	"contentflow/contexts/content-studio/approval-service/application/queries"
	"contentflow/contexts/content-studio/approval-service/domain/entities"
	domainerrors "contentflow/contexts/content-studio/approval-service/domain/errors"
	httptransport "contentflow/contexts/content-studio/approval-service/transport/http"
)

type Handler struct {
	Transitions commands.TransitionStatusUseCase
	GetContent  queries.GetContentUseCase
	ListContent queries.ListContentUseCase
	Scopes      queries.AuthorizeScopeUseCase
	Logger      *slog.Logger
}

// GetContentHandler godoc
// @Summary Get content
// @Description Returns one content object visible to the caller.
// @Tags approval
// @Produce json
// @Param X-User-Id header string true "Acting actor id"
// @Param content_id path string true "Content id"
// @Success 200 {object} httptransport.GetContentResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Router /v1/content/{content_id} [get]
func (h Handler) GetContentHandler(ctx context.Context, actorID string, contentID string) (httptransport.GetContentResponse, error) {
	content, err := h.GetContent.Execute(ctx, contentID, actorID)
	if err != nil {
		return httptransport.GetContentResponse{}, err
	}
	return httptransport.GetContentResponse{Item: mapContent(content)}, nil
}

// ListContentHandler godoc
// @Summary List content
// @Description Lists content in a team or personal scope. Defaults to the caller's personal scope.
// @Tags approval
// @Produce json
// @Param X-User-Id header string true "Acting actor id"
// @Param scope query string false "team:<id> or actor:<id>"
// @Param status query string false "Status filter"
// @Param limit query int false "Page size (max 100)"
// @Success 200 {object} httptransport.ListContentResponse
// @Failure 400 {object} httptransport.ErrorResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Router /v1/content [get]
func (h Handler) ListContentHandler(
	ctx context.Context,
	actorID string,
	scope string,
	status string,
	limit int,
) (httptransport.ListContentResponse, error) {
	items, err := h.ListContent.Execute(ctx, queries.ListContentQuery{
		ActorID: actorID,
		Scope:   scope,
		Status:  status,
		Limit:   limit,
	})
	if err != nil {
		return httptransport.ListContentResponse{}, err
	}
	resp := httptransport.ListContentResponse{Items: make([]httptransport.ContentDTO, 0, len(items))}
	for _, item := range items {
		resp.Items = append(resp.Items, mapContent(item))
	}
	return resp, nil
}

// MarkReadyHandler godoc
// @Summary Mark content ready
// @Description Moves processing content to pending review. Editor or above.
// @Tags approval
// @Produce json
// @Param X-User-Id header string true "Acting actor id"
// @Param content_id path string true "Content id"
// @Success 200 {object} httptransport.TransitionResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 412 {object} httptransport.ErrorResponse
// @Router /v1/content/{content_id}/mark-ready [post]
func (h Handler) MarkReadyHandler(ctx context.Context, actorID string, contentID string) (httptransport.TransitionResponse, error) {
	result, err := h.Transitions.MarkReady(ctx, contentID, actorID)
	return h.transitionResponse("mark_ready", result, err)
}

// RevertHandler godoc
// @Summary Revert content to processing
// @Description Moves pending content back to processing. Editor or above.
// @Tags approval
// @Produce json
// @Param X-User-Id header string true "Acting actor id"
// @Param content_id path string true "Content id"
// @Success 200 {object} httptransport.TransitionResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 412 {object} httptransport.ErrorResponse
// @Router /v1/content/{content_id}/revert [post]
func (h Handler) RevertHandler(ctx context.Context, actorID string, contentID string) (httptransport.TransitionResponse, error) {
	result, err := h.Transitions.RevertToProcessing(ctx, contentID, actorID)
	return h.transitionResponse("revert", result, err)
}

// RequestApprovalHandler godoc
// @Summary Request approval
// @Description Editors submit draft or processing content for review.
// @Tags approval
// @Produce json
// @Param X-User-Id header string true "Acting actor id"
// @Param content_id path string true "Content id"
// @Success 200 {object} httptransport.TransitionResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 412 {object} httptransport.ErrorResponse
// @Router /v1/content/{content_id}/request-approval [post]
func (h Handler) RequestApprovalHandler(ctx context.Context, actorID string, contentID string) (httptransport.TransitionResponse, error) {
	result, err := h.Transitions.RequestApproval(ctx, contentID, actorID)
	return h.transitionResponse("request_approval", result, err)
}

// ApproveHandler godoc
// @Summary Approve content
// @Description Manager or above. A future scheduled_for schedules the content, otherwise it publishes. hold parks it as approved.
// @Tags approval
// @Accept json
// @Produce json
// @Param X-User-Id header string true "Acting actor id"
// @Param content_id path string true "Content id"
// @Param request body httptransport.ApproveRequest false "Approve options"
// @Success 200 {object} httptransport.TransitionResponse
// @Failure 401 {object} httptransport.ErrorResponse
// @Failure 403 {object} httptransport.ErrorResponse
// @Failure 404 {object} httptransport.ErrorResponse
// @Failure 412 {object} httptransport.ErrorResponse
// @Router /v1/content/{content_id}/approve [post]
func (h Handler) ApproveHandler(
	ctx context.Context,
	actorID string,
	contentID string,
	req httptransport.ApproveRequest,
) (httptransport.TransitionResponse, error) {
	var scheduledFor *time.Time
	if req.ScheduledFor != "" {
		parsed, err := time.Parse(time.RFC3339, req.ScheduledFor)
		if err != nil {
			return httptransport.TransitionResponse{}, domainerrors.ErrInvalidScheduledFor
		}
		scheduledFor = &parsed
	}
	result, err := h.Transitions.Approve(ctx, contentID, actorID, scheduledFor, req.Hold)
	return h.transitionResponse("approve", result, err)
}

// AuthorizeScope reports whether the caller may observe a fan-out scope.
func (h Handler) AuthorizeScope(ctx context.Context, actorID string, scope string) error {
	_, _, err := h.Scopes.Execute(ctx, actorID, scope)
	return err
}

func (h Handler) transitionResponse(
	action string,
	result commands.TransitionStatusResult,
	err error,
) (httptransport.TransitionResponse, error) {
	if err != nil {
		application.ResolveLogger(h.Logger).Warn("content transition request failed",
			"event", "http_content_transition_failed",
			"module", "content-studio/approval-service",
			"layer", "transport",
			"action", action,
			"error", err.Error(),
		)
		return httptransport.TransitionResponse{}, err
	}
	return httptransport.TransitionResponse{
		ContentID:  result.Content.ContentID,
		FromStatus: string(result.From),
		ToStatus:   string(result.To),
		Item:       mapContent(result.Content),
	}, nil
}

func mapContent(content entities.ContentObject) httptransport.ContentDTO {
	dto := httptransport.ContentDTO{
		ContentID:     content.ContentID,
		OwnerActorID:  content.OwnerActorID,
		TeamID:        content.TeamID,
		Kind:          string(content.Kind),
		ObjectKey:     content.ObjectKey,
		DerivativeKey: content.DerivativeKey,
		ContentType:   content.ContentType,
		SizeBytes:     content.SizeBytes,
		Status:        string(content.Status),
		RequestedBy:   content.RequestedBy,
		ApprovedBy:    content.ApprovedBy,
		CreatedAt:     content.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt:     content.UpdatedAt.UTC().Format(time.RFC3339),
	}
	if content.ScheduledFor != nil {
		dto.ScheduledFor = content.ScheduledFor.UTC().Format(time.RFC3339)
	}
	return dto
}
