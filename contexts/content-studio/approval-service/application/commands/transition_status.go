package commands

import (
	"context"
	"encoding/json"
	"log/slog"
	"strings"
	"time"

	application "contentflow/contexts/content-studio/approval-service/application"
	"contentflow/contexts/content-studio/approval-service/domain/entities"
	domainerrors "contentflow/contexts/content-studio/approval-service/domain/errors"
	"contentflow/contexts/content-studio/approval-service/domain/services"
	"contentflow/contexts/content-studio/approval-service/ports"
	contractsv1 "contentflow/contracts/gen/events/v1"
)

const (
	statusChangedTopic = "content.status_changed"
	sourceService      = "approval-service"
)

type TransitionStatusCommand struct {
	ContentID    string
	ActorID      string
	Action       services.Action
	Hold         bool
	ScheduledFor *time.Time
}

type TransitionStatusResult struct {
	Content entities.ContentObject
	From    entities.ContentStatus
	To      entities.ContentStatus
}

type TransitionStatusUseCase struct {
	Contents  ports.ContentRepository
	Directory ports.MembershipDirectory
	Publisher ports.EventPublisher
	Clock     ports.Clock
	IDGen     ports.IDGenerator
	Topic     string
	Logger    *slog.Logger
}

// Execute applies one approval action:
// 1) load content and the actor's team standing
// 2) plan the transition (role gate, then legal-move table)
// 3) conditional write on the status that was read
// 4) best-effort status-change event.
func (u TransitionStatusUseCase) Execute(ctx context.Context, cmd TransitionStatusCommand) (TransitionStatusResult, error) {
	logger := application.ResolveLogger(u.Logger)
	if strings.TrimSpace(cmd.ActorID) == "" {
		return TransitionStatusResult{}, domainerrors.ErrActorRequired
	}
	if strings.TrimSpace(cmd.ContentID) == "" {
		return TransitionStatusResult{}, domainerrors.ErrContentNotFound
	}

	content, err := u.Contents.GetContent(ctx, cmd.ContentID)
	if err != nil {
		return TransitionStatusResult{}, err
	}

	access, err := application.LoadTeamAccess(ctx, u.Directory, content.TeamID, cmd.ActorID)
	if err != nil {
		logger.Error("content transition failed loading membership",
			"event", "content_transition_membership_failed",
			"module", "content-studio/approval-service",
			"layer", "application",
			"content_id", cmd.ContentID,
			"actor_id", cmd.ActorID,
			"error", err.Error(),
		)
		return TransitionStatusResult{}, err
	}
	authority, err := services.ResolveAuthority(content, cmd.ActorID, access)
	if err != nil {
		logger.Warn("content transition denied",
			"event", "content_transition_denied",
			"module", "content-studio/approval-service",
			"layer", "application",
			"content_id", cmd.ContentID,
			"actor_id", cmd.ActorID,
			"action", string(cmd.Action),
			"error", err.Error(),
		)
		return TransitionStatusResult{}, err
	}

	now := u.now()
	plan, err := services.PlanTransition(content, services.TransitionRequest{
		Action:       cmd.Action,
		ActorID:      cmd.ActorID,
		Authority:    authority,
		Hold:         cmd.Hold,
		ScheduledFor: cmd.ScheduledFor,
		Now:          now,
	})
	if err != nil {
		logger.Warn("content transition rejected",
			"event", "content_transition_rejected",
			"module", "content-studio/approval-service",
			"layer", "application",
			"content_id", cmd.ContentID,
			"actor_id", cmd.ActorID,
			"action", string(cmd.Action),
			"role", string(authority.Role),
			"status", string(content.Status),
			"error", err.Error(),
		)
		return TransitionStatusResult{}, err
	}

	if err := u.Contents.UpdateStatus(ctx, ports.StatusUpdate{
		ContentID:    content.ContentID,
		Expected:     plan.From,
		Next:         plan.To,
		RequestedBy:  plan.RequestedBy,
		ApprovedBy:   plan.ApprovedBy,
		ScheduledFor: plan.ScheduledFor,
		UpdatedAt:    now,
	}); err != nil {
		logger.Warn("content transition write failed",
			"event", "content_transition_write_failed",
			"module", "content-studio/approval-service",
			"layer", "application",
			"content_id", cmd.ContentID,
			"actor_id", cmd.ActorID,
			"from_status", string(plan.From),
			"to_status", string(plan.To),
			"error", err.Error(),
		)
		return TransitionStatusResult{}, err
	}
	updated := services.Apply(content, plan, now)

	logger.Info("content status changed",
		"event", "content_status_changed",
		"module", "content-studio/approval-service",
		"layer", "application",
		"content_id", updated.ContentID,
		"actor_id", cmd.ActorID,
		"action", string(cmd.Action),
		"from_status", string(plan.From),
		"to_status", string(plan.To),
	)

	u.publish(ctx, logger, updated, plan, cmd.ActorID, now)
	return TransitionStatusResult{
		Content: updated,
		From:    plan.From,
		To:      plan.To,
	}, nil
}

func (u TransitionStatusUseCase) MarkReady(ctx context.Context, contentID string, actorID string) (TransitionStatusResult, error) {
	return u.Execute(ctx, TransitionStatusCommand{ContentID: contentID, ActorID: actorID, Action: services.ActionMarkReady})
}

func (u TransitionStatusUseCase) RevertToProcessing(ctx context.Context, contentID string, actorID string) (TransitionStatusResult, error) {
	return u.Execute(ctx, TransitionStatusCommand{ContentID: contentID, ActorID: actorID, Action: services.ActionRevert})
}

func (u TransitionStatusUseCase) RequestApproval(ctx context.Context, contentID string, actorID string) (TransitionStatusResult, error) {
	return u.Execute(ctx, TransitionStatusCommand{ContentID: contentID, ActorID: actorID, Action: services.ActionRequestApproval})
}

func (u TransitionStatusUseCase) Approve(
	ctx context.Context,
	contentID string,
	actorID string,
	scheduledFor *time.Time,
	hold bool,
) (TransitionStatusResult, error) {
	return u.Execute(ctx, TransitionStatusCommand{
		ContentID:    contentID,
		ActorID:      actorID,
		Action:       services.ActionApprove,
		Hold:         hold,
		ScheduledFor: scheduledFor,
	})
}

// publish never fails the transition: the write already committed.
func (u TransitionStatusUseCase) publish(
	ctx context.Context,
	logger *slog.Logger,
	content entities.ContentObject,
	plan services.Transition,
	actorID string,
	now time.Time,
) {
	if u.Publisher == nil {
		return
	}
	scope := contractsv1.ContentScope(content.TeamID, content.OwnerActorID)
	envelope, err := u.buildEnvelope(ctx, contractsv1.ContentStatusChanged{
		ContentID:     content.ContentID,
		Scope:         scope,
		FromStatus:    string(plan.From),
		ToStatus:      string(plan.To),
		ActingActorID: actorID,
		OccurredAt:    now,
	})
	if err == nil {
		err = u.Publisher.Publish(ctx, u.topic(), envelope)
	}
	if err != nil {
		logger.Warn("content status event not published",
			"event", "content_status_publish_failed",
			"module", "content-studio/approval-service",
			"layer", "application",
			"content_id", content.ContentID,
			"scope", scope,
			"error", err.Error(),
		)
	}
}

func (u TransitionStatusUseCase) buildEnvelope(ctx context.Context, payload contractsv1.ContentStatusChanged) (ports.EventEnvelope, error) {
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
		EventType:        contractsv1.EventTypeContentStatusChanged,
		OccurredAt:       payload.OccurredAt.UTC(),
		SourceService:    sourceService,
		SchemaVersion:    1,
		PartitionKeyPath: "scope",
		PartitionKey:     payload.Scope,
		Data:             data,
	}, nil
}

func (u TransitionStatusUseCase) topic() string {
	if u.Topic == "" {
		return statusChangedTopic
	}
	return u.Topic
}

func (u TransitionStatusUseCase) now() time.Time {
	if u.Clock == nil {
		return time.Now().UTC()
	}
	return u.Clock.Now().UTC()
}
