package services

import (
	"strings"
	"time"

	"contentflow/contexts/content-studio/approval-service/domain/entities"
	domainerrors "contentflow/contexts/content-studio/approval-service/domain/errors"
)

type Action string

const (
	ActionMarkReady       Action = "mark_ready"
	ActionRevert          Action = "revert"
	ActionRequestApproval Action = "request_approval"
	ActionApprove         Action = "approve"
)

func ParseAction(raw string) (Action, bool) {
	value := strings.ToLower(strings.TrimSpace(raw))
	value = strings.ReplaceAll(value, "-", "_")
	switch action := Action(value); action {
	case ActionMarkReady, ActionRevert, ActionRequestApproval, ActionApprove:
		return action, true
	default:
		return "", false
	}
}

type TransitionRequest struct {
	Action    Action
	ActorID   string
	Authority Authority
	Now       time.Time
	// ScheduledFor, when set on approve, replaces the stored publish time.
	ScheduledFor *time.Time
	// Hold parks an approval in approved instead of scheduling or publishing it.
	Hold bool
}

// Transition is the planned write. From is the status the write is conditioned on.
type Transition struct {
	From         entities.ContentStatus
	To           entities.ContentStatus
	RequestedBy  string
	ApprovedBy   string
	ScheduledFor *time.Time
}

// PlanTransition validates one action against the current content and the
// actor's authority. Role gates run before status checks.
func PlanTransition(content entities.ContentObject, req TransitionRequest) (Transition, error) {
	from, ok := entities.ParseStatus(string(content.Status))
	if !ok {
		return Transition{}, domainerrors.ErrUnknownStatus
	}
	plan := Transition{
		From:         from,
		RequestedBy:  content.RequestedBy,
		ApprovedBy:   content.ApprovedBy,
		ScheduledFor: content.ScheduledFor,
	}

	switch req.Action {
	case ActionMarkReady:
		if err := requireRole(req.Authority, entities.RoleEditor); err != nil {
			return Transition{}, err
		}
		if from != entities.ContentStatusProcessing {
			return Transition{}, domainerrors.ErrInvalidStatusTransition
		}
		plan.To = entities.ContentStatusPending
		plan.RequestedBy = ""
		plan.ApprovedBy = ""

	case ActionRevert:
		if err := requireRole(req.Authority, entities.RoleEditor); err != nil {
			return Transition{}, err
		}
		if from != entities.ContentStatusPending {
			return Transition{}, domainerrors.ErrInvalidStatusTransition
		}
		plan.To = entities.ContentStatusProcessing
		plan.RequestedBy = ""
		plan.ApprovedBy = ""

	case ActionRequestApproval:
		if !req.Authority.Personal && req.Authority.Role != entities.RoleEditor {
			return Transition{}, domainerrors.ErrEditorOnlyAction
		}
		if from != entities.ContentStatusDraft && from != entities.ContentStatusProcessing {
			return Transition{}, domainerrors.ErrInvalidStatusTransition
		}
		plan.To = entities.ContentStatusPending
		plan.RequestedBy = req.ActorID
		plan.ApprovedBy = ""

	case ActionApprove:
		if err := requireRole(req.Authority, entities.RoleManager); err != nil {
			return Transition{}, err
		}
		if from != entities.ContentStatusPending {
			return Transition{}, domainerrors.ErrInvalidStatusTransition
		}
		if req.ScheduledFor != nil {
			plan.ScheduledFor = req.ScheduledFor
		}
		switch {
		case req.Hold:
			plan.To = entities.ContentStatusApproved
		case plan.ScheduledFor != nil && plan.ScheduledFor.After(req.Now):
			plan.To = entities.ContentStatusScheduled
		default:
			plan.To = entities.ContentStatusPublished
		}
		plan.ApprovedBy = req.ActorID

	default:
		return Transition{}, domainerrors.ErrUnknownAction
	}
	return plan, nil
}

// Apply returns content with the transition written onto it.
func Apply(content entities.ContentObject, plan Transition, now time.Time) entities.ContentObject {
	content.Status = plan.To
	content.RequestedBy = plan.RequestedBy
	content.ApprovedBy = plan.ApprovedBy
	content.ScheduledFor = plan.ScheduledFor
	content.UpdatedAt = now
	return content
}

func requireRole(authority Authority, min entities.Role) error {
	if authority.Personal {
		return nil
	}
	if !authority.Role.AtLeast(min) {
		return domainerrors.ErrInsufficientRole
	}
	return nil
}
