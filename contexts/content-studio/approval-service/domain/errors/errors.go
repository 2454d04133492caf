package errors

import (
	"errors"
	"fmt"
)

// Categories. Every specific error below wraps exactly one of these so callers
// can branch on either the violation or its category with errors.Is.
var (
	ErrAuthenticationRequired = errors.New("authentication required")
	ErrAuthorizationDenied    = errors.New("authorization denied")
	ErrNotFound               = errors.New("not found")
	ErrPreconditionFailed     = errors.New("precondition failed")
	ErrInvalidInput           = errors.New("invalid input")
)

var (
	ErrActorRequired = fmt.Errorf("%w: actor id is required", ErrAuthenticationRequired)

	ErrContentNotFound = fmt.Errorf("%w: content not found", ErrNotFound)
	ErrTeamNotFound    = fmt.Errorf("%w: team not found", ErrNotFound)
	ErrContentExists   = fmt.Errorf("%w: content already exists", ErrPreconditionFailed)

	ErrNotContentOwner         = fmt.Errorf("%w: personal content can only be changed by its owner", ErrAuthorizationDenied)
	ErrNotTeamMember           = fmt.Errorf("%w: actor is not a member of the team", ErrAuthorizationDenied)
	ErrMembershipPaused        = fmt.Errorf("%w: team membership is paused", ErrAuthorizationDenied)
	ErrInsufficientRole        = fmt.Errorf("%w: role does not permit this action", ErrAuthorizationDenied)
	ErrEditorOnlyAction        = fmt.Errorf("%w: only editors may request approval", ErrAuthorizationDenied)
	ErrInvalidStatusTransition = fmt.Errorf("%w: status transition not allowed", ErrAuthorizationDenied)
	ErrScopeForbidden          = fmt.Errorf("%w: scope is not visible to actor", ErrAuthorizationDenied)

	ErrStaleStatus = fmt.Errorf("%w: content status changed concurrently", ErrPreconditionFailed)

	ErrUnknownAction  = fmt.Errorf("%w: unknown action", ErrInvalidInput)
	ErrUnknownStatus  = fmt.Errorf("%w: unknown status", ErrInvalidInput)
	ErrInvalidScope   = fmt.Errorf("%w: scope must be team:<id> or actor:<id>", ErrInvalidInput)
	ErrInvalidContent = fmt.Errorf("%w: invalid content record", ErrInvalidInput)

	ErrInvalidScheduledFor = fmt.Errorf("%w: scheduled_for must be RFC3339", ErrInvalidInput)
)
