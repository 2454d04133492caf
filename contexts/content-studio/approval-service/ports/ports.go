package ports

import (
	"context"
	"time"

	"contentflow/contexts/content-studio/approval-service/domain/entities"
	contractsv1 "contentflow/contracts/gen/events/v1"
)

// ContentFilter selects content for listing. Exactly one of TeamID or
// OwnerActorID is set; OwnerActorID lists personal content only.
type ContentFilter struct {
	TeamID       string
	OwnerActorID string
	Status       entities.ContentStatus
	Limit        int
}

// StatusUpdate is a conditional status write: it applies only while the stored
// status still equals Expected.
type StatusUpdate struct {
	ContentID    string
	Expected     entities.ContentStatus
	Next         entities.ContentStatus
	RequestedBy  string
	ApprovedBy   string
	ScheduledFor *time.Time
	UpdatedAt    time.Time
}

// ContentRepository owns content_objects persistence.
type ContentRepository interface {
	CreateContent(ctx context.Context, content entities.ContentObject) error
	GetContent(ctx context.Context, contentID string) (entities.ContentObject, error)
	ListContent(ctx context.Context, filter ContentFilter) ([]entities.ContentObject, error)
	// UpdateStatus returns ErrStaleStatus when the stored status no longer matches Expected.
	UpdateStatus(ctx context.Context, update StatusUpdate) error
	SetDerivativeKey(ctx context.Context, contentID string, derivativeKey string, updatedAt time.Time) error
}

// MembershipDirectory is read-only access to teams owned elsewhere.
type MembershipDirectory interface {
	GetTeam(ctx context.Context, teamID string) (entities.Team, error)
	GetMembership(ctx context.Context, teamID string, actorID string) (entities.Membership, bool, error)
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

// EventEnvelope reuses the canonical cross-runtime envelope contract.
type EventEnvelope = contractsv1.Envelope

// EventPublisher hands envelopes to the notification fan-out.
type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}
