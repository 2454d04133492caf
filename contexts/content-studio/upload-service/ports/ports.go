package ports

import (
	"context"
	"time"

	"contentflow/contexts/content-studio/upload-service/domain/entities"
	contractsv1 "contentflow/contracts/gen/events/v1"
)

// SessionTransition is a compare-and-set on session status. Parts are written
// with the new status when non-nil.
type SessionTransition struct {
	SessionID string
	From      entities.SessionStatus
	To        entities.SessionStatus
	Parts     []entities.Part
	UpdatedAt time.Time
}

type SessionFilter struct {
	OwnerActorID string
	Status       entities.SessionStatus
	Limit        int
}

type SessionRepository interface {
	// CreateSessionWithLock inserts the session and the actor's lock atomically.
	// It returns ErrUploadInProgress when the actor already holds a lock.
	CreateSessionWithLock(ctx context.Context, session entities.UploadSession, lock entities.UploadLock) error
	GetSession(ctx context.Context, sessionID string) (entities.UploadSession, error)
	AttachStorageUpload(ctx context.Context, sessionID string, storageUploadID string, updatedAt time.Time) error
	// TransitionSession returns ErrSessionNotOpen when the stored status is not From.
	TransitionSession(ctx context.Context, transition SessionTransition) error
	// ReleaseLock is idempotent and only removes the lock held for sessionID.
	ReleaseLock(ctx context.Context, ownerActorID string, sessionID string) error
	ListSessions(ctx context.Context, filter SessionFilter) ([]entities.UploadSession, error)
	ListStaleSessions(ctx context.Context, olderThan time.Time, limit int) ([]entities.UploadSession, error)
}

type CompletedPart struct {
	PartNumber int
	ETag       string
}

type ObjectStorage interface {
	CreateMultipartUpload(ctx context.Context, key string, contentType string) (string, error)
	PresignUploadPart(ctx context.Context, key string, uploadID string, partNumber int, ttl time.Duration) (string, error)
	CompleteMultipartUpload(ctx context.Context, key string, uploadID string, parts []CompletedPart) error
	AbortMultipartUpload(ctx context.Context, key string, uploadID string) error
	ObjectSize(ctx context.Context, key string) (int64, error)
	DeleteObject(ctx context.Context, key string) error
}

// TeamAccess answers whether an actor may upload into a team: team owner or active member.
type TeamAccess interface {
	CanUploadToTeam(ctx context.Context, teamID string, actorID string) (bool, error)
}

type ContentRecord struct {
	ContentID    string
	OwnerActorID string
	TeamID       string
	Kind         entities.ContentKind
	ObjectKey    string
	ContentType  string
	SizeBytes    int64
	CreatedAt    time.Time
}

// ContentRegistry persists finished uploads as content objects owned by the approval workflow.
type ContentRegistry interface {
	RegisterContent(ctx context.Context, record ContentRecord) error
}

type OptimizationJob struct {
	ContentID   string
	ObjectKey   string
	ContentType string
}

// OptimizationDispatcher hands a job to a detached worker. It must not block on the job itself.
type OptimizationDispatcher interface {
	Dispatch(ctx context.Context, job OptimizationJob) error
}

type Clock interface {
	Now() time.Time
}

type IDGenerator interface {
	NewID(ctx context.Context) (string, error)
}

type EventEnvelope = contractsv1.Envelope

type EventPublisher interface {
	Publish(ctx context.Context, topic string, event EventEnvelope) error
}
