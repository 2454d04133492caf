package entities

import (
	"strings"
	"time"
)

type ContentStatus string

const (
	ContentStatusDraft      ContentStatus = "draft"
	ContentStatusProcessing ContentStatus = "processing"
	ContentStatusPending    ContentStatus = "pending"
	ContentStatusApproved   ContentStatus = "approved"
	ContentStatusScheduled  ContentStatus = "scheduled"
	ContentStatusPublished  ContentStatus = "published"
)

// legacyStatusReady is accepted on input and stored rows, never produced.
const legacyStatusReady = "ready"

// ParseStatus normalizes a raw status, mapping the legacy "ready" alias to pending.
func ParseStatus(raw string) (ContentStatus, bool) {
	value := strings.ToLower(strings.TrimSpace(raw))
	if value == legacyStatusReady {
		return ContentStatusPending, true
	}
	switch status := ContentStatus(value); status {
	case ContentStatusDraft,
		ContentStatusProcessing,
		ContentStatusPending,
		ContentStatusApproved,
		ContentStatusScheduled,
		ContentStatusPublished:
		return status, true
	default:
		return "", false
	}
}

// IsApprovedState reports whether the status requires a recorded approver.
func (s ContentStatus) IsApprovedState() bool {
	switch s {
	case ContentStatusApproved, ContentStatusScheduled, ContentStatusPublished:
		return true
	default:
		return false
	}
}

type ContentKind string

const (
	ContentKindVideo ContentKind = "video"
	ContentKindImage ContentKind = "image"
	ContentKindText  ContentKind = "text"
	ContentKindReel  ContentKind = "reel"
)

func ParseKind(raw string) (ContentKind, bool) {
	switch kind := ContentKind(strings.ToLower(strings.TrimSpace(raw))); kind {
	case ContentKindVideo, ContentKindImage, ContentKindText, ContentKindReel:
		return kind, true
	default:
		return "", false
	}
}

type ContentObject struct {
	ContentID     string
	OwnerActorID  string
	TeamID        string
	Kind          ContentKind
	ObjectKey     string
	DerivativeKey string
	ContentType   string
	SizeBytes     int64
	Status        ContentStatus
	RequestedBy   string
	ApprovedBy    string
	ScheduledFor  *time.Time
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsPersonal reports whether the content belongs to its owner rather than a team.
func (c ContentObject) IsPersonal() bool {
	return strings.TrimSpace(c.TeamID) == ""
}
