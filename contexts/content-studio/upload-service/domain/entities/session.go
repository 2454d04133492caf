package entities

import (
	"sort"
	"strings"
	"time"
)

type SessionStatus string

const (
	SessionStatusOpen       SessionStatus = "open"
	SessionStatusCompleting SessionStatus = "completing"
	SessionStatusCompleted  SessionStatus = "completed"
	SessionStatusAborted    SessionStatus = "aborted"
)

func (s SessionStatus) IsTerminal() bool {
	return s == SessionStatusCompleted || s == SessionStatusAborted
}

func ParseSessionStatus(raw string) (SessionStatus, bool) {
	switch SessionStatus(strings.ToLower(strings.TrimSpace(raw))) {
	case SessionStatusOpen:
		return SessionStatusOpen, true
	case SessionStatusCompleting:
		return SessionStatusCompleting, true
	case SessionStatusCompleted:
		return SessionStatusCompleted, true
	case SessionStatusAborted:
		return SessionStatusAborted, true
	default:
		return "", false
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
	switch ContentKind(strings.ToLower(strings.TrimSpace(raw))) {
	case ContentKindVideo:
		return ContentKindVideo, true
	case ContentKindImage:
		return ContentKindImage, true
	case ContentKindText:
		return ContentKindText, true
	case ContentKindReel:
		return ContentKindReel, true
	default:
		return "", false
	}
}

// NeedsOptimization reports whether finished uploads of this kind get a playback rendition.
func (k ContentKind) NeedsOptimization() bool {
	return k == ContentKindVideo || k == ContentKindReel
}

const (
	MinPartNumber = 1
	MaxPartNumber = 10000
)

type Part struct {
	PartNumber int
	ETag       string
}

// SortParts returns a copy ordered by part number.
func SortParts(parts []Part) []Part {
	sorted := append([]Part(nil), parts...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].PartNumber < sorted[j].PartNumber
	})
	return sorted
}

type UploadSession struct {
	SessionID       string
	StorageUploadID string
	ObjectKey       string
	OwnerActorID    string
	TeamID          string
	ContentID       string
	Filename        string
	ContentType     string
	Kind            ContentKind
	Status          SessionStatus
	Parts           []Part
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

// UploadLock is keyed by actor; at most one exists per actor.
type UploadLock struct {
	OwnerActorID string
	SessionID    string
	AcquiredAt   time.Time
}
