package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"contentflow/contexts/content-studio/upload-service/domain/entities"
	domainerrors "contentflow/contexts/content-studio/upload-service/domain/errors"
	"contentflow/contexts/content-studio/upload-service/ports"

	"github.com/google/uuid"
)

type Store struct {
	mu       sync.RWMutex
	sessions map[string]entities.UploadSession
	locks    map[string]entities.UploadLock
}

func NewStore() *Store {
	return &Store{
		sessions: make(map[string]entities.UploadSession),
		locks:    make(map[string]entities.UploadLock),
	}
}

func (s *Store) CreateSessionWithLock(_ context.Context, session entities.UploadSession, lock entities.UploadLock) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, held := s.locks[lock.OwnerActorID]; held {
		return domainerrors.ErrUploadInProgress
	}
	if _, exists := s.sessions[session.SessionID]; exists {
		return domainerrors.ErrUploadInProgress
	}
	s.sessions[session.SessionID] = cloneSession(session)
	s.locks[lock.OwnerActorID] = lock
	return nil
}

func (s *Store) GetSession(_ context.Context, sessionID string) (entities.UploadSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return entities.UploadSession{}, domainerrors.ErrSessionNotFound
	}
	return cloneSession(session), nil
}

func (s *Store) AttachStorageUpload(_ context.Context, sessionID string, storageUploadID string, updatedAt time.Time) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[sessionID]
	if !ok {
		return domainerrors.ErrSessionNotFound
	}
	session.StorageUploadID = storageUploadID
	session.UpdatedAt = updatedAt
	s.sessions[sessionID] = session
	return nil
}

func (s *Store) TransitionSession(_ context.Context, transition ports.SessionTransition) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	session, ok := s.sessions[transition.SessionID]
	if !ok {
		return domainerrors.ErrSessionNotFound
	}
	if session.Status != transition.From {
		return domainerrors.ErrSessionNotOpen
	}
	session.Status = transition.To
	if transition.Parts != nil {
		session.Parts = append([]entities.Part(nil), transition.Parts...)
	}
	session.UpdatedAt = transition.UpdatedAt
	s.sessions[transition.SessionID] = session
	return nil
}

func (s *Store) ReleaseLock(_ context.Context, ownerActorID string, sessionID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if lock, ok := s.locks[ownerActorID]; ok && lock.SessionID == sessionID {
		delete(s.locks, ownerActorID)
	}
	return nil
}

func (s *Store) ListSessions(_ context.Context, filter ports.SessionFilter) ([]entities.UploadSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.UploadSession, 0)
	for _, session := range s.sessions {
		if filter.OwnerActorID != "" && session.OwnerActorID != filter.OwnerActorID {
			continue
		}
		if filter.Status != "" && session.Status != filter.Status {
			continue
		}
		items = append(items, cloneSession(session))
	}
	sort.Slice(items, func(i, j int) bool {
		if items[i].CreatedAt.Equal(items[j].CreatedAt) {
			return items[i].SessionID < items[j].SessionID
		}
		return items[i].CreatedAt.After(items[j].CreatedAt)
	})
	if filter.Limit > 0 && len(items) > filter.Limit {
		items = items[:filter.Limit]
	}
	return items, nil
}

func (s *Store) ListStaleSessions(_ context.Context, olderThan time.Time, limit int) ([]entities.UploadSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	items := make([]entities.UploadSession, 0)
	for _, session := range s.sessions {
		if session.Status.IsTerminal() || !session.UpdatedAt.Before(olderThan) {
			continue
		}
		items = append(items, cloneSession(session))
	}
	sort.Slice(items, func(i, j int) bool {
		return items[i].UpdatedAt.Before(items[j].UpdatedAt)
	})
	if limit > 0 && len(items) > limit {
		items = items[:limit]
	}
	return items, nil
}

// LockFor reports the lock an actor currently holds.
func (s *Store) LockFor(actorID string) (entities.UploadLock, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	lock, ok := s.locks[actorID]
	return lock, ok
}

func (s *Store) Now() time.Time {
	return time.Now().UTC()
}

func (s *Store) NewID(_ context.Context) (string, error) {
	return uuid.NewString(), nil
}

func cloneSession(session entities.UploadSession) entities.UploadSession {
	session.Parts = append([]entities.Part(nil), session.Parts...)
	return session
}
