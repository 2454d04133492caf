package queries

import (
	"context"
	"strings"

	"contentflow/contexts/content-studio/upload-service/domain/entities"
	domainerrors "contentflow/contexts/content-studio/upload-service/domain/errors"
	"contentflow/contexts/content-studio/upload-service/ports"
)

// GetSessionUseCase lets a resuming client read back its session and recorded parts.
type GetSessionUseCase struct {
	Sessions ports.SessionRepository
}

func (u GetSessionUseCase) Execute(ctx context.Context, sessionID string, actorID string) (entities.UploadSession, error) {
	if strings.TrimSpace(actorID) == "" {
		return entities.UploadSession{}, domainerrors.ErrActorRequired
	}
	session, err := u.Sessions.GetSession(ctx, strings.TrimSpace(sessionID))
	if err != nil {
		return entities.UploadSession{}, err
	}
	if session.OwnerActorID != actorID {
		return entities.UploadSession{}, domainerrors.ErrNotSessionOwner
	}
	return session, nil
}

type ListSessionsQuery struct {
	OwnerActorID string
	Status       string
	Limit        int
}

// ListSessionsUseCase is the operator view used by the admin CLI.
type ListSessionsUseCase struct {
	Sessions ports.SessionRepository
}

func (u ListSessionsUseCase) Execute(ctx context.Context, query ListSessionsQuery) ([]entities.UploadSession, error) {
	filter := ports.SessionFilter{
		OwnerActorID: strings.TrimSpace(query.OwnerActorID),
		Limit:        query.Limit,
	}
	if strings.TrimSpace(query.Status) != "" {
		status, ok := entities.ParseSessionStatus(query.Status)
		if !ok {
			return nil, domainerrors.ErrInvalidSessionStatus
		}
		filter.Status = status
	}
	if filter.Limit <= 0 {
		filter.Limit = 50
	}
	if filter.Limit > 500 {
		filter.Limit = 500
	}
	return u.Sessions.ListSessions(ctx, filter)
}
