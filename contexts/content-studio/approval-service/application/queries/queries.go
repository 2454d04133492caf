package queries

import (
	"context"
	"strings"

	application "contentflow/contexts/content-studio/approval-service/application"
	"contentflow/contexts/content-studio/approval-service/domain/entities"
	domainerrors "contentflow/contexts/content-studio/approval-service/domain/errors"
	"contentflow/contexts/content-studio/approval-service/domain/services"
	"contentflow/contexts/content-studio/approval-service/ports"
	contractsv1 "contentflow/contracts/gen/events/v1"
)

type GetContentUseCase struct {
	Contents  ports.ContentRepository
	Directory ports.MembershipDirectory
}

// Execute returns content visible to the actor: personal content to its owner,
// team content to the owner and active members.
func (u GetContentUseCase) Execute(ctx context.Context, contentID string, actorID string) (entities.ContentObject, error) {
	if strings.TrimSpace(actorID) == "" {
		return entities.ContentObject{}, domainerrors.ErrActorRequired
	}
	content, err := u.Contents.GetContent(ctx, contentID)
	if err != nil {
		return entities.ContentObject{}, err
	}
	access, err := application.LoadTeamAccess(ctx, u.Directory, content.TeamID, actorID)
	if err != nil {
		return entities.ContentObject{}, err
	}
	if _, err := services.ResolveAuthority(content, actorID, access); err != nil {
		return entities.ContentObject{}, err
	}
	return content, nil
}

type ListContentQuery struct {
	ActorID string
	Scope   string
	Status  string
	Limit   int
}

type ListContentUseCase struct {
	Contents  ports.ContentRepository
	Directory ports.MembershipDirectory
}

func (u ListContentUseCase) Execute(ctx context.Context, query ListContentQuery) ([]entities.ContentObject, error) {
	scope := query.Scope
	if strings.TrimSpace(scope) == "" {
		scope = contractsv1.ActorScope(query.ActorID)
	}
	kind, id, err := AuthorizeScopeUseCase{Directory: u.Directory}.Execute(ctx, query.ActorID, scope)
	if err != nil {
		return nil, err
	}

	filter := ports.ContentFilter{Limit: query.Limit}
	if kind == "team" {
		filter.TeamID = id
	} else {
		filter.OwnerActorID = id
	}
	if strings.TrimSpace(query.Status) != "" {
		status, ok := entities.ParseStatus(query.Status)
		if !ok {
			return nil, domainerrors.ErrUnknownStatus
		}
		filter.Status = status
	}
	if filter.Limit <= 0 || filter.Limit > 100 {
		filter.Limit = 50
	}
	return u.Contents.ListContent(ctx, filter)
}

// AuthorizeScopeUseCase decides whether an actor may observe a fan-out scope
// or act inside a team.
type AuthorizeScopeUseCase struct {
	Directory ports.MembershipDirectory
}

func (u AuthorizeScopeUseCase) Execute(ctx context.Context, actorID string, scope string) (string, string, error) {
	if strings.TrimSpace(actorID) == "" {
		return "", "", domainerrors.ErrActorRequired
	}
	kind, id, ok := contractsv1.ParseScope(scope)
	if !ok {
		return "", "", domainerrors.ErrInvalidScope
	}
	if kind == "actor" {
		if id != actorID {
			return "", "", domainerrors.ErrScopeForbidden
		}
		return kind, id, nil
	}

	access, err := application.LoadTeamAccess(ctx, u.Directory, id, actorID)
	if err != nil {
		return "", "", err
	}
	if _, err := services.ResolveTeamRole(actorID, access); err != nil {
		return "", "", err
	}
	return kind, id, nil
}
