package bootstrap

import (
	"context"
	"errors"

	"contentflow/contexts/content-studio/approval-service/domain/entities"
	approvalports "contentflow/contexts/content-studio/approval-service/ports"
	uploadqueries "contentflow/contexts/content-studio/upload-service/application/queries"
	uploadworkers "contentflow/contexts/content-studio/upload-service/application/workers"
	"contentflow/internal/app/studio"
)

var ErrDirectoryUnavailable = errors.New("team directory requires the postgres or sqlite store")

// AdminApp backs the operator CLI. It reads stores directly and skips
// per-actor authorization.
type AdminApp struct {
	Sessions uploadqueries.ListSessionsUseCase
	Reaper   uploadworkers.SessionReaper
	Contents approvalports.ContentRepository
	Store    string

	teams    TeamDirectory
	closers  []func() error
	shutdown func(context.Context) error
}

func BuildAdmin(ctx context.Context) (*AdminApp, error) {
	b, err := openBase(ctx, "admin")
	if err != nil {
		return nil, err
	}
	s := studio.Build(b.studioDependencies())

	contents := b.stores.contents
	if contents == nil {
		contents = s.Approval.Store
	}
	return &AdminApp{
		Sessions: s.Uploads.Sessions,
		Reaper:   s.Uploads.Reaper,
		Contents: contents,
		Store:    describeStore(b.cfg),
		teams:    b.stores.teams,
		closers:  b.closers(),
		shutdown: b.shutdown,
	}, nil
}

func (a *AdminApp) AddTeam(ctx context.Context, team entities.Team) error {
	if a.teams == nil {
		return ErrDirectoryUnavailable
	}
	return a.teams.UpsertTeam(ctx, team)
}

func (a *AdminApp) AddMember(ctx context.Context, membership entities.Membership) error {
	if a.teams == nil {
		return ErrDirectoryUnavailable
	}
	return a.teams.UpsertMembership(ctx, membership)
}

func (a *AdminApp) Close() error {
	err := closeAll(a.closers)
	if a.shutdown != nil {
		if traceErr := a.shutdown(context.Background()); traceErr != nil && err == nil {
			err = traceErr
		}
	}
	return err
}
