package studio

import (
	"context"
	"errors"

	approvalcommands "contentflow/contexts/content-studio/approval-service/application/commands"
	approvalqueries "contentflow/contexts/content-studio/approval-service/application/queries"
	approvalerrors "contentflow/contexts/content-studio/approval-service/domain/errors"
	optimizerentities "contentflow/contexts/content-studio/media-optimizer/domain/entities"
	uploadports "contentflow/contexts/content-studio/upload-service/ports"
	contractsv1 "contentflow/contracts/gen/events/v1"
)

// contentRegistry lets the upload flow create content owned by the approval workflow.
type contentRegistry struct {
	register approvalcommands.RegisterContentUseCase
}

func (r contentRegistry) RegisterContent(ctx context.Context, record uploadports.ContentRecord) error {
	_, err := r.register.Execute(ctx, approvalcommands.RegisterContentCommand{
		ContentID:    record.ContentID,
		OwnerActorID: record.OwnerActorID,
		TeamID:       record.TeamID,
		Kind:         string(record.Kind),
		ObjectKey:    record.ObjectKey,
		ContentType:  record.ContentType,
		SizeBytes:    record.SizeBytes,
		CreatedAt:    record.CreatedAt,
	})
	return err
}

// teamAccess answers upload permission from the approval service's membership rules.
type teamAccess struct {
	scopes approvalqueries.AuthorizeScopeUseCase
}

func (a teamAccess) CanUploadToTeam(ctx context.Context, teamID string, actorID string) (bool, error) {
	_, _, err := a.scopes.Execute(ctx, actorID, contractsv1.TeamScope(teamID))
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, approvalerrors.ErrAuthorizationDenied),
		errors.Is(err, approvalerrors.ErrInvalidInput):
		return false, nil
	default:
		return false, err
	}
}

type derivativeRecorder struct {
	derivatives approvalcommands.RecordDerivativeUseCase
}

func (r derivativeRecorder) RecordDerivative(ctx context.Context, contentID string, derivativeKey string) error {
	return r.derivatives.Execute(ctx, contentID, derivativeKey)
}

// JobDispatcher is implemented by the in-process pool and the SQS producer.
type JobDispatcher interface {
	Dispatch(ctx context.Context, job optimizerentities.OptimizationJob) error
}

type optimizationDispatcher struct {
	dispatcher JobDispatcher
}

func (d optimizationDispatcher) Dispatch(ctx context.Context, job uploadports.OptimizationJob) error {
	return d.dispatcher.Dispatch(ctx, optimizerentities.OptimizationJob{
		ContentID:   job.ContentID,
		ObjectKey:   job.ObjectKey,
		ContentType: job.ContentType,
	})
}

// discardDispatcher is used when a process never runs optimization itself.
type discardDispatcher struct{}

func (discardDispatcher) Dispatch(context.Context, uploadports.OptimizationJob) error {
	return nil
}
