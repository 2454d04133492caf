package workers

import (
	"context"
	"log/slog"

	application "contentflow/contexts/content-studio/media-optimizer/application"
	"contentflow/contexts/content-studio/media-optimizer/application/commands"
	"contentflow/contexts/content-studio/media-optimizer/domain/entities"
)

// JobRunner is the detached entry point for optimization. Failures end here:
// they are logged and never change content status, retried or published.
type JobRunner struct {
	Optimize commands.OptimizeContentUseCase
	Logger   *slog.Logger
}

func (r JobRunner) Handle(ctx context.Context, job entities.OptimizationJob) {
	logger := application.ResolveLogger(r.Logger)
	if _, err := r.Optimize.Execute(ctx, job); err != nil {
		logger.Warn("content optimization skipped",
			"event", "content_optimization_failed",
			"module", "content-studio/media-optimizer",
			"layer", "worker",
			"content_id", job.ContentID,
			"object_key", job.ObjectKey,
			"error", err.Error(),
		)
	}
}
