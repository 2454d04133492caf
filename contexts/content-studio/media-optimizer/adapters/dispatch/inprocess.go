// Package dispatchadapter runs optimization jobs on detached goroutines inside the API process.
package dispatchadapter

import (
	"context"
	"log/slog"
	"sync"

	"contentflow/contexts/content-studio/media-optimizer/domain/entities"
	domainerrors "contentflow/contexts/content-studio/media-optimizer/domain/errors"

	"golang.org/x/sync/semaphore"
)

type JobHandler interface {
	Handle(ctx context.Context, job entities.OptimizationJob)
}

// InProcess owns its root context, so jobs outlive the request that queued them.
// Concurrency is bounded; excess jobs wait for a slot.
type InProcess struct {
	handler JobHandler
	slots   *semaphore.Weighted
	logger  *slog.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu     sync.Mutex
	closed bool
}

func NewInProcess(handler JobHandler, concurrency int, logger *slog.Logger) *InProcess {
	if concurrency <= 0 {
		concurrency = 2
	}
	if logger == nil {
		logger = slog.Default()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &InProcess{
		handler: handler,
		slots:   semaphore.NewWeighted(int64(concurrency)),
		logger:  logger,
		ctx:     ctx,
		cancel:  cancel,
	}
}

// Dispatch returns immediately. The caller's context only scopes the hand-off.
func (d *InProcess) Dispatch(_ context.Context, job entities.OptimizationJob) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return domainerrors.ErrDispatcherClosed
	}
	d.wg.Add(1)
	go d.run(job)
	return nil
}

func (d *InProcess) run(job entities.OptimizationJob) {
	defer d.wg.Done()
	if err := d.slots.Acquire(d.ctx, 1); err != nil {
		d.logger.Warn("optimization job dropped on shutdown",
			"event", "optimizer_job_dropped",
			"module", "content-studio/media-optimizer",
			"layer", "adapter",
			"content_id", job.ContentID,
			"error", err.Error(),
		)
		return
	}
	defer d.slots.Release(1)
	d.handler.Handle(d.ctx, job)
}

// Shutdown stops accepting jobs and waits for running ones. When ctx expires
// first, in-flight jobs are cancelled.
func (d *InProcess) Shutdown(ctx context.Context) error {
	d.mu.Lock()
	d.closed = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		d.cancel()
		return nil
	case <-ctx.Done():
		d.cancel()
		<-done
		return ctx.Err()
	}
}
