package dispatchadapter

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"contentflow/contexts/content-studio/media-optimizer/domain/entities"
	domainerrors "contentflow/contexts/content-studio/media-optimizer/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingHandler struct {
	running  atomic.Int32
	peak     atomic.Int32
	finished atomic.Int32
	delay    time.Duration
	mu       sync.Mutex
	seen     []string
}

func (h *countingHandler) Handle(ctx context.Context, job entities.OptimizationJob) {
	current := h.running.Add(1)
	for {
		peak := h.peak.Load()
		if current <= peak || h.peak.CompareAndSwap(peak, current) {
			break
		}
	}
	select {
	case <-time.After(h.delay):
	case <-ctx.Done():
	}
	h.running.Add(-1)
	h.mu.Lock()
	h.seen = append(h.seen, job.ContentID)
	h.mu.Unlock()
	h.finished.Add(1)
}

func TestInProcessBoundsConcurrencyAndDrains(t *testing.T) {
	handler := &countingHandler{delay: 20 * time.Millisecond}
	dispatcher := NewInProcess(handler, 1, nil)

	for _, id := range []string{"c-1", "c-2", "c-3"} {
		require.NoError(t, dispatcher.Dispatch(context.Background(), entities.OptimizationJob{ContentID: id, ObjectKey: "k"}))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, dispatcher.Shutdown(ctx))

	assert.Equal(t, int32(3), handler.finished.Load())
	assert.Equal(t, int32(1), handler.peak.Load())
}

func TestInProcessJobsOutliveCallerContext(t *testing.T) {
	handler := &countingHandler{delay: 20 * time.Millisecond}
	dispatcher := NewInProcess(handler, 2, nil)

	requestCtx, cancelRequest := context.WithCancel(context.Background())
	require.NoError(t, dispatcher.Dispatch(requestCtx, entities.OptimizationJob{ContentID: "c-1", ObjectKey: "k"}))
	cancelRequest()

	require.NoError(t, dispatcher.Shutdown(context.Background()))
	assert.Equal(t, int32(1), handler.finished.Load())
}

func TestInProcessRejectsAfterShutdown(t *testing.T) {
	dispatcher := NewInProcess(&countingHandler{}, 1, nil)
	require.NoError(t, dispatcher.Shutdown(context.Background()))

	err := dispatcher.Dispatch(context.Background(), entities.OptimizationJob{ContentID: "c-1", ObjectKey: "k"})
	require.ErrorIs(t, err, domainerrors.ErrDispatcherClosed)
}

func TestInProcessShutdownTimeoutCancelsJobs(t *testing.T) {
	handler := &countingHandler{delay: time.Minute}
	dispatcher := NewInProcess(handler, 1, nil)
	require.NoError(t, dispatcher.Dispatch(context.Background(), entities.OptimizationJob{ContentID: "c-1", ObjectKey: "k"}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	err := dispatcher.Shutdown(ctx)
	require.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Equal(t, int32(1), handler.finished.Load())
}
