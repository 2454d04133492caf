package mediaoptimizer_test

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	mediaoptimizer "contentflow/contexts/content-studio/media-optimizer"
	"contentflow/contexts/content-studio/media-optimizer/domain/entities"
	domainerrors "contentflow/contexts/content-studio/media-optimizer/domain/errors"
	"contentflow/internal/platform/objectstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeTranscoder struct {
	mu    sync.Mutex
	calls int
	fail  error
}

func (f *fakeTranscoder) Transcode(_ context.Context, inputPath string, outputPath string) error {
	f.mu.Lock()
	f.calls++
	f.mu.Unlock()
	if f.fail != nil {
		return f.fail
	}
	raw, err := os.ReadFile(inputPath)
	if err != nil {
		return err
	}
	return os.WriteFile(outputPath, append([]byte("optimized:"), raw...), 0o600)
}

type recordedDerivative struct {
	ContentID string
	Key       string
}

type recordingRecorder struct {
	mu      sync.Mutex
	records []recordedDerivative
	fail    error
}

func (r *recordingRecorder) RecordDerivative(_ context.Context, contentID string, key string) error {
	if r.fail != nil {
		return r.fail
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.records = append(r.records, recordedDerivative{ContentID: contentID, Key: key})
	return nil
}

func scratchEntries(t *testing.T, dir string) []string {
	t.Helper()
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	names := make([]string, 0, len(entries))
	for _, entry := range entries {
		names = append(names, entry.Name())
	}
	return names
}

func newModule(t *testing.T, store objectstore.Store, transcoder *fakeTranscoder, recorder *recordingRecorder) (mediaoptimizer.Module, string) {
	t.Helper()
	scratch := t.TempDir()
	return mediaoptimizer.NewModule(mediaoptimizer.Dependencies{
		Objects:    store,
		Transcoder: transcoder,
		Recorder:   recorder,
		ScratchDir: scratch,
	}), scratch
}

func TestOptimizeWritesDerivativeNextToSource(t *testing.T) {
	ctx := context.Background()
	store := objectstore.NewMemoryStore()
	sourceKey := "teams/team-1/content/content-1/source.mov"
	require.NoError(t, store.Upload(ctx, sourceKey, "video/quicktime", strings.NewReader("frames"), 6))

	transcoder := &fakeTranscoder{}
	recorder := &recordingRecorder{}
	module, scratch := newModule(t, store, transcoder, recorder)

	key, err := module.Optimize.Execute(ctx, entities.OptimizationJob{
		ContentID:   "content-1",
		ObjectKey:   sourceKey,
		ContentType: "video/quicktime",
	})
	require.NoError(t, err)
	assert.Equal(t, "teams/team-1/content/content-1/optimized.mp4", key)

	var out bytes.Buffer
	_, err = store.Download(ctx, key, &out)
	require.NoError(t, err)
	assert.Equal(t, "optimized:frames", out.String())

	info, err := store.Head(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, entities.DerivativeContentType, info.ContentType)

	require.Len(t, recorder.records, 1)
	assert.Equal(t, recordedDerivative{ContentID: "content-1", Key: key}, recorder.records[0])
	assert.Empty(t, scratchEntries(t, scratch))
}

func TestOptimizeMissingSourceIsBestEffort(t *testing.T) {
	store := objectstore.NewMemoryStore()
	transcoder := &fakeTranscoder{}
	recorder := &recordingRecorder{}
	module, scratch := newModule(t, store, transcoder, recorder)

	_, err := module.Optimize.Execute(context.Background(), entities.OptimizationJob{
		ContentID: "content-2",
		ObjectKey: "actors/actor-1/content/content-2/source.mp4",
	})
	require.Error(t, err)
	assert.True(t, errors.Is(err, domainerrors.ErrBestEffortFailure))
	assert.True(t, errors.Is(err, domainerrors.ErrSourceUnavailable))
	assert.Zero(t, transcoder.calls)
	assert.Empty(t, recorder.records)
	assert.False(t, store.Exists("actors/actor-1/content/content-2/optimized.mp4"))
	assert.Empty(t, scratchEntries(t, scratch))
}

func TestOptimizeTranscodeFailureLeavesNoDerivative(t *testing.T) {
	ctx := context.Background()
	store := objectstore.NewMemoryStore()
	sourceKey := "actors/actor-1/content/content-3/source.mp4"
	require.NoError(t, store.Upload(ctx, sourceKey, "video/mp4", strings.NewReader("frames"), 6))

	transcoder := &fakeTranscoder{fail: errors.New("exit status 1")}
	recorder := &recordingRecorder{}
	module, scratch := newModule(t, store, transcoder, recorder)

	_, err := module.Optimize.Execute(ctx, entities.OptimizationJob{ContentID: "content-3", ObjectKey: sourceKey})
	require.ErrorIs(t, err, domainerrors.ErrTranscodeFailed)
	assert.False(t, store.Exists(entities.DerivativeKey(sourceKey)))
	assert.Empty(t, recorder.records)
	assert.Empty(t, scratchEntries(t, scratch))
}

func TestOptimizeRecorderFailureIsReported(t *testing.T) {
	ctx := context.Background()
	store := objectstore.NewMemoryStore()
	sourceKey := "teams/team-1/content/content-4/source.mp4"
	require.NoError(t, store.Upload(ctx, sourceKey, "video/mp4", strings.NewReader("frames"), 6))

	recorder := &recordingRecorder{fail: errors.New("content not found")}
	module, _ := newModule(t, store, &fakeTranscoder{}, recorder)

	_, err := module.Optimize.Execute(ctx, entities.OptimizationJob{ContentID: "content-4", ObjectKey: sourceKey})
	require.ErrorIs(t, err, domainerrors.ErrDerivativeNotRecorded)
}

func TestOptimizeRejectsIncompleteJob(t *testing.T) {
	module, _ := newModule(t, objectstore.NewMemoryStore(), &fakeTranscoder{}, &recordingRecorder{})

	_, err := module.Optimize.Execute(context.Background(), entities.OptimizationJob{ObjectKey: "teams/t/content/c/source.mp4"})
	require.ErrorIs(t, err, domainerrors.ErrInvalidJob)
}

func TestRunnerSwallowsFailures(t *testing.T) {
	recorder := &recordingRecorder{}
	module, scratch := newModule(t, objectstore.NewMemoryStore(), &fakeTranscoder{}, recorder)

	assert.NotPanics(t, func() {
		module.Runner.Handle(context.Background(), entities.OptimizationJob{
			ContentID: "content-5",
			ObjectKey: filepath.ToSlash("teams/team-1/content/content-5/source.mp4"),
		})
	})
	assert.Empty(t, recorder.records)
	assert.Empty(t, scratchEntries(t, scratch))
}
