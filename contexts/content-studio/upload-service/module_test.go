package uploadservice_test

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	uploadservice "contentflow/contexts/content-studio/upload-service"
	"contentflow/contexts/content-studio/upload-service/adapters/memory"
	storageadapter "contentflow/contexts/content-studio/upload-service/adapters/storage"
	"contentflow/contexts/content-studio/upload-service/application/commands"
	"contentflow/contexts/content-studio/upload-service/domain/entities"
	domainerrors "contentflow/contexts/content-studio/upload-service/domain/errors"
	"contentflow/contexts/content-studio/upload-service/ports"
	contractsv1 "contentflow/contracts/gen/events/v1"
	"contentflow/internal/platform/objectstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingStorage struct {
	storageadapter.Storage
	mu           sync.Mutex
	completed    [][]ports.CompletedPart
	aborts       int
	deleted      []string
	failCreate   error
	failComplete error
	failAbort    error
	onComplete   func()
}

func (s *recordingStorage) CreateMultipartUpload(ctx context.Context, key string, contentType string) (string, error) {
	s.mu.Lock()
	fail := s.failCreate
	s.mu.Unlock()
	if fail != nil {
		return "", fail
	}
	return s.Storage.CreateMultipartUpload(ctx, key, contentType)
}

func (s *recordingStorage) CompleteMultipartUpload(ctx context.Context, key string, uploadID string, parts []ports.CompletedPart) error {
	s.mu.Lock()
	s.completed = append(s.completed, append([]ports.CompletedPart(nil), parts...))
	fail := s.failComplete
	s.mu.Unlock()
	if fail != nil {
		return fail
	}
	if err := s.Storage.CompleteMultipartUpload(ctx, key, uploadID, parts); err != nil {
		return err
	}
	if s.onComplete != nil {
		s.onComplete()
	}
	return nil
}

func (s *recordingStorage) AbortMultipartUpload(ctx context.Context, key string, uploadID string) error {
	s.mu.Lock()
	s.aborts++
	fail := s.failAbort
	s.mu.Unlock()
	if fail != nil {
		return fail
	}
	return s.Storage.AbortMultipartUpload(ctx, key, uploadID)
}

func (s *recordingStorage) DeleteObject(ctx context.Context, key string) error {
	s.mu.Lock()
	s.deleted = append(s.deleted, key)
	s.mu.Unlock()
	return s.Storage.DeleteObject(ctx, key)
}

type recordingRegistry struct {
	mu      sync.Mutex
	records []ports.ContentRecord
	err     error
}

func (r *recordingRegistry) RegisterContent(ctx context.Context, record ports.ContentRecord) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return r.err
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	r.records = append(r.records, record)
	return nil
}

type recordingDispatcher struct {
	mu   sync.Mutex
	jobs []ports.OptimizationJob
}

func (d *recordingDispatcher) Dispatch(_ context.Context, job ports.OptimizationJob) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.jobs = append(d.jobs, job)
	return nil
}

type recordingPublisher struct {
	mu     sync.Mutex
	events []ports.EventEnvelope
}

func (p *recordingPublisher) Publish(_ context.Context, _ string, event ports.EventEnvelope) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, event)
	return nil
}

type teamAccess map[string]bool

func (t teamAccess) CanUploadToTeam(_ context.Context, teamID string, actorID string) (bool, error) {
	return t[teamID+"/"+actorID], nil
}

type manualClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *manualClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *manualClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

type fixture struct {
	module     uploadservice.Module
	objects    *objectstore.MemoryStore
	storage    *recordingStorage
	registry   *recordingRegistry
	dispatcher *recordingDispatcher
	publisher  *recordingPublisher
	clock      *manualClock
}

func newFixture() fixture {
	objects := objectstore.NewMemoryStore()
	f := fixture{
		objects:    objects,
		storage:    &recordingStorage{Storage: storageadapter.New(objects)},
		registry:   &recordingRegistry{},
		dispatcher: &recordingDispatcher{},
		publisher:  &recordingPublisher{},
		clock:      &manualClock{now: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)},
	}
	f.module = uploadservice.NewInMemoryModule(uploadservice.Dependencies{
		Storage:    f.storage,
		Teams:      teamAccess{"team-1/actor-1": true},
		Registry:   f.registry,
		Dispatcher: f.dispatcher,
		Publisher:  f.publisher,
		Clock:      f.clock,
	})
	return f
}

func (f fixture) init(t *testing.T, actorID string, teamID string) entities.UploadSession {
	t.Helper()
	result, err := f.module.Handler.InitUpload.Execute(context.Background(), commands.InitUploadCommand{
		ActorID:     actorID,
		Filename:    "clip.mp4",
		ContentType: "video/mp4",
		TeamID:      teamID,
	})
	require.NoError(t, err)
	return result.Session
}

func (f fixture) uploadParts(t *testing.T, session entities.UploadSession, chunks map[int]string) []entities.Part {
	t.Helper()
	parts := make([]entities.Part, 0, len(chunks))
	for number := len(chunks); number >= 1; number-- {
		etag, err := f.objects.UploadPart(session.StorageUploadID, number, []byte(chunks[number]))
		require.NoError(t, err)
		parts = append(parts, entities.Part{PartNumber: number, ETag: etag})
	}
	return parts
}

func TestSecondInitWhileOpenConflicts(t *testing.T) {
	f := newFixture()
	f.init(t, "actor-1", "")

	_, err := f.module.Handler.InitUpload.Execute(context.Background(), commands.InitUploadCommand{
		ActorID:     "actor-1",
		Filename:    "other.mov",
		ContentType: "video/quicktime",
	})
	assert.ErrorIs(t, err, domainerrors.ErrConflictInProgress)
	assert.ErrorIs(t, err, domainerrors.ErrUploadInProgress)

	other := f.init(t, "actor-2", "")
	assert.Equal(t, entities.SessionStatusOpen, other.Status)
}

func TestInitValidatesInput(t *testing.T) {
	f := newFixture()
	ctx := context.Background()

	_, err := f.module.Handler.InitUpload.Execute(ctx, commands.InitUploadCommand{Filename: "a.mp4", ContentType: "video/mp4"})
	assert.ErrorIs(t, err, domainerrors.ErrAuthenticationRequired)

	_, err = f.module.Handler.InitUpload.Execute(ctx, commands.InitUploadCommand{ActorID: "actor-1", Filename: "a.pdf", ContentType: "application/pdf"})
	assert.ErrorIs(t, err, domainerrors.ErrUnsupportedContentType)

	_, err = f.module.Handler.InitUpload.Execute(ctx, commands.InitUploadCommand{ActorID: "actor-9", Filename: "a.mp4", ContentType: "video/mp4", TeamID: "team-1"})
	assert.ErrorIs(t, err, domainerrors.ErrAuthorizationDenied)

	_, held := f.module.Store.LockFor("actor-9")
	assert.False(t, held, "rejected init must not take the lock")
}

func TestCompleteUploadSortsPartsAndRegistersContent(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	session := f.init(t, "actor-1", "team-1")
	assert.Equal(t, "teams/team-1/content/"+session.ContentID+"/source.mp4", session.ObjectKey)

	signed, err := f.module.Handler.SignPart.Execute(ctx, commands.SignPartCommand{SessionID: session.SessionID, ActorID: "actor-1", PartNumber: 1})
	require.NoError(t, err)
	assert.NotEmpty(t, signed.URL)
	assert.Equal(t, f.clock.Now().Add(15*time.Minute), signed.ExpiresAt)

	parts := f.uploadParts(t, session, map[int]string{1: "AAAA", 2: "BB"})
	require.Equal(t, 2, parts[0].PartNumber, "client submits parts out of order")

	result, err := f.module.Handler.CompleteUpload.Execute(ctx, commands.CompleteUploadCommand{
		SessionID: session.SessionID,
		ActorID:   "actor-1",
		Parts:     parts,
	})
	require.NoError(t, err)

	require.Len(t, f.storage.completed, 1)
	assert.Equal(t, 1, f.storage.completed[0][0].PartNumber)
	assert.Equal(t, 2, f.storage.completed[0][1].PartNumber)

	assert.Equal(t, "team-1", result.Content.TeamID)
	assert.Equal(t, int64(6), result.Content.SizeBytes)
	require.Len(t, f.registry.records, 1)
	assert.Equal(t, session.ContentID, f.registry.records[0].ContentID)

	stored, err := f.module.Store.GetSession(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, entities.SessionStatusCompleted, stored.Status)
	assert.Len(t, stored.Parts, 2)
	_, held := f.module.Store.LockFor("actor-1")
	assert.False(t, held)

	require.Len(t, f.dispatcher.jobs, 1)
	assert.Equal(t, session.ObjectKey, f.dispatcher.jobs[0].ObjectKey)

	require.Len(t, f.publisher.events, 1)
	event := f.publisher.events[0]
	assert.Equal(t, contractsv1.EventTypeContentCreated, event.EventType)
	assert.Equal(t, "team:team-1", event.PartitionKey)
	var payload contractsv1.ContentCreated
	require.NoError(t, json.Unmarshal(event.Data, &payload))
	assert.Equal(t, "processing", payload.Status)

	_, err = f.module.Handler.CompleteUpload.Execute(ctx, commands.CompleteUploadCommand{
		SessionID: session.SessionID,
		ActorID:   "actor-1",
		Parts:     parts,
	})
	assert.ErrorIs(t, err, domainerrors.ErrPreconditionFailed)
}

func TestCompleteReleasesLockWhenFinalizeFails(t *testing.T) {
	f := newFixture()
	f.storage.failComplete = errors.New("s3 unavailable")
	f.storage.failAbort = errors.New("abort also failed")
	ctx := context.Background()
	session := f.init(t, "actor-1", "")
	parts := f.uploadParts(t, session, map[int]string{1: "AAAA"})

	_, err := f.module.Handler.CompleteUpload.Execute(ctx, commands.CompleteUploadCommand{
		SessionID: session.SessionID,
		ActorID:   "actor-1",
		Parts:     parts,
	})
	assert.ErrorIs(t, err, domainerrors.ErrUpstreamFailure)
	assert.Equal(t, 1, f.storage.aborts)
	assert.Empty(t, f.registry.records)

	stored, err := f.module.Store.GetSession(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, entities.SessionStatusAborted, stored.Status)
	_, held := f.module.Store.LockFor("actor-1")
	assert.False(t, held)

	f.init(t, "actor-1", "")
}

func TestRegistryFailureLeavesNoOrphanObject(t *testing.T) {
	f := newFixture()
	f.registry.err = errors.New("database down")
	ctx := context.Background()
	session := f.init(t, "actor-1", "")
	parts := f.uploadParts(t, session, map[int]string{1: "AAAA"})

	_, err := f.module.Handler.CompleteUpload.Execute(ctx, commands.CompleteUploadCommand{
		SessionID: session.SessionID,
		ActorID:   "actor-1",
		Parts:     parts,
	})
	require.Error(t, err)
	assert.Equal(t, []string{session.ObjectKey}, f.storage.deleted)
	assert.False(t, f.objects.Exists(session.ObjectKey))
	assert.Empty(t, f.dispatcher.jobs)
	assert.Empty(t, f.publisher.events)

	stored, err := f.module.Store.GetSession(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, entities.SessionStatusAborted, stored.Status)
	_, held := f.module.Store.LockFor("actor-1")
	assert.False(t, held)
}

func TestCompleteRejectsTeamMismatchWithoutClaiming(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	session := f.init(t, "actor-1", "team-1")
	parts := f.uploadParts(t, session, map[int]string{1: "AAAA"})

	_, err := f.module.Handler.CompleteUpload.Execute(ctx, commands.CompleteUploadCommand{
		SessionID: session.SessionID,
		ActorID:   "actor-1",
		TeamID:    "team-2",
		Parts:     parts,
	})
	assert.ErrorIs(t, err, domainerrors.ErrTeamMismatch)

	stored, err := f.module.Store.GetSession(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, entities.SessionStatusOpen, stored.Status)
}

func TestSignPartGuards(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	session := f.init(t, "actor-1", "")

	_, err := f.module.Handler.SignPart.Execute(ctx, commands.SignPartCommand{SessionID: session.SessionID, ActorID: "actor-2", PartNumber: 1})
	assert.ErrorIs(t, err, domainerrors.ErrAuthorizationDenied)

	_, err = f.module.Handler.SignPart.Execute(ctx, commands.SignPartCommand{SessionID: session.SessionID, ActorID: "actor-1", PartNumber: 10001})
	assert.ErrorIs(t, err, domainerrors.ErrPartNumberOutOfRange)

	_, err = f.module.Handler.SignPart.Execute(ctx, commands.SignPartCommand{SessionID: "missing", ActorID: "actor-1", PartNumber: 1})
	assert.ErrorIs(t, err, domainerrors.ErrNotFound)

	_, err = f.module.Handler.AbortUpload.Execute(ctx, commands.AbortUploadCommand{SessionID: session.SessionID, ActorID: "actor-1"})
	require.NoError(t, err)
	_, err = f.module.Handler.SignPart.Execute(ctx, commands.SignPartCommand{SessionID: session.SessionID, ActorID: "actor-1", PartNumber: 1})
	assert.ErrorIs(t, err, domainerrors.ErrSessionNotOpen)
}

func TestAbortReleasesLockEvenWhenStorageAbortFails(t *testing.T) {
	f := newFixture()
	f.storage.failAbort = errors.New("s3 unavailable")
	ctx := context.Background()
	session := f.init(t, "actor-1", "")

	_, err := f.module.Handler.AbortUpload.Execute(ctx, commands.AbortUploadCommand{SessionID: session.SessionID, ActorID: "actor-2"})
	assert.ErrorIs(t, err, domainerrors.ErrNotSessionOwner)

	aborted, err := f.module.Handler.AbortUpload.Execute(ctx, commands.AbortUploadCommand{SessionID: session.SessionID, ActorID: "actor-1"})
	require.NoError(t, err)
	assert.Equal(t, entities.SessionStatusAborted, aborted.Status)
	assert.Equal(t, 1, f.storage.aborts)

	_, held := f.module.Store.LockFor("actor-1")
	assert.False(t, held)
}

func TestReaperAbortsStaleSessions(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	stale := f.init(t, "actor-1", "")

	f.clock.Advance(23 * time.Hour)
	fresh := f.init(t, "actor-2", "")

	f.clock.Advance(2 * time.Hour)
	reaped, err := f.module.Reaper.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, reaped)

	stored, err := f.module.Store.GetSession(ctx, stale.SessionID)
	require.NoError(t, err)
	assert.Equal(t, entities.SessionStatusAborted, stored.Status)
	_, held := f.module.Store.LockFor("actor-1")
	assert.False(t, held)

	stored, err = f.module.Store.GetSession(ctx, fresh.SessionID)
	require.NoError(t, err)
	assert.Equal(t, entities.SessionStatusOpen, stored.Status)
	assert.Equal(t, 1, f.objects.PendingUploads())
}

type failingAttach struct {
	*memory.Store
	err error
}

func (f failingAttach) AttachStorageUpload(context.Context, string, string, time.Time) error {
	return f.err
}

func TestInitStorageFailureAbortsSessionAndReleasesLock(t *testing.T) {
	f := newFixture()
	f.storage.failCreate = errors.New("s3 unavailable")
	ctx := context.Background()

	_, err := f.module.Handler.InitUpload.Execute(ctx, commands.InitUploadCommand{
		ActorID:     "actor-1",
		Filename:    "clip.mp4",
		ContentType: "video/mp4",
	})
	assert.ErrorIs(t, err, domainerrors.ErrUpstreamFailure)
	assert.ErrorIs(t, err, domainerrors.ErrStorageInitFailed)

	_, held := f.module.Store.LockFor("actor-1")
	assert.False(t, held)
	sessions, err := f.module.Store.ListSessions(ctx, ports.SessionFilter{OwnerActorID: "actor-1"})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, entities.SessionStatusAborted, sessions[0].Status)

	f.storage.failCreate = nil
	f.init(t, "actor-1", "")
}

func TestInitAttachFailureAbortsStorageUpload(t *testing.T) {
	objects := objectstore.NewMemoryStore()
	storage := &recordingStorage{Storage: storageadapter.New(objects)}
	store := memory.NewStore()
	module := uploadservice.NewModule(uploadservice.Dependencies{
		Sessions: failingAttach{Store: store, err: errors.New("database down")},
		Storage:  storage,
		Clock:    store,
		IDGen:    store,
	})
	ctx := context.Background()

	_, err := module.Handler.InitUpload.Execute(ctx, commands.InitUploadCommand{
		ActorID:     "actor-1",
		Filename:    "clip.mp4",
		ContentType: "video/mp4",
	})
	require.Error(t, err)
	assert.Equal(t, 1, storage.aborts)
	assert.Zero(t, objects.PendingUploads())

	_, held := store.LockFor("actor-1")
	assert.False(t, held)
	sessions, err := store.ListSessions(ctx, ports.SessionFilter{OwnerActorID: "actor-1"})
	require.NoError(t, err)
	require.Len(t, sessions, 1)
	assert.Equal(t, entities.SessionStatusAborted, sessions[0].Status)
}

func TestConcurrentCompletionsOnlyOneWins(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	session := f.init(t, "actor-1", "")
	parts := f.uploadParts(t, session, map[int]string{1: "AAAA", 2: "BB"})

	start := make(chan struct{})
	errs := make([]error, 2)
	var wg sync.WaitGroup
	for i := range errs {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			_, errs[i] = f.module.Handler.CompleteUpload.Execute(ctx, commands.CompleteUploadCommand{
				SessionID: session.SessionID,
				ActorID:   "actor-1",
				Parts:     parts,
			})
		}(i)
	}
	close(start)
	wg.Wait()

	var wins, losses int
	for _, err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, domainerrors.ErrSessionNotOpen):
			losses++
		default:
			t.Fatalf("unexpected completion error: %v", err)
		}
	}
	assert.Equal(t, 1, wins)
	assert.Equal(t, 1, losses)
	assert.Len(t, f.storage.completed, 1)
	assert.Len(t, f.registry.records, 1)
	assert.Len(t, f.dispatcher.jobs, 1)

	stored, err := f.module.Store.GetSession(ctx, session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, entities.SessionStatusCompleted, stored.Status)
	_, held := f.module.Store.LockFor("actor-1")
	assert.False(t, held)
}

func TestCompleteSurvivesClientDisconnectAfterAssembly(t *testing.T) {
	f := newFixture()
	session := f.init(t, "actor-1", "")
	parts := f.uploadParts(t, session, map[int]string{1: "AAAA"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.storage.onComplete = cancel

	result, err := f.module.Handler.CompleteUpload.Execute(ctx, commands.CompleteUploadCommand{
		SessionID: session.SessionID,
		ActorID:   "actor-1",
		Parts:     parts,
	})
	require.NoError(t, err)
	assert.Equal(t, int64(4), result.Content.SizeBytes)
	require.Len(t, f.registry.records, 1)
	assert.Empty(t, f.storage.deleted)
	assert.True(t, f.objects.Exists(session.ObjectKey))

	stored, err := f.module.Store.GetSession(context.Background(), session.SessionID)
	require.NoError(t, err)
	assert.Equal(t, entities.SessionStatusCompleted, stored.Status)
}

func TestSlashInActorIDDoesNotStrandTheUpload(t *testing.T) {
	f := newFixture()
	ctx := context.Background()
	session := f.init(t, "org/alice", "")
	assert.Equal(t, "actors/org%2Falice/content/"+session.ContentID+"/source.mp4", session.ObjectKey)

	parts := f.uploadParts(t, session, map[int]string{1: "AAAA"})
	result, err := f.module.Handler.CompleteUpload.Execute(ctx, commands.CompleteUploadCommand{
		SessionID: session.SessionID,
		ActorID:   "org/alice",
		Parts:     parts,
	})
	require.NoError(t, err)
	assert.Empty(t, result.Content.TeamID)
	assert.Equal(t, "actor:org/alice", f.publisher.events[0].PartitionKey)

	_, held := f.module.Store.LockFor("org/alice")
	assert.False(t, held)
	f.init(t, "org/alice", "")
}

func TestContentIDsAreUniqueAcrossStores(t *testing.T) {
	first := newFixture().init(t, "actor-1", "")
	second := newFixture().init(t, "actor-1", "")
	assert.NotEqual(t, first.ContentID, second.ContentID)
	assert.NotEqual(t, first.ObjectKey, second.ObjectKey)
}
