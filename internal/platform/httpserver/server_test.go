package httpserver

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"contentflow/contexts/content-studio/approval-service/domain/entities"
	uploadhttp "contentflow/contexts/content-studio/upload-service/transport/http"
	"contentflow/internal/app/studio"
	"contentflow/internal/platform/messaging"
	"contentflow/internal/platform/objectstore"
)

type testEnv struct {
	server  *Server
	hub     *messaging.Hub
	objects *objectstore.MemoryStore
}

type fakeReadiness map[string]string

func (f fakeReadiness) Failures() map[string]string {
	return f
}

func newTestEnv(t *testing.T, readiness Readiness) testEnv {
	t.Helper()
	objects := objectstore.NewMemoryStore()
	hub := messaging.NewHub(8, nil)
	s := studio.Build(studio.Dependencies{
		Objects:    objects,
		Publisher:  hub,
		ScratchDir: t.TempDir(),
	})
	s.Approval.Store.SeedTeam(entities.Team{TeamID: "team-1", OwnerActorID: "owner-1"},
		entities.Membership{ActorID: "editor-1", Role: entities.RoleEditor, Status: entities.MembershipStatusActive},
		entities.Membership{ActorID: "manager-1", Role: entities.RoleManager, Status: entities.MembershipStatusActive},
	)
	return testEnv{
		server:  New(s.Uploads, s.Approval, hub, readiness, nil, ""),
		hub:     hub,
		objects: objects,
	}
}

func newTestServer(t *testing.T) *Server {
	t.Helper()
	return newTestEnv(t, nil).server
}

func (e testEnv) do(t *testing.T, method string, target string, userID string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body == nil {
		reader = bytes.NewReader(nil)
	} else {
		raw, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(raw)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if userID != "" {
		req.Header.Set("X-User-Id", userID)
	}
	rr := httptest.NewRecorder()
	e.server.mux.ServeHTTP(rr, req)
	return rr
}

func decodeBody(t *testing.T, rr *httptest.ResponseRecorder, target any) {
	t.Helper()
	if err := json.Unmarshal(rr.Body.Bytes(), target); err != nil {
		t.Fatalf("decode response: %v body=%s", err, rr.Body.String())
	}
}

// uploadIDFromURL reads the multipart upload id the memory store embeds in signed URLs.
func uploadIDFromURL(t *testing.T, raw string) string {
	t.Helper()
	parsed, err := url.Parse(raw)
	if err != nil {
		t.Fatalf("parse signed url: %v", err)
	}
	id := parsed.Query().Get("uploadId")
	if id == "" {
		t.Fatalf("signed url %q has no uploadId", raw)
	}
	return id
}

// uploadContent drives a one-part upload through the API and returns the content id.
func (e testEnv) uploadContent(t *testing.T, actorID string, teamID string) string {
	t.Helper()
	created := e.do(t, http.MethodPost, "/v1/uploads", actorID, uploadhttp.InitUploadRequest{
		Filename: "clip.mp4", ContentType: "video/mp4", TeamID: teamID,
	})
	if created.Code != http.StatusCreated {
		t.Fatalf("init upload: got %d body=%s", created.Code, created.Body.String())
	}
	var init uploadhttp.InitUploadResponse
	decodeBody(t, created, &init)

	signed := e.do(t, http.MethodPost, "/v1/uploads/"+init.SessionID+"/parts/1/url", actorID, nil)
	var sign uploadhttp.SignPartResponse
	decodeBody(t, signed, &sign)
	etag, err := e.objects.UploadPart(uploadIDFromURL(t, sign.URL), 1, []byte("clip"))
	if err != nil {
		t.Fatalf("upload part: %v", err)
	}

	completed := e.do(t, http.MethodPost, "/v1/uploads/"+init.SessionID+"/complete", actorID, uploadhttp.CompleteUploadRequest{
		Parts: []uploadhttp.PartDTO{{PartNumber: 1, ETag: etag}},
	})
	if completed.Code != http.StatusCreated {
		t.Fatalf("complete upload: got %d body=%s", completed.Code, completed.Body.String())
	}
	var done uploadhttp.CompleteUploadResponse
	decodeBody(t, completed, &done)
	return done.ContentID
}

func TestHealthzReportsReady(t *testing.T) {
	server := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	rr := httptest.NewRecorder()
	server.mux.ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestHealthzReportsFailingDependencies(t *testing.T) {
	env := newTestEnv(t, fakeReadiness{"postgres": "connection refused"})

	rr := env.do(t, http.MethodGet, "/healthz", "", nil)
	if rr.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d body=%s", rr.Code, rr.Body.String())
	}
	var resp healthResponse
	decodeBody(t, rr, &resp)
	if resp.Failures["postgres"] != "connection refused" {
		t.Fatalf("expected postgres failure in body, got %+v", resp)
	}
}

func TestHandlerNamesSpansByRoutePattern(t *testing.T) {
	server := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)

	rr := httptest.NewRecorder()
	server.Handler().ServeHTTP(rr, req)
	if rr.Code != http.StatusOK {
		t.Fatalf("expected traced handler to serve 200, got %d", rr.Code)
	}
}
