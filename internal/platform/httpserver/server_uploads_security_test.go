package httpserver

import (
	"net/http"
	"testing"

	approvalhttp "contentflow/contexts/content-studio/approval-service/transport/http"
	uploadhttp "contentflow/contexts/content-studio/upload-service/transport/http"
)

func TestInitUploadRequiresUserID(t *testing.T) {
	env := newTestEnv(t, nil)

	rr := env.do(t, http.MethodPost, "/v1/uploads", "", uploadhttp.InitUploadRequest{Filename: "a.mp4", ContentType: "video/mp4"})
	if rr.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestInitUploadRejectsMalformedJSON(t *testing.T) {
	env := newTestEnv(t, nil)

	rr := env.do(t, http.MethodPost, "/v1/uploads", "solo-1", "not-an-object")
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestSecondInitUploadConflicts(t *testing.T) {
	env := newTestEnv(t, nil)
	req := uploadhttp.InitUploadRequest{Filename: "a.mp4", ContentType: "video/mp4"}

	first := env.do(t, http.MethodPost, "/v1/uploads", "solo-1", req)
	if first.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", first.Code, first.Body.String())
	}
	second := env.do(t, http.MethodPost, "/v1/uploads", "solo-1", req)
	if second.Code != http.StatusConflict {
		t.Fatalf("expected 409, got %d body=%s", second.Code, second.Body.String())
	}
	var resp uploadhttp.ErrorResponse
	decodeBody(t, second, &resp)
	if resp.Code != "upload_in_progress" {
		t.Fatalf("expected upload_in_progress, got %q", resp.Code)
	}
}

func TestInitUploadToForeignTeamForbidden(t *testing.T) {
	env := newTestEnv(t, nil)

	rr := env.do(t, http.MethodPost, "/v1/uploads", "stranger", uploadhttp.InitUploadRequest{
		Filename: "a.mp4", ContentType: "video/mp4", TeamID: "team-1",
	})
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestSignPartRejectsNonNumericPart(t *testing.T) {
	env := newTestEnv(t, nil)

	rr := env.do(t, http.MethodPost, "/v1/uploads/session-1/parts/abc/url", "solo-1", nil)
	if rr.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestGetSessionOfAnotherActorForbidden(t *testing.T) {
	env := newTestEnv(t, nil)
	created := env.do(t, http.MethodPost, "/v1/uploads", "solo-1", uploadhttp.InitUploadRequest{Filename: "a.mp4", ContentType: "video/mp4"})
	var init uploadhttp.InitUploadResponse
	decodeBody(t, created, &init)

	rr := env.do(t, http.MethodGet, "/v1/uploads/"+init.SessionID, "someone-else", nil)
	if rr.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d body=%s", rr.Code, rr.Body.String())
	}
}

func TestAbortUploadFreesSlot(t *testing.T) {
	env := newTestEnv(t, nil)
	req := uploadhttp.InitUploadRequest{Filename: "a.mp4", ContentType: "video/mp4"}
	created := env.do(t, http.MethodPost, "/v1/uploads", "solo-1", req)
	var init uploadhttp.InitUploadResponse
	decodeBody(t, created, &init)

	aborted := env.do(t, http.MethodPost, "/v1/uploads/"+init.SessionID+"/abort", "solo-1", nil)
	if aborted.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", aborted.Code, aborted.Body.String())
	}
	again := env.do(t, http.MethodPost, "/v1/uploads", "solo-1", req)
	if again.Code != http.StatusCreated {
		t.Fatalf("expected slot to be free after abort, got %d body=%s", again.Code, again.Body.String())
	}
}

func TestCompleteUploadRegistersContent(t *testing.T) {
	env := newTestEnv(t, nil)

	created := env.do(t, http.MethodPost, "/v1/uploads", "editor-1", uploadhttp.InitUploadRequest{
		Filename: "launch.mp4", ContentType: "video/mp4", TeamID: "team-1",
	})
	if created.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", created.Code, created.Body.String())
	}
	var init uploadhttp.InitUploadResponse
	decodeBody(t, created, &init)

	signed := env.do(t, http.MethodPost, "/v1/uploads/"+init.SessionID+"/parts/1/url", "editor-1", nil)
	if signed.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", signed.Code, signed.Body.String())
	}
	var sign uploadhttp.SignPartResponse
	decodeBody(t, signed, &sign)
	etag, err := env.objects.UploadPart(uploadIDFromURL(t, sign.URL), 1, []byte("video-bytes"))
	if err != nil {
		t.Fatalf("upload part: %v", err)
	}

	completed := env.do(t, http.MethodPost, "/v1/uploads/"+init.SessionID+"/complete", "editor-1", uploadhttp.CompleteUploadRequest{
		Parts: []uploadhttp.PartDTO{{PartNumber: 1, ETag: etag}},
	})
	if completed.Code != http.StatusCreated {
		t.Fatalf("expected 201, got %d body=%s", completed.Code, completed.Body.String())
	}
	var done uploadhttp.CompleteUploadResponse
	decodeBody(t, completed, &done)
	if done.SizeBytes != int64(len("video-bytes")) {
		t.Fatalf("unexpected size %d", done.SizeBytes)
	}

	fetched := env.do(t, http.MethodGet, "/v1/content/"+done.ContentID, "manager-1", nil)
	if fetched.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", fetched.Code, fetched.Body.String())
	}
	var content approvalhttp.GetContentResponse
	decodeBody(t, fetched, &content)
	if content.Item.Status != "processing" {
		t.Fatalf("expected processing, got %q", content.Item.Status)
	}

	replay := env.do(t, http.MethodPost, "/v1/uploads/"+init.SessionID+"/complete", "editor-1", uploadhttp.CompleteUploadRequest{
		Parts: []uploadhttp.PartDTO{{PartNumber: 1, ETag: etag}},
	})
	if replay.Code != http.StatusPreconditionFailed {
		t.Fatalf("expected 412 on second complete, got %d body=%s", replay.Code, replay.Body.String())
	}
}
