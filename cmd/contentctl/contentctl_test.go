package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"
	"time"

	"contentflow/contexts/content-studio/approval-service/domain/entities"
	uploadentities "contentflow/contexts/content-studio/upload-service/domain/entities"
	"contentflow/internal/app/bootstrap"
)

func useMemoryDeployment(t *testing.T) {
	t.Helper()
	for key, value := range map[string]string{
		"CONTENTFLOW_CONFIG": "",
		"STORE_DRIVER":       "memory",
		"STORAGE_DRIVER":     "memory",
		"OPTIMIZER_DISPATCH": "inprocess",
		"REDIS_URL":          "",
		"TRACING_ENABLED":    "false",
		"LOG_LEVEL":          "error",
	} {
		t.Setenv(key, value)
	}
}

func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestSessionsListEmptyDeployment(t *testing.T) {
	useMemoryDeployment(t)

	out, err := execute(t, "sessions", "list")
	if err != nil {
		t.Fatalf("sessions list returned error: %v", err)
	}
	if !strings.Contains(out, "No upload sessions found") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestSessionsReapReportsCount(t *testing.T) {
	useMemoryDeployment(t)

	out, err := execute(t, "sessions", "reap", "--max-age", "1h")
	if err != nil {
		t.Fatalf("sessions reap returned error: %v", err)
	}
	if !strings.Contains(out, "Reaped 0 abandoned upload session(s)") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestContentListRejectsUnknownStatus(t *testing.T) {
	useMemoryDeployment(t)

	if _, err := execute(t, "content", "list", "--status", "lost"); err == nil {
		t.Fatal("expected unknown status error")
	}
}

func TestTeamsRequirePersistentStore(t *testing.T) {
	useMemoryDeployment(t)

	_, err := execute(t, "teams", "add", "team-1", "--owner", "owner-1")
	if !errors.Is(err, bootstrap.ErrDirectoryUnavailable) {
		t.Fatalf("expected ErrDirectoryUnavailable, got %v", err)
	}
}

func TestParseMembership(t *testing.T) {
	membership, err := parseMembership("team-1", "actor-1", "manager", "Paused")
	if err != nil {
		t.Fatalf("parseMembership returned error: %v", err)
	}
	if membership.Role != entities.RoleManager || membership.Status != entities.MembershipStatusPaused {
		t.Fatalf("unexpected membership %+v", membership)
	}
	if _, err := parseMembership("team-1", "actor-1", "intern", "active"); err == nil {
		t.Fatal("expected unknown role error")
	}
	if _, err := parseMembership("team-1", "actor-1", "editor", "banned"); err == nil {
		t.Fatal("expected unknown status error")
	}
}

func TestContentTableFormatsSizes(t *testing.T) {
	_, rows, _ := contentTable([]entities.ContentObject{{
		ContentID:    "content-1",
		OwnerActorID: "actor-1",
		Kind:         entities.ContentKindVideo,
		Status:       entities.ContentStatusPending,
		SizeBytes:    5 * 1000 * 1000,
		UpdatedAt:    time.Now().Add(-2 * time.Hour),
	}})
	if len(rows) != 1 {
		t.Fatalf("expected one row, got %d", len(rows))
	}
	if rows[0][2] != "-" {
		t.Fatalf("expected dash for personal content team, got %q", rows[0][2])
	}
	if rows[0][5] != "5.0 MB" {
		t.Fatalf("expected humanized size, got %q", rows[0][5])
	}
	if !strings.Contains(rows[0][6], "hours ago") {
		t.Fatalf("expected relative age, got %q", rows[0][6])
	}
}

func TestSessionTableCountsParts(t *testing.T) {
	_, rows, _ := sessionTable([]uploadentities.UploadSession{{
		SessionID:    "session-1",
		OwnerActorID: "actor-1",
		TeamID:       "team-1",
		Filename:     "clip.mp4",
		Status:       uploadentities.SessionStatusOpen,
		Parts:        []uploadentities.Part{{PartNumber: 1, ETag: "a"}, {PartNumber: 2, ETag: "b"}},
	}})
	if rows[0][6] != "2" {
		t.Fatalf("expected 2 parts, got %q", rows[0][6])
	}
	if rows[0][7] != "-" {
		t.Fatalf("expected dash for zero update time, got %q", rows[0][7])
	}
}

func TestRenderTableIncludesHeaders(t *testing.T) {
	out := renderTable([]string{"Field", "Value"}, [][]string{{"Kind", "video"}}, nil)
	if !strings.Contains(out, "FIELD") && !strings.Contains(out, "Field") {
		t.Fatalf("expected header in %q", out)
	}
	if !strings.Contains(out, "video") {
		t.Fatalf("expected row value in %q", out)
	}
}
