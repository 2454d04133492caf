package services

import (
	"errors"
	"testing"

	"contentflow/contexts/content-studio/upload-service/domain/entities"
	domainerrors "contentflow/contexts/content-studio/upload-service/domain/errors"
)

func TestValidateContentType(t *testing.T) {
	cases := []struct {
		raw  string
		want string
		ok   bool
	}{
		{raw: "video/mp4", want: "video/mp4", ok: true},
		{raw: " Video/QuickTime ", want: "video/quicktime", ok: true},
		{raw: "image/png; charset=binary", want: "image/png", ok: true},
		{raw: "application/pdf", ok: false},
		{raw: "", ok: false},
	}
	for _, tc := range cases {
		got, err := ValidateContentType(tc.raw)
		if tc.ok {
			if err != nil || got != tc.want {
				t.Fatalf("ValidateContentType(%q) = %q, %v", tc.raw, got, err)
			}
			continue
		}
		if !errors.Is(err, domainerrors.ErrUnsupportedContentType) {
			t.Fatalf("expected unsupported content type for %q, got %v", tc.raw, err)
		}
	}
}

func TestObjectKeyRoundTripKeepsTenancy(t *testing.T) {
	teamKey := BuildObjectKey("actor-1", "team-1", "c-1", ".mp4")
	if teamKey != "teams/team-1/content/c-1/source.mp4" {
		t.Fatalf("unexpected team key %q", teamKey)
	}
	parts, err := ParseObjectKey(teamKey)
	if err != nil || parts.TeamID != "team-1" || parts.ContentID != "c-1" {
		t.Fatalf("unexpected team parts %+v, %v", parts, err)
	}

	actorKey := BuildObjectKey("actor-1", "", "c-2", ".mov")
	parts, err = ParseObjectKey(actorKey)
	if err != nil || parts.ActorID != "actor-1" || parts.TeamID != "" {
		t.Fatalf("unexpected actor parts %+v, %v", parts, err)
	}

	if _, err := ParseObjectKey("uploads/c-3/source.mp4"); !errors.Is(err, domainerrors.ErrInvalidObjectKey) {
		t.Fatalf("expected invalid key, got %v", err)
	}
}

func TestObjectKeyEscapesSlashesInIDs(t *testing.T) {
	key := BuildObjectKey("org/alice", "", "c-1", ".mp4")
	if key != "actors/org%2Falice/content/c-1/source.mp4" {
		t.Fatalf("unexpected key %q", key)
	}
	parts, err := ParseObjectKey(key)
	if err != nil || parts.ActorID != "org/alice" || parts.ContentID != "c-1" {
		t.Fatalf("unexpected parts %+v, %v", parts, err)
	}

	teamKey := BuildObjectKey("actor-1", "ops/video", "c-2", ".mp4")
	parts, err = ParseObjectKey(teamKey)
	if err != nil || parts.TeamID != "ops/video" {
		t.Fatalf("unexpected team parts %+v, %v", parts, err)
	}
}

func TestSourceExtension(t *testing.T) {
	if got := SourceExtension("Holiday.MOV", "video/quicktime"); got != ".mov" {
		t.Fatalf("expected filename extension, got %q", got)
	}
	if got := SourceExtension("clip", "video/webm"); got != ".webm" {
		t.Fatalf("expected content type fallback, got %q", got)
	}
	if got := SourceExtension("evil.m p4", "video/mp4"); got != ".mp4" {
		t.Fatalf("expected unsafe extension to be ignored, got %q", got)
	}
}

func TestPreparePartsSortsAndValidates(t *testing.T) {
	sorted, err := PrepareParts([]entities.Part{{PartNumber: 2, ETag: "B"}, {PartNumber: 1, ETag: "A"}})
	if err != nil {
		t.Fatalf("prepare parts: %v", err)
	}
	if sorted[0].PartNumber != 1 || sorted[1].PartNumber != 2 {
		t.Fatalf("expected ascending parts, got %+v", sorted)
	}

	cases := []struct {
		name  string
		parts []entities.Part
		want  error
	}{
		{name: "empty", parts: nil, want: domainerrors.ErrPartsRequired},
		{name: "zero", parts: []entities.Part{{PartNumber: 0, ETag: "A"}}, want: domainerrors.ErrPartNumberOutOfRange},
		{name: "too large", parts: []entities.Part{{PartNumber: 10001, ETag: "A"}}, want: domainerrors.ErrPartNumberOutOfRange},
		{name: "missing etag", parts: []entities.Part{{PartNumber: 1}}, want: domainerrors.ErrPartETagRequired},
		{name: "duplicate", parts: []entities.Part{{PartNumber: 1, ETag: "A"}, {PartNumber: 1, ETag: "B"}}, want: domainerrors.ErrDuplicatePartNumber},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if _, err := PrepareParts(tc.parts); !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
}

func TestResolveCompletionTeam(t *testing.T) {
	session := entities.UploadSession{ObjectKey: "teams/team-1/content/c-1/source.mp4"}
	teamID, err := ResolveCompletionTeam(session, "")
	if err != nil || teamID != "team-1" {
		t.Fatalf("expected inferred team, got %q, %v", teamID, err)
	}

	session.TeamID = "team-1"
	if _, err := ResolveCompletionTeam(session, "team-2"); !errors.Is(err, domainerrors.ErrTeamMismatch) {
		t.Fatalf("expected mismatch, got %v", err)
	}

	personal := entities.UploadSession{ObjectKey: "actors/actor-1/content/c-2/source.mp4"}
	teamID, err = ResolveCompletionTeam(personal, "")
	if err != nil || teamID != "" {
		t.Fatalf("expected personal upload, got %q, %v", teamID, err)
	}

	unscoped := entities.UploadSession{ObjectKey: "actors/org/alice/content/c-3/source.mp4"}
	teamID, err = ResolveCompletionTeam(unscoped, "")
	if err != nil || teamID != "" {
		t.Fatalf("expected unscoped key to resolve as personal, got %q, %v", teamID, err)
	}
	if _, err := ResolveCompletionTeam(unscoped, "team-1"); !errors.Is(err, domainerrors.ErrTeamMismatch) {
		t.Fatalf("expected mismatch for personal session, got %v", err)
	}
}
