package services

import (
	"net/url"
	"path"
	"strings"

	"contentflow/contexts/content-studio/upload-service/domain/entities"
	domainerrors "contentflow/contexts/content-studio/upload-service/domain/errors"
)

var allowedContentTypes = map[string]string{
	"video/mp4":        ".mp4",
	"video/quicktime":  ".mov",
	"video/webm":       ".webm",
	"video/x-matroska": ".mkv",
	"video/x-msvideo":  ".avi",
	"image/jpeg":       ".jpg",
	"image/png":        ".png",
	"image/webp":       ".webp",
	"image/gif":        ".gif",
}

// NormalizeContentType lowercases the media type and drops parameters.
func NormalizeContentType(raw string) string {
	value := strings.ToLower(strings.TrimSpace(raw))
	if idx := strings.Index(value, ";"); idx >= 0 {
		value = strings.TrimSpace(value[:idx])
	}
	return value
}

func ValidateContentType(raw string) (string, error) {
	contentType := NormalizeContentType(raw)
	if _, ok := allowedContentTypes[contentType]; !ok {
		return "", domainerrors.ErrUnsupportedContentType
	}
	return contentType, nil
}

// ResolveKind picks the requested kind or derives one from the content type.
func ResolveKind(requested string, contentType string) (entities.ContentKind, error) {
	if strings.TrimSpace(requested) != "" {
		kind, ok := entities.ParseKind(requested)
		if !ok {
			return "", domainerrors.ErrUnsupportedKind
		}
		return kind, nil
	}
	if strings.HasPrefix(contentType, "image/") {
		return entities.ContentKindImage, nil
	}
	return entities.ContentKindVideo, nil
}

// SourceExtension prefers the filename's extension and falls back to the content type.
func SourceExtension(filename string, contentType string) string {
	ext := strings.ToLower(path.Ext(strings.TrimSpace(filename)))
	if ext != "" && len(ext) <= 8 && isSafeExtension(ext[1:]) {
		return ext
	}
	return allowedContentTypes[contentType]
}

func isSafeExtension(ext string) bool {
	if ext == "" {
		return false
	}
	for _, r := range ext {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') {
			return false
		}
	}
	return true
}

// BuildObjectKey scopes the raw object under its tenant so ownership survives in the key.
// Ids are path-escaped so each one occupies exactly one key segment.
func BuildObjectKey(actorID string, teamID string, contentID string, ext string) string {
	if strings.TrimSpace(teamID) != "" {
		return "teams/" + url.PathEscape(teamID) + "/content/" + url.PathEscape(contentID) + "/source" + ext
	}
	return "actors/" + url.PathEscape(actorID) + "/content/" + url.PathEscape(contentID) + "/source" + ext
}

type ObjectKeyParts struct {
	TeamID    string
	ActorID   string
	ContentID string
}

func ParseObjectKey(key string) (ObjectKeyParts, error) {
	segments := strings.Split(key, "/")
	if len(segments) != 5 || segments[2] != "content" || segments[1] == "" || segments[3] == "" {
		return ObjectKeyParts{}, domainerrors.ErrInvalidObjectKey
	}
	if !strings.HasPrefix(segments[4], "source") {
		return ObjectKeyParts{}, domainerrors.ErrInvalidObjectKey
	}
	owner, err := url.PathUnescape(segments[1])
	if err != nil {
		return ObjectKeyParts{}, domainerrors.ErrInvalidObjectKey
	}
	contentID, err := url.PathUnescape(segments[3])
	if err != nil {
		return ObjectKeyParts{}, domainerrors.ErrInvalidObjectKey
	}
	switch segments[0] {
	case "teams":
		return ObjectKeyParts{TeamID: owner, ContentID: contentID}, nil
	case "actors":
		return ObjectKeyParts{ActorID: owner, ContentID: contentID}, nil
	default:
		return ObjectKeyParts{}, domainerrors.ErrInvalidObjectKey
	}
}

func ValidatePartNumber(partNumber int) error {
	if partNumber < entities.MinPartNumber || partNumber > entities.MaxPartNumber {
		return domainerrors.ErrPartNumberOutOfRange
	}
	return nil
}

// PrepareParts validates the client's part list and returns it sorted by part number.
func PrepareParts(parts []entities.Part) ([]entities.Part, error) {
	if len(parts) == 0 {
		return nil, domainerrors.ErrPartsRequired
	}
	seen := make(map[int]struct{}, len(parts))
	for _, part := range parts {
		if err := ValidatePartNumber(part.PartNumber); err != nil {
			return nil, err
		}
		if strings.TrimSpace(part.ETag) == "" {
			return nil, domainerrors.ErrPartETagRequired
		}
		if _, dup := seen[part.PartNumber]; dup {
			return nil, domainerrors.ErrDuplicatePartNumber
		}
		seen[part.PartNumber] = struct{}{}
	}
	return entities.SortParts(parts), nil
}

// ResolveCompletionTeam returns the team a finished upload belongs to. The session's
// explicit team wins; otherwise a team-scoped key prefix decides, and any other key
// means personal content. A caller-supplied team must agree.
func ResolveCompletionTeam(session entities.UploadSession, requestedTeamID string) (string, error) {
	teamID := strings.TrimSpace(session.TeamID)
	if teamID == "" {
		if parts, err := ParseObjectKey(session.ObjectKey); err == nil {
			teamID = parts.TeamID
		}
	}
	requested := strings.TrimSpace(requestedTeamID)
	if requested != "" && requested != teamID {
		return "", domainerrors.ErrTeamMismatch
	}
	return teamID, nil
}
