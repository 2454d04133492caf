package httptransport

type InitUploadRequest struct {
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	TeamID      string `json:"team_id,omitempty"`
	Kind        string `json:"kind,omitempty"`
}

type InitUploadResponse struct {
	SessionID string `json:"session_id"`
	ContentID string `json:"content_id"`
	ObjectKey string `json:"object_key"`
	Kind      string `json:"kind"`
	Status    string `json:"status"`
}

type PartDTO struct {
	PartNumber int    `json:"part_number"`
	ETag       string `json:"etag"`
}

type SessionDTO struct {
	SessionID    string    `json:"session_id"`
	ContentID    string    `json:"content_id"`
	ObjectKey    string    `json:"object_key"`
	OwnerActorID string    `json:"owner_actor_id"`
	TeamID       string    `json:"team_id,omitempty"`
	Filename     string    `json:"filename"`
	ContentType  string    `json:"content_type"`
	Kind         string    `json:"kind"`
	Status       string    `json:"status"`
	Parts        []PartDTO `json:"parts"`
	CreatedAt    string    `json:"created_at"`
	UpdatedAt    string    `json:"updated_at"`
}

type GetSessionResponse struct {
	Session SessionDTO `json:"session"`
}

type SignPartResponse struct {
	SessionID  string `json:"session_id"`
	PartNumber int    `json:"part_number"`
	URL        string `json:"url"`
	ExpiresAt  string `json:"expires_at"`
}

type CompleteUploadRequest struct {
	TeamID string    `json:"team_id,omitempty"`
	Parts  []PartDTO `json:"parts"`
}

type CompleteUploadResponse struct {
	SessionID   string `json:"session_id"`
	ContentID   string `json:"content_id"`
	ObjectKey   string `json:"object_key"`
	TeamID      string `json:"team_id,omitempty"`
	Kind        string `json:"kind"`
	ContentType string `json:"content_type"`
	SizeBytes   int64  `json:"size_bytes"`
	Status      string `json:"status"`
}

type AbortUploadResponse struct {
	SessionID string `json:"session_id"`
	Status    string `json:"status"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
