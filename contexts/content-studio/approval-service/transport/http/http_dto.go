package httptransport

type ContentDTO struct {
	ContentID     string `json:"content_id"`
	OwnerActorID  string `json:"owner_actor_id"`
	TeamID        string `json:"team_id,omitempty"`
	Kind          string `json:"kind"`
	ObjectKey     string `json:"object_key"`
	DerivativeKey string `json:"derivative_key,omitempty"`
	ContentType   string `json:"content_type,omitempty"`
	SizeBytes     int64  `json:"size_bytes"`
	Status        string `json:"status"`
	RequestedBy   string `json:"requested_by_actor_id,omitempty"`
	ApprovedBy    string `json:"approved_by_actor_id,omitempty"`
	ScheduledFor  string `json:"scheduled_for,omitempty"`
	CreatedAt     string `json:"created_at"`
	UpdatedAt     string `json:"updated_at"`
}

type GetContentResponse struct {
	Item ContentDTO `json:"item"`
}

type ListContentResponse struct {
	Items []ContentDTO `json:"items"`
}

type ApproveRequest struct {
	ScheduledFor string `json:"scheduled_for,omitempty"`
	Hold         bool   `json:"hold,omitempty"`
}

type TransitionResponse struct {
	ContentID  string     `json:"content_id"`
	FromStatus string     `json:"from_status"`
	ToStatus   string     `json:"to_status"`
	Item       ContentDTO `json:"item"`
}

type ErrorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
