package v1

import "time"

const (
	EventTypeContentCreated       = "content.created"
	EventTypeContentStatusChanged = "content.status_changed"
)

// ContentCreated is the Data payload of content.created.
type ContentCreated struct {
	ContentID    string    `json:"content_id"`
	OwnerActorID string    `json:"owner_actor_id"`
	TeamID       string    `json:"team_id,omitempty"`
	Kind         string    `json:"kind"`
	ObjectKey    string    `json:"object_key"`
	Status       string    `json:"status"`
	CreatedAt    time.Time `json:"created_at"`
}

// ContentStatusChanged is the Data payload of content.status_changed.
type ContentStatusChanged struct {
	ContentID     string    `json:"content_id"`
	Scope         string    `json:"scope"`
	FromStatus    string    `json:"from_status"`
	ToStatus      string    `json:"to_status"`
	ActingActorID string    `json:"acting_actor_id"`
	OccurredAt    time.Time `json:"occurred_at"`
}
