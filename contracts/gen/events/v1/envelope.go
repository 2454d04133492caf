package v1

import (
	"encoding/json"
	"strings"
	"time"
)

// Envelope is the canonical, versioned event envelope for cross-runtime use.
// PartitionKey carries the fan-out scope ("team:<id>" or "actor:<id>").
type Envelope struct {
	EventID          string          `json:"event_id"`
	EventType        string          `json:"event_type"`
	OccurredAt       time.Time       `json:"occurred_at"`
	SourceService    string          `json:"source_service"`
	TraceID          string          `json:"trace_id"`
	SchemaVersion    int             `json:"schema_version"`
	PartitionKeyPath string          `json:"partition_key_path"`
	PartitionKey     string          `json:"partition_key"`
	Data             json.RawMessage `json:"data"`
}

const (
	scopeTeamPrefix  = "team:"
	scopeActorPrefix = "actor:"
)

// TeamScope is the fan-out scope shared by every collaborator of a team.
func TeamScope(teamID string) string {
	return scopeTeamPrefix + teamID
}

// ActorScope is the fan-out scope of a single actor's personal content.
func ActorScope(actorID string) string {
	return scopeActorPrefix + actorID
}

// ContentScope resolves the scope for content owned by an actor, optionally inside a team.
func ContentScope(teamID string, ownerActorID string) string {
	if strings.TrimSpace(teamID) != "" {
		return TeamScope(teamID)
	}
	return ActorScope(ownerActorID)
}

// ParseScope splits a scope into its kind ("team" or "actor") and id.
func ParseScope(scope string) (kind string, id string, ok bool) {
	switch {
	case strings.HasPrefix(scope, scopeTeamPrefix):
		id = strings.TrimPrefix(scope, scopeTeamPrefix)
		kind = "team"
	case strings.HasPrefix(scope, scopeActorPrefix):
		id = strings.TrimPrefix(scope, scopeActorPrefix)
		kind = "actor"
	default:
		return "", "", false
	}
	if strings.TrimSpace(id) == "" {
		return "", "", false
	}
	return kind, id, true
}
