package entities

import "strings"

// Role is a closed, ordered set of collaborator roles.
type Role string

const (
	RoleEditor  Role = "EDITOR"
	RoleManager Role = "MANAGER"
	RoleAdmin   Role = "ADMIN"
	RoleOwner   Role = "OWNER"
)

var roleRank = map[Role]int{
	RoleEditor:  1,
	RoleManager: 2,
	RoleAdmin:   3,
	RoleOwner:   4,
}

func ParseRole(raw string) (Role, bool) {
	role := Role(strings.ToUpper(strings.TrimSpace(raw)))
	if _, ok := roleRank[role]; !ok {
		return "", false
	}
	return role, true
}

// AtLeast reports whether r ranks at or above min. Unknown roles rank below everything.
func (r Role) AtLeast(min Role) bool {
	rank, ok := roleRank[r]
	if !ok {
		return false
	}
	return rank >= roleRank[min]
}

type MembershipStatus string

const (
	MembershipStatusActive MembershipStatus = "active"
	MembershipStatusPaused MembershipStatus = "paused"
)

type Team struct {
	TeamID       string
	OwnerActorID string
}

type Membership struct {
	TeamID  string
	ActorID string
	Role    Role
	Status  MembershipStatus
}

// IsActive treats anything other than an explicit active status as no membership.
func (m Membership) IsActive() bool {
	return m.Status == MembershipStatusActive
}
