// Package auth implements the opaque-token authentication and RBAC
// policy of spec.md §4.1: two resolvers (strict and permissive-for-media)
// sharing a single principal table and a single clip-access policy
// function, RBAC coarse-grained checks backed by casbin the way
// cartographus's internal/authz/enforcer.go backs its own role model.
package auth

import "strings"

// Role is one of the five user roles named in spec.md §3.
type Role string

const (
	RoleCoach   Role = "coach"
	RolePlayer  Role = "player"
	RoleAnalyst Role = "analyst"
	RoleScout   Role = "scout"
	RoleStaff   Role = "staff"
)

// Preferences carries per-user display preferences, including the optional
// player_id used by the clip-access policy's player-scoped rule.
type Preferences struct {
	Timezone string
	PlayerID string
}

// User is the resolved identity attached to a request, per spec.md §3.
type User struct {
	UserID      string
	Role        Role
	DisplayName string
	TeamAccess  map[string]bool
	Preferences Preferences
}

// HasTeamAccess reports whether the user is scoped to teamCode. An empty
// TeamAccess set is treated as unrestricted (staff/analyst roles with
// league-wide visibility).
func (u *User) HasTeamAccess(teamCode string) bool {
	if len(u.TeamAccess) == 0 {
		return true
	}
	return u.TeamAccess[strings.ToUpper(teamCode)]
}

// Principal is a row of the in-memory principal table validated against
// the opaque bearer token: {username, secret, role, display name, team
// scope, player id}. PlayerID is only meaningful for RolePlayer rows; it
// feeds Preferences.PlayerID, which Enforcer.CanAccessClip compares
// against a clip's owning player id.
type Principal struct {
	Username    string
	Secret      string
	Role        Role
	DisplayName string
	TeamAccess  []string
	PlayerID    string
}

// PrincipalStore is the in-memory table of valid principals the opaque
// token is checked against.
type PrincipalStore struct {
	byUsername map[string]Principal
}

// NewPrincipalStore builds a store from a fixed list of principals, the
// way the teacher wires a small set of known credentials at startup.
func NewPrincipalStore(principals []Principal) *PrincipalStore {
	s := &PrincipalStore{byUsername: make(map[string]Principal, len(principals))}
	for _, p := range principals {
		s.byUsername[p.Username] = p
	}
	return s
}

// Lookup returns the principal for username, or false if unknown.
func (s *PrincipalStore) Lookup(username string) (Principal, bool) {
	p, ok := s.byUsername[username]
	return p, ok
}

// ToUser converts a validated principal into a request-scoped User.
func (p Principal) ToUser() *User {
	teams := make(map[string]bool, len(p.TeamAccess))
	for _, t := range p.TeamAccess {
		teams[strings.ToUpper(t)] = true
	}
	return &User{
		UserID:      p.Username,
		Role:        p.Role,
		DisplayName: p.DisplayName,
		TeamAccess:  teams,
		Preferences: Preferences{PlayerID: p.PlayerID},
	}
}
