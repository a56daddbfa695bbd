package auth

import (
	_ "embed"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// Enforcer wraps a casbin SyncedEnforcer with the coarse role → object →
// action policy (clips/read, scenario/write, market/read, analytics/read),
// grounded on cartographus's internal/authz/enforcer.go. Fine-grained,
// per-row decisions (the player-id scoping rule below) stay in application
// code since they need request-specific attribute data casbin's static
// policy file doesn't carry.
type Enforcer struct {
	e *casbin.SyncedEnforcer
}

// NewEnforcer builds an Enforcer from the embedded model/policy.
func NewEnforcer() (*Enforcer, error) {
	m, err := model.NewModelFromString(embeddedModel)
	if err != nil {
		return nil, fmt.Errorf("auth: load casbin model: %w", err)
	}
	e, err := casbin.NewSyncedEnforcer(m)
	if err != nil {
		return nil, fmt.Errorf("auth: create casbin enforcer: %w", err)
	}
	if err := loadEmbeddedPolicy(e, embeddedPolicy); err != nil {
		return nil, fmt.Errorf("auth: load casbin policy: %w", err)
	}
	return &Enforcer{e: e}, nil
}

// Allow reports whether role may perform act on obj (e.g. "clips"/"read").
func (en *Enforcer) Allow(role Role, obj, act string) bool {
	allowed, err := en.e.Enforce(string(role), obj, act)
	if err != nil {
		return false
	}
	return allowed
}

func loadEmbeddedPolicy(e *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, ",")
		if len(parts) < 2 {
			continue
		}
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		ptype, rule := parts[0], parts[1:]
		switch ptype {
		case "p":
			if len(rule) >= 3 {
				if _, err := e.AddPolicy(rule[0], rule[1], rule[2]); err != nil {
					return err
				}
			}
		case "g":
			if len(rule) >= 2 {
				if _, err := e.AddGroupingPolicy(rule[0], rule[1]); err != nil {
					return err
				}
			}
		}
	}
	return nil
}

// ClipAccessInfo carries the subset of ClipMetadata the clip-access policy
// needs, decoupling the auth package from the clips package.
type ClipAccessInfo struct {
	PlayerID string
}

// CanAccessClip implements the clip access policy of spec.md §4.1:
// coach/analyst/staff/scout always allow; a player allows iff their
// preferences.player_id normalizes equal to the clip's player_id (numeric
// strings compared after stripping a trailing ".0"); everyone else is
// denied unless devOverride is set.
func (en *Enforcer) CanAccessClip(user *User, clip ClipAccessInfo, devOverride bool) bool {
	if devOverride {
		return true
	}
	if en.Allow(user.Role, "clips", "read") && user.Role != RolePlayer {
		return true
	}
	if user.Role == RolePlayer {
		return normalizePlayerID(user.Preferences.PlayerID) == normalizePlayerID(clip.PlayerID)
	}
	return false
}

// normalizePlayerID strips a trailing ".0" from numeric-looking player id
// strings so "8480018" and "8480018.0" compare equal, per spec.md §4.1.
func normalizePlayerID(id string) string {
	return strings.TrimSuffix(id, ".0")
}
