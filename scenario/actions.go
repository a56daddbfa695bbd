// Package scenario implements the roster/cap what-if engine of
// spec.md §4.8: deterministic action application over a roster
// snapshot, LTIR relief, position-coverage scoring, compliance checks,
// and acquisition search. Grounded on services/whatif_simulator.go
// (scenario struct shape, cache-key hashing idiom) and
// services/roster_validation_service.go (roster snapshot lookup,
// player-reference resolution by id or name).
package scenario

import "strings"

// ActionKind tags the variant of a roster Action, per spec.md §9's
// "model actions as tagged variants of an Action type" design note.
type ActionKind string

const (
	AddPlayer     ActionKind = "add_player"
	RemovePlayer  ActionKind = "remove_player"
	CallUp        ActionKind = "call_up"
	SendDown      ActionKind = "send_down"
	PlaceIR       ActionKind = "place_ir"
	PlaceLTIR     ActionKind = "place_ltir"
	AcquirePlayer ActionKind = "acquire_player"
)

// Action is one roster move to apply during a simulation. PlayerRef may
// be a numeric player id or a display name; unresolved references are
// skipped with a warning rather than failing the whole simulation.
type Action struct {
	Kind      ActionKind
	PlayerRef string
	// AcquireCapHit/AcquirePosition are only consulted for AcquirePlayer,
	// where the incoming player isn't already present in the roster
	// snapshot being simulated.
	AcquireCapHit  float64
	AcquirePosition string
}

// resolvePlayerIndex finds a player in the roster snapshot by id or
// case-insensitive name match, returning its index. ok=false signals the
// caller to skip the action with a warning.
func resolvePlayerIndex(roster []RosterPlayer, ref string) (int, bool) {
	for i, p := range roster {
		if p.PlayerID == ref {
			return i, true
		}
	}
	for i, p := range roster {
		if strings.EqualFold(p.Name, ref) {
			return i, true
		}
	}
	return -1, false
}
