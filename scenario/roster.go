package scenario

// RosterStatus tracks where a player sits relative to the active roster,
// mirroring spec.md §4.5's NHL/IR/minor/soir status vocabulary.
type RosterStatus string

const (
	StatusNHL   RosterStatus = "NHL"
	StatusIR    RosterStatus = "IR"
	StatusLTIR  RosterStatus = "LTIR"
	StatusMinor RosterStatus = "MINOR"
	StatusSOIR  RosterStatus = "SOIR"
)

// activeStatuses count toward the 23-man active roster limit and the
// cap-ceiling/floor check; IR/LTIR/MINOR/SOIR do not, per spec.md §4.8
// step 3 ("non-roster statuses do not count toward roster size").
var activeStatuses = map[RosterStatus]bool{StatusNHL: true}

// RosterPlayer is one entry in a team's roster snapshot.
type RosterPlayer struct {
	PlayerID      string
	Name          string
	Position      string // "F", "D", "G"
	CapHit        float64
	Status        RosterStatus
	AgeAtSigning  int
	NHLGamesPlayed int
	NHLSeasons     int
}

// CapRules are the league-wide cap parameters in effect for a season.
type CapRules struct {
	Ceiling      float64
	Floor        float64
	BonusCushion float64
	// TradeDeadlineDayOfSeason is a season-relative day count; when the
	// simulation's AsOfDate falls after it, any acquire_player or
	// remove_player action raises a trade_deadline violation.
	TradeDeadlineDayOfSeason int
}

// RosterSnapshot is the team state a simulation starts from.
type RosterSnapshot struct {
	TeamCode string
	Season   string
	Players  []RosterPlayer
}

// Clone returns a deep-enough copy for a simulation to mutate without
// disturbing the caller's snapshot (Action application is otherwise
// destructive on the Players slice).
func (s RosterSnapshot) Clone() RosterSnapshot {
	players := make([]RosterPlayer, len(s.Players))
	copy(players, s.Players)
	return RosterSnapshot{TeamCode: s.TeamCode, Season: s.Season, Players: players}
}
