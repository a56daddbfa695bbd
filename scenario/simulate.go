package scenario

import "time"

const (
	targetForwards  = 12
	targetDefense   = 6
	targetGoalies   = 2
	maxActiveRoster = 23
)

// Metrics summarizes a roster snapshot's cap and coverage state.
type Metrics struct {
	ActiveRosterSize int
	TotalCapHit      float64
	LTIRRelief       float64
	EffectiveCeiling float64
	CoverageScore    float64 // [0,1]
}

// Violation is one failed compliance check.
type Violation struct {
	Rule   string
	Detail string
}

// Result is the outcome of a roster simulation.
type Result struct {
	Before     Metrics
	After      Metrics
	Violations []Violation
	Warnings   []string
	Snapshot   RosterSnapshot
}

// SimulateInput bundles a simulation request, per spec.md §4.8.
type SimulateInput struct {
	Team       RosterSnapshot
	Rules      CapRules
	Actions    []Action
	AsOfDate   *time.Time
	SeasonStart time.Time
}

// Simulate applies actions to Team's snapshot in order and evaluates
// compliance against Rules, per spec.md §4.8's six-step pipeline.
func Simulate(in SimulateInput) Result {
	before := computeMetrics(in.Team, in.Rules)

	snapshot := in.Team.Clone()
	var warnings []string
	ltirPool := 0.0

	for _, action := range in.Actions {
		w, relief := applyAction(&snapshot, action)
		if w != "" {
			warnings = append(warnings, w)
		}
		ltirPool += relief
	}

	after := computeMetrics(snapshot, in.Rules)
	after.LTIRRelief = ltirPool
	after.EffectiveCeiling = in.Rules.Ceiling + ltirPool

	violations := checkCompliance(snapshot, in.Rules, after, in.Actions, in.AsOfDate, in.SeasonStart)

	return Result{
		Before:     before,
		After:      after,
		Violations: violations,
		Warnings:   warnings,
		Snapshot:   snapshot,
	}
}

// applyAction mutates snapshot in place for one Action, returning a
// warning string (empty if none) and any LTIR relief the action grants.
func applyAction(snapshot *RosterSnapshot, action Action) (warning string, ltirRelief float64) {
	switch action.Kind {
	case AcquirePlayer:
		snapshot.Players = append(snapshot.Players, RosterPlayer{
			PlayerID: action.PlayerRef,
			Name:     action.PlayerRef,
			Position: action.AcquirePosition,
			CapHit:   action.AcquireCapHit,
			Status:   StatusNHL,
		})
		return "", 0

	case AddPlayer:
		idx, ok := resolvePlayerIndex(snapshot.Players, action.PlayerRef)
		if !ok {
			return "add_player: player not found: " + action.PlayerRef, 0
		}
		snapshot.Players[idx].Status = StatusNHL
		return "", 0

	case RemovePlayer:
		idx, ok := resolvePlayerIndex(snapshot.Players, action.PlayerRef)
		if !ok {
			return "remove_player: player not found: " + action.PlayerRef, 0
		}
		snapshot.Players = append(snapshot.Players[:idx], snapshot.Players[idx+1:]...)
		return "", 0

	case CallUp:
		idx, ok := resolvePlayerIndex(snapshot.Players, action.PlayerRef)
		if !ok {
			return "call_up: player not found: " + action.PlayerRef, 0
		}
		snapshot.Players[idx].Status = StatusNHL
		return "", 0

	case SendDown:
		idx, ok := resolvePlayerIndex(snapshot.Players, action.PlayerRef)
		if !ok {
			return "send_down: player not found: " + action.PlayerRef, 0
		}
		snapshot.Players[idx].Status = StatusMinor
		return "", 0

	case PlaceIR:
		idx, ok := resolvePlayerIndex(snapshot.Players, action.PlayerRef)
		if !ok {
			return "place_ir: player not found: " + action.PlayerRef, 0
		}
		snapshot.Players[idx].Status = StatusIR
		return "", 0

	case PlaceLTIR:
		idx, ok := resolvePlayerIndex(snapshot.Players, action.PlayerRef)
		if !ok {
			return "place_ltir: player not found: " + action.PlayerRef, 0
		}
		snapshot.Players[idx].Status = StatusLTIR
		return "", snapshot.Players[idx].CapHit

	default:
		return "unknown action kind: " + string(action.Kind), 0
	}
}

// computeMetrics derives cap/coverage figures from a snapshot.
func computeMetrics(snapshot RosterSnapshot, rules CapRules) Metrics {
	var activeSize int
	var totalCapHit float64
	var forwards, defense, goalies int

	for _, p := range snapshot.Players {
		if activeStatuses[p.Status] {
			activeSize++
			totalCapHit += p.CapHit
			switch p.Position {
			case "F":
				forwards++
			case "D":
				defense++
			case "G":
				goalies++
			}
		}
	}

	coverage := coverageScore(forwards, defense, goalies)

	return Metrics{
		ActiveRosterSize: activeSize,
		TotalCapHit:      totalCapHit,
		EffectiveCeiling: rules.Ceiling,
		CoverageScore:    coverage,
	}
}

// coverageScore penalizes each missing slot against 12F/6D/2G and
// clips the result to [0,1], per spec.md §4.8 step 4.
func coverageScore(forwards, defense, goalies int) float64 {
	missing := 0
	if forwards < targetForwards {
		missing += targetForwards - forwards
	}
	if defense < targetDefense {
		missing += targetDefense - defense
	}
	if goalies < targetGoalies {
		missing += targetGoalies - goalies
	}
	total := targetForwards + targetDefense + targetGoalies
	score := 1 - float64(missing)/float64(total)
	if score < 0 {
		return 0
	}
	if score > 1 {
		return 1
	}
	return score
}

// checkCompliance evaluates cap ceiling (with LTIR relief), cap floor,
// active roster size, and trade-deadline cutoff, per spec.md §4.8 step 5.
func checkCompliance(snapshot RosterSnapshot, rules CapRules, after Metrics, actions []Action, asOfDate *time.Time, seasonStart time.Time) []Violation {
	var violations []Violation

	if after.TotalCapHit > after.EffectiveCeiling {
		violations = append(violations, Violation{
			Rule:   "cap_ceiling",
			Detail: "total cap hit exceeds effective ceiling (including LTIR relief)",
		})
	}
	if after.TotalCapHit < rules.Floor {
		violations = append(violations, Violation{
			Rule:   "cap_floor",
			Detail: "total cap hit is below the league cap floor",
		})
	}
	if after.ActiveRosterSize > maxActiveRoster {
		violations = append(violations, Violation{
			Rule:   "roster_size",
			Detail: "active roster exceeds the 23-player limit",
		})
	}

	if asOfDate != nil && rules.TradeDeadlineDayOfSeason > 0 {
		dayOfSeason := int(asOfDate.Sub(seasonStart).Hours() / 24)
		if dayOfSeason > rules.TradeDeadlineDayOfSeason {
			for _, a := range actions {
				if a.Kind == AcquirePlayer || a.Kind == RemovePlayer {
					violations = append(violations, Violation{
						Rule:   "trade_deadline",
						Detail: "trade-like action applied after the season's deadline cutoff",
					})
					break
				}
			}
		}
	}

	return violations
}
