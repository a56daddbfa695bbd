package scenario

const (
	maxRemovalPool  = 15
	maxCombinationK = 5
)

// waiverExemptAgeCutoff and the games/seasons thresholds below follow the
// NHL's standard waiver-exemption rule of thumb: a player signed young
// enough, with few enough NHL games/seasons, can be reassigned without
// waivers.
const waiverExemptAgeCutoff = 20

// waiverThreshold pairs an age-at-signing bucket with the games/seasons
// ceiling under which a player remains waiver-exempt.
type waiverThreshold struct {
	maxAge     int
	maxGames   int
	maxSeasons int
}

var waiverThresholds = []waiverThreshold{
	{maxAge: 18, maxGames: 80, maxSeasons: 4},
	{maxAge: 19, maxGames: 70, maxSeasons: 3},
	{maxAge: 20, maxGames: 60, maxSeasons: 2},
}

// IsWaiverExempt is a pure function of player biography, per spec.md §9
// ("waiver eligibility is a pure function of player biography plus
// simple thresholds").
func IsWaiverExempt(p RosterPlayer) bool {
	for _, th := range waiverThresholds {
		if p.AgeAtSigning <= th.maxAge {
			return p.NHLGamesPlayed <= th.maxGames && p.NHLSeasons <= th.maxSeasons
		}
	}
	return false
}

// AcquisitionCandidate is a player available to add, with a rough
// on-ice value proxy used in the acquisition objective.
type AcquisitionCandidate struct {
	Player     RosterPlayer
	ValueProxy float64
}

// AcquisitionPlan is one candidate removal combination paired with its
// resulting objective score.
type AcquisitionPlan struct {
	Removals []RosterPlayer
	Score    float64
	CapFreed float64
}

// EvaluateAcquisition searches removal combinations (up to maxRemovalPool
// candidates, combinations up to size maxCombinationK) to make room for
// target, preferring waiver-exempt removals, per spec.md §4.8's
// "acquisition evaluation" and §9's knapsack-cap design note.
//
// The objective combines normalized cap space freed, the target's value
// delta over the weakest removed candidate, the resulting coverage
// score, and a waiver-risk penalty for removing non-exempt players.
func EvaluateAcquisition(snapshot RosterSnapshot, rules CapRules, target AcquisitionCandidate, removalPool []RosterPlayer) *AcquisitionPlan {
	pool := removalPool
	if len(pool) > maxRemovalPool {
		pool = pool[:maxRemovalPool]
	}

	before := computeMetrics(snapshot, rules)
	needed := before.TotalCapHit + target.Player.CapHit - rules.Ceiling

	var best *AcquisitionPlan
	combinations(pool, maxCombinationK, func(combo []RosterPlayer) {
		capFreed := 0.0
		for _, p := range combo {
			capFreed += p.CapHit
		}
		if needed > 0 && capFreed < needed {
			return // doesn't solve the cap problem; skip
		}

		trial := snapshot.Clone()
		removeAll(&trial, combo)
		trial.Players = append(trial.Players, target.Player)

		after := computeMetrics(trial, rules)
		score := objectiveScore(before, after, target, combo, capFreed)

		if best == nil || score > best.Score {
			best = &AcquisitionPlan{Removals: combo, Score: score, CapFreed: capFreed}
		}
	})

	return best
}

// objectiveScore blends normalized cap space, value delta, coverage, and
// a waiver-risk penalty into a single comparable score.
func objectiveScore(before, after Metrics, target AcquisitionCandidate, removed []RosterPlayer, capFreed float64) float64 {
	capSpaceScore := clampUnit(capFreed / (before.TotalCapHit + 1))

	weakestValue := target.ValueProxy
	for _, p := range removed {
		if p.CapHit < weakestValue {
			weakestValue = p.CapHit // proxy: cheaper incumbents assumed lower marginal value
		}
	}
	valueDelta := clampUnit((target.ValueProxy - weakestValue) / (target.ValueProxy + 1))

	coverage := after.CoverageScore

	waiverPenalty := 0.0
	for _, p := range removed {
		if !IsWaiverExempt(p) {
			waiverPenalty += 1.0 / float64(len(removed)+1)
		}
	}

	return 0.3*capSpaceScore + 0.3*valueDelta + 0.25*coverage - 0.15*waiverPenalty
}

func clampUnit(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}

func removeAll(snapshot *RosterSnapshot, remove []RosterPlayer) {
	removeIDs := make(map[string]bool, len(remove))
	for _, p := range remove {
		removeIDs[p.PlayerID] = true
	}
	kept := snapshot.Players[:0:0]
	for _, p := range snapshot.Players {
		if !removeIDs[p.PlayerID] {
			kept = append(kept, p)
		}
	}
	snapshot.Players = kept
}

// combinations enumerates every non-empty subset of pool up to size k,
// invoking visit on each. Greedy-then-knapsack in spirit: the caller
// short-circuits combinations that can't possibly help before scoring,
// and the small k bound (<=5) keeps the enumeration responsive per
// spec.md §9.
func combinations(pool []RosterPlayer, k int, visit func([]RosterPlayer)) {
	n := len(pool)
	if k > n {
		k = n
	}
	indices := make([]int, 0, k)
	var recurse func(start int)
	recurse = func(start int) {
		if len(indices) > 0 {
			combo := make([]RosterPlayer, len(indices))
			for i, idx := range indices {
				combo[i] = pool[idx]
			}
			visit(combo)
		}
		if len(indices) == k {
			return
		}
		for i := start; i < n; i++ {
			indices = append(indices, i)
			recurse(i + 1)
			indices = indices[:len(indices)-1]
		}
	}
	recurse(0)
}
