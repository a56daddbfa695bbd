package analytics

import "sort"

// goalieWorkloadPlaceholder is the fixed 50 placeholder term spec.md
// §4.4.3 uses in place of an unavailable goalie-workload metric.
const goalieWorkloadPlaceholder = 50.0

// defaultDivisionTeams is the fixed 8-team fallback list emitted when
// RTI is computed over an empty division, preserving the UI contract
// (spec.md §8: "RTI with zero division-team rows returns 8 default rows
// each with RTI=50").
var defaultDivisionTeams = []string{"TOR", "MTL", "BOS", "TBL", "FLA", "OTT", "BUF", "DET"}

// RTIInput is one division team's rolled-up window metrics feeding RTI.
type RTIInput struct {
	TeamCode        string
	XGFPct          float64 // 0-100
	PointsPct       float64 // 0-100
	SpecialTeamsNet float64
	GoalShare5v5    float64 // 0-100
}

// RTIResult is a division team's scored Rival Threat Index row.
type RTIResult struct {
	TeamCode string
	Score    float64
}

// RTITopN computes the Rival Threat Index for a set of division teams,
// sorted by score desc. An empty input yields the fixed fallback list.
func RTITopN(inputs []RTIInput) []RTIResult {
	if len(inputs) == 0 {
		results := make([]RTIResult, len(defaultDivisionTeams))
		for i, code := range defaultDivisionTeams {
			results[i] = RTIResult{TeamCode: code, Score: 50}
		}
		return results
	}

	results := make([]RTIResult, len(inputs))
	for i, in := range inputs {
		xgf := clampOrDefault(in.XGFPct, 50)
		pts := clampOrDefault(in.PointsPct, 50)
		stNet := clampOrDefault(in.SpecialTeamsNet, 0)
		goalShare := clampOrDefault(in.GoalShare5v5, 50)

		score := 0.30*xgf + 0.20*pts + 0.20*(stNet+100) + 0.15*goalShare + 0.15*goalieWorkloadPlaceholder
		if !isValidNumber(score) {
			score = 50
		}
		results[i] = RTIResult{TeamCode: in.TeamCode, Score: score}
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	return results
}

func clampOrDefault(v, def float64) float64 {
	if !isValidNumber(v) {
		return def
	}
	return v
}
