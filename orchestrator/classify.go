package orchestrator

import "strings"

// lexicalCue pairs a query type with the substrings that suggest it.
// Order matters: the first matching cue wins, so more specific types
// are listed before general ones.
var lexicalCues = []struct {
	queryType QueryType
	keywords  []string
}{
	{QueryClipRetrieval, []string{"clip", "video", "highlight", "replay", "footage"}},
	{QueryMatchup, []string{"matchup", "head to head", "vs ", " vs.", "against"}},
	{QueryTactical, []string{"tactic", "system", "forecheck", "breakout", "power play setup", "deployment"}},
	{QueryGameAnalysis, []string{"game", "boxscore", "play-by-play", "recap"}},
	{QueryTeamAnalytics, []string{"team", "standings", "xgf", "special teams", "cap space", "roster"}},
	{QueryPlayerPerformance, []string{"player", "pfi", "points per 60", "form index", "stats for"}},
	{QueryStatistical, []string{"average", "percentage", "rate", "trend", "correlation"}},
}

// toolPlan maps a QueryType to the tool names the fan-out step should
// dispatch, per spec.md §4.6 step 2 ("produces a tool plan").
var toolPlan = map[QueryType][]string{
	QueryPlayerPerformance: {"player-performance", "pfi"},
	QueryTeamAnalytics:     {"team-trends", "standings"},
	QueryGameAnalysis:      {"boxscore", "play-by-play"},
	QueryMatchup:           {"rti", "team-trends"},
	QueryTactical:          {"deployments", "special-teams"},
	QueryStatistical:       {"player-performance", "team-trends"},
	QueryClipRetrieval:     {"clip-retrieval"},
}

// Classify infers a QueryType from lexical cues in query, defaulting to
// statistical when nothing matches a more specific cue.
func Classify(query string) QueryType {
	lower := strings.ToLower(query)
	for _, cue := range lexicalCues {
		for _, kw := range cue.keywords {
			if strings.Contains(lower, kw) {
				return cue.queryType
			}
		}
	}
	return QueryStatistical
}

// PlanFor returns the tools to dispatch for a QueryType.
func PlanFor(qt QueryType) []string {
	return toolPlan[qt]
}
