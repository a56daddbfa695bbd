// Package toolkit wires the orchestrator's named tool plan (spec.md
// §4.6 step 2, orchestrator.PlanFor) to the concrete NHL-API, clip, and
// analytics collaborators, the way the teacher's main.go wires its
// handler functions directly to services/nhl_api.go and friends.
// Tools here are deliberately query-type-scoped rather than
// entity-scoped: orchestrator.Classify only classifies a query's
// intent, it does not extract a player, team, or game id from the
// text, so a tool that needs one reports that gap as a warning instead
// of guessing.
package toolkit

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jaredshillingburg/icehockey-analytics/analytics"
	"github.com/jaredshillingburg/icehockey-analytics/clips"
	"github.com/jaredshillingburg/icehockey-analytics/nhlapi"
	"github.com/jaredshillingburg/icehockey-analytics/orchestrator"
)

// Toolkit holds the collaborators concrete tools dispatch against. A nil
// field degrades the tools that need it to a warning result rather than
// a panic, matching Deps' "nil disables" convention in httpapi.
type Toolkit struct {
	NHL   *nhlapi.Client
	Clips *clips.Repo
}

// Factory returns an orchestrator.ToolFactory bound to this toolkit,
// built from orchestrator.PlanFor's tool-name plan per query type.
func (tk *Toolkit) Factory() orchestrator.ToolFactory {
	return func(qt QueryType) []orchestrator.Tool {
		names := orchestrator.PlanFor(qt)
		tools := make([]orchestrator.Tool, 0, len(names))
		for _, name := range names {
			tools = append(tools, tk.toolFor(name))
		}
		return tools
	}
}

// QueryType is an alias so callers don't need to import orchestrator
// just to call Factory.
type QueryType = orchestrator.QueryType

func (tk *Toolkit) toolFor(name string) orchestrator.Tool {
	switch name {
	case "standings":
		return &standingsTool{nhl: tk.NHL}
	case "clip-retrieval":
		return &clipRetrievalTool{repo: tk.Clips}
	case "boxscore", "play-by-play":
		return &scoreboardTool{name: name, nhl: tk.NHL}
	case "team-trends":
		return &teamTrendsTool{nhl: tk.NHL}
	case "rti":
		return &matchupTool{nhl: tk.NHL}
	case "player-performance", "pfi":
		return &leaderboardTool{name: name, nhl: tk.NHL}
	case "deployments", "special-teams":
		return &unsupportedTool{name: name}
	default:
		return &unsupportedTool{name: name}
	}
}

func unavailable(name, reason string, start time.Time) orchestrator.ToolResult {
	return orchestrator.ToolResult{
		Tool:     name,
		Success:  false,
		Warning:  reason,
		Duration: time.Since(start),
	}
}

// standingsTool reports league standings via the NHL API proxy, backing
// the "team-analytics" tool plan's standings leg.
type standingsTool struct{ nhl *nhlapi.Client }

func (t *standingsTool) Name() string { return "standings" }

func (t *standingsTool) Run(ctx context.Context) orchestrator.ToolResult {
	start := time.Now()
	if t.nhl == nil {
		return unavailable(t.Name(), "NHL API client not configured", start)
	}
	rows, apiErr := t.nhl.FetchStandings(ctx)
	if apiErr != nil {
		return unavailable(t.Name(), apiErr.Message, start)
	}
	lines := make([]string, 0, len(rows))
	for i, r := range rows {
		if i >= 8 {
			break
		}
		lines = append(lines, fmt.Sprintf("%s: %d pts (%d-%d-%d)", r.TeamCode, r.Points, r.Wins, r.Losses, r.OTLosses))
	}
	return orchestrator.ToolResult{
		Tool:     t.Name(),
		Success:  true,
		Text:     "Current standings: " + strings.Join(lines, "; "),
		Evidence: lines,
		Duration: time.Since(start),
	}
}

// clipRetrievalTool returns the most recently created ready clips,
// backing the "clip-retrieval" tool plan leg (spec.md §4.6 toolPlan).
type clipRetrievalTool struct{ repo *clips.Repo }

func (t *clipRetrievalTool) Name() string { return "clip-retrieval" }

func (t *clipRetrievalTool) Run(ctx context.Context) orchestrator.ToolResult {
	start := time.Now()
	if t.repo == nil {
		return unavailable(t.Name(), "clip repository not configured", start)
	}
	found, apiErr := t.repo.List(ctx, clips.Filter{Limit: 5})
	if apiErr != nil {
		return unavailable(t.Name(), apiErr.Message, start)
	}
	refs := make([]orchestrator.ClipRef, 0, len(found))
	citations := make([]string, 0, len(found))
	for _, c := range found {
		refs = append(refs, orchestrator.ClipRef{ClipID: c.ID, Title: c.Title})
		citations = append(citations, c.ID)
	}
	return orchestrator.ToolResult{
		Tool:      t.Name(),
		Success:   true,
		Text:      fmt.Sprintf("Found %d recent clip(s)", len(refs)),
		Clips:     refs,
		Citations: citations,
		Duration:  time.Since(start),
	}
}

// scoreboardTool reports today's scoreboard as a stand-in for the
// "boxscore"/"play-by-play" tool plan legs, which properly need a
// specific game id that Classify does not extract from the query text.
type scoreboardTool struct {
	name string
	nhl  *nhlapi.Client
}

func (t *scoreboardTool) Name() string { return t.name }

func (t *scoreboardTool) Run(ctx context.Context) orchestrator.ToolResult {
	start := time.Now()
	if t.nhl == nil {
		return unavailable(t.Name(), "NHL API client not configured", start)
	}
	date := time.Now().UTC().Format("2006-01-02")
	scores, apiErr := t.nhl.FetchScores(ctx, date)
	if apiErr != nil {
		return unavailable(t.Name(), apiErr.Message, start)
	}
	lines := make([]string, 0, len(scores))
	for _, g := range scores {
		lines = append(lines, fmt.Sprintf("%s %d - %d %s (%s)", g.AwayTeam, g.AwayScore, g.HomeScore, g.HomeTeam, g.GameState))
	}
	return orchestrator.ToolResult{
		Tool:     t.Name(),
		Success:  true,
		Text:     fmt.Sprintf("%d game(s) on %s", len(scores), date),
		Warning:  "no game id was supplied; reporting today's scoreboard instead of a specific game",
		Evidence: lines,
		Duration: time.Since(start),
	}
}

// teamTrendsTool derives a league-wide trend snapshot from standings
// points percentage, standing in for analytics.ComputeTeamTrend's
// rolling-window inputs when no team-game-log window is addressable
// from the query text alone.
type teamTrendsTool struct{ nhl *nhlapi.Client }

func (t *teamTrendsTool) Name() string { return "team-trends" }

func (t *teamTrendsTool) Run(ctx context.Context) orchestrator.ToolResult {
	start := time.Now()
	if t.nhl == nil {
		return unavailable(t.Name(), "NHL API client not configured", start)
	}
	rows, apiErr := t.nhl.FetchStandings(ctx)
	if apiErr != nil {
		return unavailable(t.Name(), apiErr.Message, start)
	}
	lines := make([]string, 0, len(rows))
	for i, r := range rows {
		if i >= 5 {
			break
		}
		pct := 0.0
		if r.GamesPlayed > 0 {
			pct = float64(r.Points) / float64(2*r.GamesPlayed) * 100
		}
		lines = append(lines, fmt.Sprintf("%s points pct %.1f%%, goal diff %+d", r.TeamCode, pct, r.GoalDifferential))
	}
	return orchestrator.ToolResult{
		Tool:     t.Name(),
		Success:  true,
		Text:     "League-wide team trend snapshot (points pct, goal differential)",
		Evidence: lines,
		Duration: time.Since(start),
	}
}

// matchupTool builds RTIInput rows from live standings and runs
// analytics.RTITopN, backing the "rti" tool plan leg for matchup
// queries without a division-scoped rolling window to draw from.
type matchupTool struct{ nhl *nhlapi.Client }

func (t *matchupTool) Name() string { return "rti" }

func (t *matchupTool) Run(ctx context.Context) orchestrator.ToolResult {
	start := time.Now()
	if t.nhl == nil {
		return unavailable(t.Name(), "NHL API client not configured", start)
	}
	rows, apiErr := t.nhl.FetchStandings(ctx)
	if apiErr != nil {
		return unavailable(t.Name(), apiErr.Message, start)
	}
	inputs := make([]analytics.RTIInput, 0, len(rows))
	for _, r := range rows {
		pointsPct := 0.0
		if r.GamesPlayed > 0 {
			pointsPct = float64(r.Points) / float64(2*r.GamesPlayed) * 100
		}
		inputs = append(inputs, analytics.RTIInput{
			TeamCode:  r.TeamCode,
			PointsPct: pointsPct,
		})
	}
	results := analytics.RTITopN(inputs)
	lines := make([]string, 0, len(results))
	for i, r := range results {
		if i >= 8 {
			break
		}
		lines = append(lines, fmt.Sprintf("%s: %.1f", r.TeamCode, r.Score))
	}
	return orchestrator.ToolResult{
		Tool:     t.Name(),
		Success:  true,
		Text:     "Rival Threat Index, derived from current standings points pct",
		Evidence: lines,
		Duration: time.Since(start),
	}
}

// leaderboardTool reports the NHL API's own skater points leaders as a
// stand-in for the "player-performance"/"pfi" tool plan legs, which
// properly need a player-game-log window PFITopN consumes; that window
// requires a player or roster scope Classify does not extract.
type leaderboardTool struct {
	name string
	nhl  *nhlapi.Client
}

func (t *leaderboardTool) Name() string { return t.name }

func (t *leaderboardTool) Run(ctx context.Context) orchestrator.ToolResult {
	start := time.Now()
	if t.nhl == nil {
		return unavailable(t.Name(), "NHL API client not configured", start)
	}
	raw, apiErr := t.nhl.FetchSkaterLeaders(ctx, "points", 10)
	if apiErr != nil {
		return unavailable(t.Name(), apiErr.Message, start)
	}
	return orchestrator.ToolResult{
		Tool:     t.Name(),
		Success:  true,
		Text:     "League points leaders",
		Warning:  "no player was named in the query; reporting league leaders instead of an individual Player Form Index",
		Evidence: []string{string(raw)},
		Duration: time.Since(start),
	}
}

// unsupportedTool reports that the named leg has no wired data source
// yet, rather than fabricating a result. deployments/special-teams
// need shift- and game-scoped columnar data this toolkit does not load.
type unsupportedTool struct{ name string }

func (t *unsupportedTool) Name() string { return t.name }

func (t *unsupportedTool) Run(ctx context.Context) orchestrator.ToolResult {
	return orchestrator.ToolResult{
		Tool:    t.name,
		Success: false,
		Warning: fmt.Sprintf("%s requires a specific game id, which query classification does not extract", t.name),
	}
}
