package nhlapi

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	"github.com/jaredshillingburg/icehockey-analytics/apperr"
	"github.com/jaredshillingburg/icehockey-analytics/cache"
)

// flexString unmarshals either a bare JSON string or `{"default": "..."}`,
// normalizing the "team abbreviations may be strings or {default: string}"
// heterogeneity called out in spec.md §4.3.
type flexString string

func (f *flexString) UnmarshalJSON(data []byte) error {
	var plain string
	if err := json.Unmarshal(data, &plain); err == nil {
		*f = flexString(plain)
		return nil
	}
	var wrapped struct {
		Default string `json:"default"`
	}
	if err := json.Unmarshal(data, &wrapped); err != nil {
		return err
	}
	*f = flexString(wrapped.Default)
	return nil
}

// StandingsRow is the normalized shape returned by FetchStandings,
// regardless of whether upstream nested the record under "record.*" or
// placed it at the row's top level.
type StandingsRow struct {
	TeamCode         string  `json:"team_code"`
	TeamName         string  `json:"team_name"`
	Points           int     `json:"points"`
	Wins             int     `json:"wins"`
	Losses           int     `json:"losses"`
	OTLosses         int     `json:"ot_losses"`
	GoalsFor         int     `json:"goals_for"`
	GoalsAgainst     int     `json:"goals_against"`
	GoalDifferential int     `json:"goal_differential"`
	GamesPlayed      int     `json:"games_played"`
	Division         string  `json:"division"`
}

type rawStandingsRow struct {
	TeamAbbrev  flexString `json:"teamAbbrev"`
	TeamName    flexString `json:"teamName"`
	DivisionName string    `json:"divisionName"`
	Points      *int       `json:"points"`
	Wins        *int       `json:"wins"`
	Losses      *int       `json:"losses"`
	OTLosses    *int       `json:"otLosses"`
	GoalFor     *int       `json:"goalFor"`
	GoalAgainst *int       `json:"goalAgainst"`
	GamesPlayed *int       `json:"gamesPlayed"`
	Record      *struct {
		Points      *int `json:"points"`
		Wins        *int `json:"wins"`
		Losses      *int `json:"losses"`
		OTLosses    *int `json:"otLosses"`
		GoalFor     *int `json:"goalFor"`
		GoalAgainst *int `json:"goalAgainst"`
		GamesPlayed *int `json:"gamesPlayed"`
	} `json:"record"`
}

func intOr(primary, fallback *int) int {
	if primary != nil {
		return *primary
	}
	if fallback != nil {
		return *fallback
	}
	return 0
}

func (r rawStandingsRow) normalize() StandingsRow {
	var rec = r.Record
	get := func(primary *int, recField *int) int {
		if primary != nil {
			return *primary
		}
		return intOr(recField, nil)
	}
	var recPoints, recWins, recLosses, recOT, recGF, recGA, recGP *int
	if rec != nil {
		recPoints, recWins, recLosses, recOT, recGF, recGA, recGP =
			rec.Points, rec.Wins, rec.Losses, rec.OTLosses, rec.GoalFor, rec.GoalAgainst, rec.GamesPlayed
	}
	gf := get(r.GoalFor, recGF)
	ga := get(r.GoalAgainst, recGA)
	return StandingsRow{
		TeamCode:         string(r.TeamAbbrev),
		TeamName:         string(r.TeamName),
		Division:         r.DivisionName,
		Points:           get(r.Points, recPoints),
		Wins:             get(r.Wins, recWins),
		Losses:           get(r.Losses, recLosses),
		OTLosses:         get(r.OTLosses, recOT),
		GoalsFor:         gf,
		GoalsAgainst:     ga,
		GoalDifferential: gf - ga,
		GamesPlayed:      get(r.GamesPlayed, recGP),
	}
}

// FetchStandings fetches and normalizes current-day standings. An empty
// upstream list yields an empty sorted array, not an error (spec.md §8).
func (c *Client) FetchStandings(ctx context.Context) ([]StandingsRow, *apperr.Error) {
	key := cache.KeyFor("nhl.standings")
	body, err := c.get(ctx, key, c.baseURL+"/standings/now", cache.TTLStandings)
	if err != nil {
		return nil, err
	}

	var raw struct {
		Standings []rawStandingsRow `json:"standings"`
	}
	if uerr := unmarshalOrBadGateway(body, &raw); uerr != nil {
		return nil, uerr
	}

	rows := make([]StandingsRow, 0, len(raw.Standings))
	for _, r := range raw.Standings {
		rows = append(rows, r.normalize())
	}
	sortStandings(rows)
	return rows, nil
}

// FetchStandingsByDate fetches standings as of a specific date.
func (c *Client) FetchStandingsByDate(ctx context.Context, date string) ([]StandingsRow, *apperr.Error) {
	if verr := validateDate(date); verr != nil {
		return nil, verr
	}
	key := cache.KeyFor("nhl.standings", date)
	body, err := c.get(ctx, key, fmt.Sprintf("%s/standings/%s", c.baseURL, date), cache.TTLStandings)
	if err != nil {
		return nil, err
	}
	var raw struct {
		Standings []rawStandingsRow `json:"standings"`
	}
	if uerr := unmarshalOrBadGateway(body, &raw); uerr != nil {
		return nil, uerr
	}
	rows := make([]StandingsRow, 0, len(raw.Standings))
	for _, r := range raw.Standings {
		rows = append(rows, r.normalize())
	}
	sortStandings(rows)
	return rows, nil
}

// Score is a normalized scoreboard entry.
type Score struct {
	GameID       int    `json:"game_id"`
	GameState    string `json:"game_state"`
	HomeTeam     string `json:"home_team"`
	AwayTeam     string `json:"away_team"`
	HomeScore    int    `json:"home_score"`
	AwayScore    int    `json:"away_score"`
	StartTimeUTC string `json:"start_time_utc"`
}

type rawScoreGame struct {
	ID        int        `json:"id"`
	GameState string     `json:"gameState"`
	HomeTeam  rawGameTeam `json:"homeTeam"`
	AwayTeam  rawGameTeam `json:"awayTeam"`
	StartTime string     `json:"startTimeUTC"`
}

type rawGameTeam struct {
	Abbrev flexString `json:"abbrev"`
	Score  *int       `json:"score"`
}

// FetchScores fetches and normalizes the scoreboard for a given date.
func (c *Client) FetchScores(ctx context.Context, date string) ([]Score, *apperr.Error) {
	if verr := validateDate(date); verr != nil {
		return nil, verr
	}
	key := cache.KeyFor("nhl.scores", date)
	body, err := c.get(ctx, key, fmt.Sprintf("%s/score/%s", c.baseURL, date), cache.TTLLiveScores)
	if err != nil {
		return nil, err
	}
	var raw struct {
		Games []rawScoreGame `json:"games"`
	}
	if uerr := unmarshalOrBadGateway(body, &raw); uerr != nil {
		return nil, uerr
	}
	scores := make([]Score, 0, len(raw.Games))
	for _, g := range raw.Games {
		scores = append(scores, Score{
			GameID:       g.ID,
			GameState:    g.GameState,
			HomeTeam:     string(g.HomeTeam.Abbrev),
			AwayTeam:     string(g.AwayTeam.Abbrev),
			HomeScore:    intOr(g.HomeTeam.Score, nil),
			AwayScore:    intOr(g.AwayTeam.Score, nil),
			StartTimeUTC: g.StartTime,
		})
	}
	return scores, nil
}

// FetchSchedule fetches a team's current-week schedule.
func (c *Client) FetchSchedule(ctx context.Context, teamCode string) (json.RawMessage, *apperr.Error) {
	key := cache.KeyFor("nhl.schedule", teamCode)
	body, err := c.get(ctx, key, fmt.Sprintf("%s/club-schedule/%s/week/now", c.baseURL, teamCode), cache.TTLSchedule)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// FetchBoxscore fetches a gamecenter boxscore by numeric game id.
func (c *Client) FetchBoxscore(ctx context.Context, gameID int) (json.RawMessage, *apperr.Error) {
	key := cache.KeyFor("nhl.boxscore", strconv.Itoa(gameID))
	body, err := c.get(ctx, key, fmt.Sprintf("%s/gamecenter/%d/boxscore", c.baseURL, gameID), cache.TTLLiveScores)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// FetchPlayByPlay fetches a gamecenter play-by-play feed by game id.
func (c *Client) FetchPlayByPlay(ctx context.Context, gameID int) (json.RawMessage, *apperr.Error) {
	key := cache.KeyFor("nhl.pbp", strconv.Itoa(gameID))
	body, err := c.get(ctx, key, fmt.Sprintf("%s/gamecenter/%d/play-by-play", c.baseURL, gameID), cache.TTLLiveScores)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// FetchGameLanding fetches a gamecenter landing summary by game id.
func (c *Client) FetchGameLanding(ctx context.Context, gameID int) (json.RawMessage, *apperr.Error) {
	key := cache.KeyFor("nhl.landing", strconv.Itoa(gameID))
	body, err := c.get(ctx, key, fmt.Sprintf("%s/gamecenter/%d/landing", c.baseURL, gameID), cache.TTLLiveScores)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// FetchPlayerLanding fetches a player's landing page by numeric player id.
func (c *Client) FetchPlayerLanding(ctx context.Context, playerID int) (json.RawMessage, *apperr.Error) {
	key := cache.KeyFor("nhl.player_landing", strconv.Itoa(playerID))
	body, err := c.get(ctx, key, fmt.Sprintf("%s/player/%d/landing", c.baseURL, playerID), cache.TTLPlayerLanding)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// FetchSkaterLeaders fetches the league skater-stats leaderboard for
// category (e.g. "points", "goals", "assists"), passed through
// unparsed since spec.md §6 only promises caching, not field
// normalization, for this surface.
func (c *Client) FetchSkaterLeaders(ctx context.Context, category string, limit int) (json.RawMessage, *apperr.Error) {
	if category == "" {
		category = "points"
	}
	if limit <= 0 {
		limit = 10
	}
	key := cache.KeyFor("nhl.leaders", category, strconv.Itoa(limit))
	url := fmt.Sprintf("%s/skater-stats-leaders/current?categories=%s&limit=%d", c.baseURL, category, limit)
	body, err := c.get(ctx, key, url, cache.TTLLeaders)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}

// FetchPlayerGameLog fetches a player's game log for a season/game-type.
func (c *Client) FetchPlayerGameLog(ctx context.Context, playerID, season, gameType int) (json.RawMessage, *apperr.Error) {
	key := cache.KeyFor("nhl.player_gamelog", strconv.Itoa(playerID), strconv.Itoa(season), strconv.Itoa(gameType))
	url := fmt.Sprintf("%s/player/%d/game-log/%d/%d", c.baseURL, playerID, season, gameType)
	body, err := c.get(ctx, key, url, cache.TTLPlayerLanding)
	if err != nil {
		return nil, err
	}
	return json.RawMessage(body), nil
}
