package market

import (
	"context"
	"sort"

	"github.com/jaredshillingburg/icehockey-analytics/apperr"
)

// LeagueOverviewRow is one team's cap-summary line in a league-wide view.
type LeagueOverviewRow struct {
	Team        string
	TotalCapHit float64
	PlayerCount int
}

// LeagueOverview aggregates TeamCapSummary across every team carrying a
// contract row for season, sorted by total cap hit descending.
func (s *Store) LeagueOverview(ctx context.Context, season string) ([]LeagueOverviewRow, *apperr.Error) {
	rows, err := s.queryContracts(ctx, "WHERE season = ?", season)
	if err != nil {
		return nil, err
	}

	byTeam := make(map[string]*LeagueOverviewRow)
	var order []string
	for _, c := range rows {
		if !capCountedStatuses[c.RosterStatus] {
			continue
		}
		row, ok := byTeam[c.Team]
		if !ok {
			row = &LeagueOverviewRow{Team: c.Team}
			byTeam[c.Team] = row
			order = append(order, c.Team)
		}
		row.TotalCapHit += c.CapHit
		row.PlayerCount++
	}

	out := make([]LeagueOverviewRow, 0, len(order))
	for _, team := range order {
		out = append(out, *byTeam[team])
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].TotalCapHit > out[j].TotalCapHit
	})
	return out, nil
}

// DepthChartSlot groups one team's contracted players by position.
type DepthChartSlot struct {
	Position string
	Players  []Contract
}

// DepthChart groups team's roster-counted contracts for season by
// position, each group sorted by cap hit descending (the way a coach
// reads depth charts top-down by cost/usage).
func (s *Store) DepthChart(ctx context.Context, team, season string) ([]DepthChartSlot, *apperr.Error) {
	rows, err := s.queryContracts(ctx, "WHERE team = ? AND season = ?", team, season)
	if err != nil {
		return nil, err
	}

	byPos := make(map[string][]Contract)
	var order []string
	for _, c := range rows {
		if !capCountedStatuses[c.RosterStatus] {
			continue
		}
		if _, ok := byPos[c.Position]; !ok {
			order = append(order, c.Position)
		}
		byPos[c.Position] = append(byPos[c.Position], c)
	}

	out := make([]DepthChartSlot, 0, len(order))
	for _, pos := range order {
		players := byPos[pos]
		sort.SliceStable(players, func(i, j int) bool {
			return players[i].CapHit > players[j].CapHit
		})
		out = append(out, DepthChartSlot{Position: pos, Players: players})
	}
	return out, nil
}
