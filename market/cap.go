package market

import (
	"context"
	"sort"

	"github.com/jaredshillingburg/icehockey-analytics/apperr"
)

// capCountedStatuses are the roster statuses whose cap_hit counts toward
// the team cap summary; minor-league and "soir" rows are excluded per
// spec.md §4.5.
var capCountedStatuses = map[string]bool{
	"NHL": true,
	"IR":  true,
}

// CapSummaryRow is one player's contribution to a team's cap summary.
type CapSummaryRow struct {
	Contract
}

// CapSummary is a team's aggregated cap picture for a season.
type CapSummary struct {
	Team       string
	Season     string
	TotalCapHit float64
	Players    []CapSummaryRow
}

// TeamCapSummary sums cap hit over roster-counted players for (team,
// season), attaching per-player rows sorted by cap hit desc.
func (s *Store) TeamCapSummary(ctx context.Context, team, season string) (*CapSummary, *apperr.Error) {
	rows, err := s.queryContracts(ctx, "WHERE team = ? AND season = ?", team, season)
	if err != nil {
		return nil, err
	}

	summary := &CapSummary{Team: team, Season: season}
	for _, c := range rows {
		if !capCountedStatuses[c.RosterStatus] {
			continue
		}
		summary.TotalCapHit += c.CapHit
		summary.Players = append(summary.Players, CapSummaryRow{Contract: c})
	}

	sort.SliceStable(summary.Players, func(i, j int) bool {
		return summary.Players[i].CapHit > summary.Players[j].CapHit
	})

	return summary, nil
}
