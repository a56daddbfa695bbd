package market

import (
	"context"
	"strings"

	"github.com/jaredshillingburg/icehockey-analytics/apperr"
)

// Contract is a merged columnar contract record.
type Contract struct {
	PlayerID          string
	PlayerName        string
	Team              string
	Season            string
	Position          string
	CapHit            float64
	AAV               float64
	RosterStatus      string // "NHL", "IR", "LTIR", "minor", "soir"
	Age               int
	ContractYears     int
	PerformanceIndex  *float64
}

// ResolveContract finds the merged contract view for a player identified
// by id or a case-insensitive partial name match, optionally narrowed by
// team/season. The first matching record is returned; spec.md §4.5
// instructs callers to disambiguate with team when name search is
// ambiguous, so this does not attempt fuzzy ranking beyond that.
func (s *Store) ResolveContract(ctx context.Context, playerIDOrName, team, season string) (*Contract, *apperr.Error) {
	var where strings.Builder
	var args []any

	where.WriteString("WHERE ")
	if isNumericID(playerIDOrName) {
		where.WriteString("player_id = ?")
		args = append(args, playerIDOrName)
	} else {
		where.WriteString("LOWER(player_name) LIKE ?")
		args = append(args, "%"+strings.ToLower(playerIDOrName)+"%")
	}
	if team != "" {
		where.WriteString(" AND team = ?")
		args = append(args, team)
	}
	if season != "" {
		where.WriteString(" AND season = ?")
		args = append(args, season)
	}
	where.WriteString(" ORDER BY season DESC")

	rows, err := s.queryContracts(ctx, where.String(), args...)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, apperr.New(apperr.NotFound, "market.ResolveContract", "no contract found for player").
			WithCode("player_not_found")
	}
	return &rows[0], nil
}

func isNumericID(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}
