package market

import (
	"context"
	"time"

	"github.com/jaredshillingburg/icehockey-analytics/apperr"
)

// maxListLimit bounds ListTrades the same way clips.Repo.List bounds its
// own listings, to avoid an unbounded scan against the warehouse.
const maxListLimit = 500

// TradeRecord is one row of the league trade ledger, populated by the
// same ingestion pipeline that lands contracts/cap parquet, per
// spec.md §4.5's "CapSummary / TradeRecord / MarketComparable" domain
// type list.
type TradeRecord struct {
	ID          string
	Date        time.Time
	TeamFrom    string
	TeamTo      string
	PlayerNames []string
	CapImpact   float64
}

// CreateTradesSchema creates the trade-ledger table, mirroring
// Store.CreateSchema's idempotent-DDL idiom.
func (s *Store) CreateTradesSchema(ctx context.Context) error {
	if s.disableWarehouse {
		return nil
	}
	query := `
		CREATE TABLE IF NOT EXISTS trades (
			id TEXT NOT NULL,
			trade_date TIMESTAMP NOT NULL,
			team_from TEXT NOT NULL,
			team_to TEXT NOT NULL,
			player_names TEXT NOT NULL,
			cap_impact DOUBLE NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_trades_team_from ON trades(team_from);
		CREATE INDEX IF NOT EXISTS idx_trades_team_to ON trades(team_to);
	`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return apperr.Wrap(err, apperr.Internal, "market.CreateTradesSchema")
	}
	return nil
}

// ListTrades returns the most recent trades involving team (both sides),
// or the whole ledger when team is empty, newest first.
func (s *Store) ListTrades(ctx context.Context, team string, limit int) ([]TradeRecord, *apperr.Error) {
	if limit <= 0 || limit > maxListLimit {
		limit = maxListLimit
	}
	if s.disableWarehouse {
		return nil, nil
	}

	query := `
		SELECT id, trade_date, team_from, team_to, player_names, cap_impact
		FROM trades
		WHERE (? = '' OR team_from = ? OR team_to = ?)
		ORDER BY trade_date DESC
		LIMIT ?`

	rows, err := s.db.QueryContext(ctx, query, team, team, team, limit)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "market.ListTrades")
	}
	defer rows.Close()

	var out []TradeRecord
	for rows.Next() {
		var t TradeRecord
		var names string
		if err := rows.Scan(&t.ID, &t.Date, &t.TeamFrom, &t.TeamTo, &names, &t.CapImpact); err != nil {
			return nil, apperr.Wrap(err, apperr.Internal, "market.ListTrades.scan")
		}
		t.PlayerNames = splitNames(names)
		out = append(out, t)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "market.ListTrades.rows")
	}
	return out, nil
}

func splitNames(s string) []string {
	var out []string
	start := 0
	for i := 0; i < len(s); i++ {
		if s[i] == '|' {
			if i > start {
				out = append(out, s[start:i])
			}
			start = i + 1
		}
	}
	if start < len(s) {
		out = append(out, s[start:])
	}
	return out
}
