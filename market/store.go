// Package market implements the Market Analytics module of spec.md §4.5:
// contract resolution, team cap summaries, position-weighted contract
// efficiency, comparables similarity, and the CSV contract-detail reader.
// Its columnar store is grounded on cartographus's internal/audit and
// internal/eventprocessor DuckDB stores (database/sql over the duckdb
// driver, QueryContext + manual Scan, parameterized queries).
package market

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jaredshillingburg/icehockey-analytics/apperr"
)

// Store wraps a DuckDB connection holding the columnar contracts/cap/roster
// datasets described in spec.md §6 ("Columnar datasets live in an object
// store under well-known prefixes for contracts, cap, rosters...").
type Store struct {
	db                *sql.DB
	disableWarehouse  bool
	parquetRoot       string
	contractsCSVRoot  string
}

// NewStore wires a DuckDB-backed Store. When disableWarehouse is true
// (MARKET_DISABLE_BIGQUERY), contract resolution falls back to reading
// Parquet files directly from parquetRoot via DuckDB's parquet_scan,
// rather than querying pre-registered warehouse tables.
func NewStore(db *sql.DB, disableWarehouse bool, parquetRoot, contractsCSVRoot string) *Store {
	return &Store{
		db:               db,
		disableWarehouse: disableWarehouse,
		parquetRoot:      parquetRoot,
		contractsCSVRoot: contractsCSVRoot,
	}
}

// CreateSchema creates the contracts table (with its player and
// team/season indexes) this package reads from, mirroring cartographus's
// CreateTable idempotent-DDL pattern.
func (s *Store) CreateSchema(ctx context.Context) error {
	if s.disableWarehouse {
		return nil
	}
	query := `
		CREATE TABLE IF NOT EXISTS contracts (
			player_id TEXT NOT NULL,
			player_name TEXT NOT NULL,
			team TEXT NOT NULL,
			season TEXT NOT NULL,
			position TEXT NOT NULL,
			cap_hit DOUBLE NOT NULL,
			aav DOUBLE NOT NULL,
			roster_status TEXT NOT NULL,
			age INTEGER,
			contract_years INTEGER,
			performance_index DOUBLE
		);
		CREATE INDEX IF NOT EXISTS idx_contracts_player ON contracts(player_id);
		CREATE INDEX IF NOT EXISTS idx_contracts_team_season ON contracts(team, season);
	`
	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return fmt.Errorf("market: create schema: %w", err)
	}
	return nil
}

func (s *Store) queryContracts(ctx context.Context, where string, args ...any) ([]Contract, *apperr.Error) {
	table := "contracts"
	if s.disableWarehouse {
		table = fmt.Sprintf("parquet_scan('%s/contracts/*.parquet')", s.parquetRoot)
	}
	query := fmt.Sprintf(`
		SELECT player_id, player_name, team, season, position, cap_hit, aav,
		       roster_status, age, contract_years, performance_index
		FROM %s %s`, table, where)

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "market.queryContracts")
	}
	defer rows.Close()

	var out []Contract
	for rows.Next() {
		var c Contract
		var age, years sql.NullInt64
		var perf sql.NullFloat64
		if err := rows.Scan(&c.PlayerID, &c.PlayerName, &c.Team, &c.Season, &c.Position,
			&c.CapHit, &c.AAV, &c.RosterStatus, &age, &years, &perf); err != nil {
			return nil, apperr.Wrap(err, apperr.Internal, "market.queryContracts.scan")
		}
		if age.Valid {
			c.Age = int(age.Int64)
		}
		if years.Valid {
			c.ContractYears = int(years.Int64)
		}
		if perf.Valid {
			v := perf.Float64
			c.PerformanceIndex = &v
		}
		out = append(out, c)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(err, apperr.Internal, "market.queryContracts.rows")
	}
	return out, nil
}
