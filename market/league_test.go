package market

import (
	"context"
	"testing"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func contractRows() *sqlmock.Rows {
	return sqlmock.NewRows([]string{
		"player_id", "player_name", "team", "season", "position", "cap_hit", "aav",
		"roster_status", "age", "contract_years", "performance_index",
	})
}

func TestLeagueOverview_AggregatesByTeamExcludingMinors(t *testing.T) {
	store, mock := newMockMarketStore(t)

	rows := contractRows().
		AddRow("1", "Nick Suzuki", "MTL", "2025-2026", "C", 7875000.0, 7875000.0, "NHL", 25, 8, nil).
		AddRow("2", "Cole Caufield", "MTL", "2025-2026", "RW", 7850000.0, 7850000.0, "NHL", 24, 8, nil).
		AddRow("3", "Prospect X", "MTL", "2025-2026", "LW", 800000.0, 800000.0, "minor", 20, 3, nil).
		AddRow("4", "Auston Matthews", "TOR", "2025-2026", "C", 13250000.0, 13250000.0, "NHL", 27, 4, nil)
	mock.ExpectQuery("SELECT player_id, player_name, team, season, position, cap_hit, aav").
		WithArgs("2025-2026").
		WillReturnRows(rows)

	overview, apiErr := store.LeagueOverview(context.Background(), "2025-2026")
	require.Nil(t, apiErr)
	require.Len(t, overview, 2)
	assert.Equal(t, "TOR", overview[0].Team)
	assert.Equal(t, 13250000.0, overview[0].TotalCapHit)
	assert.Equal(t, "MTL", overview[1].Team)
	assert.Equal(t, 2, overview[1].PlayerCount)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestDepthChart_GroupsByPositionSortedByCapHit(t *testing.T) {
	store, mock := newMockMarketStore(t)

	rows := contractRows().
		AddRow("1", "Nick Suzuki", "MTL", "2025-2026", "C", 7875000.0, 7875000.0, "NHL", 25, 8, nil).
		AddRow("2", "Kirby Dach", "MTL", "2025-2026", "C", 3362500.0, 3362500.0, "NHL", 24, 3, nil).
		AddRow("3", "Cole Caufield", "MTL", "2025-2026", "RW", 7850000.0, 7850000.0, "NHL", 24, 8, nil)
	mock.ExpectQuery("SELECT player_id, player_name, team, season, position, cap_hit, aav").
		WithArgs("MTL", "2025-2026").
		WillReturnRows(rows)

	chart, apiErr := store.DepthChart(context.Background(), "MTL", "2025-2026")
	require.Nil(t, apiErr)
	require.Len(t, chart, 2)
	assert.Equal(t, "C", chart[0].Position)
	require.Len(t, chart[0].Players, 2)
	assert.Equal(t, "Nick Suzuki", chart[0].Players[0].PlayerName)
	assert.Equal(t, "RW", chart[1].Position)
	require.NoError(t, mock.ExpectationsWereMet())
}
