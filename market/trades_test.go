package market

import (
	"context"
	"testing"
	"time"

	sqlmock "github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newMockMarketStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return NewStore(db, false, "", ""), mock
}

func TestListTrades_FiltersByTeamAndSplitsPlayerNames(t *testing.T) {
	store, mock := newMockMarketStore(t)

	rows := sqlmock.NewRows([]string{"id", "trade_date", "team_from", "team_to", "player_names", "cap_impact"}).
		AddRow("t1", time.Now(), "MTL", "TOR", "Nick Suzuki|Cole Caufield", 1500000.0)
	mock.ExpectQuery("SELECT id, trade_date, team_from, team_to, player_names, cap_impact").
		WithArgs("MTL", "MTL", "MTL", maxListLimit).
		WillReturnRows(rows)

	trades, apiErr := store.ListTrades(context.Background(), "MTL", 0)
	require.Nil(t, apiErr)
	require.Len(t, trades, 1)
	assert.Equal(t, []string{"Nick Suzuki", "Cole Caufield"}, trades[0].PlayerNames)
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestListTrades_DisabledWarehouseReturnsEmpty(t *testing.T) {
	db, _, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	store := NewStore(db, true, "/parquet", "")

	trades, apiErr := store.ListTrades(context.Background(), "", 0)
	require.Nil(t, apiErr)
	assert.Empty(t, trades)
}

func TestSplitNames_SingleName(t *testing.T) {
	assert.Equal(t, []string{"Cole Caufield"}, splitNames("Cole Caufield"))
}

func TestSplitNames_Empty(t *testing.T) {
	assert.Empty(t, splitNames(""))
}

func TestCreateTradesSchema_DisabledWarehouseIsNoop(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()
	store := NewStore(db, true, "", "")

	require.NoError(t, store.CreateTradesSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}

func TestCreateTradesSchema_ExecutesDDL(t *testing.T) {
	store, mock := newMockMarketStore(t)
	mock.ExpectExec("CREATE TABLE IF NOT EXISTS trades").WillReturnResult(sqlmock.NewResult(0, 0))

	require.NoError(t, store.CreateTradesSchema(context.Background()))
	require.NoError(t, mock.ExpectationsWereMet())
}
