package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func gameRows(playerID string, games int, base float64) []PlayerGameRow {
	rows := make([]PlayerGameRow, games)
	for i := 0; i < games; i++ {
		rows[i] = PlayerGameRow{
			PlayerID:          playerID,
			PlayerName:        "Player " + playerID,
			TOI:               "18:30",
			EVPrimaryPts:      base + float64(i)*0.1,
			IndividualXG:      base * 0.2,
			ShotAssists:       base * 0.5,
			ControlledEntries: base * 0.3,
			OnIceXGFPct:       50 + base,
		}
	}
	return rows
}

func TestPFITopN_ExcludesPlayersBelowMinGames(t *testing.T) {
	rows := append(gameRows("1", 5, 1.0), gameRows("2", 2, 5.0)...)
	results := PFITopN(rows, 10)
	for _, r := range results {
		assert.NotEqual(t, "2", r.PlayerID)
	}
}

func TestPFITopN_ScoresWithinBounds(t *testing.T) {
	rows := append(gameRows("1", 10, 0.5), gameRows("2", 10, 3.0)...)
	rows = append(rows, gameRows("3", 10, -1.0)...)
	results := PFITopN(rows, 10)
	require := assert.New(t)
	for _, r := range results {
		require.GreaterOrEqual(r.Score, 0.0)
		require.LessOrEqual(r.Score, 100.0)
		require.Contains([]string{"up", "stable", "down"}, r.Trend)
	}
}

func TestPFITopN_SortedDescendingAndRespectsTopN(t *testing.T) {
	rows := append(gameRows("1", 10, 0.2), gameRows("2", 10, 5.0)...)
	rows = append(rows, gameRows("3", 10, -2.0)...)
	results := PFITopN(rows, 2)
	assert.Len(t, results, 2)
	assert.GreaterOrEqual(t, results[0].Score, results[1].Score)
}

func TestPFITopN_EmptyInputReturnsEmptySlice(t *testing.T) {
	results := PFITopN(nil, 10)
	assert.Empty(t, results)
}

func TestTrendFor_RisingSeriesIsUp(t *testing.T) {
	series := []float64{0.1, 0.1, 0.1, 0.1, 2.0, 2.0, 2.0, 2.0}
	assert.Equal(t, "up", trendFor(series))
}

func TestTrendFor_FlatSeriesIsStable(t *testing.T) {
	series := []float64{1.0, 1.0, 1.0, 1.0, 1.0, 1.0}
	assert.Equal(t, "stable", trendFor(series))
}
