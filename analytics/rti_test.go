package analytics

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRTITopN_EmptyInputReturnsEightDefaultRows(t *testing.T) {
	results := RTITopN(nil)
	assert.Len(t, results, 8)
	for _, r := range results {
		assert.Equal(t, 50.0, r.Score)
	}
}

func TestRTITopN_SortedDescending(t *testing.T) {
	inputs := []RTIInput{
		{TeamCode: "A", XGFPct: 40, PointsPct: 40, SpecialTeamsNet: -10, GoalShare5v5: 40},
		{TeamCode: "B", XGFPct: 60, PointsPct: 65, SpecialTeamsNet: 10, GoalShare5v5: 60},
	}
	results := RTITopN(inputs)
	assert.Equal(t, "B", results[0].TeamCode)
	assert.True(t, results[0].Score > results[1].Score)
}

func TestRTITopN_ScoreIsAlwaysFinite(t *testing.T) {
	inputs := []RTIInput{
		{TeamCode: "NAN", XGFPct: math.NaN(), PointsPct: math.Inf(1), SpecialTeamsNet: math.NaN(), GoalShare5v5: math.NaN()},
	}
	results := RTITopN(inputs)
	require := assert.New(t)
	for _, r := range results {
		require.False(math.IsNaN(r.Score))
		require.False(math.IsInf(r.Score, 0))
	}
}
