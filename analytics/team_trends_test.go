package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComputeTeamTrend_XGFPctDefaultsTo50WhenUndefined(t *testing.T) {
	trend := ComputeTeamTrend("TOR", nil)
	assert.Equal(t, 50.0, trend.XGFPct)
}

func TestComputeTeamTrend_PDOBandingHot(t *testing.T) {
	rows := []TeamGameRow{
		{TeamCode: "TOR", ShotsFor: 100, GoalsFor: 15, ShotsAgainst: 100, GoalsAgainstSkater: 3},
	}
	trend := ComputeTeamTrend("TOR", rows)
	assert.Equal(t, PDOHot, trend.PDOStatus)
}

func TestComputeTeamTrend_PDOBandingCold(t *testing.T) {
	rows := []TeamGameRow{
		{TeamCode: "TOR", ShotsFor: 100, GoalsFor: 5, ShotsAgainst: 100, GoalsAgainstSkater: 15},
	}
	trend := ComputeTeamTrend("TOR", rows)
	assert.Equal(t, PDOCold, trend.PDOStatus)
}

func TestComputeTeamTrend_ComputesFromAggregatedRows(t *testing.T) {
	rows := []TeamGameRow{
		{
			TeamCode: "TOR", XGF: 2.5, XGA: 1.5, CF: 55, CA: 45, TOIMinutes: 60,
			PPOpportunities: 4, PPGoals: 1, PKOpportunities: 3, PKGoalsAllowed: 0,
			ShotsFor: 30, GoalsFor: 3, ShotsAgainst: 28, GoalsAgainstSkater: 2,
		},
		{
			TeamCode: "TOR", XGF: 2.0, XGA: 2.0, CF: 50, CA: 50, TOIMinutes: 60,
			PPOpportunities: 3, PPGoals: 1, PKOpportunities: 4, PKGoalsAllowed: 1,
			ShotsFor: 32, GoalsFor: 2, ShotsAgainst: 30, GoalsAgainstSkater: 3,
		},
	}
	trend := ComputeTeamTrend("TOR", rows)
	assert.Greater(t, trend.XGFPct, 50.0)
	assert.NotZero(t, trend.PaceCFPer60)
}
