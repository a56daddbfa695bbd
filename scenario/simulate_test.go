package scenario

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleSnapshot() RosterSnapshot {
	players := make([]RosterPlayer, 0, 20)
	for i := 0; i < 12; i++ {
		players = append(players, RosterPlayer{PlayerID: forwardID(i), Position: "F", CapHit: 2_000_000, Status: StatusNHL})
	}
	for i := 0; i < 6; i++ {
		players = append(players, RosterPlayer{PlayerID: defenseID(i), Position: "D", CapHit: 3_000_000, Status: StatusNHL})
	}
	for i := 0; i < 2; i++ {
		players = append(players, RosterPlayer{PlayerID: goalieID(i), Position: "G", CapHit: 4_000_000, Status: StatusNHL})
	}
	return RosterSnapshot{TeamCode: "MTL", Season: "2025-2026", Players: players}
}

func forwardID(i int) string { return fmt.Sprintf("f%d", i) }
func defenseID(i int) string { return fmt.Sprintf("d%d", i) }
func goalieID(i int) string  { return fmt.Sprintf("g%d", i) }

func TestSimulate_FullCoverageScoresOne(t *testing.T) {
	rules := CapRules{Ceiling: 90_000_000, Floor: 40_000_000}
	result := Simulate(SimulateInput{Team: sampleSnapshot(), Rules: rules})

	assert.Equal(t, 1.0, result.After.CoverageScore)
	assert.Empty(t, result.Violations)
}

func TestSimulate_MissingSlotsReduceCoverage(t *testing.T) {
	snapshot := sampleSnapshot()
	snapshot.Players = snapshot.Players[:10] // keep 10 forwards only: 2 F, 6 D and 2 G missing

	rules := CapRules{Ceiling: 90_000_000, Floor: 10_000_000}
	result := Simulate(SimulateInput{Team: snapshot, Rules: rules})

	assert.Less(t, result.After.CoverageScore, 1.0)
	assert.GreaterOrEqual(t, result.After.CoverageScore, 0.0)
}

func TestSimulate_PlaceLTIRGrantsCapRelief(t *testing.T) {
	snapshot := sampleSnapshot()
	rules := CapRules{Ceiling: 40_000_000, Floor: 10_000_000} // deliberately tight

	actions := []Action{{Kind: PlaceLTIR, PlayerRef: "g0"}}
	result := Simulate(SimulateInput{Team: snapshot, Rules: rules, Actions: actions})

	assert.Equal(t, 4_000_000.0, result.After.LTIRRelief)
	assert.Equal(t, rules.Ceiling+4_000_000, result.After.EffectiveCeiling)
	// g0 no longer counts toward active roster size or cap hit.
	assert.Equal(t, 19, result.After.ActiveRosterSize)
}

func TestSimulate_CapCeilingViolationDetected(t *testing.T) {
	snapshot := sampleSnapshot()
	rules := CapRules{Ceiling: 10_000_000, Floor: 1_000_000}

	result := Simulate(SimulateInput{Team: snapshot, Rules: rules})

	require.NotEmpty(t, result.Violations)
	assert.Equal(t, "cap_ceiling", result.Violations[0].Rule)
}

func TestSimulate_UnknownPlayerRefProducesWarningNotError(t *testing.T) {
	snapshot := sampleSnapshot()
	rules := CapRules{Ceiling: 90_000_000, Floor: 1_000_000}

	actions := []Action{{Kind: CallUp, PlayerRef: "does-not-exist"}}
	result := Simulate(SimulateInput{Team: snapshot, Rules: rules, Actions: actions})

	require.Len(t, result.Warnings, 1)
	assert.Contains(t, result.Warnings[0], "does-not-exist")
}

func TestSimulate_TradeDeadlineCutoffFlagsAcquisition(t *testing.T) {
	snapshot := sampleSnapshot()
	rules := CapRules{Ceiling: 90_000_000, Floor: 1_000_000, TradeDeadlineDayOfSeason: 150}
	seasonStart := time.Date(2025, time.October, 1, 0, 0, 0, 0, time.UTC)
	asOf := seasonStart.AddDate(0, 0, 200)

	actions := []Action{{Kind: AcquirePlayer, PlayerRef: "new-guy", AcquireCapHit: 1_000_000, AcquirePosition: "F"}}
	result := Simulate(SimulateInput{Team: snapshot, Rules: rules, Actions: actions, AsOfDate: &asOf, SeasonStart: seasonStart})

	found := false
	for _, v := range result.Violations {
		if v.Rule == "trade_deadline" {
			found = true
		}
	}
	assert.True(t, found)
}

func TestIsWaiverExempt_YoungSigningUnderThresholds(t *testing.T) {
	p := RosterPlayer{AgeAtSigning: 18, NHLGamesPlayed: 10, NHLSeasons: 1}
	assert.True(t, IsWaiverExempt(p))
}

func TestIsWaiverExempt_VeteranNotExempt(t *testing.T) {
	p := RosterPlayer{AgeAtSigning: 25, NHLGamesPlayed: 400, NHLSeasons: 6}
	assert.False(t, IsWaiverExempt(p))
}
