package analytics

// leaguePPBaseline and leaguePKBaseline are the 20/80 special-teams
// baselines special_teams_matchup.go clamps advantage metrics against.
const (
	leaguePPBaseline = 20.0
	leaguePKBaseline = 80.0
)

// TeamGameRow is one team's single-game columnar record for the Team
// Trends rolling window.
type TeamGameRow struct {
	TeamCode    string
	XGF, XGA    float64
	CF, CA      float64 // shot attempts for/against
	TOIMinutes  float64
	PPOpportunities, PPGoals float64
	PKOpportunities, PKGoalsAllowed float64
	ShotsFor, GoalsFor float64
	ShotsAgainst, GoalsAgainstSkater float64 // opponent shots faced by our goalie
}

// PDOStatus bands a team's PDO against spec.md §4.4.2 thresholds.
type PDOStatus string

const (
	PDOHot        PDOStatus = "hot"
	PDOCold       PDOStatus = "cold"
	PDOSustainable PDOStatus = "sustainable"
)

// TeamTrend is the computed trend block for a single team's window.
type TeamTrend struct {
	TeamCode        string
	XGFPct          float64
	SpecialTeamsNet float64
	PaceCFPer60     float64
	PaceCAPer60     float64
	PaceCFPct       float64
	PDO             float64
	PDOStatus       PDOStatus
}

// ComputeTeamTrend aggregates a team's rolling window into the Team
// Trends block of spec.md §4.4.2.
func ComputeTeamTrend(teamCode string, rows []TeamGameRow) TeamTrend {
	var xgfSum, xgaSum, cfSum, caSum, toiSum float64
	var ppOpp, ppGoals, pkOpp, pkGoalsAllowed float64
	var shotsFor, goalsFor, shotsAgainst, goalsAgainst float64

	for _, r := range rows {
		xgfSum += r.XGF
		xgaSum += r.XGA
		cfSum += r.CF
		caSum += r.CA
		toiSum += r.TOIMinutes
		ppOpp += r.PPOpportunities
		ppGoals += r.PPGoals
		pkOpp += r.PKOpportunities
		pkGoalsAllowed += r.PKGoalsAllowed
		shotsFor += r.ShotsFor
		goalsFor += r.GoalsFor
		shotsAgainst += r.ShotsAgainst
		goalsAgainst += r.GoalsAgainstSkater
	}

	xgfPct := safeDiv(xgfSum, xgfSum+xgaSum, 0.5) * 100
	if xgfSum+xgaSum == 0 {
		xgfPct = 50
	}

	ppPct := safeDiv(ppGoals, ppOpp, leaguePPBaseline/100) * 100
	pkPct := (1 - safeDiv(pkGoalsAllowed, pkOpp, 1-leaguePKBaseline/100)) * 100
	stNet := ppPct + pkPct - 100

	paceCFPer60 := per60(cfSum, toiSum*60)
	paceCAPer60 := per60(caSum, toiSum*60)
	paceCFPct := safeDiv(cfSum, cfSum+caSum, 0.5) * 100

	shootingPct := safeDiv(goalsFor, shotsFor, 0) * 100
	savePct := (1 - safeDiv(goalsAgainst, shotsAgainst, 0)) * 100
	pdo := shootingPct + savePct

	status := PDOSustainable
	switch {
	case pdo > 102:
		status = PDOHot
	case pdo < 98:
		status = PDOCold
	}

	return TeamTrend{
		TeamCode:        teamCode,
		XGFPct:          clamp(xgfPct, 0, 100),
		SpecialTeamsNet: stNet,
		PaceCFPer60:     paceCFPer60,
		PaceCAPer60:     paceCAPer60,
		PaceCFPct:       clamp(paceCFPct, 0, 100),
		PDO:             pdo,
		PDOStatus:       status,
	}
}
