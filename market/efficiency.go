package market

import "math"

// PositionBaseline holds the league-average baselines a player's raw
// production is ratio'd against for contract efficiency, per position
// group, per spec.md §4.5.
type PositionBaseline struct {
	PointsPer60    float64
	XGPer60        float64
	DefensiveValue float64
	SavePct        float64 // goalies only
	GSAx           float64 // goalies only
}

// SkaterInputs feeds the contract-efficiency composite for a skater.
type SkaterInputs struct {
	PointsPer60    float64
	XGPer60        float64
	DefensiveValue float64
	Age            int
	ContractYears  int
}

// GoalieInputs feeds the contract-efficiency composite for a goalie.
type GoalieInputs struct {
	SavePct       float64
	GSAx          float64
	Age           int
	ContractYears int
}

// EfficiencyStatus bands a contract-efficiency composite, per spec.md §4.5.
type EfficiencyStatus string

const (
	Overperforming  EfficiencyStatus = "overperforming"
	Fair            EfficiencyStatus = "fair"
	Underperforming EfficiencyStatus = "underperforming"
)

// ratioToBaseline computes value/baseline*100, clipped to [0, 200]; a
// zero or invalid baseline yields 100 (neutral), matching the numeric
// safety rule of spec.md §7.
func ratioToBaseline(value, baseline float64) float64 {
	if baseline == 0 || math.IsNaN(baseline) || math.IsInf(baseline, 0) {
		return 100
	}
	ratio := value / baseline * 100
	if math.IsNaN(ratio) || math.IsInf(ratio, 0) {
		return 100
	}
	return clamp(ratio, 0, 200)
}

// ageAdjustment implements the age curve of spec.md §4.5.
func ageAdjustment(age int) float64 {
	a := float64(age)
	switch {
	case a >= 24 && a <= 28:
		return 100
	case a < 24:
		return 85 + (a-20)*3.75
	default:
		return math.Max(50, 100-(a-28)*5)
	}
}

// termPenalty implements the term-length penalty of spec.md §4.5.
func termPenalty(years int) float64 {
	y := float64(years)
	switch {
	case y >= 3 && y <= 5:
		return 100
	case y < 3:
		return 70 + y*10
	default:
		return math.Max(60, 100-(y-5)*5)
	}
}

func statusFor(composite float64) EfficiencyStatus {
	switch {
	case composite >= 120:
		return Overperforming
	case composite >= 80:
		return Fair
	default:
		return Underperforming
	}
}

// SkaterEfficiency is the composite contract-efficiency score for a skater.
type SkaterEfficiency struct {
	Composite float64
	Status    EfficiencyStatus
}

// ComputeSkaterEfficiency composes the position-weighted contract
// efficiency score for a skater against a position baseline.
func ComputeSkaterEfficiency(in SkaterInputs, baseline PositionBaseline) SkaterEfficiency {
	ptsVal := ratioToBaseline(in.PointsPer60, baseline.PointsPer60)
	xgVal := ratioToBaseline(in.XGPer60, baseline.XGPer60)
	defVal := ratioToBaseline(in.DefensiveValue, baseline.DefensiveValue)
	ageVal := ageAdjustment(in.Age)
	termVal := termPenalty(in.ContractYears)

	composite := (ptsVal + xgVal + defVal + ageVal + termVal) / 5
	return SkaterEfficiency{Composite: composite, Status: statusFor(composite)}
}

// GoalieEfficiency is the composite contract-efficiency score for a goalie.
type GoalieEfficiency struct {
	Composite float64
	Status    EfficiencyStatus
}

// ComputeGoalieEfficiency composes the contract efficiency score for a
// goalie using save% and goals-saved-above-expected in place of the
// skater production sub-scores.
func ComputeGoalieEfficiency(in GoalieInputs, baseline PositionBaseline) GoalieEfficiency {
	saveVal := ratioToBaseline(in.SavePct, baseline.SavePct)
	gsaxVal := ratioToBaseline(in.GSAx, baseline.GSAx)
	ageVal := ageAdjustment(in.Age)
	termVal := termPenalty(in.ContractYears)

	composite := (saveVal + gsaxVal + ageVal + termVal) / 4
	return GoalieEfficiency{Composite: composite, Status: statusFor(composite)}
}
