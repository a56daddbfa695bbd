package market

import "math"

// ComparablesInputs is the subset of a player's profile used to rank and
// filter comparable contracts, per spec.md §4.5.
type ComparablesInputs struct {
	Age              int
	ProductionPer60  float64
	PositionType     string // "forward", "defense", "goalie"
	Position         string
	ContractSignYear int
	CapHitPercentage float64 // cap hit as % of the cap ceiling
}

// ComparablesSimilarity scores how similar candidate is to target on a
// 0-100 scale, combining the five weighted sub-scores of spec.md §4.5.
func ComparablesSimilarity(target, candidate ComparablesInputs) float64 {
	ageGap := math.Abs(float64(target.Age - candidate.Age))
	ageScore := clamp(25-3*ageGap, 0, 25)

	prodScore := 0.0
	if target.ProductionPer60 > 0 && candidate.ProductionPer60 > 0 {
		ratio := minMaxRatio(target.ProductionPer60, candidate.ProductionPer60)
		prodScore = 35 * ratio
	}

	posScore := 0.0
	if target.Position == candidate.Position {
		posScore = 15
	} else if target.PositionType == candidate.PositionType {
		posScore = 7.5
	}

	eraGap := math.Abs(float64(target.ContractSignYear - candidate.ContractSignYear))
	eraScore := clamp(10-eraGap, 0, 10)

	capGap := math.Abs(target.CapHitPercentage - candidate.CapHitPercentage)
	capScore := clamp(15-capGap, 0, 15)

	return clamp(ageScore+prodScore+posScore+eraScore+capScore, 0, 100)
}

// minMaxRatio returns min(a,b)/max(a,b), 0 when either is non-positive.
func minMaxRatio(a, b float64) float64 {
	if a <= 0 || b <= 0 {
		return 0
	}
	if a > b {
		return b / a
	}
	return a / b
}
