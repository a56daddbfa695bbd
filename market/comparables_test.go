package market

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComparablesSimilarity_IdenticalProfileScoresHigh(t *testing.T) {
	p := ComparablesInputs{
		Age: 27, ProductionPer60: 2.1, PositionType: "forward", Position: "C",
		ContractSignYear: 2023, CapHitPercentage: 8.5,
	}
	score := ComparablesSimilarity(p, p)
	assert.Equal(t, 100.0, score)
}

func TestComparablesSimilarity_DifferentPositionTypeScoresZeroPositionComponent(t *testing.T) {
	target := ComparablesInputs{Age: 27, ProductionPer60: 2.0, PositionType: "forward", Position: "C", ContractSignYear: 2023, CapHitPercentage: 8}
	candidate := ComparablesInputs{Age: 27, ProductionPer60: 2.0, PositionType: "defense", Position: "D", ContractSignYear: 2023, CapHitPercentage: 8}
	score := ComparablesSimilarity(target, candidate)
	assert.Less(t, score, 100.0)
}

func TestComparablesSimilarity_ScoreWithinBounds(t *testing.T) {
	target := ComparablesInputs{Age: 20, ProductionPer60: 0.1, PositionType: "goalie", Position: "G", ContractSignYear: 2010, CapHitPercentage: 20}
	candidate := ComparablesInputs{Age: 40, ProductionPer60: 5, PositionType: "forward", Position: "C", ContractSignYear: 2024, CapHitPercentage: 0}
	score := ComparablesSimilarity(target, candidate)
	assert.GreaterOrEqual(t, score, 0.0)
	assert.LessOrEqual(t, score, 100.0)
}
