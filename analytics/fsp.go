package analytics

// FSPBand names the five sentiment bands of spec.md §4.4.4.
type FSPBand string

const (
	FSPVeryPositive  FSPBand = "Very Positive"
	FSPPositive      FSPBand = "Positive"
	FSPNeutral       FSPBand = "Neutral"
	FSPConcerned     FSPBand = "Concerned"
	FSPVeryConcerned FSPBand = "Very Concerned"
)

// FSPResult is a team's Fan Sentiment Proxy score and band.
type FSPResult struct {
	TeamCode string
	Score    float64
	Band     FSPBand
}

// ComputeFSP assembles the Fan Sentiment Proxy from a team's trend block
// and its top-3 Player Form Index scores.
func ComputeFSP(teamCode string, trend TeamTrend, top3PFI []float64) FSPResult {
	score := 50.0
	score += (trend.XGFPct - 50) * 0.4
	score += trend.SpecialTeamsNet * 0.75

	switch trend.PDOStatus {
	case PDOHot:
		score += 5
	case PDOCold:
		score -= 5
	}

	starImpact := 0.0
	if len(top3PFI) > 0 {
		starImpact = (mean(top3PFI) - 50) * 0.3
	}
	score += starImpact

	score = clamp(score, 0, 100)

	return FSPResult{
		TeamCode: teamCode,
		Score:    score,
		Band:     bandFor(score),
	}
}

func bandFor(score float64) FSPBand {
	switch {
	case score >= 70:
		return FSPVeryPositive
	case score >= 55:
		return FSPPositive
	case score >= 45:
		return FSPNeutral
	case score >= 30:
		return FSPConcerned
	default:
		return FSPVeryConcerned
	}
}
