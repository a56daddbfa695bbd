package analytics

import "sort"

// PlayerGameRow is one player's single-game columnar record, the shape
// the rolling-window player-game logs are fed in as per spec.md §4.4.
type PlayerGameRow struct {
	PlayerID          string
	PlayerName        string
	TOI               string // MM:SS, seconds, or float — parsed via ParseTOI
	EVPrimaryPts      float64
	IndividualXG      float64
	ShotAssists       float64
	ControlledEntries float64
	OnIceXGFPct       float64 // already a percentage (0-100), carried as-is
}

// PFIResult is one player's scored row in a PFI leaderboard.
type PFIResult struct {
	PlayerID    string
	PlayerName  string
	Score       float64
	Trend       string // "up", "stable", "down"
	GamesPlayed int
}

const minGamesForPFI = 3

type cohortEntry struct {
	playerID, playerName                       string
	games                                       int
	evRate, ixgRate, saRate, entryRate, xgfPct float64
	perGameComposite                            []float64
}

// PFITopN computes the Player Form Index leaderboard across rows grouped
// by player, returning at most topN results sorted by score desc. Players
// with fewer than minGamesForPFI games in the window are excluded.
func PFITopN(rows []PlayerGameRow, topN int) []PFIResult {
	if topN <= 0 {
		topN = 10
	}

	type accumulator struct {
		playerID, playerName string
		rows                 []PlayerGameRow
	}
	byPlayer := map[string]*accumulator{}
	order := []string{}
	for _, r := range rows {
		acc, ok := byPlayer[r.PlayerID]
		if !ok {
			acc = &accumulator{playerID: r.PlayerID, playerName: r.PlayerName}
			byPlayer[r.PlayerID] = acc
			order = append(order, r.PlayerID)
		}
		acc.rows = append(acc.rows, r)
	}

	cohort := make([]cohortEntry, 0, len(order))
	for _, id := range order {
		acc := byPlayer[id]
		if len(acc.rows) < minGamesForPFI {
			continue
		}
		var evSum, ixgSum, saSum, entrySum, xgfSum float64
		perGame := make([]float64, len(acc.rows))
		for i, row := range acc.rows {
			toi := ParseTOI(row.TOI)
			ev := per60(row.EVPrimaryPts, toi)
			ixg := per60(row.IndividualXG, toi)
			sa := per60(row.ShotAssists, toi)
			entries := per60(row.ControlledEntries, toi)
			evSum += ev
			ixgSum += ixg
			saSum += sa
			entrySum += entries
			xgfSum += row.OnIceXGFPct
			perGame[i] = 0.35*ev + 0.25*ixg + 0.15*sa + 0.15*entries + 0.10*row.OnIceXGFPct
		}
		n := float64(len(acc.rows))
		cohort = append(cohort, cohortEntry{
			playerID:         acc.playerID,
			playerName:       acc.playerName,
			games:            len(acc.rows),
			evRate:           evSum / n,
			ixgRate:          ixgSum / n,
			saRate:           saSum / n,
			entryRate:        entrySum / n,
			xgfPct:           xgfSum / n,
			perGameComposite: perGame,
		})
	}

	if len(cohort) == 0 {
		return []PFIResult{}
	}

	evRates := make([]float64, len(cohort))
	ixgRates := make([]float64, len(cohort))
	saRates := make([]float64, len(cohort))
	entryRates := make([]float64, len(cohort))
	xgfPcts := make([]float64, len(cohort))
	for i, c := range cohort {
		evRates[i] = c.evRate
		ixgRates[i] = c.ixgRate
		saRates[i] = c.saRate
		entryRates[i] = c.entryRate
		xgfPcts[i] = c.xgfPct
	}

	evZ := zScores(evRates)
	ixgZ := zScores(ixgRates)
	saZ := zScores(saRates)
	entryZ := zScores(entryRates)
	xgfZ := zScores(xgfPcts)

	composite := make([]float64, len(cohort))
	for i := range cohort {
		composite[i] = 0.35*evZ[i] + 0.25*ixgZ[i] + 0.15*saZ[i] + 0.15*entryZ[i] + 0.10*xgfZ[i]
	}
	compositeMean := mean(composite)
	compositeStd := stddev(composite)

	results := make([]PFIResult, len(cohort))
	for i, c := range cohort {
		score := 50.0
		if compositeStd != 0 {
			score = 50 + 15*(composite[i]-compositeMean)/compositeStd
		}
		score = clamp(score, 0, 100)
		results[i] = PFIResult{
			PlayerID:    c.playerID,
			PlayerName:  c.playerName,
			Score:       score,
			GamesPlayed: c.games,
			Trend:       trendFor(c.perGameComposite),
		}
	}

	sort.SliceStable(results, func(i, j int) bool { return results[i].Score > results[j].Score })
	if len(results) > topN {
		results = results[:topN]
	}
	return results
}

// trendFor partitions a player's unweighted per-game composite series into
// recent/prior halves (k = clamp(window/2, 2, 5)) and buckets the delta.
func trendFor(perGame []float64) string {
	window := len(perGame)
	k := int(clamp(float64(window/2), 2, 5))
	if window < 2*k {
		return "stable"
	}
	recent := perGame[window-k:]
	prior := perGame[window-2*k : window-k]
	delta := mean(recent) - mean(prior)

	deltas := make([]float64, 0, window-1)
	for i := 1; i < window; i++ {
		deltas = append(deltas, perGame[i]-perGame[i-1])
	}
	threshold := 0.05
	if sd := stddev(deltas); 0.35*sd > threshold {
		threshold = 0.35 * sd
	}

	switch {
	case delta > threshold:
		return "up"
	case delta < -threshold:
		return "down"
	default:
		return "stable"
	}
}
