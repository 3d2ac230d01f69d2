package scoring

import "math"

// Counters holds a player's raw performance counters. All fields are
// non-negative; validation happens at the edges, not here.
type Counters struct {
	TotalRuns     int64
	BallsFaced    int64
	InningsPlayed int64
	Wickets       int64
	OversBowled   int64
	RunsConceded  int64
}

// Metrics holds the derived attributes computed from raw counters.
type Metrics struct {
	BattingStrikeRate float64 `json:"batting_sr"`
	BattingAverage    float64 `json:"batting_avg"`
	BowlingStrikeRate float64 `json:"bowling_sr"`
	Economy           float64 `json:"economy"`
	Points            float64 `json:"points"`
	Value             int64   `json:"value"`
}

// Compute derives all performance metrics from raw counters. It is total over
// non-negative input: every zero-denominator case yields 0, never NaN.
func Compute(c Counters) Metrics {
	var battingSR, battingAvg float64
	if c.BallsFaced > 0 {
		battingSR = float64(c.TotalRuns) / float64(c.BallsFaced) * 100
	}
	if c.InningsPlayed > 0 {
		battingAvg = float64(c.TotalRuns) / float64(c.InningsPlayed)
	}

	ballsBowled := float64(c.OversBowled) * 6
	var bowlingSR, economy float64
	if c.Wickets > 0 {
		bowlingSR = ballsBowled / float64(c.Wickets)
	}
	if ballsBowled > 0 {
		economy = float64(c.RunsConceded) / ballsBowled * 6
	}

	points := battingSR/5 + battingAvg*0.8
	if battingSR > 0 {
		points += 500 / battingSR
	}
	if economy > 0 {
		points += 140 / economy
	}

	return Metrics{
		BattingStrikeRate: round2(battingSR),
		BattingAverage:    round2(battingAvg),
		BowlingStrikeRate: round2(bowlingSR),
		Economy:           round2(economy),
		Points:            round2(points),
		Value:             Valuation(points),
	}
}

// Valuation converts composite points into a monetized value, rounded
// half-away-from-zero to the nearest multiple of 50,000. The same rounding
// applies at seed time, backfill, and on-demand recomputation so stored values
// never drift.
func Valuation(points float64) int64 {
	return int64(math.Round((9*points+100)*1000/50000)) * 50000
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
