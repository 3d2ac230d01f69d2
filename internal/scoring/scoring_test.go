package scoring

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCompute_BattingOnly(t *testing.T) {
	m := Compute(Counters{
		TotalRuns:     500,
		BallsFaced:    400,
		InningsPlayed: 10,
	})

	assert.Equal(t, 125.0, m.BattingStrikeRate)
	assert.Equal(t, 50.0, m.BattingAverage)
	assert.Equal(t, 0.0, m.BowlingStrikeRate)
	assert.Equal(t, 0.0, m.Economy)
	// 125/5 + 50*0.8 + 500/125 = 25 + 40 + 4
	assert.Equal(t, 69.0, m.Points)
	// (9*69+100)*1000 = 721,000 -> nearest 50,000 is 700,000
	assert.Equal(t, int64(700000), m.Value)
}

func TestCompute_BowlingOnly(t *testing.T) {
	m := Compute(Counters{
		Wickets:      10,
		OversBowled:  50,
		RunsConceded: 300,
	})

	assert.Equal(t, 30.0, m.BowlingStrikeRate)
	assert.Equal(t, 6.0, m.Economy)
	// Batting terms are all zero, so points = 140/economy only.
	assert.InDelta(t, 140.0/6.0, m.Points, 0.01)
}

func TestCompute_TotalOverZeroDenominators(t *testing.T) {
	cases := []struct {
		name string
		in   Counters
	}{
		{"all zero", Counters{}},
		{"no balls faced", Counters{TotalRuns: 100, InningsPlayed: 5}},
		{"no innings", Counters{TotalRuns: 100, BallsFaced: 80}},
		{"no wickets", Counters{OversBowled: 10, RunsConceded: 60}},
		{"no overs", Counters{Wickets: 5, RunsConceded: 60}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			m := Compute(tc.in)
			for _, v := range []float64{m.BattingStrikeRate, m.BattingAverage, m.BowlingStrikeRate, m.Economy, m.Points} {
				assert.False(t, math.IsNaN(v), "no metric may be NaN")
				assert.False(t, math.IsInf(v, 0), "no metric may be Inf")
				assert.GreaterOrEqual(t, v, 0.0)
			}
		})
	}
}

func TestValuation_RoundsToNearestFiftyThousand(t *testing.T) {
	// points 0 -> 100,000 flat
	assert.Equal(t, int64(100000), Valuation(0))
	// (9*69+100)*1000 = 721,000 -> 700,000
	assert.Equal(t, int64(700000), Valuation(69))
	// (9*75+100)*1000 = 775,000 -> exactly halfway, rounds up
	assert.Equal(t, int64(800000), Valuation(75))
}

func TestValuation_StableAcrossRecomputation(t *testing.T) {
	// Seed-time and on-demand recomputation share one rounding policy; computing
	// twice from the same counters must agree.
	c := Counters{TotalRuns: 321, BallsFaced: 250, InningsPlayed: 7, Wickets: 3, OversBowled: 12, RunsConceded: 90}
	assert.Equal(t, Compute(c).Value, Compute(c).Value)
}
