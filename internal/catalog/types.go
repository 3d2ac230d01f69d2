package catalog

import (
	"database/sql"
	"sync"

	"github.com/Mavithya/SpiritX-Telusko-02/internal/scoring"
)

// store handles all database operations for the player catalog.
type store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Player is a catalog record: raw counters plus the derived attributes that
// are recomputed on every counter write, never hand-edited.
type Player struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	University string `json:"university"`
	Category   string `json:"category"`

	TotalRuns     int64 `json:"total_runs"`
	BallsFaced    int64 `json:"balls_faced"`
	InningsPlayed int64 `json:"innings_played"`
	Wickets       int64 `json:"wickets"`
	OversBowled   int64 `json:"overs_bowled"`
	RunsConceded  int64 `json:"runs_conceded"`

	BattingSR  float64 `json:"batting_sr"`
	BattingAvg float64 `json:"batting_avg"`
	BowlingSR  float64 `json:"bowling_sr"`
	Economy    float64 `json:"economy"`
	Points     float64 `json:"points"`
	Value      int64   `json:"value"`
}

// Counters extracts the raw performance counters for the scoring pipeline.
func (p *Player) Counters() scoring.Counters {
	return scoring.Counters{
		TotalRuns:     p.TotalRuns,
		BallsFaced:    p.BallsFaced,
		InningsPlayed: p.InningsPlayed,
		Wickets:       p.Wickets,
		OversBowled:   p.OversBowled,
		RunsConceded:  p.RunsConceded,
	}
}

// Filter narrows a catalog scan. The zero value matches every player.
type Filter struct {
	Category string
}

// Summary is the tournament-wide aggregate over the whole catalog.
type Summary struct {
	TotalRuns      int64       `json:"total_runs"`
	TotalWickets   int64       `json:"total_wickets"`
	TopScorer      TopPlayer   `json:"top_scorer"`
	TopWicketTaker TopPlayer   `json:"top_wicket_taker"`
}

// TopPlayer identifies the leader for one summary statistic.
type TopPlayer struct {
	Name       string `json:"name"`
	University string `json:"university"`
	Count      int64  `json:"count"`
}
