package roster

import (
	"database/sql"
	"sync"

	"github.com/Mavithya/SpiritX-Telusko-02/internal/catalog"
	"github.com/Mavithya/SpiritX-Telusko-02/internal/metrics"
	"github.com/Mavithya/SpiritX-Telusko-02/internal/notifier"
	"github.com/Mavithya/SpiritX-Telusko-02/internal/realtime"
)

// TeamSize is the roster size at which a team counts as complete.
const TeamSize = 11

// Entry is a roster line item. Value and Points are frozen at acquisition
// time; later changes to the player's catalog record do not touch them.
type Entry struct {
	PlayerID string  `json:"player_id"`
	Value    int64   `json:"value"`
	Points   float64 `json:"points"`
}

// Account is a participant's ledger record.
type Account struct {
	ID          string  `json:"id"`
	Username    string  `json:"username"`
	Budget      int64   `json:"budget"`
	Team        []Entry `json:"team"`
	TotalPoints float64 `json:"total_points"`
	Version     int64   `json:"-"`
}

// Complete reports whether the roster holds a full team.
func (a *Account) Complete() bool {
	return len(a.Team) == TeamSize
}

// TeamPlayer is a roster entry hydrated with catalog identity fields for
// display.
type TeamPlayer struct {
	PlayerID   string `json:"player_id"`
	Name       string `json:"name"`
	University string `json:"university"`
	Category   string `json:"category"`
	Value      int64  `json:"value"`
}

// TeamView is the read model served to clients. TotalPoints is only
// populated once the team is complete.
type TeamView struct {
	Username    string       `json:"username"`
	Budget      int64        `json:"budget"`
	TeamSize    int          `json:"team_size"`
	Complete    bool         `json:"complete"`
	TotalPoints float64      `json:"total_points"`
	Team        []TeamPlayer `json:"team"`
}

// LeaderboardRow is a single ranked account.
type LeaderboardRow struct {
	Username    string  `json:"username"`
	TotalPoints float64 `json:"total_points"`
}

// PublishFunc delivers a post-commit roster change notification. Wired to
// the broadcaster in main; nil disables realtime fan-out.
type PublishFunc func(realtime.Notification)

type ledger struct {
	db      *sql.DB
	catalog catalog.Store
	publish PublishFunc
	notif   notifier.Notifier
	metrics metrics.Metrics

	mu    sync.Mutex
	locks map[string]*sync.Mutex
}
