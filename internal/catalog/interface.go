package catalog

import (
	"errors"

	"github.com/Mavithya/SpiritX-Telusko-02/internal/scoring"
)

var (
	// ErrNotFound means no catalog record matched the given key.
	ErrNotFound = errors.New("player not found")
	// ErrDuplicateName means a record with that name already exists.
	ErrDuplicateName = errors.New("player name already exists")
)

// Store defines the interface for interacting with the player catalog.
type Store interface {
	GetPlayer(id string) (*Player, error)
	GetPlayerByName(name string) (*Player, error)
	ListPlayers(filter Filter) ([]Player, error)
	CreatePlayer(p *Player) error
	UpdatePlayer(p *Player) error
	DeletePlayer(id string) error
	UpdateDerivedMetrics(id string, m scoring.Metrics) error
	BackfillValues() (int, error)
	TournamentSummary() (*Summary, error)
}
