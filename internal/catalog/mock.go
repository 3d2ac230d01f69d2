package catalog

import (
	"sync"

	"github.com/Mavithya/SpiritX-Telusko-02/internal/scoring"
)

// MockStore is a mock implementation of Store for testing.
// It is safe for concurrent use.
type MockStore struct {
	mu sync.Mutex

	// Spies for method calls
	GetPlayerFunc            func(id string) (*Player, error)
	ListPlayersFunc          func(filter Filter) ([]Player, error)
	UpdateDerivedMetricsFunc func(id string, m scoring.Metrics) error
	TournamentSummaryFunc    func() (*Summary, error)

	// Call records
	GetPlayerCalls            []string
	DeletePlayerCalls         []string
	UpdateDerivedMetricsCalls []string
	CreatedPlayers            []*Player
	UpdatedPlayers            []*Player
}

var _ Store = (*MockStore)(nil)

// NewMock creates a new mock Store.
func NewMock() *MockStore {
	return &MockStore{}
}

func (m *MockStore) GetPlayer(id string) (*Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.GetPlayerCalls = append(m.GetPlayerCalls, id)
	if m.GetPlayerFunc != nil {
		return m.GetPlayerFunc(id)
	}
	return nil, ErrNotFound
}

func (m *MockStore) GetPlayerByName(name string) (*Player, error) {
	return nil, ErrNotFound
}

func (m *MockStore) ListPlayers(filter Filter) ([]Player, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.ListPlayersFunc != nil {
		return m.ListPlayersFunc(filter)
	}
	return nil, nil
}

func (m *MockStore) CreatePlayer(p *Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreatedPlayers = append(m.CreatedPlayers, p)
	return nil
}

func (m *MockStore) UpdatePlayer(p *Player) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdatedPlayers = append(m.UpdatedPlayers, p)
	return nil
}

func (m *MockStore) DeletePlayer(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.DeletePlayerCalls = append(m.DeletePlayerCalls, id)
	return nil
}

func (m *MockStore) UpdateDerivedMetrics(id string, metrics scoring.Metrics) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.UpdateDerivedMetricsCalls = append(m.UpdateDerivedMetricsCalls, id)
	if m.UpdateDerivedMetricsFunc != nil {
		return m.UpdateDerivedMetricsFunc(id, metrics)
	}
	return nil
}

func (m *MockStore) BackfillValues() (int, error) {
	return 0, nil
}

func (m *MockStore) TournamentSummary() (*Summary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.TournamentSummaryFunc != nil {
		return m.TournamentSummaryFunc()
	}
	return &Summary{}, nil
}
