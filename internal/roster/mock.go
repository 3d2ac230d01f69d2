package roster

import "sync"

// MockLedger is a test double for the Ledger interface. Behavior is
// overridden per test through the Func fields; calls are recorded.
type MockLedger struct {
	mu sync.Mutex

	CreateUserFunc   func(username string, budget int64) (*Account, error)
	AddPlayerFunc    func(accountID, playerID string) (*Account, error)
	RemovePlayerFunc func(accountID, playerID string) (*Account, error)
	GetAccountFunc   func(id string) (*Account, error)
	GetTeamFunc      func(accountID string) (*TeamView, error)
	LeaderboardFunc  func() ([]LeaderboardRow, error)

	AddPlayerCalls    []MutationCall
	RemovePlayerCalls []MutationCall
	CreateUserCalls   []string
}

// MutationCall records one roster mutation request.
type MutationCall struct {
	AccountID string
	PlayerID  string
}

var _ Ledger = (*MockLedger)(nil)

func NewMockLedger() *MockLedger {
	return &MockLedger{}
}

func (m *MockLedger) CreateUser(username string, budget int64) (*Account, error) {
	m.mu.Lock()
	m.CreateUserCalls = append(m.CreateUserCalls, username)
	m.mu.Unlock()
	if m.CreateUserFunc != nil {
		return m.CreateUserFunc(username, budget)
	}
	return &Account{ID: "mock-" + username, Username: username, Budget: budget, Team: []Entry{}}, nil
}

func (m *MockLedger) GetAccount(id string) (*Account, error) {
	if m.GetAccountFunc != nil {
		return m.GetAccountFunc(id)
	}
	return nil, ErrAccountNotFound
}

func (m *MockLedger) GetAccountByUsername(username string) (*Account, error) {
	if m.GetAccountFunc != nil {
		return m.GetAccountFunc(username)
	}
	return nil, ErrAccountNotFound
}

func (m *MockLedger) AddPlayer(accountID, playerID string) (*Account, error) {
	m.mu.Lock()
	m.AddPlayerCalls = append(m.AddPlayerCalls, MutationCall{AccountID: accountID, PlayerID: playerID})
	m.mu.Unlock()
	if m.AddPlayerFunc != nil {
		return m.AddPlayerFunc(accountID, playerID)
	}
	return &Account{ID: accountID, Team: []Entry{{PlayerID: playerID}}}, nil
}

func (m *MockLedger) RemovePlayer(accountID, playerID string) (*Account, error) {
	m.mu.Lock()
	m.RemovePlayerCalls = append(m.RemovePlayerCalls, MutationCall{AccountID: accountID, PlayerID: playerID})
	m.mu.Unlock()
	if m.RemovePlayerFunc != nil {
		return m.RemovePlayerFunc(accountID, playerID)
	}
	return &Account{ID: accountID, Team: []Entry{}}, nil
}

func (m *MockLedger) GetTeam(accountID string) (*TeamView, error) {
	if m.GetTeamFunc != nil {
		return m.GetTeamFunc(accountID)
	}
	return &TeamView{Team: []TeamPlayer{}}, nil
}

func (m *MockLedger) Leaderboard() ([]LeaderboardRow, error) {
	if m.LeaderboardFunc != nil {
		return m.LeaderboardFunc()
	}
	return []LeaderboardRow{}, nil
}
