package notifier

import "sync"

// Mock is a mock implementation of the Notifier interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu sync.Mutex

	// Call records
	TeamCompleteCalls []struct {
		Username    string
		TotalPoints float64
	}
	FeedDisruptedCalls []struct {
		Collection string
		Attempts   int
	}

	// Spies for method calls
	SendTeamCompleteFunc  func(username string, totalPoints float64) error
	SendFeedDisruptedFunc func(collection string, attempts int) error
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{}
}

// Reset clears all call records.
func (m *Mock) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TeamCompleteCalls = nil
	m.FeedDisruptedCalls = nil
}

func (m *Mock) SendTeamComplete(username string, totalPoints float64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.TeamCompleteCalls = append(m.TeamCompleteCalls, struct {
		Username    string
		TotalPoints float64
	}{username, totalPoints})
	if m.SendTeamCompleteFunc != nil {
		return m.SendTeamCompleteFunc(username, totalPoints)
	}
	return nil
}

func (m *Mock) SendFeedDisrupted(collection string, attempts int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.FeedDisruptedCalls = append(m.FeedDisruptedCalls, struct {
		Collection string
		Attempts   int
	}{collection, attempts})
	if m.SendFeedDisruptedFunc != nil {
		return m.SendFeedDisruptedFunc(collection, attempts)
	}
	return nil
}
