package realtime

import (
	"sync"
)

// MockObserver is a mock implementation of the Observer interface for testing.
// It is safe for concurrent use.
type MockObserver struct {
	mu sync.Mutex

	id string

	// SendFunc, when set, decides the outcome of each Send call.
	SendFunc func(n Notification) error

	// Call records
	SendCalls []Notification
}

// NewMockObserver creates a new mock observer with the given id.
func NewMockObserver(id string) *MockObserver {
	return &MockObserver{id: id}
}

func (m *MockObserver) ID() string {
	return m.id
}

// Send records the notification and executes the mock function if provided.
func (m *MockObserver) Send(n Notification) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendCalls = append(m.SendCalls, n)
	if m.SendFunc != nil {
		return m.SendFunc(n)
	}
	return nil
}

// Received returns a copy of every notification recorded so far.
func (m *MockObserver) Received() []Notification {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Notification, len(m.SendCalls))
	copy(out, m.SendCalls)
	return out
}

// Reset clears all call records.
func (m *MockObserver) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.SendCalls = nil
}
