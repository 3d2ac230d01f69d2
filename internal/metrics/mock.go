package metrics

import "sync"

// Mock is a mock implementation of the Metrics interface for testing.
// It is safe for concurrent use.
type Mock struct {
	mu                     sync.Mutex
	rosterAdds             int
	rosterRemoves          int
	rosterRejections       int
	ledgerDurations        []float64
	notificationsDelivered int
	notificationsFailed    int
	watcherReconnects      int
	observersConnected     int
	slackNotifSent         int
	slackNotifFailed       int
	startupTime            float64
}

// NewMock creates a new mock instance.
func NewMock() *Mock {
	return &Mock{
		ledgerDurations: make([]float64, 0),
	}
}

func (m *Mock) IncRosterAdds() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rosterAdds++
}

func (m *Mock) IncRosterRemoves() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rosterRemoves++
}

func (m *Mock) IncRosterRejections() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.rosterRejections++
}

func (m *Mock) ObserveLedgerDuration(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ledgerDurations = append(m.ledgerDurations, duration)
}

func (m *Mock) IncNotificationsDelivered() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notificationsDelivered++
}

func (m *Mock) IncNotificationsFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.notificationsFailed++
}

func (m *Mock) IncWatcherReconnects() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.watcherReconnects++
}

func (m *Mock) IncObserversConnected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observersConnected++
}

func (m *Mock) DecObserversConnected() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.observersConnected--
}

func (m *Mock) IncSlackNotifSent() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifSent++
}

func (m *Mock) IncSlackNotifFailed() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.slackNotifFailed++
}

func (m *Mock) SetStartupTime(duration float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.startupTime = duration
}

// RosterAdds returns the number of times IncRosterAdds was called.
func (m *Mock) RosterAdds() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rosterAdds
}

// RosterRemoves returns the number of times IncRosterRemoves was called.
func (m *Mock) RosterRemoves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rosterRemoves
}

// RosterRejections returns the number of times IncRosterRejections was called.
func (m *Mock) RosterRejections() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.rosterRejections
}

// NotificationsDelivered returns the number of successful observer deliveries recorded.
func (m *Mock) NotificationsDelivered() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notificationsDelivered
}

// NotificationsFailed returns the number of failed observer deliveries recorded.
func (m *Mock) NotificationsFailed() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.notificationsFailed
}

// ObserversConnected returns the current connected-observer gauge value.
func (m *Mock) ObserversConnected() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.observersConnected
}

// WatcherReconnects returns the number of reconnection attempts recorded.
func (m *Mock) WatcherReconnects() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.watcherReconnects
}
