package metrics

// Metrics defines the interface for collecting application metrics.
// This decouples the application from the specific metrics implementation (e.g., Prometheus).
type Metrics interface {
	IncRosterAdds()
	IncRosterRemoves()
	IncRosterRejections()
	ObserveLedgerDuration(duration float64)
	IncNotificationsDelivered()
	IncNotificationsFailed()
	IncWatcherReconnects()
	IncObserversConnected()
	DecObserversConnected()
	IncSlackNotifSent()
	IncSlackNotifFailed()
	SetStartupTime(duration float64)
}
