package metrics

import "github.com/prometheus/client_golang/prometheus"

// Service holds all the Prometheus metrics for the application.
// By defining them all in one place, we ensure consistency in naming and labeling.
type Service struct {
	RosterAdds             prometheus.Counter
	RosterRemoves          prometheus.Counter
	RosterRejections       prometheus.Counter
	LedgerDuration         prometheus.Histogram
	NotificationsDelivered prometheus.Counter
	NotificationsFailed    prometheus.Counter
	WatcherReconnects      prometheus.Counter
	ObserversConnected     prometheus.Gauge
	SlackNotifSent         prometheus.Counter
	SlackNotifFailed       prometheus.Counter
	StartupTimeSeconds     prometheus.Gauge
}
