package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var _ Metrics = (*Service)(nil)

// NewMetricsHandler returns an http.Handler for the given Gatherer.
// If no gatherer is provided, it uses the default one.
func NewMetricsHandler(gatherer ...prometheus.Gatherer) http.Handler {
	gath := prometheus.DefaultGatherer
	if len(gatherer) > 0 {
		gath = gatherer[0]
	}
	return promhttp.HandlerFor(gath, promhttp.HandlerOpts{})
}

// NewService creates and registers the Prometheus metrics.
// If no registerer is provided, it uses the default Prometheus registerer.
func NewService(registerer ...prometheus.Registerer) *Service {
	reg := prometheus.DefaultRegisterer
	if len(registerer) > 0 {
		reg = registerer[0]
	}

	s := &Service{
		RosterAdds: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fantasy_roster_adds_total",
			Help: "The total number of successful add-player mutations.",
		}),
		RosterRemoves: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fantasy_roster_removes_total",
			Help: "The total number of successful remove-player mutations.",
		}),
		RosterRejections: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fantasy_roster_rejections_total",
			Help: "The total number of roster mutations rejected by an invariant check.",
		}),
		LedgerDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "fantasy_ledger_mutation_duration_seconds",
			Help:    "The duration of individual roster ledger mutations.",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		NotificationsDelivered: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fantasy_notifications_delivered_total",
			Help: "The total number of change notifications delivered to observers.",
		}),
		NotificationsFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fantasy_notifications_failed_total",
			Help: "The total number of observer deliveries that failed.",
		}),
		WatcherReconnects: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fantasy_feed_reconnects_total",
			Help: "The total number of change feed watcher reconnection attempts.",
		}),
		ObserversConnected: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fantasy_observers_connected",
			Help: "The number of websocket observers currently connected.",
		}),
		SlackNotifSent: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fantasy_slack_notifications_sent_total",
			Help: "The total number of Slack notifications successfully sent.",
		}),
		SlackNotifFailed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fantasy_slack_notifications_failed_total",
			Help: "The total number of Slack notifications that failed to send.",
		}),
		StartupTimeSeconds: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fantasy_startup_duration_seconds",
			Help: "The duration of the application startup in seconds.",
		}),
	}

	reg.MustRegister(
		s.RosterAdds,
		s.RosterRemoves,
		s.RosterRejections,
		s.LedgerDuration,
		s.NotificationsDelivered,
		s.NotificationsFailed,
		s.WatcherReconnects,
		s.ObserversConnected,
		s.SlackNotifSent,
		s.SlackNotifFailed,
		s.StartupTimeSeconds,
	)

	return s
}

func (s *Service) IncRosterAdds() {
	s.RosterAdds.Inc()
}

func (s *Service) IncRosterRemoves() {
	s.RosterRemoves.Inc()
}

func (s *Service) IncRosterRejections() {
	s.RosterRejections.Inc()
}

func (s *Service) ObserveLedgerDuration(duration float64) {
	s.LedgerDuration.Observe(duration)
}

func (s *Service) IncNotificationsDelivered() {
	s.NotificationsDelivered.Inc()
}

func (s *Service) IncNotificationsFailed() {
	s.NotificationsFailed.Inc()
}

func (s *Service) IncWatcherReconnects() {
	s.WatcherReconnects.Inc()
}

func (s *Service) IncObserversConnected() {
	s.ObserversConnected.Inc()
}

func (s *Service) DecObserversConnected() {
	s.ObserversConnected.Dec()
}

func (s *Service) IncSlackNotifSent() {
	s.SlackNotifSent.Inc()
}

func (s *Service) IncSlackNotifFailed() {
	s.SlackNotifFailed.Inc()
}

func (s *Service) SetStartupTime(duration float64) {
	s.StartupTimeSeconds.Set(duration)
}
