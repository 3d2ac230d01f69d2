package realtime

import (
	"github.com/charmbracelet/log"

	"github.com/Mavithya/SpiritX-Telusko-02/internal/metrics"
	"github.com/Mavithya/SpiritX-Telusko-02/internal/relay"
)

// Broadcaster delivers notifications to every observer subscribed to the
// notification's topic. Publish is safe to call concurrently from multiple
// watchers and from the ledger's event path; notifications for a single topic
// are delivered in the order they are published because each topic has exactly
// one producing watcher.
type Broadcaster struct {
	registry   *Registry
	relay      relay.Client
	relayTopic string
	metrics    metrics.Metrics
}

// NewBroadcaster creates a Broadcaster. relayClient may be nil, in which case
// notifications are only delivered in-process.
func NewBroadcaster(registry *Registry, relayClient relay.Client, relayTopic string, metricsSvc metrics.Metrics) *Broadcaster {
	return &Broadcaster{
		registry:   registry,
		relay:      relayClient,
		relayTopic: relayTopic,
		metrics:    metricsSvc,
	}
}

// Publish fans a notification out to the topic's current members. A delivery
// failure evicts that observer from the registry and never aborts delivery to
// the remaining members.
func (b *Broadcaster) Publish(n Notification) {
	for _, obs := range b.registry.MembersOf(n.Topic) {
		if err := obs.Send(n); err != nil {
			log.Warn("Failed to deliver notification, removing observer",
				"observer", obs.ID(), "topic", n.Topic, "seq", n.Seq, "error", err)
			b.metrics.IncNotificationsFailed()
			b.registry.RemoveObserver(obs)
			continue
		}
		b.metrics.IncNotificationsDelivered()
	}

	if b.relay != nil {
		if err := b.relay.SendMessage(b.relayTopic, n); err != nil {
			// The external mirror is best-effort; in-process delivery already happened.
			log.Error("Failed to relay notification", "topic", n.Topic, "seq", n.Seq, "error", err)
		}
	}
}
