package realtime

import (
	"sync"

	"github.com/charmbracelet/log"
)

// Registry maps topic names to the observers currently subscribed to them.
// It is the single shared mutable structure between the watchers, the ledger's
// event path and the transport layer, so every operation takes the lock.
type Registry struct {
	mu     sync.RWMutex
	topics map[string]map[string]Observer
}

// NewRegistry creates an empty subscription registry.
func NewRegistry() *Registry {
	return &Registry{
		topics: make(map[string]map[string]Observer),
	}
}

// Join subscribes an observer to a topic. Joining twice with the same pair is
// a no-op.
func (r *Registry) Join(topic string, obs Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	members, ok := r.topics[topic]
	if !ok {
		members = make(map[string]Observer)
		r.topics[topic] = members
	}
	if _, ok := members[obs.ID()]; ok {
		return
	}
	members[obs.ID()] = obs
	log.Debug("Observer joined topic", "topic", topic, "observer", obs.ID())
}

// Leave unsubscribes an observer from a topic. Leaving a topic the observer
// is not a member of is a no-op, not an error.
func (r *Registry) Leave(topic string, obs Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if members, ok := r.topics[topic]; ok {
		delete(members, obs.ID())
		if len(members) == 0 {
			delete(r.topics, topic)
		}
	}
}

// MembersOf returns a snapshot of the observers subscribed to a topic.
func (r *Registry) MembersOf(topic string) []Observer {
	r.mu.RLock()
	defer r.mu.RUnlock()

	members := r.topics[topic]
	out := make([]Observer, 0, len(members))
	for _, obs := range members {
		out = append(out, obs)
	}
	return out
}

// RemoveObserver drops an observer from every topic. Called by the transport
// when it detects a disconnect, and by the broadcaster on delivery failure.
func (r *Registry) RemoveObserver(obs Observer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for topic, members := range r.topics {
		delete(members, obs.ID())
		if len(members) == 0 {
			delete(r.topics, topic)
		}
	}
	log.Debug("Observer removed from all topics", "observer", obs.ID())
}
