package ws

import (
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/Mavithya/SpiritX-Telusko-02/internal/metrics"
	"github.com/Mavithya/SpiritX-Telusko-02/internal/realtime"
)

// command is the inbound client frame. Clients manage their topic membership
// explicitly; nothing is delivered before the first subscribe.
type command struct {
	Action string `json:"action"`
	Topic  string `json:"topic"`
}

// ack reports the outcome of a command back to the client.
type ack struct {
	Action string `json:"action"`
	Topic  string `json:"topic,omitempty"`
	OK     bool   `json:"ok"`
	Error  string `json:"error,omitempty"`
}

// Handler upgrades HTTP requests to websocket observers and registers them
// with the subscription registry.
type Handler struct {
	registry *realtime.Registry
	metrics  metrics.Metrics
	upgrader websocket.Upgrader
}

func NewHandler(registry *realtime.Registry, metricsSvc metrics.Metrics) *Handler {
	return &Handler{
		registry: registry,
		metrics:  metricsSvc,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Browser clients connect from the app's own origin; the API has
			// no cookie auth so cross-origin reads leak nothing.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("Failed to upgrade websocket connection", "error", err)
		return
	}

	obs := newObserver(uuid.NewString(), conn)
	if h.metrics != nil {
		h.metrics.IncObserversConnected()
	}
	log.Info("Observer connected", "observer_id", obs.ID(), "remote", r.RemoteAddr)

	go obs.writePump()
	h.readPump(obs)
}

// readPump processes subscribe/unsubscribe commands until the connection
// drops, then tears the observer out of every topic.
func (h *Handler) readPump(obs *observer) {
	defer func() {
		obs.close()
		h.registry.RemoveObserver(obs)
		if h.metrics != nil {
			h.metrics.DecObserversConnected()
		}
		log.Info("Observer disconnected", "observer_id", obs.ID())
	}()

	obs.conn.SetReadLimit(maxMessageSize)
	obs.conn.SetReadDeadline(time.Now().Add(pongWait))
	obs.conn.SetPongHandler(func(string) error {
		obs.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		var cmd command
		if err := obs.conn.ReadJSON(&cmd); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warn("Observer read failed", "observer_id", obs.ID(), "error", err)
			}
			return
		}
		h.handleCommand(obs, cmd)
	}
}

func (h *Handler) handleCommand(obs *observer, cmd command) {
	reply := ack{Action: cmd.Action, Topic: cmd.Topic, OK: true}

	switch cmd.Action {
	case "subscribe":
		if !validTopic(cmd.Topic) {
			reply.OK = false
			reply.Error = "unknown topic"
			break
		}
		h.registry.Join(cmd.Topic, obs)
	case "unsubscribe":
		if !validTopic(cmd.Topic) {
			reply.OK = false
			reply.Error = "unknown topic"
			break
		}
		h.registry.Leave(cmd.Topic, obs)
	default:
		reply.OK = false
		reply.Error = "unknown action"
	}

	if err := obs.enqueue(reply); err != nil {
		obs.close()
	}
}

func validTopic(topic string) bool {
	return topic == realtime.TopicPlayers || topic == realtime.TopicUsers
}
