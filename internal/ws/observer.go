package ws

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/Mavithya/SpiritX-Telusko-02/internal/realtime"
)

const (
	// outboundQueueSize bounds the per-observer send queue. A consumer that
	// falls this far behind is dropped rather than allowed to stall fan-out.
	outboundQueueSize = 64

	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = (pongWait * 9) / 10
	// maxMessageSize bounds inbound control frames; clients only send small
	// subscribe commands.
	maxMessageSize = 512
)

// ErrSlowConsumer is returned by Send when the observer's outbound queue is
// full. The broadcaster treats any Send error as grounds for eviction.
var ErrSlowConsumer = errors.New("observer outbound queue full")

// ErrObserverClosed is returned by Send after the connection has shut down.
var ErrObserverClosed = errors.New("observer closed")

// observer adapts one websocket connection to the realtime.Observer
// interface. Send never blocks; frames queue onto out and a dedicated write
// pump drains them, so one slow socket cannot hold up the broadcaster.
type observer struct {
	id   string
	conn *websocket.Conn

	out  chan any
	done chan struct{}
	once sync.Once
}

var _ realtime.Observer = (*observer)(nil)

func newObserver(id string, conn *websocket.Conn) *observer {
	return &observer{
		id:   id,
		conn: conn,
		out:  make(chan any, outboundQueueSize),
		done: make(chan struct{}),
	}
}

func (o *observer) ID() string {
	return o.id
}

func (o *observer) Send(n realtime.Notification) error {
	return o.enqueue(n)
}

// enqueue queues a frame for the write pump. All socket writes go through
// the pump; writing from two goroutines is not allowed by gorilla.
func (o *observer) enqueue(v any) error {
	select {
	case <-o.done:
		return ErrObserverClosed
	default:
	}

	select {
	case o.out <- v:
		return nil
	default:
		return ErrSlowConsumer
	}
}

// close is idempotent; both pumps and the handler may race to call it.
func (o *observer) close() {
	o.once.Do(func() {
		close(o.done)
		o.conn.Close()
	})
}

// writePump drains the outbound queue onto the socket and keeps the
// connection alive with pings. It owns all writes to conn.
func (o *observer) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		o.close()
	}()

	for {
		select {
		case v := <-o.out:
			o.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := o.conn.WriteJSON(v); err != nil {
				return
			}
		case <-ticker.C:
			o.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := o.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		case <-o.done:
			return
		}
	}
}
