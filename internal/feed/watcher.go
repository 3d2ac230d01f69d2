package feed

import (
	"context"
	"database/sql"
	"encoding/json"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/Mavithya/SpiritX-Telusko-02/internal/metrics"
	"github.com/Mavithya/SpiritX-Telusko-02/internal/notifier"
	"github.com/Mavithya/SpiritX-Telusko-02/internal/realtime"
)

// State describes where a watcher is in its lifecycle.
type State string

const (
	StateIdle         State = "IDLE"
	StateWatching     State = "WATCHING"
	StateReconnecting State = "RECONNECTING"
	StateStopped      State = "STOPPED"
)

// After this many consecutive failed reconnection attempts the watcher raises
// an operator notification. Reconnection itself never gives up.
const disruptionNoticeThreshold = 5

// Publisher is the downstream a watcher hands normalized notifications to.
type Publisher interface {
	Publish(n realtime.Notification)
}

// WatcherConfig holds tuning knobs for a single watcher.
type WatcherConfig struct {
	PollInterval time.Duration // Default: 250ms
	BackoffBase  time.Duration // Default: 500ms
	BackoffMax   time.Duration // Default: 30s
}

// DefaultWatcherConfig returns default configuration.
func DefaultWatcherConfig() WatcherConfig {
	return WatcherConfig{
		PollInterval: 250 * time.Millisecond,
		BackoffBase:  500 * time.Millisecond,
		BackoffMax:   30 * time.Second,
	}
}

// Watcher tails the change outbox for one collection and publishes each row
// as a notification. The resume token is the last published seq; it survives
// reconnects but not process restarts, so delivery is at-least-once within a
// process lifetime, starting from "now".
type Watcher struct {
	db         *sql.DB
	collection string
	publisher  Publisher
	metrics    metrics.Metrics
	notifier   notifier.Notifier
	cfg        WatcherConfig

	mu          sync.Mutex
	state       State
	resumeToken int64

	cancel context.CancelFunc
	done   chan struct{}
}

// NewWatcher creates a watcher for one collection. notif may be nil.
func NewWatcher(db *sql.DB, collection string, publisher Publisher, metricsSvc metrics.Metrics, notif notifier.Notifier, cfg WatcherConfig) *Watcher {
	if cfg.PollInterval <= 0 {
		cfg.PollInterval = DefaultWatcherConfig().PollInterval
	}
	if cfg.BackoffBase <= 0 {
		cfg.BackoffBase = DefaultWatcherConfig().BackoffBase
	}
	if cfg.BackoffMax <= 0 {
		cfg.BackoffMax = DefaultWatcherConfig().BackoffMax
	}

	return &Watcher{
		db:         db,
		collection: collection,
		publisher:  publisher,
		metrics:    metricsSvc,
		notifier:   notif,
		cfg:        cfg,
		state:      StateIdle,
		done:       make(chan struct{}),
	}
}

// Start opens the change stream from "now" (no replay of historical changes)
// and begins watching in a background goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	token, err := w.currentTail()
	if err != nil {
		return err
	}

	w.mu.Lock()
	w.resumeToken = token
	w.state = StateWatching
	w.mu.Unlock()

	ctx, w.cancel = context.WithCancel(ctx)
	go w.watchLoop(ctx)

	log.Info("Change feed watcher started", "collection", w.collection, "resume_token", token)
	return nil
}

// Stop signals the watcher to shut down and waits for it, bounded by ctx.
// A notification already handed to the publisher is never dropped.
func (w *Watcher) Stop(ctx context.Context) {
	if w.cancel != nil {
		w.cancel()
	}
	select {
	case <-w.done:
	case <-ctx.Done():
		log.Warn("Change feed watcher stop timed out", "collection", w.collection)
	}
}

// State returns the watcher's current lifecycle state.
func (w *Watcher) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// ResumeToken returns the seq of the last published notification.
func (w *Watcher) ResumeToken() int64 {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.resumeToken
}

func (w *Watcher) setState(s State) {
	w.mu.Lock()
	w.state = s
	w.mu.Unlock()
}

func (w *Watcher) watchLoop(ctx context.Context) {
	defer close(w.done)
	defer w.setState(StateStopped)

	ticker := time.NewTicker(w.cfg.PollInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := w.drain(ctx); err != nil {
				log.Error("Change stream read failed", "collection", w.collection, "error", err)
				if !w.reconnect(ctx) {
					return
				}
			}
		}
	}
}

// drain publishes every outbox row past the resume token, in seq order. The
// token advances only after the publisher has accepted the notification, so a
// failure mid-batch re-reads from the last published row (at-least-once).
func (w *Watcher) drain(ctx context.Context) error {
	for {
		notifications, err := w.poll()
		if err != nil {
			return err
		}
		if len(notifications) == 0 {
			return nil
		}

		for _, n := range notifications {
			w.publisher.Publish(n)
			w.mu.Lock()
			w.resumeToken = n.Seq
			w.mu.Unlock()

			select {
			case <-ctx.Done():
				return nil
			default:
			}
		}
	}
}

func (w *Watcher) poll() ([]realtime.Notification, error) {
	w.mu.Lock()
	token := w.resumeToken
	w.mu.Unlock()

	rows, err := w.db.Query(
		"SELECT seq, op, record_id, document FROM changes WHERE collection = ? AND seq > ? ORDER BY seq LIMIT 500",
		w.collection, token,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []realtime.Notification
	for rows.Next() {
		var n realtime.Notification
		var op string
		var document sql.NullString
		if err := rows.Scan(&n.Seq, &op, &n.RecordID, &document); err != nil {
			return nil, err
		}
		n.Topic = w.collection
		n.Op = realtime.Operation(op)
		if document.Valid {
			n.Document = json.RawMessage(document.String)
		}
		out = append(out, n)
	}
	return out, rows.Err()
}

// reconnect retries the store with capped exponential backoff until it
// responds again or the context is cancelled. Returns false on cancellation.
func (w *Watcher) reconnect(ctx context.Context) bool {
	w.setState(StateReconnecting)
	defer w.setState(StateWatching)

	wait := w.cfg.BackoffBase
	attempts := 0

	for {
		select {
		case <-ctx.Done():
			return false
		case <-time.After(wait):
		}

		attempts++
		w.metrics.IncWatcherReconnects()
		log.Info("Attempting change stream reconnection", "collection", w.collection, "attempt", attempts)

		if err := w.db.PingContext(ctx); err == nil {
			log.Info("Change stream reconnected", "collection", w.collection, "resume_token", w.ResumeToken())
			return true
		}

		if attempts == disruptionNoticeThreshold && w.notifier != nil {
			if err := w.notifier.SendFeedDisrupted(w.collection, attempts); err != nil {
				log.Error("Failed to send feed disruption notice", "error", err)
			}
		}

		wait *= 2
		if wait > w.cfg.BackoffMax {
			wait = w.cfg.BackoffMax
		}
	}
}

func (w *Watcher) currentTail() (int64, error) {
	var tail sql.NullInt64
	err := w.db.QueryRow("SELECT MAX(seq) FROM changes WHERE collection = ?", w.collection).Scan(&tail)
	if err != nil {
		return 0, err
	}
	return tail.Int64, nil
}
