package feed_test

import (
	"context"
	"database/sql"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mavithya/SpiritX-Telusko-02/internal/database"
	"github.com/Mavithya/SpiritX-Telusko-02/internal/feed"
	"github.com/Mavithya/SpiritX-Telusko-02/internal/metrics"
	"github.com/Mavithya/SpiritX-Telusko-02/internal/realtime"
)

// recordingPublisher captures everything a watcher publishes.
type recordingPublisher struct {
	mu   sync.Mutex
	seen []realtime.Notification
}

func (p *recordingPublisher) Publish(n realtime.Notification) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.seen = append(p.seen, n)
}

func (p *recordingPublisher) notifications() []realtime.Notification {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]realtime.Notification, len(p.seen))
	copy(out, p.seen)
	return out
}

func setupWatcherDB(t *testing.T) (*sql.DB, func()) {
	t.Helper()
	db, teardown, err := database.InitDB(":memory:", "", "", "../../migrations")
	require.NoError(t, err)
	return db, teardown
}

func appendChange(t *testing.T, db *sql.DB, collection string, op realtime.Operation, recordID string, doc any) int64 {
	t.Helper()
	tx, err := db.Begin()
	require.NoError(t, err)
	seq, err := feed.Append(tx, collection, op, recordID, doc)
	require.NoError(t, err)
	require.NoError(t, tx.Commit())
	return seq
}

func fastConfig() feed.WatcherConfig {
	return feed.WatcherConfig{
		PollInterval: 10 * time.Millisecond,
		BackoffBase:  10 * time.Millisecond,
		BackoffMax:   50 * time.Millisecond,
	}
}

func waitForCount(t *testing.T, p *recordingPublisher, want int) []realtime.Notification {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if got := p.notifications(); len(got) >= want {
			return got
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("publisher never saw %d notifications, got %d", want, len(p.notifications()))
	return nil
}

func TestAppend_ReturnsMonotonicSeq(t *testing.T) {
	db, teardown := setupWatcherDB(t)
	defer teardown()

	first := appendChange(t, db, realtime.TopicPlayers, realtime.OpInsert, "p1", map[string]string{"name": "A"})
	second := appendChange(t, db, realtime.TopicPlayers, realtime.OpUpdate, "p1", map[string]string{"name": "B"})
	assert.Greater(t, second, first)
}

func TestWatcher_PublishesInSeqOrder(t *testing.T) {
	db, teardown := setupWatcherDB(t)
	defer teardown()

	pub := &recordingPublisher{}
	w := feed.NewWatcher(db, realtime.TopicPlayers, pub, metrics.NewMock(), nil, fastConfig())
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop(context.Background())

	appendChange(t, db, realtime.TopicPlayers, realtime.OpInsert, "p1", map[string]string{"name": "A"})
	appendChange(t, db, realtime.TopicPlayers, realtime.OpUpdate, "p1", map[string]string{"name": "B"})
	appendChange(t, db, realtime.TopicPlayers, realtime.OpDelete, "p1", nil)

	got := waitForCount(t, pub, 3)
	require.Len(t, got, 3)
	assert.Equal(t, realtime.OpInsert, got[0].Op)
	assert.Equal(t, realtime.OpUpdate, got[1].Op)
	assert.Equal(t, realtime.OpDelete, got[2].Op)
	assert.Less(t, got[0].Seq, got[1].Seq)
	assert.Less(t, got[1].Seq, got[2].Seq)
	assert.Nil(t, got[2].Document, "delete notifications carry the key only")
}

func TestWatcher_StartsFromNow(t *testing.T) {
	db, teardown := setupWatcherDB(t)
	defer teardown()

	// Rows written before Start must not be replayed.
	appendChange(t, db, realtime.TopicPlayers, realtime.OpInsert, "old", nil)

	pub := &recordingPublisher{}
	w := feed.NewWatcher(db, realtime.TopicPlayers, pub, metrics.NewMock(), nil, fastConfig())
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop(context.Background())

	appendChange(t, db, realtime.TopicPlayers, realtime.OpInsert, "new", nil)

	got := waitForCount(t, pub, 1)
	require.Len(t, got, 1)
	assert.Equal(t, "new", got[0].RecordID)
}

func TestWatcher_FiltersByCollection(t *testing.T) {
	db, teardown := setupWatcherDB(t)
	defer teardown()

	pub := &recordingPublisher{}
	w := feed.NewWatcher(db, realtime.TopicUsers, pub, metrics.NewMock(), nil, fastConfig())
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop(context.Background())

	appendChange(t, db, realtime.TopicPlayers, realtime.OpInsert, "p1", nil)
	appendChange(t, db, realtime.TopicUsers, realtime.OpUpdate, "u1", nil)

	got := waitForCount(t, pub, 1)
	require.Len(t, got, 1)
	assert.Equal(t, realtime.TopicUsers, got[0].Topic)
	assert.Equal(t, "u1", got[0].RecordID)
}

func TestWatcher_ResumeTokenAdvances(t *testing.T) {
	db, teardown := setupWatcherDB(t)
	defer teardown()

	pub := &recordingPublisher{}
	w := feed.NewWatcher(db, realtime.TopicPlayers, pub, metrics.NewMock(), nil, fastConfig())
	require.NoError(t, w.Start(context.Background()))
	defer w.Stop(context.Background())

	seq := appendChange(t, db, realtime.TopicPlayers, realtime.OpInsert, "p1", nil)
	waitForCount(t, pub, 1)
	assert.Equal(t, seq, w.ResumeToken())
}

func TestWatcher_Stop(t *testing.T) {
	db, teardown := setupWatcherDB(t)
	defer teardown()

	pub := &recordingPublisher{}
	w := feed.NewWatcher(db, realtime.TopicPlayers, pub, metrics.NewMock(), nil, fastConfig())
	require.NoError(t, w.Start(context.Background()))
	assert.Equal(t, feed.StateWatching, w.State())

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	w.Stop(ctx)
	assert.Equal(t, feed.StateStopped, w.State())
}

func TestWatcher_ReconnectsAfterStoreFailure(t *testing.T) {
	db, teardown := setupWatcherDB(t)

	pub := &recordingPublisher{}
	metricsSvc := metrics.NewMock()
	w := feed.NewWatcher(db, realtime.TopicPlayers, pub, metricsSvc, nil, fastConfig())
	require.NoError(t, w.Start(context.Background()))

	// Closing the database makes the next poll fail and drives the watcher
	// into its reconnection loop.
	teardown()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && metricsSvc.WatcherReconnects() == 0 {
		time.Sleep(5 * time.Millisecond)
	}
	assert.Greater(t, metricsSvc.WatcherReconnects(), 0)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	w.Stop(ctx)
}
