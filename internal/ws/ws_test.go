package ws_test

import (
	"encoding/json"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mavithya/SpiritX-Telusko-02/internal/metrics"
	"github.com/Mavithya/SpiritX-Telusko-02/internal/realtime"
	"github.com/Mavithya/SpiritX-Telusko-02/internal/ws"
)

type frame struct {
	// ack fields
	Action string `json:"action"`
	OK     *bool  `json:"ok"`
	Error  string `json:"error"`

	// notification fields
	Topic    string          `json:"topic"`
	Op       string          `json:"operation"`
	RecordID string          `json:"record_id"`
	Document json.RawMessage `json:"document"`
	Seq      int64           `json:"seq"`
}

func setupWS(t *testing.T) (*realtime.Registry, *metrics.Mock, *websocket.Conn, func()) {
	t.Helper()

	registry := realtime.NewRegistry()
	metricsSvc := metrics.NewMock()
	server := httptest.NewServer(ws.NewHandler(registry, metricsSvc))

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)

	teardown := func() {
		conn.Close()
		server.Close()
	}
	return registry, metricsSvc, conn, teardown
}

func readFrame(t *testing.T, conn *websocket.Conn) frame {
	t.Helper()
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	var f frame
	require.NoError(t, conn.ReadJSON(&f))
	return f
}

func subscribe(t *testing.T, conn *websocket.Conn, topic string) {
	t.Helper()
	require.NoError(t, conn.WriteJSON(map[string]string{"action": "subscribe", "topic": topic}))
	f := readFrame(t, conn)
	require.NotNil(t, f.OK)
	require.True(t, *f.OK, "subscribe should be acknowledged")
}

// waitForMembers polls the registry until the topic reaches the wanted size.
func waitForMembers(t *testing.T, registry *realtime.Registry, topic string, want int) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if len(registry.MembersOf(topic)) == want {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("topic %q never reached %d members", topic, want)
}

func TestSubscribeAndReceive(t *testing.T) {
	registry, _, conn, teardown := setupWS(t)
	defer teardown()

	subscribe(t, conn, realtime.TopicPlayers)
	waitForMembers(t, registry, realtime.TopicPlayers, 1)

	n := realtime.Notification{
		Topic:    realtime.TopicPlayers,
		Op:       realtime.OpUpdate,
		RecordID: "p1",
		Document: json.RawMessage(`{"name":"Kusal Perera"}`),
		Seq:      42,
	}
	for _, obs := range registry.MembersOf(realtime.TopicPlayers) {
		require.NoError(t, obs.Send(n))
	}

	got := readFrame(t, conn)
	assert.Equal(t, realtime.TopicPlayers, got.Topic)
	assert.Equal(t, "update", got.Op)
	assert.Equal(t, "p1", got.RecordID)
	assert.Equal(t, int64(42), got.Seq)
}

func TestSubscribe_UnknownTopicRejected(t *testing.T) {
	registry, _, conn, teardown := setupWS(t)
	defer teardown()

	require.NoError(t, conn.WriteJSON(map[string]string{"action": "subscribe", "topic": "nonsense"}))
	f := readFrame(t, conn)
	require.NotNil(t, f.OK)
	assert.False(t, *f.OK)
	assert.Equal(t, "unknown topic", f.Error)
	assert.Empty(t, registry.MembersOf("nonsense"))
}

func TestUnknownActionRejected(t *testing.T) {
	_, _, conn, teardown := setupWS(t)
	defer teardown()

	require.NoError(t, conn.WriteJSON(map[string]string{"action": "shout", "topic": realtime.TopicPlayers}))
	f := readFrame(t, conn)
	require.NotNil(t, f.OK)
	assert.False(t, *f.OK)
	assert.Equal(t, "unknown action", f.Error)
}

func TestUnsubscribeStopsMembership(t *testing.T) {
	registry, _, conn, teardown := setupWS(t)
	defer teardown()

	subscribe(t, conn, realtime.TopicUsers)
	waitForMembers(t, registry, realtime.TopicUsers, 1)

	require.NoError(t, conn.WriteJSON(map[string]string{"action": "unsubscribe", "topic": realtime.TopicUsers}))
	f := readFrame(t, conn)
	require.NotNil(t, f.OK)
	require.True(t, *f.OK)
	waitForMembers(t, registry, realtime.TopicUsers, 0)
}

func TestDisconnectRemovesObserver(t *testing.T) {
	registry, metricsSvc, conn, teardown := setupWS(t)
	defer teardown()

	subscribe(t, conn, realtime.TopicPlayers)
	waitForMembers(t, registry, realtime.TopicPlayers, 1)

	conn.Close()
	waitForMembers(t, registry, realtime.TopicPlayers, 0)

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) && metricsSvc.ObserversConnected() != 0 {
		time.Sleep(10 * time.Millisecond)
	}
	assert.Equal(t, 0, metricsSvc.ObserversConnected())
}
