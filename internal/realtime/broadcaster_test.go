package realtime_test

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mavithya/SpiritX-Telusko-02/internal/metrics"
	"github.com/Mavithya/SpiritX-Telusko-02/internal/realtime"
	"github.com/Mavithya/SpiritX-Telusko-02/internal/relay"
)

func TestBroadcaster_DeliversToTopicMembersOnly(t *testing.T) {
	reg := realtime.NewRegistry()
	b := realtime.NewBroadcaster(reg, nil, "", metrics.NewMock())

	playersObs := realtime.NewMockObserver("players-obs")
	usersObs := realtime.NewMockObserver("users-obs")
	reg.Join(realtime.TopicPlayers, playersObs)
	reg.Join(realtime.TopicUsers, usersObs)

	b.Publish(realtime.Notification{Topic: realtime.TopicPlayers, Op: realtime.OpUpdate, RecordID: "p1", Seq: 1})

	assert.Len(t, playersObs.Received(), 1)
	assert.Empty(t, usersObs.Received())
}

func TestBroadcaster_FaultIsolation(t *testing.T) {
	reg := realtime.NewRegistry()
	metricsSvc := metrics.NewMock()
	b := realtime.NewBroadcaster(reg, nil, "", metricsSvc)

	failing := realtime.NewMockObserver("o1-failing")
	failing.SendFunc = func(realtime.Notification) error { return errors.New("connection reset") }
	healthy := realtime.NewMockObserver("o2-healthy")

	reg.Join(realtime.TopicPlayers, failing)
	reg.Join(realtime.TopicPlayers, healthy)

	b.Publish(realtime.Notification{Topic: realtime.TopicPlayers, Op: realtime.OpInsert, RecordID: "p1", Seq: 7})

	// The healthy observer still got the notification.
	require.Len(t, healthy.Received(), 1)
	assert.Equal(t, int64(7), healthy.Received()[0].Seq)

	// The failing observer was evicted from subsequent membership.
	members := reg.MembersOf(realtime.TopicPlayers)
	require.Len(t, members, 1)
	assert.Equal(t, "o2-healthy", members[0].ID())

	assert.Equal(t, 1, metricsSvc.NotificationsFailed())
	assert.Equal(t, 1, metricsSvc.NotificationsDelivered())
}

func TestBroadcaster_PerTopicOrdering(t *testing.T) {
	reg := realtime.NewRegistry()
	b := realtime.NewBroadcaster(reg, nil, "", metrics.NewMock())

	obs := realtime.NewMockObserver("obs-1")
	reg.Join(realtime.TopicPlayers, obs)

	for seq := int64(1); seq <= 5; seq++ {
		b.Publish(realtime.Notification{Topic: realtime.TopicPlayers, Op: realtime.OpUpdate, RecordID: "p1", Seq: seq})
	}

	received := obs.Received()
	require.Len(t, received, 5)
	for i, n := range received {
		assert.Equal(t, int64(i+1), n.Seq, "notifications must arrive in publish order")
	}
}

func TestBroadcaster_RelayMirrorsNotifications(t *testing.T) {
	reg := realtime.NewRegistry()
	relayMock := relay.NewMock()
	b := realtime.NewBroadcaster(reg, relayMock, "change-notifications", metrics.NewMock())

	n := realtime.Notification{Topic: realtime.TopicUsers, Op: realtime.OpUpdate, RecordID: "u1", Seq: 3}
	b.Publish(n)

	require.Len(t, relayMock.SendMessageCalls, 1)
	assert.Equal(t, "change-notifications", relayMock.SendMessageCalls[0].Topic)
	assert.Equal(t, n, relayMock.SendMessageCalls[0].Data)
}

func TestBroadcaster_RelayFailureDoesNotPropagate(t *testing.T) {
	reg := realtime.NewRegistry()
	relayMock := relay.NewMock()
	relayMock.SendMessageFunc = func(string, any) error { return errors.New("broker down") }
	b := realtime.NewBroadcaster(reg, relayMock, "change-notifications", metrics.NewMock())

	obs := realtime.NewMockObserver("obs-1")
	reg.Join(realtime.TopicPlayers, obs)

	b.Publish(realtime.Notification{Topic: realtime.TopicPlayers, Seq: 1})

	// Local delivery happened and the observer was not evicted.
	assert.Len(t, obs.Received(), 1)
	assert.Len(t, reg.MembersOf(realtime.TopicPlayers), 1)
}
