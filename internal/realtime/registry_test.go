package realtime_test

import (
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/Mavithya/SpiritX-Telusko-02/internal/realtime"
)

func TestRegistry_JoinIsIdempotent(t *testing.T) {
	reg := realtime.NewRegistry()
	obs := realtime.NewMockObserver("obs-1")

	reg.Join(realtime.TopicPlayers, obs)
	reg.Join(realtime.TopicPlayers, obs)

	assert.Len(t, reg.MembersOf(realtime.TopicPlayers), 1)
}

func TestRegistry_LeaveNonMemberIsNoop(t *testing.T) {
	reg := realtime.NewRegistry()
	obs := realtime.NewMockObserver("obs-1")

	reg.Leave(realtime.TopicPlayers, obs)
	assert.Empty(t, reg.MembersOf(realtime.TopicPlayers))

	reg.Join(realtime.TopicPlayers, obs)
	reg.Leave(realtime.TopicUsers, obs)
	assert.Len(t, reg.MembersOf(realtime.TopicPlayers), 1)
}

func TestRegistry_RemoveObserverDropsAllTopics(t *testing.T) {
	reg := realtime.NewRegistry()
	obs := realtime.NewMockObserver("obs-1")
	other := realtime.NewMockObserver("obs-2")

	reg.Join(realtime.TopicPlayers, obs)
	reg.Join(realtime.TopicUsers, obs)
	reg.Join(realtime.TopicPlayers, other)

	reg.RemoveObserver(obs)

	assert.Len(t, reg.MembersOf(realtime.TopicPlayers), 1)
	assert.Equal(t, "obs-2", reg.MembersOf(realtime.TopicPlayers)[0].ID())
	assert.Empty(t, reg.MembersOf(realtime.TopicUsers))
}

func TestRegistry_ConcurrentJoinLeave(t *testing.T) {
	reg := realtime.NewRegistry()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			obs := realtime.NewMockObserver(fmt.Sprintf("obs-%d", i))
			reg.Join(realtime.TopicPlayers, obs)
			reg.MembersOf(realtime.TopicPlayers)
			if i%2 == 0 {
				reg.Leave(realtime.TopicPlayers, obs)
			}
		}(i)
	}
	wg.Wait()

	assert.Len(t, reg.MembersOf(realtime.TopicPlayers), 25)
}
