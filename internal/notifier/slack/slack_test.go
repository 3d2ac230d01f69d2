package slack

import (
	"context"
	"errors"
	"testing"

	slackapi "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Mavithya/SpiritX-Telusko-02/internal/metrics"
)

// fakeSlackAPI records posted messages and can be told to fail.
type fakeSlackAPI struct {
	calls int
	err   error
}

func (f *fakeSlackAPI) PostMessageContext(ctx context.Context, channelID string, options ...slackapi.MsgOption) (string, string, error) {
	f.calls++
	if f.err != nil {
		return "", "", f.err
	}
	return channelID, "123.456", nil
}

func TestSendTeamComplete(t *testing.T) {
	api := &fakeSlackAPI{}
	metricsSvc := metrics.NewMock()
	n := NewNotifierWithAPI(api, "C123", metricsSvc)

	err := n.SendTeamComplete("testuser", 742.5)
	require.NoError(t, err)
	assert.Equal(t, 1, api.calls)
}

func TestSendFeedDisrupted_Failure(t *testing.T) {
	api := &fakeSlackAPI{err: errors.New("channel_not_found")}
	metricsSvc := metrics.NewMock()
	n := NewNotifierWithAPI(api, "C123", metricsSvc)

	err := n.SendFeedDisrupted("players", 5)
	assert.Error(t, err)
}
