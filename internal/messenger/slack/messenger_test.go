package slack_test

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	slacklib "github.com/slack-go/slack"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gosuda/actionfeed/internal/domain"
	"github.com/gosuda/actionfeed/internal/messenger"
	feedslack "github.com/gosuda/actionfeed/internal/messenger/slack"
)

// --- mock SlackAPI ---

type mockSlackAPI struct {
	postMsgChannel string
	postMsgTS      string
	postMsgErr     error
	postMsgOpts    []slacklib.MsgOption

	updateChannel  string
	updateTS       string
	updateErr      error
	updateRespCh   string
	updateRespTS   string
	updateRespText string

	users        map[string]*slacklib.User
	lookupEmails []string
}

func (m *mockSlackAPI) PostMessage(channelID string, options ...slacklib.MsgOption) (ch, ts string, err error) {
	m.postMsgChannel = channelID
	m.postMsgOpts = options
	if m.postMsgErr != nil {
		return "", "", m.postMsgErr
	}
	return m.postMsgChannel, m.postMsgTS, nil
}

func (m *mockSlackAPI) UpdateMessage(channelID, timestamp string, _ ...slacklib.MsgOption) (ch, ts, text string, err error) {
	m.updateChannel = channelID
	m.updateTS = timestamp
	if m.updateErr != nil {
		return "", "", "", m.updateErr
	}
	return m.updateRespCh, m.updateRespTS, m.updateRespText, nil
}

func (m *mockSlackAPI) GetUserByEmail(email string) (*slacklib.User, error) {
	m.lookupEmails = append(m.lookupEmails, email)
	u, ok := m.users[email]
	if !ok {
		return nil, errors.New("users_not_found")
	}
	return u, nil
}

// --- SlackMessenger tests ---

func TestSlackMessenger_SendMessage(t *testing.T) {
	t.Parallel()

	t.Run("success returns message timestamp as MessageID", func(t *testing.T) {
		t.Parallel()

		api := &mockSlackAPI{postMsgTS: "1234567890.123456"}
		m := feedslack.NewSlackMessenger(api)

		msgID, err := m.SendMessage(t.Context(), "C123", "hello world")

		require.NoError(t, err)
		assert.Equal(t, messenger.MessageID("1234567890.123456"), msgID)
		assert.Equal(t, "C123", api.postMsgChannel)
	})

	t.Run("error wraps Slack API error", func(t *testing.T) {
		t.Parallel()

		api := &mockSlackAPI{postMsgErr: errors.New("channel_not_found")}
		m := feedslack.NewSlackMessenger(api)

		msgID, err := m.SendMessage(t.Context(), "C999", "hello")

		require.Error(t, err)
		assert.Empty(t, msgID)
		assert.Contains(t, err.Error(), "slack.SlackMessenger.SendMessage")
		assert.Contains(t, err.Error(), "channel_not_found")
	})
}

func TestSlackMessenger_PostCard(t *testing.T) {
	t.Parallel()

	card := messenger.Card{
		ItemID:    uuid.New(),
		CompanyID: uuid.New(),
		Priority:  domain.PriorityHigh,
		Text:      "Vera hasn't responded to your invite.",
	}

	t.Run("success posts text and blocks", func(t *testing.T) {
		t.Parallel()

		api := &mockSlackAPI{postMsgTS: "1234567890.654321"}
		m := feedslack.NewSlackMessenger(api)

		msgID, err := m.PostCard(t.Context(), "C123", card)

		require.NoError(t, err)
		assert.Equal(t, messenger.MessageID("1234567890.654321"), msgID)
		assert.Equal(t, "C123", api.postMsgChannel)
		assert.Len(t, api.postMsgOpts, 2)
	})

	t.Run("error wraps Slack API error", func(t *testing.T) {
		t.Parallel()

		api := &mockSlackAPI{postMsgErr: errors.New("not_in_channel")}
		m := feedslack.NewSlackMessenger(api)

		msgID, err := m.PostCard(t.Context(), "C123", card)

		require.Error(t, err)
		assert.Empty(t, msgID)
		assert.Contains(t, err.Error(), "slack.SlackMessenger.PostCard")
	})
}

func TestSlackMessenger_UpdateMessage(t *testing.T) {
	t.Parallel()

	t.Run("success calls UpdateMessage with correct params", func(t *testing.T) {
		t.Parallel()

		api := &mockSlackAPI{updateRespCh: "C123", updateRespTS: "1.0", updateRespText: "updated"}
		m := feedslack.NewSlackMessenger(api)

		err := m.UpdateMessage(t.Context(), "C123", messenger.MessageID("1234567890.000000"), "Dismissed")

		require.NoError(t, err)
		assert.Equal(t, "C123", api.updateChannel)
		assert.Equal(t, "1234567890.000000", api.updateTS)
	})

	t.Run("error wraps Slack API error", func(t *testing.T) {
		t.Parallel()

		api := &mockSlackAPI{updateErr: errors.New("cant_update_message")}
		m := feedslack.NewSlackMessenger(api)

		err := m.UpdateMessage(t.Context(), "C123", messenger.MessageID("1.0"), "new text")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "slack.SlackMessenger.UpdateMessage")
	})
}

func TestSlackMessenger_SendNotification(t *testing.T) {
	t.Parallel()

	t.Run("success posts to the user's direct channel", func(t *testing.T) {
		t.Parallel()

		api := &mockSlackAPI{postMsgTS: "1234567890.111111"}
		m := feedslack.NewSlackMessenger(api)

		err := m.SendNotification(t.Context(), "U123", "a new action item needs you")

		require.NoError(t, err)
		assert.Equal(t, "U123", api.postMsgChannel)
		assert.Len(t, api.postMsgOpts, 1)
	})

	t.Run("error wraps Slack API error", func(t *testing.T) {
		t.Parallel()

		api := &mockSlackAPI{postMsgErr: errors.New("user_not_found")}
		m := feedslack.NewSlackMessenger(api)

		err := m.SendNotification(t.Context(), "U999", "notification")

		require.Error(t, err)
		assert.Contains(t, err.Error(), "slack.SlackMessenger.SendNotification")
	})
}

func TestSlackMessenger_Platform(t *testing.T) {
	t.Parallel()

	m := feedslack.NewSlackMessenger(&mockSlackAPI{})
	assert.Equal(t, "slack", m.Platform())
}

func TestInviter_SendInvite(t *testing.T) {
	t.Parallel()

	t.Run("direct message to the matching slack user", func(t *testing.T) {
		t.Parallel()

		api := &mockSlackAPI{users: map[string]*slacklib.User{"vera@example.com": {ID: "U42"}}}
		inv := feedslack.NewInviter(api, feedslack.NewSlackMessenger(api), "https://console.example.com/activate")

		err := inv.SendInvite(t.Context(), &domain.User{Email: "vera@example.com"})

		require.NoError(t, err)
		assert.Equal(t, "U42", api.postMsgChannel)
		assert.Equal(t, []string{"vera@example.com"}, api.lookupEmails)
	})

	t.Run("unknown email", func(t *testing.T) {
		t.Parallel()

		api := &mockSlackAPI{}
		inv := feedslack.NewInviter(api, feedslack.NewSlackMessenger(api), "")

		err := inv.SendInvite(t.Context(), &domain.User{Email: "ghost@example.com"})

		require.ErrorIs(t, err, feedslack.ErrNoSlackUser)
		assert.Empty(t, api.postMsgChannel)
	})

	t.Run("no email", func(t *testing.T) {
		t.Parallel()

		api := &mockSlackAPI{}
		err := feedslack.NewInviter(api, feedslack.NewSlackMessenger(api), "").SendInvite(t.Context(), &domain.User{})

		require.ErrorIs(t, err, feedslack.ErrNoSlackUser)
		assert.Empty(t, api.lookupEmails)
	})

	t.Run("delivery failure", func(t *testing.T) {
		t.Parallel()

		api := &mockSlackAPI{
			users:      map[string]*slacklib.User{"vera@example.com": {ID: "U42"}},
			postMsgErr: errors.New("cannot_dm_bot"),
		}
		inv := feedslack.NewInviter(api, feedslack.NewSlackMessenger(api), "")

		err := inv.SendInvite(t.Context(), &domain.User{Email: "vera@example.com"})

		require.Error(t, err)
		assert.Contains(t, err.Error(), "slack.SlackMessenger.SendNotification")
		assert.NotErrorIs(t, err, feedslack.ErrNoSlackUser)
	})
}
