package notify

import (
	"context"
	"errors"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/singnet/mattermost-notify/receivers"
	"github.com/singnet/mattermost-notify/receivers/mattermost"
)

const testWebhookURL = "http://test.com/hooks/xyz"

func TestWebhookFlow(t *testing.T) {
	cases := []struct {
		name       string
		env        map[string]string
		file       string
		expOutcome Outcome
		expBody    string
		expErrMsg  string
	}{
		{
			name:       "message from environment",
			env:        map[string]string{EnvMessage: "  deployed  ", EnvWebhookURL: testWebhookURL},
			expOutcome: Sent,
			expBody:    `{"text": "deployed"}`,
		},
		{
			name:       "message from file with overrides",
			env:        map[string]string{EnvWebhookURL: testWebhookURL, EnvChannel: "general", EnvIcon: "http://icon.png"},
			file:       `{"text": "build passed", "ChannelName": "town-square", "Username": "ci"}`,
			expOutcome: Sent,
			expBody:    `{"text": "build passed", "ChannelName": "general", "Username": "ci", "IconURL": "http://icon.png"}`,
		},
		{
			name:       "file value kept without override",
			env:        map[string]string{EnvWebhookURL: testWebhookURL},
			file:       `{"text": "x", "ChannelName": "town-square"}`,
			expOutcome: Sent,
			expBody:    `{"text": "x", "ChannelName": "town-square"}`,
		},
		{
			name:       "empty file is skipped",
			env:        map[string]string{EnvWebhookURL: testWebhookURL},
			file:       `{}`,
			expOutcome: Skipped,
		},
		{
			name:       "override makes an empty file non-empty",
			env:        map[string]string{EnvWebhookURL: testWebhookURL, EnvUsername: "bot"},
			file:       `{}`,
			expOutcome: Sent,
			expBody:    `{"Username": "bot"}`,
		},
		{
			name:       "missing webhook URL",
			env:        map[string]string{EnvMessage: "hi"},
			expOutcome: Skipped,
			expErrMsg:  "MATTERMOST_WEBHOOK_URL is required and cannot be empty",
		},
		{
			name:       "missing webhook URL with empty file",
			env:        map[string]string{EnvWebhookURL: "  "},
			file:       `{}`,
			expOutcome: Skipped,
			expErrMsg:  "MATTERMOST_WEBHOOK_URL is required and cannot be empty",
		},
		{
			name:       "invalid JSON",
			env:        map[string]string{EnvWebhookURL: testWebhookURL},
			file:       `{"text": `,
			expOutcome: Skipped,
			expErrMsg:  "error reading message",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), DefaultMessageFile)
			if c.file != "" {
				path = writeMessageFile(t, c.file)
			}
			sender := receivers.MockNotificationService()

			f := WebhookFlow{Env: MapEnv(c.env), MessageFile: path, Sender: sender, Logger: log.NewNopLogger()}
			outcome, err := f.Run(context.Background())
			assert.Equal(t, c.expOutcome, outcome)

			if c.expErrMsg != "" {
				require.ErrorContains(t, err, c.expErrMsg)
				require.Empty(t, sender.WebhookCalls)
				return
			}
			require.NoError(t, err)
			if c.expBody == "" {
				require.Empty(t, sender.WebhookCalls)
				return
			}
			require.Len(t, sender.WebhookCalls, 1)
			require.Equal(t, testWebhookURL, sender.Webhook.URL)
			require.Equal(t, http.MethodPost, sender.Webhook.HTTPMethod)
			require.Empty(t, sender.Webhook.HTTPHeader["Authorization"])
			require.JSONEq(t, c.expBody, sender.Webhook.Body)
		})
	}
}

func TestWebhookFlowMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultMessageFile)
	f := WebhookFlow{Env: MapEnv(map[string]string{EnvWebhookURL: testWebhookURL}), MessageFile: path, Sender: receivers.MockNotificationService()}

	_, err := f.Run(context.Background())
	var missing *MissingInputError
	require.ErrorAs(t, err, &missing)
	require.Equal(t, path, missing.Path)
}

func TestWebhookFlowDeliveryFailure(t *testing.T) {
	t.Run("non-2xx", func(t *testing.T) {
		sender := receivers.MockNotificationService()
		sender.StatusCode = http.StatusBadRequest
		f := WebhookFlow{Env: MapEnv(map[string]string{EnvMessage: "hi", EnvWebhookURL: testWebhookURL}), Sender: sender}

		outcome, err := f.Run(context.Background())
		assert.Equal(t, Skipped, outcome)
		var deliveryErr *mattermost.DeliveryError
		require.ErrorAs(t, err, &deliveryErr)
		require.ErrorContains(t, err, "error sending message")
	})

	t.Run("transport", func(t *testing.T) {
		sender := receivers.MockNotificationService()
		sender.ShouldError = errors.New("connection refused")
		f := WebhookFlow{Env: MapEnv(map[string]string{EnvMessage: "hi", EnvWebhookURL: testWebhookURL}), Sender: sender}

		_, err := f.Run(context.Background())
		require.EqualError(t, err, "error sending message: connection refused")
	})
}
