package notify

import (
	"context"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-kit/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/singnet/mattermost-notify/receivers"
	"github.com/singnet/mattermost-notify/receivers/mattermost"
)

func apiEnv(extra map[string]string) map[string]string {
	env := map[string]string{
		EnvServerURL: "http://test.com",
		EnvToken:     "test_token",
		EnvChannelID: "c1",
	}
	for k, v := range extra {
		env[k] = v
	}
	return env
}

func TestAPIFlowTextOnly(t *testing.T) {
	sender := receivers.MockNotificationService()
	sender.ResponseBody = []byte(`{"id": "p1", "channel_id": "c1", "message": "hi"}`)
	sender.StatusCode = http.StatusCreated

	f := APIFlow{Env: MapEnv(apiEnv(map[string]string{EnvMessage: "hi"})), Sender: sender, Logger: log.NewNopLogger()}
	post, err := f.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, &mattermost.Post{ID: "p1", ChannelID: "c1", Message: "hi"}, post)

	require.Len(t, sender.WebhookCalls, 1)
	call := sender.WebhookCalls[0]
	assert.Equal(t, "http://test.com/api/v4/posts", call.URL)
	assert.Equal(t, http.MethodPost, call.HTTPMethod)
	assert.Equal(t, "Bearer test_token", call.HTTPHeader["Authorization"])
	assert.JSONEq(t, `{"channel_id": "c1", "message": "hi"}`, call.Body)
}

func TestAPIFlowAttachments(t *testing.T) {
	dir := t.TempDir()
	a, b := filepath.Join(dir, "a.png"), filepath.Join(dir, "b.png")
	require.NoError(t, os.WriteFile(a, []byte("a"), 0o600))
	require.NoError(t, os.WriteFile(b, []byte("b"), 0o600))

	sender := receivers.MockNotificationService()
	sender.Responses = []receivers.MockResponse{
		{Body: []byte(`{"file_infos": [{"id": "id-a"}]}`), StatusCode: http.StatusCreated},
		{Body: []byte(`{"file_infos": [{"id": "id-b"}]}`), StatusCode: http.StatusCreated},
		{Body: []byte(`{"id": "p1", "file_ids": ["id-a", "id-b"]}`), StatusCode: http.StatusCreated},
	}

	f := APIFlow{
		Env:    MapEnv(apiEnv(map[string]string{EnvMessage: "with files", EnvAttachmentsPath: a + ", " + b})),
		Sender: sender,
	}
	post, err := f.Run(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"id-a", "id-b"}, post.FileIDs)

	require.Len(t, sender.WebhookCalls, 3)
	assert.Equal(t, "http://test.com/api/v4/files", sender.WebhookCalls[0].URL)
	assert.Contains(t, sender.WebhookCalls[0].Body, `filename="a.png"`)
	assert.Equal(t, "http://test.com/api/v4/files", sender.WebhookCalls[1].URL)
	assert.Contains(t, sender.WebhookCalls[1].Body, `filename="b.png"`)
	assert.Equal(t, "http://test.com/api/v4/posts", sender.WebhookCalls[2].URL)
	assert.JSONEq(t, `{"channel_id": "c1", "message": "with files", "file_ids": ["id-a", "id-b"]}`, sender.WebhookCalls[2].Body)
}

func TestAPIFlowSettingsFromFile(t *testing.T) {
	path := writeMessageFile(t, `{"text": "  raw text  ", "SERVER_URL": "http://file.com/", "TOKEN": "file_token", "CHANNEL_ID": "c9"}`)
	sender := receivers.MockNotificationService()
	sender.ResponseBody = []byte(`{"id": "p1"}`)

	f := APIFlow{Env: MapEnv(nil), MessageFile: path, Sender: sender}
	_, err := f.Run(context.Background())
	require.NoError(t, err)

	assert.Equal(t, "http://file.com/api/v4/posts", sender.Webhook.URL)
	assert.Equal(t, "Bearer file_token", sender.Webhook.HTTPHeader["Authorization"])
	assert.JSONEq(t, `{"channel_id": "c9", "message": "  raw text  "}`, sender.Webhook.Body)
}

func TestAPIFlowErrors(t *testing.T) {
	cases := []struct {
		name      string
		env       map[string]string
		file      string
		expErrMsg string
	}{
		{
			name:      "missing server URL",
			env:       map[string]string{EnvMessage: "hi", EnvToken: "t", EnvChannelID: "c1"},
			expErrMsg: "MATTERMOST_SERVER_URL is required and cannot be empty",
		},
		{
			name:      "missing token",
			env:       map[string]string{EnvMessage: "hi", EnvServerURL: "http://test.com", EnvChannelID: "c1"},
			expErrMsg: "MATTERMOST_TOKEN is required and cannot be empty",
		},
		{
			name:      "missing channel",
			env:       map[string]string{EnvMessage: "hi", EnvServerURL: "http://test.com", EnvToken: "t"},
			expErrMsg: "MATTERMOST_CHANNEL_ID is required and cannot be empty",
		},
		{
			name:      "empty message",
			env:       apiEnv(nil),
			file:      `{}`,
			expErrMsg: ErrEmptyMessage.Error(),
		},
		{
			name:      "blank text",
			env:       apiEnv(nil),
			file:      `{"text": "   "}`,
			expErrMsg: ErrEmptyMessage.Error(),
		},
		{
			name:      "attachment list without paths",
			env:       apiEnv(map[string]string{EnvMessage: "hi", EnvAttachmentsPath: ","}),
			expErrMsg: "MATTERMOST_ATTACHMENTS_PATH is defined but contains no valid paths",
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			path := filepath.Join(t.TempDir(), DefaultMessageFile)
			if c.file != "" {
				path = writeMessageFile(t, c.file)
			}
			sender := receivers.MockNotificationService()

			f := APIFlow{Env: MapEnv(c.env), MessageFile: path, Sender: sender}
			post, err := f.Run(context.Background())
			require.Nil(t, post)
			require.EqualError(t, err, c.expErrMsg)
			require.Empty(t, sender.WebhookCalls)
		})
	}
}

func TestAPIFlowNon2xx(t *testing.T) {
	sender := receivers.MockNotificationService()
	sender.StatusCode = http.StatusForbidden

	f := APIFlow{Env: MapEnv(apiEnv(map[string]string{EnvMessage: "hi"})), Sender: sender}
	_, err := f.Run(context.Background())
	require.EqualError(t, err, "error sending message: POST http://test.com/api/v4/posts: unexpected status 403 Forbidden")

	var apiErr *mattermost.APICallError
	require.ErrorAs(t, err, &apiErr)
}

func TestAPIFlowUploadFailureSkipsPost(t *testing.T) {
	path := filepath.Join(t.TempDir(), "a.png")
	require.NoError(t, os.WriteFile(path, []byte("a"), 0o600))

	sender := receivers.MockNotificationService()
	sender.StatusCode = http.StatusRequestEntityTooLarge

	f := APIFlow{Env: MapEnv(apiEnv(map[string]string{EnvMessage: "hi", EnvAttachmentsPath: path})), Sender: sender}
	_, err := f.Run(context.Background())
	require.ErrorContains(t, err, "error uploading file")
	require.Len(t, sender.WebhookCalls, 1)
}

func TestWhoAmI(t *testing.T) {
	sender := receivers.MockNotificationService()
	sender.ResponseBody = []byte(`{"id": "me", "username": "bot"}`)

	user, err := WhoAmI(context.Background(), MapEnv(apiEnv(nil)), sender, nil)
	require.NoError(t, err)
	assert.Equal(t, "bot", user.Username)
	assert.Equal(t, "http://test.com/api/v4/users/me", sender.Webhook.URL)
	assert.Equal(t, http.MethodGet, sender.Webhook.HTTPMethod)

	_, err = WhoAmI(context.Background(), MapEnv(nil), sender, nil)
	require.EqualError(t, err, "MATTERMOST_SERVER_URL is required and cannot be empty")
}
