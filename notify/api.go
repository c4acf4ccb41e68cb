package notify

import (
	"context"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/singnet/mattermost-notify/models"
	"github.com/singnet/mattermost-notify/receivers"
	"github.com/singnet/mattermost-notify/receivers/mattermost"
)

// APIFlow posts the message to a channel through the authenticated REST API.
type APIFlow struct {
	Env         LookupEnvFunc
	MessageFile string
	// Sender must accept GET requests.
	Sender receivers.WebhookSender
	Logger log.Logger
}

// Run resolves message, credentials and attachments, uploads the attachments and creates the post.
// An empty message text is an error.
func (f *APIFlow) Run(ctx context.Context) (*mattermost.Post, error) {
	l := loggerOrNop(f.Logger)

	msg, err := ResolveMessage(f.Env, f.MessageFile)
	if err != nil {
		return nil, err
	}

	cfg, err := ResolveAPIConfig(f.Env, msg)
	if err != nil {
		return nil, err
	}
	channelID, err := RequireSetting(f.Env, msg, EnvChannelID)
	if err != nil {
		return nil, err
	}

	paths, err := ResolveAttachments(f.Env, msg)
	if err != nil {
		return nil, err
	}

	client := mattermost.NewClient(cfg, receivers.Metadata{Name: "api", Type: "mattermost-api"}, f.Sender, l)

	var fileIDs []string
	if len(paths) > 0 {
		level.Info(l).Log("msg", "Uploading attachments", "count", len(paths))
		if fileIDs, err = client.UploadFiles(ctx, channelID, paths); err != nil {
			return nil, err
		}
	}

	text, err := requireText(msg)
	if err != nil {
		return nil, err
	}

	return client.CreatePost(ctx, channelID, text, fileIDs)
}

// ResolveAPIConfig resolves the server URL and token.
func ResolveAPIConfig(env LookupEnvFunc, msg models.Message) (mattermost.APIConfig, error) {
	serverURL, err := RequireSetting(env, msg, EnvServerURL)
	if err != nil {
		return mattermost.APIConfig{}, err
	}
	token, err := RequireSetting(env, msg, EnvToken)
	if err != nil {
		return mattermost.APIConfig{}, err
	}
	return mattermost.APIConfig{ServerURL: serverURL, Token: token}, nil
}

// WhoAmI returns the user owning the configured token. The message file is not read.
func WhoAmI(ctx context.Context, env LookupEnvFunc, sender receivers.WebhookSender, logger log.Logger) (*mattermost.User, error) {
	cfg, err := ResolveAPIConfig(env, nil)
	if err != nil {
		return nil, err
	}
	client := mattermost.NewClient(cfg, receivers.Metadata{Name: "whoami", Type: "mattermost-api"}, sender, loggerOrNop(logger))
	return client.GetMe(ctx)
}

// requireText returns the text to post. It is sent as written; only the emptiness check trims.
func requireText(msg models.Message) (string, error) {
	if msg.IsEmpty() || msg.Text() == "" {
		return "", ErrEmptyMessage
	}
	text, _ := msg[models.TextKey].(string)
	return text, nil
}

func loggerOrNop(l log.Logger) log.Logger {
	if l == nil {
		return log.NewNopLogger()
	}
	return l
}
