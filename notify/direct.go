package notify

import (
	"context"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"
	"github.com/go-openapi/strfmt"

	"github.com/singnet/mattermost-notify/receivers"
	"github.com/singnet/mattermost-notify/receivers/mattermost"
)

// DirectFlow sends the message as a direct message from the token owner to a single user.
type DirectFlow struct {
	Env         LookupEnvFunc
	MessageFile string
	// Email and Username select the recipient. Exactly one must be set, here or through
	// MATTERMOST_DIRECT_EMAIL / MATTERMOST_DIRECT_USERNAME.
	Email    string
	Username string
	Sender   receivers.WebhookSender
	Logger   log.Logger
}

// Run resolves the recipient, opens the direct channel and posts the message into it.
func (f *DirectFlow) Run(ctx context.Context) (*mattermost.Post, error) {
	l := loggerOrNop(f.Logger)

	msg, err := ResolveMessage(f.Env, f.MessageFile)
	if err != nil {
		return nil, err
	}
	cfg, err := ResolveAPIConfig(f.Env, msg)
	if err != nil {
		return nil, err
	}
	email, username, err := f.recipient()
	if err != nil {
		return nil, err
	}
	paths, err := ResolveAttachments(f.Env, msg)
	if err != nil {
		return nil, err
	}
	text, err := requireText(msg)
	if err != nil {
		return nil, err
	}

	client := mattermost.NewClient(cfg, receivers.Metadata{Name: "direct", Type: "mattermost-api"}, f.Sender, l)

	me, err := client.GetMe(ctx)
	if err != nil {
		return nil, err
	}
	var to *mattermost.User
	if email != "" {
		to, err = client.GetUserByEmail(ctx, email)
	} else {
		to, err = client.GetUserByUsername(ctx, username)
	}
	if err != nil {
		return nil, err
	}

	ch, err := client.CreateDirectChannel(ctx, me.ID, to.ID)
	if err != nil {
		return nil, err
	}
	level.Info(l).Log("msg", "Opened direct channel", "channel_id", ch.ID, "to", to.Username)

	var fileIDs []string
	if len(paths) > 0 {
		if fileIDs, err = client.UploadFiles(ctx, ch.ID, paths); err != nil {
			return nil, err
		}
	}
	return client.CreatePost(ctx, ch.ID, text, fileIDs)
}

func (f *DirectFlow) recipient() (email, username string, err error) {
	email = strings.TrimSpace(f.Email)
	username = strings.TrimSpace(f.Username)
	if email == "" && username == "" {
		email = strings.TrimSpace(f.Env.get(EnvDirectEmail))
		username = strings.TrimSpace(f.Env.get(EnvDirectUsername))
	}

	switch {
	case email == "" && username == "":
		return "", "", &InvalidRecipientError{Reason: "an email or a username is required"}
	case email != "" && username != "":
		return "", "", &InvalidRecipientError{Reason: "email and username are mutually exclusive"}
	case email != "" && !strfmt.IsEmail(email):
		return "", "", &InvalidRecipientError{Reason: "malformed email " + email}
	}
	return email, strings.TrimPrefix(username, "@"), nil
}
