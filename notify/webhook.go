package notify

import (
	"context"
	"strings"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/singnet/mattermost-notify/receivers"
	"github.com/singnet/mattermost-notify/receivers/mattermost"
)

// Outcome tells the caller what a flow did.
type Outcome int

const (
	// Sent means the message was delivered.
	Sent Outcome = iota
	// Skipped means there was nothing to deliver and no request was made.
	Skipped
)

// WebhookFlow delivers the message through an incoming webhook.
type WebhookFlow struct {
	Env         LookupEnvFunc
	MessageFile string
	Sender      receivers.WebhookSender
	Logger      log.Logger
}

// Run resolves the message and the webhook settings and posts the message. An empty message is
// not an error: Run returns Skipped without contacting the webhook.
func (f *WebhookFlow) Run(ctx context.Context) (Outcome, error) {
	l := loggerOrNop(f.Logger)

	msg, err := ResolveMessage(f.Env, f.MessageFile)
	if err != nil {
		return Skipped, err
	}

	webhookURL := strings.TrimSpace(f.Env.get(EnvWebhookURL))
	if webhookURL == "" {
		return Skipped, &MissingRequiredFieldError{Field: EnvWebhookURL}
	}

	msg = MergeDisplayOverrides(f.Env, msg)
	if msg.IsEmpty() {
		level.Info(l).Log("msg", "Nothing to send", "file", f.MessageFile)
		return Skipped, nil
	}

	n := mattermost.NewWebhookNotifier(
		mattermost.WebhookConfig{URL: webhookURL},
		receivers.Metadata{Name: "webhook", Type: "mattermost-webhook"},
		f.Sender,
		l,
	)
	if err := n.Notify(ctx, msg); err != nil {
		return Skipped, err
	}
	return Sent, nil
}
