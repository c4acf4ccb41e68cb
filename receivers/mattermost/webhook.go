package mattermost

import (
	"context"
	"errors"
	"net/http"

	"github.com/go-kit/log"
	"github.com/go-kit/log/level"

	"github.com/singnet/mattermost-notify/models"
	"github.com/singnet/mattermost-notify/receivers"
)

// WebhookConfig configures delivery through an incoming webhook.
type WebhookConfig struct {
	URL string
}

// WebhookNotifier is responsible for sending messages to a Mattermost incoming webhook.
type WebhookNotifier struct {
	*receivers.Base
	ns       receivers.WebhookSender
	settings WebhookConfig
}

func NewWebhookNotifier(cfg WebhookConfig, meta receivers.Metadata, sender receivers.WebhookSender, logger log.Logger) *WebhookNotifier {
	return &WebhookNotifier{
		Base:     receivers.NewBase(meta, logger),
		ns:       sender,
		settings: cfg,
	}
}

// Notify posts msg as a JSON object to the webhook URL. The incoming webhook needs no
// authentication; the URL itself is the secret.
func (wn *WebhookNotifier) Notify(ctx context.Context, msg models.Message) error {
	l := wn.GetLogger(ctx)
	if wn.settings.URL == "" {
		return &DeliveryError{Err: errors.New("webhook URL is empty")}
	}

	body, err := models.JSON.Marshal(msg)
	if err != nil {
		return &DeliveryError{Err: err}
	}

	cmd := &receivers.SendWebhookSettings{
		URL:        wn.settings.URL,
		Body:       string(body),
		HTTPMethod: http.MethodPost,
	}
	if err := wn.ns.SendWebhook(ctx, cmd); err != nil {
		level.Error(l).Log("msg", "Failed to send Mattermost webhook", "err", err)
		return &DeliveryError{Err: err}
	}

	level.Debug(l).Log("msg", "Mattermost webhook delivered", "fields", len(msg))
	return nil
}
