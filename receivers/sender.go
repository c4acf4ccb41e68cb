package receivers

import "context"

// SendWebhookSettings is the command for sending a single HTTP request.
type SendWebhookSettings struct {
	URL         string
	Body        string
	HTTPMethod  string
	HTTPHeader  map[string]string
	ContentType string
	// Validation is called with the response body and status code. A returned error fails the request.
	Validation func(body []byte, statusCode int) error
}

type WebhookSender interface {
	SendWebhook(ctx context.Context, cmd *SendWebhookSettings) error
}
