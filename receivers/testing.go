package receivers

import (
	"context"
	"fmt"
)

// NotificationServiceMock records every request and replays a canned response to the request's
// Validation callback.
type NotificationServiceMock struct {
	WebhookCalls []SendWebhookSettings
	Webhook      SendWebhookSettings
	ShouldError  error
	// Responses are handed out in order, one per call. When exhausted, ResponseBody and StatusCode are used.
	Responses    []MockResponse
	ResponseBody []byte
	StatusCode   int
}

type MockResponse struct {
	Body       []byte
	StatusCode int
	Err        error
}

func (ns *NotificationServiceMock) SendWebhook(_ context.Context, cmd *SendWebhookSettings) error {
	ns.WebhookCalls = append(ns.WebhookCalls, *cmd)
	ns.Webhook = *cmd

	resp := MockResponse{Body: ns.ResponseBody, StatusCode: ns.StatusCode, Err: ns.ShouldError}
	if idx := len(ns.WebhookCalls) - 1; idx < len(ns.Responses) {
		resp = ns.Responses[idx]
	}
	if resp.Err != nil {
		return resp.Err
	}
	if resp.StatusCode == 0 {
		resp.StatusCode = 200
	}
	if cmd.Validation != nil {
		return cmd.Validation(resp.Body, resp.StatusCode)
	}
	if resp.StatusCode/100 != 2 {
		return fmt.Errorf("webhook response status %d", resp.StatusCode)
	}
	return nil
}

func MockNotificationService() *NotificationServiceMock { return &NotificationServiceMock{} }
